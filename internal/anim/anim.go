// Package anim turns animation definitions into
// time-keyed sequences of sprite slices.
package anim

import (
	"fmt"
	"math"
	"path"
	"strings"

	"github.com/alacrity-engine/core/math/geometry"
	codec "github.com/alacrity-engine/resource-codec"

	"github.com/alacrity-engine/sheet-slicer/internal/sheet"
	"github.com/alacrity-engine/sheet-slicer/internal/slicing"
)

// DefaultSubfolderFormat is the group name used for animations
// captured from several rotations.
const DefaultSubfolderFormat = "Animation - {anim}"

// Options control clip naming.
type Options struct {
	FormatNames       bool
	PlaceInSubfolders bool
	// SubfolderFormat may contain {anim} and {obj},
	// replaced by the animation and object names.
	SubfolderFormat string
}

// Sample shows the slice at SliceIndex from Time seconds on.
type Sample struct {
	Time       float64
	SliceIndex int
}

// Curve is the frame curve of one animation clip.
type Curve struct {
	ClipName string
	// Group is the subfolder the clip belongs
	// to. Empty if the clip isn't grouped.
	Group     string
	FrameRate int
	// FrameDuration is how long each sample is shown, in seconds.
	FrameDuration float64
	Samples       []Sample
}

// Key returns the clip's path within its sheet.
func (c *Curve) Key() string {
	if c.Group == "" {
		return c.ClipName
	}

	return path.Join(c.Group, c.ClipName)
}

// DeriveCurve builds the frame curve of animation. Sample i shows
// primary slice startFrame+i, advancing frameSkip+1 frames per sample.
// The rotation is added to the clip name only if other animations of
// the description share its name.
func DeriveCurve(desc *sheet.Description, animation sheet.AnimationDef, primary []slicing.FrameSlice, opts Options) (*Curve, error) {
	if animation.FrameRate <= 0 {
		return nil, &sheet.ConfigurationError{
			DescriptionID: desc.ID,
			Field:         "frameRate",
			Reason: fmt.Sprintf("animation %q has frame rate %d",
				animation.Name, animation.FrameRate),
		}
	}

	format := func(name string) string {
		if opts.FormatNames {
			return slicing.FormatName(name)
		}

		return name
	}

	ambiguous := desc.CountAnimations(animation.Name) > 1
	clipName := desc.BaseName + "_" + animation.Name

	if ambiguous {
		clipName += "_rot" + padRotation(animation.Rotation)
	}

	curve := &Curve{
		ClipName:      format(clipName),
		FrameRate:     animation.FrameRate,
		FrameDuration: float64(animation.FrameSkip+1) / float64(animation.FrameRate),
		Samples:       make([]Sample, 0, animation.NumFrames),
	}

	if ambiguous && opts.PlaceInSubfolders {
		subfolder := opts.SubfolderFormat

		if subfolder == "" {
			subfolder = DefaultSubfolderFormat
		}

		curve.Group = strings.NewReplacer(
			"{anim}", format(animation.Name),
			"{obj}", format(desc.BaseName),
		).Replace(subfolder)
	}

	for i := 0; i < animation.NumFrames; i++ {
		index := animation.StartFrame + i

		if index < 0 || index >= len(primary) {
			return nil, &sheet.OutOfRangeError{
				DescriptionID: desc.ID,
				What:          fmt.Sprintf("animation %q", animation.Name),
				Index:         index,
				Limit:         len(primary),
			}
		}

		frameOffset := i * (animation.FrameSkip + 1)

		curve.Samples = append(curve.Samples, Sample{
			Time:       float64(frameOffset) / float64(animation.FrameRate),
			SliceIndex: index,
		})
	}

	return curve, nil
}

// DeriveAll derives the curves of every animation
// of the description in definition order.
func DeriveAll(desc *sheet.Description, primary []slicing.FrameSlice, opts Options) ([]*Curve, error) {
	curves := make([]*Curve, 0, len(desc.Animations))

	for _, animation := range desc.Animations {
		curve, err := DeriveCurve(desc, animation, primary, opts)

		if err != nil {
			return nil, err
		}

		curves = append(curves, curve)
	}

	return curves, nil
}

// Encode converts the curve into engine animation data
// referencing the texture. Durations are in milliseconds.
func (c *Curve) Encode(textureID string, primary []slicing.FrameSlice) (*codec.AnimationData, error) {
	data := &codec.AnimationData{
		TextureID: textureID,
		Frames:    make([]geometry.Rect, 0, len(c.Samples)),
		Durations: make([]int32, 0, len(c.Samples)),
	}

	duration := int32(math.Round(c.FrameDuration * 1000))

	for _, sample := range c.Samples {
		if sample.SliceIndex < 0 || sample.SliceIndex >= len(primary) {
			return nil, fmt.Errorf("clip %q references slice %d of %d",
				c.ClipName, sample.SliceIndex, len(primary))
		}

		data.Frames = append(data.Frames, primary[sample.SliceIndex].Rect.Engine())
		data.Durations = append(data.Durations, duration)
	}

	return data, nil
}

// Tags groups clip keys by tag: the group of grouped
// clips, the fallback tag for the rest.
func Tags(fallback string, curves []*Curve) map[string][]string {
	tags := map[string][]string{}

	for _, curve := range curves {
		tag := curve.Group

		if tag == "" {
			tag = fallback
		}

		tags[tag] = append(tags[tag], curve.Key())
	}

	return tags
}

func padRotation(rotation float64) string {
	text := slicing.FormatRotation(rotation)

	if len(text) < 3 {
		text = strings.Repeat("0", 3-len(text)) + text
	}

	return text
}
