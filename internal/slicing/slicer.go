package slicing

import (
	"fmt"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/alacrity-engine/sheet-slicer/internal/geom"
	"github.com/alacrity-engine/sheet-slicer/internal/sheet"
	"github.com/alacrity-engine/sheet-slicer/internal/trim"
)

// FrameSlice is a named sub-rectangle of a texture.
type FrameSlice struct {
	Name             string    `json:"name"`
	Rect             geom.Rect `json:"rect"`
	Pivot            geom.Vec  `json:"pivot"`
	SourceFrameIndex int       `json:"frame"`
}

// Equal compares the name, rectangle and pivot of two slices.
// The source frame index is not part of the comparison.
func (s FrameSlice) Equal(other FrameSlice) bool {
	return s.Name == other.Name &&
		s.Rect == other.Rect &&
		s.Pivot == other.Pivot
}

// ImportMode is how a texture is split into sprites.
type ImportMode int

const (
	// ModeNone means the texture has not been split yet.
	ModeNone ImportMode = iota
	// ModeSingle keeps the whole texture as one sprite.
	ModeSingle
	// ModeMultiple splits the texture into the slices of a SliceSet.
	ModeMultiple
)

// SliceSet is the full ordered list of slices for one texture.
type SliceSet struct {
	Mode   ImportMode   `json:"mode"`
	Slices []FrameSlice `json:"slices"`
}

// Changed reports whether next differs from the previously stored
// slice set in any way that requires regenerating artifacts.
// Slices are compared positionally.
func Changed(previous *SliceSet, next []FrameSlice) bool {
	if previous == nil || previous.Mode != ModeMultiple {
		return true
	}

	if len(previous.Slices) != len(next) {
		return true
	}

	for i := range next {
		if !next[i].Equal(previous.Slices[i]) {
			return true
		}
	}

	return false
}

// Slicer derives slice sets for sheet textures.
type Slicer struct {
	logger zerolog.Logger
}

// NewSlicer creates a new slicer logging to logger.
func NewSlicer(logger zerolog.Logger) *Slicer {
	return &Slicer{logger: logger}
}

// SliceImage slices a texture of the sheet: stills first, then
// every animation frame in definition order. The returned flag is
// set when the result differs from previous.
func (s *Slicer) SliceImage(desc *sheet.Description, cfg Config, previous *SliceSet, pixels trim.PixelBuffer) (*SliceSet, bool, error) {
	err := cfg.Validate()

	if err != nil {
		if cfgErr, ok := err.(*sheet.ConfigurationError); ok {
			cfgErr.DescriptionID = desc.ID
		}

		return nil, false, err
	}

	for _, warning := range Warnings(desc, cfg) {
		s.logger.Warn().Str("desc", desc.ID).Msg(warning)
	}

	set := &SliceSet{Mode: ModeMultiple}

	add := func(frame int, name string) error {
		if cfg.FormatNames {
			name = FormatName(name)
		}

		derived, err := DeriveFrame(desc, frame, cfg, pixels)

		if err != nil {
			return err
		}

		s.logger.Trace().
			Str("desc", desc.ID).
			Int("frame", frame).
			Str("name", name).
			Interface("rect", derived.Rect).
			Msg("derived frame")

		set.Slices = append(set.Slices, FrameSlice{
			Name:             name,
			Rect:             derived.Rect,
			Pivot:            derived.Pivot,
			SourceFrameIndex: frame,
		})

		return nil
	}

	for _, still := range stillFrames(desc, cfg) {
		err = add(still.frame, still.name)

		if err != nil {
			return nil, false, err
		}
	}

	for _, animation := range desc.Animations {
		for i := animation.StartFrame; i < animation.StartFrame+animation.NumFrames; i++ {
			name := fmt.Sprintf("%s_%s_rot%s_%d", desc.BaseName, animation.Name,
				FormatRotation(animation.Rotation), i-animation.StartFrame)
			err = add(i, name)

			if err != nil {
				return nil, false, err
			}
		}
	}

	changed := Changed(previous, set.Slices)

	s.logger.Debug().
		Str("desc", desc.ID).
		Int("slices", len(set.Slices)).
		Bool("changed", changed).
		Msg("sliced texture")

	return set, changed, nil
}

type stillFrame struct {
	frame int
	name  string
}

func stillFrames(desc *sheet.Description, cfg Config) []stillFrame {
	cells := cfg.cells()
	count := cells.Cols * cells.Rows
	var stills []stillFrame

	if cfg.Stills == StillsExpand && count > 1 {
		cols := desc.NumColumns * cells.Cols

		for i := range desc.Stills {
			baseRow, baseCol := i/desc.NumColumns, i%desc.NumColumns

			for sub := 0; sub < count; sub++ {
				row := baseRow*cells.Rows + sub/cells.Cols
				col := baseCol*cells.Cols + sub%cells.Cols

				stills = append(stills, stillFrame{
					frame: row*cols + col,
					name:  fmt.Sprintf("%s_%d_%d", desc.BaseName, i, sub),
				})
			}
		}

		return stills
	}

	// TODO: group subdivided stills by their original frame in the name
	// once existing artifacts can be migrated to new names.
	for i := 0; i < len(desc.Stills)*count; i++ {
		stills = append(stills, stillFrame{
			frame: i,
			name:  fmt.Sprintf("%s_%d", desc.BaseName, i),
		})
	}

	return stills
}

// FormatRotation prints a rotation without trailing zeros.
func FormatRotation(rotation float64) string {
	return strconv.FormatFloat(rotation, 'f', -1, 64)
}
