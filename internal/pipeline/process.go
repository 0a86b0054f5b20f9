package pipeline

import (
	"fmt"
	"path"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/alacrity-engine/sheet-slicer/internal/anim"
	"github.com/alacrity-engine/sheet-slicer/internal/resolve"
	"github.com/alacrity-engine/sheet-slicer/internal/settings"
	"github.com/alacrity-engine/sheet-slicer/internal/sheet"
	"github.com/alacrity-engine/sheet-slicer/internal/slicing"
	"github.com/alacrity-engine/sheet-slicer/internal/trim"
)

// Process slices every texture of the description, pairs its
// secondary textures and creates its animation clips.
func (p *Processor) Process(desc *sheet.Description) Result {
	result := Result{Description: desc.ID}
	logger := p.logger.With().Str("desc", desc.ID).Logger()

	err := p.process(desc, &result, logger)

	if err != nil {
		logger.Error().Err(err).Msg("import failed")
		result.Err = err

		return result
	}

	logger.Info().
		Int("textures", len(result.Sliced)).
		Int("changed", len(result.Changed)).
		Int("clips", len(result.Clips)).
		Msgf("import of assets referenced in %q completed successfully", desc.ID)

	return result
}

func (p *Processor) process(desc *sheet.Description, result *Result, logger zerolog.Logger) error {
	err := desc.Validate()

	if err != nil {
		return err
	}

	unrecognized, err := resolve.ValidateMaterialRoles(desc)

	if err != nil {
		return err
	}

	for _, material := range unrecognized {
		result.Unrecognized = append(result.Unrecognized, material.File)
	}

	if len(unrecognized) > 0 {
		logger.Warn().Strs("files", result.Unrecognized).
			Msgf("data file references %d materials of unknown purpose; these will need to be configured manually",
				len(unrecognized))
	}

	importer := p.settings.For(desc.ID)
	cfg, err := importer.SlicingConfig(p.settings.Project.FormatFileNames)

	if err != nil {
		return withDescription(err, desc.ID)
	}

	mainImage, err := resolve.MainImage(desc)

	if err != nil {
		return err
	}

	primary, err := p.sliceTargets(desc, importer, cfg, mainImage, result, logger)

	if err != nil {
		return err
	}

	if len(desc.Materials) > 0 {
		err = p.pairSecondary(desc, mainImage, result, logger)

		if err != nil {
			return err
		}
	}

	if importer.CreateAnimations && len(desc.Animations) > 0 {
		err = p.createClips(desc, importer, mainImage, primary, result, logger)

		if err != nil {
			return err
		}
	}

	return nil
}

func (p *Processor) sliceTargets(
	desc *sheet.Description, importer settings.Importer, cfg slicing.Config,
	mainImage string, result *Result, logger zerolog.Logger,
) (*slicing.SliceSet, error) {
	var primary *slicing.SliceSet

	for _, target := range resolve.Targets(desc, importer.TargetOptions()) {
		texturePath := desc.Path(target.File)
		var pixels trim.PixelBuffer

		if cfg.Trim {
			buf, err := p.loader.Load(texturePath)

			if err != nil {
				return nil, errors.Wrapf(err, "load texture %q", texturePath)
			}

			pixels = buf
		}

		previous, err := p.store.Slices(desc.ID, target.File)

		if err != nil {
			return nil, err
		}

		set, changed, err := p.slicer.SliceImage(desc, cfg, previous, pixels)

		if err != nil {
			return nil, err
		}

		logger.Info().Str("image", target.File).Int("slices", len(set.Slices)).
			Msg("texture has been sliced")
		result.Sliced = append(result.Sliced, target.File)

		if changed {
			logger.Debug().Str("image", target.File).Msg("slices changed; storing")
			err = p.store.PutSlices(desc.ID, target.File, set)

			if err != nil {
				return nil, err
			}

			result.Changed = append(result.Changed, target.File)
		} else {
			logger.Debug().Str("image", target.File).Msg("texture was already sliced correctly")
		}

		if target.File == mainImage {
			primary = set
		}
	}

	if primary == nil {
		return nil, &sheet.ConfigurationError{
			DescriptionID: desc.ID,
			Field:         "imageFile",
			Reason:        fmt.Sprintf("main texture %q was not sliced", mainImage),
		}
	}

	return primary, nil
}

func (p *Processor) pairSecondary(desc *sheet.Description, mainImage string, result *Result, logger zerolog.Logger) error {
	textures := resolve.SecondaryTextures(desc)
	key := filepath.ToSlash(desc.Path(mainImage))

	previous, found, err := p.store.Secondary(key)

	if err != nil {
		return err
	}

	if found && !resolve.SecondaryChanged(previous, textures) {
		return nil
	}

	logger.Debug().Int("textures", len(textures)).Msg("secondary textures changed")
	result.SecondaryChanged = true

	return p.store.PutSecondary(key, textures)
}

func (p *Processor) createClips(
	desc *sheet.Description, importer settings.Importer, mainImage string,
	primary *slicing.SliceSet, result *Result, logger zerolog.Logger,
) error {
	opts := p.settings.AnimOptions(importer)
	curves, err := anim.DeriveAll(desc, primary.Slices, opts)

	if err != nil {
		return err
	}

	dir := filepath.ToSlash(desc.Dir())
	textureID := filepath.ToSlash(desc.Path(mainImage))

	for _, curve := range curves {
		data, err := curve.Encode(textureID, primary.Slices)

		if err != nil {
			return err
		}

		key := path.Join(dir, curve.Key())
		err = p.store.PutAnimation(key, data)

		if err != nil {
			return err
		}

		logger.Debug().Str("clip", key).Int("frames", len(curve.Samples)).
			Msg("animation clip saved")
		result.Clips = append(result.Clips, key)
	}

	fallback := desc.BaseName

	if opts.FormatNames {
		fallback = slicing.FormatName(fallback)
	}

	tags := map[string][]string{}

	for tag, keys := range anim.Tags(fallback, curves) {
		full := make([]string, 0, len(keys))

		for _, key := range keys {
			full = append(full, path.Join(dir, key))
		}

		tags[path.Join(dir, tag)] = full
	}

	return p.store.PutTags(tags)
}

func withDescription(err error, id string) error {
	if cfgErr, ok := err.(*sheet.ConfigurationError); ok && cfgErr.DescriptionID == "" {
		cfgErr.DescriptionID = id
	}

	return err
}
