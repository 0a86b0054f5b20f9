// Package pipeline processes batches of changed assets: it finds the
// descriptions they belong to, slices every texture of each description
// once and stores the results and animation clips.
package pipeline

import (
	"context"
	stderrors "errors"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/maruel/natural"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/alacrity-engine/sheet-slicer/internal/resolve"
	"github.com/alacrity-engine/sheet-slicer/internal/settings"
	"github.com/alacrity-engine/sheet-slicer/internal/sheet"
	"github.com/alacrity-engine/sheet-slicer/internal/slicing"
	"github.com/alacrity-engine/sheet-slicer/internal/store"
	"github.com/alacrity-engine/sheet-slicer/internal/trim"
)

// ImageExtensions are the texture file types the pipeline reacts to.
var ImageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
	".webp": true,
}

// ImageLoader provides the pixels of a texture.
type ImageLoader interface {
	Load(path string) (trim.PixelBuffer, error)
}

// ImageLoaderFunc adapts a function to ImageLoader.
type ImageLoaderFunc func(path string) (trim.PixelBuffer, error)

// Load calls f(path).
func (f ImageLoaderFunc) Load(path string) (trim.PixelBuffer, error) {
	return f(path)
}

// FileLoader decodes textures from disk.
var FileLoader = ImageLoaderFunc(func(path string) (trim.PixelBuffer, error) {
	buf, err := trim.Open(path)

	if err != nil {
		return nil, err
	}

	return buf, nil
})

// Processor runs batches against a resource file.
type Processor struct {
	store    *store.Store
	settings *settings.File
	loader   ImageLoader
	logger   zerolog.Logger
	slicer   *slicing.Slicer
	workers  int
	progress func()
}

// Option configures a Processor.
type Option func(p *Processor)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(p *Processor) {
		p.logger = logger
	}
}

// WithLoader sets where texture pixels come from.
func WithLoader(loader ImageLoader) Option {
	return func(p *Processor) {
		p.loader = loader
	}
}

// WithWorkers sets how many descriptions are processed at once.
func WithWorkers(n int) Option {
	return func(p *Processor) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithProgress sets a function called after each description.
func WithProgress(progress func()) Option {
	return func(p *Processor) {
		p.progress = progress
	}
}

// NewProcessor creates a processor writing to st.
func NewProcessor(st *store.Store, cfg *settings.File, opts ...Option) *Processor {
	p := &Processor{
		store:    st,
		settings: cfg,
		loader:   FileLoader,
		logger:   zerolog.Nop(),
		workers:  1,
		progress: func() {},
	}

	for _, opt := range opts {
		opt(p)
	}

	p.slicer = slicing.NewSlicer(p.logger)

	return p
}

// Report is the outcome of a batch.
type Report struct {
	BatchID uuid.UUID
	Results []Result
	// Failed lists assets whose description
	// couldn't even be determined.
	Failed []AssetError
}

// AssetError is an error about an asset
// before any description was known.
type AssetError struct {
	Asset string
	Err   error
}

// Result is the outcome for one description.
type Result struct {
	Description      string
	Sliced           []string
	Changed          []string
	SecondaryChanged bool
	Clips            []string
	Unrecognized     []string
	Err              error
}

// Err joins all errors of the report.
func (r *Report) Err() error {
	var errs []error

	for _, failure := range r.Failed {
		errs = append(errs, errors.Wrapf(failure.Err, "asset %q", failure.Asset))
	}

	for _, result := range r.Results {
		if result.Err != nil {
			errs = append(errs, errors.Wrapf(result.Err, "data file %q", result.Description))
		}
	}

	return joinErrors(errs)
}

// Pending collects the descriptions the assets belong to,
// skipping descriptions the batch has already seen.
func (p *Processor) Pending(assets []string, batch *resolve.Batch) ([]*sheet.Description, []AssetError) {
	var (
		descs    []*sheet.Description
		failures []AssetError
	)

	for _, asset := range assets {
		desc, err := p.describe(asset)

		if err != nil {
			p.logger.Error().Err(err).Str("asset", asset).Msg("can't determine data file")
			failures = append(failures, AssetError{Asset: asset, Err: err})
			continue
		}

		if desc == nil {
			continue
		}

		if !batch.TryMark(desc.ID) {
			p.logger.Debug().Str("desc", desc.ID).
				Msg("data file has already been processed in this batch; skipping")
			continue
		}

		descs = append(descs, desc)
	}

	return descs, failures
}

func (p *Processor) describe(asset string) (*sheet.Description, error) {
	ext := strings.ToLower(filepath.Ext(asset))

	switch {
	case ext == sheet.Extension:
		return sheet.Load(asset)

	case ImageExtensions[ext]:
		return FindDescription(asset, p.logger)

	default:
		return nil, nil
	}
}

// completed drops the results of descriptions that never ran.
func completed(results []Result) []Result {
	ran := results[:0]

	for _, result := range results {
		if result.Description != "" {
			ran = append(ran, result)
		}
	}

	return ran
}

// FindDescription loads the data files next to the image
// and returns the one referencing it, if any.
func FindDescription(imagePath string, logger zerolog.Logger) (*sheet.Description, error) {
	paths, err := filepath.Glob(filepath.Join(filepath.Dir(imagePath), "*"+sheet.Extension))

	if err != nil {
		return nil, err
	}

	sort.Sort(natural.StringSlice(paths))

	logger.Debug().Str("image", imagePath).Int("candidates", len(paths)).
		Msg("searching for data files referencing the image")

	descs := make([]*sheet.Description, 0, len(paths))

	for _, path := range paths {
		desc, err := sheet.Load(path)

		if err != nil {
			return nil, errors.Wrapf(err, "load data file %q", path)
		}

		descs = append(descs, desc)
	}

	return resolve.ResolveForImage(descs, filepath.Base(imagePath))
}

// ProcessBatch processes everything the assets belong to. Errors of one
// description don't stop the others; they are collected in the report.
func (p *Processor) ProcessBatch(ctx context.Context, assets []string) (*Report, error) {
	started := time.Now()
	report := &Report{BatchID: uuid.New()}

	descs, failures := p.Pending(assets, resolve.NewBatch())
	report.Failed = failures
	report.Results = make([]Result, len(descs))

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(p.workers)

	for i, desc := range descs {
		i, desc := i, desc

		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			report.Results[i] = p.Process(desc)
			p.progress()

			return nil
		})
	}

	err := group.Wait()

	if err != nil {
		report.Results = completed(report.Results)
		return report, err
	}

	record := store.BatchRecord{
		Started:  started,
		Finished: time.Now(),
	}

	for _, result := range report.Results {
		record.Descriptions = append(record.Descriptions, result.Description)

		if result.Err != nil {
			record.Failed = append(record.Failed, result.Description)
		}
	}

	for _, failure := range report.Failed {
		record.Failed = append(record.Failed, failure.Asset)
	}

	err = p.store.RecordBatch(report.BatchID, record)

	if err != nil {
		return report, err
	}

	return report, report.Err()
}

func joinErrors(errs []error) error {
	return stderrors.Join(errs...)
}
