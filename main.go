package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"

	"github.com/maruel/natural"
	"github.com/rs/zerolog"
	"github.com/schollz/progressbar/v3"

	"github.com/alacrity-engine/sheet-slicer/internal/pipeline"
	"github.com/alacrity-engine/sheet-slicer/internal/settings"
	"github.com/alacrity-engine/sheet-slicer/internal/sheet"
	"github.com/alacrity-engine/sheet-slicer/internal/store"
)

var (
	settingsPath     string
	resourceFilePath string
	reportPath       string
	workers          int
	showProgress     bool
	verbose          bool
	migrateSettings  bool
)

func parseFlags() {
	flag.StringVar(&settingsPath, "settings", "./slicer.yml",
		"Path to the slicer settings file.")
	flag.StringVar(&resourceFilePath, "out", "./stage.res",
		"Resource file to store slices and animations.")
	flag.StringVar(&reportPath, "report", "",
		"Path to write the YAML batch report to, if set.")
	flag.IntVar(&workers, "workers", 1,
		"Number of data files to process at once.")
	flag.BoolVar(&showProgress, "progress", false,
		"Show a progress indicator.")
	flag.BoolVar(&verbose, "verbose", false,
		"Log every processing step.")
	flag.BoolVar(&migrateSettings, "migrate", false,
		"Write unversioned sheet settings back to the settings file.")

	flag.Parse()
}

func main() {
	parseFlags()

	logger := newLogger(verbose)

	// Read the settings.
	cfg, err := settings.Load(settingsPath)
	handleError(err)

	if migrateSettings {
		err = writeMigratedSettings(cfg, logger)
		handleError(err)
	}

	// Open the resource file.
	resourceFile, err := store.Open(resourceFilePath)
	handleError(err)
	defer resourceFile.Close()

	assets, err := collectAssets(flag.Args())
	handleError(err)

	opts := []pipeline.Option{
		pipeline.WithLogger(logger),
		pipeline.WithWorkers(workers),
	}

	if showProgress {
		bar := progressbar.Default(-1, "slicing")
		defer bar.Finish()

		opts = append(opts, pipeline.WithProgress(func() {
			bar.Add(1)
		}))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	processor := pipeline.NewProcessor(resourceFile, cfg, opts...)
	report, err := processor.ProcessBatch(ctx, assets)

	if reportPath != "" && report != nil {
		writeErr := NewBatchMeta(report).Write(reportPath)

		if writeErr != nil {
			logger.Error().Err(writeErr).Str("path", reportPath).
				Msg("can't write the batch report")
		}
	}

	if err != nil {
		logger.Error().Err(err).Msg("batch finished with errors")
		resourceFile.Close()
		os.Exit(1)
	}

	logger.Info().
		Str("batch", report.BatchID.String()).
		Int("descriptions", len(report.Results)).
		Msg("batch finished")
}

func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel

	if verbose {
		level = zerolog.DebugLevel
	}

	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// collectAssets expands directories into the data
// files they contain. With no arguments, the working
// directory is used.
func collectAssets(args []string) ([]string, error) {
	if len(args) == 0 {
		args = []string{"."}
	}

	var assets []string

	for _, arg := range args {
		info, err := os.Stat(arg)

		if err != nil {
			return nil, err
		}

		if !info.IsDir() {
			assets = append(assets, arg)
			continue
		}

		entries, err := os.ReadDir(arg)

		if err != nil {
			return nil, err
		}

		var found []string

		for _, entry := range entries {
			if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), sheet.Extension) {
				continue
			}

			found = append(found, filepath.Join(arg, entry.Name()))
		}

		sort.Sort(natural.StringSlice(found))
		assets = append(assets, found...)
	}

	return assets, nil
}

func writeMigratedSettings(cfg *settings.File, logger zerolog.Logger) error {
	migrated := cfg.MigrateAll()

	if migrated == 0 {
		return nil
	}

	data, err := cfg.Marshal()

	if err != nil {
		return err
	}

	logger.Info().Int("sheets", migrated).Str("path", settingsPath).
		Msg("migrated unversioned sheet settings")

	return os.WriteFile(settingsPath, data, 0666)
}

func handleError(err error) {
	if err != nil {
		panic(err)
	}
}
