// Package settings reads the slicer's YAML settings file.
//
// The file has three parts: project-wide settings, default importer
// settings for every sheet, and per-sheet importer settings keyed by
// the description path. Importer settings written before they carried
// a version are migrated from the project settings when read.
package settings

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/alacrity-engine/sheet-slicer/internal/anim"
	"github.com/alacrity-engine/sheet-slicer/internal/geom"
	"github.com/alacrity-engine/sheet-slicer/internal/resolve"
	"github.com/alacrity-engine/sheet-slicer/internal/slicing"
)

// CurrentVersion is the version of importer settings
// written by this program.
const CurrentVersion = 1

// Project holds the settings shared by all sheets.
type Project struct {
	CreateAnimations             bool   `yaml:"createAnimations"`
	PlaceAnimationsInSubfolders  bool   `yaml:"placeAnimationsInSubfolders"`
	AnimationSubfolderNameFormat string `yaml:"animationSubfolderNameFormat"`
	SliceSecondaryTextures       bool   `yaml:"sliceSecondaryTextures"`
	SliceUnidentifiedTextures    bool   `yaml:"sliceUnidentifiedTextures"`
	FormatFileNames              bool   `yaml:"formatFileNames"`
}

// DefaultProject returns the project settings
// used when the file doesn't set them.
func DefaultProject() Project {
	return Project{
		CreateAnimations:             true,
		PlaceAnimationsInSubfolders:  true,
		AnimationSubfolderNameFormat: anim.DefaultSubfolderFormat,
		SliceSecondaryTextures:       false,
		SliceUnidentifiedTextures:    true,
		FormatFileNames:              true,
	}
}

// Defaults implements DefaultsProvider.
func (p Project) Defaults() Project {
	return p
}

// DefaultsProvider supplies the values unversioned
// importer settings are migrated from.
type DefaultsProvider interface {
	Defaults() Project
}

// Importer holds the settings of a single sheet.
type Importer struct {
	Version int `yaml:"version"`

	CreateAnimations            bool `yaml:"createAnimations"`
	PlaceAnimationsInSubfolders bool `yaml:"placeAnimationsInSubfolders"`

	TrimIndividualSprites     bool    `yaml:"trimIndividualSprites"`
	TrimAlphaThreshold        float64 `yaml:"trimAlphaThreshold"`
	SliceSecondaryTextures    bool    `yaml:"sliceSecondaryTextures"`
	SliceUnidentifiedTextures bool    `yaml:"sliceUnidentifiedTextures"`

	SubdivideSprites bool                 `yaml:"subdivideSprites"`
	Subdivisions     slicing.Subdivisions `yaml:"subdivisions"`
	StillSubdivision string               `yaml:"stillSubdivision"`

	PivotPlacement  string   `yaml:"pivotPlacement"`
	CustomPivotMode string   `yaml:"customPivotMode"`
	TilemapGridSize geom.Vec `yaml:"tilemapGridSize"`
	PixelsPerUnit   float64  `yaml:"pixelsPerUnit"`
}

// Migrate fills unversioned importer settings from the defaults
// and stamps them with the current version. It reports whether
// anything was migrated.
func Migrate(s *Importer, provider DefaultsProvider) bool {
	if s.Version != 0 {
		return false
	}

	defaults := provider.Defaults()

	s.CreateAnimations = defaults.CreateAnimations
	s.PlaceAnimationsInSubfolders = defaults.PlaceAnimationsInSubfolders
	s.SliceSecondaryTextures = defaults.SliceSecondaryTextures
	s.SliceUnidentifiedTextures = defaults.SliceUnidentifiedTextures
	s.Version = CurrentVersion

	return true
}

// SlicingConfig converts the settings into a slicing configuration.
// Unset sizes fall back to the slicer's defaults.
func (s Importer) SlicingConfig(formatNames bool) (slicing.Config, error) {
	cfg := slicing.DefaultConfig()
	var err error

	cfg.Trim = s.TrimIndividualSprites
	cfg.TrimAlphaThreshold = s.TrimAlphaThreshold
	cfg.Subdivide = s.SubdivideSprites
	cfg.FormatNames = formatNames

	if s.Subdivisions.Cols != 0 {
		cfg.Subdivisions.Cols = s.Subdivisions.Cols
	}

	if s.Subdivisions.Rows != 0 {
		cfg.Subdivisions.Rows = s.Subdivisions.Rows
	}

	if s.TilemapGridSize != (geom.Vec{}) {
		cfg.TilemapGridSize = s.TilemapGridSize
	}

	if s.PixelsPerUnit != 0 {
		cfg.PixelsPerUnit = s.PixelsPerUnit
	}

	cfg.Stills, err = slicing.ParseStillMode(s.StillSubdivision)

	if err != nil {
		return cfg, err
	}

	cfg.Pivot, err = slicing.ParsePivotPlacement(s.PivotPlacement)

	if err != nil {
		return cfg, err
	}

	cfg.CustomPivot, err = slicing.ParseCustomPivotMode(s.CustomPivotMode)

	if err != nil {
		return cfg, err
	}

	return cfg, cfg.Validate()
}

// TargetOptions returns which material textures get sliced.
func (s Importer) TargetOptions() resolve.TargetOptions {
	return resolve.TargetOptions{
		SliceSecondary:    s.SliceSecondaryTextures,
		SliceUnidentified: s.SliceUnidentifiedTextures,
	}
}

// File is the whole settings file.
type File struct {
	Project  Project             `yaml:"project"`
	Defaults Importer            `yaml:"defaults"`
	Sheets   map[string]Importer `yaml:"sheets,omitempty"`
}

// Default returns the settings used without a settings file.
func Default() *File {
	f := &File{Project: DefaultProject()}
	Migrate(&f.Defaults, f.Project)

	return f
}

// Read parses a settings file. Keys missing from
// the project section keep their defaults.
func Read(data []byte) (*File, error) {
	f := &File{Project: DefaultProject()}
	err := yaml.UnmarshalStrict(data, f)

	if err != nil {
		return nil, errors.Wrap(err, "parse settings")
	}

	sheets := make(map[string]Importer, len(f.Sheets))

	for id, s := range f.Sheets {
		sheets[key(id)] = s
	}

	f.Sheets = sheets
	Migrate(&f.Defaults, f.Project)

	return f, nil
}

// Load reads the settings file at path.
// A missing file yields the default settings.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)

	if os.IsNotExist(err) {
		return Default(), nil
	}

	if err != nil {
		return nil, errors.Wrapf(err, "read settings %q", path)
	}

	return Read(data)
}

// Marshal encodes the settings back to YAML.
func (f *File) Marshal() ([]byte, error) {
	return yaml.Marshal(f)
}

// For returns the importer settings of the description. Sheets
// without their own entry use the defaults.
func (f *File) For(descID string) Importer {
	s, ok := f.Sheets[key(descID)]

	if !ok {
		return f.Defaults
	}

	Migrate(&s, f.Project)

	return s
}

// MigrateAll migrates every unversioned sheet entry in place
// and returns how many were migrated.
func (f *File) MigrateAll() int {
	migrated := 0

	if Migrate(&f.Defaults, f.Project) {
		migrated++
	}

	for id, s := range f.Sheets {
		if Migrate(&s, f.Project) {
			f.Sheets[id] = s
			migrated++
		}
	}

	return migrated
}

// AnimOptions returns the clip naming options of the sheet.
func (f *File) AnimOptions(s Importer) anim.Options {
	return anim.Options{
		FormatNames:       f.Project.FormatFileNames,
		PlaceInSubfolders: s.PlaceAnimationsInSubfolders,
		SubfolderFormat:   f.Project.AnimationSubfolderNameFormat,
	}
}

func key(descID string) string {
	return filepath.ToSlash(filepath.Clean(descID))
}
