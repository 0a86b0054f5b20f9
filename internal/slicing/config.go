package slicing

import (
	"fmt"
	"strings"

	"github.com/alacrity-engine/sheet-slicer/internal/geom"
	"github.com/alacrity-engine/sheet-slicer/internal/sheet"
)

// PivotPlacement says where the pivot of each slice goes.
type PivotPlacement int

const (
	// PivotCenter puts the pivot in the middle of the slice.
	// The eight placements after it align the pivot
	// to the named edge or corner of the slice.
	PivotCenter PivotPlacement = iota
	PivotTopLeft
	PivotTop
	PivotTopRight
	PivotLeft
	PivotRight
	PivotBottomLeft
	PivotBottom
	PivotBottomRight
	// PivotCustom computes the pivot according to a CustomPivotMode.
	PivotCustom
)

var pivotNames = map[string]PivotPlacement{
	"center":       PivotCenter,
	"top_left":     PivotTopLeft,
	"top":          PivotTop,
	"top_right":    PivotTopRight,
	"left":         PivotLeft,
	"right":        PivotRight,
	"bottom_left":  PivotBottomLeft,
	"bottom":       PivotBottom,
	"bottom_right": PivotBottomRight,
	"custom":       PivotCustom,
}

// ParsePivotPlacement parses a pivot placement name
// such as "center" or "bottom_left". Empty means center.
func ParsePivotPlacement(name string) (PivotPlacement, error) {
	if name == "" {
		return PivotCenter, nil
	}

	placement, ok := pivotNames[strings.ToLower(name)]

	if !ok {
		return PivotCenter, &sheet.ConfigurationError{
			Field:  "pivotPlacement",
			Reason: fmt.Sprintf("unknown pivot placement %q", name),
		}
	}

	return placement, nil
}

// CustomPivotMode selects how custom pivots are computed.
type CustomPivotMode int

const (
	// CustomPivotTilemap aligns sprites to the cells of a tilemap grid.
	CustomPivotTilemap CustomPivotMode = iota
)

// ParseCustomPivotMode parses a custom pivot mode name.
// Empty means tilemap.
func ParseCustomPivotMode(name string) (CustomPivotMode, error) {
	switch strings.ToLower(name) {
	case "", "tilemap":
		return CustomPivotTilemap, nil
	default:
		return CustomPivotTilemap, &sheet.ConfigurationError{
			Field:  "customPivotMode",
			Reason: fmt.Sprintf("unknown custom pivot mode %q", name),
		}
	}
}

// StillMode decides how stills are enumerated
// when sprites are subdivided.
type StillMode int

const (
	// StillsMultiply multiplies the number of stills by the number
	// of cells in a subdivision and slices that many frames of the
	// subdivided grid, named {base}_{index}.
	StillsMultiply StillMode = iota
	// StillsExpand slices every cell of each still separately,
	// named {base}_{still}_{cell}.
	StillsExpand
)

// ParseStillMode parses "multiply" or "expand". Empty means multiply.
func ParseStillMode(name string) (StillMode, error) {
	switch strings.ToLower(name) {
	case "", "multiply":
		return StillsMultiply, nil
	case "expand":
		return StillsExpand, nil
	default:
		return StillsMultiply, &sheet.ConfigurationError{
			Field:  "stillSubdivision",
			Reason: fmt.Sprintf("unknown still subdivision mode %q", name),
		}
	}
}

// Subdivisions is how many columns and rows
// a single frame is split into.
type Subdivisions struct {
	Cols int `yaml:"cols"`
	Rows int `yaml:"rows"`
}

// Config controls how sheets are sliced.
type Config struct {
	Subdivide    bool
	Subdivisions Subdivisions
	Stills       StillMode

	Trim               bool
	TrimAlphaThreshold float64

	Pivot           PivotPlacement
	CustomPivot     CustomPivotMode
	TilemapGridSize geom.Vec
	PixelsPerUnit   float64

	FormatNames bool
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		Subdivisions:    Subdivisions{Cols: 1, Rows: 1},
		Pivot:           PivotCenter,
		CustomPivot:     CustomPivotTilemap,
		TilemapGridSize: geom.V(1, 1),
		PixelsPerUnit:   100,
		FormatNames:     true,
	}
}

// cells returns the effective subdivision.
func (c Config) cells() Subdivisions {
	if !c.Subdivide {
		return Subdivisions{Cols: 1, Rows: 1}
	}

	return c.Subdivisions
}

// Validate reports settings no frame can be derived with.
func (c Config) Validate() error {
	invalid := func(field, reason string) error {
		return &sheet.ConfigurationError{Field: field, Reason: reason}
	}

	cells := c.cells()

	if cells.Cols <= 0 || cells.Rows <= 0 {
		return invalid("subdivisions", fmt.Sprintf(
			"subdivisions must be positive, got %dx%d", cells.Cols, cells.Rows))
	}

	if c.Trim && (c.TrimAlphaThreshold < 0 || c.TrimAlphaThreshold > 1) {
		return invalid("trimAlphaThreshold", fmt.Sprintf(
			"threshold %v is outside [0, 1]", c.TrimAlphaThreshold))
	}

	if c.Stills != StillsMultiply && c.Stills != StillsExpand {
		return invalid("stillSubdivision", fmt.Sprintf("unknown mode %d", c.Stills))
	}

	if c.Pivot == PivotCustom && c.CustomPivot == CustomPivotTilemap {
		if c.PixelsPerUnit <= 0 {
			return invalid("pixelsPerUnit", "must be positive")
		}

		if c.TilemapGridSize.X <= 0 || c.TilemapGridSize.Y <= 0 {
			return invalid("tilemapGridSize", "must be positive")
		}
	}

	return nil
}

// FormatName replaces spaces and hyphens with
// underscores and lower-cases the name.
func FormatName(name string) string {
	name = strings.NewReplacer(" ", "_", "-", "_").Replace(name)
	return strings.ToLower(name)
}
