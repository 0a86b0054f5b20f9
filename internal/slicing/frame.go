package slicing

import (
	"fmt"

	"github.com/alacrity-engine/sheet-slicer/internal/geom"
	"github.com/alacrity-engine/sheet-slicer/internal/sheet"
	"github.com/alacrity-engine/sheet-slicer/internal/trim"
)

// Frame is the geometry of a single slice.
type Frame struct {
	Rect  geom.Rect
	Pivot geom.Vec
}

// grid is the effective layout of a sheet
// after subdivision.
type grid struct {
	cols, rows   int
	cellW, cellH int
	padding      int
}

func gridOf(desc *sheet.Description, cfg Config) (grid, error) {
	if desc.NumColumns <= 0 || desc.NumRows <= 0 {
		return grid{}, &sheet.ConfigurationError{
			DescriptionID: desc.ID,
			Field:         "numColumns/numRows",
			Reason: fmt.Sprintf("grid of %dx%d frames has no cells",
				desc.NumColumns, desc.NumRows),
		}
	}

	cells := cfg.cells()

	if cells.Cols <= 0 || cells.Rows <= 0 {
		return grid{}, &sheet.ConfigurationError{
			DescriptionID: desc.ID,
			Field:         "subdivisions",
			Reason: fmt.Sprintf("subdivisions must be positive, got %dx%d",
				cells.Cols, cells.Rows),
		}
	}

	return grid{
		cols:    desc.NumColumns * cells.Cols,
		rows:    desc.NumRows * cells.Rows,
		cellW:   desc.FrameWidth / cells.Cols,
		cellH:   desc.FrameHeight / cells.Rows,
		padding: desc.PaddingHeight,
	}, nil
}

// cell returns the rectangle of the frame. Sheets are laid out
// row-major from the top-left corner while rectangles have their
// origin at the bottom-left, so rows are flipped. Padding is only
// ever on the right and at the bottom of a sheet; the left edges
// line up, so only vertical padding shifts the rectangle.
func (g grid) cell(frameIndex int) (row, col int, rect geom.IntRect) {
	row = g.rows - frameIndex/g.cols - 1
	col = frameIndex % g.cols

	return row, col, geom.IntRect{
		X: g.cellW * col,
		Y: g.padding + g.cellH*row,
		W: g.cellW,
		H: g.cellH,
	}
}

// DeriveFrame computes the rectangle and pivot of the frame
// with the given linear index. pixels is only read when
// trimming is enabled.
func DeriveFrame(desc *sheet.Description, frameIndex int, cfg Config, pixels trim.PixelBuffer) (Frame, error) {
	g, err := gridOf(desc, cfg)

	if err != nil {
		return Frame{}, err
	}

	if frameIndex < 0 || frameIndex >= g.cols*g.rows {
		return Frame{}, &sheet.OutOfRangeError{
			DescriptionID: desc.ID,
			What:          "frame",
			Index:         frameIndex,
			Limit:         g.cols * g.rows,
		}
	}

	_, _, rect := g.cell(frameIndex)

	if cfg.Trim {
		if pixels == nil {
			return Frame{}, &sheet.ConfigurationError{
				DescriptionID: desc.ID,
				Field:         "trimIndividualSprites",
				Reason:        "trimming requires the pixels of the texture",
			}
		}

		rect = trim.FindRegion(pixels, rect, cfg.TrimAlphaThreshold)
	}

	frame := Frame{Rect: rect.Rect()}
	frame.Pivot, err = pivotOf(desc, frame.Rect, cfg)

	if err != nil {
		return Frame{}, err
	}

	return frame, nil
}

var alignmentPivots = map[PivotPlacement]geom.Vec{
	PivotCenter:      geom.V(0.5, 0.5),
	PivotTopLeft:     geom.V(0, 1),
	PivotTop:         geom.V(0.5, 1),
	PivotTopRight:    geom.V(1, 1),
	PivotLeft:        geom.V(0, 0.5),
	PivotRight:       geom.V(1, 0.5),
	PivotBottomLeft:  geom.V(0, 0),
	PivotBottom:      geom.V(0.5, 0),
	PivotBottomRight: geom.V(1, 0),
}

func pivotOf(desc *sheet.Description, rect geom.Rect, cfg Config) (geom.Vec, error) {
	if cfg.Pivot != PivotCustom {
		pivot, ok := alignmentPivots[cfg.Pivot]

		if !ok {
			return geom.Vec{}, &sheet.ConfigurationError{
				DescriptionID: desc.ID,
				Field:         "pivotPlacement",
				Reason:        fmt.Sprintf("unknown pivot placement %d", cfg.Pivot),
			}
		}

		return pivot, nil
	}

	switch cfg.CustomPivot {
	case CustomPivotTilemap:
		return tilemapPivot(rect, cfg.TilemapGridSize, cfg.PixelsPerUnit), nil

	default:
		return geom.Vec{}, &sheet.ConfigurationError{
			DescriptionID: desc.ID,
			Field:         "customPivotMode",
			Reason:        fmt.Sprintf("unknown custom pivot mode %d", cfg.CustomPivot),
		}
	}
}

// tilemapPivot places the pivot so the sprite's first tile is
// centered on a grid cell. A dimension with no extent (a fully
// trimmed sprite) falls back to the center.
func tilemapPivot(rect geom.Rect, gridSize geom.Vec, pixelsPerUnit float64) geom.Vec {
	axis := func(extent, cell float64) float64 {
		tiles := extent / (pixelsPerUnit * cell)

		if tiles <= 0 {
			return 0.5
		}

		return 1 / (2 * tiles)
	}

	return geom.V(axis(rect.W, gridSize.X), axis(rect.H, gridSize.Y))
}

// Warnings lists configuration problems that don't prevent
// slicing, such as frames not dividing evenly into subdivisions.
func Warnings(desc *sheet.Description, cfg Config) []string {
	cells := cfg.cells()

	if cells.Cols <= 0 || cells.Rows <= 0 {
		return nil
	}

	var warnings []string

	if desc.FrameWidth%cells.Cols != 0 {
		warnings = append(warnings, fmt.Sprintf(
			"sprite width %d is not divisible by %d subdivision columns; using %d",
			desc.FrameWidth, cells.Cols, desc.FrameWidth/cells.Cols))
	}

	if desc.FrameHeight%cells.Rows != 0 {
		warnings = append(warnings, fmt.Sprintf(
			"sprite height %d is not divisible by %d subdivision rows; using %d",
			desc.FrameHeight, cells.Rows, desc.FrameHeight/cells.Rows))
	}

	return warnings
}
