// Package trim finds the opaque part of sprite frames.
package trim

import (
	"github.com/alacrity-engine/sheet-slicer/internal/geom"
)

// PixelBuffer gives read access to the alpha
// channel of an image. The origin is the bottom-left
// corner, the same as for slice rectangles.
type PixelBuffer interface {
	Width() int
	Height() int
	// Alpha returns the alpha of the pixel in [0, 1].
	Alpha(x, y int) float64
}

// FindRegion returns the smallest rectangle within area containing
// every pixel with alpha above threshold, grown by one pixel on
// each trimmed edge. Edges are scanned independently, so transparent
// corners of a non-rectangular shape are kept. A fully transparent
// area yields a zero-area rectangle at the area's origin.
func FindRegion(buf PixelBuffer, area geom.IntRect, threshold float64) geom.IntRect {
	area = area.Intersect(geom.IntRect{W: buf.Width(), H: buf.Height()})

	if area.Empty() {
		return geom.IntRect{X: area.X, Y: area.Y}
	}

	opaque := func(x, y int) bool {
		return buf.Alpha(x, y) > threshold
	}

	rowEmpty := func(row, left, right int) bool {
		for col := left; col <= right; col++ {
			if opaque(col, row) {
				return false
			}
		}

		return true
	}

	colEmpty := func(col, bottom, top int) bool {
		for row := bottom; row <= top; row++ {
			if opaque(col, row) {
				return false
			}
		}

		return true
	}

	bottom, top := area.Y, area.MaxY()-1
	left, right := area.X, area.MaxX()-1

	// Bottom edge first; if it finds nothing,
	// the whole area is transparent.
	found := false

	for row := bottom; row <= top; row++ {
		if !rowEmpty(row, left, right) {
			bottom = max(row-1, bottom)
			found = true
			break
		}
	}

	if !found {
		return geom.IntRect{X: area.X, Y: area.Y}
	}

	for row := top; row >= bottom; row-- {
		if !rowEmpty(row, left, right) {
			top = min(row+1, top)
			break
		}
	}

	for col := left; col <= right; col++ {
		if !colEmpty(col, bottom, top) {
			left = max(col-1, left)
			break
		}
	}

	for col := right; col >= left; col-- {
		if !colEmpty(col, bottom, top) {
			right = min(col+1, right)
			break
		}
	}

	return geom.IntRect{
		X: left,
		Y: bottom,
		W: right - left + 1,
		H: top - bottom + 1,
	}
}
