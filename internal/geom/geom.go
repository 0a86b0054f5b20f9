package geom

import (
	"math"

	"github.com/alacrity-engine/core/math/geometry"
)

// Vec is a 2D point or size.
type Vec struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// V is a shorthand for Vec{x, y}.
func V(x, y float64) Vec {
	return Vec{X: x, Y: y}
}

// IntRect is a rectangle on the pixel grid.
// The origin is the bottom-left corner.
type IntRect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// Rect is a rectangle in texture space.
// The origin is the bottom-left corner.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// MaxX returns the exclusive right edge.
func (r IntRect) MaxX() int {
	return r.X + r.W
}

// MaxY returns the exclusive top edge.
func (r IntRect) MaxY() int {
	return r.Y + r.H
}

// Empty reports whether the rectangle has no area.
func (r IntRect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Contains reports whether the pixel (x, y) lies inside the rectangle.
func (r IntRect) Contains(x, y int) bool {
	return x >= r.X && x < r.MaxX() && y >= r.Y && y < r.MaxY()
}

// Intersect returns the largest rectangle contained by both r and s.
// If they don't overlap, a zero-area rectangle at r's origin is returned.
func (r IntRect) Intersect(s IntRect) IntRect {
	x0, y0 := max(r.X, s.X), max(r.Y, s.Y)
	x1, y1 := min(r.MaxX(), s.MaxX()), min(r.MaxY(), s.MaxY())

	if x0 >= x1 || y0 >= y1 {
		return IntRect{X: r.X, Y: r.Y}
	}

	return IntRect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Rect converts the rectangle to texture space.
func (r IntRect) Rect() Rect {
	return Rect{
		X: float64(r.X),
		Y: float64(r.Y),
		W: float64(r.W),
		H: float64(r.H),
	}
}

// IntRect snaps the rectangle outwards to the pixel grid.
// Rectangles with integer coordinates convert without loss.
func (r Rect) IntRect() IntRect {
	x0, y0 := math.Floor(r.X), math.Floor(r.Y)
	x1, y1 := math.Ceil(r.X+r.W), math.Ceil(r.Y+r.H)

	return IntRect{
		X: int(x0),
		Y: int(y0),
		W: int(x1 - x0),
		H: int(y1 - y0),
	}
}

// Engine converts the rectangle to the engine's
// min/max representation. Both use a bottom-left origin.
func (r Rect) Engine() geometry.Rect {
	return geometry.R(r.X, r.Y, r.X+r.W, r.Y+r.H)
}
