package trim

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alacrity-engine/sheet-slicer/internal/geom"
)

// grid is an in-memory PixelBuffer.
// Rows are stored bottom first.
type grid struct {
	w, h  int
	alpha []float64
}

func newGrid(w, h int) *grid {
	return &grid{w: w, h: h, alpha: make([]float64, w*h)}
}

func (g *grid) Width() int              { return g.w }
func (g *grid) Height() int             { return g.h }
func (g *grid) Alpha(x, y int) float64  { return g.alpha[y*g.w+x] }
func (g *grid) set(x, y int, a float64) { g.alpha[y*g.w+x] = a }

func (g *grid) fill(r geom.IntRect, a float64) {
	for y := r.Y; y < r.MaxY(); y++ {
		for x := r.X; x < r.MaxX(); x++ {
			g.set(x, y, a)
		}
	}
}

func TestFindRegionAddsMargin(t *testing.T) {
	g := newGrid(16, 16)
	g.fill(geom.IntRect{X: 5, Y: 4, W: 3, H: 2}, 1)

	region := FindRegion(g, geom.IntRect{W: 16, H: 16}, 0)
	assert.Equal(t, geom.IntRect{X: 4, Y: 3, W: 5, H: 4}, region)
}

func TestFindRegionClampsToArea(t *testing.T) {
	g := newGrid(8, 8)
	g.fill(geom.IntRect{X: 0, Y: 0, W: 8, H: 2}, 1)

	region := FindRegion(g, geom.IntRect{W: 8, H: 8}, 0)
	assert.Equal(t, geom.IntRect{X: 0, Y: 0, W: 8, H: 3}, region)
}

func TestFindRegionSubArea(t *testing.T) {
	g := newGrid(64, 32)
	// Opaque pixel in the second frame of a 2x1 grid of 32px cells.
	g.set(40, 10, 1)
	// Opaque pixel in the first frame must not leak in.
	g.set(3, 3, 1)

	region := FindRegion(g, geom.IntRect{X: 32, Y: 0, W: 32, H: 32}, 0)
	assert.Equal(t, geom.IntRect{X: 39, Y: 9, W: 3, H: 3}, region)
}

func TestFindRegionTransparent(t *testing.T) {
	g := newGrid(8, 8)
	area := geom.IntRect{X: 4, Y: 2, W: 4, H: 4}

	region := FindRegion(g, area, 0)
	assert.True(t, region.Empty())
	assert.Equal(t, geom.IntRect{X: 4, Y: 2}, region)
}

func TestFindRegionThreshold(t *testing.T) {
	g := newGrid(8, 8)
	g.set(1, 1, 0.25)
	g.set(5, 5, 0.75)

	assert.Equal(t, geom.IntRect{X: 0, Y: 0, W: 7, H: 7},
		FindRegion(g, geom.IntRect{W: 8, H: 8}, 0.1))
	assert.Equal(t, geom.IntRect{X: 4, Y: 4, W: 3, H: 3},
		FindRegion(g, geom.IntRect{W: 8, H: 8}, 0.5))
	// Alpha equal to the threshold counts as empty.
	assert.True(t, FindRegion(g, geom.IntRect{W: 8, H: 8}, 0.75).Empty())
}

func TestFindRegionIdempotent(t *testing.T) {
	g := newGrid(20, 20)
	g.fill(geom.IntRect{X: 3, Y: 6, W: 4, H: 9}, 1)
	g.set(12, 7, 0.6)
	g.set(19, 19, 1)

	areas := []geom.IntRect{
		{W: 20, H: 20},
		{X: 2, Y: 2, W: 12, H: 12},
		{X: 10, Y: 5, W: 10, H: 15},
	}

	for _, area := range areas {
		first := FindRegion(g, area, 0.5)
		second := FindRegion(g, first, 0.5)
		assert.Equal(t, first, second, "area %v", area)
	}
}

func TestFindRegionKeepsNotches(t *testing.T) {
	g := newGrid(10, 10)
	// L-shape: the top-right corner of the bounding box is transparent.
	g.fill(geom.IntRect{X: 2, Y: 2, W: 6, H: 2}, 1)
	g.fill(geom.IntRect{X: 2, Y: 2, W: 2, H: 6}, 1)

	region := FindRegion(g, geom.IntRect{W: 10, H: 10}, 0)
	assert.Equal(t, geom.IntRect{X: 1, Y: 1, W: 8, H: 8}, region)
}

func TestFindRegionClipsAreaToBuffer(t *testing.T) {
	g := newGrid(4, 4)
	g.set(3, 3, 1)

	region := FindRegion(g, geom.IntRect{X: 2, Y: 2, W: 10, H: 10}, 0)
	assert.Equal(t, geom.IntRect{X: 2, Y: 2, W: 2, H: 2}, region)
}

func TestImageBufferBottomLeftOrigin(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	// Top-left pixel in image space.
	img.SetNRGBA(0, 0, color.NRGBA{A: 255})
	img.SetNRGBA(2, 1, color.NRGBA{A: 51})

	buf := NewImageBuffer(img)
	require.Equal(t, 3, buf.Width())
	require.Equal(t, 2, buf.Height())

	assert.Equal(t, 1.0, buf.Alpha(0, 1))
	assert.Equal(t, 0.0, buf.Alpha(0, 0))
	assert.InDelta(t, 0.2, buf.Alpha(2, 0), 1e-9)
}

func TestImageBufferConvertsOtherModels(t *testing.T) {
	img := image.NewRGBA(image.Rect(10, 10, 12, 12))
	img.SetRGBA(10, 11, color.RGBA{R: 255, A: 255})

	buf := NewImageBuffer(img)
	assert.Equal(t, 2, buf.Width())
	assert.Equal(t, 1.0, buf.Alpha(0, 0))
	assert.Equal(t, 0.0, buf.Alpha(1, 1))
}
