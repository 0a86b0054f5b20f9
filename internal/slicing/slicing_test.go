package slicing

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alacrity-engine/sheet-slicer/internal/geom"
	"github.com/alacrity-engine/sheet-slicer/internal/sheet"
)

type pixels struct {
	w, h   int
	opaque map[[2]int]bool
}

func (p *pixels) Width() int  { return p.w }
func (p *pixels) Height() int { return p.h }

func (p *pixels) Alpha(x, y int) float64 {
	if p.opaque[[2]int{x, y}] {
		return 1
	}

	return 0
}

func sheetDesc() *sheet.Description {
	return &sheet.Description{
		ID:          "art/hero.ssdata",
		BaseName:    "hero",
		FrameWidth:  32,
		FrameHeight: 32,
		NumColumns:  4,
		NumRows:     2,
	}
}

func TestDeriveFrameScenario(t *testing.T) {
	frame, err := DeriveFrame(sheetDesc(), 5, DefaultConfig(), nil)
	require.NoError(t, err)

	assert.Equal(t, geom.Rect{X: 32, Y: 0, W: 32, H: 32}, frame.Rect)
	assert.Equal(t, geom.V(0.5, 0.5), frame.Pivot)
}

func TestDeriveFrameRowColumnRoundTrip(t *testing.T) {
	desc := sheetDesc()
	desc.NumColumns, desc.NumRows = 5, 3
	g, err := gridOf(desc, DefaultConfig())
	require.NoError(t, err)

	for index := 0; index < g.cols*g.rows; index++ {
		row, col, rect := g.cell(index)

		assert.Equal(t, index, (g.rows-row-1)*g.cols+col)
		assert.Equal(t, col*32, rect.X)
		assert.Equal(t, row*32, rect.Y)
	}
}

func TestDeriveFrameVerticalPadding(t *testing.T) {
	desc := sheetDesc()
	desc.PaddingWidth = 7
	desc.PaddingHeight = 4

	frame, err := DeriveFrame(desc, 0, DefaultConfig(), nil)
	require.NoError(t, err)

	// Top-left frame of the sheet is the top row in bottom-left space.
	assert.Equal(t, geom.Rect{X: 0, Y: 36, W: 32, H: 32}, frame.Rect)
}

func TestDeriveFrameSubdivided(t *testing.T) {
	desc := sheetDesc()
	desc.FrameWidth, desc.FrameHeight = 64, 64

	cfg := DefaultConfig()
	cfg.Subdivide = true
	cfg.Subdivisions = Subdivisions{Cols: 2, Rows: 2}

	// 8x4 effective grid of 32px cells; index 9 is row 1 from the top.
	frame, err := DeriveFrame(desc, 9, cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, geom.Rect{X: 32, Y: 64, W: 32, H: 32}, frame.Rect)

	_, err = DeriveFrame(desc, 32, cfg, nil)
	var rangeErr *sheet.OutOfRangeError
	require.True(t, errors.As(err, &rangeErr))
	assert.Equal(t, 32, rangeErr.Limit)
}

func TestDeriveFrameSubdivisionRemainder(t *testing.T) {
	desc := sheetDesc()
	desc.FrameWidth = 33

	cfg := DefaultConfig()
	cfg.Subdivide = true
	cfg.Subdivisions = Subdivisions{Cols: 2, Rows: 1}

	frame, err := DeriveFrame(desc, 1, cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, 16.0, frame.Rect.W)
	assert.Equal(t, 16.0, frame.Rect.X)

	warnings := Warnings(desc, cfg)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "33")
}

func TestDeriveFrameTrimmed(t *testing.T) {
	desc := sheetDesc()
	desc.FrameWidth, desc.FrameHeight = 8, 8
	desc.NumColumns, desc.NumRows = 2, 1

	cfg := DefaultConfig()
	cfg.Trim = true

	buf := &pixels{w: 16, h: 8, opaque: map[[2]int]bool{{10, 3}: true}}

	frame, err := DeriveFrame(desc, 1, cfg, buf)
	require.NoError(t, err)
	assert.Equal(t, geom.Rect{X: 9, Y: 2, W: 3, H: 3}, frame.Rect)

	empty, err := DeriveFrame(desc, 0, cfg, buf)
	require.NoError(t, err)
	assert.Equal(t, geom.Rect{X: 0, Y: 0}, empty.Rect)

	_, err = DeriveFrame(desc, 1, cfg, nil)
	var cfgErr *sheet.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, desc.ID, cfgErr.DescriptionID)
}

func TestTilemapPivot(t *testing.T) {
	desc := sheetDesc()
	desc.FrameHeight = 64

	cfg := DefaultConfig()
	cfg.Pivot = PivotCustom
	cfg.PixelsPerUnit = 32
	cfg.TilemapGridSize = geom.V(1, 1)

	frame, err := DeriveFrame(desc, 0, cfg, nil)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, frame.Pivot.X, 1e-9)
	assert.InDelta(t, 0.25, frame.Pivot.Y, 1e-9)

	cfg.TilemapGridSize = geom.V(2, 0.5)
	frame, err = DeriveFrame(desc, 0, cfg, nil)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, frame.Pivot.X, 1e-9)
	assert.InDelta(t, 0.125, frame.Pivot.Y, 1e-9)
}

func TestUnknownCustomPivotMode(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Pivot = PivotCustom
	cfg.CustomPivot = CustomPivotMode(9)

	_, err := DeriveFrame(sheetDesc(), 0, cfg, nil)
	var cfgErr *sheet.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "customPivotMode", cfgErr.Field)
	assert.Equal(t, "art/hero.ssdata", cfgErr.DescriptionID)
}

func TestAlignmentPivots(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Pivot = PivotBottomRight

	frame, err := DeriveFrame(sheetDesc(), 0, cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, geom.V(1, 0), frame.Pivot)
}

func TestParseNames(t *testing.T) {
	placement, err := ParsePivotPlacement("Bottom_Left")
	require.NoError(t, err)
	assert.Equal(t, PivotBottomLeft, placement)

	_, err = ParsePivotPlacement("middle")
	assert.Error(t, err)

	mode, err := ParseCustomPivotMode("tilemap")
	require.NoError(t, err)
	assert.Equal(t, CustomPivotTilemap, mode)

	_, err = ParseCustomPivotMode("physics")
	var cfgErr *sheet.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "customPivotMode", cfgErr.Field)

	stills, err := ParseStillMode("expand")
	require.NoError(t, err)
	assert.Equal(t, StillsExpand, stills)
}

func TestFormatName(t *testing.T) {
	assert.Equal(t, "hero_knight_walk_cycle", FormatName("Hero Knight_Walk-Cycle"))
	assert.Equal(t, "90", FormatRotation(90))
	assert.Equal(t, "22.5", FormatRotation(22.5))
}

func namedDesc() *sheet.Description {
	desc := sheetDesc()
	desc.BaseName = "Hero Knight"
	desc.Stills = []sheet.StillDef{{Frame: 0}, {Frame: 1}}
	desc.Animations = []sheet.AnimationDef{
		{Name: "walk-cycle", StartFrame: 2, NumFrames: 3, FrameRate: 12, Rotation: 45},
	}

	return desc
}

func names(set *SliceSet) []string {
	var result []string

	for _, slice := range set.Slices {
		result = append(result, slice.Name)
	}

	return result
}

func TestSliceImageOrderAndNames(t *testing.T) {
	slicer := NewSlicer(zerolog.Nop())

	set, changed, err := slicer.SliceImage(namedDesc(), DefaultConfig(), nil, nil)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, ModeMultiple, set.Mode)

	assert.Equal(t, []string{
		"hero_knight_0",
		"hero_knight_1",
		"hero_knight_walk_cycle_rot45_0",
		"hero_knight_walk_cycle_rot45_1",
		"hero_knight_walk_cycle_rot45_2",
	}, names(set))

	assert.Equal(t, 2, set.Slices[2].SourceFrameIndex)
	assert.Equal(t, 4, set.Slices[4].SourceFrameIndex)
	assert.Equal(t, geom.Rect{X: 0, Y: 0, W: 32, H: 32}, set.Slices[4].Rect)
}

func TestSliceImageUnformattedNames(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FormatNames = false

	set, _, err := NewSlicer(zerolog.Nop()).SliceImage(namedDesc(), cfg, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "Hero Knight_walk-cycle_rot45_0", set.Slices[2].Name)
}

func TestSliceImageChangeDetection(t *testing.T) {
	slicer := NewSlicer(zerolog.Nop())
	desc := namedDesc()
	cfg := DefaultConfig()

	first, _, err := slicer.SliceImage(desc, cfg, nil, nil)
	require.NoError(t, err)

	second, changed, err := slicer.SliceImage(desc, cfg, first, nil)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, first, second)

	single := &SliceSet{Mode: ModeSingle, Slices: first.Slices}
	_, changed, err = slicer.SliceImage(desc, cfg, single, nil)
	require.NoError(t, err)
	assert.True(t, changed)

	cfg.Pivot = PivotTop
	_, changed, err = slicer.SliceImage(desc, cfg, first, nil)
	require.NoError(t, err)
	assert.True(t, changed)
}

func TestChanged(t *testing.T) {
	base := []FrameSlice{
		{Name: "a", Rect: geom.Rect{W: 32, H: 32}, Pivot: geom.V(0.5, 0.5)},
		{Name: "b", Rect: geom.Rect{X: 32, W: 32, H: 32}, Pivot: geom.V(0.5, 0.5)},
	}
	previous := &SliceSet{Mode: ModeMultiple, Slices: base}

	clone := func() []FrameSlice {
		return append([]FrameSlice(nil), base...)
	}

	assert.False(t, Changed(previous, clone()))
	assert.True(t, Changed(nil, clone()))
	assert.True(t, Changed(previous, clone()[:1]))

	renamed := clone()
	renamed[1].Name = "c"
	assert.True(t, Changed(previous, renamed))

	moved := clone()
	moved[0].Rect.Y = 1
	assert.True(t, Changed(previous, moved))

	pivoted := clone()
	pivoted[1].Pivot.X = 0
	assert.True(t, Changed(previous, pivoted))

	swapped := []FrameSlice{base[1], base[0]}
	assert.True(t, Changed(previous, swapped))

	reindexed := clone()
	reindexed[0].SourceFrameIndex = 42
	assert.False(t, Changed(previous, reindexed))
}

func TestSliceImageStillSubdivision(t *testing.T) {
	desc := sheetDesc()
	desc.Stills = []sheet.StillDef{{Frame: 0}, {Frame: 1}}

	cfg := DefaultConfig()
	cfg.Subdivide = true
	cfg.Subdivisions = Subdivisions{Cols: 1, Rows: 2}

	frames := func(set *SliceSet) []int {
		var result []int

		for _, slice := range set.Slices {
			result = append(result, slice.SourceFrameIndex)
		}

		return result
	}

	multiplied, _, err := NewSlicer(zerolog.Nop()).SliceImage(desc, cfg, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"hero_0", "hero_1", "hero_2", "hero_3"}, names(multiplied))
	assert.Equal(t, []int{0, 1, 2, 3}, frames(multiplied))

	cfg.Stills = StillsExpand
	expanded, _, err := NewSlicer(zerolog.Nop()).SliceImage(desc, cfg, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"hero_0_0", "hero_0_1", "hero_1_0", "hero_1_1"}, names(expanded))
	assert.Equal(t, []int{0, 4, 1, 5}, frames(expanded))
	assert.Equal(t, geom.Rect{X: 32, Y: 48, W: 32, H: 16}, expanded.Slices[2].Rect)
}

func TestSliceImageExpandWithoutSubdivisionKeepsNames(t *testing.T) {
	desc := namedDesc()
	cfg := DefaultConfig()
	cfg.Stills = StillsExpand

	set, _, err := NewSlicer(zerolog.Nop()).SliceImage(desc, cfg, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "hero_knight_1", set.Slices[1].Name)
}

func TestSliceImageInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Subdivide = true
	cfg.Subdivisions = Subdivisions{Cols: 0, Rows: 1}

	_, _, err := NewSlicer(zerolog.Nop()).SliceImage(sheetDesc(), cfg, nil, nil)
	var cfgErr *sheet.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "art/hero.ssdata", cfgErr.DescriptionID)
}
