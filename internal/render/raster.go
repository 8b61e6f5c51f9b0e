// Package render turns finished maps into pixel data for the viewer.
package render

import (
	"image"
	"image/color"
	"image/png"
	"io"

	"cavegen/internal/core"
	"cavegen/internal/meta"
)

// ScreenPixels is the side length of one screen in raster pixels. Each edge
// gets a three pixel strip so every connection slot has its own pixel.
const ScreenPixels = 5

// Terrain palette indices.
const (
	Rock uint8 = iota
	Floor
	Water
	ArenaFloor
	StairUp
	StairDown
	Opening
	Bridge
	DeadEnd
)

// TerrainPalette colors the values produced by Rasterize.
var TerrainPalette = []color.RGBA{
	Rock:       {R: 24, G: 20, B: 28, A: 255},
	Floor:      {R: 150, G: 126, B: 96, A: 255},
	Water:      {R: 48, G: 112, B: 200, A: 255},
	ArenaFloor: {R: 190, G: 70, B: 60, A: 255},
	StairUp:    {R: 240, G: 220, B: 90, A: 255},
	StairDown:  {R: 200, G: 150, B: 30, A: 255},
	Opening:    {R: 240, G: 240, B: 240, A: 255},
	Bridge:     {R: 120, G: 80, B: 40, A: 255},
	DeadEnd:    {R: 10, G: 10, B: 10, A: 255},
}

var tagPixels = map[core.Tag]uint8{
	core.Cave:      Floor,
	core.River:     Water,
	core.Arena:     ArenaFloor,
	core.StairUp:   StairUp,
	core.StairDown: StairDown,
	core.Exit:      Opening,
}

// RasterSize returns the raster dimensions of m.
func RasterSize(m *meta.Metalocation) core.Size {
	return core.Size{W: m.W * ScreenPixels, H: m.H * ScreenPixels}
}

// PointPixel returns the row and column of slot p inside a screen.
func PointPixel(p meta.Point) (row, col int) {
	if p == meta.CenterPoint {
		return ScreenPixels / 2, ScreenPixels / 2
	}
	d, k := core.Dir(p/3), int(p%3)
	switch d {
	case core.N:
		return 0, 1 + k
	case core.E:
		return 1 + k, ScreenPixels - 1
	case core.S:
		return ScreenPixels - 1, 1 + k
	default:
		return 1 + k, 0
	}
}

// Rasterize paints m into palette indices, ScreenPixels per screen side.
func Rasterize(m *meta.Metalocation) ([]uint8, core.Size) {
	size := RasterSize(m)
	cells := make([]uint8, size.W*size.H)
	for _, pos := range m.AllPos() {
		s := m.Get(pos)
		if s.IsEmpty() {
			continue
		}
		oy, ox := pos.Y()*ScreenPixels, pos.X()*ScreenPixels
		set := func(row, col int, v uint8) { cells[(oy+row)*size.W+ox+col] = v }

		center := tagPixels[s.Center]
		for row := 1; row < ScreenPixels-1; row++ {
			for col := 1; col < ScreenPixels-1; col++ {
				set(row, col, center)
			}
		}
		for _, d := range core.Dirs {
			t := s.Edges[d]
			if t == core.Empty {
				continue
			}
			for k := 0; k < 3; k++ {
				if t != core.River && k != 1 {
					continue
				}
				row, col := PointPixel(meta.EdgePoint(d, k))
				set(row, col, tagPixels[t])
			}
		}

		mid := ScreenPixels / 2
		switch {
		case s.Has(meta.FlagBridge):
			set(mid, mid, Bridge)
		case s.Has(meta.FlagDeadEnd):
			// The wall runs across the river.
			for k := 1; k < ScreenPixels-1; k++ {
				if s.EdgeMask(core.River) == meta.RiverEdgesNS {
					set(mid, k, DeadEnd)
				} else {
					set(k, mid, DeadEnd)
				}
			}
		}
	}
	return cells, size
}

// PartitionPalette cycles through distinct hues for component overlays.
var PartitionPalette = []color.RGBA{
	{R: 0, G: 0, B: 0, A: 0},
	{R: 230, G: 60, B: 60, A: 160},
	{R: 60, G: 200, B: 80, A: 160},
	{R: 70, G: 110, B: 240, A: 160},
	{R: 240, G: 200, B: 40, A: 160},
	{R: 200, G: 70, B: 220, A: 160},
	{R: 40, G: 210, B: 210, A: 160},
	{R: 250, G: 140, B: 40, A: 160},
}

// PartitionCells paints every traversal slot of parts with its component.
// Components are numbered from 1 in row-major order of their first slot and
// wrap around the palette; 0 marks pixels outside every component.
func PartitionCells(m *meta.Metalocation, parts map[meta.Node]int) []uint8 {
	size := RasterSize(m)
	cells := make([]uint8, size.W*size.H)
	colors := len(PartitionPalette) - 1
	ids := map[int]uint8{}
	for _, pos := range m.AllPos() {
		for p := meta.Point(0); p <= meta.CenterPoint; p++ {
			part, ok := parts[meta.NodeOf(pos, p)]
			if !ok {
				continue
			}
			id, seen := ids[part]
			if !seen {
				id = uint8(len(ids)%colors) + 1
				ids[part] = id
			}
			row, col := PointPixel(p)
			cells[(pos.Y()*ScreenPixels+row)*size.W+pos.X()*ScreenPixels+col] = id
		}
	}
	return cells
}

// ExitCells marks the pixel of every exit of m.
func ExitCells(m *meta.Metalocation) []uint8 {
	size := RasterSize(m)
	cells := make([]uint8, size.W*size.H)
	for _, e := range m.Exits() {
		row, col := PointPixel(e.Point)
		cells[(e.Pos.Y()*ScreenPixels+row)*size.W+e.Pos.X()*ScreenPixels+col] = 1
	}
	return cells
}

// Image converts raster cells into an RGBA buffer using palette.
func Image(cells []uint8, palette []color.RGBA) []byte {
	buf := make([]byte, 4*len(cells))
	fillPaletteRGBA(buf, cells, palette)
	return buf
}

// Mask converts mask cells into an RGBA buffer.
func Mask(cells []uint8, on, off color.Color) []byte {
	buf := make([]byte, 4*len(cells))
	fillMaskRGBA(buf, cells, on, off)
	return buf
}

// WritePNG encodes m as a PNG with every raster pixel scaled up to a
// scale x scale block.
func WritePNG(w io.Writer, m *meta.Metalocation, scale int) error {
	scale = max(scale, 1)
	cells, size := Rasterize(m)
	small := Image(cells, TerrainPalette)
	img := image.NewRGBA(image.Rect(0, 0, size.W*scale, size.H*scale))
	for y := 0; y < size.H*scale; y++ {
		for x := 0; x < size.W*scale; x++ {
			src := 4 * ((y/scale)*size.W + x/scale)
			copy(img.Pix[img.PixOffset(x, y):], small[src:src+4])
		}
	}
	return png.Encode(w, img)
}
