package render

import (
	"bytes"
	"image/color"
	"image/png"
	"testing"

	"cavegen/internal/core"
	"cavegen/internal/meta"
)

// straight returns a 1x2 map with a river running west to east between two
// exits and a bridge on the second screen.
func straight(t *testing.T) *meta.Metalocation {
	t.Helper()
	lib := meta.RiverCave()
	empty, _ := lib.Lookup(meta.EmptyScreen)
	m := meta.NewMetalocation(1, 2, empty)
	west := lib.Find(meta.Signature{Center: core.River, Edges: [4]core.Tag{core.Empty, core.River, core.Empty, core.Exit}})
	east := lib.Find(meta.Signature{Center: core.River, Edges: [4]core.Tag{core.Empty, core.Exit, core.Empty, core.River}})
	if len(west) == 0 || len(east) == 0 {
		t.Fatal("library lacks river ends")
	}
	m.Set(meta.PosOf(0, 0), west[0])
	m.Set(meta.PosOf(0, 1), east[0])
	return m
}

func TestPointPixelsAreDistinct(t *testing.T) {
	seen := map[[2]int]meta.Point{}
	for p := meta.Point(0); p <= meta.CenterPoint; p++ {
		row, col := PointPixel(p)
		if row < 0 || col < 0 || row >= ScreenPixels || col >= ScreenPixels {
			t.Fatalf("slot %d maps outside the screen: %d,%d", p, row, col)
		}
		if other, ok := seen[[2]int{row, col}]; ok {
			t.Fatalf("slots %d and %d share pixel %d,%d", other, p, row, col)
		}
		seen[[2]int{row, col}] = p
	}
}

func TestRasterizePaintsTerrain(t *testing.T) {
	m := straight(t)
	cells, size := Rasterize(m)
	if size.W != 2*ScreenPixels || size.H != ScreenPixels {
		t.Fatalf("size = %+v", size)
	}
	at := func(y, x int) uint8 { return cells[y*size.W+x] }
	if at(0, 0) != Rock {
		t.Fatal("corners must stay rock")
	}
	if at(2, 2) != Water {
		t.Fatalf("river center = %d, want water", at(2, 2))
	}
	if at(2, 0) != Opening {
		t.Fatalf("west exit = %d, want opening", at(2, 0))
	}
	for row := 1; row <= 3; row++ {
		if at(row, ScreenPixels-1) != Water {
			t.Fatalf("river edge row %d = %d, want water", row, at(row, ScreenPixels-1))
		}
	}
}

func TestRasterizeMarksVariants(t *testing.T) {
	lib := meta.RiverCave()
	m := straight(t)
	mid := meta.Signature{Center: core.River, Edges: [4]core.Tag{core.Empty, core.River, core.Empty, core.River}}
	base := lib.Find(mid)[0]
	empty, _ := lib.Lookup(meta.EmptyScreen)
	wide := meta.NewMetalocation(1, 3, empty)
	wide.Set(meta.PosOf(0, 0), m.Get(meta.PosOf(0, 0)))
	wide.Set(meta.PosOf(0, 1), lib.Variant(base, meta.FlagDeadEnd))
	wide.Set(meta.PosOf(0, 2), m.Get(meta.PosOf(0, 1)))

	cells, size := Rasterize(wide)
	ox := ScreenPixels
	for row := 1; row < ScreenPixels-1; row++ {
		if cells[row*size.W+ox+ScreenPixels/2] != DeadEnd {
			t.Fatalf("dead end wall missing at row %d", row)
		}
	}

	wide.Set(meta.PosOf(0, 1), lib.Variant(base, meta.FlagBridge))
	cells, _ = Rasterize(wide)
	if cells[2*size.W+ox+2] != Bridge {
		t.Fatal("bridge missing")
	}
}

func TestPartitionCellsNumbersComponents(t *testing.T) {
	lib := meta.RiverCave()
	empty, _ := lib.Lookup(meta.EmptyScreen)
	m := meta.NewMetalocation(1, 3, empty)
	for x, edges := range [][4]core.Tag{
		{core.Empty, core.River, core.Empty, core.Empty},
		{core.Empty, core.River, core.Empty, core.River},
		{core.Empty, core.Empty, core.Empty, core.River},
	} {
		m.Set(meta.PosOf(0, x), lib.Find(meta.Signature{Center: core.River, Edges: edges})[0])
	}
	parts := m.Traverse(meta.TraverseOptions{})
	cells := PartitionCells(m, parts)
	used := map[uint8]bool{}
	for _, c := range cells {
		used[c] = true
	}
	if !used[1] || !used[2] {
		t.Fatalf("both banks should be colored, got %v", used)
	}
	if used[3] {
		t.Fatalf("a river from wall to wall has two banks, got %v", used)
	}
}

func TestExitCellsAndImages(t *testing.T) {
	m := straight(t)
	cells := ExitCells(m)
	count := 0
	for _, c := range cells {
		if c != 0 {
			count++
		}
	}
	if count != 2 {
		t.Fatalf("marked %d exits, want 2", count)
	}
	buf := Mask(cells, color.White, color.Transparent)
	size := RasterSize(m)
	if len(buf) != 4*size.W*size.H {
		t.Fatalf("mask buffer has %d bytes", len(buf))
	}
	if buf[4*(2*size.W)+3] != 255 {
		t.Fatal("west exit pixel should be opaque")
	}
	if buf[3] != 0 {
		t.Fatal("other pixels should be transparent")
	}

	img := Image([]uint8{Water, 200}, TerrainPalette)
	if img[2] != TerrainPalette[Water].B || img[6] != TerrainPalette[len(TerrainPalette)-1].B {
		t.Fatal("palette lookup or clamping is wrong")
	}
	if got := Image([]uint8{1}, nil); got[3] != 0 {
		t.Fatal("empty palette must clear pixels")
	}
}

func TestWritePNGScales(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePNG(&buf, straight(t), 3); err != nil {
		t.Fatalf("WritePNG: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != 2*ScreenPixels*3 || b.Dy() != ScreenPixels*3 {
		t.Fatalf("bounds = %v", b)
	}
	r, g, bl, _ := img.At(2*3+1, 2*3+1).RGBA()
	want := TerrainPalette[Water]
	if uint8(r>>8) != want.R || uint8(g>>8) != want.G || uint8(bl>>8) != want.B {
		t.Fatal("river center pixel has the wrong color")
	}
}
