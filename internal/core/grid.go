package core

import (
	"fmt"
	"strings"
)

// Coord packs a sub-grid position as row<<11 | col<<3. A screen at (y, x)
// spans sub-rows 2y..2y+2 and sub-columns 2x..2x+2: its corner is y<<12|x<<4
// and its center is corner|0x808.
type Coord uint16

// Sub-cell offsets between adjacent sub-cells.
const (
	stepRow Coord = 0x800
	stepCol Coord = 0x8

	centerOffset Coord = 0x808
)

// MaxScreens bounds both grid dimensions so every sub-row fits in five bits.
const MaxScreens = 15

// Row returns the sub-grid row.
func (c Coord) Row() int { return int(c >> 11) }

// Col returns the sub-grid column.
func (c Coord) Col() int { return int(c>>3) & 0x1f }

// IsCenter reports whether c addresses a screen center.
func (c Coord) IsCenter() bool { return c.Row()&1 == 1 && c.Col()&1 == 1 }

// IsEdge reports whether c addresses the edge between two screens.
func (c Coord) IsEdge() bool { return (c.Row()^c.Col())&1 == 1 }

// Screen returns the screen row and column containing c.
func (c Coord) Screen() (y, x int) { return c.Row() >> 1, c.Col() >> 1 }

// Step moves one sub-cell in the given direction. Moves past the top or left
// wrap to coordinates that InBounds rejects.
func (c Coord) Step(d Dir) Coord {
	switch d {
	case N:
		return c - stepRow
	case E:
		return c + stepCol
	case S:
		return c + stepRow
	default:
		return c - stepCol
	}
}

func (c Coord) String() string {
	return fmt.Sprintf("%04x", uint16(c))
}

// Corner returns the top-left sub-cell of screen (y, x).
func Corner(y, x int) Coord { return Coord(y<<12 | x<<4) }

// Center returns the center sub-cell of screen (y, x).
func Center(y, x int) Coord { return Corner(y, x) | centerOffset }

// CenterOf maps a screen corner to its center.
func CenterOf(corner Coord) Coord { return corner | centerOffset }

// Dir is one of the four cardinal directions, clockwise from north.
type Dir uint8

// Directions in clockwise order.
const (
	N Dir = iota
	E
	S
	W
)

// Dirs lists every direction in clockwise order.
var Dirs = [4]Dir{N, E, S, W}

// Opposite returns the reverse direction.
func (d Dir) Opposite() Dir { return (d + 2) & 3 }

// Vertical reports whether d is north or south.
func (d Dir) Vertical() bool { return d == N || d == S }

// Delta returns the screen row and column offsets of d.
func (d Dir) Delta() (dy, dx int) {
	switch d {
	case N:
		return -1, 0
	case E:
		return 0, 1
	case S:
		return 1, 0
	default:
		return 0, -1
	}
}

// Side names the map edge a direction points at.
func (d Dir) Side() string {
	switch d {
	case N:
		return "top"
	case E:
		return "right"
	case S:
		return "bottom"
	default:
		return "left"
	}
}

func (d Dir) String() string { return [4]string{"N", "E", "S", "W"}[d&3] }

// ParseSide maps a side name ("top", "bottom", ...) or a direction letter to
// a Dir.
func ParseSide(s string) (Dir, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "top", "n", "north":
		return N, true
	case "right", "e", "east":
		return E, true
	case "bottom", "s", "south":
		return S, true
	case "left", "w", "west":
		return W, true
	}
	return 0, false
}

// Tag is a terrain marker stored in a grid sub-cell.
type Tag byte

// Terrain tags. Empty means the sub-cell is not part of the map.
const (
	Empty     Tag = 0
	Cave      Tag = 'c'
	River     Tag = 'r'
	Arena     Tag = 'a'
	StairUp   Tag = '<'
	StairDown Tag = '>'
	Exit      Tag = 'n'
)

// IsStair reports whether t is either stair tag.
func (t Tag) IsStair() bool { return t == StairUp || t == StairDown }

func (t Tag) String() string {
	if t == Empty {
		return " "
	}
	return string(rune(t))
}

// Grid is the abstract terrain model: a (2H+1)x(2W+1) sub-grid of tags
// stored row-major.
type Grid struct {
	H, W int
	data []Tag
}

// NewGrid allocates an empty grid of h x w screens, clamped to [1, MaxScreens].
func NewGrid(h, w int) *Grid {
	h = clampScreens(h)
	w = clampScreens(w)
	return &Grid{H: h, W: w, data: make([]Tag, (2*h+1)*(2*w+1))}
}

func clampScreens(n int) int {
	if n <= 0 {
		return 1
	}
	if n > MaxScreens {
		return MaxScreens
	}
	return n
}

// Cells exposes the backing slice so callers can read values directly.
func (g *Grid) Cells() []Tag { return g.data }

func (g *Grid) stride() int { return 2*g.W + 1 }

// Index returns the linear slice index for c. Callers must check InBounds.
func (g *Grid) Index(c Coord) int { return c.Row()*g.stride() + c.Col() }

// Coord converts a linear index back to a packed coordinate.
func (g *Grid) Coord(i int) Coord {
	return Coord((i/g.stride())<<11 | (i%g.stride())<<3)
}

// InBounds reports whether c lies on the sub-grid.
func (g *Grid) InBounds(c Coord) bool {
	return c&7 == 0 && c.Row() <= 2*g.H && c.Col() <= 2*g.W
}

// IsBorder reports whether c is on the outer ring of sub-cells.
func (g *Grid) IsBorder(c Coord) bool {
	r, s := c.Row(), c.Col()
	return r == 0 || s == 0 || r == 2*g.H || s == 2*g.W
}

// Get returns the tag at c, or Empty when c is out of bounds.
func (g *Grid) Get(c Coord) Tag {
	if !g.InBounds(c) {
		return Empty
	}
	return g.data[g.Index(c)]
}

// Set stores tag at c. Out-of-bounds writes are ignored.
func (g *Grid) Set(c Coord, t Tag) {
	if !g.InBounds(c) {
		return
	}
	g.data[g.Index(c)] = t
}

// Neighbors returns the in-bounds sub-cells adjacent to c in N, E, S, W order.
func (g *Grid) Neighbors(c Coord) []Coord {
	out := make([]Coord, 0, 4)
	for _, d := range Dirs {
		if n := c.Step(d); g.InBounds(n) {
			out = append(out, n)
		}
	}
	return out
}

// Screens returns the corner of every screen in row-major order.
func (g *Grid) Screens() []Coord {
	out := make([]Coord, 0, g.H*g.W)
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			out = append(out, Corner(y, x))
		}
	}
	return out
}

// ScreenInBounds reports whether screen (y, x) exists.
func (g *Grid) ScreenInBounds(y, x int) bool {
	return y >= 0 && x >= 0 && y < g.H && x < g.W
}

// Count returns the number of screen centers holding t.
func (g *Grid) Count(t Tag) int {
	n := 0
	for _, c := range g.Screens() {
		if g.Get(CenterOf(c)) == t {
			n++
		}
	}
	return n
}

// Size returns the number of non-empty screen centers.
func (g *Grid) Size() int {
	n := 0
	for _, c := range g.Screens() {
		if g.Get(CenterOf(c)) != Empty {
			n++
		}
	}
	return n
}

// Clone returns an independent copy of the grid.
func (g *Grid) Clone() *Grid {
	return &Grid{H: g.H, W: g.W, data: append([]Tag(nil), g.data...)}
}

// Show renders the sub-grid as text, one line per sub-row. Corners that
// separate screens are drawn as '+'.
func (g *Grid) Show() string {
	var b strings.Builder
	for r := 0; r <= 2*g.H; r++ {
		for s := 0; s <= 2*g.W; s++ {
			t := g.data[r*g.stride()+s]
			if t == Empty && r&1 == 0 && s&1 == 0 {
				b.WriteByte('+')
				continue
			}
			b.WriteString(t.String())
		}
		b.WriteByte('\n')
	}
	return b.String()
}
