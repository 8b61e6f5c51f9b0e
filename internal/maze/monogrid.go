// Package maze lays single connected paths on a screen-level grid before they
// are lifted into the sub-cell terrain model.
package maze

import (
	"cavegen/internal/core"
	rng "cavegen/pkg/core"
)

const visited uint8 = 0x10

// Monogrid stores, per screen, a bitmask of the directions it connects to.
type Monogrid struct {
	H, W int
	data []uint8
}

// NewMonogrid allocates an empty h x w monogrid.
func NewMonogrid(h, w int) *Monogrid {
	if h <= 0 {
		h = 1
	}
	if w <= 0 {
		w = 1
	}
	return &Monogrid{H: h, W: w, data: make([]uint8, h*w)}
}

func (g *Monogrid) index(y, x int) int { return y*g.W + x }

// InBounds reports whether (y, x) is a screen of the grid.
func (g *Monogrid) InBounds(y, x int) bool {
	return y >= 0 && x >= 0 && y < g.H && x < g.W
}

// Occupied reports whether the path has visited (y, x).
func (g *Monogrid) Occupied(y, x int) bool {
	return g.InBounds(y, x) && g.data[g.index(y, x)] != 0
}

// Connected reports whether (y, x) connects in direction d.
func (g *Monogrid) Connected(y, x int, d core.Dir) bool {
	return g.InBounds(y, x) && g.data[g.index(y, x)]&(1<<d) != 0
}

// Len returns the number of occupied screens.
func (g *Monogrid) Len() int {
	n := 0
	for _, v := range g.data {
		if v != 0 {
			n++
		}
	}
	return n
}

// ToGrid lifts the path into a terrain grid, writing tag on every occupied
// center and every connection between them.
func (g *Monogrid) ToGrid(tag core.Tag) *core.Grid {
	out := core.NewGrid(g.H, g.W)
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			v := g.data[g.index(y, x)]
			if v == 0 {
				continue
			}
			c := core.Center(y, x)
			out.Set(c, tag)
			for _, d := range []core.Dir{core.E, core.S} {
				if v&(1<<d) != 0 {
					out.Set(c.Step(d), tag)
				}
			}
		}
	}
	return out
}

// Cursor walks a Monogrid, marking every screen it enters.
type Cursor struct {
	g    *Monogrid
	Y, X int
	last core.Dir
	// moved is false until the first Go so DirectedPath allows any start.
	moved bool

	minY, minX, maxY, maxX int
}

// NewCursor places a cursor on (y, x) and marks it visited.
func NewCursor(g *Monogrid, y, x int) *Cursor {
	c := &Cursor{g: g, Y: y, X: x}
	c.Release()
	if g.InBounds(y, x) {
		g.data[g.index(y, x)] |= visited
	}
	return c
}

// Confine restricts further moves to the inclusive screen rectangle.
func (c *Cursor) Confine(minY, minX, maxY, maxX int) {
	c.minY, c.minX, c.maxY, c.maxX = minY, minX, maxY, maxX
}

// Release lifts any confinement back to the whole grid.
func (c *Cursor) Release() {
	c.Confine(0, 0, c.g.H-1, c.g.W-1)
}

func (c *Cursor) allowed(y, x int) bool {
	return c.g.InBounds(y, x) && y >= c.minY && y <= c.maxY && x >= c.minX && x <= c.maxX &&
		!c.g.Occupied(y, x)
}

// Go moves one screen in direction d, connecting both screens. It fails when
// the target is out of bounds or already on the path.
func (c *Cursor) Go(d core.Dir) bool {
	dy, dx := d.Delta()
	ny, nx := c.Y+dy, c.X+dx
	if !c.allowed(ny, nx) {
		return false
	}
	c.g.data[c.g.index(c.Y, c.X)] |= 1<<d | visited
	c.g.data[c.g.index(ny, nx)] |= 1<<d.Opposite() | visited
	c.Y, c.X = ny, nx
	c.last = d
	c.moved = true
	return true
}

// DirectedPath random-walks to (ty, tx). Moves never revisit a screen, so the
// result is a simple path; moves that close the Manhattan distance are three
// times as likely as the rest. It fails when the cursor is boxed in or the
// walk exceeds its step budget.
func (c *Cursor) DirectedPath(src rng.RandomSource, ty, tx int) bool {
	limit := 4 * c.g.H * c.g.W
	for steps := 0; c.Y != ty || c.X != tx; steps++ {
		if steps >= limit {
			return false
		}
		dist := abs(ty-c.Y) + abs(tx-c.X)
		var options []core.Dir
		for _, d := range core.Dirs {
			if c.moved && d == c.last.Opposite() {
				continue
			}
			dy, dx := d.Delta()
			ny, nx := c.Y+dy, c.X+dx
			if !c.allowed(ny, nx) {
				continue
			}
			weight := 1
			if abs(ty-ny)+abs(tx-nx) < dist {
				weight = 3
			}
			for i := 0; i < weight; i++ {
				options = append(options, d)
			}
		}
		if len(options) == 0 {
			return false
		}
		c.Go(options[src.IntN(len(options))])
	}
	return true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
