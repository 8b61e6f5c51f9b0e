// Package river registers the river cave shuffles: a river laid between two
// bottom exits, a waterfall running top to bottom, and the styx layouts
// where a river across the map gates areas behind bridges or flight.
package river

import (
	"cavegen/internal/core"
	"cavegen/internal/maze"
	"cavegen/internal/shuffle"
)

// Registry keys.
const (
	Name          = "river"
	WaterfallName = "waterfall"
	StyxName      = "styx"
	StyxSplitName = "styx-split"
)

const maxAttempts = 250

// River joins two bottom exits with a river that runs up, across and back
// down, then grows the river to Features.River screens before the cave.
var River = &shuffle.Shuffle{
	Name:        Name,
	MaxAttempts: maxAttempts,
	Stages: shuffle.Stages{
		FillGrid:         layRiver,
		AddEarlyFeatures: growRiverThenCave,
		Preinfer:         riverMatters,
	},
}

func init() {
	for _, s := range []*shuffle.Shuffle{River, Waterfall, Styx, StyxSplit} {
		shuffle.Register(s)
	}
}

func layRiver(a *shuffle.Attempt) error {
	h, w := a.H(), a.W()
	if h < 2 || w < 3 {
		return core.Misconfigured("%s needs at least 2x3 screens, got %dx%d", Name, h, w)
	}
	x0 := a.RNG.IntN(w - 2)
	x1 := x0 + 2 + a.RNG.IntN(w-x0-2)
	if a.RNG.IntN(2) == 1 {
		x0, x1 = x1, x0
	}

	g := maze.NewMonogrid(h, w)
	c := maze.NewCursor(g, h-1, x0)
	c.Go(core.N)
	c.Confine(0, 0, h-2, w-1)
	if !c.DirectedPath(a.RNG, h-2, x1) {
		return shuffle.Fail("could not lay river from %d to %d", x0, x1)
	}
	c.Release()
	if !c.Go(core.S) {
		return shuffle.Fail("could not lay river from %d to %d", x0, x1)
	}

	a.Grid = g.ToGrid(core.River)
	for _, x := range []int{x0, x1} {
		end := core.Center(h-1, x)
		a.Grid.Set(end.Step(core.S), core.Exit)
		a.Fix(end, end.Step(core.S), end.Step(core.N))
	}
	return nil
}

func growRiverThenCave(a *shuffle.Attempt) error {
	if err := shuffle.GrowRiver(a, a.Params.Features.River); err != nil {
		return err
	}
	return shuffle.GrowCave(a, a.Params.Size)
}

// riverMatters rejects grids where two exits or stairs would still be
// connected with every river cell removed.
func riverMatters(a *shuffle.Attempt) error {
	g := a.Grid
	var anchors []core.Coord
	override := map[core.Coord]core.Tag{}
	for i, t := range g.Cells() {
		c := g.Coord(i)
		switch {
		case t == core.River:
			override[c] = core.Empty
		case t.IsStair(), t != core.Empty && g.IsBorder(c):
			anchors = append(anchors, c)
		}
	}
	if len(anchors) < 2 {
		return nil
	}
	parts := g.Partition(override)
	seen := map[int]bool{}
	for _, c := range anchors {
		id := parts[c]
		if seen[id] {
			return shuffle.Fail("river didn't matter")
		}
		seen[id] = true
	}
	return nil
}

func none(*shuffle.Attempt) error { return nil }
