package river

import (
	"cavegen/internal/core"
	"cavegen/internal/maze"
	"cavegen/internal/meta"
	"cavegen/internal/shuffle"
)

// Waterfall runs a fixed river from the bottom row to the top row and puts
// a stair down on each side of it. Only flight can cross.
var Waterfall = &shuffle.Shuffle{
	Name:        WaterfallName,
	MaxAttempts: maxAttempts,
	Stages: shuffle.Stages{
		FillGrid:         layWaterfall,
		AddEarlyFeatures: shuffle.GrowCaveToSize,
		AddEdges:         addWaterfallStairs,
		AddStairs:        none,
		Preinfer:         riverMatters,
		CheckMeta:        checkFlight,
	},
}

func layWaterfall(a *shuffle.Attempt) error {
	h, w := a.H(), a.W()
	if h < 3 || w < 5 {
		return core.Misconfigured("%s needs at least 3x5 screens, got %dx%d", WaterfallName, h, w)
	}
	top := 2 + a.RNG.IntN(w-4)
	bottom := 2 + a.RNG.IntN(w-4)

	g := maze.NewMonogrid(h, w)
	c := maze.NewCursor(g, h-1, bottom)
	if !c.Go(core.N) || !c.DirectedPath(a.RNG, 1, top) || !c.Go(core.N) {
		return shuffle.Fail("could not lay waterfall")
	}
	a.Grid = g.ToGrid(core.River)
	a.FixAll()
	return nil
}

func addWaterfallStairs(a *shuffle.Attempt) error {
	g := a.Grid
	y := a.H() - 1
	first, last := -1, -1
	for x := 0; x < a.W(); x++ {
		if g.Get(core.Center(y, x)) == core.River {
			if first < 0 {
				first = x
			}
			last = x
		}
	}
	if last < 0 {
		return core.Misconfigured("no river on bottom edge")
	}
	var left, right []int
	for x := 0; x < a.W(); x++ {
		if g.Get(core.Center(y, x)) != core.Cave {
			continue
		}
		switch {
		case x < first:
			left = append(left, x)
		case x > last:
			right = append(right, x)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return shuffle.Fail("no cave beside the waterfall")
	}
	for _, x := range []int{left[a.RNG.IntN(len(left))], right[a.RNG.IntN(len(right))]} {
		c := core.Center(y, x)
		g.Set(c, core.StairDown)
		for _, d := range []core.Dir{core.W, core.E} {
			if e := c.Step(d); !a.IsFixed(e) {
				g.Set(e, core.Empty)
			}
		}
		a.Fix(c)
	}
	return nil
}

func checkFlight(a *shuffle.Attempt) error {
	if got := a.Meta.Partitions(meta.TraverseOptions{Flight: true}); got != a.Params.Partitions {
		return shuffle.Fail("got %d partitions with flight, want %d", got, a.Params.Partitions)
	}
	return nil
}
