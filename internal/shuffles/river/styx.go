package river

import (
	"cavegen/internal/core"
	"cavegen/internal/meta"
	"cavegen/internal/shuffle"
	rng "cavegen/pkg/core"
)

// Styx lays a river across the second-to-last row with a gap between two
// bottom exits. The finished map must need a bridge and flight to explore.
var Styx = &shuffle.Shuffle{
	Name:        StyxName,
	MaxAttempts: maxAttempts,
	Stages: shuffle.Stages{
		FillGrid:          layStyx(true),
		AddEarlyFeatures:  growByAdding,
		Preinfer:          riverMatters,
		RefineMetascreens: requireBridgeAndFlight,
		CheckMeta:         none,
	},
}

// StyxSplit lays the river across the whole row and then walls it off at a
// single screen so that the two bottom exits end up on separate halves that
// even flight cannot join, with some land reachable only by flight.
var StyxSplit = &shuffle.Shuffle{
	Name:        StyxSplitName,
	MaxAttempts: maxAttempts,
	Stages: shuffle.Stages{
		FillGrid:          layStyx(false),
		AddEarlyFeatures:  growByAdding,
		Preinfer:          riverMatters,
		RefineMetascreens: splitDeadEnd,
		CheckMeta:         checkSplit,
	},
}

// layStyx places two non-adjacent exits on the bottom row, each joined north
// to a river that spans the row above. The rest of the bottom row is locked
// empty. With gap set the river is cut at a random screen between the exits.
func layStyx(gap bool) shuffle.Stage {
	return func(a *shuffle.Attempt) error {
		h, w := a.H(), a.W()
		if h < 2 || w < 5 {
			return core.Misconfigured("styx needs at least 2x5 screens, got %dx%d", h, w)
		}
		g := a.Grid
		inner := make([]int, 0, w-2)
		for x := 1; x < w-1; x++ {
			inner = append(inner, x)
		}
		var exits []int
		for _, x := range rng.Perm(a.RNG, inner) {
			if len(exits) == 1 && abs(x-exits[0]) <= 1 {
				continue
			}
			c := core.Center(h-1, x)
			g.Set(c, core.Cave)
			g.Set(c.Step(core.N), core.Cave)
			g.Set(c.Step(core.S), core.Exit)
			a.Fix(c, c.Step(core.N), c.Step(core.S))
			exits = append(exits, x)
			if len(exits) == 2 {
				break
			}
		}
		if len(exits) < 2 {
			return shuffle.Fail("could not place styx exits")
		}

		cut := -1
		if gap {
			lo, hi := min(exits[0], exits[1]), max(exits[0], exits[1])
			cut = lo + 1 + a.RNG.IntN(hi-lo-1)
		}
		for x := 0; x < w; x++ {
			c := core.Center(h-2, x)
			bottom := core.Center(h-1, x)
			a.Fix(bottom)
			if x+1 < w {
				a.Fix(bottom.Step(core.E))
			}
			if x == cut {
				a.Fix(c, c.Step(core.W), c.Step(core.E))
				continue
			}
			g.Set(c, core.River)
			if x+1 < w && x+1 != cut {
				g.Set(c.Step(core.E), core.River)
			}
		}
		return nil
	}
}

// growByAdding extends the river one screen at a time from its loose ends,
// then grows the cave the same way.
func growByAdding(a *shuffle.Attempt) error {
	for a.Grid.Count(core.River) < a.Params.Features.River {
		if shuffle.TryAdd(a, core.River) == 0 {
			return shuffle.Fail("failed to extrude river")
		}
	}
	for a.Grid.Size() < a.Params.Size {
		if shuffle.TryAdd(a, core.Cave) == 0 {
			return shuffle.Fail("failed to extrude cave")
		}
	}
	return nil
}

// accessible sums the slots reachable from each bottom exit.
func accessible(m *meta.Metalocation, opts meta.TraverseOptions) int {
	parts := m.Traverse(opts)
	n := 0
	for _, e := range m.ExitsOf(meta.ExitBottom) {
		n += meta.Reach(parts, e.Node())
	}
	return n
}

func requireBridgeAndFlight(a *shuffle.Attempt) error {
	if err := shuffle.AddBridges(a); err != nil {
		return err
	}
	m := a.Meta
	walk := accessible(m, meta.TraverseOptions{})
	if accessible(m, meta.TraverseOptions{NoFlagged: true}) == walk {
		return shuffle.Fail("bridge didn't matter")
	}
	if accessible(m, meta.TraverseOptions{Flight: true}) == walk {
		return shuffle.Fail("flight not required")
	}
	return nil
}

// splitDeadEnd places bridges and then walls off the first straight river
// screen that leaves the two bottom exits on separate halves under flight
// while walking sees at least three partitions.
func splitDeadEnd(a *shuffle.Attempt) error {
	if err := shuffle.AddBridges(a); err != nil {
		return err
	}
	m := a.Meta
	bottom := m.ExitsOf(meta.ExitBottom)
	if len(bottom) != 2 {
		return core.Misconfigured("bad edges: want 2 bottom exits, got %d", len(bottom))
	}
	for _, p := range m.AllPos() {
		dead := a.Catalog.Variant(m.Get(p), meta.FlagDeadEnd)
		if dead == nil {
			continue
		}
		with := map[meta.Pos]*meta.Metascreen{p: dead}
		fly := m.Traverse(meta.TraverseOptions{Flight: true, With: with})
		if core.CountParts(fly) != 2 || fly[bottom[0].Node()] == fly[bottom[1].Node()] {
			continue
		}
		if m.Partitions(meta.TraverseOptions{With: with}) < 3 {
			continue
		}
		m.Set(p, dead)
		return nil
	}
	return shuffle.Fail("could not split map into two")
}

func checkSplit(a *shuffle.Attempt) error {
	m := a.Meta
	if got := m.Partitions(meta.TraverseOptions{Flight: true}); got != 2 {
		return shuffle.Fail("got %d partitions with flight, want 2", got)
	}
	if got := m.Partitions(meta.TraverseOptions{}); got < 3 {
		return shuffle.Fail("got %d partitions, want at least 3", got)
	}
	return nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
