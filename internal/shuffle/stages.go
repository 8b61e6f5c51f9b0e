package shuffle

import (
	"cavegen/internal/core"
	"cavegen/internal/meta"
	rng "cavegen/pkg/core"
)

// FillCave seeds a single cave screen: the first positioned stair if there
// is one, otherwise a random screen on a side that needs exits.
func FillCave(a *Attempt) error {
	for _, st := range a.Params.Stairs {
		if st.At {
			a.Grid.Set(core.Center(st.Y, st.X), core.Cave)
			return nil
		}
	}
	var sides []core.Dir
	for _, d := range core.Dirs {
		if a.Params.EdgeCount(d) > 0 {
			sides = append(sides, d)
		}
	}
	y, x := a.RNG.IntN(a.H()), a.RNG.IntN(a.W())
	if len(sides) > 0 {
		switch sides[a.RNG.IntN(len(sides))] {
		case core.N:
			y = 0
		case core.S:
			y = a.H() - 1
		case core.W:
			x = 0
		case core.E:
			x = a.W() - 1
		}
	}
	a.Grid.Set(core.Center(y, x), core.Cave)
	return nil
}

// GrowCaveToSize grows cave until the map holds exactly Size screens.
func GrowCaveToSize(a *Attempt) error {
	return GrowCave(a, a.Params.Size)
}

// AddEdges opens the required exits on every side.
func AddEdges(a *Attempt) error {
	for _, d := range core.Dirs {
		for i := 0; i < a.Params.EdgeCount(d); i++ {
			if err := AddEdge(a, d); err != nil {
				return err
			}
		}
	}
	return nil
}

// AddEdge opens one exit on side d under a random cave screen and fixes
// both.
func AddEdge(a *Attempt, d core.Dir) error {
	g := a.Grid
	var options []core.Coord
	for _, c := range a.Centers(Is(core.Cave)) {
		e := c.Step(d)
		if g.IsBorder(e) && g.Get(e) == core.Empty && !a.IsFixed(e) {
			options = append(options, c)
		}
	}
	if len(options) == 0 {
		return Fail("could not add edge on %s side", d.Side())
	}
	c := options[a.RNG.IntN(len(options))]
	g.Set(c.Step(d), core.Exit)
	a.Fix(c, c.Step(d))
	return nil
}

// AddStairs places every requested stair.
func AddStairs(a *Attempt) error {
	for _, st := range a.Params.Stairs {
		if err := AddStair(a, st); err != nil {
			return err
		}
	}
	return nil
}

// AddStair turns a cave screen into a stair. Unpositioned stairs go on a
// random unfixed dead end whose only edge is cave.
func AddStair(a *Attempt, st core.Stair) error {
	g := a.Grid
	if st.At {
		c := core.Center(st.Y, st.X)
		if g.Get(c) != core.Cave || a.IsFixed(c) {
			return Fail("could not add stair at %d:%d", st.Y, st.X)
		}
		g.Set(c, st.Kind)
		a.Fix(c)
		for _, d := range core.Dirs {
			if e := c.Step(d); g.Get(e) != core.Empty {
				a.Fix(e)
			}
		}
		return nil
	}
	var options []core.Coord
	for _, c := range a.Centers(Is(core.Cave)) {
		if a.IsFixed(c) || a.Degree(c) != 1 {
			continue
		}
		for _, d := range core.Dirs {
			if g.Get(c.Step(d)) == core.Cave {
				options = append(options, c)
			}
		}
	}
	if len(options) == 0 {
		return Fail("could not add stair")
	}
	c := options[a.RNG.IntN(len(options))]
	g.Set(c, st.Kind)
	a.Fix(c)
	for _, d := range core.Dirs {
		if e := c.Step(d); g.Get(e) != core.Empty {
			a.Fix(e)
		}
	}
	return nil
}

// screenCells lists the nine sub-cells of the screen centered at c.
func screenCells(c core.Coord) []core.Coord {
	out := make([]core.Coord, 0, 9)
	for _, row := range []core.Coord{c.Step(core.N), c, c.Step(core.S)} {
		out = append(out, row.Step(core.W), row, row.Step(core.E))
	}
	return out
}

// arenaSideClear reports whether the screen beside mid in direction d can
// be carved away: only empty and cave cells, none fixed. On the border the
// edge itself must be empty.
func (a *Attempt) arenaSideClear(mid core.Coord, d core.Dir) bool {
	e := mid.Step(d)
	if a.Grid.IsBorder(e) {
		return a.Grid.Get(e) == core.Empty
	}
	for _, c := range screenCells(e.Step(d)) {
		t := a.Grid.Get(c)
		if (t != core.Empty && t != core.Cave) || a.IsFixed(c) {
			return false
		}
	}
	return true
}

func (a *Attempt) carveSide(mid core.Coord, d core.Dir) {
	e := mid.Step(d)
	if a.Grid.IsBorder(e) {
		return
	}
	n := e.Step(d)
	for _, c := range []core.Coord{e, n, n.Step(d), n.Step(core.N), n.Step(core.S)} {
		a.Grid.Set(c, core.Empty)
	}
}

// AddArenas turns the middle of vertical three-screen cave runs into
// arenas. The screens to either side are carved away, the arena and its
// north and south edges are fixed and cave cut off by the carving is
// pruned. Candidates are visited in random order.
func AddArenas(a *Attempt) error {
	left := a.Params.Features.Arena
	if left == 0 {
		return nil
	}
	g := a.Grid
	for _, corner := range rng.Perm(a.RNG, g.Screens()) {
		mid := core.CenterOf(corner)
		up, down := mid.Step(core.N), mid.Step(core.S)
		if g.Get(mid) != core.Cave || a.IsFixed(mid) {
			continue
		}
		if g.Get(up) != core.Cave || g.Get(down) != core.Cave {
			continue
		}
		if !a.arenaSideClear(mid, core.W) || !a.arenaSideClear(mid, core.E) {
			continue
		}
		a.carveSide(mid, core.W)
		a.carveSide(mid, core.E)
		g.Set(mid, core.Arena)
		a.Fix(mid, up, down)
		left--
		if left == 0 {
			return PruneDisconnected(a)
		}
	}
	return Fail("could not add arena")
}

// PruneDisconnected keeps the components holding a fixed cell, or the
// largest component when nothing is fixed, and clears unfixed cave
// everywhere else.
func PruneDisconnected(a *Attempt) error {
	g := a.Grid
	parts := g.Partition(nil)
	keep := map[int]bool{}
	a.Fixed.Each(func(c core.Coord) {
		if g.Get(c) != core.Empty {
			keep[parts[c]] = true
		}
	})
	if len(keep) == 0 {
		sizes := map[int]int{}
		best := -1
		for c, id := range parts {
			if c.IsCenter() {
				sizes[id]++
			}
		}
		for id, n := range sizes {
			if best < 0 || n > sizes[best] || (n == sizes[best] && id < best) {
				best = id
			}
		}
		keep[best] = true
	}
	for c, id := range parts {
		if keep[id] || a.IsFixed(c) || g.Get(c) != core.Cave {
			continue
		}
		g.Set(c, core.Empty)
	}
	return nil
}

// InferScreens assigns a catalog screen to every position, choosing at
// random when several match.
func InferScreens(a *Attempt) error {
	empty := a.Catalog.Find(meta.Signature{})
	if len(empty) == 0 {
		return core.Misconfigured("catalog has no empty screen")
	}
	m := meta.NewMetalocation(a.H(), a.W(), empty[0])
	for y := 0; y < a.H(); y++ {
		for x := 0; x < a.W(); x++ {
			sig := meta.SignatureAt(a.Grid, y, x)
			if sig.IsEmpty() {
				continue
			}
			found := a.Catalog.Find(sig)
			switch len(found) {
			case 0:
				return Fail("no screen for %s at %d:%d", sig, y, x)
			case 1:
				m.Set(meta.PosOf(y, x), found[0])
			default:
				m.Set(meta.PosOf(y, x), found[a.RNG.IntN(len(found))])
			}
		}
	}
	a.Meta = m
	return nil
}

// AddBridges places Features.Bridge bridges. Each must lower the walking
// partition count.
func AddBridges(a *Attempt) error {
	m := a.Meta
	for i := 0; i < a.Params.Features.Bridge; i++ {
		before := m.Partitions(meta.TraverseOptions{})
		placed := false
		for _, p := range rng.Perm(a.RNG, m.AllPos()) {
			s := m.Get(p)
			if s.Flags != 0 {
				continue
			}
			bridge := a.Catalog.Variant(s, meta.FlagBridge)
			if bridge == nil {
				continue
			}
			with := map[meta.Pos]*meta.Metascreen{p: bridge}
			if m.Partitions(meta.TraverseOptions{With: with}) >= before {
				continue
			}
			m.Set(p, bridge)
			placed = true
			break
		}
		if !placed {
			return Fail("could not add bridge")
		}
	}
	return nil
}

// CheckPartitions requires the walking partition count to match the
// params.
func CheckPartitions(a *Attempt) error {
	if got := a.Meta.Partitions(meta.TraverseOptions{}); got != a.Params.Partitions {
		return Fail("got %d partitions, want %d", got, a.Params.Partitions)
	}
	return nil
}
