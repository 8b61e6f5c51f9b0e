package shuffle

import (
	"cavegen/internal/core"
	rng "cavegen/pkg/core"
)

// caveHost reports whether new cave may attach to a center holding t.
// Arenas are excluded so their east and west sides stay closed.
func caveHost(t core.Tag) bool {
	return t == core.Cave || t == core.River || t.IsStair()
}

func (a *Attempt) riverDegree(c core.Coord) int {
	n := 0
	for _, d := range core.Dirs {
		if a.Grid.Get(c.Step(d)) == core.River {
			n++
		}
	}
	return n
}

type frontier struct {
	host core.Coord
	dir  core.Dir
}

// TryAdd grows tag by one screen next to an existing host and reports how
// many screens it added (0 or 1). Cave grows from cave, river and stair
// centers and then links to each other neighboring host with probability
// one half. River only grows from unfixed chain ends, so it never branches.
// Every eligible (host, direction) pair is considered, so TryAdd returns 0
// only when no growth is possible at all.
func TryAdd(a *Attempt, tag core.Tag) int {
	g := a.Grid
	var options []frontier
	for _, h := range a.Centers(func(t core.Tag) bool { return t != core.Empty }) {
		t := g.Get(h)
		switch tag {
		case core.Cave:
			if !caveHost(t) {
				continue
			}
		case core.River:
			if t != core.River || a.IsFixed(h) || a.riverDegree(h) > 1 {
				continue
			}
		default:
			if t != tag {
				continue
			}
		}
		for _, d := range core.Dirs {
			e := h.Step(d)
			n := e.Step(d)
			if g.IsBorder(e) || !g.InBounds(n) {
				continue
			}
			if g.Get(e) != core.Empty || g.Get(n) != core.Empty || a.IsFixed(e) || a.IsFixed(n) {
				continue
			}
			options = append(options, frontier{host: h, dir: d})
		}
	}
	if len(options) == 0 {
		return 0
	}
	f := options[a.RNG.IntN(len(options))]
	e := f.host.Step(f.dir)
	n := e.Step(f.dir)
	g.Set(e, tag)
	g.Set(n, tag)
	if tag != core.Cave {
		return 1
	}
	for _, d := range core.Dirs {
		if d == f.dir.Opposite() {
			continue
		}
		e2 := n.Step(d)
		m := e2.Step(d)
		if g.IsBorder(e2) || !g.InBounds(m) || !caveHost(g.Get(m)) {
			continue
		}
		if g.Get(e2) != core.Empty || a.IsFixed(e2) {
			continue
		}
		if a.RNG.IntN(2) == 0 {
			g.Set(e2, core.Cave)
		}
	}
	return 1
}

// TryExtrude pushes an edge between two tag centers out sideways into a
// U-shaped detour through two new screens. Up to attempts shuffled edges are
// tried. It returns the number of screens added (0 or 2) and refuses when
// fewer than two remain.
func TryExtrude(a *Attempt, tag core.Tag, remaining, attempts int) int {
	if remaining < 2 || attempts <= 0 {
		return 0
	}
	g := a.Grid
	var edges []core.Coord
	for i, t := range g.Cells() {
		c := g.Coord(i)
		if t != tag || !c.IsEdge() || g.IsBorder(c) || a.IsFixed(c) {
			continue
		}
		if c.Row()&1 == 0 {
			// Horizontal edge: centers above and below.
			if g.Get(c.Step(core.N)) != tag || g.Get(c.Step(core.S)) != tag {
				continue
			}
		} else if g.Get(c.Step(core.W)) != tag || g.Get(c.Step(core.E)) != tag {
			continue
		}
		edges = append(edges, c)
	}
	edges = rng.Perm(a.RNG, edges)
	if len(edges) > attempts {
		edges = edges[:attempts]
	}
	for _, e := range edges {
		var ca, cb core.Coord
		sides := []core.Dir{core.W, core.E}
		if e.Row()&1 == 0 {
			ca, cb = e.Step(core.N), e.Step(core.S)
		} else {
			ca, cb = e.Step(core.W), e.Step(core.E)
			sides = []core.Dir{core.N, core.S}
		}
		if a.RNG.IntN(2) == 1 {
			sides[0], sides[1] = sides[1], sides[0]
		}
		for _, d := range sides {
			ea, eb := ca.Step(d), cb.Step(d)
			na, nb := ea.Step(d), eb.Step(d)
			link := e.Step(d).Step(d)
			if !g.InBounds(na) || !g.InBounds(nb) || g.IsBorder(ea) || g.IsBorder(eb) {
				continue
			}
			clear := true
			for _, c := range []core.Coord{ea, eb, na, nb, link} {
				if g.Get(c) != core.Empty || a.IsFixed(c) {
					clear = false
					break
				}
			}
			if !clear {
				continue
			}
			g.Set(e, core.Empty)
			for _, c := range []core.Coord{ea, na, link, nb, eb} {
				g.Set(c, tag)
			}
			return 2
		}
	}
	return 0
}

// GrowCave grows the map until exactly target screens are non-empty.
// Extrusion is preferred while at least two screens remain.
func GrowCave(a *Attempt, target int) error {
	for size := a.Grid.Size(); size < target; {
		added := 0
		if target-size >= 2 {
			added = TryExtrude(a, core.Cave, target-size, 10)
		}
		if added == 0 {
			added = TryAdd(a, core.Cave)
		}
		if added == 0 {
			return Fail("failed to extrude cave")
		}
		size += added
	}
	return nil
}

// GrowRiver grows the river to at least target screens. It may overshoot by
// one when the last screen can only be gained by extrusion.
func GrowRiver(a *Attempt, target int) error {
	for n := a.Grid.Count(core.River); n < target; {
		added := 0
		if target-n >= 2 {
			added = TryExtrude(a, core.River, target-n, 10)
		}
		if added == 0 {
			added = TryAdd(a, core.River)
		}
		if added == 0 {
			added = TryExtrude(a, core.River, 2, 10)
		}
		if added == 0 {
			return Fail("failed to extrude river")
		}
		n += added
	}
	return nil
}
