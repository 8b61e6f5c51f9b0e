package meta

import "cavegen/internal/core"

// TraverseOptions selects the traversal capability.
type TraverseOptions struct {
	// Flight joins every slot of a screen except where a screen walls its
	// halves off completely.
	Flight bool
	// NoFlagged ignores the extra links of flagged screens such as bridges.
	NoFlagged bool
	// With substitutes screens for this traversal only.
	With map[Pos]*Metascreen
}

// Traverse labels every exposed slot with a component id. Slots join when a
// screen groups them or when adjacent screens expose the matching slot of a
// shared edge. Ids are assigned in row-major order of the first slot of each
// component. The result is fresh on every call.
func (m *Metalocation) Traverse(opts TraverseOptions) map[Node]int {
	const perScreen = int(CenterPoint) + 1
	total := m.H * m.W * perScreen
	parent := make([]int, total)
	present := make([]bool, total)
	for i := range parent {
		parent[i] = i
	}
	find := func(i int) int {
		for parent[i] != i {
			parent[i] = parent[parent[i]]
			i = parent[i]
		}
		return i
	}
	union := func(a, b int) {
		ra, rb := find(a), find(b)
		if ra == rb {
			return
		}
		if ra < rb {
			parent[rb] = ra
		} else {
			parent[ra] = rb
		}
	}
	slot := func(y, x int, pt Point) int { return (y*m.W+x)*perScreen + int(pt) }

	screenAt := func(p Pos) *Metascreen {
		if s, ok := opts.With[p]; ok && s != nil {
			return s
		}
		return m.Get(p)
	}

	for _, p := range m.AllPos() {
		for _, group := range screenAt(p).groups(opts) {
			for i, pt := range group {
				present[slot(p.Y(), p.X(), pt)] = true
				if i > 0 {
					union(slot(p.Y(), p.X(), group[0]), slot(p.Y(), p.X(), pt))
				}
			}
		}
	}

	for y := 0; y < m.H; y++ {
		for x := 0; x < m.W; x++ {
			for k := 0; k < 3; k++ {
				if x+1 < m.W {
					a := slot(y, x, EdgePoint(core.E, k))
					b := slot(y, x+1, EdgePoint(core.W, k))
					if present[a] && present[b] {
						union(a, b)
					}
				}
				if y+1 < m.H {
					a := slot(y, x, EdgePoint(core.S, k))
					b := slot(y+1, x, EdgePoint(core.N, k))
					if present[a] && present[b] {
						union(a, b)
					}
				}
			}
		}
	}

	out := make(map[Node]int)
	ids := make(map[int]int)
	for i := 0; i < total; i++ {
		if !present[i] {
			continue
		}
		root := find(i)
		id, ok := ids[root]
		if !ok {
			id = len(ids)
			ids[root] = id
		}
		screen := i / perScreen
		p := PosOf(screen/m.W, screen%m.W)
		out[NodeOf(p, Point(i%perScreen))] = id
	}
	return out
}

// Reach returns the number of slots in the component containing n, or zero
// when n is not exposed.
func Reach(parts map[Node]int, n Node) int {
	id, ok := parts[n]
	if !ok {
		return 0
	}
	count := 0
	for _, v := range parts {
		if v == id {
			count++
		}
	}
	return count
}

// Partitions counts the components of a traversal.
func (m *Metalocation) Partitions(opts TraverseOptions) int {
	return core.CountParts(m.Traverse(opts))
}
