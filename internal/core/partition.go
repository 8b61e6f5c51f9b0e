package core

// Partition labels the connected components of the non-empty sub-cells.
// Every non-empty tag is mutually passable at this level; river banks are
// walkable, so only emptiness separates regions. Entries in override replace
// the stored tag for the duration of the query, which lets callers ask "what
// if these cells were gone" without touching the grid. Component ids are
// assigned in row-major order of each component's first cell.
func (g *Grid) Partition(override map[Coord]Tag) map[Coord]int {
	tagAt := func(c Coord) Tag {
		if t, ok := override[c]; ok {
			return t
		}
		return g.data[g.Index(c)]
	}

	parts := make(map[Coord]int)
	next := 0
	queue := make([]Coord, 0, 16)
	for i := range g.data {
		start := g.Coord(i)
		if tagAt(start) == Empty {
			continue
		}
		if _, seen := parts[start]; seen {
			continue
		}
		parts[start] = next
		queue = append(queue[:0], start)
		for len(queue) > 0 {
			c := queue[0]
			queue = queue[1:]
			for _, n := range g.Neighbors(c) {
				if tagAt(n) == Empty {
					continue
				}
				if _, seen := parts[n]; seen {
					continue
				}
				parts[n] = next
				queue = append(queue, n)
			}
		}
		next++
	}
	return parts
}

// CountParts returns the number of distinct component ids in parts.
func CountParts[K comparable](parts map[K]int) int {
	seen := make(map[int]struct{}, len(parts))
	for _, id := range parts {
		seen[id] = struct{}{}
	}
	return len(seen)
}
