// Package meta describes concrete screens and the assembled maps built from
// them, and answers connectivity questions about those maps.
package meta

import (
	"fmt"
	"strings"

	"cavegen/internal/core"
)

// Point addresses a connection slot inside a screen: three per edge (0..11)
// plus the center (12). North and south slots run west to east; east and
// west slots run north to south, so matching slots of adjacent screens share
// an index.
type Point uint8

// CenterPoint is the screen center, used by stairs and enclosed screens.
const CenterPoint Point = 12

// EdgePoint returns slot k (0..2) of edge d.
func EdgePoint(d core.Dir, k int) Point { return Point(int(d)*3 + k) }

// ring lists the edge slots clockwise around a screen, starting at the
// north-west corner.
var ring = [12]Point{0, 1, 2, 3, 4, 5, 8, 7, 6, 11, 10, 9}

// Flag marks special screen variants.
type Flag uint8

const (
	// FlagBridge marks a river screen with a bridge joining both banks.
	FlagBridge Flag = 1 << iota
	// FlagDeadEnd marks a straight river screen walled off in the middle.
	FlagDeadEnd
)

// Signature is the terrain a screen exposes: its center and four edges in
// N, E, S, W order.
type Signature struct {
	Center core.Tag
	Edges  [4]core.Tag
}

// SignatureAt reads the signature of screen (y, x) from a terrain grid.
func SignatureAt(g *core.Grid, y, x int) Signature {
	c := core.Center(y, x)
	sig := Signature{Center: g.Get(c)}
	for _, d := range core.Dirs {
		sig.Edges[d] = g.Get(c.Step(d))
	}
	return sig
}

// EdgeMask returns a bitmask of the directions whose edge holds tag.
func (s Signature) EdgeMask(tag core.Tag) uint8 {
	var mask uint8
	for _, d := range core.Dirs {
		if s.Edges[d] == tag {
			mask |= 1 << d
		}
	}
	return mask
}

// IsEmpty reports whether nothing at all is on the screen.
func (s Signature) IsEmpty() bool {
	return s == Signature{}
}

func (s Signature) String() string {
	var b strings.Builder
	b.WriteString(tagChar(s.Center))
	b.WriteByte(':')
	for _, t := range s.Edges {
		b.WriteString(tagChar(t))
	}
	return b.String()
}

func tagChar(t core.Tag) string {
	if t == core.Empty {
		return "."
	}
	return t.String()
}

// Metascreen is an immutable catalog entry: one concrete screen and the way
// its connection slots group together under each traversal capability.
type Metascreen struct {
	Name string
	Signature
	Flags Flag

	walk    [][]Point
	flagged [][]Point
	fly     [][]Point
}

// NewMetascreen builds a screen with explicit groups. Catalogs use it for
// hand-authored variants.
func NewMetascreen(name string, sig Signature, flags Flag, walk, flagged, fly [][]Point) *Metascreen {
	return &Metascreen{Name: name, Signature: sig, Flags: flags, walk: walk, flagged: flagged, fly: fly}
}

// Has reports whether every bit of f is set.
func (m *Metascreen) Has(f Flag) bool { return m.Flags&f == f }

// groups returns the point groups active under opts.
func (m *Metascreen) groups(opts TraverseOptions) [][]Point {
	if opts.Flight {
		return m.fly
	}
	if opts.NoFlagged || len(m.flagged) == 0 {
		return m.walk
	}
	out := make([][]Point, 0, len(m.walk)+len(m.flagged))
	out = append(out, m.walk...)
	return append(out, m.flagged...)
}

// Points returns every slot the screen exposes while walking.
func (m *Metascreen) Points() []Point {
	var out []Point
	for _, g := range m.walk {
		out = append(out, g...)
	}
	return out
}

func (m *Metascreen) String() string {
	return fmt.Sprintf("%s[%s]", m.Name, m.Signature)
}

// derive builds the walking and flight groups implied by a signature.
//
// Land screens join every exposed slot at the center. River screens are cut
// at the middle slot of every river edge: the banks (slots 0 and 2) of a
// river edge fall on either side of the cut and land edges expose their
// middle slot. A river with a single river edge runs into the opposite wall
// when that edge is open, which cuts there too; otherwise it ends in a pool
// the banks walk around. Walking around the ring between cuts gives the
// regions.
func derive(sig Signature) (walk, fly [][]Point) {
	if sig.IsEmpty() {
		return nil, nil
	}
	if sig.Center != core.River {
		group := []Point{}
		for _, d := range core.Dirs {
			if sig.Edges[d] != core.Empty {
				group = append(group, EdgePoint(d, 1))
			}
		}
		group = append(group, CenterPoint)
		return [][]Point{group}, [][]Point{append([]Point(nil), group...)}
	}

	present := map[Point]bool{}
	cuts := map[Point]bool{}
	for _, d := range core.Dirs {
		switch sig.Edges[d] {
		case core.Empty:
		case core.River:
			present[EdgePoint(d, 0)] = true
			present[EdgePoint(d, 2)] = true
			cuts[EdgePoint(d, 1)] = true
		default:
			present[EdgePoint(d, 1)] = true
		}
	}

	if len(cuts) == 1 {
		for _, d := range core.Dirs {
			if sig.Edges[d] == core.River && sig.Edges[d.Opposite()] == core.Empty {
				cuts[EdgePoint(d.Opposite(), 1)] = true
			}
		}
	}

	var all []Point
	for _, p := range ring {
		if present[p] {
			all = append(all, p)
		}
	}
	if len(all) == 0 {
		all = []Point{CenterPoint}
	}
	fly = [][]Point{all}
	if len(cuts) < 2 {
		return [][]Point{append([]Point(nil), all...)}, fly
	}

	start := 0
	for i, p := range ring {
		if cuts[p] {
			start = i
			break
		}
	}
	var current []Point
	for i := 1; i <= len(ring); i++ {
		p := ring[(start+i)%len(ring)]
		if cuts[p] {
			if len(current) > 0 {
				walk = append(walk, current)
			}
			current = nil
			continue
		}
		if present[p] {
			current = append(current, p)
		}
	}
	return walk, fly
}
