package meta

import (
	"sort"
	"strings"

	"cavegen/internal/core"
)

// Catalog is the read-only screen library consulted by screen assignment.
type Catalog interface {
	// Find returns every screen matching sig, in a stable order.
	Find(sig Signature) []*Metascreen
	// Variant returns the flagged variant of base, or nil if none exists.
	Variant(base *Metascreen, flag Flag) *Metascreen
}

// Named screens of the river cave library.
const (
	EmptyScreen     = "empty"
	RiverDeadEndsNS = "riverDeadEndsNS"
	RiverDeadEndsWE = "riverDeadEndsWE"

	bridgeSuffix = "_bridge"
)

// River edge masks of straight river screens.
const (
	RiverEdgesNS uint8 = 1<<core.N | 1<<core.S
	RiverEdgesWE uint8 = 1<<core.E | 1<<core.W
)

type variantKey struct {
	base string
	flag Flag
}

// Library is an in-memory Catalog.
type Library struct {
	bySig    map[Signature][]*Metascreen
	byName   map[string]*Metascreen
	variants map[variantKey]*Metascreen
}

// NewLibrary returns an empty library.
func NewLibrary() *Library {
	return &Library{
		bySig:    map[Signature][]*Metascreen{},
		byName:   map[string]*Metascreen{},
		variants: map[variantKey]*Metascreen{},
	}
}

// Add registers a screen for signature lookup.
func (l *Library) Add(m *Metascreen) {
	l.bySig[m.Signature] = append(l.bySig[m.Signature], m)
	l.byName[m.Name] = m
}

// AddVariant registers v as the flag variant of base. Variants are not
// returned by Find.
func (l *Library) AddVariant(base *Metascreen, flag Flag, v *Metascreen) {
	l.variants[variantKey{base: base.Name, flag: flag}] = v
	l.byName[v.Name] = v
}

// Find implements Catalog.
func (l *Library) Find(sig Signature) []*Metascreen { return l.bySig[sig] }

// Variant implements Catalog.
func (l *Library) Variant(base *Metascreen, flag Flag) *Metascreen {
	if base == nil {
		return nil
	}
	return l.variants[variantKey{base: base.Name, flag: flag}]
}

// Lookup returns the screen registered under name.
func (l *Library) Lookup(name string) (*Metascreen, bool) {
	m, ok := l.byName[name]
	return m, ok
}

// Names lists every registered screen name, sorted.
func (l *Library) Names() []string {
	out := make([]string, 0, len(l.byName))
	for name := range l.byName {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

var centerNames = map[core.Tag]string{
	core.Cave:      "cave",
	core.River:     "river",
	core.Arena:     "arena",
	core.StairUp:   "stairUp",
	core.StairDown: "stairDown",
}

func screenName(sig Signature) string {
	var b strings.Builder
	b.WriteString(centerNames[sig.Center])
	b.WriteByte('_')
	for _, t := range sig.Edges {
		b.WriteString(tagChar(t))
	}
	return b.String()
}

// RiverCave builds the river cave library: land, stair and arena screens
// with any mix of open, cave and exit edges, river screens with any mix that
// also allows river edges, bridges over straight rivers, and the two
// dead-end river screens.
func RiverCave() *Library {
	l := NewLibrary()
	l.Add(&Metascreen{Name: EmptyScreen})

	land := []core.Tag{core.Empty, core.Cave, core.Exit}
	water := []core.Tag{core.Empty, core.Cave, core.River, core.Exit}

	for _, center := range []core.Tag{core.Cave, core.StairUp, core.StairDown} {
		eachEdges(land, func(edges [4]core.Tag) {
			l.addDerived(Signature{Center: center, Edges: edges})
		})
	}
	for _, we := range [][2]core.Tag{{core.Empty, core.Empty}, {core.Cave, core.Empty}, {core.Empty, core.Cave}, {core.Cave, core.Cave}} {
		l.addDerived(Signature{Center: core.Arena, Edges: [4]core.Tag{core.Cave, we[1], core.Cave, we[0]}})
	}
	eachEdges(water, func(edges [4]core.Tag) {
		sig := Signature{Center: core.River, Edges: edges}
		base := l.addDerived(sig)
		mask := sig.EdgeMask(core.River)
		if mask != RiverEdgesNS && mask != RiverEdgesWE {
			return
		}
		all := base.fly[0]
		bridge := &Metascreen{
			Name:      base.Name + bridgeSuffix,
			Signature: sig,
			Flags:     FlagBridge,
			walk:      base.walk,
			flagged:   [][]Point{all},
			fly:       base.fly,
		}
		l.AddVariant(base, FlagBridge, bridge)
	})

	ns := Signature{Center: core.River, Edges: [4]core.Tag{core.River, core.Empty, core.River, core.Empty}}
	l.AddVariant(l.bySig[ns][0], FlagDeadEnd, deadEnd(RiverDeadEndsNS, ns, core.N, core.S))

	we := Signature{Center: core.River, Edges: [4]core.Tag{core.Empty, core.River, core.Empty, core.River}}
	l.AddVariant(l.bySig[we][0], FlagDeadEnd, deadEnd(RiverDeadEndsWE, we, core.E, core.W))
	return l
}

// deadEnd builds a straight river screen with a wall across the middle. Each
// river stub runs into the wall, so walking keeps all four banks apart while
// flight crosses a stub but never the wall.
func deadEnd(name string, sig Signature, a, b core.Dir) *Metascreen {
	var walk, fly [][]Point
	for _, d := range []core.Dir{a, b} {
		left, right := EdgePoint(d, 0), EdgePoint(d, 2)
		walk = append(walk, []Point{left}, []Point{right})
		fly = append(fly, []Point{left, right})
	}
	return NewMetascreen(name, sig, FlagDeadEnd, walk, nil, fly)
}

func (l *Library) addDerived(sig Signature) *Metascreen {
	walk, fly := derive(sig)
	m := &Metascreen{Name: screenName(sig), Signature: sig, walk: walk, fly: fly}
	l.Add(m)
	return m
}

func eachEdges(tags []core.Tag, fn func([4]core.Tag)) {
	var edges [4]core.Tag
	var rec func(i int)
	rec = func(i int) {
		if i == len(edges) {
			fn(edges)
			return
		}
		for _, t := range tags {
			edges[i] = t
			rec(i + 1)
		}
	}
	rec(0)
}
