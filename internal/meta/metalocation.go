package meta

import (
	"fmt"
	"strings"

	"cavegen/internal/core"
)

// Pos addresses a screen as y<<4 | x.
type Pos uint8

// PosOf packs screen (y, x).
func PosOf(y, x int) Pos { return Pos(y<<4 | x) }

// Y returns the screen row.
func (p Pos) Y() int { return int(p >> 4) }

// X returns the screen column.
func (p Pos) X() int { return int(p & 0xf) }

// Node addresses one connection slot on the map as pos<<8 | point.
type Node uint16

// NodeOf packs a slot of the screen at p.
func NodeOf(p Pos, pt Point) Node { return Node(p)<<8 | Node(pt) }

// Pos returns the screen of n.
func (n Node) Pos() Pos { return Pos(n >> 8) }

// Point returns the slot of n.
func (n Node) Point() Point { return Point(n & 0xff) }

// Exit kinds.
const (
	ExitTop       = "edge:top"
	ExitRight     = "edge:right"
	ExitBottom    = "edge:bottom"
	ExitLeft      = "edge:left"
	ExitStairUp   = "stair:up"
	ExitStairDown = "stair:down"
)

var edgeExitKinds = [4]string{ExitTop, ExitRight, ExitBottom, ExitLeft}

// Exit is a way in or out of the map.
type Exit struct {
	Pos  Pos
	Kind string
	// Point is the slot a traversal assigns the exit to.
	Point Point
}

// Node returns the traversal node of the exit.
func (e Exit) Node() Node { return NodeOf(e.Pos, e.Point) }

// Metalocation is a finished map: one screen per grid position.
type Metalocation struct {
	H, W    int
	screens []*Metascreen
	empty   *Metascreen
}

// NewMetalocation returns an h x w map filled with empty.
func NewMetalocation(h, w int, empty *Metascreen) *Metalocation {
	if empty == nil {
		empty = &Metascreen{Name: EmptyScreen}
	}
	m := &Metalocation{H: h, W: w, screens: make([]*Metascreen, h*w), empty: empty}
	for i := range m.screens {
		m.screens[i] = empty
	}
	return m
}

// InBounds reports whether p is on the map.
func (m *Metalocation) InBounds(p Pos) bool {
	return p.Y() < m.H && p.X() < m.W
}

func (m *Metalocation) index(p Pos) int { return p.Y()*m.W + p.X() }

// Get returns the screen at p, or the empty screen when p is off the map.
func (m *Metalocation) Get(p Pos) *Metascreen {
	if !m.InBounds(p) {
		return m.empty
	}
	return m.screens[m.index(p)]
}

// Set replaces the screen at p.
func (m *Metalocation) Set(p Pos, s *Metascreen) {
	if !m.InBounds(p) || s == nil {
		return
	}
	m.screens[m.index(p)] = s
}

// AllPos lists every position in row-major order.
func (m *Metalocation) AllPos() []Pos {
	out := make([]Pos, 0, m.H*m.W)
	for y := 0; y < m.H; y++ {
		for x := 0; x < m.W; x++ {
			out = append(out, PosOf(y, x))
		}
	}
	return out
}

// Clone returns a copy whose screen assignments can change independently.
func (m *Metalocation) Clone() *Metalocation {
	return &Metalocation{H: m.H, W: m.W, screens: append([]*Metascreen(nil), m.screens...), empty: m.empty}
}

// Count returns the number of non-empty screens matching pred.
func (m *Metalocation) Count(pred func(*Metascreen) bool) int {
	n := 0
	for _, s := range m.screens {
		if !s.IsEmpty() && pred(s) {
			n++
		}
	}
	return n
}

// Exits lists edge exits and stairs in row-major order, edges before the
// stair of the same screen.
func (m *Metalocation) Exits() []Exit {
	var out []Exit
	for _, p := range m.AllPos() {
		s := m.Get(p)
		for _, d := range core.Dirs {
			if s.Edges[d] == core.Exit {
				out = append(out, Exit{Pos: p, Kind: edgeExitKinds[d], Point: EdgePoint(d, 1)})
			}
		}
		switch s.Center {
		case core.StairUp:
			out = append(out, Exit{Pos: p, Kind: ExitStairUp, Point: CenterPoint})
		case core.StairDown:
			out = append(out, Exit{Pos: p, Kind: ExitStairDown, Point: CenterPoint})
		}
	}
	return out
}

// ExitsOf returns the exits with the given kind.
func (m *Metalocation) ExitsOf(kind string) []Exit {
	var out []Exit
	for _, e := range m.Exits() {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// Show renders the map as text, three rows and columns per screen. Bridges
// draw their center as '=' and dead ends as 'x'.
func (m *Metalocation) Show() string {
	var b strings.Builder
	for y := 0; y < m.H; y++ {
		rows := [3]strings.Builder{}
		for x := 0; x < m.W; x++ {
			s := m.Get(PosOf(y, x))
			center := s.Center.String()
			switch {
			case s.Has(FlagBridge):
				center = "="
			case s.Has(FlagDeadEnd):
				center = "x"
			}
			rows[0].WriteString(" " + s.Edges[core.N].String() + " ")
			rows[1].WriteString(s.Edges[core.W].String() + center + s.Edges[core.E].String())
			rows[2].WriteString(" " + s.Edges[core.S].String() + " ")
		}
		for i := range rows {
			b.WriteString(strings.TrimRight(rows[i].String(), " "))
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// ExitRecord is the serialized form of an Exit.
type ExitRecord struct {
	Y    int    `json:"y"`
	X    int    `json:"x"`
	Kind string `json:"kind"`
}

// Record is the serialized form of a Metalocation, consumed by the export
// and persistence layers.
type Record struct {
	Height  int          `json:"height"`
	Width   int          `json:"width"`
	Screens []string     `json:"screens"`
	Exits   []ExitRecord `json:"exits"`
}

// Record exports the map.
func (m *Metalocation) Record() Record {
	rec := Record{Height: m.H, Width: m.W, Screens: make([]string, len(m.screens))}
	for i, s := range m.screens {
		rec.Screens[i] = s.Name
	}
	for _, e := range m.Exits() {
		rec.Exits = append(rec.Exits, ExitRecord{Y: e.Pos.Y(), X: e.Pos.X(), Kind: e.Kind})
	}
	return rec
}

// Load rebuilds a Metalocation from a record using the library's names.
func (l *Library) Load(rec Record) (*Metalocation, error) {
	if len(rec.Screens) != rec.Height*rec.Width {
		return nil, fmt.Errorf("record has %d screens for a %dx%d map", len(rec.Screens), rec.Height, rec.Width)
	}
	empty, _ := l.Lookup(EmptyScreen)
	m := NewMetalocation(rec.Height, rec.Width, empty)
	for i, name := range rec.Screens {
		s, ok := l.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("unknown screen %q", name)
		}
		m.screens[i] = s
	}
	return m, nil
}
