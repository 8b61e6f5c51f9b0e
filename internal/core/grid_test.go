package core

import (
	"errors"
	"slices"
	"testing"
	"time"
)

func TestCoordPacking(t *testing.T) {
	c := Center(2, 3)
	if c != 0x2838 {
		t.Fatalf("Center(2,3) = %s, want 2838", c)
	}
	if c.Row() != 5 || c.Col() != 7 {
		t.Fatalf("center sub-cell = (%d,%d), want (5,7)", c.Row(), c.Col())
	}
	if !c.IsCenter() || c.IsEdge() {
		t.Fatal("center must be a center and not an edge")
	}
	if e := c.Step(N); !e.IsEdge() || e != c-0x800 {
		t.Fatalf("north edge = %s", e)
	}
	if e := c.Step(W); !e.IsEdge() || e != c-8 {
		t.Fatalf("west edge = %s", e)
	}
	if y, x := c.Step(E).Step(E).Screen(); y != 2 || x != 4 {
		t.Fatalf("two steps east lands on screen (%d,%d), want (2,4)", y, x)
	}
}

func TestNeighborsAndBorder(t *testing.T) {
	g := NewGrid(2, 3)
	corner := Coord(0)
	if got := g.Neighbors(corner); len(got) != 2 {
		t.Fatalf("corner has %d neighbors, want 2", len(got))
	}
	if got := g.Neighbors(Center(1, 1)); len(got) != 4 {
		t.Fatalf("center has %d neighbors, want 4", len(got))
	}
	if !g.IsBorder(Center(0, 0).Step(N)) || !g.IsBorder(Center(1, 2).Step(E)) {
		t.Fatal("outer edges must be border cells")
	}
	if g.IsBorder(Center(0, 0).Step(E)) {
		t.Fatal("interior edge reported as border")
	}
	if g.InBounds(Center(1, 2).Step(S).Step(S)) {
		t.Fatal("cell below the bottom border must be out of bounds")
	}
	if g.InBounds(corner.Step(W)) || g.InBounds(corner.Step(N)) {
		t.Fatal("wrapped coordinates must be out of bounds")
	}
}

func TestScreensRowMajor(t *testing.T) {
	g := NewGrid(2, 2)
	want := []Coord{0x0000, 0x0010, 0x1000, 0x1010}
	if got := g.Screens(); !slices.Equal(got, want) {
		t.Fatalf("Screens() = %v, want %v", got, want)
	}
}

func TestGridCoordIndexRoundTrip(t *testing.T) {
	g := NewGrid(3, 4)
	for i := range g.Cells() {
		if got := g.Index(g.Coord(i)); got != i {
			t.Fatalf("Index(Coord(%d)) = %d", i, got)
		}
	}
}

func TestSetOutOfBoundsIgnored(t *testing.T) {
	g := NewGrid(1, 1)
	g.Set(Center(0, 0).Step(S).Step(S), Cave)
	for _, tag := range g.Cells() {
		if tag != Empty {
			t.Fatal("out-of-bounds Set modified the grid")
		}
	}
	if g.Get(Coord(0xffff)) != Empty {
		t.Fatal("out-of-bounds Get must report Empty")
	}
}

func bfsComponents(g *Grid) int {
	seen := map[Coord]bool{}
	count := 0
	for i, tag := range g.Cells() {
		c := g.Coord(i)
		if tag == Empty || seen[c] {
			continue
		}
		count++
		stack := []Coord{c}
		seen[c] = true
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for _, n := range g.Neighbors(cur) {
				if g.Get(n) != Empty && !seen[n] {
					seen[n] = true
					stack = append(stack, n)
				}
			}
		}
	}
	return count
}

func TestPartitionMatchesFloodFill(t *testing.T) {
	g := NewGrid(3, 3)
	// Two separate strips: top row joined east-west, bottom-left alone.
	a, b, c := Center(0, 0), Center(0, 1), Center(2, 0)
	g.Set(a, Cave)
	g.Set(a.Step(E), Cave)
	g.Set(b, River)
	g.Set(c, Cave)
	g.Set(c.Step(S), Exit)

	parts := g.Partition(nil)
	if got, want := CountParts(parts), bfsComponents(g); got != want {
		t.Fatalf("Partition found %d components, flood fill %d", got, want)
	}
	if parts[a] != parts[b] {
		t.Fatal("cave and river joined by an edge must share a component")
	}
	if parts[a] == parts[c] {
		t.Fatal("disconnected cells share a component")
	}
	if parts[a] != 0 {
		t.Fatalf("first component in row-major order must be 0, got %d", parts[a])
	}
}

func TestPartitionOverrideIsNonDestructive(t *testing.T) {
	g := NewGrid(1, 3)
	for x := 0; x < 3; x++ {
		g.Set(Center(0, x), Cave)
	}
	g.Set(Center(0, 0).Step(E), Cave)
	g.Set(Center(0, 1).Step(E), River)
	before := slices.Clone(g.Cells())

	parts := g.Partition(map[Coord]Tag{Center(0, 1).Step(E): Empty})
	if CountParts(parts) != 2 {
		t.Fatalf("override should split the strip, got %d parts", CountParts(parts))
	}
	if !slices.Equal(before, g.Cells()) {
		t.Fatal("Partition mutated the grid")
	}
	if CountParts(g.Partition(nil)) != 1 {
		t.Fatal("grid without override must be one component")
	}
}

func TestShowDrawsEverySubRow(t *testing.T) {
	g := NewGrid(2, 2)
	g.Set(Center(0, 0), Cave)
	out := g.Show()
	if want := "+ + +\n c   \n+ + +\n     \n+ + +\n"; out != want {
		t.Fatalf("Show() =\n%q\nwant\n%q", out, want)
	}
}

func TestFromMapParsesKnownKeys(t *testing.T) {
	p := FromMap(map[string]string{
		"h":      "4",
		"w":      "bogus",
		"size":   "12",
		"river":  "5",
		"edges":  "bottom:2,top",
		"stairs": "up,down@1:2",
	})
	if p.Height != 4 {
		t.Fatalf("height = %d, want 4", p.Height)
	}
	if p.Width != DefaultParams().Width {
		t.Fatalf("unparsable width must keep the default, got %d", p.Width)
	}
	if p.Size != 12 || p.Features.River != 5 {
		t.Fatalf("size/river = %d/%d", p.Size, p.Features.River)
	}
	if p.Edges[S] != 2 || p.Edges[N] != 1 {
		t.Fatalf("edges = %v", p.Edges)
	}
	if len(p.Stairs) != 2 || p.Stairs[0].Kind != StairUp || !p.Stairs[1].At || p.Stairs[1].X != 2 {
		t.Fatalf("stairs = %+v", p.Stairs)
	}
	if got := FormatEdges(p.Edges); got != "top:1,bottom:2" {
		t.Fatalf("FormatEdges = %q", got)
	}
}

func TestParametersRoundTrip(t *testing.T) {
	p := DefaultParams()
	p.Features = Features{River: 6, Arena: 1, Bridge: 2}
	p.Edges = map[Dir]int{S: 2}
	p.Stairs = []Stair{{Kind: StairDown, At: true, Y: 1, X: 3}}
	p.SkipPreinfer = true
	q := ApplyMap(DefaultParams(), p.Parameters().Map())
	if q.Features != p.Features || q.SkipPreinfer != p.SkipPreinfer || q.Size != p.Size {
		t.Fatalf("round trip = %+v, want %+v", q, p)
	}
	if FormatEdges(q.Edges) != FormatEdges(p.Edges) || FormatStairs(q.Stairs) != FormatStairs(p.Stairs) {
		t.Fatalf("edges/stairs lost: %v %v", q.Edges, q.Stairs)
	}
}

func TestValidateRejectsImpossibleParams(t *testing.T) {
	p := DefaultParams()
	p.Size = p.ScreenCount() + 1
	err := p.Validate()
	if !errors.Is(err, ErrMisconfigured) {
		t.Fatalf("oversized layout: got %v, want misconfiguration", err)
	}
	var mis *Misconfiguration
	if !errors.As(err, &mis) || mis.Reason == "" {
		t.Fatal("misconfiguration must carry a reason")
	}
	if err := DefaultParams().Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
}

func TestValidateRejectsUnreachableExits(t *testing.T) {
	bad := map[string]func(*ShuffleParams){
		"top and bottom": func(p *ShuffleParams) { p.Size, p.Edges = 1, map[Dir]int{N: 1, S: 1} },
		"left and right": func(p *ShuffleParams) { p.Size, p.Edges = 8, map[Dir]int{W: 1, E: 1} },
		"crowded side":   func(p *ShuffleParams) { p.Size, p.Edges = 3, map[Dir]int{S: 4} },
		"stairs too":     func(p *ShuffleParams) { p.Size, p.Edges, p.Stairs = 3, map[Dir]int{S: 2}, []Stair{{Kind: StairUp}, {Kind: StairDown}} },
		"shared stair": func(p *ShuffleParams) {
			p.Stairs = []Stair{{Kind: StairUp, At: true, Y: 1, X: 1}, {Kind: StairDown, At: true, Y: 1, X: 1}}
		},
	}
	for name, tweak := range bad {
		p := DefaultParams()
		tweak(&p)
		if err := p.Validate(); !errors.Is(err, ErrMisconfigured) {
			t.Fatalf("%s: got %v, want misconfiguration", name, err)
		}
	}

	p := DefaultParams()
	p.Size, p.Edges = p.Height, map[Dir]int{N: 1, S: 1}
	if err := p.Validate(); err != nil {
		t.Fatalf("a single column reaches both sides: %v", err)
	}
	p.Size, p.Edges, p.Stairs = 4, map[Dir]int{S: 3}, []Stair{{Kind: StairUp}}
	if err := p.Validate(); err != nil {
		t.Fatalf("three exits and a stair fit four screens: %v", err)
	}
}

func TestCloneIsDeep(t *testing.T) {
	p := DefaultParams()
	p.Edges = map[Dir]int{S: 2}
	q := p.Clone()
	q.Edges[S] = 0
	if p.Edges[S] != 2 {
		t.Fatal("Clone shares the edge map")
	}
}

func TestIntervalFiresOncePerPeriod(t *testing.T) {
	now := time.Unix(0, 0)
	iv := NewInterval(time.Second)
	iv.now = func() time.Time { return now }
	if iv.Due() {
		t.Fatal("first poll must not fire")
	}
	now = now.Add(500 * time.Millisecond)
	if iv.Due() {
		t.Fatal("fired before a full period")
	}
	now = now.Add(600 * time.Millisecond)
	if !iv.Due() {
		t.Fatal("expected firing after a full period")
	}
	now = now.Add(10 * time.Second)
	if !iv.Due() || iv.Due() {
		t.Fatal("a long stall must fire once, not catch up")
	}
}
