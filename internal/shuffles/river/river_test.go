package river

import (
	"errors"
	"slices"
	"testing"

	"cavegen/internal/core"
	"cavegen/internal/meta"
	"cavegen/internal/shuffle"
	rng "cavegen/pkg/core"
)

func params(h, w, size, river int) core.ShuffleParams {
	p := core.DefaultParams()
	p.Height, p.Width, p.Size = h, w, size
	p.Features.River = river
	return p
}

func TestRegistered(t *testing.T) {
	names := shuffle.Names()
	for _, want := range []string{Name, WaterfallName, StyxName, StyxSplitName} {
		if !slices.Contains(names, want) {
			t.Fatalf("%s missing from %v", want, names)
		}
	}
}

func TestRiverBetweenBottomExits(t *testing.T) {
	p := params(5, 9, 40, 12)
	for seed := int64(1); seed <= 3; seed++ {
		res, err := River.Run(p, rng.NewRNG(seed), meta.RiverCave())
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		g := res.Grid
		if got := g.Count(core.River); got < 12 {
			t.Fatalf("seed %d: river of %d screens, want at least 12", seed, got)
		}
		if got := g.Size(); got != 40 {
			t.Fatalf("seed %d: %d screens, want 40\n%s", seed, got, g.Show())
		}
		override := map[core.Coord]core.Tag{}
		for i, tag := range g.Cells() {
			if tag == core.Cave {
				override[g.Coord(i)] = core.Empty
			}
		}
		if got := core.CountParts(g.Partition(override)); got != 1 {
			t.Fatalf("seed %d: river is in %d pieces\n%s", seed, got, g.Show())
		}
		m := res.Meta
		if got := len(m.ExitsOf(meta.ExitBottom)); got != 2 {
			t.Fatalf("seed %d: %d bottom exits", seed, got)
		}
		for _, e := range m.ExitsOf(meta.ExitBottom) {
			if m.Get(e.Pos).Center != core.River {
				t.Fatalf("seed %d: exit %v is not at a river end", seed, e)
			}
		}
		if got := m.Partitions(meta.TraverseOptions{}); got != 1 {
			t.Fatalf("seed %d: %d partitions", seed, got)
		}
	}
}

func TestRiverDeterministic(t *testing.T) {
	p := params(5, 9, 30, 10)
	first, err := River.Generate(p, rng.NewRNG(3), meta.RiverCave())
	if err != nil {
		t.Fatal(err)
	}
	second, err := River.Generate(p, rng.NewRNG(3), meta.RiverCave())
	if err != nil {
		t.Fatal(err)
	}
	if first.Show() != second.Show() {
		t.Fatal("same seed gave different rivers")
	}
}

func TestRiverRejectsTinyGrid(t *testing.T) {
	_, err := River.Generate(params(1, 9, 5, 0), rng.NewRNG(1), meta.RiverCave())
	if !errors.Is(err, core.ErrMisconfigured) {
		t.Fatalf("Generate = %v, want misconfiguration", err)
	}
}

func TestRiverMatters(t *testing.T) {
	p := params(1, 3, 3, 0)
	a := shuffle.NewAttempt(p, rng.NewRNG(1), meta.RiverCave())
	g := a.Grid
	g.Set(core.Center(0, 0), core.StairUp)
	g.Set(core.Center(0, 1), core.Cave)
	g.Set(core.Center(0, 2), core.StairDown)
	g.Set(core.Center(0, 0).Step(core.E), core.Cave)
	g.Set(core.Center(0, 1).Step(core.E), core.Cave)
	var f *shuffle.Failure
	if err := riverMatters(a); !errors.As(err, &f) || f.Reason != "river didn't matter" {
		t.Fatalf("riverMatters = %v, want river didn't matter", err)
	}
	g.Set(core.Center(0, 1), core.River)
	if err := riverMatters(a); err != nil {
		t.Fatalf("stairs joined only through the river: %v", err)
	}
}

func TestWaterfallNeedsFlight(t *testing.T) {
	p := params(5, 9, 30, 0)
	for seed := int64(1); seed <= 3; seed++ {
		m, err := Waterfall.Generate(p, rng.NewRNG(seed), meta.RiverCave())
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		if got := len(m.ExitsOf(meta.ExitStairDown)); got != 2 {
			t.Fatalf("seed %d: %d stairs", seed, got)
		}
		if got := m.Partitions(meta.TraverseOptions{Flight: true}); got != 1 {
			t.Fatalf("seed %d: %d partitions with flight", seed, got)
		}
		if got := m.Partitions(meta.TraverseOptions{}); got < 2 {
			t.Fatalf("seed %d: walking crossed the waterfall\n%s", seed, m.Show())
		}
	}
}

func TestStyx(t *testing.T) {
	p := params(5, 9, 30, 12)
	p.Features.Bridge = 1
	for seed := int64(1); seed <= 3; seed++ {
		m, err := Styx.Generate(p, rng.NewRNG(seed), meta.RiverCave())
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		if got := len(m.ExitsOf(meta.ExitBottom)); got != 2 {
			t.Fatalf("seed %d: %d bottom exits", seed, got)
		}
		if got := m.Count(func(s *meta.Metascreen) bool { return s.Has(meta.FlagBridge) }); got != 1 {
			t.Fatalf("seed %d: %d bridges", seed, got)
		}
		walk := accessible(m, meta.TraverseOptions{})
		if accessible(m, meta.TraverseOptions{NoFlagged: true}) >= walk {
			t.Fatalf("seed %d: bridge does not open anything", seed)
		}
		if accessible(m, meta.TraverseOptions{Flight: true}) <= walk {
			t.Fatalf("seed %d: flight does not open anything", seed)
		}
	}
}

func TestStyxSplit(t *testing.T) {
	for _, p := range []core.ShuffleParams{params(4, 9, 18, 9), params(5, 9, 30, 12)} {
		for seed := int64(1); seed <= 5; seed++ {
			m, err := StyxSplit.Generate(p, rng.NewRNG(seed), meta.RiverCave())
			if err != nil {
				t.Fatalf("%dx%d seed %d: %v", p.Height, p.Width, seed, err)
			}
			fly := m.Traverse(meta.TraverseOptions{Flight: true})
			if core.CountParts(fly) != 2 {
				t.Fatalf("%dx%d seed %d: %d partitions with flight", p.Height, p.Width, seed, core.CountParts(fly))
			}
			bottom := m.ExitsOf(meta.ExitBottom)
			if len(bottom) != 2 || fly[bottom[0].Node()] == fly[bottom[1].Node()] {
				t.Fatalf("%dx%d seed %d: exits not separated: %v", p.Height, p.Width, seed, bottom)
			}
			if got := m.Partitions(meta.TraverseOptions{}); got < 3 {
				t.Fatalf("%dx%d seed %d: %d walking partitions", p.Height, p.Width, seed, got)
			}
			if got := m.Count(func(s *meta.Metascreen) bool { return s.Has(meta.FlagDeadEnd) }); got != 1 {
				t.Fatalf("%dx%d seed %d: %d dead ends", p.Height, p.Width, seed, got)
			}
		}
	}
}

func TestSplitNeedsTwoBottomExits(t *testing.T) {
	a := shuffle.NewAttempt(params(1, 1, 1, 0), rng.NewRNG(1), meta.RiverCave())
	a.Grid.Set(core.Center(0, 0), core.Cave)
	a.Grid.Set(core.Center(0, 0).Step(core.S), core.Exit)
	if err := shuffle.InferScreens(a); err != nil {
		t.Fatal(err)
	}
	if err := splitDeadEnd(a); !errors.Is(err, core.ErrMisconfigured) {
		t.Fatalf("splitDeadEnd = %v, want misconfiguration", err)
	}
}
