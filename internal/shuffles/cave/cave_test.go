package cave

import (
	"testing"

	"cavegen/internal/core"
	"cavegen/internal/meta"
	"cavegen/internal/shuffle"
	rng "cavegen/pkg/core"
)

func TestRegistered(t *testing.T) {
	s, ok := shuffle.Lookup(Name)
	if !ok || s != Shuffle {
		t.Fatal("cave shuffle is not registered")
	}
}

func TestPositionedStairsAndArena(t *testing.T) {
	p := core.DefaultParams()
	p.Size = 24
	p.Features.Arena = 1
	p.Edges = map[core.Dir]int{core.N: 1}
	p.Stairs = []core.Stair{{Kind: core.StairDown, At: true, Y: 4, X: 4}}
	for seed := int64(1); seed <= 5; seed++ {
		res, err := Shuffle.Run(p, rng.NewRNG(seed), meta.RiverCave())
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		m := res.Meta
		if got := m.Get(meta.PosOf(4, 4)).Center; got != core.StairDown {
			t.Fatalf("seed %d: stair screen has center %q", seed, got)
		}
		if got := m.Count(func(s *meta.Metascreen) bool { return s.Center == core.Arena }); got != 1 {
			t.Fatalf("seed %d: %d arenas", seed, got)
		}
		if len(m.ExitsOf(meta.ExitTop)) != 1 || len(m.ExitsOf(meta.ExitStairDown)) != 1 {
			t.Fatalf("seed %d: exits %v", seed, m.Exits())
		}
		if got := m.Partitions(meta.TraverseOptions{}); got != 1 {
			t.Fatalf("seed %d: %d partitions", seed, got)
		}
		if res.Attempts < 1 || res.Attempts > Shuffle.MaxAttempts {
			t.Fatalf("seed %d: %d attempts", seed, res.Attempts)
		}
	}
}
