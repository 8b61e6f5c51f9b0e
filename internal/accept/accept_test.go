package accept

import (
	"testing"

	"cavegen/internal/core"
	"cavegen/internal/meta"
	"cavegen/internal/shuffle"
	rng "cavegen/pkg/core"
)

func TestCompileRejectsBadExpressions(t *testing.T) {
	for _, src := range []string{"Screens +", "Screens + 1", "Unknown > 1"} {
		if _, err := Compile(src); err == nil {
			t.Fatalf("Compile(%q) should fail", src)
		}
	}
}

func TestEmptyFilterAcceptsAll(t *testing.T) {
	f, err := Compile("")
	if err != nil {
		t.Fatal(err)
	}
	ok, err := f.Match(Env{})
	if err != nil || !ok {
		t.Fatalf("Match = %v, %v", ok, err)
	}
}

func TestMatchUsesLayoutStats(t *testing.T) {
	p := core.DefaultParams()
	p.Stairs = []core.Stair{{Kind: core.StairUp}}
	m, err := shuffle.Generate(p, rng.NewRNG(5), meta.RiverCave())
	if err != nil {
		t.Fatal(err)
	}
	env := EnvFor(m, 3)
	if env.Screens != p.Size || env.Stairs != 1 || env.Partitions != 1 || env.Attempts != 3 {
		t.Fatalf("env = %+v", env)
	}
	if env.Width != 9 || env.Height != 5 {
		t.Fatalf("dimensions = %dx%d", env.Height, env.Width)
	}

	cases := map[string]bool{
		"Screens == 30 && Stairs == 1": true,
		"Partitions > 1":               false,
		"Rivers == 0 and Bridges == 0": true,
	}
	for src, want := range cases {
		f, err := Compile(src)
		if err != nil {
			t.Fatalf("Compile(%q): %v", src, err)
		}
		got, err := f.Match(env)
		if err != nil {
			t.Fatalf("Match(%q): %v", src, err)
		}
		if got != want {
			t.Fatalf("%q = %v, want %v", src, got, want)
		}
	}
}
