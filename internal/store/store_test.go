package store

import (
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"testing"

	"cavegen/internal/core"
	"cavegen/internal/meta"
	"cavegen/internal/shuffle"
	rng "cavegen/pkg/core"
)

func sampleLayout(t *testing.T, seed int64) *Layout {
	t.Helper()
	p := core.DefaultParams()
	res, err := (&shuffle.Shuffle{Name: "cave"}).Run(p, rng.NewRNG(seed), meta.RiverCave())
	if err != nil {
		t.Fatal(err)
	}
	l := NewLayout("cave", seed, p, res.Meta, res.Attempts)
	if l.ID != "cave-"+strconv.FormatInt(seed, 10) || l.Params["size"] != "30" {
		t.Fatalf("NewLayout = %+v", l)
	}
	return l
}

func TestJSONStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layouts.json")
	s, err := NewJSONStore(path)
	if err != nil {
		t.Fatal(err)
	}
	want := sampleLayout(t, 1)
	if err := s.SaveLayout(want); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveLayout(sampleLayout(t, 2)); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := NewJSONStore(path)
	if err != nil {
		t.Fatal(err)
	}
	got, err := reopened.LoadLayout(want.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(got.Map.Screens, want.Map.Screens) || got.Seed != want.Seed {
		t.Fatalf("layout changed on disk: %+v", got)
	}
	lib := meta.RiverCave()
	m, err := lib.Load(got.Map)
	if err != nil {
		t.Fatal(err)
	}
	if m.Partitions(meta.TraverseOptions{}) != 1 {
		t.Fatal("reloaded map lost its connectivity")
	}
	ids, err := reopened.ListLayouts("cave")
	if err != nil || !slices.Equal(ids, []string{"cave-1", "cave-2"}) {
		t.Fatalf("ListLayouts = %v, %v", ids, err)
	}
	if _, err := reopened.LoadLayout("missing"); err == nil {
		t.Fatal("missing layouts must be an error")
	}
}

func TestOpenPicksJSONForPaths(t *testing.T) {
	s, err := Open("json:" + filepath.Join(t.TempDir(), "x.json"))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if _, ok := s.(*JSONStore); !ok {
		t.Fatalf("Open returned %T", s)
	}
}

func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("CAVEGEN_TEST_POSTGRES")
	if dsn == "" {
		t.Skip("CAVEGEN_TEST_POSTGRES not set")
	}
	s, err := NewPostgresStore(dsn)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	want := sampleLayout(t, 3)
	if err := s.SaveLayout(want); err != nil {
		t.Fatal(err)
	}
	got, err := s.LoadLayout(want.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(got.Map.Screens, want.Map.Screens) || got.Params["size"] != want.Params["size"] {
		t.Fatalf("layout changed in the database: %+v", got)
	}
}
