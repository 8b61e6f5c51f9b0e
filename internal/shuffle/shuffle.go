// Package shuffle runs the generate-and-validate pipeline that turns a set
// of layout parameters into a finished map.
package shuffle

import (
	"errors"
	"io"
	"log/slog"
	"sort"

	"cavegen/internal/core"
	"cavegen/internal/meta"
	rng "cavegen/pkg/core"
)

// DefaultMaxAttempts bounds the retry loop when neither the params nor the
// variant choose a limit.
const DefaultMaxAttempts = 100

// Stage mutates an attempt. A *Failure discards the attempt; any other
// error aborts generation.
type Stage func(a *Attempt) error

// Stages lists the pipeline hooks in execution order. A nil field selects
// the default documented on it.
type Stages struct {
	// FillGrid seeds scaffolding. Default: one cave screen.
	FillGrid Stage
	// AddEarlyFeatures grows mandatory features. Default: cave to Size.
	AddEarlyFeatures Stage
	// AddEdges places required edge exits. Default: under random cave
	// screens on each side.
	AddEdges Stage
	// AddStairs places required stairs. Default: dead-end cave screens or
	// the requested screen.
	AddStairs Stage
	// AddArenas carves arenas out of straight cave runs.
	AddArenas Stage
	// Prune drops cave cut off from the fixed anchors.
	Prune Stage
	// AddLateFeatures is a grid hook run after pruning. Default: none.
	AddLateFeatures Stage
	// Preinfer rejects grids before screens are assigned. Default: none.
	Preinfer Stage
	// RefineMetascreens rewrites the assigned map. Default: bridges.
	RefineMetascreens Stage
	// CheckMeta is the final predicate. Default: walking partitions.
	CheckMeta Stage
}

// Shuffle is a pipeline variant: a name plus its stage overrides.
type Shuffle struct {
	Name        string
	Stages      Stages
	MaxAttempts int
	Logger      *slog.Logger
}

// WithLogger returns a copy of s that logs to l.
func (s *Shuffle) WithLogger(l *slog.Logger) *Shuffle {
	out := *s
	out.Logger = l
	return &out
}

// Result is a successful generation.
type Result struct {
	Meta     *meta.Metalocation
	Grid     *core.Grid
	Attempts int
}

type step struct {
	name string
	run  Stage
}

func pick(s, def Stage) Stage {
	if s != nil {
		return s
	}
	return def
}

func (s *Shuffle) steps(params core.ShuffleParams) []step {
	st := s.Stages
	out := []step{
		{"fill", pick(st.FillGrid, FillCave)},
		{"early", pick(st.AddEarlyFeatures, GrowCaveToSize)},
		{"edges", pick(st.AddEdges, AddEdges)},
		{"stairs", pick(st.AddStairs, AddStairs)},
		{"arenas", pick(st.AddArenas, AddArenas)},
		{"prune", pick(st.Prune, PruneDisconnected)},
		{"late", pick(st.AddLateFeatures, noop)},
	}
	if !params.SkipPreinfer {
		out = append(out, step{"preinfer", pick(st.Preinfer, noop)})
	}
	return append(out,
		step{"infer", InferScreens},
		step{"refine", pick(st.RefineMetascreens, AddBridges)},
		step{"check", pick(st.CheckMeta, CheckPartitions)},
	)
}

func noop(*Attempt) error { return nil }

func (s *Shuffle) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (s *Shuffle) maxAttempts(params core.ShuffleParams) int {
	switch {
	case params.MaxAttempts > 0:
		return params.MaxAttempts
	case s.MaxAttempts > 0:
		return s.MaxAttempts
	}
	return DefaultMaxAttempts
}

// Generate runs the pipeline and returns the finished map.
func (s *Shuffle) Generate(params core.ShuffleParams, src rng.RandomSource, cat meta.Catalog) (*meta.Metalocation, error) {
	res, err := s.Run(params, src, cat)
	if err != nil {
		return nil, err
	}
	return res.Meta, nil
}

// Run is Generate with the final grid and attempt count attached.
func (s *Shuffle) Run(params core.ShuffleParams, src rng.RandomSource, cat meta.Catalog) (Result, error) {
	if err := params.Validate(); err != nil {
		return Result{}, err
	}
	if cat == nil {
		return Result{}, core.Misconfigured("no screen catalog")
	}
	log := s.logger().With("variant", s.Name)
	steps := s.steps(params)
	limit := s.maxAttempts(params)

	var last *Failure
	for n := 1; n <= limit; n++ {
		a := NewAttempt(params, src, cat)
		a.Number = n
		err := runSteps(a, steps)
		if err == nil {
			log.Debug("generated", "attempts", n)
			return Result{Meta: a.Meta, Grid: a.Grid, Attempts: n}, nil
		}
		var f *Failure
		if !errors.As(err, &f) {
			return Result{}, err
		}
		log.Debug("attempt failed", "attempt", n, "stage", f.Stage, "reason", f.Reason)
		last = f
	}
	return Result{}, &GenerationFailure{Variant: s.Name, Attempts: limit, Last: last}
}

func runSteps(a *Attempt, steps []step) error {
	for _, st := range steps {
		err := st.run(a)
		if err == nil {
			continue
		}
		var f *Failure
		if errors.As(err, &f) {
			f.Stage = st.name
			if a.Meta != nil {
				f.Snapshot = a.Meta.Show()
			} else {
				f.Snapshot = a.Grid.Show()
			}
		}
		return err
	}
	return nil
}

// Generate runs the pipeline with every stage at its default.
func Generate(params core.ShuffleParams, src rng.RandomSource, cat meta.Catalog) (*meta.Metalocation, error) {
	return (&Shuffle{Name: "cave"}).Generate(params, src, cat)
}

var variants = map[string]*Shuffle{}

// Register makes a variant available by name.
func Register(s *Shuffle) {
	if s == nil || s.Name == "" {
		return
	}
	variants[s.Name] = s
}

// Lookup returns the variant registered under name.
func Lookup(name string) (*Shuffle, bool) {
	s, ok := variants[name]
	return s, ok
}

// Names lists the registered variants, sorted.
func Names() []string {
	out := make([]string, 0, len(variants))
	for name := range variants {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
