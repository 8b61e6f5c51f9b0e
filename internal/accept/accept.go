// Package accept filters generated layouts with user-written expr
// predicates such as "Rivers >= 10 && FlightPartitions == 1".
package accept

import (
	"fmt"

	"cavegen/internal/core"
	"cavegen/internal/meta"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Env is the data a filter expression sees.
type Env struct {
	Variant          string
	Seed             int64
	Width            int
	Height           int
	Screens          int
	Partitions       int
	FlightPartitions int
	Exits            int
	Rivers           int
	Bridges          int
	DeadEnds         int
	Arenas           int
	Stairs           int
	Attempts         int
}

// EnvFor summarizes a finished map.
func EnvFor(m *meta.Metalocation, attempts int) Env {
	center := func(tag core.Tag) func(*meta.Metascreen) bool {
		return func(s *meta.Metascreen) bool { return s.Center == tag }
	}
	flagged := func(f meta.Flag) func(*meta.Metascreen) bool {
		return func(s *meta.Metascreen) bool { return s.Has(f) }
	}
	return Env{
		Width:            m.W,
		Height:           m.H,
		Screens:          m.Count(func(*meta.Metascreen) bool { return true }),
		Partitions:       m.Partitions(meta.TraverseOptions{}),
		FlightPartitions: m.Partitions(meta.TraverseOptions{Flight: true}),
		Exits:            len(m.Exits()),
		Rivers:           m.Count(center(core.River)),
		Bridges:          m.Count(flagged(meta.FlagBridge)),
		DeadEnds:         m.Count(flagged(meta.FlagDeadEnd)),
		Arenas:           m.Count(center(core.Arena)),
		Stairs:           m.Count(func(s *meta.Metascreen) bool { return s.Center.IsStair() }),
		Attempts:         attempts,
	}
}

// Filter is a compiled predicate.
type Filter struct {
	Source  string
	program *vm.Program
}

// Compile checks src against Env and requires a boolean result. An empty
// source accepts everything.
func Compile(src string) (*Filter, error) {
	if src == "" {
		return &Filter{}, nil
	}
	prog, err := expr.Compile(src, expr.Env(Env{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile filter %q: %w", src, err)
	}
	return &Filter{Source: src, program: prog}, nil
}

// Match evaluates the filter.
func (f *Filter) Match(env Env) (bool, error) {
	if f == nil || f.program == nil {
		return true, nil
	}
	out, err := vm.Run(f.program, env)
	if err != nil {
		return false, fmt.Errorf("run filter %q: %w", f.Source, err)
	}
	ok, _ := out.(bool)
	return ok, nil
}
