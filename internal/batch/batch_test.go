package batch

import (
	"slices"
	"testing"

	"cavegen/internal/core"
	"cavegen/internal/meta"
	"cavegen/internal/shuffle"
	"cavegen/internal/shuffles/cave"
)

func shows(outcomes []Outcome) []string {
	out := make([]string, len(outcomes))
	for i, o := range outcomes {
		if o.Err != nil {
			out[i] = o.Err.Error()
			continue
		}
		out[i] = o.Result.Meta.Show()
	}
	return out
}

func TestRunIsIndependentOfWorkers(t *testing.T) {
	lib := meta.RiverCave()
	p := core.DefaultParams()
	p.Size = 20
	jobs := Seeds(p, 100, 8)
	serial := Run(cave.Shuffle, lib, jobs, 1)
	parallel := Run(cave.Shuffle, lib, jobs, 4)
	if !slices.Equal(shows(serial), shows(parallel)) {
		t.Fatal("worker count changed the layouts")
	}
	for i, o := range parallel {
		if o.Seed != 100+int64(i) {
			t.Fatalf("outcome %d has seed %d", i, o.Seed)
		}
	}
}

func TestSummarize(t *testing.T) {
	outcomes := []Outcome{
		{Result: shuffle.Result{Attempts: 2}},
		{Result: shuffle.Result{Attempts: 4}},
		{Err: core.Misconfigured("bad")},
		{Err: &shuffle.GenerationFailure{Variant: "cave", Attempts: 3, Last: &shuffle.Failure{Stage: "check"}}},
		{Err: &shuffle.GenerationFailure{Variant: "cave", Attempts: 3, Last: &shuffle.Failure{Stage: "check"}}},
		{Err: &shuffle.GenerationFailure{Variant: "cave", Attempts: 3, Last: &shuffle.Failure{Stage: "arenas"}}},
	}
	sum := Summarize(outcomes)
	if sum.Runs != 6 || sum.Successes != 2 || sum.Misconfigured != 1 {
		t.Fatalf("summary = %+v", sum)
	}
	if sum.MeanAttempts != 3 || sum.MaxAttempts != 4 {
		t.Fatalf("attempt stats = %v/%d", sum.MeanAttempts, sum.MaxAttempts)
	}
	if !slices.Equal(sum.Stages(), []string{"check", "arenas"}) {
		t.Fatalf("stages = %v", sum.Stages())
	}
	if rate := sum.SuccessRate(); rate < 0.33 || rate > 0.34 {
		t.Fatalf("success rate = %v", rate)
	}
	if (Summary{}).SuccessRate() != 0 {
		t.Fatal("empty summaries have no success rate")
	}
}

func TestParseSweep(t *testing.T) {
	spec, err := ParseSweep("size=20:30:5")
	if err != nil {
		t.Fatalf("ParseSweep: %v", err)
	}
	if spec.Key != "size" || !slices.Equal(spec.Values, []int{20, 25, 30}) {
		t.Fatalf("spec = %+v", spec)
	}
	spec, err = ParseSweep("arena=0:2")
	if err != nil || !slices.Equal(spec.Values, []int{0, 1, 2}) {
		t.Fatalf("default step: %+v %v", spec, err)
	}
	for _, bad := range []string{"size", "size=3", "size=a:4", "size=5:1", "size=1:5:0", "=1:2"} {
		if _, err := ParseSweep(bad); err == nil {
			t.Fatalf("ParseSweep(%q) should fail", bad)
		}
	}
}

func TestSweepAndBest(t *testing.T) {
	p := core.DefaultParams()
	p.MaxAttempts = 10
	spec := SweepSpec{Key: "partitions", Values: []int{1, 2}}
	records := Sweep(cave.Shuffle, meta.RiverCave(), p, spec, 1, 3, 2)
	if len(records) != 2 {
		t.Fatalf("got %d records", len(records))
	}
	if records[1].Params.Partitions != 2 {
		t.Fatal("sweep must apply the value")
	}
	best, ok := Best(records)
	if !ok || best.Value != 1 {
		t.Fatalf("best = %+v", best)
	}
	if best.Summary.Successes != 3 {
		t.Fatalf("connected caves always succeed, got %+v", best.Summary)
	}
	if _, ok := Best(nil); ok {
		t.Fatal("no records means no best")
	}
}
