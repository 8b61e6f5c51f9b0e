// Package batch generates many layouts in parallel and summarizes how a
// variant behaves across seeds.
package batch

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"cavegen/internal/core"
	"cavegen/internal/meta"
	"cavegen/internal/shuffle"
	rng "cavegen/pkg/core"
)

// Job is one generation request.
type Job struct {
	Seed   int64
	Params core.ShuffleParams
}

// Outcome is the result of one Job.
type Outcome struct {
	Job
	Result  shuffle.Result
	Err     error
	Elapsed time.Duration
}

// Seeds returns count jobs for consecutive seeds starting at first.
func Seeds(params core.ShuffleParams, first int64, count int) []Job {
	jobs := make([]Job, count)
	for i := range jobs {
		jobs[i] = Job{Seed: first + int64(i), Params: params}
	}
	return jobs
}

// Run generates every job on a pool of workers and returns the outcomes in
// job order. Each job gets its own random source, so the outcomes do not
// depend on the number of workers.
func Run(s *shuffle.Shuffle, cat meta.Catalog, jobs []Job, workers int) []Outcome {
	if workers < 1 {
		workers = 1
	}
	out := make([]Outcome, len(jobs))
	indices := make(chan int)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range indices {
				job := jobs[idx]
				start := time.Now()
				res, err := s.Run(job.Params, rng.NewRNG(job.Seed), cat)
				out[idx] = Outcome{Job: job, Result: res, Err: err, Elapsed: time.Since(start)}
			}
		}()
	}
	for i := range jobs {
		indices <- i
	}
	close(indices)
	wg.Wait()
	return out
}

// Summary aggregates a set of outcomes.
type Summary struct {
	Runs          int
	Successes     int
	Misconfigured int
	// Attempts counts attempts of successful runs only.
	MeanAttempts float64
	MaxAttempts  int
	// FailedStages counts the stage of the last failed attempt of every run
	// that gave up.
	FailedStages map[string]int
	Elapsed      time.Duration
}

// SuccessRate returns Successes/Runs.
func (s Summary) SuccessRate() float64 {
	if s.Runs == 0 {
		return 0
	}
	return float64(s.Successes) / float64(s.Runs)
}

// Summarize aggregates outcomes.
func Summarize(outcomes []Outcome) Summary {
	sum := Summary{Runs: len(outcomes), FailedStages: map[string]int{}}
	total := 0
	for _, o := range outcomes {
		sum.Elapsed += o.Elapsed
		if o.Err == nil {
			sum.Successes++
			total += o.Result.Attempts
			sum.MaxAttempts = max(sum.MaxAttempts, o.Result.Attempts)
			continue
		}
		if errors.Is(o.Err, core.ErrMisconfigured) {
			sum.Misconfigured++
			continue
		}
		var gf *shuffle.GenerationFailure
		if errors.As(o.Err, &gf) && gf.Last != nil {
			sum.FailedStages[gf.Last.Stage]++
		}
	}
	if sum.Successes > 0 {
		sum.MeanAttempts = float64(total) / float64(sum.Successes)
	}
	return sum
}

// Stages lists the failed stages by descending count.
func (s Summary) Stages() []string {
	out := make([]string, 0, len(s.FailedStages))
	for stage := range s.FailedStages {
		out = append(out, stage)
	}
	sort.Slice(out, func(i, j int) bool {
		if s.FailedStages[out[i]] != s.FailedStages[out[j]] {
			return s.FailedStages[out[i]] > s.FailedStages[out[j]]
		}
		return out[i] < out[j]
	})
	return out
}

// SweepSpec steps one integer parameter through a range.
type SweepSpec struct {
	Key    string
	Values []int
}

// ParseSweep reads "key=from:to[:step]".
func ParseSweep(s string) (SweepSpec, error) {
	key, rest, ok := strings.Cut(s, "=")
	if !ok || key == "" {
		return SweepSpec{}, fmt.Errorf("sweep %q: want key=from:to[:step]", s)
	}
	parts := strings.Split(rest, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return SweepSpec{}, fmt.Errorf("sweep %q: want key=from:to[:step]", s)
	}
	nums := make([]int, len(parts))
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return SweepSpec{}, fmt.Errorf("sweep %q: %w", s, err)
		}
		nums[i] = v
	}
	step := 1
	if len(nums) == 3 {
		step = nums[2]
	}
	if step <= 0 || nums[1] < nums[0] {
		return SweepSpec{}, fmt.Errorf("sweep %q: empty range", s)
	}
	spec := SweepSpec{Key: strings.TrimSpace(key)}
	for v := nums[0]; v <= nums[1]; v += step {
		spec.Values = append(spec.Values, v)
	}
	return spec, nil
}

// SweepRecord is the summary for one value of a sweep.
type SweepRecord struct {
	Key     string
	Value   int
	Params  core.ShuffleParams
	Summary Summary
}

// Sweep runs count seeds for every value of spec on top of base.
func Sweep(s *shuffle.Shuffle, cat meta.Catalog, base core.ShuffleParams, spec SweepSpec, first int64, count, workers int) []SweepRecord {
	records := make([]SweepRecord, 0, len(spec.Values))
	for _, v := range spec.Values {
		params := core.ApplyMap(base, map[string]string{spec.Key: strconv.Itoa(v)})
		outcomes := Run(s, cat, Seeds(params, first, count), workers)
		records = append(records, SweepRecord{Key: spec.Key, Value: v, Params: params, Summary: Summarize(outcomes)})
	}
	return records
}

// Best returns the record with the highest success rate, preferring fewer
// mean attempts on ties.
func Best(records []SweepRecord) (SweepRecord, bool) {
	if len(records) == 0 {
		return SweepRecord{}, false
	}
	best := records[0]
	for _, r := range records[1:] {
		a, b := r.Summary, best.Summary
		if a.SuccessRate() > b.SuccessRate() || (a.SuccessRate() == b.SuccessRate() && a.Successes > 0 && a.MeanAttempts < b.MeanAttempts) {
			best = r
		}
	}
	return best, true
}
