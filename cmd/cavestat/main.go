package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"time"

	"cavegen/internal/app"
	"cavegen/internal/batch"
	"cavegen/internal/core"
	"cavegen/internal/meta"
	"cavegen/internal/shuffle"
	_ "cavegen/internal/shuffles/cave"
	_ "cavegen/internal/shuffles/river"
)

func main() {
	variantName := flag.String("variant", "cave", "shuffle variant to measure")
	seed := flag.Int64("seed", 1, "first seed")
	count := flag.Int("count", 100, "seeds per configuration")
	workers := flag.Int("workers", runtime.NumCPU(), "parallel generations")
	sweep := flag.String("sweep", "", "step one parameter through a range, e.g. size=20:40:5")
	verbose := flag.Bool("v", false, "log failed attempts")
	var overrides app.KVList
	flag.Var(&overrides, "set", "parameter override in key=value form (repeatable)")
	flag.Parse()

	variant, ok := shuffle.Lookup(*variantName)
	if !ok {
		log.Fatalf("unknown variant %q (have %s)", *variantName, strings.Join(shuffle.Names(), ", "))
	}
	if *verbose {
		variant = variant.WithLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}
	params := core.FromMap(overrides.Map())
	if err := params.Validate(); err != nil {
		log.Fatal(err)
	}
	lib := meta.RiverCave()

	start := time.Now()
	baseline := batch.Summarize(batch.Run(variant, lib, batch.Seeds(params, *seed, *count), *workers))
	fmt.Printf("%s baseline (%d seeds from %d):\n", variant.Name, *count, *seed)
	printSummary(baseline)
	printParams(params)

	if *sweep == "" {
		fmt.Printf("\nElapsed %s\n", time.Since(start).Round(time.Millisecond))
		return
	}
	spec, err := batch.ParseSweep(*sweep)
	if err != nil {
		log.Fatal(err)
	}
	records := batch.Sweep(variant, lib, params, spec, *seed, *count, *workers)
	fmt.Printf("\nSweep %s:\n", spec.Key)
	for _, rec := range records {
		fmt.Printf("  %s=%d -> ", rec.Key, rec.Value)
		printSummary(rec.Summary)
	}
	if best, ok := batch.Best(records); ok {
		fmt.Printf("\nBest: %s=%d (%.1f%% success, %.2f mean attempts)\n",
			best.Key, best.Value, 100*best.Summary.SuccessRate(), best.Summary.MeanAttempts)
	}
	fmt.Printf("\nElapsed %s\n", time.Since(start).Round(time.Millisecond))
}

func printSummary(s batch.Summary) {
	fmt.Printf("success %d/%d (%.1f%%), attempts mean %.2f max %d",
		s.Successes, s.Runs, 100*s.SuccessRate(), s.MeanAttempts, s.MaxAttempts)
	if s.Misconfigured > 0 {
		fmt.Printf(", misconfigured %d", s.Misconfigured)
	}
	if stages := s.Stages(); len(stages) > 0 {
		parts := make([]string, len(stages))
		for i, stage := range stages {
			parts[i] = fmt.Sprintf("%s=%d", stage, s.FailedStages[stage])
		}
		fmt.Printf(", gave up at %s", strings.Join(parts, " "))
	}
	fmt.Println()
}

func printParams(p core.ShuffleParams) {
	fmt.Println("Parameters:")
	for _, group := range p.Parameters().Groups {
		for _, param := range group.Params {
			if param.Value == "" {
				continue
			}
			fmt.Printf("  %s=%s\n", param.Key, param.Value)
		}
	}
}
