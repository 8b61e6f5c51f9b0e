package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"cavegen/internal/accept"
	"cavegen/internal/app"
	"cavegen/internal/batch"
	"cavegen/internal/core"
	"cavegen/internal/meta"
	"cavegen/internal/render"
	"cavegen/internal/shuffle"
	_ "cavegen/internal/shuffles/cave"
	_ "cavegen/internal/shuffles/river"
	"cavegen/internal/store"
)

var openStore = store.Open

type output struct {
	Variant  string            `json:"variant"`
	Seed     int64             `json:"seed"`
	Attempts int               `json:"attempts"`
	Params   map[string]string `json:"params"`
	Map      meta.Record       `json:"map"`
	Text     string            `json:"text,omitempty"`
}

func main() {
	variantName := flag.String("variant", "cave", "shuffle variant to generate")
	seed := flag.Int64("seed", 1, "first seed")
	count := flag.Int("count", 1, "number of consecutive seeds to generate")
	workers := flag.Int("workers", runtime.NumCPU(), "number of worker goroutines")
	filter := flag.String("accept", "", "expr predicate a layout must satisfy, e.g. 'Rivers >= 10'")
	location := flag.String("store", "", "save accepted layouts to a JSON file or a postgres:// database")
	pngDir := flag.String("png", "", "write one PNG per accepted layout into this directory")
	pngScale := flag.Int("png-scale", 4, "pixel scale of PNG output")
	text := flag.Bool("text", false, "include the text rendering in the JSON output")
	list := flag.Bool("list", false, "list variants and exit")
	verbose := flag.Bool("v", false, "log failed attempts")
	var overrides app.KVList
	flag.Var(&overrides, "set", "parameter override in key=value form (repeatable)")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if *list {
		for _, name := range shuffle.Names() {
			fmt.Println(name)
		}
		return
	}

	opts := options{
		variant:  *variantName,
		seed:     *seed,
		count:    *count,
		workers:  *workers,
		filter:   *filter,
		location: *location,
		pngDir:   *pngDir,
		pngScale: *pngScale,
		text:     *text,
		params:   overrides.Map(),
		out:      os.Stdout,
	}
	if err := run(logger, opts); err != nil {
		logger.Error("cavegen failed", "err", err)
		os.Exit(1)
	}
}

type options struct {
	variant  string
	seed     int64
	count    int
	workers  int
	filter   string
	location string
	pngDir   string
	pngScale int
	text     bool
	params   map[string]string
	out      io.Writer
}

func run(logger *slog.Logger, opts options) (err error) {
	variant, ok := shuffle.Lookup(opts.variant)
	if !ok {
		return fmt.Errorf("unknown variant %q (have %s)", opts.variant, strings.Join(shuffle.Names(), ", "))
	}
	params := core.FromMap(opts.params)
	if err := params.Validate(); err != nil {
		return fmt.Errorf("bad parameters: %w", err)
	}
	predicate, err := accept.Compile(opts.filter)
	if err != nil {
		return fmt.Errorf("bad filter: %w", err)
	}

	var db store.Storage
	if opts.location != "" {
		db, err = openStore(opts.location)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer func() {
			if cerr := db.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("close store: %w", cerr)
			}
		}()
	}
	if opts.pngDir != "" {
		if err := os.MkdirAll(opts.pngDir, 0o755); err != nil {
			return fmt.Errorf("create png directory: %w", err)
		}
	}

	logger.Info("generating", "variant", variant.Name, "seeds", opts.count, "workers", opts.workers)
	outcomes := batch.Run(variant.WithLogger(logger), meta.RiverCave(), batch.Seeds(params, opts.seed, opts.count), opts.workers)

	enc := json.NewEncoder(opts.out)
	enc.SetIndent("", "  ")
	accepted := 0
	for _, o := range outcomes {
		if o.Err != nil {
			if errors.Is(o.Err, core.ErrMisconfigured) {
				return o.Err
			}
			logger.Warn("generation failed", "seed", o.Seed, "err", o.Err)
			continue
		}
		m := o.Result.Meta
		env := accept.EnvFor(m, o.Result.Attempts)
		env.Variant, env.Seed = variant.Name, o.Seed
		match, err := predicate.Match(env)
		if err != nil {
			return fmt.Errorf("filter seed %d: %w", o.Seed, err)
		}
		if !match {
			logger.Debug("rejected by filter", "seed", o.Seed)
			continue
		}
		accepted++

		rec := output{Variant: variant.Name, Seed: o.Seed, Attempts: o.Result.Attempts, Params: params.Parameters().Map(), Map: m.Record()}
		if opts.text {
			rec.Text = m.Show()
		}
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		if db != nil {
			if err := db.SaveLayout(store.NewLayout(variant.Name, o.Seed, params, m, o.Result.Attempts)); err != nil {
				return fmt.Errorf("save layout: %w", err)
			}
		}
		if opts.pngDir != "" {
			if err := writePNG(filepath.Join(opts.pngDir, store.LayoutID(variant.Name, o.Seed)+".png"), m, opts.pngScale); err != nil {
				return fmt.Errorf("write png: %w", err)
			}
		}
	}
	logger.Info("done", "generated", len(outcomes), "accepted", accepted)
	return nil
}

func writePNG(path string, m *meta.Metalocation, scale int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := render.WritePNG(f, m, scale); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
