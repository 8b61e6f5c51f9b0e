//go:build ebiten

package main

import (
	"errors"
	"flag"
	"log"
	"log/slog"
	"os"

	"cavegen/internal/app"
	"cavegen/internal/core"
	"cavegen/internal/meta"
	"cavegen/internal/shuffle"
	_ "cavegen/internal/shuffles/cave"
	_ "cavegen/internal/shuffles/river"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	variant, ok := shuffle.Lookup(cfg.Variant)
	if !ok {
		log.Fatalf("unknown variant %q (have %v)", cfg.Variant, shuffle.Names())
	}
	params := core.FromMap(cfg.Set.Map())
	if err := params.Validate(); err != nil {
		log.Fatal(err)
	}

	viewer := app.NewViewer(variant.WithLogger(logger), meta.RiverCave(), params, cfg.Seed, logger)
	game := app.New(viewer, cfg)
	w, h := game.Layout(0, 0)

	ebiten.SetWindowTitle("caveview: " + variant.Name)
	ebiten.SetTPS(cfg.TPS)
	ebiten.SetWindowSize(w, h)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
