package app

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"cavegen/internal/core"
	"cavegen/internal/meta"
	"cavegen/internal/render"
	"cavegen/internal/shuffle"
	rng "cavegen/pkg/core"
)

// Viewer holds the layout on display and regenerates it when the seed or a
// parameter changes.
type Viewer struct {
	variant *shuffle.Shuffle
	catalog meta.Catalog
	params  core.ShuffleParams
	seed    int64
	log     *slog.Logger

	result shuffle.Result
	err    error
}

// NewViewer returns a viewer for variant and generates the first layout.
func NewViewer(variant *shuffle.Shuffle, catalog meta.Catalog, params core.ShuffleParams, seed int64, log *slog.Logger) *Viewer {
	if log == nil {
		log = slog.Default()
	}
	v := &Viewer{variant: variant, catalog: catalog, params: params, seed: seed, log: log}
	v.Regenerate()
	return v
}

// Regenerate rebuilds the layout for the current seed and parameters.
func (v *Viewer) Regenerate() {
	res, err := v.variant.Run(v.params, rng.NewRNG(v.seed), v.catalog)
	v.result, v.err = res, err
	if err != nil {
		v.log.Warn("generation failed", "variant", v.variant.Name, "seed", v.seed, "err", err)
		return
	}
	v.log.Info("generated", "variant", v.variant.Name, "seed", v.seed, "attempts", res.Attempts)
}

// Reseed switches to seed and regenerates.
func (v *Viewer) Reseed(seed int64) {
	v.seed = seed
	v.Regenerate()
}

// Seed returns the seed of the layout on display.
func (v *Viewer) Seed() int64 { return v.seed }

// Map returns the layout on display, or nil when the last generation failed.
func (v *Viewer) Map() *meta.Metalocation { return v.result.Meta }

// Err returns the error of the last generation.
func (v *Viewer) Err() error { return v.err }

// Status summarizes the last generation in one line.
func (v *Viewer) Status() string {
	if v.err != nil {
		var gf *shuffle.GenerationFailure
		if errors.As(v.err, &gf) && gf.Last != nil {
			return fmt.Sprintf("failed at %s: %s", gf.Last.Stage, gf.Last.Reason)
		}
		return v.err.Error()
	}
	return fmt.Sprintf("%d attempts", v.result.Attempts)
}

// Name implements ui.Target.
func (v *Viewer) Name() string {
	return fmt.Sprintf("%s #%d", v.variant.Name, v.seed)
}

// Size returns the raster size of the configured grid, stable across failed
// generations.
func (v *Viewer) Size() core.Size {
	return core.Size{W: v.params.Width * render.ScreenPixels, H: v.params.Height * render.ScreenPixels}
}

// Parameters implements ui.Target.
func (v *Viewer) Parameters() core.ParameterSnapshot {
	snap := v.params.Parameters()
	snap.Groups = append(snap.Groups, core.ParameterGroup{
		Name: "Run",
		Params: []core.Parameter{
			{Key: "seed", Label: "Seed", Type: core.ParamTypeInt, Value: strconv.FormatInt(v.seed, 10)},
		},
		Summary: v.Status(),
	})
	return snap
}

// ParameterControls lists the parameters the HUD can step.
func (v *Viewer) ParameterControls() []core.ParameterControl {
	return []core.ParameterControl{
		{Key: "h", Label: "Height", Min: 1, Max: core.MaxScreens},
		{Key: "w", Label: "Width", Min: 1, Max: core.MaxScreens},
		{Key: "size", Label: "Size", Min: 1, Max: core.MaxScreens * core.MaxScreens},
		{Key: "river", Label: "River"},
		{Key: "arena", Label: "Arenas"},
		{Key: "bridge", Label: "Bridges"},
		{Key: "partitions", Label: "Partitions", Min: 1},
	}
}

// SetIntParameter applies one change and regenerates. Changes that make the
// parameters invalid are refused.
func (v *Viewer) SetIntParameter(key string, value int) bool {
	next := core.ApplyMap(v.params, map[string]string{key: strconv.Itoa(value)})
	if err := next.Validate(); err != nil {
		v.log.Debug("parameter refused", "key", key, "value", value, "err", err)
		return false
	}
	v.params = next
	v.Regenerate()
	return true
}

// Params returns the current parameters.
func (v *Viewer) Params() core.ShuffleParams { return v.params.Clone() }
