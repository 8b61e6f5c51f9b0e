//go:build ebiten

package app

import (
	"time"

	"cavegen/internal/core"
	"cavegen/internal/meta"
	"cavegen/internal/render"
	"cavegen/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Game adapts a Viewer to the ebiten.Game interface.
type Game struct {
	viewer  *Viewer
	painter *render.GridPainter
	overlay *ui.Overlay
	hud     *ui.HUD

	cells []uint8
	drawn *meta.Metalocation

	scale     int
	panel     int
	slideshow bool
	interval  *core.Interval
}

// New constructs a Game showing viewer.
func New(viewer *Viewer, cfg *Config) *Game {
	size := viewer.Size()
	return &Game{
		viewer:   viewer,
		painter:  render.NewGridPainter(size.W, size.H),
		overlay:  ui.NewOverlay(cfg.Scale),
		hud:      ui.NewHUD(viewer, cfg.Panel),
		scale:    cfg.Scale,
		panel:    cfg.Panel,
		interval: core.NewInterval(cfg.Interval),
	}
}

// Update handles per-frame input and the slideshow.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		g.slideshow = !g.slideshow
		g.interval.Reset()
	case inpututil.IsKeyJustPressed(ebiten.KeyN), inpututil.IsKeyJustPressed(ebiten.KeyArrowRight):
		g.viewer.Reseed(g.viewer.Seed() + 1)
	case inpututil.IsKeyJustPressed(ebiten.KeyP), inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft):
		g.viewer.Reseed(g.viewer.Seed() - 1)
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		g.viewer.Regenerate()
	case inpututil.IsKeyJustPressed(ebiten.KeyS):
		g.viewer.Reseed(time.Now().UnixNano())
	}
	if g.slideshow && g.interval.Due() {
		g.viewer.Reseed(g.viewer.Seed() + 1)
	}

	g.overlay.Update()
	g.hud.Update(g.viewer.Size().Scaled(g.scale).W)
	g.hud.SetStatus(g.viewer.Status())
	return nil
}

// Draw renders the layout, the overlay and the HUD.
func (g *Game) Draw(screen *ebiten.Image) {
	size := g.viewer.Size()
	if w, h := g.painter.Size(); w != size.W || h != size.H {
		g.painter = render.NewGridPainter(size.W, size.H)
	}
	m := g.viewer.Map()
	if m != nil {
		if m != g.drawn {
			g.cells, _ = render.Rasterize(m)
			g.drawn = m
		}
		g.painter.BlitPalette(screen, g.cells, render.TerrainPalette, g.scale)
		g.overlay.Draw(screen, m)
	}
	scaled := size.Scaled(g.scale)
	g.hud.Draw(screen, scaled.W, scaled.H)
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	s := g.viewer.Size().Scaled(g.scale)
	return s.W + g.panel, s.H
}
