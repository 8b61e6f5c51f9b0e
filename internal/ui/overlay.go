//go:build ebiten

package ui

import (
	"image/color"

	"cavegen/internal/meta"
	"cavegen/internal/render"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Overlay draws traversal components or exits over the map. Digit keys pick
// the layer: 1 walking, 2 flight, 3 exits, 0 none.
type Overlay struct {
	scale int
	layer Layer

	painter *render.GridPainter
	shown   *meta.Metalocation
	shownAs Layer
	cells   []uint8
}

// NewOverlay constructs an overlay drawn at scale.
func NewOverlay(scale int) *Overlay {
	return &Overlay{scale: scale}
}

// Layer returns the active layer.
func (o *Overlay) Layer() Layer { return o.layer }

// Update handles the layer keys.
func (o *Overlay) Update() {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyDigit0):
		o.layer = LayerNone
	case inpututil.IsKeyJustPressed(ebiten.KeyDigit1):
		o.layer = LayerWalk
	case inpututil.IsKeyJustPressed(ebiten.KeyDigit2):
		o.layer = LayerFlight
	case inpututil.IsKeyJustPressed(ebiten.KeyDigit3):
		o.layer = LayerExits
	}
}

// Draw paints the active layer for m.
func (o *Overlay) Draw(screen *ebiten.Image, m *meta.Metalocation) {
	if m == nil || o.layer == LayerNone {
		return
	}
	size := render.RasterSize(m)
	if o.painter == nil {
		o.painter = render.NewGridPainter(size.W, size.H)
	} else if w, h := o.painter.Size(); w != size.W || h != size.H {
		o.painter = render.NewGridPainter(size.W, size.H)
	}
	if o.shown != m || o.shownAs != o.layer {
		o.cells = layerCells(m, o.layer)
		o.shown, o.shownAs = m, o.layer
	}
	if o.layer == LayerExits {
		o.painter.BlitMask(screen, o.cells, color.RGBA{R: 255, G: 60, B: 200, A: 220}, color.Transparent, o.scale)
		return
	}
	o.painter.BlitPalette(screen, o.cells, render.PartitionPalette, o.scale)
}
