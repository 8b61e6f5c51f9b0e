package ui

import (
	"image"
	"strconv"

	"cavegen/internal/core"
	"cavegen/internal/meta"
	"cavegen/internal/render"
)

// Target is the model a HUD reads. Targets that also implement
// core.ParameterControlsProvider and core.IntParameterSetter get +/- buttons.
type Target interface {
	Name() string
	Parameters() core.ParameterSnapshot
}

type hudControlState struct {
	control  core.ParameterControl
	value    string
	intValue int
	hasValue bool

	top       int
	minusRect image.Rectangle
	plusRect  image.Rectangle
}

func newControlStates(target Target) []hudControlState {
	provider, ok := target.(core.ParameterControlsProvider)
	if !ok {
		return nil
	}
	controls := provider.ParameterControls()
	states := make([]hudControlState, len(controls))
	for i, ctrl := range controls {
		states[i] = hudControlState{control: ctrl, value: "--"}
	}
	return states
}

// refresh reads the current value of the control from params.
func (s *hudControlState) refresh(params map[string]core.Parameter) {
	s.hasValue = false
	s.value = "--"
	param, ok := params[s.control.Key]
	if !ok || param.Type != core.ParamTypeInt {
		return
	}
	parsed, err := strconv.Atoi(param.Value)
	if err != nil {
		return
	}
	s.intValue = parsed
	s.value = param.Value
	s.hasValue = true
}

// next returns the clamped value one step in direction and whether it
// differs from the current one.
func (s *hudControlState) next(direction int) (int, bool) {
	if !s.hasValue || direction == 0 {
		return s.intValue, false
	}
	step := s.control.Step
	if step <= 0 {
		step = 1
	}
	target := max(s.intValue+direction*step, s.control.Min)
	if s.control.Max > 0 {
		target = min(target, s.control.Max)
	}
	return target, target != s.intValue
}

func paramMap(snapshot core.ParameterSnapshot) map[string]core.Parameter {
	out := map[string]core.Parameter{}
	for _, group := range snapshot.Groups {
		for _, param := range group.Params {
			out[param.Key] = param
		}
	}
	return out
}

func layoutControls(states []hudControlState, width int) {
	for i := range states {
		top := controlsTop + i*lineHeight
		buttonY := top + (lineHeight-buttonSize)/2
		plusRect := image.Rect(width-panelPadding-buttonSize, buttonY, width-panelPadding, buttonY+buttonSize)
		minusRect := image.Rect(plusRect.Min.X-buttonGap-buttonSize, buttonY, plusRect.Min.X-buttonGap, buttonY+buttonSize)
		states[i].top = top
		states[i].minusRect = minusRect
		states[i].plusRect = plusRect
	}
}

func pointInRect(x, y int, rect image.Rectangle) bool {
	return image.Pt(x, y).In(rect)
}

const (
	panelPadding   = 12
	lineHeight     = 36
	buttonSize     = 24
	buttonGap      = 6
	headerBaseline = 18
	labelBaseline  = 24
	infoSpacing    = 36
	controlsTop    = panelPadding + headerBaseline + 14
)

// Layer selects what the overlay draws over the map.
type Layer int

const (
	LayerNone Layer = iota
	LayerWalk
	LayerFlight
	LayerExits
)

func (l Layer) String() string {
	switch l {
	case LayerWalk:
		return "walk"
	case LayerFlight:
		return "flight"
	case LayerExits:
		return "exits"
	default:
		return "none"
	}
}

// layerCells rasterizes layer for m. It returns nil for LayerNone.
func layerCells(m *meta.Metalocation, layer Layer) []uint8 {
	switch layer {
	case LayerWalk:
		return render.PartitionCells(m, m.Traverse(meta.TraverseOptions{}))
	case LayerFlight:
		return render.PartitionCells(m, m.Traverse(meta.TraverseOptions{Flight: true}))
	case LayerExits:
		return render.ExitCells(m)
	default:
		return nil
	}
}
