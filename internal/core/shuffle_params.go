package core

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Features holds the named feature counts of a layout.
type Features struct {
	River  int
	Arena  int
	Bridge int
}

// Stair is a required stair placement. When At is false the pipeline picks a
// dead-end cave screen at random.
type Stair struct {
	Kind Tag
	At   bool
	Y, X int
}

// ShuffleParams is the immutable target configuration for one generation.
type ShuffleParams struct {
	Height int
	Width  int
	// Size is the number of non-empty screens to grow.
	Size     int
	Features Features
	// Edges maps a side to the number of exits required on it.
	Edges  map[Dir]int
	Stairs []Stair
	// Partitions is the walking component count the finished map must have.
	Partitions int
	// MaxAttempts bounds the retry loop; zero selects the variant default.
	MaxAttempts  int
	SkipPreinfer bool
}

// DefaultParams returns the standard configuration.
func DefaultParams() ShuffleParams {
	return ShuffleParams{
		Height:     5,
		Width:      9,
		Size:       30,
		Partitions: 1,
	}
}

// ScreenCount returns Height*Width.
func (p ShuffleParams) ScreenCount() int { return p.Height * p.Width }

// EdgeCount returns the number of exits required on side d.
func (p ShuffleParams) EdgeCount(d Dir) int { return p.Edges[d] }

// Clone returns a deep copy so callers can tweak a derived set safely.
func (p ShuffleParams) Clone() ShuffleParams {
	out := p
	if p.Edges != nil {
		out.Edges = make(map[Dir]int, len(p.Edges))
		for k, v := range p.Edges {
			out.Edges[k] = v
		}
	}
	out.Stairs = slices.Clone(p.Stairs)
	return out
}

// Validate reports parameter sets that no amount of retrying could satisfy.
func (p ShuffleParams) Validate() error {
	if p.Height < 1 || p.Height > MaxScreens || p.Width < 1 || p.Width > MaxScreens {
		return Misconfigured("grid %dx%d outside 1..%d", p.Height, p.Width, MaxScreens)
	}
	if p.Size < 1 || p.Size > p.ScreenCount() {
		return Misconfigured("size %d does not fit a %dx%d grid", p.Size, p.Height, p.Width)
	}
	if p.Features.River < 0 || p.Features.Arena < 0 || p.Features.Bridge < 0 {
		return Misconfigured("negative feature count")
	}
	if p.Features.River > p.Size {
		return Misconfigured("river %d exceeds size %d", p.Features.River, p.Size)
	}
	if p.Partitions < 1 {
		return Misconfigured("partitions must be at least 1, got %d", p.Partitions)
	}
	for d, n := range p.Edges {
		span := p.Width
		if !d.Vertical() {
			span = p.Height
		}
		if n < 0 || n > span {
			return Misconfigured("%d exits do not fit the %s side", n, d.Side())
		}
	}
	placed := map[[2]int]bool{}
	for _, st := range p.Stairs {
		if !st.Kind.IsStair() {
			return Misconfigured("unknown stair kind %q", st.Kind)
		}
		if !st.At {
			continue
		}
		if st.Y < 0 || st.X < 0 || st.Y >= p.Height || st.X >= p.Width {
			return Misconfigured("stair at %d:%d is off the grid", st.Y, st.X)
		}
		if placed[[2]int{st.Y, st.X}] {
			return Misconfigured("two stairs at %d:%d", st.Y, st.X)
		}
		placed[[2]int{st.Y, st.X}] = true
	}
	return p.validateReach()
}

// validateReach rejects exit and stair requests that no connected layout of
// Size screens can hold. Each exit and each stair claims its own screen, and
// exits on opposite sides need a run of screens across the whole grid.
func (p ShuffleParams) validateReach() error {
	most := 0
	for _, d := range Dirs {
		n := p.EdgeCount(d)
		most = max(most, n)
		if n > 0 && d < S && p.EdgeCount(d.Opposite()) > 0 {
			span := p.Height
			if !d.Vertical() {
				span = p.Width
			}
			if p.Size < span {
				return Misconfigured("exits on the %s and %s sides need %d screens, size is %d",
					d.Side(), d.Opposite().Side(), span, p.Size)
			}
		}
	}
	if need := most + len(p.Stairs); need > p.Size {
		return Misconfigured("%d exits on one side and %d stairs need %d screens, size is %d",
			most, len(p.Stairs), need, p.Size)
	}
	return nil
}

// FromMap populates the params from a string map (flag-style key/value pairs).
// Unparsable values keep their defaults.
func FromMap(cfg map[string]string) ShuffleParams {
	return ApplyMap(DefaultParams(), cfg)
}

// ApplyMap overlays cfg onto base.
func ApplyMap(base ShuffleParams, cfg map[string]string) ShuffleParams {
	p := base.Clone()
	if cfg == nil {
		return p
	}
	if v, ok := cfg["h"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			p.Height = parsed
		}
	}
	if v, ok := cfg["w"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			p.Width = parsed
		}
	}
	if v, ok := cfg["size"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			p.Size = parsed
		}
	}
	if v, ok := cfg["river"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			p.Features.River = parsed
		}
	}
	if v, ok := cfg["arena"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			p.Features.Arena = parsed
		}
	}
	if v, ok := cfg["bridge"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			p.Features.Bridge = parsed
		}
	}
	if v, ok := cfg["partitions"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			p.Partitions = parsed
		}
	}
	if v, ok := cfg["attempts"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			p.MaxAttempts = parsed
		}
	}
	if v, ok := cfg["skip_preinfer"]; ok {
		if parsed, err := strconv.ParseBool(v); err == nil {
			p.SkipPreinfer = parsed
		}
	}
	if v, ok := cfg["edges"]; ok {
		if edges, err := ParseEdges(v); err == nil {
			p.Edges = edges
		}
	}
	if v, ok := cfg["stairs"]; ok {
		if stairs, err := ParseStairs(v); err == nil {
			p.Stairs = stairs
		}
	}
	return p
}

// ParseEdges reads a list like "bottom:2,top" into per-side exit counts.
func ParseEdges(s string) (map[Dir]int, error) {
	out := map[Dir]int{}
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		name, count, hasCount := strings.Cut(item, ":")
		d, ok := ParseSide(name)
		if !ok {
			return nil, fmt.Errorf("unknown side %q", name)
		}
		n := 1
		if hasCount {
			parsed, err := strconv.Atoi(count)
			if err != nil {
				return nil, fmt.Errorf("edge count %q: %w", count, err)
			}
			n = parsed
		}
		out[d] += n
	}
	return out, nil
}

// ParseStairs reads a list like "up,down@3:4" into stair placements.
func ParseStairs(s string) ([]Stair, error) {
	var out []Stair
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		kind, at, hasAt := strings.Cut(item, "@")
		var st Stair
		switch strings.ToLower(kind) {
		case "up", "<":
			st.Kind = StairUp
		case "down", ">":
			st.Kind = StairDown
		default:
			return nil, fmt.Errorf("unknown stair kind %q", kind)
		}
		if hasAt {
			ys, xs, ok := strings.Cut(at, ":")
			if !ok {
				return nil, fmt.Errorf("stair position %q: want y:x", at)
			}
			y, err := strconv.Atoi(ys)
			if err != nil {
				return nil, fmt.Errorf("stair row %q: %w", ys, err)
			}
			x, err := strconv.Atoi(xs)
			if err != nil {
				return nil, fmt.Errorf("stair column %q: %w", xs, err)
			}
			st.At, st.Y, st.X = true, y, x
		}
		out = append(out, st)
	}
	return out, nil
}

// FormatEdges is the inverse of ParseEdges, with sides in N, E, S, W order.
func FormatEdges(edges map[Dir]int) string {
	var parts []string
	for _, d := range Dirs {
		if n := edges[d]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s:%d", d.Side(), n))
		}
	}
	return strings.Join(parts, ",")
}

// FormatStairs is the inverse of ParseStairs.
func FormatStairs(stairs []Stair) string {
	parts := make([]string, 0, len(stairs))
	for _, st := range stairs {
		name := "down"
		if st.Kind == StairUp {
			name = "up"
		}
		if st.At {
			name = fmt.Sprintf("%s@%d:%d", name, st.Y, st.X)
		}
		parts = append(parts, name)
	}
	return strings.Join(parts, ",")
}

// Parameters exposes the params for the HUD and the command line tools.
func (p ShuffleParams) Parameters() ParameterSnapshot {
	return ParameterSnapshot{Groups: []ParameterGroup{
		{
			Name: "Grid",
			Params: []Parameter{
				intParam("h", "Height", p.Height),
				intParam("w", "Width", p.Width),
				intParam("size", "Size", p.Size),
				intParam("partitions", "Partitions", p.Partitions),
				intParam("attempts", "Max attempts", p.MaxAttempts),
			},
		},
		{
			Name: "Features",
			Params: []Parameter{
				intParam("river", "River", p.Features.River),
				intParam("arena", "Arenas", p.Features.Arena),
				intParam("bridge", "Bridges", p.Features.Bridge),
				textParam("edges", "Edges", FormatEdges(p.Edges)),
				textParam("stairs", "Stairs", FormatStairs(p.Stairs)),
				{Key: "skip_preinfer", Label: "Skip preinfer", Type: ParamTypeBool, Value: strconv.FormatBool(p.SkipPreinfer)},
			},
		},
	}}
}

func intParam(key, label string, value int) Parameter {
	return Parameter{Key: key, Label: label, Type: ParamTypeInt, Value: strconv.Itoa(value)}
}

func textParam(key, label, value string) Parameter {
	return Parameter{Key: key, Label: label, Type: ParamTypeText, Value: value}
}
