package shuffle

import (
	"cavegen/internal/core"
	"cavegen/internal/meta"
	rng "cavegen/pkg/core"

	"github.com/zyedidia/generic/mapset"
)

// Attempt is one randomized trial. It exclusively owns its grid and fixed
// set; nothing in it survives into the next attempt.
type Attempt struct {
	Grid    *core.Grid
	Fixed   mapset.Set[core.Coord]
	Params  core.ShuffleParams
	RNG     rng.RandomSource
	Catalog meta.Catalog
	// Meta is nil until screens have been assigned.
	Meta *meta.Metalocation
	// Number counts attempts from 1.
	Number int
}

// NewAttempt starts a fresh attempt with an empty grid.
func NewAttempt(params core.ShuffleParams, src rng.RandomSource, cat meta.Catalog) *Attempt {
	return &Attempt{
		Grid:    core.NewGrid(params.Height, params.Width),
		Fixed:   mapset.New[core.Coord](),
		Params:  params,
		RNG:     src,
		Catalog: cat,
	}
}

// H returns the grid height in screens.
func (a *Attempt) H() int { return a.Grid.H }

// W returns the grid width in screens.
func (a *Attempt) W() int { return a.Grid.W }

// Fix locks the tags at cs for the rest of the attempt.
func (a *Attempt) Fix(cs ...core.Coord) {
	for _, c := range cs {
		a.Fixed.Put(c)
	}
}

// IsFixed reports whether c is locked.
func (a *Attempt) IsFixed(c core.Coord) bool { return a.Fixed.Has(c) }

// FixAll locks every non-empty cell currently on the grid.
func (a *Attempt) FixAll() {
	for i, t := range a.Grid.Cells() {
		if t != core.Empty {
			a.Fixed.Put(a.Grid.Coord(i))
		}
	}
}

// Centers returns the screen centers whose tag matches, row-major.
func (a *Attempt) Centers(match func(core.Tag) bool) []core.Coord {
	var out []core.Coord
	for _, s := range a.Grid.Screens() {
		c := core.CenterOf(s)
		if match(a.Grid.Get(c)) {
			out = append(out, c)
		}
	}
	return out
}

// Is returns a matcher for a single tag.
func Is(tag core.Tag) func(core.Tag) bool {
	return func(t core.Tag) bool { return t == tag }
}

// Degree counts the non-empty edges of the screen centered at c.
func (a *Attempt) Degree(c core.Coord) int {
	n := 0
	for _, d := range core.Dirs {
		if a.Grid.Get(c.Step(d)) != core.Empty {
			n++
		}
	}
	return n
}
