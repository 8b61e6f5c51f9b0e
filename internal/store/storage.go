// Package store persists generated layouts so they can be reviewed, reloaded
// into the viewer or fed to later build steps.
package store

import (
	"fmt"
	"time"

	"cavegen/internal/core"
	"cavegen/internal/meta"
)

// Layout is one stored generation.
type Layout struct {
	ID        string            `json:"id"`
	Variant   string            `json:"variant"`
	Seed      int64             `json:"seed"`
	Params    map[string]string `json:"params"`
	Attempts  int               `json:"attempts"`
	Map       meta.Record       `json:"map"`
	CreatedAt time.Time         `json:"created_at"`
}

// LayoutID names the layout generated by variant from seed.
func LayoutID(variant string, seed int64) string {
	return fmt.Sprintf("%s-%d", variant, seed)
}

// NewLayout packages a generated map for storage.
func NewLayout(variant string, seed int64, params core.ShuffleParams, m *meta.Metalocation, attempts int) *Layout {
	return &Layout{
		ID:        LayoutID(variant, seed),
		Variant:   variant,
		Seed:      seed,
		Params:    params.Parameters().Map(),
		Attempts:  attempts,
		Map:       m.Record(),
		CreatedAt: time.Now().UTC(),
	}
}

// Storage defines the interface for layout persistence.
type Storage interface {
	SaveLayout(l *Layout) error
	LoadLayout(id string) (*Layout, error)
	ListLayouts(variant string) ([]string, error)
	Close() error
}
