// Package cave registers the plain cave shuffle: a single cave grown from
// one seed screen with every pipeline stage at its default.
package cave

import "cavegen/internal/shuffle"

// Name is the registry key of the plain cave shuffle.
const Name = "cave"

// Shuffle is the plain cave variant.
var Shuffle = &shuffle.Shuffle{Name: Name, MaxAttempts: shuffle.DefaultMaxAttempts}

func init() {
	shuffle.Register(Shuffle)
}
