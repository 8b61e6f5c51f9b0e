package core

// Size describes the pixel dimensions of a rendered layout.
type Size struct {
	W int
	H int
}

// Scaled multiplies both dimensions by scale, treating non-positive scales as 1.
func (s Size) Scaled(scale int) Size {
	if scale <= 0 {
		scale = 1
	}
	return Size{W: s.W * scale, H: s.H * scale}
}
