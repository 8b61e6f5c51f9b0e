package render

import "image/color"

// putRGBA writes col at pixel i of an RGBA buffer.
func putRGBA(buf []byte, i int, col color.RGBA) {
	base := i * 4
	buf[base+0] = col.R
	buf[base+1] = col.G
	buf[base+2] = col.B
	buf[base+3] = col.A
}

func toRGBA(c color.Color) color.RGBA {
	r, g, b, a := c.RGBA()
	return color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(a >> 8)}
}

// fillMaskRGBA converts mask cells (0 or not) into RGBA pixels in buf.
func fillMaskRGBA(buf []byte, cells []uint8, on, off color.Color) {
	onRGBA, offRGBA := toRGBA(on), toRGBA(off)
	for i, c := range cells {
		if c != 0 {
			putRGBA(buf, i, onRGBA)
			continue
		}
		putRGBA(buf, i, offRGBA)
	}
}

// fillPaletteRGBA converts cell values into RGBA pixels using a palette.
// Values past the end of the palette use its last entry. When the palette is
// empty the buffer is cleared to transparent black.
func fillPaletteRGBA(buf []byte, cells []uint8, palette []color.RGBA) {
	if len(palette) == 0 {
		clear(buf[:4*len(cells)])
		return
	}
	last := len(palette) - 1
	for i, c := range cells {
		putRGBA(buf, i, palette[min(int(c), last)])
	}
}
