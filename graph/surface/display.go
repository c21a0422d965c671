// Package surface provides plot canvases and text rendering for the widget: an RGB565
// framebuffer canvas for the HAL display and an anti-aliased image canvas for export.
package surface

import (
	"image/color"

	"grapher/hal"
)

// Display adapts a hal.Framebuffer to drivers.Displayer so tinyfont can draw on it.
// Out-of-range pixels are ignored.
type Display struct {
	fb hal.Framebuffer
}

func NewDisplay(fb hal.Framebuffer) *Display {
	return &Display{fb: fb}
}

func (d *Display) Framebuffer() hal.Framebuffer { return d.fb }

func (d *Display) Size() (x, y int16) {
	w, h := d.bounds()
	return int16(min(w, 1<<15-1)), int16(min(h, 1<<15-1))
}

func (d *Display) bounds() (w, h int) {
	if d.fb == nil {
		return 0, 0
	}
	return d.fb.Width(), d.fb.Height()
}

func (d *Display) SetPixel(x, y int16, c color.RGBA) {
	d.set(int(x), int(y), c)
}

func (d *Display) set(x, y int, c color.RGBA) {
	if d.fb == nil || d.fb.Format() != hal.PixelFormatRGB565 {
		return
	}
	buf := d.fb.Buffer()
	if buf == nil {
		return
	}

	w, h := d.bounds()
	if x < 0 || x >= w || y < 0 || y >= h {
		return
	}

	pixel := rgb565From888(c.R, c.G, c.B)
	off := y*d.fb.StrideBytes() + x*2
	if off < 0 || off+1 >= len(buf) {
		return
	}
	buf[off] = byte(pixel)
	buf[off+1] = byte(pixel >> 8)
}

// Pixel reads back the color at (x, y), expanded from RGB565.
func (d *Display) Pixel(x, y int) color.RGBA {
	if d.fb == nil || d.fb.Format() != hal.PixelFormatRGB565 {
		return color.RGBA{}
	}
	buf := d.fb.Buffer()
	w, h := d.bounds()
	off := y*d.fb.StrideBytes() + x*2
	if x < 0 || x >= w || y < 0 || y >= h || off+1 >= len(buf) {
		return color.RGBA{}
	}
	p := uint16(buf[off]) | uint16(buf[off+1])<<8
	r, g, b := rgb888From565(p)
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

func (d *Display) Display() error {
	if d.fb == nil {
		return nil
	}
	return d.fb.Present()
}

func (d *Display) FillRectangle(x, y, width, height int16, c color.RGBA) error {
	d.fill(int(x), int(y), int(width), int(height), c)
	return nil
}

func (d *Display) fill(x, y, width, height int, c color.RGBA) {
	if d.fb == nil || d.fb.Format() != hal.PixelFormatRGB565 {
		return
	}
	buf := d.fb.Buffer()
	if buf == nil {
		return
	}

	w, h := d.bounds()
	x0 := clampInt(x, 0, w)
	y0 := clampInt(y, 0, h)
	x1 := clampInt(x+width, 0, w)
	y1 := clampInt(y+height, 0, h)
	if x0 >= x1 || y0 >= y1 {
		return
	}

	pixel := rgb565From888(c.R, c.G, c.B)
	lo := byte(pixel)
	hi := byte(pixel >> 8)

	stride := d.fb.StrideBytes()
	for py := y0; py < y1; py++ {
		row := py * stride
		for px := x0; px < x1; px++ {
			off := row + px*2
			if off < 0 || off+1 >= len(buf) {
				continue
			}
			buf[off] = lo
			buf[off+1] = hi
		}
	}
}

func rgb565From888(r, g, b uint8) uint16 {
	return uint16((uint16(r>>3)&0x1F)<<11 | (uint16(g>>2)&0x3F)<<5 | (uint16(b>>3) & 0x1F))
}

func rgb888From565(p uint16) (r, g, b uint8) {
	r = uint8((((p >> 11) & 0x1F) * 255) / 31)
	g = uint8((((p >> 5) & 0x3F) * 255) / 63)
	b = uint8(((p & 0x1F) * 255) / 31)
	return r, g, b
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
