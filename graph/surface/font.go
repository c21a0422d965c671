package surface

import (
	"image"
	"image/color"

	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
)

// Metrics of Font in pixels.
const (
	GlyphWidth = 7
	LineHeight = 13
	Ascent     = 11
)

// Font is a 7x13 monospace bitmap font for tinyfont, with glyphs taken from basicfont.Face7x13.
// Runes outside the face are drawn as '?'.
//
// Concurrent access is not safe due to internal glyph reuse.
var Font tinyfont.Fonter = &face7x13{}

type face7x13 struct {
	g glyph
}

type glyph struct {
	r rune
}

func (g *glyph) Draw(display drivers.Displayer, x, y int16, c color.RGBA) {
	eachGlyphPixel(g.r, func(dx, dy int) {
		display.SetPixel(x+int16(dx), y+int16(dy), c)
	})
}

func (g *glyph) Info() tinyfont.GlyphInfo {
	return tinyfont.GlyphInfo{
		Rune:     g.r,
		Width:    GlyphWidth,
		Height:   LineHeight,
		XAdvance: GlyphWidth,
		XOffset:  0,
		YOffset:  -Ascent,
	}
}

func (f *face7x13) GetYAdvance() uint8 { return LineHeight }

func (f *face7x13) GetGlyph(r rune) tinyfont.Glypher {
	f.g.r = r
	return &f.g
}

// eachGlyphPixel calls fn for every set pixel of r, relative to the pen position on the
// baseline.
func eachGlyphPixel(r rune, fn func(dx, dy int)) {
	face := basicfont.Face7x13
	dr, mask, mp, _, ok := face.Glyph(fixed.Point26_6{}, r)
	if !ok {
		dr, mask, mp, _, ok = face.Glyph(fixed.Point26_6{}, '?')
		if !ok {
			return
		}
	}

	alpha, _ := mask.(*image.Alpha)
	for y := dr.Min.Y; y < dr.Max.Y; y++ {
		for x := dr.Min.X; x < dr.Max.X; x++ {
			mx := mp.X + x - dr.Min.X
			my := mp.Y + y - dr.Min.Y
			var a uint8
			if alpha != nil {
				a = alpha.AlphaAt(mx, my).A
			} else {
				_, _, _, a32 := mask.At(mx, my).RGBA()
				a = uint8(a32 >> 8)
			}
			if a >= 0x80 {
				fn(x, y)
			}
		}
	}
}

// TextWidth returns the advance of s in pixels.
func TextWidth(s string) int {
	n := 0
	for range s {
		n++
	}
	return n * GlyphWidth
}
