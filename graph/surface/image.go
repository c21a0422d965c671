package surface

import (
	"image"
	"image/color"
	"io"

	"github.com/gogpu/gg"

	"grapher/graph/plot"
)

// Image is an anti-aliased plot.Canvas backed by a gg context.
type Image struct {
	dc *gg.Context
}

func NewImage(width, height int) *Image {
	dc := gg.NewContext(width, height)
	dc.SetLineCap(gg.LineCapRound)
	dc.SetLineJoin(gg.LineJoinRound)
	return &Image{dc: dc}
}

func (im *Image) Size() (width, height int) { return im.dc.Width(), im.dc.Height() }

func (im *Image) Clear(c color.RGBA) { im.dc.ClearWithColor(gg.FromColor(c)) }

func (im *Image) Stroke(path [][]plot.Point, c color.RGBA, width float64) {
	im.dc.SetColor(c)
	im.dc.SetLineWidth(width)
	for _, line := range path {
		if len(line) == 1 {
			im.dc.DrawCircle(line[0].X, line[0].Y, width/2)
			_ = im.dc.Fill()
			continue
		}
		im.dc.MoveTo(line[0].X, line[0].Y)
		for _, p := range line[1:] {
			im.dc.LineTo(p.X, p.Y)
		}
		_ = im.dc.Stroke()
	}
}

// DrawText draws s in Font with its baseline at y.
func (im *Image) DrawText(s string, x, y int, c color.RGBA) {
	col := gg.FromColor(c)
	for _, r := range s {
		eachGlyphPixel(r, func(dx, dy int) {
			im.dc.SetPixel(x+dx, y+dy, col)
		})
		x += GlyphWidth
	}
}

// FillRect fills an axis-aligned rectangle.
func (im *Image) FillRect(r image.Rectangle, c color.RGBA) {
	im.dc.SetColor(c)
	im.dc.DrawRectangle(float64(r.Min.X), float64(r.Min.Y), float64(r.Dx()), float64(r.Dy()))
	_ = im.dc.Fill()
}

func (im *Image) Image() image.Image { return im.dc.Image() }

func (im *Image) EncodePNG(w io.Writer) error { return im.dc.EncodePNG(w) }

func (im *Image) Close() error { return im.dc.Close() }
