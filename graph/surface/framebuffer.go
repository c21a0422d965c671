package surface

import (
	"image"
	"image/color"
	"math"

	"grapher/graph/plot"
)

// Framebuffer is a plot.Canvas over a rectangle of a Display. Canvas coordinates are relative
// to the rectangle and nothing is drawn outside it.
type Framebuffer struct {
	d *Display
	r image.Rectangle
}

// NewFramebuffer returns a canvas over r, clipped to the display.
func NewFramebuffer(d *Display, r image.Rectangle) *Framebuffer {
	f := &Framebuffer{d: d}
	f.SetBounds(r)
	return f
}

// SetBounds moves the canvas rectangle, e.g. after the display was resized.
func (f *Framebuffer) SetBounds(r image.Rectangle) {
	w, h := f.d.bounds()
	f.r = r.Canon().Intersect(image.Rect(0, 0, w, h))
}

func (f *Framebuffer) Bounds() image.Rectangle { return f.r }

func (f *Framebuffer) Size() (width, height int) { return f.r.Dx(), f.r.Dy() }

func (f *Framebuffer) Clear(c color.RGBA) {
	f.d.fill(f.r.Min.X, f.r.Min.Y, f.r.Dx(), f.r.Dy(), c)
}

// Stroke draws Bresenham lines with a square pen.
func (f *Framebuffer) Stroke(path [][]plot.Point, c color.RGBA, width float64) {
	pen := 1
	if width > 1 && !math.IsInf(width, 0) {
		pen = int(math.Round(width))
	}

	m := float64(pen)
	xmax := float64(f.r.Dx()) + m
	ymax := float64(f.r.Dy()) + m
	for _, line := range path {
		if len(line) == 1 {
			p := line[0]
			if a, _, ok := plot.ClipLine(p, p, -m, -m, xmax, ymax); ok {
				f.dot(roundInt(a.X), roundInt(a.Y), pen, c)
			}
			continue
		}
		for i := 1; i < len(line); i++ {
			a, b, ok := plot.ClipLine(line[i-1], line[i], -m, -m, xmax, ymax)
			if !ok {
				continue
			}
			f.line(roundInt(a.X), roundInt(a.Y), roundInt(b.X), roundInt(b.Y), pen, c)
		}
	}
}

func (f *Framebuffer) line(x0, y0, x1, y1, pen int, c color.RGBA) {
	dx := absInt(x1 - x0)
	dy := -absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		f.dot(x0, y0, pen, c)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// dot fills a pen-sized square centered on (x, y) in canvas coordinates.
func (f *Framebuffer) dot(x, y, pen int, c color.RGBA) {
	if pen <= 1 {
		if x >= 0 && y >= 0 && x < f.r.Dx() && y < f.r.Dy() {
			f.d.set(f.r.Min.X+x, f.r.Min.Y+y, c)
		}
		return
	}
	sq := image.Rect(x-pen/2, y-pen/2, x-pen/2+pen, y-pen/2+pen).
		Add(f.r.Min).
		Intersect(f.r)
	if sq.Empty() {
		return
	}
	f.d.fill(sq.Min.X, sq.Min.Y, sq.Dx(), sq.Dy(), c)
}

func roundInt(v float64) int {
	if v < 0 {
		return int(v - 0.5)
	}
	return int(v + 0.5)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
