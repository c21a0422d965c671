package widget

import (
	"fmt"
	"image"
	"image/color"
	"strconv"

	"tinygo.org/x/tinyfont"

	"grapher/graph/surface"
)

const (
	glyphWidth = surface.GlyphWidth
	glyphHalf  = surface.GlyphWidth / 2

	pad         = 6
	fieldH      = surface.LineHeight + 8
	chipH       = surface.LineHeight + 6
	chipGap     = 4
	swatchSize  = 9
	statusH     = surface.LineHeight + 6
	buttonSize  = 28
	buttonInset = 12
	maxChipRows = 3

	// chipChrome is everything in a chip except its label: padding, swatch and close glyph.
	chipChrome = 6 + swatchSize + 6 + 6 + glyphWidth + 6

	prompt      = "y = "
	placeholder = "Math.sin(x)"
)

var (
	colorText     = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	colorDim      = color.RGBA{R: 0x76, G: 0x76, B: 0x82, A: 0xff}
	colorField    = color.RGBA{R: 0x31, G: 0x31, B: 0x43, A: 0xff}
	colorFieldOff = color.RGBA{R: 0x25, G: 0x25, B: 0x38, A: 0xff}
	colorBorder   = color.RGBA{R: 0x3a, G: 0x3a, B: 0x50, A: 0xff}
	colorFocus    = color.RGBA{R: 0x3b, G: 0x82, B: 0xf6, A: 0xff}
	colorButton   = color.RGBA{R: 0x25, G: 0x63, B: 0xeb, A: 0xff}
	colorDivider  = color.RGBA{R: 0x2e, G: 0x2e, B: 0x42, A: 0xff}
	colorError    = color.RGBA{R: 0xea, G: 0x43, B: 0x35, A: 0xff}
)

type chipLayout struct {
	box    image.Rectangle
	swatch image.Rectangle
	close  image.Rectangle
	label  string
}

// layout is recomputed on every full render; pointer hit tests use the last one.
type layout struct {
	header  image.Rectangle
	input   image.Rectangle
	text    image.Rectangle
	add     image.Rectangle
	chips   []chipLayout
	plot    image.Rectangle
	status  image.Rectangle
	zoomIn  image.Rectangle
	zoomOut image.Rectangle
}

func (w *Widget) computeLayout() layout {
	var l layout
	W, H := w.width, w.height

	addW := surface.TextWidth("Add") + 16
	l.add = image.Rect(W-pad-addW, pad, W-pad, pad+fieldH)
	l.input = image.Rect(pad, pad, max(pad, l.add.Min.X-pad), pad+fieldH)
	tx := l.input.Min.X + 4 + surface.TextWidth(prompt)
	l.text = image.Rect(tx, l.input.Min.Y, max(tx, l.input.Max.X-4), l.input.Max.Y)

	y := l.input.Max.Y + pad
	x := pad
	rows := 1
	maxLabel := max(4, (W-2*pad-chipChrome)/glyphWidth)
	for i := 0; i < w.eqs.Len(); i++ {
		eq, _ := w.eqs.At(i)
		label := truncate(eq.Expression, maxLabel)
		cw := chipChrome + surface.TextWidth(label)
		if x > pad && x+cw > W-pad {
			if rows == maxChipRows {
				break
			}
			rows++
			x = pad
			y += chipH + chipGap
		}
		box := image.Rect(x, y, x+cw, y+chipH)
		sy := y + (chipH-swatchSize)/2
		l.chips = append(l.chips, chipLayout{
			box:    box,
			swatch: image.Rect(x+6, sy, x+6+swatchSize, sy+swatchSize),
			close:  image.Rect(box.Max.X-6-glyphWidth-3, y, box.Max.X, box.Max.Y),
			label:  label,
		})
		x += cw + chipGap
	}
	if len(l.chips) > 0 {
		y += chipH + pad
	}

	l.header = image.Rect(0, 0, W, min(y, H))
	l.status = image.Rect(0, max(H-statusH, l.header.Max.Y), W, H)
	if top, bottom := l.header.Max.Y+1, l.status.Min.Y-1; bottom > top {
		l.plot = image.Rect(0, top, W, bottom)
	}

	if l.plot.Dx() >= 2*(buttonSize+buttonInset) && l.plot.Dy() >= buttonSize+2*buttonInset {
		l.zoomIn = image.Rect(
			l.plot.Max.X-buttonInset-buttonSize, l.plot.Max.Y-buttonInset-buttonSize,
			l.plot.Max.X-buttonInset, l.plot.Max.Y-buttonInset,
		)
		l.zoomOut = l.zoomIn.Sub(image.Pt(buttonSize+8, 0))
	}
	return l
}

func (w *Widget) drawHeader() {
	l := w.lay
	bg := w.cfg.Style.Background
	w.fillRect(l.header, bg)
	w.fillRect(image.Rect(0, l.header.Max.Y, w.width, l.header.Max.Y+1), colorDivider)

	w.drawInput()

	w.fillRect(l.add, colorButton)
	w.drawText(centerText("Add", l.add), baseline(l.add), "Add", colorText)

	for i, c := range l.chips {
		eq, _ := w.eqs.At(i)
		fill, fg, swatch := colorField, colorText, eq.Color
		if !eq.Visible {
			fill, fg = colorFieldOff, colorDim
			swatch = dim(eq.Color, bg)
		}
		w.fillRect(c.box, fill)
		if i == w.selected {
			w.frame(c.box, colorFocus)
		}
		w.fillRect(c.swatch, swatch)
		w.drawText(c.swatch.Max.X+6, baseline(c.box), c.label, fg)
		w.drawText(c.close.Max.X-6-glyphWidth, baseline(c.box), "x", colorDim)
	}
}

func (w *Widget) drawInput() {
	l := w.lay
	w.fillRect(l.input, colorField)
	border := colorBorder
	if w.focus == focusInput {
		border = colorFocus
	}
	w.frame(l.input, border)

	by := baseline(l.input)
	w.drawText(l.input.Min.X+4, by, prompt, colorDim)

	if len(w.input) == 0 {
		if w.focus != focusInput {
			w.drawText(l.text.Min.X, by, placeholder, colorDim)
		}
	} else {
		cols := max(1, l.text.Dx()/glyphWidth)
		start := w.scroll()
		end := min(len(w.input), start+cols)
		w.drawText(l.text.Min.X, by, string(w.input[start:end]), colorText)
	}

	if w.focus == focusInput {
		cx := l.text.Min.X + (w.cursor-w.scroll())*glyphWidth
		w.fillRect(image.Rect(cx, l.input.Min.Y+3, cx+1, l.input.Max.Y-3), colorText)
	}
}

// scroll returns the first visible rune of the input so that the cursor stays in view.
func (w *Widget) scroll() int {
	cols := max(1, w.lay.text.Dx()/glyphWidth)
	if w.cursor >= cols {
		return w.cursor - cols + 1
	}
	return 0
}

func (w *Widget) drawZoomButtons() {
	for _, b := range []struct {
		r     image.Rectangle
		label string
	}{
		{w.lay.zoomOut, "-"},
		{w.lay.zoomIn, "+"},
	} {
		if b.r.Empty() {
			continue
		}
		w.fillRect(b.r, colorField)
		w.frame(b.r, colorBorder)
		w.drawText(centerText(b.label, b.r), baseline(b.r), b.label, colorText)
	}
}

func (w *Widget) drawStatus() {
	l := w.lay
	if l.status.Empty() {
		return
	}
	w.fillRect(image.Rect(0, l.status.Min.Y-1, w.width, l.status.Min.Y), colorDivider)
	w.fillRect(l.status, w.cfg.Style.Background)

	right := "scale " + strconv.FormatFloat(w.vp.Scale, 'g', 4, 64)
	if w.hovering && !l.plot.Empty() {
		tr := w.vp.Transform(l.plot.Dx(), l.plot.Dy())
		mx := tr.ToMath(float64(w.hover.X - l.plot.Min.X))
		my := tr.ToMathY(float64(w.hover.Y - l.plot.Min.Y))
		right = fmt.Sprintf("x=%.3g y=%.3g  %s", mx, my, right)
	}
	rx := l.status.Max.X - pad - surface.TextWidth(right)
	by := baseline(l.status)
	w.drawText(rx, by, right, colorDim)

	left, fg := w.message, colorText
	if left == "" {
		left, fg = w.hint(), colorDim
	} else if w.msgErr {
		fg = colorError
	}
	room := (rx - 2*pad) / glyphWidth
	w.drawText(pad, by, truncate(left, room), fg)
}

func (w *Widget) hint() string {
	if w.focus == focusPlot {
		return "arrows pan  +/- zoom  t toggle  x remove  0 reset  Esc edit"
	}
	return "Enter add  Tab select  F1 toggle  F2 remove  F3 reset  Esc plot"
}

// redrawInput repaints the input field only, or everything if the layout is stale.
func (w *Widget) redrawInput() {
	if w.fb == nil {
		return
	}
	if w.SizeChanged() || w.lay.input.Empty() {
		w.Render()
		return
	}
	w.drawInput()
	_ = w.fb.Present()
}

func (w *Widget) redrawStatus() {
	if w.fb == nil {
		return
	}
	if w.SizeChanged() || w.lay.status.Empty() {
		w.Render()
		return
	}
	w.drawStatus()
	_ = w.fb.Present()
}

func (w *Widget) drawText(x, baseline int, s string, c color.RGBA) {
	if s == "" {
		return
	}
	tinyfont.WriteLine(w.d, surface.Font, int16(x), int16(baseline), s, c)
}

func (w *Widget) fillRect(r image.Rectangle, c color.RGBA) {
	if r.Empty() {
		return
	}
	_ = w.d.FillRectangle(int16(r.Min.X), int16(r.Min.Y), int16(r.Dx()), int16(r.Dy()), c)
}

// frame draws a one pixel border just inside r.
func (w *Widget) frame(r image.Rectangle, c color.RGBA) {
	if r.Empty() {
		return
	}
	w.fillRect(image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+1), c)
	w.fillRect(image.Rect(r.Min.X, r.Max.Y-1, r.Max.X, r.Max.Y), c)
	w.fillRect(image.Rect(r.Min.X, r.Min.Y, r.Min.X+1, r.Max.Y), c)
	w.fillRect(image.Rect(r.Max.X-1, r.Min.Y, r.Max.X, r.Max.Y), c)
}

func baseline(r image.Rectangle) int {
	return r.Min.Y + (r.Dy()-surface.LineHeight)/2 + surface.Ascent
}

func centerText(s string, r image.Rectangle) int {
	return r.Min.X + (r.Dx()-surface.TextWidth(s)+1)/2
}

// dim mixes c halfway into bg, the look of a hidden equation.
func dim(c, bg color.RGBA) color.RGBA {
	return color.RGBA{
		R: uint8((uint16(c.R) + uint16(bg.R)) / 2),
		G: uint8((uint16(c.G) + uint16(bg.G)) / 2),
		B: uint8((uint16(c.B) + uint16(bg.B)) / 2),
		A: 0xff,
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 {
		return ""
	}
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}
