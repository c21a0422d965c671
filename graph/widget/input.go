package widget

import (
	"image"
	"math"
	"unicode"

	"grapher/hal"
)

// HandleKey applies one key event. Releases are ignored.
func (w *Widget) HandleKey(ev hal.KeyEvent) {
	if !ev.Press {
		return
	}
	if w.focus == focusPlot {
		w.handlePlotKey(ev)
		return
	}
	w.handleInputKey(ev)
}

func (w *Widget) handleInputKey(ev hal.KeyEvent) {
	switch ev.Code {
	case hal.KeyEnter:
		w.submit()
		return
	case hal.KeyEscape:
		w.setFocus(focusPlot)
		return
	case hal.KeyTab:
		w.selectNext()
		return
	case hal.KeyF1:
		w.toggleSelected()
		return
	case hal.KeyF2:
		w.removeSelected()
		return
	case hal.KeyF3:
		w.ResetView()
		return
	case hal.KeyBackspace:
		w.backspace()
	case hal.KeyDelete:
		w.deleteForward()
	case hal.KeyLeft:
		if w.cursor > 0 {
			w.cursor--
		}
	case hal.KeyRight:
		if w.cursor < len(w.input) {
			w.cursor++
		}
	case hal.KeyHome:
		w.cursor = 0
	case hal.KeyEnd:
		w.cursor = len(w.input)
	case hal.KeyUnknown:
		if !w.editRune(ev.Rune) {
			return
		}
	default:
		return
	}
	w.redrawInput()
}

// editRune handles text input and the ctrl chords the host delivers as control runes.
func (w *Widget) editRune(r rune) bool {
	switch r {
	case 0:
		return false
	case 0x01: // ^A
		w.cursor = 0
	case 0x05: // ^E
		w.cursor = len(w.input)
	case 0x15: // ^U
		w.input = append(w.input[:0], w.input[w.cursor:]...)
		w.cursor = 0
	case 0x17: // ^W
		w.deleteWord()
	default:
		if r == '\n' || r == '\r' {
			w.submit()
			return false
		}
		if !unicode.IsPrint(r) {
			return false
		}
		w.insertRune(r)
	}
	return true
}

func (w *Widget) insertRune(r rune) {
	if len(w.input) >= maxInputRunes {
		return
	}
	if w.cursor < 0 {
		w.cursor = 0
	}
	if w.cursor > len(w.input) {
		w.cursor = len(w.input)
	}
	w.input = append(w.input, 0)
	copy(w.input[w.cursor+1:], w.input[w.cursor:])
	w.input[w.cursor] = r
	w.cursor++
}

func (w *Widget) backspace() {
	if w.cursor <= 0 || len(w.input) == 0 {
		return
	}
	w.input = append(w.input[:w.cursor-1], w.input[w.cursor:]...)
	w.cursor--
}

func (w *Widget) deleteForward() {
	if w.cursor >= len(w.input) {
		return
	}
	w.input = append(w.input[:w.cursor], w.input[w.cursor+1:]...)
}

func (w *Widget) deleteWord() {
	i := w.cursor
	for i > 0 && w.input[i-1] == ' ' {
		i--
	}
	for i > 0 && w.input[i-1] != ' ' {
		i--
	}
	w.input = append(w.input[:i], w.input[w.cursor:]...)
	w.cursor = i
}

func (w *Widget) handlePlotKey(ev hal.KeyEvent) {
	step := w.cfg.PanStep
	switch ev.Code {
	case hal.KeyEscape, hal.KeyEnter:
		w.setFocus(focusInput)
	case hal.KeyLeft:
		w.Pan(step, 0)
	case hal.KeyRight:
		w.Pan(-step, 0)
	case hal.KeyUp:
		w.Pan(0, step)
	case hal.KeyDown:
		w.Pan(0, -step)
	case hal.KeyTab:
		w.selectNext()
	case hal.KeyF1:
		w.toggleSelected()
	case hal.KeyF2:
		w.removeSelected()
	case hal.KeyF3:
		w.ResetView()
	case hal.KeyUnknown:
		switch ev.Rune {
		case '+', '=':
			w.Zoom(w.cfg.ZoomStep)
		case '-', '_':
			w.Zoom(-w.cfg.ZoomStep)
		case 't', 'T':
			w.toggleSelected()
		case 'x', 'X':
			w.removeSelected()
		case '0':
			w.ResetView()
		case '\n', '\r':
			w.setFocus(focusInput)
		}
	}
}

// HandlePointer applies one pointer event in framebuffer coordinates.
func (w *Widget) HandlePointer(ev hal.PointerEvent) {
	p := image.Pt(ev.X, ev.Y)
	switch ev.Kind {
	case hal.PointerMove:
		w.pointerMove(p)
	case hal.PointerDown:
		if ev.Button == hal.ButtonLeft {
			w.pointerDown(p)
		}
	case hal.PointerUp:
		if ev.Button == hal.ButtonLeft {
			w.dragging = false
		}
	case hal.PointerWheel:
		if !p.In(w.lay.plot) || ev.WheelY == 0 || math.IsNaN(ev.WheelY) {
			return
		}
		notches := ev.WheelY
		if notches > 0 && notches < 1 {
			notches = 1
		} else if notches < 0 && notches > -1 {
			notches = -1
		}
		w.Zoom(notches * w.cfg.ZoomStep)
	}
}

func (w *Widget) pointerMove(p image.Point) {
	if w.dragging {
		dx, dy := p.X-w.dragX, p.Y-w.dragY
		w.dragX, w.dragY = p.X, p.Y
		w.hover, w.hovering = p, p.In(w.lay.plot)
		if dx != 0 || dy != 0 {
			w.Pan(float64(dx), float64(dy))
		}
		return
	}

	in := p.In(w.lay.plot)
	if !in && !w.hovering {
		return
	}
	w.hover, w.hovering = p, in
	w.redrawStatus()
}

func (w *Widget) pointerDown(p image.Point) {
	l := w.lay
	switch {
	case p.In(l.zoomIn):
		w.Zoom(w.cfg.ZoomStep)
		return
	case p.In(l.zoomOut):
		w.Zoom(-w.cfg.ZoomStep)
		return
	case p.In(l.add):
		w.submit()
		return
	case p.In(l.input):
		w.focus = focusInput
		w.cursor = w.cursorAt(p.X)
		w.Render()
		return
	}

	for i, c := range l.chips {
		eq, ok := w.eqs.At(i)
		if !ok {
			break
		}
		switch {
		case p.In(c.swatch):
			w.Toggle(eq.ID)
			return
		case p.In(c.close):
			w.Remove(eq.ID)
			return
		case p.In(c.box):
			w.selected = i
			w.setMessage("selected y = " + eq.Expression)
			w.Render()
			return
		}
	}

	if p.In(l.plot) {
		w.dragging = true
		w.dragX, w.dragY = p.X, p.Y
		if w.focus != focusPlot {
			w.setFocus(focusPlot)
		}
	}
}

// cursorAt maps a pixel column of the input field to a cursor position.
func (w *Widget) cursorAt(x int) int {
	col := (x - w.lay.text.Min.X + glyphHalf) / glyphWidth
	pos := w.scroll() + col
	if pos < 0 {
		return 0
	}
	if pos > len(w.input) {
		return len(w.input)
	}
	return pos
}
