// Package widget implements the interactive grapher on a HAL framebuffer: an input line for new
// expressions, a row of equation chips, the plot area with zoom buttons and a status line.
//
// The widget owns the equation set and the viewport. Every operation that changes what is on
// screen redraws explicitly before returning.
package widget

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"go.uber.org/zap"

	"grapher/graph/equation"
	"grapher/graph/expr"
	"grapher/graph/plot"
	"grapher/graph/surface"
	"grapher/hal"
)

type focus uint8

const (
	focusInput focus = iota
	focusPlot
)

func (f focus) String() string {
	if f == focusPlot {
		return "plot"
	}
	return "input"
}

const maxInputRunes = 256

// Config holds the widget's tunables.
type Config struct {
	// Scale is the initial zoom in pixels per unit; MinScale is the zoom-out floor.
	Scale    float64
	MinScale float64
	// ZoomStep is the scale change per key press, button click or wheel notch.
	ZoomStep float64
	// PanStep is the offset change in pixels per arrow key press.
	PanStep float64
	Palette []color.RGBA
	Style   plot.Style
}

func DefaultConfig() Config {
	return Config{
		Scale:    plot.DefaultScale,
		MinScale: plot.DefaultMinScale,
		ZoomStep: 10,
		PanStep:  20,
		Palette:  equation.DefaultPalette(),
		Style:    plot.DefaultStyle(),
	}
}

// Widget is the grapher UI. It is driven from a single goroutine.
type Widget struct {
	cfg Config
	log *zap.Logger

	fb       hal.Framebuffer
	d        *surface.Display
	canvas   *surface.Framebuffer
	renderer *plot.Renderer

	eqs *equation.Set
	vp  plot.Viewport

	focus    focus
	input    []rune
	cursor   int
	selected int
	message  string
	msgErr   bool

	width, height int
	lay           layout

	dragging     bool
	dragX, dragY int
	hover        image.Point
	hovering     bool

	renders int
	stats   plot.Stats
}

// New returns a widget drawing on fb. Nothing is drawn until Render or the first change.
func New(fb hal.Framebuffer, cfg Config, log *zap.Logger) *Widget {
	if log == nil {
		log = zap.NewNop()
	}
	def := DefaultConfig()
	if cfg.ZoomStep <= 0 {
		cfg.ZoomStep = def.ZoomStep
	}
	if cfg.PanStep <= 0 {
		cfg.PanStep = def.PanStep
	}
	if cfg.Style == (plot.Style{}) {
		cfg.Style = def.Style
	}

	d := surface.NewDisplay(fb)
	w := &Widget{
		cfg:      cfg,
		log:      log,
		fb:       fb,
		d:        d,
		canvas:   surface.NewFramebuffer(d, image.Rectangle{}),
		renderer: plot.NewRenderer(cfg.Style, log.Named("plot")),
		eqs:      equation.NewSet(cfg.Palette),
		vp:       plot.NewViewport(cfg.Scale, cfg.MinScale),
		selected: -1,
	}
	return w
}

// Add appends an equation and redraws. An expression that does not compile is still added and
// renders as gaps; the compile error is reported in the status line and returned.
func (w *Widget) Add(src string) (equation.Equation, error) {
	eq, err := w.eqs.Add(src)
	if err != nil {
		w.setError("nothing to add")
		w.Render()
		return eq, err
	}

	_, cerr := expr.Compile(eq.Expression)
	if cerr != nil {
		w.setError(fmt.Sprintf("y = %s: %v", eq.Expression, cerr))
		w.log.Warn("equation does not compile", zap.String("id", eq.ID), zap.String("expr", eq.Expression), zap.Error(cerr))
	} else {
		w.setMessage("added y = " + eq.Expression)
		w.log.Info("equation added", zap.String("id", eq.ID), zap.String("expr", eq.Expression))
	}
	w.Render()
	return eq, cerr
}

// Toggle flips the visibility of id and redraws.
func (w *Widget) Toggle(id string) bool {
	if !w.eqs.Toggle(id) {
		return false
	}
	eq, _ := w.eqs.Get(id)
	state := "hidden"
	if eq.Visible {
		state = "shown"
	}
	w.setMessage(state + " y = " + eq.Expression)
	w.log.Debug("equation toggled", zap.String("id", id), zap.Bool("visible", eq.Visible))
	w.Render()
	return true
}

// Remove deletes id and redraws.
func (w *Widget) Remove(id string) bool {
	idx := w.indexOf(id)
	eq, ok := w.eqs.Get(id)
	if !ok || !w.eqs.Remove(id) {
		return false
	}
	if w.selected > idx || w.selected >= w.eqs.Len() {
		w.selected--
	}
	w.setMessage("removed y = " + eq.Expression)
	w.log.Info("equation removed", zap.String("id", id))
	w.Render()
	return true
}

// Zoom changes the scale by delta (never below the floor) and redraws.
func (w *Widget) Zoom(delta float64) {
	w.vp.Zoom(delta)
	w.log.Debug("zoom", zap.Float64("delta", delta), zap.Float64("scale", w.vp.Scale))
	w.Render()
}

// Pan moves the origin by (dx, dy) pixels and redraws.
func (w *Widget) Pan(dx, dy float64) {
	w.vp.Pan(dx, dy)
	w.Render()
}

// ResetView restores the initial scale and centers the origin.
func (w *Widget) ResetView() {
	w.vp.Reset()
	w.setMessage("view reset")
	w.Render()
}

// Resize picks up a new framebuffer size and redraws.
func (w *Widget) Resize() {
	w.log.Debug("resize", zap.Int("width", w.fb.Width()), zap.Int("height", w.fb.Height()))
	w.Render()
}

// SizeChanged reports whether the framebuffer size differs from the last render.
func (w *Widget) SizeChanged() bool {
	return w.fb != nil && (w.fb.Width() != w.width || w.fb.Height() != w.height)
}

// Render redraws the whole widget.
func (w *Widget) Render() {
	if w.fb == nil {
		return
	}
	w.width, w.height = w.fb.Width(), w.fb.Height()
	if w.width <= 0 || w.height <= 0 {
		return
	}

	w.lay = w.computeLayout()
	w.canvas.SetBounds(w.lay.plot)

	w.drawHeader()
	w.stats = w.renderer.Render(w.canvas, w.eqs.Snapshot(), w.vp)
	w.drawZoomButtons()
	w.drawStatus()

	w.renders++
	_ = w.fb.Present()
}

func (w *Widget) Equations() []equation.Equation { return w.eqs.Snapshot() }

func (w *Widget) Viewport() plot.Viewport { return w.vp }

func (w *Widget) Input() string { return string(w.input) }

// SetInput replaces the input line and puts the cursor at its end.
func (w *Widget) SetInput(s string) {
	w.input = []rune(s)
	if len(w.input) > maxInputRunes {
		w.input = w.input[:maxInputRunes]
	}
	w.cursor = len(w.input)
	w.redrawInput()
}

func (w *Widget) Message() string { return w.message }

// Renders counts full redraws since New.
func (w *Widget) Renders() int { return w.renders }

// Stats returns the statistics of the last plot pass.
func (w *Widget) Stats() plot.Stats { return w.stats }

// Selected returns the selected equation, if any.
func (w *Widget) Selected() (equation.Equation, bool) {
	return w.eqs.At(w.selected)
}

func (w *Widget) setMessage(msg string) { w.message, w.msgErr = msg, false }

func (w *Widget) setError(msg string) { w.message, w.msgErr = msg, true }

func (w *Widget) indexOf(id string) int {
	for i := 0; i < w.eqs.Len(); i++ {
		if eq, _ := w.eqs.At(i); eq.ID == id {
			return i
		}
	}
	return -1
}

// submit adds the input line as a new equation.
func (w *Widget) submit() {
	src := string(w.input)
	w.input = w.input[:0]
	w.cursor = 0
	_, err := w.Add(src)
	if errors.Is(err, equation.ErrEmptyExpression) {
		w.log.Debug("empty input ignored")
	}
}

func (w *Widget) selectNext() {
	n := w.eqs.Len()
	if n == 0 {
		w.selected = -1
		w.setMessage("no equations")
	} else {
		w.selected = (w.selected + 1) % n
		eq, _ := w.eqs.At(w.selected)
		w.setMessage("selected y = " + eq.Expression)
	}
	w.Render()
}

func (w *Widget) toggleSelected() {
	eq, ok := w.Selected()
	if !ok {
		w.setMessage("select an equation with Tab")
		w.Render()
		return
	}
	w.Toggle(eq.ID)
}

func (w *Widget) removeSelected() {
	eq, ok := w.Selected()
	if !ok {
		w.setMessage("select an equation with Tab")
		w.Render()
		return
	}
	w.Remove(eq.ID)
}

func (w *Widget) setFocus(f focus) {
	if w.focus == f {
		return
	}
	w.focus = f
	w.dragging = false
	w.log.Debug("focus", zap.Stringer("focus", f))
	w.setMessage("")
	w.Render()
}
