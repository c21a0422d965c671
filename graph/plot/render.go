package plot

import (
	"image/color"

	"go.uber.org/zap"

	"grapher/graph/equation"
)

// Style holds the colors and pen widths of a render pass.
type Style struct {
	Background color.RGBA
	Grid       color.RGBA
	GridWidth  float64
	Axis       color.RGBA
	AxisWidth  float64
	CurveWidth float64
}

func DefaultStyle() Style {
	return Style{
		Background: color.RGBA{R: 0x1a, G: 0x1a, B: 0x2e, A: 0xff},
		Grid:       color.RGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xff},
		GridWidth:  1,
		Axis:       color.RGBA{R: 0x66, G: 0x66, B: 0x66, A: 0xff},
		AxisWidth:  2,
		CurveWidth: 2,
	}
}

// Stats describes one render pass.
type Stats struct {
	// Equations is the number of visible equations drawn.
	Equations int
	// Segments counts stroked polylines after clipping.
	Segments int
	// Gaps counts sampled columns with no value.
	Gaps int
}

// Renderer draws equations onto a Canvas.
type Renderer struct {
	style Style
	log   *zap.Logger
}

// NewRenderer returns a renderer. A nil logger discards output.
func NewRenderer(style Style, log *zap.Logger) *Renderer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Renderer{style: style, log: log}
}

func (r *Renderer) Style() Style { return r.style }

// Render clears c and draws, in order: the grid, the axes through the origin and every visible
// equation in set order. Evaluation failures only leave gaps in the affected curve.
func (r *Renderer) Render(c Canvas, eqs []equation.Equation, vp Viewport) Stats {
	var st Stats

	w, h := c.Size()
	c.Clear(r.style.Background)
	if w <= 0 || h <= 0 {
		return st
	}

	t := vp.Transform(w, h)
	r.drawGrid(c, t)
	r.drawAxes(c, t)

	for _, eq := range eqs {
		if !eq.Visible {
			continue
		}
		seq, err := sampleEquation(eq, t)
		if err != nil {
			r.log.Debug("expression rejected", zap.String("id", eq.ID), zap.String("expr", eq.Expression), zap.Error(err))
		}

		segs, gaps := split(seq)
		path := clipPath(segs, clipRect(w, h, r.style.CurveWidth))
		if len(path) > 0 {
			c.Stroke(path, eq.Color, r.style.CurveWidth)
		}
		st.Equations++
		st.Segments += len(path)
		st.Gaps += gaps
	}

	r.log.Debug("render",
		zap.Int("width", w),
		zap.Int("height", h),
		zap.Float64("scale", vp.Scale),
		zap.Float64("offset_x", vp.OffsetX),
		zap.Float64("offset_y", vp.OffsetY),
		zap.Int("equations", st.Equations),
		zap.Int("segments", st.Segments),
		zap.Int("gaps", st.Gaps),
	)
	return st
}

func (r *Renderer) drawGrid(c Canvas, t Transform) {
	w, h := float64(t.Width), float64(t.Height)
	var path [][]Point
	for _, x := range t.GridX() {
		path = append(path, []Point{{X: x, Y: 0}, {X: x, Y: h}})
	}
	for _, y := range t.GridY() {
		path = append(path, []Point{{X: 0, Y: y}, {X: w, Y: y}})
	}
	if len(path) > 0 {
		c.Stroke(path, r.style.Grid, r.style.GridWidth)
	}
}

func (r *Renderer) drawAxes(c Canvas, t Transform) {
	w, h := float64(t.Width), float64(t.Height)
	cx, cy := t.Center()
	path := clipPath([][]Point{
		{{X: 0, Y: cy}, {X: w, Y: cy}},
		{{X: cx, Y: 0}, {X: cx, Y: h}},
	}, clipRect(t.Width, t.Height, r.style.AxisWidth))
	if len(path) > 0 {
		c.Stroke(path, r.style.Axis, r.style.AxisWidth)
	}
}

// clipRect is the canvas grown by the pen width so strokes leaving the canvas keep their ends
// off-screen.
func clipRect(w, h int, pen float64) rect {
	m := max(pen, 1)
	return rect{xmin: -m, ymin: -m, xmax: float64(w) + m, ymax: float64(h) + m}
}

func clipPath(segs [][]Point, r rect) [][]Point {
	var out [][]Point
	for _, s := range segs {
		out = append(out, clipPolyline(s, r)...)
	}
	return out
}

// Render draws eqs onto c with DefaultStyle.
func Render(c Canvas, eqs []equation.Equation, vp Viewport) {
	NewRenderer(DefaultStyle(), nil).Render(c, eqs, vp)
}
