package plot

import (
	"image/color"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"grapher/graph/equation"
)

type canvasOp struct {
	Kind  string
	Path  [][]Point
	Color color.RGBA
	Width float64
}

type recordCanvas struct {
	w, h int
	ops  []canvasOp
}

func (c *recordCanvas) Size() (int, int) { return c.w, c.h }

func (c *recordCanvas) Clear(col color.RGBA) {
	c.ops = append(c.ops, canvasOp{Kind: "clear", Color: col})
}

func (c *recordCanvas) Stroke(path [][]Point, col color.RGBA, width float64) {
	c.ops = append(c.ops, canvasOp{Kind: "stroke", Path: path, Color: col, Width: width})
}

func TestRender_StepOrder(t *testing.T) {
	st := DefaultStyle()
	red := color.RGBA{R: 0xff, A: 0xff}
	blue := color.RGBA{B: 0xff, A: 0xff}
	eqs := []equation.Equation{
		{ID: "a", Expression: "x", Color: red, Visible: true},
		{ID: "b", Expression: "x*x", Color: color.RGBA{G: 0xff, A: 0xff}, Visible: false},
		{ID: "c", Expression: "-x", Color: blue, Visible: true},
	}

	c := &recordCanvas{w: 200, h: 100}
	stats := NewRenderer(st, nil).Render(c, eqs, DefaultViewport())

	var got []color.RGBA
	for _, op := range c.ops {
		got = append(got, op.Color)
	}
	want := []color.RGBA{st.Background, st.Grid, st.Axis, red, blue}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("op colors (-want +got):\n%s", diff)
	}
	if c.ops[0].Kind != "clear" {
		t.Fatalf("first op=%q want clear", c.ops[0].Kind)
	}
	if stats.Equations != 2 {
		t.Fatalf("stats.Equations=%d want 2", stats.Equations)
	}
}

func TestRender_GridVerticalThenHorizontal(t *testing.T) {
	c := &recordCanvas{w: 200, h: 100}
	Render(c, nil, DefaultViewport())

	grid := c.ops[1].Path
	want := [][]Point{
		{{X: 0, Y: 0}, {X: 0, Y: 100}},
		{{X: 50, Y: 0}, {X: 50, Y: 100}},
		{{X: 100, Y: 0}, {X: 100, Y: 100}},
		{{X: 150, Y: 0}, {X: 150, Y: 100}},
		{{X: 0, Y: 0}, {X: 200, Y: 0}},
		{{X: 0, Y: 50}, {X: 200, Y: 50}},
	}
	if diff := cmp.Diff(want, grid); diff != "" {
		t.Fatalf("grid (-want +got):\n%s", diff)
	}

	axes := c.ops[2].Path
	wantAxes := [][]Point{
		{{X: 0, Y: 50}, {X: 200, Y: 50}},
		{{X: 100, Y: 0}, {X: 100, Y: 100}},
	}
	if diff := cmp.Diff(wantAxes, axes); diff != "" {
		t.Fatalf("axes (-want +got):\n%s", diff)
	}
}

func TestRender_Idempotent(t *testing.T) {
	eqs := []equation.Equation{
		{ID: "a", Expression: "Math.tan(x)", Color: color.RGBA{R: 1, A: 0xff}, Visible: true},
		{ID: "b", Expression: "1/x", Color: color.RGBA{G: 1, A: 0xff}, Visible: true},
	}
	vp := DefaultViewport()
	vp.Pan(17, -9)
	vp.Zoom(13)

	c1 := &recordCanvas{w: 321, h: 200}
	c2 := &recordCanvas{w: 321, h: 200}
	r := NewRenderer(DefaultStyle(), nil)
	r.Render(c1, eqs, vp)
	r.Render(c2, eqs, vp)
	if diff := cmp.Diff(c1.ops, c2.ops); diff != "" {
		t.Fatalf("second render differs (-first +second):\n%s", diff)
	}
}

func TestRender_ReciprocalOddWidthKeepsGap(t *testing.T) {
	const w = 321
	c := &recordCanvas{w: w, h: 200}
	st := NewRenderer(DefaultStyle(), nil).Render(c, []equation.Equation{
		{ID: "r", Expression: "1/x", Color: color.RGBA{B: 1, A: 0xff}, Visible: true},
	}, DefaultViewport())

	if st.Gaps != 1 {
		t.Fatalf("gaps=%d want 1", st.Gaps)
	}
	col := math.Round(float64(w) / 2)
	for _, op := range c.ops {
		if op.Kind != "stroke" || op.Color.B != 1 {
			continue
		}
		for _, seg := range op.Path {
			lo, hi := math.Inf(1), math.Inf(-1)
			for _, p := range seg {
				lo, hi = math.Min(lo, p.X), math.Max(hi, p.X)
			}
			if lo < col && hi > col {
				t.Fatalf("segment [%v,%v] crosses column %v", lo, hi, col)
			}
		}
	}
}

func TestRender_InvalidExpressionDrawsNothing(t *testing.T) {
	eqs := []equation.Equation{
		{ID: "bad", Expression: "((", Color: color.RGBA{R: 9, A: 0xff}, Visible: true},
		{ID: "good", Expression: "x", Color: color.RGBA{G: 9, A: 0xff}, Visible: true},
	}
	c := &recordCanvas{w: 100, h: 100}
	stats := NewRenderer(DefaultStyle(), nil).Render(c, eqs, DefaultViewport())

	last := c.ops[len(c.ops)-1]
	if last.Color != eqs[1].Color {
		t.Fatalf("last stroke color=%v want %v", last.Color, eqs[1].Color)
	}
	for _, op := range c.ops {
		if op.Color == eqs[0].Color {
			t.Fatalf("invalid expression was stroked")
		}
	}
	if stats.Gaps != 100 {
		t.Fatalf("stats.Gaps=%d want 100", stats.Gaps)
	}
}

func TestRender_ClipsToCanvas(t *testing.T) {
	eqs := []equation.Equation{
		{ID: "steep", Expression: "Math.exp(x*40)", Color: color.RGBA{R: 3, A: 0xff}, Visible: true},
		{ID: "tan", Expression: "tan(x)", Color: color.RGBA{R: 4, A: 0xff}, Visible: true},
	}
	c := &recordCanvas{w: 300, h: 200}
	NewRenderer(DefaultStyle(), nil).Render(c, eqs, DefaultViewport())

	r := clipRect(300, 200, DefaultStyle().CurveWidth)
	for _, op := range c.ops[3:] {
		for _, seg := range op.Path {
			for _, p := range seg {
				if !r.contains(p) || math.IsNaN(p.X) || math.IsNaN(p.Y) {
					t.Fatalf("point %v outside %+v", p, r)
				}
			}
		}
	}
}

func TestRender_PannedAxesOffCanvas(t *testing.T) {
	vp := DefaultViewport()
	vp.Pan(10000, 10000)
	c := &recordCanvas{w: 100, h: 100}
	NewRenderer(DefaultStyle(), nil).Render(c, nil, vp)
	for _, op := range c.ops {
		if op.Color == DefaultStyle().Axis {
			t.Fatalf("axes stroked while off canvas: %v", op.Path)
		}
	}
}

func TestRender_EmptyCanvas(t *testing.T) {
	c := &recordCanvas{}
	stats := NewRenderer(DefaultStyle(), nil).Render(c, []equation.Equation{{Expression: "x", Visible: true}}, DefaultViewport())
	if len(c.ops) != 1 || c.ops[0].Kind != "clear" {
		t.Fatalf("ops=%+v", c.ops)
	}
	if stats != (Stats{}) {
		t.Fatalf("stats=%+v", stats)
	}
}

func TestRender_LogsStats(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	r := NewRenderer(DefaultStyle(), zap.New(core))
	r.Render(&recordCanvas{w: 10, h: 10}, []equation.Equation{
		{ID: "e1", Expression: "nope(x)", Visible: true},
	}, DefaultViewport())

	if n := logs.FilterMessage("expression rejected").Len(); n != 1 {
		t.Fatalf("rejected logs=%d want 1", n)
	}
	entries := logs.FilterMessage("render").All()
	if len(entries) != 1 {
		t.Fatalf("render logs=%d want 1", len(entries))
	}
	if got := entries[0].ContextMap()["gaps"]; got != int64(10) {
		t.Fatalf("gaps field=%v want 10", got)
	}
}
