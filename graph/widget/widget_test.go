package widget

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"grapher/graph/equation"
	"grapher/graph/expr"
	"grapher/graph/surface"
	"grapher/hal"
)

type memFramebuffer struct {
	w, h     int
	buf      []byte
	presents int
}

func newMemFramebuffer(w, h int) *memFramebuffer {
	return &memFramebuffer{w: w, h: h, buf: make([]byte, w*h*2)}
}

func (f *memFramebuffer) Width() int              { return f.w }
func (f *memFramebuffer) Height() int             { return f.h }
func (f *memFramebuffer) Format() hal.PixelFormat { return hal.PixelFormatRGB565 }
func (f *memFramebuffer) StrideBytes() int        { return f.w * 2 }
func (f *memFramebuffer) Buffer() []byte          { return f.buf }
func (f *memFramebuffer) ClearRGB(r, g, b uint8)  {}
func (f *memFramebuffer) Present() error          { f.presents++; return nil }

func (f *memFramebuffer) resize(w, h int) {
	f.w, f.h = w, h
	f.buf = make([]byte, w*h*2)
}

func newTestWidget(t *testing.T, w, h int) (*Widget, *memFramebuffer) {
	t.Helper()
	fb := newMemFramebuffer(w, h)
	return New(fb, DefaultConfig(), nil), fb
}

func typeString(w *Widget, s string) {
	for _, r := range s {
		w.HandleKey(hal.KeyEvent{Press: true, Rune: r})
	}
}

func press(w *Widget, code hal.KeyCode) {
	w.HandleKey(hal.KeyEvent{Code: code, Press: true})
}

func click(w *Widget, r image.Rectangle) {
	c := r.Min.Add(r.Max).Div(2)
	w.HandlePointer(hal.PointerEvent{Kind: hal.PointerDown, X: c.X, Y: c.Y, Button: hal.ButtonLeft})
	w.HandlePointer(hal.PointerEvent{Kind: hal.PointerUp, X: c.X, Y: c.Y, Button: hal.ButtonLeft})
}

// roundTrip returns c as it reads back from an RGB565 framebuffer.
func roundTrip(c color.RGBA) color.RGBA {
	d := surface.NewDisplay(newMemFramebuffer(1, 1))
	d.SetPixel(0, 0, c)
	return d.Pixel(0, 0)
}

func TestAdd_RendersOncePerMutation(t *testing.T) {
	w, fb := newTestWidget(t, 320, 240)
	if w.Renders() != 0 {
		t.Fatalf("Renders()=%d before any change", w.Renders())
	}

	eq, err := w.Add("  Math.sin(x) ")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if eq.Expression != "Math.sin(x)" || !eq.Visible || eq.Color != equation.DefaultPalette()[0] {
		t.Fatalf("Add()=%+v", eq)
	}
	if w.Renders() != 1 || fb.presents != 1 {
		t.Fatalf("Renders()=%d presents=%d want 1", w.Renders(), fb.presents)
	}
	if st := w.Stats(); st.Equations != 1 || st.Segments == 0 {
		t.Fatalf("Stats()=%+v", st)
	}

	w.Zoom(10)
	w.Pan(5, 5)
	w.Toggle(eq.ID)
	w.Remove(eq.ID)
	if w.Renders() != 5 {
		t.Fatalf("Renders()=%d want 5", w.Renders())
	}
}

func TestAdd_InvalidExpressionIsKept(t *testing.T) {
	w, _ := newTestWidget(t, 200, 160)
	eq, err := w.Add("sin(")
	if !errors.Is(err, expr.ErrParse) {
		t.Fatalf("Add(sin() err=%v want ErrParse", err)
	}
	if got := len(w.Equations()); got != 1 || w.Equations()[0].ID != eq.ID {
		t.Fatalf("Equations()=%+v", w.Equations())
	}
	if st := w.Stats(); st.Segments != 0 || st.Gaps == 0 {
		t.Fatalf("Stats()=%+v want only gaps", st)
	}
	if !w.msgErr || w.Message() == "" {
		t.Fatalf("Message()=%q msgErr=%v", w.Message(), w.msgErr)
	}
}

func TestAdd_Blank(t *testing.T) {
	w, _ := newTestWidget(t, 200, 160)
	if _, err := w.Add("   "); !errors.Is(err, equation.ErrEmptyExpression) {
		t.Fatalf("err=%v", err)
	}
	if len(w.Equations()) != 0 {
		t.Fatalf("blank input was added")
	}
}

func TestInput_TypeAndSubmit(t *testing.T) {
	w, _ := newTestWidget(t, 320, 240)
	w.Render()

	typeString(w, "x^2")
	if w.Input() != "x^2" {
		t.Fatalf("Input()=%q", w.Input())
	}
	if w.Renders() != 1 {
		t.Fatalf("typing caused a full render: %d", w.Renders())
	}

	press(w, hal.KeyEnter)
	eqs := w.Equations()
	if len(eqs) != 1 || eqs[0].Expression != "x^2" {
		t.Fatalf("Equations()=%+v", eqs)
	}
	if w.Input() != "" || w.cursor != 0 {
		t.Fatalf("input not cleared: %q cursor=%d", w.Input(), w.cursor)
	}
	if w.Renders() != 2 {
		t.Fatalf("Renders()=%d want 2", w.Renders())
	}
}

func TestInput_Editing(t *testing.T) {
	w, _ := newTestWidget(t, 320, 240)

	typeString(w, "abc")
	press(w, hal.KeyLeft)
	press(w, hal.KeyLeft)
	press(w, hal.KeyBackspace)
	if w.Input() != "bc" || w.cursor != 0 {
		t.Fatalf("after backspace %q cursor=%d", w.Input(), w.cursor)
	}
	press(w, hal.KeyDelete)
	if w.Input() != "c" {
		t.Fatalf("after delete %q", w.Input())
	}
	press(w, hal.KeyEnd)
	typeString(w, "d e")
	if w.Input() != "cd e" {
		t.Fatalf("after insert %q", w.Input())
	}
	w.HandleKey(hal.KeyEvent{Press: true, Rune: 0x17})
	if w.Input() != "cd " {
		t.Fatalf("after ^W %q", w.Input())
	}
	press(w, hal.KeyHome)
	typeString(w, ">")
	if w.Input() != ">cd " || w.cursor != 1 {
		t.Fatalf("after home insert %q cursor=%d", w.Input(), w.cursor)
	}
	w.HandleKey(hal.KeyEvent{Press: true, Rune: 0x05})
	w.HandleKey(hal.KeyEvent{Press: true, Rune: 0x15})
	if w.Input() != "" {
		t.Fatalf("after ^E ^U %q", w.Input())
	}

	w.HandleKey(hal.KeyEvent{Code: hal.KeyLeft})
	w.HandleKey(hal.KeyEvent{Press: true, Rune: '\t'})
	if w.Input() != "" {
		t.Fatalf("releases or control runes edited the input: %q", w.Input())
	}
}

func TestPlotFocus_Keys(t *testing.T) {
	w, _ := newTestWidget(t, 320, 240)
	press(w, hal.KeyEscape)
	if w.focus != focusPlot {
		t.Fatalf("focus=%v want plot", w.focus)
	}

	press(w, hal.KeyLeft)
	press(w, hal.KeyUp)
	press(w, hal.KeyUp)
	if vp := w.Viewport(); vp.OffsetX != 20 || vp.OffsetY != 40 {
		t.Fatalf("offset=(%v,%v) want (20,40)", vp.OffsetX, vp.OffsetY)
	}
	press(w, hal.KeyRight)
	press(w, hal.KeyDown)
	if vp := w.Viewport(); vp.OffsetX != 0 || vp.OffsetY != 20 {
		t.Fatalf("offset=(%v,%v) want (0,20)", vp.OffsetX, vp.OffsetY)
	}

	typeString(w, "+")
	if got := w.Viewport().Scale; got != 60 {
		t.Fatalf("scale=%v want 60", got)
	}
	typeString(w, "--------")
	if got := w.Viewport().Scale; got != 10 {
		t.Fatalf("scale=%v want floor 10", got)
	}

	typeString(w, "0")
	if vp := w.Viewport(); vp.Scale != 50 || vp.OffsetX != 0 || vp.OffsetY != 0 {
		t.Fatalf("after reset %+v", vp)
	}
	if w.Input() != "" {
		t.Fatalf("plot keys edited the input: %q", w.Input())
	}

	press(w, hal.KeyEnter)
	if w.focus != focusInput {
		t.Fatalf("focus=%v want input", w.focus)
	}
}

func TestSelection_ToggleAndRemove(t *testing.T) {
	w, _ := newTestWidget(t, 320, 240)
	a, _ := w.Add("x")
	b, _ := w.Add("-x")

	press(w, hal.KeyF1)
	if w.Message() == "" || !w.Equations()[0].Visible {
		t.Fatalf("F1 without selection changed state")
	}

	press(w, hal.KeyTab)
	if eq, ok := w.Selected(); !ok || eq.ID != a.ID {
		t.Fatalf("Selected()=%+v,%v want %s", eq, ok, a.ID)
	}
	press(w, hal.KeyF1)
	if w.Equations()[0].Visible {
		t.Fatalf("F1 did not hide %s", a.ID)
	}
	if st := w.Stats(); st.Equations != 1 {
		t.Fatalf("Stats().Equations=%d want 1", st.Equations)
	}

	press(w, hal.KeyF2)
	if eq, ok := w.Selected(); !ok || eq.ID != b.ID {
		t.Fatalf("after remove Selected()=%+v,%v want %s", eq, ok, b.ID)
	}

	press(w, hal.KeyEscape)
	typeString(w, "x")
	if _, ok := w.Selected(); ok || len(w.Equations()) != 0 {
		t.Fatalf("x in plot focus did not remove the last equation: %+v", w.Equations())
	}
}

func TestRemove_KeepsSelection(t *testing.T) {
	w, _ := newTestWidget(t, 320, 240)
	a, _ := w.Add("1")
	b, _ := w.Add("2")
	c, _ := w.Add("3")
	w.selected = 2

	w.Remove(a.ID)
	if eq, _ := w.Selected(); eq.ID != c.ID {
		t.Fatalf("Selected()=%s want %s", eq.ID, c.ID)
	}
	w.Remove(c.ID)
	if eq, _ := w.Selected(); eq.ID != b.ID {
		t.Fatalf("Selected()=%s want %s", eq.ID, b.ID)
	}
	if w.Remove("missing") {
		t.Fatalf("Remove(missing) reported success")
	}
}

func TestPointer_Wheel(t *testing.T) {
	w, _ := newTestWidget(t, 320, 240)
	w.Render()
	c := w.lay.plot.Min.Add(w.lay.plot.Max).Div(2)

	w.HandlePointer(hal.PointerEvent{Kind: hal.PointerWheel, X: c.X, Y: c.Y, WheelY: 1})
	w.HandlePointer(hal.PointerEvent{Kind: hal.PointerWheel, X: c.X, Y: c.Y, WheelY: 0.25})
	if got := w.Viewport().Scale; got != 70 {
		t.Fatalf("scale=%v want 70", got)
	}
	w.HandlePointer(hal.PointerEvent{Kind: hal.PointerWheel, X: c.X, Y: c.Y, WheelY: -2})
	if got := w.Viewport().Scale; got != 50 {
		t.Fatalf("scale=%v want 50", got)
	}

	w.HandlePointer(hal.PointerEvent{Kind: hal.PointerWheel, X: 1, Y: 1, WheelY: 1})
	if got := w.Viewport().Scale; got != 50 {
		t.Fatalf("wheel over the header zoomed: %v", got)
	}
}

func TestPointer_DragPans(t *testing.T) {
	w, _ := newTestWidget(t, 320, 240)
	w.Render()
	p := w.lay.plot.Min.Add(image.Pt(40, 40))

	w.HandlePointer(hal.PointerEvent{Kind: hal.PointerDown, X: p.X, Y: p.Y, Button: hal.ButtonLeft})
	if w.focus != focusPlot {
		t.Fatalf("click in plot did not focus it")
	}
	w.HandlePointer(hal.PointerEvent{Kind: hal.PointerMove, X: p.X + 10, Y: p.Y - 5})
	w.HandlePointer(hal.PointerEvent{Kind: hal.PointerMove, X: p.X + 12, Y: p.Y - 5})
	w.HandlePointer(hal.PointerEvent{Kind: hal.PointerUp, X: p.X + 12, Y: p.Y - 5, Button: hal.ButtonLeft})
	w.HandlePointer(hal.PointerEvent{Kind: hal.PointerMove, X: p.X + 50, Y: p.Y})

	if vp := w.Viewport(); vp.OffsetX != 12 || vp.OffsetY != -5 {
		t.Fatalf("offset=(%v,%v) want (12,-5)", vp.OffsetX, vp.OffsetY)
	}
}

func TestPointer_HoverRedrawsStatusOnly(t *testing.T) {
	w, fb := newTestWidget(t, 320, 240)
	w.Render()
	p := w.lay.plot.Min.Add(image.Pt(3, 3))
	w.HandlePointer(hal.PointerEvent{Kind: hal.PointerMove, X: p.X, Y: p.Y})
	if w.Renders() != 1 || fb.presents != 2 {
		t.Fatalf("Renders()=%d presents=%d", w.Renders(), fb.presents)
	}
	if !w.hovering {
		t.Fatalf("hover not tracked")
	}
}

func TestPointer_Buttons(t *testing.T) {
	w, _ := newTestWidget(t, 320, 240)
	w.SetInput("x/2")
	click(w, w.lay.add)
	if eqs := w.Equations(); len(eqs) != 1 || eqs[0].Expression != "x/2" {
		t.Fatalf("Add button: %+v", eqs)
	}

	click(w, w.lay.zoomIn)
	if got := w.Viewport().Scale; got != 60 {
		t.Fatalf("zoom in button: scale=%v", got)
	}
	click(w, w.lay.zoomOut)
	click(w, w.lay.zoomOut)
	if got := w.Viewport().Scale; got != 40 {
		t.Fatalf("zoom out button: scale=%v", got)
	}

	click(w, w.lay.chips[0].swatch)
	if w.Equations()[0].Visible {
		t.Fatalf("swatch click did not hide")
	}
	click(w, w.lay.chips[0].swatch)
	if !w.Equations()[0].Visible {
		t.Fatalf("swatch click did not show")
	}

	chip := w.lay.chips[0]
	click(w, image.Rect(chip.swatch.Max.X+2, chip.box.Min.Y, chip.close.Min.X-1, chip.box.Max.Y))
	if _, ok := w.Selected(); !ok {
		t.Fatalf("label click did not select")
	}

	click(w, w.lay.chips[0].close)
	if len(w.Equations()) != 0 {
		t.Fatalf("close click did not remove: %+v", w.Equations())
	}
}

func TestResize(t *testing.T) {
	w, fb := newTestWidget(t, 320, 240)
	w.Render()
	fb.resize(400, 300)
	if !w.SizeChanged() {
		t.Fatalf("SizeChanged()=false after resize")
	}
	w.Resize()
	if w.SizeChanged() || w.lay.plot.Dx() != 400 {
		t.Fatalf("after Resize plot=%v", w.lay.plot)
	}
	if w.Renders() != 2 {
		t.Fatalf("Renders()=%d want 2", w.Renders())
	}
}

func TestRender_Pixels(t *testing.T) {
	w, fb := newTestWidget(t, 320, 240)
	w.Render()
	d := surface.NewDisplay(fb)
	style := w.cfg.Style
	p := w.lay.plot

	if got, want := d.Pixel(p.Min.X+p.Dx()/2, p.Min.Y+5), roundTrip(style.Axis); got != want {
		t.Fatalf("y axis pixel=%v want %v", got, want)
	}
	if got, want := d.Pixel(p.Min.X+p.Dx()/2+13, p.Min.Y+p.Dy()/2+13), roundTrip(style.Background); got != want {
		t.Fatalf("background pixel=%v want %v", got, want)
	}
	if got, want := d.Pixel(w.lay.add.Min.X+1, w.lay.add.Min.Y+1), roundTrip(colorButton); got != want {
		t.Fatalf("add button pixel=%v want %v", got, want)
	}
}

func TestRender_TinyFramebuffer(t *testing.T) {
	for _, size := range []image.Point{{0, 0}, {1, 1}, {20, 10}, {64, 40}} {
		w, _ := newTestWidget(t, size.X, size.Y)
		w.Add("x")
		w.Zoom(10)
		w.HandlePointer(hal.PointerEvent{Kind: hal.PointerWheel, X: 1, Y: 1, WheelY: 1})
	}
}

func TestLogging(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	w := New(newMemFramebuffer(160, 120), DefaultConfig(), zap.New(core))
	eq, _ := w.Add("x")
	w.Add("foo(x)")
	w.Remove(eq.ID)

	var got []string
	for _, e := range logs.FilterMessageSnippet("equation").All() {
		got = append(got, e.Level.String()+" "+e.Message)
	}
	want := []string{"info equation added", "warn equation does not compile", "info equation removed"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("logs (-want +got):\n%s", diff)
	}
}

func TestTruncate(t *testing.T) {
	cases := []struct {
		in   string
		n    int
		want string
	}{
		{"Math.sin(x)", 20, "Math.sin(x)"},
		{"Math.sin(x)", 8, "Math...."},
		{"abcdef", 3, "abc"},
		{"abc", 0, ""},
	}
	for _, tc := range cases {
		if got := truncate(tc.in, tc.n); got != tc.want {
			t.Fatalf("truncate(%q,%d) got=%q want=%q", tc.in, tc.n, got, tc.want)
		}
	}
}
