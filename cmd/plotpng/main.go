// Command plotpng renders equations to an anti-aliased PNG with the same grid, axes and
// colors as the interactive widget.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"image"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"grapher/graph/equation"
	"grapher/graph/plot"
	"grapher/graph/surface"
	"grapher/internal/logging"
)

type exprList []string

func (l *exprList) String() string { return strings.Join(*l, ", ") }

func (l *exprList) Set(s string) error {
	*l = append(*l, s)
	return nil
}

type options struct {
	width, height int
	scale         float64
	offsetX       float64
	offsetY       float64
	exprs         []string
	legend        bool
}

func main() {
	var (
		exprs    exprList
		outPath  = flag.String("out", "", "Output PNG file.")
		width    = flag.Int("width", 800, "Image width in pixels.")
		height   = flag.Int("height", 600, "Image height in pixels.")
		scale    = flag.Float64("zoom", plot.DefaultScale, "Zoom in pixels per unit.")
		offsetX  = flag.Float64("offset-x", 0, "Horizontal origin offset from the center, in pixels.")
		offsetY  = flag.Float64("offset-y", 0, "Vertical origin offset from the center, in pixels.")
		legend   = flag.Bool("legend", true, "Draw a legend with every expression.")
		logLevel = flag.String("log-level", "warn", "Log level: debug, info, warn or error.")
	)
	flag.Var(&exprs, "expr", "Expression to plot (repeatable).")
	flag.Parse()

	if *outPath == "" || len(exprs) == 0 {
		fatalf("usage: plotpng -out plot.png -expr 'Math.sin(x)' [-expr ...] [-width 800] [-height 600] [-zoom 50]")
	}
	if *width <= 0 || *height <= 0 {
		fatalf("size out of range: %dx%d", *width, *height)
	}

	lvl, err := logging.ParseLevel(*logLevel)
	if err != nil {
		fatalf("%v", err)
	}
	log := logging.New(stderrLogger{}, lvl).Named("plotpng")
	defer func() { _ = log.Sync() }()

	f, err := os.Create(*outPath)
	if err != nil {
		fatalf("create: %v", err)
	}
	bw := bufio.NewWriter(f)

	err = render(bw, options{
		width:   *width,
		height:  *height,
		scale:   *scale,
		offsetX: *offsetX,
		offsetY: *offsetY,
		exprs:   exprs,
		legend:  *legend,
	}, log)
	if err == nil {
		err = bw.Flush()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		fatalf("render: %v", err)
	}
	log.Info("wrote", zap.String("path", *outPath))
}

// render draws every expression and encodes the image as PNG to w. Expressions that do not
// compile are logged and drawn as empty curves.
func render(w io.Writer, opts options, log *zap.Logger) error {
	set := equation.NewSet(nil)
	for _, src := range opts.exprs {
		eq, err := set.Add(src)
		if err != nil {
			return fmt.Errorf("expr %q: %w", src, err)
		}
		log.Debug("equation", zap.String("id", eq.ID), zap.String("expr", eq.Expression))
	}

	vp := plot.NewViewport(opts.scale, 0)
	vp.Pan(opts.offsetX, opts.offsetY)

	im := surface.NewImage(opts.width, opts.height)
	defer func() { _ = im.Close() }()

	r := plot.NewRenderer(plot.DefaultStyle(), log)
	st := r.Render(im, set.Snapshot(), vp)
	log.Info("rendered",
		zap.Int("equations", st.Equations),
		zap.Int("segments", st.Segments),
		zap.Int("gaps", st.Gaps),
	)

	if opts.legend {
		drawLegend(im, set.Snapshot(), r.Style())
	}
	return im.EncodePNG(w)
}

// drawLegend lists the equations in the top-left corner, one swatch and label per line.
func drawLegend(im *surface.Image, eqs []equation.Equation, style plot.Style) {
	if len(eqs) == 0 {
		return
	}
	const (
		pad    = 6
		swatch = 9
	)
	labels := make([]string, len(eqs))
	textW := 0
	for i, eq := range eqs {
		labels[i] = "y = " + eq.Expression
		textW = max(textW, surface.TextWidth(labels[i]))
	}

	box := image.Rect(pad, pad, pad+pad+swatch+pad+textW+pad, pad+pad+len(eqs)*surface.LineHeight+pad)
	im.FillRect(box, style.Background)
	im.FillRect(image.Rect(box.Min.X, box.Max.Y-1, box.Max.X, box.Max.Y), style.Grid)

	y := box.Min.Y + pad
	for i, eq := range eqs {
		sy := y + (surface.LineHeight-swatch)/2
		im.FillRect(image.Rect(box.Min.X+pad, sy, box.Min.X+pad+swatch, sy+swatch), eq.Color)
		im.DrawText(labels[i], box.Min.X+pad+swatch+pad, y+surface.Ascent, eq.Color)
		y += surface.LineHeight
	}
}

type stderrLogger struct{}

func (stderrLogger) WriteLineString(s string) { _, _ = fmt.Fprintln(os.Stderr, s) }

func (stderrLogger) WriteLineBytes(b []byte) {
	_, _ = os.Stderr.Write(b)
	_, _ = os.Stderr.Write([]byte{'\n'})
}

func fatalf(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(2)
}
