package plot

import (
	"iter"
	"math"

	"grapher/graph/equation"
	"grapher/graph/expr"
)

// Sample is the curve value at one pixel column. MathY and PixelY are meaningless when Gap is set.
type Sample struct {
	PixelX int
	MathX  float64
	MathY  float64
	PixelY float64
	Gap    bool
}

// EvalFunc reports f(x), or false when f has no finite value at x.
type EvalFunc func(x float64) (float64, bool)

// Samples yields one sample per pixel column 0..t.Width-1. A nil f yields only gaps.
// When no column falls exactly on x = 0, the column nearest to it is a gap if f fails at 0, so a
// pole at the origin never gets bridged by a segment.
// The sequence is lazy and may be ranged over any number of times.
func Samples(f EvalFunc, t Transform) iter.Seq[Sample] {
	return func(yield func(Sample) bool) {
		pole := originPole(f, t)
		for px := 0; px < t.Width; px++ {
			s := Sample{PixelX: px, MathX: t.ToMath(float64(px))}
			if f == nil || px == pole {
				s.Gap = true
			} else if y, ok := f(s.MathX); !ok || math.IsNaN(y) || math.IsInf(y, 0) {
				s.Gap = true
			} else {
				_, py := t.ToPixel(s.MathX, y)
				if math.IsInf(py, 0) || math.IsNaN(py) {
					s.Gap = true
				} else {
					s.MathY = y
					s.PixelY = py
				}
			}
			if !yield(s) {
				return
			}
		}
	}
}

// originPole returns the column nearest x = 0 when that column misses 0 and f fails there,
// or -1.
func originPole(f EvalFunc, t Transform) int {
	if f == nil {
		return -1
	}
	cx, _ := t.Center()
	if math.IsNaN(cx) || cx < -0.5 || cx >= float64(t.Width)-0.5 {
		return -1
	}
	px := int(math.Round(cx))
	if t.ToMath(float64(px)) == 0 {
		return -1
	}
	if _, ok := f(0); ok {
		return -1
	}
	return px
}

// SampleEquation samples eq for one render pass. The expression is compiled once; an expression
// that does not compile yields only gaps.
func SampleEquation(eq equation.Equation, vp Viewport, width, height int) iter.Seq[Sample] {
	seq, _ := sampleEquation(eq, vp.Transform(width, height))
	return seq
}

func sampleEquation(eq equation.Equation, t Transform) (iter.Seq[Sample], error) {
	f, err := compile(eq.Expression)
	return Samples(f, t), err
}

func compile(src string) (EvalFunc, error) {
	p, err := expr.Compile(src)
	if err != nil {
		return nil, err
	}
	return p.At, nil
}

// Segments splits samples into polylines at every gap.
func Segments(seq iter.Seq[Sample]) [][]Point {
	segs, _ := split(seq)
	return segs
}

func split(seq iter.Seq[Sample]) (segs [][]Point, gaps int) {
	var cur []Point
	for s := range seq {
		if s.Gap {
			gaps++
			if len(cur) > 0 {
				segs = append(segs, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, Point{X: float64(s.PixelX), Y: s.PixelY})
	}
	if len(cur) > 0 {
		segs = append(segs, cur)
	}
	return segs, gaps
}
