package plot

import "math"

const (
	// DefaultScale is the initial zoom in pixels per math unit.
	DefaultScale = 50.0
	// DefaultMinScale is the zoom-out floor.
	DefaultMinScale = 10.0
)

// Viewport maps math space onto a canvas. Scale is in pixels per unit; the offsets move the
// math origin away from the canvas center, in pixels.
type Viewport struct {
	Scale    float64
	OffsetX  float64
	OffsetY  float64
	MinScale float64

	home float64
}

// NewViewport returns a centered viewport. Non-positive arguments select the defaults and
// scale is raised to minScale if needed.
func NewViewport(scale, minScale float64) Viewport {
	if !(minScale > 0) || math.IsInf(minScale, 0) {
		minScale = DefaultMinScale
	}
	if !(scale > 0) || math.IsInf(scale, 0) {
		scale = DefaultScale
	}
	if scale < minScale {
		scale = minScale
	}
	return Viewport{Scale: scale, MinScale: minScale, home: scale}
}

func DefaultViewport() Viewport { return NewViewport(DefaultScale, DefaultMinScale) }

func (v Viewport) minScale() float64 {
	if v.MinScale > 0 {
		return v.MinScale
	}
	return DefaultMinScale
}

// Zoom changes the scale by delta, never below the minimum scale.
func (v *Viewport) Zoom(delta float64) {
	if math.IsNaN(delta) {
		return
	}
	v.Scale = math.Max(v.minScale(), v.Scale+delta)
	if math.IsInf(v.Scale, 1) {
		v.Scale = math.MaxFloat64
	}
}

// Pan moves the origin by (dx, dy) pixels.
func (v *Viewport) Pan(dx, dy float64) {
	if math.IsNaN(dx) || math.IsNaN(dy) {
		return
	}
	v.OffsetX += dx
	v.OffsetY += dy
}

// Reset restores the initial scale and centers the origin.
func (v *Viewport) Reset() {
	home := v.home
	if !(home > 0) {
		home = DefaultScale
	}
	v.Scale = math.Max(v.minScale(), home)
	v.OffsetX = 0
	v.OffsetY = 0
}

// Transform freezes the viewport for a canvas of the given size.
func (v Viewport) Transform(width, height int) Transform {
	return Transform{
		Width:  width,
		Height: height,
		Scale:  v.Scale,
		cx:     float64(width)/2 + v.OffsetX,
		cy:     float64(height)/2 + v.OffsetY,
	}
}

// Transform converts between pixel and math coordinates for one render pass.
type Transform struct {
	Width, Height int
	Scale         float64

	cx, cy float64
}

// Center returns the pixel position of the math origin.
func (t Transform) Center() (cx, cy float64) { return t.cx, t.cy }

func (t Transform) ToPixel(mx, my float64) (px, py float64) {
	return mx*t.Scale + t.cx, t.cy - my*t.Scale
}

func (t Transform) ToMath(px float64) float64 { return (px - t.cx) / t.Scale }

func (t Transform) ToMathY(py float64) float64 { return (t.cy - py) / t.Scale }

// GridX returns the x positions of the vertical grid lines.
func (t Transform) GridX() []float64 { return GridLines(t.cx, t.Scale, float64(t.Width)) }

// GridY returns the y positions of the horizontal grid lines.
func (t Transform) GridY() []float64 { return GridLines(t.cy, t.Scale, float64(t.Height)) }

// GridLines returns start, start+scale, ... below extent, where start is center modulo scale
// folded into [0, scale). The lines therefore stay on integer math coordinates while panning.
func GridLines(center, scale, extent float64) []float64 {
	if !(scale > 0) || math.IsInf(scale, 0) || math.IsNaN(center) || math.IsInf(center, 0) || !(extent > 0) {
		return nil
	}
	start := math.Mod(center, scale)
	if start < 0 {
		start += scale
	}
	if start >= scale {
		start = 0
	}

	n := int((extent-start)/scale) + 1
	lines := make([]float64, 0, n)
	for i := 0; ; i++ {
		p := start + float64(i)*scale
		if p >= extent {
			break
		}
		lines = append(lines, p)
	}
	return lines
}
