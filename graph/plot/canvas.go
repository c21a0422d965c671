package plot

import "image/color"

// Point is a position in pixel space.
type Point struct {
	X, Y float64
}

// Canvas is a drawing surface owned by the host.
type Canvas interface {
	// Size reports the current surface dimensions in pixels.
	Size() (width, height int)
	// Clear fills the whole surface.
	Clear(c color.RGBA)
	// Stroke draws every polyline in path with a pen of the given width.
	// A polyline with a single point is drawn as a dot.
	Stroke(path [][]Point, c color.RGBA, width float64)
}
