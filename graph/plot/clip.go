package plot

import "math"

// farLimit bounds coordinates before clipping so that differences of huge projected values stay
// finite. Far outside any canvas the change of slope is below a pixel.
const farLimit = 1 << 24

// rect is an axis-aligned clip rectangle in pixel space (inclusive bounds).
type rect struct {
	xmin, ymin, xmax, ymax float64
}

func (r rect) contains(p Point) bool {
	return p.X >= r.xmin && p.X <= r.xmax && p.Y >= r.ymin && p.Y <= r.ymax
}

// ClipLine clips the segment a-b to the rectangle [xmin,xmax]x[ymin,ymax]. Any finite
// coordinates are accepted; a segment with a NaN coordinate is rejected.
func ClipLine(a, b Point, xmin, ymin, xmax, ymax float64) (Point, Point, bool) {
	return clipLine(bound(a), bound(b), rect{xmin: xmin, ymin: ymin, xmax: xmax, ymax: ymax})
}

// clipLine clips the segment a-b to r (Liang–Barsky).
func clipLine(a, b Point, r rect) (ca, cb Point, ok bool) {
	if math.IsNaN(a.X) || math.IsNaN(a.Y) || math.IsNaN(b.X) || math.IsNaN(b.Y) {
		return Point{}, Point{}, false
	}
	dx := b.X - a.X
	dy := b.Y - a.Y
	u1 := 0.0
	u2 := 1.0

	p := [4]float64{-dx, dx, -dy, dy}
	q := [4]float64{a.X - r.xmin, r.xmax - a.X, a.Y - r.ymin, r.ymax - a.Y}
	for i := 0; i < 4; i++ {
		if p[i] == 0 {
			if q[i] < 0 {
				return Point{}, Point{}, false
			}
			continue
		}
		t := q[i] / p[i]
		if p[i] < 0 {
			if t > u2 {
				return Point{}, Point{}, false
			}
			if t > u1 {
				u1 = t
			}
		} else {
			if t < u1 {
				return Point{}, Point{}, false
			}
			if t < u2 {
				u2 = t
			}
		}
	}

	ca, cb = a, b
	if u1 > 0 {
		ca = r.clamp(Point{X: a.X + u1*dx, Y: a.Y + u1*dy})
	}
	if u2 < 1 {
		cb = r.clamp(Point{X: a.X + u2*dx, Y: a.Y + u2*dy})
	}
	return ca, cb, true
}

func bound(p Point) Point {
	p.X = min(max(p.X, -farLimit), farLimit)
	p.Y = min(max(p.Y, -farLimit), farLimit)
	return p
}

func (r rect) clamp(p Point) Point {
	p.X = min(max(p.X, r.xmin), r.xmax)
	p.Y = min(max(p.Y, r.ymin), r.ymax)
	return p
}

// clipPolyline clips a polyline to r. Parts that leave and re-enter the rectangle come back as
// separate polylines; a single point is kept only when it lies inside r.
func clipPolyline(pts []Point, r rect) [][]Point {
	if len(pts) == 1 {
		if p := bound(pts[0]); r.contains(p) {
			return [][]Point{{p}}
		}
		return nil
	}

	var out [][]Point
	var cur []Point
	for i := 1; i < len(pts); i++ {
		end := bound(pts[i])
		a, b, ok := clipLine(bound(pts[i-1]), end, r)
		if !ok {
			if len(cur) > 0 {
				out = append(out, cur)
				cur = nil
			}
			continue
		}
		if len(cur) == 0 || cur[len(cur)-1] != a {
			if len(cur) > 0 {
				out = append(out, cur)
			}
			cur = []Point{a}
		}
		cur = append(cur, b)
		if b != end {
			out = append(out, cur)
			cur = nil
		}
	}
	if len(cur) > 0 {
		out = append(out, cur)
	}
	return out
}
