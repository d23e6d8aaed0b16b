package stroke

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Point is a 2D coordinate in world space.
type Point = r2.Vec

// Pt is a convenience constructor for a Point.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Stroke is the ordered point sequence captured during one gesture.
type Stroke []Point

// First returns the first point, or the zero point for an empty stroke.
func (s Stroke) First() Point {
	if len(s) == 0 {
		return Point{}
	}
	return s[0]
}

// Last returns the last point, or the zero point for an empty stroke.
func (s Stroke) Last() Point {
	if len(s) == 0 {
		return Point{}
	}
	return s[len(s)-1]
}

// PathLength returns the summed length of consecutive segments.
func (s Stroke) PathLength() float64 {
	var d float64
	for i := 1; i < len(s); i++ {
		d += r2.Norm(r2.Sub(s[i], s[i-1]))
	}
	return d
}

// Bounds returns the axis-aligned bounding box of the stroke. An empty
// stroke yields a zero box.
func (s Stroke) Bounds() r2.Box {
	if len(s) == 0 {
		return r2.Box{}
	}
	b := r2.Box{
		Min: Point{X: math.Inf(1), Y: math.Inf(1)},
		Max: Point{X: math.Inf(-1), Y: math.Inf(-1)},
	}
	for _, p := range s {
		b.Min.X = math.Min(b.Min.X, p.X)
		b.Min.Y = math.Min(b.Min.Y, p.Y)
		b.Max.X = math.Max(b.Max.X, p.X)
		b.Max.Y = math.Max(b.Max.Y, p.Y)
	}
	return b
}

// Clone returns an independent copy of the stroke.
func (s Stroke) Clone() Stroke {
	if s == nil {
		return nil
	}
	out := make(Stroke, len(s))
	copy(out, s)
	return out
}
