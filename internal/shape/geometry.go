package shape

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/banshee-data/shapecast/internal/stroke"
)

var (
	xAxis = r2.Vec{X: 1}
	yAxis = r2.Vec{Y: 1}
)

// samePoint reports whether a and b coincide within SamePointEpsilonSq.
func samePoint(a, b stroke.Point) bool {
	return r2.Norm2(r2.Sub(b, a)) < SamePointEpsilonSq
}

// angleBetween returns the unsigned angle in degrees between a and b.
// ok is false when either vector has zero length.
func angleBetween(a, b r2.Vec) (deg float64, ok bool) {
	na, nb := r2.Norm2(a), r2.Norm2(b)
	if na < SamePointEpsilonSq || nb < SamePointEpsilonSq {
		return 0, false
	}
	cos := r2.Dot(a, b) / math.Sqrt(na*nb)
	// Rounding can push the cosine just outside [-1, 1].
	cos = math.Max(-1, math.Min(1, cos))
	return math.Acos(cos) * 180 / math.Pi, true
}

// distanceSqToSegment returns the squared distance from p to the closest
// point on the bounded segment a->b.
func distanceSqToSegment(p, a, b stroke.Point) float64 {
	ab := r2.Sub(b, a)
	lenSq := r2.Norm2(ab)
	if lenSq < SamePointEpsilonSq {
		return r2.Norm2(r2.Sub(p, a))
	}
	t := r2.Dot(r2.Sub(p, a), ab) / lenSq
	t = math.Max(0, math.Min(1, t))
	proj := r2.Add(a, r2.Scale(t, ab))
	return r2.Norm2(r2.Sub(p, proj))
}

// nearAxis reports whether dir is within tol degrees of axis in either
// direction along it.
func nearAxis(dir, axis r2.Vec, tol float64) bool {
	angle, ok := angleBetween(dir, axis)
	if !ok {
		return false
	}
	return angle <= tol || angle >= 180-tol
}

// cornerAngle returns the angle at points[i] between the arms towards its
// neighbours. ok is false for a zero-length arm.
func cornerAngle(points []stroke.Point, i int) (float64, bool) {
	cur := points[i]
	return angleBetween(r2.Sub(points[i-1], cur), r2.Sub(points[i+1], cur))
}
