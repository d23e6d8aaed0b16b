// Package testutil provides stroke fixtures for tests.
//
// The fixture generators produce evenly sampled strokes so classifier and
// capture tests describe shapes by their vertices instead of listing every
// sample by hand.
package testutil

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/banshee-data/shapecast/internal/stroke"
)

// Line returns n evenly spaced samples from a to b inclusive. n below 2 is
// treated as 2.
func Line(a, b stroke.Point, n int) stroke.Stroke {
	if n < 2 {
		n = 2
	}
	out := make(stroke.Stroke, 0, n)
	d := r2.Sub(b, a)
	for i := 0; i < n; i++ {
		t := float64(i) / float64(n-1)
		out = append(out, r2.Add(a, r2.Scale(t, d)))
	}
	return out
}

// Polyline joins consecutive vertices with perSegment samples per edge,
// sharing the vertex between adjacent edges.
func Polyline(perSegment int, vertices ...stroke.Point) stroke.Stroke {
	if len(vertices) == 0 {
		return nil
	}
	if len(vertices) == 1 {
		return stroke.Stroke{vertices[0]}
	}
	var out stroke.Stroke
	for i := 1; i < len(vertices); i++ {
		seg := Line(vertices[i-1], vertices[i], perSegment)
		if i > 1 {
			seg = seg[1:]
		}
		out = append(out, seg...)
	}
	return out
}

// Wobble offsets every interior sample perpendicular to the x axis by
// alternating +amp and -amp, leaving the endpoints untouched.
func Wobble(s stroke.Stroke, amp float64) stroke.Stroke {
	out := s.Clone()
	for i := 1; i < len(out)-1; i++ {
		if i%2 == 0 {
			out[i].Y += amp
		} else {
			out[i].Y -= amp
		}
	}
	return out
}
