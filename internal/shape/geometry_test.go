package shape

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/banshee-data/shapecast/internal/stroke"
)

func TestAngleBetween(t *testing.T) {
	tests := []struct {
		name string
		a, b r2.Vec
		want float64
		ok   bool
	}{
		{"same direction", r2.Vec{X: 1}, r2.Vec{X: 3}, 0, true},
		{"perpendicular", r2.Vec{X: 1}, r2.Vec{Y: -2}, 90, true},
		{"opposite", r2.Vec{X: 1, Y: 1}, r2.Vec{X: -2, Y: -2}, 180, true},
		{"zero vector", r2.Vec{}, r2.Vec{X: 1}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := angleBetween(tt.a, tt.b)
			assert.Equal(t, tt.ok, ok)
			assert.InDelta(t, tt.want, got, 1e-9)
			assert.False(t, math.IsNaN(got))
		})
	}
}

func TestDistanceSqToSegment(t *testing.T) {
	a, b := stroke.Pt(0, 0), stroke.Pt(4, 0)

	assert.InDelta(t, 4.0, distanceSqToSegment(stroke.Pt(2, 2), a, b), 1e-12)
	// Beyond the end: measured to the endpoint, not the infinite line.
	assert.InDelta(t, 5.0, distanceSqToSegment(stroke.Pt(6, 1), a, b), 1e-12)
	assert.InDelta(t, 1.0, distanceSqToSegment(stroke.Pt(-1, 0), a, b), 1e-12)
	// Degenerate segment collapses to point distance.
	assert.InDelta(t, 2.0, distanceSqToSegment(stroke.Pt(1, 1), a, a), 1e-12)
}

func TestSamePoint(t *testing.T) {
	assert.True(t, samePoint(stroke.Pt(1, 1), stroke.Pt(1, 1)))
	assert.True(t, samePoint(stroke.Pt(1, 1), stroke.Pt(1+1e-8, 1)))
	assert.False(t, samePoint(stroke.Pt(1, 1), stroke.Pt(1.001, 1)))
}
