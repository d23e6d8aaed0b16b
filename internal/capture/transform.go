package capture

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/banshee-data/shapecast/internal/stroke"
)

// Transform maps pointer coordinates into the world space the classifier
// works in.
type Transform interface {
	ScreenToWorld(p stroke.Point) stroke.Point
}

// IdentityTransform passes points through unchanged.
type IdentityTransform struct{}

// ScreenToWorld returns p.
func (IdentityTransform) ScreenToWorld(p stroke.Point) stroke.Point { return p }

// Viewport is an orthographic camera: a screen origin, a scale and an
// optional Y flip for screens whose Y axis grows downwards.
type Viewport struct {
	Origin        stroke.Point // screen position of world (0,0)
	PixelsPerUnit float64      // values <= 0 are treated as 1
	FlipY         bool
}

// ScreenToWorld converts a screen position to world coordinates.
func (v Viewport) ScreenToWorld(p stroke.Point) stroke.Point {
	scale := v.PixelsPerUnit
	if scale <= 0 {
		scale = 1
	}
	w := r2.Scale(1/scale, r2.Sub(p, v.Origin))
	if v.FlipY {
		w.Y = -w.Y
	}
	return w
}
