package shape

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/banshee-data/shapecast/internal/monitoring"
	"github.com/banshee-data/shapecast/internal/stroke"
)

var logf = monitoring.Tagged("shape")

// ShapeClassifier abstracts the stroke classifier so capture sessions can be
// driven by alternative rule sets in tests.
type ShapeClassifier interface {
	// Classify maps a point sequence to a label. It must accept any length.
	Classify(points []stroke.Point) Label

	// GetParams returns the current thresholds.
	GetParams() Params

	// SetParams replaces the thresholds.
	SetParams(params Params)
}

// Features holds the measurements behind a classification.
type Features struct {
	PointCount   int
	Closed       bool    // first and last points coincide
	Straight     bool    // passed the straightness test
	MaxDeviation float64 // largest interior distance from the chord
	ChordLength  float64
	AngleFromX   float64 // chord angle to +X in degrees; 0 when Closed
	AngleFromY   float64 // chord angle to +Y in degrees; 0 when Closed
	Corners      []int   // interior indices counted as corners
}

// Result is a label together with the features used to reach it.
type Result struct {
	Label    Label
	Model    string
	Features Features
}

// Classifier performs rule-based classification of strokes. A Classifier
// holds no per-call state; Classify is safe to call repeatedly and returns
// the same label for the same input. SetParams must not race with Classify.
type Classifier struct {
	params Params
}

// NewClassifier creates a classifier with the default thresholds.
func NewClassifier() *Classifier {
	return &Classifier{params: DefaultParams()}
}

// NewClassifierWithParams creates a classifier with custom thresholds.
// Params that fail Validate are replaced by DefaultParams and logged.
func NewClassifierWithParams(p Params) *Classifier {
	if err := p.Validate(); err != nil {
		logf("invalid params, using defaults: %v", err)
		p = DefaultParams()
	}
	return &Classifier{params: p}
}

// GetParams returns the current thresholds.
func (c *Classifier) GetParams() Params {
	return c.params
}

// SetParams replaces the thresholds. Params that fail Validate are logged
// and the current thresholds are kept.
func (c *Classifier) SetParams(p Params) {
	if err := p.Validate(); err != nil {
		logf("invalid params ignored: %v", err)
		return
	}
	c.params = p
}

var defaultClassifier = NewClassifier()

// Classify classifies points with the default thresholds.
func Classify(points []stroke.Point) Label {
	return defaultClassifier.Classify(points)
}

// Classify determines the label for a point sequence.
func (c *Classifier) Classify(points []stroke.Point) Label {
	if len(points) < 2 {
		return Unrecognized
	}

	// Evaluated in fixed precedence order; a straight chord can satisfy
	// several tests and the axis-aligned labels win.
	straight := c.isLine(points)
	if straight {
		chord := r2.Sub(points[len(points)-1], points[0])
		horizontal := nearAxis(chord, xAxis, c.params.AxisAngleTolerance)
		vertical := nearAxis(chord, yAxis, c.params.AxisAngleTolerance)
		switch {
		case horizontal:
			return HorizontalLine
		case vertical:
			return VerticalLine
		default:
			return DiagonalLine
		}
	}

	if c.isVShape(points) {
		return V
	}
	return Unrecognized
}

// Analyze classifies points and reports the measured features. The label
// always equals Classify(points).
func (c *Classifier) Analyze(points []stroke.Point) Result {
	result := Result{
		Label:    Unrecognized,
		Model:    ModelVersion,
		Features: Features{PointCount: len(points)},
	}
	if len(points) < 2 {
		return result
	}

	f := &result.Features
	start, end := points[0], points[len(points)-1]
	chord := r2.Sub(end, start)
	f.ChordLength = r2.Norm(chord)
	f.Closed = samePoint(start, end)
	if !f.Closed {
		f.AngleFromX, _ = angleBetween(chord, xAxis)
		f.AngleFromY, _ = angleBetween(chord, yAxis)
		f.MaxDeviation = math.Sqrt(c.maxDeviationSq(points))
	}
	f.Straight = c.isLine(points)
	f.Corners = c.corners(points, -1)

	result.Label = c.Classify(points)
	return result
}

// isLine reports whether the stroke stays within DeviationTolerance of its
// bounded chord. Coincident endpoints never form a line.
func (c *Classifier) isLine(points []stroke.Point) bool {
	if len(points) < 2 {
		return false
	}
	start, end := points[0], points[len(points)-1]
	if samePoint(start, end) {
		return false
	}
	tolSq := c.params.DeviationTolerance * c.params.DeviationTolerance
	for i := 1; i < len(points)-1; i++ {
		if distanceSqToSegment(points[i], start, end) > tolSq {
			return false
		}
	}
	return true
}

// maxDeviationSq returns the largest squared interior distance from the chord.
func (c *Classifier) maxDeviationSq(points []stroke.Point) float64 {
	start, end := points[0], points[len(points)-1]
	var maxSq float64
	for i := 1; i < len(points)-1; i++ {
		maxSq = math.Max(maxSq, distanceSqToSegment(points[i], start, end))
	}
	return maxSq
}

// isVShape accepts a stroke with exactly one corner.
func (c *Classifier) isVShape(points []stroke.Point) bool {
	// Two corners are enough to reject, so stop scanning there.
	return len(c.corners(points, 2)) == 1
}

// corners returns the interior indices whose arm angle lies strictly inside
// the corner band. A positive limit stops the scan once that many corners
// have been found.
func (c *Classifier) corners(points []stroke.Point, limit int) []int {
	var found []int
	for i := 1; i < len(points)-1; i++ {
		angle, ok := cornerAngle(points, i)
		if !ok {
			continue
		}
		if angle > c.params.CornerMinAngle && angle < c.params.CornerMaxAngle {
			found = append(found, i)
			if limit > 0 && len(found) >= limit {
				break
			}
		}
	}
	return found
}
