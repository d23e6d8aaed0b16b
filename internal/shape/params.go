package shape

import (
	"fmt"
	"math"
)

// Default classification thresholds.
const (
	// DefaultDeviationTolerance is the maximum distance (world units) an
	// interior point may lie from the chord for the stroke to count as straight.
	DefaultDeviationTolerance = 0.2
	// DefaultAxisAngleTolerance is the maximum angle (degrees) between the
	// chord and an axis for the horizontal and vertical tests.
	DefaultAxisAngleTolerance = 10.0
	// DefaultCornerMinAngle and DefaultCornerMaxAngle bound the open interval
	// (degrees) of arm angles that count as a corner.
	DefaultCornerMinAngle = 20.0
	DefaultCornerMaxAngle = 160.0

	// SamePointEpsilonSq is compared against squared distances when deciding
	// whether two points coincide or a vector has zero length.
	SamePointEpsilonSq = 1e-12

	// ModelVersion identifies the rule set.
	ModelVersion = "geometric-v1"
)

// Params holds the tunable classification thresholds.
type Params struct {
	DeviationTolerance float64 // world units
	AxisAngleTolerance float64 // degrees
	CornerMinAngle     float64 // degrees, exclusive
	CornerMaxAngle     float64 // degrees, exclusive
}

// DefaultParams returns the production thresholds.
func DefaultParams() Params {
	return Params{
		DeviationTolerance: DefaultDeviationTolerance,
		AxisAngleTolerance: DefaultAxisAngleTolerance,
		CornerMinAngle:     DefaultCornerMinAngle,
		CornerMaxAngle:     DefaultCornerMaxAngle,
	}
}

// Validate checks that the thresholds are usable.
func (p Params) Validate() error {
	if math.IsNaN(p.DeviationTolerance) || math.IsInf(p.DeviationTolerance, 0) || p.DeviationTolerance < 0 {
		return fmt.Errorf("deviation tolerance must be a non-negative finite number, got %v", p.DeviationTolerance)
	}
	if math.IsNaN(p.AxisAngleTolerance) || p.AxisAngleTolerance < 0 || p.AxisAngleTolerance >= 90 {
		return fmt.Errorf("axis angle tolerance must be in [0, 90), got %v", p.AxisAngleTolerance)
	}
	if math.IsNaN(p.CornerMinAngle) || math.IsNaN(p.CornerMaxAngle) ||
		p.CornerMinAngle < 0 || p.CornerMaxAngle > 180 {
		return fmt.Errorf("corner band must lie within [0, 180], got (%v, %v)", p.CornerMinAngle, p.CornerMaxAngle)
	}
	if p.CornerMinAngle >= p.CornerMaxAngle {
		return fmt.Errorf("corner min angle %v must be below max angle %v", p.CornerMinAngle, p.CornerMaxAngle)
	}
	return nil
}
