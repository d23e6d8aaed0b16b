// Package shape classifies a stroke into one of a fixed set of geometric
// labels.
//
// Classification is a deterministic chain of geometric tests evaluated in a
// fixed order, first match wins:
//
//	HorizontalLine -> VerticalLine -> DiagonalLine -> V -> Unrecognized
//
// The line tests share a straightness check: every interior point must lie
// within DeviationTolerance of the bounded chord from the first to the last
// point. The V test counts interior corners whose arm angle falls strictly
// inside the corner band and accepts exactly one.
package shape
