package shape

import (
	"errors"
	"fmt"
)

// Label is the closed set of classification results.
type Label uint8

const (
	// Unrecognized is the fallback for any stroke no test accepts.
	Unrecognized Label = iota
	// HorizontalLine is a straight stroke within the axis tolerance of X.
	HorizontalLine
	// VerticalLine is a straight stroke within the axis tolerance of Y.
	VerticalLine
	// DiagonalLine is a straight stroke aligned with neither axis.
	DiagonalLine
	// V is a stroke with exactly one pronounced corner.
	V
)

// ErrUnknownLabel is returned when a label name does not match any Label.
var ErrUnknownLabel = errors.New("unknown shape label")

var labelNames = [...]string{
	Unrecognized:   "Unrecognized",
	HorizontalLine: "HorizontalLine",
	VerticalLine:   "VerticalLine",
	DiagonalLine:   "DiagonalLine",
	V:              "V",
}

// Labels lists every recognisable label in precedence order.
func Labels() []Label {
	return []Label{HorizontalLine, VerticalLine, DiagonalLine, V}
}

func (l Label) String() string {
	if int(l) < len(labelNames) {
		return labelNames[l]
	}
	return fmt.Sprintf("Label(%d)", uint8(l))
}

// Valid reports whether l is a member of the label set.
func (l Label) Valid() bool {
	return int(l) < len(labelNames)
}

// Recognized reports whether l is a concrete shape rather than the fallback.
func (l Label) Recognized() bool {
	return l != Unrecognized && l.Valid()
}

// ParseLabel converts a label name to a Label. "Line" is accepted as the
// name of the generic line.
func ParseLabel(name string) (Label, error) {
	if name == "Line" {
		return DiagonalLine, nil
	}
	for i, n := range labelNames {
		if n == name {
			return Label(i), nil
		}
	}
	return Unrecognized, fmt.Errorf("%w: %q", ErrUnknownLabel, name)
}

// ParseLabels converts a list of names, failing on the first unknown one.
func ParseLabels(names []string) ([]Label, error) {
	out := make([]Label, 0, len(names))
	for i, name := range names {
		l, err := ParseLabel(name)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		out = append(out, l)
	}
	return out, nil
}

// MarshalText implements encoding.TextMarshaler.
func (l Label) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownLabel, uint8(l))
	}
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Label) UnmarshalText(text []byte) error {
	parsed, err := ParseLabel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
