package stroke

// Buffer accumulates samples for one continuous gesture. It is owned by a
// single capture session and is not safe for concurrent use.
type Buffer struct {
	points Stroke
	active bool
}

// NewBuffer creates an idle buffer with room for capacity samples.
func NewBuffer(capacity int) *Buffer {
	if capacity < 0 {
		capacity = 0
	}
	return &Buffer{points: make(Stroke, 0, capacity)}
}

// Begin clears any previous samples and starts a new gesture.
func (b *Buffer) Begin() {
	b.points = b.points[:0]
	b.active = true
}

// Append records a sample. It is a no-op when no gesture is active.
func (b *Buffer) Append(p Point) {
	if !b.active {
		return
	}
	b.points = append(b.points, p)
}

// End finalises the gesture and returns the captured stroke. The returned
// slice does not alias the buffer, so it stays valid after the next Begin.
// Calling End with no active gesture returns an empty stroke.
func (b *Buffer) End() Stroke {
	out := make(Stroke, len(b.points))
	copy(out, b.points)
	b.points = b.points[:0]
	b.active = false
	return out
}

// Active reports whether a gesture is in progress.
func (b *Buffer) Active() bool {
	return b.active
}

// Len returns the number of samples captured so far.
func (b *Buffer) Len() int {
	return len(b.points)
}
