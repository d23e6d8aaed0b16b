// Package capture turns pointer input into completed gestures. A Session
// samples points while the pointer is held, classifies the stroke on
// release and publishes the label exactly once per gesture.
package capture

import (
	"github.com/google/uuid"

	"github.com/banshee-data/shapecast/internal/broadcast"
	"github.com/banshee-data/shapecast/internal/frame"
	"github.com/banshee-data/shapecast/internal/monitoring"
	"github.com/banshee-data/shapecast/internal/shape"
	"github.com/banshee-data/shapecast/internal/stroke"
)

var logf = monitoring.Tagged("capture")

// defaultCapacity covers a couple of seconds of sampling at 60 Hz.
const defaultCapacity = 128

// Result describes one completed gesture.
type Result struct {
	GestureID string
	Label     shape.Label
	Points    int
	Tick      uint64        // frame in which the gesture was released
	Stroke    stroke.Stroke // world-space samples
}

// GestureObserver is told about each gesture after its label is published.
type GestureObserver interface {
	OnGesture(r Result)
}

// GestureObserverFunc adapts a function to GestureObserver.
type GestureObserverFunc func(r Result)

// OnGesture calls f(r).
func (f GestureObserverFunc) OnGesture(r Result) { f(r) }

// FrameInput is the pointer state sampled for one frame.
type FrameInput struct {
	Pressed  bool // went down this frame
	Held     bool // is down this frame
	Released bool // went up this frame
	Screen   stroke.Point
}

// Option configures a Session.
type Option func(*Session)

// WithClassifier replaces the default classifier.
func WithClassifier(c shape.ShapeClassifier) Option {
	return func(s *Session) { s.classifier = c }
}

// WithTransform sets the screen to world mapping.
func WithTransform(t Transform) Option {
	return func(s *Session) { s.transform = t }
}

// WithCounter drives frame numbers from an existing counter.
func WithCounter(c *frame.Counter) Option {
	return func(s *Session) { s.counter = c }
}

// WithObserver adds a gesture observer.
func WithObserver(o GestureObserver) Option {
	return func(s *Session) { s.observers = append(s.observers, o) }
}

// WithCapacity sets the initial sample buffer size.
func WithCapacity(n int) Option {
	return func(s *Session) { s.buf = stroke.NewBuffer(n) }
}

// Session owns one stroke buffer and publishes to one broadcaster. It is
// driven from a single goroutine.
type Session struct {
	buf        *stroke.Buffer
	classifier shape.ShapeClassifier
	bus        broadcast.Broadcaster
	transform  Transform
	counter    *frame.Counter
	observers  []GestureObserver

	gestureID string
	gestures  int
}

// NewSession creates a session publishing to bus.
func NewSession(bus broadcast.Broadcaster, opts ...Option) *Session {
	s := &Session{
		buf:        stroke.NewBuffer(defaultCapacity),
		classifier: shape.NewClassifier(),
		bus:        bus,
		transform:  IdentityTransform{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.counter == nil {
		s.counter = frame.NewCounter(nil)
	}
	return s
}

// Active reports whether a gesture is in progress.
func (s *Session) Active() bool { return s.buf.Active() }

// Gestures returns the number of gestures completed so far.
func (s *Session) Gestures() int { return s.gestures }

// Counter returns the frame counter driving this session.
func (s *Session) Counter() *frame.Counter { return s.counter }

// PointerDown starts a gesture at screen. A gesture already in progress is
// discarded without being classified.
func (s *Session) PointerDown(screen stroke.Point) {
	s.begin()
	s.sample(screen)
}

// PointerMove records a sample while a gesture is active.
func (s *Session) PointerMove(screen stroke.Point) {
	s.sample(screen)
}

// PointerUp completes the active gesture, classifies it and publishes the
// label. ok is false when no gesture was active.
func (s *Session) PointerUp() (r Result, ok bool) {
	if !s.buf.Active() {
		return Result{}, false
	}
	pts := s.buf.End()
	label := s.classifier.Classify(pts)
	r = Result{
		GestureID: s.gestureID,
		Label:     label,
		Points:    len(pts),
		Tick:      s.counter.Current().Number,
		Stroke:    pts,
	}
	s.gestureID = ""
	s.gestures++

	if len(pts) < 2 {
		logf("gesture %s: not enough points to form a shape (%d)", r.GestureID, len(pts))
	} else {
		logf("gesture %s: classified as %s (%d points)", r.GestureID, label, len(pts))
	}

	s.bus.Publish(label)
	for _, o := range s.observers {
		o.OnGesture(r)
	}
	return r, true
}

// Tick advances one frame and applies in. A press begins a new gesture, a
// held pointer adds a sample and a release classifies and publishes within
// the same frame.
func (s *Session) Tick(in FrameInput) (Result, bool) {
	s.counter.Advance()
	if in.Pressed {
		s.begin()
	}
	if in.Pressed || in.Held {
		s.sample(in.Screen)
	}
	if in.Released {
		return s.PointerUp()
	}
	return Result{}, false
}

func (s *Session) begin() {
	if s.buf.Active() {
		logf("gesture %s: restarted before release, %d points dropped", s.gestureID, s.buf.Len())
	}
	s.gestureID = uuid.NewString()
	s.buf.Begin()
}

func (s *Session) sample(screen stroke.Point) {
	if !s.buf.Active() {
		return
	}
	s.buf.Append(s.transform.ScreenToWorld(screen))
}
