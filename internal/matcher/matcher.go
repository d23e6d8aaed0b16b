// Package matcher tracks, per listener, an ordered queue of required shapes
// and advances it as classifications arrive.
//
// A Matcher is a two-state machine. While Active it compares every
// classification to the head of its queue: an equal label pops the head, any
// other label (including Unrecognized) is ignored without penalty. When the
// queue empties the matcher becomes Complete, emits its completion signal
// once, and retires its broadcast subscription. A Complete matcher ignores
// all further input.
package matcher

import (
	"errors"

	"github.com/google/uuid"

	"github.com/banshee-data/shapecast/internal/broadcast"
	"github.com/banshee-data/shapecast/internal/monitoring"
	"github.com/banshee-data/shapecast/internal/shape"
)

// ErrAlreadyAttached is returned by Attach when the matcher already holds a
// subscription.
var ErrAlreadyAttached = errors.New("matcher already attached")

var logf = monitoring.Tagged("matcher")

// Status is the lifecycle state of a matcher.
type Status uint8

const (
	// Active matchers still have required shapes queued.
	Active Status = iota
	// Complete matchers have consumed their whole queue.
	Complete
)

func (s Status) String() string {
	switch s {
	case Active:
		return "active"
	case Complete:
		return "complete"
	default:
		return "unknown"
	}
}

// Outcome describes what one classification did to a matcher.
type Outcome uint8

const (
	// Ignored: the label did not match the head; the queue is unchanged.
	Ignored Outcome = iota
	// Advanced: the head was consumed and shapes remain.
	Advanced
	// Completed: the last shape was consumed.
	Completed
	// Inactive: the matcher was already complete; nothing happened.
	Inactive
)

func (o Outcome) String() string {
	switch o {
	case Ignored:
		return "ignored"
	case Advanced:
		return "advanced"
	case Completed:
		return "completed"
	case Inactive:
		return "inactive"
	default:
		return "unknown"
	}
}

// Event reports one handled classification.
type Event struct {
	MatcherID string
	Name      string
	Label     shape.Label
	Outcome   Outcome
	Remaining []shape.Label
}

// Observer receives an Event for every classification that reaches an
// active matcher.
type Observer interface {
	OnMatcherEvent(ev Event)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(ev Event)

// OnMatcherEvent calls f(ev).
func (f ObserverFunc) OnMatcherEvent(ev Event) { f(ev) }

// Option configures a Matcher.
type Option func(*Matcher)

// WithOnComplete registers fn to run once when the queue empties.
func WithOnComplete(fn func(*Matcher)) Option {
	return func(m *Matcher) { m.onComplete = fn }
}

// WithObserver adds an observer for advance, ignore and complete events.
func WithObserver(o Observer) Option {
	return func(m *Matcher) {
		if o != nil {
			m.observers = append(m.observers, o)
		}
	}
}

// Matcher holds one listener's required-shape queue.
type Matcher struct {
	id         string
	name       string
	queue      []shape.Label
	status     Status
	sub        *broadcast.Subscription
	onComplete func(*Matcher)
	observers  []Observer
}

var _ broadcast.Listener = (*Matcher)(nil)

// New creates a matcher for the given sequence. The sequence is copied. An
// empty sequence yields a matcher that is already Complete and never emits
// a completion signal.
func New(name string, required []shape.Label, opts ...Option) *Matcher {
	m := &Matcher{
		id:    uuid.NewString(),
		name:  name,
		queue: append([]shape.Label(nil), required...),
	}
	if len(m.queue) == 0 {
		m.status = Complete
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// ID returns the matcher's unique ID.
func (m *Matcher) ID() string { return m.id }

// Name returns the display name given at construction.
func (m *Matcher) Name() string { return m.name }

// Status returns the current lifecycle state.
func (m *Matcher) Status() Status { return m.status }

// Done reports whether the matcher is Complete.
func (m *Matcher) Done() bool { return m.status == Complete }

// Remaining returns a copy of the queued shapes, head first.
func (m *Matcher) Remaining() []shape.Label {
	return append([]shape.Label(nil), m.queue...)
}

// Head returns the next required shape. ok is false once the queue is empty.
func (m *Matcher) Head() (label shape.Label, ok bool) {
	if len(m.queue) == 0 {
		return shape.Unrecognized, false
	}
	return m.queue[0], true
}

// OnClassification implements broadcast.Listener.
func (m *Matcher) OnClassification(label shape.Label) error {
	m.Handle(label)
	return nil
}

// Handle applies one classification and returns what it did.
func (m *Matcher) Handle(label shape.Label) Outcome {
	if m.status == Complete || len(m.queue) == 0 {
		return Inactive
	}

	head := m.queue[0]
	if !label.Recognized() || label != head {
		logf("%s: wrong shape (%s), next required is (%s)", m.name, label, head)
		m.emit(label, Ignored)
		return Ignored
	}

	m.queue = m.queue[1:]
	if len(m.queue) > 0 {
		logf("%s: correct shape %s, %d remaining", m.name, label, len(m.queue))
		m.emit(label, Advanced)
		return Advanced
	}

	m.status = Complete
	m.queue = nil
	logf("%s: all shapes done", m.name)
	m.retire()
	m.emit(label, Completed)
	if m.onComplete != nil {
		m.onComplete(m)
	}
	return Completed
}

// Attach subscribes the matcher to b. A Complete matcher is not subscribed.
func (m *Matcher) Attach(b broadcast.Broadcaster) error {
	if m.sub != nil {
		return ErrAlreadyAttached
	}
	if m.status == Complete {
		return nil
	}
	m.sub = b.Subscribe(m)
	return nil
}

// Attached reports whether the matcher holds a live subscription.
func (m *Matcher) Attached() bool {
	return m.sub != nil
}

// Detach retires the subscription early. It reports whether a subscription
// was cancelled.
func (m *Matcher) Detach() bool {
	return m.retire()
}

func (m *Matcher) retire() bool {
	if m.sub == nil {
		return false
	}
	removed := m.sub.Cancel()
	m.sub = nil
	return removed
}

func (m *Matcher) emit(label shape.Label, outcome Outcome) {
	if len(m.observers) == 0 {
		return
	}
	ev := Event{
		MatcherID: m.id,
		Name:      m.name,
		Label:     label,
		Outcome:   outcome,
		Remaining: m.Remaining(),
	}
	for _, o := range m.observers {
		o.OnMatcherEvent(ev)
	}
}
