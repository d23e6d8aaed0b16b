package matcher

import (
	"github.com/banshee-data/shapecast/internal/broadcast"
	"github.com/banshee-data/shapecast/internal/shape"
)

// Roster owns a population of matchers sharing one broadcaster, such as the
// set of enemies currently on screen.
type Roster struct {
	b        broadcast.Broadcaster
	opts     []Option
	matchers []*Matcher
	reaped   int
}

// NewRoster creates a roster whose matchers subscribe to b. opts are applied
// to every spawned matcher.
func NewRoster(b broadcast.Broadcaster, opts ...Option) *Roster {
	return &Roster{b: b, opts: opts}
}

// Spawn creates a matcher for required and attaches it. Per-matcher options
// are applied after the roster-wide ones.
func (r *Roster) Spawn(name string, required []shape.Label, opts ...Option) *Matcher {
	all := make([]Option, 0, len(r.opts)+len(opts))
	all = append(all, r.opts...)
	all = append(all, opts...)

	m := New(name, required, all...)
	// A fresh matcher cannot already hold a subscription.
	_ = m.Attach(r.b)
	r.matchers = append(r.matchers, m)
	return m
}

// All returns every matcher still held by the roster, in spawn order.
func (r *Roster) All() []*Matcher {
	return append([]*Matcher(nil), r.matchers...)
}

// Active returns the matchers that are not yet complete, in spawn order.
func (r *Roster) Active() []*Matcher {
	var out []*Matcher
	for _, m := range r.matchers {
		if !m.Done() {
			out = append(out, m)
		}
	}
	return out
}

// Len returns the number of matchers held by the roster.
func (r *Roster) Len() int {
	return len(r.matchers)
}

// Completed returns how many matchers have completed, including reaped ones.
func (r *Roster) Completed() int {
	n := r.reaped
	for _, m := range r.matchers {
		if m.Done() {
			n++
		}
	}
	return n
}

// Reap removes completed matchers from the roster and returns them.
func (r *Roster) Reap() []*Matcher {
	var done []*Matcher
	kept := r.matchers[:0]
	for _, m := range r.matchers {
		if m.Done() {
			done = append(done, m)
			continue
		}
		kept = append(kept, m)
	}
	// Clear the tail so reaped matchers can be collected.
	for i := len(kept); i < len(r.matchers); i++ {
		r.matchers[i] = nil
	}
	r.matchers = kept
	r.reaped += len(done)
	return done
}

// DetachAll retires every matcher's subscription without completing it.
func (r *Roster) DetachAll() {
	for _, m := range r.matchers {
		m.Detach()
	}
}
