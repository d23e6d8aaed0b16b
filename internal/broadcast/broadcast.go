// Package broadcast fans a classification result out to every registered
// listener.
//
// Delivery is synchronous and follows registration order. Publish works on
// a snapshot of the registry, so listeners may subscribe or unsubscribe
// (including themselves) from inside a callback without disturbing the
// current delivery. A listener that fails, by returning an error or by
// panicking, does not stop delivery to the listeners after it.
package broadcast

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/banshee-data/shapecast/internal/monitoring"
	"github.com/banshee-data/shapecast/internal/shape"
)

// ErrListenerPanic wraps the value recovered from a panicking listener.
var ErrListenerPanic = errors.New("listener panicked")

var logf = monitoring.Tagged("broadcast")

// Listener receives one classification per completed gesture.
type Listener interface {
	OnClassification(label shape.Label) error
}

// ListenerFunc adapts a function to the Listener interface.
type ListenerFunc func(label shape.Label) error

// OnClassification calls f(label).
func (f ListenerFunc) OnClassification(label shape.Label) error {
	return f(label)
}

// Broadcaster is the publish-subscribe surface the capture session publishes
// to and matchers subscribe to.
type Broadcaster interface {
	// Subscribe appends l to the delivery order and returns its handle.
	Subscribe(l Listener) *Subscription
	// Unsubscribe removes the listener with the given ID. It reports whether
	// a listener was removed; unknown or already removed IDs are a no-op.
	Unsubscribe(id string) bool
	// Publish delivers label to every registered listener in order.
	Publish(label shape.Label)
}

// FailureHandler is told about every listener failure during Publish.
type FailureHandler func(id string, label shape.Label, err error)

// Subscription is the handle returned by Subscribe.
type Subscription struct {
	id    string
	owner Broadcaster
	once  sync.Once
}

// ID returns the unique subscription ID.
func (s *Subscription) ID() string {
	return s.id
}

// Cancel unsubscribes exactly once. It reports whether this call removed
// the listener.
func (s *Subscription) Cancel() bool {
	removed := false
	s.once.Do(func() {
		removed = s.owner.Unsubscribe(s.id)
	})
	return removed
}

type entry struct {
	id       string
	listener Listener
	removed  bool
}

// Registry is the in-process Broadcaster. The zero value is not usable;
// create one with NewRegistry.
type Registry struct {
	mu        sync.Mutex
	entries   []*entry
	onFailure FailureHandler
	publishes uint64
	failures  uint64
}

var _ Broadcaster = (*Registry)(nil)

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// SetFailureHandler installs h to observe listener failures. Passing nil
// removes it; failures are still logged.
func (r *Registry) SetFailureHandler(h FailureHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onFailure = h
}

// Subscribe registers l at the end of the delivery order.
func (r *Registry) Subscribe(l Listener) *Subscription {
	e := &entry{id: uuid.NewString(), listener: l}

	r.mu.Lock()
	r.entries = append(r.entries, e)
	r.mu.Unlock()

	return &Subscription{id: e.id, owner: r}
}

// Unsubscribe removes the listener with the given ID.
func (r *Registry) Unsubscribe(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, e := range r.entries {
		if e.id != id {
			continue
		}
		e.removed = true
		// Build a fresh slice so snapshots held by an in-flight Publish keep
		// their original backing array.
		next := make([]*entry, 0, len(r.entries)-1)
		next = append(next, r.entries[:i]...)
		next = append(next, r.entries[i+1:]...)
		r.entries = next
		return true
	}
	return false
}

// Publish delivers label to the listeners registered when the call starts.
// Listeners removed during delivery are skipped if not yet reached.
func (r *Registry) Publish(label shape.Label) {
	r.mu.Lock()
	snapshot := make([]*entry, len(r.entries))
	copy(snapshot, r.entries)
	r.publishes++
	onFailure := r.onFailure
	r.mu.Unlock()

	for _, e := range snapshot {
		r.mu.Lock()
		removed := e.removed
		r.mu.Unlock()
		if removed {
			continue
		}

		if err := deliver(e.listener, label); err != nil {
			r.mu.Lock()
			r.failures++
			r.mu.Unlock()

			logf("listener %s failed on %s: %v", e.id, label, err)
			if onFailure != nil {
				notifyFailure(onFailure, e.id, label, err)
			}
		}
	}
}

// deliver invokes one listener, converting a panic into an error.
func deliver(l Listener, label shape.Label) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: %v", ErrListenerPanic, rec)
		}
	}()
	return l.OnClassification(label)
}

// notifyFailure runs the failure handler. A panicking handler is logged and
// does not interrupt delivery.
func notifyFailure(h FailureHandler, id string, label shape.Label, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			logf("failure handler panicked for listener %s: %v", id, rec)
		}
	}()
	h(id, label, err)
}

// Len returns the number of registered listeners.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Stats returns the number of Publish calls and listener failures so far.
func (r *Registry) Stats() (publishes, failures uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.publishes, r.failures
}
