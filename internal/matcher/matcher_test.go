package matcher

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/shapecast/internal/broadcast"
	"github.com/banshee-data/shapecast/internal/monitoring"
	"github.com/banshee-data/shapecast/internal/shape"
)

func TestMain(m *testing.M) {
	monitoring.SetLogger(nil)
	m.Run()
}

func TestMatcher_QueueWalk(t *testing.T) {
	completions := 0
	m := New("enemy-1", []shape.Label{shape.HorizontalLine, shape.V},
		WithOnComplete(func(*Matcher) { completions++ }))

	require.Equal(t, Active, m.Status())

	assert.Equal(t, Ignored, m.Handle(shape.VerticalLine))
	assert.Equal(t, []shape.Label{shape.HorizontalLine, shape.V}, m.Remaining())

	assert.Equal(t, Advanced, m.Handle(shape.HorizontalLine))
	assert.Equal(t, []shape.Label{shape.V}, m.Remaining())
	assert.Equal(t, Active, m.Status())

	assert.Equal(t, Completed, m.Handle(shape.V))
	assert.Empty(t, m.Remaining())
	assert.Equal(t, Complete, m.Status())
	assert.Equal(t, 1, completions)

	assert.Equal(t, Inactive, m.Handle(shape.V))
	assert.Equal(t, Inactive, m.Handle(shape.HorizontalLine))
	assert.Equal(t, 1, completions, "completion signal fires exactly once")
}

func TestMatcher_NoSkipAhead(t *testing.T) {
	m := New("e", []shape.Label{shape.HorizontalLine, shape.V})

	assert.Equal(t, Ignored, m.Handle(shape.V), "second shape must not match before the first")
	head, ok := m.Head()
	require.True(t, ok)
	assert.Equal(t, shape.HorizontalLine, head)
}

func TestMatcher_UnrecognizedNeverMatches(t *testing.T) {
	m := New("e", []shape.Label{shape.Unrecognized, shape.V})

	assert.Equal(t, Ignored, m.Handle(shape.Unrecognized))
	assert.Len(t, m.Remaining(), 2)
}

func TestMatcher_EmptySequenceIsComplete(t *testing.T) {
	fired := false
	m := New("empty", nil, WithOnComplete(func(*Matcher) { fired = true }))

	assert.True(t, m.Done())
	assert.Equal(t, Inactive, m.Handle(shape.V))
	assert.False(t, fired)

	_, ok := m.Head()
	assert.False(t, ok)

	r := broadcast.NewRegistry()
	require.NoError(t, m.Attach(r))
	assert.False(t, m.Attached())
	assert.Equal(t, 0, r.Len())
}

func TestMatcher_CopiesRequiredSequence(t *testing.T) {
	required := []shape.Label{shape.V, shape.V}
	m := New("e", required)
	required[0] = shape.HorizontalLine

	head, _ := m.Head()
	assert.Equal(t, shape.V, head)

	rem := m.Remaining()
	rem[0] = shape.DiagonalLine
	head, _ = m.Head()
	assert.Equal(t, shape.V, head)
}

func TestMatcher_Observer(t *testing.T) {
	var events []Event
	m := New("e", []shape.Label{shape.DiagonalLine, shape.V},
		WithObserver(ObserverFunc(func(ev Event) { events = append(events, ev) })))

	m.Handle(shape.V)
	m.Handle(shape.DiagonalLine)
	m.Handle(shape.V)
	m.Handle(shape.V)

	want := []Event{
		{MatcherID: m.ID(), Name: "e", Label: shape.V, Outcome: Ignored, Remaining: []shape.Label{shape.DiagonalLine, shape.V}},
		{MatcherID: m.ID(), Name: "e", Label: shape.DiagonalLine, Outcome: Advanced, Remaining: []shape.Label{shape.V}},
		{MatcherID: m.ID(), Name: "e", Label: shape.V, Outcome: Completed},
	}
	if diff := cmp.Diff(want, events); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestMatcher_AttachRetiresOnCompletion(t *testing.T) {
	r := broadcast.NewRegistry()
	m := New("e", []shape.Label{shape.HorizontalLine})

	require.NoError(t, m.Attach(r))
	assert.ErrorIs(t, m.Attach(r), ErrAlreadyAttached)
	assert.True(t, m.Attached())
	assert.Equal(t, 1, r.Len())

	r.Publish(shape.HorizontalLine)

	assert.True(t, m.Done())
	assert.False(t, m.Attached())
	assert.Equal(t, 0, r.Len(), "completed matcher unsubscribes itself")
	assert.False(t, m.Detach())
}

func TestMatcher_DetachEarly(t *testing.T) {
	r := broadcast.NewRegistry()
	m := New("e", []shape.Label{shape.V})
	require.NoError(t, m.Attach(r))

	assert.True(t, m.Detach())
	r.Publish(shape.V)
	assert.False(t, m.Done(), "detached matcher receives nothing")
}

func TestBroadcastFanOut(t *testing.T) {
	r := broadcast.NewRegistry()
	a := New("a", []shape.Label{shape.HorizontalLine, shape.V})
	b := New("b", []shape.Label{shape.VerticalLine, shape.HorizontalLine})
	c := New("c", []shape.Label{shape.HorizontalLine})
	for _, m := range []*Matcher{a, b, c} {
		require.NoError(t, m.Attach(r))
	}

	bBefore := b.Remaining()
	r.Publish(shape.HorizontalLine)

	assert.Equal(t, []shape.Label{shape.V}, a.Remaining())
	assert.Equal(t, Active, a.Status())

	assert.Equal(t, bBefore, b.Remaining(), "listener with a different head is unaffected")
	assert.Equal(t, Active, b.Status())

	assert.True(t, c.Done())
	assert.Equal(t, 2, r.Len(), "c retired itself mid-broadcast")
}

func TestBroadcastFanOut_CompletionDuringBroadcastKeepsOrder(t *testing.T) {
	r := broadcast.NewRegistry()
	var order []string
	observe := WithObserver(ObserverFunc(func(ev Event) {
		order = append(order, ev.Name+":"+ev.Outcome.String())
	}))

	for _, name := range []string{"first", "second", "third"} {
		m := New(name, []shape.Label{shape.V}, observe)
		require.NoError(t, m.Attach(r))
	}

	r.Publish(shape.V)

	assert.Equal(t, []string{"first:completed", "second:completed", "third:completed"}, order)
	assert.Equal(t, 0, r.Len())
}

func TestStatusAndOutcomeStrings(t *testing.T) {
	assert.Equal(t, "active", Active.String())
	assert.Equal(t, "complete", Complete.String())
	assert.Equal(t, "unknown", Status(9).String())

	assert.Equal(t, "ignored", Ignored.String())
	assert.Equal(t, "advanced", Advanced.String())
	assert.Equal(t, "completed", Completed.String())
	assert.Equal(t, "inactive", Inactive.String())
	assert.Equal(t, "unknown", Outcome(9).String())
}
