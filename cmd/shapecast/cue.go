package main

import (
	"github.com/banshee-data/shapecast/internal/frame"
	"github.com/banshee-data/shapecast/internal/matcher"
)

// cueGate plays at most one feedback cue per frame, however many matchers
// advance in it.
type cueGate struct {
	counter *frame.Counter
	token   frame.Token
	played  int
	onCue   func(tick uint64, ev matcher.Event)
}

func newCueGate(counter *frame.Counter, onCue func(tick uint64, ev matcher.Event)) *cueGate {
	return &cueGate{counter: counter, onCue: onCue}
}

// OnMatcherEvent implements matcher.Observer.
func (g *cueGate) OnMatcherEvent(ev matcher.Event) {
	if ev.Outcome != matcher.Advanced && ev.Outcome != matcher.Completed {
		return
	}
	tick := g.counter.Current().Number
	if !g.token.TryConsume(tick) {
		return
	}
	g.played++
	if g.onCue != nil {
		g.onCue(tick, ev)
	}
}
