package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/banshee-data/shapecast/internal/broadcast"
	"github.com/banshee-data/shapecast/internal/capture"
	"github.com/banshee-data/shapecast/internal/config"
	"github.com/banshee-data/shapecast/internal/frame"
	"github.com/banshee-data/shapecast/internal/matcher"
	"github.com/banshee-data/shapecast/internal/shape"
	"github.com/banshee-data/shapecast/internal/timeutil"
)

// replayOptions holds the optional sinks for a replay.
type replayOptions struct {
	Realtime        bool
	Observers       []capture.GestureObserver
	MatcherObserver matcher.Observer
}

// Report summarises a replay.
type Report struct {
	Frames   uint64
	Cues     int
	Gestures []GestureReport
	Matchers []MatcherReport
}

// GestureReport is one classified gesture.
type GestureReport struct {
	Name   string
	Label  shape.Label
	Points int
	Tick   uint64
}

// MatcherReport is a matcher's state at the end of the replay.
type MatcherReport struct {
	Name      string
	Status    matcher.Status
	Remaining []shape.Label
}

// replay drives script through a capture session frame by frame, with one
// matcher per configured sequence listening to the classifications. Progress
// is written to out as it happens.
func replay(ctx context.Context, script *Script, cfg *config.TuningConfig, opts replayOptions, out io.Writer) (*Report, error) {
	seqs, err := cfg.MatcherSequences()
	if err != nil {
		return nil, err
	}
	interval := cfg.GetFrameInterval()

	var clock timeutil.Clock
	var mock *timeutil.MockClock
	if opts.Realtime {
		clock = timeutil.RealClock{}
	} else {
		mock = timeutil.NewMockClock(time.Unix(0, 0).UTC())
		clock = mock
	}
	counter := frame.NewCounter(clock)

	// Matcher output is buffered so it prints under the gesture that caused it.
	var pending []string
	report := &Report{}

	printer := matcher.ObserverFunc(func(ev matcher.Event) {
		pending = append(pending, fmt.Sprintf("  %s: %s, remaining %v", ev.Name, ev.Outcome, ev.Remaining))
	})
	cues := newCueGate(counter, func(tick uint64, ev matcher.Event) {
		pending = append(pending, fmt.Sprintf("  cue (%s %s)", ev.Name, ev.Outcome))
	})

	reg := broadcast.NewRegistry()
	rosterOpts := []matcher.Option{matcher.WithObserver(printer), matcher.WithObserver(cues)}
	if opts.MatcherObserver != nil {
		rosterOpts = append(rosterOpts, matcher.WithObserver(opts.MatcherObserver))
	}
	roster := matcher.NewRoster(reg, rosterOpts...)
	for _, s := range seqs {
		roster.Spawn(s.Name, s.Required)
	}

	sessionOpts := []capture.Option{
		capture.WithClassifier(shape.NewClassifierWithParams(cfg.ClassifierParams())),
		capture.WithTransform(script.Transform()),
		capture.WithCounter(counter),
	}
	for _, o := range opts.Observers {
		sessionOpts = append(sessionOpts, capture.WithObserver(o))
	}
	session := capture.NewSession(reg, sessionOpts...)

	var ticker timeutil.Ticker
	if opts.Realtime {
		ticker = clock.NewTicker(interval)
		defer ticker.Stop()
	}

	next := 0
	for _, in := range script.frames() {
		if ticker != nil {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-ticker.C():
			}
		} else {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			mock.Advance(interval)
		}

		r, ok := session.Tick(in)
		if ok {
			name := script.Gestures[next].Name
			next++
			report.Gestures = append(report.Gestures, GestureReport{
				Name:   name,
				Label:  r.Label,
				Points: r.Points,
				Tick:   r.Tick,
			})
			fmt.Fprintf(out, "tick %d %s: %s (%d points)\n", r.Tick, name, r.Label, r.Points)
		}
		for _, line := range pending {
			fmt.Fprintln(out, line)
		}
		pending = pending[:0]
	}

	report.Frames = counter.Current().Number
	report.Cues = cues.played
	for _, m := range roster.All() {
		report.Matchers = append(report.Matchers, MatcherReport{
			Name:      m.Name(),
			Status:    m.Status(),
			Remaining: m.Remaining(),
		})
	}
	roster.DetachAll()

	fmt.Fprintf(out, "%d gestures over %d frames, %d cues, matchers complete %d/%d\n",
		len(report.Gestures), report.Frames, report.Cues, roster.Completed(), roster.Len())
	return report, nil
}
