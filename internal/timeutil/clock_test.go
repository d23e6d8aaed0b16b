package timeutil

import (
	"testing"
	"time"
)

func TestRealClock_Now(t *testing.T) {
	before := time.Now()
	got := RealClock{}.Now()
	if got.Before(before) {
		t.Errorf("RealClock.Now() = %v, want >= %v", got, before)
	}
}

func TestRealClock_Ticker(t *testing.T) {
	tk := RealClock{}.NewTicker(time.Millisecond)
	defer tk.Stop()

	select {
	case <-tk.C():
	case <-time.After(time.Second):
		t.Fatal("real ticker did not fire")
	}
}

func TestMockClock_AdvanceAndSet(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMockClock(start)

	c.Advance(16 * time.Millisecond)
	if got, want := c.Now(), start.Add(16*time.Millisecond); !got.Equal(want) {
		t.Errorf("Now() = %v, want %v", got, want)
	}

	c.Set(start)
	if !c.Now().Equal(start) {
		t.Errorf("Set did not move the clock")
	}
}

func TestMockTicker_FiresOnAdvance(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMockClock(start)
	tk := c.NewTicker(10 * time.Millisecond)

	c.Advance(5 * time.Millisecond)
	select {
	case <-tk.C():
		t.Fatal("ticker fired before its interval")
	default:
	}

	c.Advance(5 * time.Millisecond)
	select {
	case got := <-tk.C():
		if want := start.Add(10 * time.Millisecond); !got.Equal(want) {
			t.Errorf("tick = %v, want %v", got, want)
		}
	default:
		t.Fatal("ticker did not fire after its interval")
	}

	tk.Stop()
	c.Advance(time.Second)
	select {
	case <-tk.C():
		t.Fatal("stopped ticker fired")
	default:
	}
}
