package autohide

import (
	"testing"
	"time"
)

type fakeTimer struct {
	d       time.Duration
	fn      func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

type fakeClock struct {
	timers []*fakeTimer
}

func (c *fakeClock) afterFunc(d time.Duration, fn func()) timer {
	t := &fakeTimer{d: d, fn: fn}
	c.timers = append(c.timers, t)
	return t
}

func (c *fakeClock) last() *fakeTimer {
	if len(c.timers) == 0 {
		return nil
	}
	return c.timers[len(c.timers)-1]
}

func newTestHider(hide func()) (*Hider, *fakeClock) {
	clock := &fakeClock{}
	h := New(hide, nil)
	h.afterFunc = clock.afterFunc
	return h, clock
}

func TestDisabledByDefault(t *testing.T) {
	h, clock := newTestHider(func() { t.Error("hide called while disabled") })

	h.Reset()
	h.Configure(0)
	h.Configure(-5)

	if len(clock.timers) != 0 {
		t.Errorf("started %d timers; want none", len(clock.timers))
	}
	if h.Minutes() != 0 {
		t.Errorf("Minutes() = %d; want 0", h.Minutes())
	}
}

func TestFiresOnce(t *testing.T) {
	hidden := 0
	h, clock := newTestHider(func() { hidden++ })

	h.Configure(5)
	tm := clock.last()
	if tm == nil || tm.d != 5*time.Minute {
		t.Fatalf("timer = %+v; want 5m", tm)
	}

	tm.fn()
	tm.fn()
	if hidden != 1 {
		t.Errorf("hide called %d times; want 1", hidden)
	}
}

func TestResetSupersedesPendingTimer(t *testing.T) {
	hidden := 0
	h, clock := newTestHider(func() { hidden++ })

	h.Configure(1)
	first := clock.last()
	h.Reset()
	second := clock.last()

	if first == second {
		t.Fatal("Reset did not start a new timer")
	}
	if !first.stopped {
		t.Error("old timer not stopped")
	}

	// The old timer already fired concurrently with Reset.
	first.fn()
	if hidden != 0 {
		t.Error("stale timer hid the widget")
	}

	second.fn()
	if hidden != 1 {
		t.Errorf("hide called %d times; want 1", hidden)
	}
}

func TestStop(t *testing.T) {
	hidden := 0
	h, clock := newTestHider(func() { hidden++ })

	h.Configure(3)
	tm := clock.last()
	h.Stop()
	tm.fn()

	if hidden != 0 {
		t.Error("hide called after Stop")
	}
	if h.Minutes() != 3 {
		t.Errorf("Stop changed configuration to %d", h.Minutes())
	}

	h.Reset()
	clock.last().fn()
	if hidden != 1 {
		t.Errorf("hide called %d times after re-arm; want 1", hidden)
	}
}

func TestRealTimer(t *testing.T) {
	done := make(chan struct{})
	h := New(func() { close(done) }, nil)
	h.unit = time.Millisecond

	h.Configure(10)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timer never fired")
	}
}
