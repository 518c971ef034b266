// Package instance keeps a single widget alive per session by closing any
// earlier instance found through its window title.
package instance

import (
	"log/slog"
	"os"
	"time"

	"github.com/samber/lo"

	"activesticky/internal/platform"
)

// Outcome is the result of an eviction attempt.
type Outcome int

const (
	// NoPriorInstance means no window with the title was found.
	NoPriorInstance Outcome = iota
	// Evicted means matches were found and all of them closed in time.
	Evicted
	// EvictionTimedOut means matches were found but at least one was still
	// open at the deadline.
	EvictionTimedOut
)

// Found reports whether a prior instance existed.
func (o Outcome) Found() bool {
	return o != NoPriorInstance
}

func (o Outcome) String() string {
	switch o {
	case NoPriorInstance:
		return "no-prior-instance"
	case Evicted:
		return "evicted"
	case EvictionTimedOut:
		return "eviction-timed-out"
	default:
		return "unknown"
	}
}

// DefaultPollInterval is the re-enumeration interval while waiting for
// prior instances to close.
const DefaultPollInterval = 50 * time.Millisecond

// Guard finds and closes prior instances.
type Guard struct {
	windows platform.WindowEnumerator
	log     *slog.Logger
	pid     int

	// Overridable in tests.
	interval time.Duration
	sleep    func(time.Duration)
	now      func() time.Time
}

// NewGuard creates a guard over the given window enumerator.
func NewGuard(windows platform.WindowEnumerator, logger *slog.Logger) *Guard {
	if logger == nil {
		logger = slog.Default()
	}
	return &Guard{
		windows:  windows,
		log:      logger.With("component", "instance"),
		pid:      os.Getpid(),
		interval: DefaultPollInterval,
		sleep:    time.Sleep,
		now:      time.Now,
	}
}

// matches lists visible windows titled exactly title, excluding this process.
func (g *Guard) matches(title string) ([]platform.Window, error) {
	all, err := g.windows.VisibleWindows()
	if err != nil {
		return nil, err
	}
	return lo.Filter(all, func(w platform.Window, _ int) bool {
		return w.Title == title && w.PID != g.pid
	}), nil
}

// EvictByTitle asks every window titled exactly title to close, then waits
// up to timeout for all of them to disappear.
func (g *Guard) EvictByTitle(title string, timeout time.Duration) Outcome {
	found, err := g.matches(title)
	if err != nil {
		g.log.Warn("enumerate windows", "error", err)
		return NoPriorInstance
	}
	if len(found) == 0 {
		return NoPriorInstance
	}

	for _, w := range found {
		if err := g.windows.PostClose(w.Handle); err != nil {
			g.log.Warn("request close", "hwnd", w.Handle.String(), "pid", w.PID, "error", err)
			continue
		}
		g.log.Info("requested prior instance close", "hwnd", w.Handle.String(), "pid", w.PID)
	}

	deadline := g.now().Add(timeout)
	for {
		remaining, err := g.matches(title)
		if err != nil {
			g.log.Warn("enumerate windows", "error", err)
		} else if len(remaining) == 0 {
			return Evicted
		}

		if !g.now().Before(deadline) {
			g.log.Warn("prior instance still open", "title", title, "timeout", timeout)
			return EvictionTimedOut
		}
		g.sleep(g.interval)
	}
}

// OwnWindow returns the visible window of this process titled exactly title.
func (g *Guard) OwnWindow(title string) (platform.Handle, bool) {
	all, err := g.windows.VisibleWindows()
	if err != nil {
		g.log.Warn("enumerate windows", "error", err)
		return 0, false
	}
	w, ok := lo.Find(all, func(w platform.Window) bool {
		return w.Title == title && w.PID == g.pid
	})
	return w.Handle, ok
}
