package geometry

import (
	"log/slog"

	"activesticky/internal/platform"
)

// Guard applies the geometry rules against the live monitor configuration.
// Monitors are queried on every call because displays can change between
// (and during) runs.
type Guard struct {
	monitors platform.MonitorSource
	log      *slog.Logger
}

// NewGuard creates a guard over src.
func NewGuard(src platform.MonitorSource, logger *slog.Logger) *Guard {
	if logger == nil {
		logger = slog.Default()
	}
	return &Guard{
		monitors: src,
		log:      logger.With("component", "geometry"),
	}
}

func (g *Guard) query() ([]platform.Monitor, bool) {
	if g.monitors == nil {
		return nil, false
	}
	ms, err := g.monitors.Monitors()
	if err != nil {
		g.log.Warn("query monitors", "error", err)
		return nil, false
	}
	if len(ms) == 0 {
		g.log.Warn("no monitors reported")
		return nil, false
	}
	return ms, true
}

// ValidateGeometry returns rect when it is visible on some monitor and a
// safe fallback otherwise. If monitors cannot be queried rect is kept.
func (g *Guard) ValidateGeometry(rect platform.Rect) platform.Rect {
	ms, ok := g.query()
	if !ok {
		return rect
	}
	if IsVisibleOnAnyMonitor(rect, ms) {
		return rect
	}
	fb := SafeFallback(ms)
	g.log.Info("saved geometry off-screen, using fallback", "saved", rect.String(), "fallback", fb.String())
	return fb
}

// ClampDuringDrag keeps a dragged rectangle on the monitor under point.
func (g *Guard) ClampDuringDrag(rect platform.Rect, point platform.Point) platform.Rect {
	ms, ok := g.query()
	if !ok {
		return rect
	}
	return ClampToMonitorUnderPoint(rect, point, ms)
}

// ClampInPlace keeps rect on the monitor under its own top-left corner.
// Used after programmatic moves and resizes.
func (g *Guard) ClampInPlace(rect platform.Rect) platform.Rect {
	return g.ClampDuringDrag(rect, rect.TopLeft())
}

// Monitors returns the current monitor set, or nil when unavailable.
func (g *Guard) Monitors() []platform.Monitor {
	ms, _ := g.query()
	return ms
}

// ClampMove keeps a rectangle moved away from old on screen. The monitor
// under the new top-left wins; when that corner is off every monitor, the
// monitor under the old top-left is used so a move can never push the
// widget past the desktop edge.
func (g *Guard) ClampMove(old, moved platform.Rect) platform.Rect {
	ms, ok := g.query()
	if !ok {
		return moved
	}
	if _, found := monitorAt(moved.TopLeft(), ms); found {
		return ClampToMonitorUnderPoint(moved, moved.TopLeft(), ms)
	}
	return ClampToMonitorUnderPoint(moved, old.TopLeft(), ms)
}
