// Package geometry keeps the widget on a visible monitor.
package geometry

import (
	"github.com/samber/lo"

	"activesticky/internal/platform"
)

// Fallback placement used when a saved rectangle is off every monitor.
const (
	FallbackOffset = 80
	FallbackWidth  = 350
	FallbackHeight = 120
)

// IsVisibleOnAnyMonitor reports whether rect overlaps the work area of at
// least one monitor.
func IsVisibleOnAnyMonitor(rect platform.Rect, monitors []platform.Monitor) bool {
	return lo.ContainsBy(monitors, func(m platform.Monitor) bool {
		return m.WorkArea.Intersects(rect)
	})
}

// primaryMonitor returns the primary monitor, or the first one.
func primaryMonitor(monitors []platform.Monitor) (platform.Monitor, bool) {
	if len(monitors) == 0 {
		return platform.Monitor{}, false
	}
	if m, ok := lo.Find(monitors, func(m platform.Monitor) bool { return m.Primary }); ok {
		return m, true
	}
	return monitors[0], true
}

// SafeFallback returns a FallbackWidth x FallbackHeight rectangle offset by
// FallbackOffset from the primary monitor's work-area origin. On a work area
// too small for that, the rectangle is shrunk and shifted to stay inside.
func SafeFallback(monitors []platform.Monitor) platform.Rect {
	m, ok := primaryMonitor(monitors)
	if !ok {
		return platform.Rect{X: FallbackOffset, Y: FallbackOffset, W: FallbackWidth, H: FallbackHeight}
	}

	wa := m.WorkArea
	w := min(FallbackWidth, wa.W)
	h := min(FallbackHeight, wa.H)
	return platform.Rect{
		X: wa.X + max(0, min(FallbackOffset, wa.W-w)),
		Y: wa.Y + max(0, min(FallbackOffset, wa.H-h)),
		W: w,
		H: h,
	}
}

// monitorAt returns the monitor whose work area contains p.
func monitorAt(p platform.Point, monitors []platform.Monitor) (platform.Monitor, bool) {
	return lo.Find(monitors, func(m platform.Monitor) bool {
		return m.WorkArea.Contains(p)
	})
}

// ClampToMonitorUnderPoint translates rect so that it lies inside the work
// area of the monitor containing point. Right and bottom are pulled in
// first, then left and top, so an oversized rectangle keeps its origin on
// screen. When no monitor contains point, rect is returned unchanged.
func ClampToMonitorUnderPoint(rect platform.Rect, point platform.Point, monitors []platform.Monitor) platform.Rect {
	m, ok := monitorAt(point, monitors)
	if !ok {
		return rect
	}
	return clampInto(rect, m.WorkArea)
}

func clampInto(rect, wa platform.Rect) platform.Rect {
	if rect.Right() > wa.Right() {
		rect.X = wa.Right() - rect.W
	}
	if rect.Bottom() > wa.Bottom() {
		rect.Y = wa.Bottom() - rect.H
	}
	if rect.X < wa.X {
		rect.X = wa.X
	}
	if rect.Y < wa.Y {
		rect.Y = wa.Y
	}
	return rect
}
