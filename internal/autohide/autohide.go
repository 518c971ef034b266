// Package autohide hides the widget after a period without interaction.
package autohide

import (
	"log/slog"
	"sync"
	"time"
)

// timer is the subset of *time.Timer the hider uses.
type timer interface {
	Stop() bool
}

// Hider runs a single-shot timer that calls hide once the configured number
// of minutes has passed since the last Reset. Zero minutes disables it.
type Hider struct {
	hide func()
	log  *slog.Logger

	mu      sync.Mutex
	minutes int
	timer   timer
	gen     uint64

	// Overridable in tests.
	unit      time.Duration
	afterFunc func(time.Duration, func()) timer
}

// New creates a disabled hider.
func New(hide func(), logger *slog.Logger) *Hider {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hider{
		hide: hide,
		log:  logger.With("component", "autohide"),
		unit: time.Minute,
		afterFunc: func(d time.Duration, fn func()) timer {
			return time.AfterFunc(d, fn)
		},
	}
}

// Configure sets the delay in minutes and restarts the timer.
func (h *Hider) Configure(minutes int) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if minutes < 0 {
		minutes = 0
	}
	if minutes != h.minutes {
		h.log.Debug("auto-hide configured", "minutes", minutes)
	}
	h.minutes = minutes
	h.restartLocked()
}

// Reset restarts the countdown. It is a no-op while disabled.
func (h *Hider) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.restartLocked()
}

// Stop cancels any pending countdown without changing the configuration.
func (h *Hider) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.stopLocked()
}

// Minutes returns the configured delay.
func (h *Hider) Minutes() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.minutes
}

func (h *Hider) stopLocked() {
	if h.timer != nil {
		h.timer.Stop()
		h.timer = nil
	}
	h.gen++
}

func (h *Hider) restartLocked() {
	h.stopLocked()
	if h.minutes == 0 {
		return
	}

	gen := h.gen
	h.timer = h.afterFunc(time.Duration(h.minutes)*h.unit, func() {
		h.fire(gen)
	})
}

func (h *Hider) fire(gen uint64) {
	h.mu.Lock()
	if gen != h.gen {
		// Superseded by a later Reset or Stop.
		h.mu.Unlock()
		return
	}
	h.timer = nil
	h.mu.Unlock()

	h.log.Info("auto-hiding after inactivity")
	if h.hide != nil {
		h.hide()
	}
}
