// Package winstyle switches the widget window between interactive and
// click-through presentation by editing its extended window style.
package winstyle

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"activesticky/internal/platform"
)

// Extended window style flags (WS_EX_*).
const (
	Transparent uint32 = 0x00000020
	ToolWindow  uint32 = 0x00000080
	Layered     uint32 = 0x00080000
	NoActivate  uint32 = 0x08000000

	// Always keeps the widget chromeless and off the taskbar.
	Always = Layered | ToolWindow
	// ClickThrough lets mouse input fall through and blocks focus.
	ClickThrough = Transparent | NoActivate
)

// ErrNoWindow is returned for a null window handle.
var ErrNoWindow = errors.New("no window handle")

// ExStyleFor returns current with the click-through bits set or cleared.
// Layered and ToolWindow are always set; every other bit is preserved.
func ExStyleFor(current uint32, enabled bool) uint32 {
	style := current | Always
	if enabled {
		return style | ClickThrough
	}
	return style &^ ClickThrough
}

// Controller applies style changes through a platform.StyleAccessor.
type Controller struct {
	styles platform.StyleAccessor
	log    *slog.Logger
}

// New creates a controller.
func New(styles platform.StyleAccessor, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		styles: styles,
		log:    logger.With("component", "winstyle"),
	}
}

// SetClickThrough switches h into or out of click-through mode. The style is
// only written when it changes. Failures are logged and returned; there is
// no retry since toggling again recovers a stale state.
func (c *Controller) SetClickThrough(h platform.Handle, enabled bool) error {
	if h.IsZero() {
		return ErrNoWindow
	}

	cur, err := c.styles.ExStyle(h)
	if err != nil {
		c.log.Warn("read extended style", "hwnd", h.String(), "error", err)
		return fmt.Errorf("read extended style: %w", err)
	}

	next := ExStyleFor(cur, enabled)
	if next == cur {
		return nil
	}
	if err := c.styles.SetExStyle(h, next); err != nil {
		c.log.Warn("write extended style", "hwnd", h.String(), "click_through", enabled, "error", err)
		return fmt.Errorf("write extended style: %w", err)
	}

	c.log.Debug("click-through applied", "hwnd", h.String(), "enabled", enabled,
		"from", fmt.Sprintf("0x%08X", cur), "to", fmt.Sprintf("0x%08X", next))
	return nil
}

// Alpha converts an opacity in [0.1,1.0] to a layered-window alpha byte.
func Alpha(opacity float64) byte {
	opacity = math.Max(0.1, math.Min(1.0, opacity))
	return byte(math.Round(opacity * 255))
}

// SetOpacity sets the whole-window opacity of h. The window must be layered,
// so Layered is ensured first.
func (c *Controller) SetOpacity(h platform.Handle, opacity float64) error {
	if h.IsZero() {
		return ErrNoWindow
	}

	cur, err := c.styles.ExStyle(h)
	if err != nil {
		c.log.Warn("read extended style", "hwnd", h.String(), "error", err)
		return fmt.Errorf("read extended style: %w", err)
	}
	if cur&Layered == 0 {
		if err := c.styles.SetExStyle(h, cur|Layered); err != nil {
			c.log.Warn("set layered style", "hwnd", h.String(), "error", err)
			return fmt.Errorf("set layered style: %w", err)
		}
	}

	if err := c.styles.SetAlpha(h, Alpha(opacity)); err != nil {
		c.log.Warn("set window alpha", "hwnd", h.String(), "opacity", opacity, "error", err)
		return fmt.Errorf("set window alpha: %w", err)
	}
	return nil
}
