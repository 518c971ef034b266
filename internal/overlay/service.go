package overlay

import (
	"fmt"
	"log/slog"
	"math"
	"strings"
	"sync"
	"unicode/utf8"

	"activesticky/internal/autohide"
	"activesticky/internal/hotkey"
	"activesticky/internal/platform"
	"activesticky/internal/session"
	"activesticky/internal/state"
)

const (
	appName = "ActiveSticky"

	// EmptyText replaces a note that was cleared or committed blank.
	EmptyText = "Active task"

	MoveStep    = 10
	OpacityStep = 0.1

	MinWidth  = 200
	MinHeight = 80

	tooltipChars = 30
)

// Window is the shell window the service drives.
type Window interface {
	SetBounds(r platform.Rect)
	Show()
	Hide()
	Focus()
	Notify(title, message string)
}

// Settings holds the values edited in the settings form.
type Settings struct {
	FontFamily    string  `json:"font_family"`
	FontPt        float64 `json:"font_pt"`
	Theme         string  `json:"theme"`
	Opacity       float64 `json:"opacity"`
	WordWrap      bool    `json:"word_wrap"`
	AutoHideTimer int     `json:"auto_hide_timer"`
}

// Snapshot is the widget state handed to the frontend.
type Snapshot struct {
	State   state.PersistedState `json:"state"`
	Visible bool                 `json:"visible"`
	Editing bool                 `json:"editing"`
	Tooltip string               `json:"tooltip"`
}

type dragOrigin struct {
	cursor  platform.Point
	topLeft platform.Point
}

// Service manages the widget's behaviour. Every change that affects the
// persisted state is saved through the session before the call returns.
type Service struct {
	session *session.Session
	window  Window
	hider   *autohide.Hider
	log     *slog.Logger

	mu       sync.RWMutex
	st       state.PersistedState
	handle   platform.Handle
	visible  bool
	editing  bool
	drag     *dragOrigin
	onChange func(Snapshot)
}

// New creates a service that starts from initial.
func New(sess *session.Session, win Window, initial state.PersistedState, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		session: sess,
		window:  win,
		log:     logger.With("component", "overlay"),
		st:      initial,
		visible: true,
	}
	s.hider = autohide.New(s.autoHide, logger)
	return s
}

// OnChange installs a callback invoked with the new snapshot after every
// change. It runs outside the service lock.
func (s *Service) OnChange(fn func(Snapshot)) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

// mutate runs fn under the lock and publishes the snapshot when fn reports
// a change.
func (s *Service) mutate(fn func() bool) {
	s.mu.Lock()
	changed := fn()
	snap := s.snapshotLocked()
	cb := s.onChange
	s.mu.Unlock()

	if changed && cb != nil {
		cb(snap)
	}
}

// Attach binds the service to the native window once it exists and applies
// the persisted click-through and opacity.
func (s *Service) Attach(h platform.Handle) {
	s.mutate(func() bool {
		s.handle = h
		s.applyStyleLocked()
		s.hider.Configure(s.st.AutoHideTimer)
		return true
	})
}

// Detach stops the auto-hide timer and forgets the native window.
func (s *Service) Detach() {
	s.hider.Stop()
	s.mu.Lock()
	s.handle = 0
	s.mu.Unlock()
}

func (s *Service) applyStyleLocked() {
	if s.handle.IsZero() {
		return
	}
	if err := s.session.ApplyClickThrough(s.handle, s.st.ClickThrough); err != nil {
		s.log.Warn("apply click-through", "error", err)
	}
	if err := s.session.ApplyOpacity(s.handle, s.st.Opacity); err != nil {
		s.log.Warn("apply opacity", "error", err)
	}
}

func (s *Service) saveLocked() {
	s.session.SaveState(s.st)
}

func (s *Service) rectLocked() platform.Rect {
	return platform.Rect{X: s.st.X, Y: s.st.Y, W: s.st.W, H: s.st.H}
}

func (s *Service) setRectLocked(r platform.Rect) {
	s.st.X, s.st.Y, s.st.W, s.st.H = r.X, r.Y, r.W, r.H
	s.window.SetBounds(r)
}

// Touch records user interaction, restarting the auto-hide countdown.
func (s *Service) Touch() {
	s.hider.Reset()
}

func (s *Service) autoHide() {
	s.mutate(func() bool {
		if !s.visible || s.editing {
			return false
		}
		s.visible = false
		s.window.Hide()
		return true
	})
}

// BeginEdit opens the editor. Click-through is switched off first so the
// editor can take input. It returns the text to edit.
func (s *Service) BeginEdit() string {
	var text string
	s.mutate(func() bool {
		if s.st.ClickThrough {
			s.setClickThroughLocked(false)
		}
		s.editing = true
		if !s.visible {
			s.visible = true
			s.window.Show()
		}
		s.window.Focus()
		s.hider.Reset()
		text = s.st.Text
		return true
	})
	return text
}

// CommitEdit stores the edited text, trimmed. Blank text becomes EmptyText.
func (s *Service) CommitEdit(text string) Snapshot {
	s.mutate(func() bool {
		text = strings.TrimSpace(text)
		if text == "" {
			text = EmptyText
		}
		s.st.Text = text
		s.editing = false
		s.saveLocked()
		s.hider.Reset()
		return true
	})
	return s.Snapshot()
}

// CancelEdit closes the editor without saving.
func (s *Service) CancelEdit() {
	s.mutate(func() bool {
		if !s.editing {
			return false
		}
		s.editing = false
		return true
	})
}

// ClearText resets the note to EmptyText.
func (s *Service) ClearText() {
	s.mutate(func() bool {
		s.st.Text = EmptyText
		s.saveLocked()
		return true
	})
}

// ToggleClickThrough flips click-through mode and returns the new value.
func (s *Service) ToggleClickThrough() bool {
	var enabled bool
	s.mutate(func() bool {
		enabled = !s.st.ClickThrough
		s.setClickThroughLocked(enabled)
		word := "disabled"
		if enabled {
			word = "enabled"
		}
		s.window.Notify(appName, "Click-through "+word)
		return true
	})
	return enabled
}

func (s *Service) setClickThroughLocked(enabled bool) {
	s.st.ClickThrough = enabled
	if !s.handle.IsZero() {
		if err := s.session.ApplyClickThrough(s.handle, enabled); err != nil {
			s.log.Warn("apply click-through", "enabled", enabled, "error", err)
		}
	}
	if enabled {
		s.drag = nil
	}
	s.saveLocked()
}

// AdjustOpacity changes opacity by delta within [0.1,1.0]. Nothing is saved
// when the value does not change.
func (s *Service) AdjustOpacity(delta float64) float64 {
	var opacity float64
	s.mutate(func() bool {
		next := roundOpacity(state.ClampOpacity(s.st.Opacity + delta))
		opacity = next
		if next == s.st.Opacity {
			return false
		}
		s.st.Opacity = next
		if !s.handle.IsZero() {
			if err := s.session.ApplyOpacity(s.handle, next); err != nil {
				s.log.Warn("apply opacity", "opacity", next, "error", err)
			}
		}
		s.saveLocked()
		return true
	})
	return opacity
}

// roundOpacity avoids float drift from repeated 0.1 steps.
func roundOpacity(o float64) float64 {
	return math.Round(o*100) / 100
}

// Move shifts the widget by (dx,dy), keeping it inside the monitor under
// its new top-left corner.
func (s *Service) Move(dx, dy int) platform.Rect {
	var out platform.Rect
	s.mutate(func() bool {
		old := s.rectLocked()
		moved := old
		moved.X += dx
		moved.Y += dy
		out = s.session.Geometry().ClampMove(old, moved)
		s.setRectLocked(out)
		s.saveLocked()
		s.hider.Reset()
		return true
	})
	return out
}

// ResizeBy grows or shrinks the widget, never below MinWidth x MinHeight.
func (s *Service) ResizeBy(dw, dh int) platform.Rect {
	var out platform.Rect
	s.mutate(func() bool {
		r := s.rectLocked()
		r.W = max(MinWidth, r.W+dw)
		r.H = max(MinHeight, r.H+dh)
		out = s.session.Geometry().ClampInPlace(r)
		s.setRectLocked(out)
		s.saveLocked()
		return true
	})
	return out
}

// ResetSize restores the default size at the current position.
func (s *Service) ResetSize() platform.Rect {
	var out platform.Rect
	s.mutate(func() bool {
		r := s.rectLocked()
		r.W, r.H = state.DefaultWidth, state.DefaultHeight
		out = s.session.Geometry().ClampInPlace(r)
		s.setRectLocked(out)
		s.saveLocked()
		return true
	})
	return out
}

// SetTheme switches the colour theme.
func (s *Service) SetTheme(name string) error {
	theme, ok := state.ParseTheme(name)
	if !ok {
		return fmt.Errorf("unknown theme %q", name)
	}
	s.mutate(func() bool {
		if s.st.Theme == theme {
			return false
		}
		s.st.Theme = theme
		s.saveLocked()
		return true
	})
	return nil
}

// ApplySettings stores the settings form. Out-of-range values fall back to
// their defaults the same way a loaded document does.
func (s *Service) ApplySettings(in Settings) error {
	theme, ok := state.ParseTheme(in.Theme)
	if !ok {
		return fmt.Errorf("unknown theme %q", in.Theme)
	}

	s.mutate(func() bool {
		next := s.st
		next.FontFamily = strings.TrimSpace(in.FontFamily)
		next.FontPt = in.FontPt
		next.Theme = theme
		next.Opacity = roundOpacity(in.Opacity)
		next.WordWrap = in.WordWrap
		next.AutoHideTimer = in.AutoHideTimer
		s.st = next.Normalized()

		if !s.handle.IsZero() {
			if err := s.session.ApplyOpacity(s.handle, s.st.Opacity); err != nil {
				s.log.Warn("apply opacity", "opacity", s.st.Opacity, "error", err)
			}
		}
		s.hider.Configure(s.st.AutoHideTimer)
		s.saveLocked()
		return true
	})
	return nil
}

// ToggleVisibility hides a visible widget or shows and focuses a hidden one.
// It returns the new visibility.
func (s *Service) ToggleVisibility() bool {
	var visible bool
	s.mutate(func() bool {
		s.visible = !s.visible
		if s.visible {
			s.window.Show()
			s.window.Focus()
			s.hider.Reset()
		} else {
			s.window.Hide()
		}
		visible = s.visible
		return true
	})
	return visible
}

// IsVisible reports whether the widget is shown.
func (s *Service) IsVisible() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.visible
}

// BeginDrag starts a mouse drag at cursor. Dragging is unavailable in
// click-through mode; false is returned then.
func (s *Service) BeginDrag(cursor platform.Point) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.hider.Reset()
	if s.st.ClickThrough {
		return false
	}
	s.drag = &dragOrigin{cursor: cursor, topLeft: s.rectLocked().TopLeft()}
	return true
}

// DragTo moves the widget with the cursor, clamped to the monitor under the
// new top-left corner. Geometry is saved on EndDrag.
func (s *Service) DragTo(cursor platform.Point) platform.Rect {
	var out platform.Rect
	s.mutate(func() bool {
		out = s.rectLocked()
		if s.drag == nil {
			return false
		}
		next := out
		next.X = s.drag.topLeft.X + cursor.X - s.drag.cursor.X
		next.Y = s.drag.topLeft.Y + cursor.Y - s.drag.cursor.Y
		out = s.session.ClampDuringDrag(next, next.TopLeft())
		s.setRectLocked(out)
		return true
	})
	return out
}

// EndDrag finishes a drag and saves the final geometry.
func (s *Service) EndDrag() {
	s.mutate(func() bool {
		if s.drag == nil {
			return false
		}
		s.drag = nil
		s.saveLocked()
		return true
	})
}

// Snapshot returns the current widget state.
func (s *Service) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Service) snapshotLocked() Snapshot {
	return Snapshot{
		State:   s.st,
		Visible: s.visible,
		Editing: s.editing,
		Tooltip: tooltip(s.st.Text),
	}
}

// TooltipText returns the tray tooltip for the current note.
func (s *Service) TooltipText() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return tooltip(s.st.Text)
}

func tooltip(text string) string {
	if utf8.RuneCountInString(text) <= tooltipChars {
		return appName + " - " + text
	}
	return appName + " - " + string([]rune(text)[:tooltipChars]) + "..."
}

// ReplaceState adopts a state document edited outside the widget.
// The document is not written back.
func (s *Service) ReplaceState(st state.PersistedState) {
	s.mutate(func() bool {
		st = st.Normalized()
		rect := platform.Rect{X: st.X, Y: st.Y, W: st.W, H: st.H}
		rect = s.session.ValidateGeometry(rect)

		s.st = st
		s.setRectLocked(rect)
		s.applyStyleLocked()
		s.hider.Configure(st.AutoHideTimer)
		s.log.Info("state reloaded from disk")
		return true
	})
}

// Notify shows a message to the user.
func (s *Service) Notify(message string) {
	s.window.Notify(appName, message)
}

// Welcome shows the first-run hint.
func (s *Service) Welcome() {
	s.window.Notify(appName, "Welcome! Right-click for options, Ctrl+Alt+T to edit.")
}

// HandleCommand runs the action bound to a hotkey.
func (s *Service) HandleCommand(cmd hotkey.Command) {
	switch cmd {
	case hotkey.CmdEdit:
		s.BeginEdit()
	case hotkey.CmdToggleClickThrough:
		s.ToggleClickThrough()
	case hotkey.CmdMoveLeft:
		s.Move(-MoveStep, 0)
	case hotkey.CmdMoveRight:
		s.Move(MoveStep, 0)
	case hotkey.CmdMoveUp:
		s.Move(0, -MoveStep)
	case hotkey.CmdMoveDown:
		s.Move(0, MoveStep)
	case hotkey.CmdToggleVisibility:
		s.ToggleVisibility()
	case hotkey.CmdOpacityUp:
		s.AdjustOpacity(OpacityStep)
	case hotkey.CmdOpacityDown:
		s.AdjustOpacity(-OpacityStep)
	default:
		s.log.Debug("ignoring command", "command", cmd.String())
	}
}
