// Package session wires the native integration pieces together: it runs
// the startup takeover sequence and exposes the command surface the shell
// and the overlay service call into.
package session

import (
	"log/slog"
	"time"

	"activesticky/internal/geometry"
	"activesticky/internal/hotkey"
	"activesticky/internal/instance"
	"activesticky/internal/platform"
	"activesticky/internal/state"
	"activesticky/internal/winstyle"
)

const (
	// DefaultTitle is the widget's window title, which also identifies
	// a running instance.
	DefaultTitle = "ActiveSticky"

	// DefaultEvictTimeout bounds the wait for a prior instance to close.
	DefaultEvictTimeout = 2 * time.Second
)

// Options configures a Session.
type Options struct {
	Title        string
	EvictTimeout time.Duration
}

// Startup describes the state the widget starts with.
type Startup struct {
	State   state.PersistedState
	Fresh   bool // no state file existed once eviction was handled
	Outcome instance.Outcome
}

// Session owns the core components for one running widget.
type Session struct {
	opts Options
	log  *slog.Logger

	store     *state.Store
	geometry  *geometry.Guard
	styles    *winstyle.Controller
	instances *instance.Guard
	hotkeys   *hotkey.Manager
}

// New assembles a session over the platform backend p.
func New(p platform.Provider, store *state.Store, opts Options, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Title == "" {
		opts.Title = DefaultTitle
	}
	if opts.EvictTimeout <= 0 {
		opts.EvictTimeout = DefaultEvictTimeout
	}

	return &Session{
		opts:      opts,
		log:       logger.With("component", "session"),
		store:     store,
		geometry:  geometry.NewGuard(p.Monitors, logger),
		styles:    winstyle.New(p.Styles, logger),
		instances: instance.NewGuard(p.Windows, logger),
		hotkeys:   hotkey.NewManager(p.Hotkeys, logger),
	}
}

// Title returns the window title used to identify instances.
func (s *Session) Title() string {
	return s.opts.Title
}

// Store returns the state store.
func (s *Session) Store() *state.Store {
	return s.store
}

// Geometry returns the geometry guard.
func (s *Session) Geometry() *geometry.Guard {
	return s.geometry
}

// Evict closes any prior instance and reports the outcome.
func (s *Session) Evict() instance.Outcome {
	return s.instances.EvictByTitle(s.opts.Title, s.opts.EvictTimeout)
}

// OwnWindow resolves this process's widget window.
func (s *Session) OwnWindow() (platform.Handle, bool) {
	return s.instances.OwnWindow(s.opts.Title)
}

// EvictPriorInstance reports whether a prior instance existed.
func (s *Session) EvictPriorInstance() bool {
	return s.Evict().Found()
}

// Start runs the takeover sequence: evict any prior instance, reset the
// saved state when the eviction was confirmed, then load the state and
// bring its geometry back on screen.
func (s *Session) Start() Startup {
	outcome := s.Evict()

	switch outcome {
	case instance.Evicted:
		s.log.Info("prior instance closed, starting fresh")
		s.store.Delete()
	case instance.EvictionTimedOut:
		// The old process may still write; keep its state rather than
		// delete a file it could recreate.
		s.log.Warn("prior instance did not close in time, keeping saved state",
			"timeout", s.opts.EvictTimeout)
	}

	fresh := !s.store.Exists()
	st := s.store.Load()

	rect := platform.Rect{X: st.X, Y: st.Y, W: st.W, H: st.H}
	if fixed := s.geometry.ValidateGeometry(rect); fixed != rect {
		s.log.Info("restored geometry corrected", "from", rect.String(), "to", fixed.String())
		st.X, st.Y, st.W, st.H = fixed.X, fixed.Y, fixed.W, fixed.H
		s.store.Save(st)
	}

	return Startup{State: st, Fresh: fresh, Outcome: outcome}
}

// LoadState reads the persisted state.
func (s *Session) LoadState() state.PersistedState {
	return s.store.Load()
}

// SaveState persists st.
func (s *Session) SaveState(st state.PersistedState) {
	s.store.Save(st)
}

// DeleteState removes the persisted state.
func (s *Session) DeleteState() {
	s.store.Delete()
}

// ApplyClickThrough switches h into or out of click-through mode.
func (s *Session) ApplyClickThrough(h platform.Handle, enabled bool) error {
	return s.styles.SetClickThrough(h, enabled)
}

// ApplyOpacity sets the window opacity of h.
func (s *Session) ApplyOpacity(h platform.Handle, opacity float64) error {
	return s.styles.SetOpacity(h, opacity)
}

// RegisterHotkeys registers the binding table against h and returns the
// ids that could not be registered.
func (s *Session) RegisterHotkeys(h platform.Handle) []int {
	return s.hotkeys.RegisterAll(h)
}

// UnregisterHotkeys releases the hotkeys registered against h.
func (s *Session) UnregisterHotkeys(h platform.Handle) {
	s.hotkeys.UnregisterAll(h)
}

// OnHotkey installs the command callback.
func (s *Session) OnHotkey(fn func(hotkey.Command)) {
	s.hotkeys.OnHotkey(fn)
}

// HandleHotkey dispatches a fired hotkey id.
func (s *Session) HandleHotkey(id int) {
	s.hotkeys.Handle(hotkey.Event{Kind: hotkey.HotkeyFired, ID: id})
}

// ValidateGeometry returns rect, or a safe on-screen fallback when rect is
// not visible on any monitor.
func (s *Session) ValidateGeometry(rect platform.Rect) platform.Rect {
	return s.geometry.ValidateGeometry(rect)
}

// ClampDuringDrag keeps a dragged rect inside the monitor under point.
func (s *Session) ClampDuringDrag(rect platform.Rect, point platform.Point) platform.Rect {
	return s.geometry.ClampDuringDrag(rect, point)
}
