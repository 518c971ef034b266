// Package hotkey owns the widget's system-wide key bindings: it registers
// them with the OS and turns WM_HOTKEY ids back into commands.
package hotkey

import (
	"log/slog"
	"sync"

	"github.com/samber/lo"

	"activesticky/internal/platform"
)

// EventKind identifies a hotkey event.
type EventKind int

const (
	HotkeyFired EventKind = iota + 1
)

// Event is delivered by the hotkey pump.
type Event struct {
	Kind EventKind
	ID   int
}

// Manager registers the binding table and dispatches fired hotkeys.
type Manager struct {
	reg platform.HotkeyRegistrar
	log *slog.Logger

	mu         sync.Mutex
	registered []int
	handler    func(Command)
}

// NewManager creates a manager that registers through reg.
func NewManager(reg platform.HotkeyRegistrar, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		reg: reg,
		log: logger.With("component", "hotkey"),
	}
}

// RegisterAll registers every binding against h and returns the ids that
// failed. The remaining bindings stay active.
func (m *Manager) RegisterAll(h platform.Handle) []int {
	m.mu.Lock()
	defer m.mu.Unlock()

	var failed []int
	for _, b := range bindings {
		if lo.Contains(m.registered, b.ID) {
			continue
		}
		if err := m.reg.RegisterHotKey(h, b.ID, b.Modifiers, b.Key); err != nil {
			// Usually another application already owns the combination.
			m.log.Warn("register hotkey", "id", b.ID, "combo", Describe(b), "error", err)
			failed = append(failed, b.ID)
			continue
		}
		m.registered = append(m.registered, b.ID)
	}

	m.log.Info("hotkeys registered", "ok", len(bindings)-len(failed), "failed", len(failed))
	return failed
}

// UnregisterAll attempts to release every binding id, including ones that
// never registered. Failures are ignored.
func (m *Manager) UnregisterAll(h platform.Handle) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, b := range bindings {
		if err := m.reg.UnregisterHotKey(h, b.ID); err != nil {
			m.log.Debug("unregister hotkey", "id", b.ID, "error", err)
		}
	}
	m.registered = nil
}

// Registered returns the ids currently registered.
func (m *Manager) Registered() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int(nil), m.registered...)
}

// OnHotkey installs the command callback, replacing any previous one.
func (m *Manager) OnHotkey(fn func(Command)) {
	m.mu.Lock()
	m.handler = fn
	m.mu.Unlock()
}

// Dispatch invokes the callback for the binding with the given id.
// Unknown ids are ignored.
func (m *Manager) Dispatch(id int) {
	b, ok := Lookup(id)
	if !ok {
		m.log.Debug("ignoring unknown hotkey id", "id", id)
		return
	}

	m.mu.Lock()
	fn := m.handler
	m.mu.Unlock()
	if fn == nil {
		return
	}
	fn(b.Command)
}

// Handle processes an event from the pump.
func (m *Manager) Handle(ev Event) {
	if ev.Kind != HotkeyFired {
		return
	}
	m.Dispatch(ev.ID)
}
