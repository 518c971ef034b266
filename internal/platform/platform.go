package platform

// WindowEnumerator lists top-level windows and asks them to close.
type WindowEnumerator interface {
	// VisibleWindows returns every visible top-level window on the system.
	// A window whose title cannot be read is reported with an empty title.
	VisibleWindows() ([]Window, error)

	// PostClose posts a close request to h without waiting for it.
	PostClose(h Handle) error
}

// StyleAccessor reads and writes the extended style slot of a window.
type StyleAccessor interface {
	ExStyle(h Handle) (uint32, error)
	SetExStyle(h Handle, style uint32) error

	// SetAlpha sets the constant alpha of a layered window.
	SetAlpha(h Handle, alpha byte) error
}

// WindowPlacer moves and sizes a window in virtual desktop coordinates.
type WindowPlacer interface {
	SetBounds(h Handle, r Rect) error
}

// HotkeyRegistrar registers system-wide hotkeys against a window.
type HotkeyRegistrar interface {
	RegisterHotKey(h Handle, id int, modifiers, key uint32) error
	UnregisterHotKey(h Handle, id int) error
}

// HotkeyHost owns the message loop that receives hotkey notifications.
type HotkeyHost interface {
	HotkeyRegistrar

	// Start runs the message loop and returns the handle hotkeys must be
	// registered against. handler is called on the loop thread with the
	// id of every hotkey that fires.
	Start(handler func(id int)) (Handle, error)

	// Stop ends the message loop.
	Stop() error
}

// MonitorSource queries the current monitor configuration.
type MonitorSource interface {
	Monitors() ([]Monitor, error)
}
