//go:build windows

package win32

import "activesticky/internal/platform"

func init() {
	platform.NewProviderFunc = func() (*platform.Provider, error) {
		return &platform.Provider{
			Windows:  NewEnumerator(),
			Styles:   NewStyles(),
			Placer:   NewPlacer(),
			Hotkeys:  NewHotkeyPump(),
			Monitors: NewMonitors(),
		}, nil
	}
}
