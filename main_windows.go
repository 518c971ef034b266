//go:build windows

package main

import (
	wailswindows "github.com/wailsapp/wails/v2/pkg/options/windows"

	_ "activesticky/internal/platform/win32"
)

// windowsOptions keeps the widget background see-through and off the taskbar.
func windowsOptions() *wailswindows.Options {
	return &wailswindows.Options{
		WebviewIsTransparent: true,
		WindowIsTranslucent:  true,
		DisableWindowIcon:    true,
	}
}
