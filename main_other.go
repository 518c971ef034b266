//go:build !windows

package main

import wailswindows "github.com/wailsapp/wails/v2/pkg/options/windows"

// windowsOptions is unused off Windows; platform.NewProvider reports the
// platform as unsupported before the shell starts.
func windowsOptions() *wailswindows.Options {
	return nil
}
