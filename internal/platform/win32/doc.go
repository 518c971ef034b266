// Package win32 provides the Windows platform backend on user32.dll via
// golang.org/x/sys/windows. On other systems the package is empty and
// platform.NewProvider reports platform.ErrUnsupported.
package win32
