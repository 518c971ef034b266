//go:build windows

package win32

import (
	"runtime"

	"golang.org/x/sys/windows"

	"activesticky/internal/platform"
)

// Styles implements platform.StyleAccessor.
type Styles struct{}

// NewStyles creates a style accessor.
func NewStyles() *Styles {
	return &Styles{}
}

// The *Ptr variants only exist in 64-bit user32; 32-bit builds fall back
// to the plain ones, which address the same slot.
func getLongProc() *windows.LazyProc {
	if procGetWindowLongPtrW.Find() == nil {
		return procGetWindowLongPtrW
	}
	return procGetWindowLongW
}

func setLongProc() *windows.LazyProc {
	if procSetWindowLongPtrW.Find() == nil {
		return procSetWindowLongPtrW
	}
	return procSetWindowLongW
}

// ExStyle reads GWL_EXSTYLE of h.
func (s *Styles) ExStyle(h platform.Handle) (uint32, error) {
	// The last-error slot is per thread.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	idx := gwlExStyle
	clearLastError()
	r, _, err := getLongProc().Call(uintptr(h), uintptr(idx))
	if r == 0 && failed(err) {
		return 0, callErr("GetWindowLongPtrW", err)
	}
	return uint32(r), nil
}

// SetExStyle writes GWL_EXSTYLE of h.
func (s *Styles) SetExStyle(h platform.Handle, style uint32) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	idx := gwlExStyle
	clearLastError()
	r, _, err := setLongProc().Call(uintptr(h), uintptr(idx), uintptr(style))
	if r == 0 && failed(err) {
		return callErr("SetWindowLongPtrW", err)
	}
	return nil
}

// SetAlpha sets the constant alpha of the layered window h.
func (s *Styles) SetAlpha(h platform.Handle, alpha byte) error {
	r, _, err := procSetLayeredWindowAttributes.Call(uintptr(h), 0, uintptr(alpha), lwaAlpha)
	if r == 0 {
		return callErr("SetLayeredWindowAttributes", err)
	}
	return nil
}
