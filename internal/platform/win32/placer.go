//go:build windows

package win32

import "activesticky/internal/platform"

// Placer implements platform.WindowPlacer.
type Placer struct{}

// NewPlacer creates a window placer.
func NewPlacer() *Placer {
	return &Placer{}
}

// SetBounds moves and sizes h without changing its z-order or activating it.
func (p *Placer) SetBounds(h platform.Handle, r platform.Rect) error {
	r1, _, err := procSetWindowPos.Call(
		uintptr(h), 0,
		uintptr(int32(r.X)), uintptr(int32(r.Y)),
		uintptr(int32(r.W)), uintptr(int32(r.H)),
		swpNoZOrder|swpNoActivate,
	)
	if r1 == 0 {
		return callErr("SetWindowPos", err)
	}
	return nil
}
