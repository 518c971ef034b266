//go:build windows

package win32

import (
	"fmt"
	"sync"
	"unsafe"

	"golang.org/x/sys/windows"

	"activesticky/internal/platform"
)

// Pool of UTF-16 buffers for GetWindowTextW
var titleBufPool = sync.Pool{
	New: func() any {
		buf := make([]uint16, 256)
		return &buf
	},
}

// EnumWindows invokes a single callback created once per process, so
// concurrent enumerations are serialized through enumMu.
var (
	enumMu      sync.Mutex
	enumResults []platform.Window
	enumProc    = windows.NewCallback(enumWindowsProc)
)

func enumWindowsProc(hwnd, _ uintptr) uintptr {
	// A failure on one window must not abort the scan.
	defer func() { _ = recover() }()

	if !isWindowVisible(hwnd) {
		return 1
	}
	var pid uint32
	procGetWindowThreadProcessId.Call(hwnd, uintptr(unsafe.Pointer(&pid)))
	enumResults = append(enumResults, platform.Window{
		Handle: platform.Handle(hwnd),
		Title:  windowText(hwnd),
		PID:    int(pid),
	})
	return 1
}

func isWindowVisible(hwnd uintptr) bool {
	r, _, _ := procIsWindowVisible.Call(hwnd)
	return r != 0
}

func windowText(hwnd uintptr) string {
	l, _, _ := procGetWindowTextLengthW.Call(hwnd)
	length := int(l)
	if length == 0 {
		return ""
	}

	p := titleBufPool.Get().(*[]uint16)
	buf := *p
	if cap(buf) < length+1 {
		buf = make([]uint16, length+1)
	} else {
		buf = buf[:length+1]
		defer titleBufPool.Put(p)
	}

	n, _, _ := procGetWindowTextW.Call(hwnd, uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	if n == 0 {
		return ""
	}
	return windows.UTF16ToString(buf[:n])
}

// Enumerator implements platform.WindowEnumerator.
type Enumerator struct{}

// NewEnumerator creates a window enumerator.
func NewEnumerator() *Enumerator {
	return &Enumerator{}
}

// VisibleWindows returns all visible top-level windows in z-order.
func (e *Enumerator) VisibleWindows() ([]platform.Window, error) {
	enumMu.Lock()
	defer enumMu.Unlock()

	enumResults = nil
	r, _, err := procEnumWindows.Call(enumProc, 0)
	found := enumResults
	enumResults = nil
	if r == 0 && failed(err) {
		return found, callErr("EnumWindows", err)
	}
	return found, nil
}

// PostClose posts WM_CLOSE to h.
func (e *Enumerator) PostClose(h platform.Handle) error {
	if h.IsZero() {
		return fmt.Errorf("post close: null window handle")
	}
	r, _, err := procPostMessageW.Call(uintptr(h), wmClose, 0, 0)
	if r == 0 {
		return callErr("PostMessageW(WM_CLOSE)", err)
	}
	return nil
}
