//go:build windows

package win32

import (
	"sync"
	"unsafe"

	"golang.org/x/sys/windows"

	"activesticky/internal/platform"
)

var (
	monMu      sync.Mutex
	monResults []platform.Monitor
	monProc    = windows.NewCallback(enumMonitorsProc)
)

func enumMonitorsProc(hMonitor, _, _, _ uintptr) uintptr {
	mi := monitorInfo{}
	mi.cbSize = uint32(unsafe.Sizeof(mi))
	r, _, _ := procGetMonitorInfoW.Call(hMonitor, uintptr(unsafe.Pointer(&mi)))
	if r == 0 {
		return 1
	}
	monResults = append(monResults, platform.Monitor{
		Handle:   platform.Handle(hMonitor),
		Bounds:   toRect(mi.rcMonitor),
		WorkArea: toRect(mi.rcWork),
		Primary:  mi.dwFlags&monitorInfoFPrimary != 0,
	})
	return 1
}

func toRect(r windows.Rect) platform.Rect {
	return platform.Rect{
		X: int(r.Left),
		Y: int(r.Top),
		W: int(r.Right - r.Left),
		H: int(r.Bottom - r.Top),
	}
}

// Monitors implements platform.MonitorSource.
type Monitors struct{}

// NewMonitors creates a monitor source.
func NewMonitors() *Monitors {
	return &Monitors{}
}

// Monitors returns every attached monitor with its work area.
func (m *Monitors) Monitors() ([]platform.Monitor, error) {
	monMu.Lock()
	defer monMu.Unlock()

	monResults = nil
	r, _, err := procEnumDisplayMonitors.Call(0, 0, monProc, 0)
	found := monResults
	monResults = nil
	if r == 0 {
		return found, callErr("EnumDisplayMonitors", err)
	}
	return found, nil
}
