//go:build windows

package win32

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"
	"unsafe"

	"golang.org/x/sys/windows"

	"activesticky/internal/platform"
)

// ErrPumpStopped is returned when the hotkey pump is not running.
var ErrPumpStopped = errors.New("hotkey pump not running")

// HotkeyPump implements platform.HotkeyHost. It owns a message-only window
// on a dedicated locked OS thread. RegisterHotKey only accepts windows of
// the calling thread, so registration calls are marshalled onto that thread.
type HotkeyPump struct {
	mu    sync.Mutex
	hwnd  platform.Handle
	tid   uint32
	calls chan func()
	done  chan struct{}
}

// NewHotkeyPump creates a stopped pump.
func NewHotkeyPump() *HotkeyPump {
	return &HotkeyPump{}
}

// Start launches the message loop and returns the message window handle.
func (p *HotkeyPump) Start(handler func(id int)) (platform.Handle, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.done != nil {
		return p.hwnd, nil // already running
	}

	p.calls = make(chan func(), 16)
	done := make(chan struct{})
	ready := make(chan error, 1)
	go p.loop(handler, ready, done)

	if err := <-ready; err != nil {
		return 0, err
	}
	p.done = done
	return p.hwnd, nil
}

func (p *HotkeyPump) loop(handler func(id int), ready chan<- error, done chan struct{}) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(done)

	hwnd, err := createMessageWindow()
	if err != nil {
		ready <- err
		return
	}
	p.tid = windows.GetCurrentThreadId()
	p.hwnd = hwnd
	ready <- nil

	var m msg
	for {
		r, _, _ := procGetMessageW.Call(uintptr(unsafe.Pointer(&m)), 0, 0, 0)
		if int32(r) <= 0 {
			// 0 is WM_QUIT, -1 an invalid call.
			break
		}

		switch m.message {
		case wmHotkey:
			if handler != nil {
				handler(int(m.wParam))
			}
		case wmRunCalls:
			p.drain()
		default:
			procTranslateMessage.Call(uintptr(unsafe.Pointer(&m)))
			procDispatchMessageW.Call(uintptr(unsafe.Pointer(&m)))
		}
	}

	p.drain()
	procDestroyWindow.Call(uintptr(hwnd))
}

func (p *HotkeyPump) drain() {
	for {
		select {
		case fn := <-p.calls:
			fn()
		default:
			return
		}
	}
}

func createMessageWindow() (platform.Handle, error) {
	class, _ := windows.UTF16PtrFromString("STATIC")
	title, _ := windows.UTF16PtrFromString("ActiveSticky hotkeys")
	hwnd, _, err := procCreateWindowExW.Call(
		0,
		uintptr(unsafe.Pointer(class)),
		uintptr(unsafe.Pointer(title)),
		0,
		0, 0, 0, 0,
		hwndMessage,
		0, 0, 0,
	)
	if hwnd == 0 {
		return 0, callErr("CreateWindowExW", err)
	}
	return platform.Handle(hwnd), nil
}

// run executes fn on the pump thread and waits for its result.
func (p *HotkeyPump) run(fn func() error) error {
	p.mu.Lock()
	done, tid := p.done, p.tid
	p.mu.Unlock()
	if done == nil {
		return ErrPumpStopped
	}

	result := make(chan error, 1)
	select {
	case p.calls <- func() { result <- fn() }:
	case <-done:
		return ErrPumpStopped
	}

	r, _, err := procPostThreadMessageW.Call(uintptr(tid), wmRunCalls, 0, 0)
	if r == 0 {
		return callErr("PostThreadMessageW", err)
	}

	select {
	case err := <-result:
		return err
	case <-done:
		return ErrPumpStopped
	}
}

// RegisterHotKey registers a system-wide hotkey against h.
func (p *HotkeyPump) RegisterHotKey(h platform.Handle, id int, modifiers, key uint32) error {
	return p.run(func() error {
		r, _, err := procRegisterHotKey.Call(uintptr(h), uintptr(id), uintptr(modifiers), uintptr(key))
		if r == 0 {
			return callErr(fmt.Sprintf("RegisterHotKey(id=%d)", id), err)
		}
		return nil
	})
}

// UnregisterHotKey releases hotkey id of h.
func (p *HotkeyPump) UnregisterHotKey(h platform.Handle, id int) error {
	return p.run(func() error {
		r, _, err := procUnregisterHotKey.Call(uintptr(h), uintptr(id))
		if r == 0 {
			return callErr(fmt.Sprintf("UnregisterHotKey(id=%d)", id), err)
		}
		return nil
	})
}

// Stop posts WM_QUIT to the pump thread and waits for it to exit.
func (p *HotkeyPump) Stop() error {
	p.mu.Lock()
	done, tid := p.done, p.tid
	p.done = nil
	p.mu.Unlock()
	if done == nil {
		return nil
	}

	r, _, err := procPostThreadMessageW.Call(uintptr(tid), wmQuit, 0, 0)
	if r == 0 {
		return callErr("PostThreadMessageW(WM_QUIT)", err)
	}

	select {
	case <-done:
		return nil
	case <-time.After(2 * time.Second):
		return fmt.Errorf("hotkey pump did not stop")
	}
}
