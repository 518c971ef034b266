package main

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/samber/lo"
	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
	wruntime "github.com/wailsapp/wails/v2/pkg/runtime"

	"activesticky/internal/hotkey"
	"activesticky/internal/logging"
	"activesticky/internal/overlay"
	"activesticky/internal/platform"
	"activesticky/internal/session"
	"activesticky/internal/state"
)

//go:embed all:frontend/dist
var assets embed.FS

const logFileName = "activesticky.log"

// App struct
type App struct {
	ctx      context.Context
	log      *slog.Logger
	provider *platform.Provider
	session  *session.Session
	startup  session.Startup
	overlay  *overlay.Service
	watcher  *state.Watcher
	window   *shellWindow

	hotkeyHwnd platform.Handle
}

// NewApp creates a new App application struct
func NewApp(p *platform.Provider, sess *session.Session, startup session.Startup, logger *slog.Logger) *App {
	return &App{
		log:      logger.With("component", "app"),
		provider: p,
		session:  sess,
		startup:  startup,
	}
}

// OnStartup is called when the app starts up
func (a *App) OnStartup(ctx context.Context) {
	a.ctx = ctx

	a.window = &shellWindow{ctx: ctx, placer: a.provider.Placer}
	a.overlay = overlay.New(a.session, a.window, a.startup.State, a.log)
	a.overlay.OnChange(func(s overlay.Snapshot) {
		wruntime.EventsEmit(a.ctx, "state", s)
	})
	a.session.OnHotkey(a.overlay.HandleCommand)
}

// OnDomReady is called once the frontend has loaded
func (a *App) OnDomReady(ctx context.Context) {
	go a.attach()
}

// attach finishes native setup once the shell window exists.
func (a *App) attach() {
	hwnd, err := a.resolveWindow()
	if err != nil {
		a.log.Error("resolve widget window", "error", err)
	} else {
		a.window.hwnd.Store(uintptr(hwnd))
		st := a.startup.State
		if err := a.provider.Placer.SetBounds(hwnd, platform.Rect{X: st.X, Y: st.Y, W: st.W, H: st.H}); err != nil {
			a.log.Warn("place widget window", "error", err)
		}
		a.overlay.Attach(hwnd)
	}

	hk, err := a.provider.Hotkeys.Start(a.session.HandleHotkey)
	if err != nil {
		a.log.Error("start hotkey pump", "error", err)
	} else {
		a.hotkeyHwnd = hk
		if failed := a.session.RegisterHotkeys(hk); len(failed) > 0 {
			names := lo.FilterMap(failed, func(id int, _ int) (string, bool) {
				b, ok := hotkey.Lookup(id)
				return hotkey.Describe(b), ok
			})
			a.overlay.Notify(fmt.Sprintf("Some hotkeys are in use by another program: %v", names))
		}
	}

	a.watcher = state.NewWatcher(a.session.Store(), a.overlay.ReplaceState, a.log)
	if err := a.watcher.Start(); err != nil {
		a.log.Warn("watch state file", "error", err)
	}

	if a.startup.Fresh {
		a.overlay.Welcome()
	}
	wruntime.EventsEmit(a.ctx, "state", a.overlay.Snapshot())
}

// resolveWindow finds the shell window, which may take a moment to appear.
func (a *App) resolveWindow() (platform.Handle, error) {
	for i := 0; i < 20; i++ {
		if h, ok := a.session.OwnWindow(); ok {
			return h, nil
		}
		time.Sleep(100 * time.Millisecond)
	}
	return 0, fmt.Errorf("no visible window titled %q", a.session.Title())
}

// OnShutdown is called when the app is shutting down. State is not saved
// here: every change was saved when it happened, and a newer instance may
// already have reset the file.
func (a *App) OnShutdown(ctx context.Context) {
	if a.watcher != nil {
		a.watcher.Stop()
	}
	if a.overlay != nil {
		a.overlay.Detach()
	}
	if a.hotkeyHwnd != 0 {
		a.session.UnregisterHotkeys(a.hotkeyHwnd)
		if err := a.provider.Hotkeys.Stop(); err != nil {
			a.log.Warn("stop hotkey pump", "error", err)
		}
	}
}

// GetSnapshot returns the widget state for the frontend
func (a *App) GetSnapshot() overlay.Snapshot {
	return a.overlay.Snapshot()
}

// BeginEdit opens the editor and returns the text to edit
func (a *App) BeginEdit() string {
	return a.overlay.BeginEdit()
}

// CommitEdit saves the edited text
func (a *App) CommitEdit(text string) overlay.Snapshot {
	return a.overlay.CommitEdit(text)
}

// CancelEdit closes the editor without saving
func (a *App) CancelEdit() {
	a.overlay.CancelEdit()
}

// ClearText resets the note text
func (a *App) ClearText() {
	a.overlay.ClearText()
}

// ToggleClickThrough flips click-through mode
func (a *App) ToggleClickThrough() bool {
	return a.overlay.ToggleClickThrough()
}

// Smaller shrinks the widget one step
func (a *App) Smaller() {
	a.overlay.ResizeBy(-50, -30)
}

// Larger grows the widget one step
func (a *App) Larger() {
	a.overlay.ResizeBy(50, 30)
}

// ResetSize restores the default size
func (a *App) ResetSize() {
	a.overlay.ResetSize()
}

// Themes lists the selectable themes
func (a *App) Themes() []state.Theme {
	return state.Themes
}

// SetTheme switches the colour theme
func (a *App) SetTheme(name string) error {
	return a.overlay.SetTheme(name)
}

// GetSettings returns the values for the settings form
func (a *App) GetSettings() overlay.Settings {
	st := a.overlay.Snapshot().State
	return overlay.Settings{
		FontFamily:    st.FontFamily,
		FontPt:        st.FontPt,
		Theme:         string(st.Theme),
		Opacity:       st.Opacity,
		WordWrap:      st.WordWrap,
		AutoHideTimer: st.AutoHideTimer,
	}
}

// ApplySettings stores the settings form
func (a *App) ApplySettings(s overlay.Settings) error {
	return a.overlay.ApplySettings(s)
}

// HotkeyInfo describes a hotkey for the help panel
type HotkeyInfo struct {
	Combo   string `json:"combo"`
	Command string `json:"command"`
}

// Hotkeys lists the global hotkeys
func (a *App) Hotkeys() []HotkeyInfo {
	return lo.Map(hotkey.Bindings(), func(b hotkey.Binding, _ int) HotkeyInfo {
		return HotkeyInfo{Combo: hotkey.Describe(b), Command: b.Command.String()}
	})
}

// BeginDrag starts moving the widget with the mouse. The cursor position is
// in CSS pixels; ratio is the page's devicePixelRatio.
func (a *App) BeginDrag(x, y, ratio float64) bool {
	return a.overlay.BeginDrag(platform.PhysicalPoint(x, y, ratio))
}

// DragTo follows the mouse during a drag
func (a *App) DragTo(x, y, ratio float64) {
	a.overlay.DragTo(platform.PhysicalPoint(x, y, ratio))
}

// EndDrag finishes a drag
func (a *App) EndDrag() {
	a.overlay.EndDrag()
}

// Touch records user interaction
func (a *App) Touch() {
	a.overlay.Touch()
}

// Quit exits the application
func (a *App) Quit() {
	wruntime.Quit(a.ctx)
}

// shellWindow drives the Wails window for the overlay service. Bounds go
// through the native placer once the handle is known, since the Wails
// position calls are relative to the current monitor.
type shellWindow struct {
	ctx    context.Context
	placer platform.WindowPlacer
	hwnd   atomic.Uintptr
}

func (w *shellWindow) SetBounds(r platform.Rect) {
	if h := platform.Handle(w.hwnd.Load()); !h.IsZero() {
		if err := w.placer.SetBounds(h, r); err == nil {
			return
		}
	}
	wruntime.WindowSetSize(w.ctx, r.W, r.H)
}

func (w *shellWindow) Show() {
	wruntime.WindowShow(w.ctx)
}

func (w *shellWindow) Hide() {
	wruntime.WindowHide(w.ctx)
}

func (w *shellWindow) Focus() {
	wruntime.WindowUnminimise(w.ctx)
	wruntime.WindowShow(w.ctx)
}

func (w *shellWindow) Notify(title, message string) {
	wruntime.EventsEmit(w.ctx, "notify", map[string]string{"title": title, "message": message})
}

func run() error {
	statePath, err := state.DefaultPath()
	if err != nil {
		return err
	}

	logger, closeLog, err := logging.New(logging.Options{
		Level:   slog.LevelInfo,
		Console: os.Stderr,
		File:    filepath.Join(filepath.Dir(statePath), logFileName),
	})
	if err != nil {
		// Keep going with console logging only.
		logger, closeLog, _ = logging.New(logging.Options{Level: slog.LevelInfo, Console: os.Stderr})
		logger.Warn("open log file", "error", err)
	}
	defer closeLog()
	slog.SetDefault(logger)

	provider, err := platform.NewProvider()
	if err != nil {
		return err
	}

	sess := session.New(*provider, state.NewStore(statePath, logger), session.Options{}, logger)
	startup := sess.Start()
	logger.Info("starting", "outcome", startup.Outcome.String(), "fresh", startup.Fresh, "state", statePath)

	app := NewApp(provider, sess, startup, logger)

	return wails.Run(&options.App{
		Title:     sess.Title(),
		Width:     startup.State.W,
		Height:    startup.State.H,
		MinWidth:  overlay.MinWidth,
		MinHeight: overlay.MinHeight,
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		Frameless:        true,
		AlwaysOnTop:      true,
		BackgroundColour: &options.RGBA{R: 0, G: 0, B: 0, A: 0}, // Transparent
		Windows:          windowsOptions(),
		OnStartup:        app.OnStartup,
		OnDomReady:       app.OnDomReady,
		OnShutdown:       app.OnShutdown,
		Bind:             []interface{}{app},
	})
}

func main() {
	if err := run(); err != nil {
		if errors.Is(err, platform.ErrUnsupported) {
			fmt.Println("This application is designed for Windows.")
		} else {
			fmt.Printf("Error starting application: %v\n", err)
		}
		os.Exit(1)
	}
}
