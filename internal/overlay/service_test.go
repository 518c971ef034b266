package overlay

import (
	"path/filepath"
	"testing"

	"activesticky/internal/hotkey"
	"activesticky/internal/platform"
	"activesticky/internal/session"
	"activesticky/internal/state"
)

type fakeStyles struct {
	style  uint32
	alpha  byte
	writes int
}

func (f *fakeStyles) ExStyle(platform.Handle) (uint32, error) { return f.style, nil }

func (f *fakeStyles) SetExStyle(_ platform.Handle, s uint32) error {
	f.style = s
	f.writes++
	return nil
}

func (f *fakeStyles) SetAlpha(_ platform.Handle, a byte) error {
	f.alpha = a
	return nil
}

type fakeMonitors []platform.Monitor

func (f fakeMonitors) Monitors() ([]platform.Monitor, error) { return f, nil }

type fakeWindow struct {
	bounds  platform.Rect
	shown   int
	hidden  int
	focused int
	notes   []string
}

func (w *fakeWindow) SetBounds(r platform.Rect) { w.bounds = r }
func (w *fakeWindow) Show() { w.shown++ }
func (w *fakeWindow) Hide() { w.hidden++ }
func (w *fakeWindow) Focus() { w.focused++ }
func (w *fakeWindow) Notify(_, message string) { w.notes = append(w.notes, message) }

const (
	transparent = 0x20
	hwnd        = platform.Handle(0x99)
)

type fixture struct {
	svc    *Service
	store  *state.Store
	window *fakeWindow
	styles *fakeStyles
}

func newFixture(t *testing.T, initial state.PersistedState) *fixture {
	t.Helper()
	store := state.NewStore(filepath.Join(t.TempDir(), "state.json"), nil)
	styles := &fakeStyles{}
	p := platform.Provider{
		Styles: styles,
		Monitors: fakeMonitors{{
			Bounds:   platform.Rect{W: 1920, H: 1080},
			WorkArea: platform.Rect{W: 1920, H: 1040},
			Primary:  true,
		}},
	}
	sess := session.New(p, store, session.Options{}, nil)
	win := &fakeWindow{}
	svc := New(sess, win, initial, nil)
	svc.Attach(hwnd)
	return &fixture{svc: svc, store: store, window: win, styles: styles}
}

func TestAttachAppliesStyle(t *testing.T) {
	st := state.Defaults()
	st.ClickThrough = true
	st.Opacity = 0.5
	f := newFixture(t, st)

	if f.styles.style&transparent == 0 {
		t.Error("click-through not applied on attach")
	}
	if f.styles.alpha != 128 {
		t.Errorf("alpha = %d; want 128", f.styles.alpha)
	}
}

func TestCommitEdit(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  write the report \n", "write the report"},
		{"", EmptyText},
		{" \t\n ", EmptyText},
	}

	for _, tc := range tests {
		f := newFixture(t, state.Defaults())
		f.svc.BeginEdit()
		snap := f.svc.CommitEdit(tc.in)

		if snap.State.Text != tc.want || snap.Editing {
			t.Errorf("CommitEdit(%q) snapshot = %+v; want text %q, not editing", tc.in, snap, tc.want)
		}
		if got := f.store.Load().Text; got != tc.want {
			t.Errorf("CommitEdit(%q) persisted %q; want %q", tc.in, got, tc.want)
		}
	}
}

func TestBeginEditDisablesClickThrough(t *testing.T) {
	st := state.Defaults()
	st.ClickThrough = true
	st.Text = "current"
	f := newFixture(t, st)

	if got := f.svc.BeginEdit(); got != "current" {
		t.Errorf("BeginEdit() = %q; want current text", got)
	}
	if f.styles.style&transparent != 0 {
		t.Error("click-through still applied while editing")
	}
	if f.store.Load().ClickThrough {
		t.Error("click-through change not persisted")
	}
	if !f.svc.Snapshot().Editing {
		t.Error("not editing after BeginEdit")
	}

	f.svc.CancelEdit()
	if f.svc.Snapshot().Editing {
		t.Error("still editing after CancelEdit")
	}
	if f.store.Load().Text != "current" {
		t.Error("CancelEdit changed the text")
	}
}

func TestClearText(t *testing.T) {
	f := newFixture(t, state.Defaults())
	f.svc.ClearText()
	if got := f.store.Load().Text; got != EmptyText {
		t.Errorf("text = %q; want %q", got, EmptyText)
	}
}

func TestToggleClickThrough(t *testing.T) {
	f := newFixture(t, state.Defaults())

	if !f.svc.ToggleClickThrough() {
		t.Fatal("first toggle should enable")
	}
	if f.styles.style&transparent == 0 || !f.store.Load().ClickThrough {
		t.Error("enable not applied or not persisted")
	}
	if f.svc.ToggleClickThrough() {
		t.Fatal("second toggle should disable")
	}
	if f.styles.style&transparent != 0 || f.store.Load().ClickThrough {
		t.Error("disable not applied or not persisted")
	}
	if len(f.window.notes) != 2 || f.window.notes[0] != "Click-through enabled" {
		t.Errorf("notifications = %q", f.window.notes)
	}
}

func TestAdjustOpacity(t *testing.T) {
	f := newFixture(t, state.Defaults())

	steps := []struct {
		delta, want float64
	}{
		{OpacityStep, 0.95},
		{OpacityStep, 1.0},
		{-OpacityStep, 0.9},
		{-5, 0.1},
	}
	for _, s := range steps {
		if got := f.svc.AdjustOpacity(s.delta); got != s.want {
			t.Errorf("AdjustOpacity(%v) = %v; want %v", s.delta, got, s.want)
		}
		if got := f.store.Load().Opacity; got != s.want {
			t.Errorf("persisted opacity = %v; want %v", got, s.want)
		}
	}
	if f.styles.alpha != 26 {
		t.Errorf("alpha = %d; want 26", f.styles.alpha)
	}
}

func TestAdjustOpacitySavesOnlyOnChange(t *testing.T) {
	st := state.Defaults()
	st.Opacity = 1.0
	f := newFixture(t, st)

	f.svc.AdjustOpacity(OpacityStep)
	if f.store.Exists() {
		t.Error("state saved although opacity was already at the maximum")
	}
}

func TestMove(t *testing.T) {
	tests := []struct {
		name   string
		x, y   int
		dx, dy int
		want   platform.Rect
	}{
		{"plain", 80, 80, MoveStep, 0, platform.Rect{X: 90, Y: 80, W: 350, H: 120}},
		{"right edge", 1565, 80, MoveStep, 0, platform.Rect{X: 1570, Y: 80, W: 350, H: 120}},
		{"bottom edge", 80, 915, 0, MoveStep, platform.Rect{X: 80, Y: 920, W: 350, H: 120}},
		{"left edge", 5, 80, -MoveStep, 0, platform.Rect{X: 0, Y: 80, W: 350, H: 120}},
		{"top edge", 80, 5, 0, -MoveStep, platform.Rect{X: 80, Y: 0, W: 350, H: 120}},
	}

	for _, tc := range tests {
		st := state.Defaults()
		st.X, st.Y = tc.x, tc.y
		f := newFixture(t, st)

		got := f.svc.Move(tc.dx, tc.dy)
		if got != tc.want {
			t.Errorf("%s: Move = %v; want %v", tc.name, got, tc.want)
		}
		if f.window.bounds != tc.want {
			t.Errorf("%s: window bounds = %v; want %v", tc.name, f.window.bounds, tc.want)
		}
		if saved := f.store.Load(); saved.X != tc.want.X || saved.Y != tc.want.Y {
			t.Errorf("%s: persisted (%d,%d); want (%d,%d)", tc.name, saved.X, saved.Y, tc.want.X, tc.want.Y)
		}
	}
}

func TestResize(t *testing.T) {
	f := newFixture(t, state.Defaults())

	if got := f.svc.ResizeBy(-50, -30); got.W != 300 || got.H != 90 {
		t.Errorf("smaller = %v; want 300x90", got)
	}
	if got := f.svc.ResizeBy(-500, -500); got.W != MinWidth || got.H != MinHeight {
		t.Errorf("shrunk = %v; want %dx%d", got, MinWidth, MinHeight)
	}
	if got := f.svc.ResetSize(); got.W != 350 || got.H != 120 {
		t.Errorf("reset = %v; want 350x120", got)
	}
	if saved := f.store.Load(); saved.W != 350 || saved.H != 120 {
		t.Errorf("persisted %dx%d; want 350x120", saved.W, saved.H)
	}
}

func TestResizeClampsInPlace(t *testing.T) {
	st := state.Defaults()
	st.X, st.Y = 1570, 920
	f := newFixture(t, st)

	got := f.svc.ResizeBy(50, 30)
	if want := (platform.Rect{X: 1520, Y: 890, W: 400, H: 150}); got != want {
		t.Errorf("ResizeBy at corner = %v; want %v", got, want)
	}
}

func TestSetTheme(t *testing.T) {
	f := newFixture(t, state.Defaults())

	if err := f.svc.SetTheme("neon"); err == nil {
		t.Error("expected error for unknown theme")
	}
	if err := f.svc.SetTheme(" Light "); err != nil {
		t.Fatal(err)
	}
	if got := f.store.Load().Theme; got != state.ThemeLight {
		t.Errorf("theme = %q; want light", got)
	}
}

func TestApplySettings(t *testing.T) {
	f := newFixture(t, state.Defaults())

	err := f.svc.ApplySettings(Settings{
		FontFamily:    "Consolas",
		FontPt:        200,
		Theme:         "amber",
		Opacity:       0.5,
		WordWrap:      false,
		AutoHideTimer: 15,
	})
	if err != nil {
		t.Fatal(err)
	}

	got := f.store.Load()
	if got.FontFamily != "Consolas" || got.Theme != state.ThemeAmber || got.WordWrap || got.AutoHideTimer != 15 {
		t.Errorf("persisted %+v", got)
	}
	if got.FontPt != 13.0 {
		t.Errorf("font_pt = %v; want default for out-of-range value", got.FontPt)
	}
	if f.styles.alpha != 128 {
		t.Errorf("alpha = %d; want 128", f.styles.alpha)
	}
	if f.svc.hider.Minutes() != 15 {
		t.Errorf("auto-hide = %d minutes; want 15", f.svc.hider.Minutes())
	}

	if err := f.svc.ApplySettings(Settings{Theme: "plaid"}); err == nil {
		t.Error("expected error for unknown theme")
	}
}

func TestToggleVisibility(t *testing.T) {
	f := newFixture(t, state.Defaults())

	if f.svc.ToggleVisibility() {
		t.Error("first toggle should hide")
	}
	if !f.svc.ToggleVisibility() {
		t.Error("second toggle should show")
	}
	if f.window.hidden != 1 || f.window.shown != 1 || f.window.focused != 1 {
		t.Errorf("window calls: hidden=%d shown=%d focused=%d", f.window.hidden, f.window.shown, f.window.focused)
	}
}

func TestAutoHide(t *testing.T) {
	f := newFixture(t, state.Defaults())

	f.svc.autoHide()
	if f.svc.IsVisible() || f.window.hidden != 1 {
		t.Error("auto-hide did not hide the widget")
	}

	// Already hidden.
	f.svc.autoHide()
	if f.window.hidden != 1 {
		t.Error("hid twice")
	}

	f.svc.BeginEdit()
	f.svc.autoHide()
	if !f.svc.IsVisible() {
		t.Error("auto-hide hid the widget while editing")
	}
}

func TestDrag(t *testing.T) {
	f := newFixture(t, state.Defaults())

	if !f.svc.BeginDrag(platform.Point{X: 100, Y: 100}) {
		t.Fatal("BeginDrag refused")
	}
	got := f.svc.DragTo(platform.Point{X: 300, Y: 150})
	if want := (platform.Rect{X: 280, Y: 130, W: 350, H: 120}); got != want {
		t.Errorf("DragTo = %v; want %v", got, want)
	}
	if f.store.Exists() {
		t.Error("geometry saved during drag")
	}

	got = f.svc.DragTo(platform.Point{X: 1800, Y: 1000})
	if want := (platform.Rect{X: 1570, Y: 920, W: 350, H: 120}); got != want {
		t.Errorf("DragTo past corner = %v; want %v", got, want)
	}

	f.svc.EndDrag()
	if saved := f.store.Load(); saved.X != 1570 || saved.Y != 920 {
		t.Errorf("persisted (%d,%d); want (1570,920)", saved.X, saved.Y)
	}

	// Moves after EndDrag are ignored.
	if got := f.svc.DragTo(platform.Point{X: 0, Y: 0}); got.X != 1570 {
		t.Errorf("DragTo without drag moved the widget to %v", got)
	}
}

func TestDragRefusedInClickThrough(t *testing.T) {
	st := state.Defaults()
	st.ClickThrough = true
	f := newFixture(t, st)

	if f.svc.BeginDrag(platform.Point{X: 1, Y: 1}) {
		t.Error("drag started in click-through mode")
	}
}

func TestTooltipText(t *testing.T) {
	tests := []struct {
		text, want string
	}{
		{"short", "ActiveSticky - short"},
		{"exactly thirty characters long", "ActiveSticky - exactly thirty characters long"},
		{"this note is a little longer than thirty", "ActiveSticky - this note is a little longer t..."},
	}
	for _, tc := range tests {
		st := state.Defaults()
		st.Text = tc.text
		f := newFixture(t, st)
		if got := f.svc.TooltipText(); got != tc.want {
			t.Errorf("TooltipText(%q) = %q; want %q", tc.text, got, tc.want)
		}
	}
}

func TestHandleCommand(t *testing.T) {
	f := newFixture(t, state.Defaults())

	f.svc.HandleCommand(hotkey.CmdMoveRight)
	f.svc.HandleCommand(hotkey.CmdMoveDown)
	f.svc.HandleCommand(hotkey.CmdOpacityDown)
	f.svc.HandleCommand(hotkey.CmdNone)

	got := f.store.Load()
	if got.X != 90 || got.Y != 90 {
		t.Errorf("position = (%d,%d); want (90,90)", got.X, got.Y)
	}
	if got.Opacity != 0.75 {
		t.Errorf("opacity = %v; want 0.75", got.Opacity)
	}

	f.svc.HandleCommand(hotkey.CmdToggleClickThrough)
	if !f.store.Load().ClickThrough {
		t.Error("click-through not toggled")
	}
	f.svc.HandleCommand(hotkey.CmdEdit)
	if f.store.Load().ClickThrough || !f.svc.Snapshot().Editing {
		t.Error("edit hotkey did not leave click-through and open the editor")
	}
}

func TestReplaceState(t *testing.T) {
	f := newFixture(t, state.Defaults())

	var published []Snapshot
	f.svc.OnChange(func(s Snapshot) { published = append(published, s) })

	ext := state.Defaults()
	ext.Text = "edited on disk"
	ext.X, ext.Y = 9000, 9000
	ext.ClickThrough = true
	f.svc.ReplaceState(ext)

	snap := f.svc.Snapshot()
	if snap.State.Text != "edited on disk" {
		t.Errorf("text = %q", snap.State.Text)
	}
	if want := (platform.Rect{X: 80, Y: 80, W: 350, H: 120}); f.window.bounds != want {
		t.Errorf("bounds = %v; want fallback %v", f.window.bounds, want)
	}
	if f.styles.style&transparent == 0 {
		t.Error("click-through from disk not applied")
	}
	if f.store.Exists() {
		t.Error("external state written back")
	}
	if len(published) != 1 {
		t.Errorf("published %d snapshots; want 1", len(published))
	}
}
