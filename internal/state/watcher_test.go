package state

import (
	"os"
	"testing"
	"time"
)

func TestWatcher_ReloadsExternalEdit(t *testing.T) {
	s := newTestStore(t)
	s.Save(Defaults())

	changes := make(chan PersistedState, 4)
	w := NewWatcher(s, func(st PersistedState) { changes <- st }, nil)
	w.settle = 20 * time.Millisecond
	if err := w.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	if err := os.WriteFile(s.Path(), []byte(`{"text": "edited by hand"}`), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case st := <-changes:
		if st.Text != "edited by hand" {
			t.Errorf("reloaded text = %q", st.Text)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("external edit was not reported")
	}
}

func TestWatcher_IgnoresOwnWrites(t *testing.T) {
	s := newTestStore(t)
	s.Save(Defaults())

	changes := make(chan PersistedState, 4)
	w := NewWatcher(s, func(st PersistedState) { changes <- st }, nil)
	w.settle = 20 * time.Millisecond
	if err := w.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	st := Defaults()
	st.Text = "written by the widget"
	s.Save(st)

	select {
	case got := <-changes:
		t.Errorf("own write reported as external change: %+v", got)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	w := NewWatcher(s, nil, nil)
	if err := w.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	w.Stop()
	w.Stop()
}

func TestWatcher_IgnoresMalformedEdit(t *testing.T) {
	s := newTestStore(t)
	st := Defaults()
	st.Text = "my important note"
	st.X, st.Y = 1200, 600
	s.Save(st)

	changes := make(chan PersistedState, 4)
	w := NewWatcher(s, func(st PersistedState) { changes <- st }, nil)
	w.settle = 20 * time.Millisecond
	if err := w.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	if err := os.WriteFile(s.Path(), []byte(`{"text": "my important note", "x": 1200,`), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-changes:
		t.Errorf("malformed edit reported as a change: text=%q x=%d y=%d", got.Text, got.X, got.Y)
	case <-time.After(500 * time.Millisecond):
	}

	// A later valid edit still gets through.
	if err := os.WriteFile(s.Path(), []byte(`{"text": "fixed", "x": 1200, "y": 600}`), 0644); err != nil {
		t.Fatal(err)
	}
	select {
	case got := <-changes:
		if got.Text != "fixed" || got.X != 1200 {
			t.Errorf("reloaded %q at x=%d; want \"fixed\" at 1200", got.Text, got.X)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("valid edit after a malformed one was not reported")
	}
}
