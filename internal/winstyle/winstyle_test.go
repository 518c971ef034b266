package winstyle

import (
	"errors"
	"testing"

	"activesticky/internal/platform"
)

type fakeStyles struct {
	style    uint32
	alpha    byte
	writes   int
	readErr  error
	writeErr error
}

func (f *fakeStyles) ExStyle(platform.Handle) (uint32, error) {
	return f.style, f.readErr
}

func (f *fakeStyles) SetExStyle(_ platform.Handle, style uint32) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.writes++
	f.style = style
	return nil
}

func (f *fakeStyles) SetAlpha(_ platform.Handle, alpha byte) error {
	f.alpha = alpha
	return nil
}

const hwnd = platform.Handle(0x1234)

func TestExStyleFor(t *testing.T) {
	const topmost = 0x00000008 // WS_EX_TOPMOST, unrelated to click-through

	tests := []struct {
		name    string
		current uint32
		enabled bool
		want    uint32
	}{
		{"enable from zero", 0, true, Layered | ToolWindow | Transparent | NoActivate},
		{"disable from zero", 0, false, Layered | ToolWindow},
		{"enable keeps other bits", topmost, true, topmost | Layered | ToolWindow | Transparent | NoActivate},
		{"disable clears only click-through", topmost | Transparent | NoActivate, false, topmost | Layered | ToolWindow},
	}

	for _, tc := range tests {
		if got := ExStyleFor(tc.current, tc.enabled); got != tc.want {
			t.Errorf("%s: ExStyleFor(0x%X, %v) = 0x%X; want 0x%X", tc.name, tc.current, tc.enabled, got, tc.want)
		}
	}
}

func TestSetClickThrough_ToggleRestoresOriginal(t *testing.T) {
	const original = uint32(0x00000008 | 0x00000100) // TOPMOST | WINDOWEDGE
	f := &fakeStyles{style: original}
	c := New(f, nil)

	if err := c.SetClickThrough(hwnd, true); err != nil {
		t.Fatalf("enable: %v", err)
	}
	if f.style&ClickThrough != ClickThrough {
		t.Errorf("click-through bits not set: 0x%X", f.style)
	}

	if err := c.SetClickThrough(hwnd, false); err != nil {
		t.Fatalf("disable: %v", err)
	}
	if want := original | Layered | ToolWindow; f.style != want {
		t.Errorf("style after toggle = 0x%X; want 0x%X", f.style, want)
	}
}

func TestSetClickThrough_Idempotent(t *testing.T) {
	f := &fakeStyles{}
	c := New(f, nil)

	for i := 0; i < 3; i++ {
		if err := c.SetClickThrough(hwnd, true); err != nil {
			t.Fatal(err)
		}
	}
	if f.writes != 1 {
		t.Errorf("style written %d times; want 1", f.writes)
	}
}

func TestSetClickThrough_Errors(t *testing.T) {
	c := New(&fakeStyles{}, nil)
	if err := c.SetClickThrough(0, true); !errors.Is(err, ErrNoWindow) {
		t.Errorf("null handle error = %v; want ErrNoWindow", err)
	}

	boom := errors.New("access denied")
	c = New(&fakeStyles{readErr: boom}, nil)
	if err := c.SetClickThrough(hwnd, true); !errors.Is(err, boom) {
		t.Errorf("read error = %v; want wrapped %v", err, boom)
	}

	c = New(&fakeStyles{writeErr: boom}, nil)
	if err := c.SetClickThrough(hwnd, true); !errors.Is(err, boom) {
		t.Errorf("write error = %v; want wrapped %v", err, boom)
	}
}

func TestSetOpacity(t *testing.T) {
	f := &fakeStyles{}
	c := New(f, nil)

	if err := c.SetOpacity(hwnd, 0.85); err != nil {
		t.Fatal(err)
	}
	if f.style&Layered == 0 {
		t.Error("window not made layered")
	}
	if f.alpha != 217 {
		t.Errorf("alpha = %d; want 217", f.alpha)
	}
}

func TestAlpha(t *testing.T) {
	tests := []struct {
		opacity float64
		want    byte
	}{
		{1.0, 255},
		{0.5, 128},
		{0.1, 26},
		{0.0, 26},
		{2.0, 255},
	}
	for _, tc := range tests {
		if got := Alpha(tc.opacity); got != tc.want {
			t.Errorf("Alpha(%v) = %d; want %d", tc.opacity, got, tc.want)
		}
	}
}
