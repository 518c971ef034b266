package platform

import (
	"fmt"
	"math"
)

// Handle is an opaque OS window handle.
type Handle uintptr

// IsZero reports whether h is the null handle.
func (h Handle) IsZero() bool {
	return h == 0
}

func (h Handle) String() string {
	return fmt.Sprintf("0x%X", uintptr(h))
}

// Point is a position in virtual desktop coordinates. Coordinates can be
// negative when a monitor sits left of or above the primary one.
type Point struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// PhysicalPoint converts a position in CSS pixels to physical pixels using
// the display's device pixel ratio. A ratio that is not positive counts as 1.
func PhysicalPoint(x, y, ratio float64) Point {
	if ratio <= 0 {
		ratio = 1
	}
	return Point{X: int(math.Round(x * ratio)), Y: int(math.Round(y * ratio))}
}

// Rect is a screen rectangle. Right and Bottom are exclusive.
type Rect struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
	W int `json:"w" yaml:"w"`
	H int `json:"h" yaml:"h"`
}

// Right returns the exclusive right edge.
func (r Rect) Right() int { return r.X + r.W }

// Bottom returns the exclusive bottom edge.
func (r Rect) Bottom() int { return r.Y + r.H }

// TopLeft returns the rectangle origin.
func (r Rect) TopLeft() Point { return Point{X: r.X, Y: r.Y} }

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// Contains reports whether p lies inside r.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.Right() && p.Y >= r.Y && p.Y < r.Bottom()
}

// Intersects reports whether r and o share a non-empty area.
func (r Rect) Intersects(o Rect) bool {
	if r.Empty() || o.Empty() {
		return false
	}
	return r.X < o.Right() && o.X < r.Right() && r.Y < o.Bottom() && o.Y < r.Bottom()
}

// ContainsRect reports whether o lies fully inside r.
func (r Rect) ContainsRect(o Rect) bool {
	return o.X >= r.X && o.Y >= r.Y && o.Right() <= r.Right() && o.Bottom() <= r.Bottom()
}

func (r Rect) String() string {
	return fmt.Sprintf("(%d,%d %dx%d)", r.X, r.Y, r.W, r.H)
}

// Monitor describes a display and its usable work area.
type Monitor struct {
	Handle   Handle `json:"-"        yaml:"-"`
	Bounds   Rect   `json:"bounds"   yaml:"bounds"`
	WorkArea Rect   `json:"work_area" yaml:"work_area"` // Excludes taskbar
	Primary  bool   `json:"primary"  yaml:"primary"`
}

// Window is a visible top-level window.
type Window struct {
	Handle Handle `json:"handle" yaml:"handle"`
	Title  string `json:"title"  yaml:"title"`
	PID    int    `json:"pid"    yaml:"pid"`
}
