// Package state persists the widget's single durable document.
package state

import (
	"math"
	"strings"
)

// Theme names a colour scheme of the widget.
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
	ThemeBlue  Theme = "blue"
	ThemeGreen Theme = "green"
	ThemeAmber Theme = "amber"
)

// Themes lists every theme in menu order.
var Themes = []Theme{ThemeDark, ThemeLight, ThemeBlue, ThemeGreen, ThemeAmber}

// Valid reports whether t is a known theme.
func (t Theme) Valid() bool {
	switch t {
	case ThemeDark, ThemeLight, ThemeBlue, ThemeGreen, ThemeAmber:
		return true
	}
	return false
}

// ParseTheme converts a case-insensitive theme name.
func ParseTheme(s string) (Theme, bool) {
	t := Theme(strings.ToLower(strings.TrimSpace(s)))
	return t, t.Valid()
}

// Limits applied when loading and normalizing a document.
const (
	MinOpacity       = 0.1
	MaxOpacity       = 1.0
	MinFontPt        = 6.0
	MaxFontPt        = 96.0
	MaxAutoHideTimer = 1440 // minutes

	DefaultWidth  = 350
	DefaultHeight = 120
)

// PersistedState is the document saved between runs.
type PersistedState struct {
	Text          string  `json:"text"            yaml:"text"`
	X             int     `json:"x"               yaml:"x"`
	Y             int     `json:"y"               yaml:"y"`
	W             int     `json:"w"               yaml:"w"`
	H             int     `json:"h"               yaml:"h"`
	ClickThrough  bool    `json:"click_through"   yaml:"click_through"`
	Opacity       float64 `json:"opacity"         yaml:"opacity"`
	FontPt        float64 `json:"font_pt"         yaml:"font_pt"`
	Theme         Theme   `json:"theme"           yaml:"theme"`
	AutoHideTimer int     `json:"auto_hide_timer" yaml:"auto_hide_timer"` // minutes, 0 = never
	WordWrap      bool    `json:"word_wrap"       yaml:"word_wrap"`
	FontFamily    string  `json:"font_family"     yaml:"font_family"`
}

// Defaults returns the record used on first run and after a reset.
func Defaults() PersistedState {
	return PersistedState{
		Text:          "Active task: (Ctrl+Alt+T to edit)",
		X:             80,
		Y:             80,
		W:             DefaultWidth,
		H:             DefaultHeight,
		ClickThrough:  false,
		Opacity:       0.85,
		FontPt:        13.0,
		Theme:         ThemeDark,
		AutoHideTimer: 0,
		WordWrap:      true,
		FontFamily:    "Segoe UI",
	}
}

// ClampOpacity limits o to [MinOpacity, MaxOpacity].
func ClampOpacity(o float64) float64 {
	return math.Max(MinOpacity, math.Min(MaxOpacity, o))
}

// Normalized returns p with every out-of-range field replaced by its default
// (or clamped where a nearby value is meaningful).
func (p PersistedState) Normalized() PersistedState {
	def := Defaults()
	if p.W <= 0 {
		p.W = def.W
	}
	if p.H <= 0 {
		p.H = def.H
	}
	p.Opacity = ClampOpacity(p.Opacity)
	if p.FontPt < MinFontPt || p.FontPt > MaxFontPt {
		p.FontPt = def.FontPt
	}
	if !p.Theme.Valid() {
		p.Theme = def.Theme
	}
	if p.AutoHideTimer < 0 {
		p.AutoHideTimer = def.AutoHideTimer
	}
	if p.AutoHideTimer > MaxAutoHideTimer {
		p.AutoHideTimer = MaxAutoHideTimer
	}
	if strings.TrimSpace(p.FontFamily) == "" {
		p.FontFamily = def.FontFamily
	}
	return p
}
