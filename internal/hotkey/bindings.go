package hotkey

import (
	"strings"

	"github.com/samber/lo"
)

// Modifier flags for RegisterHotKey.
const (
	ModAlt     uint32 = 0x0001
	ModControl uint32 = 0x0002
	ModShift   uint32 = 0x0004
)

// Virtual-key codes used by the binding table.
const (
	vkSpace uint32 = 0x20
	vkLeft  uint32 = 0x25
	vkUp    uint32 = 0x26
	vkRight uint32 = 0x27
	vkDown  uint32 = 0x28
	vkM     uint32 = 'M'
	vkT     uint32 = 'T'
)

// Command is a widget action triggered by a hotkey.
type Command int

const (
	CmdNone Command = iota
	CmdEdit
	CmdToggleClickThrough
	CmdMoveLeft
	CmdMoveRight
	CmdMoveUp
	CmdMoveDown
	CmdToggleVisibility
	CmdOpacityUp
	CmdOpacityDown
)

var commandNames = map[Command]string{
	CmdNone:               "none",
	CmdEdit:               "edit",
	CmdToggleClickThrough: "toggle-click-through",
	CmdMoveLeft:           "move-left",
	CmdMoveRight:          "move-right",
	CmdMoveUp:             "move-up",
	CmdMoveDown:           "move-down",
	CmdToggleVisibility:   "toggle-visibility",
	CmdOpacityUp:          "opacity-up",
	CmdOpacityDown:        "opacity-down",
}

func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return "unknown"
}

// Binding maps a system-wide key combination to a command.
type Binding struct {
	ID        int
	Modifiers uint32
	Key       uint32
	Command   Command
}

var bindings = []Binding{
	{ID: 1, Modifiers: ModControl | ModAlt, Key: vkT, Command: CmdEdit},
	{ID: 2, Modifiers: ModControl | ModAlt, Key: vkSpace, Command: CmdToggleClickThrough},
	{ID: 3, Modifiers: ModControl | ModAlt, Key: vkLeft, Command: CmdMoveLeft},
	{ID: 4, Modifiers: ModControl | ModAlt, Key: vkRight, Command: CmdMoveRight},
	{ID: 5, Modifiers: ModControl | ModAlt, Key: vkUp, Command: CmdMoveUp},
	{ID: 6, Modifiers: ModControl | ModAlt, Key: vkDown, Command: CmdMoveDown},
	{ID: 7, Modifiers: ModControl | ModAlt, Key: vkM, Command: CmdToggleVisibility},
	{ID: 8, Modifiers: ModControl | ModShift | ModAlt, Key: vkUp, Command: CmdOpacityUp},
	{ID: 9, Modifiers: ModControl | ModShift | ModAlt, Key: vkDown, Command: CmdOpacityDown},
}

var byID = lo.KeyBy(bindings, func(b Binding) int { return b.ID })

// Bindings returns a copy of the fixed binding table.
func Bindings() []Binding {
	out := make([]Binding, len(bindings))
	copy(out, bindings)
	return out
}

// Lookup returns the binding registered under id.
func Lookup(id int) (Binding, bool) {
	b, ok := byID[id]
	return b, ok
}

var keyNames = map[uint32]string{
	vkSpace: "Space",
	vkLeft:  "Left",
	vkUp:    "Up",
	vkRight: "Right",
	vkDown:  "Down",
}

// Describe renders a binding the way it is shown to users, e.g. "Ctrl+Alt+T".
func Describe(b Binding) string {
	var parts []string
	if b.Modifiers&ModControl != 0 {
		parts = append(parts, "Ctrl")
	}
	if b.Modifiers&ModShift != 0 {
		parts = append(parts, "Shift")
	}
	if b.Modifiers&ModAlt != 0 {
		parts = append(parts, "Alt")
	}

	key, ok := keyNames[b.Key]
	if !ok {
		key = string(rune(b.Key))
	}
	return strings.Join(append(parts, key), "+")
}
