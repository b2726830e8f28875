package actions

import (
	"fmt"
	"runtime"
	"strings"
)

// Named keys. Printable keys use their rune as the key name.
const (
	KeyEnter     = "enter"
	KeyEscape    = "escape"
	KeyTab       = "tab"
	KeyBackspace = "backspace"
	KeyUp        = "up"
	KeyDown      = "down"
	KeyLeft      = "left"
	KeyRight     = "right"
	KeyHome      = "home"
	KeyEnd       = "end"
	KeySpace     = "space"
)

// Modifiers is the set of held modifier keys.
type Modifiers struct {
	Ctrl  bool
	Alt   bool
	Shift bool
	Super bool
}

// None reports whether no modifier is held.
func (m Modifiers) None() bool { return m == Modifiers{} }

// Cmd is the platform's primary shortcut modifier: Super on macOS, Ctrl
// elsewhere.
func Cmd() Modifiers {
	if runtime.GOOS == "darwin" {
		return Modifiers{Super: true}
	}
	return Modifiers{Ctrl: true}
}

// Keystroke is a key plus modifiers.
type Keystroke struct {
	Key  string
	Mods Modifiers
}

// Key is a shorthand for an unmodified keystroke.
func Key(name string) Keystroke { return Keystroke{Key: name} }

// CmdKey binds name to the platform command modifier.
func CmdKey(name string) Keystroke { return Keystroke{Key: name, Mods: Cmd()} }

// Matches compares key names case-insensitively and modifiers exactly.
func (k Keystroke) Matches(other Keystroke) bool {
	return strings.EqualFold(k.Key, other.Key) && k.Mods == other.Mods
}

func (k Keystroke) String() string {
	var parts []string
	if k.Mods.Super {
		parts = append(parts, "cmd")
	}
	if k.Mods.Ctrl {
		parts = append(parts, "ctrl")
	}
	if k.Mods.Alt {
		parts = append(parts, "alt")
	}
	if k.Mods.Shift {
		parts = append(parts, "shift")
	}
	return strings.Join(append(parts, k.Key), "+")
}

// ParseKeystroke reads forms like "enter", "ctrl+k" or "cmd+shift+p". The
// "cmd" modifier resolves through Cmd.
func ParseKeystroke(s string) (Keystroke, error) {
	fields := strings.Split(strings.ToLower(strings.TrimSpace(s)), "+")
	if len(fields) == 0 || fields[len(fields)-1] == "" {
		return Keystroke{}, fmt.Errorf("empty keystroke %q", s)
	}
	var ks Keystroke
	for _, mod := range fields[:len(fields)-1] {
		switch mod {
		case "cmd":
			c := Cmd()
			ks.Mods.Super = ks.Mods.Super || c.Super
			ks.Mods.Ctrl = ks.Mods.Ctrl || c.Ctrl
		case "ctrl", "control":
			ks.Mods.Ctrl = true
		case "alt", "option":
			ks.Mods.Alt = true
		case "shift":
			ks.Mods.Shift = true
		case "super", "meta":
			ks.Mods.Super = true
		default:
			return Keystroke{}, fmt.Errorf("unknown modifier %q in %q", mod, s)
		}
	}
	ks.Key = fields[len(fields)-1]
	if ks.Key == "esc" {
		ks.Key = KeyEscape
	}
	return ks, nil
}

// KeyEvent is one key press as delivered by the surface. Text carries the
// printable input, if any. Held marks auto-repeat.
type KeyEvent struct {
	Keystroke
	Text string
	Held bool
}
