package app

import (
	"github.com/atomicstack/popup-launcher/internal/actions"
)

// selectable is implemented by views with a movable focus.
type selectable interface {
	MoveCursor(delta int) bool
	MoveHome() bool
	MoveEnd() bool
}

// HandleKey routes one key press. It reports whether anything consumed it.
func (c *Context) HandleKey(ev actions.KeyEvent) bool {
	view := c.Stack.Active()
	res := view.Actions

	if res.MenuOpen() {
		if e, ok := res.MenuKey(ev); ok {
			c.Run(e)
		}
		return true
	}

	if !ev.Held {
		if e, ok := res.Resolve(ev.Keystroke); ok {
			c.Run(e)
			return true
		}
	}

	noMods := ev.Mods.None()
	switch {
	case ev.Key == actions.KeyTab && noMods:
		if ev.Held {
			return false
		}
		return res.CycleDropdown()
	case ev.Key == actions.KeyEscape && noMods:
		c.Visibility.Hide()
		return true
	case ev.Key == actions.KeyBackspace && noMods:
		if view.Query.Empty() {
			if ev.Held {
				return false
			}
			return c.Stack.Pop()
		}
		return view.Query.DeleteBackward()
	case ev.Key == actions.KeyBackspace && ev.Mods == actions.Modifiers{Alt: true}:
		return view.Query.DeleteWordBackward()
	case ev.Key == actions.KeyLeft && noMods:
		return view.Query.MoveLeft()
	case ev.Key == actions.KeyRight && noMods:
		return view.Query.MoveRight()
	case ev.Key == actions.KeyLeft && ev.Mods == actions.Modifiers{Alt: true}:
		return view.Query.MoveWordLeft()
	case ev.Key == actions.KeyRight && ev.Mods == actions.Modifiers{Alt: true}:
		return view.Query.MoveWordRight()
	}

	if sel, ok := view.View.(selectable); ok && noMods {
		switch ev.Key {
		case actions.KeyUp:
			return sel.MoveCursor(-1)
		case actions.KeyDown:
			return sel.MoveCursor(1)
		case actions.KeyHome:
			return sel.MoveHome()
		case actions.KeyEnd:
			return sel.MoveEnd()
		}
	}

	if ev.Text != "" && (noMods || ev.Mods == actions.Modifiers{Shift: true}) {
		return view.Query.Insert(ev.Text)
	}
	return false
}
