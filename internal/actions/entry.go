// Package actions implements the per-view action set: entries bound to
// keystrokes, the combined local and global list, the action menu and the
// view's dropdown.
package actions

// HandlerID names an entry in the application's handler table.
type HandlerID string

// HandlerMenuToggle is the resolver's own handler for the synthetic
// "Actions" entry.
const HandlerMenuToggle HandlerID = "actions.menu"

// Entry is one action. Hidden entries still match their shortcut but are
// left out of the action menu. The primary entry answers Enter in addition
// to its own shortcut.
type Entry struct {
	Label    string
	Icon     string
	Shortcut *Keystroke
	Handler  HandlerID
	Arg      string
	Hidden   bool
	Primary  bool
}

// Matches reports whether ks triggers e.
func (e Entry) Matches(ks Keystroke) bool {
	if e.Primary && Key(KeyEnter).Matches(ks) {
		return true
	}
	return e.Shortcut != nil && e.Shortcut.Matches(ks)
}

// Bind returns a copy of e with the shortcut set.
func (e Entry) Bind(ks Keystroke) Entry {
	e.Shortcut = &ks
	return e
}

// MetaKind tags the payload a view attaches to its local actions.
type MetaKind int

const (
	MetaNone MetaKind = iota
	MetaCommand
	MetaTheme
)

// Meta identifies what the local actions currently act on, typically the
// focused row.
type Meta struct {
	Kind MetaKind
	ID   string
}

// DropdownItem is one option of a view dropdown.
type DropdownItem struct {
	Value string
	Label string
}

// Dropdown is the view-level selector cycled with Tab.
type Dropdown struct {
	Items []DropdownItem
	Value string
}

// Label returns the label of the current value, or "" when unset.
func (d Dropdown) Label() string {
	for _, item := range d.Items {
		if item.Value == d.Value {
			return item.Label
		}
	}
	return ""
}

func (d Dropdown) indexOf(value string) int {
	for i, item := range d.Items {
		if item.Value == value {
			return i
		}
	}
	return -1
}
