package actions

import (
	"strings"

	"github.com/atomicstack/popup-launcher/internal/logging/events"
	"github.com/atomicstack/popup-launcher/internal/query"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Resolver owns one view's actions. Local entries belong to the view's
// current focus, global entries to the view as a whole. All methods must
// run on the owner.
type Resolver struct {
	global []Entry
	local  []Entry
	meta   Meta

	dropdown     Dropdown
	dropdownSubs []func(string)

	menuOpen   bool
	menuQuery  *query.Query
	menuCursor int
}

// NewResolver returns an empty resolver.
func NewResolver() *Resolver {
	r := &Resolver{menuQuery: query.New()}
	r.menuQuery.Subscribe(func(string) { r.menuCursor = 0 })
	return r
}

// SetGlobal replaces the view-wide entries.
func (r *Resolver) SetGlobal(entries []Entry) {
	r.global = append([]Entry(nil), entries...)
}

// SetLocal replaces the focus-specific entries and their meta.
func (r *Resolver) SetLocal(entries []Entry, meta Meta) {
	r.local = append([]Entry(nil), entries...)
	r.meta = meta
}

// ClearLocal drops the focus-specific entries.
func (r *Resolver) ClearLocal() {
	r.local = nil
	r.meta = Meta{}
}

// Meta returns what the local entries act on.
func (r *Resolver) Meta() Meta { return r.meta }

// Combined returns local entries followed by global ones. The first visible
// entry is marked primary, and a hidden "Actions" entry opening the menu is
// appended when there is anything to show.
func (r *Resolver) Combined() []Entry {
	out := make([]Entry, 0, len(r.local)+len(r.global)+1)
	out = append(out, r.local...)
	out = append(out, r.global...)
	for i := range out {
		if !out[i].Hidden {
			out[i].Primary = true
			break
		}
	}
	if len(out) > 0 {
		out = append(out, Entry{
			Label:   "Actions",
			Handler: HandlerMenuToggle,
			Hidden:  true,
		}.Bind(CmdKey("k")))
	}
	return out
}

// Primary returns the entry bound to Enter, if any.
func (r *Resolver) Primary() (Entry, bool) {
	for _, e := range r.Combined() {
		if e.Primary {
			return e, true
		}
	}
	return Entry{}, false
}

// Resolve returns the first entry whose shortcut matches ks, with Enter
// also matching the primary entry. Local entries are checked before global
// ones.
func (r *Resolver) Resolve(ks Keystroke) (Entry, bool) {
	for _, e := range r.Combined() {
		if e.Matches(ks) {
			return e, true
		}
	}
	return Entry{}, false
}

// Dropdown returns the view's dropdown.
func (r *Resolver) Dropdown() Dropdown { return r.dropdown }

// HasDropdown reports whether the view offers a dropdown.
func (r *Resolver) HasDropdown() bool { return len(r.dropdown.Items) > 0 }

// SetDropdown replaces the dropdown, notifying if the value changed.
func (r *Resolver) SetDropdown(d Dropdown) {
	prev := r.dropdown.Value
	r.dropdown = Dropdown{Items: append([]DropdownItem(nil), d.Items...), Value: d.Value}
	if d.Value != prev {
		r.notifyDropdown()
	}
}

// SetDropdownValue selects value. A non-empty value not among the items is
// ignored; "" clears the selection.
func (r *Resolver) SetDropdownValue(value string) bool {
	if value != "" && r.dropdown.indexOf(value) < 0 {
		return false
	}
	if value == r.dropdown.Value {
		return false
	}
	r.dropdown.Value = value
	r.notifyDropdown()
	return true
}

// CycleDropdown advances to the next item, wrapping. No-op without items.
func (r *Resolver) CycleDropdown() bool {
	n := len(r.dropdown.Items)
	if n == 0 {
		return false
	}
	idx := r.dropdown.indexOf(r.dropdown.Value)
	if idx < 0 {
		idx = 0
	}
	next := r.dropdown.Items[(idx+1)%n].Value
	if next == r.dropdown.Value {
		return false
	}
	r.dropdown.Value = next
	r.notifyDropdown()
	return true
}

// SubscribeDropdown registers fn for dropdown value changes.
func (r *Resolver) SubscribeDropdown(fn func(string)) {
	r.dropdownSubs = append(r.dropdownSubs, fn)
}

func (r *Resolver) notifyDropdown() {
	events.Action.Dropdown(r.dropdown.Value)
	for _, fn := range r.dropdownSubs {
		fn(r.dropdown.Value)
	}
}

// Release drops subscriptions once the owning view leaves the stack.
func (r *Resolver) Release() {
	r.dropdownSubs = nil
	r.menuOpen = false
	r.menuQuery.Release()
}

// MenuOpen reports whether the action menu is showing.
func (r *Resolver) MenuOpen() bool { return r.menuOpen }

// OpenMenu shows the action menu with an empty query.
func (r *Resolver) OpenMenu() {
	if r.menuOpen {
		return
	}
	r.menuQuery.Clear()
	r.menuCursor = 0
	r.menuOpen = true
	events.Action.Menu(true)
}

// CloseMenu hides the action menu.
func (r *Resolver) CloseMenu() {
	if !r.menuOpen {
		return
	}
	r.menuOpen = false
	events.Action.Menu(false)
}

// ToggleMenu flips the action menu.
func (r *Resolver) ToggleMenu() {
	if r.menuOpen {
		r.CloseMenu()
		return
	}
	r.OpenMenu()
}

// MenuQuery returns the menu's filter text holder.
func (r *Resolver) MenuQuery() *query.Query { return r.menuQuery }

// MenuCursor returns the highlighted row in MenuItems.
func (r *Resolver) MenuCursor() int { return r.menuCursor }

// MenuItems returns the visible entries matching the menu query, in list
// order.
func (r *Resolver) MenuItems() []Entry {
	visible := make([]Entry, 0)
	for _, e := range r.Combined() {
		if !e.Hidden {
			visible = append(visible, e)
		}
	}
	term := strings.TrimSpace(r.menuQuery.Text())
	if term == "" {
		return visible
	}
	labels := make([]string, len(visible))
	for i, e := range visible {
		labels[i] = e.Label
	}
	ranks := fuzzy.RankFindNormalizedFold(term, labels)
	matched := make(map[int]struct{}, len(ranks))
	for _, rank := range ranks {
		matched[rank.OriginalIndex] = struct{}{}
	}
	filtered := make([]Entry, 0, len(matched))
	for i, e := range visible {
		if _, ok := matched[i]; ok {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

// MenuKey handles a key while the menu is open. It returns the entry to
// invoke, if any; the menu is closed before an entry is returned. Every key
// is consumed.
func (r *Resolver) MenuKey(ev KeyEvent) (Entry, bool) {
	items := r.MenuItems()
	switch {
	case ev.Matches(Key(KeyEscape)):
		r.CloseMenu()
		return Entry{}, false
	case ev.Matches(Key(KeyEnter)):
		if r.menuCursor >= len(items) {
			return Entry{}, false
		}
		r.CloseMenu()
		return items[r.menuCursor], true
	case ev.Matches(Key(KeyUp)):
		if r.menuCursor > 0 {
			r.menuCursor--
		}
		return Entry{}, false
	case ev.Matches(Key(KeyDown)):
		if r.menuCursor < len(items)-1 {
			r.menuCursor++
		}
		return Entry{}, false
	case ev.Matches(Key(KeyBackspace)):
		if r.menuQuery.Empty() {
			r.CloseMenu()
			return Entry{}, false
		}
		r.menuQuery.DeleteBackward()
		return Entry{}, false
	}
	if !ev.Held {
		if e, ok := r.Resolve(ev.Keystroke); ok {
			r.CloseMenu()
			if e.Handler == HandlerMenuToggle {
				return Entry{}, false
			}
			return e, true
		}
	}
	if ev.Text != "" && (ev.Mods.None() || ev.Mods == Modifiers{Shift: true}) {
		r.menuQuery.Insert(ev.Text)
	}
	return Entry{}, false
}
