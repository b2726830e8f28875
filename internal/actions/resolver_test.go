package actions

import (
	"testing"
)

func entry(label string, handler HandlerID) Entry {
	return Entry{Label: label, Handler: handler}
}

func TestCombinedBindsPrimaryAndAppendsMenuEntry(t *testing.T) {
	r := NewResolver()
	r.SetGlobal([]Entry{entry("Global", "g")})
	r.SetLocal([]Entry{{Label: "Secret", Handler: "s", Hidden: true}, entry("Open", "o")}, Meta{Kind: MetaCommand, ID: "x"})

	got := r.Combined()
	if len(got) != 4 {
		t.Fatalf("combined len = %d", len(got))
	}
	if got[0].Primary {
		t.Fatal("hidden entry must not become primary")
	}
	if got[1].Label != "Open" || !got[1].Primary || !got[1].Matches(Key(KeyEnter)) {
		t.Fatalf("primary = %+v", got[1])
	}
	if got[2].Label != "Global" || got[2].Primary || got[2].Shortcut != nil {
		t.Fatalf("global entry = %+v", got[2])
	}
	last := got[3]
	if last.Label != "Actions" || !last.Hidden || last.Handler != HandlerMenuToggle || !last.Shortcut.Matches(CmdKey("k")) {
		t.Fatalf("synthetic entry = %+v", last)
	}
	if r.Meta().ID != "x" {
		t.Fatalf("meta = %+v", r.Meta())
	}
}

func TestCombinedEmptyHasNoMenuEntry(t *testing.T) {
	r := NewResolver()
	if got := r.Combined(); len(got) != 0 {
		t.Fatalf("expected empty list, got %+v", got)
	}
	if _, ok := r.Resolve(CmdKey("k")); ok {
		t.Fatal("cmd+k must not resolve on an empty list")
	}
}

func TestResolvePrefersLocal(t *testing.T) {
	r := NewResolver()
	ctrlS := Keystroke{Key: "s", Mods: Modifiers{Ctrl: true}}
	r.SetGlobal([]Entry{entry("Global save", "global").Bind(ctrlS)})
	r.SetLocal([]Entry{entry("First", "first"), entry("Local save", "local").Bind(ctrlS)}, Meta{})

	e, ok := r.Resolve(ctrlS)
	if !ok || e.Handler != "local" {
		t.Fatalf("resolve = %+v %v", e, ok)
	}
	e, ok = r.Resolve(Key(KeyEnter))
	if !ok || e.Handler != "first" {
		t.Fatalf("enter resolved to %+v", e)
	}
	if _, ok := r.Resolve(Keystroke{Key: "s"}); ok {
		t.Fatal("modifiers must match exactly")
	}

	r.ClearLocal()
	if e, _ := r.Resolve(ctrlS); e.Handler != "global" {
		t.Fatalf("after clear resolve = %+v", e)
	}
}

func TestPrimaryKeepsOwnShortcut(t *testing.T) {
	r := NewResolver()
	clearSearch := entry("Clear Search", "clear").Bind(CmdKey("u"))
	r.SetGlobal([]Entry{clearSearch})

	primary, ok := r.Primary()
	if !ok || primary.Handler != "clear" {
		t.Fatalf("primary = %+v %v", primary, ok)
	}
	if e, ok := r.Resolve(CmdKey("u")); !ok || e.Handler != "clear" {
		t.Fatalf("own shortcut lost while primary: %+v %v", e, ok)
	}
	if e, ok := r.Resolve(Key(KeyEnter)); !ok || e.Handler != "clear" {
		t.Fatalf("enter = %+v %v", e, ok)
	}

	r.SetLocal([]Entry{entry("Open", "open")}, Meta{})
	if e, _ := r.Resolve(Key(KeyEnter)); e.Handler != "open" {
		t.Fatalf("enter after local = %+v", e)
	}
	if e, _ := r.Resolve(CmdKey("u")); e.Handler != "clear" {
		t.Fatalf("cmd+u after local = %+v", e)
	}
}

func TestHiddenEntriesMatchButStayOutOfMenu(t *testing.T) {
	r := NewResolver()
	ctrlD := Keystroke{Key: "d", Mods: Modifiers{Ctrl: true}}
	r.SetLocal([]Entry{entry("Open", "open"), {Label: "Delete", Handler: "del", Hidden: true, Shortcut: &ctrlD}}, Meta{})
	if e, ok := r.Resolve(ctrlD); !ok || e.Handler != "del" {
		t.Fatalf("hidden shortcut = %+v %v", e, ok)
	}
	r.OpenMenu()
	items := r.MenuItems()
	if len(items) != 1 || items[0].Label != "Open" {
		t.Fatalf("menu items = %+v", items)
	}
}

func TestDropdownCycleAndSet(t *testing.T) {
	r := NewResolver()
	if r.CycleDropdown() {
		t.Fatal("cycle without items must be a no-op")
	}
	var seen []string
	r.SubscribeDropdown(func(v string) { seen = append(seen, v) })
	r.SetDropdown(Dropdown{Items: []DropdownItem{{"all", "All"}, {"dark", "Dark"}, {"light", "Light"}}})

	// No current value counts as index 0, so the first cycle lands on index 1.
	r.CycleDropdown()
	if r.Dropdown().Value != "dark" {
		t.Fatalf("value after first cycle = %q", r.Dropdown().Value)
	}
	r.CycleDropdown()
	r.CycleDropdown()
	if r.Dropdown().Value != "all" {
		t.Fatalf("cycle should wrap, got %q", r.Dropdown().Value)
	}
	if r.SetDropdownValue("sepia") {
		t.Fatal("unknown value must be ignored")
	}
	if r.Dropdown().Value != "all" {
		t.Fatalf("ignored set changed value to %q", r.Dropdown().Value)
	}
	if !r.SetDropdownValue("light") || r.Dropdown().Label() != "Light" {
		t.Fatalf("set light failed: %+v", r.Dropdown())
	}
	if !r.SetDropdownValue("") {
		t.Fatal("clearing the value should be accepted")
	}
	want := []string{"dark", "light", "all", "light", ""}
	if len(seen) != len(want) {
		t.Fatalf("notifications = %#v", seen)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("notifications = %#v, want %#v", seen, want)
		}
	}
}

func TestMenuKeyFlow(t *testing.T) {
	r := NewResolver()
	r.SetLocal([]Entry{entry("Open Theme", "open"), entry("Copy Name", "copy")}, Meta{})
	r.SetGlobal([]Entry{entry("Reload", "reload")})

	r.ToggleMenu()
	if !r.MenuOpen() {
		t.Fatal("menu should be open")
	}
	for _, ch := range "cop" {
		r.MenuKey(KeyEvent{Keystroke: Key(string(ch)), Text: string(ch)})
	}
	items := r.MenuItems()
	if len(items) != 1 || items[0].Handler != "copy" {
		t.Fatalf("filtered items = %+v", items)
	}
	e, ok := r.MenuKey(KeyEvent{Keystroke: Key(KeyEnter)})
	if !ok || e.Handler != "copy" {
		t.Fatalf("enter invoked %+v %v", e, ok)
	}
	if r.MenuOpen() {
		t.Fatal("menu should close after invoking")
	}

	r.OpenMenu()
	if r.MenuQuery().Text() != "" {
		t.Fatal("reopening should clear the menu query")
	}
	r.MenuKey(KeyEvent{Keystroke: Key(KeyDown)})
	if e, _ := r.MenuKey(KeyEvent{Keystroke: Key(KeyEnter)}); e.Handler != "copy" {
		t.Fatalf("down+enter invoked %+v", e)
	}

	r.OpenMenu()
	r.MenuKey(KeyEvent{Keystroke: Key(KeyBackspace)})
	if r.MenuOpen() {
		t.Fatal("backspace on empty menu query should close")
	}

	r.OpenMenu()
	if _, ok := r.MenuKey(KeyEvent{Keystroke: CmdKey("k")}); ok || r.MenuOpen() {
		t.Fatal("cmd+k inside the menu should just close it")
	}
}

func TestParseKeystroke(t *testing.T) {
	ks, err := ParseKeystroke("ctrl+shift+P")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if ks.Key != "p" || !ks.Mods.Ctrl || !ks.Mods.Shift {
		t.Fatalf("parsed %+v", ks)
	}
	if ks, _ := ParseKeystroke("cmd+k"); !ks.Matches(CmdKey("k")) {
		t.Fatalf("cmd+k parsed as %+v", ks)
	}
	if ks, _ := ParseKeystroke("esc"); ks.Key != KeyEscape {
		t.Fatalf("esc parsed as %+v", ks)
	}
	if _, err := ParseKeystroke("hyper+x"); err == nil {
		t.Fatal("expected error for unknown modifier")
	}
}
