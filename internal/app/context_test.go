package app

import (
	"errors"
	"testing"
	"time"

	"github.com/atomicstack/popup-launcher/internal/actions"
	"github.com/atomicstack/popup-launcher/internal/commands"
	"github.com/atomicstack/popup-launcher/internal/ipc"
	"github.com/atomicstack/popup-launcher/internal/sched"
	"github.com/atomicstack/popup-launcher/internal/settings"
	"github.com/atomicstack/popup-launcher/internal/state"
	"github.com/atomicstack/popup-launcher/internal/toast"
	"github.com/atomicstack/popup-launcher/internal/views"
	"github.com/atomicstack/popup-launcher/internal/visibility"
)

type harness struct {
	*Context
	clock *sched.Manual
	quits int
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{clock: &sched.Manual{}}
	h.Context = NewContext(Options{
		Scheduler: h.clock,
		Timings:   state.NewTimingsStore(settings.Defaults()),
		Theme:     "default",
		Quit:      func() { h.quits++ },
	})
	return h
}

func key(name string) actions.KeyEvent {
	return actions.KeyEvent{Keystroke: actions.Key(name)}
}

func text(s string) actions.KeyEvent {
	return actions.KeyEvent{Keystroke: actions.Key(s), Text: s}
}

func (h *harness) apply(t *testing.T, req ipc.Request) {
	t.Helper()
	if err := h.Apply(req); err != nil {
		t.Fatalf("apply %+v: %v", req, err)
	}
}

func TestUnknownCommandLeavesStateAlone(t *testing.T) {
	h := newHarness(t)
	h.apply(t, ipc.CommandRequest("themes"))
	h.Stack.Active().Query.Set("dra")
	before := h.Stack.Len()

	err := h.Apply(ipc.CommandRequest("nope"))
	if !errors.Is(err, ipc.ErrCommandNotFound) {
		t.Fatalf("err = %v", err)
	}
	if h.Stack.Len() != before || h.Stack.Active().Query.Text() != "dra" {
		t.Fatal("failed lookup mutated the stack")
	}
	if h.Visibility.State() != visibility.Shown {
		t.Fatal("failed lookup changed visibility")
	}
}

func TestCommandTogglesWhenAlreadyActive(t *testing.T) {
	h := newHarness(t)
	h.apply(t, ipc.CommandRequest("themes"))
	if h.Stack.Active().ID != commands.ThemesID || h.Stack.Len() != 2 {
		t.Fatalf("active = %s len=%d", h.Stack.Active().ID, h.Stack.Len())
	}
	h.apply(t, ipc.CommandRequest("launcher::themes::themes"))
	if h.Visibility.State() != visibility.Hidden || h.Stack.Len() != 2 {
		t.Fatalf("second request should hide, got %v len=%d", h.Visibility.State(), h.Stack.Len())
	}
	h.apply(t, ipc.CommandRequest("themes"))
	if h.Visibility.State() != visibility.Shown {
		t.Fatal("third request should show again")
	}
}

func TestCommandResetsBeforeInvoking(t *testing.T) {
	h := newHarness(t)
	h.Stack.Root().Query.Set("typed")
	h.apply(t, ipc.CommandRequest("about"))
	h.apply(t, ipc.Request{Action: ipc.ActionHide})
	h.apply(t, ipc.CommandRequest("themes"))
	if h.Stack.Len() != 2 || h.Stack.Active().ID != commands.ThemesID {
		t.Fatalf("stack should be root+themes, got len=%d active=%s", h.Stack.Len(), h.Stack.Active().ID)
	}
	if h.Stack.Root().Query.Text() != "" {
		t.Fatal("reset should clear the root query")
	}
	if h.Visibility.State() != visibility.Shown {
		t.Fatal("command should show the surface")
	}
}

func TestPreferencesShowsErrorOnRoot(t *testing.T) {
	h := newHarness(t)
	h.apply(t, ipc.CommandRequest("themes"))
	h.apply(t, ipc.CommandRequest("preferences"))
	if h.Stack.Len() != 1 {
		t.Fatalf("len = %d", h.Stack.Len())
	}
	st := h.Toast().State()
	if st.Kind != toast.Error || st.Message != "Preferences not yet implemented" {
		t.Fatalf("toast = %+v", st)
	}
	h.clock.Advance(4 * time.Second)
	if h.Toast().State().Kind != toast.Idle {
		t.Fatal("error toast should expire after 4s")
	}
}

func TestHiddenGraceResetsStack(t *testing.T) {
	h := newHarness(t)
	h.apply(t, ipc.CommandRequest("themes"))
	h.apply(t, ipc.Request{Action: ipc.ActionToggle})
	if h.Visibility.State() != visibility.Hidden {
		t.Fatal("toggle should hide")
	}
	h.clock.Advance(89 * time.Second)
	if h.Stack.Len() != 2 {
		t.Fatal("reset fired early")
	}
	h.clock.Advance(time.Second)
	if h.Stack.Len() != 1 {
		t.Fatalf("stack not reset after grace, len=%d", h.Stack.Len())
	}
}

func TestQuitAndPipe(t *testing.T) {
	h := newHarness(t)
	h.apply(t, ipc.Request{Action: ipc.ActionPipe})
	if h.quits != 0 || h.Stack.Len() != 1 {
		t.Fatal("pipe should be a no-op")
	}
	h.apply(t, ipc.Request{Action: ipc.ActionQuit})
	if h.quits != 1 {
		t.Fatalf("quits = %d", h.quits)
	}
}

func TestKeyRouting(t *testing.T) {
	h := newHarness(t)
	root := h.Stack.Root().View.(*views.List)

	for _, ch := range "them" {
		h.HandleKey(text(string(ch)))
	}
	if h.Stack.Root().Query.Text() != "them" || len(root.Items()) != 1 {
		t.Fatalf("query=%q items=%+v", h.Stack.Root().Query.Text(), root.Items())
	}

	h.HandleKey(key(actions.KeyEnter))
	if h.Stack.Active().ID != commands.ThemesID {
		t.Fatalf("enter should open themes, active=%s", h.Stack.Active().ID)
	}

	themes := h.Stack.Active()
	if !h.HandleKey(key(actions.KeyTab)) || themes.Actions.Dropdown().Value != "dark" {
		t.Fatalf("tab should cycle dropdown, got %q", themes.Actions.Dropdown().Value)
	}
	if h.HandleKey(actions.KeyEvent{Keystroke: actions.Key(actions.KeyTab), Held: true}) {
		t.Fatal("held tab must not cycle")
	}

	h.HandleKey(key(actions.KeyDown))
	selected, _ := themes.View.(*commands.ThemeList).Selected()
	held := actions.KeyEvent{Keystroke: actions.Key(actions.KeyEnter), Held: true}
	h.HandleKey(held)
	if h.Themes.Active().ID == selected.ID {
		t.Fatal("held enter must not run the primary action")
	}
	h.HandleKey(key(actions.KeyEnter))
	if h.Themes.Active().ID != selected.ID {
		t.Fatalf("theme = %s, want %s", h.Themes.Active().ID, selected.ID)
	}
	if st := themes.Toast.State(); st.Kind != toast.Success {
		t.Fatalf("toast = %+v", st)
	}

	h.HandleKey(key(actions.KeyBackspace))
	if h.Stack.Len() != 1 {
		t.Fatal("backspace on empty query should go back")
	}
	h.HandleKey(key(actions.KeyBackspace))
	if h.Stack.Root().Query.Text() != "the" {
		t.Fatalf("backspace should edit the query, got %q", h.Stack.Root().Query.Text())
	}

	h.HandleKey(key(actions.KeyEscape))
	if h.Visibility.State() != visibility.Hidden {
		t.Fatal("escape should hide")
	}
}

func TestClearSearchShortcutWithNoMatches(t *testing.T) {
	h := newHarness(t)
	root := h.Stack.Root()
	for _, q := range []string{"them", "zzzzqqq"} {
		root.Query.Set(q)
		if !h.HandleKey(actions.KeyEvent{Keystroke: actions.CmdKey("u")}) {
			t.Fatalf("cmd+u not consumed with query %q", q)
		}
		if root.Query.Text() != "" {
			t.Fatalf("cmd+u left query %q", root.Query.Text())
		}
	}
}

func TestHeldBackspaceStopsAtEmptyQuery(t *testing.T) {
	h := newHarness(t)
	h.apply(t, ipc.CommandRequest("themes"))
	h.Stack.Active().Query.Set("d")

	held := actions.KeyEvent{Keystroke: actions.Key(actions.KeyBackspace), Held: true}
	h.HandleKey(held)
	if h.Stack.Active().Query.Text() != "" {
		t.Fatalf("held backspace should still edit, query=%q", h.Stack.Active().Query.Text())
	}
	if h.HandleKey(held) || h.Stack.Len() != 2 {
		t.Fatalf("held backspace must not go back, len=%d", h.Stack.Len())
	}
	h.HandleKey(key(actions.KeyBackspace))
	if h.Stack.Len() != 1 {
		t.Fatal("a fresh backspace on an empty query should go back")
	}
}

func TestActionMenuKeys(t *testing.T) {
	h := newHarness(t)
	res := h.Stack.Root().Actions
	h.HandleKey(actions.KeyEvent{Keystroke: actions.CmdKey("k")})
	if !res.MenuOpen() {
		t.Fatal("cmd+k should open the action menu")
	}
	// Escape closes the menu instead of hiding the surface.
	h.HandleKey(key(actions.KeyEscape))
	if res.MenuOpen() || h.Visibility.State() != visibility.Shown {
		t.Fatalf("menu=%v visibility=%v", res.MenuOpen(), h.Visibility.State())
	}

	h.Stack.Root().Query.Set("x")
	h.HandleKey(actions.KeyEvent{Keystroke: actions.CmdKey("k")})
	for _, ch := range "clear" {
		h.HandleKey(text(string(ch)))
	}
	h.HandleKey(key(actions.KeyEnter))
	if h.Stack.Root().Query.Text() != "" {
		t.Fatalf("menu should have run Clear Search, query=%q", h.Stack.Root().Query.Text())
	}
}

func TestUnknownHandlerToastsError(t *testing.T) {
	h := newHarness(t)
	h.Run(actions.Entry{Label: "Mystery", Handler: "nope"})
	if st := h.Toast().State(); st.Kind != toast.Error {
		t.Fatalf("toast = %+v", st)
	}
}
