package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/atomicstack/popup-launcher/internal/app"
	"github.com/atomicstack/popup-launcher/internal/commands"
	"github.com/atomicstack/popup-launcher/internal/ipc"
	"github.com/atomicstack/popup-launcher/internal/sched"
	"github.com/atomicstack/popup-launcher/internal/settings"
	"github.com/atomicstack/popup-launcher/internal/state"
	"github.com/atomicstack/popup-launcher/internal/visibility"
)

func newTestHarness(t *testing.T, opts Options) (*Harness, *sched.Manual) {
	t.Helper()
	clock := &sched.Manual{}
	m := NewModel(opts)
	ctx := app.NewContext(app.Options{
		Scheduler: clock,
		Surface:   m.Surface(),
		Timings:   state.NewTimingsStore(settings.Defaults()),
		Quit:      m.RequestQuit,
	})
	m.Attach(ctx)
	return NewHarness(m), clock
}

func plainView(h *Harness) string {
	return ansi.Strip(h.View())
}

func TestTypingFiltersRootList(t *testing.T) {
	h, _ := newTestHarness(t, Options{Width: 80})
	view := plainView(h)
	if !strings.Contains(view, "Search Themes") || !strings.Contains(view, "About Popup Launcher") {
		t.Fatalf("expected every command listed, got:\n%s", view)
	}
	h.Type("themes")
	view = plainView(h)
	if !strings.Contains(view, "» themes") {
		t.Fatalf("expected query in prompt, got:\n%s", view)
	}
	if strings.Contains(view, "About Popup Launcher") {
		t.Fatalf("expected about to be filtered out, got:\n%s", view)
	}
}

func TestEnterRunsPrimaryAction(t *testing.T) {
	h, _ := newTestHarness(t, Options{Width: 80})
	h.Type("themes")
	h.Press(tea.KeyEnter)
	ctx := h.Model().Context()
	if ctx.Stack.Active().ID != commands.ThemesID {
		t.Fatalf("expected themes view, got %s", ctx.Stack.Active().ID)
	}
	view := plainView(h)
	if !strings.Contains(view, "Search → Themes") {
		t.Fatalf("expected breadcrumb, got:\n%s", view)
	}
	if !strings.Contains(view, "[All Themes ▾]") {
		t.Fatalf("expected dropdown label, got:\n%s", view)
	}
	if !strings.Contains(view, "Select Theme ↵") {
		t.Fatalf("expected primary action hint, got:\n%s", view)
	}

	h.Press(tea.KeyTab)
	if !strings.Contains(plainView(h), "[Dark ▾]") {
		t.Fatalf("expected tab to cycle dropdown, got:\n%s", plainView(h))
	}

	h.Press(tea.KeyBackspace)
	if ctx.Stack.Len() != 1 {
		t.Fatalf("expected backspace on empty query to pop, len=%d", ctx.Stack.Len())
	}
}

func TestActionMenuRendersEntries(t *testing.T) {
	h, _ := newTestHarness(t, Options{Width: 80})
	h.Send(tea.KeyMsg{Type: tea.KeyCtrlK})
	res := h.Model().Context().Stack.Active().Actions
	if !res.MenuOpen() {
		t.Fatal("expected ctrl+k to open the action menu")
	}
	view := plainView(h)
	for _, want := range []string{"Actions", "Open Command", "Clear Search", "Search actions..."} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in menu view:\n%s", want, view)
		}
	}
	if strings.Contains(view, "Hide Launcher") {
		t.Fatalf("hidden entries must not be listed:\n%s", view)
	}
	h.Press(tea.KeyEsc)
	if res.MenuOpen() {
		t.Fatal("expected escape to close the menu")
	}
	if h.Model().Context().Visibility.State() != visibility.Shown {
		t.Fatal("escape in the menu must not hide the launcher")
	}
}

func TestToastShownInActionBar(t *testing.T) {
	h, clock := newTestHarness(t, Options{Width: 80})
	h.Post(func() {
		if err := h.Model().Context().Apply(ipc.CommandRequest("preferences")); err != nil {
			t.Errorf("apply: %v", err)
		}
	})
	if !strings.Contains(plainView(h), "✗ Preferences not yet implemented") {
		t.Fatalf("expected error toast, got:\n%s", plainView(h))
	}
	clock.Advance(settings.Defaults().ToastError)
	if strings.Contains(plainView(h), "Preferences not yet implemented") {
		t.Fatalf("expected toast to expire, got:\n%s", plainView(h))
	}
}

func TestHiddenSurfaceIgnoresKeys(t *testing.T) {
	h, _ := newTestHarness(t, Options{Width: 80})
	h.Press(tea.KeyEsc)
	ctx := h.Model().Context()
	if ctx.Visibility.State() != visibility.Hidden {
		t.Fatal("expected escape to hide")
	}
	if got := plainView(h); got != "Launcher hidden" {
		t.Fatalf("unexpected hidden view %q", got)
	}
	h.Type("x")
	if !ctx.Stack.Active().Query.Empty() {
		t.Fatal("keys must be ignored while hidden")
	}
	h.Post(func() { ctx.Visibility.Show() })
	if !strings.Contains(plainView(h), "Search") {
		t.Fatalf("expected list after show, got:\n%s", plainView(h))
	}
}

func TestQuitRequests(t *testing.T) {
	h, _ := newTestHarness(t, Options{})
	h.Send(tea.KeyMsg{Type: tea.KeyCtrlC})
	if !h.Quitting() {
		t.Fatal("expected ctrl+c to quit")
	}

	h, _ = newTestHarness(t, Options{})
	h.Post(func() { _ = h.Model().Context().Apply(ipc.Request{Action: ipc.ActionQuit}) })
	if !h.Quitting() {
		t.Fatal("expected client quit to end the program")
	}
	if h.View() != "" {
		t.Fatal("expected empty view while quitting")
	}
}

func TestViewportFollowsCursor(t *testing.T) {
	// 7 rows leave two for the list.
	h, _ := newTestHarness(t, Options{Width: 80, Height: 7})
	h.Press(tea.KeyEnd)
	view := plainView(h)
	if strings.Contains(view, "Search Themes") {
		t.Fatalf("expected first item scrolled away, got:\n%s", view)
	}
	if !strings.Contains(view, "About Popup Launcher") {
		t.Fatalf("expected last item visible, got:\n%s", view)
	}
	if lines := strings.Split(view, "\n"); len(lines) != 7 {
		t.Fatalf("expected 7 rows, got %d:\n%s", len(lines), view)
	}
	h.Press(tea.KeyHome)
	if !strings.Contains(plainView(h), "Search Themes") {
		t.Fatalf("expected first item after home, got:\n%s", plainView(h))
	}
}

func TestWindowSizeRespectsFixedDimensions(t *testing.T) {
	h, _ := newTestHarness(t, Options{Width: 40})
	h.Send(tea.WindowSizeMsg{Width: 100, Height: 30})
	m := h.Model()
	if m.width != 40 || m.height != 30 {
		t.Fatalf("expected fixed width and tracked height, got %dx%d", m.width, m.height)
	}
	for _, line := range strings.Split(plainView(h), "\n") {
		if w := ansi.StringWidth(line); w > 40 {
			t.Fatalf("line exceeds width (%d): %q", w, line)
		}
	}
}

func TestSurfaceMarksRedraw(t *testing.T) {
	h, _ := newTestHarness(t, Options{})
	m := h.Model()
	h.Post(func() { m.Context().Visibility.Hide() })
	if m.shownChanged {
		t.Fatal("expected update to consume the visibility change")
	}
	if !m.hidden() {
		t.Fatal("expected hidden state")
	}
}

func TestProgramExecutorDropsAfterStop(t *testing.T) {
	exec := newProgramExecutor(nil)
	exec.stop()
	exec.stop()
	ran := false
	exec.Post(func() { ran = true })
	if ran {
		t.Fatal("closure must not run after stop")
	}
	select {
	case <-exec.Done():
	default:
		t.Fatal("expected Done to be closed")
	}
}
