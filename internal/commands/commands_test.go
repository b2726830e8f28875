package commands

import (
	"testing"

	"github.com/atomicstack/popup-launcher/internal/actions"
	"github.com/atomicstack/popup-launcher/internal/nav"
	"github.com/atomicstack/popup-launcher/internal/registry"
	"github.com/atomicstack/popup-launcher/internal/sched"
	"github.com/atomicstack/popup-launcher/internal/theme"
	"github.com/atomicstack/popup-launcher/internal/toast"
	"github.com/atomicstack/popup-launcher/internal/views"
)

type fakeContext struct {
	stack  *nav.Stack
	hidden bool
}

func (f *fakeContext) Push(b nav.Builder) *nav.ViewInstance    { return f.stack.Push(b) }
func (f *fakeContext) Replace(b nav.Builder) *nav.ViewInstance { return f.stack.Replace(b) }
func (f *fakeContext) Pop()                                    { f.stack.Pop() }
func (f *fakeContext) Toast() *toast.Toast                     { return f.stack.Active().Toast }
func (f *fakeContext) Hide()                                   { f.hidden = true }

func setup(t *testing.T) (*registry.Registry, *fakeContext, *theme.Catalog) {
	t.Helper()
	catalog := theme.NewCatalog("default")
	reg, root := Builtin(Deps{Themes: catalog, About: []Info{{Label: "Version", Value: "dev"}}})
	return reg, &fakeContext{stack: nav.New(&sched.Manual{}, root)}, catalog
}

func TestRootListShowsEveryOtherCommand(t *testing.T) {
	reg, ctx, _ := setup(t)
	root, ok := ctx.stack.Root().View.(*views.List)
	if !ok {
		t.Fatalf("root view is %T", ctx.stack.Root().View)
	}
	if got, want := len(root.Items()), len(reg.Commands())-1; got != want {
		t.Fatalf("root items = %d, want %d", got, want)
	}
	primary, ok := ctx.stack.Root().Actions.Primary()
	if !ok || primary.Handler != HandlerRunCommand || primary.Arg != root.Items()[0].ID {
		t.Fatalf("primary = %+v", primary)
	}
}

func TestThemesCommandPushesPicker(t *testing.T) {
	reg, ctx, catalog := setup(t)
	cmd, _ := reg.Lookup("themes")
	if err := cmd.Invoke(ctx); err != nil {
		t.Fatalf("invoke: %v", err)
	}
	active := ctx.stack.Active()
	if active.ID != ThemesID {
		t.Fatalf("active = %s", active.ID)
	}
	list := active.View.(*ThemeList)
	if len(list.Items()) != len(theme.Palettes()) {
		t.Fatalf("items = %d", len(list.Items()))
	}
	if active.Actions.Meta().Kind != actions.MetaTheme {
		t.Fatalf("meta = %+v", active.Actions.Meta())
	}

	active.Actions.CycleDropdown()
	for _, it := range list.Items() {
		if it.Tag != string(theme.Dark) {
			t.Fatalf("dark filter leaked %+v", it)
		}
	}

	if _, err := catalog.Select("dracula"); err != nil {
		t.Fatal(err)
	}
	list.Refresh()
	for _, it := range list.Items() {
		if (it.ID == "dracula") != (it.Subtitle == "Active") {
			t.Fatalf("active marker wrong on %+v", it)
		}
	}
}

func TestPreferencesReportsError(t *testing.T) {
	reg, ctx, _ := setup(t)
	cmd, _ := reg.Lookup("preferences")
	if err := cmd.Invoke(ctx); err != nil {
		t.Fatalf("invoke: %v", err)
	}
	st := ctx.Toast().State()
	if st.Kind != toast.Error || st.Message != "Preferences not yet implemented" {
		t.Fatalf("toast = %+v", st)
	}
	if ctx.stack.Len() != 1 {
		t.Fatal("preferences must not push a view")
	}
}

func TestAboutListsInfo(t *testing.T) {
	reg, ctx, _ := setup(t)
	cmd, _ := reg.Find(AboutID)
	_ = cmd.Invoke(ctx)
	list := ctx.stack.Active().View.(*views.List)
	if len(list.Items()) != 1 || list.Items()[0].Subtitle != "dev" {
		t.Fatalf("about items = %+v", list.Items())
	}
}
