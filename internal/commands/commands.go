// Package commands defines the launcher's built-in command set.
package commands

import (
	"github.com/atomicstack/popup-launcher/internal/actions"
	"github.com/atomicstack/popup-launcher/internal/nav"
	"github.com/atomicstack/popup-launcher/internal/registry"
	"github.com/atomicstack/popup-launcher/internal/theme"
)

// Handler ids the application must provide.
const (
	HandlerRunCommand  actions.HandlerID = "command.run"
	HandlerSelectTheme actions.HandlerID = "theme.select"
	HandlerHide        actions.HandlerID = "window.hide"
	HandlerClearQuery  actions.HandlerID = "query.clear"
	HandlerBack        actions.HandlerID = "stack.pop"
)

// Command ids.
var (
	RootListID    = registry.ID("root", "list")
	ThemesID      = registry.ID("themes", "themes")
	PreferencesID = registry.ID("root", "preferences")
	AboutID       = registry.ID("root", "about")
)

// Info is one key/value row on the about screen.
type Info struct {
	Label string
	Value string
}

// Deps are the collaborators the built-ins need.
type Deps struct {
	Themes *theme.Catalog
	About  []Info
}

// Builtin returns the registry and the builder for the root view.
func Builtin(deps Deps) (*registry.Registry, nav.Builder) {
	var reg *registry.Registry
	root := nav.BuilderFunc{Name: RootListID, Fn: func(ctx nav.BuildContext) nav.View {
		return newRootList(ctx, reg)
	}}
	reg = registry.MustNew(
		registry.Command{
			ID:       RootListID,
			Title:    "Search Commands",
			Category: "Launcher",
			Tags:     []string{"home", "root"},
			// Dispatch resets to the root before invoking, which is all
			// this command needs.
			Invoke: func(registry.ActionContext) error { return nil },
		},
		registry.Command{
			ID:       ThemesID,
			Title:    "Search Themes",
			Category: "Customization",
			Tags:     []string{"appearance", "colors", "palette"},
			Invoke: func(ctx registry.ActionContext) error {
				ctx.Push(themesBuilder(deps.Themes))
				return nil
			},
		},
		registry.Command{
			ID:       PreferencesID,
			Title:    "Preferences",
			Category: "Launcher",
			Tags:     []string{"settings", "config"},
			Invoke: func(ctx registry.ActionContext) error {
				ctx.Toast().Error("Preferences not yet implemented")
				return nil
			},
		},
		registry.Command{
			ID:       AboutID,
			Title:    "About Popup Launcher",
			Category: "Launcher",
			Tags:     []string{"version", "info"},
			Invoke: func(ctx registry.ActionContext) error {
				ctx.Push(aboutBuilder(deps.About))
				return nil
			},
		},
	)
	return reg, root
}
