package commands

import (
	"github.com/atomicstack/popup-launcher/internal/actions"
	"github.com/atomicstack/popup-launcher/internal/nav"
	"github.com/atomicstack/popup-launcher/internal/registry"
	"github.com/atomicstack/popup-launcher/internal/views"
)

func newRootList(ctx nav.BuildContext, reg *registry.Registry) *views.List {
	var items []views.Item
	for _, cmd := range reg.Commands() {
		if cmd.ID == RootListID {
			continue
		}
		items = append(items, views.Item{
			ID:       cmd.ID,
			Title:    cmd.Title,
			Subtitle: cmd.Category,
			Tag:      "Command",
			Keywords: cmd.Tags,
			Actions: []actions.Entry{{
				Label:   "Open Command",
				Icon:    "↵",
				Handler: HandlerRunCommand,
				Arg:     cmd.ID,
			}},
			Meta: actions.Meta{Kind: actions.MetaCommand, ID: cmd.ID},
		})
	}
	ctx.Actions.SetGlobal([]actions.Entry{
		actions.Entry{Label: "Clear Search", Handler: HandlerClearQuery}.Bind(actions.CmdKey("u")),
		actions.Entry{Label: "Hide Launcher", Handler: HandlerHide, Hidden: true}.Bind(actions.CmdKey("w")),
	})
	return views.NewList(ctx, "Search", items, views.WithPlaceholder("Search for apps and commands..."))
}
