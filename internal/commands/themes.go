package commands

import (
	"github.com/atomicstack/popup-launcher/internal/actions"
	"github.com/atomicstack/popup-launcher/internal/nav"
	"github.com/atomicstack/popup-launcher/internal/theme"
	"github.com/atomicstack/popup-launcher/internal/views"
)

const dropdownAll = "all"

// ThemeList is the theme picker. Refresh re-reads the active palette.
type ThemeList struct {
	*views.List
	catalog *theme.Catalog
}

// Refresh rebuilds rows so the active marker follows the catalog.
func (t *ThemeList) Refresh() {
	t.SetItems(themeItems(t.catalog))
}

func themesBuilder(catalog *theme.Catalog) nav.Builder {
	return nav.BuilderFunc{Name: ThemesID, Fn: func(ctx nav.BuildContext) nav.View {
		ctx.Actions.SetDropdown(actions.Dropdown{
			Items: []actions.DropdownItem{
				{Value: dropdownAll, Label: "All Themes"},
				{Value: string(theme.Dark), Label: "Dark"},
				{Value: string(theme.Light), Label: "Light"},
			},
			Value: dropdownAll,
		})
		list := views.NewList(ctx, "Themes", themeItems(catalog),
			views.WithPlaceholder("Search for a theme..."),
			views.WithEmptyText("No themes match"),
			views.WithDropdownFilter(func(item views.Item, value string) bool {
				return value == "" || value == dropdownAll || item.Tag == value
			}),
		)
		return &ThemeList{List: list, catalog: catalog}
	}}
}

func themeItems(catalog *theme.Catalog) []views.Item {
	active := catalog.Active().ID
	palettes := theme.Palettes()
	items := make([]views.Item, 0, len(palettes))
	for _, p := range palettes {
		subtitle := ""
		if p.ID == active {
			subtitle = "Active"
		}
		items = append(items, views.Item{
			ID:       p.ID,
			Title:    p.Name,
			Subtitle: subtitle,
			Tag:      string(p.Appearance),
			Actions: []actions.Entry{{
				Label:   "Select Theme",
				Icon:    "◐",
				Handler: HandlerSelectTheme,
				Arg:     p.ID,
			}},
			Meta: actions.Meta{Kind: actions.MetaTheme, ID: p.ID},
		})
	}
	return items
}
