package commands

import (
	"github.com/atomicstack/popup-launcher/internal/nav"
	"github.com/atomicstack/popup-launcher/internal/views"
)

func aboutBuilder(info []Info) nav.Builder {
	return nav.BuilderFunc{Name: AboutID, Fn: func(ctx nav.BuildContext) nav.View {
		items := make([]views.Item, 0, len(info))
		for _, row := range info {
			items = append(items, views.Item{ID: row.Label, Title: row.Label, Subtitle: row.Value})
		}
		return views.NewList(ctx, "About", items)
	}}
}
