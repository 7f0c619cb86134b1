package widget

import (
	"fmt"

	"github.com/i474232898/sixtyseconds/internal/common"
	"github.com/i474232898/sixtyseconds/internal/digest"
)

// DashboardNewsLimit caps the news items shown on the compact card.
const DashboardNewsLimit = 3

// Dashboard is a dashboard widget: grid placement, card attributes and the tree itself.
type Dashboard struct {
	Cols     Props  `json:"cols"`
	Attrs    Props  `json:"attrs"`
	Elements []Node `json:"elements"`
}

// RenderDashboard renders the compact dashboard card. It returns false when there is
// no snapshot, which tells the frontend to leave the widget out.
func RenderDashboard(snap digest.Snapshot, ok bool, cover bool) (Dashboard, bool) {
	if !ok {
		return Dashboard{}, false
	}

	d := snap.Digest

	var coverNodes []Node
	if cover {
		coverNodes = append(coverNodes, El("VImg", Props{
			"src":       d.Cover,
			"max-width": "100%",
			"height":    "auto",
		}))
	}

	news := common.FirstN(d.News, DashboardNewsLimit)
	items := make([]Node, 0, len(news))
	for i, item := range news {
		items = append(items, Text("div", class("mb-1 text-truncate"), fmt.Sprintf("%d. %s", i+1, item)))
	}

	card := El("VCard", class("h-100"),
		El("VCardItem", nil,
			Text("VCardTitle", class("pa-2"), digest.Heading(d)),
			Text("VCardSubtitle", class("pa-2"), d.Tip),
		),
		El("VCardText", class("pa-2"), coverNodes...),
		El("VCardText", class("pa-2"), items...),
		El("VCardActions", class("pa-2"),
			Text("VBtn", Props{
				"variant": "text",
				"color":   "primary",
				"href":    d.Link,
				"target":  "_blank",
			}, digest.DetailLabel),
		),
	)

	return Dashboard{
		Cols:     Props{"cols": 12, "md": 6},
		Attrs:    Props{"border": false},
		Elements: []Node{card},
	}, true
}
