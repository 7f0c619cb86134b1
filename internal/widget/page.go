package widget

import (
	"fmt"

	"github.com/i474232898/sixtyseconds/internal/digest"
)

// NoDataText is shown on the page before the first successful fetch.
const NoDataText = "暂无数据"

// Page renders the full detail page for a snapshot. ok=false yields the placeholder.
func Page(snap digest.Snapshot, ok bool, cover bool) []Node {
	if !ok {
		return []Node{
			Text("div", Props{
				"class": "text-center",
				"style": "margin-top: 50px",
			}, NoDataText),
		}
	}

	d := snap.Digest

	body := []Node{
		Text("div", class("text-h5 mb-2"), digest.Heading(d)),
		Text("div", class("text-caption mb-3"), d.Tip),
	}
	if cover {
		body = append(body, El("VImg", Props{
			"src":       d.Cover,
			"max-width": "100%",
			"class":     "mb-4",
		}))
	}

	items := make([]Node, 0, len(d.News))
	for i, item := range d.News {
		items = append(items, Text("div", class("mb-2"), fmt.Sprintf("%d. %s", i+1, item)))
	}
	body = append(body,
		El("div", nil, items...),
		El("div", class("mt-4"),
			Text("a", Props{
				"href":   d.Link,
				"target": "_blank",
				"class":  "text-decoration-none",
			}, digest.DetailLabel),
		),
	)

	return []Node{
		El("VCard", nil,
			El("div", class("pa-4"), body...),
		),
	}
}
