package digest

import (
	"fmt"
	"strings"

	"github.com/i474232898/sixtyseconds/internal/common"
)

const (
	// Title is the display name used in messages and widgets.
	Title = "60秒读懂世界"
	// DetailLabel labels the link to the full article.
	DetailLabel = "查看详情"

	// MessageNewsLimit caps how many news items go into a notification.
	MessageNewsLimit = 5
)

// Heading returns the "title · date" line shared by messages and widgets.
func Heading(d Digest) string {
	return Title + " · " + d.Date
}

// FormatMessage renders the fixed notification template for a digest.
func FormatMessage(d Digest) Message {
	var b strings.Builder

	fmt.Fprintf(&b, "【%s】\n", Heading(d))
	fmt.Fprintf(&b, "%s\n\n", d.Tip)

	for i, item := range common.FirstN(d.News, MessageNewsLimit) {
		fmt.Fprintf(&b, "%d. %s\n", i+1, item)
	}

	fmt.Fprintf(&b, "\n%s: %s", DetailLabel, d.Link)

	return Message{
		Type:  MessageTypeSite,
		Title: Title,
		Text:  b.String(),
	}
}
