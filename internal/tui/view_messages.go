package tui

import (
	"strings"
	"time"

	"lemmyterm/internal/model"
	"lemmyterm/internal/util"

	"github.com/charmbracelet/bubbles/list"
	"github.com/dustin/go-humanize"
)

// messageItem wraps PrivateMessageView for the list display.
type messageItem struct {
	model.PrivateMessageView
}

func (m messageItem) FilterValue() string { return m.PrivateMessage.Content }
func (m messageItem) Title() string {
	var prefix string
	switch {
	case m.PrivateMessage.Deleted:
		prefix = "[deleted] "
	case !m.PrivateMessage.Read:
		prefix = "* "
	}
	return prefix + firstLine(m.PrivateMessage.Content)
}
func (m messageItem) Description() string {
	from := util.DisplayName(m.Creator.Name, m.Creator.DisplayName, m.Creator.ActorID)
	to := util.DisplayName(m.Recipient.Name, m.Recipient.DisplayName, m.Recipient.ActorID)
	desc := "From: " + from + "  To: " + to
	if when := relativeTime(m.PrivateMessage.Published); when != "" {
		desc += "  " + when
	}
	return desc
}

func messagesFooter() string {
	return footerStyle.Render("enter: view  c: compose  r: read  d: delete  e: edit  !: report  P: purge  esc: back  q: quit")
}

// messageItems keeps the order it is given; the inbox decides ordering.
func messageItems(views []model.PrivateMessageView) []list.Item {
	items := make([]list.Item, len(views))
	for i, v := range views {
		items[i] = messageItem{v}
	}
	return items
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " ..."
	}
	return s
}

// Lemmy 0.18 sends naive UTC timestamps, 0.19 sends RFC 3339.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseTime(s string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func relativeTime(published string) string {
	t, ok := parseTime(published)
	if !ok {
		return published
	}
	return humanize.Time(t)
}

// trimDate converts a server timestamp to a short date string.
func trimDate(published string) string {
	if published == "" {
		return ""
	}
	if t, ok := parseTime(published); ok {
		return t.Format("Jan 2, 2006 15:04")
	}
	return published
}
