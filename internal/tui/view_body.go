package tui

import (
	"fmt"

	"lemmyterm/internal/model"
	"lemmyterm/internal/util"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
)

var headerStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("39")).
	PaddingBottom(1)

func bodyHeader(pm model.PrivateMessageView) string {
	from := util.DisplayName(pm.Creator.Name, pm.Creator.DisplayName, pm.Creator.ActorID)
	to := util.DisplayName(pm.Recipient.Name, pm.Recipient.DisplayName, pm.Recipient.ActorID)
	header := fmt.Sprintf("From: %s\nTo: %s\nDate: %s", from, to, trimDate(pm.PrivateMessage.Published))
	if pm.PrivateMessage.Updated != "" {
		header += "\nEdited: " + trimDate(pm.PrivateMessage.Updated)
	}
	if pm.PrivateMessage.Deleted {
		header += "\n(deleted)"
	}
	return headerStyle.Render(header)
}

func bodyContent(pm model.PrivateMessageView, width int) string {
	content := pm.PrivateMessage.Content
	if width > 0 {
		content = wordwrap.String(content, width)
	}
	return bodyHeader(pm) + "\n\n" + content
}

func bodyFooter() string {
	return footerStyle.Render("o: open in browser  c: reply  r: read  d: delete  e: edit  !: report  P: purge  esc: back  q: quit")
}
