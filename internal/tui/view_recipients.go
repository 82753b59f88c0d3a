package tui

import (
	"fmt"

	"lemmyterm/internal/model"
	"lemmyterm/internal/util"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"
)

// recipientItem wraps Person to customize list display.
type recipientItem struct {
	model.Person
}

func (r recipientItem) FilterValue() string { return r.Name + " " + r.DisplayName }
func (r recipientItem) Title() string {
	return util.DisplayName(r.Name, r.DisplayName, r.ActorID)
}
func (r recipientItem) Description() string {
	if h := util.NormalizeActor(r.ActorID); h != "" {
		return "@" + h
	}
	return "@" + r.Name
}

var footerStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("241")).
	PaddingTop(1)

var statusStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("214"))

func recipientsFooter() string {
	return footerStyle.Render("enter: open  a: all messages  n/p: page  s: refresh  f: feed url  q: quit")
}

func recipientItems(people []model.Person) []list.Item {
	items := make([]list.Item, len(people))
	for i, p := range people {
		items[i] = recipientItem{p}
	}
	return items
}

func pageTitle(title string, page int) string {
	return fmt.Sprintf("%s (page %d)", title, page)
}
