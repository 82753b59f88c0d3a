package tui

import (
	"errors"
	"strings"

	"lemmyterm/internal/inbox"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
)

type composeKind int

const (
	composeSend composeKind = iota
	composeEdit
	composeReport
	composePurge
)

// composeState describes what the open editor will submit.
type composeState struct {
	kind   composeKind
	target int // recipient, message or person id depending on kind
	label  string
	back   viewState
}

var errEmptyMessage = errors.New("message is empty")

func newComposeArea() textarea.Model {
	ta := textarea.New()
	ta.CharLimit = 0
	ta.ShowLineNumbers = false
	return ta
}

func (c composeState) title() string {
	switch c.kind {
	case composeSend:
		return "New message to " + c.label
	case composeEdit:
		return "Edit message"
	case composeReport:
		return "Report message from " + c.label
	case composePurge:
		return "Purge " + c.label + " (reason)"
	}
	return ""
}

// action turns the editor text into the inbox action to dispatch.
func (c composeState) action(text string) (inbox.Action, error) {
	text = strings.TrimSpace(text)
	switch c.kind {
	case composeSend:
		if text == "" {
			return nil, errEmptyMessage
		}
		return inbox.CreateMessage{RecipientID: c.target, Content: text}, nil
	case composeEdit:
		if text == "" {
			return nil, errEmptyMessage
		}
		return inbox.EditMessage{ID: c.target, Content: text}, nil
	case composeReport:
		if text == "" {
			return nil, errors.New("a reason is required")
		}
		return inbox.ReportMessage{ID: c.target, Reason: text}, nil
	case composePurge:
		return inbox.PurgePerson{PersonID: c.target, Reason: text}, nil
	}
	return nil, errors.New("unknown editor")
}

func (m *AppModel) openCompose(c composeState, initial string) (tea.Model, tea.Cmd) {
	c.back = m.view
	m.compose = c
	m.composeArea.Reset()
	m.composeArea.SetValue(initial)
	m.view = viewCompose
	return m, m.composeArea.Focus()
}

func (m *AppModel) submitCompose() (tea.Model, tea.Cmd) {
	a, err := m.compose.action(m.composeArea.Value())
	if err != nil {
		m.status = err.Error()
		return m, clearStatusAfter(statusTTL)
	}
	m.composeArea.Blur()
	m.view = m.compose.back
	return m, m.dispatch(a)
}

func composeFooter() string {
	return footerStyle.Render("ctrl+s: submit  esc: cancel")
}
