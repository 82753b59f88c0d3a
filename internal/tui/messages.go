package tui

import (
	"lemmyterm/internal/auth"
	"lemmyterm/internal/inbox"
)

// Async message types for Bubble Tea commands.

type initialDataMsg struct {
	data inbox.InitialData
	err  error
}

type loginResultMsg struct {
	session *auth.Session
	err     error
}

type fetchedMsg struct {
	res  inbox.FetchResult
	page int
}

type actionResultMsg struct {
	res inbox.ActionResult
}

type statusMsg string

type openedMsg struct {
	err error
}
