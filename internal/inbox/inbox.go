// Package inbox is the private message screen's state: it fetches a page of
// messages, derives what is shown, and folds action results back in.
//
// An Inbox is not safe for concurrent use. Drive it from one goroutine (the
// Bubble Tea update loop or a CLI command) and run only Fetch and Dispatch,
// which never touch the state, elsewhere.
package inbox

import (
	"context"
	"errors"
	"slices"
	"sync/atomic"

	"go.uber.org/zap"

	"lemmyterm/internal/model"
)

// DefaultSort is the only sort the inbox offers.
const DefaultSort = "New"

var (
	ErrNotLoggedIn = errors.New("inbox: not logged in")
	ErrDisposed    = errors.New("inbox: disposed")
)

// API is the part of the instance client the inbox calls.
type API interface {
	GetPrivateMessages(ctx context.Context, form model.GetPrivateMessages) (model.PrivateMessagesResponse, error)
	CreatePrivateMessage(ctx context.Context, form model.CreatePrivateMessage) (model.PrivateMessageResponse, error)
	EditPrivateMessage(ctx context.Context, form model.EditPrivateMessage) (model.PrivateMessageResponse, error)
	DeletePrivateMessage(ctx context.Context, form model.DeletePrivateMessage) (model.PrivateMessageResponse, error)
	MarkPrivateMessageAsRead(ctx context.Context, form model.MarkPrivateMessageAsRead) (model.PrivateMessageResponse, error)
	CreatePrivateMessageReport(ctx context.Context, form model.CreatePrivateMessageReport) (model.PrivateMessageReportResponse, error)
	PurgePerson(ctx context.Context, form model.PurgePerson) (model.PurgeItemResponse, error)
}

type AuthProvider interface {
	Auth() (string, bool)
	MyUserInfo() *model.MyUserInfo
}

type Toaster interface {
	Toast(message string)
}

type Navigator interface {
	Navigate(path string)
}

// State is a snapshot of the screen.
type State struct {
	MessagesRes  model.RequestState[model.PrivateMessagesResponse]
	Sort         string
	Page         int
	Site         model.GetSiteResponse
	IsIsomorphic bool
	Recipient    *int
}

type Options struct {
	Auth AuthProvider
	Site model.GetSiteResponse
	// Preloaded, when set, seeds the state. Mount skips its fetch unless
	// PreloadedForm shows the data answered a different request.
	Preloaded     *model.RequestState[model.PrivateMessagesResponse]
	PreloadedForm *model.GetPrivateMessages
	Limit         int
	Toaster       Toaster
	Navigator     Navigator
	Logger        *zap.Logger
}

// generations numbers every Inbox so results from a replaced one are
// recognised and dropped.
var generations atomic.Uint64

type Inbox struct {
	state    State
	auth     AuthProvider
	limit    int
	gen      uint64
	seq      uint64
	preForm  *model.GetPrivateMessages
	disposed bool
	toaster  Toaster
	nav      Navigator
	log      *zap.Logger
}

type noopToaster struct{}

func (noopToaster) Toast(string) {}

type noopNavigator struct{}

func (noopNavigator) Navigate(string) {}

func New(opts Options) *Inbox {
	b := &Inbox{
		state: State{
			MessagesRes: model.Empty[model.PrivateMessagesResponse](),
			Sort:        DefaultSort,
			Page:        1,
			Site:        opts.Site,
		},
		auth:    opts.Auth,
		limit:   opts.Limit,
		gen:     generations.Add(1),
		toaster: opts.Toaster,
		nav:     opts.Navigator,
		log:     opts.Logger,
	}
	if b.limit <= 0 {
		b.limit = 20
	}
	if b.toaster == nil {
		b.toaster = noopToaster{}
	}
	if b.nav == nil {
		b.nav = noopNavigator{}
	}
	if b.log == nil {
		b.log = zap.NewNop()
	}
	if opts.Preloaded != nil {
		b.state.MessagesRes = *opts.Preloaded
		b.state.IsIsomorphic = true
		b.preForm = opts.PreloadedForm
	}
	return b
}

// Mount starts the first fetch. ok is false when the preloaded state already
// answers the request Mount would send.
func (b *Inbox) Mount() (req FetchRequest, ok bool, err error) {
	if b.state.IsIsomorphic && b.preloadCurrent() {
		return FetchRequest{}, false, nil
	}
	req, err = b.BeginFetch()
	if err != nil {
		return FetchRequest{}, false, err
	}
	return req, true, nil
}

// preloadCurrent reports whether the preloaded data came from the same page
// request BeginFetch builds. Unknown provenance counts as current.
func (b *Inbox) preloadCurrent() bool {
	f := b.preForm
	if f == nil {
		return true
	}
	return !f.UnreadOnly && f.Page == b.state.Page && f.Limit == b.limit
}

// Dispose ends the inbox lifetime. Results of requests still in flight are
// dropped when they arrive.
func (b *Inbox) Dispose() {
	b.disposed = true
	b.seq++
}

func (b *Inbox) Disposed() bool { return b.disposed }

// Generation identifies this Inbox among all created in the process.
// Requests and results carry it.
func (b *Inbox) Generation() uint64 { return b.gen }

// State returns a copy; the message slice is cloned.
func (b *Inbox) State() State {
	s := b.state
	if s.MessagesRes.IsSuccess() {
		s.MessagesRes.Data.PrivateMessages = slices.Clone(s.MessagesRes.Data.PrivateMessages)
	}
	if s.Recipient != nil {
		r := *s.Recipient
		s.Recipient = &r
	}
	return s
}

// SetSite replaces the site snapshot, e.g. after a background refresh.
func (b *Inbox) SetSite(site model.GetSiteResponse) {
	b.state.Site = site
}

func (b *Inbox) Limit() int { return b.limit }

func (b *Inbox) authToken() (string, bool) {
	if b.auth == nil {
		return "", false
	}
	return b.auth.Auth()
}

func (b *Inbox) myPersonID() (int, bool) {
	if b.auth == nil {
		return 0, false
	}
	mui := b.auth.MyUserInfo()
	if mui == nil {
		return 0, false
	}
	return mui.LocalUserView.Person.ID, true
}
