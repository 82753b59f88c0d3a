package inbox

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"lemmyterm/internal/model"
)

// FetchRequest is a page request tagged with its sequence number. Only the
// result of the most recent request is ever applied.
type FetchRequest struct {
	Gen  uint64
	Seq  uint64
	Form model.GetPrivateMessages
}

type FetchResult struct {
	Gen uint64
	Seq uint64
	Res model.RequestState[model.PrivateMessagesResponse]
}

// BeginFetch marks the messages as loading and returns the request to send.
func (b *Inbox) BeginFetch() (FetchRequest, error) {
	if b.disposed {
		return FetchRequest{}, ErrDisposed
	}
	token, ok := b.authToken()
	if !ok {
		return FetchRequest{}, ErrNotLoggedIn
	}
	b.seq++
	b.state.MessagesRes = model.Loading[model.PrivateMessagesResponse]()
	return FetchRequest{
		Gen: b.gen,
		Seq: b.seq,
		Form: model.GetPrivateMessages{
			UnreadOnly: false,
			Page:       b.state.Page,
			Limit:      b.limit,
			Auth:       token,
		},
	}, nil
}

// Fetch performs the request. It does not touch any Inbox and may run on
// any goroutine.
func Fetch(ctx context.Context, api API, req FetchRequest) FetchResult {
	res, err := api.GetPrivateMessages(ctx, req.Form)
	return FetchResult{Gen: req.Gen, Seq: req.Seq, Res: model.Resolve(res, err)}
}

// ApplyFetch commits a result if it answers the latest request. It reports
// whether the state changed.
func (b *Inbox) ApplyFetch(res FetchResult) bool {
	if b.disposed || res.Gen != b.gen || res.Seq != b.seq {
		b.log.Debug("fetch_result_dropped",
			zap.Uint64("gen", res.Gen),
			zap.Uint64("seq", res.Seq),
			zap.Uint64("latest", b.seq),
			zap.Bool("disposed", b.disposed),
		)
		return false
	}
	b.state.MessagesRes = res.Res
	if res.Res.Status == model.StatusFailed {
		// No error view exists; the list simply renders empty.
		b.log.Warn("fetch_messages_failed", zap.Int("page", b.state.Page), zap.Error(res.Res.Err))
	}
	return true
}

// Refetch runs BeginFetch, Fetch and ApplyFetch on the calling goroutine.
func (b *Inbox) Refetch(ctx context.Context, api API) error {
	req, err := b.BeginFetch()
	if err != nil {
		return err
	}
	b.ApplyFetch(Fetch(ctx, api, req))
	return nil
}

// SetPage moves to page (at least 1) and begins a fresh fetch that replaces
// the current list.
func (b *Inbox) SetPage(page int) (FetchRequest, error) {
	if page < 1 {
		page = 1
	}
	b.state.Page = page
	return b.BeginFetch()
}

func (b *Inbox) NextPage() (FetchRequest, error) { return b.SetPage(b.state.Page + 1) }
func (b *Inbox) PrevPage() (FetchRequest, error) { return b.SetPage(b.state.Page - 1) }

func (b *Inbox) Page() int { return b.state.Page }

// SiteAPI fetches instance metadata.
type SiteAPI interface {
	GetSite(ctx context.Context, form model.GetSite) (model.GetSiteResponse, error)
}

// InitialAPI is what FetchInitialData needs.
type InitialAPI interface {
	SiteAPI
	GetPrivateMessages(ctx context.Context, form model.GetPrivateMessages) (model.PrivateMessagesResponse, error)
}

// InitialData is the first-load payload used to seed New via
// Options.Preloaded, Options.PreloadedForm and Options.Site.
type InitialData struct {
	Site     model.GetSiteResponse
	Messages model.RequestState[model.PrivateMessagesResponse]
	// Form is the request behind Messages; nil when none was sent.
	Form *model.GetPrivateMessages
}

// InitialForm is the first-load request: unread messages only, first page.
func InitialForm(auth string, limit int) model.GetPrivateMessages {
	return model.GetPrivateMessages{UnreadOnly: true, Page: 1, Limit: limit, Auth: auth}
}

// FetchInitialData loads the site and, when logged in, the first page of
// unread messages concurrently. Without auth the messages stay empty. Only a
// site failure is returned as an error; a message failure is kept in
// Messages.
func FetchInitialData(ctx context.Context, api InitialAPI, auth string, limit int) (InitialData, error) {
	data := InitialData{Messages: model.Empty[model.PrivateMessagesResponse]()}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		site, err := api.GetSite(gctx, model.GetSite{Auth: auth})
		if err != nil {
			return fmt.Errorf("get site: %w", err)
		}
		data.Site = site
		return nil
	})
	if auth != "" {
		form := InitialForm(auth, limit)
		data.Form = &form
		g.Go(func() error {
			res, err := api.GetPrivateMessages(gctx, form)
			data.Messages = model.Resolve(res, err)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return InitialData{}, err
	}
	return data, nil
}
