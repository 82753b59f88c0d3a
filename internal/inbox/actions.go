package inbox

import (
	"context"
	"slices"

	"go.uber.org/zap"

	"lemmyterm/internal/model"
)

const (
	ToastReportCreated = "Report created"
	ToastPurgeSuccess  = "Purge success"
)

type ActionKind int

const (
	ActionCreate ActionKind = iota
	ActionEdit
	ActionDelete
	ActionMarkRead
	ActionReport
	ActionPurge
)

func (k ActionKind) String() string {
	switch k {
	case ActionCreate:
		return "Send"
	case ActionEdit:
		return "Edit"
	case ActionDelete:
		return "Delete"
	case ActionMarkRead:
		return "Mark read"
	case ActionReport:
		return "Report"
	case ActionPurge:
		return "Purge"
	}
	return "Action"
}

// Action is a user-initiated mutation. The implementations in this package
// are the only ones.
type Action interface {
	Kind() ActionKind
	call(ctx context.Context, api API, auth string) ActionResult
}

type CreateMessage struct {
	RecipientID int
	Content     string
}

type EditMessage struct {
	ID      int
	Content string
}

// DeleteMessage with Deleted=false restores a deleted message.
type DeleteMessage struct {
	ID      int
	Deleted bool
}

type MarkMessageRead struct {
	ID   int
	Read bool
}

type ReportMessage struct {
	ID     int
	Reason string
}

type PurgePerson struct {
	PersonID int
	Reason   string
}

func (CreateMessage) Kind() ActionKind   { return ActionCreate }
func (EditMessage) Kind() ActionKind     { return ActionEdit }
func (DeleteMessage) Kind() ActionKind   { return ActionDelete }
func (MarkMessageRead) Kind() ActionKind { return ActionMarkRead }
func (ReportMessage) Kind() ActionKind   { return ActionReport }
func (PurgePerson) Kind() ActionKind     { return ActionPurge }

// ActionResult holds the response matching Kind; the other fields stay
// empty.
type ActionResult struct {
	Gen     uint64
	Kind    ActionKind
	Message model.RequestState[model.PrivateMessageResponse]
	Report  model.RequestState[model.PrivateMessageReportResponse]
	Purge   model.RequestState[model.PurgeItemResponse]
}

// Failed reports whether the API call did not succeed.
func (r ActionResult) Failed() bool {
	switch r.Kind {
	case ActionReport:
		return !r.Report.IsSuccess()
	case ActionPurge:
		return !r.Purge.IsSuccess()
	}
	return !r.Message.IsSuccess()
}

// Err is the API error, if any.
func (r ActionResult) Err() error {
	switch r.Kind {
	case ActionReport:
		return r.Report.Err
	case ActionPurge:
		return r.Purge.Err
	}
	return r.Message.Err
}

func (a CreateMessage) call(ctx context.Context, api API, auth string) ActionResult {
	res, err := api.CreatePrivateMessage(ctx, model.CreatePrivateMessage{
		Content: a.Content, RecipientID: a.RecipientID, Auth: auth,
	})
	return ActionResult{Kind: ActionCreate, Message: model.Resolve(res, err)}
}

func (a EditMessage) call(ctx context.Context, api API, auth string) ActionResult {
	res, err := api.EditPrivateMessage(ctx, model.EditPrivateMessage{
		PrivateMessageID: a.ID, Content: a.Content, Auth: auth,
	})
	return ActionResult{Kind: ActionEdit, Message: model.Resolve(res, err)}
}

func (a DeleteMessage) call(ctx context.Context, api API, auth string) ActionResult {
	res, err := api.DeletePrivateMessage(ctx, model.DeletePrivateMessage{
		PrivateMessageID: a.ID, Deleted: a.Deleted, Auth: auth,
	})
	return ActionResult{Kind: ActionDelete, Message: model.Resolve(res, err)}
}

func (a MarkMessageRead) call(ctx context.Context, api API, auth string) ActionResult {
	res, err := api.MarkPrivateMessageAsRead(ctx, model.MarkPrivateMessageAsRead{
		PrivateMessageID: a.ID, Read: a.Read, Auth: auth,
	})
	return ActionResult{Kind: ActionMarkRead, Message: model.Resolve(res, err)}
}

func (a ReportMessage) call(ctx context.Context, api API, auth string) ActionResult {
	res, err := api.CreatePrivateMessageReport(ctx, model.CreatePrivateMessageReport{
		PrivateMessageID: a.ID, Reason: a.Reason, Auth: auth,
	})
	return ActionResult{Kind: ActionReport, Report: model.Resolve(res, err)}
}

func (a PurgePerson) call(ctx context.Context, api API, auth string) ActionResult {
	res, err := api.PurgePerson(ctx, model.PurgePerson{
		PersonID: a.PersonID, Reason: a.Reason, Auth: auth,
	})
	return ActionResult{Kind: ActionPurge, Purge: model.Resolve(res, err)}
}

// ActionRequest is an action bound to the credential it will be sent with.
type ActionRequest struct {
	Gen    uint64
	Action Action
	Auth   string
}

// BeginAction binds a to the current credential.
func (b *Inbox) BeginAction(a Action) (ActionRequest, error) {
	if b.disposed {
		return ActionRequest{}, ErrDisposed
	}
	token, ok := b.authToken()
	if !ok {
		return ActionRequest{}, ErrNotLoggedIn
	}
	return ActionRequest{Gen: b.gen, Action: a, Auth: token}, nil
}

// Dispatch sends the action. Like Fetch it never touches an Inbox.
func Dispatch(ctx context.Context, api API, req ActionRequest) ActionResult {
	res := req.Action.call(ctx, api, req.Auth)
	res.Gen = req.Gen
	return res
}

// ApplyAction folds a result into the state:
//   - create prepends the new message
//   - edit, delete and mark-read replace the message with the same id
//   - report toasts, purge toasts and navigates to "/"
//
// Failures are ignored, as are list updates while no page is loaded.
// Deleted messages stay in the list with their new flags.
func (b *Inbox) ApplyAction(res ActionResult) bool {
	if b.disposed || res.Gen != b.gen {
		return false
	}
	if res.Failed() {
		b.log.Debug("action_failed", zap.Stringer("action", res.Kind), zap.Error(res.Err()))
		return false
	}

	switch res.Kind {
	case ActionReport:
		b.toaster.Toast(ToastReportCreated)
		return true
	case ActionPurge:
		b.toaster.Toast(ToastPurgeSuccess)
		b.nav.Navigate("/")
		return true
	}

	if !b.state.MessagesRes.IsSuccess() {
		return false
	}
	pmv := res.Message.Data.PrivateMessageView
	list := b.state.MessagesRes.Data.PrivateMessages

	if res.Kind == ActionCreate {
		b.state.MessagesRes.Data.PrivateMessages = append([]model.PrivateMessageView{pmv}, list...)
		return true
	}

	idx := slices.IndexFunc(list, func(v model.PrivateMessageView) bool {
		return v.PrivateMessage.ID == pmv.PrivateMessage.ID
	})
	if idx < 0 {
		return false
	}
	updated := slices.Clone(list)
	updated[idx] = pmv
	b.state.MessagesRes.Data.PrivateMessages = updated
	return true
}

// Do runs BeginAction, Dispatch and ApplyAction on the calling goroutine and
// returns the API result so callers outside the screen can report failures.
func (b *Inbox) Do(ctx context.Context, api API, a Action) (ActionResult, error) {
	req, err := b.BeginAction(a)
	if err != nil {
		return ActionResult{Kind: a.Kind()}, err
	}
	res := Dispatch(ctx, api, req)
	b.ApplyAction(res)
	return res, nil
}
