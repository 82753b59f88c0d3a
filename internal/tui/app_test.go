package tui

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lemmyterm/internal/auth"
	"lemmyterm/internal/inbox"
	"lemmyterm/internal/model"
	"lemmyterm/internal/store"
)

const testInstance = "https://lemmy.test"

type fakeClient struct {
	messages []model.PrivateMessageView
	site     model.GetSiteResponse
	reply    model.PrivateMessageView
	err      error
	forms    []model.GetPrivateMessages
}

func (f *fakeClient) GetPrivateMessages(_ context.Context, form model.GetPrivateMessages) (model.PrivateMessagesResponse, error) {
	f.forms = append(f.forms, form)
	return model.PrivateMessagesResponse{PrivateMessages: f.messages}, f.err
}

func (f *fakeClient) CreatePrivateMessage(context.Context, model.CreatePrivateMessage) (model.PrivateMessageResponse, error) {
	return model.PrivateMessageResponse{PrivateMessageView: f.reply}, f.err
}

func (f *fakeClient) EditPrivateMessage(context.Context, model.EditPrivateMessage) (model.PrivateMessageResponse, error) {
	return model.PrivateMessageResponse{PrivateMessageView: f.reply}, f.err
}

func (f *fakeClient) DeletePrivateMessage(context.Context, model.DeletePrivateMessage) (model.PrivateMessageResponse, error) {
	return model.PrivateMessageResponse{PrivateMessageView: f.reply}, f.err
}

func (f *fakeClient) MarkPrivateMessageAsRead(context.Context, model.MarkPrivateMessageAsRead) (model.PrivateMessageResponse, error) {
	return model.PrivateMessageResponse{PrivateMessageView: f.reply}, f.err
}

func (f *fakeClient) CreatePrivateMessageReport(context.Context, model.CreatePrivateMessageReport) (model.PrivateMessageReportResponse, error) {
	return model.PrivateMessageReportResponse{}, f.err
}

func (f *fakeClient) PurgePerson(context.Context, model.PurgePerson) (model.PurgeItemResponse, error) {
	return model.PurgeItemResponse{Success: true}, f.err
}

func (f *fakeClient) GetSite(context.Context, model.GetSite) (model.GetSiteResponse, error) {
	return f.site, f.err
}

func (f *fakeClient) Login(context.Context, model.Login) (model.LoginResponse, error) {
	if f.err != nil {
		return model.LoginResponse{}, f.err
	}
	return model.LoginResponse{JWT: "fresh-jwt"}, nil
}

func (f *fakeClient) FeedURL(path string) string {
	if path == "" {
		return ""
	}
	return testInstance + path
}

func person(id int, name string) model.Person {
	return model.Person{ID: id, Name: name, ActorID: "https://lemmy.test/u/" + name}
}

func message(id int, from, to model.Person, published string) model.PrivateMessageView {
	return model.PrivateMessageView{
		PrivateMessage: model.PrivateMessage{
			ID: id, CreatorID: from.ID, RecipientID: to.ID,
			Content: "message " + published, Published: published,
		},
		Creator:   from,
		Recipient: to,
	}
}

var (
	alice = person(1, "alice")
	bob   = person(2, "bob")
	carol = person(3, "carol")
)

func testSite() model.GetSiteResponse {
	site := model.GetSiteResponse{Version: "0.18.5"}
	site.SiteView.Site.Name = "Test Lemmy"
	site.MyUser = &model.MyUserInfo{}
	site.MyUser.LocalUserView.Person = alice
	return site
}

func newTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	s, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func newTestApp(t *testing.T, client *fakeClient, session *auth.Session) (*AppModel, *store.SQLiteStore) {
	t.Helper()
	s := newTestStore(t)
	m := NewAppModel(Options{
		Client:   client,
		Cache:    s,
		Instance: testInstance,
		Session:  session,
		Limit:    20,
	})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return m, s
}

// loaded returns an app showing the recipients view with msgs preloaded.
func loaded(t *testing.T, client *fakeClient, msgs ...model.PrivateMessageView) *AppModel {
	t.Helper()
	m, _ := newTestApp(t, client, &auth.Session{Instance: testInstance, Token: "jwt"})
	m.Update(initialDataMsg{data: inbox.InitialData{
		Site:     testSite(),
		Messages: model.Success(model.PrivateMessagesResponse{PrivateMessages: msgs}),
	}})
	require.Equal(t, viewRecipients, m.view)
	return m
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func listMessageIDs(m *AppModel) []int {
	var out []int
	for _, it := range m.messagesList.Items() {
		out = append(out, it.(messageItem).PrivateMessage.ID)
	}
	return out
}

func TestInitWithoutSessionShowsLogin(t *testing.T) {
	m, _ := newTestApp(t, &fakeClient{}, nil)
	m.Init()
	assert.Equal(t, viewLogin, m.view)
	assert.Contains(t, m.View(), "Log in to "+testInstance)
}

func TestLoginFlow(t *testing.T) {
	client := &fakeClient{}
	m, s := newTestApp(t, client, nil)
	m.Init()

	m.userInput.SetValue("alice")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, 1, m.loginFocus)
	m.passInput.SetValue("hunter2")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	msg := cmd()
	res, ok := msg.(loginResultMsg)
	require.True(t, ok)
	require.NoError(t, res.err)

	m.Update(res)
	assert.Equal(t, viewLoading, m.view)
	tok, ok := m.session.Auth()
	assert.True(t, ok)
	assert.Equal(t, "fresh-jwt", tok)

	saved, err := auth.Load(context.Background(), s, testInstance)
	require.NoError(t, err)
	assert.Equal(t, "fresh-jwt", saved.Token)
}

func TestLoginFailureStaysOnForm(t *testing.T) {
	m, _ := newTestApp(t, &fakeClient{}, nil)
	m.Init()
	m.Update(loginResultMsg{err: errors.New("incorrect_login")})
	assert.Equal(t, viewLogin, m.view)
	assert.Contains(t, m.status, "incorrect_login")
}

// runBatch executes cmd, feeding every resulting fetch back into m. It
// returns how many fetches ran.
func runBatch(t *testing.T, m *AppModel, cmd tea.Cmd) int {
	t.Helper()
	if cmd == nil {
		return 0
	}
	msgs := []tea.Msg{cmd()}
	if batch, ok := msgs[0].(tea.BatchMsg); ok {
		msgs = msgs[:0]
		for _, c := range batch {
			if c != nil {
				msgs = append(msgs, c())
			}
		}
	}
	fetches := 0
	for _, msg := range msgs {
		fm, ok := msg.(fetchedMsg)
		if !ok {
			continue
		}
		fetches++
		if _, next := m.Update(fm); next != nil {
			next()
		}
	}
	return fetches
}

func TestInitialDataWithoutFormSkipsFetch(t *testing.T) {
	client := &fakeClient{}
	m, s := newTestApp(t, client, &auth.Session{Instance: testInstance, Token: "jwt"})
	msgs := []model.PrivateMessageView{
		message(10, alice, bob, "2024-01-01T00:00:00Z"),
		message(11, alice, carol, "2024-01-02T00:00:00Z"),
		message(12, alice, bob, "2024-01-03T00:00:00Z"),
	}
	_, cmd := m.Update(initialDataMsg{data: inbox.InitialData{
		Site:     testSite(),
		Messages: model.Success(model.PrivateMessagesResponse{PrivateMessages: msgs}),
	}})

	assert.Equal(t, viewRecipients, m.view)
	assert.True(t, m.inbox.State().IsIsomorphic)
	assert.Len(t, m.recipientsList.Items(), 2)
	assert.Equal(t, "@alice messages - Test Lemmy (page 1)", m.recipientsList.Title)

	assert.Zero(t, runBatch(t, m, cmd))
	assert.Empty(t, client.forms)

	site, ok, err := s.LoadSite(context.Background(), testInstance)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Test Lemmy", site.SiteView.Site.Name)
}

func TestUnreadInitialDataRefetchesFullPage(t *testing.T) {
	full := []model.PrivateMessageView{
		message(10, alice, bob, "2024-01-01T00:00:00Z"),
		message(11, alice, carol, "2024-01-02T00:00:00Z"),
	}
	full[0].PrivateMessage.Read = true
	client := &fakeClient{messages: full}
	m, s := newTestApp(t, client, &auth.Session{Instance: testInstance, Token: "jwt"})

	form := inbox.InitialForm("jwt", 20)
	_, cmd := m.Update(initialDataMsg{data: inbox.InitialData{
		Site:     testSite(),
		Messages: model.Success(model.PrivateMessagesResponse{PrivateMessages: full[1:]}),
		Form:     &form,
	}})
	assert.True(t, m.inbox.Loading())

	require.Equal(t, 1, runBatch(t, m, cmd))
	require.Len(t, client.forms, 1)
	assert.False(t, client.forms[0].UnreadOnly)
	assert.Equal(t, 1, client.forms[0].Page)

	// The read message to bob is listed too.
	assert.Len(t, m.recipientsList.Items(), 2)
	cached, err := s.LoadPage(context.Background(), testInstance, 1)
	require.NoError(t, err)
	assert.Len(t, cached, 2)
}

func TestOfflineStartFromCache(t *testing.T) {
	m, s := newTestApp(t, &fakeClient{}, &auth.Session{Instance: testInstance, Token: "jwt"})
	ctx := context.Background()
	require.NoError(t, s.SaveSite(ctx, testInstance, testSite()))
	require.NoError(t, s.SavePage(ctx, testInstance, 1, []model.PrivateMessageView{
		message(10, alice, bob, "2024-01-01T00:00:00Z"),
	}))

	m.Update(initialDataMsg{err: errors.New("connection refused")})
	require.Nil(t, m.Err)
	assert.True(t, m.offline)
	assert.Equal(t, viewRecipients, m.view)
	assert.Len(t, m.recipientsList.Items(), 1)
	assert.Contains(t, m.status, "Offline")
}

func TestInitialDataFailureWithoutCache(t *testing.T) {
	m, _ := newTestApp(t, &fakeClient{}, &auth.Session{Instance: testInstance, Token: "jwt"})
	m.Update(initialDataMsg{err: errors.New("connection refused")})
	require.Error(t, m.Err)
	assert.Contains(t, m.View(), "connection refused")
}

func TestSelectRecipientAndCompose(t *testing.T) {
	client := &fakeClient{}
	m := loaded(t, client, message(1, alice, bob, "2024-01-01T00:00:00Z"))

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, viewMessages, m.view)
	assert.Equal(t, []int{1}, listMessageIDs(m))
	assert.Contains(t, m.messagesList.Title, "To bob@lemmy.test")

	m.Update(keyRunes("c"))
	require.Equal(t, viewCompose, m.view)
	assert.Equal(t, composeSend, m.compose.kind)
	assert.Equal(t, bob.ID, m.compose.target)

	m.composeArea.SetValue("hello bob")
	client.reply = message(2, alice, bob, "2024-02-01T00:00:00Z")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	require.NotNil(t, cmd)
	assert.Equal(t, viewMessages, m.view)

	m.Update(cmd())
	assert.Equal(t, []int{2, 1}, listMessageIDs(m))
	assert.Equal(t, "Send complete", m.status)
}

func TestComposeRejectsEmpty(t *testing.T) {
	m := loaded(t, &fakeClient{}, message(1, alice, bob, "2024-01-01T00:00:00Z"))
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m.Update(keyRunes("c"))
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.Equal(t, viewCompose, m.view)
	assert.Equal(t, errEmptyMessage.Error(), m.status)

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, viewMessages, m.view)
}

func TestShowAllSortsNewestFirst(t *testing.T) {
	m := loaded(t, &fakeClient{},
		message(1, alice, bob, "2024-01-01T00:00:00Z"),
		message(2, alice, carol, "2024-03-01T00:00:00Z"),
		message(3, bob, alice, "2024-02-01T00:00:00Z"),
	)
	m.Update(keyRunes("a"))
	require.Equal(t, viewMessages, m.view)
	assert.Equal(t, []int{2, 3, 1}, listMessageIDs(m))

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, viewRecipients, m.view)
	assert.False(t, m.showAll)
}

func TestMarkReadUpdatesBody(t *testing.T) {
	client := &fakeClient{}
	m := loaded(t, client, message(1, bob, alice, "2024-01-01T00:00:00Z"))
	m.Update(keyRunes("a"))
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, viewBody, m.view)
	assert.Equal(t, 1, m.selectedID)

	read := message(1, bob, alice, "2024-01-01T00:00:00Z")
	read.PrivateMessage.Read = true
	client.reply = read
	_, cmd := m.Update(keyRunes("r"))
	require.NotNil(t, cmd)
	m.Update(cmd())

	pm, ok := m.findMessage(1)
	require.True(t, ok)
	assert.True(t, pm.PrivateMessage.Read)
	assert.Equal(t, "Mark read complete", m.status)
}

func TestEditOnlyOwnMessages(t *testing.T) {
	m := loaded(t, &fakeClient{}, message(1, bob, alice, "2024-01-01T00:00:00Z"))
	m.Update(keyRunes("a"))
	m.Update(keyRunes("e"))
	assert.Equal(t, viewMessages, m.view)
	assert.Contains(t, m.status, "own messages")
}

func TestActionFailureShowsStatus(t *testing.T) {
	client := &fakeClient{}
	m := loaded(t, client, message(1, alice, bob, "2024-01-01T00:00:00Z"))
	m.Update(keyRunes("a"))

	client.err = errors.New("couldnt_update_private_message")
	_, cmd := m.Update(keyRunes("d"))
	require.NotNil(t, cmd)
	m.Update(cmd())

	assert.Equal(t, "Delete failed: couldnt_update_private_message", m.status)
	pm, ok := m.findMessage(1)
	require.True(t, ok)
	assert.False(t, pm.PrivateMessage.Deleted)
}

func TestReportToasts(t *testing.T) {
	m := loaded(t, &fakeClient{}, message(1, bob, alice, "2024-01-01T00:00:00Z"))
	m.Update(keyRunes("a"))
	m.Update(keyRunes("!"))
	require.Equal(t, viewCompose, m.view)
	m.composeArea.SetValue("spam")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	require.NotNil(t, cmd)
	m.Update(cmd())
	assert.Equal(t, inbox.ToastReportCreated, m.status)
}

func TestPurgeNavigatesHome(t *testing.T) {
	m := loaded(t, &fakeClient{}, message(1, alice, bob, "2024-01-01T00:00:00Z"))
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, viewMessages, m.view)

	m.Update(keyRunes("P"))
	require.Equal(t, viewCompose, m.view)
	assert.Equal(t, bob.ID, m.compose.target)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	require.NotNil(t, cmd)
	m.Update(cmd())

	assert.Equal(t, inbox.ToastPurgeSuccess, m.status)
	assert.Equal(t, viewRecipients, m.view)
	_, selected := m.inbox.Recipient()
	assert.False(t, selected)
}

func TestPagingDropsStaleResults(t *testing.T) {
	client := &fakeClient{}
	m := loaded(t, client, message(1, alice, bob, "2024-01-01T00:00:00Z"))

	_, first := m.Update(keyRunes("n"))
	require.NotNil(t, first)
	_, second := m.Update(keyRunes("n"))
	require.NotNil(t, second)
	assert.Equal(t, 3, m.inbox.Page())

	client.messages = []model.PrivateMessageView{message(30, alice, carol, "2024-03-01T00:00:00Z")}
	m.Update(second())
	client.messages = []model.PrivateMessageView{message(20, alice, bob, "2024-02-01T00:00:00Z")}
	m.Update(first())

	m.Update(keyRunes("a"))
	assert.Equal(t, []int{30}, listMessageIDs(m))
}

func TestActionResultFromReplacedInboxIgnored(t *testing.T) {
	client := &fakeClient{reply: message(50, alice, carol, "2024-05-01T00:00:00Z")}
	m := loaded(t, client, message(1, alice, bob, "2024-01-01T00:00:00Z"))
	stale := m.dispatch(inbox.CreateMessage{RecipientID: carol.ID, Content: "hi"})
	require.NotNil(t, stale)

	// Retry replaces the inbox before the send completes.
	m.Update(initialDataMsg{data: inbox.InitialData{
		Site:     testSite(),
		Messages: model.Success(model.PrivateMessagesResponse{PrivateMessages: []model.PrivateMessageView{message(1, alice, bob, "2024-01-01T00:00:00Z")}}),
	}})
	m.Update(stale())

	m.Update(keyRunes("a"))
	assert.Equal(t, []int{1}, listMessageIDs(m))
	assert.NotContains(t, m.status, "complete")
}

func TestFeedURL(t *testing.T) {
	m := loaded(t, &fakeClient{})
	m.Update(keyRunes("f"))
	assert.Equal(t, "Feed: "+testInstance+"/feeds/inbox/jwt.xml", m.status)
}

func TestQuitDisposesInbox(t *testing.T) {
	m := loaded(t, &fakeClient{})
	_, cmd := m.Update(keyRunes("q"))
	require.NotNil(t, cmd)
	assert.True(t, m.inbox.Disposed())
}
