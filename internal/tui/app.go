package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"lemmyterm/internal/auth"
	"lemmyterm/internal/inbox"
	"lemmyterm/internal/model"
	"lemmyterm/internal/util"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

type viewState int

const (
	viewLoading    viewState = iota
	viewLogin                // username and password input
	viewRecipients           // people the loaded messages were sent to
	viewMessages             // messages to one recipient, or all of them
	viewBody                 // single message
	viewCompose              // editor for send, edit, report and purge
)

const statusTTL = 2 * time.Second

// Client is the instance API the application uses. *lemmy.Client
// satisfies it.
type Client interface {
	inbox.API
	inbox.SiteAPI
	auth.LoginAPI
	FeedURL(path string) string
}

// Cache stores the session token and the last page shown, so the inbox can
// open while the instance is unreachable. *store.SQLiteStore satisfies it.
type Cache interface {
	auth.TokenStore
	SavePage(ctx context.Context, instance string, page int, views []model.PrivateMessageView) error
	LoadPage(ctx context.Context, instance string, page int) ([]model.PrivateMessageView, error)
	SaveSite(ctx context.Context, instance string, site model.GetSiteResponse) error
	LoadSite(ctx context.Context, instance string) (model.GetSiteResponse, bool, error)
}

type Options struct {
	Client   Client
	Cache    Cache
	Instance string
	// Session is nil when no token is saved; the app starts at the login form.
	Session  *auth.Session
	Username string
	Limit    int
	Timeout  time.Duration
	Logger   *zap.Logger
}

type AppModel struct {
	// Core state
	client   Client
	cache    Cache
	instance string
	session  *auth.Session
	inbox    *inbox.Inbox
	limit    int
	timeout  time.Duration
	log      *zap.Logger
	Err      error
	status   string
	offline  bool

	// Login form
	userInput  textinput.Model
	passInput  textinput.Model
	loginFocus int

	// View state machine
	view       viewState
	showAll    bool
	selectedID int
	compose    composeState

	// Sub-models
	spinner        spinner.Model
	recipientsList list.Model
	messagesList   list.Model
	bodyViewport   viewport.Model
	composeArea    textarea.Model

	// Layout
	width, height int
}

func NewAppModel(opts Options) *AppModel {
	user := textinput.New()
	user.Placeholder = "username or email"
	user.SetValue(opts.Username)
	user.Focus()

	pass := textinput.New()
	pass.Placeholder = "password"
	pass.EchoMode = textinput.EchoPassword

	rl := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	// Remove esc from the list's built-in Quit binding so it doesn't exit on home
	rl.KeyMap.Quit.SetKeys("q")

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return &AppModel{
		client:         opts.Client,
		cache:          opts.Cache,
		instance:       opts.Instance,
		session:        opts.Session,
		limit:          opts.Limit,
		timeout:        timeout,
		log:            log,
		view:           viewLoading,
		userInput:      user,
		passInput:      pass,
		spinner:        spinner.New(spinner.WithSpinner(spinner.Dot)),
		recipientsList: rl,
		messagesList:   list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0),
		bodyViewport:   viewport.New(0, 0),
		composeArea:    newComposeArea(),
	}
}

func (m *AppModel) Init() tea.Cmd {
	if _, ok := m.session.Auth(); !ok {
		m.view = viewLogin
		return textinput.Blink
	}
	return m.startLoading()
}

// Toast shows a notification from the inbox in the status line.
func (m *AppModel) Toast(message string) {
	m.status = message
}

// Navigate handles the inbox's only route, "/", by returning to the top
// level list.
func (m *AppModel) Navigate(path string) {
	m.log.Debug("navigate", zap.String("path", path))
	m.view = viewRecipients
	m.showAll = false
	m.selectedID = 0
	if m.inbox != nil {
		m.inbox.ClearRecipient()
	}
}

// Close ends the inbox so late results are dropped.
func (m *AppModel) Close() {
	if m.inbox != nil {
		m.inbox.Dispose()
	}
}

func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		listH := msg.Height - 4 // room for footer
		m.recipientsList.SetSize(msg.Width, listH)
		m.messagesList.SetSize(msg.Width, listH)
		m.bodyViewport.Width = msg.Width
		m.bodyViewport.Height = msg.Height - 6 // room for header + footer
		m.composeArea.SetWidth(msg.Width)
		m.composeArea.SetHeight(msg.Height - 6)
		if m.view == viewBody {
			m.renderBody()
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if m.view != viewLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case loginResultMsg:
		if msg.err != nil {
			m.log.Warn("login_failed", zap.String("instance", m.instance), zap.Error(msg.err))
			m.view = viewLogin
			m.status = fmt.Sprintf("Login failed: %v", msg.err)
			return m, nil
		}
		m.session = msg.session
		m.passInput.Reset()
		return m, m.startLoading()

	case initialDataMsg:
		return m.handleInitialData(msg)

	case fetchedMsg:
		if m.inbox == nil || !m.inbox.ApplyFetch(msg.res) {
			return m, nil
		}
		m.refresh()
		if !msg.res.Res.IsSuccess() {
			m.status = fmt.Sprintf("Failed to load page %d", msg.page)
			return m, clearStatusAfter(statusTTL)
		}
		m.offline = false
		m.status = ""
		return m, m.cachePageCmd(msg.page, msg.res.Res.Data.PrivateMessages)

	case actionResultMsg:
		res := msg.res
		if m.inbox == nil || res.Gen != m.inbox.Generation() {
			return m, nil
		}
		m.inbox.ApplyAction(res)
		switch {
		case res.Failed():
			m.status = fmt.Sprintf("%s failed: %v", res.Kind, res.Err())
		case res.Kind != inbox.ActionReport && res.Kind != inbox.ActionPurge:
			m.status = fmt.Sprintf("%s complete", res.Kind)
		}
		m.refresh()
		if m.view == viewBody {
			m.renderBody()
		}
		return m, clearStatusAfter(statusTTL)

	case openedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Open failed: %v", msg.err)
			return m, clearStatusAfter(statusTTL)
		}
		return m, nil

	case statusMsg:
		if string(msg) == "" {
			m.status = ""
		}
		return m, nil
	}

	// Delegate to active sub-model
	var cmd tea.Cmd
	switch m.view {
	case viewLogin:
		if m.loginFocus == 0 {
			m.userInput, cmd = m.userInput.Update(msg)
		} else {
			m.passInput, cmd = m.passInput.Update(msg)
		}
	case viewRecipients:
		m.recipientsList, cmd = m.recipientsList.Update(msg)
	case viewMessages:
		m.messagesList, cmd = m.messagesList.Update(msg)
	case viewBody:
		m.bodyViewport, cmd = m.bodyViewport.Update(msg)
	case viewCompose:
		m.composeArea, cmd = m.composeArea.Update(msg)
	}
	return m, cmd
}

func (m *AppModel) handleInitialData(msg initialDataMsg) (tea.Model, tea.Cmd) {
	data := msg.data
	m.offline = false
	if msg.err != nil {
		cached, ok := m.loadCached()
		if !ok {
			m.Err = msg.err
			m.status = "Could not reach instance!"
			return m, tea.Quit
		}
		m.log.Warn("initial_data_failed", zap.String("instance", m.instance), zap.Error(msg.err))
		data = cached
		m.offline = true
	}
	m.session.SetSite(data.Site)

	if m.inbox != nil {
		m.inbox.Dispose()
	}
	opts := inbox.Options{
		Auth:      m.session,
		Site:      data.Site,
		Limit:     m.limit,
		Toaster:   m,
		Navigator: m,
		Logger:    m.log,
	}
	if data.Messages.Status != model.StatusEmpty {
		pre := data.Messages
		opts.Preloaded = &pre
		opts.PreloadedForm = data.Form
	}
	m.inbox = inbox.New(opts)
	m.view = viewRecipients
	m.status = ""

	var cmds []tea.Cmd
	if m.offline {
		m.status = "Offline: showing cached messages (s: retry)"
	} else {
		cmds = append(cmds, m.cacheSiteCmd(data.Site))
		req, ok, err := m.inbox.Mount()
		if err != nil {
			m.status = err.Error()
		} else if ok {
			cmds = append(cmds, m.fetchCmd(req))
		}
	}
	m.refresh()
	return m, tea.Batch(cmds...)
}

func (m *AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	// Global keys
	switch key {
	case "ctrl+c":
		return m, m.quit()
	}

	switch m.view {
	case viewLoading:
		if key == "q" {
			return m, m.quit()
		}
		return m, nil

	case viewLogin:
		switch key {
		case "esc":
			return m, m.quit()
		case "tab", "shift+tab":
			return m, m.toggleLoginFocus()
		case "enter":
			if m.loginFocus == 0 {
				return m, m.toggleLoginFocus()
			}
			return m.submitLogin()
		}
		var cmd tea.Cmd
		if m.loginFocus == 0 {
			m.userInput, cmd = m.userInput.Update(msg)
		} else {
			m.passInput, cmd = m.passInput.Update(msg)
		}
		return m, cmd

	case viewRecipients:
		// When the list is filtering, let it handle all keys except ctrl+c
		if m.recipientsList.FilterState() == list.Filtering {
			var cmd tea.Cmd
			m.recipientsList, cmd = m.recipientsList.Update(msg)
			return m, cmd
		}
		switch key {
		case "q":
			return m, m.quit()
		case "enter":
			return m.enterRecipient()
		case "a":
			m.showAll = true
			m.inbox.ClearRecipient()
			m.refresh()
			m.messagesList.ResetSelected()
			m.view = viewMessages
			return m, nil
		case "f":
			return m.showFeed()
		}
		if cmd, ok := m.handlePaging(key); ok {
			return m, cmd
		}
		var cmd tea.Cmd
		m.recipientsList, cmd = m.recipientsList.Update(msg)
		return m, cmd

	case viewMessages:
		if m.messagesList.FilterState() == list.Filtering {
			var cmd tea.Cmd
			m.messagesList, cmd = m.messagesList.Update(msg)
			return m, cmd
		}
		switch key {
		case "q":
			return m, m.quit()
		case "esc":
			m.Navigate("/")
			return m, nil
		case "enter":
			return m.enterMessage()
		}
		if pm, ok := m.selectedListMessage(); ok {
			if next, cmd, handled := m.handleMessageKey(key, pm); handled {
				return next, cmd
			}
		}
		if cmd, ok := m.handlePaging(key); ok {
			return m, cmd
		}
		var cmd tea.Cmd
		m.messagesList, cmd = m.messagesList.Update(msg)
		return m, cmd

	case viewBody:
		switch key {
		case "q":
			return m, m.quit()
		case "esc":
			m.view = viewMessages
			m.selectedID = 0
			return m, nil
		case "o":
			if pm, ok := m.findMessage(m.selectedID); ok {
				return m, openURLCmd(pm.PrivateMessage.ApID)
			}
			return m, nil
		}
		if pm, ok := m.findMessage(m.selectedID); ok {
			if next, cmd, handled := m.handleMessageKey(key, pm); handled {
				return next, cmd
			}
		}
		var cmd tea.Cmd
		m.bodyViewport, cmd = m.bodyViewport.Update(msg)
		return m, cmd

	case viewCompose:
		switch key {
		case "esc":
			m.composeArea.Blur()
			m.view = m.compose.back
			return m, nil
		case "ctrl+s":
			return m.submitCompose()
		}
		var cmd tea.Cmd
		m.composeArea, cmd = m.composeArea.Update(msg)
		return m, cmd
	}

	return m, nil
}

// handleMessageKey runs the per-message actions shared by the list and body
// views.
func (m *AppModel) handleMessageKey(key string, pm model.PrivateMessageView) (tea.Model, tea.Cmd, bool) {
	switch key {
	case "r":
		return m, m.dispatch(inbox.MarkMessageRead{ID: pm.PrivateMessage.ID, Read: !pm.PrivateMessage.Read}), true
	case "d":
		return m, m.dispatch(inbox.DeleteMessage{ID: pm.PrivateMessage.ID, Deleted: !pm.PrivateMessage.Deleted}), true
	case "e":
		if !m.isMine(pm) {
			m.status = "Only your own messages can be edited"
			return m, clearStatusAfter(statusTTL), true
		}
		next, cmd := m.openCompose(composeState{kind: composeEdit, target: pm.PrivateMessage.ID}, pm.PrivateMessage.Content)
		return next, cmd, true
	case "c":
		other := m.counterpart(pm)
		next, cmd := m.openCompose(composeState{
			kind:   composeSend,
			target: other.ID,
			label:  util.DisplayName(other.Name, other.DisplayName, other.ActorID),
		}, "")
		return next, cmd, true
	case "!":
		label := util.DisplayName(pm.Creator.Name, pm.Creator.DisplayName, pm.Creator.ActorID)
		next, cmd := m.openCompose(composeState{kind: composeReport, target: pm.PrivateMessage.ID, label: label}, "")
		return next, cmd, true
	case "P":
		other := m.counterpart(pm)
		label := util.DisplayName(other.Name, other.DisplayName, other.ActorID)
		next, cmd := m.openCompose(composeState{kind: composePurge, target: other.ID, label: label}, "")
		return next, cmd, true
	}
	return m, nil, false
}

func (m *AppModel) handlePaging(key string) (tea.Cmd, bool) {
	switch key {
	case "n":
		return m.beginFetch(m.inbox.NextPage), true
	case "p":
		return m.beginFetch(m.inbox.PrevPage), true
	case "s":
		if m.offline {
			return m.startLoading(), true
		}
		return m.beginFetch(m.inbox.BeginFetch), true
	}
	return nil, false
}

func (m *AppModel) beginFetch(begin func() (inbox.FetchRequest, error)) tea.Cmd {
	req, err := begin()
	if err != nil {
		m.status = err.Error()
		return clearStatusAfter(statusTTL)
	}
	m.status = fmt.Sprintf("Loading page %d...", req.Form.Page)
	m.refresh()
	return m.fetchCmd(req)
}

func (m *AppModel) toggleLoginFocus() tea.Cmd {
	if m.loginFocus == 0 {
		m.loginFocus = 1
		m.userInput.Blur()
		return m.passInput.Focus()
	}
	m.loginFocus = 0
	m.passInput.Blur()
	return m.userInput.Focus()
}

func (m *AppModel) submitLogin() (tea.Model, tea.Cmd) {
	form := model.Login{
		UsernameOrEmail: m.userInput.Value(),
		Password:        m.passInput.Value(),
	}
	m.status = "Logging in..."
	return m, m.loginCmd(form)
}

func (m *AppModel) enterRecipient() (tea.Model, tea.Cmd) {
	selected := m.recipientsList.SelectedItem()
	if selected == nil {
		return m, nil
	}
	ri := selected.(recipientItem)
	m.showAll = false
	m.inbox.SelectRecipient(ri.ID)
	m.refresh()
	m.messagesList.ResetSelected()
	m.view = viewMessages
	return m, nil
}

func (m *AppModel) enterMessage() (tea.Model, tea.Cmd) {
	pm, ok := m.selectedListMessage()
	if !ok {
		return m, nil
	}
	m.selectedID = pm.PrivateMessage.ID
	m.renderBody()
	m.bodyViewport.GotoTop()
	m.view = viewBody
	return m, nil
}

func (m *AppModel) showFeed() (tea.Model, tea.Cmd) {
	url := m.client.FeedURL(m.inbox.InboxFeedPath())
	if url == "" {
		m.status = "No feed while logged out"
	} else {
		m.status = "Feed: " + url
	}
	return m, nil
}

func (m *AppModel) renderBody() {
	pm, ok := m.findMessage(m.selectedID)
	if !ok {
		m.bodyViewport.SetContent("")
		return
	}
	m.bodyViewport.SetContent(bodyContent(pm, m.bodyViewport.Width))
}

// refresh rebuilds the lists from the inbox state.
func (m *AppModel) refresh() {
	if m.inbox == nil {
		return
	}
	title := m.inbox.DocumentTitle()
	if title == "" {
		title = "Messages"
	}
	page := m.inbox.Page()
	m.recipientsList.SetItems(recipientItems(m.inbox.Recipients()))
	m.recipientsList.Title = pageTitle(title, page)

	var views []model.PrivateMessageView
	if m.showAll {
		for _, r := range m.inbox.BuildCombined() {
			if pm, ok := r.Message(); ok {
				views = append(views, pm)
			}
		}
		m.messagesList.Title = pageTitle("All messages", page)
	} else {
		views = m.inbox.Messages()
		m.messagesList.Title = pageTitle("To "+m.recipientLabel(), page)
	}
	m.messagesList.SetItems(messageItems(views))
}

func (m *AppModel) recipientLabel() string {
	id, ok := m.inbox.Recipient()
	if !ok {
		return ""
	}
	for _, p := range m.inbox.Recipients() {
		if p.ID == id {
			return util.DisplayName(p.Name, p.DisplayName, p.ActorID)
		}
	}
	return fmt.Sprintf("#%d", id)
}

func (m *AppModel) selectedListMessage() (model.PrivateMessageView, bool) {
	selected := m.messagesList.SelectedItem()
	if selected == nil {
		return model.PrivateMessageView{}, false
	}
	return selected.(messageItem).PrivateMessageView, true
}

func (m *AppModel) findMessage(id int) (model.PrivateMessageView, bool) {
	if m.inbox == nil || id == 0 {
		return model.PrivateMessageView{}, false
	}
	st := m.inbox.State()
	if !st.MessagesRes.IsSuccess() {
		return model.PrivateMessageView{}, false
	}
	for _, pm := range st.MessagesRes.Data.PrivateMessages {
		if pm.PrivateMessage.ID == id {
			return pm, true
		}
	}
	return model.PrivateMessageView{}, false
}

func (m *AppModel) isMine(pm model.PrivateMessageView) bool {
	me, ok := m.session.PersonID()
	return ok && pm.Creator.ID == me
}

// counterpart is the other side of a conversation.
func (m *AppModel) counterpart(pm model.PrivateMessageView) model.Person {
	if m.isMine(pm) {
		return pm.Recipient
	}
	return pm.Creator
}

func (m *AppModel) loadCached() (inbox.InitialData, bool) {
	if m.cache == nil {
		return inbox.InitialData{}, false
	}
	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	site, ok, err := m.cache.LoadSite(ctx, m.instance)
	if err != nil || !ok {
		return inbox.InitialData{}, false
	}
	views, err := m.cache.LoadPage(ctx, m.instance, 1)
	if err != nil {
		m.log.Warn("load_cached_page_failed", zap.Error(err))
		return inbox.InitialData{}, false
	}
	return inbox.InitialData{
		Site:     site,
		Messages: model.Success(model.PrivateMessagesResponse{PrivateMessages: views}),
	}, true
}

func (m *AppModel) quit() tea.Cmd {
	m.Close()
	return tea.Quit
}

func (m *AppModel) startLoading() tea.Cmd {
	m.view = viewLoading
	m.status = "Loading inbox..."
	return tea.Batch(m.spinner.Tick, m.initialDataCmd())
}

// Commands

func (m *AppModel) initialDataCmd() tea.Cmd {
	client, timeout, limit := m.client, m.timeout, m.limit
	token, _ := m.session.Auth()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		data, err := inbox.FetchInitialData(ctx, client, token, limit)
		return initialDataMsg{data: data, err: err}
	}
}

func (m *AppModel) loginCmd(form model.Login) tea.Cmd {
	client, cache, instance, timeout := m.client, m.cache, m.instance, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		s, err := auth.Login(ctx, client, cache, instance, form)
		return loginResultMsg{session: s, err: err}
	}
}

func (m *AppModel) fetchCmd(req inbox.FetchRequest) tea.Cmd {
	client, timeout := m.client, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return fetchedMsg{res: inbox.Fetch(ctx, client, req), page: req.Form.Page}
	}
}

func (m *AppModel) dispatch(a inbox.Action) tea.Cmd {
	req, err := m.inbox.BeginAction(a)
	if err != nil {
		m.status = err.Error()
		return clearStatusAfter(statusTTL)
	}
	m.status = a.Kind().String() + "..."
	client, timeout := m.client, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return actionResultMsg{res: inbox.Dispatch(ctx, client, req)}
	}
}

func (m *AppModel) cachePageCmd(page int, views []model.PrivateMessageView) tea.Cmd {
	if m.cache == nil {
		return nil
	}
	cache, instance, timeout, log := m.cache, m.instance, m.timeout, m.log
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := cache.SavePage(ctx, instance, page, views); err != nil {
			log.Warn("cache_page_failed", zap.Int("page", page), zap.Error(err))
		}
		return nil
	}
}

func (m *AppModel) cacheSiteCmd(site model.GetSiteResponse) tea.Cmd {
	if m.cache == nil {
		return nil
	}
	cache, instance, timeout, log := m.cache, m.instance, m.timeout, m.log
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := cache.SaveSite(ctx, instance, site); err != nil {
			log.Warn("cache_site_failed", zap.Error(err))
		}
		return nil
	}
}

func openURLCmd(url string) tea.Cmd {
	return func() tea.Msg {
		return openedMsg{err: util.OpenURL(url)}
	}
}

func clearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return statusMsg("")
	})
}

// View renders the appropriate view based on current state.
func (m *AppModel) View() string {
	// Error state
	if m.Err != nil {
		return "Error: " + m.Err.Error() + "\n"
	}

	var b strings.Builder

	switch m.view {
	case viewLoading:
		b.WriteString(m.spinner.View())
		b.WriteString(" ")
		if m.status != "" {
			b.WriteString(m.status)
		} else {
			b.WriteString("Loading...")
		}
		b.WriteString("\n")
		return b.String()
	case viewLogin:
		b.WriteString(headerStyle.Render("Log in to " + m.instance))
		b.WriteString("\n")
		b.WriteString(m.userInput.View())
		b.WriteString("\n")
		b.WriteString(m.passInput.View())
		b.WriteString("\n")
		b.WriteString(footerStyle.Render("tab: next field  enter: log in  esc: quit"))
	case viewRecipients:
		b.WriteString(m.recipientsList.View())
		b.WriteString("\n")
		b.WriteString(recipientsFooter())
	case viewMessages:
		b.WriteString(m.messagesList.View())
		b.WriteString("\n")
		b.WriteString(messagesFooter())
	case viewBody:
		b.WriteString(m.bodyViewport.View())
		b.WriteString("\n")
		b.WriteString(bodyFooter())
	case viewCompose:
		b.WriteString(headerStyle.Render(m.compose.title()))
		b.WriteString("\n")
		b.WriteString(m.composeArea.View())
		b.WriteString("\n")
		b.WriteString(composeFooter())
	}

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(statusStyle.Render(m.status))
	}

	return b.String()
}
