package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"lemmyterm/internal/auth"
	"lemmyterm/internal/config"
	"lemmyterm/internal/inbox"
	"lemmyterm/internal/lemmy"
	"lemmyterm/internal/logger"
	"lemmyterm/internal/model"
	"lemmyterm/internal/store"
	"lemmyterm/internal/tui"
)

// app holds what every command needs once flags are parsed.
type app struct {
	cfgPath      string
	instanceFlag string
	verbose      bool

	cfg    *config.Config
	log    *zap.Logger
	db     *store.SQLiteStore
	client *lemmy.Client
}

func (a *app) setup() error {
	dir, err := config.Dir()
	if err != nil {
		return err
	}
	if a.cfgPath == "" {
		a.cfgPath = filepath.Join(dir, "config.yaml")
	}
	cfg, err := config.Load(a.cfgPath, dir)
	if err != nil {
		return err
	}
	if a.instanceFlag != "" {
		inst, err := config.NormalizeInstance(a.instanceFlag)
		if err != nil {
			return err
		}
		cfg.Instance = inst
	}
	if a.verbose {
		cfg.Debug = true
	}
	a.cfg = cfg

	a.log, err = logger.New(cfg.LogPath, cfg.Debug)
	if err != nil {
		return err
	}
	a.db, err = store.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("cannot open database: %w", err)
	}
	return nil
}

func (a *app) close() {
	if a.db != nil {
		a.db.Close()
	}
	if a.log != nil {
		_ = a.log.Sync()
	}
}

// connect builds the API client. It needs an instance, from the config file,
// LEMMYTERM_INSTANCE or --instance.
func (a *app) connect() error {
	if a.cfg.Instance == "" {
		return errors.New("no instance configured; pass --instance or run `lemmyterm login --instance <host>`")
	}
	c, err := lemmy.NewClient(a.cfg.Instance,
		lemmy.WithHTTPClient(&http.Client{Timeout: a.timeout()}),
		lemmy.WithRateLimit(a.cfg.RatePerSecond),
		lemmy.WithLogger(a.log),
	)
	if err != nil {
		return err
	}
	a.client = c
	return nil
}

func (a *app) timeout() time.Duration {
	return time.Duration(a.cfg.TimeoutSeconds) * time.Second
}

func (a *app) withTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), a.timeout())
}

// session returns the saved login for the configured instance.
func (a *app) session(ctx context.Context) (*auth.Session, error) {
	s, err := auth.Load(ctx, a.db, a.cfg.Instance)
	if errors.Is(err, auth.ErrNoSession) {
		return nil, fmt.Errorf("not logged in to %s; run `lemmyterm login`", a.cfg.Instance)
	}
	return s, err
}

// printer reports inbox toasts on the command's output.
type printer struct{ w io.Writer }

func (p printer) Toast(message string) { fmt.Fprintln(p.w, message) }

// openInbox loads the session and site and returns an inbox ready for a
// fetch or an action.
func (a *app) openInbox(ctx context.Context, out io.Writer, preloaded *model.RequestState[model.PrivateMessagesResponse]) (*inbox.Inbox, error) {
	if err := a.connect(); err != nil {
		return nil, err
	}
	s, err := a.session(ctx)
	if err != nil {
		return nil, err
	}
	site, err := a.client.GetSite(ctx, model.GetSite{Auth: s.Token})
	if err != nil {
		return nil, fmt.Errorf("get site: %w", err)
	}
	s.SetSite(site)
	if err := a.db.SaveSite(ctx, a.cfg.Instance, site); err != nil {
		a.log.Warn("cache_site_failed", zap.Error(err))
	}
	return inbox.New(inbox.Options{
		Auth:      s,
		Site:      site,
		Preloaded: preloaded,
		Limit:     a.cfg.FetchLimit,
		Toaster:   printer{out},
		Logger:    a.log,
	}), nil
}

func (a *app) runTUI() error {
	if err := a.connect(); err != nil {
		return err
	}
	ctx, cancel := a.withTimeout()
	s, err := auth.Load(ctx, a.db, a.cfg.Instance)
	cancel()
	if err != nil && !errors.Is(err, auth.ErrNoSession) {
		return err
	}

	m := tui.NewAppModel(tui.Options{
		Client:   a.client,
		Cache:    a.db,
		Instance: a.cfg.Instance,
		Session:  s,
		Username: a.cfg.Username,
		Limit:    a.cfg.FetchLimit,
		Timeout:  a.timeout(),
		Logger:   a.log,
	})
	p := tea.NewProgram(m, tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("alas, there's been an error: %w", err)
	}
	if fm, ok := finalModel.(*tui.AppModel); ok && fm.Err != nil {
		return fm.Err
	}
	return nil
}
