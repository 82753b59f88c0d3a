// Package auth keeps the instance JWT and the logged-in identity.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"lemmyterm/internal/model"
)

// ErrNoSession is returned by Load when no token is cached for an instance.
var ErrNoSession = errors.New("no saved session")

// TokenStore persists small key/value pairs. *store.SQLiteStore satisfies it.
type TokenStore interface {
	GetMeta(ctx context.Context, key string) (string, error)
	SetMeta(ctx context.Context, key, value string) error
	DeleteMeta(ctx context.Context, key string) error
}

type LoginAPI interface {
	Login(ctx context.Context, form model.Login) (model.LoginResponse, error)
}

// Session is the current credential plus, once the site has been fetched,
// the identity it belongs to.
type Session struct {
	Instance string
	Token    string
	User     *model.MyUserInfo
}

// Auth returns the JWT and whether one is set.
func (s *Session) Auth() (string, bool) {
	if s == nil || s.Token == "" {
		return "", false
	}
	return s.Token, true
}

func (s *Session) MyUserInfo() *model.MyUserInfo {
	if s == nil {
		return nil
	}
	return s.User
}

// SetSite records the identity returned alongside the site metadata.
func (s *Session) SetSite(site model.GetSiteResponse) {
	if s == nil {
		return
	}
	s.User = site.MyUser
}

// PersonID returns the logged-in person's id, if known.
func (s *Session) PersonID() (int, bool) {
	if s == nil || s.User == nil {
		return 0, false
	}
	return s.User.LocalUserView.Person.ID, true
}

func tokenKey(instance string) string { return "jwt:" + instance }

// Load reads the cached token for instance.
func Load(ctx context.Context, store TokenStore, instance string) (*Session, error) {
	tok, err := store.GetMeta(ctx, tokenKey(instance))
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	if tok == "" {
		return nil, ErrNoSession
	}
	return &Session{Instance: instance, Token: tok}, nil
}

// Login exchanges credentials for a token and caches it.
func Login(ctx context.Context, api LoginAPI, store TokenStore, instance string, form model.Login) (*Session, error) {
	form.UsernameOrEmail = strings.TrimSpace(form.UsernameOrEmail)
	if form.UsernameOrEmail == "" || form.Password == "" {
		return nil, errors.New("username and password are required")
	}
	res, err := api.Login(ctx, form)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if err := store.SetMeta(ctx, tokenKey(instance), res.JWT); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return &Session{Instance: instance, Token: res.JWT}, nil
}

// Logout forgets the cached token for instance.
func Logout(ctx context.Context, store TokenStore, instance string) error {
	if err := store.DeleteMeta(ctx, tokenKey(instance)); err != nil {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}
