package auth

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lemmyterm/internal/model"
	"lemmyterm/internal/store"
)

type fakeLogin struct {
	jwt  string
	err  error
	seen model.Login
}

func (f *fakeLogin) Login(_ context.Context, form model.Login) (model.LoginResponse, error) {
	f.seen = form
	return model.LoginResponse{JWT: f.jwt}, f.err
}

func testStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	s, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestLoginLoadLogout(t *testing.T) {
	ctx := context.Background()
	st := testStore(t)
	const inst = "https://lemmy.ml"

	_, err := Load(ctx, st, inst)
	require.ErrorIs(t, err, ErrNoSession)

	api := &fakeLogin{jwt: "jwt-1"}
	sess, err := Login(ctx, api, st, inst, model.Login{UsernameOrEmail: "  alice ", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "alice", api.seen.UsernameOrEmail)
	tok, ok := sess.Auth()
	assert.True(t, ok)
	assert.Equal(t, "jwt-1", tok)

	loaded, err := Load(ctx, st, inst)
	require.NoError(t, err)
	assert.Equal(t, "jwt-1", loaded.Token)

	_, err = Load(ctx, st, "https://other.example")
	assert.ErrorIs(t, err, ErrNoSession, "tokens are per instance")

	require.NoError(t, Logout(ctx, st, inst))
	_, err = Load(ctx, st, inst)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestLogin_Failures(t *testing.T) {
	ctx := context.Background()
	st := testStore(t)

	_, err := Login(ctx, &fakeLogin{}, st, "x", model.Login{UsernameOrEmail: "", Password: "pw"})
	assert.Error(t, err)

	boom := errors.New("boom")
	_, err = Login(ctx, &fakeLogin{err: boom}, st, "x", model.Login{UsernameOrEmail: "a", Password: "pw"})
	assert.ErrorIs(t, err, boom)

	_, err = Load(ctx, st, "x")
	assert.ErrorIs(t, err, ErrNoSession, "failed login must not cache a token")
}

func TestSession_Identity(t *testing.T) {
	var nilSess *Session
	_, ok := nilSess.Auth()
	assert.False(t, ok)
	assert.Nil(t, nilSess.MyUserInfo())

	s := &Session{Token: "t"}
	_, ok = s.PersonID()
	assert.False(t, ok)

	s.SetSite(model.GetSiteResponse{MyUser: &model.MyUserInfo{
		LocalUserView: model.LocalUserView{Person: model.Person{ID: 42, Name: "alice"}},
	}})
	id, ok := s.PersonID()
	assert.True(t, ok)
	assert.Equal(t, 42, id)
	assert.Equal(t, "alice", s.MyUserInfo().LocalUserView.Person.Name)
}
