package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"lemmyterm/internal/model"

	_ "modernc.org/sqlite"
)

// SQLiteStore caches message pages and session metadata per instance in a
// local SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at the given path and runs migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o700); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func migrate(db *sql.DB) error {
	const schema = `
CREATE TABLE IF NOT EXISTS private_messages (
	instance     TEXT    NOT NULL,
	id           INTEGER NOT NULL,
	page         INTEGER NOT NULL,
	position     INTEGER NOT NULL,
	recipient_id INTEGER NOT NULL,
	published    TEXT    NOT NULL DEFAULT '',
	view_json    TEXT    NOT NULL,
	PRIMARY KEY (instance, id)
);

CREATE INDEX IF NOT EXISTS private_messages_page ON private_messages (instance, page, position);

CREATE TABLE IF NOT EXISTS metadata (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL DEFAULT ''
);
`
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SavePage replaces the cached snapshot of one page. Order is preserved.
func (s *SQLiteStore) SavePage(ctx context.Context, instance string, page int, views []model.PrivateMessageView) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM private_messages WHERE instance = ? AND page = ?", instance, page); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO private_messages (instance, id, page, position, recipient_id, published, view_json)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(instance, id) DO UPDATE SET
			page         = excluded.page,
			position     = excluded.position,
			recipient_id = excluded.recipient_id,
			published    = excluded.published,
			view_json    = excluded.view_json
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, v := range views {
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode message %d: %w", v.PrivateMessage.ID, err)
		}
		_, err = stmt.ExecContext(ctx, instance, v.PrivateMessage.ID, page, i, v.Recipient.ID, v.PrivateMessage.Published, string(b))
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// LoadPage returns the cached snapshot of one page in saved order.
func (s *SQLiteStore) LoadPage(ctx context.Context, instance string, page int) ([]model.PrivateMessageView, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT view_json FROM private_messages WHERE instance = ? AND page = ? ORDER BY position",
		instance, page)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var views []model.PrivateMessageView
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var v model.PrivateMessageView
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			return nil, fmt.Errorf("decode cached message: %w", err)
		}
		views = append(views, v)
	}
	return views, rows.Err()
}

// DeleteInstance drops every cached message for an instance.
func (s *SQLiteStore) DeleteInstance(ctx context.Context, instance string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM private_messages WHERE instance = ?", instance)
	return err
}

func (s *SQLiteStore) CountMessages(ctx context.Context, instance string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM private_messages WHERE instance = ?", instance).Scan(&count)
	return count, err
}

// GetMeta returns "" when the key is absent.
func (s *SQLiteStore) GetMeta(ctx context.Context, key string) (string, error) {
	var val string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM metadata WHERE key = ?", key).Scan(&val)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return val, err
}

func (s *SQLiteStore) SetMeta(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}

func (s *SQLiteStore) DeleteMeta(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM metadata WHERE key = ?", key)
	return err
}

// SaveSite caches the instance metadata for offline starts.
func (s *SQLiteStore) SaveSite(ctx context.Context, instance string, site model.GetSiteResponse) error {
	b, err := json.Marshal(site)
	if err != nil {
		return fmt.Errorf("encode site: %w", err)
	}
	return s.SetMeta(ctx, "site:"+instance, string(b))
}

// LoadSite returns ok=false when nothing is cached.
func (s *SQLiteStore) LoadSite(ctx context.Context, instance string) (model.GetSiteResponse, bool, error) {
	var site model.GetSiteResponse
	raw, err := s.GetMeta(ctx, "site:"+instance)
	if err != nil || raw == "" {
		return site, false, err
	}
	if err := json.Unmarshal([]byte(raw), &site); err != nil {
		return site, false, fmt.Errorf("decode cached site: %w", err)
	}
	return site, true, nil
}
