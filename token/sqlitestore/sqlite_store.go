// Package sqlitestore keeps the serialized session in a local SQLite file,
// the process equivalent of browser local storage.
package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jrsteele09/go-calendar-client/token"
	_ "modernc.org/sqlite"
)

const schema = `CREATE TABLE IF NOT EXISTS storage (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
)`

var _ token.Store = (*Store)(nil)

type Store struct {
	db  *sql.DB
	key string
}

// Open opens (creating if needed) the database file at path.
func Open(ctx context.Context, path, key string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, fmt.Errorf("[sqlitestore Open] create folder: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("[sqlitestore Open] open %s: %w", path, err)
	}
	// One connection: ":memory:" databases are per connection.
	db.SetMaxOpenConns(1)

	s, err := New(ctx, db, key)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an existing database handle and ensures the schema exists.
func New(ctx context.Context, db *sql.DB, key string) (*Store, error) {
	if key == "" {
		key = token.DefaultKey
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("[sqlitestore New] ping: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("[sqlitestore New] create schema: %w", err)
	}
	return &Store{db: db, key: key}, nil
}

func (s *Store) Save(ctx context.Context, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO storage (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		s.key, value)
	if err != nil {
		return fmt.Errorf("[sqlitestore Save] %w", err)
	}
	return nil
}

func (s *Store) Load(ctx context.Context) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM storage WHERE key = ?`, s.key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("[sqlitestore Load] %w", err)
	}
	return value, true, nil
}

func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM storage WHERE key = ?`, s.key); err != nil {
		return fmt.Errorf("[sqlitestore Clear] %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
