package kvstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// SQLite stores values in a single table of an embedded database.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path.
func OpenSQLite(path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("creating storage directory: %w", err)
		}
	}

	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite store: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("opening sqlite store: %w", err)
	}
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS kv (
  key        TEXT PRIMARY KEY,
  value      TEXT NOT NULL,
  updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating kv schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Get returns the value stored under key.
func (s *SQLite) Get(key string) (string, bool, error) {
	if err := validKey(key); err != nil {
		return "", false, err
	}
	if s.db == nil {
		return "", false, ErrClosed
	}

	var value string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading key %q: %w", key, err)
	}
	return value, true, nil
}

// Set upserts the value under key in its own transaction.
func (s *SQLite) Set(key, value string) (err error) {
	if err = validKey(key); err != nil {
		return err
	}
	if s.db == nil {
		return ErrClosed
	}

	tx, err := s.db.BeginTx(context.Background(), nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.Exec(`
INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC()); err != nil {
		return fmt.Errorf("writing key %q: %w", key, err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing key %q: %w", key, err)
	}
	return nil
}

// Close releases the database handle. Further calls return ErrClosed.
func (s *SQLite) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
