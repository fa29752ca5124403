// Package cache keeps classifier predictions on disk so that scanning the
// same photo twice does not call the classification service again.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const fileExtension = ".json"

// DefaultTTL is used when a store is created with a non-positive TTL.
const DefaultTTL = 24 * time.Hour

// Cache errors.
var (
	ErrNotFound   = errors.New("cache entry not found")
	ErrExpired    = errors.New("cache entry expired")
	ErrInvalidKey = errors.New("cache key cannot be empty")
)

// Entry is a cached value with its expiry.
type Entry struct {
	Key       string          `json:"key"`
	Data      json.RawMessage `json:"data"`
	CreatedAt time.Time       `json:"created_at"`
	ExpiresAt time.Time       `json:"expires_at"`
}

// Expired reports whether the entry is past its expiry at now.
func (e *Entry) Expired(now time.Time) bool {
	return now.After(e.ExpiresAt)
}

// FileStore stores one JSON file per entry in a directory.
// Safe for concurrent use.
type FileStore struct {
	dir   string
	ttl   time.Duration
	clock func() time.Time
	mu    sync.RWMutex
}

// Option configures a FileStore.
type Option func(*FileStore)

// WithClock overrides the time source used for expiry.
func WithClock(clock func() time.Time) Option {
	return func(s *FileStore) { s.clock = clock }
}

// NewFileStore creates dir if needed and returns a store whose entries live
// for ttl.
func NewFileStore(dir string, ttl time.Duration, opts ...Option) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New("cache directory cannot be empty")
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s := &FileStore{dir: dir, ttl: ttl, clock: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Dir returns the cache directory.
func (s *FileStore) Dir() string { return s.dir }

// TTL returns the entry lifetime.
func (s *FileStore) TTL() time.Duration { return s.ttl }

// Get returns the entry for key. An expired entry is removed and reported
// as ErrExpired.
func (s *FileStore) Get(key string) (*Entry, error) {
	if key == "" {
		return nil, ErrInvalidKey
	}

	path := s.path(key)
	s.mu.RLock()
	data, err := os.ReadFile(path)
	s.mu.RUnlock()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading cache entry: %w", err)
	}

	var entry Entry
	if err = json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("decoding cache entry: %w", err)
	}
	if entry.Expired(s.clock()) {
		s.mu.Lock()
		_ = os.Remove(path)
		s.mu.Unlock()
		return nil, ErrExpired
	}
	return &entry, nil
}

// Set stores data under key, replacing any previous entry.
func (s *FileStore) Set(key string, data json.RawMessage) error {
	if key == "" {
		return ErrInvalidKey
	}

	now := s.clock()
	encoded, err := json.Marshal(Entry{
		Key:       key,
		Data:      data,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	})
	if err != nil {
		return fmt.Errorf("encoding cache entry: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.path(key)
	tmp := path + ".tmp"
	if err = os.WriteFile(tmp, encoded, 0o600); err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}
	if err = os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replacing cache entry: %w", err)
	}
	return nil
}

// Clear removes every entry and returns how many were removed.
func (s *FileStore) Clear() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("reading cache directory: %w", err)
	}
	removed := 0
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != fileExtension {
			continue
		}
		if err = os.Remove(filepath.Join(s.dir, e.Name())); err != nil {
			return removed, fmt.Errorf("removing cache entry %s: %w", e.Name(), err)
		}
		removed++
	}
	return removed, nil
}

// Prune removes expired and unreadable entries and returns how many were
// removed.
func (s *FileStore) Prune() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("reading cache directory: %w", err)
	}
	now := s.clock()
	removed := 0
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != fileExtension {
			continue
		}
		path := filepath.Join(s.dir, e.Name())
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			continue
		}
		var entry Entry
		if json.Unmarshal(data, &entry) == nil && !entry.Expired(now) {
			continue
		}
		if os.Remove(path) == nil {
			removed++
		}
	}
	return removed, nil
}

// Count returns the number of entries on disk, expired ones included.
func (s *FileStore) Count() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("reading cache directory: %w", err)
	}
	n := 0
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == fileExtension {
			n++
		}
	}
	return n, nil
}

func (s *FileStore) path(key string) string {
	safe := strings.NewReplacer("/", "_", "\\", "_", ":", "_").Replace(key)
	return filepath.Join(s.dir, safe+fileExtension)
}
