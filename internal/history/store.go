// Package history keeps the bounded, newest-first log of completed scans and
// persists it through a kvstore.Store under a single key.
//
// The in-memory sequence is authoritative for the running session. Loading
// is fail-soft: a missing, unreadable or malformed persisted value yields an
// empty history. Writes that fail leave memory updated and are reported as
// ErrPersist so callers can warn and carry on.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/rshade/ecolens/internal/kvstore"
)

// Capacity is the maximum number of records kept.
const Capacity = 10

// StorageKey is the fixed key the serialized history is stored under.
const StorageKey = "ecolens_history"

// ErrPersist wraps any failure to write the history to its backing store.
var ErrPersist = errors.New("scan history not persisted")

// Store is the scan history. Safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	kv      kvstore.Store
	key     string
	records []ScanRecord
	logger  zerolog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger for load and persistence warnings.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithKey overrides StorageKey.
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// Open loads the history persisted in kv. It never fails: problems with the
// persisted value are logged and the history starts empty. A nil kv keeps
// the history in memory only.
func Open(kv kvstore.Store, opts ...Option) *Store {
	s := &Store{
		kv:      kv,
		key:     StorageKey,
		records: []ScanRecord{},
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.records = s.load()
	return s
}

func (s *Store) load() []ScanRecord {
	if s.kv == nil {
		return []ScanRecord{}
	}

	raw, ok, err := s.kv.Get(s.key)
	if err != nil {
		s.logger.Warn().
			Str("component", "history").
			Err(err).
			Msg("could not read scan history, starting empty")
		return []ScanRecord{}
	}
	if !ok || raw == "" {
		return []ScanRecord{}
	}

	var records []ScanRecord
	if unmarshalErr := json.Unmarshal([]byte(raw), &records); unmarshalErr != nil {
		s.logger.Warn().
			Str("component", "history").
			Err(unmarshalErr).
			Msg("persisted scan history is malformed, starting empty")
		return []ScanRecord{}
	}
	if records == nil {
		return []ScanRecord{}
	}
	if len(records) > Capacity {
		records = records[:Capacity]
	}
	return records
}

// Record prepends rec and drops the oldest records beyond Capacity, then
// persists the whole sequence. The in-memory history is updated even when
// persisting fails; the returned error then wraps ErrPersist.
func (s *Store) Record(rec ScanRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]ScanRecord, 0, min(len(s.records)+1, Capacity))
	next = append(next, rec)
	next = append(next, s.records...)
	if len(next) > Capacity {
		next = next[:Capacity]
	}
	s.records = next

	return s.persistLocked()
}

// LoadAll returns a copy of the history, newest first.
func (s *Store) LoadAll() []ScanRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]ScanRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Len returns the number of records held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Clear empties the history and persists the empty sequence.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = []ScanRecord{}
	return s.persistLocked()
}

func (s *Store) persistLocked() error {
	if s.kv == nil {
		return nil
	}

	data, err := json.Marshal(s.records)
	if err != nil {
		return s.persistFailed(fmt.Errorf("encoding history: %w", err))
	}
	if err = s.kv.Set(s.key, string(data)); err != nil {
		return s.persistFailed(err)
	}
	return nil
}

func (s *Store) persistFailed(err error) error {
	s.logger.Warn().
		Str("component", "history").
		Err(err).
		Int("records", len(s.records)).
		Msg("scan history kept in memory only")
	return fmt.Errorf("%w: %w", ErrPersist, err)
}
