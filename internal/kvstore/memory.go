package kvstore

import "sync"

// Memory is a map-backed store. FailWrites makes Set return an error, which
// lets callers exercise quota or I/O failures.
type Memory struct {
	mu        sync.RWMutex
	values    map[string]string
	writeErr  error
	setCalled int
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

// Get returns the value stored under key.
func (m *Memory) Get(key string) (string, bool, error) {
	if err := validKey(key); err != nil {
		return "", false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

// Set stores value under key unless writes are failing.
func (m *Memory) Set(key, value string) error {
	if err := validKey(key); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setCalled++
	if m.writeErr != nil {
		return m.writeErr
	}
	m.values[key] = value
	return nil
}

// FailWrites makes every later Set return err; nil restores normal writes.
func (m *Memory) FailWrites(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writeErr = err
}

// SetCalls returns how many times Set has been called.
func (m *Memory) SetCalls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.setCalled
}
