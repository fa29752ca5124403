package kvstore

import (
	"errors"
	"fmt"
	"strings"
)

// Common store errors.
var (
	ErrInvalidKey = errors.New("store key cannot be empty")
	ErrLocked     = errors.New("store is locked by another process")
	ErrClosed     = errors.New("store is closed")
)

// Store is a string key-value store. Get reports ok=false for a missing key.
type Store interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
}

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// SQLiteFileName is the database file created under the storage directory.
const SQLiteFileName = "ecolens.db"

// Open returns the backend named by backend rooted at dir. The caller closes
// the returned store when it implements io.Closer.
func Open(backend, dir string) (Store, error) {
	switch strings.ToLower(backend) {
	case BackendFile, "":
		return NewFile(dir)
	case BackendSQLite:
		return OpenSQLite(joinPath(dir, SQLiteFileName))
	case BackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}

func validKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return ErrInvalidKey
	}
	return nil
}
