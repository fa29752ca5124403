package kvstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"
)

const (
	valueFileExtension = ".json"
	lockFileName       = ".lock"
)

// Lock acquisition tuning.
const (
	lockMaxRetries = 10
	lockRetryDelay = 100 * time.Millisecond
	staleLockAge   = 30 * time.Second
)

// File stores each key as a file in a directory. Safe for concurrent use
// within a process; a PID lockfile serializes writers across processes.
type File struct {
	directory string
	mu        sync.RWMutex
}

// NewFile creates a file store, creating directory when needed.
func NewFile(directory string) (*File, error) {
	if directory == "" {
		return nil, errors.New("storage directory cannot be empty")
	}
	if err := os.MkdirAll(directory, 0o750); err != nil {
		return nil, fmt.Errorf("creating storage directory: %w", err)
	}
	return &File{directory: directory}, nil
}

// Directory returns the directory values are stored in.
func (s *File) Directory() string {
	return s.directory
}

// Get returns the value stored under key.
func (s *File) Get(key string) (string, bool, error) {
	if err := validKey(key); err != nil {
		return "", false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.keyToFilePath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("reading value file: %w", err)
	}
	return string(data), true, nil
}

// Set replaces the value under key. The value is written to a temporary file
// and renamed into place, so a crash leaves either the old or the new value.
func (s *File) Set(key, value string) error {
	if err := validKey(key); err != nil {
		return err
	}

	unlock, err := s.acquireFileLock()
	if err != nil {
		return err
	}
	defer unlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	filePath := s.keyToFilePath(key)
	tmpPath := filePath + ".tmp"
	if writeErr := os.WriteFile(tmpPath, []byte(value), 0o600); writeErr != nil {
		return fmt.Errorf("writing value temp file: %w", writeErr)
	}
	if renameErr := os.Rename(tmpPath, filePath); renameErr != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("renaming value temp file: %w", renameErr)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *File) Delete(key string) error {
	if err := validKey(key); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.keyToFilePath(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting value file: %w", err)
	}
	return nil
}

// keyToFilePath maps a key to a filesystem-safe path inside the directory.
func (s *File) keyToFilePath(key string) string {
	safeKey := strings.NewReplacer("/", "_", "\\", "_", ":", "_", "..", "_").Replace(key)
	return filepath.Join(s.directory, safeKey+valueFileExtension)
}

// acquireFileLock takes the directory's advisory lockfile, retrying briefly
// and breaking locks left behind by dead processes. The returned func
// releases the lock.
func (s *File) acquireFileLock() (func(), error) {
	lockPath := filepath.Join(s.directory, lockFileName)

	for attempt := 0; attempt < lockMaxRetries; attempt++ {
		f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
		if err == nil {
			_, _ = fmt.Fprintf(f, "%d", os.Getpid())
			_ = f.Close()
			return func() { _ = os.Remove(lockPath) }, nil
		}
		if removeStaleLock(lockPath, staleLockAge) {
			continue
		}
		time.Sleep(lockRetryDelay)
	}

	return nil, fmt.Errorf("%w: %s", ErrLocked, lockPath)
}

// removeStaleLock removes lockPath when it is older than maxAge and its owner
// is gone. It reports whether the caller should retry immediately.
func removeStaleLock(lockPath string, maxAge time.Duration) bool {
	info, err := os.Stat(lockPath)
	if err != nil || time.Since(info.ModTime()) <= maxAge {
		return false
	}
	if isLockHeldByLiveProcess(lockPath) {
		return false
	}
	_ = os.Remove(lockPath)
	return true
}

func isLockHeldByLiveProcess(lockPath string) bool {
	pidData, err := os.ReadFile(lockPath)
	if err != nil || len(pidData) == 0 {
		return false
	}
	var pid int
	if _, scanErr := fmt.Sscanf(string(pidData), "%d", &pid); scanErr != nil || pid <= 0 {
		return false
	}
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	// Signal 0 probes for existence without delivering anything.
	return proc.Signal(syscall.Signal(0)) == nil
}

func joinPath(dir, name string) string {
	if dir == "" {
		return name
	}
	return filepath.Join(dir, name)
}
