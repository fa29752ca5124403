package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
)

// GetConfigDir returns the EcoLens directory, ECOLENS_HOME when set and
// ~/.ecolens otherwise.
func GetConfigDir() (string, error) {
	if home := os.Getenv("ECOLENS_HOME"); home != "" {
		return homedir.Expand(home)
	}

	homeDir, err := homedir.Dir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".ecolens"), nil
}

// DefaultPath returns the path of the config file in the config directory.
func DefaultPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName), nil
}

// EnsureStorageDir creates the storage directory.
func (c *Config) EnsureStorageDir() error {
	if c.Storage.Dir == "" {
		return nil
	}
	if err := os.MkdirAll(c.Storage.Dir, 0o700); err != nil {
		return fmt.Errorf("failed to create storage directory %q: %w", c.Storage.Dir, err)
	}
	return nil
}

// EnsureLogDir creates the parent directory of the configured log file.
func (c *Config) EnsureLogDir() error {
	if c.Logging.File == "" {
		return nil
	}
	logDir := filepath.Dir(c.Logging.File)
	if err := os.MkdirAll(logDir, 0o700); err != nil {
		return fmt.Errorf("failed to create log directory %q: %w", logDir, err)
	}
	return nil
}

// CacheDir returns the prediction cache directory, or "" when no storage
// directory is configured.
func (c *Config) CacheDir() string {
	if c.Storage.Dir == "" {
		return ""
	}
	return filepath.Join(c.Storage.Dir, "cache")
}
