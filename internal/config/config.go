// Package config loads the EcoLens configuration: a YAML file under the
// user's config directory, then ECOLENS_* environment overrides. Command-line
// flags are applied last by the CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/rshade/ecolens/internal/classifier"
	"github.com/rshade/ecolens/internal/dashboard"
	"github.com/rshade/ecolens/internal/history"
	"github.com/rshade/ecolens/internal/kvstore"
	"github.com/rshade/ecolens/internal/logging"
	"github.com/rshade/ecolens/internal/resolver"
)

// Classifier types.
const (
	ClassifierStub = "stub"
	ClassifierHTTP = "http"
)

// FileName is the config file name inside the config directory.
const FileName = "config.yaml"

// Config is the full EcoLens configuration.
type Config struct {
	Storage    StorageConfig    `yaml:"storage"    json:"storage"`
	Classifier ClassifierConfig `yaml:"classifier" json:"classifier"`
	Catalog    CatalogConfig    `yaml:"catalog"    json:"catalog"`
	Matching   MatchingConfig   `yaml:"matching"   json:"matching"`
	Dashboard  DashboardConfig  `yaml:"dashboard"  json:"dashboard"`
	Logging    LoggingConfig    `yaml:"logging"    json:"logging"`
}

// StorageConfig selects where the scan history lives.
type StorageConfig struct {
	Backend string `yaml:"backend" json:"backend"`
	Dir     string `yaml:"dir"     json:"dir"`
	Key     string `yaml:"key"     json:"key"`
}

// ClassifierConfig selects and configures the image classifier.
type ClassifierConfig struct {
	Type        string        `yaml:"type"                  json:"type"`
	Endpoint    string        `yaml:"endpoint,omitempty"    json:"endpoint,omitempty"`
	HealthURL   string        `yaml:"health_url,omitempty"  json:"health_url,omitempty"`
	Timeout     time.Duration `yaml:"timeout"               json:"timeout"`
	Retries     int           `yaml:"retries"               json:"retries"`
	LabelsPath  string        `yaml:"labels_path"           json:"labels_path"`
	TopK        int           `yaml:"top_k"                 json:"top_k"`
	Concurrency int           `yaml:"concurrency,omitempty" json:"concurrency,omitempty"`

	// CacheTTL keeps predictions for identical images on disk. Zero
	// disables the cache.
	CacheTTL time.Duration `yaml:"cache_ttl,omitempty" json:"cache_ttl,omitempty"`
}

// CatalogConfig points at an optional catalog file.
type CatalogConfig struct {
	File    string `yaml:"file"    json:"file"`
	Replace bool   `yaml:"replace" json:"replace"`
}

// MatchingConfig selects the keyword matching mode.
type MatchingConfig struct {
	Mode string `yaml:"mode" json:"mode"`
}

// DashboardConfig selects the category breakdown mode.
type DashboardConfig struct {
	Breakdown string `yaml:"breakdown" json:"breakdown"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string `yaml:"level"  json:"level"`
	Format string `yaml:"format" json:"format"`
	File   string `yaml:"file"   json:"file"`
}

// New returns the default configuration.
func New() *Config {
	dir, err := GetConfigDir()
	if err != nil {
		dir = ".ecolens"
	}
	return &Config{
		Storage: StorageConfig{
			Backend: kvstore.BackendFile,
			Dir:     dir,
			Key:     history.StorageKey,
		},
		Classifier: ClassifierConfig{
			Type:       ClassifierStub,
			Timeout:    classifier.DefaultTimeout,
			Retries:    classifier.DefaultRetries,
			LabelsPath: classifier.DefaultPredictionsPath,
			TopK:       classifier.DefaultTopK,
		},
		Matching:  MatchingConfig{Mode: string(resolver.MatchSubstring)},
		Dashboard: DashboardConfig{Breakdown: string(dashboard.BreakdownHistory)},
		Logging: LoggingConfig{
			Level:  "info",
			Format: logging.FormatConsole,
		},
	}
}

// Load returns the defaults overlaid with the file at path and the
// environment. A missing file is not an error. An empty path uses
// DefaultPath.
func Load(path string) (*Config, error) {
	cfg := New()

	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	path, err := homedir.Expand(path)
	if err != nil {
		return nil, fmt.Errorf("expanding config path: %w", err)
	}

	if _, statErr := os.Stat(path); statErr == nil {
		if err = MergeYAML(cfg, path); err != nil {
			return nil, err
		}
	} else if !errors.Is(statErr, os.ErrNotExist) {
		return nil, fmt.Errorf("reading config %s: %w", path, statErr)
	}

	cfg.ApplyEnv()
	if err = cfg.ExpandPaths(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv applies ECOLENS_* environment overrides.
func (c *Config) ApplyEnv() {
	setString := func(env string, dst *string) {
		if v := os.Getenv(env); v != "" {
			*dst = v
		}
	}
	setString("ECOLENS_STORAGE_BACKEND", &c.Storage.Backend)
	setString("ECOLENS_STORAGE_DIR", &c.Storage.Dir)
	setString("ECOLENS_CLASSIFIER", &c.Classifier.Type)
	setString("ECOLENS_CLASSIFIER_ENDPOINT", &c.Classifier.Endpoint)
	setString("ECOLENS_CATALOG_FILE", &c.Catalog.File)
	setString("ECOLENS_MATCH_MODE", &c.Matching.Mode)
	setString("ECOLENS_BREAKDOWN", &c.Dashboard.Breakdown)
	setString("ECOLENS_LOG_LEVEL", &c.Logging.Level)
	setString("ECOLENS_LOG_FORMAT", &c.Logging.Format)
	setString("ECOLENS_LOG_FILE", &c.Logging.File)

	if v := os.Getenv("ECOLENS_CLASSIFIER_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Classifier.Timeout = d
		}
	}
	if v := os.Getenv("ECOLENS_CLASSIFIER_CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Classifier.CacheTTL = d
		}
	}
	if v := os.Getenv("ECOLENS_CLASSIFIER_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Classifier.Retries = n
		}
	}
}

// ExpandPaths resolves a leading ~ in every path setting.
func (c *Config) ExpandPaths() error {
	for _, p := range []*string{&c.Storage.Dir, &c.Catalog.File, &c.Logging.File} {
		expanded, err := homedir.Expand(*p)
		if err != nil {
			return fmt.Errorf("expanding %q: %w", *p, err)
		}
		*p = expanded
	}
	return nil
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var errs []error

	switch strings.ToLower(c.Storage.Backend) {
	case kvstore.BackendFile, kvstore.BackendSQLite, kvstore.BackendMemory:
	default:
		errs = append(errs, fmt.Errorf("storage.backend: unknown backend %q", c.Storage.Backend))
	}
	if c.Storage.Dir == "" && !strings.EqualFold(c.Storage.Backend, kvstore.BackendMemory) {
		errs = append(errs, errors.New("storage.dir: required"))
	}

	switch strings.ToLower(c.Classifier.Type) {
	case ClassifierStub:
	case ClassifierHTTP:
		if c.Classifier.Endpoint == "" {
			errs = append(errs, errors.New("classifier.endpoint: required for the http classifier"))
		}
	default:
		errs = append(errs, fmt.Errorf("classifier.type: unknown classifier %q", c.Classifier.Type))
	}
	if c.Classifier.Timeout < 0 {
		errs = append(errs, errors.New("classifier.timeout: must not be negative"))
	}
	if c.Classifier.Retries < 0 {
		errs = append(errs, errors.New("classifier.retries: must not be negative"))
	}
	if c.Classifier.CacheTTL < 0 {
		errs = append(errs, errors.New("classifier.cache_ttl: must not be negative"))
	}
	if c.Classifier.TopK < 0 {
		errs = append(errs, errors.New("classifier.top_k: must not be negative"))
	}

	if _, ok := resolver.ParseMatchMode(c.Matching.Mode); !ok {
		errs = append(errs, fmt.Errorf("matching.mode: unknown mode %q", c.Matching.Mode))
	}
	if _, ok := dashboard.ParseBreakdownMode(c.Dashboard.Breakdown); !ok {
		errs = append(errs, fmt.Errorf("dashboard.breakdown: unknown mode %q", c.Dashboard.Breakdown))
	}

	if c.Logging.Level != "" {
		if _, err := zerolog.ParseLevel(strings.ToLower(c.Logging.Level)); err != nil {
			errs = append(errs, fmt.Errorf("logging.level: %w", err))
		}
	}
	switch strings.ToLower(c.Logging.Format) {
	case "", logging.FormatConsole, logging.FormatJSON:
	default:
		errs = append(errs, fmt.Errorf("logging.format: unknown format %q", c.Logging.Format))
	}

	return errors.Join(errs...)
}

// Save writes c as YAML to path, creating parent directories. The file is
// written to a temporary sibling and renamed into place.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err = os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	tmp := path + ".tmp"
	if err = os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	if err = os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replacing config: %w", err)
	}
	return nil
}
