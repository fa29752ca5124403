package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Top-level YAML config key names.
const (
	keyStorage    = "storage"
	keyClassifier = "classifier"
	keyCatalog    = "catalog"
	keyMatching   = "matching"
	keyDashboard  = "dashboard"
	keyLogging    = "logging"
)

// MergeYAML loads a YAML file and applies its sections onto target. Within a
// section, fields present in the file replace the target's values and absent
// fields keep them. Unknown top-level keys are ignored.
func MergeYAML(target *Config, path string) error {
	if target == nil {
		return errors.New("nil target *Config in MergeYAML")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file %s: %w", path, err)
	}

	var overlay map[string]yaml.Node
	if err = yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("parsing config YAML from %s: %w", path, err)
	}

	for key, node := range overlay {
		dst := section(target, key)
		if dst == nil {
			continue
		}
		if err = node.Decode(dst); err != nil {
			return fmt.Errorf("applying config section %q: %w", key, err)
		}
	}
	return nil
}

// section returns a pointer to the field of target named by key, or nil.
func section(target *Config, key string) any {
	switch key {
	case keyStorage:
		return &target.Storage
	case keyClassifier:
		return &target.Classifier
	case keyCatalog:
		return &target.Catalog
	case keyMatching:
		return &target.Matching
	case keyDashboard:
		return &target.Dashboard
	case keyLogging:
		return &target.Logging
	default:
		return nil
	}
}
