package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".topsites"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File represents the structure of the .topsites configuration file.
// Zero-valued fields leave the corresponding Config default untouched.
type File struct {
	// GridSize overrides the number of grid slots.
	GridSize int `yaml:"gridSize,omitempty"`

	// PoolSize overrides the ranked candidate pool size.
	PoolSize int `yaml:"poolSize,omitempty"`

	// Debounce overrides the recomputation coalescing window.
	// Accepts Go duration syntax, e.g. "5s" or "1500ms".
	Debounce string `yaml:"debounce,omitempty"`

	// ProtectedSchemes replaces the default protected-scheme list.
	ProtectedSchemes []string `yaml:"protectedSchemes,omitempty"`

	// DedupeByRegistrableDomain switches domain deduplication to eTLD+1.
	DedupeByRegistrableDomain bool `yaml:"dedupeByRegistrableDomain,omitempty"`

	// Catalog replaces the built-in curated defaults.
	Catalog []CatalogEntry `yaml:"catalog,omitempty"`
}

// LoadConfigFile loads settings from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound.
// Callers should handle this error appropriately based on whether
// the config file path was explicitly specified by the user.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}

	return &cf, nil
}

// FindConfigFile searches for the configuration file in the following order:
//  1. If configPath is specified, use it directly
//  2. Look for .topsites in the current directory
//  3. Look for .topsites in the user's home directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	// If explicit path is provided, use it
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	// Check current directory
	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	// Check home directory
	home, err := os.UserHomeDir()
	if err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	return ""
}

// ApplyTo merges the file's settings into cfg. Only fields the file
// actually sets are applied; everything else keeps its current value.
func (cf *File) ApplyTo(cfg *Config) error {
	if cf.GridSize > 0 {
		cfg.GridSize = cf.GridSize
	}
	if cf.PoolSize > 0 {
		cfg.PoolSize = cf.PoolSize
	}
	if cf.Debounce != "" {
		d, err := time.ParseDuration(cf.Debounce)
		if err != nil {
			return fmt.Errorf("invalid debounce duration %q: %w", cf.Debounce, err)
		}
		cfg.Debounce = d
	}
	if len(cf.ProtectedSchemes) > 0 {
		cfg.ProtectedSchemes = cf.ProtectedSchemes
	}
	if cf.DedupeByRegistrableDomain {
		cfg.DedupeByRegistrableDomain = true
	}
	if len(cf.Catalog) > 0 {
		cfg.Catalog = cf.Catalog
	}
	return nil
}
