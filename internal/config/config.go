// Package config loads phpreflect settings from a YAML file with
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dshills/phpreflect/internal/indexer"
	"github.com/dshills/phpreflect/pkg/types"
)

// Environment variables read by ApplyEnv and the CLI
const (
	EnvConfig      = "PHPREFLECT_CONFIG"
	EnvDBPath      = "PHPREFLECT_DB_PATH"
	EnvStoreTokens = "PHPREFLECT_STORE_TOKENS"
	EnvWorkers     = "PHPREFLECT_WORKERS"
)

// DefaultDBPath is the database location used when none is configured
const DefaultDBPath = "~/.phpreflect/phpreflect.db"

// Config represents a phpreflect.yaml configuration.
type Config struct {
	// DBPath is the SQLite index file. A leading ~ expands to the home directory.
	DBPath string `yaml:"db_path"`

	// StoreTokenStreams keeps token streams in memory and in the index, so
	// source excerpts never re-read files and unchanged files skip tokenizing.
	StoreTokenStreams bool `yaml:"store_token_streams"`

	// Workers is the size of the tokenize and parse worker pool.
	Workers int `yaml:"workers"`

	// BatchSize is the number of files committed per transaction.
	BatchSize int `yaml:"batch_size"`

	// Extensions lists the file extensions to index (e.g. ".php", ".inc").
	Extensions []string `yaml:"extensions"`

	// ExcludeDirs lists directory names skipped anywhere in the tree.
	ExcludeDirs []string `yaml:"exclude_dirs,omitempty"`

	// IncludeVendor indexes vendor/ directories.
	IncludeVendor bool `yaml:"include_vendor"`

	LogVerbosity int    `yaml:"log_verbosity"`
	LogFile      string `yaml:"log_file,omitempty"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		DBPath:       DefaultDBPath,
		Workers:      runtime.NumCPU(),
		BatchSize:    20,
		Extensions:   []string{".php"},
		LogVerbosity: 1,
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overrides settings from PHPREFLECT_* environment variables
func (c *Config) ApplyEnv() error {
	if v := os.Getenv(EnvDBPath); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv(EnvStoreTokens); v != "" {
		store, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not a boolean", types.ErrInvalidArgument, EnvStoreTokens, v)
		}
		c.StoreTokenStreams = store
	}
	if v := os.Getenv(EnvWorkers); v != "" {
		workers, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not an integer", types.ErrInvalidArgument, EnvWorkers, v)
		}
		c.Workers = workers
	}
	return c.Validate()
}

// Validate checks value ranges
func (c *Config) Validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("%w: db_path is required", types.ErrInvalidArgument)
	}
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be at least 1, got %d", types.ErrInvalidArgument, c.Workers)
	}
	if c.BatchSize < 1 {
		return fmt.Errorf("%w: batch_size must be at least 1, got %d", types.ErrInvalidArgument, c.BatchSize)
	}
	if len(c.Extensions) == 0 {
		return fmt.Errorf("%w: at least one extension is required", types.ErrInvalidArgument)
	}
	for _, ext := range c.Extensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			return fmt.Errorf("%w: extension %q must start with a dot", types.ErrInvalidArgument, ext)
		}
	}
	return nil
}

// ResolveDBPath expands a leading ~ in DBPath
func (c *Config) ResolveDBPath() (string, error) {
	if c.DBPath == ":memory:" {
		return c.DBPath, nil
	}
	if c.DBPath == "~" || strings.HasPrefix(c.DBPath, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		return filepath.Join(home, strings.TrimPrefix(c.DBPath, "~")), nil
	}
	return c.DBPath, nil
}

// IndexerConfig converts the indexing settings
func (c *Config) IndexerConfig() *indexer.Config {
	return &indexer.Config{
		Workers:           c.Workers,
		BatchSize:         c.BatchSize,
		Extensions:        append([]string(nil), c.Extensions...),
		ExcludeDirs:       append([]string(nil), c.ExcludeDirs...),
		IncludeVendor:     c.IncludeVendor,
		StoreTokenStreams: c.StoreTokenStreams,
	}
}
