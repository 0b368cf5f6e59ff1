package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/tliron/commonlog"

	"github.com/dshills/phpreflect/internal/config"
	"github.com/dshills/phpreflect/internal/indexer"
	"github.com/dshills/phpreflect/internal/registry"
	"github.com/dshills/phpreflect/internal/storage"
)

var log = commonlog.GetLogger("phpreflect")

// loadConfig reads the config file, then the environment, then flags
func loadConfig() (*config.Config, error) {
	path := opts.configPath
	if path == "" {
		path = os.Getenv(config.EnvConfig)
	}

	c, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := c.ApplyEnv(); err != nil {
		return nil, err
	}
	if opts.dbPath != "" {
		c.DBPath = opts.dbPath
	}
	return c, c.Validate()
}

// configureLogging sends logs to the configured file or stderr
func configureLogging(c *config.Config) {
	var path *string
	if c.LogFile != "" {
		path = &c.LogFile
	}
	commonlog.Configure(c.LogVerbosity+opts.verbose, path)
}

// openStore opens the configured database, creating its directory
func openStore(c *config.Config) (*storage.SQLiteStorage, error) {
	dbPath, err := c.ResolveDBPath()
	if err != nil {
		return nil, err
	}
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	return storage.NewSQLiteStorage(dbPath)
}

// analyze indexes root and returns the resulting registry. Unless --no-db
// is set the run goes through the database so unchanged files reuse their
// stored token streams.
func analyze(ctx context.Context, root string) (*registry.Registry, *indexer.Statistics, error) {
	var store storage.Storage
	if !opts.noDB {
		s, err := openStore(cfg)
		if err != nil {
			return nil, nil, err
		}
		defer func() { _ = s.Close() }()
		store = s
	}

	idx := indexer.New(store)
	stats, err := idx.IndexProject(ctx, root, cfg.IndexerConfig())
	if err != nil {
		return nil, nil, err
	}
	for path, reasons := range stats.ProcessingErrors {
		for _, reason := range reasons {
			log.Warningf("%s: %s", path, reason)
		}
	}
	for _, msg := range stats.ErrorMessages {
		log.Errorf("%s", msg)
	}
	return idx.Registry(), stats, nil
}

// useJSON reports whether results are printed as JSON
func useJSON() bool {
	if opts.jsonOutput {
		return true
	}
	fd := os.Stdout.Fd()
	return !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd)
}

// output prints v as JSON for pipes and through text for terminals
func output(v any, text func(w io.Writer)) error {
	if useJSON() {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	text(os.Stdout)
	return nil
}
