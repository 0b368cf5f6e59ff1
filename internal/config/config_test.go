package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/phpreflect/pkg/types"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "phpreflect.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, DefaultDBPath, cfg.DBPath)
	assert.Equal(t, runtime.NumCPU(), cfg.Workers)
	assert.Equal(t, 20, cfg.BatchSize)
	assert.Equal(t, []string{".php"}, cfg.Extensions)
	assert.False(t, cfg.StoreTokenStreams)
	assert.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
db_path: /var/lib/phpreflect/index.db
store_token_streams: true
workers: 3
extensions: [".php", ".inc"]
exclude_dirs: [cache, build]
include_vendor: true
log_verbosity: 2
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/phpreflect/index.db", cfg.DBPath)
	assert.True(t, cfg.StoreTokenStreams)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, 20, cfg.BatchSize, "unset keys keep defaults")
	assert.Equal(t, []string{".php", ".inc"}, cfg.Extensions)
	assert.Equal(t, []string{"cache", "build"}, cfg.ExcludeDirs)
	assert.True(t, cfg.IncludeVendor)
	assert.Equal(t, 2, cfg.LogVerbosity)
}

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"malformed yaml", "workers: [1"},
		{"zero workers", "workers: 0"},
		{"bad extension", "extensions: [php]"},
		{"empty extensions", "extensions: []"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvDBPath, "/tmp/env.db")
	t.Setenv(EnvStoreTokens, "true")
	t.Setenv(EnvWorkers, "5")

	cfg := Default()
	require.NoError(t, cfg.ApplyEnv())
	assert.Equal(t, "/tmp/env.db", cfg.DBPath)
	assert.True(t, cfg.StoreTokenStreams)
	assert.Equal(t, 5, cfg.Workers)
}

func TestApplyEnv_Invalid(t *testing.T) {
	t.Setenv(EnvStoreTokens, "sometimes")
	err := Default().ApplyEnv()
	assert.True(t, errors.Is(err, types.ErrInvalidArgument))

	t.Setenv(EnvStoreTokens, "")
	t.Setenv(EnvWorkers, "many")
	err = Default().ApplyEnv()
	assert.True(t, errors.Is(err, types.ErrInvalidArgument))
}

func TestResolveDBPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	cfg := Default()
	path, err := cfg.ResolveDBPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".phpreflect", "phpreflect.db"), path)

	cfg.DBPath = ":memory:"
	path, err = cfg.ResolveDBPath()
	require.NoError(t, err)
	assert.Equal(t, ":memory:", path)

	cfg.DBPath = "/abs/index.db"
	path, err = cfg.ResolveDBPath()
	require.NoError(t, err)
	assert.Equal(t, "/abs/index.db", path)
}

func TestIndexerConfig(t *testing.T) {
	cfg := Default()
	cfg.ExcludeDirs = []string{"cache"}
	cfg.StoreTokenStreams = true

	ic := cfg.IndexerConfig()
	assert.Equal(t, cfg.Workers, ic.Workers)
	assert.Equal(t, []string{"cache"}, ic.ExcludeDirs)
	assert.True(t, ic.StoreTokenStreams)

	ic.Extensions[0] = ".changed"
	assert.Equal(t, ".php", cfg.Extensions[0])
}
