//go:build sqlite_cgo
// +build sqlite_cgo

package storage

// This file is compiled when building with the sqlite_cgo tag.
// FTS5 is compiled into go-sqlite3 only with its own sqlite_fts5 tag.
//
// Build command:
//   CGO_ENABLED=1 go build -tags "sqlite_cgo,sqlite_fts5" ./...
//
// Driver used: github.com/mattn/go-sqlite3

import (
	_ "github.com/mattn/go-sqlite3"
)

const (
	// DriverName is the SQLite driver to use
	DriverName = "sqlite3"

	// BuildMode describes the current build configuration
	BuildMode = "cgo"
)
