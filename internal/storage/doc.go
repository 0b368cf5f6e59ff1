// Package storage provides SQLite-based persistence for analyzed PHP code.
//
// The storage layer manages:
//   - Project metadata and indexing runs
//   - File information, content hashes and declared namespaces
//   - Serialized token streams
//   - Declared symbols (classes, interfaces, traits, functions, methods, constants)
//   - Full-text search indexes
//
// # Database Schema
//
// Tables:
//   - projects: Project metadata (root path, totals, last run)
//   - files: Canonical file paths and SHA-256 hashes
//   - token_streams: Serialized token streams keyed by file
//   - symbols: Declaration summaries with line ranges
//   - symbols_fts: FTS5 full-text search index over symbols
//
// # Basic Usage
//
//	db, err := storage.NewSQLiteStorage("/tmp/phpreflect.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	file := &storage.File{ProjectID: project.ID, FilePath: path, ContentHash: hash}
//	if err := db.UpsertFile(ctx, file); err != nil {
//	    return err
//	}
//
// # Transactions
//
// Use transactions for atomic operations:
//
//	tx, err := db.BeginTx(ctx)
//	if err != nil {
//	    return err
//	}
//	defer tx.Rollback()
//
//	_ = tx.DeleteSymbolsByFile(ctx, file.ID)
//	for _, sym := range storage.SymbolsFromFile(decl, file.ID) {
//	    if err := tx.UpsertSymbol(ctx, sym); err != nil {
//	        return err
//	    }
//	}
//	return tx.Commit()
//
// # Incremental Updates
//
// A file whose content hash matches a stored row can reuse the stored token
// stream instead of being tokenized again:
//
//	prev, err := db.GetFileByHash(ctx, project.ID, sha256.Sum256(content))
//	if err == nil {
//	    payload, _ := db.LoadTokenStream(ctx, prev.ID)
//	    ts, _ := stream.Deserialize(payload)
//	}
//
// # Build Modes
//
// The default build uses modernc.org/sqlite, which needs no C compiler.
// Building with the sqlite_cgo tag switches to github.com/mattn/go-sqlite3;
// add sqlite_fts5 as well so the full-text index is available.
package storage
