// Package indexer builds a registry from a directory of PHP sources and
// keeps the persistent index in sync with it.
//
// # Pipeline
//
// A run proceeds in four stages:
//
//  1. Discovery: walk the root, keeping files with an indexed extension.
//     Hidden directories, vendor (unless IncludeVendor) and ExcludeDirs are skipped.
//  2. Tokenize and parse: a worker pool hashes, tokenizes and parses files
//     concurrently. When storage holds a token stream for the same path and
//     content hash, the stream is deserialized instead of tokenized.
//  3. Register: files are merged into a fresh registry.Registry one at a
//     time in sorted path order, so earlier paths win redeclaration conflicts.
//     Conflicts are recorded per file in Statistics.ProcessingErrors.
//  4. Persist: files, symbols and token streams are written in batched
//     transactions and files that disappeared are removed.
//
// # Basic Usage
//
//	idx := indexer.New(store)
//	stats, err := idx.IndexProject(ctx, "/path/to/project", &indexer.Config{
//	    Workers:           8,
//	    StoreTokenStreams: true,
//	})
//	if err != nil {
//	    return err
//	}
//
//	reg := idx.Registry()
//	class := reg.GetClass(`App\Model\User`)
//
// The storage argument may be nil, in which case nothing is persisted and
// every run tokenizes all files.
//
// # Concurrency
//
// IndexProject rejects overlapping runs with ErrIndexInProgress. The
// registry of a completed run is warmed before it is published, so any
// number of readers may query the value returned by Registry while the next
// run builds its replacement.
package indexer
