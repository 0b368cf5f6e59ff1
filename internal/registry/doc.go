// Package registry is the in-memory database of analyzed PHP code.
//
// A Registry owns one Namespace table per declared namespace (the top-level
// scope is stored under types.NoNamespace) and the token streams of every
// processed file. Lookups that miss the tokenized tables fall back to the
// runtime catalog:
//
//	reg := registry.New()
//	ts, decl, err := parser.New().ParseFile("src/User.php")
//	if err != nil {
//	    return err
//	}
//	if err := reg.AddFile(ts, decl); err != nil {
//	    // conflicts are reported, the rest of the file is registered
//	}
//	class := reg.GetClass(`App\User`)
//
// # Conflicts
//
// Registering a second symbol with a taken name replaces the slot with an
// invalid placeholder that accumulates every conflict. AddFile returns all
// conflicts of one file as a *types.FileProcessingError.
//
// # Class partitions
//
// GetClasses splits the class universe into tokenized classes, internal
// classes referenced as ancestors or interfaces, and nonexistent classes
// referenced but never declared. The partitions are disjoint and cached
// until the next AddFile.
//
// # Token streams
//
// With WithStoreTokenStreams(false) only the file path is remembered and
// GetFileTokens re-tokenizes the file from disk on demand.
package registry
