// Package types provides shared type definitions for phpreflect.
//
// This package defines the parsed-declaration records consumed by the symbol
// registry and the error kinds shared across the stream, registry and
// reflection layers.
//
// # Declarations
//
// A declaration scanner turns one file into a FileDecl made of one
// NamespaceDecl per namespace segment:
//
//	file := &types.FileDecl{
//	    FileName: "/src/App/User.php",
//	    Namespaces: []types.NamespaceDecl{{
//	        Name: `App`,
//	        Classes: []types.ClassDecl{{
//	            Name:   "User",
//	            Kind:   types.KindClass,
//	            Parent: `App\Model`,
//	        }},
//	    }},
//	}
//
// Names inside declarations are always fully qualified without a leading
// separator. The top-level scope is NoNamespace.
//
// # Errors
//
// Every failure is one of the sentinel kinds (ErrNotFound, ErrUnsupported,
// ErrSerialization, ...) wrapped with context:
//
//	if errors.Is(err, types.ErrNotFound) {
//	    // fall back
//	}
//
// Merging a file that contains duplicate declarations yields a
// FileProcessingError whose Reasons are DuplicateErrors:
//
//	var fpe *types.FileProcessingError
//	if errors.As(err, &fpe) {
//	    for _, reason := range fpe.Reasons {
//	        fmt.Println(reason)
//	    }
//	}
package types
