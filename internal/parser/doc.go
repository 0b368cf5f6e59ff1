// Package parser extracts structural declarations from PHP token streams.
//
// The parser walks a stream.TokenStream and records classes, interfaces,
// traits, functions and constants as types.FileDecl records ready for
// registry.Registry.AddFile. It does not evaluate code or parse bodies
// beyond what is needed to find member declarations.
//
// # Basic Usage
//
//	p := parser.New()
//	ts, file, err := p.ParseFile("/path/to/User.php")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, ns := range file.Namespaces {
//	    for _, class := range ns.Classes {
//	        fmt.Printf("Found %s %s\n", class.Kind, class.FQN())
//	    }
//	}
//
// # Recognized Declarations
//
//   - Semicolon and braced namespace declarations
//   - use imports with aliases and group syntax
//   - Classes, interfaces and traits with modifiers, extends, implements and trait use
//   - Class constants and methods (parameters, by-reference returns, modifiers)
//   - Top-level and conditional functions
//   - Namespace const statements and define('NAME', value) calls
//
// Class references are resolved to fully qualified names against the
// current namespace and imports. Closures, arrow functions, anonymous
// classes, enums and Foo::class expressions are not declarations.
//
// # Error Handling
//
// Problems such as unmatched brackets do not stop the scan:
//
//	file := p.ParseStream(ts)
//	if file.HasErrors() {
//	    for _, parseErr := range file.Errors {
//	        fmt.Printf("line %d: %s\n", parseErr.Line, parseErr.Message)
//	    }
//	}
//
// Partial results are still returned, so indexing continues even when some
// files are broken.
package parser
