// Package builtin describes the classes, functions and constants that the
// PHP runtime declares natively.
//
// The default catalog is embedded as YAML and parsed once per process:
//
//	info, ok := builtin.Default().Class("Exception")
//
// Registries receive a Platform rather than reading the default directly,
// so tests can substitute a fixed catalog built with NewCatalog.
package builtin
