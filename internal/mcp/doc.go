// Package mcp implements the Model Context Protocol (MCP) server for phpreflect.
//
// The server exposes the reflection registry of an analyzed PHP codebase to
// AI coding assistants:
//   - index_codebase: Analyze a PHP project and publish its registry
//   - get_class, get_function, get_constant: Reflect one symbol by name
//   - list_namespaces, list_classes: Enumerate the registry
//   - search_symbols: Search stored symbols by name and doc comment
//   - get_status: Check indexing status and statistics
//
// # Protocol Overview
//
// MCP is a JSON-RPC 2.0 protocol over stdio transport:
//
//	Client → Server: {"method": "tools/call", "params": {...}}
//	Server → Client: {"result": {...}}
//
// stdout is reserved for protocol messages, so logs go to stderr or the
// configured log file.
//
// # Basic Usage
//
//	phpreflect serve
//
// # Tool: index_codebase
//
//	Request:
//	{
//	  "name": "index_codebase",
//	  "arguments": {
//	    "path": "/path/to/project",
//	    "store_token_streams": true,
//	    "include_vendor": false
//	  }
//	}
//
//	Response:
//	{
//	  "indexed": true,
//	  "run_id": "4f0c...",
//	  "files_discovered": 120,
//	  "files_indexed": 118,
//	  "files_cached": 96,
//	  "files_failed": 2,
//	  "symbols_extracted": 640,
//	  "processing_errors": {
//	    "/path/to/project/src/Legacy.php": ["class App\\User was redeclared ..."]
//	  }
//	}
//
// Reflection tools answer from the registry of the last completed run. Before
// the first run they fail with ErrorCodeNotIndexed.
//
// # Tool: get_class
//
// get_class never reports a missing class. Names declared nowhere resolve to
// a placeholder whose partition is "nonexistent" and whose valid flag is
// false; runtime classes resolve with partition "internal".
//
//	Request:
//	{"name": "get_class", "arguments": {"name": "App\\Model\\User", "include_source": true}}
//
// get_function and get_constant fall back to runtime symbols and fail with
// ErrorCodeSymbolNotFound otherwise. Class constants use the Class::NAME form.
//
// # Tool: list_classes
//
// The tokenized, internal and nonexistent flags select class partitions.
// With no flag set every partition is listed.
//
// # Tool: search_symbols
//
//	Request:
//	{
//	  "name": "search_symbols",
//	  "arguments": {
//	    "path": "/path/to/project",
//	    "query": "user repository",
//	    "limit": 10,
//	    "kinds": ["class", "interface"],
//	    "search_mode": "hybrid"
//	  }
//	}
//
// Search modes:
//   - hybrid: name matching and BM25 combined with RRF (default)
//   - name: fully qualified name matching only
//   - keyword: BM25 over names and doc comments only
//
// # Error Handling
//
// Failures are returned as MCPError values carrying a JSON-RPC code:
//
//	-32602: Invalid parameters (missing path, bad limit, malformed name)
//	-32603: Internal error (database failure)
//	-32001: Project path not found
//	-32002: Indexing already in progress
//	-32003: Project not indexed
//	-32004: Empty query
//	-32005: Function or constant not found
package mcp
