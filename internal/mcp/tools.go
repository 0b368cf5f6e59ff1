package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dshills/phpreflect/internal/indexer"
	"github.com/dshills/phpreflect/internal/reflection"
	"github.com/dshills/phpreflect/internal/registry"
	"github.com/dshills/phpreflect/internal/searcher"
	"github.com/dshills/phpreflect/internal/storage"
	"github.com/dshills/phpreflect/internal/stream"
	"github.com/dshills/phpreflect/pkg/types"
)

// MCP error codes
const (
	ErrorCodeInvalidParams      = -32602 // Invalid method parameters
	ErrorCodeInternalError      = -32603 // Internal JSON-RPC error
	ErrorCodeProjectNotFound    = -32001 // Specified path does not contain a PHP project
	ErrorCodeIndexingInProgress = -32002 // Another indexing operation is already running
	ErrorCodeNotIndexed         = -32003 // Project not indexed
	ErrorCodeEmptyQuery         = -32004 // Query parameter is empty
	ErrorCodeSymbolNotFound     = -32005 // Requested function or constant does not exist
)

// maxReportedErrors caps the error messages echoed by index_codebase
const maxReportedErrors = 5

// handleIndexCodebase handles the index_codebase tool invocation
func (s *Server) handleIndexCodebase(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	path, err := requirePath(args)
	if err != nil {
		return nil, err
	}

	config := s.config.IndexerConfig()
	config.StoreTokenStreams = getBoolDefault(args, "store_token_streams", config.StoreTokenStreams)
	config.IncludeVendor = getBoolDefault(args, "include_vendor", config.IncludeVendor)

	if err := validatePath(path, config.Extensions); err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid path", map[string]interface{}{
			"param":  "path",
			"reason": err.Error(),
		})
	}

	stats, err := s.indexer.IndexProject(ctx, path, config)
	if errors.Is(err, indexer.ErrIndexInProgress) {
		return nil, newMCPError(ErrorCodeIndexingInProgress, "indexing already in progress", map[string]interface{}{
			"path": path,
		})
	}
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "indexing failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Stored symbols changed under any cached query
	project := s.indexer.Project()
	if project != nil {
		if err := s.searcher.InvalidateCache(ctx, project.ID); err != nil {
			log.Warningf("failed to invalidate search cache: %s", err.Error())
		}
	}

	response := map[string]interface{}{
		"indexed":           true,
		"run_id":            stats.RunID,
		"files_discovered":  stats.FilesDiscovered,
		"files_indexed":     stats.FilesIndexed,
		"files_cached":      stats.FilesCached,
		"files_failed":      stats.FilesFailed,
		"files_removed":     stats.FilesRemoved,
		"symbols_extracted": stats.SymbolsExtracted,
		"parse_errors":      stats.ParseErrors,
		"duration_ms":       stats.Duration.Milliseconds(),
	}

	if len(stats.ErrorMessages) > 0 {
		errorCount := len(stats.ErrorMessages)
		if errorCount > maxReportedErrors {
			response["errors"] = stats.ErrorMessages[:maxReportedErrors]
		} else {
			response["errors"] = stats.ErrorMessages
		}
		response["error_count"] = errorCount
	}
	if len(stats.ProcessingErrors) > 0 {
		response["processing_errors"] = stats.ProcessingErrors
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleGetClass handles the get_class tool invocation
func (s *Server) handleGetClass(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	name, err := requireName(args)
	if err != nil {
		return nil, err
	}
	reg, err := s.currentRegistry()
	if err != nil {
		return nil, err
	}

	response := classJSON(reg.GetClass(name))
	if getBoolDefault(args, "include_source", false) {
		addSource(response, reg.GetClass(name).Source)
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleGetFunction handles the get_function tool invocation
func (s *Server) handleGetFunction(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	name, err := requireName(args)
	if err != nil {
		return nil, err
	}
	reg, err := s.currentRegistry()
	if err != nil {
		return nil, err
	}

	fn, err := reg.GetFunction(name)
	if err != nil {
		return nil, lookupError("function", name, err)
	}

	response := functionJSON(fn)
	if getBoolDefault(args, "include_source", false) {
		addSource(response, fn.Source)
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleGetConstant handles the get_constant tool invocation
func (s *Server) handleGetConstant(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	name, err := requireName(args)
	if err != nil {
		return nil, err
	}
	reg, err := s.currentRegistry()
	if err != nil {
		return nil, err
	}

	constant, err := reg.GetConstant(name)
	if err != nil {
		return nil, lookupError("constant", name, err)
	}
	return mcp.NewToolResultText(formatJSON(constantJSON(constant))), nil
}

// handleListNamespaces handles the list_namespaces tool invocation
func (s *Server) handleListNamespaces(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	reg, err := s.currentRegistry()
	if err != nil {
		return nil, err
	}

	namespaces := reg.Namespaces()
	list := make([]map[string]interface{}, 0, len(namespaces))
	for _, ns := range namespaces {
		list = append(list, map[string]interface{}{
			"name":      ns.Name(),
			"classes":   len(ns.GetClasses()),
			"functions": len(ns.GetFunctions()),
			"constants": len(ns.GetConstants()),
		})
	}

	response := map[string]interface{}{
		"namespaces": list,
		"count":      len(list),
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleListClasses handles the list_classes tool invocation
func (s *Server) handleListClasses(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})

	reg, err := s.currentRegistry()
	if err != nil {
		return nil, err
	}

	mask := classMask(
		getBoolDefault(args, "tokenized", false),
		getBoolDefault(args, "internal", false),
		getBoolDefault(args, "nonexistent", false),
	)

	classes := reg.GetClasses(mask)
	list := make([]map[string]interface{}, 0, len(classes))
	for _, c := range classes {
		list = append(list, map[string]interface{}{
			"name":      c.Name(),
			"partition": reflection.Partition(c),
		})
	}

	response := map[string]interface{}{
		"classes": list,
		"count":   len(list),
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleSearchSymbols handles the search_symbols tool invocation
func (s *Server) handleSearchSymbols(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	path, err := requirePath(args)
	if err != nil {
		return nil, err
	}

	query, ok := args["query"].(string)
	if !ok || strings.TrimSpace(query) == "" {
		return nil, newMCPError(ErrorCodeEmptyQuery, "query parameter is required and cannot be empty", map[string]interface{}{
			"param":  "query",
			"reason": "missing or empty",
		})
	}

	limit := getIntDefault(args, "limit", 10)
	if limit < 1 || limit > 100 {
		return nil, newMCPError(ErrorCodeInvalidParams, "limit must be between 1 and 100", map[string]interface{}{
			"param": "limit",
			"value": limit,
		})
	}

	searchMode := getStringDefault(args, "search_mode", string(searcher.SearchModeHybrid))
	switch searcher.SearchMode(searchMode) {
	case searcher.SearchModeHybrid, searcher.SearchModeName, searcher.SearchModeKeyword:
	default:
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid search_mode", map[string]interface{}{
			"param":   "search_mode",
			"value":   searchMode,
			"allowed": []string{"hybrid", "name", "keyword"},
		})
	}

	kinds, err := getKinds(args)
	if err != nil {
		return nil, err
	}

	project, err := s.lookupProject(ctx, path)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, newMCPError(ErrorCodeNotIndexed, "project not indexed", map[string]interface{}{
			"path": path,
		})
	}

	resp, err := s.searcher.Search(ctx, searcher.SearchRequest{
		Query:     query,
		Limit:     limit,
		Mode:      searcher.SearchMode(searchMode),
		Kinds:     kinds,
		ProjectID: project.ID,
		UseCache:  true,
	})
	if errors.Is(err, types.ErrInvalidArgument) {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid query", map[string]interface{}{
			"param":  "query",
			"reason": err.Error(),
		})
	}
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "search failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	results := make([]map[string]interface{}, 0, len(resp.Results))
	for _, r := range resp.Results {
		results = append(results, map[string]interface{}{
			"rank":            r.Rank,
			"relevance_score": r.RelevanceScore,
			"kind":            r.Symbol.Kind,
			"name":            r.Symbol.FQN,
			"namespace":       r.Symbol.Namespace,
			"parent":          r.Symbol.Parent,
			"file":            r.FilePath,
			"start_line":      r.Symbol.StartLine,
			"end_line":        r.Symbol.EndLine,
		})
	}

	response := map[string]interface{}{
		"results":       results,
		"total_results": resp.TotalResults,
		"search_mode":   string(resp.SearchMode),
		"cache_hit":     resp.CacheHit,
		"duration_ms":   resp.Duration.Milliseconds(),
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleGetStatus handles the get_status tool invocation
func (s *Server) handleGetStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	path, err := requirePath(args)
	if err != nil {
		return nil, err
	}

	project, err := s.lookupProject(ctx, path)
	if err != nil {
		return nil, err
	}
	if project == nil {
		response := map[string]interface{}{
			"indexed": false,
			"path":    path,
			"message": "Project not indexed. Use index_codebase tool to index this project.",
		}
		return mcp.NewToolResultText(formatJSON(response)), nil
	}

	status, err := s.storage.GetStatus(ctx, project.ID)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to get status", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"indexed": true,
		"project": map[string]interface{}{
			"path":            project.RootPath,
			"index_version":   project.IndexVersion,
			"last_run_id":     project.LastRunID,
			"last_indexed_at": project.LastIndexedAt.Format("2006-01-02T15:04:05Z07:00"),
		},
		"statistics": map[string]interface{}{
			"files_count":         status.FilesCount,
			"symbols_count":       status.SymbolsCount,
			"token_streams_count": status.TokenStreamsCount,
			"parse_error_count":   status.ParseErrorCount,
			"index_size_mb":       fmt.Sprintf("%.2f", status.IndexSizeMB),
		},
		"health": map[string]interface{}{
			"database_accessible": status.Health.DatabaseAccessible,
			"fts_indexes_built":   status.Health.FTSIndexesBuilt,
		},
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// Helper functions

// currentRegistry returns the registry of the last index_codebase run
func (s *Server) currentRegistry() (*registry.Registry, error) {
	reg := s.indexer.Registry()
	if reg == nil {
		return nil, newMCPError(ErrorCodeNotIndexed, "no codebase indexed", map[string]interface{}{
			"reason": "run index_codebase first",
		})
	}
	return reg, nil
}

// lookupProject finds the stored project for path. A nil project means the
// path was never indexed.
func (s *Server) lookupProject(ctx context.Context, path string) (*storage.Project, error) {
	if !filepath.IsAbs(path) {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid path", map[string]interface{}{
			"param":  "path",
			"reason": ErrPathNotAbsolute.Error(),
		})
	}
	root, err := stream.CanonicalPath(path)
	if err != nil {
		return nil, newMCPError(ErrorCodeProjectNotFound, "project path not found", map[string]interface{}{
			"path":   path,
			"reason": err.Error(),
		})
	}

	project, err := s.storage.GetProject(ctx, root)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to get project", map[string]interface{}{
			"error": err.Error(),
		})
	}
	return project, nil
}

func requirePath(args map[string]interface{}) (string, error) {
	path, ok := args["path"].(string)
	if !ok || path == "" {
		return "", newMCPError(ErrorCodeInvalidParams, "path parameter is required", map[string]interface{}{
			"param":  "path",
			"reason": "missing or empty",
		})
	}
	return path, nil
}

func requireName(args map[string]interface{}) (string, error) {
	name, ok := args["name"].(string)
	if !ok || strings.Trim(name, `\ `) == "" {
		return "", newMCPError(ErrorCodeInvalidParams, "name parameter is required", map[string]interface{}{
			"param":  "name",
			"reason": "missing or empty",
		})
	}
	return name, nil
}

// lookupError maps registry lookup failures to MCP errors
func lookupError(kind, name string, err error) error {
	switch {
	case errors.Is(err, types.ErrInvalidArgument):
		return newMCPError(ErrorCodeInvalidParams, "invalid name", map[string]interface{}{
			"param":  "name",
			"reason": err.Error(),
		})
	case errors.Is(err, types.ErrNotFound):
		return newMCPError(ErrorCodeSymbolNotFound, kind+" not found", map[string]interface{}{
			"name": name,
		})
	default:
		return newMCPError(ErrorCodeInternalError, "lookup failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func classMask(tokenized, internal, nonexistent bool) registry.ClassMask {
	var mask registry.ClassMask
	if tokenized {
		mask |= registry.TokenizedClasses
	}
	if internal {
		mask |= registry.InternalClasses
	}
	if nonexistent {
		mask |= registry.NonexistentClasses
	}
	if mask == 0 {
		mask = registry.AllClasses
	}
	return mask
}

func classKind(c reflection.Class) string {
	switch {
	case c.IsInterface():
		return string(types.KindInterface)
	case c.IsTrait():
		return string(types.KindTrait)
	default:
		return string(types.KindClass)
	}
}

func classJSON(c reflection.Class) map[string]interface{} {
	return map[string]interface{}{
		"name":         c.Name(),
		"short_name":   c.ShortName(),
		"namespace":    c.NamespaceName(),
		"kind":         classKind(c),
		"partition":    reflection.Partition(c),
		"file":         c.FileName(),
		"start_line":   c.StartLine(),
		"end_line":     c.EndLine(),
		"doc_comment":  c.DocComment(),
		"internal":     c.IsInternal(),
		"user_defined": c.IsUserDefined(),
		"tokenized":    c.IsTokenized(),
		"valid":        c.IsValid(),
		"complete":     c.IsComplete(),
		"abstract":     c.IsAbstract(),
		"final":        c.IsFinal(),
		"instantiable": c.IsInstantiable(),
		"parent":       c.ParentClassName(),
		"parents":      nonNil(c.ParentClassNames()),
		"interfaces":   nonNil(c.InterfaceNames()),
		"traits":       nonNil(c.TraitNames()),
		"constants":    nonNil(c.ConstantNames()),
		"methods":      nonNil(c.MethodNames()),
		"reasons":      errorStrings(c.Reasons()),
	}
}

func functionJSON(fn reflection.Function) map[string]interface{} {
	return map[string]interface{}{
		"name":              fn.Name(),
		"short_name":        fn.ShortName(),
		"namespace":         fn.NamespaceName(),
		"file":              fn.FileName(),
		"start_line":        fn.StartLine(),
		"end_line":          fn.EndLine(),
		"doc_comment":       fn.DocComment(),
		"parameters":        nonNil(fn.Parameters()),
		"returns_reference": fn.ReturnsReference(),
		"internal":          fn.IsInternal(),
		"user_defined":      fn.IsUserDefined(),
		"tokenized":         fn.IsTokenized(),
		"valid":             fn.IsValid(),
		"reasons":           errorStrings(fn.Reasons()),
	}
}

func constantJSON(c reflection.Constant) map[string]interface{} {
	response := map[string]interface{}{
		"name":             c.Name(),
		"short_name":       c.ShortName(),
		"namespace":        c.NamespaceName(),
		"declaring_class":  c.DeclaringClassName(),
		"file":             c.FileName(),
		"start_line":       c.StartLine(),
		"end_line":         c.EndLine(),
		"doc_comment":      c.DocComment(),
		"value_definition": c.ValueDefinition(),
		"internal":         c.IsInternal(),
		"user_defined":     c.IsUserDefined(),
		"tokenized":        c.IsTokenized(),
		"valid":            c.IsValid(),
		"reasons":          errorStrings(c.Reasons()),
	}
	if value, ok := c.Value(); ok {
		response["value"] = value
	}
	return response
}

// addSource attaches declaration source, or the reason it is unavailable
func addSource(response map[string]interface{}, source func() (string, error)) {
	text, err := source()
	if err != nil {
		response["source_error"] = err.Error()
		return
	}
	response["source"] = text
}

func errorStrings(errs []error) []string {
	out := make([]string, 0, len(errs))
	for _, err := range errs {
		out = append(out, err.Error())
	}
	return out
}

// nonNil keeps empty lists encoded as [] instead of null
func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func getKinds(args map[string]interface{}) ([]string, error) {
	raw, ok := args["kinds"]
	if !ok || raw == nil {
		return nil, nil
	}
	list, ok := raw.([]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "kinds must be an array", map[string]interface{}{
			"param": "kinds",
		})
	}

	kinds := make([]string, 0, len(list))
	for _, item := range list {
		kind, ok := item.(string)
		if !ok || !isSymbolKind(kind) {
			return nil, newMCPError(ErrorCodeInvalidParams, "invalid kind", map[string]interface{}{
				"param":   "kinds",
				"value":   item,
				"allowed": symbolKinds,
			})
		}
		kinds = append(kinds, kind)
	}
	return kinds, nil
}

func isSymbolKind(kind string) bool {
	for _, k := range symbolKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	// MCP errors are returned as regular errors, the framework handles encoding
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// validatePath checks that path is an accessible directory holding at
// least one file with one of the given extensions
func validatePath(path string, extensions []string) error {
	if path == "" {
		return ErrPathRequired
	}

	if !filepath.IsAbs(path) {
		return ErrPathNotAbsolute
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return ErrPathNotFound
	}
	if err != nil {
		return ErrPathNotReadable
	}

	if !info.IsDir() {
		return ErrNotDirectory
	}

	f, err := os.Open(path)
	if err != nil {
		return ErrPathNotReadable
	}
	_ = f.Close()

	hasSources := false
	_ = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() && hasExtension(p, extensions) {
			hasSources = true
			return fs.SkipAll
		}
		return nil
	})

	if !hasSources {
		return ErrNoPHPFiles
	}

	return nil
}

func hasExtension(path string, extensions []string) bool {
	ext := filepath.Ext(path)
	for _, e := range extensions {
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}

// formatJSON formats a map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getBoolDefault extracts a boolean parameter with a default value
func getBoolDefault(args map[string]interface{}, key string, defaultValue bool) bool {
	if val, ok := args[key].(bool); ok {
		return val
	}
	return defaultValue
}

// getIntDefault extracts an integer parameter with a default value
func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	if val, ok := args[key].(float64); ok {
		return int(val)
	}
	if val, ok := args[key].(int); ok {
		return val
	}
	return defaultValue
}

// getStringDefault extracts a string parameter with a default value
func getStringDefault(args map[string]interface{}, key string, defaultValue string) string {
	if val, ok := args[key].(string); ok {
		return val
	}
	return defaultValue
}

// Validation helpers

var (
	ErrPathRequired    = errors.New("path is required")
	ErrPathNotAbsolute = errors.New("path must be absolute")
	ErrPathNotFound    = errors.New("path does not exist")
	ErrPathNotReadable = errors.New("path is not readable")
	ErrNotDirectory    = errors.New("path is not a directory")
	ErrNoPHPFiles      = errors.New("directory does not contain PHP files")
)
