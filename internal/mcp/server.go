package mcp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/server"
	"github.com/tliron/commonlog"

	"github.com/dshills/phpreflect/internal/config"
	"github.com/dshills/phpreflect/internal/indexer"
	"github.com/dshills/phpreflect/internal/searcher"
	"github.com/dshills/phpreflect/internal/storage"
)

const (
	// ServerName is the MCP server name
	ServerName = "phpreflect"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
)

var log = commonlog.GetLogger("phpreflect.mcp")

// Server wraps the MCP server with application dependencies
type Server struct {
	mcp      *server.MCPServer
	config   *config.Config
	storage  storage.Storage
	indexer  *indexer.Indexer
	searcher *searcher.Searcher
}

// NewServer creates a new MCP server instance backed by the database named in cfg
func NewServer(cfg *config.Config) (*Server, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	dbPath, err := cfg.ResolveDBPath()
	if err != nil {
		return nil, err
	}
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	log.Infof("using database %s (%s build)", dbPath, storage.BuildMode)

	s := &Server{
		mcp:      server.NewMCPServer(ServerName, ServerVersion),
		config:   cfg,
		storage:  store,
		indexer:  indexer.New(store),
		searcher: searcher.NewSearcher(store),
	}

	if err := s.registerTools(); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to register tools: %w", err)
	}

	return s, nil
}

// Serve starts the MCP server on stdio and blocks until shutdown
func (s *Server) Serve(ctx context.Context) error {
	defer func() { _ = s.storage.Close() }()
	return server.ServeStdio(s.mcp)
}

// Close releases the database
func (s *Server) Close() error {
	return s.storage.Close()
}

// registerTools registers all MCP tools
func (s *Server) registerTools() error {
	s.mcp.AddTool(indexCodebaseTool(), s.handleIndexCodebase)

	// Reflection queries against the last indexed codebase
	s.mcp.AddTool(getClassTool(), s.handleGetClass)
	s.mcp.AddTool(getFunctionTool(), s.handleGetFunction)
	s.mcp.AddTool(getConstantTool(), s.handleGetConstant)
	s.mcp.AddTool(listNamespacesTool(), s.handleListNamespaces)
	s.mcp.AddTool(listClassesTool(), s.handleListClasses)

	s.mcp.AddTool(searchSymbolsTool(), s.handleSearchSymbols)
	s.mcp.AddTool(getStatusTool(), s.handleGetStatus)

	return nil
}
