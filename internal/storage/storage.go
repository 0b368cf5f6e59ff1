package storage

import (
	"context"
	"strings"
	"time"

	"github.com/dshills/phpreflect/pkg/types"
)

// Storage defines the interface for persisting analyzed PHP code
type Storage interface {
	// Project operations
	CreateProject(ctx context.Context, project *Project) error
	GetProject(ctx context.Context, rootPath string) (*Project, error)
	UpdateProject(ctx context.Context, project *Project) error

	// File operations
	UpsertFile(ctx context.Context, file *File) error
	GetFile(ctx context.Context, projectID int64, filePath string) (*File, error)
	GetFileByID(ctx context.Context, fileID int64) (*File, error)
	GetFileByHash(ctx context.Context, projectID int64, contentHash [32]byte) (*File, error)
	DeleteFile(ctx context.Context, fileID int64) error
	ListFiles(ctx context.Context, projectID int64) ([]*File, error)

	// Token stream operations
	SaveTokenStream(ctx context.Context, fileID int64, payload []byte) error
	LoadTokenStream(ctx context.Context, fileID int64) ([]byte, error)

	// Symbol operations
	UpsertSymbol(ctx context.Context, symbol *Symbol) error
	GetSymbol(ctx context.Context, symbolID int64) (*Symbol, error)
	ListSymbolsByFile(ctx context.Context, fileID int64) ([]*Symbol, error)
	ListSymbols(ctx context.Context, projectID int64, kinds []string) ([]*Symbol, error)
	DeleteSymbolsByFile(ctx context.Context, fileID int64) error
	SearchSymbols(ctx context.Context, projectID int64, query string, limit int, kinds []string) ([]SearchResult, error)

	// Status operations
	GetStatus(ctx context.Context, projectID int64) (*ProjectStatus, error)

	// Database operations
	Close() error
	BeginTx(ctx context.Context) (Tx, error)
}

// Tx represents a database transaction
type Tx interface {
	Commit() error
	Rollback() error
	Storage // Embed Storage interface for transaction operations
}

// Project represents an analyzed PHP code base
type Project struct {
	ID            int64
	RootPath      string
	TotalFiles    int
	TotalSymbols  int
	IndexVersion  string
	LastRunID     string
	LastIndexedAt time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// File represents a tracked PHP source file
type File struct {
	ID            int64
	ProjectID     int64
	FilePath      string // Canonical absolute path
	ContentHash   [32]byte
	ModTime       time.Time
	SizeBytes     int64
	ParseError    *string // Nullable
	Namespaces    []string
	LastIndexedAt time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Symbol is the persisted summary of one declaration
type Symbol struct {
	ID         int64
	FileID     int64
	Kind       string
	FQN        string
	Namespace  string
	ShortName  string
	Parent     string // Parent class for classes, declaring class for members
	StartLine  int
	EndLine    int
	DocComment string
	CreatedAt  time.Time
}

// SearchResult is a symbol matched by full-text search
type SearchResult struct {
	Symbol   *Symbol
	FilePath string
	Rank     float64 // BM25 rank, lower is better
}

// ProjectStatus contains statistics about an indexed project
type ProjectStatus struct {
	Project           *Project
	FilesCount        int
	SymbolsCount      int
	TokenStreamsCount int
	ParseErrorCount   int
	IndexSizeMB       float64
	LastIndexedAt     time.Time
	Health            HealthStatus
}

// HealthStatus represents the health of the index
type HealthStatus struct {
	DatabaseAccessible bool
	FTSIndexesBuilt    bool
}

func joinNamespaces(names []string) string {
	return strings.Join(names, "\n")
}

func splitNamespaces(joined string) []string {
	if joined == "" {
		return nil
	}
	return strings.Split(joined, "\n")
}

// SymbolsFromFile flattens the declarations of a file into storage rows
func SymbolsFromFile(file *types.FileDecl, fileID int64) []*Symbol {
	var out []*Symbol
	for i := range file.Namespaces {
		ns := &file.Namespaces[i]
		for j := range ns.Classes {
			c := &ns.Classes[j]
			out = append(out, &Symbol{
				FileID:     fileID,
				Kind:       string(c.Kind),
				FQN:        c.FQN(),
				Namespace:  c.Namespace,
				ShortName:  c.Name,
				Parent:     c.Parent,
				StartLine:  c.StartLine,
				EndLine:    c.EndLine,
				DocComment: c.DocComment,
			})
			for k := range c.Constants {
				cc := &c.Constants[k]
				out = append(out, &Symbol{
					FileID:     fileID,
					Kind:       string(types.KindConstant),
					FQN:        c.FQN() + "::" + cc.Name,
					Namespace:  c.Namespace,
					ShortName:  cc.Name,
					Parent:     c.FQN(),
					StartLine:  cc.StartLine,
					EndLine:    cc.EndLine,
					DocComment: cc.DocComment,
				})
			}
			for k := range c.Methods {
				m := &c.Methods[k]
				out = append(out, &Symbol{
					FileID:     fileID,
					Kind:       string(types.KindMethod),
					FQN:        c.FQN() + "::" + m.Name,
					Namespace:  c.Namespace,
					ShortName:  m.Name,
					Parent:     c.FQN(),
					StartLine:  m.StartLine,
					EndLine:    m.EndLine,
					DocComment: m.DocComment,
				})
			}
		}
		for j := range ns.Functions {
			f := &ns.Functions[j]
			out = append(out, &Symbol{
				FileID:     fileID,
				Kind:       string(types.KindFunction),
				FQN:        f.FQN(),
				Namespace:  f.Namespace,
				ShortName:  f.Name,
				StartLine:  f.StartLine,
				EndLine:    f.EndLine,
				DocComment: f.DocComment,
			})
		}
		for j := range ns.Constants {
			c := &ns.Constants[j]
			out = append(out, &Symbol{
				FileID:     fileID,
				Kind:       string(types.KindConstant),
				FQN:        c.FQN(),
				Namespace:  c.Namespace,
				ShortName:  c.Name,
				StartLine:  c.StartLine,
				EndLine:    c.EndLine,
				DocComment: c.DocComment,
			})
		}
	}
	return out
}
