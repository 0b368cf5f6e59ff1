package indexer

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tliron/commonlog"
	"golang.org/x/sync/errgroup"

	"github.com/dshills/phpreflect/internal/builtin"
	"github.com/dshills/phpreflect/internal/parser"
	"github.com/dshills/phpreflect/internal/registry"
	"github.com/dshills/phpreflect/internal/storage"
	"github.com/dshills/phpreflect/internal/stream"
	"github.com/dshills/phpreflect/pkg/types"
)

var log = commonlog.GetLogger("phpreflect.indexer")

// ErrIndexInProgress is returned when a run is requested while another is active
var ErrIndexInProgress = errors.New("indexing already in progress")

// Indexer coordinates the indexing pipeline: tokenize -> parse -> register -> store
type Indexer struct {
	parser   *parser.Parser
	storage  storage.Storage // nil keeps results in memory only
	platform builtin.Platform
	lock     IndexLock

	mu       sync.RWMutex
	registry *registry.Registry
	project  *storage.Project
}

// Config contains configuration for the indexer
type Config struct {
	Workers           int      // Number of concurrent workers (default: runtime.NumCPU())
	BatchSize         int      // Number of files to commit per transaction (default: 20)
	Extensions        []string // File extensions to index (default: .php)
	ExcludeDirs       []string // Directory names to skip anywhere in the tree
	IncludeVendor     bool     // Whether to index vendor directory (default: false)
	StoreTokenStreams bool     // Keep token streams in the registry and in storage
}

// DefaultConfig returns the configuration used when none is given
func DefaultConfig() *Config {
	return &Config{
		Workers:    runtime.NumCPU(),
		BatchSize:  20,
		Extensions: []string{".php"},
	}
}

// Statistics contains statistics about the indexing operation
type Statistics struct {
	RunID            string
	FilesDiscovered  int
	FilesIndexed     int
	FilesCached      int // Token streams restored from storage instead of tokenized
	FilesFailed      int
	FilesRemoved     int
	SymbolsExtracted int
	ParseErrors      int
	Duration         time.Duration
	ErrorMessages    []string
	// ProcessingErrors lists the merge conflicts of each file
	ProcessingErrors map[string][]string
}

// Option configures an Indexer
type Option func(*Indexer)

// WithPlatform sets the runtime catalog for registries built by the indexer
func WithPlatform(p builtin.Platform) Option {
	return func(idx *Indexer) {
		idx.platform = p
	}
}

// WithParser replaces the declaration parser
func WithParser(p *parser.Parser) Option {
	return func(idx *Indexer) {
		idx.parser = p
	}
}

// New creates a new Indexer instance. store may be nil.
func New(store storage.Storage, opts ...Option) *Indexer {
	idx := &Indexer{
		parser:  parser.New(),
		storage: store,
	}
	for _, opt := range opts {
		opt(idx)
	}
	if idx.platform == nil {
		idx.platform = builtin.Default()
	}
	return idx
}

// Registry returns the registry of the last completed run, nil before the first
func (idx *Indexer) Registry() *registry.Registry {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.registry
}

// Project returns the stored project of the last completed run
func (idx *Indexer) Project() *storage.Project {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.project
}

// fileResult is the outcome of the parallel stage for one file
type fileResult struct {
	path    string
	ts      *stream.TokenStream
	decl    *types.FileDecl
	hash    [32]byte
	modTime time.Time
	size    int64
	cached  bool
	err     error
}

// IndexProject indexes every PHP file under rootPath into a fresh registry.
// The registry replaces the previous one once the run completes.
func (idx *Indexer) IndexProject(ctx context.Context, rootPath string, config *Config) (*Statistics, error) {
	if !idx.lock.TryAcquire() {
		return nil, ErrIndexInProgress
	}
	defer idx.lock.Release()

	config = normalizeConfig(config)

	root, err := stream.CanonicalPath(rootPath)
	if err != nil {
		return nil, err
	}
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", types.ErrInvalidArgument, rootPath)
	}

	startTime := time.Now()
	stats := &Statistics{
		RunID:            uuid.NewString(),
		ErrorMessages:    make([]string, 0),
		ProcessingErrors: make(map[string][]string),
	}
	log.Infof("run %s: indexing %s with %d worker(s)", stats.RunID, root, config.Workers)

	var project *storage.Project
	if idx.storage != nil {
		project, err = idx.getOrCreateProject(ctx, root)
		if err != nil {
			return nil, fmt.Errorf("failed to get or create project: %w", err)
		}
	}

	files, err := discoverFiles(root, config)
	if err != nil {
		return nil, fmt.Errorf("failed to discover files: %w", err)
	}
	stats.FilesDiscovered = len(files)

	results, err := idx.processFiles(ctx, project, files, config)
	if err != nil {
		return nil, err
	}

	reg := registry.New(
		registry.WithPlatform(idx.platform),
		registry.WithStoreTokenStreams(config.StoreTokenStreams),
	)
	idx.register(reg, results, stats)

	if idx.storage != nil {
		if err := idx.persist(ctx, project, results, config); err != nil {
			return nil, fmt.Errorf("failed to persist files: %w", err)
		}
		removed, err := idx.removeStaleFiles(ctx, project, results)
		if err != nil {
			return nil, fmt.Errorf("failed to remove stale files: %w", err)
		}
		stats.FilesRemoved = removed
		if err := idx.updateProjectStats(ctx, project, stats.RunID); err != nil {
			return nil, fmt.Errorf("failed to update project stats: %w", err)
		}
	}

	reg.Warm()
	idx.mu.Lock()
	idx.registry = reg
	idx.project = project
	idx.mu.Unlock()

	stats.Duration = time.Since(startTime)
	log.Infof("run %s: %d indexed, %d cached, %d failed, %d symbol(s) in %s",
		stats.RunID, stats.FilesIndexed, stats.FilesCached, stats.FilesFailed,
		stats.SymbolsExtracted, stats.Duration)
	return stats, nil
}

func normalizeConfig(config *Config) *Config {
	defaults := DefaultConfig()
	if config == nil {
		return defaults
	}
	c := *config
	if c.Workers <= 0 {
		c.Workers = defaults.Workers
	}
	if c.BatchSize <= 0 {
		c.BatchSize = defaults.BatchSize
	}
	if len(c.Extensions) == 0 {
		c.Extensions = defaults.Extensions
	}
	return &c
}

// getOrCreateProject retrieves an existing project or creates a new one
func (idx *Indexer) getOrCreateProject(ctx context.Context, rootPath string) (*storage.Project, error) {
	project, err := idx.storage.GetProject(ctx, rootPath)
	if err == nil {
		return project, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	project = &storage.Project{
		RootPath:     rootPath,
		IndexVersion: storage.CurrentSchemaVersion,
	}
	if err := idx.storage.CreateProject(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

// discoverFiles finds every file with an indexed extension, sorted by path
func discoverFiles(rootPath string, config *Config) ([]string, error) {
	excluded := make(map[string]bool, len(config.ExcludeDirs))
	for _, dir := range config.ExcludeDirs {
		excluded[dir] = true
	}
	extensions := make(map[string]bool, len(config.Extensions))
	for _, ext := range config.Extensions {
		extensions[strings.ToLower(ext)] = true
	}

	var files []string
	err := filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if path == rootPath {
				return nil
			}
			name := d.Name()
			// Skip vendor unless explicitly included
			if !config.IncludeVendor && name == "vendor" {
				return filepath.SkipDir
			}
			// Skip hidden directories
			if strings.HasPrefix(name, ".") || excluded[name] {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}
		if !extensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		files = append(files, path)
		return nil
	})
	sort.Strings(files)
	return files, err
}

// processFiles hashes, tokenizes and parses files concurrently. Per-file
// failures are kept in the result; only cancellation aborts the stage.
func (idx *Indexer) processFiles(ctx context.Context, project *storage.Project, files []string, config *Config) ([]*fileResult, error) {
	results := make([]*fileResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(config.Workers)

	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = idx.processFile(gctx, project, path)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (idx *Indexer) processFile(ctx context.Context, project *storage.Project, path string) *fileResult {
	res := &fileResult{path: path}

	content, info, err := readFile(path)
	if err != nil {
		res.err = err
		return res
	}
	res.hash = sha256.Sum256(content)
	res.modTime = info.ModTime()
	res.size = info.Size()

	if ts := idx.cachedStream(ctx, project, path, res.hash); ts != nil {
		res.ts = ts
		res.decl = idx.parser.ParseStream(ts)
		res.cached = true
		return res
	}

	res.ts, res.decl, res.err = idx.parser.ParseSource(string(content), path)
	return res
}

// cachedStream restores the stored token stream of an unchanged file
func (idx *Indexer) cachedStream(ctx context.Context, project *storage.Project, path string, hash [32]byte) *stream.TokenStream {
	if idx.storage == nil || project == nil {
		return nil
	}
	file, err := idx.storage.GetFile(ctx, project.ID, path)
	if err != nil || file.ContentHash != hash {
		return nil
	}
	payload, err := idx.storage.LoadTokenStream(ctx, file.ID)
	if err != nil {
		return nil
	}
	ts, err := stream.Deserialize(payload)
	if err != nil || ts.FileName() != path {
		log.Warningf("discarding stored token stream of %s: %v", path, err)
		return nil
	}
	return ts
}

func readFile(path string) ([]byte, os.FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s: %v", types.ErrNotReadable, path, err)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s: %v", types.ErrNotReadable, path, err)
	}
	return content, info, nil
}

// register merges results into reg one file at a time in path order
func (idx *Indexer) register(reg *registry.Registry, results []*fileResult, stats *Statistics) {
	for _, res := range results {
		if res.err != nil {
			stats.FilesFailed++
			stats.ErrorMessages = append(stats.ErrorMessages, fmt.Sprintf("%s: %v", res.path, res.err))
			continue
		}

		if err := reg.AddFile(res.ts, res.decl); err != nil {
			var procErr *types.FileProcessingError
			if !errors.As(err, &procErr) {
				stats.FilesFailed++
				stats.ErrorMessages = append(stats.ErrorMessages, fmt.Sprintf("%s: %v", res.path, err))
				continue
			}
			for _, reason := range procErr.Reasons {
				stats.ProcessingErrors[res.path] = append(stats.ProcessingErrors[res.path], reason.Error())
			}
		}

		stats.FilesIndexed++
		if res.cached {
			stats.FilesCached++
		}
		stats.SymbolsExtracted += res.decl.SymbolCount()
		stats.ParseErrors += len(res.decl.Errors)
	}
}

// persist writes files, symbols and token streams in batched transactions
func (idx *Indexer) persist(ctx context.Context, project *storage.Project, results []*fileResult, config *Config) error {
	var batch []*fileResult
	for _, res := range results {
		if res.err != nil {
			continue
		}
		batch = append(batch, res)
		if len(batch) == config.BatchSize {
			if err := idx.persistBatch(ctx, project, batch, config); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if len(batch) > 0 {
		return idx.persistBatch(ctx, project, batch, config)
	}
	return nil
}

func (idx *Indexer) persistBatch(ctx context.Context, project *storage.Project, batch []*fileResult, config *Config) error {
	tx, err := idx.storage.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, res := range batch {
		if err := persistFile(ctx, tx, project, res, config); err != nil {
			return fmt.Errorf("%s: %w", res.path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func persistFile(ctx context.Context, tx storage.Tx, project *storage.Project, res *fileResult, config *Config) error {
	file := &storage.File{
		ProjectID:   project.ID,
		FilePath:    res.path,
		ContentHash: res.hash,
		ModTime:     res.modTime,
		SizeBytes:   res.size,
		Namespaces:  declaredNamespaces(res.decl),
	}
	if len(res.decl.Errors) > 0 {
		msg := res.decl.Errors[0].Error()
		file.ParseError = &msg
	}
	if err := tx.UpsertFile(ctx, file); err != nil {
		return err
	}

	// An unchanged file keeps its symbols and stream
	if res.cached {
		return nil
	}

	if err := tx.DeleteSymbolsByFile(ctx, file.ID); err != nil {
		return fmt.Errorf("failed to delete old symbols: %w", err)
	}
	for _, sym := range storage.SymbolsFromFile(res.decl, file.ID) {
		if err := tx.UpsertSymbol(ctx, sym); err != nil {
			return fmt.Errorf("failed to store symbol: %w", err)
		}
	}

	if config.StoreTokenStreams {
		payload, err := res.ts.Serialize()
		if err != nil {
			return err
		}
		if err := tx.SaveTokenStream(ctx, file.ID, payload); err != nil {
			return err
		}
	}
	return nil
}

func declaredNamespaces(decl *types.FileDecl) []string {
	names := make([]string, 0, len(decl.Namespaces))
	for _, ns := range decl.Namespaces {
		name := ns.Name
		if name == "" {
			name = types.NoNamespace
		}
		names = append(names, name)
	}
	return names
}

// removeStaleFiles deletes stored files that were not seen in this run
func (idx *Indexer) removeStaleFiles(ctx context.Context, project *storage.Project, results []*fileResult) (int, error) {
	seen := make(map[string]bool, len(results))
	for _, res := range results {
		seen[res.path] = true
	}

	stored, err := idx.storage.ListFiles(ctx, project.ID)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, file := range stored {
		if seen[file.FilePath] {
			continue
		}
		if err := idx.storage.DeleteFile(ctx, file.ID); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

// updateProjectStats updates the project's file and symbol counts
func (idx *Indexer) updateProjectStats(ctx context.Context, project *storage.Project, runID string) error {
	files, err := idx.storage.ListFiles(ctx, project.ID)
	if err != nil {
		return err
	}
	symbols, err := idx.storage.ListSymbols(ctx, project.ID, nil)
	if err != nil {
		return err
	}

	project.TotalFiles = len(files)
	project.TotalSymbols = len(symbols)
	project.LastRunID = runID
	project.LastIndexedAt = time.Now()

	return idx.storage.UpdateProject(ctx, project)
}
