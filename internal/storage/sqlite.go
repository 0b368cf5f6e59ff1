package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dshills/phpreflect/pkg/types"
)

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = types.ErrNotFound
	// ErrAlreadyExists is returned when trying to create a duplicate entity
	ErrAlreadyExists = types.ErrAlreadyExists
)

// SQLiteStorage implements the Storage interface using SQLite
type SQLiteStorage struct {
	db *sql.DB
}

// openDatabase opens a SQLite database with appropriate settings
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// Set connection pool settings
	db.SetMaxOpenConns(1) // SQLite benefits from single writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// NewSQLiteStorage creates a new SQLite storage instance
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Apply migrations
	if err := ApplyMigrations(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

// Close closes the database connection
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// BeginTx starts a new transaction
func (s *SQLiteStorage) BeginTx(ctx context.Context) (Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &sqliteTx{tx: tx, storage: s}, nil
}

// querier is an interface that both *sql.DB and *sql.Tx implement
type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// querier returns the DB querier
func (s *SQLiteStorage) querier() querier {
	return s.db
}

// notFound maps sql.ErrNoRows to ErrNotFound
func notFound(err error, format string, args ...any) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
	}
	return err
}

// Project operations

func (s *SQLiteStorage) createProjectWithQuerier(ctx context.Context, q querier, project *Project) error {
	query := `
		INSERT INTO projects (root_path, index_version, last_run_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`
	now := time.Now()
	result, err := q.ExecContext(ctx, query,
		project.RootPath, project.IndexVersion, project.LastRunID, now, now)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return fmt.Errorf("%w: project %s", ErrAlreadyExists, project.RootPath)
		}
		return fmt.Errorf("failed to create project: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	project.ID = id
	project.CreatedAt = now
	project.UpdatedAt = now
	return nil
}

func (s *SQLiteStorage) CreateProject(ctx context.Context, project *Project) error {
	return s.createProjectWithQuerier(ctx, s.querier(), project)
}

const projectColumns = `id, root_path, total_files, total_symbols, index_version, last_run_id,
		       last_indexed_at, created_at, updated_at`

func scanProject(row *sql.Row) (*Project, error) {
	var project Project
	var lastIndexedAt sql.NullTime
	err := row.Scan(
		&project.ID, &project.RootPath, &project.TotalFiles, &project.TotalSymbols,
		&project.IndexVersion, &project.LastRunID,
		&lastIndexedAt, &project.CreatedAt, &project.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if lastIndexedAt.Valid {
		project.LastIndexedAt = lastIndexedAt.Time
	}
	return &project, nil
}

func (s *SQLiteStorage) getProjectWithQuerier(ctx context.Context, q querier, rootPath string) (*Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE root_path = ?`
	project, err := scanProject(q.QueryRowContext(ctx, query, rootPath))
	if err != nil {
		return nil, notFound(err, "project %s", rootPath)
	}
	return project, nil
}

func (s *SQLiteStorage) GetProject(ctx context.Context, rootPath string) (*Project, error) {
	return s.getProjectWithQuerier(ctx, s.querier(), rootPath)
}

func (s *SQLiteStorage) getProjectByID(ctx context.Context, q querier, projectID int64) (*Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = ?`
	project, err := scanProject(q.QueryRowContext(ctx, query, projectID))
	if err != nil {
		return nil, notFound(err, "project %d", projectID)
	}
	return project, nil
}

func (s *SQLiteStorage) updateProjectWithQuerier(ctx context.Context, q querier, project *Project) error {
	query := `
		UPDATE projects
		SET total_files = ?, total_symbols = ?, index_version = ?, last_run_id = ?,
		    last_indexed_at = ?, updated_at = ?
		WHERE id = ?
	`
	now := time.Now()
	_, err := q.ExecContext(ctx, query,
		project.TotalFiles, project.TotalSymbols, project.IndexVersion, project.LastRunID,
		project.LastIndexedAt, now, project.ID)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}
	project.UpdatedAt = now
	return nil
}

func (s *SQLiteStorage) UpdateProject(ctx context.Context, project *Project) error {
	return s.updateProjectWithQuerier(ctx, s.querier(), project)
}

// File operations

func (s *SQLiteStorage) upsertFileWithQuerier(ctx context.Context, q querier, file *File) error {
	query := `
		INSERT INTO files (project_id, file_path, content_hash, mod_time, size_bytes, parse_error, namespaces, last_indexed_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(project_id, file_path) DO UPDATE SET
			content_hash = excluded.content_hash,
			mod_time = excluded.mod_time,
			size_bytes = excluded.size_bytes,
			parse_error = excluded.parse_error,
			namespaces = excluded.namespaces,
			last_indexed_at = excluded.last_indexed_at,
			updated_at = excluded.updated_at
		RETURNING id
	`
	now := time.Now()
	err := q.QueryRowContext(ctx, query,
		file.ProjectID, file.FilePath, file.ContentHash[:],
		file.ModTime, file.SizeBytes, file.ParseError, joinNamespaces(file.Namespaces),
		now, now, now).Scan(&file.ID)
	if err != nil {
		return fmt.Errorf("failed to upsert file: %w", err)
	}

	file.LastIndexedAt = now
	file.UpdatedAt = now
	return nil
}

func (s *SQLiteStorage) UpsertFile(ctx context.Context, file *File) error {
	return s.upsertFileWithQuerier(ctx, s.querier(), file)
}

const fileColumns = `id, project_id, file_path, content_hash, mod_time, size_bytes, parse_error,
		       namespaces, last_indexed_at, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFile(row rowScanner) (*File, error) {
	var file File
	var hash []byte
	var parseError sql.NullString
	var namespaces string
	err := row.Scan(
		&file.ID, &file.ProjectID, &file.FilePath, &hash, &file.ModTime,
		&file.SizeBytes, &parseError, &namespaces,
		&file.LastIndexedAt, &file.CreatedAt, &file.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	copy(file.ContentHash[:], hash)
	if parseError.Valid {
		file.ParseError = &parseError.String
	}
	file.Namespaces = splitNamespaces(namespaces)
	return &file, nil
}

func (s *SQLiteStorage) getFileWithQuerier(ctx context.Context, q querier, projectID int64, filePath string) (*File, error) {
	query := `SELECT ` + fileColumns + ` FROM files WHERE project_id = ? AND file_path = ?`
	file, err := scanFile(q.QueryRowContext(ctx, query, projectID, filePath))
	if err != nil {
		return nil, notFound(err, "file %s", filePath)
	}
	return file, nil
}

func (s *SQLiteStorage) GetFile(ctx context.Context, projectID int64, filePath string) (*File, error) {
	return s.getFileWithQuerier(ctx, s.querier(), projectID, filePath)
}

func (s *SQLiteStorage) getFileByIDWithQuerier(ctx context.Context, q querier, fileID int64) (*File, error) {
	query := `SELECT ` + fileColumns + ` FROM files WHERE id = ?`
	file, err := scanFile(q.QueryRowContext(ctx, query, fileID))
	if err != nil {
		return nil, notFound(err, "file %d", fileID)
	}
	return file, nil
}

func (s *SQLiteStorage) GetFileByID(ctx context.Context, fileID int64) (*File, error) {
	return s.getFileByIDWithQuerier(ctx, s.querier(), fileID)
}

func (s *SQLiteStorage) getFileByHashWithQuerier(ctx context.Context, q querier, projectID int64, contentHash [32]byte) (*File, error) {
	query := `SELECT ` + fileColumns + ` FROM files WHERE project_id = ? AND content_hash = ? ORDER BY id LIMIT 1`
	file, err := scanFile(q.QueryRowContext(ctx, query, projectID, contentHash[:]))
	if err != nil {
		return nil, notFound(err, "file with hash %x", contentHash[:8])
	}
	return file, nil
}

func (s *SQLiteStorage) GetFileByHash(ctx context.Context, projectID int64, contentHash [32]byte) (*File, error) {
	return s.getFileByHashWithQuerier(ctx, s.querier(), projectID, contentHash)
}

func (s *SQLiteStorage) deleteFileWithQuerier(ctx context.Context, q querier, fileID int64) error {
	_, err := q.ExecContext(ctx, `DELETE FROM files WHERE id = ?`, fileID)
	return err
}

func (s *SQLiteStorage) DeleteFile(ctx context.Context, fileID int64) error {
	return s.deleteFileWithQuerier(ctx, s.querier(), fileID)
}

func (s *SQLiteStorage) listFilesWithQuerier(ctx context.Context, q querier, projectID int64) ([]*File, error) {
	query := `SELECT ` + fileColumns + ` FROM files WHERE project_id = ? ORDER BY file_path`
	rows, err := q.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	files := make([]*File, 0)
	for rows.Next() {
		file, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}
	return files, rows.Err()
}

func (s *SQLiteStorage) ListFiles(ctx context.Context, projectID int64) ([]*File, error) {
	return s.listFilesWithQuerier(ctx, s.querier(), projectID)
}

// Token stream operations

func (s *SQLiteStorage) saveTokenStreamWithQuerier(ctx context.Context, q querier, fileID int64, payload []byte) error {
	query := `
		INSERT INTO token_streams (file_id, payload, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT(file_id) DO UPDATE SET
			payload = excluded.payload,
			created_at = excluded.created_at
	`
	if _, err := q.ExecContext(ctx, query, fileID, payload, time.Now()); err != nil {
		return fmt.Errorf("failed to save token stream: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) SaveTokenStream(ctx context.Context, fileID int64, payload []byte) error {
	return s.saveTokenStreamWithQuerier(ctx, s.querier(), fileID, payload)
}

func (s *SQLiteStorage) loadTokenStreamWithQuerier(ctx context.Context, q querier, fileID int64) ([]byte, error) {
	var payload []byte
	err := q.QueryRowContext(ctx, `SELECT payload FROM token_streams WHERE file_id = ?`, fileID).Scan(&payload)
	if err != nil {
		return nil, notFound(err, "token stream of file %d", fileID)
	}
	return payload, nil
}

func (s *SQLiteStorage) LoadTokenStream(ctx context.Context, fileID int64) ([]byte, error) {
	return s.loadTokenStreamWithQuerier(ctx, s.querier(), fileID)
}

// Symbol operations

func (s *SQLiteStorage) upsertSymbolWithQuerier(ctx context.Context, q querier, symbol *Symbol) error {
	query := `
		INSERT INTO symbols (
			file_id, kind, fqn, namespace, short_name, parent,
			start_line, end_line, doc_comment, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(file_id, kind, fqn, start_line)
		DO UPDATE SET
			namespace = excluded.namespace,
			short_name = excluded.short_name,
			parent = excluded.parent,
			end_line = excluded.end_line,
			doc_comment = excluded.doc_comment
		RETURNING id, created_at
	`
	now := time.Now()
	err := q.QueryRowContext(ctx, query,
		symbol.FileID, symbol.Kind, symbol.FQN, symbol.Namespace, symbol.ShortName, symbol.Parent,
		symbol.StartLine, symbol.EndLine, symbol.DocComment, now,
	).Scan(&symbol.ID, &symbol.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert symbol: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) UpsertSymbol(ctx context.Context, symbol *Symbol) error {
	return s.upsertSymbolWithQuerier(ctx, s.querier(), symbol)
}

const symbolColumns = `s.id, s.file_id, s.kind, s.fqn, s.namespace, s.short_name, s.parent,
		       s.start_line, s.end_line, s.doc_comment, s.created_at`

func scanSymbol(row rowScanner, extra ...any) (*Symbol, error) {
	var symbol Symbol
	var parent, doc sql.NullString
	dest := []any{
		&symbol.ID, &symbol.FileID, &symbol.Kind, &symbol.FQN, &symbol.Namespace, &symbol.ShortName, &parent,
		&symbol.StartLine, &symbol.EndLine, &doc, &symbol.CreatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	symbol.Parent = parent.String
	symbol.DocComment = doc.String
	return &symbol, nil
}

func (s *SQLiteStorage) getSymbolWithQuerier(ctx context.Context, q querier, symbolID int64) (*Symbol, error) {
	query := `SELECT ` + symbolColumns + ` FROM symbols s WHERE s.id = ?`
	symbol, err := scanSymbol(q.QueryRowContext(ctx, query, symbolID))
	if err != nil {
		return nil, notFound(err, "symbol %d", symbolID)
	}
	return symbol, nil
}

func (s *SQLiteStorage) GetSymbol(ctx context.Context, symbolID int64) (*Symbol, error) {
	return s.getSymbolWithQuerier(ctx, s.querier(), symbolID)
}

func collectSymbols(rows *sql.Rows) ([]*Symbol, error) {
	defer func() { _ = rows.Close() }()

	symbols := make([]*Symbol, 0)
	for rows.Next() {
		symbol, err := scanSymbol(rows)
		if err != nil {
			return nil, err
		}
		symbols = append(symbols, symbol)
	}
	return symbols, rows.Err()
}

func (s *SQLiteStorage) listSymbolsByFileWithQuerier(ctx context.Context, q querier, fileID int64) ([]*Symbol, error) {
	query := `SELECT ` + symbolColumns + ` FROM symbols s WHERE s.file_id = ? ORDER BY s.start_line, s.id`
	rows, err := q.QueryContext(ctx, query, fileID)
	if err != nil {
		return nil, err
	}
	return collectSymbols(rows)
}

func (s *SQLiteStorage) ListSymbolsByFile(ctx context.Context, fileID int64) ([]*Symbol, error) {
	return s.listSymbolsByFileWithQuerier(ctx, s.querier(), fileID)
}

// kindFilter renders an IN clause for kinds, or "" when kinds is empty
func kindFilter(kinds []string, args []any) (string, []any) {
	if len(kinds) == 0 {
		return "", args
	}
	placeholders := make([]string, len(kinds))
	for i, kind := range kinds {
		placeholders[i] = "?"
		args = append(args, kind)
	}
	return " AND s.kind IN (" + strings.Join(placeholders, ", ") + ")", args
}

func (s *SQLiteStorage) listSymbolsWithQuerier(ctx context.Context, q querier, projectID int64, kinds []string) ([]*Symbol, error) {
	filter, args := kindFilter(kinds, []any{projectID})
	query := `
		SELECT ` + symbolColumns + `
		FROM symbols s
		JOIN files f ON s.file_id = f.id
		WHERE f.project_id = ?` + filter + `
		ORDER BY s.fqn, s.id
	`
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectSymbols(rows)
}

func (s *SQLiteStorage) ListSymbols(ctx context.Context, projectID int64, kinds []string) ([]*Symbol, error) {
	return s.listSymbolsWithQuerier(ctx, s.querier(), projectID, kinds)
}

func (s *SQLiteStorage) deleteSymbolsByFileWithQuerier(ctx context.Context, q querier, fileID int64) error {
	_, err := q.ExecContext(ctx, `DELETE FROM symbols WHERE file_id = ?`, fileID)
	return err
}

func (s *SQLiteStorage) DeleteSymbolsByFile(ctx context.Context, fileID int64) error {
	return s.deleteSymbolsByFileWithQuerier(ctx, s.querier(), fileID)
}

func (s *SQLiteStorage) searchSymbolsWithQuerier(ctx context.Context, q querier, projectID int64, match string, limit int, kinds []string) ([]SearchResult, error) {
	if strings.TrimSpace(match) == "" {
		return nil, fmt.Errorf("%w: empty search query", types.ErrInvalidArgument)
	}
	if limit <= 0 {
		limit = 10
	}

	// rank is the FTS5 BM25 score; lower values are better matches
	filter, args := kindFilter(kinds, []any{match, projectID})
	query := `
		SELECT ` + symbolColumns + `, f.file_path, rank
		FROM symbols_fts
		JOIN symbols s ON s.id = symbols_fts.rowid
		JOIN files f ON s.file_id = f.id
		WHERE symbols_fts MATCH ? AND f.project_id = ?` + filter + `
		ORDER BY rank
		LIMIT ?
	`
	rows, err := q.QueryContext(ctx, query, append(args, limit)...)
	if err != nil {
		return nil, fmt.Errorf("failed to search symbols: %w", err)
	}
	defer func() { _ = rows.Close() }()

	results := make([]SearchResult, 0)
	for rows.Next() {
		var result SearchResult
		symbol, err := scanSymbol(rows, &result.FilePath, &result.Rank)
		if err != nil {
			return nil, err
		}
		result.Symbol = symbol
		results = append(results, result)
	}
	return results, rows.Err()
}

func (s *SQLiteStorage) SearchSymbols(ctx context.Context, projectID int64, match string, limit int, kinds []string) ([]SearchResult, error) {
	return s.searchSymbolsWithQuerier(ctx, s.querier(), projectID, match, limit, kinds)
}

// Status operations

func (s *SQLiteStorage) getStatusWithQuerier(ctx context.Context, q querier, projectID int64) (*ProjectStatus, error) {
	project, err := s.getProjectByID(ctx, q, projectID)
	if err != nil {
		return nil, err
	}

	status := &ProjectStatus{
		Project:       project,
		LastIndexedAt: project.LastIndexedAt,
	}

	counts := []struct {
		dest  *int
		query string
	}{
		{&status.FilesCount, `SELECT COUNT(*) FROM files WHERE project_id = ?`},
		{&status.ParseErrorCount, `SELECT COUNT(*) FROM files WHERE project_id = ? AND parse_error IS NOT NULL`},
		{&status.SymbolsCount, `
			SELECT COUNT(*) FROM symbols s
			JOIN files f ON s.file_id = f.id
			WHERE f.project_id = ?`},
		{&status.TokenStreamsCount, `
			SELECT COUNT(*) FROM token_streams t
			JOIN files f ON t.file_id = f.id
			WHERE f.project_id = ?`},
	}
	for _, c := range counts {
		if err := q.QueryRowContext(ctx, c.query, projectID).Scan(c.dest); err != nil {
			return nil, fmt.Errorf("failed to read status: %w", err)
		}
	}

	// Calculate database size
	var pageCount, pageSize int
	if err := q.QueryRowContext(ctx, "PRAGMA page_count").Scan(&pageCount); err == nil {
		_ = q.QueryRowContext(ctx, "PRAGMA page_size").Scan(&pageSize)
		status.IndexSizeMB = float64(pageCount*pageSize) / (1024 * 1024)
	}

	var ftsName string
	ftsErr := q.QueryRowContext(ctx, "SELECT name FROM sqlite_master WHERE name = 'symbols_fts'").Scan(&ftsName)
	status.Health = HealthStatus{
		DatabaseAccessible: true,
		FTSIndexesBuilt:    ftsErr == nil,
	}

	return status, nil
}

func (s *SQLiteStorage) GetStatus(ctx context.Context, projectID int64) (*ProjectStatus, error) {
	return s.getStatusWithQuerier(ctx, s.querier(), projectID)
}

// sqliteTx wraps a SQL transaction
type sqliteTx struct {
	tx      *sql.Tx
	storage *SQLiteStorage
}

func (t *sqliteTx) Commit() error {
	return t.tx.Commit()
}

func (t *sqliteTx) Rollback() error {
	return t.tx.Rollback()
}

// querier returns the transaction querier
func (t *sqliteTx) querier() querier {
	return t.tx
}

// Every transaction operation runs on the transaction querier; the single
// connection pool would otherwise deadlock

func (t *sqliteTx) CreateProject(ctx context.Context, project *Project) error {
	return t.storage.createProjectWithQuerier(ctx, t.querier(), project)
}

func (t *sqliteTx) GetProject(ctx context.Context, rootPath string) (*Project, error) {
	return t.storage.getProjectWithQuerier(ctx, t.querier(), rootPath)
}

func (t *sqliteTx) UpdateProject(ctx context.Context, project *Project) error {
	return t.storage.updateProjectWithQuerier(ctx, t.querier(), project)
}

func (t *sqliteTx) UpsertFile(ctx context.Context, file *File) error {
	return t.storage.upsertFileWithQuerier(ctx, t.querier(), file)
}

func (t *sqliteTx) GetFile(ctx context.Context, projectID int64, filePath string) (*File, error) {
	return t.storage.getFileWithQuerier(ctx, t.querier(), projectID, filePath)
}

func (t *sqliteTx) GetFileByID(ctx context.Context, fileID int64) (*File, error) {
	return t.storage.getFileByIDWithQuerier(ctx, t.querier(), fileID)
}

func (t *sqliteTx) GetFileByHash(ctx context.Context, projectID int64, contentHash [32]byte) (*File, error) {
	return t.storage.getFileByHashWithQuerier(ctx, t.querier(), projectID, contentHash)
}

func (t *sqliteTx) DeleteFile(ctx context.Context, fileID int64) error {
	return t.storage.deleteFileWithQuerier(ctx, t.querier(), fileID)
}

func (t *sqliteTx) ListFiles(ctx context.Context, projectID int64) ([]*File, error) {
	return t.storage.listFilesWithQuerier(ctx, t.querier(), projectID)
}

func (t *sqliteTx) SaveTokenStream(ctx context.Context, fileID int64, payload []byte) error {
	return t.storage.saveTokenStreamWithQuerier(ctx, t.querier(), fileID, payload)
}

func (t *sqliteTx) LoadTokenStream(ctx context.Context, fileID int64) ([]byte, error) {
	return t.storage.loadTokenStreamWithQuerier(ctx, t.querier(), fileID)
}

func (t *sqliteTx) UpsertSymbol(ctx context.Context, symbol *Symbol) error {
	return t.storage.upsertSymbolWithQuerier(ctx, t.querier(), symbol)
}

func (t *sqliteTx) GetSymbol(ctx context.Context, symbolID int64) (*Symbol, error) {
	return t.storage.getSymbolWithQuerier(ctx, t.querier(), symbolID)
}

func (t *sqliteTx) ListSymbolsByFile(ctx context.Context, fileID int64) ([]*Symbol, error) {
	return t.storage.listSymbolsByFileWithQuerier(ctx, t.querier(), fileID)
}

func (t *sqliteTx) ListSymbols(ctx context.Context, projectID int64, kinds []string) ([]*Symbol, error) {
	return t.storage.listSymbolsWithQuerier(ctx, t.querier(), projectID, kinds)
}

func (t *sqliteTx) DeleteSymbolsByFile(ctx context.Context, fileID int64) error {
	return t.storage.deleteSymbolsByFileWithQuerier(ctx, t.querier(), fileID)
}

func (t *sqliteTx) SearchSymbols(ctx context.Context, projectID int64, match string, limit int, kinds []string) ([]SearchResult, error) {
	return t.storage.searchSymbolsWithQuerier(ctx, t.querier(), projectID, match, limit, kinds)
}

func (t *sqliteTx) GetStatus(ctx context.Context, projectID int64) (*ProjectStatus, error) {
	return t.storage.getStatusWithQuerier(ctx, t.querier(), projectID)
}

func (t *sqliteTx) Close() error {
	return fmt.Errorf("cannot close a transaction, use Commit or Rollback")
}

func (t *sqliteTx) BeginTx(ctx context.Context) (Tx, error) {
	return nil, fmt.Errorf("%w: nested transactions", types.ErrUnsupported)
}
