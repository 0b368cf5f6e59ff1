package storage

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/phpreflect/pkg/types"
)

func setupTestDB(t *testing.T) *SQLiteStorage {
	t.Helper()
	// Use in-memory database for testing
	storage, err := NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	require.NotNil(t, storage)
	t.Cleanup(func() { _ = storage.Close() })
	return storage
}

func createProject(t *testing.T, s *SQLiteStorage) *Project {
	t.Helper()
	project := &Project{RootPath: "/test/path", IndexVersion: CurrentSchemaVersion}
	require.NoError(t, s.CreateProject(context.Background(), project))
	return project
}

func createFile(t *testing.T, s *SQLiteStorage, projectID int64, path, content string) *File {
	t.Helper()
	file := &File{
		ProjectID:   projectID,
		FilePath:    path,
		ContentHash: sha256.Sum256([]byte(content)),
		ModTime:     time.Now(),
		SizeBytes:   int64(len(content)),
		Namespaces:  []string{`App\Model`, types.NoNamespace},
	}
	require.NoError(t, s.UpsertFile(context.Background(), file))
	return file
}

func testFileDecl() *types.FileDecl {
	return &types.FileDecl{
		FileName: "/test/path/User.php",
		Namespaces: []types.NamespaceDecl{
			{
				Name: `App\Model`,
				Classes: []types.ClassDecl{{
					Name:       "User",
					Namespace:  `App\Model`,
					Kind:       types.KindClass,
					DocComment: "/** Application user account. */",
					Parent:     `App\Model\Base`,
					Constants: []types.ConstantDecl{{
						Name: "TABLE", Namespace: `App\Model`, Class: `App\Model\User`, Value: "'users'",
						Span: types.Span{StartLine: 5, EndLine: 5},
					}},
					Methods: []types.FunctionDecl{{
						Name: "find", Namespace: `App\Model`, Class: `App\Model\User`,
						Span: types.Span{StartLine: 7, EndLine: 9},
					}},
					Span: types.Span{StartLine: 3, EndLine: 10},
				}},
				Functions: []types.FunctionDecl{{
					Name: "helper", Namespace: `App\Model`,
					Span: types.Span{StartLine: 12, EndLine: 12},
				}},
				Constants: []types.ConstantDecl{{
					Name: "VERSION", Namespace: `App\Model`, Value: `"1.0"`,
					Span: types.Span{StartLine: 14, EndLine: 14},
				}},
			},
		},
	}
}

func storeSymbols(t *testing.T, s *SQLiteStorage, fileID int64) []*Symbol {
	t.Helper()
	symbols := SymbolsFromFile(testFileDecl(), fileID)
	for _, sym := range symbols {
		require.NoError(t, s.UpsertSymbol(context.Background(), sym))
	}
	return symbols
}

func TestNewSQLiteStorage(t *testing.T) {
	storage := setupTestDB(t)
	assert.NotNil(t, storage.db)

	version, err := SchemaVersion(context.Background(), storage.db)
	require.NoError(t, err)
	assert.Equal(t, CurrentSchemaVersion, version)
}

func TestApplyMigrations_Idempotent(t *testing.T) {
	storage := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, ApplyMigrations(ctx, storage.db))

	var count int
	require.NoError(t, storage.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_version").Scan(&count))
	assert.Equal(t, len(AllMigrations), count)
}

func TestRollbackMigration(t *testing.T) {
	storage := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, RollbackMigration(ctx, storage.db))
	version, err := SchemaVersion(ctx, storage.db)
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", version)

	require.NoError(t, RollbackMigration(ctx, storage.db))
	version, err = SchemaVersion(ctx, storage.db)
	require.NoError(t, err)
	assert.Equal(t, "0.0.0", version)

	err = RollbackMigration(ctx, storage.db)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestCreateProject(t *testing.T) {
	storage := setupTestDB(t)
	ctx := context.Background()

	project := createProject(t, storage)
	assert.Greater(t, project.ID, int64(0))
	assert.False(t, project.CreatedAt.IsZero())

	// Try to create duplicate - should fail
	duplicate := &Project{RootPath: "/test/path", IndexVersion: CurrentSchemaVersion}
	err := storage.CreateProject(ctx, duplicate)
	assert.True(t, errors.Is(err, ErrAlreadyExists))
}

func TestGetProject(t *testing.T) {
	storage := setupTestDB(t)
	ctx := context.Background()
	project := createProject(t, storage)

	got, err := storage.GetProject(ctx, "/test/path")
	require.NoError(t, err)
	assert.Equal(t, project.ID, got.ID)
	assert.Equal(t, CurrentSchemaVersion, got.IndexVersion)
	assert.True(t, got.LastIndexedAt.IsZero())

	_, err = storage.GetProject(ctx, "/nonexistent")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestUpdateProject(t *testing.T) {
	storage := setupTestDB(t)
	ctx := context.Background()
	project := createProject(t, storage)

	project.TotalFiles = 3
	project.TotalSymbols = 12
	project.LastRunID = "run-1"
	project.LastIndexedAt = time.Now()
	require.NoError(t, storage.UpdateProject(ctx, project))

	got, err := storage.GetProject(ctx, "/test/path")
	require.NoError(t, err)
	assert.Equal(t, 3, got.TotalFiles)
	assert.Equal(t, 12, got.TotalSymbols)
	assert.Equal(t, "run-1", got.LastRunID)
	assert.False(t, got.LastIndexedAt.IsZero())
}

func TestUpsertFile(t *testing.T) {
	storage := setupTestDB(t)
	ctx := context.Background()
	project := createProject(t, storage)

	file := createFile(t, storage, project.ID, "/test/path/User.php", "<?php class User {}")
	assert.Greater(t, file.ID, int64(0))

	got, err := storage.GetFile(ctx, project.ID, "/test/path/User.php")
	require.NoError(t, err)
	assert.Equal(t, file.ContentHash, got.ContentHash)
	assert.Equal(t, []string{`App\Model`, types.NoNamespace}, got.Namespaces)
	assert.Nil(t, got.ParseError)

	// Updating the same path keeps the row id
	parseErr := "line 1: unmatched bracket"
	file.ParseError = &parseErr
	file.Namespaces = nil
	firstID := file.ID
	require.NoError(t, storage.UpsertFile(ctx, file))
	assert.Equal(t, firstID, file.ID)

	got, err = storage.GetFileByID(ctx, file.ID)
	require.NoError(t, err)
	require.NotNil(t, got.ParseError)
	assert.Equal(t, parseErr, *got.ParseError)
	assert.Empty(t, got.Namespaces)
}

func TestGetFile_NotFound(t *testing.T) {
	storage := setupTestDB(t)
	ctx := context.Background()
	project := createProject(t, storage)

	_, err := storage.GetFile(ctx, project.ID, "/missing.php")
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = storage.GetFileByID(ctx, 999)
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = storage.GetFileByHash(ctx, project.ID, sha256.Sum256([]byte("nothing")))
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestGetFileByHash(t *testing.T) {
	storage := setupTestDB(t)
	ctx := context.Background()
	project := createProject(t, storage)

	file := createFile(t, storage, project.ID, "/test/path/A.php", "<?php class A {}")
	createFile(t, storage, project.ID, "/test/path/B.php", "<?php class B {}")

	got, err := storage.GetFileByHash(ctx, project.ID, sha256.Sum256([]byte("<?php class A {}")))
	require.NoError(t, err)
	assert.Equal(t, file.ID, got.ID)
}

func TestListAndDeleteFiles(t *testing.T) {
	storage := setupTestDB(t)
	ctx := context.Background()
	project := createProject(t, storage)

	b := createFile(t, storage, project.ID, "/test/path/B.php", "b")
	createFile(t, storage, project.ID, "/test/path/A.php", "a")

	files, err := storage.ListFiles(ctx, project.ID)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "/test/path/A.php", files[0].FilePath)

	require.NoError(t, storage.DeleteFile(ctx, b.ID))
	files, err = storage.ListFiles(ctx, project.ID)
	require.NoError(t, err)
	assert.Len(t, files, 1)
}

func TestTokenStreams(t *testing.T) {
	storage := setupTestDB(t)
	ctx := context.Background()
	project := createProject(t, storage)
	file := createFile(t, storage, project.ID, "/test/path/A.php", "a")

	_, err := storage.LoadTokenStream(ctx, file.ID)
	assert.True(t, errors.Is(err, ErrNotFound))

	require.NoError(t, storage.SaveTokenStream(ctx, file.ID, []byte(`["a",[]]`)))
	require.NoError(t, storage.SaveTokenStream(ctx, file.ID, []byte(`["b",[]]`)))

	payload, err := storage.LoadTokenStream(ctx, file.ID)
	require.NoError(t, err)
	assert.Equal(t, `["b",[]]`, string(payload))

	// Deleting the file cascades to its stream
	require.NoError(t, storage.DeleteFile(ctx, file.ID))
	_, err = storage.LoadTokenStream(ctx, file.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestSymbolsFromFile(t *testing.T) {
	symbols := SymbolsFromFile(testFileDecl(), 7)
	require.Len(t, symbols, 5)

	fqns := make([]string, len(symbols))
	for i, sym := range symbols {
		assert.Equal(t, int64(7), sym.FileID)
		fqns[i] = sym.FQN
	}
	assert.Equal(t, []string{
		`App\Model\User`,
		`App\Model\User::TABLE`,
		`App\Model\User::find`,
		`App\Model\helper`,
		`App\Model\VERSION`,
	}, fqns)

	assert.Equal(t, string(types.KindMethod), symbols[2].Kind)
	assert.Equal(t, `App\Model\User`, symbols[2].Parent)
	assert.Equal(t, `App\Model\Base`, symbols[0].Parent)
}

func TestUpsertSymbol(t *testing.T) {
	storage := setupTestDB(t)
	ctx := context.Background()
	project := createProject(t, storage)
	file := createFile(t, storage, project.ID, "/test/path/User.php", "x")

	symbols := storeSymbols(t, storage, file.ID)
	id := symbols[0].ID
	assert.Greater(t, id, int64(0))

	// Re-upserting the same declaration updates in place
	symbols[0].DocComment = "/** Renamed. */"
	require.NoError(t, storage.UpsertSymbol(ctx, symbols[0]))
	assert.Equal(t, id, symbols[0].ID)

	got, err := storage.GetSymbol(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "/** Renamed. */", got.DocComment)
	assert.Equal(t, `App\Model\Base`, got.Parent)

	_, err = storage.GetSymbol(ctx, 999)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestListSymbols(t *testing.T) {
	storage := setupTestDB(t)
	ctx := context.Background()
	project := createProject(t, storage)
	file := createFile(t, storage, project.ID, "/test/path/User.php", "x")
	storeSymbols(t, storage, file.ID)

	byFile, err := storage.ListSymbolsByFile(ctx, file.ID)
	require.NoError(t, err)
	require.Len(t, byFile, 5)
	assert.Equal(t, `App\Model\User`, byFile[0].FQN)

	all, err := storage.ListSymbols(ctx, project.ID, nil)
	require.NoError(t, err)
	assert.Len(t, all, 5)

	constants, err := storage.ListSymbols(ctx, project.ID, []string{string(types.KindConstant)})
	require.NoError(t, err)
	require.Len(t, constants, 2)
	assert.Equal(t, `App\Model\User::TABLE`, constants[0].FQN)
	assert.Equal(t, `App\Model\VERSION`, constants[1].FQN)

	require.NoError(t, storage.DeleteSymbolsByFile(ctx, file.ID))
	all, err = storage.ListSymbols(ctx, project.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestSearchSymbols(t *testing.T) {
	storage := setupTestDB(t)
	ctx := context.Background()
	project := createProject(t, storage)
	file := createFile(t, storage, project.ID, "/test/path/User.php", "x")
	storeSymbols(t, storage, file.ID)

	results, err := storage.SearchSymbols(ctx, project.ID, `"account"*`, 10, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, `App\Model\User`, results[0].Symbol.FQN)
	assert.Equal(t, "/test/path/User.php", results[0].FilePath)

	results, err = storage.SearchSymbols(ctx, project.ID, `"find"`, 10, []string{string(types.KindFunction)})
	require.NoError(t, err)
	assert.Empty(t, results)

	results, err = storage.SearchSymbols(ctx, project.ID, `"find"`, 10, []string{string(types.KindMethod)})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "find", results[0].Symbol.ShortName)

	_, err = storage.SearchSymbols(ctx, project.ID, "  ", 10, nil)
	assert.True(t, errors.Is(err, types.ErrInvalidArgument))
}

func TestSearchSymbols_FollowsDeletes(t *testing.T) {
	storage := setupTestDB(t)
	ctx := context.Background()
	project := createProject(t, storage)
	file := createFile(t, storage, project.ID, "/test/path/User.php", "x")
	storeSymbols(t, storage, file.ID)

	require.NoError(t, storage.DeleteSymbolsByFile(ctx, file.ID))
	results, err := storage.SearchSymbols(ctx, project.ID, `"helper"`, 10, nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestGetStatus(t *testing.T) {
	storage := setupTestDB(t)
	ctx := context.Background()
	project := createProject(t, storage)
	file := createFile(t, storage, project.ID, "/test/path/User.php", "x")
	storeSymbols(t, storage, file.ID)
	require.NoError(t, storage.SaveTokenStream(ctx, file.ID, []byte(`[]`)))

	broken := createFile(t, storage, project.ID, "/test/path/Broken.php", "y")
	msg := "unmatched"
	broken.ParseError = &msg
	require.NoError(t, storage.UpsertFile(ctx, broken))

	status, err := storage.GetStatus(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, project.ID, status.Project.ID)
	assert.Equal(t, 2, status.FilesCount)
	assert.Equal(t, 5, status.SymbolsCount)
	assert.Equal(t, 1, status.TokenStreamsCount)
	assert.Equal(t, 1, status.ParseErrorCount)
	assert.True(t, status.Health.DatabaseAccessible)
	assert.True(t, status.Health.FTSIndexesBuilt)

	_, err = storage.GetStatus(ctx, 999)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestTransaction_Commit(t *testing.T) {
	storage := setupTestDB(t)
	ctx := context.Background()
	project := createProject(t, storage)

	tx, err := storage.BeginTx(ctx)
	require.NoError(t, err)

	file := &File{ProjectID: project.ID, FilePath: "/test/path/Tx.php", ModTime: time.Now()}
	require.NoError(t, tx.UpsertFile(ctx, file))
	for _, sym := range SymbolsFromFile(testFileDecl(), file.ID) {
		require.NoError(t, tx.UpsertSymbol(ctx, sym))
	}
	require.NoError(t, tx.Commit())

	symbols, err := storage.ListSymbolsByFile(ctx, file.ID)
	require.NoError(t, err)
	assert.Len(t, symbols, 5)
}

func TestTransaction_Rollback(t *testing.T) {
	storage := setupTestDB(t)
	ctx := context.Background()
	project := createProject(t, storage)

	tx, err := storage.BeginTx(ctx)
	require.NoError(t, err)

	file := &File{ProjectID: project.ID, FilePath: "/test/path/Tx.php", ModTime: time.Now()}
	require.NoError(t, tx.UpsertFile(ctx, file))
	require.NoError(t, tx.Rollback())

	_, err = storage.GetFile(ctx, project.ID, "/test/path/Tx.php")
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = tx.BeginTx(ctx)
	assert.True(t, errors.Is(err, types.ErrUnsupported))
	assert.Error(t, tx.Close())
	assert.True(t, errors.Is(tx.Rollback(), sql.ErrTxDone))
}
