package searcher

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/phpreflect/internal/storage"
	"github.com/dshills/phpreflect/pkg/types"
)

func setupSearcher(t *testing.T) (*Searcher, int64) {
	t.Helper()
	ctx := context.Background()

	store, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	project := &storage.Project{RootPath: "/app", IndexVersion: storage.CurrentSchemaVersion}
	require.NoError(t, store.CreateProject(ctx, project))

	file := &storage.File{ProjectID: project.ID, FilePath: "/app/src/User.php", ModTime: time.Now()}
	require.NoError(t, store.UpsertFile(ctx, file))

	decl := &types.FileDecl{
		FileName: file.FilePath,
		Namespaces: []types.NamespaceDecl{
			{
				Name: `App\Model`,
				Classes: []types.ClassDecl{
					{
						Name: "User", Namespace: `App\Model`, Kind: types.KindClass,
						DocComment: "/** Application user account. */",
						Methods: []types.FunctionDecl{{
							Name: "find", Namespace: `App\Model`, Class: `App\Model\User`,
							Span: types.Span{StartLine: 4, EndLine: 6},
						}},
						Span: types.Span{StartLine: 3, EndLine: 7},
					},
					{
						Name: "UserRepository", Namespace: `App\Model`, Kind: types.KindClass,
						Span: types.Span{StartLine: 9, EndLine: 10},
					},
				},
			},
			{
				Name: `App`,
				Functions: []types.FunctionDecl{{
					Name: "helper", Namespace: "App",
					DocComment: "/** Formats a date. */",
					Span:       types.Span{StartLine: 12, EndLine: 12},
				}},
			},
		},
	}
	for _, sym := range storage.SymbolsFromFile(decl, file.ID) {
		require.NoError(t, store.UpsertSymbol(ctx, sym))
	}

	return NewSearcher(store), project.ID
}

func fqns(results []Result) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Symbol.FQN
	}
	return out
}

func TestMatchQuery(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		want    string
		wantErr bool
	}{
		{"single term", "user", `"user"*`, false},
		{"namespaced", `App\Model\User`, `"App"* "Model"* "User"*`, false},
		{"member", "User::find", `"User"* "find"*`, false},
		{"operators dropped", `user AND "x" OR -y`, `"user"* "AND"* "x"* "OR"* "y"*`, false},
		{"punctuation only", `::\`, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MatchQuery(tt.query)
			if tt.wantErr {
				assert.True(t, errors.Is(err, types.ErrInvalidArgument))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSearch_NameMode(t *testing.T) {
	s, projectID := setupSearcher(t)

	resp, err := s.Search(context.Background(), SearchRequest{
		ProjectID: projectID,
		Query:     "User",
		Mode:      SearchModeName,
	})
	require.NoError(t, err)
	assert.Equal(t, SearchModeName, resp.SearchMode)
	assert.Equal(t, []string{`App\Model\User`, `App\Model\UserRepository`, `App\Model\User::find`}, fqns(resp.Results))
	assert.Equal(t, 1, resp.Results[0].Rank)
	assert.Equal(t, "/app/src/User.php", resp.Results[0].FilePath)
}

func TestSearch_NameModeLeadingSeparator(t *testing.T) {
	s, projectID := setupSearcher(t)

	resp, err := s.Search(context.Background(), SearchRequest{
		ProjectID: projectID,
		Query:     `\App\helper`,
		Mode:      SearchModeName,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{`App\helper`}, fqns(resp.Results))
}

func TestSearch_KeywordMode(t *testing.T) {
	s, projectID := setupSearcher(t)

	resp, err := s.Search(context.Background(), SearchRequest{
		ProjectID: projectID,
		Query:     "account",
		Mode:      SearchModeKeyword,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{`App\Model\User`}, fqns(resp.Results))
	assert.Equal(t, 1, resp.TextResults)
	assert.Equal(t, "/app/src/User.php", resp.Results[0].FilePath)
}

func TestSearch_HybridMode(t *testing.T) {
	s, projectID := setupSearcher(t)

	resp, err := s.Search(context.Background(), SearchRequest{
		ProjectID: projectID,
		Query:     "user",
	})
	require.NoError(t, err)
	assert.Equal(t, SearchModeHybrid, resp.SearchMode)
	assert.Equal(t, 3, resp.NameResults)
	assert.Equal(t, 3, resp.TextResults)
	assert.ElementsMatch(t,
		[]string{`App\Model\User`, `App\Model\UserRepository`, `App\Model\User::find`},
		fqns(resp.Results))
	for i, r := range resp.Results {
		assert.Equal(t, i+1, r.Rank)
		assert.NotEmpty(t, r.FilePath)
	}
}

func TestSearch_KindsFilter(t *testing.T) {
	s, projectID := setupSearcher(t)

	resp, err := s.Search(context.Background(), SearchRequest{
		ProjectID: projectID,
		Query:     "user",
		Kinds:     []string{string(types.KindMethod)},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{`App\Model\User::find`}, fqns(resp.Results))
}

func TestSearch_Limit(t *testing.T) {
	s, projectID := setupSearcher(t)

	resp, err := s.Search(context.Background(), SearchRequest{
		ProjectID: projectID,
		Query:     "user",
		Mode:      SearchModeName,
		Limit:     1,
	})
	require.NoError(t, err)
	assert.Len(t, resp.Results, 1)
}

func TestSearch_InvalidRequests(t *testing.T) {
	s, projectID := setupSearcher(t)
	ctx := context.Background()

	_, err := s.Search(ctx, SearchRequest{ProjectID: projectID, Query: "   "})
	assert.True(t, errors.Is(err, types.ErrInvalidArgument))

	_, err = s.Search(ctx, SearchRequest{ProjectID: projectID, Query: "user", Mode: "fuzzy"})
	assert.True(t, errors.Is(err, types.ErrInvalidArgument))

	// Keyword search cannot run on punctuation alone
	_, err = s.Search(ctx, SearchRequest{ProjectID: projectID, Query: "::", Mode: SearchModeKeyword})
	assert.True(t, errors.Is(err, types.ErrInvalidArgument))
}

func TestSearch_Cache(t *testing.T) {
	s, projectID := setupSearcher(t)
	ctx := context.Background()
	req := SearchRequest{ProjectID: projectID, Query: "user", UseCache: true}

	first, err := s.Search(ctx, req)
	require.NoError(t, err)
	assert.False(t, first.CacheHit)
	assert.Equal(t, 1, s.CacheLen())

	second, err := s.Search(ctx, req)
	require.NoError(t, err)
	assert.True(t, second.CacheHit)
	assert.Equal(t, fqns(first.Results), fqns(second.Results))

	// Cached copies are independent of the returned response
	second.Results[0].Symbol.FQN = "mutated"
	third, err := s.Search(ctx, req)
	require.NoError(t, err)
	assert.NotEqual(t, "mutated", third.Results[0].Symbol.FQN)

	require.NoError(t, s.InvalidateCache(ctx, projectID))
	assert.Equal(t, 0, s.CacheLen())
}

func TestSearch_CacheExpiry(t *testing.T) {
	s, projectID := setupSearcher(t)
	ctx := context.Background()
	req := SearchRequest{ProjectID: projectID, Query: "user", UseCache: true, CacheTTL: time.Nanosecond}

	_, err := s.Search(ctx, req)
	require.NoError(t, err)
	time.Sleep(time.Millisecond)

	resp, err := s.Search(ctx, req)
	require.NoError(t, err)
	assert.False(t, resp.CacheHit)
}

func TestApplyRRF(t *testing.T) {
	a := &storage.Symbol{ID: 1, FQN: "A"}
	b := &storage.Symbol{ID: 2, FQN: "B"}
	c := &storage.Symbol{ID: 3, FQN: "C"}

	name := []rankedResult{{symbol: a, filePath: "/a.php"}, {symbol: b}}
	text := []rankedResult{{symbol: b, filePath: "/b.php"}, {symbol: c}}

	fused := applyRRF(name, text, 60)
	require.Len(t, fused, 3)
	assert.Equal(t, "B", fused[0].symbol.FQN)
	assert.Equal(t, "/b.php", fused[0].filePath)
	assert.InDelta(t, 1.0/62+1.0/61, fused[0].score, 1e-9)
	assert.Equal(t, "A", fused[1].symbol.FQN)
	assert.Equal(t, 3, fused[2].rank)
}
