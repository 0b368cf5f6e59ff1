// Package searcher finds indexed PHP symbols by name and by full-text match.
//
// The searcher provides three search modes:
//   - Hybrid: Combines name matching + BM25 keyword search (default)
//   - Name: Case-insensitive matching against short names and FQNs
//   - Keyword: BM25 full-text search over FQNs and doc comments
//
// # Basic Usage
//
//	s := searcher.NewSearcher(store)
//
//	resp, err := s.Search(ctx, searcher.SearchRequest{
//	    ProjectID: project.ID,
//	    Query:     `Model\User`,
//	    Limit:     10,
//	    Kinds:     []string{"class", "interface"},
//	})
//
//	for _, result := range resp.Results {
//	    fmt.Printf("[%d] %s %s:%d\n",
//	        result.Rank, result.Symbol.FQN, result.FilePath, result.Symbol.StartLine)
//	}
//
// # Query Syntax
//
// Queries are free text. Backslashes, colons and other punctuation split
// the query into terms, and every term matches as a prefix; all terms must
// match for a keyword hit. Name mode compares the query as a whole.
//
// # Result Fusion
//
// Hybrid mode runs both searches concurrently and merges them with
// Reciprocal Rank Fusion:
//
//	RRF(d) = sum 1/(k + rank(d))
//
// where k defaults to 60. If one side fails the other side's results are
// still returned.
//
// # Caching
//
// Responses are cached in an LRU cache with a per-request TTL when
// UseCache is set. Call InvalidateCache after re-indexing a project.
package searcher
