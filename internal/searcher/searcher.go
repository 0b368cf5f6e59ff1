package searcher

import (
	"context"
	"crypto/sha256"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/dshills/phpreflect/internal/storage"
	"github.com/dshills/phpreflect/pkg/types"
)

// SearchMode defines how search is performed
type SearchMode string

const (
	SearchModeHybrid  SearchMode = "hybrid"  // Name + BM25 with RRF
	SearchModeName    SearchMode = "name"    // FQN substring matching only
	SearchModeKeyword SearchMode = "keyword" // BM25 text search only
)

// SearchRequest contains parameters for a search operation
type SearchRequest struct {
	Query       string
	Limit       int
	Mode        SearchMode
	Kinds       []string // Symbol kinds to keep, all when empty
	ProjectID   int64
	UseCache    bool // Whether to use query cache
	CacheTTL    time.Duration
	RRFConstant float64 // k value for Reciprocal Rank Fusion (default 60)
}

// Result is one ranked symbol
type Result struct {
	Symbol         *storage.Symbol
	FilePath       string
	Rank           int
	RelevanceScore float64
}

// SearchResponse contains search results and metadata
type SearchResponse struct {
	Results      []Result
	TotalResults int
	SearchMode   SearchMode
	Duration     time.Duration
	CacheHit     bool
	NameResults  int
	TextResults  int
}

// cacheEntry represents a cached search response with expiration time
type cacheEntry struct {
	response  *SearchResponse
	expiresAt time.Time
}

// Searcher coordinates name and full-text symbol search
type Searcher struct {
	storage storage.Storage
	cache   *lru.Cache[[32]byte, *cacheEntry]
	cacheMu sync.RWMutex
}

// NewSearcher creates a new Searcher instance
func NewSearcher(storage storage.Storage) *Searcher {
	// Cache will automatically evict least recently used entries
	cache, err := lru.New[[32]byte, *cacheEntry](1000)
	if err != nil {
		// This should never happen with valid size parameter
		panic(fmt.Sprintf("failed to create LRU cache: %v", err))
	}

	return &Searcher{
		storage: storage,
		cache:   cache,
	}
}

// Search performs a search based on the request parameters
func (s *Searcher) Search(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	startTime := time.Now()

	if err := s.validateRequest(&req); err != nil {
		return nil, fmt.Errorf("invalid search request: %w", err)
	}

	if req.UseCache {
		if cached, ok := s.checkCache(req); ok {
			cached.CacheHit = true
			cached.Duration = time.Since(startTime)
			return cached, nil
		}
	}

	var response *SearchResponse
	var err error

	switch req.Mode {
	case SearchModeHybrid:
		response, err = s.hybridSearch(ctx, req)
	case SearchModeName:
		response, err = s.nameSearch(ctx, req)
	case SearchModeKeyword:
		response, err = s.keywordSearch(ctx, req)
	default:
		return nil, fmt.Errorf("%w: unsupported search mode: %s", types.ErrInvalidArgument, req.Mode)
	}
	if err != nil {
		return nil, err
	}

	response.Duration = time.Since(startTime)
	response.SearchMode = req.Mode

	if req.UseCache && len(response.Results) > 0 {
		s.storeInCache(req, response)
	}

	return response, nil
}

// MatchQuery turns free text into an FTS5 expression of quoted prefix
// terms. Namespace separators and operators split terms.
func MatchQuery(query string) (string, error) {
	terms := strings.FieldsFunc(query, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	})
	if len(terms) == 0 {
		return "", fmt.Errorf("%w: query %q has no searchable terms", types.ErrInvalidArgument, query)
	}

	quoted := make([]string, len(terms))
	for i, term := range terms {
		quoted[i] = `"` + term + `"*`
	}
	return strings.Join(quoted, " "), nil
}

// searchResult holds results from concurrent search operations
type searchResult struct {
	ranked []rankedResult
	err    error
}

func (s *Searcher) runNameSearch(ctx context.Context, req SearchRequest, resultChan chan<- searchResult) {
	var res searchResult
	res.ranked, res.err = s.nameMatches(ctx, req, req.Limit*2)
	select {
	case resultChan <- res:
	case <-ctx.Done():
	}
}

func (s *Searcher) runTextSearch(ctx context.Context, req SearchRequest, resultChan chan<- searchResult) {
	var res searchResult
	res.ranked, res.err = s.textMatches(ctx, req, req.Limit*2)
	select {
	case resultChan <- res:
	case <-ctx.Done():
	}
}

// hybridSearch combines name and BM25 search using Reciprocal Rank Fusion
func (s *Searcher) hybridSearch(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	nameChan := make(chan searchResult, 1)
	textChan := make(chan searchResult, 1)

	go s.runNameSearch(ctx, req, nameChan)
	go s.runTextSearch(ctx, req, textChan)

	var nameRes, textRes searchResult
	var nameDone, textDone bool
	for !nameDone || !textDone {
		select {
		case nameRes = <-nameChan:
			nameDone = true
		case textRes = <-textChan:
			textDone = true
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	// Allow one side to fail
	if nameRes.err != nil && textRes.err != nil {
		return nil, fmt.Errorf("both searches failed: name=%w, text=%v", nameRes.err, textRes.err)
	}

	fused := applyRRF(nameRes.ranked, textRes.ranked, req.RRFConstant)
	results := truncate(fused, req.Limit)

	return &SearchResponse{
		Results:      results,
		TotalResults: len(results),
		NameResults:  len(nameRes.ranked),
		TextResults:  len(textRes.ranked),
	}, nil
}

func (s *Searcher) nameSearch(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	ranked, err := s.nameMatches(ctx, req, req.Limit)
	if err != nil {
		return nil, err
	}
	results := truncate(ranked, req.Limit)
	return &SearchResponse{
		Results:      results,
		TotalResults: len(results),
		NameResults:  len(ranked),
	}, nil
}

func (s *Searcher) keywordSearch(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	ranked, err := s.textMatches(ctx, req, req.Limit)
	if err != nil {
		return nil, err
	}
	results := truncate(ranked, req.Limit)
	return &SearchResponse{
		Results:      results,
		TotalResults: len(results),
		TextResults:  len(ranked),
	}, nil
}

// rankedResult represents a symbol with its relevance score and rank
type rankedResult struct {
	symbol   *storage.Symbol
	filePath string
	score    float64
	rank     int
}

func (s *Searcher) textMatches(ctx context.Context, req SearchRequest, limit int) ([]rankedResult, error) {
	match, err := MatchQuery(req.Query)
	if err != nil {
		return nil, err
	}
	found, err := s.storage.SearchSymbols(ctx, req.ProjectID, match, limit, req.Kinds)
	if err != nil {
		return nil, err
	}

	ranked := make([]rankedResult, len(found))
	for i, r := range found {
		ranked[i] = rankedResult{
			symbol:   r.Symbol,
			filePath: r.FilePath,
			score:    -r.Rank, // BM25 rank is negative, closer to zero is worse
			rank:     i + 1,
		}
	}
	return ranked, nil
}

// nameScore grades how well an FQN matches the lowered query: 3 for an
// exact short-name or FQN match, 2 for a prefix, 1 for a substring
func nameScore(sym *storage.Symbol, query string) float64 {
	short := strings.ToLower(sym.ShortName)
	fqn := strings.ToLower(sym.FQN)
	switch {
	case short == query || fqn == query:
		return 3
	case strings.HasPrefix(short, query):
		return 2
	case strings.Contains(fqn, query):
		return 1
	}
	return 0
}

func (s *Searcher) nameMatches(ctx context.Context, req SearchRequest, limit int) ([]rankedResult, error) {
	symbols, err := s.storage.ListSymbols(ctx, req.ProjectID, req.Kinds)
	if err != nil {
		return nil, err
	}

	query := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(req.Query), `\`))
	var ranked []rankedResult
	for _, sym := range symbols {
		if score := nameScore(sym, query); score > 0 {
			ranked = append(ranked, rankedResult{symbol: sym, score: score})
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return len(ranked[i].symbol.FQN) < len(ranked[j].symbol.FQN)
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	paths := make(map[int64]string)
	for i := range ranked {
		ranked[i].rank = i + 1
		fileID := ranked[i].symbol.FileID
		path, ok := paths[fileID]
		if !ok {
			file, err := s.storage.GetFileByID(ctx, fileID)
			if err == nil {
				path = file.FilePath
			}
			paths[fileID] = path
		}
		ranked[i].filePath = path
	}
	return ranked, nil
}

// applyRRF applies Reciprocal Rank Fusion to combine name and text results
// RRF formula: RRF(d) = sum 1/(k + rank(d))
func applyRRF(nameResults, textResults []rankedResult, k float64) []rankedResult {
	if k == 0 {
		k = 60 // Default RRF constant
	}

	scores := make(map[int64]*rankedResult)
	var order []int64
	add := func(list []rankedResult) {
		for rank, r := range list {
			entry, ok := scores[r.symbol.ID]
			if !ok {
				copied := r
				copied.score = 0
				entry = &copied
				scores[r.symbol.ID] = entry
				order = append(order, r.symbol.ID)
			}
			if entry.filePath == "" {
				entry.filePath = r.filePath
			}
			entry.score += 1.0 / (k + float64(rank+1))
		}
	}
	add(nameResults)
	add(textResults)

	results := make([]rankedResult, 0, len(order))
	for _, id := range order {
		results = append(results, *scores[id])
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].score > results[j].score
	})
	for i := range results {
		results[i].rank = i + 1
	}
	return results
}

func truncate(ranked []rankedResult, limit int) []Result {
	if limit > len(ranked) {
		limit = len(ranked)
	}
	results := make([]Result, limit)
	for i := 0; i < limit; i++ {
		results[i] = Result{
			Symbol:         ranked[i].symbol,
			FilePath:       ranked[i].filePath,
			Rank:           ranked[i].rank,
			RelevanceScore: ranked[i].score,
		}
	}
	return results
}

// validateRequest ensures search request is valid
func (s *Searcher) validateRequest(req *SearchRequest) error {
	if strings.TrimSpace(req.Query) == "" {
		return fmt.Errorf("%w: query cannot be empty", types.ErrInvalidArgument)
	}

	if req.Limit <= 0 {
		req.Limit = 10 // Default limit
	}

	if req.Limit > 100 {
		req.Limit = 100 // Max limit
	}

	if req.Mode == "" {
		req.Mode = SearchModeHybrid // Default mode
	}

	if req.RRFConstant == 0 {
		req.RRFConstant = 60 // Default k value
	}

	if req.CacheTTL == 0 {
		req.CacheTTL = 1 * time.Hour // Default TTL
	}

	return nil
}

// checkCache looks up cached search results
func (s *Searcher) checkCache(req SearchRequest) (*SearchResponse, bool) {
	hash := computeQueryHash(req)
	now := time.Now()

	s.cacheMu.RLock()
	entry, found := s.cache.Get(hash)
	if !found {
		s.cacheMu.RUnlock()
		return nil, false
	}

	if now.After(entry.expiresAt) {
		s.cacheMu.RUnlock()

		s.cacheMu.Lock()
		s.cache.Remove(hash)
		s.cacheMu.Unlock()
		return nil, false
	}

	response := copySearchResponse(entry.response)
	s.cacheMu.RUnlock()

	return response, true
}

// storeInCache saves search results to cache
func (s *Searcher) storeInCache(req SearchRequest, response *SearchResponse) {
	entry := &cacheEntry{
		response:  copySearchResponse(response),
		expiresAt: time.Now().Add(req.CacheTTL),
	}

	s.cacheMu.Lock()
	s.cache.Add(computeQueryHash(req), entry)
	s.cacheMu.Unlock()
}

// copySearchResponse creates a deep copy of a SearchResponse
func copySearchResponse(src *SearchResponse) *SearchResponse {
	if src == nil {
		return nil
	}

	dst := *src
	dst.Results = make([]Result, len(src.Results))
	for i, result := range src.Results {
		dst.Results[i] = result
		// Symbol holds only scalar fields
		if result.Symbol != nil {
			symbolCopy := *result.Symbol
			dst.Results[i].Symbol = &symbolCopy
		}
	}
	return &dst
}

// computeQueryHash computes a unique hash for a search request
func computeQueryHash(req SearchRequest) [32]byte {
	var data strings.Builder
	data.WriteString(req.Query)
	data.WriteString("|")
	data.WriteString(string(req.Mode))
	data.WriteString("|")
	data.WriteString(fmt.Sprintf("%d|%d", req.ProjectID, req.Limit))
	data.WriteString("|kinds:")
	kinds := append([]string(nil), req.Kinds...)
	sort.Strings(kinds)
	data.WriteString(strings.Join(kinds, ","))

	return sha256.Sum256([]byte(data.String()))
}

// InvalidateCache removes cached queries after a project is re-indexed
func (s *Searcher) InvalidateCache(ctx context.Context, projectID int64) error {
	// LRU cache doesn't support filtering, so we purge the entire cache
	s.cacheMu.Lock()
	s.cache.Purge()
	s.cacheMu.Unlock()
	return nil
}

// CacheLen reports the number of cached responses
func (s *Searcher) CacheLen() int {
	s.cacheMu.RLock()
	defer s.cacheMu.RUnlock()
	return s.cache.Len()
}
