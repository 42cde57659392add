package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/custodia-labs/relevance/internal/core/domain"
	"github.com/custodia-labs/relevance/internal/core/ports/driven"
	"github.com/custodia-labs/relevance/internal/core/ports/driving"
	"github.com/custodia-labs/relevance/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// SearchService ranks indexed content against free-text queries.
//
// The primary path asks the full-text Ranker. When no ranker is configured,
// or it reports itself unavailable, candidates are scored by keyword overlap
// instead. Both paths produce the same result shape.
type SearchService struct {
	store     driven.ContentStore
	ranker    driven.Ranker
	cache     *SearchCache
	settings  domain.SearchSettings
	telemetry driven.Telemetry
}

// NewSearchService creates a search service.
// ranker, cache and telemetry are optional.
func NewSearchService(
	store driven.ContentStore,
	ranker driven.Ranker,
	cache *SearchCache,
	settings domain.SearchSettings,
	telemetry driven.Telemetry,
) *SearchService {
	if cache == nil {
		cache = NewSearchCache(nil, settings.CachePrefix, telemetry)
	}
	return &SearchService{
		store:     store,
		ranker:    ranker,
		cache:     cache,
		settings:  settings,
		telemetry: telemetry,
	}
}

// Cache returns the service's result cache.
func (s *SearchService) Cache() *SearchCache {
	return s.cache
}

// Search returns the top results for a query. Results are memoised for the
// configured TTL. An error means the primary ranker could not serve the
// query; it wraps domain.ErrBackendUnavailable.
func (s *SearchService) Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error) {
	query, opts, ok := s.prepare(query, opts)
	if !ok {
		return []domain.SearchResult{}, nil
	}

	key := s.cache.Key(query, opts)
	return s.cache.GetOrCompute(ctx, key, s.settings.CacheTTL, func(ctx context.Context) ([]domain.SearchResult, error) {
		if s.ranker == nil {
			return s.keywordRank(ctx, query, opts)
		}
		outcome := s.primaryRank(ctx, query, opts)
		if !outcome.OK() {
			return nil, outcome.Err
		}
		return outcome.Results, nil
	})
}

// SearchWithFallback never fails. A primary ranking failure is logged and
// the query is re-scored by keyword overlap.
func (s *SearchService) SearchWithFallback(ctx context.Context, query string, opts domain.SearchOptions) []domain.FormattedResult {
	results, err := s.Search(ctx, query, opts)
	if err != nil {
		logger.Warn("Full-text search failed, falling back to keyword search: %v", err)
		results, err = s.KeywordSearch(ctx, query, opts)
		if err != nil {
			logger.Warn("Keyword search failed: %v", err)
			results = nil
		}
	}

	formatted := make([]domain.FormattedResult, 0, len(results))
	for _, r := range results {
		formatted = append(formatted, r.Format())
	}
	return formatted
}

// KeywordSearch ranks with keyword scoring only, bypassing the ranker and cache.
func (s *SearchService) KeywordSearch(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error) {
	query, opts, ok := s.prepare(query, opts)
	if !ok {
		return []domain.SearchResult{}, nil
	}
	return s.keywordRank(ctx, query, opts)
}

// prepare normalises the query and options. The returned query is the one
// both ranked and used as the cache key. Returns false when the search can
// only produce no results: a blank query or an unknown type.
func (s *SearchService) prepare(query string, opts domain.SearchOptions) (string, domain.SearchOptions, bool) {
	query = domain.NormaliseQuery(query)
	if query == "" {
		logger.Debug("Empty query, returning no results")
		return "", opts, false
	}

	if opts.Limit <= 0 {
		opts.Limit = s.settings.DefaultLimit
	}
	opts = opts.Normalised()
	for _, t := range opts.ContentTypes {
		if !t.IsValid() {
			logger.Debug("Unknown content type %q, returning no results", t)
			return "", opts, false
		}
	}
	return query, opts, true
}

// primaryRank asks the full-text ranker.
func (s *SearchService) primaryRank(ctx context.Context, query string, opts domain.SearchOptions) domain.SearchOutcome {
	start := time.Now()
	results, err := s.ranker.Rank(ctx, query, opts, s.settings.MinRank)
	if err != nil {
		if !errors.Is(err, domain.ErrBackendUnavailable) {
			err = fmt.Errorf("%w: %s: %v", domain.ErrBackendUnavailable, s.ranker.Name(), err)
		}
		return domain.Unavailable(err)
	}
	s.observe(domain.RankingPrimary, len(results), time.Since(start))
	logger.Debug("%s ranked %d results for %q", s.ranker.Name(), len(results), query)
	return domain.Ranked(results)
}

// keywordRank scores every visible candidate by keyword overlap.
// Candidates are enumerated in listing order (priority, title, source ID)
// and sorted stably, so equal scores keep that order.
func (s *SearchService) keywordRank(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error) {
	start := time.Now()
	candidates, err := s.store.ListSearchable(ctx, opts.ContentTypes)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}

	scorer := newKeywordScorer(query, s.settings.Scoring)
	results := make([]domain.SearchResult, 0, len(candidates))
	for _, c := range candidates {
		if score := scorer.score(c); score > 0 {
			results = append(results, domain.SearchResult{Content: c, Score: score})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > opts.Limit {
		results = results[:opts.Limit]
	}

	s.observe(domain.RankingFallback, len(results), time.Since(start))
	return results, nil
}

func (s *SearchService) observe(path domain.RankingPath, n int, elapsed time.Duration) {
	if s.telemetry != nil {
		s.telemetry.SearchServed(path, n, elapsed)
	}
}

// keywordScorer applies the manual keyword scoring weights to one query.
type keywordScorer struct {
	query   string
	words   map[string]bool
	weights domain.ScoringWeights
}

func newKeywordScorer(query string, weights domain.ScoringWeights) keywordScorer {
	q := strings.ToLower(strings.TrimSpace(query))
	return keywordScorer{query: q, words: wordSet(q), weights: weights}
}

// score returns the candidate's keyword score. The priority boost applies
// to every candidate, so only priority 0 rows with no match score zero.
func (k keywordScorer) score(c domain.IndexedContent) float64 {
	var score float64

	title := strings.ToLower(c.Title)
	if strings.Contains(title, k.query) {
		score += k.weights.TitleExact
	} else {
		score += float64(k.shared(title)) * k.weights.TitleWord
	}

	content := strings.ToLower(c.ContentText)
	if strings.Contains(content, k.query) {
		score += k.weights.ContentExact
	} else {
		score += float64(k.shared(content)) * k.weights.ContentWord
	}

	for _, kw := range c.KeywordList() {
		if strings.Contains(strings.ToLower(kw), k.query) {
			score += k.weights.Keyword
		}
	}

	return score + float64(c.Priority)*k.weights.PriorityFactor
}

// shared counts distinct query words that appear as whole words in text.
func (k keywordScorer) shared(text string) int {
	if len(k.words) == 0 {
		return 0
	}
	n := 0
	for w := range wordSet(text) {
		if k.words[w] {
			n++
		}
	}
	return n
}

// wordSet splits text into its distinct words, breaking on anything that
// is not a letter or digit.
func wordSet(text string) map[string]bool {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	set := make(map[string]bool, len(fields))
	for _, f := range fields {
		set[f] = true
	}
	return set
}
