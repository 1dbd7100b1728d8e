// Package service provides application use cases.
package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"ajax-search-service/internal/domain"
)

// SearchConfig tunes the search pipeline.
type SearchConfig struct {
	MinTermLength  int
	SnippetLength  int
	AdapterTimeout time.Duration
	CacheEnabled   bool
	CacheTTL       time.Duration
}

// SearchService runs the full search pipeline: term processing, source
// adapter fan-out, scoring, merge, snippet generation, result caching and
// analytics recording.
type SearchService struct {
	adapters  []domain.SourceAdapter
	cache     domain.ResultCache
	analytics domain.AnalyticsStore
	store     domain.ContentStore
	scorer    *domain.Scorer
	cfg       SearchConfig
	logger    *zap.Logger
}

// NewSearchService creates a new SearchService. The adapter order is the
// retrieval order, which also decides ties during merge.
func NewSearchService(
	adapters []domain.SourceAdapter,
	cache domain.ResultCache,
	analytics domain.AnalyticsStore,
	store domain.ContentStore,
	cfg SearchConfig,
	logger *zap.Logger,
) *SearchService {
	return &SearchService{
		adapters:  adapters,
		cache:     cache,
		analytics: analytics,
		store:     store,
		scorer:    domain.NewScorer(),
		cfg:       cfg,
		logger:    logger,
	}
}

// Search executes one search request for the viewer. Adapter failures
// degrade to zero results from that source; cache and analytics failures
// never fail the request.
func (s *SearchService) Search(ctx context.Context, opts domain.SearchOptions, viewer domain.Viewer) (*domain.SearchResult, error) {
	start := time.Now()

	if err := domain.ValidateQuery(opts.Query, s.cfg.MinTermLength); err != nil {
		return nil, err
	}
	if opts.SnippetLength <= 0 {
		opts.SnippetLength = s.cfg.SnippetLength
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	terms := domain.ProcessTerms(opts.Query, s.cfg.MinTermLength)
	if len(terms) == 0 {
		// Every word was a stop word or too short.
		result := &domain.SearchResult{
			Query:      opts.Query,
			SearchTime: time.Since(start),
		}
		s.recordSearch(ctx, opts, viewer, result)

		return result, nil
	}

	fingerprint := domain.Fingerprint(opts, viewer)

	if cached := s.fromCache(ctx, fingerprint); cached != nil {
		result := &domain.SearchResult{
			Query:      opts.Query,
			Terms:      terms,
			Hits:       cached.Hits,
			Total:      cached.Total,
			Cached:     true,
			SearchTime: time.Since(start),
		}
		s.recordSearch(ctx, opts, viewer, result)

		return result, nil
	}

	hits := s.retrieveAndScore(ctx, terms, opts, viewer)

	merged, total := domain.MergeHits(hits, opts.Offset, opts.Limit)
	for i := range merged {
		merged[i].Snippet = domain.BuildSnippet(merged[i].Item.BodyText(), terms, opts.SnippetLength)
		merged[i].URL = merged[i].Item.RouteURL()
	}

	result := &domain.SearchResult{
		Query:      opts.Query,
		Terms:      terms,
		Hits:       merged,
		Total:      total,
		SearchTime: time.Since(start),
	}

	s.toCache(ctx, fingerprint, opts, viewer, result)
	s.recordSearch(ctx, opts, viewer, result)

	s.logger.Debug("search completed",
		zap.String("query", opts.Query),
		zap.Int("terms", len(terms)),
		zap.Int("total", total),
		zap.Duration("duration", result.SearchTime),
	)

	return result, nil
}

// retrieveAndScore fans out to the enabled adapters concurrently and scores
// every returned item. Items with no term match score zero and are dropped.
func (s *SearchService) retrieveAndScore(ctx context.Context, terms []domain.Term, opts domain.SearchOptions, viewer domain.Viewer) []domain.SearchHit {
	var active []domain.SourceAdapter
	for _, adapter := range s.adapters {
		if opts.WantsSource(adapter.Source()) {
			active = append(active, adapter)
		}
	}

	retrieved := make([][]domain.ContentItem, len(active))
	var wg sync.WaitGroup

	for i, adapter := range active {
		wg.Add(1)
		go func(idx int, a domain.SourceAdapter) {
			defer wg.Done()

			adapterCtx := ctx
			if s.cfg.AdapterTimeout > 0 {
				var cancel context.CancelFunc
				adapterCtx, cancel = context.WithTimeout(ctx, s.cfg.AdapterTimeout)
				defer cancel()
			}

			items, err := a.Search(adapterCtx, terms, opts, viewer)
			if err != nil {
				s.logger.Warn("source adapter failed",
					zap.String("source", string(a.Source())),
					zap.Error(err),
				)

				return
			}
			retrieved[idx] = items
		}(i, adapter)
	}
	wg.Wait()

	var hits []domain.SearchHit
	for _, items := range retrieved {
		for _, item := range items {
			relevance := s.scorer.Score(item, terms)
			if relevance <= 0 {
				continue
			}
			hits = append(hits, domain.SearchHit{Item: item, Relevance: relevance})
		}
	}

	return hits
}

// fromCache reads the fingerprint entry, or nil on miss, disabled cache or
// read error.
func (s *SearchService) fromCache(ctx context.Context, fingerprint string) *domain.CachedResult {
	if !s.cfg.CacheEnabled {
		return nil
	}

	cached, err := s.cache.Get(ctx, fingerprint)
	if err != nil {
		s.logger.Warn("cache read failed", zap.Error(err))

		return nil
	}

	return cached
}

// toCache stores the finished result under the fingerprint.
func (s *SearchService) toCache(ctx context.Context, fingerprint string, opts domain.SearchOptions, viewer domain.Viewer, result *domain.SearchResult) {
	if !s.cfg.CacheEnabled {
		return
	}

	entry := domain.CachedResult{
		Query:    opts.Query,
		Language: viewer.Language,
		Access:   viewer.AccessSignature(),
		Hits:     result.Hits,
		Total:    result.Total,
	}
	if err := s.cache.Set(ctx, fingerprint, entry, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("cache write failed", zap.Error(err))
	}
}

// recordSearch persists the analytics event for one executed search.
func (s *SearchService) recordSearch(ctx context.Context, opts domain.SearchOptions, viewer domain.Viewer, result *domain.SearchResult) {
	event := domain.SearchEvent{
		Query:       opts.Query,
		ResultCount: result.Total,
		ZeroResults: result.Total == 0,
		UserID:      viewer.UserID,
		SessionID:   viewer.SessionID,
		IPAddress:   viewer.IPAddress,
		UserAgent:   viewer.UserAgent,
		Duration:    result.SearchTime,
		Timestamp:   time.Now().UTC(),
	}
	if err := s.analytics.Record(ctx, event); err != nil {
		s.logger.Warn("analytics record failed",
			zap.String("query", opts.Query),
			zap.Error(err),
		)
	}
}

// CacheStats returns the result cache aggregate counters.
func (s *SearchService) CacheStats(ctx context.Context) (domain.CacheStats, error) {
	return s.cache.Stats(ctx)
}

// ClearCache drops every cached search result.
func (s *SearchService) ClearCache(ctx context.Context) (int64, error) {
	removed, err := s.cache.Clear(ctx)
	if err != nil {
		s.logger.Error("cache clear failed", zap.Error(err))

		return 0, err
	}

	return removed, nil
}

// SweepCache reclaims bookkeeping left behind by expired cache entries.
func (s *SearchService) SweepCache(ctx context.Context) (int64, error) {
	return s.cache.Sweep(ctx)
}

// ContentCounts returns the number of stored items per source.
func (s *SearchService) ContentCounts(ctx context.Context) (map[domain.SourceType]int64, error) {
	return s.store.Counts(ctx)
}
