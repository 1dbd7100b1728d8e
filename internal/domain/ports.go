package domain

import (
	"context"
	"time"
)

// SourceAdapter retrieves candidate items from one content source.
//
// Implementations:
//   - internal/infra/postgres.ArticleSource (article table scan)
//   - internal/infra/postgres.PageSource (page-builder pages)
//   - internal/infra/postgres.FieldSource (custom field values)
type SourceAdapter interface {
	// Source identifies which content source this adapter serves.
	Source() SourceType

	// Search returns all items matching every term, already filtered by the
	// viewer's access levels, language and the requested categories.
	// A missing backing table is not an error; the adapter returns nothing.
	Search(ctx context.Context, terms []Term, opts SearchOptions, viewer Viewer) ([]ContentItem, error)
}

// CachedResult is a stored search response plus its bookkeeping fields.
type CachedResult struct {
	Query     string      `json:"query"`
	Language  string      `json:"language"`
	Access    string      `json:"access"`
	Hits      []SearchHit `json:"hits"`
	Total     int         `json:"total"`
	HitCount  int64       `json:"hit_count"`
	CreatedAt time.Time   `json:"created_at"`
}

// CacheStats summarizes the result cache.
type CacheStats struct {
	Entries   int64   `json:"total_entries"`
	TotalHits int64   `json:"total_hits"`
	SizeKB    float64 `json:"total_size_kb"`
}

// ResultCache stores finished search responses keyed by request
// fingerprint. Entries expire on their own; Sweep only reclaims the
// bookkeeping left behind by expired entries.
//
// Implementations:
//   - internal/infra/redis.ResultCache
type ResultCache interface {
	// Get returns the cached result or nil when absent or expired.
	// A successful read increments the entry's hit counter.
	Get(ctx context.Context, fingerprint string) (*CachedResult, error)

	// Set stores a result under the fingerprint. Overwriting an existing
	// entry preserves its accumulated hit count; new entries start at zero.
	Set(ctx context.Context, fingerprint string, result CachedResult, ttl time.Duration) error

	// Clear drops every cached result.
	Clear(ctx context.Context) (int64, error)

	// Sweep removes bookkeeping for entries that already expired and
	// returns how many were reclaimed.
	Sweep(ctx context.Context) (int64, error)

	// Stats aggregates entry count, hit totals and approximate size.
	Stats(ctx context.Context) (CacheStats, error)
}

// AnalyticsStore records search executions and answers aggregate queries.
//
// Implementations:
//   - internal/infra/postgres.AnalyticsStore
type AnalyticsStore interface {
	// Record persists one executed search.
	Record(ctx context.Context, event SearchEvent) error

	// Popular returns the most frequent queries inside the timeframe.
	Popular(ctx context.Context, frame Timeframe, limit int) ([]QueryStat, error)

	// Summary aggregates totals, zero-result rate and popular queries for
	// the timeframe.
	Summary(ctx context.Context, frame Timeframe) (*AnalyticsSummary, error)
}

// SuggestionCatalog exposes the text corpora that autocomplete draws from.
// Each method returns raw matching strings; ranking happens in the service.
//
// Implementations:
//   - internal/infra/postgres.SuggestionCatalog
type SuggestionCatalog interface {
	PopularQueries(ctx context.Context, partial string, limit int) ([]string, error)
	ArticleTitles(ctx context.Context, partial, language string, limit int) ([]string, error)
	CategoryTitles(ctx context.Context, partial, language string, limit int) ([]string, error)
	TagNames(ctx context.Context, partial string, limit int) ([]string, error)
	FieldValues(ctx context.Context, partial string, limit int) ([]string, error)
}

// ContentFeed pulls content from the upstream CMS for ingestion.
//
// Implementations:
//   - internal/infra/cms.Client
type ContentFeed interface {
	// Name identifies the feed in logs and sync results.
	Name() string

	// FetchArticles returns all published articles with their categories,
	// tags and custom field values.
	FetchArticles(ctx context.Context) ([]ArticleRecord, error)

	// FetchPages returns all published page-builder pages with their raw
	// layout JSON.
	FetchPages(ctx context.Context) ([]PageRecord, error)

	// HealthCheck verifies the upstream API is reachable.
	HealthCheck(ctx context.Context) error
}

// ContentStore persists ingested content for the source adapters to scan.
//
// Implementations:
//   - internal/infra/postgres.ContentStore
type ContentStore interface {
	UpsertArticles(ctx context.Context, articles []ArticleRecord) (int, error)
	UpsertPages(ctx context.Context, pages []PageRecord) (int, error)

	// Counts returns the number of stored items per source.
	Counts(ctx context.Context) (map[SourceType]int64, error)
}

// ParsedPageCache memoizes flattened page-builder text keyed by page id and
// layout hash, so unchanged layouts are never re-parsed.
//
// Implementations:
//   - internal/infra/postgres.ParsedPageCache
type ParsedPageCache interface {
	// Get returns the cached text and whether the (id, hash) pair was found.
	Get(ctx context.Context, pageID int64, contentHash string) (string, bool, error)

	// Put stores freshly extracted text, replacing any stale hash for the page.
	Put(ctx context.Context, pageID int64, contentHash, text string) error
}
