package dto

import (
	"time"

	"ajax-search-service/internal/app/service"
	"ajax-search-service/internal/domain"
)

// SearchResultItem represents a single result in the search response.
type SearchResultItem struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	URL       string `json:"url"`
	Type      string `json:"type"`
	TypeLabel string `json:"type_label"`
	Relevance int    `json:"relevance"`
	Snippet   string `json:"snippet"`
	Category  string `json:"category,omitempty"`
	Created   string `json:"created,omitempty"`
}

// typeLabel is the human-readable source name shown next to each result.
func typeLabel(s domain.SourceType) string {
	switch s {
	case domain.SourcePageBuilder:
		return "Page"
	case domain.SourceCustomField:
		return "Custom Field"
	default:
		return "Article"
	}
}

// FromSearchHit converts a scored hit to its response shape.
func FromSearchHit(hit domain.SearchHit) SearchResultItem {
	item := hit.Item

	created := ""
	if !item.Created.IsZero() {
		created = item.Created.Format(time.RFC3339)
	}

	return SearchResultItem{
		ID:        item.ID,
		Title:     item.Title,
		URL:       hit.URL,
		Type:      string(item.Source),
		TypeLabel: typeLabel(item.Source),
		Relevance: hit.Relevance,
		Snippet:   hit.Snippet,
		Category:  item.CategoryTitle,
		Created:   created,
	}
}

// SearchResponse represents the search action response.
type SearchResponse struct {
	Success    bool               `json:"success"`
	Results    []SearchResultItem `json:"results"`
	Total      int                `json:"total"`
	Query      string             `json:"query"`
	SearchTime float64            `json:"search_time"`
	Cached     bool               `json:"cached"`
	Debug      *SearchDebug       `json:"debug,omitempty"`
}

// SearchDebug carries request diagnostics when debug=true.
type SearchDebug struct {
	Terms   []string `json:"terms"`
	Sources []string `json:"sources"`
	Limit   int      `json:"limit"`
	Offset  int      `json:"offset"`
}

// FromSearchResult converts domain.SearchResult to SearchResponse.
// Search time is reported in seconds, matching the widget contract.
func FromSearchResult(result *domain.SearchResult, opts domain.SearchOptions) SearchResponse {
	results := make([]SearchResultItem, len(result.Hits))
	for i, hit := range result.Hits {
		results[i] = FromSearchHit(hit)
	}

	resp := SearchResponse{
		Success:    true,
		Results:    results,
		Total:      result.Total,
		Query:      result.Query,
		SearchTime: result.SearchTime.Seconds(),
		Cached:     result.Cached,
	}

	if opts.Debug {
		terms := make([]string, len(result.Terms))
		for i, term := range result.Terms {
			terms[i] = term.Text
		}
		sources := make([]string, len(opts.Sources))
		for i, source := range opts.Sources {
			sources[i] = string(source)
		}
		resp.Debug = &SearchDebug{
			Terms:   terms,
			Sources: sources,
			Limit:   opts.Limit,
			Offset:  opts.Offset,
		}
	}

	return resp
}

// SuggestResponse represents the suggest action response.
type SuggestResponse struct {
	Success     bool                `json:"success"`
	Query       string              `json:"query"`
	Suggestions []domain.Suggestion `json:"suggestions"`
}

// TrendingResponse represents the trending action response.
type TrendingResponse struct {
	Success   bool               `json:"success"`
	Timeframe string             `json:"timeframe"`
	Trending  []domain.QueryStat `json:"trending"`
}

// AnalyticsResponse represents the analytics action response.
type AnalyticsResponse struct {
	Success   bool                     `json:"success"`
	Analytics *domain.AnalyticsSummary `json:"analytics"`
}

// StatsResponse represents the stats action response.
type StatsResponse struct {
	Success bool              `json:"success"`
	Cache   domain.CacheStats `json:"cache"`
	Content map[string]int64  `json:"content"`
}

// ClearCacheResponse represents the clear_cache action response.
type ClearCacheResponse struct {
	Success bool  `json:"success"`
	Cleared int64 `json:"cleared"`
}

// SyncResultResponse represents the response for one feed's sync.
type SyncResultResponse struct {
	Feed     string `json:"feed"`
	Articles int    `json:"articles"`
	Pages    int    `json:"pages"`
	Duration string `json:"duration"`
	Error    string `json:"error,omitempty"`
}

// SyncResponse represents the response for the sync all operation.
type SyncResponse struct {
	Results []SyncResultResponse `json:"results"`
	Summary SyncSummary          `json:"summary"`
}

// SyncSummary holds summary of a sync operation.
type SyncSummary struct {
	ArticlesSynced int `json:"articles_synced"`
	PagesSynced    int `json:"pages_synced"`
	FeedsOK        int `json:"feeds_ok"`
	FeedsFail      int `json:"feeds_fail"`
}

// FromSyncResults converts service.SyncResult slice to SyncResponse.
func FromSyncResults(results []service.SyncResult) SyncResponse {
	resp := SyncResponse{
		Results: make([]SyncResultResponse, len(results)),
	}

	for i, r := range results {
		errMsg := ""
		if r.Error != nil {
			errMsg = r.Error.Error()
			resp.Summary.FeedsFail++
		} else {
			resp.Summary.ArticlesSynced += r.Articles
			resp.Summary.PagesSynced += r.Pages
			resp.Summary.FeedsOK++
		}

		resp.Results[i] = SyncResultResponse{
			Feed:     r.Feed,
			Articles: r.Articles,
			Pages:    r.Pages,
			Duration: r.Duration.String(),
			Error:    errMsg,
		}
	}

	return resp
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   string      `json:"error"`
	Code    string      `json:"code,omitempty"`
	Details interface{} `json:"details,omitempty"`
}
