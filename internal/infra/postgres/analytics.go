package postgres

import (
	"context"
	"fmt"
	"math"
	"time"

	"gorm.io/gorm"

	"ajax-search-service/internal/domain"
)

// AnalyticsStore appends one row per executed search and answers the
// trending and summary aggregations.
type AnalyticsStore struct {
	db *gorm.DB

	// now is the clock used for timeframe bounds, overridable in tests.
	now func() time.Time
}

// NewAnalyticsStore creates the Postgres analytics store.
func NewAnalyticsStore(db *gorm.DB) *AnalyticsStore {
	return &AnalyticsStore{db: db, now: time.Now}
}

// Record persists one executed search.
func (s *AnalyticsStore) Record(ctx context.Context, event domain.SearchEvent) error {
	model := SearchAnalyticsModel{
		Query:        truncate(event.Query, 255),
		ResultsCount: event.ResultCount,
		ZeroResults:  event.ZeroResults,
		SessionID:    truncate(event.SessionID, 128),
		IPAddress:    truncate(event.IPAddress, 45),
		UserAgent:    truncate(event.UserAgent, 512),
		SearchTimeMS: float64(event.Duration.Microseconds()) / 1000.0,
		CreatedAt:    event.Timestamp,
	}
	if model.CreatedAt.IsZero() {
		model.CreatedAt = s.now().UTC()
	}
	if event.UserID > 0 {
		model.UserID = &event.UserID
	}

	if err := s.db.WithContext(ctx).Create(&model).Error; err != nil {
		return fmt.Errorf("recording search event: %w", err)
	}
	return nil
}

// Popular returns the most frequent queries inside the timeframe together
// with their average result counts and zero-result tallies.
func (s *AnalyticsStore) Popular(ctx context.Context, frame domain.Timeframe, limit int) ([]domain.QueryStat, error) {
	if limit <= 0 {
		limit = 10
	}

	var stats []domain.QueryStat
	err := s.db.WithContext(ctx).Raw(`
		SELECT
			query,
			COUNT(*) AS searches,
			COALESCE(AVG(results_count), 0) AS avg_results,
			SUM(CASE WHEN zero_results THEN 1 ELSE 0 END) AS zero_result_count
		FROM search_analytics
		WHERE created_at >= ?
		GROUP BY query
		ORDER BY searches DESC
		LIMIT ?`,
		frame.Since(s.now()), limit,
	).Scan(&stats).Error
	if err != nil {
		return nil, fmt.Errorf("loading popular queries: %w", err)
	}

	for i := range stats {
		stats[i].AvgResults = round1(stats[i].AvgResults)
	}
	return stats, nil
}

// Summary aggregates the timeframe into the dashboard numbers. Average
// results only counts searches that found something, so the zero-result
// rate and the average stay independent signals.
func (s *AnalyticsStore) Summary(ctx context.Context, frame domain.Timeframe) (*domain.AnalyticsSummary, error) {
	var row struct {
		TotalSearches   int64
		UniqueSearches  int64
		ZeroResultCount int64
		AvgResults      float64
	}
	err := s.db.WithContext(ctx).Raw(`
		SELECT
			COUNT(*) AS total_searches,
			COUNT(DISTINCT query) AS unique_searches,
			COALESCE(SUM(CASE WHEN zero_results THEN 1 ELSE 0 END), 0) AS zero_result_count,
			COALESCE(AVG(CASE WHEN results_count > 0 THEN results_count END), 0) AS avg_results
		FROM search_analytics
		WHERE created_at >= ?`,
		frame.Since(s.now()),
	).Scan(&row).Error
	if err != nil {
		return nil, fmt.Errorf("loading analytics summary: %w", err)
	}

	popular, err := s.Popular(ctx, frame, 5)
	if err != nil {
		return nil, err
	}

	summary := &domain.AnalyticsSummary{
		Timeframe:       frame,
		TotalSearches:   row.TotalSearches,
		UniqueSearches:  row.UniqueSearches,
		ZeroResultCount: row.ZeroResultCount,
		AvgResults:      round1(row.AvgResults),
		PopularSearches: popular,
	}
	if row.TotalSearches > 0 {
		summary.ZeroResultRate = round1(float64(row.ZeroResultCount) / float64(row.TotalSearches) * 100)
	}
	return summary, nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
