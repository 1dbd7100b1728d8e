package domain

import "time"

// Timeframe selects the aggregation window for analytics queries.
type Timeframe string

const (
	TimeframeToday Timeframe = "today"
	TimeframeWeek  Timeframe = "week"
	TimeframeMonth Timeframe = "month"
)

// ParseTimeframe maps a request parameter onto a known window, defaulting
// to the weekly view.
func ParseTimeframe(raw string) Timeframe {
	switch Timeframe(raw) {
	case TimeframeToday, TimeframeWeek, TimeframeMonth:
		return Timeframe(raw)
	default:
		return TimeframeWeek
	}
}

// Since returns the inclusive lower bound of the window relative to now.
// Today starts at local midnight; week and month are rolling windows.
func (t Timeframe) Since(now time.Time) time.Time {
	switch t {
	case TimeframeToday:
		year, month, day := now.Date()
		return time.Date(year, month, day, 0, 0, 0, 0, now.Location())
	case TimeframeMonth:
		return now.AddDate(0, 0, -30)
	default:
		return now.AddDate(0, 0, -7)
	}
}

// SearchEvent is one recorded search execution.
type SearchEvent struct {
	Query       string
	ResultCount int
	ZeroResults bool
	UserID      int64
	SessionID   string
	IPAddress   string
	UserAgent   string
	Duration    time.Duration
	Timestamp   time.Time
}

// QueryStat aggregates one query's activity inside a timeframe.
type QueryStat struct {
	Query           string  `json:"query"`
	Searches        int64   `json:"searches"`
	AvgResults      float64 `json:"avg_results"`
	ZeroResultCount int64   `json:"zero_result_searches"`
}

// AnalyticsSummary is the dashboard-level aggregate for a timeframe.
type AnalyticsSummary struct {
	Timeframe       Timeframe   `json:"timeframe"`
	TotalSearches   int64       `json:"total_searches"`
	UniqueSearches  int64       `json:"unique_searches"`
	ZeroResultCount int64       `json:"zero_result_searches"`
	ZeroResultRate  float64     `json:"zero_result_rate"`
	AvgResults      float64     `json:"avg_results"`
	PopularSearches []QueryStat `json:"popular_searches"`
}
