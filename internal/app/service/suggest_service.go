package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"ajax-search-service/internal/domain"
)

// Suggestion bounds.
const (
	minSuggestLength    = 2
	defaultSuggestLimit = 10
	maxSuggestLimit     = 20
	fieldValueLimit     = 5
)

// SuggestService builds autocomplete suggestions and serves the analytics
// read side.
type SuggestService struct {
	catalog   domain.SuggestionCatalog
	analytics domain.AnalyticsStore
	logger    *zap.Logger
}

// NewSuggestService creates a new SuggestService.
func NewSuggestService(catalog domain.SuggestionCatalog, analytics domain.AnalyticsStore, logger *zap.Logger) *SuggestService {
	return &SuggestService{
		catalog:   catalog,
		analytics: analytics,
		logger:    logger,
	}
}

// Suggest returns ranked autocomplete candidates for a partial query. The
// partial itself is always the first suggestion. A failing catalog source
// only loses its own candidates.
func (s *SuggestService) Suggest(ctx context.Context, partial, language string, limit int) ([]domain.Suggestion, error) {
	partial = strings.TrimSpace(partial)
	if len(partial) < minSuggestLength {
		return []domain.Suggestion{}, nil
	}
	if limit < 1 || limit > maxSuggestLimit {
		limit = defaultSuggestLimit
	}

	candidates := []domain.Suggestion{{
		Text:      partial,
		Source:    domain.SuggestionCurrent,
		Relevance: domain.SuggestionRelevance(domain.SuggestionCurrent, partial, partial),
	}}

	collect := func(source string, texts []string, err error) {
		if err != nil {
			s.logger.Warn("suggestion source failed",
				zap.String("source", source),
				zap.Error(err),
			)

			return
		}
		for _, text := range texts {
			candidates = append(candidates, domain.Suggestion{
				Text:      text,
				Source:    source,
				Relevance: domain.SuggestionRelevance(source, text, partial),
			})
		}
	}

	popular, err := s.catalog.PopularQueries(ctx, partial, limit)
	collect(domain.SuggestionPopular, popular, err)

	titles, err := s.catalog.ArticleTitles(ctx, partial, language, limit)
	collect(domain.SuggestionArticle, titles, err)

	categories, err := s.catalog.CategoryTitles(ctx, partial, language, limit)
	collect(domain.SuggestionCategory, categories, err)

	tags, err := s.catalog.TagNames(ctx, partial, limit)
	collect(domain.SuggestionTag, tags, err)

	fields, err := s.catalog.FieldValues(ctx, partial, min(fieldValueLimit, limit))
	collect(domain.SuggestionField, fields, err)

	return domain.RankSuggestions(candidates, limit), nil
}

// Trending returns the most frequent queries inside the timeframe.
func (s *SuggestService) Trending(ctx context.Context, frame domain.Timeframe, limit int) ([]domain.QueryStat, error) {
	if limit < 1 || limit > maxSuggestLimit {
		limit = defaultSuggestLimit
	}

	stats, err := s.analytics.Popular(ctx, frame, limit)
	if err != nil {
		s.logger.Error("trending query failed",
			zap.String("timeframe", string(frame)),
			zap.Error(err),
		)

		return nil, err
	}

	return stats, nil
}

// Summary aggregates search activity for the timeframe.
func (s *SuggestService) Summary(ctx context.Context, frame domain.Timeframe) (*domain.AnalyticsSummary, error) {
	summary, err := s.analytics.Summary(ctx, frame)
	if err != nil {
		s.logger.Error("analytics summary failed",
			zap.String("timeframe", string(frame)),
			zap.Error(err),
		)

		return nil, err
	}

	return summary, nil
}
