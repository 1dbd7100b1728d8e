package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// SuggestionCatalog answers the raw corpus lookups behind autocomplete.
// Every method takes the partial query and returns bare matching strings;
// ranking and deduplication happen in the suggest service.
type SuggestionCatalog struct {
	db *gorm.DB
}

// NewSuggestionCatalog creates the Postgres suggestion catalog.
func NewSuggestionCatalog(db *gorm.DB) *SuggestionCatalog {
	return &SuggestionCatalog{db: db}
}

// PopularQueries returns past queries containing the partial, most
// frequent first. Searches that found nothing are excluded so dead ends
// are never suggested.
func (c *SuggestionCatalog) PopularQueries(ctx context.Context, partial string, limit int) ([]string, error) {
	var queries []string
	err := c.db.WithContext(ctx).Raw(`
		SELECT query
		FROM search_analytics
		WHERE zero_results = FALSE AND query ILIKE ?
		GROUP BY query
		ORDER BY COUNT(*) DESC
		LIMIT ?`,
		likePattern(partial), limit,
	).Scan(&queries).Error
	if err != nil {
		return nil, fmt.Errorf("loading popular queries: %w", err)
	}
	return queries, nil
}

// ArticleTitles returns published article titles containing the partial.
func (c *SuggestionCatalog) ArticleTitles(ctx context.Context, partial, language string, limit int) ([]string, error) {
	query := c.db.WithContext(ctx).
		Model(&ArticleModel{}).
		Distinct("title").
		Where("state = ? AND title ILIKE ?", 1, likePattern(partial))
	if language != "" {
		query = query.Where("language IN ?", []string{language, "*"})
	}

	var titles []string
	if err := query.Limit(limit).Pluck("title", &titles).Error; err != nil {
		return nil, fmt.Errorf("loading article titles: %w", err)
	}
	return titles, nil
}

// CategoryTitles returns category titles containing the partial.
func (c *SuggestionCatalog) CategoryTitles(ctx context.Context, partial, language string, limit int) ([]string, error) {
	query := c.db.WithContext(ctx).
		Model(&CategoryModel{}).
		Distinct("title").
		Where("title ILIKE ?", likePattern(partial))
	if language != "" {
		query = query.Where("language IN ?", []string{language, "*"})
	}

	var titles []string
	if err := query.Limit(limit).Pluck("title", &titles).Error; err != nil {
		return nil, fmt.Errorf("loading category titles: %w", err)
	}
	return titles, nil
}

// TagNames returns distinct tag names containing the partial. Tags live
// as text arrays on articles, so the lookup unnests them.
func (c *SuggestionCatalog) TagNames(ctx context.Context, partial string, limit int) ([]string, error) {
	var tags []string
	err := c.db.WithContext(ctx).Raw(`
		SELECT DISTINCT tag
		FROM (SELECT unnest(tags) AS tag FROM articles WHERE state = 1) t
		WHERE tag ILIKE ?
		LIMIT ?`,
		likePattern(partial), limit,
	).Scan(&tags).Error
	if err != nil {
		return nil, fmt.Errorf("loading tag names: %w", err)
	}
	return tags, nil
}

// FieldValues returns short custom field values containing the partial.
// Long values are excluded because they make unusable suggestions.
func (c *SuggestionCatalog) FieldValues(ctx context.Context, partial string, limit int) ([]string, error) {
	var values []string
	err := c.db.WithContext(ctx).Raw(`
		SELECT DISTINCT v.value
		FROM field_values v
		JOIN fields f ON f.id = v.field_id
		WHERE f.state = 1
		  AND f.type IN ?
		  AND char_length(v.value) <= 100
		  AND v.value ILIKE ?
		LIMIT ?`,
		searchableFieldTypes, likePattern(partial), limit,
	).Scan(&values).Error
	if err != nil {
		return nil, fmt.Errorf("loading field values: %w", err)
	}
	return values, nil
}
