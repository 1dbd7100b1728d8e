package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"ajax-search-service/internal/domain"
)

// ArticleSource scans the synced articles table. Every term must match at
// least one of the text columns; results are ordered newest first and the
// scorer re-ranks them afterwards.
type ArticleSource struct {
	db *gorm.DB
}

// NewArticleSource creates the article adapter.
func NewArticleSource(db *gorm.DB) *ArticleSource {
	return &ArticleSource{db: db}
}

// Source identifies this adapter.
func (s *ArticleSource) Source() domain.SourceType {
	return domain.SourceArticle
}

// Search returns published articles matching every term, filtered by the
// viewer's access levels and language and the requested categories.
func (s *ArticleSource) Search(ctx context.Context, terms []domain.Term, opts domain.SearchOptions, viewer domain.Viewer) ([]domain.ContentItem, error) {
	if len(terms) == 0 {
		return nil, nil
	}

	query := s.db.WithContext(ctx).Model(&ArticleModel{}).Where("state = ?", 1)
	for _, term := range terms {
		pattern := likePattern(term.Text)
		query = query.Where(
			"(title ILIKE ? OR intro_text ILIKE ? OR full_text ILIKE ? OR alias ILIKE ? OR meta_keywords ILIKE ? OR meta_description ILIKE ?)",
			pattern, pattern, pattern, pattern, pattern, pattern,
		)
	}
	query = applyViewerFilters(query, viewer)
	if len(opts.Categories) > 0 {
		query = query.Where("category_id IN ?", opts.Categories)
	}

	var models []ArticleModel
	err := query.
		Order("created DESC").
		Limit(candidateLimit(opts)).
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("searching articles: %w", err)
	}

	ids := make([]int64, 0, len(models))
	for _, m := range models {
		ids = append(ids, m.CategoryID)
	}
	categories, err := loadCategoryMemo(ctx, s.db, ids)
	if err != nil {
		return nil, err
	}

	items := make([]domain.ContentItem, len(models))
	for i, m := range models {
		items[i] = itemFromArticle(m, domain.SourceArticle, categories[m.CategoryID])
	}
	return items, nil
}

// loadCategoryMemo fetches the categories referenced by a result set in a
// single query and memoizes them by id for enrichment.
func loadCategoryMemo(ctx context.Context, db *gorm.DB, ids []int64) (map[int64]*CategoryModel, error) {
	unique := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if id > 0 {
			unique[id] = struct{}{}
		}
	}
	if len(unique) == 0 {
		return nil, nil
	}

	list := make([]int64, 0, len(unique))
	for id := range unique {
		list = append(list, id)
	}

	var categories []CategoryModel
	if err := db.WithContext(ctx).Where("id IN ?", list).Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("loading categories: %w", err)
	}

	memo := make(map[int64]*CategoryModel, len(categories))
	for i := range categories {
		memo[categories[i].ID] = &categories[i]
	}
	return memo, nil
}

// applyViewerFilters restricts rows to the viewer's access levels and
// language. Content tagged '*' is visible in every language.
func applyViewerFilters(query *gorm.DB, viewer domain.Viewer) *gorm.DB {
	if len(viewer.AccessLevels) > 0 {
		query = query.Where("access_level IN ?", viewer.AccessLevels)
	}
	if viewer.Language != "" {
		query = query.Where("language IN ?", []string{viewer.Language, "*"})
	}
	return query
}

// candidateLimit over-fetches relative to the requested page so that
// deduplication and re-scoring still leave a full page of results.
func candidateLimit(opts domain.SearchOptions) int {
	limit := (opts.Offset + opts.Limit) * 2
	if limit < 20 {
		limit = 20
	}
	return limit
}
