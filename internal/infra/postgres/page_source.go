package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"ajax-search-service/internal/domain"
	"ajax-search-service/internal/pagebuilder"
)

// PageSource scans synced page-builder pages. The SQL pass matches terms
// against the title and the raw layout JSON; matched layouts are then
// flattened to plain text through the parsed-page cache so the scorer and
// snippets work on readable content.
type PageSource struct {
	db     *gorm.DB
	parsed domain.ParsedPageCache
	logger *zap.Logger
}

// NewPageSource creates the page-builder adapter.
func NewPageSource(db *gorm.DB, parsed domain.ParsedPageCache, logger *zap.Logger) *PageSource {
	return &PageSource{db: db, parsed: parsed, logger: logger}
}

// Source identifies this adapter.
func (s *PageSource) Source() domain.SourceType {
	return domain.SourcePageBuilder
}

// Search returns published pages matching every term. A missing pages
// table means the page-builder extension is not installed; that is not an
// error, the adapter just contributes nothing.
func (s *PageSource) Search(ctx context.Context, terms []domain.Term, opts domain.SearchOptions, viewer domain.Viewer) ([]domain.ContentItem, error) {
	if len(terms) == 0 {
		return nil, nil
	}
	if !s.db.WithContext(ctx).Migrator().HasTable(&PageModel{}) {
		return nil, nil
	}

	query := s.db.WithContext(ctx).Model(&PageModel{}).Where("state = ?", 1)
	for _, term := range terms {
		pattern := likePattern(term.Text)
		query = query.Where("(title ILIKE ? OR layout ILIKE ?)", pattern, pattern)
	}
	query = applyViewerFilters(query, viewer)

	var models []PageModel
	if err := query.Order("modified DESC").Limit(candidateLimit(opts)).Find(&models).Error; err != nil {
		return nil, fmt.Errorf("searching pages: %w", err)
	}

	items := make([]domain.ContentItem, 0, len(models))
	for _, m := range models {
		items = append(items, domain.ContentItem{
			ID:       m.ID,
			Source:   domain.SourcePageBuilder,
			Title:    m.Title,
			Language: m.Language,
			Created:  m.Created,
			Modified: m.Modified,
			PageText: s.flatten(ctx, m),
		})
	}
	return items, nil
}

// flatten returns the plain text of a page layout, served from the
// parsed-page cache when the layout hash is unchanged. Extraction errors
// degrade to an empty body so a broken layout never fails the search.
func (s *PageSource) flatten(ctx context.Context, m PageModel) string {
	hash := pagebuilder.ContentHash(m.Layout)

	if text, ok, err := s.parsed.Get(ctx, m.ID, hash); err != nil {
		s.logger.Warn("parsed page cache read failed",
			zap.Int64("page_id", m.ID),
			zap.Error(err),
		)
	} else if ok {
		return text
	}

	text, err := pagebuilder.ExtractText(m.Layout)
	if err != nil {
		s.logger.Warn("page layout extraction failed",
			zap.Int64("page_id", m.ID),
			zap.Error(err),
		)
		return ""
	}

	if err := s.parsed.Put(ctx, m.ID, hash, text); err != nil {
		s.logger.Warn("parsed page cache write failed",
			zap.Int64("page_id", m.ID),
			zap.Error(err),
		)
	}
	return text
}

// ParsedPageCache persists flattened layout text in the parsed_pages table.
type ParsedPageCache struct {
	db *gorm.DB
}

// NewParsedPageCache creates the Postgres-backed parse cache.
func NewParsedPageCache(db *gorm.DB) *ParsedPageCache {
	return &ParsedPageCache{db: db}
}

// Get returns the cached text when the stored hash matches.
func (c *ParsedPageCache) Get(ctx context.Context, pageID int64, contentHash string) (string, bool, error) {
	var model ParsedPageModel
	err := c.db.WithContext(ctx).
		Where("page_id = ? AND content_hash = ?", pageID, contentHash).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("reading parsed page: %w", err)
	}
	return model.ParsedContent, true, nil
}

// Put stores freshly extracted text, replacing any previous hash for the page.
func (c *ParsedPageCache) Put(ctx context.Context, pageID int64, contentHash, text string) error {
	model := ParsedPageModel{
		PageID:        pageID,
		ContentHash:   contentHash,
		ParsedContent: text,
		ParsedAt:      time.Now().UTC(),
	}
	err := c.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "page_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"content_hash", "parsed_content", "parsed_at"}),
	}).Create(&model).Error
	if err != nil {
		return fmt.Errorf("storing parsed page: %w", err)
	}
	return nil
}
