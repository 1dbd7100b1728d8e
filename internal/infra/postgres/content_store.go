package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"ajax-search-service/internal/domain"
)

// ContentStore persists synced CMS content. Upserts key on the CMS ids so
// repeated syncs converge instead of duplicating rows.
type ContentStore struct {
	db *gorm.DB
}

// NewContentStore creates the Postgres content store.
func NewContentStore(db *gorm.DB) *ContentStore {
	return &ContentStore{db: db}
}

var articleUpsertColumns = []string{
	"title", "alias", "intro_text", "full_text", "meta_keywords",
	"meta_description", "state", "access_level", "language", "category_id",
	"tags", "created", "modified", "synced_at",
}

var pageUpsertColumns = []string{
	"title", "layout", "state", "access_level", "language",
	"created", "modified", "synced_at",
}

// UpsertArticles stores articles together with their categories, custom
// field definitions and field values in one transaction.
func (s *ContentStore) UpsertArticles(ctx context.Context, records []domain.ArticleRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	articles := make([]ArticleModel, 0, len(records))
	articleIDs := make([]int64, 0, len(records))
	categories := make(map[int64]CategoryModel)
	fields := make(map[int64]FieldModel)
	var values []FieldValueModel

	for _, rec := range records {
		articles = append(articles, articleFromRecord(rec))
		articleIDs = append(articleIDs, rec.ID)

		if rec.CategoryID > 0 {
			categories[rec.CategoryID] = CategoryModel{
				ID:       rec.CategoryID,
				Title:    rec.CategoryTitle,
				Alias:    rec.CategoryAlias,
				Language: defaultLanguage(rec.Language),
			}
		}
		for _, fv := range rec.Fields {
			fields[fv.FieldID] = FieldModel{
				ID:    fv.FieldID,
				Name:  fv.Name,
				Title: fv.Title,
				Type:  fv.Type,
				State: 1,
			}
			values = append(values, FieldValueModel{
				FieldID:   fv.FieldID,
				ArticleID: rec.ID,
				Value:     fv.Value,
			})
		}
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns(articleUpsertColumns),
		}).CreateInBatches(articles, 100).Error; err != nil {
			return fmt.Errorf("upserting articles: %w", err)
		}

		if len(categories) > 0 {
			list := make([]CategoryModel, 0, len(categories))
			for _, cat := range categories {
				list = append(list, cat)
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				DoUpdates: clause.AssignmentColumns([]string{"title", "alias", "language"}),
			}).CreateInBatches(list, 100).Error; err != nil {
				return fmt.Errorf("upserting categories: %w", err)
			}
		}

		if len(fields) > 0 {
			list := make([]FieldModel, 0, len(fields))
			for _, f := range fields {
				list = append(list, f)
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				DoUpdates: clause.AssignmentColumns([]string{"name", "title", "type", "state"}),
			}).CreateInBatches(list, 100).Error; err != nil {
				return fmt.Errorf("upserting fields: %w", err)
			}
		}

		// Field values are replaced wholesale per article so removed values
		// disappear from the index.
		if err := tx.Where("article_id IN ?", articleIDs).Delete(&FieldValueModel{}).Error; err != nil {
			return fmt.Errorf("clearing field values: %w", err)
		}
		if len(values) > 0 {
			if err := tx.CreateInBatches(values, 100).Error; err != nil {
				return fmt.Errorf("inserting field values: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(records), nil
}

// UpsertPages stores page-builder pages.
func (s *ContentStore) UpsertPages(ctx context.Context, records []domain.PageRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	pages := make([]PageModel, len(records))
	for i, rec := range records {
		pages[i] = pageFromRecord(rec)
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns(pageUpsertColumns),
	}).CreateInBatches(pages, 100).Error
	if err != nil {
		return 0, fmt.Errorf("upserting pages: %w", err)
	}
	return len(records), nil
}

// Counts returns the number of published items per source.
func (s *ContentStore) Counts(ctx context.Context) (map[domain.SourceType]int64, error) {
	counts := make(map[domain.SourceType]int64, 3)

	var articles int64
	if err := s.db.WithContext(ctx).Model(&ArticleModel{}).Where("state = ?", 1).Count(&articles).Error; err != nil {
		return nil, fmt.Errorf("counting articles: %w", err)
	}
	counts[domain.SourceArticle] = articles

	var pages int64
	if err := s.db.WithContext(ctx).Model(&PageModel{}).Where("state = ?", 1).Count(&pages).Error; err != nil {
		return nil, fmt.Errorf("counting pages: %w", err)
	}
	counts[domain.SourcePageBuilder] = pages

	var withFields int64
	err := s.db.WithContext(ctx).
		Model(&FieldValueModel{}).
		Distinct("article_id").
		Count(&withFields).Error
	if err != nil {
		return nil, fmt.Errorf("counting field values: %w", err)
	}
	counts[domain.SourceCustomField] = withFields

	return counts, nil
}
