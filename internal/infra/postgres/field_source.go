package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"ajax-search-service/internal/domain"
)

// searchableFieldTypes are the custom field types whose values are worth
// scanning. Media, calendar and similar structured types are excluded.
var searchableFieldTypes = []string{
	"text", "textarea", "editor", "list", "radio", "checkbox", "sql", "url",
}

// fieldTypeWeightSQL maps a field type to its match weight inside the SQL
// relevance expression: rich text counts more than constrained inputs.
const fieldTypeWeightSQL = `CASE f.type
	WHEN 'editor' THEN 5
	WHEN 'text' THEN 4
	WHEN 'textarea' THEN 4
	WHEN 'url' THEN 2
	ELSE 3
END`

// minFieldRelevance drops articles whose field matches sum below this.
const minFieldRelevance = 1

// FieldSource finds articles through their custom field values. Relevance
// pre-ranking happens in SQL so only meaningful matches reach the scorer;
// the matched field titles and values travel with the item.
type FieldSource struct {
	db *gorm.DB
}

// NewFieldSource creates the custom-field adapter.
func NewFieldSource(db *gorm.DB) *FieldSource {
	return &FieldSource{db: db}
}

// Source identifies this adapter.
func (s *FieldSource) Source() domain.SourceType {
	return domain.SourceCustomField
}

type fieldMatchRow struct {
	ID              int64
	Title           string
	Alias           string
	IntroText       string
	MetaKeywords    string
	MetaDescription string
	CategoryID      int64
	Language        string
	Created         time.Time
	Modified        time.Time
	MatchedFields   string
	FieldMatchCount int
	FieldText       string
	MatchWeight     int
}

// Search returns articles whose custom field values contain every term.
func (s *FieldSource) Search(ctx context.Context, terms []domain.Term, opts domain.SearchOptions, viewer domain.Viewer) ([]domain.ContentItem, error) {
	if len(terms) == 0 {
		return nil, nil
	}

	relevanceParts := make([]string, len(terms))
	relevanceArgs := make([]any, len(terms))
	matchParts := make([]string, len(terms))
	matchArgs := make([]any, len(terms))
	for i, term := range terms {
		relevanceParts[i] = "SUM(CASE WHEN v.value ILIKE ? THEN " + fieldTypeWeightSQL + " ELSE 0 END)"
		relevanceArgs[i] = likePattern(term.Text)
		matchParts[i] = "v.value ILIKE ?"
		matchArgs[i] = likePattern(term.Text)
	}
	relevanceExpr := strings.Join(relevanceParts, " + ")

	var sql strings.Builder
	var args []any

	sql.WriteString(`
		SELECT
			c.id, c.title, c.alias, c.intro_text, c.meta_keywords, c.meta_description,
			c.category_id, c.language, c.created, c.modified,
			string_agg(DISTINCT f.title, ', ') AS matched_fields,
			COUNT(DISTINCT f.id) AS field_match_count,
			string_agg(DISTINCT v.value, ' ') AS field_text,
			` + relevanceExpr + ` AS match_weight
		FROM field_values v
		JOIN fields f ON f.id = v.field_id
		JOIN articles c ON c.id = v.article_id
		WHERE f.state = 1
		  AND f.type IN ?
		  AND c.state = 1
		  AND ` + strings.Join(matchParts, " AND "))
	args = append(args, relevanceArgs...)
	args = append(args, searchableFieldTypes)
	args = append(args, matchArgs...)

	if len(viewer.AccessLevels) > 0 {
		sql.WriteString(" AND c.access_level IN ?")
		args = append(args, viewer.AccessLevels)
	}
	if viewer.Language != "" {
		sql.WriteString(" AND c.language IN ?")
		args = append(args, []string{viewer.Language, "*"})
	}
	if len(opts.Categories) > 0 {
		sql.WriteString(" AND c.category_id IN ?")
		args = append(args, opts.Categories)
	}

	sql.WriteString(`
		GROUP BY c.id, c.title, c.alias, c.intro_text, c.meta_keywords, c.meta_description,
			c.category_id, c.language, c.created, c.modified
		HAVING ` + relevanceExpr + ` >= ?
		ORDER BY match_weight DESC
		LIMIT ?`)
	args = append(args, relevanceArgs...)
	args = append(args, minFieldRelevance, candidateLimit(opts))

	var rows []fieldMatchRow
	if err := s.db.WithContext(ctx).Raw(sql.String(), args...).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("searching custom fields: %w", err)
	}

	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.CategoryID)
	}
	categories, err := loadCategoryMemo(ctx, s.db, ids)
	if err != nil {
		return nil, err
	}

	items := make([]domain.ContentItem, len(rows))
	for i, row := range rows {
		item := domain.ContentItem{
			ID:              row.ID,
			Source:          domain.SourceCustomField,
			Title:           row.Title,
			Alias:           row.Alias,
			IntroText:       row.IntroText,
			MetaKeywords:    row.MetaKeywords,
			MetaDescription: row.MetaDescription,
			CategoryID:      row.CategoryID,
			Language:        row.Language,
			Created:         row.Created,
			Modified:        row.Modified,
			FieldText:       row.FieldText,
			FieldMatchCount: row.FieldMatchCount,
		}
		if row.MatchedFields != "" {
			item.FieldNames = strings.Split(row.MatchedFields, ", ")
		}
		if cat := categories[row.CategoryID]; cat != nil {
			item.CategoryTitle = cat.Title
			item.CategoryAlias = cat.Alias
		}
		items[i] = item
	}
	return items, nil
}
