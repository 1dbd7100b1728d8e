package postgres

import (
	"time"

	"github.com/lib/pq"

	"ajax-search-service/internal/domain"
)

// ArticleModel is the GORM model for synced CMS articles. The primary key
// is the CMS article id, not a local surrogate, so repeated syncs upsert.
type ArticleModel struct {
	ID              int64          `gorm:"primaryKey"`
	Title           string         `gorm:"type:varchar(500);not null"`
	Alias           string         `gorm:"type:varchar(500);not null;default:''"`
	IntroText       string         `gorm:"type:text"`
	FullText        string         `gorm:"type:text"`
	MetaKeywords    string         `gorm:"type:text"`
	MetaDescription string         `gorm:"type:text"`
	State           int            `gorm:"not null;default:0;index"`
	AccessLevel     int64          `gorm:"not null;default:1;index"`
	Language        string         `gorm:"type:varchar(10);not null;default:'*';index"`
	CategoryID      int64          `gorm:"not null;default:0;index"`
	Tags            pq.StringArray `gorm:"type:text[]"`
	Created         time.Time      `gorm:"not null;index"`
	Modified        time.Time      `gorm:"not null"`
	SyncedAt        time.Time      `gorm:"autoUpdateTime"`
}

// TableName returns the table name for ArticleModel.
func (ArticleModel) TableName() string {
	return "articles"
}

// PageModel is the GORM model for synced page-builder pages. Layout holds
// the raw builder JSON exactly as delivered by the CMS.
type PageModel struct {
	ID          int64     `gorm:"primaryKey"`
	Title       string    `gorm:"type:varchar(500);not null"`
	Layout      string    `gorm:"type:text"`
	State       int       `gorm:"not null;default:0;index"`
	AccessLevel int64     `gorm:"not null;default:1;index"`
	Language    string    `gorm:"type:varchar(10);not null;default:'*';index"`
	Created     time.Time `gorm:"not null"`
	Modified    time.Time `gorm:"not null"`
	SyncedAt    time.Time `gorm:"autoUpdateTime"`
}

// TableName returns the table name for PageModel.
func (PageModel) TableName() string {
	return "pages"
}

// CategoryModel holds category titles and aliases for result enrichment
// and suggestions.
type CategoryModel struct {
	ID       int64  `gorm:"primaryKey"`
	Title    string `gorm:"type:varchar(255);not null"`
	Alias    string `gorm:"type:varchar(255);not null;default:''"`
	Language string `gorm:"type:varchar(10);not null;default:'*'"`
}

// TableName returns the table name for CategoryModel.
func (CategoryModel) TableName() string {
	return "categories"
}

// FieldModel is a custom field definition.
type FieldModel struct {
	ID    int64  `gorm:"primaryKey"`
	Name  string `gorm:"type:varchar(255);not null"`
	Title string `gorm:"type:varchar(255);not null"`
	Type  string `gorm:"type:varchar(50);not null;index"`
	State int    `gorm:"not null;default:0;index"`
}

// TableName returns the table name for FieldModel.
func (FieldModel) TableName() string {
	return "fields"
}

// FieldValueModel is one custom field value attached to an article.
type FieldValueModel struct {
	FieldID   int64  `gorm:"primaryKey;autoIncrement:false"`
	ArticleID int64  `gorm:"primaryKey;autoIncrement:false;index"`
	Value     string `gorm:"type:text"`
}

// TableName returns the table name for FieldValueModel.
func (FieldValueModel) TableName() string {
	return "field_values"
}

// ParsedPageModel caches the flattened text of a page-builder layout keyed
// by page id and layout hash.
type ParsedPageModel struct {
	PageID        int64     `gorm:"primaryKey;autoIncrement:false"`
	ContentHash   string    `gorm:"type:varchar(32);not null"`
	ParsedContent string    `gorm:"type:text"`
	ParsedAt      time.Time `gorm:"not null"`
}

// TableName returns the table name for ParsedPageModel.
func (ParsedPageModel) TableName() string {
	return "parsed_pages"
}

// SearchAnalyticsModel records one executed search.
type SearchAnalyticsModel struct {
	ID           int64     `gorm:"primaryKey;autoIncrement"`
	Query        string    `gorm:"type:varchar(255);not null;index"`
	ResultsCount int       `gorm:"not null;default:0"`
	ZeroResults  bool      `gorm:"not null;default:false;index"`
	UserID       *int64    `gorm:""`
	SessionID    string    `gorm:"type:varchar(128)"`
	IPAddress    string    `gorm:"type:varchar(45)"`
	UserAgent    string    `gorm:"type:varchar(512)"`
	SearchTimeMS float64   `gorm:"not null;default:0"`
	CreatedAt    time.Time `gorm:"not null;index"`
}

// TableName returns the table name for SearchAnalyticsModel.
func (SearchAnalyticsModel) TableName() string {
	return "search_analytics"
}

// articleFromRecord maps a feed record onto the article row.
func articleFromRecord(rec domain.ArticleRecord) ArticleModel {
	return ArticleModel{
		ID:              rec.ID,
		Title:           rec.Title,
		Alias:           rec.Alias,
		IntroText:       rec.IntroText,
		FullText:        rec.FullText,
		MetaKeywords:    rec.MetaKeywords,
		MetaDescription: rec.MetaDescription,
		State:           rec.State,
		AccessLevel:     rec.AccessLevel,
		Language:        defaultLanguage(rec.Language),
		CategoryID:      rec.CategoryID,
		Tags:            pq.StringArray(rec.Tags),
		Created:         rec.Created,
		Modified:        rec.Modified,
	}
}

// pageFromRecord maps a feed record onto the page row.
func pageFromRecord(rec domain.PageRecord) PageModel {
	return PageModel{
		ID:          rec.ID,
		Title:       rec.Title,
		Layout:      rec.Layout,
		State:       rec.State,
		AccessLevel: rec.AccessLevel,
		Language:    defaultLanguage(rec.Language),
		Created:     rec.Created,
		Modified:    rec.Modified,
	}
}

// itemFromArticle converts an article row plus its category into the
// domain item handed to the scorer.
func itemFromArticle(m ArticleModel, source domain.SourceType, cat *CategoryModel) domain.ContentItem {
	item := domain.ContentItem{
		ID:              m.ID,
		Source:          source,
		Title:           m.Title,
		Alias:           m.Alias,
		IntroText:       m.IntroText,
		FullText:        m.FullText,
		MetaKeywords:    m.MetaKeywords,
		MetaDescription: m.MetaDescription,
		CategoryID:      m.CategoryID,
		Tags:            m.Tags,
		Language:        m.Language,
		Created:         m.Created,
		Modified:        m.Modified,
	}
	if cat != nil {
		item.CategoryTitle = cat.Title
		item.CategoryAlias = cat.Alias
	}
	return item
}

func defaultLanguage(lang string) string {
	if lang == "" {
		return "*"
	}
	return lang
}
