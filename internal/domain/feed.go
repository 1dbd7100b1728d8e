package domain

import "time"

// ArticleRecord is one article as delivered by the CMS feed, complete with
// the category, tag and custom-field data the search index needs.
type ArticleRecord struct {
	ID              int64
	Title           string
	Alias           string
	IntroText       string
	FullText        string
	MetaKeywords    string
	MetaDescription string
	State           int
	AccessLevel     int64
	Language        string
	CategoryID      int64
	CategoryTitle   string
	CategoryAlias   string
	Tags            []string
	Created         time.Time
	Modified        time.Time
	Fields          []FieldValueRecord
}

// FieldValueRecord is one custom field value attached to an article.
type FieldValueRecord struct {
	FieldID int64
	Name    string
	Title   string
	Type    string
	Value   string
}

// PageRecord is one page-builder page from the CMS feed. Layout holds the
// raw builder JSON; the text extractor flattens it at search time.
type PageRecord struct {
	ID          int64
	Title       string
	Layout      string
	State       int
	AccessLevel int64
	Language    string
	Created     time.Time
	Modified    time.Time
}
