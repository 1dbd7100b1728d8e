// Package domain contains the core business entities and logic for the
// multi-source content search engine.
package domain

import (
	"fmt"
	"strings"
	"time"
)

// SourceType identifies which content source an item was retrieved from.
type SourceType string

const (
	SourceArticle     SourceType = "article"
	SourcePageBuilder SourceType = "sppagebuilder"
	SourceCustomField SourceType = "custom"
)

// IsValid checks if the source type is one of the known sources.
func (s SourceType) IsValid() bool {
	switch s {
	case SourceArticle, SourcePageBuilder, SourceCustomField:
		return true
	}
	return false
}

// Coefficient returns the source-level score multiplier. Page-builder pages
// get a small boost, custom-field matches a small penalty.
func (s SourceType) Coefficient() float64 {
	switch s {
	case SourcePageBuilder:
		return 1.1
	case SourceCustomField:
		return 0.9
	default:
		return 1.0
	}
}

// Field names used for weighting. Each searchable field of an item carries
// one of these names; the scorer resolves its weight from the weight table.
const (
	FieldTitle              = "title"
	FieldIntroText          = "introtext"
	FieldFullText           = "fulltext"
	FieldCustomFields       = "custom_fields"
	FieldPageBuilderTitle   = "sppagebuilder_title"
	FieldPageBuilderContent = "sppagebuilder_content"
	FieldMetaKeywords       = "meta_keywords"
	FieldMetaDescription    = "meta_description"
	FieldAlias              = "alias"
	FieldCategoryTitle      = "category_title"
	FieldTags               = "tags"
)

// DefaultFieldWeights is the baseline weight of each searchable field.
// Titles dominate, metadata fields sit in between, body text is cheapest.
func DefaultFieldWeights() map[string]float64 {
	return map[string]float64{
		FieldTitle:              10,
		FieldIntroText:          5,
		FieldFullText:           3,
		FieldCustomFields:       4,
		FieldPageBuilderTitle:   10,
		FieldPageBuilderContent: 5,
		FieldMetaKeywords:       8,
		FieldMetaDescription:    6,
		FieldAlias:              7,
		FieldCategoryTitle:      3,
		FieldTags:               4,
	}
}

// FieldText is one searchable field of a content item, paired with the
// weight-table name the scorer should use for it.
type FieldText struct {
	Name string
	Text string
}

// ContentItem is a single piece of content returned by a source adapter.
// It is a tagged union over the three sources: articles fill the article
// fields, page-builder pages fill PageText, custom-field matches fill the
// Field* members in addition to the owning article's fields.
type ContentItem struct {
	ID     int64
	Source SourceType

	Title           string
	Alias           string
	IntroText       string
	FullText        string
	MetaKeywords    string
	MetaDescription string

	CategoryID    int64
	CategoryTitle string
	CategoryAlias string
	Tags          []string

	Language string
	Created  time.Time
	Modified time.Time

	// Page-builder pages only: flattened text extracted from the layout JSON.
	PageText string

	// Custom-field matches only.
	FieldText       string
	FieldNames      []string
	FieldMatchCount int
}

// Key returns the deduplication key. A custom-field match is the same
// underlying article found through its fields, so it shares the article
// key and collapses with a plain-text match of that article. Page-builder
// pages live in their own id space and never collide with articles.
func (c ContentItem) Key() string {
	source := c.Source
	if source == SourceCustomField {
		source = SourceArticle
	}
	return fmt.Sprintf("%s_%d", source, c.ID)
}

// SearchableFields returns the weighted fields of the item for its source.
// Empty fields are skipped.
func (c ContentItem) SearchableFields() []FieldText {
	var fields []FieldText
	add := func(name, text string) {
		if strings.TrimSpace(text) != "" {
			fields = append(fields, FieldText{Name: name, Text: text})
		}
	}

	switch c.Source {
	case SourcePageBuilder:
		add(FieldPageBuilderTitle, c.Title)
		add(FieldPageBuilderContent, c.PageText)
	case SourceCustomField:
		add(FieldTitle, c.Title)
		add(FieldIntroText, c.IntroText)
		add(FieldCustomFields, c.FieldText)
		add(FieldCategoryTitle, c.CategoryTitle)
	default:
		add(FieldTitle, c.Title)
		add(FieldIntroText, c.IntroText)
		add(FieldFullText, c.FullText)
		add(FieldAlias, c.Alias)
		add(FieldMetaKeywords, c.MetaKeywords)
		add(FieldMetaDescription, c.MetaDescription)
		add(FieldCategoryTitle, c.CategoryTitle)
		add(FieldTags, strings.Join(c.Tags, " "))
	}

	return fields
}

// BodyText returns the text used for snippet generation.
func (c ContentItem) BodyText() string {
	switch c.Source {
	case SourcePageBuilder:
		return c.PageText
	case SourceCustomField:
		if c.FieldText != "" {
			return strings.TrimSpace(c.IntroText + " " + c.FieldText)
		}
		return strings.TrimSpace(c.IntroText + " " + c.FullText)
	default:
		return strings.TrimSpace(c.IntroText + " " + c.FullText)
	}
}

// RouteURL builds the CMS-relative URL of the item.
func (c ContentItem) RouteURL() string {
	switch c.Source {
	case SourcePageBuilder:
		return fmt.Sprintf("index.php?option=com_sppagebuilder&view=page&id=%d", c.ID)
	default:
		id := fmt.Sprintf("%d", c.ID)
		if c.Alias != "" {
			id += ":" + c.Alias
		}
		catid := fmt.Sprintf("%d", c.CategoryID)
		if c.CategoryAlias != "" {
			catid += ":" + c.CategoryAlias
		}
		return fmt.Sprintf("index.php?option=com_content&view=article&id=%s&catid=%s", id, catid)
	}
}
