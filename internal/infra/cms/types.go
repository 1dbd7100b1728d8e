package cms

import (
	"time"

	"ajax-search-service/internal/domain"
)

// articlesResponse is the JSON shape of the article feed.
type articlesResponse struct {
	Articles []articleDTO `json:"articles"`
	Total    int          `json:"total"`
}

// articleDTO is one article as served by the CMS API.
type articleDTO struct {
	ID              int64       `json:"id"`
	Title           string      `json:"title"`
	Alias           string      `json:"alias"`
	IntroText       string      `json:"introtext"`
	FullText        string      `json:"fulltext"`
	MetaKeywords    string      `json:"metakey"`
	MetaDescription string      `json:"metadesc"`
	State           int         `json:"state"`
	Access          int64       `json:"access"`
	Language        string      `json:"language"`
	Category        categoryDTO `json:"category"`
	Tags            []string    `json:"tags"`
	Created         string      `json:"created"`
	Modified        string      `json:"modified"`
	Fields          []fieldDTO  `json:"fields"`
}

// categoryDTO carries the owning category of an article.
type categoryDTO struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Alias string `json:"alias"`
}

// fieldDTO is one custom field value attached to an article.
type fieldDTO struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Title string `json:"title"`
	Type  string `json:"type"`
	Value string `json:"value"`
}

// pagesResponse is the JSON shape of the page-builder feed.
type pagesResponse struct {
	Pages []pageDTO `json:"pages"`
	Total int       `json:"total"`
}

// pageDTO is one page-builder page; Content is the raw layout JSON.
type pageDTO struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	State    int    `json:"state"`
	Access   int64  `json:"access"`
	Language string `json:"language"`
	Created  string `json:"created"`
	Modified string `json:"modified"`
}

// toRecord converts the DTO into the domain ingest record.
func (a articleDTO) toRecord() domain.ArticleRecord {
	created, _ := time.Parse(time.RFC3339, a.Created)
	modified, _ := time.Parse(time.RFC3339, a.Modified)

	fields := make([]domain.FieldValueRecord, 0, len(a.Fields))
	for _, f := range a.Fields {
		fields = append(fields, domain.FieldValueRecord{
			FieldID: f.ID,
			Name:    f.Name,
			Title:   f.Title,
			Type:    f.Type,
			Value:   f.Value,
		})
	}

	return domain.ArticleRecord{
		ID:              a.ID,
		Title:           a.Title,
		Alias:           a.Alias,
		IntroText:       a.IntroText,
		FullText:        a.FullText,
		MetaKeywords:    a.MetaKeywords,
		MetaDescription: a.MetaDescription,
		State:           a.State,
		AccessLevel:     a.Access,
		Language:        a.Language,
		CategoryID:      a.Category.ID,
		CategoryTitle:   a.Category.Title,
		CategoryAlias:   a.Category.Alias,
		Tags:            a.Tags,
		Created:         created,
		Modified:        modified,
		Fields:          fields,
	}
}

// toRecord converts the DTO into the domain ingest record.
func (p pageDTO) toRecord() domain.PageRecord {
	created, _ := time.Parse(time.RFC3339, p.Created)
	modified, _ := time.Parse(time.RFC3339, p.Modified)

	return domain.PageRecord{
		ID:          p.ID,
		Title:       p.Title,
		Layout:      p.Content,
		State:       p.State,
		AccessLevel: p.Access,
		Language:    p.Language,
		Created:     created,
		Modified:    modified,
	}
}
