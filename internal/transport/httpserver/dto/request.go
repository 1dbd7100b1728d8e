// Package dto provides Data Transfer Objects for HTTP requests and responses.
package dto

import (
	"strconv"
	"strings"

	"ajax-search-service/internal/domain"
)

// Actions recognized by the search endpoint.
const (
	ActionSearch     = "search"
	ActionSuggest    = "suggest"
	ActionTrending   = "trending"
	ActionAnalytics  = "analytics"
	ActionStats      = "stats"
	ActionClearCache = "clear_cache"
)

// SearchRequest represents the query parameters of the search endpoint.
// One endpoint serves several actions; which fields matter depends on the
// action.
type SearchRequest struct {
	Action    string `query:"action" validate:"omitempty,oneof=search suggest trending analytics stats clear_cache"`
	Query     string `query:"q" validate:"max=200"`
	Limit     int    `query:"limit" validate:"omitempty,min=1,max=100"`
	Offset    int    `query:"offset" validate:"omitempty,min=0"`
	Category  string `query:"category" validate:"omitempty,max=200"`
	Type      string `query:"type" validate:"omitempty,oneof=article sp custom all"`
	Timeframe string `query:"timeframe" validate:"omitempty,oneof=today week month"`
	Language  string `query:"lang" validate:"omitempty,max=16"`
	Debug     bool   `query:"debug"`
}

// ActionOrDefault returns the requested action, defaulting to search.
func (r *SearchRequest) ActionOrDefault() string {
	if r.Action == "" {
		return ActionSearch
	}

	return r.Action
}

// ToSearchOptions converts the request to domain.SearchOptions. Unset
// pagination falls back to the domain defaults; the type parameter selects
// the enabled sources.
func (r *SearchRequest) ToSearchOptions() domain.SearchOptions {
	opts := domain.SearchOptions{
		Query:      r.Query,
		Limit:      r.Limit,
		Offset:     r.Offset,
		Sources:    sourcesFromType(r.Type),
		Categories: parseCategoryList(r.Category),
		Debug:      r.Debug,
	}
	if opts.Limit == 0 {
		opts.Limit = domain.DefaultLimit
	}

	return opts
}

// sourcesFromType maps the type parameter onto source filters. Empty and
// "all" mean every enabled source.
func sourcesFromType(t string) []domain.SourceType {
	switch t {
	case "article":
		return []domain.SourceType{domain.SourceArticle}
	case "sp":
		return []domain.SourceType{domain.SourcePageBuilder}
	case "custom":
		return []domain.SourceType{domain.SourceCustomField}
	default:
		return nil
	}
}

// parseCategoryList splits a comma-separated id list, dropping anything
// that does not parse as a positive integer.
func parseCategoryList(csv string) []int64 {
	if strings.TrimSpace(csv) == "" {
		return nil
	}

	var ids []int64
	for _, part := range strings.Split(csv, ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil || id <= 0 {
			continue
		}
		ids = append(ids, id)
	}

	return ids
}

// ParseAccessLevels parses the X-Access-Levels header value set by the CMS
// gateway into viewer access level ids.
func ParseAccessLevels(header string) []int64 {
	return parseCategoryList(header)
}
