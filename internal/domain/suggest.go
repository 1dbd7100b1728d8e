package domain

import (
	"sort"
	"strings"
)

// Suggestion source identifiers reported alongside autocomplete entries.
const (
	SuggestionCurrent  = "current"
	SuggestionPopular  = "popular"
	SuggestionArticle  = "article_title"
	SuggestionCategory = "category"
	SuggestionTag      = "tag"
	SuggestionField    = "custom_field"
)

// Per-source suggestion relevance. Prefix matches outrank substring
// matches, and richer sources outrank noisier ones. The current query
// itself is always pinned to the top.
const (
	currentQueryRelevance = 100

	popularPrefixRelevance    = 90
	popularContainsRelevance  = 70
	articlePrefixRelevance    = 95
	articleContainsRelevance  = 80
	categoryPrefixRelevance   = 90
	categoryContainsRelevance = 75
	tagPrefixRelevance        = 88
	tagContainsRelevance      = 72
	fieldPrefixRelevance      = 82
	fieldContainsRelevance    = 65
)

// Suggestion is one autocomplete candidate.
type Suggestion struct {
	Text      string `json:"text"`
	Source    string `json:"source"`
	Relevance int    `json:"relevance"`
}

// SuggestionRelevance scores a candidate against the partial query for its
// source: prefix matches get the source's high constant, substring matches
// the low one. The comparison is case-insensitive.
func SuggestionRelevance(source, text, partial string) int {
	prefix := strings.HasPrefix(strings.ToLower(text), strings.ToLower(partial))
	switch source {
	case SuggestionCurrent:
		return currentQueryRelevance
	case SuggestionPopular:
		return pick(prefix, popularPrefixRelevance, popularContainsRelevance)
	case SuggestionArticle:
		return pick(prefix, articlePrefixRelevance, articleContainsRelevance)
	case SuggestionCategory:
		return pick(prefix, categoryPrefixRelevance, categoryContainsRelevance)
	case SuggestionTag:
		return pick(prefix, tagPrefixRelevance, tagContainsRelevance)
	case SuggestionField:
		return pick(prefix, fieldPrefixRelevance, fieldContainsRelevance)
	default:
		return 0
	}
}

func pick(prefix bool, high, low int) int {
	if prefix {
		return high
	}
	return low
}

// RankSuggestions deduplicates by lowercased text (first entry wins),
// stable sorts by relevance and truncates to limit.
func RankSuggestions(candidates []Suggestion, limit int) []Suggestion {
	seen := make(map[string]struct{}, len(candidates))
	out := candidates[:0]
	for _, c := range candidates {
		key := strings.ToLower(c.Text)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, c)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Relevance > out[j].Relevance
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
