package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ajax-search-service/internal/domain"
	"ajax-search-service/internal/validator"
)

func newTestValidator() *validator.Validator {
	return validator.New()
}

// TestSearchRequest_Validation_Valid tests valid search requests.
func TestSearchRequest_Validation_Valid(t *testing.T) {
	v := newTestValidator()

	tests := []struct {
		name string
		req  SearchRequest
	}{
		{
			name: "empty request",
			req:  SearchRequest{},
		},
		{
			name: "query only",
			req:  SearchRequest{Query: "golang"},
		},
		{
			name: "full search request",
			req: SearchRequest{
				Action:   "search",
				Query:    "golang tutorial",
				Limit:    20,
				Offset:   10,
				Category: "5,7",
				Type:     "article",
				Language: "en-GB",
				Debug:    true,
			},
		},
		{
			name: "suggest action",
			req:  SearchRequest{Action: "suggest", Query: "gol", Limit: 5},
		},
		{
			name: "trending with timeframe",
			req:  SearchRequest{Action: "trending", Timeframe: "month"},
		},
		{
			name: "admin actions",
			req:  SearchRequest{Action: "clear_cache"},
		},
		{
			name: "all source types",
			req:  SearchRequest{Type: "all", Query: "golang"},
		},
		{
			name: "max limit",
			req:  SearchRequest{Query: "golang", Limit: 100},
		},
		{
			name: "query at max length",
			req:  SearchRequest{Query: string(make([]byte, 200))},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(&tt.req)
			assert.NoError(t, err)
		})
	}
}

// TestSearchRequest_Validation_Invalid tests invalid search requests.
func TestSearchRequest_Validation_Invalid(t *testing.T) {
	v := newTestValidator()

	tests := []struct {
		name        string
		req         SearchRequest
		expectField string
		expectTag   string
	}{
		{
			name:        "query too long",
			req:         SearchRequest{Query: string(make([]byte, 201))},
			expectField: "Query",
			expectTag:   "max",
		},
		{
			name:        "unknown action",
			req:         SearchRequest{Action: "purge"},
			expectField: "Action",
			expectTag:   "oneof",
		},
		{
			name:        "unknown type",
			req:         SearchRequest{Type: "video"},
			expectField: "Type",
			expectTag:   "oneof",
		},
		{
			name:        "unknown timeframe",
			req:         SearchRequest{Timeframe: "year"},
			expectField: "Timeframe",
			expectTag:   "oneof",
		},
		{
			name:        "limit too large",
			req:         SearchRequest{Limit: 101},
			expectField: "Limit",
			expectTag:   "max",
		},
		{
			name:        "negative offset",
			req:         SearchRequest{Offset: -1},
			expectField: "Offset",
			expectTag:   "min",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(&tt.req)
			require.Error(t, err)

			validationErrs, ok := err.(validator.ValidationErrors)
			require.True(t, ok, "expected ValidationErrors type")
			require.NotEmpty(t, validationErrs)

			found := false
			for _, ve := range validationErrs {
				if ve.Field == tt.expectField {
					found = true
					assert.Equal(t, tt.expectTag, ve.Tag)
				}
			}
			assert.True(t, found, "expected error for field %s", tt.expectField)
		})
	}
}

// TestSearchRequest_ActionOrDefault tests the action fallback.
func TestSearchRequest_ActionOrDefault(t *testing.T) {
	req := SearchRequest{}
	assert.Equal(t, ActionSearch, req.ActionOrDefault())

	req.Action = ActionSuggest
	assert.Equal(t, ActionSuggest, req.ActionOrDefault())
}

// TestSearchRequest_ToSearchOptions tests conversion to domain SearchOptions.
func TestSearchRequest_ToSearchOptions(t *testing.T) {
	tests := []struct {
		name     string
		req      SearchRequest
		expected domain.SearchOptions
	}{
		{
			name: "empty request uses defaults",
			req:  SearchRequest{},
			expected: domain.SearchOptions{
				Limit: domain.DefaultLimit,
			},
		},
		{
			name: "full request converts correctly",
			req: SearchRequest{
				Query:    "golang",
				Limit:    25,
				Offset:   50,
				Category: "5, 7",
				Type:     "sp",
				Debug:    true,
			},
			expected: domain.SearchOptions{
				Query:      "golang",
				Limit:      25,
				Offset:     50,
				Sources:    []domain.SourceType{domain.SourcePageBuilder},
				Categories: []int64{5, 7},
				Debug:      true,
			},
		},
		{
			name: "all type enables every source",
			req:  SearchRequest{Query: "golang", Type: "all", Limit: 10},
			expected: domain.SearchOptions{
				Query: "golang",
				Limit: 10,
			},
		},
		{
			name: "bad category entries are dropped",
			req:  SearchRequest{Query: "golang", Limit: 10, Category: "5,abc,-2,7"},
			expected: domain.SearchOptions{
				Query:      "golang",
				Limit:      10,
				Categories: []int64{5, 7},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.req.ToSearchOptions()

			assert.Equal(t, tt.expected.Query, result.Query)
			assert.Equal(t, tt.expected.Limit, result.Limit)
			assert.Equal(t, tt.expected.Offset, result.Offset)
			assert.Equal(t, tt.expected.Sources, result.Sources)
			assert.Equal(t, tt.expected.Categories, result.Categories)
			assert.Equal(t, tt.expected.Debug, result.Debug)
		})
	}
}

// TestParseAccessLevels tests gateway header parsing.
func TestParseAccessLevels(t *testing.T) {
	tests := []struct {
		header   string
		expected []int64
	}{
		{"", nil},
		{"1", []int64{1}},
		{"1,2,3", []int64{1, 2, 3}},
		{" 1 , 3 ", []int64{1, 3}},
		{"1,junk,3", []int64{1, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseAccessLevels(tt.header))
		})
	}
}

// TestFromSearchHit tests the result item mapping.
func TestFromSearchHit(t *testing.T) {
	hit := domain.SearchHit{
		Item: domain.ContentItem{
			ID:            42,
			Source:        domain.SourcePageBuilder,
			Title:         "Landing",
			CategoryTitle: "Pages",
		},
		Relevance: 77,
		Snippet:   "a <mark>landing</mark> page",
		URL:       "index.php?option=com_sppagebuilder&view=page&id=42",
	}

	item := FromSearchHit(hit)
	assert.Equal(t, int64(42), item.ID)
	assert.Equal(t, "sppagebuilder", item.Type)
	assert.Equal(t, "Page", item.TypeLabel)
	assert.Equal(t, 77, item.Relevance)
	assert.Equal(t, hit.URL, item.URL)
	assert.Empty(t, item.Created, "zero time renders as absent")
}
