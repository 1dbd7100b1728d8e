package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Pagination bounds for search requests.
const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Viewer carries the request-scoped identity of the person searching.
// Access levels and language segment both the SQL filters and the cache
// fingerprint so viewers never see results cached for someone with wider
// permissions.
type Viewer struct {
	AccessLevels []int64
	Language     string
	UserID       int64
	SessionID    string
	IPAddress    string
	UserAgent    string
}

// AccessSignature returns a canonical string form of the sorted access
// levels, used in fingerprints and cache metadata.
func (v Viewer) AccessSignature() string {
	if len(v.AccessLevels) == 0 {
		return ""
	}
	levels := make([]int64, len(v.AccessLevels))
	copy(levels, v.AccessLevels)
	sort.Slice(levels, func(i, j int) bool { return levels[i] < levels[j] })

	parts := make([]string, len(levels))
	for i, l := range levels {
		parts[i] = strconv.FormatInt(l, 10)
	}
	return strings.Join(parts, ",")
}

// SearchOptions are the tunable parameters of one search request.
type SearchOptions struct {
	Query         string
	Limit         int
	Offset        int
	Sources       []SourceType
	Categories    []int64
	SnippetLength int
	Debug         bool
}

// Validate normalizes out-of-range values instead of failing: a limit
// outside [1, MaxLimit] resets to the default, a negative offset to zero,
// and an empty source list means all sources.
func (o *SearchOptions) Validate() error {
	if o.Limit < 1 || o.Limit > MaxLimit {
		o.Limit = DefaultLimit
	}
	if o.Offset < 0 {
		o.Offset = 0
	}
	if o.SnippetLength <= 0 {
		o.SnippetLength = DefaultSnippetLength
	}
	if len(o.Sources) == 0 {
		o.Sources = []SourceType{SourceArticle, SourcePageBuilder, SourceCustomField}
	}
	for _, s := range o.Sources {
		if !s.IsValid() {
			return ErrUnknownSource
		}
	}
	return nil
}

// WantsSource reports whether the given source is enabled for this request.
func (o SearchOptions) WantsSource(s SourceType) bool {
	for _, enabled := range o.Sources {
		if enabled == s {
			return true
		}
	}
	return false
}

// SearchHit is one scored result.
type SearchHit struct {
	Item      ContentItem `json:"item"`
	Relevance int         `json:"relevance"`
	Snippet   string      `json:"snippet"`
	URL       string      `json:"url"`
}

// SearchResult is the outcome of a full search pipeline run.
type SearchResult struct {
	Query      string
	Terms      []Term
	Hits       []SearchHit
	Total      int
	Cached     bool
	SearchTime time.Duration
}

// fingerprintKey is the canonical JSON shape hashed into the cache key.
// Field order is fixed by the struct, so equal requests always serialize
// identically.
type fingerprintKey struct {
	Query      string       `json:"query"`
	Sources    []SourceType `json:"sources"`
	Categories []int64      `json:"categories"`
	Limit      int          `json:"limit"`
	Offset     int          `json:"offset"`
	Access     string       `json:"access"`
	Language   string       `json:"language"`
}

// Fingerprint derives the deterministic cache key for a request. The query
// is lowercased and whitespace-normalized first so trivially different
// spellings share an entry.
func Fingerprint(opts SearchOptions, viewer Viewer) string {
	key := fingerprintKey{
		Query:      whitespaceRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(opts.Query)), " "),
		Sources:    opts.Sources,
		Categories: opts.Categories,
		Limit:      opts.Limit,
		Offset:     opts.Offset,
		Access:     viewer.AccessSignature(),
		Language:   viewer.Language,
	}
	raw, _ := json.Marshal(key)
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}
