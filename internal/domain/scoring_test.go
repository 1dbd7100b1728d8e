package domain

import (
	"testing"
	"time"
)

// fixedScorer returns a scorer with a deterministic clock so recency
// bonuses do not drift between test runs.
func fixedScorer(now time.Time) *Scorer {
	s := NewScorer()
	s.Now = func() time.Time { return now }
	return s
}

func TestScoreExactTitleMatch(t *testing.T) {
	now := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	scorer := fixedScorer(now)

	item := ContentItem{
		ID:     1,
		Source: SourceArticle,
		Title:  "Go",
	}
	terms := ProcessTerms("go", MinTermLength)

	// Title field, weight 10, content "go", term "go":
	//   occurrences: round(10*2*(1-0.9^1)) = round(2.0) = 2
	//   position:    round((1-0/2)*10)     = 10
	//   boundary:    10*2                  = 20
	//   exact title bonus                  = 15
	// Subtotal 47, no proximity (single term), no recency (zero Created).
	// Max possible: sum(weights)=65, 65*3*1 + 45 = 240.
	// round(47/240*100) = 20.
	got := scorer.Score(item, terms)
	if got != 20 {
		t.Errorf("Score = %d, want 20", got)
	}
}

func TestScorePageBuilderCoefficient(t *testing.T) {
	now := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	scorer := fixedScorer(now)

	item := ContentItem{
		ID:     7,
		Source: SourcePageBuilder,
		Title:  "Pricing",
	}
	terms := ProcessTerms("pricing", MinTermLength)

	// Page title field, weight 10, content "pricing", term "pricing":
	//   occurrences: round(10*2*(1-0.9^1)) = 2
	//   position:    round((1-0/7)*10)     = 10
	//   boundary:    10*2                  = 20
	//   stemmed:     stem "pric" found     = 5
	//   partial:     4 positions * 10*0.3  = 12
	//   exact title bonus                  = 15
	// Subtotal 64, page-builder coefficient 1.1: round(64*1.1) = 70.
	// round(70/240*100) = 29.
	got := scorer.Score(item, terms)
	if got != 29 {
		t.Errorf("Score = %d, want 29", got)
	}
}

func TestScoreCoefficientLeavesBonusesUnscaled(t *testing.T) {
	now := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	scorer := fixedScorer(now)

	item := ContentItem{
		ID:      7,
		Source:  SourcePageBuilder,
		Title:   "Pricing",
		Created: now.Add(-24 * time.Hour),
	}
	terms := ProcessTerms("pricing", MinTermLength)

	// Field subtotal 64 (see TestScorePageBuilderCoefficient), scaled by the
	// page-builder coefficient first: round(64*1.1) = 70. The recency bonus
	// of 10 lands on top unscaled, for 80; scaling it too would give 81.
	// round(80/240*100) = 33.
	got := scorer.Score(item, terms)
	if got != 33 {
		t.Errorf("Score = %d, want 33", got)
	}
}

func TestScoreZeroCases(t *testing.T) {
	scorer := fixedScorer(time.Now())

	tests := []struct {
		name  string
		item  ContentItem
		terms []Term
	}{
		{
			name:  "no terms",
			item:  ContentItem{Source: SourceArticle, Title: "Something"},
			terms: nil,
		},
		{
			name:  "no searchable fields",
			item:  ContentItem{Source: SourceArticle},
			terms: ProcessTerms("golang", MinTermLength),
		},
		{
			name:  "no match at all",
			item:  ContentItem{Source: SourceArticle, Title: "Cooking pasta"},
			terms: ProcessTerms("kubernetes", MinTermLength),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := scorer.Score(tt.item, tt.terms); got != 0 {
				t.Errorf("Score = %d, want 0", got)
			}
		})
	}
}

func TestScoreBounds(t *testing.T) {
	scorer := fixedScorer(time.Now())
	terms := ProcessTerms("golang redis caching tutorial", MinTermLength)

	items := []ContentItem{
		{Source: SourceArticle, Title: "golang redis caching tutorial", IntroText: "golang redis caching tutorial golang redis caching tutorial", FullText: "golang redis caching tutorial", MetaKeywords: "golang redis caching tutorial", Alias: "golang-redis-caching-tutorial", Created: time.Now()},
		{Source: SourcePageBuilder, Title: "golang", PageText: "redis caching"},
		{Source: SourceCustomField, Title: "tutorial", FieldText: "golang"},
		{Source: SourceArticle, FullText: "a single golang mention far away"},
	}

	for i, item := range items {
		score := scorer.Score(item, terms)
		if score < 0 || score > 100 {
			t.Errorf("item %d: Score = %d, want within [0,100]", i, score)
		}
	}
}

func TestScoreTitleOutranksBody(t *testing.T) {
	scorer := fixedScorer(time.Now())
	terms := ProcessTerms("golang", MinTermLength)

	inTitle := ContentItem{Source: SourceArticle, Title: "Golang news", FullText: "daily digest"}
	inBody := ContentItem{Source: SourceArticle, Title: "Daily digest", FullText: "golang news"}

	titleScore := scorer.Score(inTitle, terms)
	bodyScore := scorer.Score(inBody, terms)
	if titleScore <= bodyScore {
		t.Errorf("title match (%d) should outrank body match (%d)", titleScore, bodyScore)
	}
}

func TestScoreProximityRewardsAdjacency(t *testing.T) {
	scorer := fixedScorer(time.Now())
	terms := ProcessTerms("web development", MinTermLength)

	adjacent := ContentItem{
		Source:    SourceArticle,
		IntroText: "web development tips",
	}
	scattered := ContentItem{
		Source:    SourceArticle,
		IntroText: "web pages are discussed here at length before we eventually arrive, after a couple hundred characters of completely unrelated filler text about browsers, servers, protocols and styling conventions that pad the distance, at development",
	}

	near := scorer.Score(adjacent, terms)
	far := scorer.Score(scattered, terms)
	if near <= far {
		t.Errorf("adjacent terms (%d) should outrank scattered terms (%d)", near, far)
	}
}

func TestScoreRecencyBonus(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	scorer := fixedScorer(now)
	terms := ProcessTerms("golang", MinTermLength)

	fresh := ContentItem{Source: SourceArticle, Title: "Golang tips", Created: now.Add(-24 * time.Hour)}
	stale := ContentItem{Source: SourceArticle, Title: "Golang tips", Created: now.AddDate(-1, 0, 0)}

	if f, s := scorer.Score(fresh, terms), scorer.Score(stale, terms); f <= s {
		t.Errorf("fresh content (%d) should outrank year-old content (%d)", f, s)
	}
}

func TestScoreSourceCoefficients(t *testing.T) {
	tests := []struct {
		source SourceType
		want   float64
	}{
		{source: SourceArticle, want: 1.0},
		{source: SourcePageBuilder, want: 1.1},
		{source: SourceCustomField, want: 0.9},
	}

	for _, tt := range tests {
		if got := tt.source.Coefficient(); got != tt.want {
			t.Errorf("%s coefficient = %v, want %v", tt.source, got, tt.want)
		}
	}
}

func TestCountPartialMatches(t *testing.T) {
	tests := []struct {
		name    string
		term    string
		content string
		want    int
	}{
		{
			name:    "full overlap",
			term:    "pricing",
			content: "pricing",
			want:    4, // substrings of length >= 4 start at offsets 0..3
		},
		{
			name:    "no overlap",
			term:    "pricing",
			content: "unrelated words",
			want:    0,
		},
		{
			name:    "fragment only",
			term:    "database",
			content: "my data is here",
			want:    1, // only "data" (length 4) matches, at one position
		},
		{
			name:    "repeated content does not inflate",
			term:    "pricing",
			content: "pricing pricing pricing",
			want:    4, // same as a single occurrence
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := countPartialMatches(tt.term, tt.content); got != tt.want {
				t.Errorf("countPartialMatches(%q, %q) = %d, want %d", tt.term, tt.content, got, tt.want)
			}
		})
	}
}

func TestMaxPossibleGrowsWithTerms(t *testing.T) {
	scorer := NewScorer()

	// sum(default weights) = 65, so max = 65*3*n + 45.
	if got := scorer.maxPossible(1); got != 240 {
		t.Errorf("maxPossible(1) = %v, want 240", got)
	}
	if got := scorer.maxPossible(3); got != 630 {
		t.Errorf("maxPossible(3) = %v, want 630", got)
	}
}
