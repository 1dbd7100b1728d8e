package domain

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"time"
)

// Bonus constants used by the scorer. They also cap the normalization
// denominator together with the field weights.
const (
	exactTitleBonus     = 15
	exactPhraseBonus    = 20
	maxRecencyBonus     = 10
	tightProximityBonus = 15
)

// Scorer computes a 0-100 relevance score for a content item against the
// processed query terms.
//
// Score composition per field and term:
//
//	occurrence  = round(weight × 2 × (1 - 0.9^count))   diminishing returns
//	position    = round((1 - firstPos/len) × weight)    earlier is better
//	boundary    = weight × 2                            whole-word match
//	stemmed     = weight × 0.5                          stem-only match
//	partial     = hits × weight × 0.3                   terms longer than 5
//
// Field adjustments: an exact title match adds 15, meta keywords are scaled
// by 1.2 and the alias by 1.1. The field subtotal is multiplied by the
// source coefficient; then multi-term queries earn phrase and proximity
// bonuses and recent content earns up to 10 extra points, all unscaled,
// before normalization against the theoretical maximum and clamping into
// [0, 100].
type Scorer struct {
	Weights map[string]float64

	// Now is the clock used for recency scoring, overridable in tests.
	Now func() time.Time
}

// NewScorer creates a Scorer with the default field weights.
func NewScorer() *Scorer {
	return &Scorer{
		Weights: DefaultFieldWeights(),
		Now:     time.Now,
	}
}

// Score calculates the relevance of item for terms. Items with no
// searchable text or queries with no terms score zero.
func (s *Scorer) Score(item ContentItem, terms []Term) int {
	if len(terms) == 0 {
		return 0
	}
	fields := item.SearchableFields()
	if len(fields) == 0 {
		return 0
	}

	total := 0.0
	for _, field := range fields {
		weight, ok := s.Weights[field.Name]
		if !ok || weight <= 0 {
			continue
		}
		content := strings.ToLower(field.Text)

		fieldScore := 0.0
		for _, term := range terms {
			fieldScore += scoreTermInField(term, content, weight)
			if (field.Name == FieldTitle || field.Name == FieldPageBuilderTitle) && content == term.Text {
				fieldScore += exactTitleBonus
			}
		}

		switch field.Name {
		case FieldMetaKeywords:
			fieldScore *= 1.2
		case FieldAlias:
			fieldScore *= 1.1
		}
		total += fieldScore
	}

	if total <= 0 {
		return 0
	}

	total = math.Round(total * item.Source.Coefficient())
	total += proximityBonus(fields, terms)
	total += s.recencyBonus(item.Created)

	normalized := math.Round(total / s.maxPossible(len(terms)) * 100)
	if normalized < 0 {
		return 0
	}
	if normalized > 100 {
		return 100
	}
	return int(normalized)
}

// maxPossible is the theoretical score ceiling for a term count: three times
// every field weight per term, plus the phrase, title and recency bonuses.
func (s *Scorer) maxPossible(termCount int) float64 {
	max := 0.0
	for _, weight := range s.Weights {
		max += weight * 3 * float64(termCount)
	}
	return max + exactPhraseBonus + exactTitleBonus + maxRecencyBonus
}

// scoreTermInField scores one term against one lowercased field.
func scoreTermInField(term Term, content string, weight float64) float64 {
	score := 0.0

	if count := strings.Count(content, term.Text); count > 0 {
		score += math.Round(weight * 2 * (1 - math.Pow(0.9, float64(count))))

		pos := strings.Index(content, term.Text)
		score += math.Round((1 - float64(pos)/float64(len(content))) * weight)
	}

	if wordBoundaryMatch(term.Text, content) {
		score += weight * 2
	}

	if term.Stem != term.Text && strings.Contains(StemText(content), term.Stem) {
		score += weight * 0.5
	}

	if len(term.Text) > 5 {
		score += float64(countPartialMatches(term.Text, content)) * weight * 0.3
	}

	return score
}

func wordBoundaryMatch(term, content string) bool {
	re, err := regexp.Compile(`\b` + regexp.QuoteMeta(term) + `\b`)
	if err != nil {
		return false
	}
	return re.MatchString(content)
}

// countPartialMatches counts the distinct first positions in content of
// every substring of the term (length 4 up to the full term). Only the
// first occurrence per substring counts, so repeated content does not
// inflate the bonus. Catches typos and compound words for longer terms.
func countPartialMatches(term, content string) int {
	positions := make(map[int]struct{})
	for length := 4; length <= len(term); length++ {
		for start := 0; start+length <= len(term); start++ {
			part := term[start : start+length]
			if i := strings.Index(content, part); i >= 0 {
				positions[i] = struct{}{}
			}
		}
	}
	return len(positions)
}

// proximityBonus rewards multi-term queries whose terms appear close
// together in the main text fields. An exact phrase match earns the full
// phrase bonus on top of the distance bonus.
func proximityBonus(fields []FieldText, terms []Term) float64 {
	if len(terms) < 2 {
		return 0
	}

	var parts []string
	for _, field := range fields {
		switch field.Name {
		case FieldTitle, FieldIntroText, FieldFullText,
			FieldPageBuilderTitle, FieldPageBuilderContent, FieldMetaKeywords:
			parts = append(parts, field.Text)
		}
	}
	combined := strings.ToLower(strings.Join(parts, " "))
	if combined == "" {
		return 0
	}

	bonus := 0.0

	words := make([]string, len(terms))
	for i, t := range terms {
		words[i] = t.Text
	}
	if strings.Contains(combined, strings.Join(words, " ")) {
		bonus += exactPhraseBonus
	}

	var positions []int
	for _, term := range terms {
		offset := 0
		for {
			i := strings.Index(combined[offset:], term.Text)
			if i < 0 {
				break
			}
			positions = append(positions, offset+i)
			offset += i + 1
		}
	}
	if len(positions) >= 2 {
		sort.Ints(positions)
		totalDistance := 0
		for i := 1; i < len(positions); i++ {
			totalDistance += positions[i] - positions[i-1]
		}
		avg := float64(totalDistance) / float64(len(positions)-1)
		switch {
		case avg <= 10:
			bonus += tightProximityBonus
		case avg <= 50:
			bonus += 10
		case avg <= 100:
			bonus += 5
		}
	}

	return bonus
}

// recencyBonus favors recently created content: 10 points inside a week,
// 5 inside a month, 2 inside a quarter.
func (s *Scorer) recencyBonus(created time.Time) float64 {
	if created.IsZero() {
		return 0
	}
	age := s.Now().Sub(created)
	switch {
	case age <= 7*24*time.Hour:
		return maxRecencyBonus
	case age <= 30*24*time.Hour:
		return 5
	case age <= 90*24*time.Hour:
		return 2
	default:
		return 0
	}
}
