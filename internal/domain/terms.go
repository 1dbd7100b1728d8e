package domain

import (
	"errors"
	"regexp"
	"strings"
)

// Validation errors surfaced to the caller as client errors.
var (
	ErrQueryTooShort = errors.New("query is too short")
	ErrQueryUnsafe   = errors.New("query contains disallowed sequences")
	ErrUnknownSource = errors.New("unknown content source")
)

// MinTermLength is the default minimum length of a query and of each
// individual term kept after tokenization.
const MinTermLength = 2

// stopWords are common English words that carry no search signal.
var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "and": {}, "or": {}, "but": {},
	"in": {}, "on": {}, "at": {}, "to": {}, "for": {}, "of": {},
	"with": {}, "by": {}, "as": {}, "is": {}, "was": {}, "were": {},
	"be": {}, "been": {}, "being": {}, "have": {}, "has": {}, "had": {},
	"do": {}, "does": {}, "did": {}, "not": {}, "this": {}, "that": {},
	"these": {}, "those": {}, "am": {}, "are": {},
}

// unsafePatterns reject raw queries that look like SQL probes. Matching any
// of them fails validation outright instead of sanitizing.
var unsafePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(union|select|insert|update|delete|drop|create|alter)\b`),
	regexp.MustCompile(`--`),
	regexp.MustCompile(`#`),
	regexp.MustCompile(`/\*`),
	regexp.MustCompile(`\*/`),
	regexp.MustCompile(`;`),
	regexp.MustCompile(`(?i)\b(or|and)\s+\d+\s*=\s*\d+`),
	regexp.MustCompile(`(?i)\b(or|and)\s+['"]\s*=\s*['"]`),
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// Term is a processed search term with its stemmed form.
type Term struct {
	Text string
	Stem string
}

// IsStopWord reports whether a lowercase word is on the stop list.
func IsStopWord(word string) bool {
	_, ok := stopWords[word]
	return ok
}

// ValidateQuery checks the raw query before any processing happens.
// Length is measured on the trimmed query, not on individual terms.
func ValidateQuery(raw string, minLength int) error {
	if minLength <= 0 {
		minLength = MinTermLength
	}
	trimmed := strings.TrimSpace(raw)
	if len(trimmed) < minLength {
		return ErrQueryTooShort
	}
	for _, re := range unsafePatterns {
		if re.MatchString(trimmed) {
			return ErrQueryUnsafe
		}
	}
	return nil
}

// ProcessTerms turns a raw query into the ordered, deduplicated term list
// used by adapters and the scorer. Stop words and too-short tokens are
// dropped; the remaining tokens keep their query order.
func ProcessTerms(raw string, minLength int) []Term {
	if minLength <= 0 {
		minLength = MinTermLength
	}
	normalized := whitespaceRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(raw)), " ")
	if normalized == "" {
		return nil
	}

	seen := make(map[string]struct{})
	var terms []Term
	for _, word := range strings.Split(normalized, " ") {
		if IsStopWord(word) || len(word) < minLength {
			continue
		}
		if _, dup := seen[word]; dup {
			continue
		}
		seen[word] = struct{}{}
		terms = append(terms, Term{Text: word, Stem: Stem(word)})
	}
	return terms
}

// suffixes stripped by Stem, longest first so "running" loses "ing"
// rather than "g" after an "in" miss.
var stemSuffixes = []string{"ing", "est", "ed", "es", "er", "s"}

// Stem reduces a word with a small fixed suffix list. It is intentionally
// crude: "ies" becomes "y", then the longest matching suffix is stripped
// as long as at least two characters remain.
func Stem(word string) string {
	if strings.HasSuffix(word, "ies") && len(word) > 3 {
		return word[:len(word)-3] + "y"
	}
	for _, suffix := range stemSuffixes {
		if strings.HasSuffix(word, suffix) && len(word)-len(suffix) >= 2 {
			return word[:len(word)-len(suffix)]
		}
	}
	return word
}

// StemText stems every whitespace-separated word of already lowercased text.
func StemText(text string) string {
	words := strings.Fields(text)
	for i, w := range words {
		words[i] = Stem(w)
	}
	return strings.Join(words, " ")
}
