package domain

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// DefaultSnippetLength is the snippet size in characters before the
// highlight markup is added.
const DefaultSnippetLength = 250

// minSegmentLength filters out sentence fragments too short to make a
// useful snippet.
const minSegmentLength = 20

var (
	htmlTagRe        = regexp.MustCompile(`<[^>]*>`)
	sentenceBoundRe  = regexp.MustCompile(`[.!?]+`)
	collapseSpacesRe = regexp.MustCompile(`\s+`)
)

// StripTags removes HTML markup and collapses the remaining whitespace.
func StripTags(html string) string {
	text := htmlTagRe.ReplaceAllString(html, " ")
	return strings.TrimSpace(collapseSpacesRe.ReplaceAllString(text, " "))
}

// BuildSnippet extracts a highlighted excerpt of text around the query
// terms. It prefers the sentence containing the most terms; when no
// sentence scores, it falls back to a window centered on the earliest term
// occurrence.
func BuildSnippet(text string, terms []Term, length int) string {
	if length <= 0 {
		length = DefaultSnippetLength
	}

	plain := StripTags(text)
	if plain == "" {
		return ""
	}

	snippet := bestSegment(plain, terms, length)
	if snippet == "" {
		snippet = centeredWindow(plain, terms, length)
	}

	return HighlightTerms(snippet, terms)
}

// bestSegment scores each sentence by term hits and returns the winner,
// or "" when no sentence contains a term.
func bestSegment(plain string, terms []Term, length int) string {
	segments := sentenceBoundRe.Split(plain, -1)

	best := ""
	bestScore := 0
	for _, segment := range segments {
		segment = strings.TrimSpace(segment)
		if len(segment) < minSegmentLength {
			continue
		}
		lower := strings.ToLower(segment)

		score := 0
		for _, term := range terms {
			idx := strings.Index(lower, term.Text)
			if idx < 0 {
				continue
			}
			score += 10
			if idx < 10 {
				score += 5
			}
		}
		if score > bestScore {
			bestScore = score
			best = segment
		}
	}

	if bestScore == 0 {
		return ""
	}
	if len(best) > length {
		best = truncateAtRune(best, length) + "..."
	}
	return best
}

// truncateAtRune cuts s to at most n bytes, backing up so the cut never
// splits a multi-byte rune.
func truncateAtRune(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// centeredWindow cuts a fixed-size window around the earliest term match.
func centeredWindow(plain string, terms []Term, length int) string {
	lower := strings.ToLower(plain)

	pos := -1
	for _, term := range terms {
		if idx := strings.Index(lower, term.Text); idx >= 0 && (pos < 0 || idx < pos) {
			pos = idx
		}
	}
	if pos < 0 {
		pos = 0
	}

	start := pos - length/2
	if start < 0 {
		start = 0
	}
	end := start + length
	if end > len(plain) {
		end = len(plain)
	}
	for start > 0 && !utf8.RuneStart(plain[start]) {
		start--
	}
	for end < len(plain) && !utf8.RuneStart(plain[end]) {
		end++
	}

	snippet := plain[start:end]
	if start > 0 {
		snippet = "..." + snippet
	}
	if end < len(plain) {
		snippet += "..."
	}
	return snippet
}

// HighlightTerms wraps every term occurrence in <mark> tags. Terms are
// combined into one alternation ordered longest first, so a shorter term
// never splits the markup of a longer one containing it.
func HighlightTerms(snippet string, terms []Term) string {
	var words []string
	for _, term := range terms {
		if term.Text != "" {
			words = append(words, term.Text)
		}
	}
	if len(words) == 0 {
		return snippet
	}
	sort.SliceStable(words, func(i, j int) bool {
		return len(words[i]) > len(words[j])
	})

	for i, word := range words {
		words[i] = regexp.QuoteMeta(word)
	}
	re, err := regexp.Compile(`(?i)(` + strings.Join(words, "|") + `)`)
	if err != nil {
		return snippet
	}
	return re.ReplaceAllString(snippet, "<mark>$1</mark>")
}
