// Package pagebuilder flattens page-builder layout JSON into searchable
// plain text. Layouts are trees of rows, columns and addons; each addon
// type keeps its human-readable settings and drops everything structural.
package pagebuilder

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strings"
)

var loneTagRe = regexp.MustCompile(`^<[^>]+>$`)

// ContentHash returns the cache key hash of a raw layout. Pages whose hash
// is unchanged skip re-extraction.
func ContentHash(layout string) string {
	sum := md5.Sum([]byte(layout))
	return hex.EncodeToString(sum[:])
}

// ExtractText parses a layout and returns its visible text content.
// Malformed JSON is an error; the caller decides whether to degrade.
func ExtractText(layout string) (string, error) {
	if strings.TrimSpace(layout) == "" {
		return "", nil
	}

	var rows []map[string]any
	if err := json.Unmarshal([]byte(layout), &rows); err != nil {
		return "", fmt.Errorf("parse layout: %w", err)
	}

	var parts []string
	for _, row := range rows {
		collectColumns(row["columns"], &parts)
	}
	return strings.Join(parts, " "), nil
}

func collectColumns(columns any, parts *[]string) {
	list, ok := columns.([]any)
	if !ok {
		return
	}
	for _, raw := range list {
		column, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		collectAddons(column["addons"], parts)
	}
}

func collectAddons(addons any, parts *[]string) {
	list, ok := addons.([]any)
	if !ok {
		return
	}
	for _, raw := range list {
		addon, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		extractAddon(addon, parts)
	}
}

// extractAddon pulls the text of one addon. Known addon types read their
// specific settings; anything else falls back to scanning every readable
// string in the settings tree. Nested addons recurse.
func extractAddon(addon map[string]any, parts *[]string) {
	settings, _ := addon["settings"].(map[string]any)
	addonType, _ := addon["type"].(string)

	switch addonType {
	case "text_block", "text":
		appendText(parts, stringSetting(settings, "text"))
	case "heading":
		appendText(parts, stringSetting(settings, "title"))
		appendText(parts, stringSetting(settings, "subtitle"))
	default:
		collectSettings(settings, parts)
	}

	collectAddons(addon["addons"], parts)
}

// collectSettings walks a settings subtree and keeps every string value
// that reads as content rather than configuration. Map keys are visited in
// sorted order so extraction is deterministic.
func collectSettings(value any, parts *[]string) {
	switch v := value.(type) {
	case string:
		appendText(parts, v)
	case map[string]any:
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			collectSettings(v[key], parts)
		}
	case []any:
		for _, nested := range v {
			collectSettings(nested, parts)
		}
	}
}

func stringSetting(settings map[string]any, key string) string {
	s, _ := settings[key].(string)
	return s
}

// appendText strips markup from a candidate string and appends it unless
// it is empty, a URL or a bare HTML tag.
func appendText(parts *[]string, raw string) {
	if raw == "" || isURL(raw) || loneTagRe.MatchString(strings.TrimSpace(raw)) {
		return
	}
	text := stripTags(raw)
	if text != "" {
		*parts = append(*parts, text)
	}
}

func isURL(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	return err == nil && u.Scheme != "" && u.Host != ""
}

var (
	tagRe   = regexp.MustCompile(`<[^>]*>`)
	spaceRe = regexp.MustCompile(`\s+`)
)

func stripTags(s string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(tagRe.ReplaceAllString(s, " "), " "))
}
