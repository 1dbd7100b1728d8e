package postgres

import "strings"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern wraps a term in wildcards, escaping LIKE metacharacters so a
// term never widens its own match.
func likePattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}
