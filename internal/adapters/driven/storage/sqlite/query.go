package sqlite

import (
	"strings"
	"unicode"
)

// queryGroup is one OR branch of a web-search style query.
type queryGroup struct {
	include []string
	exclude []string
}

// matchExpression translates a web-search style query into an FTS5 MATCH
// expression. Bare words are ANDed, "quoted text" is a phrase, OR separates
// alternatives, and a leading '-' negates a word or phrase. Every term is
// quoted so punctuation never reaches the FTS5 parser.
//
// Returns false when no positive term remains: FTS5 cannot evaluate a
// purely negative query.
func matchExpression(query string) (string, bool) {
	groups := parseWebSearch(query)

	branches := make([]string, 0, len(groups))
	for _, g := range groups {
		if len(g.include) == 0 {
			continue
		}
		branch := strings.Join(quoteAll(g.include), " AND ")
		if len(g.exclude) > 0 {
			branch = "(" + branch + ") NOT (" + strings.Join(quoteAll(g.exclude), " OR ") + ")"
		}
		branches = append(branches, "("+branch+")")
	}
	if len(branches) == 0 {
		return "", false
	}
	return strings.Join(branches, " OR "), true
}

func parseWebSearch(query string) []queryGroup {
	var groups []queryGroup
	current := queryGroup{}
	runes := []rune(query)

	flush := func() {
		if len(current.include) > 0 || len(current.exclude) > 0 {
			groups = append(groups, current)
		}
		current = queryGroup{}
	}

	for i := 0; i < len(runes); {
		r := runes[i]
		if unicode.IsSpace(r) {
			i++
			continue
		}

		negated := false
		if r == '-' && i+1 < len(runes) && !unicode.IsSpace(runes[i+1]) {
			negated = true
			i++
			r = runes[i]
		}

		var term string
		if r == '"' {
			end := i + 1
			for end < len(runes) && runes[end] != '"' {
				end++
			}
			term = string(runes[i+1 : end])
			i = end + 1
		} else {
			end := i
			for end < len(runes) && !unicode.IsSpace(runes[end]) && runes[end] != '"' {
				end++
			}
			term = string(runes[i:end])
			i = end
			if !negated && strings.EqualFold(term, "or") {
				flush()
				continue
			}
		}

		if !hasWordChar(term) {
			continue
		}
		if negated {
			current.exclude = append(current.exclude, term)
		} else {
			current.include = append(current.include, term)
		}
	}
	flush()
	return groups
}

func quoteAll(terms []string) []string {
	out := make([]string, len(terms))
	for i, t := range terms {
		out[i] = `"` + strings.ReplaceAll(t, `"`, `""`) + `"`
	}
	return out
}

func hasWordChar(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
