package search

import (
	"strings"
	"unicode"
)

const (
	// Wildcard matches any run of characters, including none.
	Wildcard = '%'
	// SingleWildcard matches exactly one character.
	SingleWildcard = '_'
	// Escape marks the next pattern character as literal.
	Escape = '\\'
)

// MatchAll is the pattern produced for a blank query.
const MatchAll = "%"

// Compact removes every whitespace character from query.
func Compact(query string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, query)
}

// IsBlank reports whether query has no searchable characters.
func IsBlank(query string) bool {
	return Compact(query) == ""
}

// Pattern turns a free-text query into a LIKE pattern matching any target
// that contains the query's non-whitespace characters in order, with
// arbitrary gaps: "hih" becomes "%h%i%h%". Wildcard, single-character
// wildcard and escape characters in the query are escaped so they match
// literally. A blank query yields MatchAll.
//
// The pattern carries no case information; the comparison is expected to be
// case-insensitive for every script, not only ASCII. SQLite's built-in LIKE
// folds ASCII only, so the store overrides it.
func Pattern(query string) string {
	chars := []rune(Compact(query))
	if len(chars) == 0 {
		return MatchAll
	}

	var b strings.Builder
	b.Grow(len(chars)*3 + 1)
	b.WriteRune(Wildcard)
	for _, c := range chars {
		if c == Wildcard || c == SingleWildcard || c == Escape {
			b.WriteRune(Escape)
		}
		b.WriteRune(c)
		b.WriteRune(Wildcard)
	}
	return b.String()
}
