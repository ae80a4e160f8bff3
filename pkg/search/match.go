package search

import (
	"strings"

	"golang.org/x/text/cases"
)

// Segment is a run of target text that either matched query characters or
// sits between them.
type Segment struct {
	Text    string
	Matched bool
}

// Highlight splits target into segments, marking the characters consumed by
// the leftmost in-order match of query. ok is false when target does not
// contain every query character in order; segments then hold target as a
// single unmatched run. Comparison uses Unicode case folding.
func Highlight(query, target string) (segments []Segment, ok bool) {
	q := []rune(Compact(query))
	if len(q) == 0 {
		return []Segment{{Text: target}}, true
	}

	// Casers carry state and must not be shared across goroutines.
	folder := cases.Fold()
	fold := func(r rune) string { return folder.String(string(r)) }

	matched := make([]bool, 0, len(target))
	runes := []rune(target)
	qi := 0
	for _, r := range runes {
		hit := qi < len(q) && fold(r) == fold(q[qi])
		if hit {
			qi++
		}
		matched = append(matched, hit)
	}
	if qi < len(q) {
		return []Segment{{Text: target}}, false
	}

	var cur strings.Builder
	curMatched := false
	for i, r := range runes {
		if i > 0 && matched[i] != curMatched {
			segments = append(segments, Segment{Text: cur.String(), Matched: curMatched})
			cur.Reset()
		}
		curMatched = matched[i]
		cur.WriteRune(r)
	}
	if cur.Len() > 0 {
		segments = append(segments, Segment{Text: cur.String(), Matched: curMatched})
	}
	return segments, true
}

// Match reports whether target contains the query's non-whitespace
// characters in order. It is the in-process counterpart of Pattern.
func Match(query, target string) bool {
	_, ok := Highlight(query, target)
	return ok
}
