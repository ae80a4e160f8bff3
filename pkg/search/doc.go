// Package search provides the typo-tolerant matching used by every catalog
// listing: the HTML index pages, the JSON:API endpoints and the CLI.
//
// # Overview
//
// Matching is an ordered-subsequence test. A target matches when it contains
// every non-whitespace character of the query, in order, with any number of
// characters in between. There is no scoring: a target either matches or it
// does not.
//
//	"hih"    matches "High Energy"
//	"jhn"    matches "John Lennon"
//	"hih"    does not match "Low Power"
//	"100%"   matches "100% Hits" (the % is literal)
//
// # Components
//
//   - Pattern: turns a query into a SQL LIKE pattern ("hih" -> "%h%i%h%"),
//     escaping %, _ and \ so they match literally.
//   - Searcher: per-entity descriptor naming the entity's own searchable field
//     and the related fields searched with it. Apply translates a query into
//     filter.Builder calls (join, match, distinct).
//   - Match / Highlight: the same rule evaluated in Go with Unicode case
//     folding, used to highlight matched characters in HTML listings.
//
// # Usage
//
//	q := store.Releases()
//	search.Releases.Apply(q, "hihvlt")
//	n, err := q.Count(ctx)
//
// Searchers never replace the candidate set they are given. Callers that
// want to search inside a subset restrict the builder first and then apply
// the searcher.
//
// # Duplicates
//
// Searching a release by participant artist joins a to-many relation, which
// yields one row per participant. Searchers request Distinct in that case so
// each release is counted and returned once, in the candidate set's own
// order.
package search
