// Package filtertest provides a recording filter.Builder for tests.
package filtertest

import (
	"fmt"
	"strings"

	"github.com/rubiojr/catalog/pkg/filter"
)

// Recorder captures every Builder call as a readable line.
type Recorder struct {
	Calls    []string
	Joins    []string
	Patterns []string
	distinct bool
}

func (r *Recorder) Join(relation string) {
	for _, j := range r.Joins {
		if j == relation {
			return
		}
	}
	r.Joins = append(r.Joins, relation)
	r.Calls = append(r.Calls, "join "+relation)
}

func (r *Recorder) MatchAny(pattern string, fields ...string) {
	r.Patterns = append(r.Patterns, pattern)
	r.Calls = append(r.Calls, fmt.Sprintf("match %s %s", strings.Join(fields, "|"), pattern))
}

func (r *Recorder) Compare(field string, op filter.Op, value any) {
	r.Calls = append(r.Calls, fmt.Sprintf("compare %s %s %v", field, op, value))
}

func (r *Recorder) Distinct() {
	r.distinct = true
	r.Calls = append(r.Calls, "distinct")
}

// IsDistinct reports whether Distinct was requested.
func (r *Recorder) IsDistinct() bool {
	return r.distinct
}
