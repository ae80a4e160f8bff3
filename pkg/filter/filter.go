// Package filter composes independent restrictions over a candidate set.
//
// Filters never talk to a database. They describe what they want through
// the Builder interface, which the storage layer implements by emitting SQL.
// That keeps every filter testable against a recording Builder and keeps the
// application order explicit: a Chain applies its filters in slice order.
package filter

import "time"

// Op is a comparison operator understood by Builder.Compare.
type Op string

const (
	Lt  Op = "<"
	Lte Op = "<="
	Gt  Op = ">"
	Gte Op = ">="
	Eq  Op = "="
)

// Builder is the query surface that filters and searchers are applied to.
// Fields are qualified as "<table>.<column>"; relations are named by the
// entity that owns them (for example "artists" on releases).
type Builder interface {
	// Join makes a related entity's fields addressable. Joining the same
	// relation twice is a no-op.
	Join(relation string)
	// MatchAny keeps rows where at least one of fields matches the LIKE
	// pattern, case-insensitively.
	MatchAny(pattern string, fields ...string)
	// Compare keeps rows where field op value holds.
	Compare(field string, op Op, value any)
	// Distinct collapses rows duplicated by a to-many join so that each
	// primary entity appears once.
	Distinct()
}

// Filter is a named restriction.
type Filter interface {
	Name() string
	Apply(b Builder)
}

type funcFilter struct {
	name string
	fn   func(Builder)
}

func (f funcFilter) Name() string    { return f.name }
func (f funcFilter) Apply(b Builder) { f.fn(b) }

// New wraps fn as a Filter called name.
func New(name string, fn func(Builder)) Filter {
	return funcFilter{name: name, fn: fn}
}

// Chain is an ordered list of filters.
type Chain []Filter

// With returns the chain extended by f. A nil f leaves the chain unchanged,
// so constructors can return nil for "no restriction".
func (c Chain) With(f Filter) Chain {
	if f == nil {
		return c
	}
	return append(c, f)
}

// Apply runs every filter against b in order.
func (c Chain) Apply(b Builder) {
	for _, f := range c {
		f.Apply(b)
	}
}

// Names lists the filter names in application order.
func (c Chain) Names() []string {
	names := make([]string, len(c))
	for i, f := range c {
		names[i] = f.Name()
	}
	return names
}

// TriState is a filter toggle that may be unset.
type TriState int

const (
	Unset TriState = iota
	True
	False
)

// ParseTriState accepts "1"/"true" and "0"/"false". Anything else is Unset.
func ParseTriState(raw string) TriState {
	switch raw {
	case "1", "true":
		return True
	case "0", "false":
		return False
	default:
		return Unset
	}
}

func (t TriState) String() string {
	switch t {
	case True:
		return "true"
	case False:
		return "false"
	default:
		return "unset"
	}
}

// Past restricts field (a timestamp) relative to now: True keeps rows
// strictly before now, False keeps rows at or after now. Unset returns nil.
func Past(field string, past TriState, now func() time.Time) Filter {
	switch past {
	case True:
		return New("past", func(b Builder) {
			b.Compare(field, Lt, now())
		})
	case False:
		return New("upcoming", func(b Builder) {
			b.Compare(field, Gte, now())
		})
	default:
		return nil
	}
}
