package storage

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rubiojr/catalog/pkg/filter"
)

// joins lists the relations each entity table can join, keyed by relation
// name. A relation joins the related table under its own name so that
// qualified fields like "artists.name" resolve.
var joins = map[string]map[string]string{
	"releases": {
		"artists": "LEFT JOIN artist_releases ON artist_releases.release_id = releases.id " +
			"LEFT JOIN artists ON artists.id = artist_releases.artist_id",
		"album": "LEFT JOIN albums ON albums.release_id = releases.id",
	},
	"albums": {
		"artist":  "LEFT JOIN artists ON artists.id = albums.artist_id",
		"release": "LEFT JOIN releases ON releases.id = albums.release_id",
	},
	"artists": {
		"releases": "LEFT JOIN artist_releases ON artist_releases.artist_id = artists.id " +
			"LEFT JOIN releases ON releases.id = artist_releases.release_id",
		"albums": "LEFT JOIN albums ON albums.artist_id = artists.id",
	},
}

var fieldPattern = regexp.MustCompile(`^[a-z_]+\.[a-z_]+$`)

var operators = map[filter.Op]string{
	filter.Lt:  "<",
	filter.Lte: "<=",
	filter.Gt:  ">",
	filter.Gte: ">=",
	filter.Eq:  "=",
}

// Query is a candidate set over one entity table. It implements
// filter.Builder. Misuse such as an unknown relation or a malformed field is
// recorded and reported by the first statement built from the query.
type Query struct {
	table    string
	joined   []string
	where    []string
	args     []any
	distinct bool
	err      error
}

var _ filter.Builder = (*Query)(nil)

// NewQuery returns an unrestricted query over table.
func NewQuery(table string) *Query {
	q := &Query{table: table}
	if _, ok := joins[table]; !ok {
		q.err = fmt.Errorf("unknown table %q", table)
	}
	return q
}

// Table is the primary table.
func (q *Query) Table() string {
	return q.table
}

// Err reports the first misuse of the query.
func (q *Query) Err() error {
	return q.err
}

func (q *Query) Join(relation string) {
	if q.err != nil {
		return
	}
	for _, r := range q.joined {
		if r == relation {
			return
		}
	}
	if _, ok := joins[q.table][relation]; !ok {
		q.err = fmt.Errorf("%s has no relation %q", q.table, relation)
		return
	}
	q.joined = append(q.joined, relation)
}

func (q *Query) MatchAny(pattern string, fields ...string) {
	if q.err != nil || len(fields) == 0 {
		return
	}
	preds := make([]string, 0, len(fields))
	for _, f := range fields {
		if !fieldPattern.MatchString(f) {
			q.err = fmt.Errorf("invalid field %q", f)
			return
		}
		preds = append(preds, f+` LIKE ? ESCAPE '\'`)
		q.args = append(q.args, pattern)
	}
	q.where = append(q.where, "("+strings.Join(preds, " OR ")+")")
}

func (q *Query) Compare(field string, op filter.Op, value any) {
	if q.err != nil {
		return
	}
	if !fieldPattern.MatchString(field) {
		q.err = fmt.Errorf("invalid field %q", field)
		return
	}
	sqlOp, ok := operators[op]
	if !ok {
		q.err = fmt.Errorf("unsupported operator %q", op)
		return
	}
	if t, ok := value.(time.Time); ok {
		value = formatTime(t)
	}
	q.where = append(q.where, fmt.Sprintf("%s %s ?", field, sqlOp))
	q.args = append(q.args, value)
}

func (q *Query) Distinct() {
	q.distinct = true
}

// Restrict adds a raw predicate over the primary table. It is how scopes
// narrow the candidate universe without sharing join aliases with filters.
func (q *Query) Restrict(clause string, args ...any) {
	if q.err != nil {
		return
	}
	q.where = append(q.where, "("+clause+")")
	q.args = append(q.args, args...)
}

// from renders the FROM ... WHERE part shared by count and fetch.
func (q *Query) from() string {
	var b strings.Builder
	b.WriteString("FROM ")
	b.WriteString(q.table)
	for _, r := range q.joined {
		b.WriteString(" ")
		b.WriteString(joins[q.table][r])
	}
	if len(q.where) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(q.where, " AND "))
	}
	return b.String()
}

// CountSQL counts distinct primary rows.
func (q *Query) CountSQL() (string, []any) {
	return fmt.Sprintf("SELECT COUNT(DISTINCT %s.id) %s", q.table, q.from()), q.args
}

// OrderColumn is one sort key of a candidate set.
type OrderColumn struct {
	Expr string
	Desc bool
}

func (o OrderColumn) dir() string {
	if o.Desc {
		return "DESC"
	}
	return "ASC"
}

// PageSQL renders a CTE named page holding the ids of one slice of the
// candidate set together with their sort keys (o0, o1, ...). The id column
// is always the final tie-break. PageOrder renders the matching ORDER BY
// for statements selecting from page.
func (q *Query) PageSQL(order []OrderColumn, idDesc bool, limit, offset int) (string, []any) {
	cols := []string{q.table + ".id AS id"}
	keys := make([]string, 0, len(order)+1)
	for i, o := range order {
		alias := fmt.Sprintf("o%d", i)
		cols = append(cols, fmt.Sprintf("%s AS %s", o.Expr, alias))
		keys = append(keys, alias+" "+o.dir())
	}
	keys = append(keys, "id "+OrderColumn{Desc: idDesc}.dir())

	sql := fmt.Sprintf("WITH page AS (SELECT DISTINCT %s %s ORDER BY %s LIMIT ? OFFSET ?)",
		strings.Join(cols, ", "), q.from(), strings.Join(keys, ", "))

	args := make([]any, 0, len(q.args)+2)
	args = append(args, q.args...)
	args = append(args, limit, offset)
	return sql, args
}

// PageOrder is the ORDER BY clause over the page CTE's columns.
func PageOrder(order []OrderColumn, idDesc bool) string {
	keys := make([]string, 0, len(order)+1)
	for i, o := range order {
		keys = append(keys, fmt.Sprintf("page.o%d %s", i, o.dir()))
	}
	keys = append(keys, "page.id "+OrderColumn{Desc: idDesc}.dir())
	return strings.Join(keys, ", ")
}

// IsDistinct reports whether Distinct was requested.
func (q *Query) IsDistinct() bool {
	return q.distinct
}
