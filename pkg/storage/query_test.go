package storage

import (
	"strings"
	"testing"
	"time"

	"github.com/rubiojr/catalog/pkg/filter"
)

func TestQueryBuildsJoinsOnce(t *testing.T) {
	q := NewQuery("releases")
	q.Join("artists")
	q.Join("artists")
	q.Join("album")
	q.MatchAny("%a%", "releases.name", "artists.name", "albums.name")
	q.Distinct()

	sql, args := q.CountSQL()
	if strings.Count(sql, "JOIN artist_releases") != 1 {
		t.Errorf("artists joined more than once: %s", sql)
	}
	if !strings.HasPrefix(sql, "SELECT COUNT(DISTINCT releases.id) FROM releases") {
		t.Errorf("unexpected count sql: %s", sql)
	}
	if !strings.Contains(sql, `(releases.name LIKE ? ESCAPE '\' OR artists.name LIKE ? ESCAPE '\' OR albums.name LIKE ? ESCAPE '\')`) {
		t.Errorf("match predicate missing: %s", sql)
	}
	if len(args) != 3 {
		t.Errorf("expected 3 args, got %d", len(args))
	}
	if !q.IsDistinct() {
		t.Error("expected distinct")
	}
}

func TestQueryCompareFormatsTime(t *testing.T) {
	q := NewQuery("releases")
	at := time.Date(2024, 1, 2, 3, 4, 5, 6000, time.FixedZone("X", 3600))
	q.Compare("releases.released_at", filter.Lt, at)

	sql, args := q.CountSQL()
	if !strings.HasSuffix(sql, "WHERE releases.released_at < ?") {
		t.Errorf("unexpected sql: %s", sql)
	}
	if args[0] != "2024-01-02T02:04:05.000006Z" {
		t.Errorf("time arg = %v", args[0])
	}
}

func TestQueryPageSQL(t *testing.T) {
	q := NewQuery("albums")
	sql, args := q.PageSQL(albumOrder.columns, albumOrder.idDesc, 10, 20)

	want := "WITH page AS (SELECT DISTINCT albums.id AS id, albums.created_at AS o0 FROM albums ORDER BY o0 DESC, id DESC LIMIT ? OFFSET ?)"
	if sql != want {
		t.Errorf("got  %s\nwant %s", sql, want)
	}
	if len(args) != 2 || args[0] != 10 || args[1] != 20 {
		t.Errorf("unexpected args %v", args)
	}
	if got := PageOrder(albumOrder.columns, albumOrder.idDesc); got != "page.o0 DESC, page.id DESC" {
		t.Errorf("PageOrder = %q", got)
	}
}

func TestQueryErrors(t *testing.T) {
	tests := []struct {
		name  string
		apply func(q *Query)
	}{
		{name: "unknown relation", apply: func(q *Query) { q.Join("labels") }},
		{name: "bad field", apply: func(q *Query) { q.MatchAny("%", "1=1 OR releases.name") }},
		{name: "bad operator", apply: func(q *Query) { q.Compare("releases.name", filter.Op("LIKE"), "x") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := NewQuery("releases")
			tt.apply(q)
			if q.Err() == nil {
				t.Error("expected error")
			}
		})
	}

	if NewQuery("labels").Err() == nil {
		t.Error("unknown table should fail")
	}
}
