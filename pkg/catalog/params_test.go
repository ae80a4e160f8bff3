package catalog

import (
	"net/url"
	"testing"

	"github.com/rubiojr/catalog/pkg/filter"
	"github.com/rubiojr/catalog/pkg/paginate"
)

func TestParseListParams(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		page    int
		perPage int
		search  string
		past    filter.TriState
	}{
		{name: "defaults", query: "", page: 1, perPage: 10},
		{name: "page and limit", query: "page=3&limit=25", page: 3, perPage: 25},
		{name: "per_page alias", query: "per_page=5", page: 1, perPage: 5},
		{name: "limit wins over per_page", query: "limit=7&per_page=5", page: 1, perPage: 7},
		{name: "limit clamped", query: "limit=1000", page: 1, perPage: 100},
		{name: "garbage falls back", query: "page=abc&limit=-3", page: 1, perPage: 10},
		{name: "search trimmed", query: "search=++hih++", page: 1, perPage: 10, search: "hih"},
		{name: "q alias", query: "q=abc", page: 1, perPage: 10, search: "abc"},
		{name: "search wins over q", query: "search=a&q=b", page: 1, perPage: 10, search: "a"},
		{name: "past true", query: "past=true", page: 1, perPage: 10, past: filter.True},
		{name: "past zero", query: "past=0", page: 1, perPage: 10, past: filter.False},
		{name: "past garbage", query: "past=yes", page: 1, perPage: 10, past: filter.Unset},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := url.ParseQuery(tt.query)
			if err != nil {
				t.Fatal(err)
			}
			p := ParseListParams(v, paginate.DefaultLimits)
			if p.Page != tt.page || p.PerPage != tt.perPage || p.Search != tt.search || p.Past != tt.past {
				t.Errorf("got page=%d perPage=%d search=%q past=%s", p.Page, p.PerPage, p.Search, p.Past)
			}
		})
	}
}
