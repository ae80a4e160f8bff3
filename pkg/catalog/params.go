package catalog

import (
	"net/url"
	"strings"

	"github.com/rubiojr/catalog/pkg/filter"
	"github.com/rubiojr/catalog/pkg/paginate"
)

// ListParams are the decoded inputs of a list request.
type ListParams struct {
	Page    int
	PerPage int
	Search  string
	Past    filter.TriState

	// Query is the raw request query, carried into pagination links.
	Query url.Values
}

// ParseListParams decodes list parameters. Nothing here fails: malformed
// values fall back to defaults. limit takes precedence over per_page and
// search over q.
func ParseListParams(v url.Values, limits paginate.Limits) ListParams {
	perPage := v.Get("per_page")
	if v.Has("limit") {
		perPage = v.Get("limit")
	}

	query := v.Get("q")
	if v.Has("search") {
		query = v.Get("search")
	}

	return ListParams{
		Page:    paginate.NormalizePage(v.Get("page")),
		PerPage: limits.NormalizePerPage(perPage),
		Search:  strings.TrimSpace(query),
		Past:    filter.ParseTriState(v.Get("past")),
		Query:   v,
	}
}

// Searching reports whether a search query is active.
func (p ListParams) Searching() bool {
	return p.Search != ""
}
