package jsonapi

import (
	"net/url"
	"strconv"

	"github.com/rubiojr/catalog/pkg/paginate"
)

// Links are the top-level pagination links of a collection document.
type Links struct {
	Self  string `json:"self"`
	First string `json:"first"`
	Last  string `json:"last"`
	Prev  string `json:"prev,omitempty"`
	Next  string `json:"next,omitempty"`
}

// PageURL returns base with the query params of the current request and
// page replaced. Params are encoded in sorted key order.
func PageURL(base string, params url.Values, page int) string {
	q := make(url.Values, len(params)+1)
	for k, v := range params {
		if k == "page" {
			continue
		}
		q[k] = append([]string(nil), v...)
	}
	q.Set("page", strconv.Itoa(page))
	return base + "?" + q.Encode()
}

// PaginationLinks builds self/first/last and, where applicable, prev/next.
func PaginationLinks(base string, params url.Values, meta paginate.Meta) *Links {
	l := &Links{
		Self:  PageURL(base, params, meta.CurrentPage),
		First: PageURL(base, params, 1),
		Last:  PageURL(base, params, meta.LastPage()),
	}
	if meta.HasPrev() {
		l.Prev = PageURL(base, params, meta.CurrentPage-1)
	}
	if meta.HasNext() {
		l.Next = PageURL(base, params, meta.CurrentPage+1)
	}
	return l
}
