package components

import (
	"net/url"
	"strconv"

	"github.com/a-h/templ"

	"github.com/rubiojr/catalog/cmd/web/components/types"
)

// PageURL links to page of the listing at path, keeping the other query
// parameters.
func PageURL(path string, params url.Values, page int) string {
	q := url.Values{}
	for k, v := range params {
		if k != "page" {
			q[k] = v
		}
	}
	if page > 1 {
		q.Set("page", strconv.Itoa(page))
	}
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}

// Pagination renders previous/next links and the page position. Nothing is
// rendered for a single page.
func Pagination(data types.PageData) templ.Component {
	return component(func(h *html) {
		if data.TotalPages <= 1 {
			return
		}
		h.raw(`<nav class="pagination">`)
		if data.CurrentPage > 1 {
			h.raw(`<a rel="prev"`)
			h.href(PageURL(data.Path, data.Params, data.CurrentPage-1))
			h.raw(`>&larr; Previous</a>`)
		}
		h.raw(`<span>Page `)
		h.num(data.CurrentPage)
		h.raw(` of `)
		h.num(data.TotalPages)
		h.raw(`</span>`)
		if data.CurrentPage < data.TotalPages {
			h.raw(`<a rel="next"`)
			h.href(PageURL(data.Path, data.Params, data.CurrentPage+1))
			h.raw(`>Next &rarr;</a>`)
		}
		h.raw(`</nav>`)
	})
}

func summary(h *html, data types.PageData, noun string) {
	h.raw(`<p class="summary">`)
	h.num(data.TotalCount)
	h.raw(" ")
	h.text(noun)
	if data.Query != "" {
		h.raw(` matching &ldquo;`)
		h.text(data.Query)
		h.raw(`&rdquo;`)
	}
	h.raw(`</p>`)
}
