package components

import (
	"github.com/a-h/templ"

	"github.com/rubiojr/catalog/cmd/web/components/types"
)

var navLinks = []struct{ Path, Label string }{
	{"/", "Dashboard"},
	{"/releases", "Releases"},
	{"/artists", "Artists"},
	{"/albums", "Albums"},
}

// Layout wraps body in the page chrome.
func Layout(data types.PageData, body templ.Component) templ.Component {
	return component(func(h *html) {
		h.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.raw(`<title>`)
		h.text(data.Title)
		h.raw(`</title><link rel="stylesheet" href="/static/style.css"></head><body>`)

		h.raw(`<header><nav>`)
		for _, l := range navLinks {
			h.raw(`<a`)
			h.href(l.Path)
			if l.Path != "/" && l.Path == data.Path {
				h.raw(` class="active"`)
			}
			h.raw(`>`)
			h.text(l.Label)
			h.raw(`</a>`)
		}
		h.raw(`</nav></header><main>`)

		if data.Error != "" {
			h.raw(`<div class="error">`)
			h.text(data.Error)
			h.raw(`</div>`)
		}
		h.render(body)

		h.raw(`</main><footer>catalog `)
		h.text(data.Version)
		h.raw(`</footer></body></html>`)
	})
}

// SearchForm renders the search box of a listing, keeping the past filter.
func SearchForm(data types.PageData, withPast bool) templ.Component {
	return component(func(h *html) {
		h.raw(`<form class="search" method="get" action="`)
		h.text(data.Path)
		h.raw(`"><input type="search" name="search" placeholder="Search" value="`)
		h.text(data.Query)
		h.raw(`">`)
		if withPast {
			h.raw(`<select name="past">`)
			for _, opt := range []struct{ Value, Label string }{{"", "All"}, {"1", "Past"}, {"0", "Upcoming"}} {
				h.raw(`<option value="`)
				h.text(opt.Value)
				h.raw(`"`)
				if opt.Value == data.Past {
					h.raw(` selected`)
				}
				h.raw(`>`)
				h.text(opt.Label)
				h.raw(`</option>`)
			}
			h.raw(`</select>`)
		}
		h.raw(`<button type="submit">Search</button></form>`)
	})
}
