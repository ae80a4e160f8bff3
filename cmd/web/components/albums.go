package components

import (
	"github.com/a-h/templ"

	"github.com/rubiojr/catalog/cmd/web/components/types"
)

// Albums renders a page of albums.
func Albums(data types.AlbumsData) templ.Component {
	body := component(func(h *html) {
		h.raw(`<h1>Albums</h1>`)
		h.render(SearchForm(data.PageData, false))
		summary(h, data.PageData, "albums")
		if len(data.Albums) == 0 {
			h.raw(`<p class="empty">No albums found.</p>`)
		} else {
			h.raw(`<div class="grid">`)
			for _, a := range data.Albums {
				h.raw(`<article class="album">`)
				if a.Cover != "" {
					h.raw(`<img class="cover" alt="" src="`)
					h.text(string(templ.URL(a.Cover)))
					h.raw(`">`)
				}
				h.raw(`<h3>`)
				h.runs(a.Name)
				h.raw(`</h3><p>`)
				h.text(a.Duration)
				h.raw(` &middot; <a`)
				h.href(artistURL(a.Artist.ID))
				h.raw(`>`)
				h.text(a.Artist.Name)
				h.raw(`</a></p>`)
				if a.Release != "" {
					h.raw(`<p class="release">`)
					h.text(a.Release)
					h.raw(`</p>`)
				}
				h.raw(`</article>`)
			}
			h.raw(`</div>`)
		}
		h.render(Pagination(data.PageData))
	})
	return Layout(data.PageData, body)
}
