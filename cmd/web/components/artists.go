package components

import (
	"github.com/a-h/templ"

	"github.com/rubiojr/catalog/cmd/web/components/types"
)

func artistCard(h *html, a types.ArtistView) {
	h.raw(`<article class="artist"><a`)
	h.href(artistURL(a.ID))
	h.raw(`>`)
	if a.Logo != "" {
		h.raw(`<img class="logo" alt="" src="`)
		h.text(string(templ.URL(a.Logo)))
		h.raw(`">`)
	}
	h.raw(`<h3>`)
	h.runs(a.Name)
	h.raw(`</h3></a><p>`)
	h.num(a.ReleaseCount)
	if a.ReleaseCount == 1 {
		h.raw(` release`)
	} else {
		h.raw(` releases`)
	}
	h.raw(`</p></article>`)
}

// Artists renders a page of artists.
func Artists(data types.ArtistsData) templ.Component {
	body := component(func(h *html) {
		h.raw(`<h1>Artists</h1>`)
		h.render(SearchForm(data.PageData, false))
		summary(h, data.PageData, "artists")
		if len(data.Artists) == 0 {
			h.raw(`<p class="empty">No artists found.</p>`)
		} else {
			h.raw(`<div class="grid">`)
			for _, a := range data.Artists {
				artistCard(h, a)
			}
			h.raw(`</div>`)
		}
		h.render(Pagination(data.PageData))
	})
	return Layout(data.PageData, body)
}
