package components

import (
	"github.com/a-h/templ"

	"github.com/rubiojr/catalog/cmd/web/components/types"
)

func stat(h *html, label string, n int) {
	h.raw(`<div class="stat"><strong>`)
	h.num(n)
	h.raw(`</strong><span>`)
	h.text(label)
	h.raw(`</span></div>`)
}

// Dashboard renders the home page.
func Dashboard(data types.DashboardData) templ.Component {
	body := component(func(h *html) {
		h.raw(`<h1>Catalog</h1><section class="stats">`)
		stat(h, "artists", data.Stats.Artists)
		stat(h, "releases", data.Stats.Releases)
		stat(h, "albums", data.Stats.Albums)
		stat(h, "released", data.Stats.Past)
		stat(h, "upcoming", data.Stats.Upcoming)
		h.raw(`</section>`)

		h.raw(`<section><h2>Upcoming releases</h2>`)
		releaseGrid(h, data.Upcoming, "Nothing scheduled.")
		h.raw(`<p><a href="/releases?past=0">All upcoming releases</a></p></section>`)

		h.raw(`<section><h2>Latest releases</h2>`)
		releaseGrid(h, data.Past, "Nothing released yet.")
		h.raw(`<p><a href="/releases?past=1">All past releases</a></p></section>`)

		h.raw(`<section><h2>New artists</h2>`)
		if len(data.RecentArtists) == 0 {
			h.raw(`<p class="empty">No artists yet.</p>`)
		} else {
			h.raw(`<div class="grid">`)
			for _, a := range data.RecentArtists {
				artistCard(h, a)
			}
			h.raw(`</div>`)
		}
		h.raw(`</section>`)
	})
	return Layout(data.PageData, body)
}
