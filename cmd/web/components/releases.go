package components

import (
	"strconv"

	"github.com/a-h/templ"

	"github.com/rubiojr/catalog/cmd/web/components/types"
)

func artistURL(id int64) string {
	return "/artists/" + strconv.FormatInt(id, 10)
}

func releaseCard(h *html, r types.ReleaseView) {
	h.raw(`<article class="release`)
	if !r.Past {
		h.raw(` upcoming`)
	}
	h.raw(`">`)
	if r.Cover != "" {
		h.raw(`<img class="cover" alt="" src="`)
		h.text(string(templ.URL(r.Cover)))
		h.raw(`">`)
	}
	h.raw(`<h3>`)
	h.runs(r.Name)
	h.raw(`</h3><p class="date"><time datetime="`)
	h.text(r.ReleasedAt.UTC().Format("2006-01-02"))
	h.raw(`">`)
	h.text(FormatDate(r.ReleasedAt))
	h.raw(`</time>`)
	if !r.Past {
		h.raw(` <span class="badge">upcoming</span>`)
	}
	h.raw(`</p>`)
	if r.Album != "" {
		h.raw(`<p class="album">`)
		h.text(r.Album)
		h.raw(` &middot; `)
		h.text(r.Duration)
		h.raw(`</p>`)
	}
	if len(r.Artists) > 0 {
		h.raw(`<p class="artists">`)
		for i, a := range r.Artists {
			if i > 0 {
				h.raw(`, `)
			}
			h.raw(`<a`)
			h.href(artistURL(a.ID))
			h.raw(`>`)
			h.text(a.Name)
			h.raw(`</a>`)
		}
		h.raw(`</p>`)
	}
	h.raw(`</article>`)
}

func releaseGrid(h *html, releases []types.ReleaseView, empty string) {
	if len(releases) == 0 {
		h.raw(`<p class="empty">`)
		h.text(empty)
		h.raw(`</p>`)
		return
	}
	h.raw(`<div class="grid">`)
	for _, r := range releases {
		releaseCard(h, r)
	}
	h.raw(`</div>`)
}

// Releases renders a page of releases.
func Releases(data types.ReleasesData) templ.Component {
	body := component(func(h *html) {
		h.raw(`<h1>`)
		if data.Artist != nil {
			h.text(data.Artist.Name)
		} else {
			h.raw(`Releases`)
		}
		h.raw(`</h1>`)
		h.render(SearchForm(data.PageData, true))
		summary(h, data.PageData, "releases")
		releaseGrid(h, data.Releases, "No releases found.")
		h.render(Pagination(data.PageData))
	})
	return Layout(data.PageData, body)
}
