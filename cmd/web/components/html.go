package components

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"github.com/rubiojr/catalog/cmd/web/components/types"
)

// html writes markup and stops at the first write error.
type html struct {
	ctx context.Context
	w   io.Writer
	err error
}

func (h *html) raw(s string) {
	if h.err == nil {
		_, h.err = io.WriteString(h.w, s)
	}
}

func (h *html) text(s string) {
	h.raw(templ.EscapeString(s))
}

func (h *html) num(n int) {
	h.raw(strconv.Itoa(n))
}

func (h *html) href(u string) {
	h.raw(` href="`)
	h.text(string(templ.URL(u)))
	h.raw(`"`)
}

func (h *html) runs(runs []types.TextRun) {
	for _, r := range runs {
		if r.Mark {
			h.raw("<mark>")
			h.text(r.Text)
			h.raw("</mark>")
			continue
		}
		h.text(r.Text)
	}
}

func (h *html) render(c templ.Component) {
	if h.err == nil {
		h.err = c.Render(h.ctx, h.w)
	}
}

// component adapts a markup function to templ.Component.
func component(fn func(h *html)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{ctx: ctx, w: w}
		fn(h)
		return h.err
	})
}
