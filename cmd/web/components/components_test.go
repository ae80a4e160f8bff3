package components

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/a-h/templ"

	"github.com/rubiojr/catalog/cmd/web/components/types"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var b strings.Builder
	if err := c.Render(context.Background(), &b); err != nil {
		t.Fatalf("render: %v", err)
	}
	return b.String()
}

func TestPageURL(t *testing.T) {
	params := url.Values{"search": {"a b"}, "page": {"3"}, "past": {"1"}}
	if got := PageURL("/releases", params, 2); got != "/releases?page=2&past=1&search=a+b" {
		t.Errorf("PageURL = %q", got)
	}
	if got := PageURL("/releases", url.Values{"page": {"2"}}, 1); got != "/releases" {
		t.Errorf("first page URL = %q", got)
	}
}

func TestPagination(t *testing.T) {
	data := types.PageData{Path: "/artists", CurrentPage: 2, TotalPages: 3, Params: url.Values{"q": {"x"}}}
	out := render(t, Pagination(data))
	if !strings.Contains(out, `href="/artists?q=x"`) {
		t.Errorf("missing prev link: %s", out)
	}
	if !strings.Contains(out, `href="/artists?page=3&amp;q=x"`) {
		t.Errorf("missing next link: %s", out)
	}

	data.TotalPages = 1
	if out := render(t, Pagination(data)); out != "" {
		t.Errorf("single page should render nothing, got %q", out)
	}
}

func TestReleasesEscapesAndHighlights(t *testing.T) {
	data := types.ReleasesData{
		PageData: types.PageData{Title: "Releases", Path: "/releases", Query: "<b>", TotalCount: 1},
		Releases: []types.ReleaseView{{
			ID:         1,
			Name:       Highlight("hih", "Hi<script>h"),
			ReleasedAt: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
			Past:       true,
			Artists:    []types.ArtistLink{{ID: 7, Name: "A & B"}},
		}},
	}
	out := render(t, Releases(data))

	if strings.Contains(out, "<script>") || strings.Contains(out, `value="<b>"`) {
		t.Fatalf("unescaped user content in output: %s", out)
	}
	if !strings.Contains(out, "<mark>Hi</mark>&lt;script&gt;<mark>h</mark>") {
		t.Errorf("expected highlighted name, got: %s", out)
	}
	if !strings.Contains(out, `<a href="/artists/7">A &amp; B</a>`) {
		t.Errorf("expected artist link, got: %s", out)
	}
	if !strings.Contains(out, "May 1, 2024") {
		t.Errorf("expected formatted date, got: %s", out)
	}
	if strings.Contains(out, "upcoming</span>") {
		t.Errorf("past release marked upcoming")
	}
}

func TestDashboardEmpty(t *testing.T) {
	out := render(t, Dashboard(types.DashboardData{PageData: types.PageData{Title: "Catalog", Path: "/", Version: "1.0"}}))
	for _, want := range []string{"Nothing scheduled.", "Nothing released yet.", "No artists yet.", "catalog 1.0"} {
		if !strings.Contains(out, want) {
			t.Errorf("dashboard missing %q", want)
		}
	}
}

func TestFormatMinutes(t *testing.T) {
	if got := FormatMinutes(45); got != "45 min" {
		t.Errorf("FormatMinutes(45) = %q", got)
	}
	if got := FormatMinutes(125); got != "2h 05min" {
		t.Errorf("FormatMinutes(125) = %q", got)
	}
}
