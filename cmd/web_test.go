package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rubiojr/catalog/pkg/attachments"
	"github.com/rubiojr/catalog/pkg/config"
	"github.com/rubiojr/catalog/pkg/core"
	"github.com/rubiojr/catalog/pkg/storage"
)

type testCatalog struct {
	store   *storage.Store
	cfg     *config.Config
	web     *WebServer
	server  *httptest.Server
	artists []*core.Artist
}

func setupTestWebServer(t *testing.T) *testCatalog {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))

	cfg, err := config.GetDefaultConfig()
	if err != nil {
		t.Fatal(err)
	}

	store, err := storage.Open(cfg.DatabasePath)
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	tc := &testCatalog{store: store, cfg: cfg}
	ctx := context.Background()
	now := time.Now().UTC()

	for i := range 3 {
		a := &core.Artist{Name: fmt.Sprintf("Artist %d", i)}
		if err := store.CreateArtist(ctx, a); err != nil {
			t.Fatal(err)
		}
		tc.artists = append(tc.artists, a)
	}

	// 15 past releases by artist 0 and 2 upcoming ones by artist 1.
	for i := range 17 {
		at := now.Add(-time.Duration(i+1) * 24 * time.Hour)
		owner := tc.artists[0]
		if i >= 15 {
			at = now.Add(time.Duration(i) * 24 * time.Hour)
			owner = tc.artists[1]
		}
		r := &core.Release{Name: fmt.Sprintf("Record %02d", i), ReleasedAt: at, Artists: []*core.Artist{owner}}
		if err := store.CreateRelease(ctx, r); err != nil {
			t.Fatal(err)
		}
		album := &core.Album{Name: r.Name + " LP", DurationInMinutes: 40 + i, ReleaseID: r.ID, ArtistID: owner.ID}
		if err := store.CreateAlbum(ctx, album); err != nil {
			t.Fatal(err)
		}
	}

	tc.web = NewWebServer(cfg, store)
	tc.server = httptest.NewServer(tc.web.Handler())
	t.Cleanup(tc.server.Close)
	return tc
}

func (tc *testCatalog) get(t *testing.T, path string) (int, string) {
	t.Helper()
	resp, err := http.Get(tc.server.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp.StatusCode, string(body)
}

func TestDashboardPage(t *testing.T) {
	tc := setupTestWebServer(t)

	status, body := tc.get(t, "/")
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	for _, want := range []string{"Upcoming releases", "Record 15", "Record 00", "Artist 2"} {
		if !strings.Contains(body, want) {
			t.Errorf("dashboard missing %q", want)
		}
	}
	// Only the five latest past releases are shown.
	if strings.Contains(body, "Record 05") {
		t.Error("dashboard shows more than five past releases")
	}
}

func TestReleasesPagePagination(t *testing.T) {
	tc := setupTestWebServer(t)

	_, body := tc.get(t, "/releases")
	if got := strings.Count(body, `<article class="release`); got != webPerPage {
		t.Errorf("expected %d releases on the first page, got %d", webPerPage, got)
	}
	if !strings.Contains(body, `href="/releases?page=2"`) {
		t.Errorf("missing next page link")
	}

	_, body = tc.get(t, "/releases?page=2")
	if got := strings.Count(body, `<article class="release`); got != 17-webPerPage {
		t.Errorf("expected %d releases on the second page, got %d", 17-webPerPage, got)
	}
}

func TestReleasesPageSearchAndPast(t *testing.T) {
	tc := setupTestWebServer(t)

	_, body := tc.get(t, "/releases?search=rcd1&past=1")
	// Record 01 and 10..14 are past and match; 15 and 16 are upcoming.
	if got := strings.Count(body, `<article class="release`); got != 6 {
		t.Errorf("expected 6 matches, got %d", got)
	}
	if !strings.Contains(body, "<mark>") {
		t.Error("expected highlighted matches")
	}
	if !strings.Contains(body, `<option value="1" selected>`) {
		t.Error("past filter not preserved in the form")
	}

	_, body = tc.get(t, "/releases?past=0")
	if got := strings.Count(body, "upcoming</span>"); got != 2 {
		t.Errorf("expected 2 upcoming releases, got %d", got)
	}
}

func TestArtistPage(t *testing.T) {
	tc := setupTestWebServer(t)

	status, body := tc.get(t, fmt.Sprintf("/artists/%d", tc.artists[1].ID))
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if got := strings.Count(body, `<article class="release`); got != 2 {
		t.Errorf("expected the artist's 2 releases, got %d", got)
	}

	if status, _ := tc.get(t, "/artists/999"); status != http.StatusNotFound {
		t.Errorf("unknown artist status = %d", status)
	}
	if status, _ := tc.get(t, "/artists/abc"); status != http.StatusNotFound {
		t.Errorf("invalid artist id status = %d", status)
	}
}

func TestArtistsAndAlbumsPages(t *testing.T) {
	tc := setupTestWebServer(t)

	_, body := tc.get(t, "/artists")
	if got := strings.Count(body, `<article class="artist"`); got != 3 {
		t.Errorf("expected 3 artists, got %d", got)
	}
	if !strings.Contains(body, "15 releases") {
		t.Errorf("expected release count for Artist 0")
	}

	_, body = tc.get(t, "/albums?q=rcd16")
	if got := strings.Count(body, `<article class="album"`); got != 1 {
		t.Errorf("expected 1 album, got %d", got)
	}
}

func TestAttachmentsAndStatic(t *testing.T) {
	tc := setupTestWebServer(t)

	resolver := attachments.NewDirResolver(tc.cfg.AttachmentsDir)
	url, err := resolver.Save(tc.artists[0], "logo", "png", bytes.NewReader([]byte("png-bytes")))
	if err != nil {
		t.Fatal(err)
	}

	status, body := tc.get(t, url)
	if status != http.StatusOK || body != "png-bytes" {
		t.Errorf("attachment: status %d body %q", status, body)
	}

	_, page := tc.get(t, "/artists")
	if !strings.Contains(page, url) {
		t.Errorf("artist listing does not show the logo %s", url)
	}

	if status, _ := tc.get(t, "/static/style.css"); status != http.StatusOK {
		t.Errorf("static asset status = %d", status)
	}
}

func TestAPIMounted(t *testing.T) {
	tc := setupTestWebServer(t)

	resp, err := http.Get(tc.server.URL + "/api/releases?past=0")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK || resp.Header.Get("Content-Type") != "application/vnd.api+json" {
		t.Errorf("API status %d content type %q", resp.StatusCode, resp.Header.Get("Content-Type"))
	}
}

func TestReload(t *testing.T) {
	tc := setupTestWebServer(t)

	cfg := *tc.cfg
	cfg.API.Tokens = []string{"secret"}
	cfg.API.DefaultPerPage = 5
	tc.web.Reload(&cfg, false)

	if status, _ := tc.get(t, "/api/releases"); status != http.StatusUnauthorized {
		t.Errorf("expected 401 after adding a token, got %d", status)
	}
	if got := tc.web.catalog.Limits().Default; got != 5 {
		t.Errorf("limits not reloaded, default = %d", got)
	}
	// HTML pages are not token protected.
	if status, _ := tc.get(t, "/releases"); status != http.StatusOK {
		t.Errorf("HTML page status = %d", status)
	}
}
