package api

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rubiojr/catalog/pkg/catalog"
	"github.com/rubiojr/catalog/pkg/core"
	"github.com/rubiojr/catalog/pkg/jsonapi"
	"github.com/rubiojr/catalog/pkg/storage"
)

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return testNow }

func setupTestAPIServer(t *testing.T, opts ...Option) (*httptest.Server, *storage.Store) {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "catalog.db"), storage.WithClock(clock))
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	svc := catalog.NewService(store, catalog.WithClock(clock))
	ts := httptest.NewServer(NewServer(svc, opts...).Handler())
	t.Cleanup(ts.Close)
	return ts, store
}

func seedReleases(t *testing.T, store *storage.Store, n int) []*core.Release {
	t.Helper()
	var out []*core.Release
	for i := range n {
		r := &core.Release{Name: fmt.Sprintf("Release %02d", i), ReleasedAt: testNow.Add(-time.Duration(i+1) * time.Hour)}
		if err := store.CreateRelease(context.Background(), r); err != nil {
			t.Fatal(err)
		}
		out = append(out, r)
	}
	return out
}

func get(t *testing.T, rawURL string, header http.Header) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, rawURL, nil)
	if err != nil {
		t.Fatal(err)
	}
	for k, v := range header {
		req.Header[k] = v
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET %s: %v", rawURL, err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	return v
}

type listBody struct {
	Data     []jsonapi.Resource `json:"data"`
	Included []jsonapi.Resource `json:"included"`
	Meta     struct {
		CurrentPage int `json:"current_page"`
		TotalPages  int `json:"total_pages"`
		TotalCount  int `json:"total_count"`
		PerPage     int `json:"per_page"`
	} `json:"meta"`
	Links jsonapi.Links `json:"links"`
}

func TestListReleases(t *testing.T) {
	ts, store := setupTestAPIServer(t)
	seedReleases(t, store, 15)

	resp := get(t, ts.URL+"/api/releases", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != jsonapi.ContentType {
		t.Errorf("content type = %q", ct)
	}
	if resp.Header.Get(RequestIDHeader) == "" {
		t.Error("missing request id header")
	}

	body := decodeBody[listBody](t, resp)
	if len(body.Data) != 10 {
		t.Errorf("expected 10 releases, got %d", len(body.Data))
	}
	if body.Meta.TotalCount != 15 || body.Meta.TotalPages != 2 || body.Meta.CurrentPage != 1 || body.Meta.PerPage != 10 {
		t.Errorf("unexpected meta %+v", body.Meta)
	}
	if body.Links.Next != ts.URL+"/api/releases?page=2" {
		t.Errorf("next = %q", body.Links.Next)
	}
	if body.Links.Prev != "" {
		t.Errorf("unexpected prev %q", body.Links.Prev)
	}
	if body.Data[0].Attributes["name"] != "Release 00" {
		t.Errorf("newest release should come first, got %v", body.Data[0].Attributes["name"])
	}
}

func TestListReleasesPreservesParams(t *testing.T) {
	ts, store := setupTestAPIServer(t, WithBaseURL("https://catalog.example.com/"))
	seedReleases(t, store, 6)

	resp := get(t, ts.URL+"/api/releases?past=1&limit=2&page=2&search=release", nil)
	body := decodeBody[listBody](t, resp)

	if body.Links.Self != "https://catalog.example.com/api/releases?limit=2&page=2&past=1&search=release" {
		t.Errorf("self = %q", body.Links.Self)
	}
	if body.Links.Prev == "" || body.Links.Next == "" {
		t.Errorf("middle page should have prev and next: %+v", body.Links)
	}
	if body.Meta.TotalPages != 3 {
		t.Errorf("total pages = %d", body.Meta.TotalPages)
	}
}

func TestTokenAuthentication(t *testing.T) {
	ts, _ := setupTestAPIServer(t, WithAuthenticator(NewTokenAuthenticator([]string{"secret"})))

	tests := []struct {
		name   string
		header string
		status int
	}{
		{name: "missing", header: "", status: http.StatusUnauthorized},
		{name: "wrong", header: "Bearer nope", status: http.StatusUnauthorized},
		{name: "bearer", header: "Bearer secret", status: http.StatusOK},
		{name: "bare", header: "secret", status: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := http.Header{}
			if tt.header != "" {
				h.Set("Authorization", tt.header)
			}
			resp := get(t, ts.URL+"/api/releases", h)
			if resp.StatusCode != tt.status {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			if tt.status == http.StatusUnauthorized {
				body := decodeBody[ErrorResponse](t, resp)
				if body.Error != "Unauthorized" || body.Message != "Invalid or missing API token" {
					t.Errorf("unexpected 401 body %+v", body)
				}
			}
		})
	}

	if resp := get(t, ts.URL+"/health", nil); resp.StatusCode != http.StatusOK {
		t.Errorf("health should not require a token, got %d", resp.StatusCode)
	}
}

func TestTokenAuthenticatorSetTokens(t *testing.T) {
	a := NewTokenAuthenticator(nil)
	req := httptest.NewRequest(http.MethodGet, "/api/releases", nil)
	if !a.Open() || !a.Authenticate(req) {
		t.Fatal("no tokens should mean open access")
	}

	a.SetTokens([]string{" rotated "})
	if a.Authenticate(req) {
		t.Error("request without token accepted after tokens were set")
	}
	req.Header.Set("Authorization", "bearer rotated")
	if !a.Authenticate(req) {
		t.Error("rotated token rejected")
	}
}

func TestRateLimit(t *testing.T) {
	ts, _ := setupTestAPIServer(t, WithRateLimiter(NewRateLimiter(0.001, 2)))

	for i := range 2 {
		if resp := get(t, ts.URL+"/api/artists", nil); resp.StatusCode != http.StatusOK {
			t.Fatalf("request %d: status %d", i, resp.StatusCode)
		}
	}
	resp := get(t, ts.URL+"/api/artists", nil)
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", resp.StatusCode)
	}
	body := decodeBody[jsonapi.ErrorDocument](t, resp)
	if len(body.Errors) != 1 || body.Errors[0].Status != "429" {
		t.Errorf("unexpected error body %+v", body)
	}

	if NewRateLimiter(0, 10) != nil {
		t.Error("zero rate should disable limiting")
	}
}

func TestShowEndpoints(t *testing.T) {
	ts, store := setupTestAPIServer(t)
	releases := seedReleases(t, store, 1)

	resp := get(t, fmt.Sprintf("%s/api/releases/%d", ts.URL, releases[0].ID), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	doc := decodeBody[jsonapi.ResourceDocument](t, resp)
	if doc.Data.Type != "releases" || doc.Data.Attributes["name"] != "Release 00" {
		t.Errorf("unexpected document %+v", doc.Data)
	}

	for _, path := range []string{"/api/releases/999", "/api/releases/abc", "/api/artists/5", "/api/albums/0"} {
		if resp := get(t, ts.URL+path, nil); resp.StatusCode != http.StatusNotFound {
			t.Errorf("%s: status = %d, want 404", path, resp.StatusCode)
		}
	}
}

func TestArtistReleases(t *testing.T) {
	ts, store := setupTestAPIServer(t)
	ctx := context.Background()

	artist := &core.Artist{Name: "Scoped"}
	if err := store.CreateArtist(ctx, artist); err != nil {
		t.Fatal(err)
	}
	seedReleases(t, store, 3)
	own := &core.Release{Name: "Own", ReleasedAt: testNow, Artists: []*core.Artist{artist}}
	if err := store.CreateRelease(ctx, own); err != nil {
		t.Fatal(err)
	}

	resp := get(t, fmt.Sprintf("%s/api/artists/%d/releases", ts.URL, artist.ID), nil)
	body := decodeBody[listBody](t, resp)
	if body.Meta.TotalCount != 1 || body.Data[0].Attributes["name"] != "Own" {
		t.Errorf("expected only the artist's release, got %+v", body.Meta)
	}
	if len(body.Included) != 1 || body.Included[0].Type != "artists" {
		t.Errorf("expected the artist included, got %+v", body.Included)
	}

	if resp := get(t, ts.URL+"/api/artists/999/releases", nil); resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown artist status = %d", resp.StatusCode)
	}
}

func TestCompression(t *testing.T) {
	ts, store := setupTestAPIServer(t)
	seedReleases(t, store, 15)

	client := &http.Client{Transport: &http.Transport{DisableCompression: true}}
	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/api/releases", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	resp, err := client.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.Header.Get("Content-Encoding") != "gzip" {
		t.Fatalf("expected gzip response, got %q", resp.Header.Get("Content-Encoding"))
	}
	zr, err := gzip.NewReader(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	raw, err := io.ReadAll(zr)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(raw), `"total_count":15`) {
		t.Errorf("unexpected body %s", raw)
	}
}

func TestDataSourceFailure(t *testing.T) {
	ts, store := setupTestAPIServer(t)
	if err := store.Close(); err != nil {
		t.Fatal(err)
	}

	resp := get(t, ts.URL+"/api/releases", nil)
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	body := decodeBody[jsonapi.ErrorDocument](t, resp)
	if len(body.Errors) != 1 || body.Errors[0].Title != "Internal Server Error" {
		t.Fatalf("unexpected error document %+v", body)
	}
	// The database error stays in the log.
	if body.Errors[0].Detail != "internal error" {
		t.Errorf("detail = %q, want a generic message", body.Errors[0].Detail)
	}
	for _, leak := range []string{"sql", "database", "closed", "SELECT"} {
		if strings.Contains(body.Errors[0].Detail, leak) {
			t.Errorf("detail leaks %q: %q", leak, body.Errors[0].Detail)
		}
	}
}

func TestCORSPreflight(t *testing.T) {
	ts, _ := setupTestAPIServer(t)
	req, _ := http.NewRequest(http.MethodOptions, ts.URL+"/api/releases", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK || resp.Header.Get("Access-Control-Allow-Origin") != "*" {
		t.Errorf("preflight status %d headers %v", resp.StatusCode, resp.Header)
	}
}

func wsDial(t *testing.T, ts *httptest.Server, rawQuery string) *websocket.Conn {
	t.Helper()
	u, _ := url.Parse(ts.URL)
	u.Scheme = "ws"
	u.Path = "/api/releases/live"
	u.RawQuery = rawQuery

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		t.Fatalf("dial ws: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	var msg LiveMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read init: %v", err)
	}
	if msg.Type != "init" {
		t.Fatalf("expected init message, got %q", msg.Type)
	}
	return conn
}

type liveResults struct {
	Type     string   `json:"type"`
	Message  string   `json:"message"`
	Document listBody `json:"document"`
}

func TestLiveReleases(t *testing.T) {
	ts, store := setupTestAPIServer(t)
	seedReleases(t, store, 12)

	conn := wsDial(t, ts, "")

	if err := conn.WriteJSON(LiveRequest{Search: "rls 1", Limit: 5}); err != nil {
		t.Fatal(err)
	}
	var got liveResults
	if err := conn.ReadJSON(&got); err != nil {
		t.Fatalf("read results: %v", err)
	}
	if got.Type != "results" {
		t.Fatalf("expected results, got %q (%s)", got.Type, got.Message)
	}
	// "rls1" matches Release 01 and Release 10, 11.
	if got.Document.Meta.TotalCount != 3 {
		t.Errorf("total = %d, want 3", got.Document.Meta.TotalCount)
	}
	if !strings.HasSuffix(strings.SplitN(got.Document.Links.Self, "?", 2)[0], "/api/releases") {
		t.Errorf("live links should point at the list endpoint, got %q", got.Document.Links.Self)
	}

	if err := conn.WriteMessage(websocket.TextMessage, []byte("{not json")); err != nil {
		t.Fatal(err)
	}
	var errMsg LiveMessage
	if err := conn.ReadJSON(&errMsg); err != nil {
		t.Fatalf("read error: %v", err)
	}
	if errMsg.Type != "error" {
		t.Errorf("expected error message, got %q", errMsg.Type)
	}

	// The connection survives a bad message.
	if err := conn.WriteJSON(LiveRequest{Past: "0"}); err != nil {
		t.Fatal(err)
	}
	if err := conn.ReadJSON(&got); err != nil {
		t.Fatalf("read results: %v", err)
	}
	if got.Type != "results" || got.Document.Meta.TotalCount != 0 {
		t.Errorf("expected no upcoming releases, got %+v", got.Document.Meta)
	}
}

func TestLiveRequiresToken(t *testing.T) {
	ts, _ := setupTestAPIServer(t, WithAuthenticator(NewTokenAuthenticator([]string{"secret"})))

	u, _ := url.Parse(ts.URL)
	u.Scheme = "ws"
	u.Path = "/api/releases/live"
	if _, resp, err := websocket.DefaultDialer.Dial(u.String(), nil); err == nil {
		t.Fatal("expected handshake to fail without token")
	} else if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", resp)
	}

	wsDial(t, ts, "token=secret")
}
