package cmd

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/a-h/templ"
	"github.com/urfave/cli/v3"

	"github.com/rubiojr/catalog/cmd/web/components"
	"github.com/rubiojr/catalog/cmd/web/components/types"
	"github.com/rubiojr/catalog/pkg/api"
	"github.com/rubiojr/catalog/pkg/attachments"
	"github.com/rubiojr/catalog/pkg/catalog"
	"github.com/rubiojr/catalog/pkg/config"
	"github.com/rubiojr/catalog/pkg/core"
	"github.com/rubiojr/catalog/pkg/filter"
	"github.com/rubiojr/catalog/pkg/log"
	"github.com/rubiojr/catalog/pkg/paginate"
	"github.com/rubiojr/catalog/pkg/storage"
	"github.com/rubiojr/catalog/pkg/version"
)

//go:embed web/static/*
var staticFS embed.FS

const (
	webPerPage    = 12
	webSearchPage = 100
)

// webLimits bound page sizes of the HTML listings.
var webLimits = paginate.Limits{Default: webPerPage, Max: webSearchPage}

// WebCommand creates the web command with both API and UI
func WebCommand() *cli.Command {
	return &cli.Command{
		Name:  "web",
		Usage: "Start web server with both API endpoints and HTML interface",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "port",
				Usage: "Port to listen on (overrides web.port)",
			},
			&cli.StringFlag{
				Name:  "host",
				Usage: "Host to bind to (overrides web.host)",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return startWebServer(ctx, c.String("config"), c.String("host"), c.String("port"), c.Bool("debug"))
		},
	}
}

// WebServer holds the HTML interface dependencies.
type WebServer struct {
	catalog     *catalog.Service
	api         *api.Server
	auth        *api.TokenAuthenticator
	attachments *attachments.DirResolver
	logger      *log.Logger
}

// NewWebServer wires the catalog service, API server and attachment
// directory of cfg.
func NewWebServer(cfg *config.Config, store *storage.Store) *WebServer {
	resolver := attachments.NewDirResolver(cfg.AttachmentsDir)
	svc := catalog.NewService(store,
		catalog.WithResolver(resolver),
		catalog.WithLimits(cfg.API.Limits()),
	)
	auth := api.NewTokenAuthenticator(cfg.API.Tokens)

	opts := []api.Option{api.WithAuthenticator(auth)}
	if limiter := api.NewRateLimiter(cfg.API.RateLimit, cfg.API.RateBurst); limiter != nil {
		opts = append(opts, api.WithRateLimiter(limiter))
	}
	if cfg.Web.BaseURL != "" {
		opts = append(opts, api.WithBaseURL(cfg.Web.BaseURL))
	}

	return &WebServer{
		catalog:     svc,
		api:         api.NewServer(svc, opts...),
		auth:        auth,
		attachments: resolver,
		logger:      log.ForService("web"),
	}
}

// Handler returns API, HTML pages, static assets and attachments behind
// the shared middleware stack.
func (s *WebServer) Handler() http.Handler {
	mux := http.NewServeMux()

	s.api.RegisterRoutes(mux)

	mux.HandleFunc("GET /{$}", s.handleHome)
	mux.HandleFunc("GET /releases", s.handleReleases)
	mux.HandleFunc("GET /artists", s.handleArtists)
	mux.HandleFunc("GET /artists/{id}", s.handleArtist)
	mux.HandleFunc("GET /albums", s.handleAlbums)

	static, _ := fs.Sub(staticFS, "web/static")
	mux.Handle("GET /static/", http.StripPrefix("/static/", cacheFor(time.Hour, http.FileServerFS(static))))
	mux.Handle("GET "+attachments.DefaultPrefix+"/", s.attachments.Handler())

	return s.api.Wrap(mux)
}

// Reload applies the settings of cfg that can change at runtime: API
// tokens, page size limits and debug logging.
func (s *WebServer) Reload(cfg *config.Config, debugFlag bool) {
	s.auth.SetTokens(cfg.API.Tokens)
	s.catalog.SetLimits(cfg.API.Limits())
	log.SetGlobalDebug(debugFlag || cfg.Log.Debug)
	s.logger.Infof("applied configuration: %d API tokens, per_page %d (max %d)",
		len(cfg.API.Tokens), cfg.API.DefaultPerPage, cfg.API.MaxPerPage)
}

// startWebServer starts the web server with both API and UI
func startWebServer(ctx context.Context, configPath, host, port string, debug bool) error {
	cfg, store, err := openStore(configPath)
	if err != nil {
		return err
	}
	defer closeStore(store)

	if host != "" {
		cfg.Web.Host = host
	}
	if port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("invalid port %q", port)
		}
		cfg.Web.Port = p
	}

	ws := NewWebServer(cfg, store)
	logger := ws.logger

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if _, err := os.Stat(configPath); err == nil {
		go func() {
			err := config.Watch(ctx, configPath, func(c *config.Config) { ws.Reload(c, debug) })
			if err != nil {
				logger.Warnf("config reload disabled: %v", err)
			}
		}()
	}

	server := &http.Server{
		Addr:              cfg.Web.Addr(),
		Handler:           ws.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("Starting web server on http://%s", cfg.Web.Addr())
		logger.Infof("  Web UI: / /releases /artists /artists/{id} /albums")
		logger.Infof("  API:    /api/releases /api/releases/live /api/artists /api/albums /health")
		if ws.auth.Open() {
			logger.Warnf("no API tokens configured, the API is open")
		}
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("web server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Infof("Shutting down web server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func cacheFor(d time.Duration, next http.Handler) http.Handler {
	value := fmt.Sprintf("public, max-age=%d", int(d.Seconds()))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", value)
		next.ServeHTTP(w, r)
	})
}

func (s *WebServer) pageData(r *http.Request, title string) types.PageData {
	return types.PageData{
		Title:   title + " - Catalog",
		Version: version.Version,
		Path:    r.URL.Path,
		Params:  r.URL.Query(),
	}
}

// webListParams decodes an HTML listing query. Searches show up to
// webSearchPage results on one page.
func webListParams(r *http.Request) catalog.ListParams {
	p := catalog.ParseListParams(r.URL.Query(), webLimits)
	if p.Searching() {
		p.PerPage = webSearchPage
	}
	return p
}

func withMeta(data types.PageData, p catalog.ListParams, m paginate.Meta) types.PageData {
	data.Query = p.Search
	switch p.Past {
	case filter.True:
		data.Past = "1"
	case filter.False:
		data.Past = "0"
	}
	data.CurrentPage = m.CurrentPage
	data.TotalPages = m.TotalPages
	data.TotalCount = m.TotalCount
	data.PerPage = m.PerPage
	return data
}

func (s *WebServer) render(w http.ResponseWriter, r *http.Request, status int, page templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := page.Render(r.Context(), w); err != nil {
		s.logger.Errorf("rendering %s: %v", r.URL.Path, err)
	}
}

// failed renders the page with an error banner.
func (s *WebServer) failed(r *http.Request, data *types.PageData, err error) int {
	s.logger.Errorf("%s %s: %v (id=%s)", r.Method, r.URL.Path, err, api.RequestID(r.Context()))
	data.Error = "Something went wrong while loading this page. Please try again."
	return http.StatusInternalServerError
}

func (s *WebServer) handleHome(w http.ResponseWriter, r *http.Request) {
	data := types.DashboardData{PageData: s.pageData(r, "Dashboard")}
	status := http.StatusOK

	d, err := s.catalog.Dashboard(r.Context())
	if err != nil {
		status = s.failed(r, &data.PageData, err)
	} else {
		now := s.catalog.Now()
		data.Stats = types.StatsView{
			Artists:  d.Stats.Artists,
			Releases: d.Stats.Releases,
			Albums:   d.Stats.Albums,
			Past:     d.Stats.PastReleases,
			Upcoming: d.Stats.Upcoming,
		}
		data.Upcoming = s.releaseViews(d.Upcoming, "", now)
		data.Past = s.releaseViews(d.Past, "", now)
		data.RecentArtists = s.artistViews(d.RecentArtists, "")
	}
	s.render(w, r, status, components.Dashboard(data))
}

func (s *WebServer) handleReleases(w http.ResponseWriter, r *http.Request) {
	s.releasesPage(w, r, "Releases", nil)
}

// handleArtist lists the releases of one artist.
func (s *WebServer) handleArtist(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		http.NotFound(w, r)
		return
	}
	artist, err := s.catalog.Store().Artist(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		data := s.pageData(r, "Artist")
		status := s.failed(r, &data, err)
		s.render(w, r, status, components.Releases(types.ReleasesData{PageData: data}))
		return
	}
	s.releasesPage(w, r, artist.Name, artist)
}

func (s *WebServer) releasesPage(w http.ResponseWriter, r *http.Request, title string, artist *core.Artist) {
	p := webListParams(r)
	data := types.ReleasesData{PageData: s.pageData(r, title)}
	status := http.StatusOK

	var scopes []storage.Scope
	if artist != nil {
		data.Artist = &types.ArtistLink{ID: artist.ID, Name: artist.Name}
		scopes = append(scopes, storage.ReleasesByArtist(artist.ID))
	}

	page, err := s.catalog.Releases(r.Context(), p, scopes...)
	if err != nil {
		status = s.failed(r, &data.PageData, err)
	} else {
		data.PageData = withMeta(data.PageData, p, page.Meta)
		data.Releases = s.releaseViews(page.Items, p.Search, s.catalog.Now())
	}
	s.render(w, r, status, components.Releases(data))
}

func (s *WebServer) handleArtists(w http.ResponseWriter, r *http.Request) {
	p := webListParams(r)
	data := types.ArtistsData{PageData: s.pageData(r, "Artists")}
	status := http.StatusOK

	page, err := s.catalog.Artists(r.Context(), p)
	if err != nil {
		status = s.failed(r, &data.PageData, err)
	} else {
		data.PageData = withMeta(data.PageData, p, page.Meta)
		data.Artists = s.artistViews(page.Items, p.Search)
	}
	s.render(w, r, status, components.Artists(data))
}

func (s *WebServer) handleAlbums(w http.ResponseWriter, r *http.Request) {
	p := webListParams(r)
	data := types.AlbumsData{PageData: s.pageData(r, "Albums")}
	status := http.StatusOK

	page, err := s.catalog.Albums(r.Context(), p)
	if err != nil {
		status = s.failed(r, &data.PageData, err)
	} else {
		data.PageData = withMeta(data.PageData, p, page.Meta)
		for _, a := range page.Items {
			v := types.AlbumView{
				ID:       a.ID,
				Name:     components.Highlight(p.Search, a.Name),
				Duration: components.FormatMinutes(a.DurationInMinutes),
			}
			v.Cover, _ = s.attachments.URL(a, "cover")
			if a.Artist != nil {
				v.Artist = types.ArtistLink{ID: a.Artist.ID, Name: a.Artist.Name}
			}
			if a.Release != nil {
				v.Release = a.Release.Name
			}
			data.Albums = append(data.Albums, v)
		}
	}
	s.render(w, r, status, components.Albums(data))
}

func (s *WebServer) releaseViews(releases []*core.Release, query string, now time.Time) []types.ReleaseView {
	views := make([]types.ReleaseView, 0, len(releases))
	for _, rel := range releases {
		v := types.ReleaseView{
			ID:         rel.ID,
			Name:       components.Highlight(query, rel.Name),
			ReleasedAt: rel.ReleasedAt,
			Past:       rel.Past(now),
		}
		if rel.Album != nil {
			v.Album = rel.Album.Name
			v.Duration = components.FormatMinutes(rel.Album.DurationInMinutes)
			v.Cover, _ = s.attachments.URL(rel.Album, "cover")
		}
		for _, a := range rel.Artists {
			v.Artists = append(v.Artists, types.ArtistLink{ID: a.ID, Name: a.Name})
		}
		views = append(views, v)
	}
	return views
}

func (s *WebServer) artistViews(artists []*core.Artist, query string) []types.ArtistView {
	views := make([]types.ArtistView, 0, len(artists))
	for _, a := range artists {
		v := types.ArtistView{
			ID:           a.ID,
			Name:         components.Highlight(query, a.Name),
			ReleaseCount: a.ReleaseCount,
		}
		v.Logo, _ = s.attachments.URL(a, "logo")
		views = append(views, v)
	}
	return views
}
