// Package catalog wires the list pipeline together: request parameters go
// through the temporal filter and the entity searcher into a storage
// candidate set, which is paginated and projected into a JSON:API
// document.
//
// Each list call issues at most two queries, a count and a bounded fetch,
// and never retries. Storage errors are returned wrapped but otherwise
// unchanged.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rubiojr/catalog/pkg/attachments"
	"github.com/rubiojr/catalog/pkg/core"
	"github.com/rubiojr/catalog/pkg/filter"
	"github.com/rubiojr/catalog/pkg/jsonapi"
	"github.com/rubiojr/catalog/pkg/log"
	"github.com/rubiojr/catalog/pkg/paginate"
	"github.com/rubiojr/catalog/pkg/search"
	"github.com/rubiojr/catalog/pkg/storage"
)

// Service serves catalog listings from a store.
type Service struct {
	store    *storage.Store
	schemas  *Schemas
	resolver attachments.Resolver
	now      func() time.Time
	limits   atomic.Pointer[paginate.Limits]
	logger   *log.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithClock sets the time source of the past/upcoming filter.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithResolver sets the attachment resolver used for cover and logo URLs.
func WithResolver(r attachments.Resolver) Option {
	return func(s *Service) { s.resolver = r }
}

// WithLimits sets the default and maximum page sizes.
func WithLimits(l paginate.Limits) Option {
	return func(s *Service) { s.limits.Store(&l) }
}

func NewService(store *storage.Store, opts ...Option) *Service {
	s := &Service{
		store:    store,
		resolver: attachments.None,
		now:      time.Now,
		logger:   log.ForService("catalog"),
	}
	limits := paginate.DefaultLimits
	s.limits.Store(&limits)
	for _, opt := range opts {
		opt(s)
	}
	s.schemas = NewSchemas(s.resolver)
	return s
}

// Limits returns the current page size limits.
func (s *Service) Limits() paginate.Limits {
	return *s.limits.Load()
}

// SetLimits swaps the page size limits. Safe for concurrent use.
func (s *Service) SetLimits(l paginate.Limits) {
	s.limits.Store(&l)
}

// Schemas returns the resource schemas.
func (s *Service) Schemas() *Schemas {
	return s.schemas
}

// Resolver returns the attachment resolver.
func (s *Service) Resolver() attachments.Resolver {
	return s.resolver
}

// Now is the service clock.
func (s *Service) Now() time.Time {
	return s.now()
}

// Store returns the underlying store.
func (s *Service) Store() *storage.Store {
	return s.store
}

// Releases lists one page of releases. The past filter and the search are
// applied in that order and compose by conjunction.
func (s *Service) Releases(ctx context.Context, p ListParams, scopes ...storage.Scope) (paginate.Page[*core.Release], error) {
	src := s.store.Releases(scopes...).Where(
		filter.Past("releases.released_at", p.Past, s.now),
		search.Releases.Filter(p.Search),
	)
	page, err := paginate.Paginate[*core.Release](ctx, src, p.Page, p.PerPage)
	if err != nil {
		return page, fmt.Errorf("listing releases: %w", err)
	}
	s.logger.Debugf("releases page %d/%d (%d total, search=%q past=%s)",
		page.Meta.CurrentPage, page.Meta.TotalPages, page.Meta.TotalCount, p.Search, p.Past)
	return page, nil
}

// Artists lists one page of artists.
func (s *Service) Artists(ctx context.Context, p ListParams, scopes ...storage.Scope) (paginate.Page[*core.Artist], error) {
	src := s.store.Artists(scopes...).Where(search.Artists.Filter(p.Search))
	page, err := paginate.Paginate[*core.Artist](ctx, src, p.Page, p.PerPage)
	if err != nil {
		return page, fmt.Errorf("listing artists: %w", err)
	}
	return page, nil
}

// Albums lists one page of albums.
func (s *Service) Albums(ctx context.Context, p ListParams, scopes ...storage.Scope) (paginate.Page[*core.Album], error) {
	src := s.store.Albums(scopes...).Where(search.Albums.Filter(p.Search))
	page, err := paginate.Paginate[*core.Album](ctx, src, p.Page, p.PerPage)
	if err != nil {
		return page, fmt.Errorf("listing albums: %w", err)
	}
	return page, nil
}

func project[T any](proj *jsonapi.Projector, base string, p ListParams, page paginate.Page[T]) jsonapi.Document {
	links := jsonapi.PaginationLinks(base, p.Query, page.Meta)
	return jsonapi.ProjectSlice(proj, page.Items, page.Meta, links)
}

// ReleasesDocument lists releases as a JSON:API document with album and
// artists included. base is the absolute or root-relative URL of the
// listing, without query.
func (s *Service) ReleasesDocument(ctx context.Context, base string, p ListParams, scopes ...storage.Scope) (jsonapi.Document, error) {
	page, err := s.Releases(ctx, p, scopes...)
	if err != nil {
		return jsonapi.Document{}, err
	}
	return project(s.schemas.releaseProjector(), base, p, page), nil
}

// ArtistsDocument lists artists as a JSON:API document.
func (s *Service) ArtistsDocument(ctx context.Context, base string, p ListParams, scopes ...storage.Scope) (jsonapi.Document, error) {
	page, err := s.Artists(ctx, p, scopes...)
	if err != nil {
		return jsonapi.Document{}, err
	}
	return project(s.schemas.artistProjector(), base, p, page), nil
}

// AlbumsDocument lists albums as a JSON:API document with the owning
// artist included.
func (s *Service) AlbumsDocument(ctx context.Context, base string, p ListParams, scopes ...storage.Scope) (jsonapi.Document, error) {
	page, err := s.Albums(ctx, p, scopes...)
	if err != nil {
		return jsonapi.Document{}, err
	}
	return project(s.schemas.albumProjector(), base, p, page), nil
}

// ReleaseDocument loads one release. It returns storage.ErrNotFound when
// no release has id.
func (s *Service) ReleaseDocument(ctx context.Context, id int64) (jsonapi.ResourceDocument, error) {
	r, err := s.store.Release(ctx, id)
	if err != nil {
		return jsonapi.ResourceDocument{}, fmt.Errorf("loading release %d: %w", id, err)
	}
	return s.schemas.releaseProjector().ProjectOne(r), nil
}

// ArtistDocument loads one artist.
func (s *Service) ArtistDocument(ctx context.Context, id int64) (jsonapi.ResourceDocument, error) {
	a, err := s.store.Artist(ctx, id)
	if err != nil {
		return jsonapi.ResourceDocument{}, fmt.Errorf("loading artist %d: %w", id, err)
	}
	return s.schemas.artistProjector().ProjectOne(a), nil
}

// AlbumDocument loads one album.
func (s *Service) AlbumDocument(ctx context.Context, id int64) (jsonapi.ResourceDocument, error) {
	a, err := s.store.Album(ctx, id)
	if err != nil {
		return jsonapi.ResourceDocument{}, fmt.Errorf("loading album %d: %w", id, err)
	}
	return s.schemas.albumProjector().ProjectOne(a), nil
}

// ArtistExists reports whether an artist with id exists.
func (s *Service) ArtistExists(ctx context.Context, id int64) (bool, error) {
	_, err := s.store.Artist(ctx, id)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, storage.ErrNotFound):
		return false, nil
	default:
		return false, fmt.Errorf("loading artist %d: %w", id, err)
	}
}
