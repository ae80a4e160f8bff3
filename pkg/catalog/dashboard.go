package catalog

import (
	"context"
	"fmt"

	"github.com/rubiojr/catalog/pkg/core"
	"github.com/rubiojr/catalog/pkg/filter"
	"github.com/rubiojr/catalog/pkg/storage"
)

const (
	dashboardReleases = 5
	dashboardArtists  = 6
)

// Dashboard is a snapshot for the home page.
type Dashboard struct {
	Stats storage.Stats
	// Upcoming are the next releases after now, soonest first.
	Upcoming []*core.Release
	// Past are the latest releases at or before now, newest first.
	Past []*core.Release
	// RecentArtists are the most recently added artists.
	RecentArtists []*core.Artist
}

// Dashboard builds the home page snapshot.
func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	now := s.now()
	d := &Dashboard{}

	var err error
	if d.Stats, err = s.store.Stats(ctx); err != nil {
		return nil, err
	}

	after := filter.New("after", func(b filter.Builder) {
		b.Compare("releases.released_at", filter.Gt, now)
	})
	if d.Upcoming, err = s.store.Releases().Where(after).Reversed().Fetch(ctx, dashboardReleases, 0); err != nil {
		return nil, fmt.Errorf("loading upcoming releases: %w", err)
	}

	until := filter.New("until", func(b filter.Builder) {
		b.Compare("releases.released_at", filter.Lte, now)
	})
	if d.Past, err = s.store.Releases().Where(until).Fetch(ctx, dashboardReleases, 0); err != nil {
		return nil, fmt.Errorf("loading past releases: %w", err)
	}

	recent := storage.OrderColumn{Expr: "artists.created_at", Desc: true}
	if d.RecentArtists, err = s.store.Artists().OrderBy(true, recent).Fetch(ctx, dashboardArtists, 0); err != nil {
		return nil, fmt.Errorf("loading recent artists: %w", err)
	}

	return d, nil
}
