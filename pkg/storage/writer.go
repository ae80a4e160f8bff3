package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rubiojr/catalog/pkg/core"
)

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Writer creates catalog entities. Every entity is validated before it is
// written; IDs and timestamps are filled in on success.
type Writer struct {
	conn execer
	now  func() time.Time
}

func (w *Writer) insert(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := w.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// CreateArtist inserts a.
func (w *Writer) CreateArtist(ctx context.Context, a *core.Artist) error {
	if err := a.Validate(); err != nil {
		return err
	}
	now := w.now().UTC()
	id, err := w.insert(ctx,
		"INSERT INTO artists (name, created_at, updated_at) VALUES (?, ?, ?)",
		a.Name, formatTime(now), formatTime(now))
	if err != nil {
		return fmt.Errorf("inserting artist %q: %w", a.Name, err)
	}
	a.ID, a.CreatedAt, a.UpdatedAt = id, now, now
	return nil
}

// CreateRelease inserts r. Participants listed in r.Artists must already
// exist and are linked in the same call.
func (w *Writer) CreateRelease(ctx context.Context, r *core.Release) error {
	if err := r.Validate(); err != nil {
		return err
	}
	now := w.now().UTC()
	id, err := w.insert(ctx,
		"INSERT INTO releases (name, released_at, created_at, updated_at) VALUES (?, ?, ?, ?)",
		r.Name, formatTime(r.ReleasedAt), formatTime(now), formatTime(now))
	if err != nil {
		return fmt.Errorf("inserting release %q: %w", r.Name, err)
	}
	r.ID, r.CreatedAt, r.UpdatedAt = id, now, now

	for _, a := range r.Artists {
		if err := w.AddArtistToRelease(ctx, a.ID, r.ID); err != nil {
			return err
		}
	}
	if r.Artists == nil {
		r.Artists = []*core.Artist{}
	}
	return nil
}

// CreateAlbum inserts a. A release can carry at most one album.
func (w *Writer) CreateAlbum(ctx context.Context, a *core.Album) error {
	if err := a.Validate(); err != nil {
		return err
	}
	now := w.now().UTC()
	id, err := w.insert(ctx, `
		INSERT INTO albums (name, duration_in_minutes, release_id, artist_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		a.Name, a.DurationInMinutes, a.ReleaseID, a.ArtistID, formatTime(now), formatTime(now))
	if err != nil {
		return fmt.Errorf("inserting album %q: %w", a.Name, err)
	}
	a.ID, a.CreatedAt, a.UpdatedAt = id, now, now
	return nil
}

// AddArtistToRelease links a participant artist to a release. Linking the
// same pair twice is a no-op.
func (w *Writer) AddArtistToRelease(ctx context.Context, artistID, releaseID int64) error {
	_, err := w.conn.ExecContext(ctx, `
		INSERT INTO artist_releases (artist_id, release_id, created_at) VALUES (?, ?, ?)
		ON CONFLICT (artist_id, release_id) DO NOTHING`,
		artistID, releaseID, formatTime(w.now()))
	if err != nil {
		return fmt.Errorf("linking artist %d to release %d: %w", artistID, releaseID, err)
	}
	return nil
}

// Clear deletes every artist, release, album and participation.
func (w *Writer) Clear(ctx context.Context) error {
	for _, table := range []string{"artist_releases", "albums", "releases", "artists"} {
		if _, err := w.conn.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}
	return nil
}
