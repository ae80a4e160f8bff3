package storage

import (
	"database/sql"

	"github.com/rubiojr/catalog/pkg/core"
)

// Scan targets. Related tables come from LEFT JOINs, so everything but the
// primary release row is nullable.

type releaseRow struct {
	id         int64
	name       string
	releasedAt string
	createdAt  string
	updatedAt  string
}

type nullReleaseRow struct {
	id         sql.NullInt64
	name       sql.NullString
	releasedAt sql.NullString
	createdAt  sql.NullString
	updatedAt  sql.NullString
}

type albumRow struct {
	id        sql.NullInt64
	name      sql.NullString
	duration  sql.NullInt64
	artistID  sql.NullInt64
	createdAt sql.NullString
	updatedAt sql.NullString
}

type artistRow struct {
	id        sql.NullInt64
	name      sql.NullString
	createdAt sql.NullString
	updatedAt sql.NullString
}

func (r releaseRow) release() (*core.Release, error) {
	rel := &core.Release{ID: r.id, Name: r.name, Artists: []*core.Artist{}}
	var err error
	if rel.ReleasedAt, err = parseTime(r.releasedAt); err != nil {
		return nil, err
	}
	if rel.CreatedAt, err = parseTime(r.createdAt); err != nil {
		return nil, err
	}
	if rel.UpdatedAt, err = parseTime(r.updatedAt); err != nil {
		return nil, err
	}
	return rel, nil
}

func (r albumRow) album(releaseID int64) (*core.Album, error) {
	a := &core.Album{
		ID:                r.id.Int64,
		Name:              r.name.String,
		DurationInMinutes: int(r.duration.Int64),
		ReleaseID:         releaseID,
		ArtistID:          r.artistID.Int64,
	}
	var err error
	if a.CreatedAt, err = parseTime(r.createdAt.String); err != nil {
		return nil, err
	}
	if a.UpdatedAt, err = parseTime(r.updatedAt.String); err != nil {
		return nil, err
	}
	return a, nil
}

func (r artistRow) artist() (*core.Artist, error) {
	a := &core.Artist{ID: r.id.Int64, Name: r.name.String}
	var err error
	if a.CreatedAt, err = parseTime(r.createdAt.String); err != nil {
		return nil, err
	}
	if a.UpdatedAt, err = parseTime(r.updatedAt.String); err != nil {
		return nil, err
	}
	return a, nil
}
