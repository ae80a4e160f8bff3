package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rubiojr/catalog/pkg/core"
	"github.com/rubiojr/catalog/pkg/filter"
	"github.com/rubiojr/catalog/pkg/log"
)

// Scope narrows the candidate universe of a Source before filters run.
type Scope func(q *Query)

// ReleasesByArtist limits releases to those artistID participates in.
func ReleasesByArtist(artistID int64) Scope {
	return func(q *Query) {
		q.Restrict("releases.id IN (SELECT release_id FROM artist_releases WHERE artist_id = ?)", artistID)
	}
}

// AlbumsByArtist limits albums to those owned by artistID.
func AlbumsByArtist(artistID int64) Scope {
	return func(q *Query) {
		q.Restrict("albums.artist_id = ?", artistID)
	}
}

// WithIDs limits any entity to the given ids. No ids means an empty set.
func WithIDs(ids ...int64) Scope {
	return func(q *Query) {
		if len(ids) == 0 {
			q.Restrict("0")
			return
		}
		placeholders := make([]byte, 0, len(ids)*2)
		args := make([]any, len(ids))
		for i, id := range ids {
			if i > 0 {
				placeholders = append(placeholders, ',')
			}
			placeholders = append(placeholders, '?')
			args[i] = id
		}
		q.Restrict(q.Table()+".id IN ("+string(placeholders)+")", args...)
	}
}

type loader[T any] func(ctx context.Context, conn *sql.DB, q *Query, o ordering, limit, offset int) ([]T, error)

type ordering struct {
	columns []OrderColumn
	idDesc  bool
}

func (o ordering) reversed() ordering {
	cols := make([]OrderColumn, len(o.columns))
	for i, c := range o.columns {
		cols[i] = OrderColumn{Expr: c.Expr, Desc: !c.Desc}
	}
	return ordering{columns: cols, idDesc: !o.idDesc}
}

// Source is a candidate set of one entity type. It implements
// paginate.Source.
type Source[T any] struct {
	conn   *sql.DB
	query  *Query
	order  ordering
	load   loader[T]
	logger *log.Logger
}

func newSource[T any](s *Store, table string, order ordering, load loader[T], scopes []Scope) *Source[T] {
	q := NewQuery(table)
	for _, scope := range scopes {
		if scope != nil {
			scope(q)
		}
	}
	return &Source[T]{conn: s.db, query: q, order: order, load: load, logger: s.logger}
}

// Releases is the release candidate set, ordered by release date (newest
// first), then name, then id. Each release comes with its album and its
// participant artists.
func (s *Store) Releases(scopes ...Scope) *Source[*core.Release] {
	return newSource(s, "releases", releaseOrder, loadReleases, scopes)
}

// Artists is the artist candidate set ordered by name, each with its
// release count.
func (s *Store) Artists(scopes ...Scope) *Source[*core.Artist] {
	return newSource(s, "artists", artistOrder, loadArtists, scopes)
}

// Albums is the album candidate set, newest first, each with its owning
// artist and release.
func (s *Store) Albums(scopes ...Scope) *Source[*core.Album] {
	return newSource(s, "albums", albumOrder, loadAlbums, scopes)
}

// Query exposes the candidate set for filters.
func (src *Source[T]) Query() *Query {
	return src.query
}

// Reversed flips every sort key of the candidate set, including the id
// tie-break, and returns src.
func (src *Source[T]) Reversed() *Source[T] {
	src.order = src.order.reversed()
	return src
}

// OrderBy replaces the sort keys of the candidate set. The id is always the
// final tie-break, descending when idDesc is set.
func (src *Source[T]) OrderBy(idDesc bool, columns ...OrderColumn) *Source[T] {
	src.order = ordering{columns: columns, idDesc: idDesc}
	return src
}

// Where applies filters in order and returns src. Nil filters are skipped.
func (src *Source[T]) Where(filters ...filter.Filter) *Source[T] {
	var chain filter.Chain
	for _, f := range filters {
		chain = chain.With(f)
	}
	chain.Apply(src.query)
	return src
}

func (src *Source[T]) Count(ctx context.Context) (int, error) {
	if err := src.query.Err(); err != nil {
		return 0, err
	}
	query, args := src.query.CountSQL()
	src.logger.Debugf("count: %s %v", query, args)

	var n int
	if err := src.conn.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting %s: %w", src.query.Table(), err)
	}
	return n, nil
}

func (src *Source[T]) Fetch(ctx context.Context, limit, offset int) ([]T, error) {
	if err := src.query.Err(); err != nil {
		return nil, err
	}
	items, err := src.load(ctx, src.conn, src.query, src.order, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", src.query.Table(), err)
	}
	return items, nil
}

// All fetches the whole candidate set. Meant for small sets such as a
// dashboard or CLI output.
func (src *Source[T]) All(ctx context.Context) ([]T, error) {
	return src.Fetch(ctx, -1, 0)
}

var (
	releaseOrder = ordering{columns: []OrderColumn{
		{Expr: "releases.released_at", Desc: true},
		{Expr: "releases.name"},
	}}
	artistOrder = ordering{columns: []OrderColumn{
		{Expr: "artists.name"},
	}}
	albumOrder = ordering{
		columns: []OrderColumn{{Expr: "albums.created_at", Desc: true}},
		idDesc:  true,
	}
)

func loadReleases(ctx context.Context, conn *sql.DB, q *Query, o ordering, limit, offset int) ([]*core.Release, error) {
	page, args := q.PageSQL(o.columns, o.idDesc, limit, offset)
	query := page + `
		SELECT r.id, r.name, r.released_at, r.created_at, r.updated_at,
			al.id, al.name, al.duration_in_minutes, al.artist_id, al.created_at, al.updated_at,
			ow.id, ow.name, ow.created_at, ow.updated_at,
			ar.id, ar.name, ar.created_at, ar.updated_at
		FROM page
		JOIN releases r ON r.id = page.id
		LEFT JOIN albums al ON al.release_id = r.id
		LEFT JOIN artists ow ON ow.id = al.artist_id
		LEFT JOIN artist_releases x ON x.release_id = r.id
		LEFT JOIN artists ar ON ar.id = x.artist_id
		ORDER BY ` + PageOrder(o.columns, o.idDesc) + `, ar.id ASC`

	rows, err := conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var (
		releases []*core.Release
		current  *core.Release
	)
	for rows.Next() {
		var (
			r           releaseRow
			album       albumRow
			owner       artistRow
			participant artistRow
		)
		err := rows.Scan(
			&r.id, &r.name, &r.releasedAt, &r.createdAt, &r.updatedAt,
			&album.id, &album.name, &album.duration, &album.artistID, &album.createdAt, &album.updatedAt,
			&owner.id, &owner.name, &owner.createdAt, &owner.updatedAt,
			&participant.id, &participant.name, &participant.createdAt, &participant.updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning release row: %w", err)
		}

		if current == nil || current.ID != r.id {
			current, err = r.release()
			if err != nil {
				return nil, err
			}
			if album.id.Valid {
				current.Album, err = album.album(r.id)
				if err != nil {
					return nil, err
				}
				if owner.id.Valid {
					current.Album.Artist, err = owner.artist()
					if err != nil {
						return nil, err
					}
				}
			}
			releases = append(releases, current)
		}

		if participant.id.Valid {
			a, err := participant.artist()
			if err != nil {
				return nil, err
			}
			current.Artists = append(current.Artists, a)
		}
	}
	return releases, rows.Err()
}

func loadArtists(ctx context.Context, conn *sql.DB, q *Query, o ordering, limit, offset int) ([]*core.Artist, error) {
	page, args := q.PageSQL(o.columns, o.idDesc, limit, offset)
	query := page + `
		SELECT a.id, a.name, a.created_at, a.updated_at,
			(SELECT COUNT(*) FROM artist_releases x WHERE x.artist_id = a.id)
		FROM page
		JOIN artists a ON a.id = page.id
		ORDER BY ` + PageOrder(o.columns, o.idDesc)

	rows, err := conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var artists []*core.Artist
	for rows.Next() {
		var row artistRow
		var count int
		if err := rows.Scan(&row.id, &row.name, &row.createdAt, &row.updatedAt, &count); err != nil {
			return nil, fmt.Errorf("scanning artist row: %w", err)
		}
		a, err := row.artist()
		if err != nil {
			return nil, err
		}
		a.ReleaseCount = count
		artists = append(artists, a)
	}
	return artists, rows.Err()
}

func loadAlbums(ctx context.Context, conn *sql.DB, q *Query, o ordering, limit, offset int) ([]*core.Album, error) {
	page, args := q.PageSQL(o.columns, o.idDesc, limit, offset)
	query := page + `
		SELECT al.id, al.name, al.duration_in_minutes, al.artist_id, al.created_at, al.updated_at, al.release_id,
			ow.id, ow.name, ow.created_at, ow.updated_at,
			r.id, r.name, r.released_at, r.created_at, r.updated_at
		FROM page
		JOIN albums al ON al.id = page.id
		LEFT JOIN artists ow ON ow.id = al.artist_id
		LEFT JOIN releases r ON r.id = al.release_id
		ORDER BY ` + PageOrder(o.columns, o.idDesc)

	rows, err := conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var albums []*core.Album
	for rows.Next() {
		var (
			album     albumRow
			releaseID int64
			owner     artistRow
			r         nullReleaseRow
		)
		err := rows.Scan(
			&album.id, &album.name, &album.duration, &album.artistID, &album.createdAt, &album.updatedAt, &releaseID,
			&owner.id, &owner.name, &owner.createdAt, &owner.updatedAt,
			&r.id, &r.name, &r.releasedAt, &r.createdAt, &r.updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning album row: %w", err)
		}

		a, err := album.album(releaseID)
		if err != nil {
			return nil, err
		}
		if owner.id.Valid {
			if a.Artist, err = owner.artist(); err != nil {
				return nil, err
			}
		}
		if r.id.Valid {
			row := releaseRow{
				id:         r.id.Int64,
				name:       r.name.String,
				releasedAt: r.releasedAt.String,
				createdAt:  r.createdAt.String,
				updatedAt:  r.updatedAt.String,
			}
			if a.Release, err = row.release(); err != nil {
				return nil, err
			}
		}
		albums = append(albums, a)
	}
	return albums, rows.Err()
}

func first[T any](items []T, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	if len(items) == 0 {
		return zero, ErrNotFound
	}
	return items[0], nil
}

// Artist loads one artist by id.
func (s *Store) Artist(ctx context.Context, id int64) (*core.Artist, error) {
	return first[*core.Artist](s.Artists(WithIDs(id)).All(ctx))
}

// Release loads one release by id with its album and artists.
func (s *Store) Release(ctx context.Context, id int64) (*core.Release, error) {
	return first[*core.Release](s.Releases(WithIDs(id)).All(ctx))
}

// Album loads one album by id with its artist and release.
func (s *Store) Album(ctx context.Context, id int64) (*core.Album, error) {
	return first[*core.Album](s.Albums(WithIDs(id)).All(ctx))
}
