// Package storage is the SQLite data source behind the catalog.
//
// A Store owns one database file. Reads go through Source values, one per
// entity type, which implement paginate.Source: a Source carries a Query
// (the candidate set) that filters and searchers restrict through the
// filter.Builder interface, and it materializes a page with exactly two
// read-only statements, a COUNT and a bounded fetch that loads every
// relation the projector needs.
//
// Timestamps are stored as TEXT in a fixed-width UTC layout so that string
// comparison and ordering agree with time ordering.
//
// Every connection registers the Unicode aware LIKE of the unicode
// extension, so search patterns fold case beyond ASCII ("björk" matches
// "BJÖRK").
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
	"github.com/ncruces/go-sqlite3/ext/unicode"

	"github.com/rubiojr/catalog/pkg/db"
	"github.com/rubiojr/catalog/pkg/log"
)

// ErrNotFound is returned when a lookup by id matches nothing.
var ErrNotFound = errors.New("not found")

const timeLayout = "2006-01-02T15:04:05.000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing timestamp %q: %w", s, err)
	}
	return t, nil
}

// Store is a catalog database.
type Store struct {
	*Writer

	db        *sql.DB
	logger    *log.Logger
	now       func() time.Time
	skipSetup bool
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for created_at/updated_at and
// for the past/upcoming split in Stats.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithoutMigrations opens the database as is.
func WithoutMigrations() Option {
	return func(s *Store) { s.skipSetup = true }
}

// Open opens (creating if needed) the database at path and applies any
// pending migrations.
func Open(path string, opts ...Option) (*Store, error) {
	conn, err := driver.Open(path, unicode.Register)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 30000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA cache_size = -64000", // 64MB cache
		"PRAGMA temp_store = memory",
		"PRAGMA mmap_size = 268435456", // 256MB mmap
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("applying pragma %q: %w", pragma, err)
		}
	}

	s := &Store{
		db:     conn,
		logger: log.ForService("storage"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	if !s.skipSetup {
		if err := db.InitializeDatabase(conn); err != nil {
			_ = conn.Close()
			return nil, err
		}
	}

	s.Writer = &Writer{conn: conn, now: s.now}
	return s, nil
}

// DB returns the underlying connection.
func (s *Store) DB() *sql.DB {
	return s.db
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Now is the store's clock.
func (s *Store) Now() time.Time {
	return s.now()
}

// Optimize runs SQLite's planner statistics maintenance.
func (s *Store) Optimize() error {
	_, err := s.db.Exec("PRAGMA optimize")
	return err
}

// WALCheckpoint folds the write-ahead log back into the main file.
func (s *Store) WALCheckpoint() error {
	_, err := s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
	return err
}

// Analyze refreshes the query planner statistics.
func (s *Store) Analyze() error {
	_, err := s.db.Exec("ANALYZE")
	return err
}

// Vacuum rebuilds the database file.
func (s *Store) Vacuum() error {
	_, err := s.db.Exec("VACUUM")
	return err
}

// IntegrityCheck runs SQLite's integrity check and returns its findings.
// A healthy database yields nil.
func (s *Store) IntegrityCheck(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "PRAGMA integrity_check")
	if err != nil {
		return nil, fmt.Errorf("running integrity check: %w", err)
	}
	defer rows.Close()

	var problems []string
	for rows.Next() {
		var line string
		if err := rows.Scan(&line); err != nil {
			return nil, fmt.Errorf("reading integrity check: %w", err)
		}
		if line != "ok" {
			problems = append(problems, line)
		}
	}
	return problems, rows.Err()
}

// Batch runs fn in a transaction. The transaction commits when fn returns
// nil and rolls back otherwise.
func (s *Store) Batch(ctx context.Context, fn func(w *Writer) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	committed := false
	defer func() {
		if !committed {
			if err := tx.Rollback(); err != nil {
				s.logger.Warnf("failed to rollback transaction: %v", err)
			}
		}
	}()

	if err := fn(&Writer{conn: tx, now: s.now}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	committed = true
	return nil
}

// Stats are entity totals.
type Stats struct {
	Artists      int `json:"artists"`
	Releases     int `json:"releases"`
	Albums       int `json:"albums"`
	PastReleases int `json:"past_releases"`
	Upcoming     int `json:"upcoming_releases"`
}

// Stats counts every entity table in one statement.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	err := s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM artists),
			(SELECT COUNT(*) FROM releases),
			(SELECT COUNT(*) FROM albums),
			(SELECT COUNT(*) FROM releases WHERE released_at < ?)
	`, formatTime(s.now())).Scan(&st.Artists, &st.Releases, &st.Albums, &st.PastReleases)
	if err != nil {
		return Stats{}, fmt.Errorf("counting entities: %w", err)
	}
	st.Upcoming = st.Releases - st.PastReleases
	return st, nil
}
