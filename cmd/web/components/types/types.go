package types

import (
	"net/url"
	"time"
)

// PageData is shared by every HTML page.
type PageData struct {
	Title   string
	Version string
	// Path is the listing path pagination links point at.
	Path  string
	Query string
	// Past is the raw past filter: "", "1" or "0".
	Past  string
	Error string

	CurrentPage int
	TotalPages  int
	TotalCount  int
	PerPage     int
	// Params is the request query, kept in pagination links.
	Params url.Values
}

// TextRun is a piece of a name, marked when it matched the search.
type TextRun struct {
	Text string
	Mark bool
}

type ReleaseView struct {
	ID         int64
	Name       []TextRun
	ReleasedAt time.Time
	Past       bool
	Album      string
	Cover      string
	// Duration is empty for releases without an album.
	Duration string
	Artists  []ArtistLink
}

type ArtistLink struct {
	ID   int64
	Name string
}

type ArtistView struct {
	ID           int64
	Name         []TextRun
	Logo         string
	ReleaseCount int
}

type AlbumView struct {
	ID       int64
	Name     []TextRun
	Cover    string
	Duration string
	Artist   ArtistLink
	Release  string
}

type StatsView struct {
	Artists  int
	Releases int
	Albums   int
	Past     int
	Upcoming int
}

type DashboardData struct {
	PageData
	Stats         StatsView
	Upcoming      []ReleaseView
	Past          []ReleaseView
	RecentArtists []ArtistView
}

type ReleasesData struct {
	PageData
	// Artist is set when listing one artist's releases.
	Artist   *ArtistLink
	Releases []ReleaseView
}

type ArtistsData struct {
	PageData
	Artists []ArtistView
}

type AlbumsData struct {
	PageData
	Albums []AlbumView
}
