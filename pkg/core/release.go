package core

import "time"

// Release is a dated publication with zero or one album and any number of
// participant artists.
type Release struct {
	ID         int64
	Name       string
	ReleasedAt time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// Album is nil when the release has no album. That is a valid state.
	Album *Album
	// Artists are the participant artists, never nil once loaded.
	Artists []*Artist
}

func (r *Release) Validate() error {
	if err := validateName("release", r.Name); err != nil {
		return err
	}
	if r.ReleasedAt.IsZero() {
		return &ValidationError{Entity: "release", Field: "released_at", Message: "can't be blank"}
	}
	return nil
}

// DurationInMinutes reads the album duration. It returns nil when the
// release has no album.
func (r *Release) DurationInMinutes() *int {
	if r.Album == nil {
		return nil
	}
	d := r.Album.DurationInMinutes
	return &d
}

// Past reports whether the release date is strictly before now.
func (r *Release) Past(now time.Time) bool {
	return r.ReleasedAt.Before(now)
}
