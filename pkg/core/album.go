package core

import "time"

// Album belongs to exactly one release and is owned by exactly one artist.
// The owning artist is independent from the release participants.
type Album struct {
	ID                int64
	Name              string
	DurationInMinutes int
	ReleaseID         int64
	ArtistID          int64
	CreatedAt         time.Time
	UpdatedAt         time.Time

	// Artist is the owning artist when loaded.
	Artist *Artist
	// Release is the parent release when loaded. Release listings leave it
	// nil to avoid a cycle.
	Release *Release
}

func (a *Album) Validate() error {
	if err := validateName("album", a.Name); err != nil {
		return err
	}
	if a.DurationInMinutes <= 0 {
		return &ValidationError{Entity: "album", Field: "duration_in_minutes", Message: "must be greater than 0"}
	}
	if a.ReleaseID == 0 {
		return &ValidationError{Entity: "album", Field: "release", Message: "must exist"}
	}
	if a.ArtistID == 0 {
		return &ValidationError{Entity: "album", Field: "artist", Message: "must exist"}
	}
	return nil
}

func (a *Album) AttachmentOwner() (string, int64) {
	return "albums", a.ID
}

// ArtistRelease records an artist's participation in a release. Each
// (ArtistID, ReleaseID) pair appears at most once.
type ArtistRelease struct {
	ID        int64
	ArtistID  int64
	ReleaseID int64
	CreatedAt time.Time
}
