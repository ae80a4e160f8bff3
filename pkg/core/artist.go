package core

import "time"

// Artist is a performer. Names are unique across the catalog.
type Artist struct {
	ID        int64
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time

	// ReleaseCount is the number of releases the artist participates in.
	// Only populated by listings that ask for it.
	ReleaseCount int
}

func (a *Artist) Validate() error {
	return validateName("artist", a.Name)
}

func (a *Artist) AttachmentOwner() (string, int64) {
	return "artists", a.ID
}
