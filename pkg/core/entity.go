// Package core defines the catalog entities shared by storage, search and
// serialization: artists, releases, albums and the artist/release
// participation join.
//
// Entities are plain structs. Storage populates the relationship fields
// (Release.Album, Release.Artists, Album.Artist) when it loads a page, so
// consumers never query for related data on their own.
package core

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxNameLength is the maximum number of characters in any entity name.
const MaxNameLength = 255

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid record")

// ValidationError describes a single rejected field.
type ValidationError struct {
	Entity  string
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s %s", e.Entity, e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalid
}

func validateName(entity, name string) error {
	if strings.TrimSpace(name) == "" {
		return &ValidationError{Entity: entity, Field: "name", Message: "can't be blank"}
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return &ValidationError{Entity: entity, Field: "name", Message: fmt.Sprintf("is too long (maximum is %d characters)", MaxNameLength)}
	}
	return nil
}

// Attachable is implemented by entities that own binary assets (covers, logos).
type Attachable interface {
	// AttachmentOwner returns the owner kind (plural resource type) and id.
	AttachmentOwner() (kind string, id int64)
}
