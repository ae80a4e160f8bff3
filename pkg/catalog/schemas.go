package catalog

import (
	"strconv"
	"time"

	"github.com/rubiojr/catalog/pkg/attachments"
	"github.com/rubiojr/catalog/pkg/core"
	"github.com/rubiojr/catalog/pkg/jsonapi"
)

// Schemas are the JSON:API descriptions of the catalog resources.
type Schemas struct {
	Artists  *jsonapi.Schema
	Albums   *jsonapi.Schema
	Releases *jsonapi.Schema
}

func id(v int64) string {
	return strconv.FormatInt(v, 10)
}

func timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func attachmentURL(r attachments.Resolver, owner core.Attachable, name string) any {
	if u, ok := r.URL(owner, name); ok {
		return u
	}
	return nil
}

// NewSchemas builds the resource schemas. resolver supplies cover and logo
// URLs; nil resolves nothing.
func NewSchemas(resolver attachments.Resolver) *Schemas {
	if resolver == nil {
		resolver = attachments.None
	}

	artists := jsonapi.NewSchema("artists",
		func(a *core.Artist) string { return id(a.ID) },
		func(a *core.Artist) map[string]any {
			return map[string]any{
				"name":     a.Name,
				"logo_url": attachmentURL(resolver, a, "logo"),
			}
		},
		func(a *core.Artist) string { return "/api/artists/" + id(a.ID) },
	)

	albums := jsonapi.NewSchema("albums",
		func(a *core.Album) string { return id(a.ID) },
		func(a *core.Album) map[string]any {
			return map[string]any{
				"name":                a.Name,
				"duration_in_minutes": a.DurationInMinutes,
				"cover_url":           attachmentURL(resolver, a, "cover"),
			}
		},
		func(a *core.Album) string { return "/api/albums/" + id(a.ID) },
		jsonapi.BelongsTo("artist", artists, func(a *core.Album) *core.Artist { return a.Artist }),
	)

	releases := jsonapi.NewSchema("releases",
		func(r *core.Release) string { return id(r.ID) },
		func(r *core.Release) map[string]any {
			return map[string]any{
				"name":                r.Name,
				"created_at":          timestamp(r.CreatedAt),
				"released_at":         timestamp(r.ReleasedAt),
				"duration_in_minutes": r.DurationInMinutes(),
			}
		},
		func(r *core.Release) string { return "/api/releases/" + id(r.ID) },
		jsonapi.HasOne("album", albums, func(r *core.Release) *core.Album { return r.Album }),
		jsonapi.HasMany("artists", artists, func(r *core.Release) []*core.Artist { return r.Artists }),
	)

	return &Schemas{Artists: artists, Albums: albums, Releases: releases}
}

// Projectors for each list endpoint, with the relationships each one
// includes.
func (s *Schemas) releaseProjector() *jsonapi.Projector {
	return jsonapi.NewProjector(s.Releases, "album", "artists")
}

func (s *Schemas) albumProjector() *jsonapi.Projector {
	return jsonapi.NewProjector(s.Albums, "artist")
}

func (s *Schemas) artistProjector() *jsonapi.Projector {
	return jsonapi.NewProjector(s.Artists)
}
