package search

import "github.com/rubiojr/catalog/pkg/filter"

// Relation is a related entity whose field is searched together with the
// primary entity's own field.
type Relation struct {
	// Name is the relation passed to filter.Builder.Join.
	Name string
	// Field is the qualified field matched on the related entity.
	Field string
	// Many marks a to-many relation. Joining it can repeat primary rows.
	Many bool
}

// Searcher describes how one entity type is fuzzy searched.
type Searcher struct {
	Entity    string
	Field     string
	Relations []Relation
}

var (
	// Artists matches on the artist name.
	Artists = Searcher{
		Entity: "artists",
		Field:  "artists.name",
	}

	// Albums matches on the album name or the owning artist's name.
	Albums = Searcher{
		Entity: "albums",
		Field:  "albums.name",
		Relations: []Relation{
			{Name: "artist", Field: "artists.name"},
		},
	}

	// Releases matches on the release name, any participant artist's name or
	// the album name. Releases without album or artists still match on
	// their own name.
	Releases = Searcher{
		Entity: "releases",
		Field:  "releases.name",
		Relations: []Relation{
			{Name: "artists", Field: "artists.name", Many: true},
			{Name: "album", Field: "albums.name"},
		},
	}
)

// Apply restricts b to entities matching query. A blank query adds nothing
// to b: no join, no predicate. The candidate universe is whatever b already
// describes.
func (s Searcher) Apply(b filter.Builder, query string) {
	if IsBlank(query) {
		return
	}

	fields := make([]string, 0, len(s.Relations)+1)
	fields = append(fields, s.Field)
	many := false
	for _, rel := range s.Relations {
		b.Join(rel.Name)
		fields = append(fields, rel.Field)
		many = many || rel.Many
	}

	b.MatchAny(Pattern(query), fields...)
	if many {
		b.Distinct()
	}
}

// Filter wraps Apply for use in a filter.Chain. It returns nil for a blank
// query.
func (s Searcher) Filter(query string) filter.Filter {
	if IsBlank(query) {
		return nil
	}
	return filter.New("search", func(b filter.Builder) {
		s.Apply(b, query)
	})
}
