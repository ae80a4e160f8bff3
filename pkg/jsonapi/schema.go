package jsonapi

// Cardinality of a relationship.
type Cardinality int

const (
	// One is a required to-one relationship.
	One Cardinality = iota
	// Optional is a to-one relationship that may be absent.
	Optional
	// Many is a to-many relationship.
	Many
)

// RelationshipDescriptor is one row of a schema's relationship table.
type RelationshipDescriptor struct {
	Name        string
	Target      *Schema
	Cardinality Cardinality

	related func(primary any) []any
}

// Related returns the loaded related entities of primary.
func (d RelationshipDescriptor) Related(primary any) []any {
	if d.related == nil {
		return nil
	}
	return d.related(primary)
}

// HasOne declares an optional to-one relationship. get may return nil.
func HasOne[P any, R any](name string, target *Schema, get func(P) *R) RelationshipDescriptor {
	return RelationshipDescriptor{
		Name:        name,
		Target:      target,
		Cardinality: Optional,
		related:     one(get),
	}
}

// BelongsTo declares a required to-one relationship. A nil result is still
// rendered as null rather than failing.
func BelongsTo[P any, R any](name string, target *Schema, get func(P) *R) RelationshipDescriptor {
	return RelationshipDescriptor{
		Name:        name,
		Target:      target,
		Cardinality: One,
		related:     one(get),
	}
}

// HasMany declares a to-many relationship.
func HasMany[P any, R any](name string, target *Schema, get func(P) []*R) RelationshipDescriptor {
	return RelationshipDescriptor{
		Name:        name,
		Target:      target,
		Cardinality: Many,
		related: func(primary any) []any {
			p, ok := primary.(P)
			if !ok {
				return nil
			}
			items := get(p)
			out := make([]any, 0, len(items))
			for _, item := range items {
				if item != nil {
					out = append(out, item)
				}
			}
			return out
		},
	}
}

func one[P any, R any](get func(P) *R) func(any) []any {
	return func(primary any) []any {
		p, ok := primary.(P)
		if !ok {
			return nil
		}
		r := get(p)
		if r == nil {
			return nil
		}
		return []any{r}
	}
}

// Schema describes how to serialize one resource type.
type Schema struct {
	Type          string
	Relationships []RelationshipDescriptor

	id         func(any) string
	attributes func(any) map[string]any
	selfLink   func(any) string
}

// NewSchema builds a schema for entities of type T. self may be nil.
func NewSchema[T any](typ string, id func(T) string, attributes func(T) map[string]any, self func(T) string, rels ...RelationshipDescriptor) *Schema {
	s := &Schema{
		Type:          typ,
		Relationships: rels,
		id: func(v any) string {
			t, ok := v.(T)
			if !ok {
				return ""
			}
			return id(t)
		},
		attributes: func(v any) map[string]any {
			t, ok := v.(T)
			if !ok {
				return map[string]any{}
			}
			attrs := attributes(t)
			if attrs == nil {
				attrs = map[string]any{}
			}
			return attrs
		},
	}
	if self != nil {
		s.selfLink = func(v any) string {
			t, ok := v.(T)
			if !ok {
				return ""
			}
			return self(t)
		}
	}
	return s
}

// Relationship looks up a descriptor by name.
func (s *Schema) Relationship(name string) (RelationshipDescriptor, bool) {
	for _, d := range s.Relationships {
		if d.Name == name {
			return d, true
		}
	}
	return RelationshipDescriptor{}, false
}

// Ref returns the identifier of v.
func (s *Schema) Ref(v any) Ref {
	return Ref{Type: s.Type, ID: s.id(v)}
}

// Resource serializes v with relationship references but without any
// related resource bodies.
func (s *Schema) Resource(v any) Resource {
	res := Resource{
		Type:       s.Type,
		ID:         s.id(v),
		Attributes: s.attributes(v),
	}

	if len(s.Relationships) > 0 {
		res.Relationships = make(map[string]Relationship, len(s.Relationships))
		for _, d := range s.Relationships {
			res.Relationships[d.Name] = d.reference(v)
		}
	}

	if s.selfLink != nil {
		if link := s.selfLink(v); link != "" {
			res.Links = map[string]string{"self": link}
		}
	}
	return res
}

func (d RelationshipDescriptor) reference(primary any) Relationship {
	related := d.Related(primary)
	if d.Cardinality == Many {
		refs := make([]Ref, 0, len(related))
		for _, r := range related {
			refs = append(refs, d.Target.Ref(r))
		}
		return Relationship{ToMany: true, Many: refs}
	}
	if len(related) == 0 {
		return Relationship{}
	}
	ref := d.Target.Ref(related[0])
	return Relationship{One: &ref}
}
