package jsonapi

// Projector turns a list of primary entities into a Document.
type Projector struct {
	primary *Schema
	include []string
}

// NewProjector returns a projector for primary resources described by
// schema. Only relationship names of the primary schema are accepted in
// include; unknown names are ignored.
func NewProjector(schema *Schema, include ...string) *Projector {
	return &Projector{primary: schema, include: include}
}

// Includes reports the relationship names that will be expanded.
func (p *Projector) Includes() []string {
	var names []string
	for _, name := range p.include {
		if _, ok := p.primary.Relationship(name); ok {
			names = append(names, name)
		}
	}
	return names
}

type key struct {
	typ string
	id  string
}

// Project serializes items in order. Every related entity reachable through
// an included relationship appears in Included exactly once, in the order it
// is first encountered. meta and links are attached as given.
func (p *Projector) Project(items []any, meta any, links *Links) Document {
	doc := Document{
		Data:     make([]Resource, 0, len(items)),
		Included: []Resource{},
		Meta:     meta,
		Links:    links,
	}

	seen := make(map[key]struct{})
	for _, item := range items {
		res := p.primary.Resource(item)
		doc.Data = append(doc.Data, res)
		seen[key{res.Type, res.ID}] = struct{}{}
	}

	for _, item := range items {
		for _, name := range p.include {
			d, ok := p.primary.Relationship(name)
			if !ok || d.Target == nil {
				continue
			}
			for _, related := range d.Related(item) {
				ref := d.Target.Ref(related)
				k := key{ref.Type, ref.ID}
				if _, dup := seen[k]; dup {
					continue
				}
				seen[k] = struct{}{}
				doc.Included = append(doc.Included, d.Target.Resource(related))
			}
		}
	}

	return doc
}

// ProjectSlice is Project for a typed slice.
func ProjectSlice[T any](p *Projector, items []T, meta any, links *Links) Document {
	boxed := make([]any, len(items))
	for i, item := range items {
		boxed[i] = item
	}
	return p.Project(boxed, meta, links)
}

// ProjectOne serializes a single primary entity with its included
// resources.
func (p *Projector) ProjectOne(item any) ResourceDocument {
	doc := p.Project([]any{item}, nil, nil)
	return ResourceDocument{Data: doc.Data[0], Included: doc.Included}
}
