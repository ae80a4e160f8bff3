// Package jsonapi projects pages of entities into JSON:API documents.
//
// A Schema describes one resource type: how to read its id and attributes,
// its self link, and a table of relationship descriptors. Each descriptor
// names the target schema, the cardinality and a function returning the
// already-loaded related entities. The Projector walks a page once, emits
// relationship references on every primary resource and collects each
// distinct related entity into "included" exactly once, keyed by
// (type, id).
//
// Projection is a pure transformation. It performs no I/O and does not fail
// for any page the storage layer can produce, including empty pages.
package jsonapi

import (
	"encoding/json"
	"net/http"
	"strconv"
)

// ContentType is the JSON:API media type.
const ContentType = "application/vnd.api+json"

// Ref identifies a resource.
type Ref struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// Relationship is the wire form of one relationship. To-one relationships
// render {"data": ref} or {"data": null}; to-many render {"data": [refs]},
// with an empty list when nothing is related.
type Relationship struct {
	ToMany bool
	One    *Ref
	Many   []Ref
}

type relationshipJSON struct {
	Data json.RawMessage `json:"data"`
}

func (r Relationship) MarshalJSON() ([]byte, error) {
	var data any
	switch {
	case r.ToMany:
		refs := r.Many
		if refs == nil {
			refs = []Ref{}
		}
		data = refs
	case r.One != nil:
		data = r.One
	default:
		data = nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(relationshipJSON{Data: raw})
}

func (r *Relationship) UnmarshalJSON(b []byte) error {
	var wire relationshipJSON
	if err := json.Unmarshal(b, &wire); err != nil {
		return err
	}
	*r = Relationship{}
	if len(wire.Data) > 0 && wire.Data[0] == '[' {
		r.ToMany = true
		return json.Unmarshal(wire.Data, &r.Many)
	}
	if string(wire.Data) == "null" || len(wire.Data) == 0 {
		return nil
	}
	r.One = &Ref{}
	return json.Unmarshal(wire.Data, r.One)
}

// Resource is a single resource object.
type Resource struct {
	Type          string                  `json:"type"`
	ID            string                  `json:"id"`
	Attributes    map[string]any          `json:"attributes"`
	Relationships map[string]Relationship `json:"relationships,omitempty"`
	Links         map[string]string       `json:"links,omitempty"`
}

// Ref returns the resource identifier.
func (r Resource) Ref() Ref {
	return Ref{Type: r.Type, ID: r.ID}
}

// Document is a top-level collection document.
type Document struct {
	Data     []Resource `json:"data"`
	Included []Resource `json:"included"`
	Meta     any        `json:"meta,omitempty"`
	Links    *Links     `json:"links,omitempty"`
}

// ResourceDocument is a top-level single-resource document.
type ResourceDocument struct {
	Data     Resource   `json:"data"`
	Included []Resource `json:"included"`
}

// ErrorObject is a JSON:API error.
type ErrorObject struct {
	Status string `json:"status"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

// ErrorDocument is a top-level error document.
type ErrorDocument struct {
	Errors []ErrorObject `json:"errors"`
}

// NewErrorDocument builds one error object per detail, all with status.
func NewErrorDocument(status int, details ...string) ErrorDocument {
	doc := ErrorDocument{Errors: make([]ErrorObject, 0, len(details))}
	for _, d := range details {
		doc.Errors = append(doc.Errors, ErrorObject{
			Status: strconv.Itoa(status),
			Title:  http.StatusText(status),
			Detail: d,
		})
	}
	return doc
}
