// Package paginate slices an ordered candidate set into pages and reports
// page metadata. It issues at most one count and one bounded fetch per call
// and never retries.
package paginate

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	DefaultPerPage = 10
	MaxPerPage     = 100
)

// Limits bounds the page size a caller may ask for.
type Limits struct {
	Default int
	Max     int
}

// DefaultLimits are the API listing limits.
var DefaultLimits = Limits{Default: DefaultPerPage, Max: MaxPerPage}

// Source is a candidate set that can be counted and fetched in slices. The
// slice order is the source's own order.
type Source[T any] interface {
	Count(ctx context.Context) (int, error)
	Fetch(ctx context.Context, limit, offset int) ([]T, error)
}

// Meta describes a page within the full candidate set.
type Meta struct {
	CurrentPage int `json:"current_page"`
	TotalPages  int `json:"total_pages"`
	TotalCount  int `json:"total_count"`
	PerPage     int `json:"per_page"`
}

// LastPage is the last page number to link to. It is at least 1 even for
// an empty set.
func (m Meta) LastPage() int {
	return max(m.TotalPages, 1)
}

// HasPrev reports whether a previous page exists.
func (m Meta) HasPrev() bool {
	return m.CurrentPage > 1
}

// HasNext reports whether a following page exists.
func (m Meta) HasNext() bool {
	return m.CurrentPage < m.TotalPages
}

// PastEnd reports whether the current page lies beyond the last one. An
// empty set has every page past its end.
func (m Meta) PastEnd() bool {
	return m.CurrentPage > m.TotalPages
}

// Offset is the number of entities before the current page. It saturates
// at math.MaxInt instead of wrapping for very large page numbers.
func (m Meta) Offset() int {
	if m.PerPage <= 0 || m.CurrentPage <= 1 {
		return 0
	}
	if m.CurrentPage-1 > math.MaxInt/m.PerPage {
		return math.MaxInt
	}
	return (m.CurrentPage - 1) * m.PerPage
}

// Page is one slice of a candidate set.
type Page[T any] struct {
	Items []T
	Meta  Meta
}

// NormalizePage parses a 1-based page number. Missing, non-numeric and
// non-positive values become 1.
func NormalizePage(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// NormalizePerPage parses a page size. Missing, non-numeric and
// non-positive values fall back to l.Default; larger values are clamped to
// l.Max.
func (l Limits) NormalizePerPage(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return l.Default
	}
	return l.Clamp(n)
}

// Clamp bounds an already parsed page size.
func (l Limits) Clamp(perPage int) int {
	if perPage <= 0 {
		return l.Default
	}
	if l.Max > 0 && perPage > l.Max {
		return l.Max
	}
	return perPage
}

// NewMeta computes page metadata for total entities.
func NewMeta(page, perPage, total int) Meta {
	if page < 1 {
		page = 1
	}
	pages := 0
	if perPage > 0 {
		pages = total / perPage
		if total%perPage != 0 {
			pages++
		}
	}
	return Meta{
		CurrentPage: page,
		TotalPages:  pages,
		TotalCount:  total,
		PerPage:     perPage,
	}
}

// Paginate counts src and fetches the requested page. A page past the end
// yields no items and no fetch; the metadata still reports the true totals.
// The end is found by comparing page numbers, so no page number can wrap
// the offset back into range.
// Errors from src are returned unchanged apart from context wrapping.
func Paginate[T any](ctx context.Context, src Source[T], page, perPage int) (Page[T], error) {
	total, err := src.Count(ctx)
	if err != nil {
		return Page[T]{}, fmt.Errorf("counting: %w", err)
	}

	meta := NewMeta(page, perPage, total)
	if meta.PastEnd() {
		return Page[T]{Items: []T{}, Meta: meta}, nil
	}

	items, err := src.Fetch(ctx, meta.PerPage, meta.Offset())
	if err != nil {
		return Page[T]{}, fmt.Errorf("fetching page %d: %w", meta.CurrentPage, err)
	}
	if items == nil {
		items = []T{}
	}
	return Page[T]{Items: items, Meta: meta}, nil
}
