package search

import (
	"reflect"
	"testing"

	"github.com/rubiojr/catalog/pkg/filter/filtertest"
)

func TestSearcherApply(t *testing.T) {
	tests := []struct {
		name     string
		searcher Searcher
		query    string
		calls    []string
		distinct bool
	}{
		{
			name:     "blank query adds nothing",
			searcher: Releases,
			query:    "   ",
			calls:    nil,
		},
		{
			name:     "artists search own name only",
			searcher: Artists,
			query:    "jhn",
			calls:    []string{"match artists.name %j%h%n%"},
		},
		{
			name:     "albums join owning artist",
			searcher: Albums,
			query:    "thr",
			calls: []string{
				"join artist",
				"match albums.name|artists.name %t%h%r%",
			},
		},
		{
			name:     "releases join participants and album and dedupe",
			searcher: Releases,
			query:    "hih",
			calls: []string{
				"join artists",
				"join album",
				"match releases.name|artists.name|albums.name %h%i%h%",
				"distinct",
			},
			distinct: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &filtertest.Recorder{}
			tt.searcher.Apply(rec, tt.query)
			if !reflect.DeepEqual(rec.Calls, tt.calls) {
				t.Errorf("calls = %v, want %v", rec.Calls, tt.calls)
			}
			if rec.IsDistinct() != tt.distinct {
				t.Errorf("distinct = %v, want %v", rec.IsDistinct(), tt.distinct)
			}
		})
	}
}

func TestSearcherFilter(t *testing.T) {
	if f := Releases.Filter(""); f != nil {
		t.Fatal("expected nil filter for blank query")
	}

	f := Artists.Filter("abc")
	if f == nil || f.Name() != "search" {
		t.Fatalf("unexpected filter %v", f)
	}
	rec := &filtertest.Recorder{}
	f.Apply(rec)
	if len(rec.Patterns) != 1 || rec.Patterns[0] != "%a%b%c%" {
		t.Errorf("patterns = %v", rec.Patterns)
	}
}
