package components

import (
	"fmt"
	"time"

	"github.com/rubiojr/catalog/cmd/web/components/types"
	"github.com/rubiojr/catalog/pkg/search"
)

// FormatDate renders a release date.
func FormatDate(t time.Time) string {
	return t.UTC().Format("Jan 2, 2006")
}

// FormatMinutes renders an album duration.
func FormatMinutes(m int) string {
	if m < 60 {
		return fmt.Sprintf("%d min", m)
	}
	return fmt.Sprintf("%dh %02dmin", m/60, m%60)
}

// Highlight splits name into runs, marking the characters matched by
// query.
func Highlight(query, name string) []types.TextRun {
	segments, _ := search.Highlight(query, name)
	runs := make([]types.TextRun, len(segments))
	for i, s := range segments {
		runs[i] = types.TextRun{Text: s.Text, Mark: s.Matched}
	}
	return runs
}
