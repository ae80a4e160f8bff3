package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/rubiojr/catalog/pkg/core"
	"github.com/rubiojr/catalog/pkg/paginate"
	"github.com/rubiojr/catalog/pkg/search"
	"github.com/rubiojr/catalog/pkg/storage"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86")).
			Background(lipgloss.Color("235")).
			Padding(0, 1).
			Margin(0, 0, 1, 0)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214")).
			Margin(1, 0, 1, 0)

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	matchStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214"))

	upcomingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("32"))

	summaryStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("32")).
			Border(lipgloss.ThickBorder()).
			BorderForeground(lipgloss.Color("32")).
			Padding(0, 1).
			Margin(0, 0, 1, 0)

	noDataStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true).
			Margin(1, 0)
)

// formatNumber formats a number with K/M suffixes for readability
func formatNumber(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	} else if n < 1000000 {
		return fmt.Sprintf("%.1fK", float64(n)/1000)
	}
	return fmt.Sprintf("%.1fM", float64(n)/1000000)
}

// formatDate formats a release date relative to now when it is close.
func formatDate(t, now time.Time) string {
	days := int(t.Sub(now).Hours() / 24)
	switch {
	case days == 0 && t.After(now):
		return "later today"
	case days == 0:
		return "today"
	case days > 0 && days < 7:
		return fmt.Sprintf("in %d days", days)
	case days < 0 && days > -7:
		return fmt.Sprintf("%d days ago", -days)
	}
	if t.Year() == now.Year() {
		return t.Format("Jan 2")
	}
	return t.Format("Jan 2, 2006")
}

// highlight styles the characters of name matched by query.
func highlight(query, name string) string {
	segments, ok := search.Highlight(query, name)
	if !ok || query == "" {
		return name
	}
	var b strings.Builder
	for _, s := range segments {
		if s.Matched {
			b.WriteString(matchStyle.Render(s.Text))
		} else {
			b.WriteString(s.Text)
		}
	}
	return b.String()
}

func artistNames(artists []*core.Artist) string {
	names := make([]string, len(artists))
	for i, a := range artists {
		names[i] = a.Name
	}
	return strings.Join(names, ", ")
}

func formatRelease(r *core.Release, query string, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s", highlight(query, r.Name), metaStyle.Render(fmt.Sprintf("#%d", r.ID)))
	date := formatDate(r.ReleasedAt, now)
	if !r.Past(now) {
		date = upcomingStyle.Render(date + " (upcoming)")
	}
	fmt.Fprintf(&b, "\n   %s", date)
	if r.Album != nil {
		fmt.Fprintf(&b, "  %s", metaStyle.Render(fmt.Sprintf("%s, %d min", r.Album.Name, r.Album.DurationInMinutes)))
	}
	if len(r.Artists) > 0 {
		fmt.Fprintf(&b, "\n   %s", artistNames(r.Artists))
	}
	return b.String()
}

func formatArtist(a *core.Artist, query string) string {
	return fmt.Sprintf("%s  %s", highlight(query, a.Name),
		metaStyle.Render(fmt.Sprintf("#%d, %d releases", a.ID, a.ReleaseCount)))
}

func formatAlbum(a *core.Album, query string) string {
	owner := ""
	if a.Artist != nil {
		owner = a.Artist.Name
	}
	return fmt.Sprintf("%s  %s\n   %s", highlight(query, a.Name),
		metaStyle.Render(fmt.Sprintf("#%d, %d min", a.ID, a.DurationInMinutes)), owner)
}

func formatPageMeta(m paginate.Meta) string {
	return metaStyle.Render(fmt.Sprintf("page %d of %d, %s total", m.CurrentPage, m.LastPage(), formatNumber(m.TotalCount)))
}

// formatStats renders storage statistics.
func formatStats(st storage.Stats) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Catalog Statistics"))
	b.WriteString("\n")
	if st.Artists == 0 && st.Releases == 0 {
		b.WriteString(noDataStyle.Render("The catalog is empty. Run 'catalog seed' to add sample data."))
		b.WriteString("\n")
		return b.String()
	}

	fmt.Fprintf(&b, "Artists:  %s\n", formatNumber(st.Artists))
	fmt.Fprintf(&b, "Releases: %s", formatNumber(st.Releases))
	if st.Releases > 0 {
		fmt.Fprintf(&b, " (%.1f%% released)", float64(st.PastReleases)/float64(st.Releases)*100)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "   Past:     %s\n", formatNumber(st.PastReleases))
	fmt.Fprintf(&b, "   Upcoming: %s\n", formatNumber(st.Upcoming))
	fmt.Fprintf(&b, "Albums:   %s\n", formatNumber(st.Albums))
	return b.String()
}
