// Package seed fills a catalog with generated sample data: artists,
// releases split between past and upcoming dates, one album per release
// and participations including featured artists.
package seed

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/rubiojr/catalog/pkg/core"
	"github.com/rubiojr/catalog/pkg/log"
	"github.com/rubiojr/catalog/pkg/storage"
)

var (
	bands = []string{
		"the midnight owls", "velvet engines", "paper satellites", "crimson tide", "northern lights",
		"glass harbor", "electric orchard", "silver foxes", "low frequency", "hollow pines",
		"neon deserts", "quiet riot club", "wild horses", "static bloom", "golden hour",
	}
	genres = []string{
		"rock", "jazz", "soul", "folk", "techno", "ambient", "blues", "funk", "pop", "metal",
	}
	albumWords = []string{
		"echoes", "summer", "of", "the", "night", "electric", "dreams", "in", "blue", "fire",
		"rivers", "and", "ghosts", "after", "hours", "northern", "skies", "broken", "clocks", "gold",
	}
	editions = []string{"Single", "EP", "Album", "Deluxe Edition"}
)

// Options control the generated catalog.
type Options struct {
	Artists  int
	Releases int
	// PastShare is the fraction of releases dated before Now.
	PastShare float64
	Now       time.Time
	// Seed makes the output reproducible.
	Seed uint64
}

// DefaultOptions seeds 25 artists and 100 releases, 70% of them past.
func DefaultOptions(now time.Time) Options {
	return Options{Artists: 25, Releases: 100, PastShare: 0.7, Now: now, Seed: uint64(now.UnixNano())}
}

// Summary reports what was created.
type Summary struct {
	Artists        int
	Releases       int
	Past           int
	Albums         int
	Participations int
}

type generator struct {
	rnd   *rand.Rand
	title cases.Caser
}

func (g *generator) pick(words []string) string {
	return words[g.rnd.IntN(len(words))]
}

func (g *generator) albumTitle() string {
	n := 2 + g.rnd.IntN(3)
	words := make([]string, n)
	for i := range words {
		words[i] = g.pick(albumWords)
	}
	return g.title.String(strings.Join(words, " "))
}

// between returns a random time in [from, to).
func (g *generator) between(from, to time.Time) time.Time {
	span := to.Sub(from)
	if span <= 0 {
		return from
	}
	return from.Add(time.Duration(g.rnd.Int64N(int64(span)))).Truncate(time.Second)
}

// Run replaces the catalog content of store with generated data in one
// transaction.
func Run(ctx context.Context, store *storage.Store, opts Options) (Summary, error) {
	logger := log.ForService("seed")
	g := &generator{
		rnd:   rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15)),
		title: cases.Title(language.English),
	}
	if opts.Artists < 1 {
		return Summary{}, fmt.Errorf("seeding needs at least one artist")
	}

	var sum Summary
	err := store.Batch(ctx, func(w *storage.Writer) error {
		if err := w.Clear(ctx); err != nil {
			return err
		}
		logger.Debugf("cleared existing data")

		artists := make([]*core.Artist, opts.Artists)
		for i := range artists {
			a := &core.Artist{Name: fmt.Sprintf("%s %s %d", g.title.String(g.pick(bands)), g.title.String(g.pick(genres)), i+1)}
			if err := w.CreateArtist(ctx, a); err != nil {
				return err
			}
			artists[i] = a
		}
		sum.Artists = len(artists)

		past := int(float64(opts.Releases) * opts.PastShare)
		for i := range opts.Releases {
			var at time.Time
			if i < past {
				at = g.between(opts.Now.AddDate(-2, 0, 0), opts.Now.AddDate(0, 0, -1))
				sum.Past++
			} else {
				at = g.between(opts.Now.AddDate(0, 0, 1), opts.Now.AddDate(1, 0, 0))
			}

			r := &core.Release{Name: fmt.Sprintf("%s %d", g.albumTitle(), i+1), ReleasedAt: at}
			if err := w.CreateRelease(ctx, r); err != nil {
				return err
			}
			sum.Releases++

			owner := artists[g.rnd.IntN(len(artists))]
			album := &core.Album{
				Name:              r.Name + " - " + g.pick(editions),
				DurationInMinutes: 3 + g.rnd.IntN(73),
				ReleaseID:         r.ID,
				ArtistID:          owner.ID,
			}
			if err := w.CreateAlbum(ctx, album); err != nil {
				return err
			}
			sum.Albums++

			participants := []*core.Artist{owner}
			// Two in five releases feature other artists.
			if i%5 < 2 && len(artists) > 1 {
				participants = append(participants, g.featured(artists, owner, 1+g.rnd.IntN(3))...)
			}
			for _, a := range participants {
				if err := w.AddArtistToRelease(ctx, a.ID, r.ID); err != nil {
					return err
				}
				sum.Participations++
			}
		}
		return nil
	})
	if err != nil {
		return Summary{}, fmt.Errorf("seeding catalog: %w", err)
	}

	logger.Infof("seeded %d artists, %d releases (%d past), %d albums, %d participations",
		sum.Artists, sum.Releases, sum.Past, sum.Albums, sum.Participations)
	return sum, nil
}

// featured picks up to n distinct artists other than owner.
func (g *generator) featured(artists []*core.Artist, owner *core.Artist, n int) []*core.Artist {
	var others []*core.Artist
	for _, a := range artists {
		if a.ID != owner.ID {
			others = append(others, a)
		}
	}
	g.rnd.Shuffle(len(others), func(i, j int) { others[i], others[j] = others[j], others[i] })
	return others[:min(n, len(others))]
}
