package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/rubiojr/catalog/pkg/seed"
)

// SeedCommand creates the seed command
func SeedCommand() *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "Replace the catalog with generated sample data",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "artists",
				Usage: "Number of artists",
				Value: 25,
			},
			&cli.IntFlag{
				Name:  "releases",
				Usage: "Number of releases, one album each",
				Value: 100,
			},
			&cli.Float64Flag{
				Name:  "past-share",
				Usage: "Fraction of releases dated in the past",
				Value: 0.7,
			},
			&cli.Uint64Flag{
				Name:  "seed",
				Usage: "Random seed for reproducible data (0 picks one)",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			_, store, err := openStore(c.String("config"))
			if err != nil {
				return err
			}
			defer closeStore(store)

			opts := seed.DefaultOptions(time.Now())
			opts.Artists = c.Int("artists")
			opts.Releases = c.Int("releases")
			opts.PastShare = c.Float64("past-share")
			if s := c.Uint64("seed"); s != 0 {
				opts.Seed = s
			}
			if opts.PastShare < 0 || opts.PastShare > 1 {
				return fmt.Errorf("past-share must be between 0 and 1")
			}

			sum, err := seed.Run(ctx, store, opts)
			if err != nil {
				return err
			}

			fmt.Println(titleStyle.Render("Seeding complete"))
			fmt.Printf("  - %d artists\n", sum.Artists)
			fmt.Printf("  - %d releases (%d past, %d upcoming)\n", sum.Releases, sum.Past, sum.Releases-sum.Past)
			fmt.Printf("  - %d albums\n", sum.Albums)
			fmt.Printf("  - %d artist-release associations\n", sum.Participations)
			return nil
		},
	}
}
