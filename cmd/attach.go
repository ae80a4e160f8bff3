package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/rubiojr/catalog/pkg/attachments"
	"github.com/rubiojr/catalog/pkg/core"
)

// AttachCommand creates the attach command
func AttachCommand() *cli.Command {
	return &cli.Command{
		Name:      "attach",
		Usage:     "Store an artist logo or album cover",
		ArgsUsage: "<file>",
		Flags: []cli.Flag{
			&cli.Int64Flag{
				Name:  "artist",
				Usage: "Artist id whose logo to set",
			},
			&cli.Int64Flag{
				Name:  "album",
				Usage: "Album id whose cover to set",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Args().Len() != 1 {
				return fmt.Errorf("expected exactly one file argument")
			}
			file := c.Args().First()

			cfg, store, err := openStore(c.String("config"))
			if err != nil {
				return err
			}
			defer closeStore(store)

			var owner core.Attachable
			var name string
			switch {
			case c.Int64("artist") > 0 && c.Int64("album") > 0:
				return fmt.Errorf("use either --artist or --album")
			case c.Int64("artist") > 0:
				a, err := store.Artist(ctx, c.Int64("artist"))
				if err != nil {
					return fmt.Errorf("loading artist: %w", err)
				}
				owner, name = a, "logo"
			case c.Int64("album") > 0:
				a, err := store.Album(ctx, c.Int64("album"))
				if err != nil {
					return fmt.Errorf("loading album: %w", err)
				}
				owner, name = a, "cover"
			default:
				return fmt.Errorf("one of --artist or --album is required")
			}

			f, err := os.Open(file)
			if err != nil {
				return fmt.Errorf("opening %s: %w", file, err)
			}
			defer f.Close()

			url, err := attachments.NewDirResolver(cfg.AttachmentsDir).Save(owner, name, filepath.Ext(file), f)
			if err != nil {
				return fmt.Errorf("saving %s: %w", name, err)
			}
			fmt.Printf("Stored %s at %s\n", name, url)
			return nil
		},
	}
}
