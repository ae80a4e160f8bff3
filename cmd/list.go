package cmd

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"strconv"

	"github.com/urfave/cli/v3"

	"github.com/rubiojr/catalog/pkg/catalog"
	"github.com/rubiojr/catalog/pkg/paginate"
)

// ListCommand creates the list command
func ListCommand() *cli.Command {
	flags := []cli.Flag{
		&cli.IntFlag{
			Name:  "page",
			Usage: "Page number",
			Value: 1,
		},
		&cli.IntFlag{
			Name:  "limit",
			Usage: "Entries per page",
			Value: 20,
		},
		&cli.StringFlag{
			Name:    "search",
			Aliases: []string{"q"},
			Usage:   "Only show entries whose name contains these characters in order",
		},
	}
	pastFlag := &cli.StringFlag{
		Name:  "past",
		Usage: "1 for past releases, 0 for upcoming ones",
	}

	return &cli.Command{
		Name:  "list",
		Usage: "List catalog entries",
		Commands: []*cli.Command{
			{
				Name:  "releases",
				Usage: "List releases, newest first",
				Flags: append([]cli.Flag{pastFlag}, flags...),
				Action: func(ctx context.Context, c *cli.Command) error {
					return listEntries(ctx, c, os.Stdout, "releases")
				},
			},
			{
				Name:  "artists",
				Usage: "List artists by name",
				Flags: flags,
				Action: func(ctx context.Context, c *cli.Command) error {
					return listEntries(ctx, c, os.Stdout, "artists")
				},
			},
			{
				Name:  "albums",
				Usage: "List albums, newest first",
				Flags: flags,
				Action: func(ctx context.Context, c *cli.Command) error {
					return listEntries(ctx, c, os.Stdout, "albums")
				},
			},
		},
	}
}

// listParams builds list parameters from command flags the same way the
// API builds them from a query string.
func listParams(c *cli.Command, svc *catalog.Service) catalog.ListParams {
	v := url.Values{}
	v.Set("page", strconv.Itoa(c.Int("page")))
	v.Set("limit", strconv.Itoa(c.Int("limit")))
	if s := c.String("search"); s != "" {
		v.Set("search", s)
	}
	if c.IsSet("past") {
		v.Set("past", c.String("past"))
	}
	return catalog.ParseListParams(v, svc.Limits())
}

func listEntries(ctx context.Context, c *cli.Command, w io.Writer, kind string) error {
	cfg, store, err := openStore(c.String("config"))
	if err != nil {
		return err
	}
	defer closeStore(store)

	svc := newService(cfg, store)
	_, err = printList(ctx, w, svc, kind, listParams(c, svc))
	return err
}

// printList prints one page of kind and returns the total number of
// matching entries.
func printList(ctx context.Context, w io.Writer, svc *catalog.Service, kind string, p catalog.ListParams) (int, error) {
	now := svc.Now()
	var lines []string
	var meta paginate.Meta

	switch kind {
	case "releases":
		page, err := svc.Releases(ctx, p)
		if err != nil {
			return 0, err
		}
		for _, r := range page.Items {
			lines = append(lines, formatRelease(r, p.Search, now))
		}
		meta = page.Meta
	case "artists":
		page, err := svc.Artists(ctx, p)
		if err != nil {
			return 0, err
		}
		for _, a := range page.Items {
			lines = append(lines, formatArtist(a, p.Search))
		}
		meta = page.Meta
	case "albums":
		page, err := svc.Albums(ctx, p)
		if err != nil {
			return 0, err
		}
		for _, a := range page.Items {
			lines = append(lines, formatAlbum(a, p.Search))
		}
		meta = page.Meta
	default:
		return 0, fmt.Errorf("unknown entry type %q", kind)
	}

	if len(lines) == 0 {
		fmt.Fprintln(w, noDataStyle.Render(fmt.Sprintf("No %s found", kind)))
		return meta.TotalCount, nil
	}
	for _, l := range lines {
		fmt.Fprintln(w, l)
	}
	fmt.Fprintln(w, formatPageMeta(meta))
	return meta.TotalCount, nil
}
