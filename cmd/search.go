package cmd

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/rubiojr/catalog/pkg/catalog"
)

// SearchCommand creates the search command
func SearchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search releases, artists and albums by name",
		ArgsUsage: "<query>",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum entries per type",
				Value: 10,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			query := strings.Join(c.Args().Slice(), " ")
			if strings.TrimSpace(query) == "" {
				return fmt.Errorf("search query is required")
			}

			cfg, store, err := openStore(c.String("config"))
			if err != nil {
				return err
			}
			defer closeStore(store)

			return searchAll(ctx, os.Stdout, newService(cfg, store), query, c.Int("limit"))
		},
	}
}

// searchAll prints the first page of matches of every entry type.
func searchAll(ctx context.Context, w io.Writer, svc *catalog.Service, query string, limit int) error {
	v := url.Values{}
	v.Set("search", query)
	v.Set("limit", strconv.Itoa(limit))
	p := catalog.ParseListParams(v, svc.Limits())

	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("Results for %q", query)))
	total := 0
	for _, kind := range []string{"releases", "artists", "albums"} {
		fmt.Fprintln(w, headerStyle.Render(strings.ToUpper(kind[:1])+kind[1:]))
		n, err := printList(ctx, w, svc, kind, p)
		if err != nil {
			return fmt.Errorf("searching %s: %w", kind, err)
		}
		total += n
	}
	fmt.Fprintln(w, summaryStyle.Render(fmt.Sprintf("%d matches", total)))
	return nil
}
