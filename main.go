package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/rubiojr/catalog/cmd"
	"github.com/rubiojr/catalog/pkg/config"
	"github.com/rubiojr/catalog/pkg/log"
)

func main() {
	logger := log.ForService("catalog")

	app := &cli.Command{
		Name:  "catalog",
		Usage: "A music release catalog with a JSON:API and web interface",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
				Value: false,
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "Configuration file path",
				Value: getDefaultConfigPathOrExit(logger),
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			if c.Bool("debug") {
				log.SetGlobalDebug(true)
			}
			return ctx, nil
		},
		Commands: []*cli.Command{
			cmd.InitCommand(),
			cmd.MigrateCommand(),
			cmd.SeedCommand(),
			cmd.AttachCommand(),
			cmd.ListCommand(),
			cmd.SearchCommand(),
			cmd.StatsCommand(),
			cmd.WebCommand(),
			cmd.OptimizeCommand(),
			cmd.VersionCommand(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
}

func getDefaultConfigPathOrExit(logger *log.Logger) string {
	path, err := config.GetDefaultConfigPath()
	if err != nil {
		logger.Errorf("Failed to get default config path: %v", err)
		os.Exit(1)
	}
	return path
}
