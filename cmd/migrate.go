package cmd

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/rubiojr/catalog/pkg/db"
	"github.com/rubiojr/catalog/pkg/storage"
)

// MigrateCommand creates the migrate command
func MigrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Run database migrations",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "status",
				Usage: "Show migration status without applying migrations",
				Value: false,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return RunMigrations(c.String("config"), c.Bool("status"))
		},
	}
}

// RunMigrations applies pending migrations or, with statusOnly, reports
// them.
func RunMigrations(configPath string, statusOnly bool) error {
	cfg, store, err := openStore(configPath, storage.WithoutMigrations())
	if err != nil {
		return err
	}
	defer closeStore(store)

	fmt.Printf("Database: %s\n", cfg.DatabasePath)
	manager := db.NewMigrationManager(store.DB())

	if statusOnly {
		if err := showMigrationStatus(manager); err != nil {
			return fmt.Errorf("showing migration status: %w", err)
		}
		return nil
	}

	pending, err := manager.GetPendingMigrations()
	if err != nil {
		return fmt.Errorf("checking pending migrations: %w", err)
	}
	if err := manager.ApplyPendingMigrations(); err != nil {
		return fmt.Errorf("applying migrations: %w", err)
	}
	fmt.Printf("Applied %d migrations\n", len(pending))
	return nil
}

// showMigrationStatus displays the current migration status
func showMigrationStatus(manager *db.MigrationManager) error {
	status, err := manager.GetMigrationStatus()
	if err != nil {
		return err
	}

	fmt.Printf("Applied migrations: %d\n", len(status.Applied))
	for _, migration := range status.Applied {
		appliedTime := "unknown"
		if migration.AppliedAt != nil {
			appliedTime = migration.AppliedAt.Format("2006-01-02 15:04:05")
		}
		fmt.Printf("  ✓ %03d: %s (applied: %s)\n", migration.Version, migration.Name, appliedTime)
	}

	fmt.Printf("Pending migrations: %d\n", len(status.Pending))
	for _, migration := range status.Pending {
		fmt.Printf("  • %03d: %s\n", migration.Version, migration.Name)
	}

	if len(status.Pending) == 0 {
		fmt.Println("  (none - database is up to date)")
	}

	return nil
}
