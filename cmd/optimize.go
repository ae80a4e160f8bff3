package cmd

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/rubiojr/catalog/pkg/storage"
)

// OptimizeCommand creates the optimize command
func OptimizeCommand() *cli.Command {
	return &cli.Command{
		Name:  "optimize",
		Usage: "Database optimization and maintenance commands",
		Commands: []*cli.Command{
			{
				Name:  "check",
				Usage: "Run an integrity check on the database",
				Action: func(ctx context.Context, c *cli.Command) error {
					return withStore(c, func(store *storage.Store) error {
						return checkDatabase(ctx, store)
					})
				},
			},
			{
				Name:  "analyze",
				Usage: "Run ANALYZE to update query planner statistics",
				Action: func(ctx context.Context, c *cli.Command) error {
					return withStore(c, func(store *storage.Store) error {
						return step("ANALYZE", store.Analyze)
					})
				},
			},
			{
				Name:  "vacuum",
				Usage: "Run VACUUM to defragment database",
				Action: func(ctx context.Context, c *cli.Command) error {
					return withStore(c, func(store *storage.Store) error {
						return step("VACUUM", store.Vacuum)
					})
				},
			},
			{
				Name:  "checkpoint",
				Usage: "Run WAL checkpoint to flush changes",
				Action: func(ctx context.Context, c *cli.Command) error {
					return withStore(c, func(store *storage.Store) error {
						return step("WAL checkpoint", store.WALCheckpoint)
					})
				},
			},
			{
				Name:  "all",
				Usage: "Run all optimization operations (optimize, analyze, checkpoint)",
				Action: func(ctx context.Context, c *cli.Command) error {
					return withStore(c, optimizeAll)
				},
			},
		},
	}
}

func withStore(c *cli.Command, fn func(*storage.Store) error) error {
	_, store, err := openStore(c.String("config"))
	if err != nil {
		return err
	}
	defer closeStore(store)
	return fn(store)
}

func step(name string, fn func() error) error {
	fmt.Printf("Running %s...\n", name)
	if err := fn(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	fmt.Printf("✓ %s completed\n", name)
	return nil
}

// optimizeAll runs all optimization operations
func optimizeAll(store *storage.Store) error {
	for _, s := range []struct {
		name string
		fn   func() error
	}{
		{"PRAGMA optimize", store.Optimize},
		{"ANALYZE", store.Analyze},
		{"WAL checkpoint", store.WALCheckpoint},
	} {
		if err := step(s.name, s.fn); err != nil {
			return err
		}
		fmt.Println()
	}
	fmt.Println("All optimization operations completed successfully")
	return nil
}

func checkDatabase(ctx context.Context, store *storage.Store) error {
	problems, err := store.IntegrityCheck(ctx)
	if err != nil {
		return err
	}
	if len(problems) == 0 {
		fmt.Println("✓ Database integrity check passed")
		return nil
	}
	for _, p := range problems {
		fmt.Printf("  ✗ %s\n", p)
	}
	return fmt.Errorf("integrity check found %d problems", len(problems))
}
