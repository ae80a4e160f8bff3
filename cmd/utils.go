package cmd

import (
	"fmt"

	"github.com/rubiojr/catalog/pkg/attachments"
	"github.com/rubiojr/catalog/pkg/catalog"
	"github.com/rubiojr/catalog/pkg/config"
	"github.com/rubiojr/catalog/pkg/log"
	"github.com/rubiojr/catalog/pkg/storage"
)

// openStore loads the configuration and opens its database, applying
// pending migrations.
func openStore(configPath string, opts ...storage.Option) (*config.Config, *storage.Store, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	if err := applyLogConfig(cfg.Log); err != nil {
		return nil, nil, err
	}

	store, err := storage.Open(cfg.DatabasePath, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("opening database %s: %w", cfg.DatabasePath, err)
	}
	return cfg, store, nil
}

func closeStore(store *storage.Store) {
	if err := store.Close(); err != nil {
		fmt.Printf("Warning: failed to close database: %v\n", err)
	}
}

func newService(cfg *config.Config, store *storage.Store) *catalog.Service {
	return catalog.NewService(store,
		catalog.WithResolver(attachments.NewDirResolver(cfg.AttachmentsDir)),
		catalog.WithLimits(cfg.API.Limits()),
	)
}

// applyLogConfig applies the [log] section. The global --debug flag is
// applied separately and is never turned off here.
func applyLogConfig(lc config.LogConfig) error {
	if lc.Debug {
		log.SetGlobalDebug(true)
	}
	return log.SetRotatingFile(log.RotateOptions{
		Path:       lc.File,
		MaxSizeMB:  lc.MaxSizeMB,
		MaxBackups: lc.MaxBackups,
		MaxAgeDays: lc.MaxAgeDays,
	})
}
