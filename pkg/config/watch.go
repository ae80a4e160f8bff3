package config

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/rubiojr/catalog/pkg/log"
)

// settleDelay gives editors time to finish writing before the file is read.
var settleDelay = 150 * time.Millisecond

// Watch calls onChange with the reloaded configuration every time the file
// at configPath is written or replaced, until ctx is done. Files that fail
// to load or validate are logged and skipped; the previous configuration
// stays in effect. Watch blocks.
func Watch(ctx context.Context, configPath string, onChange func(*Config)) error {
	logger := log.ForService("config")

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating config file watcher: %w", err)
	}
	defer func() {
		if err := watcher.Close(); err != nil {
			logger.Warnf("failed to close config file watcher: %v", err)
		}
	}()

	if err := watcher.Add(configPath); err != nil {
		return fmt.Errorf("watching config file %s: %w", configPath, err)
	}
	logger.Infof("watching config file for changes: %s", configPath)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// Editors often save with an atomic rename.
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
				continue
			}
			logger.Debugf("config file changed: %s (%s)", event.Name, event.Op)

			select {
			case <-ctx.Done():
				return nil
			case <-time.After(settleDelay):
			}

			if event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove) {
				if _, err := os.Stat(configPath); os.IsNotExist(err) {
					logger.Warnf("config file was removed and not replaced, skipping reload")
					continue
				}
				if err := watcher.Add(configPath); err != nil {
					logger.Warnf("failed to re-add config file to watcher: %v", err)
				}
			}

			cfg, err := LoadConfig(configPath)
			if err != nil {
				logger.Errorf("failed to reload configuration: %v", err)
				continue
			}
			logger.Infof("configuration reloaded")
			onChange(cfg)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warnf("config file watcher error: %v", err)
		}
	}
}
