package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"officegw/internal/domain"
)

// LoadAliases reads a YAML alias table mapping public tool names to
// module/method pairs.
func LoadAliases(path string) (map[string]domain.AliasEntry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read alias table: %w", err)
	}
	var table map[string]domain.AliasEntry
	if err := yaml.Unmarshal(raw, &table); err != nil {
		return nil, fmt.Errorf("parse alias table %s: %w", path, err)
	}
	for name, entry := range table {
		if entry.ModuleID == "" || entry.Method == "" {
			return nil, fmt.Errorf("alias %q: module and method are required", name)
		}
	}
	return table, nil
}

// WatchAliases reloads the alias table whenever the file changes and hands
// the new table to apply. Parse failures keep the previous table.
func WatchAliases(ctx context.Context, path string, logger *zap.Logger, apply func(map[string]domain.AliasEntry)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("alias watcher: %w", err)
	}
	// Watch the directory so editor rename-and-replace saves are seen.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("watch %s: %w", path, err)
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != filepath.Clean(path) {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				table, err := LoadAliases(path)
				if err != nil {
					logger.Warn("alias table reload failed", zap.Error(err))
					continue
				}
				apply(table)
				logger.Info("alias table reloaded", zap.Int("aliases", len(table)))
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("alias watcher error", zap.Error(err))
			}
		}
	}()
	return nil
}
