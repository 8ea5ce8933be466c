package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 200 * time.Millisecond

// watchTargets lists what a rebuild depends on.
type watchTargets struct {
	dataFile    string
	dbFile      string
	templateDir string
}

func (w watchTargets) dirs() []string {
	var dirs []string
	seen := map[string]bool{}
	add := func(dir string) {
		if dir == "" || seen[dir] {
			return
		}
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			return
		}
		seen[dir] = true
		dirs = append(dirs, dir)
	}
	if w.dataFile != "" {
		add(filepath.Dir(w.dataFile))
	}
	if w.dbFile != "" {
		add(filepath.Dir(w.dbFile))
	}
	add(w.templateDir)
	return dirs
}

func (w watchTargets) relevant(name string) bool {
	name = filepath.Clean(name)
	if w.dataFile != "" && name == w.dataFile {
		return true
	}
	// Committed imports land in the database or its write-ahead log.
	if w.dbFile != "" && (name == w.dbFile || name == w.dbFile+"-wal") {
		return true
	}
	return w.templateDir != "" && filepath.Dir(name) == w.templateDir && strings.HasSuffix(name, ".html")
}

func newWatchTargets(config *BuildConfig) watchTargets {
	var t watchTargets
	switch config.Source {
	case sourceFile:
		if config.DataPath != "" {
			t.dataFile = filepath.Clean(config.DataPath)
		}
	case sourceSQLite:
		if path, _, _ := strings.Cut(config.DatabasePath, "?"); path != "" && path != ":memory:" {
			t.dbFile = filepath.Clean(path)
		}
	}
	if config.TemplateDir != "" {
		t.templateDir = filepath.Clean(config.TemplateDir)
	}
	return t
}

// watch rebuilds whenever a target changes, until ctx is done. Events are
// debounced and rebuilds never overlap. Build failures are logged and the
// previous output is kept.
func watch(ctx context.Context, b *Builder, targets watchTargets, debounce time.Duration, logger *slog.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func(watcher *fsnotify.Watcher) {
		_ = watcher.Close()
	}(watcher)

	dirs := targets.dirs()
	if len(dirs) == 0 {
		return errors.New("nothing to watch: neither the data directory nor the template directory exists")
	}
	for _, dir := range dirs {
		if err = watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		logger.Info("Watching for changes", "dir", dir)
	}

	if debounce <= 0 {
		debounce = defaultDebounce
	}
	// Armed by the first relevant event.
	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Watch stopped")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
				continue
			}
			if !targets.relevant(event.Name) {
				continue
			}
			logger.Debug("Change detected", "file", event.Name, "op", event.Op.String())
			timer.Reset(debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("Watcher error", "error", err)

		case <-timer.C:
			if err = b.Refresh(); err != nil {
				logger.Error("Failed to reload templates, keeping previous output", "error", err)
				continue
			}
			if _, err = b.Build(ctx); err != nil {
				logger.Error("Rebuild failed, keeping previous output", "error", err)
			}
		}
	}
}
