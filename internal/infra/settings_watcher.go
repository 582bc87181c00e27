package infra

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// SettingsWatcher signals when the settings file changes on disk.
// It watches the parent directory because Save replaces the file by rename.
type SettingsWatcher struct {
	path    string
	watcher *fsnotify.Watcher
	changes chan struct{}
	logger  *zap.Logger
}

// NewSettingsWatcher starts watching the directory of path.
func NewSettingsWatcher(path string, logger *zap.Logger) (*SettingsWatcher, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create settings directory: %w", err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create filesystem watcher: %w", err)
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	return &SettingsWatcher{
		path:    filepath.Clean(path),
		watcher: w,
		changes: make(chan struct{}, 1),
		logger:  logger,
	}, nil
}

// Changes delivers one coalesced signal per burst of settings writes.
func (w *SettingsWatcher) Changes() <-chan struct{} {
	return w.changes
}

// Run forwards events until ctx is done, then closes the watcher.
func (w *SettingsWatcher) Run(ctx context.Context) {
	defer w.watcher.Close()

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			select {
			case w.changes <- struct{}{}:
			default: // Already pending
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("settings watcher error", zap.Error(err))
		}
	}
}
