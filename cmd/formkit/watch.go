package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const watchDebounce = 100 * time.Millisecond

// fileWatcher reports changes to one file. The parent directory is watched so
// editors that save through a rename keep triggering events.
type fileWatcher struct {
	target   string
	debounce time.Duration
	logger   *zap.Logger
	watcher  *fsnotify.Watcher
}

func newFileWatcher(path string, logger *zap.Logger) (*fileWatcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	target, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(target), err)
	}
	return &fileWatcher{target: target, debounce: watchDebounce, logger: logger, watcher: watcher}, nil
}

// Run calls rerender once per burst of changes until ctx is done. Render
// failures are logged and do not stop the loop.
func (w *fileWatcher) Run(ctx context.Context, rerender func() error) error {
	defer w.watcher.Close()
	w.logger.Info("watching page definition", zap.String("path", w.target))

	var (
		timer   *time.Timer
		pending <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !isRelevant(event, w.target) {
				continue
			}
			w.logger.Debug("definition changed", zap.String("op", event.Op.String()))
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(w.debounce)
			pending = timer.C

		case <-pending:
			pending = nil
			if err := rerender(); err != nil {
				w.logger.Error("re-render failed", zap.Error(err))
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", zap.Error(err))
		}
	}
}

func watchFile(ctx context.Context, path string, logger *zap.Logger, rerender func() error) error {
	w, err := newFileWatcher(path, logger)
	if err != nil {
		return err
	}
	return w.Run(ctx, rerender)
}

func isRelevant(event fsnotify.Event, target string) bool {
	name, err := filepath.Abs(event.Name)
	if err != nil || name != target {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}
