package toml

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const watchDebounce = 100 * time.Millisecond

// Watch calls onChange whenever the config file is written, created or
// replaced, until ctx is done. Bursts of events are coalesced. The directory
// is watched rather than the file so atomic renames are seen.
func (r *Repository) Watch(ctx context.Context, logger *zap.Logger, onChange func()) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, configDirMode); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create config watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		if closeErr := watcher.Close(); closeErr != nil {
			logger.Warn("close config watcher", zap.Error(closeErr))
		}
		return fmt.Errorf("watch config directory: %w", err)
	}

	go r.watchLoop(ctx, watcher, logger, onChange)
	return nil
}

func (r *Repository) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, logger *zap.Logger, onChange func()) {
	defer func() {
		if err := watcher.Close(); err != nil {
			logger.Warn("close config watcher", zap.Error(err))
		}
	}()

	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	base := filepath.Base(r.path)
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != base {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}

			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(watchDebounce, func() {
				if ctx.Err() != nil {
					return
				}
				logger.Debug("config file changed", zap.String("path", r.path))
				onChange()
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("config watcher error", zap.Error(err))

		case <-ctx.Done():
			return
		}
	}
}
