package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce collapses editor save bursts into one reload.
const watchDebounce = 500 * time.Millisecond

// Watch reloads the settings file whenever it changes on disk and hands the
// result to reloadFn. Parse and validation failures are reported through
// reloadFn with a nil Settings so a stale-but-valid document stays in use.
// Watching stops when ctx is cancelled.
func (l *Loader) Watch(ctx context.Context, path string, reloadFn func(*Settings, error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	// Watch the directory rather than the file itself: editors replace
	// files by rename, which drops a direct file watch.
	abs, err := filepath.Abs(path)
	if err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to resolve path: %w", err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	go l.processEvents(ctx, watcher, abs, reloadFn)

	l.logger.Info().
		Str("path", abs).
		Msg("Started watching settings file")

	return nil
}

// processEvents filters watcher events down to the settings file and
// triggers debounced reloads.
func (l *Loader) processEvents(ctx context.Context, watcher *fsnotify.Watcher, abs string, reloadFn func(*Settings, error)) {
	defer watcher.Close()

	var reloadTimer *time.Timer
	defer func() {
		if reloadTimer != nil {
			reloadTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}

			l.logger.Debug().
				Str("file", event.Name).
				Str("op", event.Op.String()).
				Msg("Settings file changed")

			if reloadTimer != nil {
				reloadTimer.Stop()
			}
			reloadTimer = time.AfterFunc(watchDebounce, func() {
				settings, err := l.LoadFile(abs)
				reloadFn(settings, err)
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			l.logger.Error().Err(err).Msg("Settings watcher error")
		}
	}
}
