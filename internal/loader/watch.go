package loader

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/Faultbox/objkit/internal/logger"
	"github.com/Faultbox/objkit/pkg/formats"
)

// Watch parses path once and then again every time it is written or
// replaced, passing each result to fn. It blocks until ctx is done.
//
// The parent directory is watched rather than the file so editors that save
// by renaming a temp file over the original keep triggering reloads.
func Watch(ctx context.Context, path string, opts Options, fn func(*formats.OBJ, error)) error {
	log := logger.Named("watch")

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}

	fn(LoadFile(path, opts))

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			log.Debug("reloading", zap.String("path", path), zap.Stringer("op", event.Op))
			fn(LoadFile(path, opts))
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("watcher error", zap.Error(err))
		}
	}
}
