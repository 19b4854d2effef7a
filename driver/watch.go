package driver

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/phanxgames/meadow"
)

// WatchConfig watches the YAML file at path and sends the re-parsed config
// each time it is written. Files that fail to parse or validate are logged
// and ignored. Only the latest config is kept if the receiver falls behind.
// The channel is closed when ctx is done.
func WatchConfig(ctx context.Context, path string) (<-chan meadow.Config, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	// Watch the directory: editors often replace the file instead of
	// writing it in place.
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	out := make(chan meadow.Config, 1)
	go func() {
		defer close(out)
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != abs || !(ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)) {
					continue
				}
				cfg, err := meadow.LoadConfig(abs)
				if err != nil {
					meadow.Logger().Warn("config reload failed", "path", abs, "err", err)
					continue
				}
				// Drop a config the game has not picked up yet.
				select {
				case <-out:
				default:
				}
				out <- cfg
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				meadow.Logger().Warn("config watcher", "err", err)
			}
		}
	}()
	return out, nil
}
