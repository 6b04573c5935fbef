package ingestion

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits for writes to settle.
const DefaultDebounce = 500 * time.Millisecond

// Watcher calls a refresh function when a messages file changes.
// It watches the parent directory so editors that replace the file by
// rename are noticed too.
type Watcher struct {
	path     string
	debounce time.Duration
	onChange func(ctx context.Context) error
	logger   *slog.Logger
}

// NewWatcher creates a watcher for path. onChange runs once per burst of events.
func NewWatcher(path string, debounce time.Duration, onChange func(ctx context.Context) error) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		path:     filepath.Clean(path),
		debounce: debounce,
		onChange: onChange,
		logger:   slog.Default().With("component", "watcher", "path", path),
	}
}

// Run watches until ctx is done. It returns an error only if watching
// could not start.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		return err
	}
	w.logger.Info("watching messages file")

	// Stopped timer; armed by the first relevant event
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			timer.Reset(w.debounce)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "err", err)
		case <-timer.C:
			if err := w.onChange(ctx); err != nil {
				w.logger.Warn("refresh after file change failed", "err", err)
				continue
			}
			w.logger.Info("refreshed after file change")
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Has(fsnotify.Create) || event.Has(fsnotify.Write) || event.Has(fsnotify.Rename)
}
