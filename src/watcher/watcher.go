package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"sales-observer/src/logger"

	"github.com/fsnotify/fsnotify"
)

// RefreshFunc is called once per burst of changes to the watched file.
type RefreshFunc func(ctx context.Context) error

// Watcher triggers a refresh when a local input file is written or replaced.
// It watches the parent directory so editors that save via rename are seen.
type Watcher struct {
	Path     string
	Debounce time.Duration
	OnChange RefreshFunc
	Logger   *logger.Logger

	fs *fsnotify.Watcher
}

// -----------------------------------------------------------------------------

func NewWatcher(path string, debounce time.Duration, onChange RefreshFunc, log *logger.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	return &Watcher{
		Path:     abs,
		Debounce: debounce,
		OnChange: onChange,
		Logger:   log,
		fs:       fsw,
	}, nil
}

// LocalFile reports whether location names a file on this machine and
// returns its path.
func LocalFile(location string) (string, bool) {
	if strings.HasPrefix(location, "file://") {
		return strings.TrimPrefix(location, "file://"), true
	}
	if strings.Contains(location, "://") {
		return "", false
	}
	return location, location != ""
}

// -----------------------------------------------------------------------------

// Run blocks until ctx is cancelled or the underlying watcher is closed.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fs.Close()
	w.Logger.Info("Watching %s for changes (debounce %s)", w.Path, w.Debounce)

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.Logger.Debug("Change on %s: %s", event.Name, event.Op)
			if timer == nil {
				timer = time.NewTimer(w.Debounce)
			} else {
				timer.Reset(w.Debounce)
			}
			fire = timer.C

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.Logger.Warning("File watcher error: %v", err)

		case <-fire:
			fire = nil
			if err := w.OnChange(ctx); err != nil {
				w.Logger.Error("Refresh after change to %s failed: %v", w.Path, err)
			}
		}
	}
}

// -----------------------------------------------------------------------------

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.Path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}
