package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/macropower/rtool/pkg/log"
)

// DefaultDebounce coalesces bursts of events, such as a truncate followed by
// a write.
const DefaultDebounce = 100 * time.Millisecond

// Handler is called after a watched file changes. Errors are logged and do
// not stop the watcher.
type Handler func(ctx context.Context, path string) error

// Watcher watches a set of files.
type Watcher struct {
	watcher  *fsnotify.Watcher
	files    map[string]struct{}
	dirs     map[string]struct{}
	debounce time.Duration
}

// WatcherOpt configures a [Watcher].
type WatcherOpt func(*Watcher)

// WithDebounce sets the quiet period after the last event before the
// [Handler] runs. Zero runs it for every event.
func WithDebounce(d time.Duration) WatcherOpt {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// New creates a [Watcher] for files.
func New(files []string, opts ...WatcherOpt) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		watcher:  fw,
		files:    map[string]struct{}{},
		dirs:     map[string]struct{}{},
		debounce: DefaultDebounce,
	}
	for _, opt := range opts {
		opt(w)
	}

	for _, file := range files {
		err := w.add(file)
		if err != nil {
			return nil, errors.Join(err, w.Close())
		}
	}

	return w, nil
}

func (w *Watcher) add(file string) error {
	abs, err := filepath.Abs(file)
	if err != nil {
		return fmt.Errorf("get absolute path: %w", err)
	}

	dir := filepath.Dir(abs)
	if _, ok := w.dirs[dir]; !ok {
		err = w.watcher.Add(dir)
		if err != nil {
			return fmt.Errorf("add path to watcher: %w", err)
		}

		w.dirs[dir] = struct{}{}
	}

	w.files[abs] = struct{}{}

	return nil
}

// Files returns the number of watched files.
func (w *Watcher) Files() int {
	return len(w.files)
}

// Run calls fn for each change to a watched file until ctx is done or the
// watcher is closed.
func (w *Watcher) Run(ctx context.Context, fn Handler) error {
	logger := log.WithContext(ctx)
	logger.DebugContext(ctx, "added file watchers",
		slog.Int("files", len(w.files)),
		slog.Int("dirs", len(w.dirs)),
	)

	var (
		timer   *time.Timer
		fire    <-chan time.Time
		pending string
	)

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}

			return ctx.Err() //nolint:wrapcheck // Return the original error.

		case evt, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}

			if _, watched := w.files[filepath.Clean(evt.Name)]; !watched {
				continue
			}

			// Ignore events that are not related to file content changes.
			if evt.Has(fsnotify.Chmod) {
				continue
			}

			logger.DebugContext(ctx, "file changed", slog.String("event", evt.String()))

			if w.debounce <= 0 {
				w.handle(ctx, fn, evt.Name)

				continue
			}

			pending = evt.Name

			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}

			fire = timer.C

		case <-fire:
			fire = nil

			w.handle(ctx, fn, pending)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}

			logger.ErrorContext(ctx, "watch files", slog.Any("error", err))
		}
	}
}

func (w *Watcher) handle(ctx context.Context, fn Handler, path string) {
	err := fn(ctx, path)
	if err != nil {
		log.WithContext(ctx).ErrorContext(ctx, "handle file change",
			slog.String("path", path),
			slog.Any("error", err),
		)
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	err := w.watcher.Close()
	if err != nil {
		return fmt.Errorf("close watcher: %w", err)
	}

	return nil
}
