package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// DefaultWindow is the quiet period used when none is given.
const DefaultWindow = 500 * time.Millisecond

// DataWatcher watches one directory for changes to a fixed set of file names.
type DataWatcher struct {
	watcher  *fsnotify.Watcher
	dir      string
	files    map[string]struct{}
	window   time.Duration
	onChange func(files []string)
	logger   zerolog.Logger
}

// NewDataWatcher watches dir for the named files. onChange receives the base
// names that changed during one quiet window.
func NewDataWatcher(dir string, files []string, window time.Duration, onChange func(files []string), logger zerolog.Logger) (*DataWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}
	if window <= 0 {
		window = DefaultWindow
	}

	names := make(map[string]struct{}, len(files))
	for _, f := range files {
		names[f] = struct{}{}
	}
	return &DataWatcher{
		watcher:  w,
		dir:      dir,
		files:    names,
		window:   window,
		onChange: onChange,
		logger:   logger,
	}, nil
}

// Run starts the event loop. It blocks until the context is cancelled.
func (w *DataWatcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	batcher := NewBatcher(w.window, w.onChange)
	defer batcher.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !relevant(event.Op) {
				continue
			}
			name := filepath.Base(event.Name)
			if _, ok := w.files[name]; !ok {
				continue
			}
			w.logger.Debug().Str("file", name).Str("op", event.Op.String()).Msg("data file changed")
			batcher.Add(name)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watcher error: %w", err)
		}
	}
}

func relevant(op fsnotify.Op) bool {
	return op.Has(fsnotify.Create) || op.Has(fsnotify.Write) || op.Has(fsnotify.Remove) || op.Has(fsnotify.Rename)
}
