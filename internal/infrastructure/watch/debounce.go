// Package watch notifies callers when workspace data files change, coalescing
// bursts of filesystem events into one notification.
package watch

import (
	"sort"
	"sync"
	"time"
)

// Batcher collects changed paths and hands them to the callback once no new
// path has arrived for the window.
type Batcher struct {
	window   time.Duration
	callback func(paths []string)

	mu      sync.Mutex
	timer   *time.Timer
	pending map[string]struct{}
}

// NewBatcher creates a batcher with the given quiet window.
func NewBatcher(window time.Duration, callback func(paths []string)) *Batcher {
	return &Batcher{
		window:   window,
		callback: callback,
		pending:  make(map[string]struct{}),
	}
}

// Add records a changed path and restarts the quiet window.
func (b *Batcher) Add(path string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.pending[path] = struct{}{}
	if b.timer != nil {
		b.timer.Stop()
	}
	b.timer = time.AfterFunc(b.window, b.flush)
}

func (b *Batcher) flush() {
	b.mu.Lock()
	paths := make([]string, 0, len(b.pending))
	for p := range b.pending {
		paths = append(paths, p)
	}
	b.pending = make(map[string]struct{})
	b.timer = nil
	b.mu.Unlock()

	if len(paths) == 0 {
		return
	}
	sort.Strings(paths)
	b.callback(paths)
}

// Stop cancels any pending callback and drops the collected paths.
func (b *Batcher) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	b.pending = make(map[string]struct{})
}
