// Package watch re-runs analysis when source files change.
package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/avelaro/vitals/pkg/config"
	"github.com/avelaro/vitals/pkg/parser"
)

// DefaultDebounce batches editor save bursts into one analysis run.
const DefaultDebounce = 500 * time.Millisecond

// Callback receives the batch of files that changed since the last run.
type Callback func(changed []string)

// Watcher monitors a directory tree and invokes the callback once per
// debounced batch of changes.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	config    *config.Config
	debounce  time.Duration
	root      string
	callback  Callback

	mu      sync.Mutex
	pending map[string]time.Time
}

// New creates a watcher for the given root directory.
func New(root string, cfg *config.Config, debounce time.Duration) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	return &Watcher{
		fsWatcher: fsWatcher,
		config:    cfg,
		debounce:  debounce,
		root:      root,
		pending:   make(map[string]time.Time),
	}, nil
}

// SetCallback sets the function to call with each batch of changes.
func (w *Watcher) SetCallback(cb Callback) {
	w.callback = cb
}

// Start watches the tree until the context is canceled.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.addDirs(w.root); err != nil {
		return err
	}

	go w.flushLoop(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case _, ok := <-w.fsWatcher.Errors:
			if !ok {
				return nil
			}
		}
	}
}

// Stop closes the underlying filesystem watcher.
func (w *Watcher) Stop() error {
	return w.fsWatcher.Close()
}

// WatchedDirs returns the directories currently being watched.
func (w *Watcher) WatchedDirs() []string {
	return w.fsWatcher.WatchList()
}

// addDirs registers every non-excluded directory under path.
func (w *Watcher) addDirs(path string) error {
	return filepath.Walk(path, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			return nil
		}
		for _, excluded := range w.config.Exclude.Dirs {
			if info.Name() == excluded {
				return filepath.SkipDir
			}
		}
		return w.fsWatcher.Add(p)
	})
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return
	}

	// New directories must be added to the watch list
	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			w.addDirs(event.Name)
			return
		}
	}

	if w.config.ShouldExclude(event.Name) {
		return
	}
	if parser.DetectLanguage(event.Name) == parser.LangUnknown {
		return
	}

	w.mu.Lock()
	w.pending[event.Name] = time.Now()
	w.mu.Unlock()
}

// flushLoop fires the callback for files that have been quiet for the
// debounce period.
func (w *Watcher) flushLoop(ctx context.Context) {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if batch := w.takeReady(); len(batch) > 0 && w.callback != nil {
				w.callback(batch)
			}
		}
	}
}

// takeReady removes and returns files whose last event is older than the
// debounce window.
func (w *Watcher) takeReady() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := time.Now()
	var ready []string
	for path, last := range w.pending {
		if now.Sub(last) >= w.debounce {
			ready = append(ready, path)
		}
	}
	for _, path := range ready {
		delete(w.pending, path)
	}
	return ready
}
