// Package watch monitors source trees and reports changed files in
// debounced batches so callers can re-run analysis on save.
package watch

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/corvidae/augur/pkg/config"
	"github.com/corvidae/augur/pkg/parser"
)

// Watcher monitors a directory tree for changes to analyzable source files.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	config    *config.Config
	debounce  time.Duration
	root      string
	onChange  func(paths []string)
	onError   func(err error)

	mu      sync.Mutex
	pending map[string]time.Time
}

// NewWatcher creates a watcher rooted at path. A non-positive debounce
// falls back to 500ms.
func NewWatcher(path string, cfg *config.Config, debounce time.Duration) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}

	return &Watcher{
		fsWatcher: fsWatcher,
		config:    cfg,
		debounce:  debounce,
		root:      path,
		pending:   make(map[string]time.Time),
	}, nil
}

// SetCallback sets the function invoked with each batch of changed files.
// Paths arrive sorted. Set it before calling Start.
func (w *Watcher) SetCallback(cb func(paths []string)) {
	w.onChange = cb
}

// SetErrorCallback sets the function invoked when the underlying watcher
// reports an error.
func (w *Watcher) SetErrorCallback(cb func(err error)) {
	w.onError = cb
}

// Start watches the tree until ctx is canceled. Excluded directories are
// skipped, and directories created while watching join the watch as they
// appear.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.addTree(w.root); err != nil {
		return err
	}

	go w.processDebounced(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return nil
			}
			if w.onError != nil {
				w.onError(err)
			}
		}
	}
}

// addTree registers every non-excluded directory under root.
func (w *Watcher) addTree(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			// Unreadable entries are skipped, not fatal.
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
		return w.fsWatcher.Add(path)
	})
}

// handleEvent records a changed source file, or extends the watch when a
// new directory appears.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return
	}

	path := event.Name

	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			_ = w.addTree(path)
			return
		}
	}

	if w.config.ShouldExclude(path) {
		return
	}
	lang := parser.DetectLanguage(path)
	if lang == parser.LangUnknown || !w.config.WantsLanguage(string(lang)) {
		return
	}

	w.mu.Lock()
	w.pending[path] = time.Now()
	w.mu.Unlock()
}

// processDebounced sweeps the pending set until ctx is canceled.
func (w *Watcher) processDebounced(ctx context.Context) {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.processPending()
		}
	}
}

// processPending collects files that have been quiet for a full debounce
// period and fires the callback once with the whole batch, so an editor
// save-all triggers a single rerun.
func (w *Watcher) processPending() {
	w.mu.Lock()
	now := time.Now()
	var ready []string
	for path, lastMod := range w.pending {
		if now.Sub(lastMod) >= w.debounce {
			ready = append(ready, path)
		}
	}
	for _, path := range ready {
		delete(w.pending, path)
	}
	cb := w.onChange
	w.mu.Unlock()

	if len(ready) == 0 || cb == nil {
		return
	}
	sort.Strings(ready)
	go cb(ready)
}

// Stop closes the underlying watcher.
func (w *Watcher) Stop() error {
	return w.fsWatcher.Close()
}

// WatchedFiles returns the directories currently being watched.
func (w *Watcher) WatchedFiles() []string {
	return w.fsWatcher.WatchList()
}
