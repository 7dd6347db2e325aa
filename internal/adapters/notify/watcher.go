// Package notify implements change detection through OS file system
// notifications using fsnotify. It is the alternative to the polling watcher
// for projects where polling is too slow or too expensive.
package notify

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"
	"unique"

	"github.com/fsnotify/fsnotify"
	"go.kern.sh/kern/internal/core/domain"
	"go.kern.sh/kern/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ChangeSource = (*Watcher)(nil)

// Resolver is the slice of the import graph resolver the watcher needs.
type Resolver interface {
	Resolve(entry string) domain.FileSet
}

// Watcher accumulates fsnotify events into the same dirty-set contract the
// polling watcher provides. Events for files outside the entry's current
// import closure are discarded.
type Watcher struct {
	entry      string
	resolver   Resolver
	ignoreDirs map[string]bool

	fsWatcher *fsnotify.Watcher

	mu         sync.Mutex
	live       domain.FileSet
	dirty      map[unique.Handle[string]]struct{}
	changed    bool
	lastChange time.Time

	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// New creates an fsnotify-backed watcher for the given entry file.
// ignoreDirs are directory names that are never descended into.
func New(entry string, res Resolver, ignoreDirs []string) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Join(domain.ErrWatcherStartFailed, err)
	}

	skip := make(map[string]bool, len(ignoreDirs))
	for _, d := range ignoreDirs {
		skip[d] = true
	}

	return &Watcher{
		entry:      entry,
		resolver:   res,
		ignoreDirs: skip,
		fsWatcher:  fsWatcher,
		dirty:      make(map[unique.Handle[string]]struct{}),
	}, nil
}

// Start adds the project root's directory tree to the watcher and begins
// processing events. It does not block.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return domain.ErrWatcherAlreadyRunning
	}
	w.running = true
	w.live = w.resolver.Resolve(w.entry)
	ctx, w.cancel = context.WithCancel(ctx)
	w.done = make(chan struct{})
	w.mu.Unlock()

	root := filepath.Dir(w.entry)
	for _, dir := range w.watchableDirs(root) {
		if err := w.fsWatcher.Add(dir); err != nil {
			return zerr.With(errors.Join(domain.ErrWatcherStartFailed, err), "dir", dir)
		}
	}

	go w.processEvents(ctx)
	return nil
}

// Stop closes the underlying watcher and waits for event processing to end.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = false
	cancel, done := w.cancel, w.done
	w.mu.Unlock()

	cancel()
	err := w.fsWatcher.Close()
	<-done
	return err
}

// HasChange reports whether any change has been observed since the last
// Drain.
func (w *Watcher) HasChange() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.changed
}

// SinceLastChange returns the time elapsed since the most recent change.
func (w *Watcher) SinceLastChange() time.Duration {
	w.mu.Lock()
	defer w.mu.Unlock()
	return time.Since(w.lastChange)
}

// Drain atomically returns and clears the dirty set and the change flag.
func (w *Watcher) Drain() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	paths := make([]string, 0, len(w.dirty))
	for handle := range w.dirty {
		paths = append(paths, handle.Value())
	}
	w.dirty = make(map[unique.Handle[string]]struct{})
	w.changed = false
	return paths
}

// watchableDirs walks the directory tree and collects every directory that
// is not ignored. Walk errors skip the problematic directory rather than
// aborting.
func (w *Watcher) watchableDirs(root string) []string {
	var dirs []string
	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // skip unreadable directories
		}
		if !d.IsDir() {
			return nil
		}
		if w.ignoreDirs[d.Name()] {
			return filepath.SkipDir
		}
		dirs = append(dirs, path)
		return nil
	})
	return dirs
}

// processEvents converts raw fsnotify events into dirty-set entries.
func (w *Watcher) processEvents(ctx context.Context) {
	defer close(w.done)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case _, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			// Transient watch errors are soft: keep processing.
		}
	}
}

// handleEvent marks a write or create to a file in the live set as dirty and
// re-resolves the live set so newly added imports are picked up. A newly
// created directory is added to the watch.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op&fsnotify.Create == fsnotify.Create {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() && !w.ignoreDirs[info.Name()] {
			for _, dir := range w.watchableDirs(event.Name) {
				_ = w.fsWatcher.Add(dir)
			}
			return
		}
	}

	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		// Removes and renames make files vanish; the reload cycle will
		// discover that through resolution, not through the dirty set.
		return
	}

	path := normalizePath(event.Name)

	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.live.Has(path) {
		// Outside the entry's import closure: re-resolve in case the
		// write introduced the file into the graph.
		w.live = w.resolver.Resolve(w.entry)
		if !w.live.Has(path) {
			return
		}
	}

	w.dirty[unique.Make(path)] = struct{}{}
	w.changed = true
	w.lastChange = time.Now()
	w.live = w.resolver.Resolve(w.entry)
}

func normalizePath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		path = resolved
	}
	return filepath.Clean(path)
}
