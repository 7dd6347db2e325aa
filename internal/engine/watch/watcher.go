// Package watch implements change detection by polling modification times of
// the entry file's import closure.
package watch

import (
	"context"
	"os"
	"sync"
	"time"
	"unique"

	"github.com/cespare/xxhash/v2"
	"go.kern.sh/kern/internal/core/domain"
	"go.kern.sh/kern/internal/core/ports"
)

var _ ports.ChangeSource = (*Watcher)(nil)

// Resolver is the slice of the import graph resolver the watcher needs.
type Resolver interface {
	Resolve(entry string) domain.FileSet
}

// Config holds the watcher's tunables.
type Config struct {
	// Interval is the polling cadence.
	Interval time.Duration
	// VerifyContent enables content hashing: an mtime bump with unchanged
	// bytes is not reported as a change.
	VerifyContent bool
}

// Watcher polls the live file set on a fixed cadence and accumulates a dirty
// set. It is the single producer; the control loop is the single consumer.
// All shared state is guarded by one mutex so Drain is all-or-nothing.
type Watcher struct {
	entry    string
	resolver Resolver
	cfg      Config

	mu         sync.Mutex
	live       domain.FileSet
	mtimes     map[string]time.Time
	digests    map[string]uint64
	dirty      map[unique.Handle[string]]struct{}
	changed    bool
	lastChange time.Time

	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// New creates a polling watcher for the given entry file.
func New(entry string, res Resolver, cfg Config) *Watcher {
	if cfg.Interval <= 0 {
		cfg.Interval = domain.DefaultSettings().PollInterval
	}
	return &Watcher{
		entry:    entry,
		resolver: res,
		cfg:      cfg,
		dirty:    make(map[unique.Handle[string]]struct{}),
	}
}

// Start resolves the initial live set, snapshots modification times, and
// launches the polling goroutine. It does not block.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return domain.ErrWatcherAlreadyRunning
	}
	w.running = true

	w.live = w.resolver.Resolve(w.entry)
	w.mtimes = make(map[string]time.Time, w.live.Len())
	w.digests = make(map[string]uint64, w.live.Len())
	for path := range w.live {
		if info, err := os.Stat(path); err == nil {
			w.mtimes[path] = info.ModTime()
		}
		if w.cfg.VerifyContent {
			if sum, ok := digest(path); ok {
				w.digests[path] = sum
			}
		}
	}

	ctx, w.cancel = context.WithCancel(ctx)
	w.done = make(chan struct{})
	w.mu.Unlock()

	go w.loop(ctx)
	return nil
}

// Stop ends the polling goroutine and waits for it to exit.
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
	<-done
	return nil
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

// loop runs the polling cadence until the context is canceled.
func (w *Watcher) loop(ctx context.Context) {
	defer close(w.done)

	ticker := time.NewTicker(w.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.tick()
		}
	}
}

// tick stats every live file and records strictly increased modification
// times. A vanished file is skipped without error. On any change the live set
// is re-resolved so newly added imports are picked up going forward.
func (w *Watcher) tick() {
	w.mu.Lock()
	defer w.mu.Unlock()

	refresh := false
	for path := range w.live {
		info, err := os.Stat(path)
		if err != nil {
			// The file may be gone or mid-write this tick.
			continue
		}
		mtime := info.ModTime()
		if !mtime.After(w.mtimes[path]) {
			continue
		}
		w.mtimes[path] = mtime

		if w.cfg.VerifyContent {
			sum, ok := digest(path)
			if ok && sum == w.digests[path] {
				// Touched but byte-identical: not a change.
				continue
			}
			if ok {
				w.digests[path] = sum
			}
		}

		w.dirty[unique.Make(path)] = struct{}{}
		w.changed = true
		w.lastChange = time.Now()
		refresh = true
	}

	if refresh {
		w.live = w.resolver.Resolve(w.entry)
	}
}

// digest hashes a file's content. A read failure is a soft miss.
func digest(path string) (uint64, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, false
	}
	return xxhash.Sum64(data), true
}
