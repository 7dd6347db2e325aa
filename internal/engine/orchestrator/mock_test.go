package orchestrator_test

import (
	"context"
	"io"
	"sync"
	"time"

	"go.kern.sh/kern/internal/core/domain"
	"go.kern.sh/kern/internal/core/ports"
)

// fakeSource is a hand-driven ports.ChangeSource.
type fakeSource struct {
	mu       sync.Mutex
	started  bool
	stopped  bool
	startErr error
	changed  bool
	last     time.Time
	dirty    []string
}

func (s *fakeSource) Start(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.startErr != nil {
		return s.startErr
	}
	s.started = true
	return nil
}

func (s *fakeSource) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	return nil
}

func (s *fakeSource) HasChange() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.changed
}

func (s *fakeSource) SinceLastChange() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return time.Since(s.last)
}

func (s *fakeSource) Drain() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	dirty := s.dirty
	s.dirty = nil
	s.changed = false
	return dirty
}

func (s *fakeSource) markChange(paths ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dirty = append(s.dirty, paths...)
	s.changed = true
	s.last = time.Now()
}

// fakeCache is an in-memory ports.ModuleCache with scriptable failures.
type fakeCache struct {
	mu        sync.Mutex
	modules   map[domain.ModuleID]*fakeHandle
	loadErr   error
	invokeErr error
	loads     int
	reloads   int
	invokes   int
}

func newFakeCache() *fakeCache {
	return &fakeCache{modules: make(map[domain.ModuleID]*fakeHandle)}
}

func (c *fakeCache) Has(id domain.ModuleID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.modules[id]
	return ok
}

func (c *fakeCache) Get(id domain.ModuleID) (ports.ModuleHandle, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	h, ok := c.modules[id]
	if !ok {
		return nil, false
	}
	return h, true
}

func (c *fakeCache) LoadFresh(_ context.Context, id domain.ModuleID) (ports.ModuleHandle, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loads++
	if c.loadErr != nil {
		return nil, c.loadErr
	}
	h := &fakeHandle{id: id, cache: c}
	c.modules[id] = h
	return h, nil
}

func (c *fakeCache) ReloadExisting(_ context.Context, h ports.ModuleHandle) (ports.ModuleHandle, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reloads++
	if c.loadErr != nil {
		delete(c.modules, h.ID())
		return nil, c.loadErr
	}
	fresh := &fakeHandle{id: h.ID(), cache: c}
	c.modules[h.ID()] = fresh
	return fresh, nil
}

func (c *fakeCache) Evict(id domain.ModuleID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.modules, id)
}

func (c *fakeCache) setLoadErr(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loadErr = err
}

func (c *fakeCache) setInvokeErr(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invokeErr = err
}

func (c *fakeCache) invokeCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.invokes
}

func (c *fakeCache) reloadCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reloads
}

type fakeHandle struct {
	id    domain.ModuleID
	cache *fakeCache
}

func (h *fakeHandle) ID() domain.ModuleID { return h.id }

func (h *fakeHandle) Invoke(context.Context) error {
	h.cache.mu.Lock()
	defer h.cache.mu.Unlock()
	if h.cache.invokeErr != nil {
		return h.cache.invokeErr
	}
	h.cache.invokes++
	return nil
}

// fakeInvalidator records the dirty sets it was asked to process.
type fakeInvalidator struct {
	mu    sync.Mutex
	calls [][]string
}

func (i *fakeInvalidator) Invalidate(_ context.Context, dirty []string) ([]domain.ModuleID, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.calls = append(i.calls, dirty)
	return nil, nil
}

func (i *fakeInvalidator) callCount() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return len(i.calls)
}

// fakeCrashLog records persisted traces.
type fakeCrashLog struct {
	mu     sync.Mutex
	traces []string
}

func (l *fakeCrashLog) Persist(trace string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.traces = append(l.traces, trace)
	return nil
}

func (l *fakeCrashLog) Path() string { return "kern_error.log" }

func (l *fakeCrashLog) lastTrace() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.traces) == 0 {
		return ""
	}
	return l.traces[len(l.traces)-1]
}

// recordingLogger captures diagnostics by level.
type recordingLogger struct {
	mu        sync.Mutex
	infos     []string
	successes []string
	warns     []string
	errors    []error
}

func (l *recordingLogger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.infos = append(l.infos, msg)
}

func (l *recordingLogger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.successes = append(l.successes, msg)
}

func (l *recordingLogger) Warn(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns = append(l.warns, msg)
}

func (l *recordingLogger) Error(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors = append(l.errors, err)
}

func (l *recordingLogger) SetOutput(io.Writer) {}
func (l *recordingLogger) SetJSON(bool)        {}

func (l *recordingLogger) warnCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.warns)
}

func (l *recordingLogger) errorCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.errors)
}
