// Package orchestrator drives the reload cycle: it watches for stabilized
// changes, evicts affected modules, and reloads and re-executes the entry
// module. Load and execution failures are diagnostics, never loop exits.
package orchestrator

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.kern.sh/kern/internal/core/domain"
	"go.kern.sh/kern/internal/core/ports"
)

// State is the loop's current phase, exposed for observation.
type State uint8

const (
	StateIdle State = iota
	StateLoading
	StateRunning
	StateWatching
	StateDebounceWait
	StateReloading
	StateFailedLoad
	StateFailedRun
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateRunning:
		return "running"
	case StateWatching:
		return "watching"
	case StateDebounceWait:
		return "debounce-wait"
	case StateReloading:
		return "reloading"
	case StateFailedLoad:
		return "failed-load"
	case StateFailedRun:
		return "failed-run"
	default:
		return "unknown"
	}
}

// Invalidator is the slice of the cache invalidator the orchestrator needs.
type Invalidator interface {
	Invalidate(ctx context.Context, dirty []string) ([]domain.ModuleID, error)
}

// Config holds the loop's tunables.
type Config struct {
	// Debounce is how long a change must sit quiet before a reload starts.
	Debounce time.Duration
	// Heartbeat is the loop's polling cadence.
	Heartbeat time.Duration
}

// Orchestrator owns the foreground reload loop. It is the single consumer of
// the change source and the single caller into the module cache.
type Orchestrator struct {
	entryID     domain.ModuleID
	source      ports.ChangeSource
	invalidator Invalidator
	cache       ports.ModuleCache
	crashLog    ports.CrashLog
	logger      ports.Logger
	cfg         Config

	mu     sync.Mutex
	state  State
	handle ports.ModuleHandle
}

// New creates an Orchestrator for the given entry identity. Zero config
// values fall back to the defaults.
func New(
	entryID domain.ModuleID,
	source ports.ChangeSource,
	invalidator Invalidator,
	cache ports.ModuleCache,
	crashLog ports.CrashLog,
	logger ports.Logger,
	cfg Config,
) *Orchestrator {
	defaults := domain.DefaultSettings()
	if cfg.Debounce <= 0 {
		cfg.Debounce = defaults.Debounce
	}
	if cfg.Heartbeat <= 0 {
		cfg.Heartbeat = defaults.Heartbeat
	}
	return &Orchestrator{
		entryID:     entryID,
		source:      source,
		invalidator: invalidator,
		cache:       cache,
		crashLog:    crashLog,
		logger:      logger,
		cfg:         cfg,
		state:       StateIdle,
	}
}

// State returns the loop's current phase.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

func (o *Orchestrator) setState(s State) {
	o.mu.Lock()
	o.state = s
	o.mu.Unlock()
}

// Run starts the change source, performs the initial load and execution, and
// then loops on the heartbeat until the context is canceled. Cancellation is
// the only way out; it returns nil after a clean shutdown.
func (o *Orchestrator) Run(ctx context.Context) error {
	if err := o.source.Start(ctx); err != nil {
		return err
	}
	defer func() { _ = o.source.Stop() }()

	o.logger.Info("watching " + o.entryID.String())
	o.cycle(ctx, nil)

	ticker := time.NewTicker(o.cfg.Heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			o.setState(StateIdle)
			return nil
		case <-ticker.C:
			o.tick(ctx)
		}
	}
}

// tick runs one heartbeat: a change that has stabilized past the debounce
// window triggers a reload cycle; a fresher change just waits.
func (o *Orchestrator) tick(ctx context.Context) {
	if !o.source.HasChange() {
		return
	}
	if o.source.SinceLastChange() < o.cfg.Debounce {
		o.setState(StateDebounceWait)
		return
	}

	dirty := o.source.Drain()
	o.logger.Info("stable change detected, reloading")
	o.setState(StateReloading)
	o.cycle(ctx, dirty)
}

// cycle evicts the modules the dirty files invalidate, then reloads and
// re-executes the entry module. Both halves survive failure.
func (o *Orchestrator) cycle(ctx context.Context, dirty []string) {
	if len(dirty) > 0 {
		if _, err := o.invalidator.Invalidate(ctx, dirty); err != nil {
			return
		}
	}
	if o.load(ctx) {
		o.execute(ctx)
	}
}

// load brings the entry module into the cache, reusing an existing cache
// entry through ReloadExisting when one is present. It reports whether there
// is something to execute.
func (o *Orchestrator) load(ctx context.Context) bool {
	o.setState(StateLoading)

	var (
		h   ports.ModuleHandle
		err error
	)
	if existing, ok := o.cache.Get(o.entryID); ok {
		h, err = o.cache.ReloadExisting(ctx, existing)
	} else {
		h, err = o.cache.LoadFresh(ctx, o.entryID)
	}

	switch {
	case err == nil:
		o.setHandle(h)
		o.logger.Success(o.entryID.String() + " reconstructed")
		return true
	case errors.Is(err, domain.ErrNoEntryBehavior):
		// The module imports cleanly; there is just nothing to call.
		o.setHandle(nil)
		o.logger.Warn("no entry function found in " + o.entryID.String())
		o.setState(StateWatching)
		return false
	case ctx.Err() != nil:
		return false
	default:
		o.fail(StateFailedLoad, err)
		return false
	}
}

// execute invokes the entry behavior of the loaded module.
func (o *Orchestrator) execute(ctx context.Context) {
	h := o.currentHandle()
	if h == nil {
		return
	}

	o.setState(StateRunning)
	o.logger.Info("executing " + o.entryID.String())

	err := h.Invoke(ctx)
	switch {
	case err == nil:
		o.setState(StateWatching)
	case errors.Is(err, domain.ErrNoEntryBehavior):
		o.logger.Warn("no entry function found in " + o.entryID.String())
		o.setState(StateWatching)
	case ctx.Err() != nil:
	default:
		o.fail(StateFailedRun, err)
	}
}

// fail records a load or execution failure: diagnostic to the logger, trace
// to the crash log, handle cleared so the next cycle starts fresh. Crash log
// write failures are themselves only diagnostics.
func (o *Orchestrator) fail(state State, err error) {
	o.logger.Error(err)

	var failure *domain.Failure
	if errors.As(err, &failure) && failure.Trace != "" {
		if persistErr := o.crashLog.Persist(failure.Trace); persistErr != nil {
			o.logger.Error(persistErr)
		} else {
			o.logger.Warn("traceback saved to " + o.crashLog.Path())
		}
	}

	if state == StateFailedLoad {
		o.setHandle(nil)
	}
	o.setState(state)
}

func (o *Orchestrator) setHandle(h ports.ModuleHandle) {
	o.mu.Lock()
	o.handle = h
	o.mu.Unlock()
}

func (o *Orchestrator) currentHandle() ports.ModuleHandle {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.handle
}
