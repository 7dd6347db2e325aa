// Package interp implements the module cache against a real interpreter.
// Loading and invoking a module happen in short-lived interpreter
// subprocesses; the cache itself only tracks which identities are live.
package interp

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"
	"sync"

	"go.kern.sh/kern/internal/core/domain"
	"go.kern.sh/kern/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ModuleCache = (*Cache)(nil)

// loadScript imports a module by its dotted identity and reports through the
// exit code: 0 loaded with an entry function present, 3 loaded without one,
// 1 failed (traceback on stderr). argv: root, identity, entry function.
const loadScript = `
import importlib, sys, traceback
sys.path.insert(0, sys.argv[1])
try:
    m = importlib.import_module(sys.argv[2])
except BaseException:
    traceback.print_exc()
    sys.exit(1)
if not callable(getattr(m, sys.argv[3], None)):
    sys.exit(3)
`

// invokeScript imports a module and calls its zero-argument entry function.
// argv: root, identity, entry function.
const invokeScript = `
import importlib, sys, traceback
sys.path.insert(0, sys.argv[1])
try:
    m = importlib.import_module(sys.argv[2])
    getattr(m, sys.argv[3])()
except BaseException:
    traceback.print_exc()
    sys.exit(1)
`

const exitNoEntryBehavior = 3

// Cache implements ports.ModuleCache by delegating to an interpreter binary.
type Cache struct {
	interpreter   string
	root          string
	entryFunction string

	stdout io.Writer
	stderr io.Writer

	mu      sync.Mutex
	handles map[domain.ModuleID]*Handle
}

// New creates a Cache rooted at the project directory. stdout and stderr
// receive the user program's output.
func New(interpreter, root, entryFunction string, stdout, stderr io.Writer) *Cache {
	return &Cache{
		interpreter:   interpreter,
		root:          root,
		entryFunction: entryFunction,
		stdout:        stdout,
		stderr:        stderr,
		handles:       make(map[domain.ModuleID]*Handle),
	}
}

// Has reports whether the identity is currently cached.
func (c *Cache) Has(id domain.ModuleID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.handles[id]
	return ok
}

// Get returns the cached handle for the identity, if present.
func (c *Cache) Get(id domain.ModuleID) (ports.ModuleHandle, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	h, ok := c.handles[id]
	return h, ok
}

// LoadFresh imports the identity in a fresh interpreter to verify it loads
// and carries the entry function. A load failure is returned as a
// *domain.Failure with the interpreter's traceback.
func (c *Cache) LoadFresh(ctx context.Context, id domain.ModuleID) (ports.ModuleHandle, error) {
	if err := c.run(ctx, loadScript, id, domain.StageLoad); err != nil {
		return nil, err
	}

	h := &Handle{id: id, cache: c}
	c.mu.Lock()
	c.handles[id] = h
	c.mu.Unlock()
	return h, nil
}

// ReloadExisting discards the handle's identity and loads it again. The
// handle must still be cached.
func (c *Cache) ReloadExisting(ctx context.Context, h ports.ModuleHandle) (ports.ModuleHandle, error) {
	if !c.Has(h.ID()) {
		return nil, zerr.With(domain.ErrModuleNotCached, "module", h.ID().String())
	}
	c.Evict(h.ID())
	return c.LoadFresh(ctx, h.ID())
}

// Evict removes the identity from the cache. Absent identities are a no-op.
func (c *Cache) Evict(id domain.ModuleID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.handles, id)
}

// run executes one of the scripts against the identity. The interpreter's
// stderr is both streamed and captured, so a failure carries the full
// traceback.
func (c *Cache) run(ctx context.Context, script string, id domain.ModuleID, stage domain.FailureStage) error {
	cmd := exec.CommandContext(ctx, c.interpreter, "-c", script, c.root, id.String(), c.entryFunction) //nolint:gosec // configured interpreter
	cmd.Dir = c.root

	var trace bytes.Buffer
	cmd.Stdout = c.stdout
	cmd.Stderr = io.MultiWriter(c.stderr, &trace)

	err := cmd.Run()
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return zerr.With(errors.Join(domain.ErrInterpreterStartFailed, err), "interpreter", c.interpreter)
	}

	if exitErr.ExitCode() == exitNoEntryBehavior {
		return zerr.With(domain.ErrNoEntryBehavior, "module", id.String())
	}

	failed := domain.ErrLoadFailed
	if stage == domain.StageExec {
		failed = domain.ErrExecFailed
	}
	return &domain.Failure{
		Stage: stage,
		Trace: trace.String(),
		Err:   zerr.With(errors.Join(failed, err), "module", id.String()),
	}
}

// Handle is a loaded module identity. Invoking it runs the module's entry
// function in a fresh interpreter.
type Handle struct {
	id    domain.ModuleID
	cache *Cache
}

// ID returns the identity the handle was loaded under.
func (h *Handle) ID() domain.ModuleID { return h.id }

// Invoke calls the module's entry function. Failures raised by the user code
// come back as a *domain.Failure carrying the traceback.
func (h *Handle) Invoke(ctx context.Context) error {
	return h.cache.run(ctx, invokeScript, h.id, domain.StageExec)
}
