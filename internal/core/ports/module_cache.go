package ports

import (
	"context"

	"go.kern.sh/kern/internal/core/domain"
)

// ModuleHandle is an opaque, previously loaded representation of a logical
// module identity.
type ModuleHandle interface {
	// ID returns the logical identity the handle was loaded under.
	ID() domain.ModuleID

	// Invoke calls the module's zero-argument entry behavior. It returns
	// domain.ErrNoEntryBehavior when the module exposes none, and a
	// *domain.Failure for failures raised by the behavior itself.
	Invoke(ctx context.Context) error
}

// ModuleCache is the process-wide store mapping logical module identities to
// loaded representations. The core never assumes atomicity across calls
// beyond single-thread sequencing from the foreground loop.
type ModuleCache interface {
	// Has reports whether the identity is currently cached.
	Has(id domain.ModuleID) bool

	// Get returns the cached handle for the identity, if present.
	Get(id domain.ModuleID) (ModuleHandle, bool)

	// LoadFresh loads the identity from disk. A parse failure or a failure
	// during the module's top-level execution is returned as a
	// *domain.Failure carrying the traceback.
	LoadFresh(ctx context.Context, id domain.ModuleID) (ModuleHandle, error)

	// ReloadExisting discards the given handle's state and loads the same
	// identity again. Failure semantics match LoadFresh.
	ReloadExisting(ctx context.Context, h ModuleHandle) (ModuleHandle, error)

	// Evict removes the identity from the cache. Evicting an absent
	// identity is a no-op.
	Evict(id domain.ModuleID)
}
