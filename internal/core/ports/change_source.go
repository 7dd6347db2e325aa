package ports

import (
	"context"
	"time"
)

// ChangeSource turns filesystem mutations into an accumulated dirty set with
// a last-change timestamp. Implementations run in the background after Start
// and never terminate on their own; Stop (or context cancellation) releases
// them.
//
// The contract is single-producer/single-consumer: the source accumulates,
// the control loop drains. Drain is all-or-nothing: a reader never observes
// a partially cleared set.
type ChangeSource interface {
	// Start begins change detection. It returns an error if detection
	// cannot be initialized; it does not block.
	Start(ctx context.Context) error

	// Stop ends change detection and releases all resources.
	Stop() error

	// HasChange reports whether any change has been observed since the
	// last Drain.
	HasChange() bool

	// SinceLastChange returns the time elapsed since the most recent
	// observed change.
	SinceLastChange() time.Duration

	// Drain atomically returns and clears the accumulated dirty set,
	// also clearing the change flag. Order of the returned paths carries
	// no meaning.
	Drain() []string
}
