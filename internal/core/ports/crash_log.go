package ports

// CrashLog is the failure persistence collaborator. Each Persist overwrites
// the single well-known artifact with the latest failure detail; the most
// recent trace is always recoverable from it.
type CrashLog interface {
	// Persist overwrites the artifact with the given trace. Calls are
	// fire-and-forget from the core's perspective: a returned error is at
	// most logged, never escalated.
	Persist(trace string) error

	// Path returns the artifact's location for user-facing diagnostics.
	Path() string
}
