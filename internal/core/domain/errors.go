package domain

import "go.trai.ch/zerr"

var (
	// ErrEntryNotFound is returned when the entry file does not exist.
	ErrEntryNotFound = zerr.New("entry file not found")

	// ErrModuleNotCached is returned when a reload is requested for an
	// identity the cache does not hold.
	ErrModuleNotCached = zerr.New("module not present in cache")

	// ErrNoEntryBehavior is returned when a loaded module does not expose
	// the designated entry function. Callers treat this as a warning, not
	// a failure.
	ErrNoEntryBehavior = zerr.New("module exposes no entry function")

	// ErrLoadFailed is returned when the entry module fails to parse or
	// raises during its top-level execution.
	ErrLoadFailed = zerr.New("module load failed")

	// ErrExecFailed is returned when the entry behavior raises during
	// invocation.
	ErrExecFailed = zerr.New("entry behavior failed")

	// ErrInterpreterStartFailed is returned when the interpreter process
	// cannot be started at all.
	ErrInterpreterStartFailed = zerr.New("failed to start interpreter")

	// ErrWatcherAlreadyRunning is returned when Start is called on a
	// running change source.
	ErrWatcherAlreadyRunning = zerr.New("watcher already running")

	// ErrWatcherStartFailed is returned when the change source fails to
	// initialize.
	ErrWatcherStartFailed = zerr.New("failed to start watcher")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrInvalidStrategy is returned when the configured watch strategy is
	// neither "poll" nor "notify".
	ErrInvalidStrategy = zerr.New("invalid watch strategy, expected 'poll' or 'notify'")

	// ErrCrashLogWriteFailed is returned when the failure artifact cannot
	// be written.
	ErrCrashLogWriteFailed = zerr.New("failed to write crash log")

	// ErrRunAborted is returned when the control loop exits for any reason
	// other than an interrupt.
	ErrRunAborted = zerr.New("hot-reload loop aborted")
)
