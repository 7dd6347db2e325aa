package domain

// FailureStage tags where in a reload cycle a failure happened.
type FailureStage uint8

const (
	// StageLoad covers parse and top-level execution failures during a
	// fresh load or reload of the entry module.
	StageLoad FailureStage = iota
	// StageExec covers failures raised while invoking the entry behavior.
	StageExec
)

// String returns a human-readable stage name.
func (s FailureStage) String() string {
	switch s {
	case StageLoad:
		return "load"
	case StageExec:
		return "execute"
	default:
		return "unknown"
	}
}

// Failure is the value a failed load or execution travels as. The control
// loop transitions on it; it never propagates as a panic.
type Failure struct {
	// Stage identifies the failed step.
	Stage FailureStage
	// Trace is the full diagnostic detail (the user code's traceback when
	// available), persisted to the crash log.
	Trace string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (f *Failure) Error() string {
	if f.Err != nil {
		return f.Stage.String() + " failed: " + f.Err.Error()
	}
	return f.Stage.String() + " failed"
}

// Unwrap exposes the underlying error for errors.Is/As.
func (f *Failure) Unwrap() error { return f.Err }
