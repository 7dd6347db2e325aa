// Package ports defines the core interfaces for the application.
package ports

import "io"

// Logger is the diagnostic emission collaborator. A failure of the
// implementation (e.g. a non-terminal output) must never affect control flow.
type Logger interface {
	// Info logs an informational message.
	Info(msg string)

	// Success logs a message marking a completed operation.
	Success(msg string)

	// Warn logs a warning message.
	Warn(msg string)

	// Error logs an error, unwrapping cause chains when available.
	Error(err error)

	// SetOutput redirects the logger's output. Used for testing.
	SetOutput(w io.Writer)

	// SetJSON switches between JSON and pretty output.
	SetJSON(enable bool)
}
