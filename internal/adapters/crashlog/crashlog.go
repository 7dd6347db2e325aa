// Package crashlog persists the most recent failure trace to a single
// well-known artifact.
package crashlog

import (
	"errors"
	"os"

	"go.kern.sh/kern/internal/core/domain"
	"go.kern.sh/kern/internal/core/ports"
)

var _ ports.CrashLog = (*FileLog)(nil)

// FileLog implements ports.CrashLog by overwriting a file on every persist.
// Only the latest failure is kept.
type FileLog struct {
	path string
}

// New creates a FileLog writing to the given path. An empty path falls back
// to the default artifact name in the working directory.
func New(path string) *FileLog {
	if path == "" {
		path = domain.CrashLogFileName
	}
	return &FileLog{path: path}
}

// Persist overwrites the artifact with the given trace.
func (f *FileLog) Persist(trace string) error {
	if err := os.WriteFile(f.path, []byte(trace), domain.FilePerm); err != nil {
		return errors.Join(domain.ErrCrashLogWriteFailed, err)
	}
	return nil
}

// Path returns the artifact's location.
func (f *FileLog) Path() string { return f.path }
