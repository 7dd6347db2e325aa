package ports

import "go.kern.sh/kern/internal/core/domain"

// ConfigLoader loads the project configuration.
type ConfigLoader interface {
	// Load walks up from the given directory looking for kern.yaml and
	// returns the resolved settings. A missing file yields the defaults;
	// an unreadable or malformed file is an error.
	Load(dir string) (domain.Settings, error)
}
