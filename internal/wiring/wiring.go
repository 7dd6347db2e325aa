// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.kern.sh/kern/internal/adapters/config"
	_ "go.kern.sh/kern/internal/adapters/crashlog"
	_ "go.kern.sh/kern/internal/adapters/logger"
	// Register app nodes.
	_ "go.kern.sh/kern/internal/app"
)
