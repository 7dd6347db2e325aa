package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.kern.sh/kern/internal/adapters/config"
	"go.kern.sh/kern/internal/adapters/crashlog"
	"go.kern.sh/kern/internal/adapters/logger"
	"go.kern.sh/kern/internal/core/ports"
)

// NodeID is the unique identifier for the application components node.
const NodeID graft.ID = "app.components"

// Components bundles the constructed application with the adapters the
// command layer needs direct access to.
type Components struct {
	App    *App
	Logger ports.Logger
}

func init() {
	graft.Register(graft.Node[*Components]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.NodeID, logger.NodeID, crashlog.NodeID},
		Run: func(ctx context.Context) (*Components, error) {
			loader, err := graft.Dep[ports.ConfigLoader](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			crashLog, err := graft.Dep[ports.CrashLog](ctx)
			if err != nil {
				return nil, err
			}
			return &Components{
				App:    New(loader, log, crashLog),
				Logger: log,
			}, nil
		},
	})
}
