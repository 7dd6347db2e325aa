package crashlog

import (
	"context"

	"github.com/grindlemire/graft"
	"go.kern.sh/kern/internal/core/ports"
)

// NodeID is the unique identifier for the crash log Graft node.
const NodeID graft.ID = "adapter.crashlog"

func init() {
	graft.Register(graft.Node[ports.CrashLog]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.CrashLog, error) {
			return New(""), nil
		},
	})
}
