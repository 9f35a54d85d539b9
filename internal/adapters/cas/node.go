package cas

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/mindmap/internal/core/ports"
)

// NodeID is the unique identifier for the revision store Graft node.
const NodeID graft.ID = "adapter.revision_store"

func init() {
	graft.Register(graft.Node[ports.RevisionStore]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.RevisionStore, error) {
			return NewStore(), nil
		},
	})
}
