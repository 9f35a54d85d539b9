package textmetrics

import (
	"context"

	"github.com/grindlemire/graft"
)

// NodeID is the unique identifier for the font Graft node.
const NodeID graft.ID = "adapter.textmetrics"

func init() {
	graft.Register(graft.Node[*Fonts]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Fonts, error) {
			return NewFonts()
		},
	})
}
