package export

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/mindmap/internal/core/ports"
)

// NodeID is the unique identifier for the exporters Graft node.
const NodeID graft.ID = "adapter.exporters"

// Exporters indexes the available exporters by format.
type Exporters map[string]ports.Exporter

// New returns the SVG and PNG exporters.
func New() (Exporters, error) {
	png, err := NewPNG()
	if err != nil {
		return nil, err
	}
	svg := NewSVG()
	return Exporters{svg.Format(): svg, png.Format(): png}, nil
}

func init() {
	graft.Register(graft.Node[Exporters]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (Exporters, error) {
			return New()
		},
	})
}
