package config

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/mindmap/internal/adapters/logger"
	"go.trai.ch/mindmap/internal/core/ports"
)

const (
	// NodeID is the unique identifier for the config loader Graft node.
	NodeID graft.ID = "adapter.config_loader"
	// GraphSourceNodeID is the unique identifier for the graph file Graft node.
	GraphSourceNodeID graft.ID = "adapter.graph_source"
)

func init() {
	graft.Register(graft.Node[ports.ConfigLoader]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.ConfigLoader, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewLoader(log), nil
		},
	})

	graft.Register(graft.Node[ports.GraphSource]{
		ID:        GraphSourceNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.GraphSource, error) {
			return NewGraphFile(), nil
		},
	})
}
