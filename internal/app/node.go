package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/mindmap/internal/adapters/cas"         //nolint:depguard // Wired in app layer
	"go.trai.ch/mindmap/internal/adapters/config"      //nolint:depguard // Wired in app layer
	"go.trai.ch/mindmap/internal/adapters/export"      //nolint:depguard // Wired in app layer
	"go.trai.ch/mindmap/internal/adapters/logger"      //nolint:depguard // Wired in app layer
	"go.trai.ch/mindmap/internal/adapters/telemetry"   //nolint:depguard // Wired in app layer
	"go.trai.ch/mindmap/internal/adapters/textmetrics" //nolint:depguard // Wired in app layer
	"go.trai.ch/mindmap/internal/adapters/watcher"     //nolint:depguard // Wired in app layer
	"go.trai.ch/mindmap/internal/core/ports"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	// App Node
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			config.GraphSourceNodeID,
			cas.NodeID,
			logger.NodeID,
			telemetry.TracerNodeID,
			export.NodeID,
			textmetrics.NodeID,
			watcher.NodeID,
		},
		Run: runAppNode,
	})

	// Components Node
	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
			telemetry.BridgeNodeID,
		},
		Run: runComponentsNode,
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	graphs, err := graft.Dep[ports.GraphSource](ctx)
	if err != nil {
		return nil, err
	}

	store, err := graft.Dep[ports.RevisionStore](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	tracer, err := graft.Dep[ports.Tracer](ctx)
	if err != nil {
		return nil, err
	}

	exporters, err := graft.Dep[export.Exporters](ctx)
	if err != nil {
		return nil, err
	}

	fonts, err := graft.Dep[*textmetrics.Fonts](ctx)
	if err != nil {
		return nil, err
	}

	w, err := graft.Dep[ports.Watcher](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, graphs, store, log, tracer, exporters, fonts, w), nil
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	app, err := graft.Dep[*App](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	bridge, err := graft.Dep[*telemetry.Bridge](ctx)
	if err != nil {
		return nil, err
	}

	return NewComponents(app, log, telemetry.Setup(bridge)), nil
}
