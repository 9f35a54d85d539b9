// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/mindmap/internal/adapters/cas"
	_ "go.trai.ch/mindmap/internal/adapters/config"
	_ "go.trai.ch/mindmap/internal/adapters/export"
	_ "go.trai.ch/mindmap/internal/adapters/logger"
	_ "go.trai.ch/mindmap/internal/adapters/telemetry"
	_ "go.trai.ch/mindmap/internal/adapters/textmetrics"
	_ "go.trai.ch/mindmap/internal/adapters/watcher"
	// Register app nodes.
	_ "go.trai.ch/mindmap/internal/app"
)
