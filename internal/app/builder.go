package app

import (
	"context"

	"go.trai.ch/mindmap/internal/core/ports"
)

// Components contains all the initialized application components.
// This struct provides controlled access to components needed by the CLI layer.
type Components struct {
	App    *App
	Logger ports.Logger
	// Shutdown flushes the span pipeline. It is never nil.
	Shutdown func(context.Context) error
}

// NewComponents creates a new Components struct from dependencies.
func NewComponents(app *App, logger ports.Logger, shutdown func(context.Context) error) *Components {
	if shutdown == nil {
		shutdown = func(context.Context) error { return nil }
	}
	return &Components{
		App:      app,
		Logger:   logger,
		Shutdown: shutdown,
	}
}
