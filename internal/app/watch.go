package app

import (
	"context"
	"fmt"

	"go.trai.ch/mindmap/internal/adapters/watcher" //nolint:depguard // Wired in app layer
	"go.trai.ch/mindmap/internal/core/domain"
	"go.trai.ch/mindmap/internal/core/ports"
)

// follow reloads the feed file at path after each burst of changes and hands
// the new graph to apply. A feed that fails to load keeps the previous graph.
// It returns when ctx is done.
func (a *App) follow(ctx context.Context, path string, apply func(*domain.Graph)) error {
	if a.watcher == nil || path == "" {
		return nil
	}
	if err := a.watcher.Start(ctx, path); err != nil {
		return err
	}
	defer func() {
		_ = a.watcher.Stop()
	}()

	debouncer := watcher.NewDebouncer(watcher.DefaultDebounceWindow, func(_ []string) {
		g, err := a.graphs.Load(path)
		if err != nil {
			a.logger.Error(err)
			return
		}
		a.logger.Info(fmt.Sprintf("reloaded %s (%d nodes)", path, g.Len()))
		apply(g)
	})

	for ev := range a.watcher.Events() {
		if ev.Operation == ports.OpRemove {
			a.logger.Warn("graph file removed: " + path)
			continue
		}
		debouncer.Add(ev.Path)
	}
	return nil
}
