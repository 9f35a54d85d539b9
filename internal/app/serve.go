package app

import (
	"context"
	"fmt"

	"go.trai.ch/mindmap/internal/adapters/server" //nolint:depguard // Wired in app layer
	"go.trai.ch/mindmap/internal/core/domain"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// ServeOptions configures the serve command.
type ServeOptions struct {
	// Addr overrides the configured listen address.
	Addr string
}

// Serve hosts the websocket sessions and the HTTP API until ctx is canceled.
// Sessions start from the latest stored revision, or from the feed file when the
// store is empty, and follow every later change of the feed file.
func (a *App) Serve(ctx context.Context, opts ServeOptions) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}
	if opts.Addr != "" {
		cfg.Server.Addr = opts.Addr
	}

	srv, err := a.newServer(cfg)
	if err != nil {
		return err
	}
	a.restore(cfg, srv)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.ListenAndServe(ctx)
	})
	g.Go(func() error {
		return a.follow(ctx, cfg.GraphPath, srv.Publish)
	})
	return g.Wait()
}

func (a *App) newServer(cfg *domain.Config) (*server.Server, error) {
	m, err := a.measurer(cfg)
	if err != nil {
		return nil, err
	}
	opts := []server.Option{server.WithStore(a.store)}
	if m != nil {
		opts = append(opts, server.WithMeasurer(m))
	}
	return server.New(*cfg, a.logger, a.tracer, a.exporters, opts...), nil
}

// restore publishes the graph a restarted host continues from.
func (a *App) restore(cfg *domain.Config, srv *server.Server) {
	head, digest, err := a.store.Head(cfg.StorePath)
	if err != nil {
		a.logger.Error(err)
	}
	if head != nil {
		a.logger.Info(fmt.Sprintf("restored revision %s (%d nodes)", digest, head.Len()))
		srv.Publish(head)
		return
	}

	g, path, err := a.loadGraph(cfg, "")
	if err != nil {
		a.logger.Warn("starting without a graph: " + err.Error())
		return
	}
	a.logger.Info(fmt.Sprintf("loaded %s (%d nodes)", path, g.Len()))
	srv.Publish(g)
}
