package app

import (
	"context"
	"fmt"

	"go.trai.ch/mindmap/internal/adapters/detector" //nolint:depguard // Wired in app layer
	"go.trai.ch/mindmap/internal/adapters/linear"   //nolint:depguard // Wired in app layer
	"go.trai.ch/mindmap/internal/adapters/tui"      //nolint:depguard // Wired in app layer
	"go.trai.ch/mindmap/internal/core/domain"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// ViewOptions configures the view command.
type ViewOptions struct {
	// Input is the feed file. Empty means the configured graph.
	Input string
	// Output is "auto", "tui" or "linear".
	Output string
}

// View shows a feed file in the terminal. Interactive terminals get the tree
// viewer, which follows changes of the file and writes renames and deletions
// back to it. Other outputs get a single outline.
func (a *App) View(ctx context.Context, opts ViewOptions) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}
	g, path, err := a.loadGraph(cfg, opts.Input)
	if err != nil {
		return err
	}
	sess, err := a.newSession(cfg, g)
	if err != nil {
		return err
	}

	mode := detector.ResolveMode(detector.DetectEnvironment(), opts.Output)
	if mode != detector.ModeTUI {
		return linear.NewRenderer(a.stdout).Render(sess.Tree())
	}

	model := tui.NewModel(sess)
	if cfg.Server.FrameInterval > 0 {
		model.FrameInterval = cfg.Server.FrameInterval
	}
	model.OnNavigate = func(ev domain.NavigateEvent) {
		a.logger.Debug(fmt.Sprintf("navigate %s page %d", ev.FileName, ev.Page))
	}
	model.OnEdit = func(edited *domain.Graph) {
		if err := a.graphs.Save(path, edited); err != nil {
			a.logger.Error(err)
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	viewer := tui.NewViewer(ctx, model, a.teaOptions...)

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		defer cancel()
		return viewer.Run()
	})
	eg.Go(func() error {
		return a.follow(ctx, path, viewer.SetGraph)
	})
	return eg.Wait()
}
