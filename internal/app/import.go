package app

import (
	"context"
	"fmt"
	"os"

	"go.trai.ch/mindmap/internal/adapters/importer" //nolint:depguard // Wired in app layer
	"go.trai.ch/mindmap/internal/core/domain"
	"go.trai.ch/mindmap/internal/core/ports"
	"go.trai.ch/zerr"
)

// ImportOptions configures the import command.
type ImportOptions struct {
	// Kind is "outline" or "analysis".
	Kind string
	// Input is the document produced by the analysis backend.
	Input string
	// Output is the feed file to write. Empty means the configured graph.
	Output string
	// Document names the source document of an outline. Empty derives it from Input.
	Document string
}

// Import converts an outline or analysis document into a graph feed file.
func (a *App) Import(ctx context.Context, opts ImportOptions) (err error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}

	document := opts.Document
	if document == "" {
		document = opts.Input
	}
	imp, err := importer.For(opts.Kind, document)
	if err != nil {
		return err
	}

	output := opts.Output
	if output == "" {
		output = cfg.GraphPath
	}
	if output == "" {
		return domain.ErrGraphNotConfigured
	}

	_, span := a.span(ctx, "import",
		ports.WithAttribute("kind", imp.Kind()),
		ports.WithAttribute("input", opts.Input),
	)
	defer func() {
		span.RecordError(err)
		span.End()
	}()

	// #nosec G304 -- path is given on the command line
	f, err := os.Open(opts.Input)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrImportFailed.Error()), "path", opts.Input)
	}
	defer func() {
		_ = f.Close()
	}()

	g, err := imp.Import(f)
	if err != nil {
		return zerr.With(err, "path", opts.Input)
	}
	if err := a.graphs.Save(output, g); err != nil {
		return err
	}

	a.logger.Info(fmt.Sprintf("imported %d nodes from %s into %s", g.Len(), opts.Input, output))
	return nil
}
