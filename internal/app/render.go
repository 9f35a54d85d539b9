package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/mindmap/internal/adapters/linear" //nolint:depguard // Wired in app layer
	"go.trai.ch/mindmap/internal/core/domain"
	"go.trai.ch/mindmap/internal/core/ports"
	"go.trai.ch/zerr"
)

// FormatOutline renders the visible tree as an indented text outline.
const FormatOutline = "outline"

// RenderOptions configures the render command.
type RenderOptions struct {
	// Format is "svg", "png" or "outline". Empty means the output extension, or svg.
	Format string
	// Input is the feed file. Empty means the configured graph.
	Input string
	// Output is the destination file. Empty or "-" means stdout.
	Output string
	// Width and Height override the configured viewport when positive.
	Width  float64
	Height float64
	// NoMinimap leaves the overview inset out of the image.
	NoMinimap bool
}

// Render lays out a feed file once and writes the settled scene.
func (a *App) Render(ctx context.Context, opts RenderOptions) (err error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}
	if opts.Width > 0 {
		cfg.Viewport.Width = opts.Width
	}
	if opts.Height > 0 {
		cfg.Viewport.Height = opts.Height
	}
	if opts.NoMinimap {
		cfg.Minimap.Enabled = false
	}

	format := renderFormat(opts)
	var exporter ports.Exporter
	if format != FormatOutline {
		var ok bool
		if exporter, ok = a.exporters[format]; !ok {
			return zerr.With(domain.ErrUnsupportedFormat, "format", format)
		}
	}

	g, path, err := a.loadGraph(cfg, opts.Input)
	if err != nil {
		return err
	}
	sess, err := a.newSession(cfg, g)
	if err != nil {
		return err
	}

	_, span := a.span(ctx, "render",
		ports.WithAttribute("format", format),
		ports.WithAttribute("input", path),
		ports.WithAttribute("nodes", g.Len()),
	)
	defer func() {
		span.RecordError(err)
		span.End()
	}()

	w, closeOutput, err := a.openOutput(opts.Output)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeOutput(); cerr != nil && err == nil {
			err = zerr.With(zerr.Wrap(cerr, domain.ErrExportFailed.Error()), "path", opts.Output)
		}
	}()

	if exporter == nil {
		return linear.NewRenderer(w).Render(sess.Tree())
	}
	if err := exporter.Export(w, sess.Snapshot()); err != nil {
		return err
	}
	if opts.Output != "" && opts.Output != "-" {
		a.logger.Info(fmt.Sprintf("wrote %s (%d nodes)", opts.Output, g.Len()))
	}
	return nil
}

func renderFormat(opts RenderOptions) string {
	if opts.Format != "" {
		return strings.ToLower(opts.Format)
	}
	if ext := strings.TrimPrefix(filepath.Ext(opts.Output), "."); ext != "" {
		return strings.ToLower(ext)
	}
	return "svg"
}

// openOutput returns the writer for path and a function that closes it.
func (a *App) openOutput(path string) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return a.stdout, func() error { return nil }, nil
	}
	// #nosec G304 -- path is given on the command line
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, domain.FilePerm)
	if err != nil {
		return nil, nil, zerr.With(zerr.Wrap(err, domain.ErrExportFailed.Error()), "path", path)
	}
	return f, f.Close, nil
}
