// Package app implements the application layer for mindmap.
package app

import (
	"context"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.trai.ch/mindmap/internal/core/domain"
	"go.trai.ch/mindmap/internal/core/ports"
	"go.trai.ch/mindmap/internal/engine/session"
	"go.trai.ch/zerr"
)

// MeasurerFactory selects the text measurer for a sizing configuration.
// A nil measurer means the glyph estimate.
type MeasurerFactory interface {
	Measurer(cfg domain.SizingConfig) (ports.TextMeasurer, error)
}

// GlobalOptions holds the flags shared by every command.
type GlobalOptions struct {
	// ConfigPath is an explicit mindmap.yaml. Empty means discovery from the working directory.
	ConfigPath string
	JSONLogs   bool
	Verbose    bool
}

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	graphs       ports.GraphSource
	store        ports.RevisionStore
	logger       ports.Logger
	tracer       ports.Tracer
	exporters    map[string]ports.Exporter
	fonts        MeasurerFactory
	watcher      ports.Watcher

	configPath string
	stdout     io.Writer
	teaOptions []tea.ProgramOption
}

// New creates a new App instance. fonts and watcher may be nil.
func New(
	loader ports.ConfigLoader,
	graphs ports.GraphSource,
	store ports.RevisionStore,
	logger ports.Logger,
	tracer ports.Tracer,
	exporters map[string]ports.Exporter,
	fonts MeasurerFactory,
	watcher ports.Watcher,
) *App {
	return &App{
		configLoader: loader,
		graphs:       graphs,
		store:        store,
		logger:       logger,
		tracer:       tracer,
		exporters:    exporters,
		fonts:        fonts,
		watcher:      watcher,
		stdout:       os.Stdout,
	}
}

// WithTeaOptions sets the options for the interactive viewer.
func (a *App) WithTeaOptions(opts ...tea.ProgramOption) *App {
	a.teaOptions = append(a.teaOptions, opts...)
	return a
}

// WithOutput sets the writer used for command output. A nil writer means stdout.
func (a *App) WithOutput(w io.Writer) *App {
	if w == nil {
		w = os.Stdout
	}
	a.stdout = w
	return a
}

// Configure applies the global flags.
func (a *App) Configure(opts GlobalOptions) {
	a.configPath = opts.ConfigPath
	if l, ok := a.logger.(interface{ SetJSON(bool) }); ok {
		l.SetJSON(opts.JSONLogs)
	}
	if l, ok := a.logger.(interface{ SetDebug(bool) }); ok {
		l.SetDebug(opts.Verbose)
	}
}

// loadConfig resolves the configuration from the explicit path or by discovery.
func (a *App) loadConfig() (*domain.Config, error) {
	if a.configPath != "" {
		return a.configLoader.LoadFile(a.configPath)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
	}
	return a.configLoader.Load(cwd)
}

// loadGraph reads the graph feed file at path, falling back to the configured one.
func (a *App) loadGraph(cfg *domain.Config, path string) (*domain.Graph, string, error) {
	if path == "" {
		path = cfg.GraphPath
	}
	if path == "" {
		return nil, "", domain.ErrGraphNotConfigured
	}
	g, err := a.graphs.Load(path)
	if err != nil {
		return nil, path, err
	}
	return g, path, nil
}

// measurer returns the configured text measurer, or nil for the glyph estimate.
func (a *App) measurer(cfg *domain.Config) (ports.TextMeasurer, error) {
	if a.fonts == nil {
		return nil, nil
	}
	return a.fonts.Measurer(cfg.Sizing)
}

// newSession creates a session and loads g into it.
func (a *App) newSession(cfg *domain.Config, g *domain.Graph) (*session.Session, error) {
	m, err := a.measurer(cfg)
	if err != nil {
		return nil, err
	}
	var opts []session.Option
	if m != nil {
		opts = append(opts, session.WithMeasurer(m))
	}
	sess := session.New(*cfg, opts...)
	sess.SetGraph(g)
	return sess, nil
}

func (a *App) span(ctx context.Context, name string, opts ...ports.SpanOption) (context.Context, ports.Span) {
	return a.tracer.Start(ctx, name, opts...)
}
