package app_test

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/mindmap/internal/adapters/telemetry"
	"go.trai.ch/mindmap/internal/app"
	"go.trai.ch/mindmap/internal/core/domain"
	"go.trai.ch/mindmap/internal/core/ports"
	"go.trai.ch/mindmap/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	loader   *mocks.MockConfigLoader
	graphs   *mocks.MockGraphSource
	store    *mocks.MockRevisionStore
	logger   *mocks.MockLogger
	exporter *mocks.MockExporter
	watcher  *mocks.MockWatcher
	out      *bytes.Buffer
	app      *app.App
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := &fixture{
		loader:   mocks.NewMockConfigLoader(ctrl),
		graphs:   mocks.NewMockGraphSource(ctrl),
		store:    mocks.NewMockRevisionStore(ctrl),
		logger:   mocks.NewMockLogger(ctrl),
		exporter: mocks.NewMockExporter(ctrl),
		watcher:  mocks.NewMockWatcher(ctrl),
		out:      &bytes.Buffer{},
	}
	f.logger.EXPECT().Debug(gomock.Any()).AnyTimes()
	f.logger.EXPECT().Info(gomock.Any()).AnyTimes()
	f.logger.EXPECT().Warn(gomock.Any()).AnyTimes()

	f.app = app.New(
		f.loader, f.graphs, f.store, f.logger, telemetry.NewNoOpTracer(),
		map[string]ports.Exporter{"svg": f.exporter}, nil, f.watcher,
	).WithOutput(f.out)
	return f
}

func (f *fixture) withConfig(graphPath string) *domain.Config {
	cfg := domain.DefaultConfig()
	cfg.GraphPath = graphPath
	f.loader.EXPECT().Load(gomock.Any()).Return(&cfg, nil)
	return &cfg
}

func sample() *domain.Graph {
	return domain.NewGraphFrom([]domain.Node{
		{ID: "1", Label: "Root", Kind: domain.KindRoot},
		{ID: "2", Label: "Child"},
	}, []domain.Link{{Source: "1", Target: "2"}})
}

func TestApp_RenderSVG(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.withConfig("graph.yaml")
	f.graphs.EXPECT().Load("graph.yaml").Return(sample(), nil)
	f.exporter.EXPECT().Export(gomock.Any(), gomock.Any()).
		DoAndReturn(func(w io.Writer, snap *domain.Snapshot) error {
			assert.Len(t, snap.Scene.Nodes, 2)
			assert.InDelta(t, 320.0, snap.Viewport.Width, 0.001)
			assert.False(t, snap.Minimap.Ready, "minimap disabled")
			_, err := io.WriteString(w, "<svg/>")
			return err
		})

	err := f.app.Render(context.Background(), app.RenderOptions{Width: 320, NoMinimap: true})
	require.NoError(t, err)
	assert.Equal(t, "<svg/>", f.out.String())
}

func TestApp_RenderToFile(t *testing.T) {
	t.Parallel()

	out := filepath.Join(t.TempDir(), "map.svg")
	f := newFixture(t)
	f.withConfig("graph.yaml")
	f.graphs.EXPECT().Load("other.yaml").Return(sample(), nil)
	f.exporter.EXPECT().Export(gomock.Any(), gomock.Any()).
		DoAndReturn(func(w io.Writer, _ *domain.Snapshot) error {
			_, err := io.WriteString(w, "<svg/>")
			return err
		})

	require.NoError(t, f.app.Render(context.Background(), app.RenderOptions{Input: "other.yaml", Output: out}))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "<svg/>", string(data))
	assert.Empty(t, f.out.String())
}

func TestApp_RenderOutline(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.withConfig("graph.yaml")
	f.graphs.EXPECT().Load("graph.yaml").Return(sample(), nil)

	require.NoError(t, f.app.Render(context.Background(), app.RenderOptions{Format: "outline"}))
	assert.Contains(t, f.out.String(), "Root")
	assert.Contains(t, f.out.String(), "Child")
}

func TestApp_RenderErrors(t *testing.T) {
	t.Parallel()

	t.Run("unsupported format", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.withConfig("graph.yaml")
		err := f.app.Render(context.Background(), app.RenderOptions{Output: "map.gif"})
		assert.ErrorContains(t, err, domain.ErrUnsupportedFormat.Error())
	})

	t.Run("no graph configured", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.withConfig("")
		err := f.app.Render(context.Background(), app.RenderOptions{})
		assert.ErrorContains(t, err, domain.ErrGraphNotConfigured.Error())
	})

	t.Run("config error", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.loader.EXPECT().Load(gomock.Any()).Return(nil, domain.ErrConfigParseFailed)
		err := f.app.Render(context.Background(), app.RenderOptions{})
		assert.ErrorContains(t, err, "failed to load configuration")
	})
}

func TestApp_ExplicitConfig(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	cfg := domain.DefaultConfig()
	cfg.GraphPath = "feed.json"
	f.loader.EXPECT().LoadFile("custom.yaml").Return(&cfg, nil)
	f.graphs.EXPECT().Load("feed.json").Return(sample(), nil)

	f.app.Configure(app.GlobalOptions{ConfigPath: "custom.yaml"})
	require.NoError(t, f.app.Render(context.Background(), app.RenderOptions{Format: "outline"}))
}

func TestApp_ImportOutline(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := filepath.Join(dir, "report.json")
	doc := `{
  "title": "Report",
  "outline": [
    {"level": "H1", "text": "Intro", "page": 0},
    {"level": "H2", "text": "Scope", "page": 1}
  ]
}`
	require.NoError(t, os.WriteFile(input, []byte(doc), 0o600))

	f := newFixture(t)
	f.withConfig(filepath.Join(dir, "graph.yaml"))

	var saved *domain.Graph
	f.graphs.EXPECT().Save(filepath.Join(dir, "graph.yaml"), gomock.Any()).
		DoAndReturn(func(_ string, g *domain.Graph) error {
			saved = g
			return nil
		})

	require.NoError(t, f.app.Import(context.Background(), app.ImportOptions{Kind: "outline", Input: input}))
	require.NotNil(t, saved)
	assert.Equal(t, 3, saved.Len())

	root, ok := saved.Node("1")
	require.True(t, ok)
	assert.Equal(t, "Report", root.Label)

	intro, ok := saved.Node("2")
	require.True(t, ok)
	require.NotNil(t, intro.Nav)
	assert.Equal(t, "report.pdf", intro.Nav.SourceDocument)
	assert.Equal(t, 1, intro.Nav.PageNumber)
}

func TestApp_ImportErrors(t *testing.T) {
	t.Parallel()

	t.Run("unknown kind", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.withConfig("graph.yaml")
		err := f.app.Import(context.Background(), app.ImportOptions{Kind: "slides", Input: "x.json"})
		assert.ErrorContains(t, err, domain.ErrUnsupportedFormat.Error())
	})

	t.Run("missing input", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.withConfig("graph.yaml")
		err := f.app.Import(context.Background(), app.ImportOptions{
			Kind:  "analysis",
			Input: filepath.Join(t.TempDir(), "missing.json"),
		})
		assert.ErrorContains(t, err, domain.ErrImportFailed.Error())
	})
}

func TestApp_ViewLinear(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.withConfig("graph.yaml")
	f.graphs.EXPECT().Load("graph.yaml").Return(sample(), nil)

	require.NoError(t, f.app.View(context.Background(), app.ViewOptions{Output: "linear"}))
	assert.Contains(t, f.out.String(), "Root")
	assert.Contains(t, f.out.String(), "  ")
}

func TestApp_ServeRestoresHead(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	cfg := f.withConfig("graph.yaml")
	f.store.EXPECT().Head(cfg.StorePath).Return(sample(), "abc", nil)
	f.watcher.EXPECT().Start(gomock.Any(), "graph.yaml").Return(nil)
	f.watcher.EXPECT().Events().Return(func(func(ports.WatchEvent) bool) {})
	f.watcher.EXPECT().Stop().Return(nil)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	err := f.app.Serve(ctx, app.ServeOptions{Addr: "127.0.0.1:0"})
	assert.NoError(t, err)
}

func TestApp_ServeFallsBackToFeed(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	cfg := f.withConfig("graph.yaml")
	f.store.EXPECT().Head(cfg.StorePath).Return(nil, "", nil)
	f.graphs.EXPECT().Load("graph.yaml").Return(sample(), nil)
	f.watcher.EXPECT().Start(gomock.Any(), "graph.yaml").Return(nil)
	f.watcher.EXPECT().Events().Return(func(func(ports.WatchEvent) bool) {})
	f.watcher.EXPECT().Stop().Return(nil)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	assert.NoError(t, f.app.Serve(ctx, app.ServeOptions{Addr: "127.0.0.1:0"}))
}

func TestApp_ServeWatcherFailure(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	cfg := f.withConfig("graph.yaml")
	f.store.EXPECT().Head(cfg.StorePath).Return(nil, "", nil)
	f.graphs.EXPECT().Load("graph.yaml").Return(nil, domain.ErrGraphReadFailed)
	f.watcher.EXPECT().Start(gomock.Any(), "graph.yaml").Return(domain.ErrWatcherFailed)

	err := f.app.Serve(context.Background(), app.ServeOptions{Addr: "127.0.0.1:0"})
	assert.ErrorContains(t, err, domain.ErrWatcherFailed.Error())
}
