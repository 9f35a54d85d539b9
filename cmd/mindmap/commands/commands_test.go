package commands_test

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/mindmap/cmd/mindmap/commands"
	"go.trai.ch/mindmap/internal/adapters/telemetry"
	"go.trai.ch/mindmap/internal/app"
	"go.trai.ch/mindmap/internal/core/domain"
	"go.trai.ch/mindmap/internal/core/ports"
	"go.trai.ch/mindmap/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

type setup struct {
	loader   *mocks.MockConfigLoader
	graphs   *mocks.MockGraphSource
	exporter *mocks.MockExporter
	out      *bytes.Buffer
	cli      *commands.CLI
}

func newSetup(t *testing.T) *setup {
	t.Helper()
	ctrl := gomock.NewController(t)

	s := &setup{
		loader:   mocks.NewMockConfigLoader(ctrl),
		graphs:   mocks.NewMockGraphSource(ctrl),
		exporter: mocks.NewMockExporter(ctrl),
		out:      &bytes.Buffer{},
	}
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug(gomock.Any()).AnyTimes()
	log.EXPECT().Info(gomock.Any()).AnyTimes()

	a := app.New(
		s.loader, s.graphs, mocks.NewMockRevisionStore(ctrl), log, telemetry.NewNoOpTracer(),
		map[string]ports.Exporter{"svg": s.exporter}, nil, nil,
	).WithOutput(s.out)

	s.cli = commands.New(a)
	s.cli.SetOut(s.out)
	return s
}

func TestRender_Flags(t *testing.T) {
	t.Parallel()

	s := newSetup(t)
	cfg := domain.DefaultConfig()
	s.loader.EXPECT().LoadFile("conf.yaml").Return(&cfg, nil)
	s.graphs.EXPECT().Load("feed.yaml").Return(domain.NewGraphFrom([]domain.Node{{ID: "1", Label: "Root"}}, nil), nil)
	s.exporter.EXPECT().Export(gomock.Any(), gomock.Any()).
		DoAndReturn(func(w io.Writer, snap *domain.Snapshot) error {
			assert.InDelta(t, 400.0, snap.Viewport.Width, 0.001)
			assert.InDelta(t, 300.0, snap.Viewport.Height, 0.001)
			_, err := io.WriteString(w, "<svg/>")
			return err
		})

	s.cli.SetArgs([]string{"--config", "conf.yaml", "render", "feed.yaml", "--format", "svg", "--width", "400", "--height", "300"})
	require.NoError(t, s.cli.Execute(context.Background()))
	assert.Equal(t, "<svg/>", s.out.String())
}

func TestImport_RequiresDocument(t *testing.T) {
	t.Parallel()

	s := newSetup(t)
	s.cli.SetArgs([]string{"import"})
	assert.Error(t, s.cli.Execute(context.Background()))
}

func TestView_Linear(t *testing.T) {
	t.Parallel()

	s := newSetup(t)
	cfg := domain.DefaultConfig()
	cfg.GraphPath = "graph.yaml"
	s.loader.EXPECT().Load(gomock.Any()).Return(&cfg, nil)
	s.graphs.EXPECT().Load("graph.yaml").Return(domain.NewGraphFrom([]domain.Node{{ID: "1", Label: "Root"}}, nil), nil)

	s.cli.SetArgs([]string{"view", "--output", "linear"})
	require.NoError(t, s.cli.Execute(context.Background()))
	assert.Contains(t, s.out.String(), "Root")
}

func TestVersion(t *testing.T) {
	t.Parallel()

	s := newSetup(t)
	s.cli.SetArgs([]string{"version"})
	require.NoError(t, s.cli.Execute(context.Background()))
	assert.Equal(t, "mindmap version dev\n", s.out.String())
}

func TestRoot_Help(t *testing.T) {
	t.Parallel()

	s := newSetup(t)
	s.cli.SetArgs([]string{"--help"})
	require.NoError(t, s.cli.Execute(context.Background()))
	assert.Contains(t, s.out.String(), "serve")
	assert.Contains(t, s.out.String(), "import")
}
