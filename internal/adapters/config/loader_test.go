package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/mindmap/internal/adapters/config"
	"go.trai.ch/mindmap/internal/core/domain"
	"go.trai.ch/mindmap/internal/core/ports/mocks"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

func newLoader(t *testing.T) *config.Loader {
	t.Helper()
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Debug(gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Warn(gomock.Any()).AnyTimes()
	return config.NewLoader(mockLogger)
}

func createFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), domain.FilePerm))
	return path
}

func TestLoader_Load_Defaults(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg, err := newLoader(t).Load(dir)
	require.NoError(t, err)

	want := domain.DefaultConfig()
	assert.Equal(t, dir, cfg.Root)
	assert.Equal(t, filepath.Join(dir, domain.DefaultGraphFileName), cfg.GraphPath)
	assert.Equal(t, filepath.Join(dir, domain.MindmapDirName, domain.StoreDirName), cfg.StorePath)
	assert.Equal(t, want.Sizing, cfg.Sizing)
	assert.Equal(t, want.Layout, cfg.Layout)
	assert.Equal(t, want.Viewport, cfg.Viewport)
}

func TestLoader_Load_DiscoversParent(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	createFile(t, root, domain.ConfigFileName, `
version: "1"
graph: maps/main.json
viewport:
  width: 1920
  animation: 500ms
layout:
  transition: 0s
server:
  addr: ":9000"
`)
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, domain.DirPerm))

	cfg, err := newLoader(t).Load(nested)
	require.NoError(t, err)

	assert.Equal(t, root, cfg.Root)
	assert.Equal(t, filepath.Join(root, "maps", "main.json"), cfg.GraphPath)
	assert.InDelta(t, 1920.0, cfg.Viewport.Width, 0)
	assert.InDelta(t, 800.0, cfg.Viewport.Height, 0, "unset fields keep defaults")
	assert.Equal(t, 500*time.Millisecond, cfg.Viewport.AnimationDuration)
	assert.Zero(t, cfg.Layout.TransitionDuration)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
}

func TestLoader_LoadFile_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		content   string
		wantErr   error
		wantField string
	}{
		{name: "malformed yaml", content: "viewport: [", wantErr: domain.ErrConfigParseFailed},
		{name: "unknown key", content: "viewprot:\n  width: 1\n", wantErr: domain.ErrConfigParseFailed},
		{name: "zero width", content: "viewport:\n  width: 0\n", wantErr: domain.ErrConfigInvalid, wantField: "viewport.size"},
		{name: "bad measurer", content: "sizing:\n  measurer: ruler\n", wantErr: domain.ErrConfigInvalid, wantField: "sizing.measurer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := createFile(t, t.TempDir(), domain.ConfigFileName, tt.content)
			_, err := newLoader(t).LoadFile(path)
			require.Error(t, err)
			assert.ErrorContains(t, err, tt.wantErr.Error())

			if tt.wantField != "" {
				zErr, ok := err.(*zerr.Error)
				require.True(t, ok, "expected *zerr.Error")
				assert.Equal(t, tt.wantField, zErr.Metadata()["field"])
				assert.Equal(t, path, zErr.Metadata()["path"])
			}
		})
	}
}

func TestLoader_LoadFile_Missing(t *testing.T) {
	t.Parallel()

	_, err := newLoader(t).LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrConfigReadFailed.Error())
}

func TestLoader_LoadFile_WarnsOnUnknownVersion(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Debug(gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Warn(gomock.Any()).Times(1)

	path := createFile(t, t.TempDir(), domain.ConfigFileName, "version: \"7\"\n")
	_, err := config.NewLoader(mockLogger).LoadFile(path)
	require.NoError(t, err)
}
