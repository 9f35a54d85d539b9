package export_test

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/mindmap/internal/adapters/export"
	"go.trai.ch/mindmap/internal/core/domain"
	"go.trai.ch/zerr"
)

func snapshot() *domain.Snapshot {
	return &domain.Snapshot{
		Scene: domain.Scene{
			Links: []domain.LinkShape{
				{ID: "1->2", Source: "1", Target: "2", From: domain.Point{X: 40}, To: domain.Point{X: 170}},
			},
			Nodes: []domain.NodeShape{
				{
					ID: "1", Label: "Root", Lines: []string{"Root"}, Kind: domain.KindRoot,
					Size: domain.Size{Width: 80, Height: 40},
				},
				{
					ID: "2", Label: "Child & two", Lines: []string{"Child &", "two"}, Kind: domain.KindSource,
					Color: "#123456", Center: domain.Point{X: 220}, Size: domain.Size{Width: 100, Height: 58},
					Collapsed: true,
				},
			},
		},
		Transform: domain.Transform{X: 100, Y: 200, K: 1},
		Viewport:  domain.Size{Width: 640, Height: 400},
		Minimap: domain.MinimapView{
			Size: domain.Size{Width: 200, Height: 150},
			Markers: []domain.MinimapMarker{
				{ID: "1", Center: domain.Point{X: 10, Y: 75}, Kind: domain.KindRoot},
				{ID: "2", Center: domain.Point{X: 190, Y: 75}, Color: "#123456", Kind: domain.KindSource},
			},
			Links:     []domain.Segment{{From: domain.Point{X: 10, Y: 75}, To: domain.Point{X: 190, Y: 75}}},
			Indicator: [4]domain.Point{{X: 0, Y: 0}, {X: 200, Y: 0}, {X: 200, Y: 150}, {X: 0, Y: 150}},
			Ready:     true,
		},
		FontSize:   13,
		LineHeight: 18,
	}
}

func TestSVG_Export(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, export.NewSVG().Export(&buf, snapshot()))

	g := goldie.New(t)
	g.Assert(t, "snapshot", buf.Bytes())
}

func TestSVG_WithoutMinimap(t *testing.T) {
	t.Parallel()

	snap := snapshot()
	snap.Minimap = domain.MinimapView{}

	var buf bytes.Buffer
	require.NoError(t, export.NewSVG().Export(&buf, snap))
	assert.NotContains(t, buf.String(), `class="minimap"`)
	assert.Contains(t, buf.String(), `Child &amp;`)
}

func TestExporters_NothingToExport(t *testing.T) {
	t.Parallel()

	exporters, err := export.New()
	require.NoError(t, err)
	require.Len(t, exporters, 2)

	for format, e := range exporters {
		assert.Equal(t, format, e.Format())

		var buf bytes.Buffer
		err := e.Export(&buf, &domain.Snapshot{Viewport: domain.Size{Width: 10, Height: 10}})
		require.Error(t, err)
		assert.ErrorContains(t, err, domain.ErrNothingToExport.Error())
		assert.Zero(t, buf.Len())

		err = e.Export(&buf, nil)
		assert.ErrorContains(t, err, domain.ErrNothingToExport.Error())
	}
}

func TestPNG_Export(t *testing.T) {
	t.Parallel()

	p, err := export.NewPNG()
	require.NoError(t, err)
	assert.Equal(t, "image/png", p.ContentType())

	var buf bytes.Buffer
	require.NoError(t, p.Export(&buf, snapshot()))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 640, 400), img.Bounds())

	r, g, b, _ := img.At(2, 2).RGBA()
	assert.Equal(t, [3]uint32{0xF6, 0xF7, 0xFB}, [3]uint32{r >> 8, g >> 8, b >> 8}, "background")

	// Root box spans x 60..140 and y 180..220 on screen.
	r, g, b, _ = img.At(70, 190).RGBA()
	assert.Equal(t, [3]uint32{0x8B, 0x5C, 0xF6}, [3]uint32{r >> 8, g >> 8, b >> 8}, "root fill")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestSVG_WriteError(t *testing.T) {
	t.Parallel()

	err := export.NewSVG().Export(failingWriter{}, snapshot())
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrExportFailed.Error())

	zErr, ok := err.(*zerr.Error)
	require.True(t, ok)
	assert.Equal(t, "svg", zErr.Metadata()["format"])
}
