package minimap_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/mindmap/internal/core/domain"
	"go.trai.ch/mindmap/internal/engine/minimap"
)

func scene() domain.Scene {
	return domain.Scene{
		Nodes: []domain.NodeShape{
			{ID: "1", Center: domain.Point{X: 0, Y: 0}},
			{ID: "2", Center: domain.Point{X: 400, Y: -100}},
			{ID: "3", Center: domain.Point{X: 400, Y: 200}},
		},
		Links: []domain.LinkShape{
			{ID: "1->2", From: domain.Point{X: 0, Y: 0}, To: domain.Point{X: 400, Y: -100}},
		},
	}
}

func newRenderer() *minimap.Renderer {
	return minimap.New(domain.DefaultConfig().Minimap)
}

func TestRenderer_EmptyScene(t *testing.T) {
	t.Parallel()

	r := newRenderer()
	r.Update(domain.Scene{})
	assert.False(t, r.Ready())

	view := r.View(domain.IdentityTransform(), domain.Size{Width: 100, Height: 100})
	assert.False(t, view.Ready)
	assert.Empty(t, view.Markers)
}

func TestRenderer_FitsContentInsidePadding(t *testing.T) {
	t.Parallel()

	r := newRenderer()
	r.Update(scene())
	require.True(t, r.Ready())

	// Content is 400x300, inner canvas 180x130: height limits the scale.
	assert.InDelta(t, 130.0/300.0, r.Scale(), 1e-9)

	view := r.View(domain.IdentityTransform(), domain.Size{Width: 10, Height: 10})
	require.Len(t, view.Markers, 3)
	for _, m := range view.Markers {
		assert.GreaterOrEqual(t, m.Center.X, 10.0-1e-9)
		assert.LessOrEqual(t, m.Center.X, 190.0+1e-9)
		assert.GreaterOrEqual(t, m.Center.Y, 10.0-1e-9)
		assert.LessOrEqual(t, m.Center.Y, 140.0+1e-9)
	}
	assert.Len(t, view.Links, 1)

	// Centered horizontally.
	left := view.Markers[0].Center.X
	right := view.Markers[1].Center.X
	assert.InDelta(t, 100, (left+right)/2, 1e-9)
}

func TestRenderer_IndicatorFollowsZoom(t *testing.T) {
	t.Parallel()

	r := newRenderer()
	r.Update(scene())
	vp := domain.Size{Width: 800, Height: 600}

	for _, k := range []float64{0.5, 2.0} {
		tr := domain.Transform{X: 120, Y: -40, K: k}
		ind := r.Indicator(tr, vp)

		topLeft := r.Map(tr.Invert(domain.Point{}))
		assert.InDelta(t, topLeft.X, ind[0].X, 1e-9)
		assert.InDelta(t, topLeft.Y, ind[0].Y, 1e-9)

		width := ind[1].X - ind[0].X
		height := ind[3].Y - ind[0].Y
		assert.InDelta(t, vp.Width/k*r.Scale(), width, 1e-9, "k=%v", k)
		assert.InDelta(t, vp.Height/k*r.Scale(), height, 1e-9, "k=%v", k)
	}
}

func TestRenderer_SingleNode(t *testing.T) {
	t.Parallel()

	r := newRenderer()
	r.Update(domain.Scene{Nodes: []domain.NodeShape{{ID: "1", Center: domain.Point{X: 50, Y: 50}}}})
	require.True(t, r.Ready())

	view := r.View(domain.IdentityTransform(), domain.Size{Width: 1, Height: 1})
	assert.InDelta(t, 100, view.Markers[0].Center.X, 1e-9)
	assert.InDelta(t, 75, view.Markers[0].Center.Y, 1e-9)
}

func TestRenderer_SingleNodeUsesItsBox(t *testing.T) {
	t.Parallel()

	r := newRenderer()
	root := domain.NodeShape{ID: "1", Label: "Root", Center: domain.Point{X: 400, Y: 300}, Size: domain.Size{Width: 80, Height: 40}}
	r.Update(domain.Scene{Nodes: []domain.NodeShape{root}})
	require.True(t, r.Ready())

	// Box is 80x40, inner canvas 180x130: width limits the scale.
	assert.InDelta(t, 180.0/80.0, r.Scale(), 1e-9)

	box := root.Bounds()
	for _, p := range []domain.Point{{X: box.X, Y: box.Y}, box.Max()} {
		m := r.Map(p)
		assert.GreaterOrEqual(t, m.X, 10.0-1e-9)
		assert.LessOrEqual(t, m.X, 190.0+1e-9)
		assert.GreaterOrEqual(t, m.Y, 10.0-1e-9)
		assert.LessOrEqual(t, m.Y, 140.0+1e-9)
	}

	// A viewport zoomed onto the node maps to roughly the node box.
	vp := domain.Size{Width: 800, Height: 400}
	tr := domain.Transform{X: -3600, Y: -2800, K: 10}
	ind := r.Indicator(tr, vp)
	assert.InDelta(t, 10, ind[0].X, 1e-9)
	assert.InDelta(t, 190, ind[1].X, 1e-9)
	assert.InDelta(t, 30, ind[0].Y, 1e-9)
	assert.InDelta(t, 120, ind[3].Y, 1e-9)
}
