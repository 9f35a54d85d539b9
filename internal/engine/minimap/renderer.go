// Package minimap maps the whole layout onto a small fixed canvas and tracks the
// visible region of the main view on it.
package minimap

import (
	"math"

	"go.trai.ch/mindmap/internal/core/domain"
)

// Renderer keeps the layout to minimap mapping of the latest layout pass.
type Renderer struct {
	cfg     domain.MinimapConfig
	origin  domain.Point
	offset  domain.Point
	scale   float64
	markers []domain.MinimapMarker
	links   []domain.Segment
	ready   bool
}

// New creates a Renderer for a canvas of the configured size.
func New(cfg domain.MinimapConfig) *Renderer {
	return &Renderer{cfg: cfg}
}

// Size returns the canvas size.
func (r *Renderer) Size() domain.Size {
	return domain.Size{Width: r.cfg.Width, Height: r.cfg.Height}
}

// Ready reports whether a mapping exists. It is false for an empty scene.
func (r *Renderer) Ready() bool {
	return r.ready
}

// Update recomputes the mapping from scene: the union of the node boxes is
// fitted into the padded canvas with a uniform scale and centered.
func (r *Renderer) Update(scene domain.Scene) {
	r.markers = r.markers[:0]
	r.links = r.links[:0]
	if scene.Empty() {
		r.ready = false
		return
	}

	box := scene.Nodes[0].Bounds()
	for _, n := range scene.Nodes[1:] {
		box = box.Union(n.Bounds())
	}
	width := math.Max(box.Width, 1)
	height := math.Max(box.Height, 1)
	mid := box.Center()

	innerW := r.cfg.Width - 2*r.cfg.Padding
	innerH := r.cfg.Height - 2*r.cfg.Padding
	r.scale = math.Min(innerW/width, innerH/height)
	r.origin = domain.Point{X: mid.X - width/2, Y: mid.Y - height/2}
	r.offset = domain.Point{
		X: (r.cfg.Width - width*r.scale) / 2,
		Y: (r.cfg.Height - height*r.scale) / 2,
	}
	r.ready = true

	for _, n := range scene.Nodes {
		r.markers = append(r.markers, domain.MinimapMarker{
			ID:     n.ID,
			Center: r.Map(n.Center),
			Color:  n.Color,
			Kind:   n.Kind,
		})
	}
	for _, l := range scene.Links {
		r.links = append(r.links, domain.Segment{From: r.Map(l.From), To: r.Map(l.To)})
	}
}

// Scale returns the layout to minimap scale factor.
func (r *Renderer) Scale() float64 {
	return r.scale
}

// Map converts a layout point to minimap coordinates.
func (r *Renderer) Map(p domain.Point) domain.Point {
	return p.Sub(r.origin).Scale(r.scale).Add(r.offset)
}

// Indicator returns the corners of the visible region, clockwise from top-left,
// by inverting the main transform at the viewport corners.
func (r *Renderer) Indicator(t domain.Transform, viewport domain.Size) [4]domain.Point {
	corners := [4]domain.Point{
		{X: 0, Y: 0},
		{X: viewport.Width, Y: 0},
		{X: viewport.Width, Y: viewport.Height},
		{X: 0, Y: viewport.Height},
	}
	var out [4]domain.Point
	for i, c := range corners {
		out[i] = r.Map(t.Invert(c))
	}
	return out
}

// View assembles the minimap for a snapshot or a host update.
func (r *Renderer) View(t domain.Transform, viewport domain.Size) domain.MinimapView {
	view := domain.MinimapView{Size: r.Size(), Ready: r.ready}
	if !r.ready {
		return view
	}
	view.Markers = append([]domain.MinimapMarker(nil), r.markers...)
	view.Links = append([]domain.Segment(nil), r.links...)
	view.Indicator = r.Indicator(t, viewport)
	return view
}
