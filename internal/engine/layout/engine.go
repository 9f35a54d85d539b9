// Package layout positions the visible hierarchy as a horizontal tidy tree and
// animates between successive layouts.
package layout

import (
	"math"

	"go.trai.ch/mindmap/internal/core/domain"
)

// Sizer provides the wrapped lines and box size for a label.
type Sizer interface {
	Size(label string) domain.Size
	Lines(label string) []string
}

// Result is one layout pass: node shapes at their computed positions, without overrides.
type Result struct {
	// Order lists visible node ids in pre-order.
	Order             []string
	Shapes            map[string]domain.NodeShape
	Parents           map[string]string
	HorizontalSpacing float64
	VerticalSpacing   float64
}

// Empty reports whether the pass placed no node.
func (r *Result) Empty() bool {
	return r == nil || len(r.Order) == 0
}

// Engine computes layouts.
type Engine struct {
	cfg   domain.LayoutConfig
	sizer Sizer
}

// New creates a layout Engine.
func New(cfg domain.LayoutConfig, sizer Sizer) *Engine {
	return &Engine{cfg: cfg, sizer: sizer}
}

// Layout places every visible node of tree. Depth runs along screen X and
// siblings are spread along screen Y. The box extent of the result is centered
// in a viewport of the given size. A nil tree yields an empty result.
func (e *Engine) Layout(tree *domain.Tree, viewport domain.Size) *Result {
	res := &Result{
		Shapes:  make(map[string]domain.NodeShape),
		Parents: make(map[string]string),
	}
	if tree == nil || tree.Root == nil {
		return res
	}

	maxW, maxH, sumW := 0.0, 0.0, 0.0
	sizes := make(map[string]domain.Size, tree.Len())
	for n := range tree.Walk() {
		size := e.sizer.Size(n.Node.Label)
		sizes[n.ID()] = size
		maxW = math.Max(maxW, size.Width)
		maxH = math.Max(maxH, size.Height)
		sumW += size.Width
	}

	res.HorizontalSpacing = math.Max(e.cfg.MinHorizontalSpacing, maxW+e.cfg.Margin)
	res.VerticalSpacing = math.Max(e.cfg.MinVerticalSpacing, maxH+e.cfg.Margin)

	root := e.buildWorkTree(tree.Root, nil, 0, sizes)
	tidy(root, e.separation)

	extent := domain.Rect{}
	first := true
	var place func(w *wnode, tn *domain.TreeNode)
	place = func(w *wnode, tn *domain.TreeNode) {
		center := domain.Point{
			X: float64(w.depth) * res.HorizontalSpacing,
			Y: w.breadth * res.VerticalSpacing,
		}
		size := sizes[w.id]
		res.Order = append(res.Order, w.id)
		res.Shapes[w.id] = domain.NodeShape{
			ID:        w.id,
			Label:     tn.Node.Label,
			Lines:     e.sizer.Lines(tn.Node.Label),
			Color:     tn.Node.Color,
			Kind:      tn.Node.Kind,
			Center:    center,
			Size:      size,
			Depth:     tn.Depth,
			Collapsed: tn.Collapsed,
			Navigable: tn.Node.Nav.Usable(),
		}
		if tn.Parent != nil {
			res.Parents[w.id] = tn.Parent.ID()
		}

		box := domain.RectAround(center, size)
		if first {
			extent, first = box, false
		} else {
			extent = extent.Union(box)
		}

		for i, child := range w.children {
			place(child, tn.Children[i])
		}
	}
	place(root, tree.Root)

	shift := viewport.Center().Sub(extent.Center())
	for id, shape := range res.Shapes {
		shape.Center = shape.Center.Add(shift)
		res.Shapes[id] = shape
	}
	return res
}

func (e *Engine) buildWorkTree(tn *domain.TreeNode, parent *wnode, index int, sizes map[string]domain.Size) *wnode {
	w := &wnode{
		id:     tn.ID(),
		width:  sizes[tn.ID()].Width,
		parent: parent,
		i:      index,
		depth:  tn.Depth,
	}
	w.a = w
	w.children = make([]*wnode, len(tn.Children))
	for i, child := range tn.Children {
		w.children[i] = e.buildWorkTree(child, w, i, sizes)
	}
	return w
}

// separation widens the gap between neighbors whose boxes are wider than the baseline.
func (e *Engine) separation(a, b *wnode) float64 {
	base := e.cfg.CousinSeparation
	if a.parent == b.parent {
		base = e.cfg.SiblingSeparation
	}
	avg := (a.width + b.width) / 2
	return base * math.Max(1, avg/e.cfg.BaselineWidth)
}

// Scene turns a layout result into drawable shapes, adding the manual offsets.
// Links run from the right edge of the parent box to the left edge of the child box.
func Scene(res *Result, overrides map[string]domain.Offset) domain.Scene {
	var scene domain.Scene
	if res.Empty() {
		return scene
	}

	scene.Nodes = make([]domain.NodeShape, 0, len(res.Order))
	centers := make(map[string]domain.NodeShape, len(res.Order))
	for i, id := range res.Order {
		shape := res.Shapes[id]
		if off, ok := overrides[id]; ok {
			shape.Center = shape.Center.Add(off.Point())
		}
		centers[id] = shape
		scene.Nodes = append(scene.Nodes, shape)

		if i == 0 {
			scene.Bounds = shape.Bounds()
		} else {
			scene.Bounds = scene.Bounds.Union(shape.Bounds())
		}
	}

	for _, id := range res.Order {
		parentID, ok := res.Parents[id]
		if !ok {
			continue
		}
		scene.Links = append(scene.Links, LinkBetween(centers[parentID], centers[id]))
	}
	return scene
}

// LinkBetween returns the link shape connecting parent to child.
func LinkBetween(parent, child domain.NodeShape) domain.LinkShape {
	return domain.LinkShape{
		ID:     domain.LinkID(parent.ID, child.ID),
		Source: parent.ID,
		Target: child.ID,
		From:   domain.Point{X: parent.Center.X + parent.Size.Width/2, Y: parent.Center.Y},
		To:     domain.Point{X: child.Center.X - child.Size.Width/2, Y: child.Center.Y},
	}
}
