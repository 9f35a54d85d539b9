// Package session owns the whole mutable state of one mind map view and turns
// host input into scene, viewport and prompt events.
package session

import (
	"strings"
	"time"

	"go.trai.ch/mindmap/internal/core/domain"
	"go.trai.ch/mindmap/internal/core/ports"
	"go.trai.ch/mindmap/internal/engine/interaction"
	"go.trai.ch/mindmap/internal/engine/layout"
	"go.trai.ch/mindmap/internal/engine/minimap"
	"go.trai.ch/mindmap/internal/engine/sizing"
	"go.trai.ch/mindmap/internal/engine/viewport"
)

// Clock returns the current time.
type Clock func() time.Time

type subscriber struct {
	id int
	fn func(domain.Event)
}

// Session is one interactive mind map. It is not safe for concurrent use: hosts
// must deliver every call for a session from a single goroutine. No method
// returns an error or panics on unknown ids; invalid input is ignored.
type Session struct {
	cfg domain.Config
	now Clock

	graph     *domain.Graph
	collapsed map[string]struct{}
	overrides map[string]domain.Offset

	tree     *domain.Tree
	prevTree *domain.Tree
	result   *layout.Result

	sizer      *sizing.Estimator
	layout     *layout.Engine
	transition *layout.Transition
	viewport   *viewport.Controller
	minimap    *minimap.Renderer
	pointer    *interaction.Controller
	prompts    *interaction.Prompts

	subscribers []subscriber
	nextSub     int
}

// Option configures a Session.
type Option func(*options)

type options struct {
	clock    Clock
	measurer ports.TextMeasurer
	newID    func() string
}

// WithClock replaces the wall clock, mainly for tests.
func WithClock(c Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithMeasurer replaces the glyph-count text measurer.
func WithMeasurer(m ports.TextMeasurer) Option {
	return func(o *options) { o.measurer = m }
}

// WithRequestIDs replaces the generator of edit and delete request ids.
func WithRequestIDs(newID func() string) Option {
	return func(o *options) { o.newID = newID }
}

// New creates an empty Session.
func New(cfg domain.Config, opts ...Option) *Session {
	o := options{clock: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	sizer := sizing.New(cfg.Sizing, o.measurer)
	return &Session{
		cfg:        cfg,
		now:        o.clock,
		graph:      domain.NewGraph(),
		collapsed:  make(map[string]struct{}),
		overrides:  make(map[string]domain.Offset),
		result:     &layout.Result{},
		sizer:      sizer,
		layout:     layout.New(cfg.Layout, sizer),
		transition: layout.NewTransition(cfg.Layout.TransitionDuration, layout.CubicInOut),
		viewport:   viewport.New(cfg.Viewport),
		minimap:    minimap.New(cfg.Minimap),
		pointer:    interaction.New(cfg.Interaction),
		prompts:    interaction.NewPrompts(o.newID),
	}
}

// Subscribe registers fn for every event. The returned function removes it.
func (s *Session) Subscribe(fn func(domain.Event)) func() {
	s.nextSub++
	id := s.nextSub
	s.subscribers = append(s.subscribers, subscriber{id: id, fn: fn})
	return func() {
		for i, sub := range s.subscribers {
			if sub.id == id {
				s.subscribers = append(s.subscribers[:i], s.subscribers[i+1:]...)
				return
			}
		}
	}
}

func (s *Session) emit(ev domain.Event) {
	for _, sub := range s.subscribers {
		sub.fn(ev)
	}
}

// ReplaceGraph swaps the model for a new feed (last write wins). Manual offsets
// are cleared, collapse entries survive for ids that still exist, and ids reused
// from the previous feed animate from where they were.
func (s *Session) ReplaceGraph(nodes []domain.Node, links []domain.Link) {
	s.SetGraph(domain.NewGraphFrom(nodes, links))
}

// SetGraph is ReplaceGraph for an already built graph. The session keeps a copy.
func (s *Session) SetGraph(g *domain.Graph) {
	if g == nil {
		g = domain.NewGraph()
	}
	s.graph = g.Clone()
	clear(s.overrides)
	for id := range s.collapsed {
		if !s.graph.Has(id) {
			delete(s.collapsed, id)
		}
	}
	s.prompts.Reset()
	s.pointer.Cancel()
	s.relayout(true)
}

// Graph returns a copy of the current model.
func (s *Session) Graph() *domain.Graph {
	return s.graph.Clone()
}

// Tree returns the current visible hierarchy. It must not be modified.
func (s *Session) Tree() *domain.Tree {
	return s.tree
}

// Transform returns the viewport transform.
func (s *Session) Transform() domain.Transform {
	return s.viewport.Transform()
}

// Scene returns the scene as last rendered, including in-flight interpolation.
func (s *Session) Scene() domain.Scene {
	return s.transition.Rendered()
}

// IsCollapsed reports whether id is in the collapse set.
func (s *Session) IsCollapsed(id string) bool {
	_, ok := s.collapsed[id]
	return ok
}

// Offset returns the manual offset of a node.
func (s *Session) Offset(id string) domain.Offset {
	return s.overrides[id]
}

// Animating reports whether Frame should keep being called.
func (s *Session) Animating() bool {
	return s.transition.Active() || s.viewport.Animating()
}

// Frame advances running animations to the current time and emits their changes.
// It reports whether further frames are needed.
func (s *Session) Frame() bool {
	now := s.now()
	if cmds, _ := s.transition.Frame(now); len(cmds) > 0 {
		s.emit(domain.SceneChanged{Commands: cmds, Animating: s.transition.Active()})
	}
	if t, changed := s.viewport.Frame(now); changed {
		s.emit(domain.ViewportChanged{Transform: t})
	}
	return s.Animating()
}

// Resize changes the viewport size and re-centers the layout.
func (s *Session) Resize(size domain.Size) {
	if size.Width <= 0 || size.Height <= 0 {
		return
	}
	s.viewport.Resize(size)
	s.relayout(false)
}

// HitTest returns the node under a screen point.
func (s *Session) HitTest(screen domain.Point) (string, bool) {
	rendered := s.transition.Rendered()
	return rendered.HitTest(s.viewport.Transform().Invert(screen))
}

// PointerDown presses a visible node.
func (s *Session) PointerDown(id string, screen domain.Point) {
	if s.tree.Find(id) == nil {
		return
	}
	s.pointer.PointerDown(id, s.tree.Descendants(id), screen)
}

// PointerMove drags the pressed subtree once the pointer has travelled far enough.
func (s *Session) PointerMove(screen domain.Point) {
	delta, ok := s.pointer.PointerMove(screen, s.viewport.Transform().K)
	if !ok {
		return
	}
	for _, id := range delta.IDs {
		off := s.overrides[id]
		off.DX += delta.Delta.DX
		off.DY += delta.Delta.DY
		s.overrides[id] = off
	}
	s.reposition()
}

// PointerUp releases the pointer. A release without drag is a click.
func (s *Session) PointerUp() {
	if id, clicked := s.pointer.PointerUp(s.now()); clicked {
		s.activate(id)
	}
}

// Click handles a click reported directly by the host. Clicks that trail a drag are ignored.
func (s *Session) Click(id string) {
	if s.pointer.ClickSuppressed(s.now()) {
		return
	}
	s.activate(id)
}

// activate navigates for nodes with a usable source reference and toggles collapse otherwise.
func (s *Session) activate(id string) {
	tn := s.tree.Find(id)
	if tn == nil {
		return
	}

	if nav := tn.Node.Nav; nav.Usable() {
		s.emit(domain.NavigateEvent{
			FileName:   nav.SourceDocument,
			Page:       nav.PageNumber,
			SearchText: nav.SectionTitle,
		})
		return
	}

	if _, ok := s.collapsed[id]; ok {
		delete(s.collapsed, id)
	} else {
		s.collapsed[id] = struct{}{}
	}
	s.relayout(true)
}

// DoubleClick asks the host for a new label of a visible node.
func (s *Session) DoubleClick(id string) {
	tn := s.tree.Find(id)
	if tn == nil {
		return
	}
	p := s.prompts.Open(interaction.PromptEdit, id)
	s.emit(domain.EditRequested{RequestID: p.ID, NodeID: id, Label: tn.Node.Label})
}

// ResolveEdit answers an edit request. Cancelled requests and blank values change nothing.
func (s *Session) ResolveEdit(requestID, value string, ok bool) {
	p, found := s.prompts.Resolve(requestID, interaction.PromptEdit)
	if !found || !ok {
		return
	}
	label := strings.TrimSpace(value)
	if label == "" {
		return
	}
	if !s.graph.SetLabel(p.NodeID, label) {
		return
	}
	s.emit(domain.GraphEdited{NodeID: p.NodeID, Label: label})
	s.relayout(true)
}

// RequestDelete asks the host to confirm removal of a node. The root cannot be deleted.
func (s *Session) RequestDelete(id string) {
	tn := s.tree.Find(id)
	if tn == nil || tn == s.tree.Root {
		return
	}
	p := s.prompts.Open(interaction.PromptDelete, id)
	s.emit(domain.DeleteRequested{RequestID: p.ID, NodeID: id, Label: tn.Node.Label})
}

// ResolveDelete answers a delete request. On confirmation the node and every link
// touching it are removed; its former children are no longer reachable.
func (s *Session) ResolveDelete(requestID string, ok bool) {
	p, found := s.prompts.Resolve(requestID, interaction.PromptDelete)
	if !found || !ok {
		return
	}
	if s.tree != nil && s.tree.Root != nil && s.tree.Root.ID() == p.NodeID {
		return
	}
	if !s.graph.RemoveNode(p.NodeID) {
		return
	}
	delete(s.collapsed, p.NodeID)
	delete(s.overrides, p.NodeID)
	s.emit(domain.GraphEdited{NodeID: p.NodeID, Deleted: true})
	s.relayout(true)
}

// Wheel zooms around a screen point.
func (s *Session) Wheel(deltaY float64, anchor domain.Point) {
	s.emit(domain.ViewportChanged{Transform: s.viewport.Wheel(deltaY, anchor)})
}

// ZoomAt zooms by factor around a screen point, e.g. for pinch gestures.
func (s *Session) ZoomAt(factor float64, anchor domain.Point) {
	if factor <= 0 {
		return
	}
	s.emit(domain.ViewportChanged{Transform: s.viewport.ZoomAt(factor, anchor)})
}

// ZoomIn starts an animated zoom step around the viewport center.
func (s *Session) ZoomIn() {
	s.viewport.ZoomIn(s.now())
}

// ZoomOut starts an animated zoom step out around the viewport center.
func (s *Session) ZoomOut() {
	s.viewport.ZoomOut(s.now())
}

// CenterOnRoot animates the view to scale 1 with the root in the middle.
func (s *Session) CenterOnRoot() {
	if s.tree == nil || s.tree.Root == nil {
		return
	}
	target := s.transition.Target()
	root, ok := target.Node(s.tree.Root.ID())
	if !ok {
		return
	}
	s.viewport.CenterOn(s.now(), root.Center)
}

// RequestExport signals the host that the scene can be exported. It reports
// false, and emits nothing, when there is nothing to export.
func (s *Session) RequestExport() bool {
	target := s.transition.Target()
	if target.Empty() {
		return false
	}
	s.emit(domain.ExportRequested{})
	return true
}

// Snapshot returns the settled scene, the viewport and the minimap.
func (s *Session) Snapshot() *domain.Snapshot {
	t := s.viewport.Transform()
	return &domain.Snapshot{
		Scene:     s.transition.Target(),
		Transform: t,
		Viewport:  s.viewport.Size(),
		Minimap:   s.Minimap(),

		FontSize:   s.cfg.Sizing.FontSize,
		LineHeight: s.cfg.Sizing.LineHeight,
	}
}

// Minimap returns the current minimap view. It is never ready when the minimap is disabled.
func (s *Session) Minimap() domain.MinimapView {
	if !s.cfg.Minimap.Enabled {
		return domain.MinimapView{}
	}
	return s.minimap.View(s.viewport.Transform(), s.viewport.Size())
}

func (s *Session) relayout(animated bool) {
	s.prevTree = s.tree
	s.tree = domain.BuildHierarchy(s.graph, s.collapsed)
	s.result = s.layout.Layout(s.tree, s.viewport.Size())

	target := layout.Scene(s.result, s.overrides)
	s.minimap.Update(target)

	var cmds []domain.Command
	if animated {
		cmds = s.transition.Begin(s.now(), target, s.parentOf, s.exitAnchor(target))
	} else {
		cmds = s.transition.Jump(target)
	}
	s.emit(domain.SceneChanged{Commands: cmds, Animating: s.transition.Active()})
}

// reposition applies changed offsets without a new layout pass.
func (s *Session) reposition() {
	target := layout.Scene(s.result, s.overrides)
	s.minimap.Update(target)
	s.emit(domain.SceneChanged{Commands: s.transition.Jump(target)})
}

func (s *Session) parentOf(id string) (string, bool) {
	p, ok := s.result.Parents[id]
	return p, ok
}

// exitAnchor sends a vanishing node to the position of its nearest ancestor that is still visible.
func (s *Session) exitAnchor(target domain.Scene) layout.Anchor {
	return func(id string) (domain.Point, bool) {
		if s.prevTree == nil || s.tree == nil {
			return domain.Point{}, false
		}
		anc := s.tree.NearestVisibleAncestor(s.prevTree, id)
		if anc == nil {
			return domain.Point{}, false
		}
		shape, ok := target.Node(anc.ID())
		if !ok {
			return domain.Point{}, false
		}
		return shape.Center, true
	}
}
