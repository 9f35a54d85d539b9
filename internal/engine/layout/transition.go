package layout

import (
	"time"

	"go.trai.ch/mindmap/internal/core/domain"
)

// Easing maps linear progress in [0, 1] to eased progress.
type Easing func(t float64) float64

// CubicInOut accelerates until halfway and decelerates afterwards.
func CubicInOut(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	f := 2*t - 2
	return 0.5*f*f*f + 1
}

// Anchor resolves the position an element exits to.
type Anchor func(id string) (domain.Point, bool)

// ParentOf resolves the parent id of a node in the target scene.
type ParentOf func(id string) (string, bool)

type movingNode struct {
	from, to domain.NodeShape
}

type movingLink struct {
	from, to domain.LinkShape
}

// Transition interpolates from what was last rendered to a new target scene and
// emits retained-mode commands. It is driven by Frame and never blocks.
type Transition struct {
	duration time.Duration
	ease     Easing

	rendered domain.Scene
	target   domain.Scene
	start    time.Time
	active   bool

	nodes     []movingNode
	links     []movingLink
	exitNodes []movingNode
	exitLinks []movingLink
}

// NewTransition creates a Transition. A nil easing uses CubicInOut.
func NewTransition(duration time.Duration, ease Easing) *Transition {
	if ease == nil {
		ease = CubicInOut
	}
	return &Transition{duration: duration, ease: ease}
}

// Rendered returns the scene as last emitted, counting the enter commands
// returned by Begin.
func (tr *Transition) Rendered() domain.Scene {
	return tr.rendered
}

// Target returns the scene the transition moves toward.
func (tr *Transition) Target() domain.Scene {
	return tr.target
}

// Active reports whether frames are still pending.
func (tr *Transition) Active() bool {
	return tr.active
}

// Begin starts moving toward target, superseding any transition in flight.
// Nodes new to the scene enter at the current position of their parent (target
// nodes must be in pre-order); nodes leaving the scene move to exitTo(id) and are
// removed once the transition completes. The returned commands add entering
// elements at their start positions.
func (tr *Transition) Begin(now time.Time, target domain.Scene, parentOf ParentOf, exitTo Anchor) []domain.Command {
	if tr.duration <= 0 {
		return tr.Jump(target)
	}

	renderedNodes := indexNodes(tr.rendered.Nodes)
	renderedLinks := indexLinks(tr.rendered.Links)
	targetNodes := indexNodes(target.Nodes)
	targetLinks := indexLinks(target.Links)

	var cmds []domain.Command
	tr.nodes = tr.nodes[:0]
	tr.links = tr.links[:0]
	tr.exitNodes = tr.exitNodes[:0]
	tr.exitLinks = tr.exitLinks[:0]

	startOf := make(map[string]domain.Point, len(target.Nodes))
	for _, to := range target.Nodes {
		from, existed := renderedNodes[to.ID]
		if existed {
			// Content updates at once; only geometry is interpolated.
			center := from.Center
			from = to
			from.Center = center
		} else {
			from = to
			if parentID, ok := parentOf(to.ID); ok {
				if p, ok := startOf[parentID]; ok {
					from.Center = p
				}
			}
			cmds = append(cmds, nodeCommand(domain.OpEnter, from))
		}
		startOf[to.ID] = from.Center
		tr.nodes = append(tr.nodes, movingNode{from: from, to: to})
	}

	for _, to := range target.Links {
		from, existed := renderedLinks[to.ID]
		if !existed {
			p := startOf[to.Target]
			from = to
			from.From, from.To = p, p
			cmds = append(cmds, linkCommand(domain.OpEnter, from))
		}
		tr.links = append(tr.links, movingLink{from: from, to: to})
	}

	for _, from := range tr.rendered.Nodes {
		if _, kept := targetNodes[from.ID]; kept {
			continue
		}
		to := from
		if p, ok := exitTo(from.ID); ok {
			to.Center = p
		}
		tr.exitNodes = append(tr.exitNodes, movingNode{from: from, to: to})
	}

	for _, from := range tr.rendered.Links {
		if _, kept := targetLinks[from.ID]; kept {
			continue
		}
		to := from
		if p, ok := exitTo(from.Target); ok {
			to.From, to.To = p, p
		}
		tr.exitLinks = append(tr.exitLinks, movingLink{from: from, to: to})
	}

	tr.rendered = tr.startScene()
	tr.target = target
	tr.start = now
	tr.active = true
	return cmds
}

// startScene is the scene at progress zero, including the elements just
// entered and those about to exit.
func (tr *Transition) startScene() domain.Scene {
	var scene domain.Scene
	for _, l := range tr.links {
		scene.Links = append(scene.Links, l.from)
	}
	for _, n := range tr.nodes {
		scene.Nodes = append(scene.Nodes, n.from)
	}
	for _, l := range tr.exitLinks {
		scene.Links = append(scene.Links, l.from)
	}
	for _, n := range tr.exitNodes {
		scene.Nodes = append(scene.Nodes, n.from)
	}
	scene.Bounds = nodeBounds(scene.Nodes)
	return scene
}

// Frame advances the transition to now and returns the commands for that frame.
// The second result is false once the transition has completed.
func (tr *Transition) Frame(now time.Time) ([]domain.Command, bool) {
	if !tr.active {
		return nil, false
	}

	progress := 1.0
	if elapsed := now.Sub(tr.start); elapsed < tr.duration {
		progress = float64(elapsed) / float64(tr.duration)
		progress = max(progress, 0)
	}
	done := progress >= 1
	f := tr.ease(progress)
	if done {
		f = 1
	}

	var scene domain.Scene
	var cmds []domain.Command

	for _, l := range tr.links {
		shape := lerpLink(l.from, l.to, f)
		scene.Links = append(scene.Links, shape)
		cmds = append(cmds, linkCommand(domain.OpUpdate, shape))
	}
	for _, n := range tr.nodes {
		shape := lerpNode(n.from, n.to, f)
		scene.Nodes = append(scene.Nodes, shape)
		cmds = append(cmds, nodeCommand(domain.OpUpdate, shape))
	}

	if done {
		for _, l := range tr.exitLinks {
			cmds = append(cmds, linkCommand(domain.OpExit, l.to))
		}
		for _, n := range tr.exitNodes {
			cmds = append(cmds, nodeCommand(domain.OpExit, n.to))
		}
		tr.rendered = tr.target
		tr.active = false
		return cmds, false
	}

	for _, l := range tr.exitLinks {
		shape := lerpLink(l.from, l.to, f)
		scene.Links = append(scene.Links, shape)
		cmds = append(cmds, linkCommand(domain.OpUpdate, shape))
	}
	for _, n := range tr.exitNodes {
		shape := lerpNode(n.from, n.to, f)
		scene.Nodes = append(scene.Nodes, shape)
		cmds = append(cmds, nodeCommand(domain.OpUpdate, shape))
	}

	scene.Bounds = nodeBounds(scene.Nodes)
	tr.rendered = scene
	return cmds, true
}

// Jump moves straight to target without animation, cancelling any transition in flight.
func (tr *Transition) Jump(target domain.Scene) []domain.Command {
	renderedNodes := indexNodes(tr.rendered.Nodes)
	renderedLinks := indexLinks(tr.rendered.Links)
	targetNodes := indexNodes(target.Nodes)
	targetLinks := indexLinks(target.Links)

	var cmds []domain.Command
	for _, l := range tr.rendered.Links {
		if _, kept := targetLinks[l.ID]; !kept {
			cmds = append(cmds, linkCommand(domain.OpExit, l))
		}
	}
	for _, n := range tr.rendered.Nodes {
		if _, kept := targetNodes[n.ID]; !kept {
			cmds = append(cmds, nodeCommand(domain.OpExit, n))
		}
	}
	for _, l := range target.Links {
		op := domain.OpUpdate
		if _, existed := renderedLinks[l.ID]; !existed {
			op = domain.OpEnter
		}
		cmds = append(cmds, linkCommand(op, l))
	}
	for _, n := range target.Nodes {
		op := domain.OpUpdate
		if _, existed := renderedNodes[n.ID]; !existed {
			op = domain.OpEnter
		}
		cmds = append(cmds, nodeCommand(op, n))
	}

	tr.rendered = target
	tr.target = target
	tr.active = false
	tr.nodes, tr.links, tr.exitNodes, tr.exitLinks = nil, nil, nil, nil
	return cmds
}

func lerpNode(from, to domain.NodeShape, f float64) domain.NodeShape {
	out := to
	out.Center = from.Center.Lerp(to.Center, f)
	return out
}

func lerpLink(from, to domain.LinkShape, f float64) domain.LinkShape {
	out := to
	out.From = from.From.Lerp(to.From, f)
	out.To = from.To.Lerp(to.To, f)
	return out
}

func nodeCommand(op domain.Op, shape domain.NodeShape) domain.Command {
	return domain.Command{Op: op, Node: &shape}
}

func linkCommand(op domain.Op, shape domain.LinkShape) domain.Command {
	return domain.Command{Op: op, Link: &shape}
}

func indexNodes(nodes []domain.NodeShape) map[string]domain.NodeShape {
	out := make(map[string]domain.NodeShape, len(nodes))
	for _, n := range nodes {
		out[n.ID] = n
	}
	return out
}

func indexLinks(links []domain.LinkShape) map[string]domain.LinkShape {
	out := make(map[string]domain.LinkShape, len(links))
	for _, l := range links {
		out[l.ID] = l
	}
	return out
}

func nodeBounds(nodes []domain.NodeShape) domain.Rect {
	var r domain.Rect
	for i, n := range nodes {
		if i == 0 {
			r = n.Bounds()
			continue
		}
		r = r.Union(n.Bounds())
	}
	return r
}
