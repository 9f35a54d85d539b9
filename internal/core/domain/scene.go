package domain

// NodeShape is the retained drawing state of one node.
type NodeShape struct {
	ID     string
	Label  string
	Lines  []string
	Color  ColorToken
	Kind   NodeKind
	Center Point
	Size   Size
	Depth  int
	// Collapsed is set when the node hides children.
	Collapsed bool
	// Navigable is set when a click navigates instead of toggling.
	Navigable bool
}

// Bounds returns the box of the node in layout units.
func (s NodeShape) Bounds() Rect {
	return RectAround(s.Center, s.Size)
}

// LinkShape is the retained drawing state of one parent to child edge.
type LinkShape struct {
	ID     string
	Source string
	Target string
	From   Point
	To     Point
}

// Op is the kind of change a scene command applies.
type Op string

const (
	// OpEnter adds an element to the scene.
	OpEnter Op = "enter"
	// OpUpdate moves or restyles an existing element.
	OpUpdate Op = "update"
	// OpExit removes an element from the scene.
	OpExit Op = "exit"
)

// Command is one retained-mode change. Exactly one of Node and Link is set.
type Command struct {
	Op   Op
	Node *NodeShape
	Link *LinkShape
}

// Scene is the retained element list in draw order (links first, then nodes).
type Scene struct {
	Nodes  []NodeShape
	Links  []LinkShape
	Bounds Rect
}

// Empty reports whether nothing is drawn.
func (s *Scene) Empty() bool {
	return s == nil || len(s.Nodes) == 0
}

// Node returns the shape of the node with the given id.
func (s *Scene) Node(id string) (NodeShape, bool) {
	for _, n := range s.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return NodeShape{}, false
}

// HitTest returns the id of the topmost node containing p (layout units).
func (s *Scene) HitTest(p Point) (string, bool) {
	for i := len(s.Nodes) - 1; i >= 0; i-- {
		if s.Nodes[i].Bounds().Contains(p) {
			return s.Nodes[i].ID, true
		}
	}
	return "", false
}

// MinimapMarker is a simplified node drawn in the minimap.
type MinimapMarker struct {
	ID     string
	Center Point
	Color  ColorToken
	Kind   NodeKind
}

// Segment is a straight line between two points.
type Segment struct {
	From, To Point
}

// MinimapView is the overview of the whole layout plus the viewport indicator.
type MinimapView struct {
	Size    Size
	Markers []MinimapMarker
	Links   []Segment
	// Indicator holds the visible viewport corners in minimap units, clockwise from top-left.
	Indicator [4]Point
	// Ready is false when there is no content to map.
	Ready bool
}

// Snapshot is everything an exporter needs to reproduce the current view.
type Snapshot struct {
	Scene     Scene
	Transform Transform
	Viewport  Size
	Minimap   MinimapView
	// FontSize and LineHeight describe how label lines were measured.
	FontSize   float64
	LineHeight float64
}
