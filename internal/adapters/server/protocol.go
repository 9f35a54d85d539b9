package server

import "go.trai.ch/mindmap/internal/core/domain"

// Inbound message types.
const (
	MsgResize        = "resize"
	MsgPointerDown   = "pointerDown"
	MsgPointerMove   = "pointerMove"
	MsgPointerUp     = "pointerUp"
	MsgClick         = "click"
	MsgDoubleClick   = "dblclick"
	MsgDelete        = "delete"
	MsgResolveEdit   = "resolveEdit"
	MsgResolveDelete = "resolveDelete"
	MsgWheel         = "wheel"
	MsgZoom          = "zoom"
	MsgZoomIn        = "zoomIn"
	MsgZoomOut       = "zoomOut"
	MsgCenter        = "center"
	MsgExport        = "export"
)

// Outbound message types not covered by domain event names.
const (
	MsgHello   = "hello"
	MsgMinimap = "minimap"
	MsgError   = "error"
)

// Inbound is a message sent by the browser. Fields are used depending on Type.
// Pointer positions are screen coordinates.
type Inbound struct {
	Type      string  `json:"type"`
	ID        string  `json:"id,omitempty"`
	X         float64 `json:"x,omitempty"`
	Y         float64 `json:"y,omitempty"`
	DeltaY    float64 `json:"deltaY,omitempty"`
	Factor    float64 `json:"factor,omitempty"`
	Width     float64 `json:"width,omitempty"`
	Height    float64 `json:"height,omitempty"`
	RequestID string  `json:"requestId,omitempty"`
	Value     string  `json:"value,omitempty"`
	OK        bool    `json:"ok,omitempty"`
}

func (m Inbound) point() domain.Point {
	return domain.Point{X: m.X, Y: m.Y}
}

// Envelope wraps every outbound message.
type Envelope struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// HelloPayload is the first message on every connection.
type HelloPayload struct {
	Session string `json:"session"`
}

// ErrorPayload reports a rejected message.
type ErrorPayload struct {
	Message string `json:"message"`
}

// ScenePayload carries scene commands.
type ScenePayload struct {
	Commands  []CommandDTO `json:"commands"`
	Animating bool         `json:"animating"`
}

// CommandDTO is one scene command.
type CommandDTO struct {
	Op   string   `json:"op"`
	Node *NodeDTO `json:"node,omitempty"`
	Link *LinkDTO `json:"link,omitempty"`
}

// NodeDTO is the wire form of a node shape.
type NodeDTO struct {
	ID        string   `json:"id"`
	Label     string   `json:"label"`
	Lines     []string `json:"lines"`
	Color     string   `json:"color,omitempty"`
	Kind      string   `json:"kind"`
	X         float64  `json:"x"`
	Y         float64  `json:"y"`
	Width     float64  `json:"width"`
	Height    float64  `json:"height"`
	Depth     int      `json:"depth"`
	Collapsed bool     `json:"collapsed,omitempty"`
	Navigable bool     `json:"navigable,omitempty"`
}

// LinkDTO is the wire form of a link shape.
type LinkDTO struct {
	ID     string  `json:"id"`
	Source string  `json:"source"`
	Target string  `json:"target"`
	X1     float64 `json:"x1"`
	Y1     float64 `json:"y1"`
	X2     float64 `json:"x2"`
	Y2     float64 `json:"y2"`
}

// TransformPayload is the viewport transform.
type TransformPayload struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	K float64 `json:"k"`
}

// MinimapPayload is the overview canvas.
type MinimapPayload struct {
	Ready     bool          `json:"ready"`
	Width     float64       `json:"width"`
	Height    float64       `json:"height"`
	Markers   []MarkerDTO   `json:"markers"`
	Links     []LinkDTO     `json:"links"`
	Indicator [4][2]float64 `json:"indicator"`
}

// MarkerDTO is a minimap node.
type MarkerDTO struct {
	ID    string  `json:"id"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Color string  `json:"color,omitempty"`
	Kind  string  `json:"kind"`
}

// NavigatePayload asks the browser to open a document page.
type NavigatePayload struct {
	FileName   string `json:"fileName"`
	Page       int    `json:"page"`
	SearchText string `json:"searchText,omitempty"`
}

// PromptPayload asks the browser for a label or a confirmation.
type PromptPayload struct {
	RequestID string `json:"requestId"`
	NodeID    string `json:"nodeId"`
	Label     string `json:"label"`
}

// EditedPayload reports a committed edit.
type EditedPayload struct {
	NodeID  string `json:"nodeId"`
	Label   string `json:"label,omitempty"`
	Deleted bool   `json:"deleted,omitempty"`
}

// ExportPayload tells the browser where to fetch the export.
type ExportPayload struct {
	SVG string `json:"svg"`
	PNG string `json:"png"`
}

func sceneToDTO(ev domain.SceneChanged) ScenePayload {
	out := ScenePayload{Commands: make([]CommandDTO, 0, len(ev.Commands)), Animating: ev.Animating}
	for _, c := range ev.Commands {
		cmd := CommandDTO{Op: string(c.Op)}
		if c.Node != nil {
			n := nodeToDTO(*c.Node)
			cmd.Node = &n
		}
		if c.Link != nil {
			l := linkToDTO(*c.Link)
			cmd.Link = &l
		}
		out.Commands = append(out.Commands, cmd)
	}
	return out
}

func nodeToDTO(n domain.NodeShape) NodeDTO {
	return NodeDTO{
		ID:        n.ID,
		Label:     n.Label,
		Lines:     n.Lines,
		Color:     string(n.Color),
		Kind:      string(n.Kind),
		X:         n.Center.X,
		Y:         n.Center.Y,
		Width:     n.Size.Width,
		Height:    n.Size.Height,
		Depth:     n.Depth,
		Collapsed: n.Collapsed,
		Navigable: n.Navigable,
	}
}

func linkToDTO(l domain.LinkShape) LinkDTO {
	return LinkDTO{
		ID:     l.ID,
		Source: l.Source,
		Target: l.Target,
		X1:     l.From.X,
		Y1:     l.From.Y,
		X2:     l.To.X,
		Y2:     l.To.Y,
	}
}

func minimapToDTO(v domain.MinimapView) MinimapPayload {
	out := MinimapPayload{
		Ready:   v.Ready,
		Width:   v.Size.Width,
		Height:  v.Size.Height,
		Markers: make([]MarkerDTO, 0, len(v.Markers)),
		Links:   make([]LinkDTO, 0, len(v.Links)),
	}
	for _, m := range v.Markers {
		out.Markers = append(out.Markers, MarkerDTO{
			ID: m.ID, X: m.Center.X, Y: m.Center.Y, Color: string(m.Color), Kind: string(m.Kind),
		})
	}
	for _, s := range v.Links {
		out.Links = append(out.Links, LinkDTO{X1: s.From.X, Y1: s.From.Y, X2: s.To.X, Y2: s.To.Y})
	}
	for i, p := range v.Indicator {
		out.Indicator[i] = [2]float64{p.X, p.Y}
	}
	return out
}
