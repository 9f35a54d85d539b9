package domain

// Event is a notification emitted by a session to its host.
type Event interface {
	// EventName identifies the event on the wire.
	EventName() string
}

// SceneChanged carries the commands produced by one render pass or animation frame.
type SceneChanged struct {
	Commands []Command
	// Animating is true while a transition is still in flight.
	Animating bool
}

// ViewportChanged carries the new viewport transform.
type ViewportChanged struct {
	Transform Transform
}

// NavigateEvent asks the host to open a document at a page.
type NavigateEvent struct {
	FileName   string
	Page       int
	SearchText string
}

// EditRequested asks the host to prompt for a new label.
type EditRequested struct {
	RequestID string
	NodeID    string
	Label     string
}

// DeleteRequested asks the host to confirm removal of a node.
type DeleteRequested struct {
	RequestID string
	NodeID    string
	Label     string
}

// GraphEdited reports a committed rename or deletion so hosts can persist it.
type GraphEdited struct {
	NodeID  string
	Label   string
	Deleted bool
}

// ExportRequested signals that a scene is ready to be rasterized.
type ExportRequested struct{}

// EventName implements Event.
func (SceneChanged) EventName() string { return "scene" }

// EventName implements Event.
func (ViewportChanged) EventName() string { return "viewport" }

// EventName implements Event.
func (NavigateEvent) EventName() string { return "navigate" }

// EventName implements Event.
func (EditRequested) EventName() string { return "editRequested" }

// EventName implements Event.
func (DeleteRequested) EventName() string { return "deleteRequested" }

// EventName implements Event.
func (GraphEdited) EventName() string { return "graphEdited" }

// EventName implements Event.
func (ExportRequested) EventName() string { return "exportReady" }
