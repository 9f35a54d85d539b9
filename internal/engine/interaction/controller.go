// Package interaction recognizes pointer gestures on nodes: click versus drag,
// subtree dragging and the click guard that follows a drag.
package interaction

import (
	"time"

	"go.trai.ch/mindmap/internal/core/domain"
)

// State is the gesture recognizer state.
type State int

const (
	// Idle means no pointer is pressed on a node.
	Idle State = iota
	// PossibleDrag means a node is pressed but the pointer has not travelled far enough to drag.
	PossibleDrag
	// Dragging means the pressed subtree follows the pointer.
	Dragging
)

func (s State) String() string {
	switch s {
	case PossibleDrag:
		return "possible-drag"
	case Dragging:
		return "dragging"
	default:
		return "idle"
	}
}

// DragDelta moves a set of nodes by the same displacement in layout units.
type DragDelta struct {
	IDs   []string
	Delta domain.Offset
}

// Controller is the gesture state machine. It does not know about the graph:
// the caller passes the descendants of the pressed node.
type Controller struct {
	cfg domain.InteractionConfig

	state      State
	pressed    string
	moving     []string
	last       domain.Point
	travelled  float64
	pending    domain.Offset
	guardUntil time.Time
}

// New creates a Controller.
func New(cfg domain.InteractionConfig) *Controller {
	return &Controller{cfg: cfg}
}

// State returns the state at now. A finished drag turns Idle once its click guard expires.
func (c *Controller) State(now time.Time) State {
	if c.state == Dragging && c.pressed == "" && !now.Before(c.guardUntil) {
		c.state = Idle
	}
	return c.state
}

// Pressed returns the id of the node under the pointer, if any.
func (c *Controller) Pressed() string {
	return c.pressed
}

// PointerDown records the pressed node and the subtree that will follow it.
func (c *Controller) PointerDown(id string, descendants []string, screen domain.Point) {
	c.state = PossibleDrag
	c.pressed = id
	c.moving = append([]string{id}, descendants...)
	c.last = screen
	c.travelled = 0
	c.pending = domain.Offset{}
}

// PointerMove converts the screen movement to layout units using the current
// viewport scale. Once the path length exceeds the drag threshold the whole
// displacement so far is released, and every later move is released directly.
func (c *Controller) PointerMove(screen domain.Point, scale float64) (DragDelta, bool) {
	if c.pressed == "" || (c.state != PossibleDrag && c.state != Dragging) {
		return DragDelta{}, false
	}
	if scale <= 0 {
		scale = 1
	}

	moved := screen.Sub(c.last)
	c.last = screen
	delta := moved.Scale(1 / scale)

	if c.state == PossibleDrag {
		c.travelled += delta.Len()
		c.pending.DX += delta.X
		c.pending.DY += delta.Y
		if c.travelled <= c.cfg.DragThreshold {
			return DragDelta{}, false
		}
		c.state = Dragging
		out := DragDelta{IDs: c.moving, Delta: c.pending}
		c.pending = domain.Offset{}
		return out, true
	}

	return DragDelta{IDs: c.moving, Delta: domain.Offset{DX: delta.X, DY: delta.Y}}, true
}

// PointerUp releases the pointer. It returns the pressed id when the gesture was
// a click. After a drag the controller stays in Dragging until the click guard
// expires so that the click event trailing the release is suppressed.
func (c *Controller) PointerUp(now time.Time) (string, bool) {
	pressed, state := c.pressed, c.state
	c.pressed = ""
	c.moving = nil
	c.pending = domain.Offset{}

	switch state {
	case PossibleDrag:
		c.state = Idle
		return pressed, true
	case Dragging:
		c.guardUntil = now.Add(c.cfg.ClickGuard)
		return "", false
	default:
		return "", false
	}
}

// ClickSuppressed reports whether a click at now belongs to a drag that just ended.
func (c *Controller) ClickSuppressed(now time.Time) bool {
	return c.State(now) == Dragging
}

// Cancel drops any gesture in progress.
func (c *Controller) Cancel() {
	c.state = Idle
	c.pressed = ""
	c.moving = nil
	c.pending = domain.Offset{}
}
