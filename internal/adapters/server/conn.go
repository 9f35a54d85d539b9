package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.trai.ch/mindmap/internal/core/domain"
	"go.trai.ch/mindmap/internal/core/ports"
	"go.trai.ch/mindmap/internal/engine/session"
	"go.trai.ch/zerr"
)

type inboundResult struct {
	msg Inbound
	err error
}

// connection owns one session. Only its event loop touches the session and
// writes to the socket.
type connection struct {
	id   string
	srv  *Server
	ws   *websocket.Conn
	sess *session.Session

	pending       []Envelope
	minimapDirty  bool
	graphModified bool
}

func (s *Server) serveConn(ctx context.Context, ws *websocket.Conn) {
	defer func() { _ = ws.Close() }()

	id := uuid.NewString()
	cl, current := s.hub.register(id)
	defer s.hub.unregister(id)

	c := &connection{
		id:   id,
		srv:  s,
		ws:   ws,
		sess: session.New(s.cfg, s.sessionOptions()...),
	}
	unsubscribe := c.sess.Subscribe(c.collect)
	defer unsubscribe()

	inbound := make(chan inboundResult)
	go c.readLoop(ctx, inbound)

	c.send(MsgHello, HelloPayload{Session: id})
	if current != nil {
		c.sess.SetGraph(current)
	}
	if err := c.flush(); err != nil {
		return
	}
	s.logger.Debug("session " + id + " connected")
	defer s.logger.Debug("session " + id + " closed")

	ticker := time.NewTicker(s.cfg.Server.FrameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = ws.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
				time.Now().Add(time.Second))
			return
		case in, ok := <-inbound:
			if !ok {
				return
			}
			c.handle(ctx, in)
		case g := <-cl.graphs:
			c.sess.SetGraph(g)
		case req := <-cl.snaps:
			req.reply <- c.sess.Snapshot()
		case <-ticker.C:
			if c.sess.Animating() {
				c.sess.Frame()
			}
		}

		if err := c.flush(); err != nil {
			s.logger.Debug(fmt.Sprintf("session %s write: %v", id, err))
			return
		}
	}
}

func (c *connection) readLoop(ctx context.Context, out chan<- inboundResult) {
	defer close(out)
	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.srv.logger.Warn(fmt.Sprintf("session %s read: %v", c.id, err))
			}
			return
		}

		var res inboundResult
		if err := json.Unmarshal(data, &res.msg); err != nil {
			res.err = zerr.Wrap(err, domain.ErrInvalidMessage.Error())
		}
		select {
		case out <- res:
		case <-ctx.Done():
			return
		}
	}
}

//nolint:cyclop // one case per message type
func (c *connection) handle(ctx context.Context, in inboundResult) {
	if in.err != nil {
		c.sendError(in.err)
		return
	}

	m := in.msg
	_, span := c.srv.tracer.Start(ctx, "ws."+m.Type, ports.WithAttribute("session", c.id))
	defer span.End()

	switch m.Type {
	case MsgResize:
		c.sess.Resize(domain.Size{Width: m.Width, Height: m.Height})
	case MsgPointerDown:
		if id, ok := c.target(m); ok {
			c.sess.PointerDown(id, m.point())
		}
	case MsgPointerMove:
		c.sess.PointerMove(m.point())
	case MsgPointerUp:
		c.sess.PointerUp()
	case MsgClick:
		if id, ok := c.target(m); ok {
			c.sess.Click(id)
		}
	case MsgDoubleClick:
		if id, ok := c.target(m); ok {
			c.sess.DoubleClick(id)
		}
	case MsgDelete:
		if id, ok := c.target(m); ok {
			c.sess.RequestDelete(id)
		}
	case MsgResolveEdit:
		c.sess.ResolveEdit(m.RequestID, m.Value, m.OK)
	case MsgResolveDelete:
		c.sess.ResolveDelete(m.RequestID, m.OK)
	case MsgWheel:
		c.sess.Wheel(m.DeltaY, m.point())
	case MsgZoom:
		c.sess.ZoomAt(m.Factor, m.point())
	case MsgZoomIn:
		c.sess.ZoomIn()
	case MsgZoomOut:
		c.sess.ZoomOut()
	case MsgCenter:
		c.sess.CenterOnRoot()
	case MsgExport:
		if !c.sess.RequestExport() {
			span.RecordError(domain.ErrNothingToExport)
			c.sendError(domain.ErrNothingToExport)
		}
	default:
		err := zerr.With(domain.ErrUnknownMessage, "type", m.Type)
		span.RecordError(err)
		c.sendError(err)
	}
}

// target returns the node named by the message, or the node under its position.
func (c *connection) target(m Inbound) (string, bool) {
	if m.ID != "" {
		return m.ID, true
	}
	return c.sess.HitTest(m.point())
}

func (c *connection) collect(ev domain.Event) {
	switch e := ev.(type) {
	case domain.SceneChanged:
		c.send(e.EventName(), sceneToDTO(e))
		c.minimapDirty = true
	case domain.ViewportChanged:
		c.send(e.EventName(), TransformPayload{X: e.Transform.X, Y: e.Transform.Y, K: e.Transform.K})
		c.minimapDirty = true
	case domain.NavigateEvent:
		c.send(e.EventName(), NavigatePayload{FileName: e.FileName, Page: e.Page, SearchText: e.SearchText})
	case domain.EditRequested:
		c.send(e.EventName(), PromptPayload{RequestID: e.RequestID, NodeID: e.NodeID, Label: e.Label})
	case domain.DeleteRequested:
		c.send(e.EventName(), PromptPayload{RequestID: e.RequestID, NodeID: e.NodeID, Label: e.Label})
	case domain.GraphEdited:
		c.send(e.EventName(), EditedPayload{NodeID: e.NodeID, Label: e.Label, Deleted: e.Deleted})
		c.graphModified = true
	case domain.ExportRequested:
		q := url.Values{"session": {c.id}}.Encode()
		c.send(e.EventName(), ExportPayload{SVG: "/api/export.svg?" + q, PNG: "/api/export.png?" + q})
	}
}

func (c *connection) send(typ string, payload any) {
	c.pending = append(c.pending, Envelope{Type: typ, Payload: payload})
}

func (c *connection) sendError(err error) {
	c.send(MsgError, ErrorPayload{Message: err.Error()})
}

// flush writes queued messages, appending one minimap update if the scene or viewport moved.
func (c *connection) flush() error {
	if c.graphModified {
		c.graphModified = false
		c.srv.persistEdit(c.id, c.sess.Graph())
	}
	if c.minimapDirty {
		c.minimapDirty = false
		c.send(MsgMinimap, minimapToDTO(c.sess.Minimap()))
	}

	pending := c.pending
	c.pending = nil
	for _, env := range pending {
		if err := c.ws.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
			return err
		}
		if err := c.ws.WriteJSON(env); err != nil {
			return err
		}
	}
	return nil
}
