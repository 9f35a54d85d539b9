package server

import (
	"context"
	"sync"

	"go.trai.ch/mindmap/internal/core/domain"
)

type snapshotRequest struct {
	reply chan *domain.Snapshot
}

// client is the hub's view of one websocket connection.
type client struct {
	// graphs holds at most the latest undelivered graph.
	graphs chan *domain.Graph
	snaps  chan snapshotRequest
	// done is closed once the connection has left the hub.
	done chan struct{}
}

// Hub tracks live connections and the current graph. Graph replacements
// reach every connection; a connection that is still busy only sees the latest one.
type Hub struct {
	mu      sync.Mutex
	clients map[string]*client
	current *domain.Graph
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[string]*client)}
}

// Current returns a copy of the latest graph, or nil.
func (h *Hub) Current() *domain.Graph {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.current == nil {
		return nil
	}
	return h.current.Clone()
}

// Len returns the number of live connections.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Publish makes g the current graph and sends it to every connection.
func (h *Hub) Publish(g *domain.Graph) {
	h.PublishFrom("", g)
}

// PublishFrom is Publish without echoing the graph back to the origin connection.
func (h *Hub) PublishFrom(origin string, g *domain.Graph) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.current = g.Clone()
	for id, c := range h.clients {
		if id == origin {
			continue
		}
		select {
		case <-c.graphs:
		default:
		}
		c.graphs <- h.current.Clone()
	}
}

// Snapshot asks the connection with the given id for its current view.
func (h *Hub) Snapshot(ctx context.Context, id string) (*domain.Snapshot, bool) {
	h.mu.Lock()
	c, ok := h.clients[id]
	h.mu.Unlock()
	if !ok {
		return nil, false
	}

	req := snapshotRequest{reply: make(chan *domain.Snapshot, 1)}
	select {
	case c.snaps <- req:
	case <-c.done:
		return nil, false
	case <-ctx.Done():
		return nil, false
	}
	select {
	case snap := <-req.reply:
		return snap, true
	case <-c.done:
		return nil, false
	case <-ctx.Done():
		return nil, false
	}
}

func (h *Hub) register(id string) (*client, *domain.Graph) {
	h.mu.Lock()
	defer h.mu.Unlock()

	c := &client{
		graphs: make(chan *domain.Graph, 1),
		snaps:  make(chan snapshotRequest),
		done:   make(chan struct{}),
	}
	h.clients[id] = c

	var current *domain.Graph
	if h.current != nil {
		current = h.current.Clone()
	}
	return c, current
}

func (h *Hub) unregister(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.clients[id]; ok {
		close(c.done)
		delete(h.clients, id)
	}
}
