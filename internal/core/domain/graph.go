package domain

import (
	"iter"

	"go.trai.ch/zerr"
)

// Graph is the flat model of a mind map: nodes in insertion order and directed links.
type Graph struct {
	nodes []Node
	index map[string]int
	links []Link
}

// NewGraph creates a new empty Graph.
func NewGraph() *Graph {
	return &Graph{
		index: make(map[string]int),
	}
}

// NewGraphFrom builds a graph from a feed. It is lenient: nodes with an empty or
// repeated id are skipped (the first occurrence wins) and links are kept even if
// an endpoint is unknown. Links without an id get one derived from their endpoints.
func NewGraphFrom(nodes []Node, links []Link) *Graph {
	g := NewGraph()
	for _, n := range nodes {
		_ = g.AddNode(n)
	}
	for _, l := range links {
		g.AddLink(l)
	}
	return g
}

// AddNode appends a node. It fails if the id is empty or already used.
func (g *Graph) AddNode(n Node) error {
	if n.ID == "" {
		return ErrEmptyNodeID
	}
	if _, exists := g.index[n.ID]; exists {
		return zerr.With(ErrDuplicateNode, "node_id", n.ID)
	}
	if n.Kind == "" {
		n.Kind = KindGeneric
	}
	g.index[n.ID] = len(g.nodes)
	g.nodes = append(g.nodes, n)
	return nil
}

// AddLink appends a link without checking its endpoints.
func (g *Graph) AddLink(l Link) {
	if l.ID == "" {
		l.ID = LinkID(l.Source, l.Target)
	}
	g.links = append(g.links, l)
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Node returns the node with the given id.
func (g *Graph) Node(id string) (Node, bool) {
	i, ok := g.index[id]
	if !ok {
		return Node{}, false
	}
	return g.nodes[i], true
}

// Has reports whether a node with the given id exists.
func (g *Graph) Has(id string) bool {
	_, ok := g.index[id]
	return ok
}

// Nodes yields the nodes in insertion order.
func (g *Graph) Nodes() iter.Seq[Node] {
	return func(yield func(Node) bool) {
		for _, n := range g.nodes {
			if !yield(n) {
				return
			}
		}
	}
}

// Links yields all links, including dangling ones, in insertion order.
func (g *Graph) Links() iter.Seq[Link] {
	return func(yield func(Link) bool) {
		for _, l := range g.links {
			if !yield(l) {
				return
			}
		}
	}
}

// ValidLinks yields the links whose endpoints both exist.
func (g *Graph) ValidLinks() iter.Seq[Link] {
	return func(yield func(Link) bool) {
		for _, l := range g.links {
			if !g.Has(l.Source) || !g.Has(l.Target) {
				continue
			}
			if !yield(l) {
				return
			}
		}
	}
}

// LinkCount returns the number of links, including dangling ones.
func (g *Graph) LinkCount() int {
	return len(g.links)
}

// SetLabel replaces the label of a node. It reports whether the node exists.
func (g *Graph) SetLabel(id, label string) bool {
	i, ok := g.index[id]
	if !ok {
		return false
	}
	g.nodes[i].Label = label
	return true
}

// RemoveNode deletes a node and every link that references it.
func (g *Graph) RemoveNode(id string) bool {
	i, ok := g.index[id]
	if !ok {
		return false
	}

	g.nodes = append(g.nodes[:i], g.nodes[i+1:]...)
	delete(g.index, id)
	for j := i; j < len(g.nodes); j++ {
		g.index[g.nodes[j].ID] = j
	}

	kept := g.links[:0]
	for _, l := range g.links {
		if l.Source == id || l.Target == id {
			continue
		}
		kept = append(kept, l)
	}
	clear(g.links[len(kept):])
	g.links = kept
	return true
}

// Clone returns a deep copy of the graph.
func (g *Graph) Clone() *Graph {
	c := &Graph{
		nodes: make([]Node, len(g.nodes)),
		index: make(map[string]int, len(g.index)),
		links: make([]Link, len(g.links)),
	}
	for i, n := range g.nodes {
		if n.Nav != nil {
			nav := *n.Nav
			n.Nav = &nav
		}
		c.nodes[i] = n
		c.index[n.ID] = i
	}
	copy(c.links, g.links)
	return c
}

// Validate checks that every link references existing nodes.
// The engine tolerates dangling links; hosts use this to reject malformed files.
func (g *Graph) Validate() error {
	for _, l := range g.links {
		if !g.Has(l.Source) {
			err := zerr.With(ErrDanglingLink, "link_id", l.ID)
			return zerr.With(err, "node_id", l.Source)
		}
		if !g.Has(l.Target) {
			err := zerr.With(ErrDanglingLink, "link_id", l.ID)
			return zerr.With(err, "node_id", l.Target)
		}
	}
	return nil
}
