package domain

import "iter"

// RootSentinelID is the id conventionally given to the root by feed producers.
const RootSentinelID = "1"

// TreeNode is a node placed in the visible hierarchy.
type TreeNode struct {
	Node     Node
	Parent   *TreeNode
	Children []*TreeNode
	Depth    int
	// Collapsed is set when the node is in the collapse set and has children it hides.
	Collapsed bool
}

// ID returns the id of the underlying node.
func (n *TreeNode) ID() string {
	return n.Node.ID
}

// Tree is the visible hierarchy derived from a graph and a collapse set.
type Tree struct {
	Root  *TreeNode
	index map[string]*TreeNode
	order []*TreeNode
}

// Len returns the number of visible nodes.
func (t *Tree) Len() int {
	if t == nil {
		return 0
	}
	return len(t.order)
}

// Find returns the visible node with the given id, or nil.
func (t *Tree) Find(id string) *TreeNode {
	if t == nil {
		return nil
	}
	return t.index[id]
}

// Walk yields the visible nodes in pre-order.
func (t *Tree) Walk() iter.Seq[*TreeNode] {
	return func(yield func(*TreeNode) bool) {
		if t == nil {
			return
		}
		for _, n := range t.order {
			if !yield(n) {
				return
			}
		}
	}
}

// Descendants returns the ids of all visible descendants of id, excluding id itself.
func (t *Tree) Descendants(id string) []string {
	start := t.Find(id)
	if start == nil {
		return nil
	}
	var out []string
	stack := append([]*TreeNode(nil), start.Children...)
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out = append(out, n.ID())
		stack = append(stack, n.Children...)
	}
	return out
}

// NearestVisibleAncestor walks up the parent chain of a node as it was placed in
// prev and returns the first ancestor that is still visible in t.
func (t *Tree) NearestVisibleAncestor(prev *Tree, id string) *TreeNode {
	n := prev.Find(id)
	if n == nil {
		return nil
	}
	for p := n.Parent; p != nil; p = p.Parent {
		if found := t.Find(p.ID()); found != nil {
			return found
		}
	}
	return nil
}

// RootID picks the root of a graph.
//
// A node is a candidate when no valid link targets it. A single candidate is the
// root. With several candidates (or none) the sentinel id "1" wins if present,
// then the first candidate in insertion order, then the first node.
func RootID(g *Graph) (string, bool) {
	if g == nil || g.Len() == 0 {
		return "", false
	}

	targeted := make(map[string]struct{})
	for l := range g.ValidLinks() {
		targeted[l.Target] = struct{}{}
	}

	var candidates []string
	for n := range g.Nodes() {
		if _, ok := targeted[n.ID]; !ok {
			candidates = append(candidates, n.ID)
		}
	}

	if len(candidates) == 1 {
		return candidates[0], true
	}
	if g.Has(RootSentinelID) {
		return RootSentinelID, true
	}
	if len(candidates) > 0 {
		return candidates[0], true
	}
	for n := range g.Nodes() {
		return n.ID, true
	}
	return "", false
}

// BuildHierarchy derives the visible tree. Each id is placed at most once: a child
// that was already reached (a cycle or a second parent) is skipped. Collapsed ids
// keep their node but contribute no children. Nodes not reachable from the root
// are not part of the tree. An empty graph yields nil.
func BuildHierarchy(g *Graph, collapsed map[string]struct{}) *Tree {
	rootID, ok := RootID(g)
	if !ok {
		return nil
	}

	adjacency := make(map[string][]string)
	for l := range g.ValidLinks() {
		adjacency[l.Source] = append(adjacency[l.Source], l.Target)
	}

	t := &Tree{index: make(map[string]*TreeNode)}

	var expand func(id string, parent *TreeNode, depth int) *TreeNode
	expand = func(id string, parent *TreeNode, depth int) *TreeNode {
		node, _ := g.Node(id)
		tn := &TreeNode{Node: node, Parent: parent, Depth: depth}
		t.index[id] = tn
		t.order = append(t.order, tn)

		children := adjacency[id]
		if _, isCollapsed := collapsed[id]; isCollapsed {
			tn.Collapsed = len(children) > 0
			return tn
		}

		for _, childID := range children {
			if _, seen := t.index[childID]; seen {
				continue
			}
			tn.Children = append(tn.Children, expand(childID, tn, depth+1))
		}
		return tn
	}

	t.Root = expand(rootID, nil, 0)
	return t
}
