// Package domain contains the core models of the mind map: graph, hierarchy, geometry and scene.
package domain

import "strings"

// NodeKind categorizes a node. It only affects styling.
type NodeKind string

const (
	// KindRoot marks the node that represents the whole map.
	KindRoot NodeKind = "root"
	// KindSource marks a node that points into a source document.
	KindSource NodeKind = "source"
	// KindGeneric is used for every other node.
	KindGeneric NodeKind = "generic"
)

// ColorToken is an opaque style token (for example "#8B5CF6" or "accent").
type ColorToken string

// NavigationRef points into a source document.
type NavigationRef struct {
	SourceDocument string
	// PageNumber is 1-based.
	PageNumber   int
	SectionTitle string
}

// Usable reports whether the reference can drive a navigation.
func (r *NavigationRef) Usable() bool {
	return r != nil && strings.TrimSpace(r.SourceDocument) != "" && r.PageNumber >= 1
}

// Node is a single concept in the map.
type Node struct {
	ID    string
	Label string
	Color ColorToken
	Kind  NodeKind
	Nav   *NavigationRef
}

// Link is a directed parent to child relation.
type Link struct {
	ID     string
	Source string
	Target string
}

// LinkID returns the id used for a link that was given none.
func LinkID(source, target string) string {
	return source + "->" + target
}
