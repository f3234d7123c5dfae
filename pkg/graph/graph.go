package graph

import (
	"slices"
	"strings"

	"github.com/matzehuels/archgraph/pkg/registry"
)

// Node is one module in the architecture graph.
//
// Dependency and dependent sets are ordered and deduplicated. They only ever
// name nodes that exist in the graph; references to unknown modules survive
// as edges but never as links.
type Node struct {
	ID         string              // Unique identifier from the registry
	Label      string              // Short display name, see [Label]
	Category   registry.Category   // Styling only
	Importance registry.Importance // Styling only

	dependencies []string
	dependents   []string
	relTypes     map[string][]registry.RelationType
}

// Dependencies returns the ids this node declares a relationship to, in
// declaration order. The returned slice is a copy.
func (n Node) Dependencies() []string { return slices.Clone(n.dependencies) }

// Dependents returns the ids of nodes that declare a relationship to this
// node, in the order those declarations were processed. The returned slice is a copy.
func (n Node) Dependents() []string { return slices.Clone(n.dependents) }

// FanOut returns the number of distinct known dependencies.
func (n Node) FanOut() int { return len(n.dependencies) }

// FanIn returns the number of distinct known dependents.
func (n Node) FanIn() int { return len(n.dependents) }

// Degree returns FanOut + FanIn.
func (n Node) Degree() int { return len(n.dependencies) + len(n.dependents) }

// IsIsolated reports whether the node has neither dependencies nor dependents.
func (n Node) IsIsolated() bool { return n.Degree() == 0 }

// RelationshipTypes returns the relationship types declared from this node to
// target, in declaration order. A pair may carry the same type twice if the
// registry declares it twice.
func (n Node) RelationshipTypes(target string) []registry.RelationType {
	return slices.Clone(n.relTypes[target])
}

// Edge is a single declared relationship. Edges are never merged: two
// declarations between the same pair produce two edges.
type Edge struct {
	From        string
	To          string
	Type        registry.RelationType
	Description string
}

// Graph is the immutable architecture graph produced by [Build].
//
// All accessors return copies, and iteration order is always the registry
// declaration order captured at build time. Graph is safe for concurrent
// reads.
type Graph struct {
	nodes      map[string]*Node
	order      []string
	edges      []Edge
	duplicates []string
}

// Node returns a copy of the node with the given id and true, or the zero
// Node and false if the id is unknown.
func (g *Graph) Node(id string) (Node, bool) {
	n, ok := g.nodes[id]
	if !ok {
		return Node{}, false
	}
	return *n, true
}

// Has reports whether id names a node in the graph.
func (g *Graph) Has(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// IDs returns node ids in registry order.
func (g *Graph) IDs() []string { return slices.Clone(g.order) }

// Nodes returns all nodes in registry order.
func (g *Graph) Nodes() []Node {
	out := make([]Node, len(g.order))
	for i, id := range g.order {
		out[i] = *g.nodes[id]
	}
	return out
}

// Edges returns a copy of all edges in declaration order, including edges
// whose target is not a known node.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.order) }

// EdgeCount returns the number of edges, dangling ones included.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Dependencies returns the known dependencies of id, or nil if id is unknown.
func (g *Graph) Dependencies(id string) []string {
	if n, ok := g.nodes[id]; ok {
		return slices.Clone(n.dependencies)
	}
	return nil
}

// Dependents returns the known dependents of id, or nil if id is unknown.
func (g *Graph) Dependents(id string) []string {
	if n, ok := g.nodes[id]; ok {
		return slices.Clone(n.dependents)
	}
	return nil
}

// Duplicates returns ids that appeared more than once in the registry, once
// per extra occurrence, in the order they were seen.
func (g *Graph) Duplicates() []string { return slices.Clone(g.duplicates) }

// LabelOf returns the display label of a known node, or the derived label of
// an unknown id.
func (g *Graph) LabelOf(id string) string {
	if n, ok := g.nodes[id]; ok {
		return n.Label
	}
	return Label(id)
}

// Label derives the short display name of a module id: its last two path
// segments. Backslashes count as separators and empty segments are ignored.
func Label(id string) string {
	parts := strings.FieldsFunc(id, func(r rune) bool { return r == '/' || r == '\\' })
	if len(parts) == 0 {
		return id
	}
	if len(parts) > 2 {
		parts = parts[len(parts)-2:]
	}
	return strings.Join(parts, "/")
}
