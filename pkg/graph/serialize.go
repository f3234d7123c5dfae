package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// =============================================================================
// Document - Node-Link Serialization
// =============================================================================

// Document is the node-link serialization of a Graph. It is used for JSON
// output, cache keys and archived runs.
//
// Nodes and edges keep registry order, so equal graphs always serialize to
// equal bytes.
type Document struct {
	Nodes []DocumentNode `json:"nodes" bson:"nodes"`
	Edges []DocumentEdge `json:"edges" bson:"edges"`
}

// DocumentNode is a serialized Node.
type DocumentNode struct {
	ID           string   `json:"id" bson:"id"`
	Label        string   `json:"label" bson:"label"`
	Category     string   `json:"category" bson:"category"`
	Importance   string   `json:"importance" bson:"importance"`
	Dependencies []string `json:"dependencies,omitempty" bson:"dependencies,omitempty"`
	Dependents   []string `json:"dependents,omitempty" bson:"dependents,omitempty"`
}

// DocumentEdge is a serialized Edge. Dangling marks edges whose target is not
// a node in the graph.
type DocumentEdge struct {
	From        string `json:"from" bson:"from"`
	To          string `json:"to" bson:"to"`
	Type        string `json:"type" bson:"type"`
	Description string `json:"description,omitempty" bson:"description,omitempty"`
	Dangling    bool   `json:"dangling,omitempty" bson:"dangling,omitempty"`
}

// ToDocument converts a Graph to its serialization form.
func ToDocument(g *Graph) Document {
	doc := Document{
		Nodes: make([]DocumentNode, 0, g.NodeCount()),
		Edges: make([]DocumentEdge, 0, g.EdgeCount()),
	}

	for _, n := range g.Nodes() {
		doc.Nodes = append(doc.Nodes, DocumentNode{
			ID:           n.ID,
			Label:        n.Label,
			Category:     string(n.Category),
			Importance:   string(n.Importance),
			Dependencies: n.Dependencies(),
			Dependents:   n.Dependents(),
		})
	}

	for _, e := range g.Edges() {
		doc.Edges = append(doc.Edges, DocumentEdge{
			From:        e.From,
			To:          e.To,
			Type:        string(e.Type),
			Description: e.Description,
			Dangling:    !g.Has(e.To),
		})
	}

	return doc
}

// Marshal converts a Graph to indented JSON bytes.
func Marshal(g *Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(g, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write writes a Graph as indented JSON to w.
func Write(g *Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(ToDocument(g)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
