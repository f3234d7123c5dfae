package graph

import (
	"slices"

	"github.com/matzehuels/archgraph/pkg/registry"
)

// Build constructs a Graph from registry records. It never fails.
//
// Every declared relationship becomes exactly one [Edge], in declaration
// order. Relationships to a known target also link the pair: the target is
// added to the source's dependencies and the source to the target's
// dependents (both deduplicated), and the type is recorded in the source's
// relationship types. Relationships to an unknown target produce an edge but
// no links; detecting them is the validator's job.
//
// A repeated id keeps its first record's classification. Later records with
// the same id contribute their relationships to that node and are listed by
// [Graph.Duplicates].
func Build(modules []registry.Module) *Graph {
	g := &Graph{
		nodes: make(map[string]*Node, len(modules)),
		order: make([]string, 0, len(modules)),
	}

	for _, m := range modules {
		if _, exists := g.nodes[m.ID]; exists {
			g.duplicates = append(g.duplicates, m.ID)
			continue
		}
		g.nodes[m.ID] = &Node{
			ID:         m.ID,
			Label:      Label(m.ID),
			Category:   m.Category,
			Importance: m.Importance,
			relTypes:   make(map[string][]registry.RelationType),
		}
		g.order = append(g.order, m.ID)
	}

	for _, m := range modules {
		from := g.nodes[m.ID]
		for _, rel := range m.Relationships {
			g.edges = append(g.edges, Edge{
				From:        m.ID,
				To:          rel.Target,
				Type:        rel.Type,
				Description: rel.Description,
			})

			to, ok := g.nodes[rel.Target]
			if !ok {
				continue
			}
			if !slices.Contains(from.dependencies, to.ID) {
				from.dependencies = append(from.dependencies, to.ID)
			}
			if !slices.Contains(to.dependents, from.ID) {
				to.dependents = append(to.dependents, from.ID)
			}
			from.relTypes[to.ID] = append(from.relTypes[to.ID], rel.Type)
		}
	}

	return g
}

// FromRegistry is a convenience wrapper around [Build].
func FromRegistry(reg *registry.Registry) *Graph {
	return Build(reg.Modules)
}
