package analysis

import (
	"slices"

	"github.com/matzehuels/archgraph/pkg/graph"
)

// Ranked is one entry of the connectivity ranking.
type Ranked struct {
	ID           string `json:"id"`
	Label        string `json:"label"`
	Dependencies int    `json:"dependencies"`
	Dependents   int    `json:"dependents"`
}

// Degree returns Dependencies + Dependents.
func (r Ranked) Degree() int { return r.Dependencies + r.Dependents }

// Connectivity is the output of RankConnectivity.
type Connectivity struct {
	Ranked   []Ranked `json:"ranked"`
	Isolated []string `json:"isolated"`
}

// Top returns up to n entries from the front of the ranking.
func (c Connectivity) Top(n int) []Ranked {
	if n < 0 || n > len(c.Ranked) {
		n = len(c.Ranked)
	}
	return c.Ranked[:n]
}

// RankConnectivity orders nodes by total degree, highest first. Ties keep
// registry order. Isolated lists the ids of nodes with no dependencies and no
// dependents, in registry order.
func RankConnectivity(g *graph.Graph) Connectivity {
	c := Connectivity{Ranked: make([]Ranked, 0, g.NodeCount())}
	for _, n := range g.Nodes() {
		c.Ranked = append(c.Ranked, Ranked{
			ID:           n.ID,
			Label:        n.Label,
			Dependencies: n.FanOut(),
			Dependents:   n.FanIn(),
		})
		if n.IsIsolated() {
			c.Isolated = append(c.Isolated, n.ID)
		}
	}
	slices.SortStableFunc(c.Ranked, func(a, b Ranked) int {
		return b.Degree() - a.Degree()
	})
	return c
}
