package analysis

import (
	"slices"
	"strings"

	"github.com/matzehuels/archgraph/pkg/graph"
)

// Cycle is a sequence of node ids [n0, n1, …, nk] meaning
// n0 → n1 → … → nk → n0. A self-referencing node is a one-element cycle.
type Cycle []string

// String formats the cycle with its start node repeated at the end,
// e.g. "a → b → a".
func (c Cycle) String() string {
	if len(c) == 0 {
		return ""
	}
	return strings.Join(append(slices.Clone(c), c[0]), " → ")
}

// FindCycles returns every cycle found by a depth-first traversal along
// dependencies. Roots are tried in registry order and neighbors in
// dependency order.
//
// A node is explored at most once, so the same structural cycle is reported
// once, starting at whichever of its nodes the traversal entered first.
// Cycles are not rotated to a canonical start. Returns nil for an acyclic
// graph.
func FindCycles(g *graph.Graph) []Cycle {
	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int, g.NodeCount())
	var path []string
	var cycles []Cycle

	var dfs func(id string)
	dfs = func(id string) {
		color[id] = gray
		path = append(path, id)
		for _, next := range g.Dependencies(id) {
			switch color[next] {
			case white:
				dfs(next)
			case gray:
				start := slices.Index(path, next)
				cycles = append(cycles, Cycle(slices.Clone(path[start:])))
			}
		}
		path = path[:len(path)-1]
		color[id] = black
	}

	for _, id := range g.IDs() {
		if color[id] == white {
			dfs(id)
		}
	}
	return cycles
}
