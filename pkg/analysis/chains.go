package analysis

import (
	"slices"
	"strings"

	"github.com/matzehuels/archgraph/pkg/graph"
)

// Chain is a simple dependency path of at least two node ids.
type Chain []string

// String formats the chain as "a → b → c".
func (c Chain) String() string { return strings.Join(c, " → ") }

// ChainOptions configures FindChains.
type ChainOptions struct {
	// Limit caps the number of recorded chains. Zero means no limit.
	Limit int
}

// ChainResult holds the chains found by FindChains, longest first.
type ChainResult struct {
	Chains    []Chain `json:"chains"`
	Truncated bool    `json:"truncated,omitempty"`
}

// Longest returns up to n chains from the front of the result.
func (r ChainResult) Longest(n int) []Chain {
	if n < 0 || n > len(r.Chains) {
		n = len(r.Chains)
	}
	return r.Chains[:n]
}

// FindChains enumerates maximal simple dependency paths by running a
// depth-first traversal from every node in registry order.
//
// A path is extended with each dependency that is not already on it. When no
// such dependency remains the path is maximal and, if it holds more than one
// node, is recorded. Every root is explored independently, so the tail of a
// chain is reported again as its own chain when the traversal starts further
// down. Callers that need a minimal path cover must filter the result.
//
// Chains are sorted by length, longest first; chains of equal length keep
// discovery order. If opts.Limit is reached, enumeration stops and the result
// is marked Truncated.
func FindChains(g *graph.Graph, opts ChainOptions) ChainResult {
	var res ChainResult
	onPath := make(map[string]bool)
	var path []string

	var dfs func(id string) bool
	dfs = func(id string) bool {
		onPath[id] = true
		path = append(path, id)
		defer func() {
			path = path[:len(path)-1]
			delete(onPath, id)
		}()

		extended := false
		for _, next := range g.Dependencies(id) {
			if onPath[next] {
				continue
			}
			extended = true
			if !dfs(next) {
				return false
			}
		}

		if !extended && len(path) > 1 {
			if opts.Limit > 0 && len(res.Chains) >= opts.Limit {
				res.Truncated = true
				return false
			}
			res.Chains = append(res.Chains, Chain(slices.Clone(path)))
		}
		return true
	}

	for _, id := range g.IDs() {
		if !dfs(id) {
			break
		}
	}

	slices.SortStableFunc(res.Chains, func(a, b Chain) int {
		return len(b) - len(a)
	})
	return res
}
