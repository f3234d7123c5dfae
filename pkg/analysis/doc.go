// Package analysis derives structural facts from an architecture graph.
//
// # Overview
//
// Every function in this package is a pure, read-only pass over a built
// [graph.Graph]. None of them mutate the graph or keep state between calls,
// so they can run concurrently over the same snapshot:
//
//   - [FindCycles] reports dependency cycles via depth-first search with an
//     explicit on-stack coloring.
//   - [FindChains] enumerates maximal simple dependency paths from every root.
//   - [RankConnectivity] orders modules by degree and lists isolated ones.
//   - [Validate] reports dangling references as errors and structural smells
//     (isolation, high fan-out, cycles, repeated ids) as warnings, so Errors
//     is non-empty exactly when some edge names an unknown module.
//   - [ComputeMetrics] loads the dependency links into a gonum graph for
//     density, strongly and weakly connected component counts, and the
//     most-imported and most-importing rankings.
//
// FindCycles and FindChains walk the graph themselves rather than using
// gonum's topo package: their output order follows registry order root by
// root, and chains deliberately repeat suffixes (see below).
//
// # Ordering
//
// All results follow registry order: roots are visited in the order modules
// were declared and neighbors in the order relationships were declared.
// Sorted outputs use stable sorts, so ties never depend on map iteration.
//
// # Cycles Are Not Fatal
//
// Unlike a package-manager dependency graph, module relationships such as
// "tests" or "documents" legitimately point back at each other. Cycles are
// therefore reported as a single warning by [Validate], never as an error,
// and [FindChains] simply refuses to revisit a node already on the current
// path.
//
// # Duplicate Chains
//
// [FindChains] starts a traversal at every module. For A → B → C it reports
// both [A B C] and [B C]. This is the intended contract: the result is every
// maximal path seen from each root, not a minimal cover.
package analysis
