// Package graph provides the in-memory architecture graph that every
// archgraph analysis runs over.
//
// # Overview
//
// A [Graph] is built once per run from registry records with [Build] and is
// read-only afterwards. Unlike a package-manager DAG, an architecture graph
// is authored by hand: it may contain cycles, self-references, repeated
// relationships and references to modules that were never declared. The
// builder keeps all of that visible instead of rejecting it:
//
//   - Each declared relationship becomes one [Edge]; nothing is merged.
//   - Edges to unknown targets are kept, but never create dependency links.
//   - Dependency and dependent sets are ordered and deduplicated.
//
// Integrity problems are reported later by the analysis validator.
//
// # Ordering
//
// Node iteration ([Graph.IDs], [Graph.Nodes]) follows registry order and edge
// iteration follows declaration order. No output in archgraph depends on map
// iteration order, which is what makes diagrams and reports byte-identical
// across runs.
//
// # Basic Usage
//
//	g := graph.Build([]registry.Module{
//	    {ID: "apps/web", Category: registry.CategoryService, Importance: registry.ImportanceCritical,
//	        Relationships: []registry.Relationship{{Target: "packages/core", Type: registry.RelationDependency}}},
//	    {ID: "packages/core", Category: registry.CategoryPackage, Importance: registry.ImportanceCritical},
//	})
//	g.Dependencies("apps/web")   // [packages/core]
//	g.Dependents("packages/core") // [apps/web]
//
// # Serialization
//
// [ToDocument] and [Marshal] produce a node-link document used for JSON
// output, cache keys and the run archive.
//
// # Concurrency
//
// A built Graph is never mutated, so concurrent readers need no
// synchronization.
package graph
