// Package pkg provides the core libraries for archgraph architecture analysis.
//
// # Overview
//
// Archgraph reads a registry of modules and their declared relationships,
// builds a directed graph from it and answers structural questions about the
// architecture: which modules form cycles, which dependency chains are
// longest, which modules are most connected and which references point at
// modules nobody declared. The pkg directory is organized into these areas:
//
//  1. [registry] - Registry types, JSON/YAML/TOML loading and ingestion checks
//  2. [graph] - The module graph and its serialized document form
//  3. [analysis] - Cycles, chains, connectivity ranking and validation
//  4. [render] - Mermaid and Graphviz DOT/SVG diagrams
//  5. [report] - The Markdown and JSON architecture report
//  6. [pipeline] - Orchestration (parse → analyze → render) with caching
//  7. [cache], [store] - Result caching and the run archive
//
// # Architecture
//
// The typical data flow through archgraph:
//
//	Registry file (JSON, YAML, TOML)
//	         ↓
//	    [registry] package (decode + validate)
//	         ↓
//	    [graph] package (nodes in registry order, one edge per relationship)
//	         ↓
//	    [analysis] package (cycles, chains, connectivity, validation)
//	         ↓
//	    [render] and [report] packages
//	         ↓
//	    Mermaid/DOT/SVG diagram + Markdown/JSON report
//
// # Quick Start
//
// Analyze a registry file and print its diagram:
//
//	import (
//	    "github.com/matzehuels/archgraph/pkg/analysis"
//	    "github.com/matzehuels/archgraph/pkg/graph"
//	    "github.com/matzehuels/archgraph/pkg/registry"
//	    "github.com/matzehuels/archgraph/pkg/render/mermaid"
//	)
//
//	reg, err := registry.Load("modules.yaml")
//	if err != nil {
//	    return err
//	}
//	g := graph.FromRegistry(reg)
//
//	for _, c := range analysis.FindCycles(g) {
//	    fmt.Println("cycle:", c)
//	}
//	fmt.Println(mermaid.Render(g, mermaid.Options{}))
//
// Most callers use [pipeline.Runner] instead, which adds caching and
// observability hooks and is shared by the CLI and the HTTP server.
//
// [registry]: github.com/matzehuels/archgraph/pkg/registry
// [graph]: github.com/matzehuels/archgraph/pkg/graph
// [analysis]: github.com/matzehuels/archgraph/pkg/analysis
// [render]: github.com/matzehuels/archgraph/pkg/render
// [report]: github.com/matzehuels/archgraph/pkg/report
// [pipeline]: github.com/matzehuels/archgraph/pkg/pipeline
// [pipeline.Runner]: github.com/matzehuels/archgraph/pkg/pipeline#Runner
// [cache]: github.com/matzehuels/archgraph/pkg/cache
// [store]: github.com/matzehuels/archgraph/pkg/store
package pkg
