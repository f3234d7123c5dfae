// Package nodelink renders architecture graphs as Graphviz node-link diagrams.
//
// # Overview
//
// This is the second diagram backend next to [mermaid]. It produces DOT
// source that can be rendered in-process to SVG or handed to external
// Graphviz tooling.
//
// # Usage
//
//	dot := nodelink.ToDOT(g, nodelink.Options{RankDir: "LR"})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Styling
//
//   - Node fill follows importance (critical red, important amber, optional
//     blue, excluded grey).
//   - Edge labels carry the relationship type. Dev, peer, test, doc and
//     "related" relationships are dashed or dotted.
//   - Undeclared targets are drawn with a dashed red outline.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering; no Graphviz installation is required.
//
// [mermaid]: github.com/matzehuels/archgraph/pkg/render/mermaid
package nodelink
