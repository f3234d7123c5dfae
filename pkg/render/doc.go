// Package render groups the diagram backends for architecture graphs.
//
// # Overview
//
// All target-format syntax lives below this directory. The graph builder
// and the analyses never produce markup, so a new backend only needs a
// [graph.Graph]:
//
//   - [mermaid]: Mermaid flowchart source, the default diagram format
//   - [nodelink]: Graphviz DOT source and in-process SVG rendering
//
// Both backends emit nodes in registry order and edges in declaration order,
// so the same registry always yields the same bytes.
//
//	src := mermaid.Render(g, mermaid.Options{})
//	dot := nodelink.ToDOT(g, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// [graph.Graph]: github.com/matzehuels/archgraph/pkg/graph
// [mermaid]: github.com/matzehuels/archgraph/pkg/render/mermaid
// [nodelink]: github.com/matzehuels/archgraph/pkg/render/nodelink
package render
