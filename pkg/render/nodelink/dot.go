package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/archgraph/pkg/graph"
	"github.com/matzehuels/archgraph/pkg/registry"
)

// Options configures node-link diagram rendering.
type Options struct {
	// RankDir is the Graphviz layout direction (TB, LR, BT, RL). Defaults to TB.
	RankDir string

	// Detailed adds the full module id and category under each label.
	// When false, only the short label is shown.
	Detailed bool
}

// ToDOT converts an architecture graph to Graphviz DOT format.
// The resulting DOT string can be rendered with [RenderSVG].
//
// Nodes are filled by importance and edges are labelled with their
// relationship type. Targets that are referenced but not declared are drawn
// once with a dashed red outline.
func ToDOT(g *graph.Graph, opts Options) string {
	rankdir := strings.ToUpper(opts.RankDir)
	if rankdir == "" || rankdir == "TD" {
		rankdir = "TB"
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", rankdir)
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [fontsize=10, color=\"#495057\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		attrs := fmtAttrs(n, fmtLabel(n, opts.Detailed))
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	seen := make(map[string]bool)
	for _, e := range g.Edges() {
		if g.Has(e.To) || seen[e.To] {
			continue
		}
		seen[e.To] = true
		fmt.Fprintf(&buf, "  %q [label=%q, style=\"rounded,dashed\", color=\"#fa5252\", fontcolor=\"#c92a2a\"];\n", e.To, e.To)
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		attrs := []string{fmt.Sprintf("label=%q", string(e.Type))}
		if style, ok := edgeStyles[e.Type]; ok {
			attrs = append(attrs, style)
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.From, e.To, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n graph.Node, detailed bool) string {
	if !detailed {
		return n.Label
	}
	return n.Label + "\n" + n.ID + "\n" + string(n.Category)
}

var importanceFills = map[registry.Importance]string{
	registry.ImportanceCritical:  "#ffe3e3",
	registry.ImportanceImportant: "#fff3bf",
	registry.ImportanceOptional:  "#e7f5ff",
	registry.ImportanceExcluded:  "#f1f3f5",
}

// Relationships that do not express a runtime dependency are drawn lighter.
var edgeStyles = map[registry.RelationType]string{
	registry.RelationDevDependency:  "style=dashed",
	registry.RelationPeerDependency: "style=dashed",
	registry.RelationTests:          "style=dotted",
	registry.RelationDocuments:      "style=dotted",
	registry.RelationRelated:        "style=dotted, arrowhead=none",
}

func fmtAttrs(n graph.Node, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if fill, ok := importanceFills[n.Importance]; ok {
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", fill))
	}
	if n.Importance == registry.ImportanceExcluded {
		attrs = append(attrs, "fontcolor=\"#495057\"")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-based svg header with one whose
// width and height match the viewBox, so the SVG scales in browsers.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(header))
}
