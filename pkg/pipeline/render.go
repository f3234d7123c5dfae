package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/archgraph/pkg/graph"
	"github.com/matzehuels/archgraph/pkg/render/mermaid"
	"github.com/matzehuels/archgraph/pkg/render/nodelink"
	"github.com/matzehuels/archgraph/pkg/report"
)

// RenderDiagram renders g in opts.DiagramFormat.
func RenderDiagram(ctx context.Context, g *graph.Graph, opts Options) ([]byte, error) {
	switch opts.DiagramFormat {
	case FormatMermaid:
		out := mermaid.Render(g, mermaid.Options{Direction: mermaid.Direction(opts.Direction)})
		return []byte(out), nil
	case FormatDOT:
		return []byte(toDOT(g, opts)), nil
	case FormatSVG:
		data, err := nodelink.RenderSVG(ctx, toDOT(g, opts))
		if err != nil {
			return nil, fmt.Errorf("render svg: %w", err)
		}
		return data, nil
	}
	return nil, ValidateDiagramFormat(opts.DiagramFormat)
}

func toDOT(g *graph.Graph, opts Options) string {
	return nodelink.ToDOT(g, nodelink.Options{
		RankDir:  opts.Direction,
		Detailed: opts.Detailed,
	})
}

// BuildReport assembles the structured report for g from the analysis results.
func BuildReport(g *graph.Graph, a *Analysis, opts Options) report.Report {
	return report.Generate(report.Input{
		Graph:        g,
		Cycles:       a.Cycles,
		Chains:       a.Chains,
		Connectivity: a.Connectivity,
		Validation:   a.Validation,
		Metrics:      a.Metrics,
	}, opts.ReportOptions())
}

// FormatReport serializes rep in the given report format.
func FormatReport(rep report.Report, format string) ([]byte, error) {
	switch format {
	case FormatText:
		return []byte(rep.Text()), nil
	case FormatJSON:
		data, err := rep.JSON()
		if err != nil {
			return nil, fmt.Errorf("encode report: %w", err)
		}
		return data, nil
	}
	return nil, ValidateReportFormat(format)
}
