package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/archgraph/pkg/graph"
	"github.com/matzehuels/archgraph/pkg/pipeline"
	"github.com/matzehuels/archgraph/pkg/registry"
)

// diagramCommand creates the diagram command.
func (c *CLI) diagramCommand() *cobra.Command {
	var (
		af     analysisFlags
		df     diagramFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "diagram <registry>",
		Short: "Render the dependency diagram of a registry",
		Long: `Render the dependency diagram of a module registry.

Mermaid output is a flowchart with one node per module and one labeled arrow
per relationship. DOT output can be fed to Graphviz; SVG is laid out with an
embedded Graphviz. Undeclared targets get a dashed outline in DOT/SVG.`,
		Example: `  archgraph diagram modules.yaml
  archgraph diagram modules.yaml --format svg --direction LR -o modules.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.options(cmd, &af, &df, nil)
			if err != nil {
				return err
			}
			return c.runDiagram(cmd.Context(), cmd.OutOrStdout(), args[0], opts, af.noCache, output)
		},
	}

	af.register(cmd)
	df.register(cmd, "format")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")

	return cmd
}

func (c *CLI) runDiagram(ctx context.Context, stdout io.Writer, path string, opts pipeline.Options, noCache bool, output string) error {
	g, err := loadGraph(path)
	if err != nil {
		return err
	}

	runner := c.newRunner(ctx, noCache)
	defer runner.Close()

	data, hit, err := runner.RenderDiagramWithCacheInfo(ctx, g, opts)
	if err != nil {
		return err
	}
	c.Logger.Debug("rendered diagram", "format", opts.DiagramFormat, "bytes", len(data), "cached", hit)
	return writeOutput(stdout, output, data)
}

// reportCommand creates the report command.
func (c *CLI) reportCommand() *cobra.Command {
	var (
		af     analysisFlags
		rf     reportFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "report <registry>",
		Short: "Generate the analysis report of a registry",
		Long: `Generate the analysis report of a module registry.

The text report is Markdown: overview counts, category breakdown, most
connected modules, longest dependency chains, isolated modules, cycles and the
validation result. The JSON report carries the same data.`,
		Example: `  archgraph report modules.yaml
  archgraph report modules.yaml --format json --top-n 5 -o report.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.options(cmd, &af, nil, &rf)
			if err != nil {
				return err
			}
			return c.runReport(cmd.Context(), cmd.OutOrStdout(), args[0], opts, af.noCache, output)
		},
	}

	af.register(cmd)
	rf.register(cmd, "format")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")

	return cmd
}

func (c *CLI) runReport(ctx context.Context, stdout io.Writer, path string, opts pipeline.Options, noCache bool, output string) error {
	g, err := loadGraph(path)
	if err != nil {
		return err
	}

	runner := c.newRunner(ctx, noCache)
	defer runner.Close()

	a, err := runner.Analyze(ctx, g, opts)
	if err != nil {
		return err
	}
	data, err := runner.RenderReport(ctx, g, a, opts)
	if err != nil {
		return err
	}
	return writeOutput(stdout, output, data)
}

// loadGraph reads, validates and builds the registry at path.
func loadGraph(path string) (*graph.Graph, error) {
	reg, err := registry.Load(path)
	if err != nil {
		return nil, err
	}
	return pipeline.Parse(reg)
}
