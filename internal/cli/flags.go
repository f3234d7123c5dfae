package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/archgraph/pkg/pipeline"
)

// analysisFlags are shared by every command that runs the analyses.
type analysisFlags struct {
	maxFanOut int
	maxChains int
	noCache   bool
	refresh   bool
}

func (f *analysisFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.maxFanOut, "max-fan-out", pipeline.DefaultMaxFanOut, "warn when a module declares more relationships than this")
	cmd.Flags().IntVar(&f.maxChains, "max-chains", pipeline.DefaultMaxChains, "stop enumerating dependency chains after this many")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "recompute and overwrite cached results")
}

// diagramFlags select the diagram output. The format flag is "format" on the
// diagram command and "diagram-format" on analyze.
type diagramFlags struct {
	format    string
	direction string
	detailed  bool
}

func (f *diagramFlags) register(cmd *cobra.Command, formatFlag string) {
	cmd.Flags().StringVar(&f.format, formatFlag, pipeline.FormatMermaid, "diagram format: mermaid, dot, svg")
	cmd.Flags().StringVarP(&f.direction, "direction", "d", pipeline.DefaultDirection, "flow direction: TD, LR, BT, RL")
	cmd.Flags().BoolVar(&f.detailed, "detailed", false, "label DOT/SVG nodes with category and importance")
}

// reportFlags select the report output.
type reportFlags struct {
	format    string
	topN      int
	title     string
	timestamp bool
}

func (f *reportFlags) register(cmd *cobra.Command, formatFlag string) {
	cmd.Flags().StringVar(&f.format, formatFlag, pipeline.FormatText, "report format: text, json")
	cmd.Flags().IntVar(&f.topN, "top-n", pipeline.DefaultTopN, "number of most-connected modules to list")
	cmd.Flags().StringVar(&f.title, "title", "", "report title")
	cmd.Flags().BoolVar(&f.timestamp, "timestamp", false, "stamp the report with the generation time")
}

// options seeds pipeline options from the configuration and applies the
// flags the user actually set. Diagram and report flags may be nil.
func (c *CLI) options(cmd *cobra.Command, af *analysisFlags, df *diagramFlags, rf *reportFlags) (pipeline.Options, error) {
	opts := c.cfg().Options()
	opts.Logger = c.Logger
	changed := cmd.Flags().Changed

	if af != nil {
		opts.Refresh = af.refresh
		if changed("max-fan-out") {
			opts.MaxFanOut = af.maxFanOut
		}
		if changed("max-chains") {
			opts.MaxChains = af.maxChains
		}
	}
	if df != nil {
		opts.DiagramFormat = df.format
		opts.Detailed = df.detailed
		if changed("direction") {
			opts.Direction = df.direction
		}
	}
	if rf != nil {
		opts.ReportFormat = rf.format
		opts.Title = rf.title
		if changed("top-n") {
			opts.TopN = rf.topN
		}
		if rf.timestamp {
			opts.GeneratedAt = time.Now()
		}
	}

	if err := opts.ValidateAndSetDefaults(); err != nil {
		return opts, err
	}
	return opts, nil
}
