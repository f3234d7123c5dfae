package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	apperrors "github.com/matzehuels/archgraph/pkg/errors"
	"github.com/matzehuels/archgraph/pkg/pipeline"
	"github.com/matzehuels/archgraph/pkg/registry"
	"github.com/matzehuels/archgraph/pkg/store"
)

// analyzeCommand creates the analyze command, which runs the full pipeline.
func (c *CLI) analyzeCommand() *cobra.Command {
	var (
		af      analysisFlags
		df      diagramFlags
		rf      reportFlags
		output  string
		archive bool
	)

	cmd := &cobra.Command{
		Use:   "analyze <registry>",
		Short: "Analyze a registry and write its diagram, report and validation result",
		Long: `Analyze a module registry (JSON, YAML or TOML).

The analyze command builds the dependency graph, finds cycles and dependency
chains, ranks modules by connectivity and checks for dangling references. It
writes three artifacts:

  diagram.mmd|dot|svg   the dependency diagram
  report.md|json        the analysis report
  validation.json       the validation result

With --output the artifacts are written into that directory; otherwise they
are printed to stdout in that order. All artifacts are written even when the
registry has validation errors; the command then exits with status 1.

Results are cached locally for faster subsequent runs.`,
		Example: `  archgraph analyze modules.yaml
  archgraph analyze modules.json -o out --diagram-format svg --detailed
  archgraph analyze modules.toml --archive`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.options(cmd, &af, &df, &rf)
			if err != nil {
				return err
			}
			return c.runAnalyze(cmd.Context(), cmd.OutOrStdout(), args[0], opts, af.noCache, output, archive)
		},
	}

	af.register(cmd)
	df.register(cmd, "diagram-format")
	rf.register(cmd, "report-format")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output directory (default: stdout)")
	cmd.Flags().BoolVar(&archive, "archive", false, "save the run to the archive")

	return cmd
}

// runAnalyze executes the pipeline and writes its artifacts.
func (c *CLI) runAnalyze(ctx context.Context, stdout io.Writer, path string, opts pipeline.Options, noCache bool, output string, archive bool) error {
	reg, err := registry.Load(path)
	if err != nil {
		return err
	}

	runner := c.newRunner(ctx, noCache)
	defer runner.Close()

	prog := newProgress(loggerFromContext(ctx))
	var result *pipeline.Result
	err = spin(ctx, "Analyzing "+path+"...", "", func() error {
		result, err = runner.Execute(ctx, reg, opts)
		return err
	})
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Analyzed %d modules", result.Stats.NodeCount))

	printSuccess("Analyzed %s", path)
	printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.CacheInfo.AnalyzeHit)
	v := result.Analysis.Validation
	printValidation(v.Valid, v.Errors, v.Warnings)

	validation, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode validation: %w", err)
	}

	artifacts := []struct {
		name string
		data []byte
	}{
		{"diagram" + diagramExt(opts.DiagramFormat), result.Diagram},
		{"report" + reportExt(opts.ReportFormat), result.ReportOutput},
		{"validation.json", validation},
	}
	for _, a := range artifacts {
		target := ""
		if output != "" {
			if target, err = outputPath(output, a.name); err != nil {
				return err
			}
		}
		if err := writeOutput(stdout, target, a.data); err != nil {
			return err
		}
	}

	if archive {
		if err := c.archiveRun(ctx, result, opts); err != nil {
			return err
		}
	}
	if !v.Valid {
		return apperrors.New(apperrors.ErrCodeInvalidRegistry, "%s: %d validation errors", path, len(v.Errors))
	}
	return nil
}

// archiveRun saves result to the configured run archive.
func (c *CLI) archiveRun(ctx context.Context, result *pipeline.Result, opts pipeline.Options) error {
	st, err := c.openStore(ctx)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer st.Close(ctx)

	run := store.NewRun(result, opts, time.Now())
	if err := st.Save(ctx, run); err != nil {
		return fmt.Errorf("archive run: %w", err)
	}
	printInfo("Archived run %s", StyleHighlight.Render(run.ID))
	printNextStep("Show it again", "archgraph runs show "+run.ID)
	return nil
}

// validateCommand creates the validate command.
func (c *CLI) validateCommand() *cobra.Command {
	var (
		af     analysisFlags
		format string
	)

	cmd := &cobra.Command{
		Use:   "validate <registry>",
		Short: "Check a registry for dangling references and structural problems",
		Long: `Check a module registry for dangling references, duplicate ids, isolated
modules, excessive fan-out and cycles.

Errors make the command exit with status 1. Warnings are printed but never
fail validation.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := pipeline.ValidateReportFormat(format); err != nil {
				return err
			}
			opts, err := c.options(cmd, &af, nil, nil)
			if err != nil {
				return err
			}
			return c.runValidate(cmd.Context(), cmd.OutOrStdout(), args[0], opts, af.noCache, format)
		},
	}

	af.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", pipeline.FormatText, "output format: text, json")

	return cmd
}

func (c *CLI) runValidate(ctx context.Context, stdout io.Writer, path string, opts pipeline.Options, noCache bool, format string) error {
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
	v := a.Validation

	if format == pipeline.FormatJSON {
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("encode validation: %w", err)
		}
		if err := writeOutput(stdout, "", data); err != nil {
			return err
		}
	} else {
		printValidation(v.Valid, v.Errors, v.Warnings)
	}

	if !v.Valid {
		return apperrors.New(apperrors.ErrCodeInvalidRegistry, "%s: %d validation errors", path, len(v.Errors))
	}
	return nil
}
