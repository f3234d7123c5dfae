package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	apperrors "github.com/matzehuels/archgraph/pkg/errors"
	"github.com/matzehuels/archgraph/pkg/store"
)

// runsCommand creates the run archive command.
func (c *CLI) runsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect runs saved with 'analyze --archive'",
	}

	cmd.AddCommand(c.runsListCommand())
	cmd.AddCommand(c.runsShowCommand())
	cmd.AddCommand(c.runsPruneCommand())

	return cmd
}

// runsListCommand creates the "runs list" subcommand.
func (c *CLI) runsListCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List archived runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := c.openStore(ctx)
			if err != nil {
				return fmt.Errorf("open archive: %w", err)
			}
			defer st.Close(ctx)

			runs, err := st.List(ctx, limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				printInfo("No archived runs")
				return nil
			}

			out := cmd.OutOrStdout()
			for _, r := range runs {
				status := "valid"
				if !r.Valid {
					status = "invalid"
				}
				fmt.Fprintf(out, "%s  %s  %4d modules  %s\n",
					r.ID, r.CreatedAt.Local().Format(time.DateTime), r.Modules, status)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", store.DefaultListLimit, "maximum number of runs to list")
	return cmd
}

// runsShowCommand creates the "runs show" subcommand.
func (c *CLI) runsShowCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show an archived run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := c.openStore(ctx)
			if err != nil {
				return fmt.Errorf("open archive: %w", err)
			}
			defer st.Close(ctx)

			run, err := st.Get(ctx, args[0])
			if err != nil {
				return err
			}

			if asJSON {
				data, err := json.MarshalIndent(run, "", "  ")
				if err != nil {
					return fmt.Errorf("encode run: %w", err)
				}
				return writeOutput(cmd.OutOrStdout(), "", data)
			}

			fmt.Fprintln(uiOut, StyleTitle.Render("Run "+run.ID))
			printKeyValue("Created", run.CreatedAt.Local().Format(time.RFC3339))
			printKeyValue("Graph", run.GraphHash)
			printKeyValue("Modules", strconv.Itoa(len(run.Graph.Nodes)))
			printKeyValue("Edges", strconv.Itoa(len(run.Graph.Edges)))
			printValidation(run.Validation.Valid, run.Validation.Errors, run.Validation.Warnings)
			return writeOutput(cmd.OutOrStdout(), "", []byte(run.Report.Text()))
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full run as JSON")
	return cmd
}

// runsPruneCommand creates the "runs prune" subcommand.
func (c *CLI) runsPruneCommand() *cobra.Command {
	var olderThan time.Duration

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete archived runs older than a duration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if olderThan <= 0 {
				return apperrors.New(apperrors.ErrCodeInvalidInput, "--older-than must be positive")
			}
			ctx := cmd.Context()
			st, err := c.openStore(ctx)
			if err != nil {
				return fmt.Errorf("open archive: %w", err)
			}
			defer st.Close(ctx)

			n, err := st.Prune(ctx, time.Now().Add(-olderThan))
			if err != nil {
				return err
			}
			printSuccess("Removed %d runs", n)
			return nil
		},
	}

	cmd.Flags().DurationVar(&olderThan, "older-than", 30*24*time.Hour, "age of the oldest run to keep")
	return cmd
}
