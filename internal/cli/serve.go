package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/archgraph/internal/api"
	"github.com/matzehuels/archgraph/pkg/store"
)

// serveCommand creates the serve command, which runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		noCache   bool
		noArchive bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the analysis pipeline over HTTP",
		Long: `Serve the analysis pipeline over HTTP.

Routes:
  POST /v1/analyze     analyze a registry body (JSON, YAML or TOML)
  POST /v1/validate    validate a registry body
  GET  /v1/runs        list archived runs
  GET  /v1/runs/{id}   fetch an archived run
  GET  /healthz        liveness
  GET  /metrics        Prometheus metrics

The cache backend, the archive and the listen address come from the
configuration (cache.backend, cache.redis_url, store.mongo_uri, serve.addr).
Cache keys are scoped to the running version.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("addr") {
				addr = c.cfg().Serve.Addr
			}
			return c.runServe(cmd.Context(), addr, noCache, noArchive)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", api.DefaultAddr, "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&noArchive, "no-archive", false, "do not archive analysis runs")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, noCache, noArchive bool) error {
	logger := loggerFromContext(ctx)

	metrics := api.NewMetrics()
	metrics.Register()

	runner := c.newRunner(ctx, noCache)
	defer runner.Close()

	var archive store.Store
	if !noArchive {
		st, err := c.openStore(ctx)
		if err != nil {
			return fmt.Errorf("open archive: %w", err)
		}
		defer st.Close(context.WithoutCancel(ctx))
		archive = st
	}

	defaults := c.cfg().Options()
	srv := api.New(api.Config{Addr: addr, Defaults: defaults}, runner, archive, metrics, logger)

	printInfo("Serving on %s", StyleHighlight.Render(addr))
	err := srv.ListenAndServe(ctx)
	if err != nil {
		return err
	}
	// A clean shutdown after SIGINT still exits 130.
	if errors.Is(ctx.Err(), context.Canceled) {
		return ctx.Err()
	}
	return nil
}
