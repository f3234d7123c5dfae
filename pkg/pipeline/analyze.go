package pipeline

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/archgraph/pkg/analysis"
	"github.com/matzehuels/archgraph/pkg/graph"
	"github.com/matzehuels/archgraph/pkg/observability"
)

// RunAnalyses runs the cycle finder, chain enumerator, connectivity ranker,
// validator and graph metrics over g. The analyses only read the graph, so
// they run concurrently; each writes its own field of the result, which is therefore
// identical to a sequential run.
//
// The context is checked before the analyses start. Once started, they run to
// completion.
func RunAnalyses(ctx context.Context, g *graph.Graph, opts Options) (*Analysis, error) {
	opts.SetAnalyzeDefaults()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	hooks := observability.Pipeline()
	stage := func(name string, fn func()) func() error {
		return func() error {
			start := time.Now()
			fn()
			hooks.OnStageComplete(ctx, name, time.Since(start))
			return nil
		}
	}

	var a Analysis
	eg := new(errgroup.Group)
	eg.Go(stage(observability.StageCycles, func() {
		a.Cycles = analysis.FindCycles(g)
	}))
	eg.Go(stage(observability.StageChains, func() {
		a.Chains = analysis.FindChains(g, analysis.ChainOptions{Limit: opts.MaxChains})
	}))
	eg.Go(stage(observability.StageConnectivity, func() {
		a.Connectivity = analysis.RankConnectivity(g)
	}))
	eg.Go(stage(observability.StageValidate, func() {
		a.Validation = analysis.Validate(g, opts.ValidateOptions())
	}))
	eg.Go(stage(observability.StageMetrics, func() {
		a.Metrics = analysis.ComputeMetrics(g)
	}))
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	if a.Cycles == nil {
		a.Cycles = []analysis.Cycle{}
	}
	if a.Chains.Truncated {
		opts.Logger.Warn("chain enumeration truncated", "limit", opts.MaxChains)
	}
	return &a, nil
}
