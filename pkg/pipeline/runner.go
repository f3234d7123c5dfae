package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/archgraph/pkg/cache"
	"github.com/matzehuels/archgraph/pkg/graph"
	"github.com/matzehuels/archgraph/pkg/observability"
	"github.com/matzehuels/archgraph/pkg/registry"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete parse → analyze → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, reg *registry.Registry, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	// Stage 1: Parse
	parseStart := time.Now()
	g, err := Parse(reg)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	result.Graph = g
	result.Stats.ParseTime = time.Since(parseStart)
	result.Stats.NodeCount = g.NodeCount()
	result.Stats.EdgeCount = g.EdgeCount()
	if result.GraphHash, err = GraphHash(g); err != nil {
		return nil, fmt.Errorf("hash graph: %w", err)
	}
	observability.Pipeline().OnStageComplete(ctx, observability.StageBuild, result.Stats.ParseTime)

	r.Logger.Info("built graph",
		"modules", g.NodeCount(),
		"relationships", g.EdgeCount(),
		"duration", result.Stats.ParseTime)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stage 2: Analyze
	analyzeStart := time.Now()
	a, analyzeHit, err := r.AnalyzeWithCacheInfo(ctx, g, opts)
	if err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}
	result.Analysis = a
	result.Stats.AnalyzeTime = time.Since(analyzeStart)
	result.CacheInfo.AnalyzeHit = analyzeHit

	r.Logger.Info("analyzed graph",
		"cycles", len(a.Cycles),
		"chains", len(a.Chains.Chains),
		"valid", a.Validation.Valid,
		"cached", analyzeHit,
		"duration", result.Stats.AnalyzeTime)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stage 3: Render
	renderStart := time.Now()
	diagram, diagramHit, err := r.RenderDiagramWithCacheInfo(ctx, g, opts)
	if err != nil {
		return nil, fmt.Errorf("render diagram: %w", err)
	}
	result.Diagram = diagram
	result.CacheInfo.DiagramHit = diagramHit

	result.Report = BuildReport(g, a, opts)
	out, reportHit, err := r.RenderReportWithCacheInfo(ctx, g, a, opts)
	if err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}
	result.ReportOutput = out
	result.CacheInfo.ReportHit = reportHit
	result.Stats.RenderTime = time.Since(renderStart)

	r.Logger.Info("rendered outputs",
		"diagram", opts.DiagramFormat,
		"report", opts.ReportFormat,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// AnalyzeWithCacheInfo runs the analyses with caching and returns cache hit info.
func (r *Runner) AnalyzeWithCacheInfo(ctx context.Context, g *graph.Graph, opts Options) (*Analysis, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForAnalyze(); err != nil {
		return nil, false, err
	}

	hooks := observability.Pipeline()
	start := time.Now()
	hooks.OnAnalyzeStart(ctx, g.NodeCount(), g.EdgeCount())

	graphHash, err := GraphHash(g)
	if err != nil {
		hooks.OnAnalyzeComplete(ctx, g.NodeCount(), time.Since(start), err)
		return nil, false, fmt.Errorf("hash graph: %w", err)
	}
	cacheKey := r.Keyer.AnalysisKey(graphHash, opts.AnalysisKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit := r.cacheGet(ctx, cacheKey, cache.KeyTypeAnalysis); hit {
			var cached Analysis
			if err := json.Unmarshal(data, &cached); err == nil {
				hooks.OnAnalyzeComplete(ctx, g.NodeCount(), time.Since(start), nil)
				r.reportValidation(ctx, &cached)
				return &cached, true, nil // Cache hit
			}
			// If deserialization fails, fall through to recompute
		}
	}

	a, err := RunAnalyses(ctx, g, opts)
	hooks.OnAnalyzeComplete(ctx, g.NodeCount(), time.Since(start), err)
	if err != nil {
		return nil, false, err
	}
	r.reportValidation(ctx, a)

	if data, err := json.Marshal(a); err == nil {
		r.cacheSet(ctx, cacheKey, cache.KeyTypeAnalysis, data, cache.TTLAnalysis)
	}

	return a, false, nil // Cache miss
}

// Analyze is a convenience wrapper that calls AnalyzeWithCacheInfo and discards the cache hit info.
func (r *Runner) Analyze(ctx context.Context, g *graph.Graph, opts Options) (*Analysis, error) {
	a, _, err := r.AnalyzeWithCacheInfo(ctx, g, opts)
	return a, err
}

// RenderDiagramWithCacheInfo renders the diagram with caching and returns cache hit info.
func (r *Runner) RenderDiagramWithCacheInfo(ctx context.Context, g *graph.Graph, opts Options) ([]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForDiagram(); err != nil {
		return nil, false, err
	}

	return r.renderCached(ctx, g, KindDiagram, opts.DiagramFormat, opts.DiagramKeyOpts(), opts.Refresh,
		func() ([]byte, error) { return RenderDiagram(ctx, g, opts) })
}

// RenderDiagram is a convenience wrapper that calls RenderDiagramWithCacheInfo and discards the cache hit info.
func (r *Runner) RenderDiagram(ctx context.Context, g *graph.Graph, opts Options) ([]byte, error) {
	data, _, err := r.RenderDiagramWithCacheInfo(ctx, g, opts)
	return data, err
}

// RenderReportWithCacheInfo renders the report with caching and returns cache hit info.
// Reports stamped with a generation time are never cached.
func (r *Runner) RenderReportWithCacheInfo(ctx context.Context, g *graph.Graph, a *Analysis, opts Options) ([]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForAnalyze(); err != nil {
		return nil, false, err
	}
	if err := opts.ValidateForReport(); err != nil {
		return nil, false, err
	}

	render := func() ([]byte, error) {
		return FormatReport(BuildReport(g, a, opts), opts.ReportFormat)
	}
	skipCache := opts.Refresh || !opts.GeneratedAt.IsZero()
	return r.renderCached(ctx, g, KindReport, opts.ReportFormat, opts.ReportKeyOpts(), skipCache, render)
}

// RenderReport is a convenience wrapper that calls RenderReportWithCacheInfo and discards the cache hit info.
func (r *Runner) RenderReport(ctx context.Context, g *graph.Graph, a *Analysis, opts Options) ([]byte, error) {
	data, _, err := r.RenderReportWithCacheInfo(ctx, g, a, opts)
	return data, err
}

// renderCached looks up an artifact, rendering and storing it on a miss.
// With skipCache the cache is neither read nor written.
func (r *Runner) renderCached(ctx context.Context, g *graph.Graph, kind, format string, keyOpts cache.ArtifactKeyOpts, skipCache bool, render func() ([]byte, error)) ([]byte, bool, error) {
	hooks := observability.Pipeline()
	start := time.Now()
	hooks.OnRenderStart(ctx, kind, format)

	var cacheKey string
	if !skipCache {
		graphHash, err := GraphHash(g)
		if err != nil {
			hooks.OnRenderComplete(ctx, kind, format, time.Since(start), err)
			return nil, false, fmt.Errorf("hash graph: %w", err)
		}
		cacheKey = r.Keyer.ArtifactKey(graphHash, keyOpts)
		if data, hit := r.cacheGet(ctx, cacheKey, cache.KeyTypeArtifact); hit {
			hooks.OnRenderComplete(ctx, kind, format, time.Since(start), nil)
			return data, true, nil // Cache hit
		}
	}

	data, err := render()
	hooks.OnRenderComplete(ctx, kind, format, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	if !skipCache {
		r.cacheSet(ctx, cacheKey, cache.KeyTypeArtifact, data, cache.TTLArtifact)
	}
	return data, false, nil // Cache miss
}

// cacheGet reads key, treating backend errors as misses.
func (r *Runner) cacheGet(ctx context.Context, key, keyType string) ([]byte, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Debug("cache read failed", "type", keyType, "err", err)
		hit = false
	}
	if hit {
		observability.Cache().OnCacheHit(ctx, keyType)
		return data, true
	}
	observability.Cache().OnCacheMiss(ctx, keyType)
	return nil, false
}

// cacheSet writes key, logging and otherwise ignoring failures.
func (r *Runner) cacheSet(ctx context.Context, key, keyType string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Debug("cache write failed", "type", keyType, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

func (r *Runner) reportValidation(ctx context.Context, a *Analysis) {
	observability.Pipeline().OnValidation(ctx, a.Validation.Valid,
		len(a.Validation.Errors), len(a.Validation.Warnings))
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
