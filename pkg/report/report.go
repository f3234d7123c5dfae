package report

import (
	"slices"
	"time"

	"github.com/matzehuels/archgraph/pkg/analysis"
	"github.com/matzehuels/archgraph/pkg/graph"
	"github.com/matzehuels/archgraph/pkg/registry"
)

const (
	// DefaultTopN is the number of most-connected modules listed.
	DefaultTopN = 10

	// DefaultChainCount is the number of longest chains listed.
	DefaultChainCount = 5

	// DefaultTitle heads the text report.
	DefaultTitle = "Architecture Report"
)

// Input bundles a graph with the analysis results computed over it. The
// report never recomputes an analysis; every figure comes from these values.
type Input struct {
	Graph        *graph.Graph
	Cycles       []analysis.Cycle
	Chains       analysis.ChainResult
	Connectivity analysis.Connectivity
	Validation   analysis.ValidationResult
	Metrics      analysis.Metrics
}

// Options configures Generate.
type Options struct {
	// GeneratedAt is stamped into the report header. The zero value omits
	// the timestamp, which keeps reports byte-identical across runs.
	GeneratedAt time.Time

	TopN       int    // Most-connected modules to list. Zero selects DefaultTopN.
	ChainCount int    // Longest chains to list. Zero selects DefaultChainCount.
	Title      string // Defaults to DefaultTitle
}

// SetDefaults fills zero-valued fields.
func (o *Options) SetDefaults() {
	if o.TopN <= 0 {
		o.TopN = DefaultTopN
	}
	if o.ChainCount <= 0 {
		o.ChainCount = DefaultChainCount
	}
	if o.Title == "" {
		o.Title = DefaultTitle
	}
}

// CategoryCount is one row of the category breakdown.
type CategoryCount struct {
	Category registry.Category `json:"category" bson:"category"`
	Count    int               `json:"count" bson:"count"`
}

// Report is the structured summary of one analysis run. It serializes to
// JSON as is; [Report.Text] renders the human-readable form.
type Report struct {
	Title           string                    `json:"title" bson:"title"`
	GeneratedAt     *time.Time                `json:"generated_at,omitempty" bson:"generated_at,omitempty"`
	NodeCount       int                       `json:"node_count" bson:"node_count"`
	EdgeCount       int                       `json:"edge_count" bson:"edge_count"`
	Categories      []CategoryCount           `json:"categories" bson:"categories"`
	TopConnected    []analysis.Ranked         `json:"top_connected" bson:"top_connected"`
	LongestChains   []analysis.Chain          `json:"longest_chains" bson:"longest_chains"`
	ChainsTruncated bool                      `json:"chains_truncated,omitempty" bson:"chains_truncated,omitempty"`
	Isolated        []string                  `json:"isolated" bson:"isolated"`
	Cycles          []analysis.Cycle          `json:"cycles" bson:"cycles"`
	Validation      analysis.ValidationResult `json:"validation" bson:"validation"`
	Metrics         GraphMetrics              `json:"metrics" bson:"metrics"`
}

// GraphMetrics is the report view of [analysis.Metrics], with the import
// rankings cut to the report's TopN.
type GraphMetrics struct {
	Links             int                    `json:"links" bson:"links"`
	Density           float64                `json:"density" bson:"density"`
	Connected         bool                   `json:"connected" bson:"connected"`
	StronglyConnected int                    `json:"strongly_connected_components" bson:"strongly_connected_components"`
	WeaklyConnected   int                    `json:"weakly_connected_components" bson:"weakly_connected_components"`
	MostImported      []analysis.DegreeCount `json:"most_imported" bson:"most_imported"`
	MostImporting     []analysis.DegreeCount `json:"most_importing" bson:"most_importing"`
}

// Generate assembles a Report. It does not read the clock; pass
// Options.GeneratedAt to stamp one.
func Generate(in Input, opts Options) Report {
	opts.SetDefaults()

	r := Report{
		Title:         opts.Title,
		NodeCount:     in.Graph.NodeCount(),
		EdgeCount:     in.Graph.EdgeCount(),
		Categories:    categoryBreakdown(in.Graph),
		TopConnected:  nonNil(in.Connectivity.Top(opts.TopN)),
		LongestChains: nonNil(in.Chains.Longest(opts.ChainCount)),
		Isolated:      nonNil(in.Connectivity.Isolated),
		Cycles:        nonNil(in.Cycles),
		Validation:    in.Validation,
		Metrics: GraphMetrics{
			Links:             in.Metrics.Links,
			Density:           in.Metrics.Density,
			Connected:         in.Metrics.Connected(),
			StronglyConnected: in.Metrics.StronglyConnected,
			WeaklyConnected:   in.Metrics.WeaklyConnected,
			MostImported:      nonNil(in.Metrics.TopImported(opts.TopN)),
			MostImporting:     nonNil(in.Metrics.TopImporting(opts.TopN)),
		},
	}
	r.ChainsTruncated = in.Chains.Truncated
	if !opts.GeneratedAt.IsZero() {
		ts := opts.GeneratedAt.UTC()
		r.GeneratedAt = &ts
	}
	return r
}

// categoryBreakdown counts nodes per category in declaration order of the
// category enum. Categories with no nodes are omitted; unrecognized values
// are appended after the known ones in first-seen order.
func categoryBreakdown(g *graph.Graph) []CategoryCount {
	counts := make(map[registry.Category]int)
	var unknown []registry.Category
	for _, n := range g.Nodes() {
		if !n.Category.Valid() && counts[n.Category] == 0 {
			unknown = append(unknown, n.Category)
		}
		counts[n.Category]++
	}

	out := []CategoryCount{}
	for _, c := range slices.Concat(registry.Categories, unknown) {
		if counts[c] > 0 {
			out = append(out, CategoryCount{Category: c, Count: counts[c]})
		}
	}
	return out
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
