// Package pipeline provides the core analysis pipeline for archgraph.
//
// This package implements the complete parse → analyze → render pipeline that
// is used by both the CLI and the HTTP server. By centralizing this logic,
// both entry points apply the same defaults, cache keys and hooks.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Parse: Load and validate a module registry, then build the graph
//  2. Analyze: Find cycles and chains, rank connectivity, validate references
//  3. Render: Produce a diagram (Mermaid, DOT, SVG) and a report (text, JSON)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, reg, pipeline.Options{
//	    DiagramFormat: pipeline.FormatMermaid,
//	    ReportFormat:  pipeline.FormatText,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(string(result.Diagram))
//
// Run individual stages:
//
//	g, err := pipeline.Parse(reg)
//	a, err := runner.Analyze(ctx, g, opts)
//	diagram, err := runner.RenderDiagram(ctx, g, opts)
//	rep, err := runner.RenderReport(ctx, g, a, opts)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/archgraph/pkg/analysis"
	"github.com/matzehuels/archgraph/pkg/cache"
	apperrors "github.com/matzehuels/archgraph/pkg/errors"
	"github.com/matzehuels/archgraph/pkg/graph"
	"github.com/matzehuels/archgraph/pkg/render/mermaid"
	"github.com/matzehuels/archgraph/pkg/report"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultMaxFanOut is the fan-out above which the validator warns.
	DefaultMaxFanOut = analysis.DefaultMaxFanOut

	// DefaultTopN is the number of most-connected modules in the report.
	DefaultTopN = report.DefaultTopN

	// DefaultMaxChains caps chain enumeration. Dense hand-written graphs can
	// have exponentially many maximal paths.
	DefaultMaxChains = 10000

	// DefaultDirection is the default Mermaid flow direction.
	DefaultDirection = string(mermaid.TopDown)
)

// Diagram formats.
const (
	FormatMermaid = "mermaid"
	FormatDOT     = "dot"
	FormatSVG     = "svg"
)

// Report formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Artifact kinds passed to cache keys and hooks.
const (
	KindDiagram = "diagram"
	KindReport  = "report"
)

// ValidDiagramFormats is the set of supported diagram formats.
var ValidDiagramFormats = map[string]bool{
	FormatMermaid: true,
	FormatDOT:     true,
	FormatSVG:     true,
}

// ValidReportFormats is the set of supported report formats.
var ValidReportFormats = map[string]bool{
	FormatText: true,
	FormatJSON: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the analysis pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Analysis options
	MaxFanOut int  `json:"max_fan_out,omitempty"`
	MaxChains int  `json:"max_chains,omitempty"`
	Refresh   bool `json:"refresh,omitempty"`

	// Diagram options
	DiagramFormat string `json:"diagram_format,omitempty"`
	Direction     string `json:"direction,omitempty"`
	Detailed      bool   `json:"detailed,omitempty"` // DOT/SVG only: show category and importance

	// Report options
	ReportFormat string `json:"report_format,omitempty"`
	TopN         int    `json:"top_n,omitempty"`
	Title        string `json:"title,omitempty"`

	// Runtime options (not serialized)
	GeneratedAt time.Time   `json:"-"`
	Logger      *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Analysis bundles the analysis results for one graph.
type Analysis struct {
	Cycles       []analysis.Cycle          `json:"cycles"`
	Chains       analysis.ChainResult      `json:"chains"`
	Connectivity analysis.Connectivity     `json:"connectivity"`
	Validation   analysis.ValidationResult `json:"validation"`
	Metrics      analysis.Metrics          `json:"metrics"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Graph is the module graph built from the registry.
	Graph *graph.Graph

	// GraphHash is the content hash of the graph.
	GraphHash string

	// Analysis holds the analysis results.
	Analysis *Analysis

	// Report is the structured report the rendered report was produced from.
	Report report.Report

	// Diagram is the rendered diagram in Options.DiagramFormat.
	Diagram []byte

	// ReportOutput is the rendered report in Options.ReportFormat.
	ReportOutput []byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount   int
	EdgeCount   int
	ParseTime   time.Duration
	AnalyzeTime time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	AnalyzeHit bool // Whether analysis results came from cache
	DiagramHit bool // Whether the diagram came from cache
	ReportHit  bool // Whether the report came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateDiagramFormat checks that a diagram format is valid.
func ValidateDiagramFormat(format string) error {
	if !ValidDiagramFormats[format] {
		return apperrors.New(apperrors.ErrCodeInvalidFormat,
			"invalid diagram format: %q (must be one of: mermaid, dot, svg)", format)
	}
	return nil
}

// ValidateReportFormat checks that a report format is valid.
func ValidateReportFormat(format string) error {
	if !ValidReportFormats[format] {
		return apperrors.New(apperrors.ErrCodeInvalidFormat,
			"invalid report format: %q (must be one of: text, json)", format)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks all fields and applies defaults for the full
// pipeline. This method is idempotent - calling it multiple times has the same
// effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForAnalyze(); err != nil {
		return err
	}
	if err := o.ValidateForDiagram(); err != nil {
		return err
	}
	if err := o.ValidateForReport(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetAnalyzeDefaults sets default values for the analysis stage.
func (o *Options) SetAnalyzeDefaults() {
	if o.MaxFanOut <= 0 {
		o.MaxFanOut = DefaultMaxFanOut
	}
	if o.MaxChains <= 0 {
		o.MaxChains = DefaultMaxChains
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForAnalyze validates and sets defaults for the analysis stage.
func (o *Options) ValidateForAnalyze() error {
	if o.MaxFanOut < 0 {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "max_fan_out must not be negative")
	}
	if o.MaxChains < 0 {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "max_chains must not be negative")
	}
	o.SetAnalyzeDefaults()
	return nil
}

// SetDiagramDefaults sets default values for diagram rendering.
func (o *Options) SetDiagramDefaults() {
	if o.DiagramFormat == "" {
		o.DiagramFormat = FormatMermaid
	}
	if o.Direction == "" {
		o.Direction = DefaultDirection
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForDiagram validates and sets defaults for diagram rendering.
// The direction is normalized to its canonical Mermaid spelling.
func (o *Options) ValidateForDiagram() error {
	o.SetDiagramDefaults()
	if err := ValidateDiagramFormat(o.DiagramFormat); err != nil {
		return err
	}
	dir, err := mermaid.ParseDirection(o.Direction)
	if err != nil {
		return err
	}
	o.Direction = string(dir)
	return nil
}

// SetReportDefaults sets default values for report rendering.
func (o *Options) SetReportDefaults() {
	if o.ReportFormat == "" {
		o.ReportFormat = FormatText
	}
	if o.TopN <= 0 {
		o.TopN = DefaultTopN
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForReport validates and sets defaults for report rendering.
func (o *Options) ValidateForReport() error {
	o.SetReportDefaults()
	return ValidateReportFormat(o.ReportFormat)
}

// ValidateOptions returns the validator options.
func (o *Options) ValidateOptions() analysis.ValidateOptions {
	return analysis.ValidateOptions{MaxFanOut: o.MaxFanOut}
}

// ReportOptions returns the report generator options.
func (o *Options) ReportOptions() report.Options {
	return report.Options{
		GeneratedAt: o.GeneratedAt,
		TopN:        o.TopN,
		Title:       o.Title,
	}
}

// AnalysisKeyOpts returns cache key options for the analysis stage.
func (o *Options) AnalysisKeyOpts() cache.AnalysisKeyOpts {
	return cache.AnalysisKeyOpts{
		MaxFanOut: o.MaxFanOut,
		MaxChains: o.MaxChains,
	}
}

// DiagramKeyOpts returns cache key options for diagram rendering.
func (o *Options) DiagramKeyOpts() cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Kind:      KindDiagram,
		Format:    o.DiagramFormat,
		Direction: o.Direction,
		Detailed:  o.Detailed,
	}
}

// ReportKeyOpts returns cache key options for report rendering.
func (o *Options) ReportKeyOpts() cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Kind:      KindReport,
		Format:    o.ReportFormat,
		Title:     o.Title,
		TopN:      o.TopN,
		MaxFanOut: o.MaxFanOut,
		MaxChains: o.MaxChains,
	}
}
