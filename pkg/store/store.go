// Package store archives analysis runs.
//
// A [Run] captures one execution of the pipeline: the serialized graph, the
// validation result and the structured report, keyed by a random id. The
// archive lets the HTTP server return a run id that can be fetched later and
// lets the CLI keep a local history.
//
// # Backends
//
//   - [FileStore]: one JSON file per run under a directory, for the CLI
//   - [MongoStore]: a MongoDB collection, for the HTTP server
//
// # Usage
//
//	st, err := store.NewMongoStore(ctx, "mongodb://localhost:27017", "archgraph")
//	if err != nil {
//	    return err
//	}
//	defer st.Close(ctx)
//
//	run := store.NewRun(result, opts, time.Now())
//	if err := st.Save(ctx, run); err != nil {
//	    return err
//	}
//	fmt.Println("archived", run.ID)
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/archgraph/pkg/analysis"
	apperrors "github.com/matzehuels/archgraph/pkg/errors"
	"github.com/matzehuels/archgraph/pkg/graph"
	"github.com/matzehuels/archgraph/pkg/pipeline"
	"github.com/matzehuels/archgraph/pkg/report"
)

// DefaultListLimit bounds List when no limit is given.
const DefaultListLimit = 20

// Run is one archived pipeline execution.
type Run struct {
	ID         string                    `json:"id" bson:"_id"`
	CreatedAt  time.Time                 `json:"created_at" bson:"created_at"`
	GraphHash  string                    `json:"graph_hash" bson:"graph_hash"`
	Graph      graph.Document            `json:"graph" bson:"graph"`
	Validation analysis.ValidationResult `json:"validation" bson:"validation"`
	Report     report.Report             `json:"report" bson:"report"`

	// Diagram is the rendered diagram, stored only for text formats.
	Diagram       string `json:"diagram,omitempty" bson:"diagram,omitempty"`
	DiagramFormat string `json:"diagram_format,omitempty" bson:"diagram_format,omitempty"`
}

// Summary is the list view of a Run.
type Summary struct {
	ID        string    `json:"id" bson:"_id"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	GraphHash string    `json:"graph_hash" bson:"graph_hash"`
	Modules   int       `json:"modules" bson:"modules"`
	Valid     bool      `json:"valid" bson:"valid"`
}

// Store is the interface for run archive backends.
type Store interface {
	// Save stores a run. A run with an existing id is replaced.
	Save(ctx context.Context, run *Run) error

	// Get retrieves a run by id. A missing run is a RUN_NOT_FOUND error.
	Get(ctx context.Context, id string) (*Run, error)

	// List returns the most recent runs, newest first. A limit of zero or
	// less selects DefaultListLimit.
	List(ctx context.Context, limit int) ([]Summary, error)

	// Prune removes runs created before cutoff and returns how many were
	// removed.
	Prune(ctx context.Context, cutoff time.Time) (int, error)

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// NewRun converts a pipeline result into an archive record with a fresh id.
// SVG diagrams are binary-heavy and are not archived.
func NewRun(result *pipeline.Result, opts pipeline.Options, now time.Time) *Run {
	run := &Run{
		ID:         uuid.NewString(),
		CreatedAt:  now.UTC().Truncate(time.Millisecond),
		GraphHash:  result.GraphHash,
		Graph:      graph.ToDocument(result.Graph),
		Validation: result.Analysis.Validation,
		Report:     result.Report,
	}
	if opts.DiagramFormat != pipeline.FormatSVG {
		run.Diagram = string(result.Diagram)
		run.DiagramFormat = opts.DiagramFormat
	}
	return run
}

// Summarize returns the list view of run.
func (r *Run) Summarize() Summary {
	return Summary{
		ID:        r.ID,
		CreatedAt: r.CreatedAt,
		GraphHash: r.GraphHash,
		Modules:   len(r.Graph.Nodes),
		Valid:     r.Validation.Valid,
	}
}

func notFound(id string) error {
	return apperrors.New(apperrors.ErrCodeRunNotFound, "run %q not found", id)
}

func listLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}
