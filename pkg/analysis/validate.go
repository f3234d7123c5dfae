package analysis

import (
	"fmt"
	"strings"

	"github.com/matzehuels/archgraph/pkg/graph"
)

// DefaultMaxFanOut is the fan-out above which a module is flagged.
const DefaultMaxFanOut = 10

// ValidateOptions configures Validate.
type ValidateOptions struct {
	// MaxFanOut is the largest number of dependencies a module may declare
	// without a warning. Zero selects DefaultMaxFanOut.
	MaxFanOut int
}

// SetDefaults fills zero-valued fields.
func (o *ValidateOptions) SetDefaults() {
	if o.MaxFanOut <= 0 {
		o.MaxFanOut = DefaultMaxFanOut
	}
}

// ValidationResult is the outcome of Validate. Valid is true iff Errors is
// empty; warnings never affect it.
type ValidationResult struct {
	Valid    bool     `json:"valid" bson:"valid"`
	Errors   []string `json:"errors" bson:"errors"`
	Warnings []string `json:"warnings" bson:"warnings"`
}

// Validate checks referential integrity and structural health. Every check
// runs regardless of earlier findings:
//
//   - each edge to an unknown module is one error, even when several edges
//     name the same missing target
//   - each repeated module id is one warning; ingestion rejects them, so
//     only graphs built directly can carry one
//   - isolated modules are listed in a single warning
//   - modules above the fan-out threshold are listed in a single warning
//   - the presence of cycles is one warning carrying the cycle count
func Validate(g *graph.Graph, opts ValidateOptions) ValidationResult {
	opts.SetDefaults()
	res := ValidationResult{Errors: []string{}, Warnings: []string{}}

	for _, e := range g.Edges() {
		if !g.Has(e.To) {
			res.Errors = append(res.Errors,
				fmt.Sprintf("module %q references unknown module %q (%s)", e.From, e.To, e.Type))
		}
	}

	for _, id := range g.Duplicates() {
		res.Warnings = append(res.Warnings, fmt.Sprintf("module %q is declared more than once", id))
	}

	var isolated, fanOut []string
	for _, n := range g.Nodes() {
		if n.IsIsolated() {
			isolated = append(isolated, n.Label)
		}
		if n.FanOut() > opts.MaxFanOut {
			fanOut = append(fanOut, fmt.Sprintf("%s (%d)", n.Label, n.FanOut()))
		}
	}
	if len(isolated) > 0 {
		res.Warnings = append(res.Warnings, fmt.Sprintf("%d isolated module(s) with no relationships: %s",
			len(isolated), strings.Join(isolated, ", ")))
	}
	if len(fanOut) > 0 {
		res.Warnings = append(res.Warnings, fmt.Sprintf("%d module(s) exceed max fan-out of %d: %s",
			len(fanOut), opts.MaxFanOut, strings.Join(fanOut, ", ")))
	}

	if cycles := FindCycles(g); len(cycles) > 0 {
		res.Warnings = append(res.Warnings, fmt.Sprintf("%d dependency cycle(s) detected", len(cycles)))
	}

	res.Valid = len(res.Errors) == 0
	return res
}
