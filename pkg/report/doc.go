// Package report aggregates analysis results into a summary of one run.
//
// [Generate] takes the graph plus the outputs of the analysis package and
// produces a [Report]: counts, a category breakdown, the most connected
// modules, the longest chains, isolated modules, cycles and the validation
// outcome. The report serializes to JSON directly and renders to Markdown
// with [Report.Text].
//
// The package never reads the clock. Callers stamp a time through
// [Options].GeneratedAt, and leaving it zero yields byte-identical reports
// for identical input.
package report
