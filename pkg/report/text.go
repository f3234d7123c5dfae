package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/matzehuels/archgraph/pkg/analysis"
)

// Text renders the report as Markdown. Two reports generated from the same
// input and options render to identical text.
func (r Report) Text() string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", r.Title)
	if r.GeneratedAt != nil {
		fmt.Fprintf(&b, "- Generated: %s\n", r.GeneratedAt.Format(time.RFC3339))
	}
	fmt.Fprintf(&b, "- Modules: %d\n", r.NodeCount)
	fmt.Fprintf(&b, "- Relationships: %d\n", r.EdgeCount)
	fmt.Fprintf(&b, "- Status: %s\n", status(r))

	b.WriteString("\n## Categories\n\n")
	if len(r.Categories) == 0 {
		b.WriteString("_None._\n")
	} else {
		b.WriteString("| Category | Modules |\n|---|---:|\n")
		for _, c := range r.Categories {
			name := string(c.Category)
			if name == "" {
				name = "(uncategorized)"
			}
			fmt.Fprintf(&b, "| %s | %d |\n", name, c.Count)
		}
	}

	b.WriteString("\n## Most Connected Modules\n\n")
	if len(r.TopConnected) == 0 {
		b.WriteString("_None._\n")
	} else {
		b.WriteString("| Module | Dependencies | Dependents | Total |\n|---|---:|---:|---:|\n")
		for _, n := range r.TopConnected {
			fmt.Fprintf(&b, "| `%s` | %d | %d | %d |\n", n.ID, n.Dependencies, n.Dependents, n.Degree())
		}
	}

	b.WriteString("\n## Graph Metrics\n\n")
	m := r.Metrics
	fmt.Fprintf(&b, "- Dependency links: %d\n", m.Links)
	fmt.Fprintf(&b, "- Density: %.4f\n", m.Density)
	fmt.Fprintf(&b, "- Strongly connected components: %d\n", m.StronglyConnected)
	fmt.Fprintf(&b, "- Weakly connected components: %d (%s)\n", m.WeaklyConnected, connectedness(m.Connected))
	b.WriteString("\n### Most Imported\n\n")
	writeDegrees(&b, m.MostImported)
	b.WriteString("\n### Most Importing\n\n")
	writeDegrees(&b, m.MostImporting)

	b.WriteString("\n## Longest Dependency Chains\n\n")
	if len(r.LongestChains) == 0 {
		b.WriteString("_None._\n")
	}
	for i, c := range r.LongestChains {
		fmt.Fprintf(&b, "%d. %s (%d modules)\n", i+1, c, len(c))
	}
	if r.ChainsTruncated {
		b.WriteString("\n> Chain enumeration stopped at the configured limit.\n")
	}

	b.WriteString("\n## Isolated Modules\n\n")
	writeList(&b, r.Isolated)

	b.WriteString("\n## Dependency Cycles\n\n")
	if len(r.Cycles) == 0 {
		b.WriteString("_None._\n")
	}
	for i, c := range r.Cycles {
		fmt.Fprintf(&b, "%d. %s\n", i+1, c)
	}

	b.WriteString("\n## Validation\n\n")
	b.WriteString("### Errors\n\n")
	writeList(&b, r.Validation.Errors)
	b.WriteString("\n### Warnings\n\n")
	writeList(&b, r.Validation.Warnings)

	return b.String()
}

func status(r Report) string {
	if r.Validation.Valid {
		return "valid"
	}
	return fmt.Sprintf("invalid (%d error(s))", len(r.Validation.Errors))
}

func connectedness(connected bool) string {
	if connected {
		return "connected"
	}
	return "disconnected"
}

func writeDegrees(b *strings.Builder, ds []analysis.DegreeCount) {
	if len(ds) == 0 {
		b.WriteString("_None._\n")
		return
	}
	for _, d := range ds {
		fmt.Fprintf(b, "- `%s` (%d)\n", d.ID, d.Count)
	}
}

func writeList(b *strings.Builder, items []string) {
	if len(items) == 0 {
		b.WriteString("_None._\n")
		return
	}
	for _, it := range items {
		fmt.Fprintf(b, "- %s\n", it)
	}
}

// JSON returns the report as indented JSON.
func (r Report) JSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return nil, fmt.Errorf("encode report: %w", err)
	}
	return buf.Bytes(), nil
}
