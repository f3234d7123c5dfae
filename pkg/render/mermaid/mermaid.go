package mermaid

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/archgraph/pkg/errors"
	"github.com/matzehuels/archgraph/pkg/graph"
	"github.com/matzehuels/archgraph/pkg/registry"
)

// Direction is the flowchart orientation.
type Direction string

const (
	TopDown   Direction = "TD"
	LeftRight Direction = "LR"
	BottomUp  Direction = "BT"
	RightLeft Direction = "RL"
)

// Directions lists the accepted orientations.
var Directions = []Direction{TopDown, LeftRight, BottomUp, RightLeft}

// ParseDirection converts a flag or config value into a Direction. The empty
// string selects TopDown. Matching is case-insensitive and accepts "TB" as an
// alias for "TD".
func ParseDirection(s string) (Direction, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "TD", "TB":
		return TopDown, nil
	case "LR":
		return LeftRight, nil
	case "BT":
		return BottomUp, nil
	case "RL":
		return RightLeft, nil
	}
	return "", errors.New(errors.ErrCodeInvalidDirection, "unknown direction %q (want TD, LR, BT or RL)", s)
}

// Options configures Render.
type Options struct {
	Direction Direction // Defaults to TopDown
}

// MissingClass styles targets that are referenced but never declared.
const MissingClass = "missing"

// Render emits the graph as a Mermaid flowchart.
//
// Nodes are written in registry order, each labelled with its category glyph
// and short label and styled by its importance class. Edges follow
// declaration order and are labelled with the relationship glyph and type.
// Targets that are not nodes in the graph are still drawn, once, as raw
// references styled with [MissingClass]. Output is deterministic.
func Render(g *graph.Graph, opts Options) string {
	dir := opts.Direction
	if dir == "" {
		dir = TopDown
	}

	nodes := g.Nodes()
	edges := g.Edges()

	var dangling []string
	seen := make(map[string]bool)
	for _, e := range edges {
		if !g.Has(e.To) && !seen[e.To] {
			seen[e.To] = true
			dangling = append(dangling, e.To)
		}
	}

	names := make([]string, 0, len(nodes)+len(dangling))
	for _, n := range nodes {
		names = append(names, n.ID)
	}
	names = append(names, dangling...)
	ids := makeIDs(names)

	var b strings.Builder
	fmt.Fprintf(&b, "graph %s\n", dir)

	for _, n := range nodes {
		fmt.Fprintf(&b, "  %s[\"%s %s\"]:::%s\n",
			ids[n.ID], CategoryGlyph(n.Category), escapeLabel(n.Label), importanceClass(n.Importance))
	}
	for _, id := range dangling {
		fmt.Fprintf(&b, "  %s[\"%s\"]:::%s\n", ids[id], escapeLabel(id), MissingClass)
	}

	if len(edges) > 0 {
		b.WriteString("\n")
	}
	for _, e := range edges {
		fmt.Fprintf(&b, "  %s -->|\"%s %s\"| %s\n",
			ids[e.From], RelationGlyph(e.Type), escapeLabel(string(e.Type)), ids[e.To])
	}

	b.WriteString("\n")
	for _, imp := range registry.Importances {
		fmt.Fprintf(&b, "  classDef %s %s\n", imp, classStyles[imp])
	}
	fmt.Fprintf(&b, "  classDef %s %s\n", MissingClass, missingStyle)

	return b.String()
}

func importanceClass(imp registry.Importance) string {
	if imp.Valid() {
		return string(imp)
	}
	return string(registry.ImportanceOptional)
}

// makeIDs assigns each name a unique Mermaid identifier. Collisions after
// sanitizing are resolved with a numeric suffix in input order.
func makeIDs(names []string) map[string]string {
	ids := make(map[string]string, len(names))
	used := make(map[string]bool, len(names))
	for _, name := range names {
		if _, ok := ids[name]; ok {
			continue
		}
		base := SanitizeID(name)
		id := base
		for i := 2; used[id]; i++ {
			id = base + "_" + strconv.Itoa(i)
		}
		used[id] = true
		ids[name] = id
	}
	return ids
}

// SanitizeID maps a module id to a Mermaid node identifier: every rune outside
// [A-Za-z0-9_] becomes "_", and identifiers that would start with a digit or
// collide with the "end" keyword are prefixed with "n_".
func SanitizeID(id string) string {
	var b strings.Builder
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	s := b.String()
	if s == "" || (s[0] >= '0' && s[0] <= '9') || strings.EqualFold(s, "end") {
		s = "n_" + s
	}
	return s
}

func escapeLabel(s string) string {
	return strings.NewReplacer(`"`, "#quot;", "\n", " ").Replace(s)
}
