package analysis

import (
	"cmp"
	"slices"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	archgraph "github.com/matzehuels/archgraph/pkg/graph"
)

// Metrics are whole-graph statistics over the dependency links between
// declared modules. Dangling references and self-references are not links.
type Metrics struct {
	Nodes int `json:"nodes" bson:"nodes"`

	// Links counts distinct (from, to) dependency pairs, so several
	// relationships between the same two modules count once.
	Links int `json:"links" bson:"links"`

	// Density is Links / (Nodes × (Nodes − 1)); zero below two nodes.
	Density float64 `json:"density" bson:"density"`

	StronglyConnected int `json:"strongly_connected_components" bson:"strongly_connected_components"`
	WeaklyConnected   int `json:"weakly_connected_components" bson:"weakly_connected_components"`

	// MostImported ranks modules by dependents, MostImporting by
	// dependencies. Both are highest first with ties in registry order, and
	// omit modules with a zero count.
	MostImported  []DegreeCount `json:"most_imported" bson:"most_imported"`
	MostImporting []DegreeCount `json:"most_importing" bson:"most_importing"`
}

// DegreeCount is one entry of a fan-in or fan-out ranking.
type DegreeCount struct {
	ID    string `json:"id" bson:"id"`
	Count int    `json:"count" bson:"count"`
}

// Connected reports whether every module is reachable from every other when
// link direction is ignored. An empty graph is connected.
func (m Metrics) Connected() bool { return m.WeaklyConnected <= 1 }

// ComputeMetrics loads the known links of g into a gonum directed graph and
// derives density and component counts from it. Node ids are registry
// positions, so results never depend on map iteration.
func ComputeMetrics(g *archgraph.Graph) Metrics {
	ids := g.IDs()
	index := make(map[string]int64, len(ids))
	dg := simple.NewDirectedGraph()
	for i, id := range ids {
		index[id] = int64(i)
		dg.AddNode(simple.Node(i))
	}

	for _, e := range g.Edges() {
		to, ok := index[e.To]
		if !ok {
			continue
		}
		from := index[e.From]
		if from == to || dg.HasEdgeFromTo(from, to) {
			continue
		}
		dg.SetEdge(dg.NewEdge(simple.Node(from), simple.Node(to)))
	}

	m := Metrics{
		Nodes:             len(ids),
		Links:             dg.Edges().Len(),
		StronglyConnected: len(topo.TarjanSCC(dg)),
		WeaklyConnected:   len(topo.ConnectedComponents(graph.Undirect{G: dg})),
		MostImported:      []DegreeCount{},
		MostImporting:     []DegreeCount{},
	}
	if n := float64(m.Nodes); m.Nodes > 1 {
		m.Density = float64(m.Links) / (n * (n - 1))
	}

	for _, n := range g.Nodes() {
		if c := n.FanIn(); c > 0 {
			m.MostImported = append(m.MostImported, DegreeCount{ID: n.ID, Count: c})
		}
		if c := n.FanOut(); c > 0 {
			m.MostImporting = append(m.MostImporting, DegreeCount{ID: n.ID, Count: c})
		}
	}
	byCount := func(a, b DegreeCount) int { return cmp.Compare(b.Count, a.Count) }
	slices.SortStableFunc(m.MostImported, byCount)
	slices.SortStableFunc(m.MostImporting, byCount)
	return m
}

// TopImported returns up to n entries of MostImported.
func (m Metrics) TopImported(n int) []DegreeCount { return head(m.MostImported, n) }

// TopImporting returns up to n entries of MostImporting.
func (m Metrics) TopImporting(n int) []DegreeCount { return head(m.MostImporting, n) }

func head[T any](s []T, n int) []T {
	if n < 0 || n > len(s) {
		n = len(s)
	}
	return s[:n]
}
