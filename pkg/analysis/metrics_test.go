package analysis

import (
	"math"
	"slices"
	"testing"

	"github.com/matzehuels/archgraph/pkg/registry"
)

func TestComputeMetrics(t *testing.T) {
	tests := []struct {
		name      string
		modules   []registry.Module
		links     int
		density   float64
		strong    int
		weak      int
		connected bool
	}{
		{"empty", nil, 0, 0, 0, 0, true},
		{"single", []registry.Module{mod("a")}, 0, 0, 1, 1, true},
		{"linear", []registry.Module{mod("A", "B"), mod("B", "C"), mod("C")}, 2, 2.0 / 6, 3, 1, true},
		{"cycle plus isolated", []registry.Module{mod("E", "F"), mod("F", "E"), mod("D")}, 2, 2.0 / 6, 2, 2, false},
		{
			"repeated, dangling and self links",
			[]registry.Module{mod("A", "B", "B", "Z", "A"), mod("B")},
			1, 0.5, 2, 1, true,
		},
		{
			"two islands",
			[]registry.Module{mod("a", "b"), mod("b"), mod("c", "d"), mod("d", "c")},
			3, 3.0 / 12, 3, 2, false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := ComputeMetrics(build(tt.modules...))
			if m.Nodes != len(tt.modules) {
				t.Errorf("Nodes = %d, want %d", m.Nodes, len(tt.modules))
			}
			if m.Links != tt.links {
				t.Errorf("Links = %d, want %d", m.Links, tt.links)
			}
			if math.Abs(m.Density-tt.density) > 1e-9 {
				t.Errorf("Density = %v, want %v", m.Density, tt.density)
			}
			if m.StronglyConnected != tt.strong {
				t.Errorf("StronglyConnected = %d, want %d", m.StronglyConnected, tt.strong)
			}
			if m.WeaklyConnected != tt.weak {
				t.Errorf("WeaklyConnected = %d, want %d", m.WeaklyConnected, tt.weak)
			}
			if m.Connected() != tt.connected {
				t.Errorf("Connected() = %v, want %v", m.Connected(), tt.connected)
			}
		})
	}
}

func TestComputeMetrics_Rankings(t *testing.T) {
	g := build(
		mod("web", "core", "log"),
		mod("cli", "core", "log", "config"),
		mod("core", "log"),
		mod("log"),
		mod("config"),
		mod("docs"),
	)

	m := ComputeMetrics(g)

	ids := func(ds []DegreeCount) []string {
		var out []string
		for _, d := range ds {
			out = append(out, d.ID)
		}
		return out
	}
	if got, want := ids(m.MostImported), []string{"log", "core", "config"}; !slices.Equal(got, want) {
		t.Errorf("MostImported = %v, want %v", m.MostImported, want)
	}
	if m.MostImported[0].Count != 3 {
		t.Errorf("log imported by %d, want 3", m.MostImported[0].Count)
	}
	if got, want := ids(m.MostImporting), []string{"cli", "web", "core"}; !slices.Equal(got, want) {
		t.Errorf("MostImporting = %v, want %v", m.MostImporting, want)
	}
	if got := ids(m.TopImported(1)); !slices.Equal(got, []string{"log"}) {
		t.Errorf("TopImported(1) = %v", got)
	}
	if got := m.TopImporting(10); len(got) != 3 {
		t.Errorf("TopImporting(10) = %v, want all 3", got)
	}
}

func TestComputeMetrics_Deterministic(t *testing.T) {
	g := build(mod("a", "b", "c"), mod("b", "c"), mod("c", "a"), mod("d", "a"))

	first := ComputeMetrics(g)
	for range 10 {
		m := ComputeMetrics(g)
		if m.Links != first.Links || m.StronglyConnected != first.StronglyConnected ||
			!slices.Equal(m.MostImported, first.MostImported) {
			t.Fatalf("ComputeMetrics not deterministic: %+v vs %+v", m, first)
		}
	}
	if first.StronglyConnected != 2 {
		t.Errorf("StronglyConnected = %d, want 2 ({a b c} and {d})", first.StronglyConnected)
	}
}
