package mermaid

import (
	"strings"
	"testing"

	"github.com/matzehuels/archgraph/pkg/errors"
	"github.com/matzehuels/archgraph/pkg/graph"
	"github.com/matzehuels/archgraph/pkg/registry"
)

func sample() *graph.Graph {
	return graph.Build([]registry.Module{
		{
			ID: "apps/web", Category: registry.CategoryService, Importance: registry.ImportanceCritical,
			Relationships: []registry.Relationship{
				{Target: "packages/core", Type: registry.RelationDependency},
				{Target: "packages/core", Type: registry.RelationTests},
				{Target: "packages/legacy", Type: registry.RelationImports},
			},
		},
		{ID: "packages/core", Category: registry.CategoryPackage, Importance: registry.ImportanceImportant},
		{
			ID: "docs", Category: registry.CategoryDocumentation, Importance: registry.ImportanceOptional,
			Relationships: []registry.Relationship{{Target: "packages/legacy", Type: registry.RelationDocuments}},
		},
	})
}

func TestRender_Golden(t *testing.T) {
	want := `graph TD
  apps_web["🚀 apps/web"]:::critical
  packages_core["📦 packages/core"]:::important
  docs["📖 docs"]:::optional
  packages_legacy["packages/legacy"]:::missing

  apps_web -->|"🔗 dependency"| packages_core
  apps_web -->|"🧪 tests"| packages_core
  apps_web -->|"📥 imports"| packages_legacy
  docs -->|"📖 documents"| packages_legacy

  classDef critical ` + classStyles[registry.ImportanceCritical] + `
  classDef important ` + classStyles[registry.ImportanceImportant] + `
  classDef optional ` + classStyles[registry.ImportanceOptional] + `
  classDef excluded ` + classStyles[registry.ImportanceExcluded] + `
  classDef missing ` + missingStyle + `
`
	if got := Render(sample(), Options{}); got != want {
		t.Errorf("Render() mismatch\n--- got ---\n%s\n--- want ---\n%s", got, want)
	}
}

func TestRender_Deterministic(t *testing.T) {
	first := Render(sample(), Options{Direction: LeftRight})
	for i := 0; i < 20; i++ {
		if got := Render(sample(), Options{Direction: LeftRight}); got != first {
			t.Fatal("Render() output differs between runs")
		}
	}
	if !strings.HasPrefix(first, "graph LR\n") {
		t.Errorf("direction not applied: %q", strings.SplitN(first, "\n", 2)[0])
	}
}

func TestRender_NoEdgeDropped(t *testing.T) {
	g := sample()
	out := Render(g, Options{})
	if got := strings.Count(out, "-->"); got != g.EdgeCount() {
		t.Errorf("rendered %d edges, want %d", got, g.EdgeCount())
	}
	if got := strings.Count(out, ":::missing"); got != 1 {
		t.Errorf("missing target declared %d times, want 1", got)
	}
}

func TestRender_Empty(t *testing.T) {
	out := Render(graph.Build(nil), Options{})
	if !strings.HasPrefix(out, "graph TD\n\n  classDef critical") {
		t.Errorf("unexpected empty render:\n%s", out)
	}
}

func TestRender_EscapesLabels(t *testing.T) {
	g := graph.Build([]registry.Module{{ID: `say "hi"`, Category: registry.CategoryScript, Importance: registry.ImportanceExcluded}})
	out := Render(g, Options{})
	if !strings.Contains(out, `say__hi_["📜 say #quot;hi#quot;"]:::excluded`) {
		t.Errorf("label not escaped:\n%s", out)
	}
}

func TestSanitizeID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"core", "core"},
		{"packages/core", "packages_core"},
		{"@scope/pkg-name", "_scope_pkg_name"},
		{"2fa", "n_2fa"},
		{"end", "n_end"},
		{"", "n_"},
		{"ünïcode", "_n_code"},
	}

	for _, tt := range tests {
		if got := SanitizeID(tt.in); got != tt.want {
			t.Errorf("SanitizeID(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMakeIDs_Collisions(t *testing.T) {
	ids := makeIDs([]string{"a-b", "a_b", "a/b", "a-b"})
	if ids["a-b"] != "a_b" || ids["a_b"] != "a_b_2" || ids["a/b"] != "a_b_3" {
		t.Errorf("makeIDs() = %v", ids)
	}
}

func TestParseDirection(t *testing.T) {
	tests := []struct {
		in      string
		want    Direction
		wantErr bool
	}{
		{"", TopDown, false},
		{"td", TopDown, false},
		{"TB", TopDown, false},
		{"lr", LeftRight, false},
		{"BT", BottomUp, false},
		{" RL ", RightLeft, false},
		{"diagonal", "", true},
	}

	for _, tt := range tests {
		got, err := ParseDirection(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDirection(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidDirection) {
			t.Errorf("ParseDirection(%q) error code = %v", tt.in, errors.GetCode(err))
		}
		if got != tt.want {
			t.Errorf("ParseDirection(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestGlyphs_CoverEnums(t *testing.T) {
	for _, c := range registry.Categories {
		if CategoryGlyph(c) == fallbackGlyph {
			t.Errorf("category %q has no glyph", c)
		}
	}
	for _, r := range registry.RelationTypes {
		if RelationGlyph(r) == fallbackGlyph {
			t.Errorf("relation type %q has no glyph", r)
		}
	}
	for _, i := range registry.Importances {
		if classStyles[i] == "" {
			t.Errorf("importance %q has no class style", i)
		}
	}
	if CategoryGlyph("unknown") != fallbackGlyph {
		t.Error("unknown category should use the fallback glyph")
	}
}
