package analysis

import (
	"fmt"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/archgraph/pkg/graph"
	"github.com/matzehuels/archgraph/pkg/registry"
)

func mod(id string, targets ...string) registry.Module {
	m := registry.Module{ID: id, Category: registry.CategoryPackage, Importance: registry.ImportanceImportant}
	for _, t := range targets {
		m.Relationships = append(m.Relationships, registry.Relationship{Target: t, Type: registry.RelationImports})
	}
	return m
}

func build(modules ...registry.Module) *graph.Graph {
	return graph.Build(modules)
}

func isRotation(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for shift := range want {
		ok := true
		for i := range want {
			if got[i] != want[(i+shift)%len(want)] {
				ok = false
				break
			}
		}
		if ok {
			return true
		}
	}
	return false
}

// Scenario: A → B → C
func TestScenario_LinearChain(t *testing.T) {
	g := build(mod("A", "B"), mod("B", "C"), mod("C"))

	chains := FindChains(g, ChainOptions{})
	if len(chains.Chains) == 0 {
		t.Fatal("FindChains() returned no chains")
	}
	if got := chains.Chains[0]; !slices.Equal(got, Chain{"A", "B", "C"}) {
		t.Errorf("longest chain = %v, want [A B C]", got)
	}
	if cycles := FindCycles(g); len(cycles) != 0 {
		t.Errorf("FindCycles() = %v, want none", cycles)
	}
	if iso := RankConnectivity(g).Isolated; len(iso) != 0 {
		t.Errorf("Isolated = %v, want none", iso)
	}
}

// Scenario: E ⇄ F
func TestScenario_TwoNodeCycle(t *testing.T) {
	g := build(mod("E", "F"), mod("F", "E"))

	cycles := FindCycles(g)
	if len(cycles) != 1 {
		t.Fatalf("FindCycles() returned %d cycles, want 1: %v", len(cycles), cycles)
	}
	if !isRotation(cycles[0], []string{"E", "F"}) {
		t.Errorf("cycle = %v, want a rotation of [E F]", cycles[0])
	}

	res := Validate(g, ValidateOptions{})
	if !res.Valid {
		t.Errorf("cycles must not invalidate: %v", res.Errors)
	}
	found := false
	for _, w := range res.Warnings {
		if strings.Contains(w, "1 dependency cycle") {
			found = true
		}
	}
	if !found {
		t.Errorf("Warnings = %v, want a cycle warning with count 1", res.Warnings)
	}
}

// Scenario: D alone
func TestScenario_IsolatedNode(t *testing.T) {
	g := build(mod("D"))

	if iso := RankConnectivity(g).Isolated; !slices.Equal(iso, []string{"D"}) {
		t.Errorf("Isolated = %v, want [D]", iso)
	}
	res := Validate(g, ValidateOptions{})
	if len(res.Warnings) != 1 || !strings.Contains(res.Warnings[0], "D") {
		t.Errorf("Warnings = %v, want one warning naming D", res.Warnings)
	}
	if !res.Valid {
		t.Error("isolated node must not invalidate")
	}
}

// Scenario: A → Z, Z undeclared
func TestScenario_DanglingReference(t *testing.T) {
	g := build(mod("A", "Z"))

	res := Validate(g, ValidateOptions{})
	if res.Valid {
		t.Fatal("Valid = true, want false")
	}
	if len(res.Errors) != 1 {
		t.Fatalf("Errors = %v, want exactly one", res.Errors)
	}
	if !strings.Contains(res.Errors[0], `"A"`) || !strings.Contains(res.Errors[0], `"Z"`) {
		t.Errorf("error %q should name both A and Z", res.Errors[0])
	}
}

// Scenario: H with 11 dependencies
func TestScenario_ExcessiveFanOut(t *testing.T) {
	var targets []string
	modules := []registry.Module{}
	for i := range 11 {
		id := fmt.Sprintf("dep%d", i)
		targets = append(targets, id)
		modules = append(modules, mod(id))
	}
	modules = append([]registry.Module{mod("H", targets...)}, modules...)
	g := build(modules...)

	res := Validate(g, ValidateOptions{MaxFanOut: 10})
	found := false
	for _, w := range res.Warnings {
		if strings.Contains(w, "fan-out") && strings.Contains(w, "H (11)") {
			found = true
		}
	}
	if !found {
		t.Errorf("Warnings = %v, want fan-out warning naming H", res.Warnings)
	}

	res = Validate(g, ValidateOptions{MaxFanOut: 11})
	for _, w := range res.Warnings {
		if strings.Contains(w, "fan-out") {
			t.Errorf("unexpected fan-out warning at threshold 11: %q", w)
		}
	}
}

func TestFindCycles_DAG(t *testing.T) {
	tests := []struct {
		name    string
		modules []registry.Module
	}{
		{"empty", nil},
		{"single", []registry.Module{mod("a")}},
		{"diamond", []registry.Module{mod("a", "b", "c"), mod("b", "d"), mod("c", "d"), mod("d")}},
		{"forest", []registry.Module{mod("a", "b"), mod("b"), mod("c", "d"), mod("d")}},
		{"reverse order", []registry.Module{mod("d"), mod("c", "d"), mod("b", "c", "d"), mod("a", "b", "c", "d")}},
		{"dangling", []registry.Module{mod("a", "zz"), mod("b", "a")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if cycles := FindCycles(build(tt.modules...)); len(cycles) != 0 {
				t.Errorf("FindCycles() = %v, want none", cycles)
			}
		})
	}
}

func TestFindCycles(t *testing.T) {
	tests := []struct {
		name    string
		modules []registry.Module
		want    []Cycle
	}{
		{
			name:    "self loop",
			modules: []registry.Module{mod("a", "a")},
			want:    []Cycle{{"a"}},
		},
		{
			name:    "triangle",
			modules: []registry.Module{mod("a", "b"), mod("b", "c"), mod("c", "a")},
			want:    []Cycle{{"a", "b", "c"}},
		},
		{
			name:    "tail into cycle",
			modules: []registry.Module{mod("x", "a"), mod("a", "b"), mod("b", "a")},
			want:    []Cycle{{"a", "b"}},
		},
		{
			name:    "two separate",
			modules: []registry.Module{mod("a", "b"), mod("b", "a"), mod("c", "d"), mod("d", "c")},
			want:    []Cycle{{"a", "b"}, {"c", "d"}},
		},
		{
			name:    "shared node",
			modules: []registry.Module{mod("a", "b", "c"), mod("b", "a"), mod("c", "a")},
			want:    []Cycle{{"a", "b"}, {"a", "c"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindCycles(build(tt.modules...))
			if len(got) != len(tt.want) {
				t.Fatalf("FindCycles() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if !slices.Equal(got[i], tt.want[i]) {
					t.Errorf("cycle %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestFindCycles_Reentrant(t *testing.T) {
	g := build(mod("a", "b"), mod("b", "c"), mod("c", "a"))
	first := FindCycles(g)
	second := FindCycles(g)
	if fmt.Sprint(first) != fmt.Sprint(second) {
		t.Errorf("repeated calls differ: %v vs %v", first, second)
	}
}

func TestCycle_String(t *testing.T) {
	if got := (Cycle{"a", "b"}).String(); got != "a → b → a" {
		t.Errorf("String() = %q", got)
	}
	if got := (Cycle{}).String(); got != "" {
		t.Errorf("empty String() = %q", got)
	}
}

func TestFindChains_Duplicative(t *testing.T) {
	// Every root is explored independently, so tails are reported again.
	g := build(mod("A", "B"), mod("B", "C"), mod("C"))

	got := FindChains(g, ChainOptions{}).Chains
	want := []Chain{{"A", "B", "C"}, {"B", "C"}}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("FindChains() = %v, want %v", got, want)
	}
}

func TestFindChains_Branching(t *testing.T) {
	g := build(mod("a", "b", "c"), mod("b", "d"), mod("c"), mod("d"))

	got := FindChains(g, ChainOptions{}).Chains
	want := []Chain{{"a", "b", "d"}, {"a", "c"}, {"b", "d"}}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("FindChains() = %v, want %v", got, want)
	}
}

func TestFindChains_NoRepeatedIDs(t *testing.T) {
	graphs := map[string]*graph.Graph{
		"cycle":     build(mod("a", "b"), mod("b", "c"), mod("c", "a")),
		"self loop": build(mod("a", "a", "b"), mod("b")),
		"dense": build(
			mod("a", "b", "c", "d"),
			mod("b", "a", "c", "d"),
			mod("c", "a", "b", "d"),
			mod("d", "a", "b", "c"),
		),
	}

	for name, g := range graphs {
		t.Run(name, func(t *testing.T) {
			for _, c := range FindChains(g, ChainOptions{}).Chains {
				if len(c) < 2 {
					t.Errorf("chain %v shorter than 2", c)
				}
				seen := map[string]bool{}
				for _, id := range c {
					if seen[id] {
						t.Errorf("chain %v repeats %s", c, id)
					}
					seen[id] = true
				}
			}
		})
	}
}

func TestFindChains_SortedStable(t *testing.T) {
	g := build(mod("x", "y"), mod("y"), mod("p", "q"), mod("q", "r"), mod("r"))

	got := FindChains(g, ChainOptions{}).Chains
	want := []Chain{{"p", "q", "r"}, {"x", "y"}, {"q", "r"}}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("FindChains() = %v, want %v", got, want)
	}
}

func TestFindChains_Limit(t *testing.T) {
	g := build(
		mod("a", "b", "c", "d"),
		mod("b", "a", "c", "d"),
		mod("c", "a", "b", "d"),
		mod("d", "a", "b", "c"),
	)

	full := FindChains(g, ChainOptions{})
	if full.Truncated {
		t.Error("unlimited run should not be truncated")
	}

	limited := FindChains(g, ChainOptions{Limit: 5})
	if len(limited.Chains) != 5 {
		t.Errorf("len(Chains) = %d, want 5", len(limited.Chains))
	}
	if !limited.Truncated {
		t.Error("Truncated = false, want true")
	}
	if len(full.Chains) <= 5 {
		t.Fatalf("expected more than 5 chains in a dense graph, got %d", len(full.Chains))
	}

	exact := FindChains(g, ChainOptions{Limit: len(full.Chains)})
	if exact.Truncated {
		t.Error("limit equal to the chain count should not truncate")
	}
}

func TestChainResult_Longest(t *testing.T) {
	r := ChainResult{Chains: []Chain{{"a", "b", "c"}, {"b", "c"}}}
	if got := r.Longest(5); len(got) != 2 {
		t.Errorf("Longest(5) len = %d, want 2", len(got))
	}
	if got := r.Longest(1); len(got) != 1 || got[0].String() != "a → b → c" {
		t.Errorf("Longest(1) = %v", got)
	}
}

func TestRankConnectivity(t *testing.T) {
	g := build(
		mod("leaf1"),
		mod("hub", "leaf1", "leaf2", "mid"),
		mod("mid", "leaf2"),
		mod("leaf2"),
		mod("alone"),
	)

	c := RankConnectivity(g)
	var order []string
	for _, r := range c.Ranked {
		order = append(order, fmt.Sprintf("%s:%d", r.ID, r.Degree()))
	}
	want := []string{"hub:3", "mid:2", "leaf2:2", "leaf1:1", "alone:0"}
	if !slices.Equal(order, want) {
		t.Errorf("ranking = %v, want %v", order, want)
	}
	if !slices.Equal(c.Isolated, []string{"alone"}) {
		t.Errorf("Isolated = %v, want [alone]", c.Isolated)
	}
	if top := c.Top(2); len(top) != 2 || top[0].ID != "hub" {
		t.Errorf("Top(2) = %v", top)
	}
}

func TestValidate_DanglingPerOccurrence(t *testing.T) {
	g := build(mod("A", "Z", "Z"), mod("B", "Z"), mod("C", "A"))

	res := Validate(g, ValidateOptions{})
	if len(res.Errors) != 3 {
		t.Fatalf("Errors = %v, want 3 (one per occurrence)", res.Errors)
	}
	want := `module "B" references unknown module "Z" (imports)`
	if res.Errors[2] != want {
		t.Errorf("Errors[2] = %q, want %q", res.Errors[2], want)
	}
}

func TestValidate_ErrorsIffDangling(t *testing.T) {
	tests := []struct {
		name      string
		modules   []registry.Module
		wantValid bool
	}{
		{"clean", []registry.Module{mod("a", "b"), mod("b")}, true},
		{"cycle only", []registry.Module{mod("a", "b"), mod("b", "a")}, true},
		{"isolated only", []registry.Module{mod("a"), mod("b")}, true},
		{"duplicate id", []registry.Module{mod("a", "b"), mod("b"), mod("a")}, true},
		{"dangling", []registry.Module{mod("a", "b"), mod("b", "nope")}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Validate(build(tt.modules...), ValidateOptions{})
			if res.Valid != tt.wantValid {
				t.Errorf("Valid = %v, want %v (errors: %v)", res.Valid, tt.wantValid, res.Errors)
			}
			if res.Valid != (len(res.Errors) == 0) {
				t.Error("Valid must equal len(Errors) == 0")
			}
		})
	}
}

func TestValidate_Duplicates(t *testing.T) {
	g := build(mod("a"), mod("a"), mod("a"))

	res := Validate(g, ValidateOptions{})
	if !res.Valid || len(res.Errors) != 0 {
		t.Errorf("duplicate ids are warnings, got errors %v", res.Errors)
	}
	var dup int
	for _, w := range res.Warnings {
		if strings.Contains(w, `module "a" is declared more than once`) {
			dup++
		}
	}
	if dup != 2 {
		t.Errorf("Warnings = %v, want 2 duplicate warnings", res.Warnings)
	}
}

func TestValidate_AllChecksRun(t *testing.T) {
	var targets []string
	modules := []registry.Module{}
	for i := range 3 {
		id := fmt.Sprintf("t%d", i)
		targets = append(targets, id)
		modules = append(modules, mod(id))
	}
	modules = append(modules,
		mod("hub", append(targets, "missing")...),
		mod("x", "y"), mod("y", "x"),
		mod("lonely"),
	)

	res := Validate(build(modules...), ValidateOptions{MaxFanOut: 2})
	if len(res.Errors) != 1 {
		t.Errorf("Errors = %v, want 1", res.Errors)
	}
	if len(res.Warnings) != 3 {
		t.Errorf("Warnings = %v, want isolated, fan-out and cycle warnings", res.Warnings)
	}
}

func TestValidate_EmptySlices(t *testing.T) {
	res := Validate(build(), ValidateOptions{})
	if res.Errors == nil || res.Warnings == nil {
		t.Error("Errors and Warnings should be empty, not nil")
	}
	if !res.Valid {
		t.Error("empty graph should be valid")
	}
}
