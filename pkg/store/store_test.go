package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"

	apperrors "github.com/matzehuels/archgraph/pkg/errors"
	"github.com/matzehuels/archgraph/pkg/pipeline"
	"github.com/matzehuels/archgraph/pkg/registry"
)

func execute(t *testing.T, opts pipeline.Options) (*pipeline.Result, pipeline.Options) {
	t.Helper()
	reg := &registry.Registry{Modules: []registry.Module{
		{
			ID:         "apps/web",
			Category:   registry.CategoryService,
			Importance: registry.ImportanceCritical,
			Relationships: []registry.Relationship{
				{Target: "packages/core", Type: registry.RelationImports},
				{Target: "packages/missing", Type: registry.RelationUses},
			},
		},
		{ID: "packages/core", Category: registry.CategoryLibrary, Importance: registry.ImportanceImportant},
	}}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	result, err := pipeline.NewRunner(nil, nil, nil).Execute(context.Background(), reg, opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	return result, opts
}

func TestNewRun(t *testing.T) {
	result, opts := execute(t, pipeline.Options{})
	now := time.Date(2024, 5, 1, 12, 0, 0, 123456789, time.FixedZone("CEST", 2*3600))

	run := NewRun(result, opts, now)

	if uuid.Validate(run.ID) != nil {
		t.Errorf("ID %q should be a uuid", run.ID)
	}
	if want := time.Date(2024, 5, 1, 10, 0, 0, 123000000, time.UTC); !run.CreatedAt.Equal(want) || run.CreatedAt.Location() != time.UTC {
		t.Errorf("CreatedAt = %v, want %v", run.CreatedAt, want)
	}
	if run.GraphHash != result.GraphHash {
		t.Error("GraphHash not copied")
	}
	if len(run.Graph.Nodes) != 2 || len(run.Graph.Edges) != 2 {
		t.Errorf("graph = %d nodes, %d edges", len(run.Graph.Nodes), len(run.Graph.Edges))
	}
	if run.Validation.Valid || len(run.Validation.Errors) != 1 {
		t.Errorf("validation = %+v", run.Validation)
	}
	if run.DiagramFormat != pipeline.FormatMermaid || run.Diagram == "" {
		t.Error("mermaid diagram should be archived")
	}

	if other := NewRun(result, opts, now); other.ID == run.ID {
		t.Error("each run should get a fresh id")
	}

	s := run.Summarize()
	if s.ID != run.ID || s.Modules != 2 || s.Valid {
		t.Errorf("Summarize() = %+v", s)
	}
}

func TestNewRun_SkipsSVG(t *testing.T) {
	result, opts := execute(t, pipeline.Options{})
	opts.DiagramFormat = pipeline.FormatSVG

	run := NewRun(result, opts, time.Now())
	if run.Diagram != "" || run.DiagramFormat != "" {
		t.Error("svg diagrams should not be archived")
	}
}

func TestRun_BSONDocument(t *testing.T) {
	result, opts := execute(t, pipeline.Options{})
	run := NewRun(result, opts, time.Now())

	data, err := bson.Marshal(run)
	if err != nil {
		t.Fatalf("bson.Marshal: %v", err)
	}

	raw := bson.Raw(data)
	if id, ok := raw.Lookup("_id").StringValueOK(); !ok || id != run.ID {
		t.Errorf("_id = %q, want %q", id, run.ID)
	}
	if valid, ok := raw.Lookup("validation", "valid").BooleanOK(); !ok || valid {
		t.Errorf("validation.valid = %v (present %v)", valid, ok)
	}
	var decoded Run
	if err := bson.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("bson.Unmarshal: %v", err)
	}
	if decoded.ID != run.ID || !decoded.CreatedAt.Equal(run.CreatedAt) {
		t.Errorf("decoded header = %s %v", decoded.ID, decoded.CreatedAt)
	}
	if len(decoded.Graph.Edges) != 2 || !decoded.Graph.Edges[1].Dangling {
		t.Errorf("decoded edges = %+v", decoded.Graph.Edges)
	}
	if decoded.Report.Title != run.Report.Title || decoded.Report.EdgeCount != 2 {
		t.Errorf("decoded report = %+v", decoded.Report)
	}
}

func TestFileStore(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "runs")
	st, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	defer st.Close(ctx)

	if st.Path() != dir {
		t.Errorf("Path() = %q", st.Path())
	}

	result, opts := execute(t, pipeline.Options{})
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var ids []string
	for i := range 3 {
		run := NewRun(result, opts, base.Add(time.Duration(i)*time.Hour))
		if err := st.Save(ctx, run); err != nil {
			t.Fatalf("Save: %v", err)
		}
		ids = append(ids, run.ID)
	}

	got, err := st.Get(ctx, ids[1])
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.GraphHash != result.GraphHash || got.Diagram != string(result.Diagram) {
		t.Error("Get returned a different run")
	}

	list, err := st.List(ctx, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 3 || list[0].ID != ids[2] || list[2].ID != ids[0] {
		t.Errorf("List should be newest first: %+v", list)
	}
	if limited, _ := st.List(ctx, 1); len(limited) != 1 || limited[0].ID != ids[2] {
		t.Errorf("List(1) = %+v", limited)
	}

	removed, err := st.Prune(ctx, base.Add(90*time.Minute))
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if removed != 2 {
		t.Errorf("Prune removed %d, want 2", removed)
	}
	if list, _ := st.List(ctx, 0); len(list) != 1 {
		t.Errorf("%d runs left, want 1", len(list))
	}
}

func TestFileStore_NotFound(t *testing.T) {
	ctx := context.Background()
	st, _ := NewFileStore(t.TempDir())

	for _, id := range []string{uuid.NewString(), "../../etc/passwd", ""} {
		_, err := st.Get(ctx, id)
		if !apperrors.Is(err, apperrors.ErrCodeRunNotFound) {
			t.Errorf("Get(%q) error = %v, want RUN_NOT_FOUND", id, err)
		}
	}
}

func TestFileStore_RejectsBadID(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	st, _ := NewFileStore(dir)

	if err := st.Save(ctx, &Run{ID: "../escape"}); err == nil {
		t.Fatal("Save should reject a non-uuid id")
	}
	if entries, _ := os.ReadDir(dir); len(entries) != 0 {
		t.Errorf("nothing should be written, found %d entries", len(entries))
	}
}

func TestFileStore_SkipsCorruptFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	st, _ := NewFileStore(dir)

	if err := os.WriteFile(filepath.Join(dir, "junk.json"), []byte("{"), 0600); err != nil {
		t.Fatal(err)
	}
	list, err := st.List(ctx, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("corrupt files should be skipped: %+v", list)
	}
}
