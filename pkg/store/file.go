package store

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/matzehuels/archgraph/pkg/errors"
	"github.com/matzehuels/archgraph/pkg/observability"
)

// FileStore is a file-based run archive for CLI use.
// Runs are stored as JSON files in a data directory.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates a new file-based run archive.
// If baseDir is empty, defaults to ~/.local/share/archgraph/runs/
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		baseDir = filepath.Join(home, ".local", "share", "archgraph", "runs")
	}
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("create archive dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

func (s *FileStore) runPath(id string) string {
	return filepath.Join(s.baseDir, id+".json")
}

func (s *FileStore) Save(ctx context.Context, run *Run) error {
	start := time.Now()
	err := s.save(run)
	observability.Store().OnSave(ctx, run.ID, time.Since(start), err)
	return err
}

func (s *FileStore) save(run *Run) error {
	if err := uuid.Validate(run.ID); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "invalid run id %q", run.ID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal run: %w", err)
	}
	if err := os.WriteFile(s.runPath(run.ID), data, 0600); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeStore, err, "write run file")
	}
	return nil
}

func (s *FileStore) Get(ctx context.Context, id string) (*Run, error) {
	// Ids are uuids; anything else cannot name a file we wrote.
	if uuid.Validate(id) != nil {
		return nil, notFound(id)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.runPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, notFound(id)
		}
		return nil, apperrors.Wrap(apperrors.ErrCodeStore, err, "read run file")
	}

	var run Run
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeStore, err, "parse run %s", id)
	}
	return &run, nil
}

func (s *FileStore) List(ctx context.Context, limit int) ([]Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeStore, err, "read archive dir")
	}

	summaries := []Summary{}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name()))
		if err != nil {
			continue
		}
		var run Run
		if err := json.Unmarshal(data, &run); err != nil {
			continue
		}
		summaries = append(summaries, run.Summarize())
	}

	slices.SortFunc(summaries, func(a, b Summary) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	if n := listLimit(limit); len(summaries) > n {
		summaries = summaries[:n]
	}
	return summaries, nil
}

func (s *FileStore) Close(context.Context) error { return nil }

// Path returns the base directory for run files.
func (s *FileStore) Path() string {
	return s.baseDir
}

// Prune removes runs created before cutoff and returns how many were removed.
func (s *FileStore) Prune(ctx context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrCodeStore, err, "read archive dir")
	}

	removed := 0
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		path := filepath.Join(s.baseDir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var run Summary
		if err := json.Unmarshal(data, &run); err != nil {
			continue
		}
		if run.CreatedAt.Before(cutoff) {
			if os.Remove(path) == nil {
				removed++
			}
		}
	}
	return removed, nil
}

var _ Store = (*FileStore)(nil)
