package api

import (
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/matzehuels/archgraph/pkg/errors"
	"github.com/matzehuels/archgraph/pkg/pipeline"
	"github.com/matzehuels/archgraph/pkg/registry"
	"github.com/matzehuels/archgraph/pkg/report"
	"github.com/matzehuels/archgraph/pkg/store"
)

// AnalyzeResponse is the body of a successful POST /v1/analyze.
type AnalyzeResponse struct {
	ID            string        `json:"id"`
	Archived      bool          `json:"archived"`
	GraphHash     string        `json:"graph_hash"`
	Valid         bool          `json:"valid"`
	Errors        []string      `json:"errors"`
	Warnings      []string      `json:"warnings"`
	Diagram       string        `json:"diagram"`
	DiagramFormat string        `json:"diagram_format"`
	Report        report.Report `json:"report"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	opts, err := s.options(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	reg, err := s.decodeRegistry(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	opts.GeneratedAt = s.now()
	result, err := s.runner.Execute(r.Context(), reg, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	run := store.NewRun(result, opts, s.now())
	archived := false
	if s.archive != nil {
		if err := s.archive.Save(r.Context(), run); err != nil {
			s.logger.Warn("archive run failed", "id", run.ID, "err", err)
		} else {
			archived = true
		}
	}

	v := result.Analysis.Validation
	writeJSON(w, http.StatusOK, AnalyzeResponse{
		ID:            run.ID,
		Archived:      archived,
		GraphHash:     result.GraphHash,
		Valid:         v.Valid,
		Errors:        v.Errors,
		Warnings:      v.Warnings,
		Diagram:       string(result.Diagram),
		DiagramFormat: opts.DiagramFormat,
		Report:        result.Report,
	})
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	opts, err := s.options(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	reg, err := s.decodeRegistry(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	g, err := pipeline.Parse(reg)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	a, err := s.runner.Analyze(r.Context(), g, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a.Validation)
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if s.archive == nil {
		writeErrorStatus(w, r, http.StatusNotFound, string(apperrors.ErrCodeNotFound), "run archive is not configured")
		return
	}
	limit, err := intParam(r, "limit")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	runs, err := s.archive.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	if s.archive == nil {
		writeErrorStatus(w, r, http.StatusNotFound, string(apperrors.ErrCodeNotFound), "run archive is not configured")
		return
	}
	run, err := s.archive.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

// options merges query overrides into the server defaults:
// format, direction, detailed, max_fan_out, max_chains, top_n, refresh.
func (s *Server) options(r *http.Request) (pipeline.Options, error) {
	opts := s.config.Defaults
	q := r.URL.Query()

	if v := q.Get("format"); v != "" {
		opts.DiagramFormat = v
	}
	if v := q.Get("direction"); v != "" {
		opts.Direction = v
	}
	for _, p := range []struct {
		name string
		dst  *int
	}{
		{"max_fan_out", &opts.MaxFanOut},
		{"max_chains", &opts.MaxChains},
		{"top_n", &opts.TopN},
	} {
		n, err := intParam(r, p.name)
		if err != nil {
			return opts, err
		}
		if n != 0 {
			*p.dst = n
		}
	}
	for _, p := range []struct {
		name string
		dst  *bool
	}{
		{"detailed", &opts.Detailed},
		{"refresh", &opts.Refresh},
	} {
		if v := q.Get(p.name); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return opts, apperrors.New(apperrors.ErrCodeInvalidInput, "%s must be a boolean, got %q", p.name, v)
			}
			*p.dst = b
		}
	}

	opts.Logger = s.logger
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return opts, err
	}
	return opts, nil
}

func intParam(r *http.Request, name string) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, apperrors.New(apperrors.ErrCodeInvalidInput, "%s must be a non-negative integer, got %q", name, v)
	}
	return n, nil
}

// decodeRegistry reads the request body in the format named by Content-Type.
func (s *Server) decodeRegistry(w http.ResponseWriter, r *http.Request) (*registry.Registry, error) {
	body := http.MaxBytesReader(w, r.Body, s.config.MaxBodyBytes)
	defer body.Close()
	return registry.Read(body, bodyFormat(r.Header.Get("Content-Type")))
}

func bodyFormat(contentType string) registry.Format {
	mt, _, _ := mime.ParseMediaType(contentType)
	switch mt {
	case "application/yaml", "application/x-yaml", "text/yaml":
		return registry.FormatYAML
	case "application/toml", "text/toml":
		return registry.FormatTOML
	}
	return registry.FormatJSON
}
