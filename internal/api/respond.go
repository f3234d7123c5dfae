package api

import (
	"encoding/json"
	"errors"
	"net/http"

	apperrors "github.com/matzehuels/archgraph/pkg/errors"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error     errorBody `json:"error"`
	RequestID string    `json:"request_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func writeErrorStatus(w http.ResponseWriter, r *http.Request, status int, code, msg string) {
	writeJSON(w, status, errorResponse{
		Error:     errorBody{Code: code, Message: msg},
		RequestID: RequestIDFrom(r.Context()),
	})
}

// writeError maps coded errors to status codes. Messages of server-side
// failures are logged, not returned.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		writeErrorStatus(w, r, http.StatusRequestEntityTooLarge, string(apperrors.ErrCodeInvalidInput),
			"request body too large")
	case apperrors.IsClientError(err):
		writeErrorStatus(w, r, http.StatusBadRequest, string(apperrors.GetCode(err)), errorMessage(err))
	case apperrors.Is(err, apperrors.ErrCodeRunNotFound), apperrors.Is(err, apperrors.ErrCodeNotFound):
		writeErrorStatus(w, r, http.StatusNotFound, string(apperrors.GetCode(err)), errorMessage(err))
	default:
		s.logger.Error("request failed", "path", r.URL.Path, "err", err,
			"request_id", RequestIDFrom(r.Context()))
		writeErrorStatus(w, r, http.StatusInternalServerError, string(apperrors.ErrCodeInternal),
			"internal server error")
	}
}

// errorMessage is the coded message followed by its cause, if any.
func errorMessage(err error) string {
	var e *apperrors.Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return e.Message + ": " + e.Cause.Error()
		}
		return e.Message
	}
	return err.Error()
}
