package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/flumotion/depgraph/pkg/types"
)

func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.WithError(err).Error("failed to encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	var derr *types.Error
	if errors.As(err, &derr) {
		status = statusForKind(derr.Kind)
	}
	s.logger.WithError(err).WithField("status", status).Warn("request failed")
	s.writeJSON(w, status, map[string]any{"error": err.Error()})
}

// statusForKind maps the core's closed error taxonomy to HTTP status, per
// SPEC_FULL.md §7.
func statusForKind(k types.ErrorKind) int {
	switch k {
	case types.AlreadyExists:
		return http.StatusConflict
	case types.NotFound:
		return http.StatusNotFound
	case types.WouldCycle:
		return http.StatusUnprocessableEntity
	case types.InUse:
		return http.StatusConflict
	case types.Unresolved:
		return http.StatusUnprocessableEntity
	case types.PreconditionFailed:
		return http.StatusPreconditionFailed
	default:
		return http.StatusInternalServerError
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
