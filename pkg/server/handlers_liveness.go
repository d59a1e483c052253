package server

import (
	"net/http"

	"github.com/flumotion/depgraph/pkg/types"
)

type setLivenessRequest struct {
	Flow string `json:"flow"`
	Live bool   `json:"live"`
}

// handleSetLiveness dispatches to one of the six liveness setters based on
// the {kind} path segment. The WORKER kind addresses a plain worker name;
// every other kind addresses a registered component by flow+name.
func (s *Server) handleSetLiveness(w http.ResponseWriter, r *http.Request) {
	kind, ok := parseKindPath(r.PathValue("kind"))
	if !ok {
		s.writeJSON(w, http.StatusBadRequest, map[string]any{"error": "unknown kind"})
		return
	}
	name := r.PathValue("name")

	var req setLivenessRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]any{"error": err.Error()})
		return
	}

	if kind == types.WORKER {
		if req.Live {
			s.graph.SetWorkerStarted(name)
		} else {
			s.graph.SetWorkerStopped(name)
		}
		w.WriteHeader(http.StatusNoContent)
		return
	}

	c, ok := s.registry.get(req.Flow, name)
	if !ok {
		s.writeJSON(w, http.StatusNotFound, map[string]any{"error": "unknown component"})
		return
	}

	switch kind {
	case types.JOB:
		if req.Live {
			s.graph.SetJobStarted(c)
		} else {
			s.graph.SetJobStopped(c)
		}
	case types.COMPONENTSETUP:
		if req.Live {
			s.graph.SetComponentSetup(c)
		} else {
			s.graph.SetComponentNotSetup(c)
		}
	case types.CLOCKMASTER:
		if req.Live {
			s.graph.SetClockMasterStarted(c)
		} else {
			s.graph.SetClockMasterStopped(c)
		}
	case types.COMPONENTSTART:
		if req.Live {
			s.graph.SetComponentStarted(c)
		} else {
			s.graph.SetComponentNotStarted(c)
		}
	}
	w.WriteHeader(http.StatusNoContent)
}
