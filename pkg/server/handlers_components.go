package server

import (
	"net/http"

	"github.com/flumotion/depgraph/pkg/schema"
	"github.com/flumotion/depgraph/pkg/types"
)

type addComponentRequest struct {
	Name   string         `json:"name"`
	Flow   string         `json:"flow"`
	Worker string         `json:"worker"`
	Config map[string]any `json:"config"`
}

func (s *Server) handleAddComponent(w http.ResponseWriter, r *http.Request) {
	var req addComponentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]any{"error": err.Error()})
		return
	}
	if req.Name == "" || req.Flow == "" {
		s.writeJSON(w, http.StatusBadRequest, map[string]any{"error": "name and flow are required"})
		return
	}

	if err := schema.ValidateComponentConfig(req.Config); err != nil {
		s.writeJSON(w, http.StatusPreconditionFailed, map[string]any{"error": err.Error()})
		return
	}

	c := types.NewConfiguredComponent(req.Name, req.Flow, req.Worker, req.Config)
	if err := s.graph.AddComponent(c); err != nil {
		s.writeError(w, err)
		return
	}
	s.registry.put(req.Flow, req.Name, c)
	s.writeJSON(w, http.StatusCreated, map[string]any{"name": req.Name, "flow": req.Flow})
}

func (s *Server) handleRemoveComponent(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	flow := r.URL.Query().Get("flow")

	c, ok := s.registry.get(flow, name)
	if !ok {
		s.writeJSON(w, http.StatusNotFound, map[string]any{"error": "unknown component"})
		return
	}
	if err := s.graph.RemoveComponent(c); err != nil {
		s.writeError(w, err)
		return
	}
	s.registry.delete(flow, name)
	w.WriteHeader(http.StatusNoContent)
}

type setComponentWorkerRequest struct {
	Flow   string `json:"flow"`
	Worker string `json:"worker"`
}

func (s *Server) handleSetComponentWorker(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	var req setComponentWorkerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]any{"error": err.Error()})
		return
	}

	c, ok := s.registry.get(req.Flow, name)
	if !ok {
		s.writeJSON(w, http.StatusNotFound, map[string]any{"error": "unknown component"})
		return
	}
	if err := s.graph.SetComponentWorker(c, req.Worker); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type addClockMasterRequest struct {
	Flow string `json:"flow"`
}

func (s *Server) handleAddClockMaster(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	var req addClockMasterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]any{"error": err.Error()})
		return
	}

	c, ok := s.registry.get(req.Flow, name)
	if !ok {
		s.writeJSON(w, http.StatusNotFound, map[string]any{"error": "unknown component"})
		return
	}
	if err := s.graph.AddClockMaster(c); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMapEatersToFeeders(w http.ResponseWriter, r *http.Request) {
	if err := s.graph.MapEatersToFeeders(r.Context()); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
