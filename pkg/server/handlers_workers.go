package server

import "net/http"

type addWorkerRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleAddWorker(w http.ResponseWriter, r *http.Request) {
	var req addWorkerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]any{"error": err.Error()})
		return
	}
	if req.Name == "" {
		s.writeJSON(w, http.StatusBadRequest, map[string]any{"error": "name is required"})
		return
	}

	if err := s.graph.AddWorker(req.Name); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, map[string]any{"name": req.Name})
}

func (s *Server) handleRemoveWorker(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if err := s.graph.RemoveWorker(name); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
