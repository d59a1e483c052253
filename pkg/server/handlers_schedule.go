package server

import (
	"net/http"

	"github.com/flumotion/depgraph/pkg/types"
)

type scheduleEntry struct {
	Kind string `json:"kind"`
	Name string `json:"name"`
	Flow string `json:"flow,omitempty"`
}

func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	ready := s.graph.WhatShouldBeStarted(r.Context())

	entries := make([]scheduleEntry, 0, len(ready))
	for _, v := range ready {
		entry := scheduleEntry{Kind: v.Kind.String()}
		switch obj := v.Obj.(type) {
		case string:
			entry.Name = obj
		case types.Component:
			entry.Name = obj.Name()
			entry.Flow = obj.Parent()
		}
		entries = append(entries, entry)
	}

	s.writeJSON(w, http.StatusOK, entries)
}
