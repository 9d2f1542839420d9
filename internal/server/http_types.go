package server

import (
	"net/http"

	"github.com/alfredjeanlab/eventlog/internal/registry"
)

// typeView is a registered type with its display label resolved.
type typeView struct {
	Slug         string `json:"slug"`
	Label        string `json:"label"`
	Description  string `json:"description,omitempty"`
	DisplayLabel string `json:"display_label"`
	Hooks        int    `json:"hooks"`
}

// handleListTypes handles GET /v1/types.
func (s *Server) handleListTypes(w http.ResponseWriter, _ *http.Request) {
	types := s.rec.Types()
	out := make([]typeView, len(types))
	for i, t := range types {
		out[i] = typeView{
			Slug:         t.Slug,
			Label:        t.Label,
			Description:  t.Description,
			DisplayLabel: registry.DisplayLabel(t),
			Hooks:        len(t.Hooks),
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"types": out})
}

// handleGetType handles GET /v1/types/{slug}.
func (s *Server) handleGetType(w http.ResponseWriter, r *http.Request) {
	t, ok := s.rec.Type(r.PathValue("slug"))
	if !ok {
		writeError(w, http.StatusNotFound, "event type not found")
		return
	}
	writeJSON(w, http.StatusOK, t)
}
