package api

import (
	"net/http"
	"strconv"
)

// RivalryHandler serves head-to-head comparisons.
type RivalryHandler struct {
	deps Dependencies
}

// NewRivalryHandler creates a new rivalry handler.
func NewRivalryHandler(deps Dependencies) *RivalryHandler {
	return &RivalryHandler{deps: deps}
}

// HandleRivalry handles GET /api/h2h?gm1=<id>&gm2=<id>. The record is
// oriented so gm1 is owner 1. No history is a 200 with status no_history.
func (h *RivalryHandler) HandleRivalry(w http.ResponseWriter, r *http.Request) {
	first, err := ownerParam(r, "gm1")
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	second, err := ownerParam(r, "gm2")
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	view, err := h.deps.Rivalry(r.Context(), first, second)
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func ownerParam(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, badRequest("missing %s", name)
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, badRequest("%s must be a positive owner id", name)
	}
	return id, nil
}
