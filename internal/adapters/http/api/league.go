package api

import (
	"net/http"
	"strings"
)

// LeagueHandler serves the manager index, standings and article listing.
type LeagueHandler struct {
	deps Dependencies
}

// NewLeagueHandler creates a new league handler.
func NewLeagueHandler(deps Dependencies) *LeagueHandler {
	return &LeagueHandler{deps: deps}
}

// HandleManagers handles GET /api/managers.
func (h *LeagueHandler) HandleManagers(w http.ResponseWriter, r *http.Request) {
	idx, err := h.deps.Managers(r.Context())
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, idx)
}

// HandleStandings handles GET /api/standings?sort=<column>&order=asc|desc.
// Order defaults to descending.
func (h *LeagueHandler) HandleStandings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	desc := true
	switch strings.ToLower(q.Get("order")) {
	case "", "desc":
	case "asc":
		desc = false
	default:
		writeServiceError(r.Context(), w, badRequest("order must be asc or desc"))
		return
	}
	rows, err := h.deps.LeagueStandings(r.Context(), q.Get("sort"), desc)
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"standings": rows})
}

// HandleSeasons handles GET /api/seasons.
func (h *LeagueHandler) HandleSeasons(w http.ResponseWriter, r *http.Request) {
	seasons, err := h.deps.Seasons(r.Context())
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"seasons": seasons})
}

// HandleArticles handles GET /api/articles.
func (h *LeagueHandler) HandleArticles(w http.ResponseWriter, r *http.Request) {
	idx, err := h.deps.Articles(r.Context())
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, idx)
}
