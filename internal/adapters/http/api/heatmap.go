package api

import (
	"net/http"
	"strconv"

	"github.com/wtstats/wtstats/internal/domain/heatmap"
)

// HeatmapHandler serves classified heatmap grids.
type HeatmapHandler struct {
	deps Dependencies
}

// NewHeatmapHandler creates a new heatmap handler.
func NewHeatmapHandler(deps Dependencies) *HeatmapHandler {
	return &HeatmapHandler{deps: deps}
}

// HandleDraft handles GET /api/heatmap/draft?metric=poe|points&season=<id>.
func (h *HeatmapHandler) HandleDraft(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	metric := q.Get("metric")
	if metric == "" {
		metric = "poe"
	}
	season := 0
	if raw := q.Get("season"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			writeServiceError(r.Context(), w, badRequest("season must be a positive year"))
			return
		}
		season = v
	}
	g, err := h.deps.DraftHeatmap(r.Context(), metric, season)
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

// HandleSeasons handles GET /api/heatmap/seasons?metric=points_for|win_pct&band=lo,hi.
func (h *HeatmapHandler) HandleSeasons(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	metric := q.Get("metric")
	if metric == "" {
		metric = "points_for"
	}
	var band *heatmap.Band
	if raw := q.Get("band"); raw != "" {
		b, err := heatmap.ParseBand(raw)
		if err != nil {
			writeServiceError(r.Context(), w, err)
			return
		}
		band = &b
	}
	g, err := h.deps.SeasonHeatmap(r.Context(), metric, band)
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}
