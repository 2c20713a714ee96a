package api

import (
	"net/http"
	"strings"
)

// CacheHandler drops cached fixtures so the next read refetches them.
type CacheHandler struct {
	deps Dependencies
}

// NewCacheHandler creates a new cache handler.
func NewCacheHandler(deps Dependencies) *CacheHandler {
	return &CacheHandler{deps: deps}
}

type invalidateResponse struct {
	Path    string `json:"path,omitempty"`
	Dropped int    `json:"dropped"`
}

// HandleInvalidate handles POST /api/cache/invalidate?path=<subpath>.
// Without a path every entry is dropped.
func (h *CacheHandler) HandleInvalidate(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimSuffix(strings.Trim(r.URL.Query().Get("path"), "/"), ".json")
	path = strings.TrimPrefix(path, "data/")
	n := h.deps.InvalidateCache(r.Context(), path)
	writeJSON(w, http.StatusOK, invalidateResponse{Path: path, Dropped: n})
}
