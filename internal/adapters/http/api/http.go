// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/wtstats/wtstats/internal/adapters/fixtures"
	service "github.com/wtstats/wtstats/internal/app"
	"github.com/wtstats/wtstats/internal/domain/heatmap"
	"github.com/wtstats/wtstats/internal/domain/model"
	"github.com/wtstats/wtstats/internal/domain/table"
	"github.com/wtstats/wtstats/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	Managers(ctx context.Context) (model.ManagerIndex, error)
	LeagueStandings(ctx context.Context, column string, desc bool) ([]table.ManagerTotals, error)
	Seasons(ctx context.Context) ([]int, error)
	Rivalry(ctx context.Context, first, second int) (service.RivalryView, error)
	DraftHeatmap(ctx context.Context, metric string, season int) (heatmap.Grid, error)
	SeasonHeatmap(ctx context.Context, metric string, band *heatmap.Band) (heatmap.Grid, error)
	Articles(ctx context.Context) (model.ArticleIndex, error)
	InvalidateCache(ctx context.Context, path string) int
}

// Server wires HTTP routes for the dashboard API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	leagueHandler  *LeagueHandler
	rivalryHandler *RivalryHandler
	heatmapHandler *HeatmapHandler
	cacheHandler   *CacheHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(statsProvider),
		leagueHandler:  NewLeagueHandler(deps),
		rivalryHandler: NewRivalryHandler(deps),
		heatmapHandler: NewHeatmapHandler(deps),
		cacheHandler:   NewCacheHandler(deps),
	}
}

// Register attaches all API routes to r.
func (s *Server) Register(r chi.Router) {
	r.Get("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	r.Get("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	r.Route("/api", func(r chi.Router) {
		r.Get("/managers", MetricsMiddleware(s.leagueHandler.HandleManagers, "managers"))
		r.Get("/standings", MetricsMiddleware(s.leagueHandler.HandleStandings, "standings"))
		r.Get("/seasons", MetricsMiddleware(s.leagueHandler.HandleSeasons, "seasons"))
		r.Get("/articles", MetricsMiddleware(s.leagueHandler.HandleArticles, "articles"))
		r.Get("/h2h", MetricsMiddleware(s.rivalryHandler.HandleRivalry, "h2h"))
		r.Get("/heatmap/draft", MetricsMiddleware(s.heatmapHandler.HandleDraft, "heatmap_draft"))
		r.Get("/heatmap/seasons", MetricsMiddleware(s.heatmapHandler.HandleSeasons, "heatmap_seasons"))
		r.Post("/cache/invalidate", MetricsMiddleware(s.cacheHandler.HandleInvalidate, "cache_invalidate"))
	})
}

// NewRouter builds the root handler. Every route, mounts included, lives
// under basePath; with a prefix the bare root redirects to it.
func NewRouter(basePath string, s *Server, mounts ...func(chi.Router)) http.Handler {
	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	routes := func(sub chi.Router) {
		s.Register(sub)
		for _, mount := range mounts {
			mount(sub)
		}
	}

	basePath = fixtures.NormalizeBasePath(basePath)
	if basePath == "" {
		routes(r)
		return r
	}
	r.Route(basePath, routes)
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, basePath+"/", http.StatusFound)
	})
	return r
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeServiceError maps service and fixture errors to HTTP responses.
// Upstream fixture failures are 502 and keep their kind as the code.
func writeServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, fixtures.ErrInvalidPair),
		errors.Is(err, service.ErrUnknownMetric),
		errors.Is(err, table.ErrUnknownColumn),
		errors.Is(err, heatmap.ErrInvalidBand):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, service.ErrUnknownSeason):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, fixtures.ErrFetch),
		errors.Is(err, fixtures.ErrNetwork),
		errors.Is(err, fixtures.ErrMalformedData):
		logger.Get().Warn(ctx, "fixture request failed",
			logger.String("requestID", chimw.GetReqID(ctx)),
			logger.Error(err))
		writeError(w, http.StatusBadGateway, fixtures.Outcome(err), err)
	default:
		logger.Get().Error(ctx, "request failed",
			logger.String("requestID", chimw.GetReqID(ctx)),
			logger.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}

func badRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrBadRequest, fmt.Sprintf(format, args...))
}
