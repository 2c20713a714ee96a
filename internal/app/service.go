// Package service wires the fixture client, the read-through cache and the
// dashboard's domain logic into the operations the HTTP API exposes.
package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/wtstats/wtstats/internal/adapters/fixtures"
	"github.com/wtstats/wtstats/internal/domain/heatmap"
	"github.com/wtstats/wtstats/internal/domain/model"
	"github.com/wtstats/wtstats/internal/domain/rivalry"
	"github.com/wtstats/wtstats/internal/domain/table"
	"github.com/wtstats/wtstats/pkg/logger"
	"github.com/wtstats/wtstats/pkg/metrics"
)

// Rivalry view states.
const (
	StatusOK        = "ok"
	StatusNoHistory = "no_history"
	StatusIntegrity = "data_integrity"
)

// NoHistoryMessage is shown when two owners have never played each other.
const NoHistoryMessage = "no comparison data found"

// RivalryView is the head-to-head result as the dashboard renders it.
// Record is nil for the no-history state. Reconciled is false when the
// record could not be oriented to the selected owner.
type RivalryView struct {
	First      int                  `json:"first_owner_id"`
	Second     int                  `json:"second_owner_id"`
	Status     string               `json:"status"`
	Message    string               `json:"message,omitempty"`
	Reconciled bool                 `json:"reconciled"`
	Record     *model.RivalryRecord `json:"record,omitempty"`
}

// Service implements the API dependencies for the dashboard.
type Service struct {
	mu sync.RWMutex

	client          *fixtures.Client
	draftBand       heatmap.Band
	seasonBand      heatmap.Band
	refreshInterval time.Duration

	managers  fixtures.Latest[model.ManagerIndex]
	refreshes atomic.Int64
	stale     atomic.Int64

	started bool
	stopCh  chan struct{}
	done    chan struct{}

	logger logger.Logger
}

// New constructs a Service reading fixtures through client.
func New(client *fixtures.Client, opts ...Option) *Service {
	s := &Service{
		client:          client,
		draftBand:       heatmap.DefaultBand,
		seasonBand:      heatmap.NarrowBand,
		refreshInterval: time.Minute,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start loads the manager snapshot and starts the periodic refresher.
// A failed initial load is logged; the snapshot is retried on the next tick
// or on first use.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting dashboard service...",
		logger.String("basePath", s.client.BasePath()),
		logger.String("managersURL", s.client.URL(fixtures.PathManagers)))

	if _, err := s.Refresh(ctx); err != nil {
		s.logger.Warn(ctx, "initial manager refresh failed", logger.Error(err))
	}

	s.stopCh = make(chan struct{})
	s.done = make(chan struct{})
	if s.refreshInterval > 0 {
		go s.refreshLoop(ctx, s.stopCh, s.done)
	} else {
		close(s.done)
	}

	s.started = true
	s.logger.Info(ctx, "dashboard service started",
		logger.Any("refreshInterval", s.refreshInterval.String()))
	return nil
}

func (s *Service) refreshLoop(ctx context.Context, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(s.refreshInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		case <-ticker.C:
			if _, err := s.Refresh(ctx); err != nil {
				s.logger.Warn(ctx, "manager refresh failed", logger.Error(err))
			}
		}
	}
}

// Stop ends the periodic refresher and waits for it to exit.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.logger.Info(context.Background(), "stopping dashboard service...")
	close(s.stopCh)
	<-s.done
	s.started = false
	s.logger.Info(context.Background(), "dashboard service stopped")
}

func (s *Service) log() logger.Logger {
	if s.logger == nil {
		return logger.Nop()
	}
	return s.logger
}

// Refresh refetches the manager index. When an older refresh completes
// after a newer one, its result is discarded.
func (s *Service) Refresh(ctx context.Context) (model.ManagerIndex, error) {
	ticket := s.managers.Begin()
	idx, err := s.client.Managers(ctx)
	if err != nil {
		return model.ManagerIndex{}, err
	}
	if !s.managers.Resolve(ticket, idx) {
		s.stale.Add(1)
		metrics.RecordSnapshotStale()
		s.log().Debug(ctx, "discarded stale manager snapshot", logger.Int64("ticket", int64(ticket)))
		current, _ := s.managers.Load()
		return current, nil
	}
	s.refreshes.Add(1)
	metrics.RecordSnapshotRefresh(len(idx.Managers))
	return idx, nil
}

// Managers returns the manager snapshot, loading it on first use.
func (s *Service) Managers(ctx context.Context) (model.ManagerIndex, error) {
	if idx, ok := s.managers.Load(); ok {
		return idx, nil
	}
	return s.Refresh(ctx)
}

// LeagueStandings returns the all-time table sorted by column. An empty
// column keeps the default win-percentage order.
func (s *Service) LeagueStandings(ctx context.Context, column string, desc bool) ([]table.ManagerTotals, error) {
	history, err := s.client.LeagueHistory(ctx)
	if err != nil {
		return nil, err
	}
	rows := table.AllTime(history)
	if column != "" {
		if err := table.SortStandings(rows, column, desc); err != nil {
			return nil, err
		}
	}
	return rows, nil
}

// Seasons returns the season ids present in the league history, oldest first.
func (s *Service) Seasons(ctx context.Context) ([]int, error) {
	history, err := s.client.LeagueHistory(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]int, 0, len(history.Seasons))
	for _, season := range history.Seasons {
		ids = append(ids, season.SeasonID)
	}
	slices.Sort(ids)
	return ids, nil
}

// Rivalry fetches the head-to-head record of first and second and orients
// it so that first is owner 1. No history and integrity mismatches are
// reported in the view, not as errors.
func (s *Service) Rivalry(ctx context.Context, first, second int) (RivalryView, error) {
	view := RivalryView{First: first, Second: second}

	rec, err := s.client.Comparison(ctx, first, second)
	switch {
	case errors.Is(err, fixtures.ErrNoHistory):
		metrics.RecordRivalryNoHistory()
		view.Status = StatusNoHistory
		view.Message = NoHistoryMessage
		return view, nil
	case errors.Is(err, rivalry.ErrDataIntegrity):
		return s.unreconciled(ctx, view, rec, err), nil
	case err != nil:
		return view, err
	}

	oriented, err := rivalry.Reconcile(rec, first)
	if err != nil {
		return s.unreconciled(ctx, view, rec, err), nil
	}
	metrics.RecordRivalryReconciled(rivalry.Swapped(rec, first))
	view.Status = StatusOK
	view.Reconciled = true
	view.Record = &oriented
	return view, nil
}

func (s *Service) unreconciled(ctx context.Context, view RivalryView, rec model.RivalryRecord, err error) RivalryView {
	metrics.RecordRivalryIntegrityError()
	s.log().Warn(ctx, "rivalry record does not match the selected owners",
		logger.Int("first", view.First),
		logger.Int("second", view.Second),
		logger.Error(err))
	view.Status = StatusIntegrity
	view.Message = fmt.Sprintf("record shown as stored: %v", err)
	view.Record = &rec
	return view
}

// Articles returns the article listing.
func (s *Service) Articles(ctx context.Context) (model.ArticleIndex, error) {
	return s.client.Articles(ctx)
}

// InvalidateCache drops one cached fixture path, or every path when path
// is empty. It returns the number of entries dropped.
func (s *Service) InvalidateCache(ctx context.Context, path string) int {
	c := s.client.Cache()
	if c == nil {
		return 0
	}
	if path == "" {
		n := c.Len()
		c.Purge(ctx)
		s.log().Info(ctx, "fixture cache purged", logger.Int("entries", n))
		return n
	}
	if c.Invalidate(ctx, path) {
		s.log().Info(ctx, "fixture cache entry invalidated", logger.String("path", path))
		return 1
	}
	return 0
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":         s.started,
		"basePath":        s.client.BasePath(),
		"refreshInterval": s.refreshInterval.String(),
		"refreshes":       s.refreshes.Load(),
		"staleDiscarded":  s.stale.Load(),
		"draftBand":       s.draftBand.String(),
		"seasonBand":      s.seasonBand.String(),
	}
	if idx, ok := s.managers.Load(); ok {
		stats["managers"] = len(idx.Managers)
	}
	if c := s.client.Cache(); c != nil {
		stats["cacheEntries"] = c.Len()
	}
	return stats
}
