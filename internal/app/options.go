package service

import (
	"time"

	"github.com/wtstats/wtstats/internal/domain/heatmap"
	"github.com/wtstats/wtstats/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithDraftBand sets the neutral band for scaled draft heatmaps.
func WithDraftBand(b heatmap.Band) Option {
	return func(s *Service) {
		if b.Validate() == nil {
			s.draftBand = b
		}
	}
}

// WithSeasonBand sets the default neutral band for season heatmaps.
func WithSeasonBand(b heatmap.Band) Option {
	return func(s *Service) {
		if b.Validate() == nil {
			s.seasonBand = b
		}
	}
}

// WithRefreshInterval sets how often the manager snapshot is refreshed.
// Zero disables periodic refresh.
func WithRefreshInterval(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.refreshInterval = d
		}
	}
}
