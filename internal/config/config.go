// Package config defines service configuration structures and loading hooks.
package config

import (
	"time"

	"github.com/wtstats/wtstats/internal/domain/heatmap"
)

// Deployment environments. The environment decides the default base path.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	// ProductionBasePath is the prefix the static export is served under in production.
	ProductionBasePath = "/WTStats"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat is "text" or "json".
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// Env is development or production.
	Env string `koanf:"env"`

	// BasePath prefixes every route and fixture URL. Derived from Env when unset.
	BasePath string `koanf:"base_path"`

	// SiteDir is the static export directory served for non-API routes.
	SiteDir string `koanf:"site_dir"`

	// DataURL is the fixture origin: http(s)://host or file:///dir.
	DataURL string `koanf:"data_url"`

	FetchTimeoutMS    int `koanf:"fetch_timeout_ms"`
	CacheSize         int `koanf:"cache_size"`
	CacheTTLMS        int `koanf:"cache_ttl_ms"`
	RefreshIntervalMS int `koanf:"refresh_interval_ms"`

	// DraftBand and SeasonBand are "lo,hi" neutral bands for scaled heatmaps.
	DraftBand  string `koanf:"draft_band"`
	SeasonBand string `koanf:"season_band"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		LogFormat:         "text",
		Addr:              ":9080",
		Env:               EnvDevelopment,
		SiteDir:           "out",
		DataURL:           "file://out",
		FetchTimeoutMS:    10_000,
		CacheSize:         256,
		CacheTTLMS:        5 * 60 * 1000,
		RefreshIntervalMS: 60_000,
		DraftBand:         heatmap.DefaultBand.String(),
		SeasonBand:        heatmap.NarrowBand.String(),
	}
}

// DefaultBasePath returns the prefix used when base_path is not set.
func DefaultBasePath(env string) string {
	if env == EnvProduction {
		return ProductionBasePath
	}
	return ""
}

// FetchTimeout returns the per-request fixture timeout.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutMS) * time.Millisecond
}

// CacheTTL returns the cache expiry; zero means entries never expire.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLMS) * time.Millisecond
}

// RefreshInterval returns the manager snapshot refresh period; zero disables it.
func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.RefreshIntervalMS) * time.Millisecond
}

// Bands parses the configured heatmap bands.
func (c *Config) Bands() (draft, season heatmap.Band, err error) {
	if draft, err = heatmap.ParseBand(c.DraftBand); err != nil {
		return draft, season, err
	}
	season, err = heatmap.ParseBand(c.SeasonBand)
	return draft, season, err
}
