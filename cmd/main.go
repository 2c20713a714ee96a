// Command wtstats serves the WTStats dashboard: the static export, the
// fixture-backed JSON API and Prometheus metrics, all under the base path.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/wtstats/wtstats/internal/adapters/cache"
	"github.com/wtstats/wtstats/internal/adapters/fixtures"
	"github.com/wtstats/wtstats/internal/adapters/http/api"
	"github.com/wtstats/wtstats/internal/adapters/http/site"
	"github.com/wtstats/wtstats/internal/adapters/http/swagger"
	service "github.com/wtstats/wtstats/internal/app"
	"github.com/wtstats/wtstats/internal/config"
	"github.com/wtstats/wtstats/pkg/logger"
	"github.com/wtstats/wtstats/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// HTTP server timeout constants.
const (
	readTimeout           = 10 * time.Second
	writeTimeout          = 30 * time.Second
	idleTimeout           = 60 * time.Second
	readHeaderTimeout     = 5 * time.Second
	shutdownTimeout       = 30 * time.Second
	systemMetricsInterval = 10 * time.Second
)

func main() {
	// Our own registry carries the system gauges.
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}
	if err := logger.SetFormat(cfg.LogFormat); err != nil {
		logger.Get().Warn(ctx, "invalid log_format; keeping text", logger.Error(err))
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		logger.Get().Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	log := logger.Get()

	svc, err := newService(cfg)
	if err != nil {
		log.Error(ctx, "failed to create service", logger.Error(err))
		os.Exit(1)
	}
	if err := svc.Start(ctx); err != nil {
		log.Error(ctx, "failed to start service", logger.Error(err))
		os.Exit(1)
	}
	defer svc.Stop()

	go startSystemMetricsUpdater(ctx)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newHandler(ctx, cfg, svc),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server",
			logger.String("addr", cfg.Addr),
			logger.String("env", cfg.Env),
			logger.String("basePath", cfg.BasePath))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "HTTP server failed", logger.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}
	log.Info(ctx, "server stopped")
}

// newService wires the fixture cache, client and dashboard service from cfg.
func newService(cfg *config.Config) (*service.Service, error) {
	draftBand, seasonBand, err := cfg.Bands()
	if err != nil {
		return nil, err
	}
	client, err := fixtures.New(cfg.DataURL,
		fixtures.WithBasePath(cfg.BasePath),
		fixtures.WithTimeout(cfg.FetchTimeout()),
		fixtures.WithCache(cache.New(
			cache.WithMaxSize(cfg.CacheSize),
			cache.WithTTL(cfg.CacheTTL()),
		)),
		fixtures.WithLogger(logger.Named("fixtures")),
	)
	if err != nil {
		return nil, err
	}
	return service.New(client,
		service.WithLogger(logger.Named("service")),
		service.WithDraftBand(draftBand),
		service.WithSeasonBand(seasonBand),
		service.WithRefreshInterval(cfg.RefreshInterval()),
	), nil
}

// newHandler mounts the API, the docs and the static export under the
// base path. A missing export leaves the API serving on its own.
func newHandler(ctx context.Context, cfg *config.Config, svc *service.Service) http.Handler {
	return api.NewRouter(cfg.BasePath, api.NewServer(svc, svc),
		func(r chi.Router) { swagger.Register(ctx, r, cfg.BasePath) },
		func(r chi.Router) {
			if err := site.Register(ctx, r, cfg.SiteDir, cfg.BasePath); err != nil {
				logger.Get().Warn(ctx, "static export not served",
					logger.String("dir", cfg.SiteDir), logger.Error(err))
			}
		},
	)
}

// startSystemMetricsUpdater updates the system gauges until ctx is done.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	updateSystemMetrics()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
}
