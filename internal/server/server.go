package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/golf-alone/teetime-service/internal/catalog"
	"github.com/golf-alone/teetime-service/internal/config"
	"github.com/golf-alone/teetime-service/internal/geo"
	httpserver "github.com/golf-alone/teetime-service/internal/http"
	"github.com/golf-alone/teetime-service/internal/http/handlers"
	"github.com/golf-alone/teetime-service/internal/http/middleware"
	"github.com/golf-alone/teetime-service/internal/logging"
	"github.com/golf-alone/teetime-service/internal/metrics"
	"github.com/golf-alone/teetime-service/internal/poller"
	"github.com/golf-alone/teetime-service/internal/providers"
	"github.com/golf-alone/teetime-service/internal/ranking"
)

var metricsSetup = metrics.Setup

type Server struct {
	cfg           config.Config
	logger        *slog.Logger
	metrics       *metrics.Recorder
	catalog       *catalog.Catalog
	pipeline      *ranking.Pipeline
	httpServer    httpServer
	metricsServer httpServer
	poller        Poller
	metricsStop   func(context.Context) error
	redis         *redis.Client
}

// New constructs a server with default provider and catalog refresher wiring.
func New(cfg config.Config, logger *slog.Logger) *Server {
	return newServerWithMetrics(cfg, logger, nil, nil)
}

func newServerWithProvider(cfg config.Config, logger *slog.Logger, provider providers.CourseProvider) *Server {
	return newServerWithMetrics(cfg, logger, provider, nil)
}

func newServerWithMetrics(cfg config.Config, logger *slog.Logger, provider providers.CourseProvider, recorder *metrics.Recorder) *Server {
	recorder, metricsSrv, metricsShutdown := buildMetrics(cfg, logger, recorder)
	rdb := newRedisClient(cfg)
	if provider == nil {
		provider = newProviderFactory(logger, recorder, cacheClient(rdb)).build(cfg)
	} else {
		provider = providers.NewRetryingProvider(provider, logger, recorder, normalizeProviderName(cfg.Provider, provider), cfg.GolfAPI.RetryAttempts, 0)
	}

	loc := resolveLocation(cfg, logger)
	cat := catalog.New(nil)
	plr := poller.New(provider, cat, catalogQuery(cfg), logger, recorder, cfg.Catalog.RefreshInterval)
	pipeline := ranking.New(cat, nil, logger, recorder, ranking.Config{
		Location:     loc,
		SlotTimeout:  cfg.Slots.FetchTimeout,
		Concurrency:  cfg.Slots.Concurrency,
		Availability: catalogAvailability(cat),
	})

	handler := handlers.NewHandler(handlers.Options{
		Searcher:   pipeline,
		Catalog:    cat,
		Lookup:     provider,
		KeyPresent: cfg.GolfAPI.APIKey != "",
		Location:   loc,
		Status:     plr.Status,
		Logger:     logger,
	})
	var admin *handlers.AdminHandler
	if cfg.AdminToken != "" {
		admin = handlers.NewAdminHandler(plr, cfg.AdminToken, logger)
	}
	httpSrv := buildHTTPServer(cfg, handler, admin, logger, recorder)

	return &Server{
		cfg:           cfg,
		logger:        logger,
		metrics:       recorder,
		catalog:       cat,
		pipeline:      pipeline,
		httpServer:    httpSrv,
		metricsServer: metricsSrv,
		poller:        plr,
		metricsStop:   metricsShutdown,
		redis:         rdb,
	}
}

// newServerWithDeps is used for testing to inject custom components.
func newServerWithDeps(cfg config.Config, logger *slog.Logger, httpSrv httpServer, plr Poller) *Server {
	return &Server{
		cfg:        cfg,
		logger:     logger,
		catalog:    catalog.New(nil),
		httpServer: httpSrv,
		poller:     plr,
	}
}

// catalogQuery is what the refresher asks the provider for: CATALOG_QUERY near the default origin.
func catalogQuery(cfg config.Config) providers.Query {
	origin := geo.DefaultOrigin
	return providers.Query{
		Text:        cfg.Catalog.Query,
		Near:        &origin,
		RadiusMiles: cfg.Catalog.RadiusMiles,
	}
}

// catalogAvailability fails searches while the catalog has never been populated.
func catalogAvailability(cat *catalog.Catalog) func() error {
	return func() error {
		if cat.Len() == 0 {
			return fmt.Errorf("course catalog is empty: %w", providers.ErrUpstreamUnavailable)
		}
		return nil
	}
}

func resolveLocation(cfg config.Config, logger *slog.Logger) *time.Location {
	loc, err := cfg.Location()
	if err != nil {
		logging.Warn(logger, "invalid timezone, using UTC", slog.String("timezone", cfg.Timezone), slog.Any("err", err))
		return time.UTC
	}
	return loc
}

func buildHTTPServer(cfg config.Config, handler *handlers.Handler, admin *handlers.AdminHandler, logger *slog.Logger, recorder *metrics.Recorder) httpServer {
	router := httpserver.NewRouter(handler, admin)
	if logger == nil {
		logger = logging.NewLogger(logging.Config{})
	}
	wrapped := middleware.LoggingMiddleware(logger, recorder, router)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      wrapped,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	return netHTTPServer{srv: srv}
}

// Run starts the catalog refresher and HTTP server, then waits for context cancellation to shut down gracefully.
func (s *Server) Run(ctx context.Context, stop context.CancelFunc) {
	s.startMetrics()
	s.startServer(stop)
	s.poller.Start(ctx)

	<-ctx.Done()
	logging.Info(s.logger, "shutdown signal received")

	s.gracefulShutdown()
}

func (s *Server) startServer(stop context.CancelFunc) {
	logging.Info(s.logger, "http server starting",
		slog.String("addr", s.httpServer.Addr()),
		slog.String(logging.FieldProvider, s.cfg.Provider),
	)
	launchServer("http", s.httpServer, s.logger, func(err error) {
		if stop != nil {
			stop()
		}
	})
}

func (s *Server) startMetrics() {
	if s.metricsServer == nil {
		return
	}
	logging.Info(s.logger, "metrics server starting", slog.String("addr", s.metricsServer.Addr()))
	launchServer("metrics", s.metricsServer, s.logger, nil)
}

func (s *Server) gracefulShutdown() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if s.metricsStop != nil {
		if err := s.metricsStop(shutdownCtx); err != nil {
			logging.Warn(s.logger, "metrics shutdown failed", "error", err)
		}
	}

	if s.metricsServer != nil {
		if err := s.metricsServer.Shutdown(shutdownCtx); err != nil {
			logging.Warn(s.logger, "metrics server shutdown failed", "error", err)
		}
	}

	if err := s.poller.Stop(shutdownCtx); err != nil {
		logging.Error(s.logger, "failed to stop catalog refresher", err)
	}

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		logging.Error(s.logger, "graceful shutdown failed", err)
	}

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			logging.Warn(s.logger, "redis close failed", "error", err)
		}
	}

	logging.Info(s.logger, "shutdown complete")
}

func buildMetrics(cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder) (*metrics.Recorder, httpServer, func(context.Context) error) {
	if recorder != nil {
		return recorder, nil, nil
	}

	recCfg := metrics.TelemetryConfig{
		Enabled:      cfg.Metrics.Enabled,
		Port:         cfg.Metrics.Port,
		ServiceName:  cfg.Metrics.ServiceName,
		OtlpEndpoint: cfg.Metrics.OtlpEndpoint,
		OtlpInsecure: cfg.Metrics.OtlpInsecure,
	}

	rec, handler, shutdown, err := metricsSetup(context.Background(), recCfg)
	if err != nil {
		logging.Warn(logger, "metrics setup failed, continuing without telemetry", "err", err)
		return metrics.NewRecorder(), nil, nil
	}

	var metricsSrv httpServer
	if handler != nil && recCfg.Enabled {
		mux := http.NewServeMux()
		mux.Handle("/metrics", handler)
		metricsSrv = netHTTPServer{
			srv: &http.Server{
				Addr:              ":" + recCfg.Port,
				Handler:           mux,
				ReadHeaderTimeout: readTimeout,
			},
		}
	}

	return rec, metricsSrv, shutdown
}

func launchServer(name string, srv httpServer, logger *slog.Logger, onError func(error)) {
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Warn(logger, name+" server failed", "error", err)
			if onError != nil {
				onError(err)
			}
		}
	}()
}

// Handler exposes the HTTP handler (useful for tests).
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler()
}
