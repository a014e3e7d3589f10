package server

import (
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/golf-alone/teetime-service/internal/config"
	"github.com/golf-alone/teetime-service/internal/metrics"
	"github.com/golf-alone/teetime-service/internal/providers"
)

// providerFactory assembles the provider with shared wrappers (rate limit, retry, cache).
type providerFactory struct {
	logger  *slog.Logger
	metrics *metrics.Recorder
	cache   redis.Cmdable
}

func newProviderFactory(logger *slog.Logger, metrics *metrics.Recorder, cache redis.Cmdable) providerFactory {
	return providerFactory{logger: logger, metrics: metrics, cache: cache}
}

func (f providerFactory) build(cfg config.Config) providers.CourseProvider {
	base := selectProvider(cfg, f.logger)
	return f.wrap(cfg, base)
}

// wrap layers cache over retry over rate limit; cache hits never reach the limiter.
func (f providerFactory) wrap(cfg config.Config, base providers.CourseProvider) providers.CourseProvider {
	name := normalizeProviderName(cfg.Provider, base)
	limited := providers.NewRateLimitedProvider(base, cfg.GolfAPI.RateLimit, f.logger)
	retrying := providers.NewRetryingProvider(limited, f.logger, f.metrics, name, cfg.GolfAPI.RetryAttempts, 0)
	return providers.NewCachingProvider(retrying, f.cache, cfg.Cache.TTL, f.logger, f.metrics, name)
}
