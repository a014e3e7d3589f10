package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/redis/go-redis/v9"

	"github.com/golf-alone/teetime-service/internal/domain/courses"
	"github.com/golf-alone/teetime-service/internal/metrics"
)

const (
	defaultCacheTTL = 10 * time.Minute
	cacheKeyPrefix  = "teetime:courses:"
)

// cachingProvider is a read-through Redis cache in front of a CourseProvider.
// Cache failures never fail a search; they fall through to the wrapped provider.
type cachingProvider struct {
	next         CourseProvider
	client       redis.Cmdable
	ttl          time.Duration
	logger       *slog.Logger
	metrics      *metrics.Recorder
	providerName string
}

// NewCachingProvider wraps next with a Redis cache. A nil client disables caching.
func NewCachingProvider(next CourseProvider, client redis.Cmdable, ttl time.Duration, logger *slog.Logger, recorder *metrics.Recorder, providerName string) CourseProvider {
	if client == nil {
		return next
	}
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &cachingProvider{
		next:         next,
		client:       client,
		ttl:          ttl,
		logger:       logger,
		metrics:      recorder,
		providerName: providerName,
	}
}

// CacheKey hashes the normalized query so equivalent lookups share an entry.
func CacheKey(q Query) string {
	n := q.Normalize()
	raw := n.Text
	if n.Near != nil {
		raw += fmt.Sprintf("|%.4f,%.4f|%.2f", n.Near.Lat, n.Near.Lng, n.RadiusMiles)
	}
	return cacheKeyPrefix + strconv.FormatUint(xxhash.Sum64String(raw), 16)
}

func (p *cachingProvider) SearchCourses(ctx context.Context, q Query) ([]courses.Course, error) {
	if p.next == nil {
		return nil, ErrProviderUnavailable
	}
	key := CacheKey(q)

	cacheUp := true
	raw, err := p.client.Get(ctx, key).Result()
	switch {
	case err == nil:
		var cached []courses.Course
		decodeErr := json.Unmarshal([]byte(raw), &cached)
		if decodeErr == nil {
			p.metrics.RecordCacheLookup(p.providerName, true)
			return cached, nil
		}
		logWithProvider(ctx, p.logger, slog.LevelWarn, p.providerName, "discarding unreadable cache entry", "error", decodeErr)
	case errors.Is(err, redis.Nil):
	default:
		cacheUp = false
		logWithProvider(ctx, p.logger, slog.LevelWarn, p.providerName, "course cache unavailable", "error", err)
	}
	p.metrics.RecordCacheLookup(p.providerName, false)

	list, err := p.next.SearchCourses(ctx, q)
	if err != nil || !cacheUp {
		return list, err
	}
	// Empty answers are not cached so the next lookup asks upstream again.
	if len(list) == 0 {
		return list, nil
	}

	payload, err := json.Marshal(list)
	if err != nil {
		return list, nil
	}
	if err := p.client.Set(ctx, key, string(payload), p.ttl).Err(); err != nil {
		logWithProvider(ctx, p.logger, slog.LevelWarn, p.providerName, "course cache write failed", "error", err)
	}
	return list, nil
}
