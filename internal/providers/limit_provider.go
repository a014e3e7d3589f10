package providers

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/golf-alone/teetime-service/internal/domain/courses"
)

const defaultLimitInterval = time.Second

// rateLimitedProvider wraps a CourseProvider and enforces a minimum interval between calls.
type rateLimitedProvider struct {
	next     CourseProvider
	interval time.Duration
	limiter  *rate.Limiter
	logger   *slog.Logger
}

// NewRateLimitedProvider returns a CourseProvider that allows one call per interval.
// Calls block until a token is available to avoid exceeding upstream quotas.
func NewRateLimitedProvider(next CourseProvider, interval time.Duration, logger *slog.Logger) CourseProvider {
	if interval <= 0 {
		interval = defaultLimitInterval
	}
	return &rateLimitedProvider{
		next:     next,
		interval: interval,
		limiter:  rate.NewLimiter(rate.Every(interval), 1),
		logger:   logger,
	}
}

func (p *rateLimitedProvider) SearchCourses(ctx context.Context, q Query) ([]courses.Course, error) {
	if p == nil || p.next == nil {
		if p != nil {
			logWithProvider(ctx, p.logger, slog.LevelWarn, "rate-limited", "provider unavailable")
		}
		return nil, ErrProviderUnavailable
	}
	if err := p.limiter.Wait(ctx); err != nil {
		logWithProvider(ctx, p.logger, slog.LevelWarn, "rate-limited", "rate-limited search canceled", "error", err)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, err
	}
	logWithProvider(ctx, p.logger, slog.LevelDebug, "rate-limited", "rate-limited provider search", slog.String("query", q.Text))
	return p.next.SearchCourses(ctx, q)
}
