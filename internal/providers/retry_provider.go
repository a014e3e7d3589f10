package providers

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/golf-alone/teetime-service/internal/domain/courses"
	"github.com/golf-alone/teetime-service/internal/metrics"
)

const (
	defaultRetryAttempts = 3
	defaultBackoff       = 200 * time.Millisecond
	defaultMaxBackoff    = 5 * time.Second
)

// retryingProvider wraps a CourseProvider with exponential backoff.
// A RateLimitError carrying Retry-After overrides the next computed delay.
type retryingProvider struct {
	inner        CourseProvider
	logger       *slog.Logger
	metrics      *metrics.Recorder
	providerName string
	maxAttempts  int
	newBackOff   func() backoff.BackOff
}

// NewRetryingProvider wraps the given provider with retries. If maxAttempts/initial are <= 0, defaults are used.
func NewRetryingProvider(inner CourseProvider, logger *slog.Logger, recorder *metrics.Recorder, providerName string, maxAttempts int, initial time.Duration) CourseProvider {
	if maxAttempts <= 0 {
		maxAttempts = defaultRetryAttempts
	}
	if initial <= 0 {
		initial = defaultBackoff
	}
	if providerName == "" {
		providerName = "provider"
	}
	return &retryingProvider{
		inner:        inner,
		logger:       logger,
		metrics:      recorder,
		providerName: providerName,
		maxAttempts:  maxAttempts,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = initial
			b.MaxInterval = defaultMaxBackoff
			b.MaxElapsedTime = 0
			b.Reset()
			return b
		},
	}
}

func (r *retryingProvider) SearchCourses(ctx context.Context, q Query) ([]courses.Course, error) {
	if r.inner == nil {
		return nil, ErrProviderUnavailable
	}

	policy := &retryAfterBackOff{BackOff: r.newBackOff()}
	b := backoff.WithContext(backoff.WithMaxRetries(policy, uint64(r.maxAttempts-1)), ctx)

	var (
		result   []courses.Course
		attempts int
	)
	op := func() error {
		attempts++
		start := time.Now()
		list, err := r.inner.SearchCourses(ctx, q)
		r.metrics.RecordProviderAttempt(r.providerName, time.Since(start), err)
		if err == nil {
			result = list
			return nil
		}
		if IsPermanent(err) {
			return backoff.Permanent(err)
		}
		if rl, ok := AsRateLimitError(err); ok {
			r.metrics.RecordRateLimit(r.providerName, rl.RetryAfter)
			policy.next = rl.RetryAfter
		}
		return err
	}
	notify := func(err error, delay time.Duration) {
		logWithProvider(ctx, r.logger, slog.LevelWarn, r.providerName, "provider search retry",
			slog.Int("attempt", attempts),
			slog.Int("max_attempts", r.maxAttempts),
			slog.Duration("delay", delay),
			"error", err,
		)
	}

	err := backoff.RetryNotify(op, b, notify)
	if err == nil {
		return result, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil || IsPermanent(err) {
		return nil, err
	}

	logWithProvider(ctx, r.logger, slog.LevelWarn, r.providerName, "provider search failed",
		slog.Int("attempts", attempts),
		"error", err,
	)
	return nil, fmt.Errorf("%w after %d attempts: %w", ErrUpstreamUnavailable, attempts, err)
}

// retryAfterBackOff uses an upstream-provided delay once, then falls back to the wrapped policy.
type retryAfterBackOff struct {
	backoff.BackOff
	next time.Duration
}

func (b *retryAfterBackOff) NextBackOff() time.Duration {
	d := b.BackOff.NextBackOff()
	if d == backoff.Stop {
		return d
	}
	if b.next > 0 {
		d, b.next = b.next, 0
	}
	return d
}

func (b *retryAfterBackOff) Reset() {
	b.next = 0
	b.BackOff.Reset()
}
