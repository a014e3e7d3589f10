package providers

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/golf-alone/teetime-service/internal/domain/courses"
	"github.com/golf-alone/teetime-service/internal/metrics"
)

type flakeyProvider struct {
	failures int
	calls    int
	err      error
}

func (f *flakeyProvider) SearchCourses(ctx context.Context, q Query) ([]courses.Course, error) {
	_ = ctx
	_ = q
	f.calls++
	if f.calls <= f.failures {
		if f.err != nil {
			return nil, f.err
		}
		return nil, errors.New("boom")
	}
	return []courses.Course{{ID: 1, Name: "ok"}}, nil
}

func newTestRetrying(inner CourseProvider, rec *metrics.Recorder, attempts int) *retryingProvider {
	rp := NewRetryingProvider(inner, nil, rec, "flakey", attempts, time.Millisecond).(*retryingProvider)
	rp.newBackOff = func() backoff.BackOff { return &backoff.ZeroBackOff{} }
	return rp
}

func TestRetryingProviderRetriesAndSucceeds(t *testing.T) {
	fp := &flakeyProvider{failures: 2}
	rp := NewRetryingProvider(fp, slog.Default(), metrics.NewRecorder(), "flakey", 3, time.Millisecond)

	list, err := rp.SearchCourses(context.Background(), Query{Text: "oaks"})
	if err != nil {
		t.Fatalf("expected success, got error %v", err)
	}
	if len(list) != 1 || list[0].Name != "ok" {
		t.Fatalf("unexpected courses %+v", list)
	}
	if fp.calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", fp.calls)
	}
}

func TestRetryingProviderStopsAfterMaxAttempts(t *testing.T) {
	fp := &flakeyProvider{failures: 5}
	rec := metrics.NewRecorder()
	rp := newTestRetrying(fp, rec, 2)

	_, err := rp.SearchCourses(context.Background(), Query{Text: "oaks"})
	if !errors.Is(err, ErrUpstreamUnavailable) {
		t.Fatalf("expected ErrUpstreamUnavailable after retries, got %v", err)
	}
	if fp.calls != 2 {
		t.Fatalf("expected 2 attempts, got %d", fp.calls)
	}
	if got := rec.ProviderErrors("flakey"); got != 2 {
		t.Fatalf("expected 2 recorded errors, got %d", got)
	}
}

func TestRetryingProviderDoesNotRetryPermanentErrors(t *testing.T) {
	fp := &flakeyProvider{failures: 5, err: ErrMissingAPIKey}
	rp := newTestRetrying(fp, metrics.NewRecorder(), 3)

	_, err := rp.SearchCourses(context.Background(), Query{Text: "oaks"})
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
	if errors.Is(err, ErrUpstreamUnavailable) {
		t.Fatalf("permanent errors should not be reported as upstream outages")
	}
	if fp.calls != 1 {
		t.Fatalf("expected a single attempt, got %d", fp.calls)
	}
}

func TestRetryingProviderRespectsContextCancel(t *testing.T) {
	fp := &flakeyProvider{failures: 5}
	rp := NewRetryingProvider(fp, nil, metrics.NewRecorder(), "flakey", 3, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := rp.SearchCourses(ctx, Query{Text: "oaks"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context error, got %v", err)
	}
	if fp.calls > 1 {
		t.Fatalf("expected no retries after cancel, got %d calls", fp.calls)
	}
}

func TestRetryingProviderRecordsRateLimitMetrics(t *testing.T) {
	rec := metrics.NewRecorder()
	fp := &flakeyProvider{failures: 1, err: &RateLimitError{Provider: "test", StatusCode: 429, RetryAfter: time.Millisecond}}
	rp := newTestRetrying(fp, rec, 2)

	list, err := rp.SearchCourses(context.Background(), Query{Text: "oaks"})
	if err != nil {
		t.Fatalf("expected success after retry, got %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("unexpected courses %+v", list)
	}
	if got := rec.RateLimitHits("flakey"); got != 1 {
		t.Fatalf("expected 1 rate limit hit, got %d", got)
	}
	if got := rec.LastRetryAfter("flakey"); got != time.Millisecond {
		t.Fatalf("expected retry-after recorded, got %s", got)
	}
	if got := rec.ProviderCalls("flakey"); got != 2 {
		t.Fatalf("expected 2 provider calls, got %d", got)
	}
	if got := rec.ProviderErrors("flakey"); got != 1 {
		t.Fatalf("expected 1 error, got %d", got)
	}
}

func TestRetryAfterOverridesNextDelayOnce(t *testing.T) {
	b := &retryAfterBackOff{BackOff: backoff.NewConstantBackOff(50 * time.Millisecond)}
	b.next = 3 * time.Second

	if got := b.NextBackOff(); got != 3*time.Second {
		t.Fatalf("expected retry-after delay 3s, got %s", got)
	}
	if got := b.NextBackOff(); got != 50*time.Millisecond {
		t.Fatalf("expected fallback to policy delay, got %s", got)
	}

	b.next = time.Second
	b.Reset()
	if got := b.NextBackOff(); got != 50*time.Millisecond {
		t.Fatalf("expected reset to clear pending retry-after, got %s", got)
	}
}

func TestRetryAfterRespectsStop(t *testing.T) {
	b := &retryAfterBackOff{BackOff: &backoff.StopBackOff{}, next: time.Second}
	if got := b.NextBackOff(); got != backoff.Stop {
		t.Fatalf("expected stop to win over retry-after, got %s", got)
	}
}

func TestRetryingProviderDefaults(t *testing.T) {
	rp := NewRetryingProvider(nil, nil, metrics.NewRecorder(), "", 0, 0).(*retryingProvider)
	if rp.providerName != "provider" {
		t.Fatalf("expected fallback provider name, got %s", rp.providerName)
	}
	if rp.maxAttempts != defaultRetryAttempts {
		t.Fatalf("expected default attempts, got %d", rp.maxAttempts)
	}
	exp, ok := rp.newBackOff().(*backoff.ExponentialBackOff)
	if !ok || exp.InitialInterval != defaultBackoff {
		t.Fatalf("expected exponential backoff starting at %s", defaultBackoff)
	}

	if _, err := rp.SearchCourses(context.Background(), Query{Text: "x"}); !errors.Is(err, ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable for nil inner, got %v", err)
	}
}
