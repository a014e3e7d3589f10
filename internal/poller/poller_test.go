package poller

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golf-alone/teetime-service/internal/catalog"
	"github.com/golf-alone/teetime-service/internal/domain/courses"
	"github.com/golf-alone/teetime-service/internal/geo"
	"github.com/golf-alone/teetime-service/internal/metrics"
	"github.com/golf-alone/teetime-service/internal/providers"
	"github.com/golf-alone/teetime-service/internal/testutil"
)

func defaultQuery() providers.Query {
	near := geo.DefaultOrigin
	return providers.Query{Near: &near, RadiusMiles: 50}
}

func TestPollerRefreshesCatalog(t *testing.T) {
	provider := &testutil.StubCourseProvider{
		Courses: testutil.SampleCourses(3),
		Notify:  make(chan struct{}),
	}
	cat := catalog.New(nil)

	p := New(provider, cat, defaultQuery(), nil, nil, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p.Start(ctx)

	select {
	case <-provider.Notify:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("timed out waiting for initial refresh")
	}

	deadline := time.Now().Add(500 * time.Millisecond)
	for cat.Len() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}

	cancel()
	_ = p.Stop(context.Background())

	if cat.Len() != 3 {
		t.Fatalf("expected catalog replaced with 3 courses, got %d", cat.Len())
	}
	if provider.Calls.Load() < 1 {
		t.Fatalf("expected at least one search call")
	}
	queries := provider.Queries()
	if len(queries) == 0 || !queries[0].IsGeo() || queries[0].RadiusMiles != 50 {
		t.Fatalf("expected configured query to be used, got %+v", queries)
	}
}

func TestPollerStopsOnContextCancel(t *testing.T) {
	provider := &testutil.StubCourseProvider{
		Courses: testutil.SampleCourses(1),
		Notify:  make(chan struct{}),
	}

	p := New(provider, catalog.New(nil), defaultQuery(), nil, nil, 5*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())

	p.Start(ctx)

	select {
	case <-provider.Notify:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("timed out waiting for initial refresh")
	}

	cancel()
	_ = p.Stop(context.Background())
	time.Sleep(10 * time.Millisecond)

	callsAfterStop := provider.Calls.Load()
	time.Sleep(20 * time.Millisecond)
	if provider.Calls.Load() != callsAfterStop {
		t.Fatalf("expected no additional refreshes after stop; before=%d after=%d", callsAfterStop, provider.Calls.Load())
	}
}

func TestPollerStopIsIdempotent(t *testing.T) {
	p := New(&testutil.StubCourseProvider{}, catalog.New(nil), defaultQuery(), nil, nil, time.Hour)

	if err := p.Stop(context.Background()); err != nil {
		t.Fatalf("first stop returned error: %v", err)
	}
	if err := p.Stop(context.Background()); err != nil {
		t.Fatalf("second stop returned error: %v", err)
	}
}

func TestPollerStartIsIdempotent(t *testing.T) {
	p := New(&testutil.StubCourseProvider{}, catalog.New(nil), defaultQuery(), nil, nil, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p.Start(ctx)
	p.Start(ctx) // should no-op

	if err := p.Stop(context.Background()); err != nil {
		t.Fatalf("stop returned error: %v", err)
	}
}

func TestPollerDefaultsInterval(t *testing.T) {
	p := New(&testutil.StubCourseProvider{}, catalog.New(nil), defaultQuery(), nil, nil, 0)
	if p.interval != defaultInterval {
		t.Fatalf("expected default interval %s, got %s", defaultInterval, p.interval)
	}
}

func TestPollerStartReturnsWhenAlreadyStarted(t *testing.T) {
	p := New(&testutil.StubCourseProvider{}, catalog.New(nil), defaultQuery(), nil, nil, time.Hour)
	p.started = true
	p.Start(context.Background())
	if p.ticker != nil {
		t.Fatalf("expected ticker not to be created when already started")
	}
}

func TestPollerStatusTransitions(t *testing.T) {
	provider := &testutil.StubCourseProvider{Err: errors.New("boom")}
	cat := catalog.New(nil)
	rec := metrics.NewRecorder()
	fixed := time.Date(2024, 12, 11, 7, 0, 0, 0, time.UTC)

	p := New(provider, cat, defaultQuery(), nil, rec, time.Minute)
	p.now = testutil.NowAt(fixed)

	if err := p.Refresh(context.Background()); err == nil {
		t.Fatalf("expected refresh error")
	}
	status := p.Status()
	if status.ConsecutiveFailures != 1 || status.LastError == "" {
		t.Fatalf("expected failure recorded, got %+v", status)
	}
	if !status.LastAttempt.Equal(fixed) || !status.LastSuccess.IsZero() {
		t.Fatalf("unexpected timestamps %+v", status)
	}
	if status.IsReady() {
		t.Fatalf("expected not ready before first success")
	}

	provider.Set(testutil.SampleCourses(2), nil)
	if err := p.Refresh(context.Background()); err != nil {
		t.Fatalf("expected refresh success, got %v", err)
	}
	status = p.Status()
	if status.ConsecutiveFailures != 0 || status.LastError != "" || status.Courses != 2 {
		t.Fatalf("expected failures reset, got %+v", status)
	}
	if !status.LastSuccess.Equal(fixed) || !status.IsReady() {
		t.Fatalf("expected ready after success, got %+v", status)
	}
}

func TestStatusIsReady(t *testing.T) {
	success := time.Date(2024, 12, 11, 7, 0, 0, 0, time.UTC)
	cases := []struct {
		name   string
		status Status
		want   bool
	}{
		{"never succeeded", Status{}, false},
		{"never succeeded with failures", Status{ConsecutiveFailures: 1}, false},
		{"healthy", Status{LastSuccess: success}, true},
		{"below threshold", Status{LastSuccess: success, ConsecutiveFailures: failureThreshold - 1}, true},
		{"at threshold", Status{LastSuccess: success, ConsecutiveFailures: failureThreshold}, false},
	}
	for _, tc := range cases {
		if got := tc.status.IsReady(); got != tc.want {
			t.Fatalf("%s: expected IsReady=%v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestPollerKeepsCatalogWhenRefreshFails(t *testing.T) {
	provider := &testutil.StubCourseProvider{Courses: testutil.SampleCourses(2)}
	cat := catalog.New(nil)
	p := New(provider, cat, defaultQuery(), nil, nil, time.Minute)

	if err := p.Refresh(context.Background()); err != nil {
		t.Fatalf("expected success, got %v", err)
	}

	provider.Set(nil, errors.New("upstream down"))
	for i := 0; i < failureThreshold; i++ {
		_ = p.Refresh(context.Background())
	}
	if cat.Len() != 2 {
		t.Fatalf("expected previous catalog kept, got %d courses", cat.Len())
	}
	if p.Status().IsReady() {
		t.Fatalf("expected unready after %d consecutive failures", failureThreshold)
	}
}

func TestPollerTreatsEmptyResultAsFailure(t *testing.T) {
	cat := catalog.New([]courses.Course{testutil.SampleCourse(9)})
	p := New(testutil.EmptyProvider{}, cat, defaultQuery(), nil, nil, time.Minute)

	if err := p.Refresh(context.Background()); !errors.Is(err, ErrNoCourses) {
		t.Fatalf("expected ErrNoCourses, got %v", err)
	}
	if cat.Len() != 1 {
		t.Fatalf("expected catalog untouched by empty refresh")
	}
}

func TestPollerWithoutProviderFails(t *testing.T) {
	p := New(nil, catalog.New(nil), defaultQuery(), nil, nil, time.Minute)
	if err := p.Refresh(context.Background()); !errors.Is(err, providers.ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
}

func TestPollerLogsOnErrorAndSuccess(t *testing.T) {
	provider := &testutil.StubCourseProvider{Err: errors.New("fail")}
	logger, buf := testutil.NewBufferLogger()

	p := New(provider, catalog.New(nil), defaultQuery(), logger, nil, time.Second)
	_ = p.Refresh(context.Background())

	provider.Set(testutil.SampleCourses(1), nil)
	_ = p.Refresh(context.Background())

	out := buf.String()
	for _, want := range []string{"catalog refresh failed", "catalog refreshed"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in logs, got %s", want, out)
		}
	}
}

func BenchmarkPollerRefresh(b *testing.B) {
	provider := &testutil.StubCourseProvider{Courses: catalog.MustDefault()}
	p := New(provider, catalog.New(nil), defaultQuery(), nil, nil, time.Second)
	ctx := context.Background()

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = p.Refresh(ctx)
	}
}
