package testutil

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golf-alone/teetime-service/internal/domain/courses"
	"github.com/golf-alone/teetime-service/internal/geo"
	"github.com/golf-alone/teetime-service/internal/providers"
)

func TestClockHelpers(t *testing.T) {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	if got := NowAt(now)(); !got.Equal(now) {
		t.Fatalf("expected fixed time, got %v", got)
	}
	if MustParseRFC3339(now.Format(time.RFC3339)) != now {
		t.Fatalf("expected parse round trip")
	}
	if got := MustParseDate("2024-12-11"); got.Weekday() != time.Wednesday || got.Location() != time.UTC {
		t.Fatalf("unexpected date %v", got)
	}
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic on invalid RFC3339")
		}
	}()
	MustParseRFC3339("not-a-time")
}

func TestFixturesHelper(t *testing.T) {
	c := SampleCourse(7)
	if c.ID != 7 || c.Name == "" || c.Category != courses.CategoryPublic || c.Location != geo.DefaultOrigin {
		t.Fatalf("unexpected course fixture %+v", c)
	}
	list := SampleCourses(3)
	if len(list) != 3 || list[0].ID != 1 || list[2].ID != 3 {
		t.Fatalf("unexpected course list %+v", list)
	}
}

func TestServeHelpers(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	rr := Serve(handler, http.MethodPost, "/test", strings.NewReader("{}"))
	AssertStatus(t, rr, http.StatusCreated)
	var body map[string]bool
	DecodeJSON(t, rr, &body)
	if !body["ok"] {
		t.Fatalf("expected ok=true")
	}

	req := httptest.NewRequest(http.MethodGet, "/req", nil)
	rr2 := ServeRequest(handler, req)
	AssertStatus(t, rr2, http.StatusCreated)
}

func TestAssertFieldErrors(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid search request","details":[` +
			`{"field":"zip","message":"is required"},{"field":"radius","message":"must be at most 50"}]}`))
	})

	AssertFieldErrors(t, Serve(handler, http.MethodGet, "/search", nil), "zip", "radius")
}

func TestLoggerAndMetricsHelpers(t *testing.T) {
	logger, buf := NewBufferLogger()
	logger.Info("hello", "k", "v")
	if buf.Len() == 0 {
		t.Fatalf("expected buffered log output")
	}
	rec, shutdown := NewRecorderWithShutdown()
	if rec == nil || shutdown == nil {
		t.Fatalf("expected recorder and shutdown")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("expected nil shutdown error, got %v", err)
	}
}

func TestProviderHelpers(t *testing.T) {
	ctx := context.Background()
	q := providers.Query{Text: "oaks"}

	stub := &StubCourseProvider{Courses: SampleCourses(2), Notify: make(chan struct{})}
	if got, err := stub.SearchCourses(ctx, q); err != nil || len(got) != 2 {
		t.Fatalf("expected courses from stub, got %v err %v", got, err)
	}
	select {
	case <-stub.Notify:
	default:
		t.Fatalf("expected notify channel to close")
	}
	stub.Set(nil, errors.New("boom"))
	if _, err := stub.SearchCourses(ctx, q); err == nil {
		t.Fatalf("expected configured error")
	}
	if stub.Calls.Load() != 2 || len(stub.Queries()) != 2 || stub.Queries()[0].Text != "oaks" {
		t.Fatalf("expected calls and queries recorded, got %d %+v", stub.Calls.Load(), stub.Queries())
	}

	errProv := ErrProvider{Err: errors.New("boom")}
	if _, err := errProv.SearchCourses(ctx, q); !errors.Is(err, errProv.Err) {
		t.Fatalf("expected error passthrough")
	}

	if got, err := (EmptyProvider{}).SearchCourses(ctx, q); err != nil || len(got) != 0 {
		t.Fatalf("expected empty result, got %v err %v", got, err)
	}

	if _, err := (UnavailableProvider{}).SearchCourses(ctx, q); !errors.Is(err, providers.ErrProviderUnavailable) {
		t.Fatalf("expected provider unavailable")
	}
}
