package metrics

import (
	"errors"
	"sync"
	"testing"
	"time"
)

func TestRecorderTracksProviderAttemptsAndErrors(t *testing.T) {
	rec := NewRecorder()
	rec.RecordProviderAttempt("golfcourseapi", 10*time.Millisecond, nil)
	rec.RecordProviderAttempt("golfcourseapi", 15*time.Millisecond, errors.New("boom"))

	if got := rec.ProviderCalls("golfcourseapi"); got != 2 {
		t.Fatalf("expected 2 calls, got %d", got)
	}
	if got := rec.ProviderErrors("golfcourseapi"); got != 1 {
		t.Fatalf("expected 1 error, got %d", got)
	}
	if got := rec.LastCallLatency("golfcourseapi"); got != 15*time.Millisecond {
		t.Fatalf("expected last latency to be 15ms, got %s", got)
	}

	snap := rec.Snapshot("golfcourseapi")
	if snap.Calls != 2 || snap.Errors != 1 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
}

func TestRecorderTracksRateLimits(t *testing.T) {
	rec := NewRecorder()
	rec.RecordRateLimit("golfcourseapi", 5*time.Second)
	rec.RecordRateLimit("golfcourseapi", 0)

	if got := rec.RateLimitHits("golfcourseapi"); got != 2 {
		t.Fatalf("expected 2 rate limit hits, got %d", got)
	}
	if got := rec.LastRetryAfter("golfcourseapi"); got != 5*time.Second {
		t.Fatalf("expected last retry-after to be 5s, got %s", got)
	}
}

func TestRecorderTracksCacheLookups(t *testing.T) {
	rec := NewRecorder()
	rec.RecordCacheLookup("golfcourseapi", true)
	rec.RecordCacheLookup("golfcourseapi", false)
	rec.RecordCacheLookup("golfcourseapi", false)

	snap := rec.Snapshot("golfcourseapi")
	if snap.CacheHits != 1 || snap.CacheMisses != 2 {
		t.Fatalf("unexpected cache stats %+v", snap)
	}
}

func TestRecorderTracksSearches(t *testing.T) {
	rec := NewRecorder()
	rec.RecordSearch("score", 3, 9.5, time.Millisecond)
	rec.RecordSearch("price", 0, 0, time.Millisecond)
	rec.RecordSlotFetchFailure("generator")

	snap := rec.SearchSnapshot()
	if snap.Searches != 2 || snap.EmptySearches != 1 || snap.ResultsReturned != 3 || snap.SlotFetchFailures != 1 {
		t.Fatalf("unexpected search snapshot %+v", snap)
	}
}

func TestNilRecorderIsSafe(t *testing.T) {
	var rec *Recorder
	rec.RecordProviderAttempt("p", time.Millisecond, nil)
	rec.RecordRateLimit("p", time.Second)
	rec.RecordCacheLookup("p", true)
	rec.RecordSearch("score", 1, 5, time.Millisecond)
	rec.RecordSlotFetchFailure("p")
	rec.RecordHTTPRequest("GET", "/search", 200, time.Millisecond)
	rec.RecordRefreshCycle(time.Millisecond, nil)

	if rec.ProviderCalls("p") != 0 || rec.SearchSnapshot().Searches != 0 {
		t.Fatalf("expected zero values from nil recorder")
	}
}

func TestRecorderIsConcurrencySafe(t *testing.T) {
	rec := NewRecorder()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec.RecordProviderAttempt("p", time.Millisecond, nil)
			rec.RecordSearch("score", 1, 7, time.Millisecond)
		}()
	}
	wg.Wait()

	if got := rec.ProviderCalls("p"); got != 50 {
		t.Fatalf("expected 50 calls, got %d", got)
	}
	if got := rec.SearchSnapshot().Searches; got != 50 {
		t.Fatalf("expected 50 searches, got %d", got)
	}
}
