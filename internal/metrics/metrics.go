package metrics

import (
	"sync"
	"time"
)

type providerStats struct {
	calls           int
	errors          int
	rateLimitHits   int
	cacheHits       int
	cacheMisses     int
	lastRetryAfter  time.Duration
	lastCallLatency time.Duration
}

type searchStats struct {
	searches          int
	emptySearches     int
	resultsReturned   int
	slotFetchFailures int
}

// Recorder captures lightweight, in-memory metrics and forwards them to OpenTelemetry when configured.
type Recorder struct {
	mu     sync.Mutex
	stats  map[string]*providerStats
	search searchStats
	otel   *otelInstruments
}

func NewRecorder() *Recorder {
	return newRecorder(nil)
}

func newRecorder(otel *otelInstruments) *Recorder {
	return &Recorder{
		stats: make(map[string]*providerStats),
		otel:  otel,
	}
}

// RecordProviderAttempt increments counters for a provider call and stores the last observed latency.
func (r *Recorder) RecordProviderAttempt(provider string, duration time.Duration, err error) {
	if r == nil {
		return
	}

	r.update(provider, func(stats *providerStats) {
		stats.calls++
		stats.lastCallLatency = duration
		if err != nil {
			stats.errors++
		}
	})
	if r.otel != nil {
		r.otel.recordProviderAttempt(provider, duration, err)
	}
}

// RecordRateLimit tracks that a provider response hit a rate limit and stores the last Retry-After.
func (r *Recorder) RecordRateLimit(provider string, retryAfter time.Duration) {
	if r == nil {
		return
	}

	r.update(provider, func(stats *providerStats) {
		stats.rateLimitHits++
		if retryAfter > 0 {
			stats.lastRetryAfter = retryAfter
		}
	})
	if r.otel != nil {
		r.otel.recordRateLimit(provider, retryAfter)
	}
}

// RecordCacheLookup tracks course lookup cache hits and misses per provider.
func (r *Recorder) RecordCacheLookup(provider string, hit bool) {
	if r == nil {
		return
	}

	r.update(provider, func(stats *providerStats) {
		if hit {
			stats.cacheHits++
		} else {
			stats.cacheMisses++
		}
	})
	if r.otel != nil {
		r.otel.recordCacheLookup(provider, hit)
	}
}

// RecordSearch tracks a completed search, its result count and the best score returned.
func (r *Recorder) RecordSearch(sortKey string, results int, topScore float64, duration time.Duration) {
	if r == nil {
		return
	}

	r.mu.Lock()
	r.search.searches++
	r.search.resultsReturned += results
	if results == 0 {
		r.search.emptySearches++
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordSearch(sortKey, results, topScore, duration)
	}
}

// RecordSlotFetchFailure tracks a course whose slots could not be acquired.
func (r *Recorder) RecordSlotFetchFailure(source string) {
	if r == nil {
		return
	}

	r.mu.Lock()
	r.search.slotFetchFailures++
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordSlotFetchFailure(source)
	}
}

// ProviderCalls returns the total attempts recorded for a provider.
func (r *Recorder) ProviderCalls(provider string) int {
	return r.Snapshot(provider).Calls
}

// ProviderErrors returns the total failed attempts recorded for a provider.
func (r *Recorder) ProviderErrors(provider string) int {
	return r.Snapshot(provider).Errors
}

// RateLimitHits returns the number of rate limit events seen for a provider.
func (r *Recorder) RateLimitHits(provider string) int {
	return r.Snapshot(provider).RateLimitHits
}

// LastRetryAfter returns the most recent Retry-After recorded for a provider.
func (r *Recorder) LastRetryAfter(provider string) time.Duration {
	return r.Snapshot(provider).LastRetryAfter
}

// LastCallLatency returns the last recorded latency for a provider call.
func (r *Recorder) LastCallLatency(provider string) time.Duration {
	return r.Snapshot(provider).LastCallLatency
}

// Snapshot is a copy of the stats recorded for one provider.
type Snapshot struct {
	Calls           int
	Errors          int
	RateLimitHits   int
	CacheHits       int
	CacheMisses     int
	LastRetryAfter  time.Duration
	LastCallLatency time.Duration
}

func (r *Recorder) Snapshot(provider string) Snapshot {
	if r == nil {
		return Snapshot{}
	}
	stats := r.snapshot(provider)
	return Snapshot{
		Calls:           stats.calls,
		Errors:          stats.errors,
		RateLimitHits:   stats.rateLimitHits,
		CacheHits:       stats.cacheHits,
		CacheMisses:     stats.cacheMisses,
		LastRetryAfter:  stats.lastRetryAfter,
		LastCallLatency: stats.lastCallLatency,
	}
}

// SearchSnapshot is a copy of the search counters.
type SearchSnapshot struct {
	Searches          int
	EmptySearches     int
	ResultsReturned   int
	SlotFetchFailures int
}

func (r *Recorder) SearchSnapshot() SearchSnapshot {
	if r == nil {
		return SearchSnapshot{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return SearchSnapshot{
		Searches:          r.search.searches,
		EmptySearches:     r.search.emptySearches,
		ResultsReturned:   r.search.resultsReturned,
		SlotFetchFailures: r.search.slotFetchFailures,
	}
}

// RecordHTTPRequest tracks basic HTTP metrics.
func (r *Recorder) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordHTTPRequest(method, path, status, duration)
}

// RecordRefreshCycle tracks catalog refresh cycles and errors.
func (r *Recorder) RecordRefreshCycle(duration time.Duration, err error) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordRefresh(duration, err)
}

func (r *Recorder) update(provider string, fn func(*providerStats)) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats, ok := r.stats[provider]
	if !ok {
		stats = &providerStats{}
		r.stats[provider] = stats
	}
	fn(stats)
}

func (r *Recorder) snapshot(provider string) providerStats {
	r.mu.Lock()
	defer r.mu.Unlock()

	if stats, ok := r.stats[provider]; ok && stats != nil {
		return *stats
	}
	return providerStats{}
}
