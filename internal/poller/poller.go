package poller

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/golf-alone/teetime-service/internal/domain/courses"
	"github.com/golf-alone/teetime-service/internal/logging"
	"github.com/golf-alone/teetime-service/internal/metrics"
	"github.com/golf-alone/teetime-service/internal/providers"
)

const (
	defaultInterval = 15 * time.Minute
	// failureThreshold is how many consecutive failed refreshes make the poller unready.
	failureThreshold = 3
)

// ErrNoCourses is recorded when a refresh succeeds upstream but yields nothing usable.
var ErrNoCourses = errors.New("provider returned no courses")

// CatalogWriter receives a complete replacement course set.
type CatalogWriter interface {
	Replace(list []courses.Course)
}

// Poller refreshes the course catalog from a provider on an interval.
type Poller struct {
	provider providers.CourseProvider
	catalog  CatalogWriter
	query    providers.Query
	logger   *slog.Logger
	metrics  *metrics.Recorder
	interval time.Duration
	now      func() time.Time

	ticker   *time.Ticker
	done     chan struct{}
	stopOnce sync.Once
	startMu  sync.Mutex
	started  bool

	statusMu sync.RWMutex
	status   Status
}

// Status describes the recent health of the refresh loop.
type Status struct {
	ConsecutiveFailures int       `json:"consecutiveFailures"`
	LastError           string    `json:"lastError,omitempty"`
	LastAttempt         time.Time `json:"lastAttempt"`
	LastSuccess         time.Time `json:"lastSuccess"`
	Courses             int       `json:"courses"`
}

// IsReady reports whether the poller has had a success and is not failing repeatedly.
func (s Status) IsReady() bool {
	if s.LastSuccess.IsZero() {
		return false
	}
	return s.ConsecutiveFailures < failureThreshold
}

// New constructs a Poller with sane defaults.
func New(provider providers.CourseProvider, catalog CatalogWriter, query providers.Query, logger *slog.Logger, recorder *metrics.Recorder, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Poller{
		provider: provider,
		catalog:  catalog,
		query:    query,
		logger:   logger,
		metrics:  recorder,
		interval: interval,
		now:      time.Now,
		done:     make(chan struct{}),
	}
}

// Start begins refreshing until the context is cancelled or Stop is called.
func (p *Poller) Start(ctx context.Context) {
	p.startMu.Lock()
	if p.started {
		p.startMu.Unlock()
		return
	}
	p.started = true
	p.startMu.Unlock()

	p.ticker = time.NewTicker(p.interval)

	go func() {
		logging.Info(p.logger, "catalog refresher started", slog.Int64(logging.FieldDurationMS, p.interval.Milliseconds()))
		// Initial refresh to warm the catalog on boot.
		_ = p.Refresh(ctx)

		for {
			select {
			case <-ctx.Done():
				p.stopTicker()
				logging.Info(p.logger, "catalog refresher stopped")
				return
			case <-p.done:
				p.stopTicker()
				logging.Info(p.logger, "catalog refresher stopped")
				return
			case <-p.ticker.C:
				_ = p.Refresh(ctx)
			}
		}
	}()
}

// Stop halts the refresh loop.
func (p *Poller) Stop(ctx context.Context) error {
	_ = ctx
	p.stopOnce.Do(func() {
		close(p.done)
		p.stopTicker()
	})
	return nil
}

// Refresh runs one refresh cycle. The catalog is only replaced when the provider returns courses.
func (p *Poller) Refresh(ctx context.Context) error {
	start := time.Now()
	at := p.now()
	p.recordAttempt(at)

	list, err := p.fetch(ctx)
	p.metrics.RecordRefreshCycle(time.Since(start), err)
	if err != nil {
		logging.Error(p.logger, "catalog refresh failed", err, slog.Int64(logging.FieldDurationMS, time.Since(start).Milliseconds()))
		p.recordFailure(err, at)
		return err
	}

	p.catalog.Replace(list)
	p.recordSuccess(at, len(list))
	logging.Info(p.logger, "catalog refreshed",
		logging.FieldCount, len(list),
		logging.FieldDurationMS, time.Since(start).Milliseconds(),
	)
	return nil
}

func (p *Poller) fetch(ctx context.Context) ([]courses.Course, error) {
	if p.provider == nil || p.catalog == nil {
		return nil, providers.ErrProviderUnavailable
	}
	list, err := p.provider.SearchCourses(ctx, p.query)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, ErrNoCourses
	}
	return list, nil
}

func (p *Poller) stopTicker() {
	if p.ticker != nil {
		p.ticker.Stop()
	}
}

func (p *Poller) recordAttempt(at time.Time) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.LastAttempt = at
}

func (p *Poller) recordSuccess(at time.Time, count int) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.ConsecutiveFailures = 0
	p.status.LastError = ""
	p.status.LastSuccess = at
	p.status.Courses = count
}

func (p *Poller) recordFailure(err error, at time.Time) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.ConsecutiveFailures++
	if err != nil {
		p.status.LastError = err.Error()
	}
	p.status.LastAttempt = at
}

// Status returns a snapshot of the poller's recent health.
func (p *Poller) Status() Status {
	p.statusMu.RLock()
	defer p.statusMu.RUnlock()
	return p.status
}
