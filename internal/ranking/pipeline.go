package ranking

import (
	"context"
	"log/slog"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/golf-alone/teetime-service/internal/catalog"
	"github.com/golf-alone/teetime-service/internal/domain/search"
	"github.com/golf-alone/teetime-service/internal/domain/teetimes"
	"github.com/golf-alone/teetime-service/internal/geo"
	"github.com/golf-alone/teetime-service/internal/logging"
	"github.com/golf-alone/teetime-service/internal/metrics"
	"github.com/golf-alone/teetime-service/internal/scoring"
	"github.com/golf-alone/teetime-service/internal/slots"
)

const (
	defaultSlotTimeout = 2 * time.Second
	defaultConcurrency = 8
	defaultSourceName  = "generator"
)

// CourseSource yields the courses within a radius of an origin.
type CourseSource interface {
	WithinRadius(origin geo.Coordinate, radiusMiles float64) []catalog.Candidate
}

// Config tunes slot acquisition and time handling.
type Config struct {
	// Location is used to turn a calendar date and clock time into an instant.
	Location    *time.Location
	SlotTimeout time.Duration
	Concurrency int
	// SourceName labels slot fetch failures in metrics.
	SourceName string
	// Availability, when set, is consulted before each search; a non-nil error aborts it.
	Availability func() error
}

// Pipeline runs radius filtering, slot acquisition, scoring and ranking.
type Pipeline struct {
	courses      CourseSource
	slots        slots.Source
	logger       *slog.Logger
	metrics      *metrics.Recorder
	now          func() time.Time
	loc          *time.Location
	slotTimeout  time.Duration
	concurrency  int
	sourceName   string
	availability func() error
}

// New constructs a Pipeline. A nil slot source falls back to the deterministic generator.
func New(courses CourseSource, source slots.Source, logger *slog.Logger, recorder *metrics.Recorder, cfg Config) *Pipeline {
	if source == nil {
		source = slots.NewGenerator()
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}
	timeout := cfg.SlotTimeout
	if timeout <= 0 {
		timeout = defaultSlotTimeout
	}
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	name := cfg.SourceName
	if name == "" {
		name = defaultSourceName
	}
	return &Pipeline{
		courses:      courses,
		slots:        source,
		logger:       logger,
		metrics:      recorder,
		now:          time.Now,
		loc:          loc,
		slotTimeout:  timeout,
		concurrency:  concurrency,
		sourceName:   name,
		availability: cfg.Availability,
	}
}

// WithClock overrides the wall clock used for lead time.
func (p *Pipeline) WithClock(now func() time.Time) *Pipeline {
	if now != nil {
		p.now = now
	}
	return p
}

// Location returns the timezone used to interpret request dates and times.
func (p *Pipeline) Location() *time.Location {
	return p.loc
}

// Search returns courses ranked for req. An empty result list is a successful search.
func (p *Pipeline) Search(ctx context.Context, req search.Request) (search.Results, error) {
	start := time.Now()
	if err := validate(req); err != nil {
		return search.Results{}, err
	}
	if p.availability != nil {
		if err := p.availability(); err != nil {
			return search.Results{}, err
		}
	}

	hoursUntil := HoursUntil(p.now(), req.Date, req.Time, p.loc)
	candidates := p.courses.WithinRadius(req.Origin, req.RadiusMiles)

	slotSets, err := p.acquireSlots(ctx, candidates, req.Time)
	if err != nil {
		return search.Results{}, err
	}

	results := make([]search.Result, 0, len(candidates))
	for i, cand := range candidates {
		if len(slotSets[i]) == 0 {
			continue
		}
		results = append(results, ScoreCourse(cand, slotSets[i], req.Date, hoursUntil))
	}

	ranked := Rank(results, req.MinScore, req.SortKey)

	var top float64
	for _, r := range ranked {
		top = math.Max(top, r.BestScore)
	}
	p.metrics.RecordSearch(string(req.SortKey), len(ranked), top, time.Since(start))
	logging.Info(logging.FromContext(ctx, p.logger), "search ranked",
		slog.Int("candidates", len(candidates)),
		slog.Int(logging.FieldCount, len(ranked)),
		slog.Float64(logging.FieldRadiusMiles, req.RadiusMiles),
		slog.String(logging.FieldSortKey, string(req.SortKey)),
		slog.Int64(logging.FieldDurationMS, time.Since(start).Milliseconds()),
	)

	return search.Results{HoursUntilTeeTime: hoursUntil, Courses: ranked}, nil
}

// acquireSlots fetches slots for every candidate concurrently. A failing course yields no slots;
// only cancellation of ctx aborts the search.
func (p *Pipeline) acquireSlots(ctx context.Context, candidates []catalog.Candidate, at teetimes.Clock) ([][]teetimes.Slot, error) {
	out := make([][]teetimes.Slot, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

	for i, cand := range candidates {
		i, cand := i, cand
		g.Go(func() error {
			cctx, cancel := context.WithTimeout(gctx, p.slotTimeout)
			defer cancel()

			list, err := p.slots.Slots(cctx, cand.Course, at)
			if err != nil {
				p.metrics.RecordSlotFetchFailure(p.sourceName)
				logging.Warn(logging.FromContext(ctx, p.logger), "slot fetch failed, skipping course",
					slog.Int(logging.FieldCourseID, cand.Course.ID),
					"error", err,
				)
				return nil
			}
			out[i] = list
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ScoreCourse scores every slot of a candidate and records its best score.
func ScoreCourse(cand catalog.Candidate, list []teetimes.Slot, date time.Time, hoursUntil float64) search.Result {
	scored := make([]teetimes.ScoredSlot, 0, len(list))
	for _, slot := range list {
		scored = append(scored, scoring.ScoreSlot(cand.Course, slot, date, hoursUntil))
	}
	SortSlots(scored)

	var best float64
	if len(scored) > 0 {
		best = scored[0].Score
	}
	return search.Result{
		Course:        cand.Course,
		DistanceMiles: cand.DistanceMiles,
		Slots:         scored,
		BestScore:     best,
	}
}

// HoursUntil is the signed number of hours from now until the tee time on date at clock in loc.
func HoursUntil(now, date time.Time, at teetimes.Clock, loc *time.Location) float64 {
	if loc == nil {
		loc = time.Local
	}
	teeAt := time.Date(date.Year(), date.Month(), date.Day(), at.Hour, at.Minute, 0, 0, loc)
	return teeAt.Sub(now).Hours()
}

func validate(req search.Request) error {
	if math.IsNaN(req.RadiusMiles) || req.RadiusMiles < 0 {
		return &search.ValidationError{Field: "radius", Message: "must be a non-negative number of miles"}
	}
	if math.IsNaN(req.MinScore) {
		return &search.ValidationError{Field: "minScore", Message: "must be a number"}
	}
	if req.Date.IsZero() {
		return &search.ValidationError{Field: "date", Message: "is required"}
	}
	if _, err := search.ParseSortKey(string(req.SortKey)); err != nil {
		return err
	}
	return nil
}
