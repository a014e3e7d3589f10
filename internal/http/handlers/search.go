package handlers

import (
	"context"
	"errors"
	"log/slog"
	nethttp "net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/golf-alone/teetime-service/internal/domain/search"
	"github.com/golf-alone/teetime-service/internal/domain/teetimes"
	"github.com/golf-alone/teetime-service/internal/geo"
	"github.com/golf-alone/teetime-service/internal/logging"
	"github.com/golf-alone/teetime-service/internal/providers"
	"github.com/golf-alone/teetime-service/internal/scoring"
	"github.com/golf-alone/teetime-service/internal/timeutil"
)

const (
	defaultRadiusMiles = 25
	defaultMinScore    = 1
	defaultTeeTime     = "08:00"
)

// searchParams is the raw /search query after defaults are applied.
type searchParams struct {
	Zip      string  `query:"zip" validate:"required,max=10"`
	Date     string  `query:"date" validate:"datetime=2006-01-02"`
	Time     string  `query:"time" validate:"datetime=15:04"`
	Radius   float64 `query:"radius" validate:"gte=5,lte=50"`
	MinScore float64 `query:"minScore" validate:"gte=1,lte=9"`
	Sort     string  `query:"sort" validate:"oneof=score distance price"`
}

type originResponse struct {
	Zip string  `json:"zip"`
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type resultResponse struct {
	search.Result
	BestLabel string `json:"bestLabel"`
}

type searchResponse struct {
	Origin         originResponse   `json:"origin"`
	OriginFallback bool             `json:"originFallback"`
	Date           string           `json:"date"`
	DayOfWeek      string           `json:"dayOfWeek"`
	Time           string           `json:"time"`
	Radius         float64          `json:"radius"`
	MinScore       float64          `json:"minScore"`
	Sort           string           `json:"sort"`
	HoursUntil     float64          `json:"hoursUntil"`
	Count          int              `json:"count"`
	Results        []resultResponse `json:"results"`
}

// Search ranks nearby courses for a solo golfer.
func (h *Handler) Search(w nethttp.ResponseWriter, r *nethttp.Request) {
	if !requireMethod(w, r, nethttp.MethodGet, h.logger) {
		return
	}
	logger := loggerFromContext(r, h.logger)
	if h.searcher == nil {
		writeError(w, r, nethttp.StatusServiceUnavailable, "search not configured", logger)
		return
	}

	params, details := h.parseSearchParams(r.URL.Query())
	if len(details) > 0 {
		logging.Debug(logger, "search rejected", slog.Any("details", details))
		writeErrorDetails(w, r, nethttp.StatusBadRequest, "invalid search request", details, logger)
		return
	}

	req, fallback, details := h.buildSearchRequest(params)
	if len(details) > 0 {
		writeErrorDetails(w, r, nethttp.StatusBadRequest, "invalid search request", details, logger)
		return
	}
	if fallback {
		logging.Info(logger, "unknown zip, using default origin", slog.String("zip", params.Zip))
	}

	res, err := h.searcher.Search(r.Context(), req)
	if err != nil {
		h.writeSearchError(w, r, err, logger)
		return
	}

	writeJSON(w, nethttp.StatusOK, newSearchResponse(params, req, fallback, res), logger)
}

func (h *Handler) parseSearchParams(values url.Values) (searchParams, []search.ValidationError) {
	params := searchParams{
		Zip:      strings.TrimSpace(values.Get("zip")),
		Date:     strings.TrimSpace(values.Get("date")),
		Time:     strings.TrimSpace(values.Get("time")),
		Radius:   defaultRadiusMiles,
		MinScore: defaultMinScore,
		Sort:     strings.ToLower(strings.TrimSpace(values.Get("sort"))),
	}
	if params.Date == "" {
		params.Date = timeutil.FormatDate(timeutil.Tomorrow(h.now(), h.loc))
	}
	if params.Time == "" {
		params.Time = defaultTeeTime
	}
	if params.Sort == "" {
		params.Sort = string(search.SortByScore)
	}

	var details []search.ValidationError
	if raw := strings.TrimSpace(values.Get("radius")); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			details = append(details, search.ValidationError{Field: "radius", Message: "must be a number"})
		}
		params.Radius = v
	}
	if raw := strings.TrimSpace(values.Get("minScore")); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			details = append(details, search.ValidationError{Field: "minScore", Message: "must be a number"})
		}
		params.MinScore = v
	}
	if len(details) > 0 {
		return params, details
	}

	if err := h.validate.Struct(params); err != nil {
		return params, validationDetails(err)
	}
	return params, nil
}

func (h *Handler) buildSearchRequest(params searchParams) (search.Request, bool, []search.ValidationError) {
	date, err := timeutil.ParseDate(params.Date)
	if err != nil {
		return search.Request{}, false, []search.ValidationError{{Field: "date", Message: "must be formatted as YYYY-MM-DD"}}
	}
	at, err := teetimes.ParseClock(params.Time)
	if err != nil {
		return search.Request{}, false, []search.ValidationError{{Field: "time", Message: "must be formatted as HH:MM (24h)"}}
	}
	origin, known := h.resolver.Resolve(params.Zip)

	return search.Request{
		Origin:      origin,
		Date:        date,
		Time:        at,
		RadiusMiles: params.Radius,
		MinScore:    params.MinScore,
		SortKey:     search.SortKey(params.Sort),
	}, !known, nil
}

func (h *Handler) writeSearchError(w nethttp.ResponseWriter, r *nethttp.Request, err error, logger *slog.Logger) {
	var vErr *search.ValidationError
	switch {
	case errors.As(err, &vErr):
		writeErrorDetails(w, r, nethttp.StatusBadRequest, "invalid search request", []search.ValidationError{*vErr}, logger)
	case errors.Is(err, search.ErrInvalidInput):
		writeError(w, r, nethttp.StatusBadRequest, "invalid search request", logger)
	case errors.Is(err, providers.ErrUpstreamUnavailable),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		logging.Warn(logger, "search unavailable", slog.Any("err", err))
		writeError(w, r, nethttp.StatusServiceUnavailable, "course data unavailable", logger)
	default:
		logging.Error(logger, "search failed", err)
		writeError(w, r, nethttp.StatusInternalServerError, "search failed", logger)
	}
}

func newSearchResponse(params searchParams, req search.Request, fallback bool, res search.Results) searchResponse {
	results := make([]resultResponse, 0, len(res.Courses))
	for _, c := range res.Courses {
		results = append(results, resultResponse{Result: c, BestLabel: scoring.Label(c.BestScore)})
	}
	return searchResponse{
		Origin:         newOriginResponse(params.Zip, req.Origin),
		OriginFallback: fallback,
		Date:           timeutil.FormatDate(req.Date),
		DayOfWeek:      req.Date.Weekday().String(),
		Time:           req.Time.String(),
		Radius:         req.RadiusMiles,
		MinScore:       req.MinScore,
		Sort:           string(req.SortKey),
		HoursUntil:     res.HoursUntilTeeTime,
		Count:          len(results),
		Results:        results,
	}
}

func newOriginResponse(zip string, c geo.Coordinate) originResponse {
	return originResponse{Zip: zip, Lat: c.Lat, Lng: c.Lng}
}
