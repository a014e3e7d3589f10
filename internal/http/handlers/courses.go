package handlers

import (
	"errors"
	"log/slog"
	nethttp "net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/golf-alone/teetime-service/internal/domain/courses"
	"github.com/golf-alone/teetime-service/internal/domain/search"
	"github.com/golf-alone/teetime-service/internal/geo"
	"github.com/golf-alone/teetime-service/internal/logging"
	"github.com/golf-alone/teetime-service/internal/providers"
)

type coursesResponse struct {
	Count   int              `json:"count"`
	Courses []courses.Course `json:"courses"`
}

// lookupParams is the raw /courses/lookup query. Either q or a lat/lng pair is required.
type lookupParams struct {
	Q      string  `query:"q" validate:"max=100"`
	Lat    float64 `query:"lat" validate:"latitude"`
	Lng    float64 `query:"lng" validate:"longitude"`
	Radius float64 `query:"radius" validate:"gte=1,lte=200"`
	geo    bool
}

func (p lookupParams) query() providers.Query {
	q := providers.Query{Text: p.Q}
	if p.geo {
		q.Near = &geo.Coordinate{Lat: p.Lat, Lng: p.Lng}
		q.RadiusMiles = p.Radius
	}
	return q
}

type lookupNear struct {
	Lat    float64 `json:"lat"`
	Lng    float64 `json:"lng"`
	Radius float64 `json:"radius"`
}

type lookupResponse struct {
	Query      string           `json:"query"`
	Near       *lookupNear      `json:"near,omitempty"`
	KeyPresent bool             `json:"keyPresent"`
	Count      int              `json:"count"`
	Courses    []courses.Course `json:"courses"`
}

// Courses lists the courses currently in the catalog.
func (h *Handler) Courses(w nethttp.ResponseWriter, r *nethttp.Request) {
	if !requireMethod(w, r, nethttp.MethodGet, h.logger) {
		return
	}
	list := []courses.Course{}
	if h.catalog != nil {
		list = h.catalog.Courses()
	}
	writeJSON(w, nethttp.StatusOK, coursesResponse{Count: len(list), Courses: list}, loggerFromContext(r, h.logger))
}

// LookupCourses searches the upstream course provider by name or city, optionally
// narrowed to a radius around lat/lng. A lat/lng pair alone is also accepted.
func (h *Handler) LookupCourses(w nethttp.ResponseWriter, r *nethttp.Request) {
	if !requireMethod(w, r, nethttp.MethodGet, h.logger) {
		return
	}
	logger := loggerFromContext(r, h.logger)

	params, details := h.parseLookupParams(r.URL.Query())
	if len(details) > 0 {
		writeErrorDetails(w, r, nethttp.StatusBadRequest, "invalid lookup request", details, logger)
		return
	}
	q := params.Q
	if h.lookup == nil {
		writeError(w, r, nethttp.StatusServiceUnavailable, "course lookup not configured", logger)
		return
	}

	list, err := h.lookup.SearchCourses(r.Context(), params.query())
	switch {
	case err == nil:
	case errors.Is(err, providers.ErrMissingAPIKey):
		body := errorBody(r, "course lookup API key not configured")
		body["keyPresent"] = false
		writeJSON(w, nethttp.StatusServiceUnavailable, body, logger)
		return
	case errors.Is(err, providers.ErrInvalidQuery):
		writeError(w, r, nethttp.StatusBadRequest, err.Error(), logger)
		return
	default:
		logging.Warn(logger, "course lookup failed", slog.String("query", q), slog.Any("err", err))
		writeError(w, r, nethttp.StatusBadGateway, "course lookup failed", logger)
		return
	}

	if list == nil {
		list = []courses.Course{}
	}
	logging.Info(logger, "course lookup served", slog.String("query", q), slog.Int(logging.FieldCount, len(list)))
	resp := lookupResponse{
		Query:      q,
		KeyPresent: h.keyPresent,
		Count:      len(list),
		Courses:    list,
	}
	if params.geo {
		resp.Near = &lookupNear{Lat: params.Lat, Lng: params.Lng, Radius: params.Radius}
	}
	writeJSON(w, nethttp.StatusOK, resp, logger)
}

func (h *Handler) parseLookupParams(values url.Values) (lookupParams, []search.ValidationError) {
	params := lookupParams{
		Q:      strings.TrimSpace(values.Get("q")),
		Radius: defaultRadiusMiles,
	}

	var details []search.ValidationError
	number := func(field string, dest *float64) bool {
		raw := strings.TrimSpace(values.Get(field))
		if raw == "" {
			return false
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			details = append(details, search.ValidationError{Field: field, Message: "must be a number"})
			return true
		}
		*dest = v
		return true
	}
	hasLat := number("lat", &params.Lat)
	hasLng := number("lng", &params.Lng)
	number("radius", &params.Radius)
	if len(details) > 0 {
		return params, details
	}

	switch {
	case hasLat != hasLng:
		field := "lng"
		if !hasLat {
			field = "lat"
		}
		return params, []search.ValidationError{{Field: field, Message: "is required when lat or lng is set"}}
	case !hasLat && params.Q == "":
		return params, []search.ValidationError{{Field: "q", Message: "is required without lat and lng"}}
	}
	params.geo = hasLat

	if err := h.validate.Struct(params); err != nil {
		return params, validationDetails(err)
	}
	return params, nil
}
