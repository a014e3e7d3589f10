package handlers

import (
	"context"
	"log/slog"
	nethttp "net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/golf-alone/teetime-service/internal/domain/courses"
	"github.com/golf-alone/teetime-service/internal/domain/search"
	"github.com/golf-alone/teetime-service/internal/geo"
	"github.com/golf-alone/teetime-service/internal/poller"
	"github.com/golf-alone/teetime-service/internal/providers"
)

type nowFunc func() time.Time

// Searcher runs a ranked tee time search.
type Searcher interface {
	Search(ctx context.Context, req search.Request) (search.Results, error)
}

// CourseLister exposes the courses currently in the catalog.
type CourseLister interface {
	Courses() []courses.Course
	Len() int
}

// Options wires a Handler to its collaborators. Nil fields disable the routes that need them.
type Options struct {
	Searcher Searcher
	Catalog  CourseLister
	// Lookup backs /courses/lookup; KeyPresent reports whether it has upstream credentials.
	Lookup     providers.CourseProvider
	KeyPresent bool
	Resolver   *geo.Resolver
	// Location decides which calendar day "tomorrow" is when a search omits its date.
	Location *time.Location
	Status   func() poller.Status
	Logger   *slog.Logger
}

// Handler wires HTTP routes to the search pipeline and course catalog.
type Handler struct {
	searcher   Searcher
	catalog    CourseLister
	lookup     providers.CourseProvider
	keyPresent bool
	resolver   *geo.Resolver
	loc        *time.Location
	statusFn   func() poller.Status
	logger     *slog.Logger
	now        nowFunc
	validate   *validator.Validate
}

// NewHandler constructs a Handler with defaults.
func NewHandler(opts Options) *Handler {
	resolver := opts.Resolver
	if resolver == nil {
		resolver = geo.NewResolver()
	}
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	return &Handler{
		searcher:   opts.Searcher,
		catalog:    opts.Catalog,
		lookup:     opts.Lookup,
		keyPresent: opts.KeyPresent,
		resolver:   resolver,
		loc:        loc,
		statusFn:   opts.Status,
		logger:     opts.Logger,
		now:        time.Now,
		validate:   newValidator(),
	}
}

func (h *Handler) ServeHTTP(w nethttp.ResponseWriter, r *nethttp.Request) {
	switch r.URL.Path {
	case "/health":
		h.Health(w, r)
	case "/ready":
		h.Ready(w, r)
	case "/search":
		h.Search(w, r)
	case "/courses":
		h.Courses(w, r)
	case "/courses/lookup":
		h.LookupCourses(w, r)
	default:
		writeError(w, r, nethttp.StatusNotFound, "not found", h.logger)
	}
}

// Health reports the service health.
func (h *Handler) Health(w nethttp.ResponseWriter, r *nethttp.Request) {
	if !requireMethod(w, r, nethttp.MethodGet, h.logger) {
		return
	}
	if err := r.Context().Err(); err != nil {
		writeError(w, r, nethttp.StatusServiceUnavailable, "shutting down", h.logger)
		return
	}
	writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ok"}, h.logger)
}

// Ready reports readiness for traffic: the refresher is healthy and the catalog has courses.
func (h *Handler) Ready(w nethttp.ResponseWriter, r *nethttp.Request) {
	if !requireMethod(w, r, nethttp.MethodGet, h.logger) {
		return
	}
	if h.statusFn != nil {
		if status := h.statusFn(); !status.IsReady() {
			msg := status.LastError
			if msg == "" {
				msg = "not ready"
			}
			writeError(w, r, nethttp.StatusServiceUnavailable, msg, h.logger)
			return
		}
	}
	if h.catalog != nil && h.catalog.Len() == 0 {
		writeError(w, r, nethttp.StatusServiceUnavailable, "course catalog is empty", h.logger)
		return
	}
	writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ready"}, h.logger)
}
