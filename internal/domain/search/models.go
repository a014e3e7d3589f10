package search

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golf-alone/teetime-service/internal/domain/courses"
	"github.com/golf-alone/teetime-service/internal/domain/teetimes"
	"github.com/golf-alone/teetime-service/internal/geo"
)

// SortKey selects how search results are ordered.
type SortKey string

const (
	SortByScore    SortKey = "score"
	SortByDistance SortKey = "distance"
	SortByPrice    SortKey = "price"
)

// ParseSortKey validates a sort key; empty input selects SortByScore.
func ParseSortKey(raw string) (SortKey, error) {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(raw))); k {
	case "":
		return SortByScore, nil
	case SortByScore, SortByDistance, SortByPrice:
		return k, nil
	default:
		return "", &ValidationError{Field: "sort", Message: fmt.Sprintf("unknown sort key %q", raw)}
	}
}

// ErrInvalidInput marks a request that was rejected before computation.
var ErrInvalidInput = errors.New("invalid search input")

// ValidationError describes a single rejected request field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Unwrap lets callers match validation failures with errors.Is(err, ErrInvalidInput).
func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// Request is a fully parsed search.
type Request struct {
	Origin      geo.Coordinate
	Date        time.Time
	Time        teetimes.Clock
	RadiusMiles float64
	MinScore    float64
	SortKey     SortKey
}

// Result is a course that survived filtering, with its scored slots.
type Result struct {
	courses.Course
	DistanceMiles float64               `json:"distanceMiles"`
	Slots         []teetimes.ScoredSlot `json:"slots"`
	BestScore     float64               `json:"bestScore"`
}

// Results is the ordered output of a search.
type Results struct {
	HoursUntilTeeTime float64  `json:"hoursUntil"`
	Courses           []Result `json:"results"`
}
