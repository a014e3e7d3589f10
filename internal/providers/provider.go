package providers

import (
	"context"
	"strings"

	"github.com/golf-alone/teetime-service/internal/catalog"
	"github.com/golf-alone/teetime-service/internal/domain/courses"
	"github.com/golf-alone/teetime-service/internal/geo"
)

// Query describes a course lookup. Text searches by name; Near with RadiusMiles searches by area.
// Both may be set, in which case text matches are narrowed to the area.
type Query struct {
	Text        string
	Near        *geo.Coordinate
	RadiusMiles float64
}

// Normalize trims and lowercases the text so equivalent queries compare equal.
func (q Query) Normalize() Query {
	q.Text = strings.ToLower(strings.Join(strings.Fields(q.Text), " "))
	if q.RadiusMiles < 0 {
		q.RadiusMiles = 0
	}
	return q
}

// IsGeo reports whether the query restricts results to an area.
func (q Query) IsGeo() bool {
	return q.Near != nil
}

// Validate rejects queries that carry neither text nor a location.
func (q Query) Validate() error {
	if strings.TrimSpace(q.Text) == "" && q.Near == nil {
		return ErrInvalidQuery
	}
	return nil
}

// CourseProvider defines how upstream course data is fetched and normalized.
type CourseProvider interface {
	SearchCourses(ctx context.Context, q Query) ([]courses.Course, error)
}

// FilterNear narrows list to the query's area. Non-geo queries pass through unchanged.
func FilterNear(list []courses.Course, q Query) []courses.Course {
	if !q.IsGeo() {
		return list
	}
	candidates := catalog.WithinRadius(list, *q.Near, q.RadiusMiles)
	out := make([]courses.Course, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, c.Course)
	}
	return out
}
