package fixture

import (
	"context"
	"strings"

	"github.com/golf-alone/teetime-service/internal/catalog"
	"github.com/golf-alone/teetime-service/internal/domain/courses"
	"github.com/golf-alone/teetime-service/internal/providers"
)

// Provider serves the embedded course catalog, useful for local runs and bootstrapping.
type Provider struct {
	courses []courses.Course
}

// New creates a fixture provider backed by the embedded catalog.
func New() *Provider {
	return NewWithCourses(catalog.MustDefault())
}

// NewWithCourses creates a fixture provider over a fixed course list.
func NewWithCourses(list []courses.Course) *Provider {
	out := make([]courses.Course, len(list))
	copy(out, list)
	return &Provider{courses: out}
}

// SearchCourses matches text against course names and cities, then narrows to the query's area.
func (p *Provider) SearchCourses(ctx context.Context, q providers.Query) ([]courses.Course, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}
	q = q.Normalize()

	matches := make([]courses.Course, 0, len(p.courses))
	for _, c := range p.courses {
		if q.Text == "" || matchesText(c, q.Text) {
			matches = append(matches, c)
		}
	}
	return providers.FilterNear(matches, q), nil
}

func matchesText(c courses.Course, text string) bool {
	return strings.Contains(strings.ToLower(c.Name), text) || strings.Contains(strings.ToLower(c.City), text)
}
