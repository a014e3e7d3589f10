package catalog

import (
	"sync"

	"github.com/golf-alone/teetime-service/internal/domain/courses"
	"github.com/golf-alone/teetime-service/internal/geo"
)

// Candidate is a course together with its distance from a search origin.
type Candidate struct {
	Course        courses.Course
	DistanceMiles float64
}

// Catalog keeps a thread-safe snapshot of courses in memory.
// Readers always see a complete course set; Replace swaps it wholesale.
type Catalog struct {
	mu      sync.RWMutex
	courses []courses.Course
	byID    map[int]courses.Course
}

// New constructs a Catalog seeded with the given courses.
func New(list []courses.Course) *Catalog {
	c := &Catalog{}
	c.Replace(list)
	return c
}

// Courses returns a copy of every course in the catalog.
func (c *Catalog) Courses() []courses.Course {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]courses.Course, len(c.courses))
	copy(out, c.courses)
	return out
}

// Len reports how many courses are loaded.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.courses)
}

// CourseByID retrieves a course by ID.
func (c *Catalog) CourseByID(id int) (courses.Course, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	course, ok := c.byID[id]
	return course, ok
}

// Replace swaps the existing courses with a new set.
func (c *Catalog) Replace(list []courses.Course) {
	next := make([]courses.Course, len(list))
	copy(next, list)
	byID := make(map[int]courses.Course, len(list))
	for _, course := range next {
		byID[course.ID] = course
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.courses = next
	c.byID = byID
}

// WithinRadius returns every course no farther than radiusMiles from origin.
func (c *Catalog) WithinRadius(origin geo.Coordinate, radiusMiles float64) []Candidate {
	return WithinRadius(c.Courses(), origin, radiusMiles)
}

// WithinRadius filters an arbitrary course list, so provider results can be used in place of the catalog.
func WithinRadius(list []courses.Course, origin geo.Coordinate, radiusMiles float64) []Candidate {
	out := make([]Candidate, 0, len(list))
	for _, course := range list {
		d := geo.DistanceMiles(origin, course.Location)
		if d <= radiusMiles {
			out = append(out, Candidate{Course: course, DistanceMiles: d})
		}
	}
	return out
}
