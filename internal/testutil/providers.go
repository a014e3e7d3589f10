package testutil

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/golf-alone/teetime-service/internal/domain/courses"
	"github.com/golf-alone/teetime-service/internal/providers"
)

// StubCourseProvider is a test double for providers.CourseProvider.
type StubCourseProvider struct {
	Courses []courses.Course
	Err     error
	Calls   atomic.Int32
	Notify  chan struct{}

	mu      sync.Mutex
	queries []providers.Query
}

// SearchCourses returns configured courses and error while tracking calls.
func (s *StubCourseProvider) SearchCourses(ctx context.Context, q providers.Query) ([]courses.Course, error) {
	_ = ctx
	if s.Notify != nil {
		select {
		case <-s.Notify:
		default:
			close(s.Notify)
		}
	}
	s.mu.Lock()
	s.queries = append(s.queries, q)
	list, err := s.Courses, s.Err
	s.mu.Unlock()
	s.Calls.Add(1)
	return list, err
}

// Set swaps the configured response.
func (s *StubCourseProvider) Set(list []courses.Course, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Courses = list
	s.Err = err
}

// Queries returns every query seen so far.
func (s *StubCourseProvider) Queries() []providers.Query {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]providers.Query, len(s.queries))
	copy(out, s.queries)
	return out
}

// ErrProvider always returns the provided error.
type ErrProvider struct {
	Err error
}

func (p ErrProvider) SearchCourses(ctx context.Context, q providers.Query) ([]courses.Course, error) {
	return nil, p.Err
}

// EmptyProvider returns no courses, no error.
type EmptyProvider struct{}

func (EmptyProvider) SearchCourses(ctx context.Context, q providers.Query) ([]courses.Course, error) {
	return []courses.Course{}, nil
}

// UnavailableProvider returns ErrProviderUnavailable.
type UnavailableProvider struct{}

func (UnavailableProvider) SearchCourses(ctx context.Context, q providers.Query) ([]courses.Course, error) {
	return nil, providers.ErrProviderUnavailable
}
