package testutil

import (
	"github.com/golf-alone/teetime-service/internal/domain/courses"
	"github.com/golf-alone/teetime-service/internal/geo"
)

// SampleCourse returns a minimal public course at the default origin with the provided id.
func SampleCourse(id int) courses.Course {
	return courses.Course{
		ID:         id,
		Name:       "Sample Course",
		Category:   courses.CategoryPublic,
		Difficulty: 6,
		Price:      50,
		Walkable:   true,
		Location:   geo.DefaultOrigin,
		City:       "Rocklin",
	}
}

// SampleCourses returns n sample courses with ids 1..n.
func SampleCourses(n int) []courses.Course {
	out := make([]courses.Course, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, SampleCourse(i))
	}
	return out
}
