package golfcourseapi

import (
	"strings"

	"github.com/golf-alone/teetime-service/internal/domain/courses"
	"github.com/golf-alone/teetime-service/internal/geo"
)

// mapCourse converts an upstream record. Upstream carries no pricing or rating data,
// so those fields stay zero and every course is treated as public.
func mapCourse(c courseResponse) (courses.Course, bool) {
	name := courseName(c.ClubName, c.CourseName)
	if c.ID <= 0 || name == "" {
		return courses.Course{}, false
	}
	return courses.Course{
		ID:       c.ID,
		Name:     name,
		Category: courses.CategoryPublic,
		Location: geo.Coordinate{Lat: c.Location.Latitude, Lng: c.Location.Longitude},
		City:     strings.TrimSpace(c.Location.City),
	}, true
}

func courseName(club, course string) string {
	club = strings.TrimSpace(club)
	course = strings.TrimSpace(course)
	switch {
	case club == "":
		return course
	case course == "" || strings.EqualFold(club, course):
		return club
	default:
		return club + " - " + course
	}
}

func mapCourses(list []courseResponse) []courses.Course {
	out := make([]courses.Course, 0, len(list))
	for _, c := range list {
		if course, ok := mapCourse(c); ok {
			out = append(out, course)
		}
	}
	return out
}
