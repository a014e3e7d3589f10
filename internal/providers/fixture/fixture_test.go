package fixture

import (
	"context"
	"errors"
	"testing"

	"github.com/golf-alone/teetime-service/internal/domain/courses"
	"github.com/golf-alone/teetime-service/internal/geo"
	"github.com/golf-alone/teetime-service/internal/providers"
)

func TestSearchCoursesGeoQueryReturnsCatalog(t *testing.T) {
	p := New()
	near := geo.DefaultOrigin

	list, err := p.SearchCourses(context.Background(), providers.Query{Near: &near, RadiusMiles: 50})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(list) != 8 {
		t.Fatalf("expected all 8 catalog courses, got %d", len(list))
	}
	if list[0].ID != 1 || list[0].Name != "Pebble Creek Municipal" {
		t.Fatalf("unexpected first course: %+v", list[0])
	}
}

func TestSearchCoursesMatchesNameOrCity(t *testing.T) {
	p := New()

	list, err := p.SearchCourses(context.Background(), providers.Query{Text: "  OAKS "})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected the two Oaks courses, got %+v", list)
	}

	list, err = p.SearchCourses(context.Background(), providers.Query{Text: "roseville"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected three Roseville courses, got %d", len(list))
	}
}

func TestSearchCoursesRejectsEmptyQuery(t *testing.T) {
	if _, err := New().SearchCourses(context.Background(), providers.Query{}); !errors.Is(err, providers.ErrInvalidQuery) {
		t.Fatalf("expected ErrInvalidQuery, got %v", err)
	}
}

func TestSearchCoursesHonoursCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New().SearchCourses(ctx, providers.Query{Text: "oaks"}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context canceled, got %v", err)
	}
}

func TestNewWithCoursesCopiesInput(t *testing.T) {
	in := []courses.Course{{ID: 42, Name: "Solo Links"}}
	p := NewWithCourses(in)
	in[0].Name = "mutated"

	list, err := p.SearchCourses(context.Background(), providers.Query{Text: "solo"})
	if err != nil || len(list) != 1 || list[0].Name != "Solo Links" {
		t.Fatalf("expected provider to keep its own copy, got %+v (%v)", list, err)
	}
}
