package courses

import (
	"fmt"
	"strings"

	"github.com/golf-alone/teetime-service/internal/geo"
)

// Category classifies how a course is operated.
type Category string

const (
	CategoryMunicipal   Category = "municipal"
	CategorySemiPrivate Category = "semi-private"
	CategoryPublic      Category = "public"
	CategoryPrivate     Category = "private"
)

// ParseCategory normalizes a raw category value; unknown values are rejected.
func ParseCategory(raw string) (Category, error) {
	switch c := Category(strings.ToLower(strings.TrimSpace(raw))); c {
	case CategoryMunicipal, CategoryPublic, CategorySemiPrivate, CategoryPrivate:
		return c, nil
	default:
		return "", fmt.Errorf("unknown course category %q", raw)
	}
}

// Course is immutable reference data describing a golf course.
type Course struct {
	ID         int            `json:"id"`
	Name       string         `json:"name"`
	Category   Category       `json:"type"`
	Difficulty float64        `json:"difficulty"`
	Price      float64        `json:"price"`
	Walkable   bool           `json:"walkable"`
	Location   geo.Coordinate `json:"location"`
	City       string         `json:"city"`
}
