package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/golf-alone/teetime-service/internal/domain/courses"
	"github.com/golf-alone/teetime-service/internal/geo"
)

//go:embed courses.yaml
var defaultCatalogYAML []byte

type catalogFile struct {
	Courses []courseRecord `yaml:"courses"`
}

type courseRecord struct {
	ID         int     `yaml:"id"`
	Name       string  `yaml:"name"`
	Type       string  `yaml:"type"`
	Difficulty float64 `yaml:"difficulty"`
	Price      float64 `yaml:"price"`
	Walkable   bool    `yaml:"walkable"`
	Lat        float64 `yaml:"lat"`
	Lng        float64 `yaml:"lng"`
	City       string  `yaml:"city"`
}

// Default returns the built-in course list.
func Default() ([]courses.Course, error) {
	return Load(bytes.NewReader(defaultCatalogYAML))
}

// MustDefault is Default for wiring code that cannot proceed without a catalog.
func MustDefault() []courses.Course {
	list, err := Default()
	if err != nil {
		panic(err)
	}
	return list
}

// Load parses a YAML course catalog and validates every record.
func Load(r io.Reader) ([]courses.Course, error) {
	var file catalogFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return []courses.Course{}, nil
		}
		return nil, fmt.Errorf("catalog: decode: %w", err)
	}

	seen := make(map[int]struct{}, len(file.Courses))
	out := make([]courses.Course, 0, len(file.Courses))
	for i, rec := range file.Courses {
		c, err := rec.toCourse()
		if err != nil {
			return nil, fmt.Errorf("catalog: course #%d: %w", i+1, err)
		}
		if _, dup := seen[c.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate course id %d", c.ID)
		}
		seen[c.ID] = struct{}{}
		out = append(out, c)
	}
	return out, nil
}

func (r courseRecord) toCourse() (courses.Course, error) {
	if r.ID <= 0 {
		return courses.Course{}, fmt.Errorf("id must be positive, got %d", r.ID)
	}
	if r.Name == "" {
		return courses.Course{}, fmt.Errorf("course %d has no name", r.ID)
	}
	category, err := courses.ParseCategory(r.Type)
	if err != nil {
		return courses.Course{}, err
	}
	if r.Lat < -90 || r.Lat > 90 || r.Lng < -180 || r.Lng > 180 {
		return courses.Course{}, fmt.Errorf("course %d has out of range coordinates (%f, %f)", r.ID, r.Lat, r.Lng)
	}
	return courses.Course{
		ID:         r.ID,
		Name:       r.Name,
		Category:   category,
		Difficulty: r.Difficulty,
		Price:      r.Price,
		Walkable:   r.Walkable,
		Location:   geo.Coordinate{Lat: r.Lat, Lng: r.Lng},
		City:       r.City,
	}, nil
}
