package slots

import (
	"context"

	"github.com/golf-alone/teetime-service/internal/domain/courses"
	"github.com/golf-alone/teetime-service/internal/domain/teetimes"
)

const (
	// StepMinutes is the spacing between candidate tee times.
	StepMinutes = 10
	// WindowMinutes bounds candidates to requested time ± this offset.
	WindowMinutes = 60
	// LastBookableMinute is the exclusive end of the bookable day (22:00).
	LastBookableMinute = 22 * 60
)

// Source supplies candidate slots for one course. Implementations may do I/O.
type Source interface {
	Slots(ctx context.Context, course courses.Course, requested teetimes.Clock) ([]teetimes.Slot, error)
}

// Generator is a deterministic stand-in for a live availability feed.
type Generator struct{}

// NewGenerator returns the deterministic slot source.
func NewGenerator() Generator {
	return Generator{}
}

// Slots implements Source; it never fails.
func (Generator) Slots(ctx context.Context, course courses.Course, requested teetimes.Clock) ([]teetimes.Slot, error) {
	_ = ctx
	return Generate(course.ID, requested), nil
}

// Generate enumerates slots around requested for courseID. Fully booked slots are omitted.
// The same inputs always produce the same output.
func Generate(courseID int, requested teetimes.Clock) []teetimes.Slot {
	base := requested.Minutes()
	out := make([]teetimes.Slot, 0, 2*WindowMinutes/StepMinutes+1)
	for offset := -WindowMinutes; offset <= WindowMinutes; offset += StepMinutes {
		total := base + offset
		if total < 0 || total >= LastBookableMinute {
			continue
		}
		open := OpenSeats(courseID, offset)
		if open == 0 {
			continue
		}
		out = append(out, teetimes.NewSlot(teetimes.ClockFromMinutes(total), open))
	}
	return out
}

// OpenSeats derives the open seat count for a course at an offset from the requested time.
func OpenSeats(courseID, offsetMinutes int) int {
	// Go's % keeps the dividend's sign, so negative seeds land in the first bucket.
	seed := (courseID*13 + offsetMinutes*3 + courseID*7) % 100
	switch {
	case seed < 20:
		return 4
	case seed < 45:
		return 3
	case seed < 70:
		return 2
	case seed < 88:
		return 1
	default:
		return 0
	}
}
