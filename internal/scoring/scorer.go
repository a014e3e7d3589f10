package scoring

import (
	"math"
	"time"

	"github.com/golf-alone/teetime-service/internal/domain/courses"
	"github.com/golf-alone/teetime-service/internal/domain/teetimes"
)

const (
	// MinScore is the lowest score a slot can receive.
	MinScore = 1.0
	// MaxScore is the highest score a slot can receive.
	MaxScore  = 10.0
	baseScore = 5.0
)

// Score rates how likely booking slot leaves a solo golfer with a quiet round.
// date supplies the weekday and month; hoursUntil is the lead time before the tee time.
// The result is rounded to one decimal and clamped to [MinScore, MaxScore].
func Score(course courses.Course, slot teetimes.Slot, date time.Time, hoursUntil float64) float64 {
	s := baseScore
	s += hourAdjustment(slot.Time.Hour)
	s += weekdayAdjustment(date.Weekday())
	s += seasonAdjustment(date.Month())
	s += occupancyAdjustment(slot)
	s += courseAdjustment(course)
	s += leadTimeAdjustment(hoursUntil)
	return clamp(math.Round(s*10) / 10)
}

// ScoreSlot returns slot with its score and label attached.
func ScoreSlot(course courses.Course, slot teetimes.Slot, date time.Time, hoursUntil float64) teetimes.ScoredSlot {
	score := Score(course, slot, date, hoursUntil)
	return teetimes.ScoredSlot{Slot: slot, Score: score, Label: Label(score)}
}

func hourAdjustment(hour int) float64 {
	var adj float64
	switch {
	case hour < 7:
		adj += 2
	case hour < 8:
		adj++
	}
	if hour >= 10 && hour <= 14 {
		adj -= 2
	}
	if hour >= 17 {
		adj++
	}
	return adj
}

func weekdayAdjustment(day time.Weekday) float64 {
	switch day {
	case time.Tuesday, time.Wednesday, time.Thursday:
		return 1
	case time.Saturday, time.Sunday:
		return -2
	default:
		return 0
	}
}

func seasonAdjustment(month time.Month) float64 {
	if month >= time.November || month <= time.February {
		return 1
	}
	return 0
}

func occupancyAdjustment(slot teetimes.Slot) float64 {
	var adj float64
	switch {
	case slot.SingleAvailable:
		adj += 2
	case slot.OpenSlots == 3:
		adj++
	case slot.OpenSlots == 1:
		adj--
	}
	// Stacks with the SingleAvailable bonus for an empty group.
	if slot.FilledSlots == 0 {
		adj++
	}
	return adj
}

func courseAdjustment(course courses.Course) float64 {
	var adj float64
	if course.Category == courses.CategoryMunicipal {
		adj += 0.5
	}
	if course.Difficulty >= 8 {
		adj += 0.5
	}
	if course.Price >= 100 {
		adj++
	}
	if course.Walkable {
		adj += 0.5
	}
	return adj
}

func leadTimeAdjustment(hoursUntil float64) float64 {
	// A tee time in the past earns nothing.
	if hoursUntil < 0 || math.IsNaN(hoursUntil) {
		return 0
	}
	var adj float64
	if hoursUntil <= 24 {
		adj++
	}
	if hoursUntil <= 4 {
		adj += 0.5
	}
	return adj
}

func clamp(s float64) float64 {
	return math.Min(MaxScore, math.Max(MinScore, s))
}

// Label buckets a score for display.
func Label(score float64) string {
	switch {
	case score >= 8:
		return "Excellent"
	case score >= 6:
		return "Good"
	case score >= 4:
		return "Fair"
	default:
		return "Low"
	}
}
