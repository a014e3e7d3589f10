package teetimes

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// GroupSize is the number of players in a tee time group.
const GroupSize = 4

// Clock is a time of day at minute resolution.
type Clock struct {
	Hour   int
	Minute int
}

// ParseClock parses a 24-hour "HH:MM" value.
func ParseClock(raw string) (Clock, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(raw), ":")
	if !ok || len(hh) == 0 || len(hh) > 2 || len(mm) != 2 {
		return Clock{}, fmt.Errorf("invalid clock time %q (expected HH:MM)", raw)
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return Clock{}, fmt.Errorf("invalid hour in %q", raw)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return Clock{}, fmt.Errorf("invalid minute in %q", raw)
	}
	return Clock{Hour: h, Minute: m}, nil
}

// ClockFromMinutes builds a Clock from minutes past midnight.
func ClockFromMinutes(total int) Clock {
	return Clock{Hour: total / 60, Minute: total % 60}
}

// Minutes returns minutes past midnight.
func (c Clock) Minutes() int {
	return c.Hour*60 + c.Minute
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// MarshalJSON renders the clock as "HH:MM".
func (c Clock) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON parses an "HH:MM" string.
func (c *Clock) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseClock(raw)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Slot is one candidate tee time at a course.
type Slot struct {
	Time        Clock `json:"time"`
	OpenSlots   int   `json:"openSlots"`
	FilledSlots int   `json:"filledSlots"`
	TotalSlots  int   `json:"totalSlots"`
	// SingleAvailable marks a fully empty group, the best case for a solo golfer.
	SingleAvailable bool `json:"singleAvailable"`
}

// NewSlot derives filled/total/single-availability from the open seat count.
func NewSlot(at Clock, open int) Slot {
	return Slot{
		Time:            at,
		OpenSlots:       open,
		FilledSlots:     GroupSize - open,
		TotalSlots:      GroupSize,
		SingleAvailable: open == GroupSize,
	}
}

// ScoredSlot is a Slot with its desirability score.
type ScoredSlot struct {
	Slot
	Score float64 `json:"score"`
	Label string  `json:"label"`
}
