package timeutil

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	parsed, err := ParseDate("2024-01-02")
	if err != nil {
		t.Fatalf("expected parse to succeed, got %v", err)
	}
	if got := FormatDate(parsed); got != "2024-01-02" {
		t.Fatalf("expected formatted date to round-trip, got %s", got)
	}
	if _, err := ParseDate("2024-13-40"); err == nil {
		t.Fatalf("expected invalid date to fail")
	}
}

func TestFormatDateUsesLocation(t *testing.T) {
	loc := time.FixedZone("test", -5*60*60)
	value := time.Date(2024, 1, 2, 23, 0, 0, 0, loc)
	if got := FormatDate(value); got != "2024-01-02" {
		t.Fatalf("expected formatted date, got %s", got)
	}
}

func TestTomorrowUsesLocalCalendar(t *testing.T) {
	pst := time.FixedZone("PST", -8*60*60)
	// 03:00 UTC on Dec 11 is still Dec 10 in PST.
	now := time.Date(2024, 12, 11, 3, 0, 0, 0, time.UTC)

	if got := FormatDate(Tomorrow(now, pst)); got != "2024-12-11" {
		t.Fatalf("expected 2024-12-11, got %s", got)
	}
	if got := FormatDate(Tomorrow(now, nil)); got != "2024-12-12" {
		t.Fatalf("expected UTC fallback 2024-12-12, got %s", got)
	}
	if got := FormatDate(Tomorrow(time.Date(2024, 12, 31, 12, 0, 0, 0, time.UTC), time.UTC)); got != "2025-01-01" {
		t.Fatalf("expected year rollover, got %s", got)
	}
}

func TestLoadLocation(t *testing.T) {
	loc, err := LoadLocation("")
	if err != nil || loc != time.UTC {
		t.Fatalf("expected UTC for empty name, got %v (%v)", loc, err)
	}
	if _, err := LoadLocation("Not/AZone"); err == nil {
		t.Fatalf("expected error for unknown zone")
	}
}
