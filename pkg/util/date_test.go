package util

import (
	"testing"
	"time"
)

func TestParseTimeDate(t *testing.T) {
	got, ok := ParseTime("2024-10-10")
	if !ok {
		t.Fatalf("expected ok")
	}
	want := time.Date(2024, 10, 10, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("unexpected time %v", got)
	}
}

func TestParseTimeRFC3339(t *testing.T) {
	s := "2024-10-10T10:10:10Z"
	got, ok := ParseTime(s)
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.UTC().Format(time.RFC3339) != s {
		t.Fatalf("unexpected time %v", got)
	}
}

func TestParseTimeDefault(t *testing.T) {
	def := time.Date(2024, 10, 10, 0, 0, 0, 0, time.UTC)
	got := ParseTimeDefault("", def)
	if !got.Equal(def) {
		t.Fatalf("expected default")
	}
}

func TestDaysBetween(t *testing.T) {
	from := time.Date(2024, 1, 1, 15, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 3, 2, 0, 0, 0, time.UTC)
	days := DaysBetween(from, to)
	if len(days) != 3 {
		t.Fatalf("expected 3 days, got %d", len(days))
	}
	if !days[0].Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected first day %v", days[0])
	}
	if DaysBetween(to, from) != nil {
		t.Fatalf("expected nil for inverted range")
	}
}

func TestDOW(t *testing.T) {
	// 2024-10-07 is a Monday
	if got := DOW(time.Date(2024, 10, 7, 0, 0, 0, 0, time.UTC)); got != 0 {
		t.Fatalf("monday should be 0, got %d", got)
	}
	// 2024-10-12 is a Saturday
	if got := DOW(time.Date(2024, 10, 12, 0, 0, 0, 0, time.UTC)); got != 5 {
		t.Fatalf("saturday should be 5, got %d", got)
	}
}
