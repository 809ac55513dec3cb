package features

import (
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestSalesWindowLag(t *testing.T) {
	w := NewSalesWindow()
	w.Append(day(2024, 10, 1), 5)
	w.Append(day(2024, 10, 8), 7)

	v, ok := w.Lag(day(2024, 10, 8), 7)
	if !ok || v != 5 {
		t.Fatalf("lag 7 = %v (ok=%v), want 5", v, ok)
	}
	if _, ok := w.Lag(day(2024, 10, 8), 14); ok {
		t.Fatalf("expected missing lag 14")
	}
}

func TestSalesWindowStatsFullWindowRequired(t *testing.T) {
	w := NewSalesWindow()
	start := day(2024, 10, 1)
	for i := 0; i < 6; i++ {
		w.Append(start.AddDate(0, 0, i), 10)
	}
	// 7-day window over 2024-10-01..07 is missing 2024-10-07
	_, _, from, to, ok := w.Stats(day(2024, 10, 8), 7)
	if ok {
		t.Fatalf("expected incomplete window")
	}
	want := day(2024, 10, 7)
	if !from.Equal(want) || !to.Equal(want) {
		t.Fatalf("missing range %v..%v, want %v", from, to, want)
	}
}

func TestSalesWindowStats(t *testing.T) {
	w := NewSalesWindow()
	start := day(2024, 10, 1)
	vals := []float64{1, 2, 3, 4, 5, 6, 7}
	for i, v := range vals {
		w.Append(start.AddDate(0, 0, i), v)
	}
	mean, std, _, _, ok := w.Stats(start.AddDate(0, 0, 7), 7)
	if !ok {
		t.Fatalf("expected complete window")
	}
	if mean != 4 {
		t.Fatalf("mean = %v, want 4", mean)
	}
	// sample std of 1..7
	if std < 2.16 || std > 2.17 {
		t.Fatalf("std = %v, want ~2.1602", std)
	}
}

func TestSalesWindowStatsExcludesTargetDay(t *testing.T) {
	w := NewSalesWindow()
	start := day(2024, 10, 1)
	for i := 0; i < 7; i++ {
		w.Append(start.AddDate(0, 0, i), 10)
	}
	target := start.AddDate(0, 0, 7)
	w.Append(target, 1e9)

	mean, _, _, _, ok := w.Stats(target, 7)
	if !ok {
		t.Fatalf("expected complete window")
	}
	if mean != 10 {
		t.Fatalf("mean = %v, target day leaked into window", mean)
	}
}

func TestTrailingMean(t *testing.T) {
	w := NewSalesWindow()
	start := day(2024, 10, 1)
	for i := 0; i < 10; i++ {
		w.Append(start.AddDate(0, 0, i), float64(i))
	}
	// last 5 days hold 5..9
	got := w.TrailingMean(5)
	if got != 7 {
		t.Fatalf("trailing mean = %v, want 7", got)
	}
	if NewSalesWindow().TrailingMean(5) != 0 {
		t.Fatalf("empty window trailing mean should be 0")
	}
}
