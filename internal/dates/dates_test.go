package dates

import (
	"testing"
	"time"
)

func TestIsLeapYear(t *testing.T) {
	cases := []struct {
		year int
		want bool
	}{
		{2000, true},
		{1900, false},
		{2021, false},
		{2024, true},
		{2100, false},
	}
	for _, tc := range cases {
		if got := IsLeapYear(tc.year); got != tc.want {
			t.Errorf("IsLeapYear(%d) = %v, want %v", tc.year, got, tc.want)
		}
	}
}

func TestDaysInYear(t *testing.T) {
	if got := DaysInYear(2000); got != 366 {
		t.Fatalf("DaysInYear(2000) = %d", got)
	}
	if got := DaysInYear(1900); got != 365 {
		t.Fatalf("DaysInYear(1900) = %d", got)
	}
	if got := DaysInYear(2021); got != 365 {
		t.Fatalf("DaysInYear(2021) = %d", got)
	}
}

func TestDayOfYear(t *testing.T) {
	if got := New(2018, time.August, 16).DayOfYear(); got != 228 {
		t.Fatalf("2018-08-16 doy = %d, want 228", got)
	}
	if got := New(2024, time.December, 31).DayOfYear(); got != 366 {
		t.Fatalf("2024-12-31 doy = %d, want 366", got)
	}
}

func TestFromDayOfYearRoundTrip(t *testing.T) {
	d := FromDayOfYear(2018, 228)
	if d.Year() != 2018 || d.Month() != time.August || d.Day() != 16 {
		t.Fatalf("FromDayOfYear(2018, 228) = %s", d)
	}
	if d.DayOfYear() != 228 {
		t.Fatalf("round trip doy = %d", d.DayOfYear())
	}
}

func TestLastProcessableDay(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC) // doy 69

	doy, ok := LastProcessableDay(2026, now, 2)
	if !ok || doy != 67 {
		t.Fatalf("current year: got (%d, %v), want (67, true)", doy, ok)
	}

	doy, ok = LastProcessableDay(2024, now, 2)
	if !ok || doy != 366 {
		t.Fatalf("past leap year: got (%d, %v), want (366, true)", doy, ok)
	}

	earlyJan := time.Date(2026, time.January, 1, 6, 0, 0, 0, time.UTC)
	if _, ok := LastProcessableDay(2026, earlyJan, 2); ok {
		t.Fatal("expected year-not-ready when lag crosses into last year")
	}
}

func TestBefore(t *testing.T) {
	d := New(2023, time.October, 1)
	cutover := time.Date(2023, time.October, 1, 0, 0, 0, 0, time.UTC)
	if d.Before(cutover) {
		t.Fatal("date equal to cutover must not be before it")
	}
	if !New(2023, time.September, 30).Before(cutover) {
		t.Fatal("prior day must be before cutover")
	}
}
