// Package dates holds the calendar arithmetic used by auxiliary product
// selection and scheduling: leap-year aware day-of-year math and the
// processing-lag boundary for the current year.
package dates

import "time"

// AcquisitionDate is an immutable calendar date identifying one day of
// auxiliary data.
type AcquisitionDate struct {
	year  int
	month time.Month
	day   int
}

// New builds an AcquisitionDate from calendar components.
func New(year int, month time.Month, day int) AcquisitionDate {
	return AcquisitionDate{year: year, month: month, day: day}
}

// FromTime builds an AcquisitionDate from a time value, discarding the clock.
func FromTime(t time.Time) AcquisitionDate {
	return AcquisitionDate{year: t.Year(), month: t.Month(), day: t.Day()}
}

// FromDayOfYear builds an AcquisitionDate from a (year, doy) pair.
func FromDayOfYear(year, doy int) AcquisitionDate {
	t := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, doy-1)
	return FromTime(t)
}

func (d AcquisitionDate) Year() int { return d.year }

func (d AcquisitionDate) Month() time.Month { return d.month }

func (d AcquisitionDate) Day() int { return d.day }

// DayOfYear returns the 1-based ordinal day within the calendar year.
func (d AcquisitionDate) DayOfYear() int {
	return d.Time().YearDay()
}

// Time returns the date at midnight UTC.
func (d AcquisitionDate) Time() time.Time {
	return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, time.UTC)
}

// Before reports whether d falls strictly before other.
func (d AcquisitionDate) Before(other time.Time) bool {
	return d.Time().Before(time.Date(other.Year(), other.Month(), other.Day(), 0, 0, 0, 0, time.UTC))
}

// String renders the date as YYYY-MM-DD.
func (d AcquisitionDate) String() string {
	return d.Time().Format("2006-01-02")
}

// IsLeapYear reports whether year is a leap year under the Gregorian rule.
func IsLeapYear(year int) bool {
	if year%4 != 0 {
		return false
	}
	if year%100 != 0 {
		return true
	}
	return year%400 == 0
}

// DaysInYear returns 366 for leap years and 365 otherwise.
func DaysInYear(year int) int {
	if IsLeapYear(year) {
		return 366
	}
	return 365
}

// LastProcessableDay computes the final day of year eligible for processing.
// For the current calendar year the upstream publication lag is subtracted
// from today's DOY; ok is false when the lagged day falls before the start of
// the year (the year is not ready yet). Past years are complete.
func LastProcessableDay(year int, now time.Time, lagDays int) (doy int, ok bool) {
	if year == now.Year() {
		doy = now.YearDay() - lagDays
		return doy, doy > 0
	}
	return DaysInYear(year), true
}
