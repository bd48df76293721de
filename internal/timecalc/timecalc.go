// Package timecalc holds the pure time arithmetic of HourKeep: clock-in/out
// duration, billable-hour clamping, and the weekday math behind overtime.
package timecalc

import (
	"fmt"
	"time"
)

const (
	// DayFormat is the calendar-day representation used throughout the
	// service. Entries carry a day, not a point in time.
	DayFormat = "2006-01-02"

	clockFormat = "15:04"

	// HoursPerWorkday is the fixed expectation per weekday used for
	// overtime. Not configurable per user or region.
	HoursPerWorkday = 8.0

	// maxShiftHours bounds a single overnight shift. A midnight wrap that
	// would exceed this is treated as a clock-entry mistake and yields 0.
	maxShiftHours = 16.0
)

// ParseDay parses a YYYY-MM-DD calendar day.
func ParseDay(s string) (time.Time, error) {
	t, err := time.Parse(DayFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid day %q: %w", s, err)
	}
	return t, nil
}

// HoursBetween computes worked hours from "HH:MM" clock-in/out strings minus
// a break. Both times are treated as occurring on an arbitrary fixed date;
// if clockOut is earlier than clockIn the shift is assumed to cross midnight
// and a day is added before subtracting, unless the wrapped shift would be
// implausibly long (see maxShiftHours). The result is never negative.
func HoursBetween(clockIn, clockOut string, breakMinutes int) (float64, error) {
	in, err := time.Parse(clockFormat, clockIn)
	if err != nil {
		return 0, fmt.Errorf("invalid clock-in %q: %w", clockIn, err)
	}
	out, err := time.Parse(clockFormat, clockOut)
	if err != nil {
		return 0, fmt.Errorf("invalid clock-out %q: %w", clockOut, err)
	}

	if out.Before(in) {
		out = out.Add(24 * time.Hour)
		if out.Sub(in).Hours() > maxShiftHours {
			return 0, nil
		}
	}

	hours := out.Sub(in).Hours() - float64(breakMinutes)/60
	if hours < 0 {
		return 0, nil
	}
	return hours, nil
}

// ClampBillable caps billable hours at whichever of actual/available is
// smaller. The cap is applied whenever either side changes, so the final
// value is order-independent: billable == min(actual, available).
func ClampBillable(actual, available float64) float64 {
	billable := actual
	if available < billable {
		billable = available
	}
	if billable < 0 {
		return 0
	}
	return billable
}

// Weekdays counts Monday–Friday calendar days in [from, to], inclusive.
func Weekdays(from, to time.Time) int {
	from = startOfDay(from)
	to = startOfDay(to)
	if to.Before(from) {
		return 0
	}
	n := 0
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		wd := d.Weekday()
		if wd != time.Saturday && wd != time.Sunday {
			n++
		}
	}
	return n
}

// ExpectedHours is the fixed-policy capacity for a period: weekdays x 8.
func ExpectedHours(from, to time.Time) float64 {
	return float64(Weekdays(from, to)) * HoursPerWorkday
}

// Overtime is the excess of actual hours over the period's expected hours,
// floored at zero.
func Overtime(actualHours float64, from, to time.Time) float64 {
	ot := actualHours - ExpectedHours(from, to)
	if ot < 0 {
		return 0
	}
	return ot
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
