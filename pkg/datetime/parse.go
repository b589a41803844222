// Package datetime provides date and time utility functions.
package datetime

import (
	"fmt"
	"strings"
	"time"

	"github.com/iwvelando/vehicle-loan/pkg/constants"
)

const (
	// DateLayout is the format expected in config files and is also the output
	// date format.
	DateLayout = constants.DateLayout

	// MonthLayout is the accepted year-month shorthand.
	MonthLayout = constants.MonthLayout
)

// MustParseTime parses a date string using the given layout and panics on error.
// This is intended for use in tests where the date string is known to be valid.
func MustParseTime(layout, dateStr string) time.Time {
	t, err := time.Parse(layout, dateStr)
	if err != nil {
		panic(err)
	}
	return t
}

// ParseDate parses either a full date (2006-01-02) or a year-month (2006-01),
// the latter resolving to the first day of the month.
func ParseDate(value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if t, err := time.Parse(DateLayout, trimmed); err == nil {
		return t, nil
	}
	t, err := time.Parse(MonthLayout, trimmed)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected %s or %s", value, DateLayout, MonthLayout)
	}
	return t, nil
}

// AddMonths returns t moved by the given number of calendar months. When the
// target month is shorter than t's day of month the result is clamped to the
// last day of the target month (Jan 31 + 1 month = Feb 28/29).
func AddMonths(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	hour, minute, sec := t.Clock()

	target := time.Date(year, month+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	if last := daysIn(target.Year(), target.Month(), t.Location()); day > last {
		day = last
	}
	return time.Date(target.Year(), target.Month(), day, hour, minute, sec, t.Nanosecond(), t.Location())
}

// MonthsBetween returns the signed number of whole calendar months from one
// time to another. A month is only counted once its boundary has been
// reached: Jan 15 to Feb 14 is 0 months while Jan 15 to Feb 15 is 1.
func MonthsBetween(from, to time.Time) int {
	if to.Before(from) {
		return -MonthsBetween(to, from)
	}

	months := (to.Year()-from.Year())*constants.MonthsPerYear + int(to.Month()) - int(from.Month())
	for months > 0 && AddMonths(from, months).After(to) {
		months--
	}
	return months
}

// MonthsElapsed returns the whole months between start and now, floored at
// zero so that a start date in the future yields 0.
func MonthsElapsed(start, now time.Time) int {
	if months := MonthsBetween(start, now); months > 0 {
		return months
	}
	return 0
}

// MonthIndexOf maps an event date onto a 0-based schedule month index
// relative to start. Events before start map to index 0; there is no upper
// clamp.
func MonthIndexOf(start, event time.Time) int {
	return MonthsElapsed(start, event)
}

func daysIn(year int, month time.Month, loc *time.Location) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}
