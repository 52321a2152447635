package processing

import (
	"fmt"
	"time"
)

// DateLayout is the wire format for all record dates
const DateLayout = "2006-01-02"

// WeekConvention selects how a calendar date maps to its 7-day week.
// Core statistics use ISOWeek; WarWeek exists for the Friday-anchored
// chart filtering and must not leak into the aggregation path.
type WeekConvention int

const (
	// ISOWeek starts weeks on Monday
	ISOWeek WeekConvention = iota
	// WarWeek starts weeks on Friday, anchored at the first Friday of the year
	WarWeek
)

// ParseDate parses a YYYY-MM-DD string into a UTC time
func ParseDate(date string) (time.Time, error) {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", date, err)
	}
	return t, nil
}

// FormatDate renders a time as YYYY-MM-DD
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// AddDays shifts a date string by n calendar days
func AddDays(date string, n int) (string, error) {
	t, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	return FormatDate(t.AddDate(0, 0, n)), nil
}

// WeekStart returns the first day of the week containing date under the
// given convention.
func (c WeekConvention) WeekStart(date string) (string, error) {
	t, err := ParseDate(date)
	if err != nil {
		return "", err
	}

	switch c {
	case WarWeek:
		// Walk back to the most recent Friday
		offset := (int(t.Weekday()) - int(time.Friday) + 7) % 7
		return FormatDate(t.AddDate(0, 0, -offset)), nil
	default:
		// Monday start; Sunday belongs to the preceding week
		offset := int(t.Weekday()) - 1
		if t.Weekday() == time.Sunday {
			offset = 6
		}
		return FormatDate(t.AddDate(0, 0, -offset)), nil
	}
}

// WeekEnd returns the last (inclusive) day of the week containing date
func (c WeekConvention) WeekEnd(date string) (string, error) {
	start, err := c.WeekStart(date)
	if err != nil {
		return "", err
	}
	return AddDays(start, 6)
}

// WarWeekNumber returns the 1-based war week for a date. Week 1 begins on
// the first Friday on or after January 1st of the date's year; dates before
// that anchor still count as week 1.
func WarWeekNumber(date string) (int, error) {
	t, err := ParseDate(date)
	if err != nil {
		return 0, err
	}

	anchor := firstFriday(t.Year())
	daysSince := int(t.Sub(anchor).Hours() / 24)

	week := (daysSince+1+6) / 7 // ceil((daysSince+1)/7)
	if week < 1 {
		week = 1
	}
	return week, nil
}

func firstFriday(year int) time.Time {
	t := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	offset := (int(time.Friday) - int(t.Weekday()) + 7) % 7
	return t.AddDate(0, 0, offset)
}
