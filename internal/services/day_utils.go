package services

import (
	"strings"
	"time"
)

const DayLayout = "2006-01-02"

// LocalDay returns the calendar day of now in location, as UTC midnight.
// Entries store days in this form so they compare the same across zones.
func LocalDay(now time.Time, location *time.Location) time.Time {
	if location == nil {
		location = time.UTC
	}
	local := now.In(location)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

func ParseDay(raw string) (time.Time, error) {
	parsed, err := time.Parse(DayLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, err
	}
	return parsed.UTC(), nil
}
