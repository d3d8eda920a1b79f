package service

import (
	"fmt"
	"strings"
	"time"
)

const dateKeyLayout = "2006-01-02"

// Clock supplies the current time. Tests inject a fixed instant.
type Clock func() time.Time

// DateKey formats t as the local calendar day it falls on.
func DateKey(t time.Time) string {
	return t.Format(dateKeyLayout)
}

// ParseDateKey parses a YYYY-MM-DD key at midnight in loc.
func ParseDateKey(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(dateKeyLayout, strings.TrimSpace(value), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", value)
	}
	return t, nil
}

// StartOfWeek returns the most recent Sunday at midnight in t's location.
func StartOfWeek(t time.Time) time.Time {
	day := beginningOfDay(t)
	return day.AddDate(0, 0, -int(t.Weekday()))
}

func beginningOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
