package models

import (
	"fmt"
	"time"
)

// DateKeyLayout is the canonical wire format for calendar days.
const DateKeyLayout = "2006-01-02"

// DateKey is a timezone-independent identifier for a calendar day,
// e.g. "2026-03-14". It is the lookup key for availability sets and
// the date parameter of the availability endpoint.
type DateKey string

// NewDateKey derives the DateKey for the calendar day t falls on.
func NewDateKey(t time.Time) DateKey {
	return DateKey(t.Format(DateKeyLayout))
}

// Time converts the key back to a time.Time at midnight UTC.
func (k DateKey) Time() (time.Time, error) {
	t, err := time.Parse(DateKeyLayout, string(k))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date key %q: %w", k, err)
	}
	return t, nil
}

// Valid reports whether the key parses as a calendar day.
func (k DateKey) Valid() bool {
	_, err := k.Time()
	return err == nil
}

func (k DateKey) String() string {
	return string(k)
}

// Midnight truncates t to the start of its calendar day, keeping the location.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
