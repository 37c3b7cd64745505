package event

import (
	"errors"
	"strings"
	"time"
)

// LocalInputLayout is the value format of an HTML datetime-local input.
const LocalInputLayout = "2006-01-02T15:04"

// ErrInvalidEventDate is returned when a wall-clock input cannot be parsed.
var ErrInvalidEventDate = errors.New("event date must look like 2026-06-21T20:00")

// ParseVenueTime interprets a datetime-local value as wall-clock time in the
// venue zone and returns it in UTC.
// PRE: loc is non-nil
// POST: returns a UTC time, or ErrInvalidEventDate
func ParseVenueTime(raw string, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, ErrMissingDate
	}
	// Browsers may include seconds.
	layout := LocalInputLayout
	if len(raw) == len("2006-01-02T15:04:05") {
		layout = "2006-01-02T15:04:05"
	}
	t, err := time.ParseInLocation(layout, raw, loc)
	if err != nil {
		return time.Time{}, ErrInvalidEventDate
	}
	return t.UTC(), nil
}

// FormatVenueTime renders a stored time as a datetime-local value in the venue zone.
// The zero time renders as "".
func FormatVenueTime(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	return t.In(loc).Format(LocalInputLayout)
}
