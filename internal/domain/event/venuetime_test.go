package event

import (
	"errors"
	"testing"
	"time"
	_ "time/tzdata"
)

func oslo(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Oslo")
	if err != nil {
		t.Fatalf("LoadLocation: %v", err)
	}
	return loc
}

func TestParseVenueTime_ConvertsToUTC(t *testing.T) {
	loc := oslo(t)
	tests := []struct {
		raw  string
		want time.Time
	}{
		{"2026-06-21T20:00", time.Date(2026, 6, 21, 18, 0, 0, 0, time.UTC)},     // CEST, +02:00
		{"2026-01-10T19:30", time.Date(2026, 1, 10, 18, 30, 0, 0, time.UTC)},    // CET, +01:00
		{"2026-01-10T19:30:00", time.Date(2026, 1, 10, 18, 30, 0, 0, time.UTC)}, // seconds
	}
	for _, tt := range tests {
		got, err := ParseVenueTime(tt.raw, loc)
		if err != nil {
			t.Fatalf("ParseVenueTime(%q): %v", tt.raw, err)
		}
		if !got.Equal(tt.want) || got.Location() != time.UTC {
			t.Errorf("ParseVenueTime(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestParseVenueTime_Errors(t *testing.T) {
	loc := oslo(t)
	if _, err := ParseVenueTime("  ", loc); !errors.Is(err, ErrMissingDate) {
		t.Errorf("blank: got %v, want ErrMissingDate", err)
	}
	if _, err := ParseVenueTime("21.06.2026 20:00", loc); !errors.Is(err, ErrInvalidEventDate) {
		t.Errorf("bad layout: got %v, want ErrInvalidEventDate", err)
	}
}

func TestVenueTime_RoundTrip(t *testing.T) {
	loc := oslo(t)
	for _, raw := range []string{"2026-03-29T01:30", "2026-06-21T20:00", "2026-10-25T23:59", "2026-12-31T00:00"} {
		utc, err := ParseVenueTime(raw, loc)
		if err != nil {
			t.Fatalf("ParseVenueTime(%q): %v", raw, err)
		}
		if got := FormatVenueTime(utc, loc); got != raw {
			t.Errorf("round trip %q -> %v -> %q", raw, utc, got)
		}
	}
	if FormatVenueTime(time.Time{}, loc) != "" {
		t.Error("zero time should format as empty")
	}
}
