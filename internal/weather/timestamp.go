package weather

import (
	"fmt"
	"time"
	_ "time/tzdata"
)

const (
	// TimestampLayout matches a day-first date and a 24-hour clock joined by a space.
	TimestampLayout = "2/1/2006 15:04"
	// DefaultTimezone is where the station lives.
	DefaultTimezone = "Europe/Madrid"
)

// ParseTimestamp merges a D/M/YYYY date and an HH:MM time into a UTC-labelled instant.
func ParseTimestamp(date, clock string) (time.Time, error) {
	return time.ParseInLocation(TimestampLayout, date+" "+clock, time.UTC)
}

// Normalize returns new readings whose date and time fields are merged into a
// single timestamp. The input is left untouched. One bad pair fails the batch.
func Normalize(raw []RawReading) ([]Reading, error) {
	out := make([]Reading, len(raw))
	for i, r := range raw {
		ts, err := ParseTimestamp(r.Date, r.Time)
		if err != nil {
			return nil, &RowError{
				Stage:  StageNormalize,
				Row:    i + 1,
				Column: ColTimestamp,
				Value:  r.Date + " " + r.Time,
				Err:    fmt.Errorf("%w: %v", ErrInvalidTimestamp, err),
			}
		}
		out[i] = Reading{Measurements: r.Measurements, Timestamp: ts}
	}
	return out, nil
}

// Localize re-expresses UTC timestamps in the named IANA zone. An empty name
// selects DefaultTimezone.
func Localize(readings []Reading, tz string) ([]Reading, error) {
	if tz == "" {
		tz = DefaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", tz, err)
	}
	return LocalizeIn(readings, loc), nil
}

// LocalizeIn is Localize with an already loaded location.
func LocalizeIn(readings []Reading, loc *time.Location) []Reading {
	out := make([]Reading, len(readings))
	for i, r := range readings {
		r.Timestamp = r.Timestamp.UTC().In(loc)
		out[i] = r
	}
	return out
}
