package weather

import (
	"math"
	"time"
)

// Extremum is the maximum and minimum of a quantity with the time of day
// each was first seen.
type Extremum struct {
	Max     float64   `json:"max"`
	MaxTime TimeOfDay `json:"max_time"`
	Min     float64   `json:"min"`
	MinTime TimeOfDay `json:"min_time"`
}

// OnlyOneDay returns the readings whose timestamp falls on day, in their
// input order. The result may be empty.
func OnlyOneDay(readings []Reading, day Date) []Reading {
	out := make([]Reading, 0)
	for _, r := range readings {
		if DateOf(r.Timestamp) == day {
			out = append(out, r)
		}
	}
	return out
}

// LastEntry returns the reading with the greatest timestamp. When several
// share it, the first in collection order wins.
func LastEntry(readings []Reading) (Reading, error) {
	if len(readings) == 0 {
		return Reading{}, statsErr("latest entry", ErrNoReadings)
	}
	best := 0
	for i := 1; i < len(readings); i++ {
		if readings[i].Timestamp.After(readings[best].Timestamp) {
			best = i
		}
	}
	return readings[best], nil
}

// MaxMinTime returns the extremes of q across readings. Ties resolve to the
// first reading in collection order. NaN values are ignored.
func MaxMinTime(q Quantity, readings []Reading) (Extremum, error) {
	if len(readings) == 0 {
		return Extremum{}, statsErr("extremum", ErrNoReadings)
	}

	var (
		ext   Extremum
		found bool
	)
	for _, r := range readings {
		v, err := r.Value(q)
		if err != nil {
			return Extremum{}, statsErr("extremum", err)
		}
		if math.IsNaN(v) {
			continue
		}
		clock := ClockOf(r.Timestamp)
		if !found {
			ext = Extremum{Max: v, MaxTime: clock, Min: v, MinTime: clock}
			found = true
			continue
		}
		if v > ext.Max {
			ext.Max, ext.MaxTime = v, clock
		}
		if v < ext.Min {
			ext.Min, ext.MinTime = v, clock
		}
	}
	if !found {
		return Extremum{}, statsErr("extremum", ErrNoReadings)
	}
	return ext, nil
}

// Trend returns the latest value of q minus its value exactly one hour
// earlier. A nil result means no reading sits at that instant.
func Trend(q Quantity, readings []Reading) (*float64, error) {
	last, err := LastEntry(readings)
	if err != nil {
		return nil, statsErr("trend", ErrNoReadings)
	}
	current, err := last.Value(q)
	if err != nil {
		return nil, statsErr("trend", err)
	}

	target := last.Timestamp.Add(-time.Hour)
	for _, r := range readings {
		if !r.Timestamp.Equal(target) {
			continue
		}
		prev, err := r.Value(q)
		if err != nil {
			return nil, statsErr("trend", err)
		}
		diff := current - prev
		return &diff, nil
	}
	return nil, nil
}

// SumOf adds up q across readings, counting NaN as zero.
func SumOf(q Quantity, readings []Reading) (float64, error) {
	var total float64
	for _, r := range readings {
		v, err := r.Value(q)
		if err != nil {
			return 0, statsErr("sum", err)
		}
		if math.IsNaN(v) {
			continue
		}
		total += v
	}
	return total, nil
}
