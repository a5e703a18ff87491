package weather

import (
	"math"
	"slices"
	"time"
)

// Point is one sample of a time series.
type Point struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
}

// DailyAggregate summarises one quantity over one calendar day.
type DailyAggregate struct {
	Date  Date    `json:"date"`
	Max   float64 `json:"max"`
	Mean  float64 `json:"mean"`
	Min   float64 `json:"min"`
	Count int     `json:"count"`
}

// DailyTotal is the sum of one quantity over one calendar day.
type DailyTotal struct {
	Date  Date    `json:"date"`
	Total float64 `json:"total"`
}

// Series returns q over time, sorted by timestamp. NaN samples are dropped.
func Series(q Quantity, readings []Reading) ([]Point, error) {
	out := make([]Point, 0, len(readings))
	for _, r := range readings {
		v, err := r.Value(q)
		if err != nil {
			return nil, statsErr("series", err)
		}
		if math.IsNaN(v) {
			continue
		}
		out = append(out, Point{Timestamp: r.Timestamp, Value: v})
	}
	slices.SortStableFunc(out, func(a, b Point) int {
		return a.Timestamp.Compare(b.Timestamp)
	})
	return out, nil
}

// DailyAggregates returns the max, mean and min of q for every day present in
// readings, oldest first. Days with only NaN samples are omitted.
func DailyAggregates(q Quantity, readings []Reading) ([]DailyAggregate, error) {
	out := make([]DailyAggregate, 0)
	for _, part := range PartitionByDay(readings) {
		var (
			agg DailyAggregate
			sum float64
		)
		for _, r := range part.Readings {
			v, err := r.Value(q)
			if err != nil {
				return nil, statsErr("daily", err)
			}
			if math.IsNaN(v) {
				continue
			}
			if agg.Count == 0 || v > agg.Max {
				agg.Max = v
			}
			if agg.Count == 0 || v < agg.Min {
				agg.Min = v
			}
			sum += v
			agg.Count++
		}
		if agg.Count == 0 {
			continue
		}
		agg.Date = part.Date
		agg.Mean = sum / float64(agg.Count)
		out = append(out, agg)
	}
	return out, nil
}

// HourlyRain buckets rainfall into whole hours, labelled by the start of each
// hour. Hours without readings between the first and last bucket are zero.
func HourlyRain(readings []Reading) []Point {
	if len(readings) == 0 {
		return []Point{}
	}
	totals := make(map[int64]float64)
	var first, last time.Time
	for i, r := range readings {
		h := hourStart(r.Timestamp)
		if i == 0 || h.Before(first) {
			first = h
		}
		if i == 0 || h.After(last) {
			last = h
		}
		if !math.IsNaN(r.Rain) {
			totals[h.Unix()] += r.Rain
		}
	}

	var out []Point
	for h := first; !h.After(last); h = h.Add(time.Hour) {
		out = append(out, Point{Timestamp: h, Value: totals[h.Unix()]})
	}
	return out
}

// DailyRain totals rainfall per calendar day, oldest first.
func DailyRain(readings []Reading) []DailyTotal {
	parts := PartitionByDay(readings)
	out := make([]DailyTotal, 0, len(parts))
	for _, part := range parts {
		total, _ := SumOf(QuantityRain, part.Readings)
		out = append(out, DailyTotal{Date: part.Date, Total: total})
	}
	return out
}

func hourStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, t.Location())
}
