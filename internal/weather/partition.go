package weather

import "slices"

// DayPartition is the slice of readings that fall on one calendar day.
type DayPartition struct {
	Date     Date      `json:"date"`
	Readings []Reading `json:"readings"`
}

// PartitionByDay groups readings by calendar day, oldest day first. Within a
// day the input order is kept.
func PartitionByDay(readings []Reading) []DayPartition {
	index := make(map[Date]int)
	var parts []DayPartition
	for _, r := range readings {
		d := DateOf(r.Timestamp)
		i, ok := index[d]
		if !ok {
			i = len(parts)
			index[d] = i
			parts = append(parts, DayPartition{Date: d})
		}
		parts[i].Readings = append(parts[i].Readings, r)
	}
	slices.SortStableFunc(parts, func(a, b DayPartition) int {
		switch {
		case a.Date.Before(b.Date):
			return -1
		case b.Date.Before(a.Date):
			return 1
		}
		return 0
	})
	return parts
}
