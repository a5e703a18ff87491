package weather

import (
	"testing"
)

func TestPartitionByDay(t *testing.T) {
	readings := []Reading{
		{Timestamp: at(2022, 3, 12, 9, 0), Measurements: Measurements{Temperature: 1}},
		{Timestamp: at(2022, 3, 11, 23, 45), Measurements: Measurements{Temperature: 2}},
		{Timestamp: at(2022, 3, 12, 8, 0), Measurements: Measurements{Temperature: 3}},
	}
	parts := PartitionByDay(readings)
	if len(parts) != 2 {
		t.Fatalf("parts = %d, want 2", len(parts))
	}
	if parts[0].Date != march11 || len(parts[0].Readings) != 1 {
		t.Errorf("first part = %+v", parts[0])
	}
	// Within a day the input order is preserved.
	if parts[1].Date != march12 || parts[1].Readings[0].Temperature != 1 || parts[1].Readings[1].Temperature != 3 {
		t.Errorf("second part = %+v", parts[1])
	}
}

func TestPartitionByDayFixture(t *testing.T) {
	total := 0
	for _, p := range PartitionByDay(fixtureReadings(t)) {
		for _, r := range p.Readings {
			if DateOf(r.Timestamp) != p.Date {
				t.Fatalf("reading %v in partition %v", r.Timestamp, p.Date)
			}
		}
		total += len(p.Readings)
	}
	if total != 155 {
		t.Errorf("total = %d, want 155", total)
	}
}
