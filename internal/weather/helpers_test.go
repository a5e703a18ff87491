package weather

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"
)

const fixturePath = "testdata/downld02.txt"

var (
	march11 = Date{Year: 2022, Month: time.March, Day: 11}
	march12 = Date{Year: 2022, Month: time.March, Day: 12}
)

func readFixture(t *testing.T) []byte {
	t.Helper()
	raw, err := os.ReadFile(filepath.FromSlash(fixturePath))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	return raw
}

func fixtureReadings(t *testing.T) []Reading {
	t.Helper()
	rows, err := Parse(readFixture(t))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	readings, err := Normalize(rows)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	return readings
}

func at(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
