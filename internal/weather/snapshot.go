package weather

import (
	"math"
	"time"
)

// TemperatureSnapshot is the current temperature with today's extremes.
type TemperatureSnapshot struct {
	Temperature float64   `json:"temperature"`
	Trend       *float64  `json:"trend"`
	FeelsLike   float64   `json:"feels_like"`
	Max         float64   `json:"max"`
	MaxTime     TimeOfDay `json:"max_time"`
	Min         float64   `json:"min"`
	MinTime     TimeOfDay `json:"min_time"`
}

// HumiditySnapshot is the current relative humidity with today's extremes.
type HumiditySnapshot struct {
	Percent int64     `json:"perc"`
	Max     int64     `json:"max"`
	MaxTime TimeOfDay `json:"max_time"`
	Min     int64     `json:"min"`
	MinTime TimeOfDay `json:"min_time"`
}

// PressureSnapshot is the current barometric pressure with today's extremes.
type PressureSnapshot struct {
	Pressure float64   `json:"pressure"`
	Trend    *float64  `json:"trend"`
	Max      float64   `json:"max"`
	MaxTime  TimeOfDay `json:"max_time"`
	Min      float64   `json:"min"`
	MinTime  TimeOfDay `json:"min_time"`
}

// WindSnapshot is the latest wind reading.
type WindSnapshot struct {
	Direction        CompassCode `json:"direction_str"`
	DirectionDegrees float64     `json:"direction_deg"`
	Speed            float64     `json:"speed"`
	MaxSpeed         float64     `json:"maxspeed"`
	Name             string      `json:"name"`
}

// RainSnapshot holds rainfall totals. ThisWeek is the sum over every reading
// supplied, whatever window that covers.
type RainSnapshot struct {
	Today     float64 `json:"today"`
	Yesterday float64 `json:"yesterday"`
	ThisWeek  float64 `json:"this_week"`
	Intensity float64 `json:"intensity"`
}

// Dashboard bundles every snapshot for one day.
type Dashboard struct {
	Date        Date                `json:"date"`
	UpdatedAt   time.Time           `json:"updated_at"`
	Temperature TemperatureSnapshot `json:"temperature"`
	Humidity    HumiditySnapshot    `json:"humidity"`
	Pressure    PressureSnapshot    `json:"pressure"`
	Wind        WindSnapshot        `json:"wind"`
	Rain        RainSnapshot        `json:"rain"`
}

// CurrentTemperature summarises temperature readings taken on day.
func CurrentTemperature(readings []Reading, day Date) (TemperatureSnapshot, error) {
	today := OnlyOneDay(readings, day)
	last, err := LastEntry(today)
	if err != nil {
		return TemperatureSnapshot{}, err
	}
	trend, err := Trend(QuantityTemperature, today)
	if err != nil {
		return TemperatureSnapshot{}, err
	}
	ext, err := MaxMinTime(QuantityTemperature, today)
	if err != nil {
		return TemperatureSnapshot{}, err
	}
	return TemperatureSnapshot{
		Temperature: last.Temperature,
		Trend:       trend,
		FeelsLike:   last.TemperatureFeeling,
		Max:         ext.Max,
		MaxTime:     ext.MaxTime,
		Min:         ext.Min,
		MinTime:     ext.MinTime,
	}, nil
}

// CurrentHumidity summarises humidity readings taken on day.
func CurrentHumidity(readings []Reading, day Date) (HumiditySnapshot, error) {
	today := OnlyOneDay(readings, day)
	last, err := LastEntry(today)
	if err != nil {
		return HumiditySnapshot{}, err
	}
	ext, err := MaxMinTime(QuantityHumidity, today)
	if err != nil {
		return HumiditySnapshot{}, err
	}
	return HumiditySnapshot{
		Percent: last.Humidity,
		Max:     int64(math.Round(ext.Max)),
		MaxTime: ext.MaxTime,
		Min:     int64(math.Round(ext.Min)),
		MinTime: ext.MinTime,
	}, nil
}

// CurrentPressure summarises pressure readings taken on day.
func CurrentPressure(readings []Reading, day Date) (PressureSnapshot, error) {
	today := OnlyOneDay(readings, day)
	last, err := LastEntry(today)
	if err != nil {
		return PressureSnapshot{}, err
	}
	trend, err := Trend(QuantityPressure, today)
	if err != nil {
		return PressureSnapshot{}, err
	}
	ext, err := MaxMinTime(QuantityPressure, today)
	if err != nil {
		return PressureSnapshot{}, err
	}
	return PressureSnapshot{
		Pressure: last.Pressure,
		Trend:    trend,
		Max:      ext.Max,
		MaxTime:  ext.MaxTime,
		Min:      ext.Min,
		MinTime:  ext.MinTime,
	}, nil
}

// CurrentWind reports the latest wind reading across the whole collection.
func CurrentWind(readings []Reading) (WindSnapshot, error) {
	last, err := LastEntry(readings)
	if err != nil {
		return WindSnapshot{}, err
	}
	name, err := last.WindDirection.Name()
	if err != nil {
		return WindSnapshot{}, statsErr("wind", err)
	}
	return WindSnapshot{
		Direction:        last.WindDirection,
		DirectionDegrees: last.WindDirectionDegrees,
		Speed:            last.Windspeed,
		MaxSpeed:         last.WindspeedMax,
		Name:             name,
	}, nil
}

// CurrentRain totals rainfall on day, on the day before and across readings.
func CurrentRain(readings []Reading, day Date) (RainSnapshot, error) {
	last, err := LastEntry(readings)
	if err != nil {
		return RainSnapshot{}, err
	}
	today, err := SumOf(QuantityRain, OnlyOneDay(readings, day))
	if err != nil {
		return RainSnapshot{}, err
	}
	yesterday, err := SumOf(QuantityRain, OnlyOneDay(readings, day.AddDays(-1)))
	if err != nil {
		return RainSnapshot{}, err
	}
	total, err := SumOf(QuantityRain, readings)
	if err != nil {
		return RainSnapshot{}, err
	}
	return RainSnapshot{
		Today:     today,
		Yesterday: yesterday,
		ThisWeek:  total,
		Intensity: last.RainIntensity,
	}, nil
}

// BuildDashboard computes every snapshot for day from readings.
func BuildDashboard(readings []Reading, day Date) (Dashboard, error) {
	last, err := LastEntry(readings)
	if err != nil {
		return Dashboard{}, err
	}
	d := Dashboard{Date: day, UpdatedAt: last.Timestamp}
	if d.Temperature, err = CurrentTemperature(readings, day); err != nil {
		return Dashboard{}, err
	}
	if d.Humidity, err = CurrentHumidity(readings, day); err != nil {
		return Dashboard{}, err
	}
	if d.Pressure, err = CurrentPressure(readings, day); err != nil {
		return Dashboard{}, err
	}
	if d.Wind, err = CurrentWind(readings); err != nil {
		return Dashboard{}, err
	}
	if d.Rain, err = CurrentRain(readings, day); err != nil {
		return Dashboard{}, err
	}
	return d, nil
}
