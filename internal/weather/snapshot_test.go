package weather

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"
)

func TestCurrentSnapshotsFromFixture(t *testing.T) {
	readings := fixtureReadings(t)

	temp, err := CurrentTemperature(readings, march12)
	if err != nil {
		t.Fatalf("CurrentTemperature: %v", err)
	}
	if !approx(temp.Temperature, 10.4) || !approx(temp.FeelsLike, 10.4) {
		t.Errorf("temperature = %+v", temp)
	}
	if temp.Trend == nil || math.Abs(*temp.Trend+1.1) > 1e-9 {
		t.Errorf("trend = %v", temp.Trend)
	}

	hum, err := CurrentHumidity(readings, march12)
	if err != nil {
		t.Fatalf("CurrentHumidity: %v", err)
	}
	want := HumiditySnapshot{Percent: 82, Max: 98, MaxTime: TimeOfDay{1, 30}, Min: 76, MinTime: TimeOfDay{14, 15}}
	if hum != want {
		t.Errorf("humidity = %+v, want %+v", hum, want)
	}

	pres, err := CurrentPressure(readings, march12)
	if err != nil {
		t.Fatalf("CurrentPressure: %v", err)
	}
	if !approx(pres.Pressure, 1012.0) || !approx(pres.Max, 1013.6) || pres.MaxTime != (TimeOfDay{0, 30}) ||
		!approx(pres.Min, 1011.7) || pres.MinTime != (TimeOfDay{11, 30}) {
		t.Errorf("pressure = %+v", pres)
	}

	wind, err := CurrentWind(readings)
	if err != nil {
		t.Fatalf("CurrentWind: %v", err)
	}
	if wind != (WindSnapshot{Direction: CompassNO, DirectionDegrees: 315, Speed: 0, MaxSpeed: 3.2, Name: "Mestral"}) {
		t.Errorf("wind = %+v", wind)
	}

	rain, err := CurrentRain(readings, march12)
	if err != nil {
		t.Fatalf("CurrentRain: %v", err)
	}
	if !approx(rain.Today, 27.6) || !approx(rain.Yesterday, 3.2) || !approx(rain.ThisWeek, 30.8) || rain.Intensity != 0 {
		t.Errorf("rain = %+v", rain)
	}
}

func TestCurrentRainWindow(t *testing.T) {
	day := Date{Year: 2022, Month: time.March, Day: 12}
	readings := []Reading{
		// Three days back: outside today and yesterday, inside the window.
		{Timestamp: at(2022, 3, 9, 10, 0), Measurements: Measurements{Rain: 6.2}},
		{Timestamp: at(2022, 3, 11, 8, 0), Measurements: Measurements{Rain: 1.2}},
		{Timestamp: at(2022, 3, 11, 9, 0), Measurements: Measurements{Rain: math.NaN()}},
		{Timestamp: at(2022, 3, 11, 10, 0), Measurements: Measurements{Rain: 2.0}},
		{Timestamp: at(2022, 3, 12, 1, 0), Measurements: Measurements{Rain: 20.0}},
		{Timestamp: at(2022, 3, 12, 2, 0), Measurements: Measurements{Rain: math.NaN()}},
		{Timestamp: at(2022, 3, 12, 3, 0), Measurements: Measurements{Rain: 7.6, RainIntensity: 4.8}},
	}

	rain, err := CurrentRain(readings, day)
	if err != nil {
		t.Fatalf("CurrentRain: %v", err)
	}
	if !approx(rain.Today, 27.6) || !approx(rain.Yesterday, 3.2) || !approx(rain.ThisWeek, 37.0) {
		t.Errorf("rain = %+v, want 27.6/3.2/37.0", rain)
	}
	if rain.Intensity != 4.8 {
		t.Errorf("intensity = %v, want 4.8", rain.Intensity)
	}
}

func TestCurrentWindUnknownDirection(t *testing.T) {
	readings := []Reading{{Timestamp: at(2022, 3, 12, 1, 0), Measurements: Measurements{WindDirection: "W"}}}
	if _, err := CurrentWind(readings); !errors.Is(err, ErrUnknownDirection) {
		t.Errorf("err = %v, want ErrUnknownDirection", err)
	}
}

func TestSnapshotsOnEmptyDay(t *testing.T) {
	readings := fixtureReadings(t)
	empty := Date{Year: 2022, Month: time.March, Day: 1}

	if _, err := CurrentTemperature(readings, empty); !errors.Is(err, ErrNoReadings) {
		t.Errorf("temperature err = %v", err)
	}
	if _, err := CurrentHumidity(readings, empty); !errors.Is(err, ErrNoReadings) {
		t.Errorf("humidity err = %v", err)
	}
	if _, err := CurrentPressure(readings, empty); !errors.Is(err, ErrNoReadings) {
		t.Errorf("pressure err = %v", err)
	}
	if _, err := CurrentRain(nil, empty); !errors.Is(err, ErrNoReadings) {
		t.Errorf("rain err = %v", err)
	}
}

func TestTemperatureTrendUnavailableEncodesNull(t *testing.T) {
	readings := []Reading{{Timestamp: at(2022, 3, 12, 10, 5), Measurements: Measurements{Temperature: 9}}}
	snap, err := CurrentTemperature(readings, march12)
	if err != nil {
		t.Fatalf("CurrentTemperature: %v", err)
	}
	b, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if v, ok := decoded["trend"]; !ok || v != nil {
		t.Errorf("trend = %v (present %v), want null", v, ok)
	}
	if decoded["max_time"] != "10:05" {
		t.Errorf("max_time = %v", decoded["max_time"])
	}
}

func TestBuildDashboard(t *testing.T) {
	d, err := BuildDashboard(fixtureReadings(t), march12)
	if err != nil {
		t.Fatalf("BuildDashboard: %v", err)
	}
	if d.Date != march12 || !d.UpdatedAt.Equal(at(2022, 3, 12, 14, 45)) {
		t.Errorf("dashboard header = %v %v", d.Date, d.UpdatedAt)
	}
	if d.Wind.Name != "Mestral" || !approx(d.Rain.Today, 27.6) {
		t.Errorf("dashboard = %+v", d)
	}
}
