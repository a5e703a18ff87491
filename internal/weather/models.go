package weather

import (
	"fmt"
	"time"
)

// Measurements holds every numeric and compass field of one station sample.
type Measurements struct {
	Temperature           float64     `json:"temperature"`
	TemperatureMax        float64     `json:"temperature_max"`
	TemperatureMin        float64     `json:"temperature_min"`
	Humidity              int64       `json:"humidity"`
	Dew                   float64     `json:"dew"`
	Windspeed             float64     `json:"windspeed"`
	WindDirection         CompassCode `json:"wind_direction"`
	WindRec               float64     `json:"wind_rec"`
	WindspeedMax          float64     `json:"windspeed_max"`
	WindspeedMaxDirection CompassCode `json:"windspeed_max_direction"`
	TemperatureFeeling    float64     `json:"temperature_feeling"`
	HeatIndex             float64     `json:"heat_index"`
	ThwIndex              float64     `json:"thw_index"`
	Pressure              float64     `json:"pressure"`
	Rain                  float64     `json:"rain"`
	RainIntensity         float64     `json:"rain_intensity"`
	HeatDegrees           float64     `json:"heat_degrees"`
	ColdDegrees           float64     `json:"cold_degrees"`
	TemperatureInterior   float64     `json:"temperature_interior"`
	HumidityInterior      int64       `json:"humidity_interior"`
	DewInterior           float64     `json:"dew_interior"`
	HeatIndexInterior     float64     `json:"heat_index_interior"`
	AirDensityInterior    float64     `json:"air_density_interior"`
	WindDirectionDegrees  float64     `json:"wind_direction_degrees"`
	TxWind                int64       `json:"tx_wind"`
	IssReception          int64       `json:"iss_reception"`
	ArcInterior           float64     `json:"arc_interior"`
}

// RawReading is a parsed data row before its date and time are merged.
type RawReading struct {
	Date string `json:"date"`
	Time string `json:"time"`
	Measurements
}

// Reading is a normalized station sample keyed by its timestamp.
type Reading struct {
	Measurements
	Timestamp time.Time `json:"timestamp"`
}

// Quantity names a numeric column that statistics can be computed on.
type Quantity string

const (
	QuantityTemperature  Quantity = ColTemperature
	QuantityHumidity     Quantity = ColHumidity
	QuantityPressure     Quantity = ColPressure
	QuantityWindspeedMax Quantity = ColWindspeedMax
	QuantityRain         Quantity = ColRain
)

// Value returns the named column as a float. Integer columns are widened.
func (m Measurements) Value(q Quantity) (float64, error) {
	if p := m.realField(string(q)); p != nil {
		return *p, nil
	}
	if p := m.intField(string(q)); p != nil {
		return float64(*p), nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnknownQuantity, q)
}

func (m *Measurements) realField(name string) *float64 {
	switch name {
	case ColTemperature:
		return &m.Temperature
	case ColTemperatureMax:
		return &m.TemperatureMax
	case ColTemperatureMin:
		return &m.TemperatureMin
	case ColDew:
		return &m.Dew
	case ColWindspeed:
		return &m.Windspeed
	case ColWindRec:
		return &m.WindRec
	case ColWindspeedMax:
		return &m.WindspeedMax
	case ColTemperatureFeeling:
		return &m.TemperatureFeeling
	case ColHeatIndex:
		return &m.HeatIndex
	case ColThwIndex:
		return &m.ThwIndex
	case ColPressure:
		return &m.Pressure
	case ColRain:
		return &m.Rain
	case ColRainIntensity:
		return &m.RainIntensity
	case ColHeatDegrees:
		return &m.HeatDegrees
	case ColColdDegrees:
		return &m.ColdDegrees
	case ColTemperatureInterior:
		return &m.TemperatureInterior
	case ColDewInterior:
		return &m.DewInterior
	case ColHeatIndexInterior:
		return &m.HeatIndexInterior
	case ColAirDensityInterior:
		return &m.AirDensityInterior
	case ColWindDirectionDegrees:
		return &m.WindDirectionDegrees
	case ColArcInterior:
		return &m.ArcInterior
	}
	return nil
}

func (m *Measurements) intField(name string) *int64 {
	switch name {
	case ColHumidity:
		return &m.Humidity
	case ColHumidityInterior:
		return &m.HumidityInterior
	case ColTxWind:
		return &m.TxWind
	case ColIssReception:
		return &m.IssReception
	}
	return nil
}

func (m *Measurements) compassField(name string) *CompassCode {
	switch name {
	case ColWindDirection:
		return &m.WindDirection
	case ColWindspeedMaxDirection:
		return &m.WindspeedMaxDirection
	}
	return nil
}

// Field returns the named measurement column. Missing real values come back
// as NaN; ok is false for names that are not measurement columns.
func (m Measurements) Field(name string) (v any, ok bool) {
	if p := m.realField(name); p != nil {
		return *p, true
	}
	if p := m.intField(name); p != nil {
		return *p, true
	}
	if p := m.compassField(name); p != nil {
		return *p, true
	}
	return nil, false
}

// Date is a civil calendar day.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

const dateLayout = "2006-01-02"

// DateOf returns the calendar day of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// Today returns the current calendar day in loc.
func Today(now time.Time, loc *time.Location) Date {
	return DateOf(now.In(loc))
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, err
	}
	return DateOf(t), nil
}

// AddDays returns the date n days after d. n may be negative.
func (d Date) AddDays(n int) Date {
	return DateOf(time.Date(d.Year, d.Month, d.Day+n, 0, 0, 0, 0, time.UTC))
}

// Start returns midnight of d in loc.
func (d Date) Start(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

func (d Date) Before(o Date) bool {
	if d.Year != o.Year {
		return d.Year < o.Year
	}
	if d.Month != o.Month {
		return d.Month < o.Month
	}
	return d.Day < o.Day
}

func (d Date) IsZero() bool {
	return d == Date{}
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(b []byte) error {
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// TimeOfDay is a wall-clock time with minute resolution.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ClockOf returns the time of day of t in t's own location.
func ClockOf(t time.Time) TimeOfDay {
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}
}

func (c TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

func (c TimeOfDay) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *TimeOfDay) UnmarshalText(b []byte) error {
	t, err := time.Parse("15:04", string(b))
	if err != nil {
		return err
	}
	*c = ClockOf(t)
	return nil
}
