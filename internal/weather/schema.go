package weather

import "slices"

// ColumnKind is the declared type of a column in the station download.
type ColumnKind int

const (
	KindText ColumnKind = iota
	KindCompass
	KindReal
	KindInteger
	KindTimestamp
)

func (k ColumnKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindCompass:
		return "compass"
	case KindReal:
		return "real"
	case KindInteger:
		return "integer"
	case KindTimestamp:
		return "timestamp"
	default:
		return "unknown"
	}
}

// Column describes one positional field of a data row.
type Column struct {
	Name string     `json:"name"`
	Kind ColumnKind `json:"kind"`
}

// Column names, in download order.
const (
	ColDate                  = "date"
	ColTime                  = "time"
	ColTemperature           = "temperature"
	ColTemperatureMax        = "temperature_max"
	ColTemperatureMin        = "temperature_min"
	ColHumidity              = "humidity"
	ColDew                   = "dew"
	ColWindspeed             = "windspeed"
	ColWindDirection         = "wind_direction"
	ColWindRec               = "wind_rec"
	ColWindspeedMax          = "windspeed_max"
	ColWindspeedMaxDirection = "windspeed_max_direction"
	ColTemperatureFeeling    = "temperature_feeling"
	ColHeatIndex             = "heat_index"
	ColThwIndex              = "thw_index"
	ColPressure              = "pressure"
	ColRain                  = "rain"
	ColRainIntensity         = "rain_intensity"
	ColHeatDegrees           = "heat_degrees"
	ColColdDegrees           = "cold_degrees"
	ColTemperatureInterior   = "temperature_interior"
	ColHumidityInterior      = "humidity_interior"
	ColDewInterior           = "dew_interior"
	ColHeatIndexInterior     = "heat_index_interior"
	ColAirDensityInterior    = "air_density_interior"
	ColWindDirectionDegrees  = "wind_direction_degrees"
	ColTxWind                = "tx_wind"
	ColIssReception          = "iss_reception"
	ColArcInterior           = "arc_interior"

	ColTimestamp = "timestamp"
)

// The parser assigns values by position, so this order must match the download.
var rawColumns = []Column{
	{ColDate, KindText},
	{ColTime, KindText},
	{ColTemperature, KindReal},
	{ColTemperatureMax, KindReal},
	{ColTemperatureMin, KindReal},
	{ColHumidity, KindInteger},
	{ColDew, KindReal},
	{ColWindspeed, KindReal},
	{ColWindDirection, KindCompass},
	{ColWindRec, KindReal},
	{ColWindspeedMax, KindReal},
	{ColWindspeedMaxDirection, KindCompass},
	{ColTemperatureFeeling, KindReal},
	{ColHeatIndex, KindReal},
	{ColThwIndex, KindReal},
	{ColPressure, KindReal},
	{ColRain, KindReal},
	{ColRainIntensity, KindReal},
	{ColHeatDegrees, KindReal},
	{ColColdDegrees, KindReal},
	{ColTemperatureInterior, KindReal},
	{ColHumidityInterior, KindInteger},
	{ColDewInterior, KindReal},
	{ColHeatIndexInterior, KindReal},
	{ColAirDensityInterior, KindReal},
	{ColWindDirectionDegrees, KindReal},
	{ColTxWind, KindInteger},
	{ColIssReception, KindInteger},
	{ColArcInterior, KindReal},
}

// RawColumnCount is the number of tokens every data row must carry.
const RawColumnCount = 29

// RawColumns returns the 29 columns of a downloaded data row in order.
func RawColumns() []Column {
	return slices.Clone(rawColumns)
}

// NormalizedColumns returns the 28 columns of a Reading: the raw columns
// without date and time, followed by the merged timestamp.
func NormalizedColumns() []Column {
	out := make([]Column, 0, len(rawColumns)-1)
	for _, c := range rawColumns {
		if c.Name == ColDate || c.Name == ColTime {
			continue
		}
		out = append(out, c)
	}
	return append(out, Column{ColTimestamp, KindTimestamp})
}
