package extract

import (
	"time"

	"github.com/i474232898/meteobeguda/internal/weather"
)

// Row is the on-disk shape of one reading. Field order follows the normalized
// column order, timestamp last.
type Row struct {
	Temperature           float64 `parquet:"name=temperature,type=DOUBLE"`
	TemperatureMax        float64 `parquet:"name=temperature_max,type=DOUBLE"`
	TemperatureMin        float64 `parquet:"name=temperature_min,type=DOUBLE"`
	Humidity              int64   `parquet:"name=humidity,type=INT64"`
	Dew                   float64 `parquet:"name=dew,type=DOUBLE"`
	Windspeed             float64 `parquet:"name=windspeed,type=DOUBLE"`
	WindDirection         string  `parquet:"name=wind_direction,type=BYTE_ARRAY,convertedtype=UTF8"`
	WindRec               float64 `parquet:"name=wind_rec,type=DOUBLE"`
	WindspeedMax          float64 `parquet:"name=windspeed_max,type=DOUBLE"`
	WindspeedMaxDirection string  `parquet:"name=windspeed_max_direction,type=BYTE_ARRAY,convertedtype=UTF8"`
	TemperatureFeeling    float64 `parquet:"name=temperature_feeling,type=DOUBLE"`
	HeatIndex             float64 `parquet:"name=heat_index,type=DOUBLE"`
	ThwIndex              float64 `parquet:"name=thw_index,type=DOUBLE"`
	Pressure              float64 `parquet:"name=pressure,type=DOUBLE"`
	Rain                  float64 `parquet:"name=rain,type=DOUBLE"`
	RainIntensity         float64 `parquet:"name=rain_intensity,type=DOUBLE"`
	HeatDegrees           float64 `parquet:"name=heat_degrees,type=DOUBLE"`
	ColdDegrees           float64 `parquet:"name=cold_degrees,type=DOUBLE"`
	TemperatureInterior   float64 `parquet:"name=temperature_interior,type=DOUBLE"`
	HumidityInterior      int64   `parquet:"name=humidity_interior,type=INT64"`
	DewInterior           float64 `parquet:"name=dew_interior,type=DOUBLE"`
	HeatIndexInterior     float64 `parquet:"name=heat_index_interior,type=DOUBLE"`
	AirDensityInterior    float64 `parquet:"name=air_density_interior,type=DOUBLE"`
	WindDirectionDegrees  float64 `parquet:"name=wind_direction_degrees,type=DOUBLE"`
	TxWind                int64   `parquet:"name=tx_wind,type=INT64"`
	IssReception          int64   `parquet:"name=iss_reception,type=INT64"`
	ArcInterior           float64 `parquet:"name=arc_interior,type=DOUBLE"`
	Timestamp             int64   `parquet:"name=timestamp,type=INT64,convertedtype=TIMESTAMP_MILLIS"`
}

// RowFromReading flattens r. Timestamps are stored as UTC milliseconds.
func RowFromReading(r weather.Reading) Row {
	m := r.Measurements
	return Row{
		Temperature:           m.Temperature,
		TemperatureMax:        m.TemperatureMax,
		TemperatureMin:        m.TemperatureMin,
		Humidity:              m.Humidity,
		Dew:                   m.Dew,
		Windspeed:             m.Windspeed,
		WindDirection:         string(m.WindDirection),
		WindRec:               m.WindRec,
		WindspeedMax:          m.WindspeedMax,
		WindspeedMaxDirection: string(m.WindspeedMaxDirection),
		TemperatureFeeling:    m.TemperatureFeeling,
		HeatIndex:             m.HeatIndex,
		ThwIndex:              m.ThwIndex,
		Pressure:              m.Pressure,
		Rain:                  m.Rain,
		RainIntensity:         m.RainIntensity,
		HeatDegrees:           m.HeatDegrees,
		ColdDegrees:           m.ColdDegrees,
		TemperatureInterior:   m.TemperatureInterior,
		HumidityInterior:      m.HumidityInterior,
		DewInterior:           m.DewInterior,
		HeatIndexInterior:     m.HeatIndexInterior,
		AirDensityInterior:    m.AirDensityInterior,
		WindDirectionDegrees:  m.WindDirectionDegrees,
		TxWind:                m.TxWind,
		IssReception:          m.IssReception,
		ArcInterior:           m.ArcInterior,
		Timestamp:             r.Timestamp.UnixMilli(),
	}
}

// Reading converts a stored row back into a UTC reading.
func (row Row) Reading() weather.Reading {
	return weather.Reading{
		Timestamp: time.UnixMilli(row.Timestamp).UTC(),
		Measurements: weather.Measurements{
			Temperature:           row.Temperature,
			TemperatureMax:        row.TemperatureMax,
			TemperatureMin:        row.TemperatureMin,
			Humidity:              row.Humidity,
			Dew:                   row.Dew,
			Windspeed:             row.Windspeed,
			WindDirection:         weather.CompassCode(row.WindDirection),
			WindRec:               row.WindRec,
			WindspeedMax:          row.WindspeedMax,
			WindspeedMaxDirection: weather.CompassCode(row.WindspeedMaxDirection),
			TemperatureFeeling:    row.TemperatureFeeling,
			HeatIndex:             row.HeatIndex,
			ThwIndex:              row.ThwIndex,
			Pressure:              row.Pressure,
			Rain:                  row.Rain,
			RainIntensity:         row.RainIntensity,
			HeatDegrees:           row.HeatDegrees,
			ColdDegrees:           row.ColdDegrees,
			TemperatureInterior:   row.TemperatureInterior,
			HumidityInterior:      row.HumidityInterior,
			DewInterior:           row.DewInterior,
			HeatIndexInterior:     row.HeatIndexInterior,
			AirDensityInterior:    row.AirDensityInterior,
			WindDirectionDegrees:  row.WindDirectionDegrees,
			TxWind:                row.TxWind,
			IssReception:          row.IssReception,
			ArcInterior:           row.ArcInterior,
		},
	}
}
