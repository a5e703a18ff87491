package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PipelineMetrics tracks fetching, parsing and persisting station downloads.
// A nil *PipelineMetrics is valid and records nothing.
type PipelineMetrics struct {
	FetchTotal           *prometheus.CounterVec
	FetchDuration        *prometheus.HistogramVec
	PipelineErrors       *prometheus.CounterVec
	ReadingsIngested     prometheus.Counter
	LastReadingTimestamp prometheus.Gauge
	RefreshDuration      prometheus.Histogram
	ExtractFilesTotal    *prometheus.CounterVec
	PublishTotal         *prometheus.CounterVec
}

// NewPipelineMetrics creates and registers pipeline metrics.
func NewPipelineMetrics(namespace string) *PipelineMetrics {
	m := newPipelineMetrics(namespace)
	MustRegister(
		m.FetchTotal,
		m.FetchDuration,
		m.PipelineErrors,
		m.ReadingsIngested,
		m.LastReadingTimestamp,
		m.RefreshDuration,
		m.ExtractFilesTotal,
		m.PublishTotal,
	)
	return m
}

func newPipelineMetrics(namespace string) *PipelineMetrics {
	return &PipelineMetrics{
		FetchTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "source",
				Name:      "fetch_total",
				Help:      "Total number of station downloads",
			},
			[]string{"source", "window", "status"}, // status: success, error
		),
		FetchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "source",
				Name:      "fetch_duration_seconds",
				Help:      "Duration of station downloads",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"source"},
		),
		PipelineErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "pipeline",
				Name:      "errors_total",
				Help:      "Total number of pipeline failures by stage",
			},
			[]string{"stage"}, // stage: fetch, parse, normalize, localize, store
		),
		ReadingsIngested: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "pipeline",
				Name:      "readings_ingested_total",
				Help:      "Total number of readings handed to the store",
			},
		),
		LastReadingTimestamp: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "pipeline",
				Name:      "last_reading_timestamp_seconds",
				Help:      "Unix time of the newest reading seen",
			},
		),
		RefreshDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "pipeline",
				Name:      "refresh_duration_seconds",
				Help:      "Duration of a full fetch-parse-store refresh",
				Buckets:   prometheus.DefBuckets,
			},
		),
		ExtractFilesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "extract",
				Name:      "files_total",
				Help:      "Total number of daily parquet files written",
			},
			[]string{"status"},
		),
		PublishTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "mqtt",
				Name:      "publish_total",
				Help:      "Total number of dashboard publications",
			},
			[]string{"status"},
		),
	}
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// ObserveFetch records one download attempt.
func (m *PipelineMetrics) ObserveFetch(source, window string, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.FetchTotal.WithLabelValues(source, window, status(err)).Inc()
	m.FetchDuration.WithLabelValues(source).Observe(d.Seconds())
}

// StageFailed counts a failure in the named pipeline stage.
func (m *PipelineMetrics) StageFailed(stage string) {
	if m == nil {
		return
	}
	m.PipelineErrors.WithLabelValues(stage).Inc()
}

// ObserveRefresh records a successful refresh.
func (m *PipelineMetrics) ObserveRefresh(ingested int, newest time.Time, d time.Duration) {
	if m == nil {
		return
	}
	m.ReadingsIngested.Add(float64(ingested))
	if !newest.IsZero() {
		m.LastReadingTimestamp.Set(float64(newest.Unix()))
	}
	m.RefreshDuration.Observe(d.Seconds())
}

// ExtractFile records one parquet file write.
func (m *PipelineMetrics) ExtractFile(err error) {
	if m == nil {
		return
	}
	m.ExtractFilesTotal.WithLabelValues(status(err)).Inc()
}

// Published records one MQTT publication.
func (m *PipelineMetrics) Published(err error) {
	if m == nil {
		return
	}
	m.PublishTotal.WithLabelValues(status(err)).Inc()
}
