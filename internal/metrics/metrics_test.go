package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestPipelineMetrics(t *testing.T) {
	m := newPipelineMetrics("pipelinetest")
	boom := errors.New("boom")

	m.ObserveFetch("meteobeguda", "8", 120*time.Millisecond, nil)
	m.ObserveFetch("meteobeguda", "8", time.Second, boom)
	m.StageFailed("parse")
	m.StageFailed("parse")
	newest := time.Date(2022, time.March, 12, 14, 45, 0, 0, time.UTC)
	m.ObserveRefresh(155, newest, time.Second)
	m.ObserveRefresh(0, time.Time{}, time.Second)
	m.ExtractFile(nil)
	m.Published(boom)

	if got := testutil.ToFloat64(m.FetchTotal.WithLabelValues("meteobeguda", "8", "success")); got != 1 {
		t.Errorf("fetch success = %v", got)
	}
	if got := testutil.ToFloat64(m.FetchTotal.WithLabelValues("meteobeguda", "8", "error")); got != 1 {
		t.Errorf("fetch error = %v", got)
	}
	if got := testutil.ToFloat64(m.PipelineErrors.WithLabelValues("parse")); got != 2 {
		t.Errorf("parse errors = %v", got)
	}
	if got := testutil.ToFloat64(m.ReadingsIngested); got != 155 {
		t.Errorf("ingested = %v", got)
	}
	if got := testutil.ToFloat64(m.LastReadingTimestamp); got != float64(newest.Unix()) {
		t.Errorf("last reading = %v, want zero time ignored", got)
	}
	if got := testutil.ToFloat64(m.ExtractFilesTotal.WithLabelValues("success")); got != 1 {
		t.Errorf("extract files = %v", got)
	}
	if got := testutil.ToFloat64(m.PublishTotal.WithLabelValues("error")); got != 1 {
		t.Errorf("publish errors = %v", got)
	}
	if n := testutil.CollectAndCount(m.RefreshDuration); n != 1 {
		t.Errorf("refresh histogram series = %d", n)
	}
}

func TestNilPipelineMetrics(t *testing.T) {
	var m *PipelineMetrics
	m.ObserveFetch("s", "2", time.Second, nil)
	m.StageFailed("fetch")
	m.ObserveRefresh(1, time.Now(), time.Second)
	m.ExtractFile(nil)
	m.Published(nil)
}

func TestRegisterHTTPMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := RegisterHTTPMetrics(reg, "httptest")
	m.RequestsTotal.WithLabelValues("GET", "/", "200").Inc()
	m.RequestsInFlight.Inc()

	if n, err := testutil.GatherAndCount(reg); err != nil || n != 2 {
		t.Errorf("gathered %d series, %v; want 2", n, err)
	}

	defer func() {
		if recover() == nil {
			t.Error("expected duplicate registration to panic")
		}
	}()
	RegisterHTTPMetrics(reg, "httptest")
}

func TestHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	if rec.Code != 200 {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(string(body), "go_goroutines") {
		t.Error("expected Go runtime metrics in output")
	}
}
