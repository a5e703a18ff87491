package providers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/i474232898/meteobeguda/internal/weather"
)

func newTestSource(t *testing.T, h http.HandlerFunc) (*MeteoBegudaSource, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	s := NewMeteoBegudaSource(srv.Client(), srv.URL+"/")
	s.fetch.backoff = BackoffConfig{
		MaxRetries:      2,
		InitialInterval: time.Millisecond,
		MaxInterval:     5 * time.Millisecond,
	}
	return s, srv
}

func TestMeteoBegudaURL(t *testing.T) {
	s := NewMeteoBegudaSource(http.DefaultClient, "")
	if s.Name() != "meteobeguda" {
		t.Errorf("Name() = %q", s.Name())
	}

	tests := []struct {
		w    weather.Window
		want string
	}{
		{weather.WindowTwoDays, "http://www.meteobeguda.cat/downld02.txt"},
		{weather.WindowEightDays, "http://www.meteobeguda.cat/downld08.txt"},
	}
	for _, tt := range tests {
		got, err := s.URL(tt.w)
		if err != nil {
			t.Fatalf("URL(%d): %v", tt.w, err)
		}
		if got != tt.want {
			t.Errorf("URL(%d) = %q, want %q", tt.w, got, tt.want)
		}
	}

	if _, err := s.URL(weather.Window(3)); err == nil {
		t.Error("expected error for 3-day window")
	}
}

func TestMeteoBegudaFetch(t *testing.T) {
	var path atomic.Value
	s, _ := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		path.Store(r.URL.Path)
		_, _ = w.Write([]byte("header\n"))
	})

	body, err := s.Fetch(context.Background(), weather.WindowEightDays)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if string(body) != "header\n" {
		t.Errorf("body = %q", body)
	}
	if got := path.Load(); got != "/downld08.txt" {
		t.Errorf("requested path = %v", got)
	}
}

func TestMeteoBegudaFetchRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	s, _ := newTestSource(t, func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte("ok"))
	})

	body, err := s.Fetch(context.Background(), weather.WindowTwoDays)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if string(body) != "ok" || calls.Load() != 3 {
		t.Errorf("body = %q after %d calls", body, calls.Load())
	}
}

func TestMeteoBegudaFetchGivesUp(t *testing.T) {
	var calls atomic.Int32
	s, _ := newTestSource(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := s.Fetch(context.Background(), weather.WindowTwoDays)
	if !errors.Is(err, errServerError) {
		t.Fatalf("err = %v, want server error", err)
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3", calls.Load())
	}
}

func TestMeteoBegudaFetchClientError(t *testing.T) {
	s, _ := newTestSource(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := s.Fetch(context.Background(), weather.WindowTwoDays)
	if !errors.Is(err, errUnexpected) || !strings.Contains(err.Error(), "404") {
		t.Fatalf("err = %v, want unexpected status 404", err)
	}
}

func TestMeteoBegudaFetchBodyLimit(t *testing.T) {
	s, _ := newTestSource(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("x", 64)))
	})
	s.fetch.maxBody = 32

	if _, err := s.Fetch(context.Background(), weather.WindowTwoDays); !errors.Is(err, errBodyTooLarge) {
		t.Fatalf("err = %v, want body too large", err)
	}
}

func TestMeteoBegudaFetchCanceled(t *testing.T) {
	s, _ := newTestSource(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.Fetch(ctx, weather.WindowTwoDays); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestMeteoBegudaFetchBodyLimitNotRetried(t *testing.T) {
	var calls atomic.Int32
	s, _ := newTestSource(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(strings.Repeat("x", 64)))
	})
	s.fetch.maxBody = 32

	if _, err := s.Fetch(context.Background(), weather.WindowTwoDays); !errors.Is(err, errBodyTooLarge) {
		t.Fatalf("err = %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}
}

func TestFetcherConfig(t *testing.T) {
	f := newFetcher("test", HTTPClientConfig{})
	if _, err := f.get(context.Background(), "http://127.0.0.1"); !errors.Is(err, errNoHTTPClient) {
		t.Errorf("err = %v, want errNoHTTPClient", err)
	}
	if f.maxBody != defaultMaxBodyBytes {
		t.Errorf("maxBody = %d", f.maxBody)
	}

	f = newFetcher("test", HTTPClientConfig{Client: http.DefaultClient})
	if _, err := f.get(context.Background(), "http://127.0.0.1"); !errors.Is(err, errInvalidConfig) {
		t.Errorf("err = %v, want errInvalidConfig", err)
	}
}

func TestBackoffDelay(t *testing.T) {
	b := BackoffConfig{InitialInterval: 500 * time.Millisecond, MaxInterval: 5 * time.Second}
	want := []time.Duration{500 * time.Millisecond, time.Second, 2 * time.Second, 4 * time.Second, 5 * time.Second}
	for attempt, w := range want {
		if got := b.delay(attempt); got != w {
			t.Errorf("delay(%d) = %v, want %v", attempt, got, w)
		}
	}
}
