package weather

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/i474232898/meteobeguda/internal/metrics"
)

// ServiceConfig carries the optional collaborators of a Service.
type ServiceConfig struct {
	// Location is the zone readings are expressed in. Defaults to DefaultTimezone.
	Location *time.Location
	// WindowDays is how many calendar days, today included, Readings covers.
	WindowDays int
	Logger     *slog.Logger
	Metrics    *metrics.PipelineMetrics
	Publisher  Publisher
	// Now overrides the wall clock, for tests.
	Now func() time.Time
}

// Service turns raw station downloads into stored readings and derived views.
type Service struct {
	store     Store
	source    Source
	loc       *time.Location
	window    int
	logger    *slog.Logger
	metrics   *metrics.PipelineMetrics
	publisher Publisher
	now       func() time.Time
}

// NewService creates a new Service.
func NewService(store Store, source Source, cfg ServiceConfig) (*Service, error) {
	loc := cfg.Location
	if loc == nil {
		var err error
		if loc, err = time.LoadLocation(DefaultTimezone); err != nil {
			return nil, fmt.Errorf("load timezone: %w", err)
		}
	}
	window := cfg.WindowDays
	if window <= 0 {
		window = int(WindowEightDays)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		store:     store,
		source:    source,
		loc:       loc,
		window:    window,
		logger:    logger,
		metrics:   cfg.Metrics,
		publisher: cfg.Publisher,
		now:       now,
	}, nil
}

// Location returns the zone the service reports in.
func (s *Service) Location() *time.Location {
	return s.loc
}

// Today returns the current calendar day in the service's zone.
func (s *Service) Today() Date {
	return Today(s.now(), s.loc)
}

// Load fetches w from the source and returns normalized readings. Timestamps
// are left UTC-labelled.
func (s *Service) Load(ctx context.Context, w Window) ([]Reading, error) {
	if s.source == nil {
		return nil, fmt.Errorf("no station source configured")
	}

	start := time.Now()
	raw, err := s.source.Fetch(ctx, w)
	s.metrics.ObserveFetch(s.source.Name(), strconv.Itoa(int(w)), time.Since(start), err)
	if err != nil {
		s.metrics.StageFailed("fetch")
		return nil, fmt.Errorf("fetch %s: %w", s.source.Name(), err)
	}

	rows, err := Parse(raw)
	if err != nil {
		s.metrics.StageFailed(string(StageParse))
		return nil, err
	}
	readings, err := Normalize(rows)
	if err != nil {
		s.metrics.StageFailed(string(StageNormalize))
		return nil, err
	}
	return readings, nil
}

// Refresh downloads the eight-day window, localizes it and stores it. When a
// publisher is configured the new dashboard is pushed afterwards; publishing
// failures are logged, not returned.
func (s *Service) Refresh(ctx context.Context) error {
	start := time.Now()

	readings, err := s.Load(ctx, WindowEightDays)
	if err != nil {
		return err
	}
	readings = LocalizeIn(readings, s.loc)

	if err := s.store.SaveReadings(ctx, readings); err != nil {
		s.metrics.StageFailed("store")
		return fmt.Errorf("save readings: %w", err)
	}

	var newest time.Time
	if last, err := LastEntry(readings); err == nil {
		newest = last.Timestamp
	}
	s.metrics.ObserveRefresh(len(readings), newest, time.Since(start))
	s.logger.Info("station refreshed", "source", s.source.Name(), "readings", len(readings), "newest", newest)

	if s.publisher != nil {
		s.publish(ctx)
	}
	return nil
}

func (s *Service) publish(ctx context.Context) {
	d, err := s.Dashboard(ctx, s.Today())
	if err != nil {
		s.logger.Warn("skip dashboard publish", "error", err)
		return
	}
	err = s.publisher.PublishDashboard(ctx, d)
	s.metrics.Published(err)
	if err != nil {
		s.logger.Warn("dashboard publish failed", "error", err)
	}
}

// Readings returns the stored readings of the configured window: the last
// WindowDays calendar days, today included.
func (s *Service) Readings(ctx context.Context) ([]Reading, error) {
	today := s.Today()
	from := today.AddDays(-(s.window - 1)).Start(s.loc)
	to := today.AddDays(1).Start(s.loc).Add(-time.Nanosecond)
	return s.Range(ctx, from, to)
}

// Range returns stored readings between from and to, inclusive, in the
// service's zone.
func (s *Service) Range(ctx context.Context, from, to time.Time) ([]Reading, error) {
	readings, err := s.store.GetRange(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return LocalizeIn(readings, s.loc), nil
}

// Latest returns the newest stored reading.
func (s *Service) Latest(ctx context.Context) (Reading, error) {
	r, err := s.store.GetLatest(ctx)
	if err != nil {
		return Reading{}, err
	}
	r.Timestamp = r.Timestamp.In(s.loc)
	return r, nil
}

// Dashboard computes every snapshot for day over the current window.
func (s *Service) Dashboard(ctx context.Context, day Date) (Dashboard, error) {
	readings, err := s.Readings(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	return BuildDashboard(readings, day)
}
