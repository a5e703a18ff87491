package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"
)

const (
	refreshTimeout = 30 * time.Second
	extractTimeout = 2 * time.Minute
)

// Refresher is the periodic station refresh.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Extractor is the daily batch extraction.
type Extractor interface {
	Run(ctx context.Context) ([]string, error)
}

// Scheduler periodically refreshes station readings and, optionally, runs
// the daily extraction.
type Scheduler struct {
	scheduler *gocron.Scheduler
	refresher Refresher
	interval  time.Duration
	logger    *slog.Logger

	extractor Extractor
	extractAt string
}

// New creates a new Scheduler running in loc.
func New(refresher Refresher, interval time.Duration, loc *time.Location, logger *slog.Logger) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	s := gocron.NewScheduler(loc)
	s.SingletonModeAll()
	return &Scheduler{
		scheduler: s,
		refresher: refresher,
		interval:  interval,
		logger:    logger,
	}
}

// WithExtraction schedules e daily at "HH:MM". An empty at leaves
// extraction off.
func (s *Scheduler) WithExtraction(e Extractor, at string) *Scheduler {
	s.extractor = e
	s.extractAt = at
	return s
}

// Start schedules the jobs and starts the underlying scheduler. The first
// refresh runs immediately.
func (s *Scheduler) Start() error {
	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 10
	}

	if _, err := s.scheduler.Every(minutes).Minutes().Do(s.refresh); err != nil {
		return err
	}

	if s.extractor != nil && s.extractAt != "" {
		if _, err := s.scheduler.Every(1).Day().At(s.extractAt).Do(s.extract); err != nil {
			return err
		}
		s.logger.Info("scheduler: daily extraction enabled", "at", s.extractAt)
	}

	s.scheduler.StartAsync()
	return nil
}

func (s *Scheduler) refresh() {
	s.logger.Debug("scheduler: running station refresh")

	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	if err := s.refresher.Refresh(ctx); err != nil {
		s.logger.Error("scheduler: refresh failed", "error", err)
	}
}

func (s *Scheduler) extract() {
	ctx, cancel := context.WithTimeout(context.Background(), extractTimeout)
	defer cancel()

	paths, err := s.extractor.Run(ctx)
	if err != nil {
		s.logger.Error("scheduler: extraction failed", "error", err, "written", len(paths))
		return
	}
	s.logger.Info("scheduler: extraction completed", "files", len(paths))
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
