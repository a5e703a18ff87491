package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/i474232898/meteobeguda/internal/config"
	"github.com/i474232898/meteobeguda/internal/logging"
	"github.com/i474232898/meteobeguda/internal/metrics"
	"github.com/i474232898/meteobeguda/internal/store"
	"github.com/i474232898/meteobeguda/internal/weather"
	"github.com/i474232898/meteobeguda/internal/weather/providers"
)

// app holds the collaborators shared by every command.
type app struct {
	cfg     *config.AppConfig
	logger  *slog.Logger
	loc     *time.Location
	source  *providers.MeteoBegudaSource
	metrics *metrics.PipelineMetrics
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger := logging.New(cfg, version)
	slog.SetDefault(logger)

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone: %w", err)
	}

	// Shared HTTP client for station downloads.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	return &app{
		cfg:     cfg,
		logger:  logger,
		loc:     loc,
		source:  providers.NewMeteoBegudaSource(httpClient, cfg.SourceBaseURL),
		metrics: metrics.NewPipelineMetrics(metrics.Namespace),
	}, nil
}

// openStore builds the configured reading store. The returned close function
// is never nil.
func (a *app) openStore(ctx context.Context) (weather.Store, func() error, error) {
	switch a.cfg.StoreBackend {
	case "sqlite":
		db, err := store.OpenSQLite(ctx, a.cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		a.logger.Info("using sqlite store", "path", a.cfg.SQLitePath)
		return store.NewSQLiteStore(db, a.cfg.StoreMaxHistory, a.cfg.StoreMaxAge), db.Close, nil
	default:
		a.logger.Info("using in-memory store")
		return store.NewMemoryStore(a.cfg.StoreMaxHistory, a.cfg.StoreMaxAge), func() error { return nil }, nil
	}
}

func (a *app) newService(st weather.Store, publisher weather.Publisher) (*weather.Service, error) {
	cfg := weather.ServiceConfig{
		Location:   a.loc,
		WindowDays: a.cfg.WindowDays,
		Logger:     a.logger,
		Metrics:    a.metrics,
		Publisher:  publisher,
	}
	return weather.NewService(st, a.source, cfg)
}
