package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	httpapi "github.com/i474232898/meteobeguda/internal/api/http"
	"github.com/i474232898/meteobeguda/internal/api/http/views"
	"github.com/i474232898/meteobeguda/internal/config"
	"github.com/i474232898/meteobeguda/internal/extract"
	"github.com/i474232898/meteobeguda/internal/metrics"
	"github.com/i474232898/meteobeguda/internal/publish"
	"github.com/i474232898/meteobeguda/internal/scheduler"
	"github.com/i474232898/meteobeguda/internal/weather"
)

const stationName = "La Beguda Alta"

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the dashboard server",
	Long: `Run the dashboard server that:
- Downloads the eight-day station file every fetch interval
- Stores readings in memory or SQLite
- Serves the dashboard, forecast page and JSON API
- Optionally publishes each new dashboard over MQTT
- Optionally writes yesterday's Parquet file every day`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("port", "8080", "HTTP listen port")
	serveCmd.Flags().Duration("fetch-interval", 10*time.Minute, "station refresh interval")
	serveCmd.Flags().String("store-backend", "memory", "reading store (memory, sqlite)")
	serveCmd.Flags().String("sqlite-path", "data/meteobeguda.db", "SQLite database file")
	serveCmd.Flags().String("mqtt-broker", "", "MQTT broker host; empty disables publishing")
	serveCmd.Flags().String("extract-at", "", "daily extraction time HH:MM; empty disables it")

	_ = viper.BindPFlag(config.KeyPort, serveCmd.Flags().Lookup("port"))
	_ = viper.BindPFlag(config.KeyFetchInterval, serveCmd.Flags().Lookup("fetch-interval"))
	_ = viper.BindPFlag(config.KeyStoreBackend, serveCmd.Flags().Lookup("store-backend"))
	_ = viper.BindPFlag(config.KeySQLitePath, serveCmd.Flags().Lookup("sqlite-path"))
	_ = viper.BindPFlag(config.KeyMQTTBroker, serveCmd.Flags().Lookup("mqtt-broker"))
	_ = viper.BindPFlag(config.KeyExtractAt, serveCmd.Flags().Lookup("extract-at"))
}

func runServe(_ *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	cfg, logger := a.cfg, a.logger
	logger.Info("starting meteobeguda server", "version", version)

	if err := views.LoadTemplates(); err != nil {
		logger.Error("failed to load templates", "error", err)
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, closeStore, err := a.openStore(ctx)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Warn("error closing store", "error", err)
		}
	}()

	var publisher weather.Publisher
	if cfg.MQTTBroker != "" {
		mqttPub := publish.NewMQTTPublisher(publish.Config{
			Broker:   cfg.MQTTBroker,
			Port:     cfg.MQTTPort,
			Topic:    cfg.MQTTTopic,
			ClientID: cfg.MQTTClientID,
			Retained: true,
		}, logger)
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		err := mqttPub.Connect(connectCtx)
		cancel()
		if err != nil {
			// Auto-reconnect keeps trying in the background.
			logger.Warn("mqtt not connected at startup", "broker", cfg.MQTTBroker, "error", err)
		}
		defer mqttPub.Disconnect()
		publisher = mqttPub
	}

	service, err := a.newService(st, publisher)
	if err != nil {
		return err
	}

	// Scheduler that periodically refreshes the store.
	sched := scheduler.New(service, cfg.FetchInterval, a.loc, logger)
	if cfg.ExtractAt != "" {
		ex, err := extract.New(service, extract.Config{
			DataDir:  cfg.DataDir,
			Lookback: cfg.ExtractLookback,
			Logger:   logger,
			Metrics:  a.metrics,
		})
		if err != nil {
			return err
		}
		sched.WithExtraction(ex, cfg.ExtractAt)
	}
	if err := sched.Start(); err != nil {
		logger.Error("failed to start scheduler", "error", err)
		return err
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "meteobeguda",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler:          httpapi.ErrorHandler,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(httpapi.MetricsMiddleware(metrics.NewHTTPMetrics(metrics.Namespace)))
	app.Use(func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		logger.Debug("http request",
			"method", c.Method(),
			"path", c.Path(),
			"status", c.Response().StatusCode(),
			"duration", time.Since(start),
		)
		return err
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "meteobeguda",
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	httpapi.RegisterRoutes(app, service, httpapi.RouteConfig{
		Station:              stationName,
		ForecastMunicipality: cfg.ForecastMunicipality,
	})

	go func() {
		logger.Info("http server listening", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			logger.Error("fiber server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("error during shutdown", "error", err)
	}
	return nil
}
