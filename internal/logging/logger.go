package logging

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"

	"github.com/i474232898/meteobeguda/internal/config"
)

const appName = "meteobeguda"

// New returns a colourised text logger in dev and a JSON logger otherwise.
func New(cfg *config.AppConfig, version string) *slog.Logger {
	return newWithWriter(os.Stdout, cfg, version)
}

func newWithWriter(w io.Writer, cfg *config.AppConfig, version string) *slog.Logger {
	if cfg.AppEnv == "dev" {
		h := tint.NewHandler(w, &tint.Options{
			Level:      cfg.LogLevel,
			AddSource:  true,
			TimeFormat: time.Kitchen,
		})
		return slog.New(h).With("app", appName)
	}

	h := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	})
	return slog.New(h).With(
		"app", appName,
		"version", version,
		"env", cfg.AppEnv,
	)
}
