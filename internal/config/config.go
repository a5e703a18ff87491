package config

import (
	"fmt"
	"log"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Keys shared by environment variables and CLI flags. Each key maps to the
// upper-case environment variable of the same name.
const (
	KeyAppEnv               = "app_env"
	KeyLogLevel             = "log_level"
	KeyPort                 = "port"
	KeySourceBaseURL        = "source_base_url"
	KeyHTTPTimeout          = "http_timeout"
	KeyFetchInterval        = "fetch_interval"
	KeyTimezone             = "timezone"
	KeyWindowDays           = "window_days"
	KeyStoreBackend         = "store_backend"
	KeySQLitePath           = "sqlite_path"
	KeyStoreMaxHistory      = "store_max_history"
	KeyStoreMaxAge          = "store_max_age"
	KeyDataDir              = "data_dir"
	KeyExtractAt            = "extract_at"
	KeyExtractLookback      = "extract_lookback"
	KeyMQTTBroker           = "mqtt_broker"
	KeyMQTTPort             = "mqtt_port"
	KeyMQTTTopic            = "mqtt_topic"
	KeyMQTTClientID         = "mqtt_client_id"
	KeyForecastMunicipality = "forecast_municipality"
)

type AppConfig struct {
	AppEnv   string `validate:"oneof=dev prod"`
	LogLevel slog.Level

	Port string `validate:"required,numeric"`

	// Station source.
	SourceBaseURL string        `validate:"required,url"`
	HTTPTimeout   time.Duration `validate:"gt=0"`
	// FetchInterval controls how often the station is polled.
	FetchInterval time.Duration `validate:"gte=1m"`

	Timezone   string `validate:"required,timezone"`
	WindowDays int    `validate:"min=1,max=8"`

	// Reading store.
	StoreBackend    string        `validate:"oneof=memory sqlite"`
	SQLitePath      string        `validate:"required_if=StoreBackend sqlite"`
	StoreMaxHistory int           `validate:"gte=0"` // max readings kept (0 = unlimited)
	StoreMaxAge     time.Duration `validate:"gte=0"` // max age of readings (0 = unlimited)

	// Daily parquet extraction. An empty ExtractAt disables the scheduled run.
	DataDir         string `validate:"required"`
	ExtractAt       string `validate:"omitempty,datetime=15:04"`
	ExtractLookback int    `validate:"min=1,max=7"`

	// Dashboard publishing. An empty broker disables MQTT.
	MQTTBroker   string
	MQTTPort     int    `validate:"min=1,max=65535"`
	MQTTTopic    string `validate:"required_with=MQTTBroker"`
	MQTTClientID string

	// ForecastMunicipality is the meteo.cat municipality code embedded on the forecast page.
	ForecastMunicipality string `validate:"required,numeric"`
}

var validate = validator.New()

// SetDefaults registers defaults and environment lookup on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyAppEnv, "dev")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyPort, "8080")
	v.SetDefault(KeySourceBaseURL, "http://www.meteobeguda.cat")
	v.SetDefault(KeyHTTPTimeout, "15s")
	v.SetDefault(KeyFetchInterval, "10m")
	v.SetDefault(KeyTimezone, "Europe/Madrid")
	v.SetDefault(KeyWindowDays, 8)
	v.SetDefault(KeyStoreBackend, "memory")
	v.SetDefault(KeySQLitePath, "data/meteobeguda.db")
	v.SetDefault(KeyStoreMaxHistory, 0)
	v.SetDefault(KeyStoreMaxAge, "216h") // nine days, one more than the widest window
	v.SetDefault(KeyDataDir, "data")
	v.SetDefault(KeyExtractAt, "")
	v.SetDefault(KeyExtractLookback, 1)
	v.SetDefault(KeyMQTTBroker, "")
	v.SetDefault(KeyMQTTPort, 1883)
	v.SetDefault(KeyMQTTTopic, "meteobeguda/dashboard")
	v.SetDefault(KeyMQTTClientID, "")
	v.SetDefault(KeyForecastMunicipality, "082080")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
}

// Load reads configuration from .env and the environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	v := viper.GetViper()
	SetDefaults(v)
	return FromViper(v)
}

// FromViper builds and validates an AppConfig from v.
func FromViper(v *viper.Viper) (*AppConfig, error) {
	cfg := &AppConfig{
		AppEnv:               strings.TrimSpace(v.GetString(KeyAppEnv)),
		Port:                 strings.TrimSpace(v.GetString(KeyPort)),
		SourceBaseURL:        strings.TrimSpace(v.GetString(KeySourceBaseURL)),
		Timezone:             strings.TrimSpace(v.GetString(KeyTimezone)),
		WindowDays:           v.GetInt(KeyWindowDays),
		StoreBackend:         strings.TrimSpace(v.GetString(KeyStoreBackend)),
		SQLitePath:           strings.TrimSpace(v.GetString(KeySQLitePath)),
		StoreMaxHistory:      v.GetInt(KeyStoreMaxHistory),
		DataDir:              strings.TrimSpace(v.GetString(KeyDataDir)),
		ExtractAt:            strings.TrimSpace(v.GetString(KeyExtractAt)),
		ExtractLookback:      v.GetInt(KeyExtractLookback),
		MQTTBroker:           strings.TrimSpace(v.GetString(KeyMQTTBroker)),
		MQTTPort:             v.GetInt(KeyMQTTPort),
		MQTTTopic:            strings.TrimSpace(v.GetString(KeyMQTTTopic)),
		MQTTClientID:         strings.TrimSpace(v.GetString(KeyMQTTClientID)),
		ForecastMunicipality: strings.TrimSpace(v.GetString(KeyForecastMunicipality)),
	}

	level, err := parseLogLevel(v.GetString(KeyLogLevel))
	if err != nil {
		return nil, err
	}
	cfg.LogLevel = level

	if cfg.HTTPTimeout, err = parseDuration(v, KeyHTTPTimeout); err != nil {
		return nil, err
	}
	if cfg.FetchInterval, err = parseDuration(v, KeyFetchInterval); err != nil {
		return nil, err
	}
	if cfg.StoreMaxAge, err = parseDuration(v, KeyStoreMaxAge); err != nil {
		return nil, err
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func parseDuration(v *viper.Viper, key string) (time.Duration, error) {
	raw := strings.TrimSpace(v.GetString(key))
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", strings.ToUpper(key), err)
	}
	return d, nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid LOG_LEVEL %q (allowed: debug, info, warn, error)", s)
	}
}
