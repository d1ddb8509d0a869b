package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the client
type Config struct {
	Environment string `env:"ENVIRONMENT" env-default:"development" env-description:"development or production"`
	LogLevel    string `env:"LOG_LEVEL" env-default:"info"`
	ServiceName string `env:"SERVICE_NAME" env-default:"marketplace-client"`

	API       APIConfig
	Session   SessionConfig
	Shell     ShellConfig
	Cache     CacheConfig
	Telemetry TelemetryConfig
}

// APIConfig points the gateway at the backend
type APIConfig struct {
	BaseURL string `env:"API_BASE_URL" env-default:"http://localhost:8080/api" env-description:"backend REST base URL"`
	// Timeout of 0 keeps the transport default.
	Timeout time.Duration `env:"HTTP_TIMEOUT" env-default:"0s"`
}

// SessionConfig selects where the session is persisted
type SessionConfig struct {
	Backend string `env:"SESSION_BACKEND" env-default:"file" env-description:"file or sqlite"`
	Path    string `env:"SESSION_PATH" env-default:".marketplace"`
}

// ShellConfig configures the local shell server
type ShellConfig struct {
	Addr              string `env:"SHELL_ADDR" env-default:"127.0.0.1:8090"`
	NotificationsPoll string `env:"NOTIFICATIONS_POLL" env-default:"@every 1m"`
	// Token, when set, must be sent in X-Shell-Token on every shell request.
	Token string `env:"SHELL_TOKEN"`
	// LoginAttempts caps /actions/login per client per minute; 0 disables it.
	LoginAttempts int `env:"SHELL_LOGIN_ATTEMPTS" env-default:"10"`
}

// CacheConfig tunes the lookup caches
type CacheConfig struct {
	CategoryTTL time.Duration `env:"CATEGORY_CACHE_TTL" env-default:"5m"`
}

// TelemetryConfig selects the metrics exporter
type TelemetryConfig struct {
	Exporter     string `env:"OTEL_METRICS_EXPORTER" env-default:"none" env-description:"prometheus, otlp or none"`
	OTLPEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
}

// Load reads the optional .env file at envFile, then the process environment
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
			}
			slog.Debug("No .env file found, using process environment", "path", envFile)
		}
	}

	cfg := &Config{}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	applyEnvAliases(cfg)
	normalizeConfig(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvAliases honours the variable names used by the web build.
func applyEnvAliases(cfg *Config) {
	if os.Getenv("API_BASE_URL") != "" {
		return
	}
	if v := strings.TrimSpace(os.Getenv("VITE_API_URL")); v != "" {
		cfg.API.BaseURL = v
	}
}

func normalizeConfig(cfg *Config) {
	cfg.Environment = strings.ToLower(strings.TrimSpace(cfg.Environment))
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	cfg.API.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.API.BaseURL), "/")
	cfg.Session.Backend = strings.ToLower(strings.TrimSpace(cfg.Session.Backend))
	cfg.Telemetry.Exporter = strings.ToLower(strings.TrimSpace(cfg.Telemetry.Exporter))
	cfg.Shell.NotificationsPoll = strings.TrimSpace(cfg.Shell.NotificationsPoll)
}

// Validate rejects configurations the client cannot run with
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid API_BASE_URL: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid API_BASE_URL %q: must be an absolute http(s) URL", c.API.BaseURL)
	}
	if c.API.Timeout < 0 {
		return fmt.Errorf("invalid HTTP_TIMEOUT %s", c.API.Timeout)
	}
	switch c.Session.Backend {
	case "file", "sqlite":
	default:
		return fmt.Errorf("invalid SESSION_BACKEND %q: want file or sqlite", c.Session.Backend)
	}
	if c.Session.Path == "" {
		return errors.New("SESSION_PATH must not be empty")
	}
	switch c.Telemetry.Exporter {
	case "prometheus", "otlp", "none":
	default:
		return fmt.Errorf("invalid OTEL_METRICS_EXPORTER %q", c.Telemetry.Exporter)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid LOG_LEVEL %q", c.LogLevel)
	}
	return nil
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
