package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	defaultHTTPAddr         = ":8080"
	defaultDatabaseURL      = "velopark.db"
	defaultJWTSecret        = "change-me-jwt-secret"
	defaultJWTAccessTTL     = "24h"
	defaultGracePeriod      = "15m"
	defaultPendingWindow    = "30m"
	defaultRetrievalCodeTTL = "24h"
	defaultSweepInterval    = "60s"
)

// Config is the process-wide runtime configuration, read from the
// environment once at startup.
type Config struct {
	AppEnv           string
	HTTPAddr         string
	DatabaseURL      string
	JWTSecret        string
	JWTAccessTTL     time.Duration
	GracePeriod      time.Duration
	PendingWindow    time.Duration
	RetrievalCodeTTL time.Duration
	SweepInterval    time.Duration
}

func Load() (*Config, error) {
	cfg := &Config{}

	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = strings.TrimSpace(os.Getenv("ENV"))
	}
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.HTTPAddr = strings.TrimSpace(getEnv("HTTP_ADDR", defaultHTTPAddr))
	cfg.DatabaseURL = strings.TrimSpace(getEnv("DATABASE_URL", defaultDatabaseURL))
	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret))

	var err error
	cfg.JWTAccessTTL, err = parseDurationEnv("JWT_ACCESS_TTL", defaultJWTAccessTTL)
	if err != nil {
		return nil, err
	}
	cfg.GracePeriod, err = parseDurationEnv("GRACE_PERIOD", defaultGracePeriod)
	if err != nil {
		return nil, err
	}
	cfg.PendingWindow, err = parseDurationEnv("PENDING_WINDOW", defaultPendingWindow)
	if err != nil {
		return nil, err
	}
	cfg.RetrievalCodeTTL, err = parseDurationEnv("RETRIEVAL_CODE_TTL", defaultRetrievalCodeTTL)
	if err != nil {
		return nil, err
	}
	cfg.SweepInterval, err = parseDurationEnv("SWEEP_INTERVAL", defaultSweepInterval)
	if err != nil {
		return nil, err
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.JWTAccessTTL <= 0 {
		return fmt.Errorf("JWT_ACCESS_TTL must be > 0")
	}
	if cfg.GracePeriod <= 0 {
		return fmt.Errorf("GRACE_PERIOD must be > 0")
	}
	if cfg.PendingWindow <= 0 {
		return fmt.Errorf("PENDING_WINDOW must be > 0")
	}
	if cfg.RetrievalCodeTTL <= 0 {
		return fmt.Errorf("RETRIEVAL_CODE_TTL must be > 0")
	}
	if cfg.SweepInterval <= 0 {
		return fmt.Errorf("SWEEP_INTERVAL must be > 0")
	}

	if isProdLike(cfg.AppEnv) {
		if trimmed := strings.TrimSpace(cfg.JWTSecret); trimmed == "" || trimmed == defaultJWTSecret {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
	}
	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
