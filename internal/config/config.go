package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	defaultDatabaseURL      = "userhub.db"
	defaultMaxLoginAttempts = "5"
	defaultLogLevel         = "info"
	defaultLogJSON          = "false"
)

// Config is the process configuration. MaxLoginAttempts is the single
// domain tunable: failed logins before the account locks. It is loaded
// here once and passed into the service, never read globally at call time.
type Config struct {
	DatabaseURL      string
	MaxLoginAttempts int
	LogLevel         string
	LogJSON          bool

	// seed tool only
	SeedAdminEmail    string
	SeedAdminPassword string
}

func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:       getEnv("DATABASE_URL", defaultDatabaseURL),
		LogLevel:          getEnv("LOG_LEVEL", defaultLogLevel),
		LogJSON:           parseBoolEnv("LOG_JSON", defaultLogJSON),
		SeedAdminEmail:    strings.TrimSpace(os.Getenv("SEED_ADMIN_EMAIL")),
		SeedAdminPassword: os.Getenv("SEED_ADMIN_PASSWORD"),
	}

	var err error
	cfg.MaxLoginAttempts, err = parseIntEnv("MAX_LOGIN_ATTEMPTS", defaultMaxLoginAttempts)
	if err != nil {
		return nil, err
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}
	if cfg.MaxLoginAttempts <= 0 {
		return fmt.Errorf("MAX_LOGIN_ATTEMPTS must be > 0, got %d", cfg.MaxLoginAttempts)
	}
	return nil
}

func parseIntEnv(name, fallback string) (int, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return n, nil
}

func parseBoolEnv(name, fallback string) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(name, fallback)))
	return value == "1" || value == "true" || value == "yes" || value == "on"
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
