package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	defaultAppName        = "CedarBank"
	defaultAppEnv         = "development"
	defaultPort           = "8080"
	defaultLogLevel       = "info"
	defaultDriver         = DriverMemory
	defaultDataDir        = "./data"
	defaultScheme         = SchemePlain
	defaultManagerUser    = "admin"
	defaultManagerSecret  = "admin"
	defaultOpening        = "100.0"
	defaultShutdownDelay  = 10 * time.Second
	defaultIdempotencyTTL = 24 * time.Hour
)

// Storage drivers selectable via STORAGE_DRIVER.
const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

// Secret schemes selectable via SECRET_SCHEME.
const (
	SchemePlain  = "plain"
	SchemeBcrypt = "bcrypt"
)

// Config captures application runtime configuration loaded from environment variables.
type Config struct {
	AppName        string
	AppEnv         string
	Port           string
	LogLevel       string
	StorageDriver  string
	DataDir        string
	DatabaseURL    string
	RedisURL       string
	SecretScheme   string
	ManagerUser    string
	ManagerSecret  string
	OpeningBalance decimal.Decimal
	ShutdownPeriod time.Duration
	IdempotencyTTL time.Duration
}

// Load reads configuration values from the environment and populates a Config instance.
func Load() (Config, error) {
	cfg := Config{
		AppName:        getEnv("APP_NAME", defaultAppName),
		AppEnv:         getEnv("APP_ENV", defaultAppEnv),
		Port:           getEnv("PORT", defaultPort),
		LogLevel:       strings.ToLower(getEnv("LOG_LEVEL", defaultLogLevel)),
		StorageDriver:  strings.ToLower(getEnv("STORAGE_DRIVER", defaultDriver)),
		DataDir:        getEnv("DATA_DIR", defaultDataDir),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		RedisURL:       os.Getenv("REDIS_URL"),
		SecretScheme:   strings.ToLower(getEnv("SECRET_SCHEME", defaultScheme)),
		ManagerUser:    getEnv("MANAGER_USERNAME", defaultManagerUser),
		ManagerSecret:  getEnv("MANAGER_SECRET", defaultManagerSecret),
		ShutdownPeriod: defaultShutdownDelay,
		IdempotencyTTL: defaultIdempotencyTTL,
	}

	opening, err := decimal.NewFromString(getEnv("OPENING_BALANCE", defaultOpening))
	if err != nil {
		return Config{}, fmt.Errorf("invalid OPENING_BALANCE: %w", err)
	}
	if opening.IsNegative() {
		return Config{}, fmt.Errorf("OPENING_BALANCE must not be negative")
	}
	cfg.OpeningBalance = opening

	if v := os.Getenv("SHUTDOWN_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid SHUTDOWN_TIMEOUT: %w", err)
		}
		cfg.ShutdownPeriod = d
	}

	if v := os.Getenv("IDEMPOTENCY_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid IDEMPOTENCY_TTL: %w", err)
		}
		cfg.IdempotencyTTL = d
	}

	switch cfg.StorageDriver {
	case DriverMemory, DriverFile:
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("DATABASE_URL must be set when STORAGE_DRIVER=postgres")
		}
	case DriverRedis:
		if cfg.RedisURL == "" {
			return Config{}, fmt.Errorf("REDIS_URL must be set when STORAGE_DRIVER=redis")
		}
	default:
		return Config{}, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}

	switch cfg.SecretScheme {
	case SchemePlain, SchemeBcrypt:
	default:
		return Config{}, fmt.Errorf("unknown SECRET_SCHEME %q", cfg.SecretScheme)
	}

	return cfg, nil
}

// Address returns the listen address in the format Fiber expects.
func (c Config) Address() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return fmt.Sprintf(":%s", c.Port)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
