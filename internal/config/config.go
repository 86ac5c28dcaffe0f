package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"bookstore-catalog/internal/infrastructure/database"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
	DriverRedis    = "redis"

	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"
)

// Config holds the whole application configuration, populated from environment variables
type Config struct {
	App      AppConfig
	Log      LogConfig
	Storage  StorageConfig
	Database *database.DBConfig
	Redis    RedisConfig
	Cache    CacheConfig
	Report   ReportConfig
	Worker   WorkerConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, test, production
	Port        string
	Version     string
	// LegacyErrorStatus answers unknown books and dangling author/category ids with 500 instead of 404/400.
	LegacyErrorStatus bool
}

type LogConfig struct {
	Level string
}

// StorageConfig selects the persistence adapter
type StorageConfig struct {
	Driver string // postgres, memory
}

type RedisConfig struct {
	Host     string
	Password string
	DB       int
}

// CacheConfig selects where generated reports are cached
type CacheConfig struct {
	Driver string // redis, memory
}

type ReportConfig struct {
	TTL           time.Duration
	SimulatedWork time.Duration
}

type WorkerConfig struct {
	Concurrency int
	// Embedded runs the report consumer inside the API process.
	Embedded        bool
	ShutdownTimeout time.Duration
}

// Load reads config from environment variables
func Load() (*Config, error) {
	db, err := LoadDatabaseConfig()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		App: AppConfig{
			Name:              getEnv("APP_NAME", "Bookstore Catalog API"),
			Environment:       getEnv("APP_ENV", EnvDevelopment),
			Port:              getEnv("APP_PORT", "3000"),
			Version:           getEnv("APP_VERSION", "1.0.0"),
			LegacyErrorStatus: getEnvBool("HTTP_LEGACY_ERROR_STATUS", false),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Storage: StorageConfig{
			Driver: strings.ToLower(getEnv("STORAGE_DRIVER", DriverPostgres)),
		},
		Database: db,
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Cache: CacheConfig{
			Driver: strings.ToLower(getEnv("CACHE_DRIVER", DriverRedis)),
		},
		Report: ReportConfig{
			TTL:           getEnvDuration("REPORT_TTL", 60*time.Second),
			SimulatedWork: getEnvDuration("REPORT_SIMULATED_WORK", 1500*time.Millisecond),
		},
		Worker: WorkerConfig{
			Concurrency:     getEnvInt("WORKER_CONCURRENCY", 5),
			Embedded:        getEnvBool("WORKER_EMBEDDED", false),
			ShutdownTimeout: getEnvDuration("WORKER_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks the combination of settings
func (c *Config) Validate() error {
	err := validation.Errors{
		"APP_ENV":            validation.Validate(c.App.Environment, validation.Required, validation.In(EnvDevelopment, EnvTest, EnvProduction)),
		"STORAGE_DRIVER":     validation.Validate(c.Storage.Driver, validation.Required, validation.In(DriverPostgres, DriverMemory)),
		"CACHE_DRIVER":       validation.Validate(c.Cache.Driver, validation.Required, validation.In(DriverRedis, DriverMemory)),
		"REPORT_TTL":         validation.Validate(c.Report.TTL, validation.Required.Error("must be positive"), validation.Min(time.Millisecond).Error("must be positive")),
		"WORKER_CONCURRENCY": validation.Validate(c.Worker.Concurrency, validation.Required, validation.Min(1)),
	}.Filter()
	if err != nil {
		return err
	}

	// A memory cache is private to one process, so producer and consumer must share it.
	if c.Cache.Driver == DriverMemory && !c.Worker.Embedded {
		return fmt.Errorf("CACHE_DRIVER=memory requires WORKER_EMBEDDED=true")
	}
	// Same for memory storage: a standalone worker would report on its own empty catalog.
	if c.Storage.Driver == DriverMemory && !c.Worker.Embedded {
		return fmt.Errorf("STORAGE_DRIVER=memory requires WORKER_EMBEDDED=true")
	}

	if c.App.Environment == EnvProduction && c.Storage.Driver == DriverPostgres {
		if c.Database.URL == "" && c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD must be set in production")
		}
	}

	return nil
}

// IsDevelopment reports whether the app runs in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == EnvDevelopment
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
