package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"

	apperrors "github.com/poolbench/poolbench/internal/pkg/errors"
)

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Read from environment variables
	v.SetEnvPrefix("")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Optionally read from config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// Ignore error if config file not found
	_ = v.ReadInConfig()

	var cfg Config

	// PostgreSQL
	cfg.Postgres.Host = v.GetString("postgres_host")
	cfg.Postgres.Port = v.GetInt("postgres_port")
	cfg.Postgres.User = v.GetString("postgres_user")
	cfg.Postgres.Password = v.GetString("postgres_password")
	cfg.Postgres.Database = v.GetString("postgres_db")
	cfg.Postgres.SSLMode = v.GetString("postgres_ssl_mode")
	cfg.Postgres.PoolMin = v.GetInt("postgres_pool_min")
	cfg.Postgres.PoolMax = v.GetInt("postgres_pool_max")
	cfg.Postgres.AcquireTimeout = v.GetDuration("postgres_acquire_timeout")

	// Benchmark workload
	cfg.Benchmark.DataPoints = v.GetInt("bench_data_points")
	cfg.Benchmark.Workers = v.GetInt("bench_workers")

	// Report
	cfg.Report.Dir = v.GetString("report_dir")

	// Logging
	cfg.Log.Level = v.GetString("log_level")
	cfg.Log.Format = v.GetString("log_format")

	// Validate required fields
	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// PostgreSQL defaults
	v.SetDefault("postgres_host", "localhost")
	v.SetDefault("postgres_port", 5432)
	v.SetDefault("postgres_user", "postgres")
	v.SetDefault("postgres_password", "")
	v.SetDefault("postgres_db", "poolbench")
	v.SetDefault("postgres_ssl_mode", "disable")
	v.SetDefault("postgres_pool_min", 1)
	v.SetDefault("postgres_pool_max", 50)
	v.SetDefault("postgres_acquire_timeout", 30*time.Second)

	// Benchmark defaults, matching the workload under study
	v.SetDefault("bench_data_points", 1000)
	v.SetDefault("bench_workers", 50)

	// Report defaults
	v.SetDefault("report_dir", "reports")

	// Logging defaults
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")
}

// Validate checks the configuration for invalid combinations
func Validate(cfg *Config) error {
	if cfg.Postgres.Host == "" {
		return apperrors.Validation("postgres host is required")
	}
	if cfg.Postgres.Database == "" {
		return apperrors.Validation("postgres database is required")
	}
	if cfg.Benchmark.DataPoints < 0 {
		return apperrors.Validation("data points must not be negative")
	}
	if cfg.Benchmark.Workers < 1 {
		return apperrors.Validation("workers must be at least 1")
	}
	if cfg.Postgres.PoolMin < 1 {
		return apperrors.Validation("pool min must be at least 1")
	}
	if cfg.Postgres.PoolMax < cfg.Postgres.PoolMin {
		return apperrors.Validation("pool max must not be smaller than pool min")
	}
	if cfg.Postgres.AcquireTimeout <= 0 {
		return apperrors.Validation("acquire timeout must be positive")
	}
	return nil
}
