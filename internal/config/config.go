package config

import (
	"fmt"
	"time"
)

// Config holds all configuration for the benchmark
type Config struct {
	Postgres  PostgresConfig
	Benchmark BenchmarkConfig
	Report    ReportConfig
	Log       LogConfig
}

// PostgresConfig holds PostgreSQL configuration
type PostgresConfig struct {
	Host           string        `mapstructure:"host"`
	Port           int           `mapstructure:"port"`
	User           string        `mapstructure:"user"`
	Password       string        `mapstructure:"password"`
	Database       string        `mapstructure:"database"`
	SSLMode        string        `mapstructure:"ssl_mode"`
	PoolMin        int           `mapstructure:"pool_min"`
	PoolMax        int           `mapstructure:"pool_max"`
	AcquireTimeout time.Duration `mapstructure:"acquire_timeout"`
}

// DSN returns the PostgreSQL connection string
func (c PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
		c.SSLMode,
	)
}

// BenchmarkConfig holds workload configuration
type BenchmarkConfig struct {
	DataPoints int `mapstructure:"data_points"`
	Workers    int `mapstructure:"workers"`
}

// ReportConfig holds report output configuration
type ReportConfig struct {
	Dir string `mapstructure:"dir"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}
