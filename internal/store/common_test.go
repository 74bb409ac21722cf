package store

import (
	"context"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/poolbench/poolbench/internal/config"
	"github.com/poolbench/poolbench/internal/provider"
)

// testPostgresConfig builds connection parameters for integration tests.
// Tests are skipped when POSTGRES_TEST_HOST is not set.
func testPostgresConfig(t *testing.T) config.PostgresConfig {
	host := os.Getenv("POSTGRES_TEST_HOST")
	if host == "" {
		t.Skip("Skipping integration test: POSTGRES_TEST_HOST not set")
	}

	cfg := config.PostgresConfig{
		Host:           host,
		Port:           5432,
		User:           os.Getenv("POSTGRES_TEST_USER"),
		Password:       os.Getenv("POSTGRES_TEST_PASS"),
		Database:       os.Getenv("POSTGRES_TEST_DB"),
		SSLMode:        "disable",
		PoolMin:        1,
		PoolMax:        5,
		AcquireTimeout: 30 * time.Second,
	}

	if port := os.Getenv("POSTGRES_TEST_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Port = p
		}
	}
	if cfg.User == "" {
		cfg.User = "postgres"
	}
	if cfg.Database == "" {
		cfg.Database = "test_poolbench"
	}

	return cfg
}

// getTestStore returns a user store over a pooled provider, or skips the
// test if the database is not available.
func getTestStore(t *testing.T) (*UserStore, *provider.Pool) {
	cfg := testPostgresConfig(t)
	ctx := context.Background()

	pool, err := provider.NewPool(ctx, provider.PgxDialer(cfg), provider.PoolConfig{
		MinConns:       cfg.PoolMin,
		MaxConns:       cfg.PoolMax,
		AcquireTimeout: cfg.AcquireTimeout,
	})
	if err != nil {
		t.Skipf("Skipping integration test: failed to connect to PostgreSQL: %v", err)
	}
	t.Cleanup(func() {
		_ = pool.Shutdown(context.Background())
	})

	s := NewUserStore(pool)
	if err := EnsureSchema(ctx, pool); err != nil {
		t.Fatalf("failed to ensure schema: %v", err)
	}

	return s, pool
}

// cleanupUsers removes test users from the database
func cleanupUsers(t *testing.T, s *UserStore, usernames ...string) {
	ctx := context.Background()
	h, err := s.provider.Acquire(ctx)
	if err != nil {
		t.Logf("cleanup: failed to acquire connection: %v", err)
		return
	}
	defer s.provider.Release(ctx, h)

	for _, username := range usernames {
		_, _ = h.Conn().Exec(ctx, "DELETE FROM users WHERE username = $1", username)
	}
}
