package store

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/poolbench/poolbench/internal/pkg/logger"
	"github.com/poolbench/poolbench/internal/provider"
)

// EnsureSchema creates the users table if it does not exist. It is
// idempotent and invoked once before any benchmark run.
func EnsureSchema(ctx context.Context, p provider.Provider) error {
	h, err := p.Acquire(ctx)
	if err != nil {
		return err
	}
	defer p.Release(ctx, h)

	existsQuery := `
		SELECT EXISTS (
			SELECT 1
			FROM information_schema.tables
			WHERE table_name = 'users'
		)
	`

	var exists bool
	if err := h.Conn().QueryRow(ctx, existsQuery).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check for users table: %w", err)
	}
	if exists {
		return nil
	}

	logger.Info("users table does not exist, creating", zap.String("table", "users"))

	createQuery := `
		CREATE TABLE users (
			id BIGSERIAL PRIMARY KEY,
			username VARCHAR(50) UNIQUE NOT NULL,
			email VARCHAR(100) UNIQUE NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)
	`

	if _, err := h.Conn().Exec(ctx, createQuery); err != nil {
		return fmt.Errorf("failed to create users table: %w", err)
	}

	return nil
}
