// Package provider implements the connection acquisition strategies under
// study: a direct variant that opens a fresh connection per operation, and a
// pooled variant that reuses handles from a bounded free list.
package provider

import (
	"context"
	"sync/atomic"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/poolbench/poolbench/internal/config"
	apperrors "github.com/poolbench/poolbench/internal/pkg/errors"
)

// Conn is the subset of *pgx.Conn the benchmark exercises.
type Conn interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Close(ctx context.Context) error
}

// Dialer opens a physical connection to the store.
type Dialer func(ctx context.Context) (Conn, error)

// PgxDialer returns a Dialer that opens pgx connections for the given config.
func PgxDialer(cfg config.PostgresConfig) Dialer {
	dsn := cfg.DSN()
	return func(ctx context.Context) (Conn, error) {
		conn, err := pgx.Connect(ctx, dsn)
		if err != nil {
			return nil, apperrors.Connection("failed to connect to postgres").WithError(err)
		}
		return conn, nil
	}
}

// Handle is an active session with the store, exclusively owned by the
// caller between Acquire and Release. Handles are never shared between
// concurrent tasks.
type Handle struct {
	conn Conn

	// released flips once per ownership interval, making Release
	// idempotent per handle. The pool resets it on checkout.
	released atomic.Bool
}

// Conn returns the underlying connection.
func (h *Handle) Conn() Conn {
	return h.conn
}

// Provider yields and reclaims connection handles.
type Provider interface {
	// Name identifies the variant in results and logs.
	Name() string
	// Acquire returns a handle owned exclusively by the caller. It fails
	// with a connection error when the store is unreachable or, for the
	// pooled variant, when no handle frees up within the wait policy.
	Acquire(ctx context.Context) (*Handle, error)
	// Release returns the handle. Releasing the same handle twice is a
	// no-op.
	Release(ctx context.Context, h *Handle)
}
