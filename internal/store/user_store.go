// Package store implements the user record store the benchmark drives.
// Every operation is a scoped acquisition: a connection is acquired from the
// provider, exactly one statement runs, and the connection is released on
// every exit path.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/poolbench/poolbench/internal/domain"
	apperrors "github.com/poolbench/poolbench/internal/pkg/errors"
	"github.com/poolbench/poolbench/internal/pkg/metrics"
	"github.com/poolbench/poolbench/internal/provider"
)

// uniqueViolation is the PostgreSQL SQLSTATE for unique constraint violations
const uniqueViolation = "23505"

// UserStore handles user data operations against a connection provider
type UserStore struct {
	provider provider.Provider
}

// NewUserStore creates a user store bound to a provider variant
func NewUserStore(p provider.Provider) *UserStore {
	return &UserStore{provider: p}
}

// Create inserts a new user and returns the id assigned by the store. A
// username or email collision fails with a duplicate key error; the
// transaction is rolled back on any failure.
func (s *UserStore) Create(ctx context.Context, username, email string) (id int64, err error) {
	defer s.observe(domain.OperationCreate, time.Now(), &err)

	h, err := s.provider.Acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer s.provider.Release(ctx, h)

	tx, err := h.Conn().Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}

	query := `INSERT INTO users (username, email) VALUES ($1, $2) RETURNING id`

	if err := tx.QueryRow(ctx, query, username, email).Scan(&id); err != nil {
		_ = tx.Rollback(ctx)
		return 0, mapError(err, "user")
	}

	if err := tx.Commit(ctx); err != nil {
		_ = tx.Rollback(ctx)
		return 0, apperrors.Transaction("failed to commit user creation").WithError(err)
	}

	return id, nil
}

// Get retrieves a user by id. A missing id fails with a not found error.
func (s *UserStore) Get(ctx context.Context, id int64) (user *domain.User, err error) {
	defer s.observe(domain.OperationRead, time.Now(), &err)

	h, err := s.provider.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer s.provider.Release(ctx, h)

	query := `SELECT id, username, email, created_at FROM users WHERE id = $1`

	var u domain.User
	err = h.Conn().QueryRow(ctx, query, id).Scan(&u.ID, &u.Username, &u.Email, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("user")
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &u, nil
}

// UpdateEmail changes a user's email. A missing id fails with a not found
// error and an email collision with a duplicate key error; the transaction
// is rolled back on any failure.
func (s *UserStore) UpdateEmail(ctx context.Context, id int64, newEmail string) (err error) {
	defer s.observe(domain.OperationUpdate, time.Now(), &err)

	h, err := s.provider.Acquire(ctx)
	if err != nil {
		return err
	}
	defer s.provider.Release(ctx, h)

	tx, err := h.Conn().Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	query := `UPDATE users SET email = $1 WHERE id = $2`

	tag, err := tx.Exec(ctx, query, newEmail, id)
	if err != nil {
		_ = tx.Rollback(ctx)
		return mapError(err, "user")
	}
	if tag.RowsAffected() == 0 {
		_ = tx.Rollback(ctx)
		return apperrors.NotFound("user")
	}

	if err := tx.Commit(ctx); err != nil {
		_ = tx.Rollback(ctx)
		return apperrors.Transaction("failed to commit email update").WithError(err)
	}

	return nil
}

// Delete removes a user permanently; there is no tombstone. Deleting an id
// that does not exist fails with a not found error.
func (s *UserStore) Delete(ctx context.Context, id int64) (err error) {
	defer s.observe(domain.OperationDelete, time.Now(), &err)

	h, err := s.provider.Acquire(ctx)
	if err != nil {
		return err
	}
	defer s.provider.Release(ctx, h)

	tx, err := h.Conn().Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	query := `DELETE FROM users WHERE id = $1`

	tag, err := tx.Exec(ctx, query, id)
	if err != nil {
		_ = tx.Rollback(ctx)
		return mapError(err, "user")
	}
	if tag.RowsAffected() == 0 {
		_ = tx.Rollback(ctx)
		return apperrors.NotFound("user")
	}

	if err := tx.Commit(ctx); err != nil {
		_ = tx.Rollback(ctx)
		return apperrors.Transaction("failed to commit user deletion").WithError(err)
	}

	return nil
}

// CountByUsernames returns how many of the given usernames exist
func (s *UserStore) CountByUsernames(ctx context.Context, usernames []string) (int64, error) {
	h, err := s.provider.Acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer s.provider.Release(ctx, h)

	query := `SELECT COUNT(*) FROM users WHERE username = ANY($1)`

	var count int64
	if err := h.Conn().QueryRow(ctx, query, usernames).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}

	return count, nil
}

// observe records operation metrics; err must point at the named return
func (s *UserStore) observe(op domain.Operation, start time.Time, err *error) {
	metrics.RecordOperation(string(op), time.Since(start), *err)
}

// mapError translates driver errors into the application taxonomy
func mapError(err error, resource string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return apperrors.DuplicateKey(resource).WithError(err)
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NotFound(resource)
	}
	return fmt.Errorf("statement failed: %w", err)
}
