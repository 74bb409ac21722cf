// Package testutil provides shared test utilities for poolbench.
package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/poolbench/poolbench/internal/domain"
	apperrors "github.com/poolbench/poolbench/internal/pkg/errors"
)

// MemStore is an in-memory record store, safe for concurrent use. It
// mirrors the error taxonomy of the real store so runner and service tests
// run without a database.
type MemStore struct {
	mu         sync.Mutex
	nextID     int64
	byID       map[int64]*domain.User
	byUsername map[string]int64
	byEmail    map[string]int64

	// FailOn makes every call of the given operation fail with FailErr.
	FailOn  domain.Operation
	FailErr error

	// Delay is applied to every operation, to make phase durations
	// observable in tests.
	Delay time.Duration
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		byID:       make(map[int64]*domain.User),
		byUsername: make(map[string]int64),
		byEmail:    make(map[string]int64),
	}
}

func (m *MemStore) fail(op domain.Operation) error {
	if m.Delay > 0 {
		time.Sleep(m.Delay)
	}
	if m.FailOn == op && m.FailErr != nil {
		return m.FailErr
	}
	return nil
}

// Create inserts a user, enforcing unique usernames and emails.
func (m *MemStore) Create(ctx context.Context, username, email string) (int64, error) {
	if err := m.fail(domain.OperationCreate); err != nil {
		return 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byUsername[username]; ok {
		return 0, apperrors.DuplicateKey("user")
	}
	if _, ok := m.byEmail[email]; ok {
		return 0, apperrors.DuplicateKey("user")
	}

	m.nextID++
	id := m.nextID
	m.byID[id] = &domain.User{ID: id, Username: username, Email: email, CreatedAt: time.Now()}
	m.byUsername[username] = id
	m.byEmail[email] = id
	return id, nil
}

// Get retrieves a user by id.
func (m *MemStore) Get(ctx context.Context, id int64) (*domain.User, error) {
	if err := m.fail(domain.OperationRead); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.byID[id]
	if !ok {
		return nil, apperrors.NotFound("user")
	}
	clone := *u
	return &clone, nil
}

// UpdateEmail changes a user's email, enforcing email uniqueness.
func (m *MemStore) UpdateEmail(ctx context.Context, id int64, newEmail string) error {
	if err := m.fail(domain.OperationUpdate); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.byID[id]
	if !ok {
		return apperrors.NotFound("user")
	}
	if other, ok := m.byEmail[newEmail]; ok && other != id {
		return apperrors.DuplicateKey("user")
	}

	delete(m.byEmail, u.Email)
	u.Email = newEmail
	m.byEmail[newEmail] = id
	return nil
}

// Delete removes a user permanently; a missing id is a not found error.
func (m *MemStore) Delete(ctx context.Context, id int64) error {
	if err := m.fail(domain.OperationDelete); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.byID[id]
	if !ok {
		return apperrors.NotFound("user")
	}

	delete(m.byUsername, u.Username)
	delete(m.byEmail, u.Email)
	delete(m.byID, id)
	return nil
}

// CountByUsernames returns how many of the given usernames exist.
func (m *MemStore) CountByUsernames(ctx context.Context, usernames []string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var count int64
	for _, username := range usernames {
		if _, ok := m.byUsername[username]; ok {
			count++
		}
	}
	return count, nil
}

// Len reports the number of rows currently stored.
func (m *MemStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byID)
}
