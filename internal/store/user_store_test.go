package store

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/poolbench/poolbench/internal/pkg/errors"
)

func testUsername() string {
	return "test_" + uuid.NewString()[:8]
}

func TestUserStore_CreateAndGet(t *testing.T) {
	s, _ := getTestStore(t)
	ctx := context.Background()

	username := testUsername()
	email := username + "@test.com"
	cleanupUsers(t, s, username)
	defer cleanupUsers(t, s, username)

	id, err := s.Create(ctx, username, email)
	require.NoError(t, err)
	assert.Positive(t, id)

	user, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, user.ID)
	assert.Equal(t, username, user.Username)
	assert.Equal(t, email, user.Email)
	assert.False(t, user.CreatedAt.IsZero())
}

func TestUserStore_Create_DuplicateUsername(t *testing.T) {
	s, _ := getTestStore(t)
	ctx := context.Background()

	username := testUsername()
	cleanupUsers(t, s, username)
	defer cleanupUsers(t, s, username)

	_, err := s.Create(ctx, username, username+"@test.com")
	require.NoError(t, err)

	_, err = s.Create(ctx, username, username+"-other@test.com")
	require.Error(t, err)
	assert.True(t, apperrors.IsDuplicateKey(err))

	// the failed insert must not have left a second row
	count, err := s.CountByUsernames(ctx, []string{username})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestUserStore_Get_NotFound(t *testing.T) {
	s, _ := getTestStore(t)

	_, err := s.Get(context.Background(), -1)
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestUserStore_UpdateEmail(t *testing.T) {
	s, _ := getTestStore(t)
	ctx := context.Background()

	username := testUsername()
	cleanupUsers(t, s, username)
	defer cleanupUsers(t, s, username)

	id, err := s.Create(ctx, username, username+"@test.com")
	require.NoError(t, err)

	newEmail := "updated_" + username + "@test.com"
	require.NoError(t, s.UpdateEmail(ctx, id, newEmail))

	user, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, newEmail, user.Email)
}

func TestUserStore_UpdateEmail_NotFound(t *testing.T) {
	s, _ := getTestStore(t)

	err := s.UpdateEmail(context.Background(), -1, "nobody@test.com")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestUserStore_UpdateEmail_DuplicateEmail(t *testing.T) {
	s, _ := getTestStore(t)
	ctx := context.Background()

	first := testUsername()
	second := testUsername()
	cleanupUsers(t, s, first, second)
	defer cleanupUsers(t, s, first, second)

	_, err := s.Create(ctx, first, first+"@test.com")
	require.NoError(t, err)
	id, err := s.Create(ctx, second, second+"@test.com")
	require.NoError(t, err)

	err = s.UpdateEmail(ctx, id, first+"@test.com")
	require.Error(t, err)
	assert.True(t, apperrors.IsDuplicateKey(err))
}

func TestUserStore_Delete(t *testing.T) {
	s, _ := getTestStore(t)
	ctx := context.Background()

	username := testUsername()
	cleanupUsers(t, s, username)
	defer cleanupUsers(t, s, username)

	id, err := s.Create(ctx, username, username+"@test.com")
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, id))

	_, err = s.Get(ctx, id)
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))

	// deleting again reports not found: rows are gone for good
	err = s.Delete(ctx, id)
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestUserStore_ConcurrentCreates(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping concurrency test in short mode")
	}

	s, pool := getTestStore(t)
	ctx := context.Background()

	const n = 100

	usernames := make([]string, n)
	for i := range usernames {
		usernames[i] = fmt.Sprintf("%s_%d", testUsername(), i)
	}
	defer cleanupUsers(t, s, usernames...)

	ids := make([]int64, n)
	errs := make([]error, n)
	done := make(chan int, n)

	for i := 0; i < n; i++ {
		go func(i int) {
			ids[i], errs[i] = s.Create(ctx, usernames[i], usernames[i]+"@test.com")
			done <- i
		}(i)
	}
	for i := 0; i < n; i++ {
		<-done
	}

	seen := make(map[int64]bool, n)
	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		assert.False(t, seen[ids[i]], "duplicate id %d", ids[i])
		seen[ids[i]] = true
	}

	count, err := s.CountByUsernames(ctx, usernames)
	require.NoError(t, err)
	assert.Equal(t, int64(n), count)

	// the pool never outgrew its configured capacity
	assert.LessOrEqual(t, pool.Open(), 5)
}
