package runner

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poolbench/poolbench/internal/domain"
	apperrors "github.com/poolbench/poolbench/internal/pkg/errors"
	"github.com/poolbench/poolbench/internal/testutil"
)

func TestRunner_Run(t *testing.T) {
	store := testutil.NewMemStore()
	store.Delay = time.Microsecond

	r := New(store, "direct", 10, 5)
	result, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "direct", result.Provider)
	assert.Equal(t, 10, result.DataPoints)
	assert.Equal(t, 5, result.Workers)

	require.Len(t, result.Phases, 4)
	for _, op := range domain.Operations {
		phase, ok := result.Phases[op]
		require.True(t, ok, "missing %s phase", op)
		assert.Equal(t, op, phase.Operation)
		assert.Positive(t, phase.Duration, "%s phase duration", op)
	}
	assert.Positive(t, result.Total())

	// the delete phase removed every created record
	assert.Equal(t, 0, store.Len())
	count, err := store.CountByUsernames(context.Background(), r.Usernames())
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestRunner_Run_ZeroDataPoints(t *testing.T) {
	store := testutil.NewMemStore()

	r := New(store, "pooled", 0, 4)
	result, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Len(t, result.Phases, 4)
	assert.Equal(t, 0, store.Len())
}

func TestRunner_Run_ManyRecordsDistinctIDs(t *testing.T) {
	store := testutil.NewMemStore()

	const n = 1000
	r := New(store, "pooled", n, 50)

	// run create only, by failing the read phase after the barrier
	store.FailOn = domain.OperationRead
	store.FailErr = apperrors.Connection("stop here")

	_, err := r.Run(context.Background())
	require.Error(t, err)

	// every create completed with a distinct username and id
	assert.Equal(t, n, store.Len())
	count, err := store.CountByUsernames(context.Background(), r.Usernames())
	require.NoError(t, err)
	assert.Equal(t, int64(n), count)
}

func TestRunner_Run_PhaseFailureHaltsRun(t *testing.T) {
	store := testutil.NewMemStore()
	store.FailOn = domain.OperationUpdate
	store.FailErr = apperrors.DuplicateKey("user")

	r := New(store, "direct", 20, 4)
	result, err := r.Run(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "update phase failed")
	assert.True(t, apperrors.IsDuplicateKey(err))

	// create and read completed, delete never started
	assert.Contains(t, result.Phases, domain.OperationCreate)
	assert.Contains(t, result.Phases, domain.OperationRead)
	assert.Contains(t, result.Phases, domain.OperationUpdate)
	assert.NotContains(t, result.Phases, domain.OperationDelete)

	// no rows were deleted: the failed phase still left all records behind
	assert.Equal(t, 20, store.Len())
}

func TestRunner_Run_FailureDoesNotAbandonPeers(t *testing.T) {
	store := testutil.NewMemStore()
	store.FailOn = domain.OperationDelete
	store.FailErr = apperrors.Connection("store went away")

	const n = 50
	r := New(store, "direct", n, 10)
	_, err := r.Run(context.Background())
	require.Error(t, err)

	// every create/read/update task ran despite the delete failures;
	// all rows still present since every delete failed
	assert.Equal(t, n, store.Len())
}

func TestRunner_GeneratesUniqueUsernames(t *testing.T) {
	store := testutil.NewMemStore()

	const n = 500
	r := New(store, "direct", n, 25)
	_, err := r.Run(context.Background())
	require.NoError(t, err)

	usernames := r.Usernames()
	require.Len(t, usernames, n)

	seen := make(map[string]bool, n)
	for _, u := range usernames {
		assert.False(t, seen[u], "duplicate username %s", u)
		seen[u] = true
	}
}
