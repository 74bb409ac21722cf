package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	err := NotFound("user")
	assert.Equal(t, "NOT_FOUND: user not found", err.Error())

	wrapped := Connection("dial failed").WithError(errors.New("connection refused"))
	assert.Equal(t, "CONNECTION_ERROR: dial failed (connection refused)", wrapped.Error())
}

func TestAppError_Unwrap(t *testing.T) {
	inner := errors.New("boom")
	err := Transaction("commit failed").WithError(inner)

	assert.ErrorIs(t, err, inner)
}

func TestTypeChecks(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{"connection", Connection("unreachable"), IsConnection},
		{"duplicate key", DuplicateKey("user"), IsDuplicateKey},
		{"not found", NotFound("user"), IsNotFound},
		{"transaction", Transaction("commit failed"), IsTransaction},
		{"validation", Validation("workers must be positive"), IsValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.check(tt.err))
			assert.False(t, tt.check(errors.New("plain")))
		})
	}
}

func TestTypeChecks_ThroughWrapping(t *testing.T) {
	err := fmt.Errorf("create phase failed: %w", DuplicateKey("user"))

	assert.True(t, IsDuplicateKey(err))
	assert.False(t, IsNotFound(err))

	appErr := GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, CodeDuplicateKey, appErr.Code)
}

func TestWithDetail(t *testing.T) {
	err := NotFound("user").WithDetail("id", "42")

	assert.Equal(t, "42", err.Details["id"])
}
