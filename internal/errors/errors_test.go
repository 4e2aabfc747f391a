package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		expected string
	}{
		{
			name: "error with cause",
			err: &AppError{
				Code:    ErrCodeRemoteRejected,
				Message: "failed to create VPC",
				Cause:   errors.New("VpcLimitExceeded"),
			},
			expected: "failed to create VPC: VpcLimitExceeded",
		},
		{
			name: "error without cause",
			err: &AppError{
				Code:    ErrCodeInvalidInput,
				Message: "region is required",
			},
			expected: "region is required",
		},
		{
			name: "error with resource and id",
			err: &AppError{
				Code:     ErrCodeAlreadyAbsent,
				Message:  "resource not found",
				Resource: "subnet",
				ID:       "subnet-123",
			},
			expected: "resource not found [subnet subnet-123]",
		},
		{
			name:     "dependency missing",
			err:      ErrDependencyMissing("route_table", "internet_gateway"),
			expected: "required internet_gateway is not recorded [route_table]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := ErrRemoteRejected("something went wrong", cause)

	assert.Equal(t, cause, err.Unwrap())
	assert.ErrorIs(t, err, cause)
}

func TestAppError_Is(t *testing.T) {
	t.Run("matches by code through wrapping", func(t *testing.T) {
		err := fmt.Errorf("teardown: %w", ErrAlreadyAbsent("gone", nil))

		assert.True(t, errors.Is(err, AlreadyAbsent))
		assert.False(t, errors.Is(err, RemoteRejected))
	})

	t.Run("plain errors never match", func(t *testing.T) {
		assert.False(t, errors.Is(errors.New("boom"), AlreadyAbsent))
	})
}

func TestWithResource(t *testing.T) {
	base := ErrConvergenceTimeout("instance did not reach running", nil)
	annotated := base.WithResource("instance", "i-123")

	assert.Empty(t, base.Resource)
	assert.Equal(t, "instance", annotated.Resource)
	assert.Equal(t, "i-123", annotated.ID)
	assert.True(t, IsConvergenceTimeout(annotated))
}

func TestHelpers(t *testing.T) {
	t.Run("GetErrorCode", func(t *testing.T) {
		assert.Equal(t, ErrCodeLedgerError, GetErrorCode(ErrLedger("x", nil)))
		assert.Empty(t, GetErrorCode(errors.New("x")))
	})

	t.Run("GetErrorMessage", func(t *testing.T) {
		assert.Equal(t, "bad cidr", GetErrorMessage(ErrInvalidInput("bad cidr", errors.New("parse"))))
		assert.Equal(t, "plain", GetErrorMessage(errors.New("plain")))
	})

	t.Run("GetErrorDetails", func(t *testing.T) {
		assert.Equal(t, "parse", GetErrorDetails(ErrInvalidInput("bad cidr", errors.New("parse"))))
		assert.Equal(t, "bad cidr", GetErrorDetails(ErrInvalidInput("bad cidr", nil)))
	})

	t.Run("IsAlreadyAbsent", func(t *testing.T) {
		require.True(t, IsAlreadyAbsent(ErrAlreadyAbsent("gone", nil)))
		require.False(t, IsAlreadyAbsent(ErrRemoteRejected("denied", nil)))
	})
}
