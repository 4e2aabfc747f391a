package testutil

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"

	appErrors "github.com/vpnforge/vpnforge/internal/errors"
)

// AssertErrorType checks if the error is of a specific type using errors.Is.
func AssertErrorType(t *testing.T, err, target error, _ ...any) bool {
	t.Helper()
	if !stderrors.Is(err, target) {
		return assert.Fail(t, "Error type mismatch", "Expected error type %v, got %v", target, err)
	}
	return true
}

// AssertAppErrorCode checks if the error has a specific error code.
func AssertAppErrorCode(t *testing.T, err error, expectedCode string, _ ...any) bool {
	t.Helper()
	code := appErrors.GetErrorCode(err)
	if code != expectedCode {
		return assert.Fail(t, "Error code mismatch", "Expected error code %q, got %q", expectedCode, code)
	}
	return true
}

// AssertLedgerNames checks the created entries of a ledger, in creation order.
func AssertLedgerNames(t *testing.T, l interface{ Names() []string }, expected ...string) bool {
	t.Helper()
	return assert.Equal(t, expected, l.Names())
}
