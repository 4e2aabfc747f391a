// Package errors provides error types and handling for vpnforge.
// It maps every failure onto a small taxonomy so the orchestrator can apply
// fail-fast or fail-soft policy without inspecting provider-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// AppError represents an application error tagged with a taxonomy code.
type AppError struct {
	// Code is the taxonomy code for programmatic handling
	Code string
	// Message is a user-friendly error message
	Message string
	// Resource is the logical resource name the error relates to, if any
	Resource string
	// ID is the remote identifier involved, if any
	ID string
	// Cause is the underlying error (for error wrapping)
	Cause error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	subject := e.Message
	if e.Resource != "" {
		subject = fmt.Sprintf("%s [%s", subject, e.Resource)
		if e.ID != "" {
			subject += " " + e.ID
		}
		subject += "]"
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", subject, e.Cause)
	}
	return subject
}

// Unwrap returns the underlying error for error unwrapping.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is allows errors.Is to work with AppError.
func (e *AppError) Is(target error) bool {
	if t, ok := target.(*AppError); ok {
		return e.Code != "" && e.Code == t.Code
	}
	return false
}

// WithResource returns a copy of the error annotated with a logical resource and identifier.
func (e *AppError) WithResource(resource, id string) *AppError {
	c := *e
	c.Resource = resource
	c.ID = id
	return &c
}

// Error taxonomy codes.
const (
	// ErrCodeDependencyMissing means a step needed an upstream identifier that is absent.
	ErrCodeDependencyMissing = "DEPENDENCY_MISSING"
	// ErrCodeRemoteRejected means the remote service declined the call.
	ErrCodeRemoteRejected = "REMOTE_REJECTED"
	// ErrCodeAlreadyAbsent means the target of a destructive call no longer exists.
	ErrCodeAlreadyAbsent = "ALREADY_ABSENT"
	// ErrCodeConvergenceTimeout means a bounded wait elapsed before the remote state converged.
	ErrCodeConvergenceTimeout = "CONVERGENCE_TIMEOUT"
	// ErrCodeInvalidInput means operator input or configuration is inconsistent.
	ErrCodeInvalidInput = "INVALID_INPUT"
	// ErrCodeLedgerError means the ledger could not be read or written.
	ErrCodeLedgerError = "LEDGER_ERROR"
)

// Sentinels usable with errors.Is.
var (
	DependencyMissing  = &AppError{Code: ErrCodeDependencyMissing}
	RemoteRejected     = &AppError{Code: ErrCodeRemoteRejected}
	AlreadyAbsent      = &AppError{Code: ErrCodeAlreadyAbsent}
	ConvergenceTimeout = &AppError{Code: ErrCodeConvergenceTimeout}
	InvalidInput       = &AppError{Code: ErrCodeInvalidInput}
	LedgerError        = &AppError{Code: ErrCodeLedgerError}
)

// New creates an AppError with the given code.
func New(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// ErrDependencyMissing creates a dependency-missing error for the step named by resource.
func ErrDependencyMissing(resource, dependency string) *AppError {
	return &AppError{
		Code:     ErrCodeDependencyMissing,
		Message:  fmt.Sprintf("required %s is not recorded", dependency),
		Resource: resource,
	}
}

// ErrRemoteRejected creates a remote-rejected error.
func ErrRemoteRejected(message string, cause error) *AppError {
	return New(ErrCodeRemoteRejected, message, cause)
}

// ErrAlreadyAbsent creates an already-absent error.
func ErrAlreadyAbsent(message string, cause error) *AppError {
	return New(ErrCodeAlreadyAbsent, message, cause)
}

// ErrConvergenceTimeout creates a convergence-timeout error.
func ErrConvergenceTimeout(message string, cause error) *AppError {
	return New(ErrCodeConvergenceTimeout, message, cause)
}

// ErrInvalidInput creates an invalid-input error.
func ErrInvalidInput(message string, cause error) *AppError {
	return New(ErrCodeInvalidInput, message, cause)
}

// ErrLedger creates a ledger persistence error.
func ErrLedger(message string, cause error) *AppError {
	return New(ErrCodeLedgerError, message, cause)
}

// GetErrorCode extracts the error code from an error.
// Returns empty string if the error is not an AppError.
func GetErrorCode(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// GetErrorMessage extracts a user-friendly message from an error.
func GetErrorMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}

// GetErrorDetails extracts detailed error information including the underlying cause.
// Returns the underlying error message if available, otherwise returns the main error message.
func GetErrorDetails(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		if appErr.Cause != nil {
			return appErr.Cause.Error()
		}
		return appErr.Message
	}
	return err.Error()
}

// IsAlreadyAbsent reports whether err says the remote resource no longer exists.
func IsAlreadyAbsent(err error) bool {
	return errors.Is(err, AlreadyAbsent)
}

// IsConvergenceTimeout reports whether err is a bounded wait that elapsed.
func IsConvergenceTimeout(err error) bool {
	return errors.Is(err, ConvergenceTimeout)
}
