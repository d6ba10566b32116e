package errors

import (
	"errors"
	"fmt"
)

// Common error types for the Ditto client
var (
	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrMissingFields      = errors.New("missing required fields")
	ErrEmailUsed          = errors.New("email already in use")

	// Session errors
	ErrNoSession           = errors.New("no stored session")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
	ErrRefreshFailed       = errors.New("token refresh failed")

	// Upload errors
	ErrUploadCancelled = errors.New("upload cancelled")
	ErrEmptyFile       = errors.New("empty file")
	ErrFileTooLarge    = errors.New("file too large")
	ErrFileType        = errors.New("unsupported file type")

	// General errors
	ErrNotFound = errors.New("not found")
	ErrInternal = errors.New("internal error")
)

// Code is a machine-readable error code returned by the Ditto backend.
// Clients switch on codes, never on message text.
type Code string

const (
	CodeInvalidCredentials Code = "invalid_credentials"
	CodeMissingFields      Code = "missing_fields"
	CodeEmailUsed          Code = "email_used"
	CodeNotFound           Code = "not_found"
	CodeInternal           Code = "internal"
)

// SentinelFor maps a backend error code to its sentinel error.
// Unknown codes map to ErrInternal.
func SentinelFor(code Code) error {
	switch code {
	case CodeInvalidCredentials:
		return ErrInvalidCredentials
	case CodeMissingFields:
		return ErrMissingFields
	case CodeEmailUsed:
		return ErrEmailUsed
	case CodeNotFound:
		return ErrNotFound
	default:
		return ErrInternal
	}
}

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
