package errors

import (
	"errors"
)

// Common error types for the parking client
var (
	// Session errors
	ErrNoSession          = errors.New("no session stored")
	ErrUnsupportedVersion = errors.New("unsupported session version")
	ErrMissingToken       = errors.New("invalid session: missing token")

	// API errors
	ErrInvalidResponse = errors.New("invalid server response")

	// OTP errors
	ErrIncompleteCode = errors.New("the 6 digit code is incomplete")
	ErrInvalidDigit   = errors.New("only a single digit is allowed")
	ErrResendDisabled = errors.New("resend is not available yet")
	ErrFlowClosed     = errors.New("verification flow closed")

	// General errors
	ErrNotFound = errors.New("not found")
)

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
