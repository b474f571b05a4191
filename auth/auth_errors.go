package auth

import (
	"fmt"

	"github.com/jrsteele09/anpr-client/apiclient"
	apperrors "github.com/jrsteele09/anpr-client/internal/errors"
)

const (
	genericAuthMessage   = "authentication failed"
	genericVerifyMessage = "incorrect or expired code"
)

// ValidationError is a local check that failed before any network call.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// AuthError is a login or verification the server refused, or a response the client could not use.
type AuthError struct {
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	return e.Message
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// authErrorFrom re-expresses a gateway failure as an AuthError, keeping the extracted payload message.
func authErrorFrom(err error, fallback string) *AuthError {
	var authErr *AuthError
	if apperrors.As(err, &authErr) {
		return authErr
	}
	var transportErr *apiclient.TransportError
	if apperrors.As(err, &transportErr) && transportErr.Message != "" {
		return &AuthError{Message: transportErr.Message, Err: err}
	}
	return &AuthError{Message: fallback, Err: err}
}

// UserMessage returns the text to show the user for an error returned by the flows.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var validationErr *ValidationError
	if apperrors.As(err, &validationErr) {
		return validationErr.Message
	}
	var authErr *AuthError
	if apperrors.As(err, &authErr) {
		return authErr.Message
	}
	var transportErr *apiclient.TransportError
	if apperrors.As(err, &transportErr) {
		return transportErr.Message
	}
	var refusedErr *apiclient.RefusedError
	if apperrors.As(err, &refusedErr) {
		return refusedErr.Error()
	}
	return apiclient.FallbackMessage
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
