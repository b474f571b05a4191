package auth

import (
	"regexp"
	"strings"

	apperrors "github.com/jrsteele09/anpr-client/internal/errors"
)

var (
	singleDigit = regexp.MustCompile(`^[0-9]$`)
	fullCode    = regexp.MustCompile(`^[0-9]{6}$`)
)

// Validator holds the local checks run before anything reaches the network.
type Validator struct{}

// NewValidator creates a new Validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateCredentials requires a username and a password.
func (v *Validator) ValidateCredentials(c Credentials) error {
	if strings.TrimSpace(c.Username) == "" {
		return &ValidationError{Field: "username", Message: "please enter your username and password"}
	}
	if c.Password == "" {
		return &ValidationError{Field: "password", Message: "please enter your username and password"}
	}
	return nil
}

// ValidateDigit accepts exactly one character in 0-9.
func (v *Validator) ValidateDigit(value string) error {
	if !singleDigit.MatchString(value) {
		return &ValidationError{Field: "code", Message: apperrors.ErrInvalidDigit.Error(), Err: apperrors.ErrInvalidDigit}
	}
	return nil
}

// ValidateCode accepts exactly six digits.
func (v *Validator) ValidateCode(code string) error {
	if !fullCode.MatchString(code) {
		return &ValidationError{Field: "code", Message: "please enter the 6 digit code", Err: apperrors.ErrIncompleteCode}
	}
	return nil
}

// ValidatePendingVerification checks the state handed over by the login step.
func (v *Validator) ValidatePendingVerification(p PendingVerification) error {
	if p.UserID == 0 || strings.TrimSpace(p.Username) == "" {
		return &ValidationError{Field: "user", Message: "invalid user data, please sign in again"}
	}
	return nil
}
