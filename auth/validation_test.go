package auth_test

import (
	"testing"

	"github.com/jrsteele09/anpr-client/auth"
	apperrors "github.com/jrsteele09/anpr-client/internal/errors"
	"github.com/stretchr/testify/require"
)

func TestValidator_ValidateCredentials(t *testing.T) {
	v := auth.NewValidator()

	t.Run("valid", func(t *testing.T) {
		require.NoError(t, v.ValidateCredentials(auth.Credentials{Username: "driver", Password: "pw"}))
	})

	t.Run("missing username", func(t *testing.T) {
		err := v.ValidateCredentials(auth.Credentials{Password: "pw"})
		var validationErr *auth.ValidationError
		require.ErrorAs(t, err, &validationErr)
		require.Equal(t, "username", validationErr.Field)
	})

	t.Run("blank username", func(t *testing.T) {
		require.Error(t, v.ValidateCredentials(auth.Credentials{Username: "   ", Password: "pw"}))
	})

	t.Run("missing password", func(t *testing.T) {
		err := v.ValidateCredentials(auth.Credentials{Username: "driver"})
		var validationErr *auth.ValidationError
		require.ErrorAs(t, err, &validationErr)
		require.Equal(t, "password", validationErr.Field)
	})
}

func TestValidator_ValidateDigit(t *testing.T) {
	v := auth.NewValidator()

	for _, d := range []string{"0", "5", "9"} {
		require.NoError(t, v.ValidateDigit(d), d)
	}
	for _, bad := range []string{"", "a", "12", " ", "٣", "-"} {
		err := v.ValidateDigit(bad)
		require.Error(t, err, bad)
		require.ErrorIs(t, err, apperrors.ErrInvalidDigit)
	}
}

func TestValidator_ValidateCode(t *testing.T) {
	v := auth.NewValidator()

	require.NoError(t, v.ValidateCode("419265"))
	require.ErrorIs(t, v.ValidateCode("41926"), apperrors.ErrIncompleteCode)
	require.ErrorIs(t, v.ValidateCode("41926a"), apperrors.ErrIncompleteCode)
}

func TestValidator_ValidatePendingVerification(t *testing.T) {
	v := auth.NewValidator()

	require.NoError(t, v.ValidatePendingVerification(auth.PendingVerification{UserID: 1, Username: "driver"}))
	require.Error(t, v.ValidatePendingVerification(auth.PendingVerification{Username: "driver"}))
	require.Error(t, v.ValidatePendingVerification(auth.PendingVerification{UserID: 1}))
}
