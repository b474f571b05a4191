package auth

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// LoginResult is the outcome of the credential step: the server has sent a code to the user.
type LoginResult struct {
	UserID  int64
	Message string
}

// Pending builds the state the OTP flow starts from.
func (r LoginResult) Pending(c Credentials) PendingVerification {
	return PendingVerification{UserID: r.UserID, Username: c.Username, Password: c.Password}
}

// LoginFlow submits credentials and triggers the OTP dispatch. It persists nothing.
type LoginFlow struct {
	gateway   Gateway
	validator *Validator
}

func NewLoginFlow(gateway Gateway) (*LoginFlow, error) {
	if gateway == nil {
		return nil, errors.New("[NewLoginFlow] gateway is required")
	}
	return &LoginFlow{gateway: gateway, validator: NewValidator()}, nil
}

// Submit returns a *ValidationError without calling the API when a field is empty,
// and an *AuthError for every refusal or transport failure.
func (lf *LoginFlow) Submit(ctx context.Context, c Credentials) (LoginResult, error) {
	if err := lf.validator.ValidateCredentials(c); err != nil {
		return LoginResult{}, err
	}

	env, err := lf.gateway.Login(ctx, LoginRequest{Username: c.Username, Password: c.Password})
	if err != nil {
		authErr := authErrorFrom(err, "incorrect credentials or server unavailable")
		log.Err(err).Str("username", c.Username).Msg("Login failed")
		return LoginResult{}, authErr
	}
	if !env.Success {
		log.Info().Str("username", c.Username).Str("message", env.Message).Msg("Login refused")
		return LoginResult{}, &AuthError{Message: firstNonEmpty(env.Message, genericAuthMessage)}
	}
	if env.Data.UserID == 0 {
		return LoginResult{}, &AuthError{Message: "invalid server response: missing user id"}
	}

	log.Info().Str("username", c.Username).Int64("user_id", env.Data.UserID).Msg("Verification code sent")
	return LoginResult{
		UserID:  env.Data.UserID,
		Message: firstNonEmpty(env.Message, "verification code sent"),
	}, nil
}
