package auth

import (
	"github.com/jrsteele09/anpr-client/apiclient"
	apperrors "github.com/jrsteele09/anpr-client/internal/errors"
	"github.com/jrsteele09/anpr-client/sessions"
)

// Materialize turns a verification response into the session to persist.
// Username comes from the pending verification, never from the server.
// Every failure is an *AuthError carrying the server's message when there is one.
func Materialize(resp apiclient.MaybeEnveloped[AuthData], username string) (sessions.AuthSession, error) {
	if resp.Rejected() {
		return sessions.AuthSession{}, &AuthError{Message: firstNonEmpty(resp.Message, genericVerifyMessage)}
	}

	data := resp.Payload
	if data != nil && data.Success != nil && !*data.Success {
		return sessions.AuthSession{}, &AuthError{Message: firstNonEmpty(data.Message, resp.Message, genericVerifyMessage)}
	}
	if data == nil || data.Token == "" {
		return sessions.AuthSession{}, &AuthError{Message: apperrors.ErrMissingToken.Error(), Err: apperrors.ErrMissingToken}
	}

	var roles []sessions.RoleByParking
	if data.RolesByParking != nil {
		roles = make([]sessions.RoleByParking, len(data.RolesByParking))
		copy(roles, data.RolesByParking)
	}
	return sessions.AuthSession{
		Version:        sessions.CurrentVersion,
		Token:          data.Token,
		Username:       username,
		UserID:         data.UserID,
		PersonID:       data.PersonID,
		RolesByParking: roles,
	}, nil
}
