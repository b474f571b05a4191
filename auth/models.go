package auth

import "github.com/jrsteele09/anpr-client/sessions"

// Credentials are only ever held in memory.
type Credentials struct {
	Username string
	Password string
}

// PendingVerification is the state handed from a successful login to the OTP flow.
// The password is kept so the code can be resent.
type PendingVerification struct {
	UserID   int64
	Username string
	Password string
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginData struct {
	UserID int64 `json:"userId"`
}

type VerificationRequest struct {
	UserID int64  `json:"userId"`
	Code   string `json:"code"`
}

// AuthData is the session payload returned by a verification.
// Success and Message are only set when a server nests its status inside the payload.
type AuthData struct {
	Success        *bool                    `json:"success,omitempty"`
	Message        string                   `json:"message,omitempty"`
	Token          string                   `json:"token"`
	UserID         int64                    `json:"userId"`
	PersonID       int64                    `json:"personId"`
	RolesByParking []sessions.RoleByParking `json:"rolesByParking"`
}
