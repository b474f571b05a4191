package token

import (
	"strconv"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// Claims is the subset of session token claims the client cares about.
type Claims struct {
	Subject   string
	UserID    int64
	PersonID  int64
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Expired reports whether the token carries an expiry that is before now.
func (c *Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && now.After(c.ExpiresAt)
}

// Inspect reads the claims of a JWT session token without verifying its signature.
// The client never holds the signing key; the server stays the authority on validity.
func Inspect(rawToken string) (*Claims, error) {
	if strings.TrimSpace(rawToken) == "" {
		return nil, errors.New("[token.Inspect] empty token")
	}
	parsed, _, err := jwtlib.NewParser().ParseUnverified(rawToken, jwtlib.MapClaims{})
	if err != nil {
		return nil, errors.Wrap(err, "[token.Inspect] ParseUnverified")
	}
	mapClaims, ok := parsed.Claims.(jwtlib.MapClaims)
	if !ok {
		return nil, errors.New("[token.Inspect] error extracting claims")
	}
	return claimsFromMap(mapClaims), nil
}

// ExpiresAt returns the expiry of a JWT session token. Opaque tokens report false.
func ExpiresAt(rawToken string) (time.Time, bool) {
	claims, err := Inspect(rawToken)
	if err != nil || claims.ExpiresAt.IsZero() {
		return time.Time{}, false
	}
	return claims.ExpiresAt, true
}

func claimsFromMap(m jwtlib.MapClaims) *Claims {
	c := &Claims{}
	c.Subject, _ = m.GetSubject()
	if exp, err := m.GetExpirationTime(); err == nil && exp != nil {
		c.ExpiresAt = exp.Time
	}
	if iat, err := m.GetIssuedAt(); err == nil && iat != nil {
		c.IssuedAt = iat.Time
	}
	if id, err := strconv.ParseInt(c.Subject, 10, 64); err == nil {
		c.UserID = id
	}
	if personID, ok := m["personId"].(float64); ok {
		c.PersonID = int64(personID)
	}
	return c
}
