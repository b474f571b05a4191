package token

import (
	"fmt"
	"strconv"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// Creator signs HMAC session tokens the way the parking API issues them.
// It backs the in-process fake API; the real client only inspects tokens.
type Creator struct {
	secret []byte
	issuer string
	expiry time.Duration
}

func NewCreator(secret []byte, issuer string, expiry time.Duration) *Creator {
	return &Creator{secret: secret, issuer: issuer, expiry: expiry}
}

// CreateSessionToken issues a token for a verified user.
func (c *Creator) CreateSessionToken(userID, personID int64) (string, error) {
	now := NowTimeFunc()
	claims := jwtlib.MapClaims{
		"iss":      c.issuer,
		"sub":      strconv.FormatInt(userID, 10),
		"personId": personID,
		"iat":      now.Unix(),
		"exp":      now.Add(c.expiry).Unix(),
		"jti":      uuid.New().String(),
	}
	signed, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and expiry of a token created by this Creator.
func (c *Creator) Verify(rawToken string) (*Claims, error) {
	parsed, err := jwtlib.Parse(rawToken, func(t *jwtlib.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwtlib.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return c.secret, nil
	}, jwtlib.WithIssuer(c.issuer), jwtlib.WithTimeFunc(NowTimeFunc))
	if err != nil {
		return nil, errors.Wrap(err, "[Creator.Verify]")
	}
	mapClaims, ok := parsed.Claims.(jwtlib.MapClaims)
	if !ok || !parsed.Valid {
		return nil, errors.New("[Creator.Verify] invalid token")
	}
	return claimsFromMap(mapClaims), nil
}
