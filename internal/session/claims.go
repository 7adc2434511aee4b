package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrMalformedToken is returned when a token cannot be decoded
	ErrMalformedToken = errors.New("malformed token")
	// ErrTokenExpired is returned when a token's expiration is in the past
	ErrTokenExpired = errors.New("token expired")
)

// Claims is the decoded payload of a bearer token. The client never
// verifies the signature, that is the issuing service's job; only the
// claims are parsed.
type Claims struct {
	// Subject identifies the visitor (username)
	Subject string
	// Email is optional
	Email string
	// ExpiresAt is nil when the token carries no expiration
	ExpiresAt *time.Time
}

// Expired reports whether the claims carry an expiration at or before now.
// Claims without an expiration never expire. Comparison uses the local
// wall clock, clock skew against the issuer is accepted.
func (c *Claims) Expired(now time.Time) bool {
	if c.ExpiresAt == nil {
		return false
	}
	return !c.ExpiresAt.After(now)
}

// DecodeToken parses a bearer token's claims without signature
// verification. A token with no subject claim is treated as malformed.
func DecodeToken(raw string) (*Claims, error) {
	if raw == "" {
		return nil, ErrMalformedToken
	}

	parser := jwt.NewParser()
	token, _, err := parser.ParseUnverified(raw, jwt.MapClaims{})
	if err != nil {
		return nil, ErrMalformedToken
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrMalformedToken
	}

	sub, err := mapClaims.GetSubject()
	if err != nil || sub == "" {
		return nil, ErrMalformedToken
	}

	claims := &Claims{Subject: sub}

	if email, ok := mapClaims["email"].(string); ok {
		claims.Email = email
	}

	exp, err := mapClaims.GetExpirationTime()
	if err != nil {
		return nil, ErrMalformedToken
	}
	if exp != nil {
		t := exp.Time
		claims.ExpiresAt = &t
	}

	return claims, nil
}
