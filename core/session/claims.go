package session

import (
	"time"

	"github.com/dgrijalva/jwt-go"
)

// Claims are the authorization claims transmitted via the session JWT.
// The signing key lives on the backend, so the client can only do an
// unverified decode; claims are display/staleness hints, never authority.
type Claims struct {
	jwt.StandardClaims
	Username string   `json:"username,omitempty"`
	Roles    []string `json:"roles,omitempty"`
}

func (c *Claims) Expired(now time.Time) bool {
	if c.ExpiresAt == 0 {
		return false
	}
	return now.Unix() >= c.ExpiresAt
}

// Claims decodes the session token without verifying its signature.
// An empty or opaque (non-JWT) token yields an error; callers treat
// that as "no hints available", not as a broken session.
func (s Session) Claims() (*Claims, error) {
	parser := &jwt.Parser{}
	claims := new(Claims)
	if _, _, err := parser.ParseUnverified(s.Token, claims); err != nil {
		return nil, err
	}
	return claims, nil
}
