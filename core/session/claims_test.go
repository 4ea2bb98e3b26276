package session_test

import (
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"

	"github.com/trezcool/bosvote/core/session"
)

func signedToken(t *testing.T, claims *session.Claims) string {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("backend-only-secret"))
	if err != nil {
		t.Fatalf("signedToken() failed: %v", err)
	}
	return token
}

func TestClaimsDecode(t *testing.T) {
	now := time.Now()
	sess := session.Session{
		Token: signedToken(t, &session.Claims{
			StandardClaims: jwt.StandardClaims{Subject: "123", ExpiresAt: now.Add(time.Hour).Unix()},
			Username:       "alice",
			Roles:          []string{session.RoleController},
		}),
	}

	claims, err := sess.Claims()
	if err != nil {
		t.Fatalf("Claims() failed: %v", err)
	}
	assert.Equal(t, "123", claims.Subject)
	assert.Equal(t, "alice", claims.Username)
	assert.False(t, claims.Expired(now))
	assert.True(t, claims.Expired(now.Add(2*time.Hour)))
}

func TestClaimsOpaqueToken(t *testing.T) {
	sess := session.Session{Token: "not-a-jwt"}
	_, err := sess.Claims()
	assert.Error(t, err)
}

func TestClaimsNoExpiry(t *testing.T) {
	sess := session.Session{Token: signedToken(t, &session.Claims{Username: "bob"})}
	claims, err := sess.Claims()
	if err != nil {
		t.Fatalf("Claims() failed: %v", err)
	}
	assert.False(t, claims.Expired(time.Now()))
}
