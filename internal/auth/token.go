// Package auth signs and validates the session cookie, and provides the
// middleware that gates the admin routes.
//
// The cookie value is a JWT whose subject is the server-side session token.
// The session itself lives in the session store — the JWT only proves the
// token left this server unmodified, so a forged or tampered cookie is
// rejected before the store is consulted at all. Expiry is enforced twice:
// the JWT expires with the session TTL, and the store checks its own
// expires_at on lookup.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sakif/blog-admin/internal/session"
)

const issuer = "blog-admin"

// TokenService signs session tokens into cookie values and validates them
// back. It holds the HMAC secret from SESSION_SECRET.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService with the given signing secret.
// The secret should be at least 32 bytes of random data in production.
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: session secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret)}, nil
}

type claims struct {
	jwt.RegisteredClaims
}

// Generate signs the session token into a cookie value. The JWT lifetime
// matches the session TTL so neither outlives the other.
func (s *TokenService) Generate(sessionToken string) (string, error) {
	if sessionToken == "" {
		return "", errors.New("auth: session token must not be empty")
	}

	now := time.Now()
	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sessionToken,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(session.TTL)),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Validate verifies a cookie value and returns the session token inside it.
//
// jwt.WithValidMethods pins the algorithm to HS256 — without it a crafted
// token could claim a different signing method and sidestep verification.
func (s *TokenService) Validate(cookieValue string) (string, error) {
	token, err := jwt.ParseWithClaims(
		cookieValue,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", fmt.Errorf("auth: token expired")
		}
		return "", fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("auth: invalid token claims")
	}
	if c.Subject == "" {
		return "", fmt.Errorf("auth: token has no subject")
	}

	return c.Subject, nil
}
