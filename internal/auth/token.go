// Package auth issues and validates session tokens and guards routes with them.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/festy23/teampulse/internal/config"
)

var (
	// ErrMissingToken is returned when a request carries no session token.
	ErrMissingToken = errors.New("missing session token")
	// ErrInvalidToken is returned for malformed, expired or forged tokens.
	ErrInvalidToken = errors.New("invalid session token")
)

// Claims is the session token payload.
type Claims struct {
	Login string `json:"login"`
	jwt.RegisteredClaims
}

// Tokens signs and validates HS256 session tokens.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokens creates a token service from the auth config.
func NewTokens(cfg config.AuthConfig) *Tokens {
	return &Tokens{secret: []byte(cfg.JWTSecret), ttl: cfg.TokenTTL, now: time.Now}
}

// Issue signs a token for login.
func (t *Tokens) Issue(login string) (string, error) {
	if login == "" {
		return "", fmt.Errorf("issue token: empty login")
	}
	now := t.now()
	claims := Claims{
		Login: login,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   login,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Validate parses raw and returns its claims. Every failure wraps
// ErrInvalidToken.
func (t *Tokens) Validate(raw string) (*Claims, error) {
	if raw == "" {
		return nil, ErrMissingToken
	}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(t.now),
		jwt.WithExpirationRequired(),
	)
	token, err := parser.ParseWithClaims(raw, &Claims{}, func(*jwt.Token) (any, error) {
		return t.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Login == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
