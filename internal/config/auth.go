package config

import (
	"fmt"
	"time"
)

// AuthConfig holds session token settings.
type AuthConfig struct {
	// JWTSecret signs session tokens (HS256).
	JWTSecret string
	// TokenTTL is the lifetime of issued tokens.
	TokenTTL time.Duration
	// LoginURL is where unauthenticated page requests are redirected.
	LoginURL string
	// CookieName is the cookie carrying the session token.
	CookieName string
}

// LoadAuthConfigFromEnv loads auth configuration from environment variables.
func LoadAuthConfigFromEnv() AuthConfig {
	return AuthConfig{
		JWTSecret:  GetEnv("AUTH_JWT_SECRET", ""),
		TokenTTL:   GetEnvDuration("AUTH_TOKEN_TTL", 24*time.Hour),
		LoginURL:   GetEnv("AUTH_LOGIN_URL", "/login"),
		CookieName: GetEnv("AUTH_COOKIE_NAME", "session"),
	}
}

// Validate validates auth configuration.
func (c AuthConfig) Validate() error {
	if len(c.JWTSecret) < 16 {
		return fmt.Errorf("AUTH_JWT_SECRET must be at least 16 characters")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TokenTTL must be greater than 0")
	}
	if c.CookieName == "" {
		return fmt.Errorf("CookieName must not be empty")
	}
	return nil
}
