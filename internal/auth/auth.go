// Package auth resolves the caller identity that every action receives.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// Caller is the identity on whose behalf an action runs. The zero value is an
// anonymous caller.
type Caller struct {
	UserID string
}

// Anonymous returns a caller without a user.
func Anonymous() Caller {
	return Caller{}
}

// User returns a caller for userID.
func User(userID string) Caller {
	return Caller{UserID: strings.TrimSpace(userID)}
}

// Authenticated reports whether the caller carries a user ID.
func (c Caller) Authenticated() bool {
	return c.UserID != ""
}

// TokenConfig defines how session tokens are signed and verified.
type TokenConfig struct {
	Secret []byte
	Issuer string
	TTL    time.Duration
	Now    func() time.Time
}

func (c TokenConfig) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

func (c TokenConfig) check() error {
	if len(c.Secret) == 0 {
		return errors.New("token signing secret is not configured")
	}
	if c.Issuer == "" {
		return errors.New("token issuer is not configured")
	}
	return nil
}

// IssueToken signs an HS256 token whose subject is userID.
func IssueToken(cfg TokenConfig, userID string) (string, error) {
	if err := cfg.check(); err != nil {
		return "", err
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return "", errors.New("user id is required")
	}

	now := cfg.now().UTC()
	claims := jwt.RegisteredClaims{
		Issuer:   cfg.Issuer,
		Subject:  userID,
		IssuedAt: jwt.NewNumericDate(now),
	}
	if cfg.TTL > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(cfg.TTL))
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(cfg.Secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ParseToken verifies token and returns its caller.
func ParseToken(cfg TokenConfig, token string) (Caller, error) {
	if err := cfg.check(); err != nil {
		return Caller{}, err
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return Caller{}, fmt.Errorf("%w: token is empty", ErrInvalidToken)
	}

	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return cfg.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(cfg.Issuer),
		jwt.WithTimeFunc(cfg.now),
	)
	if err != nil {
		return Caller{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	caller := User(claims.Subject)
	if !caller.Authenticated() {
		return Caller{}, fmt.Errorf("%w: subject is required", ErrInvalidToken)
	}
	return caller, nil
}

// CallerFromHeader resolves an Authorization header value. A missing header
// yields an anonymous caller and no error.
func CallerFromHeader(cfg TokenConfig, header string) (Caller, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return Anonymous(), nil
	}

	token, ok := cutPrefixFold(header, "Bearer ")
	if !ok {
		return Anonymous(), fmt.Errorf("%w: expected bearer scheme", ErrInvalidToken)
	}
	return ParseToken(cfg, token)
}

func cutPrefixFold(s, prefix string) (string, bool) {
	if len(s) < len(prefix) || !strings.EqualFold(s[:len(prefix)], prefix) {
		return s, false
	}
	return s[len(prefix):], true
}
