package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// issuer is stamped on every token and required on verification
const issuer = "ragweb"

// Manager issues and verifies HS256 API tokens
type Manager struct {
	secret []byte
}

// NewManager creates a token manager. An empty secret disables it.
func NewManager(secret string) *Manager {
	return &Manager{secret: []byte(secret)}
}

// Enabled reports whether a signing secret is configured
func (m *Manager) Enabled() bool {
	return m != nil && len(m.secret) > 0
}

// Issue signs a token for subject. A zero ttl produces a token without expiry.
func (m *Manager) Issue(subject string, ttl time.Duration) (string, error) {
	if !m.Enabled() {
		return "", errors.New("token signing secret is not configured")
	}
	if subject == "" {
		return "", errors.New("token subject is required")
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:  subject,
		Issuer:   issuer,
		IssuedAt: jwt.NewNumericDate(now),
	}
	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature, issuer and expiry, and returns the subject
func (m *Manager) Verify(tokenStr string) (string, error) {
	if !m.Enabled() {
		return "", errors.New("token signing secret is not configured")
	}

	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
	)
	if err != nil {
		return "", fmt.Errorf("invalid token: %w", err)
	}
	if claims.Subject == "" {
		return "", errors.New("invalid token: missing subject")
	}
	return claims.Subject, nil
}
