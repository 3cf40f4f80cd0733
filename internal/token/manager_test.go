package token

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestIssueVerify(t *testing.T) {
	m := NewManager("test-secret")

	tok, err := m.Issue("ci-bot", time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	subject, err := m.Verify(tok)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if subject != "ci-bot" {
		t.Errorf("subject = %q", subject)
	}
}

func TestVerify_Rejects(t *testing.T) {
	m := NewManager("test-secret")

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "bot",
		Issuer:    issuer,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	}).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := m.Verify(expired); !errors.Is(err, jwt.ErrTokenExpired) {
		t.Errorf("expected expired error, got %v", err)
	}

	other, _ := NewManager("other-secret").Issue("bot", time.Hour)
	if _, err := m.Verify(other); err == nil {
		t.Error("expected signature error for token from another secret")
	}

	wrongIssuer, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: "bot",
		Issuer:  "someone-else",
	}).SignedString([]byte("test-secret"))
	if _, err := m.Verify(wrongIssuer); err == nil {
		t.Error("expected issuer error")
	}

	if _, err := m.Verify("not-a-token"); err == nil {
		t.Error("expected parse error")
	}
}

func TestDisabled(t *testing.T) {
	m := NewManager("")
	if m.Enabled() {
		t.Error("manager with empty secret should be disabled")
	}
	if _, err := m.Issue("bot", time.Hour); err == nil {
		t.Error("issue should fail when disabled")
	}
	if _, err := m.Verify("x"); err == nil {
		t.Error("verify should fail when disabled")
	}

	var nilManager *Manager
	if nilManager.Enabled() {
		t.Error("nil manager should be disabled")
	}
}
