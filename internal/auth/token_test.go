package auth

import (
	"testing"
	"time"

	"github.com/promohub/promohub/internal/session"
)

func TestIssueAndParse(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Minute)

	tok, exp, err := tm.Issue("user-1", session.RoleAdmin)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if !exp.After(time.Now()) {
		t.Fatal("expiry not in the future")
	}

	sess, err := tm.Parse(tok)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if sess.UserID != "user-1" || sess.Role != session.RoleAdmin {
		t.Fatalf("session = %+v", sess)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	tok, _, err := NewTokenManager("secret-a", time.Minute).Issue("user-1", session.RolePromoter)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := NewTokenManager("secret-b", time.Minute).Parse(tok); err != ErrInvalidToken {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
}

func TestParseRejectsExpired(t *testing.T) {
	tm := &TokenManager{secret: []byte("test-secret"), ttl: -time.Minute}
	tok, _, err := tm.Issue("user-1", session.RolePromoter)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := tm.Parse(tok); err != ErrInvalidToken {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Minute)
	if _, err := tm.Parse("not-a-token"); err != ErrInvalidToken {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
}
