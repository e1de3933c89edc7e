package httpapi

import (
	"testing"
	"time"

	"puntoventa/backend/internal/domain"
)

func TestAuthManagerLoginAndParse(t *testing.T) {
	auth := NewAuthManager("test-secret", time.Hour, "admin-pass", "cashier-pass")

	resp, err := auth.Login(domain.LoginRequest{Username: "admin", Password: "admin-pass"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.Role != "admin" {
		t.Fatalf("role = %q", resp.Role)
	}

	actor, err := auth.ParseToken(resp.AccessToken)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if actor.Username != "admin" || actor.Role != "admin" {
		t.Fatalf("actor = %+v", actor)
	}
}

func TestAuthManagerRejectsWrongPassword(t *testing.T) {
	auth := NewAuthManager("test-secret", time.Hour, "admin-pass", "cashier-pass")

	if _, err := auth.Login(domain.LoginRequest{Username: "admin", Password: "nope"}); err == nil {
		t.Fatalf("expected error for wrong password")
	}
	if _, err := auth.Login(domain.LoginRequest{Username: "ghost", Password: "admin-pass"}); err == nil {
		t.Fatalf("expected error for unknown user")
	}
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	auth := NewAuthManager("test-secret", time.Hour, "a", "b")

	if _, err := auth.ParseToken("not-a-token"); err == nil {
		t.Fatalf("expected error for malformed token")
	}

	// Token signed with a different secret must not validate.
	other := NewAuthManager("other-secret", time.Hour, "a", "b")
	resp, err := other.Login(domain.LoginRequest{Username: "admin", Password: "a"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, err := auth.ParseToken(resp.AccessToken); err == nil {
		t.Fatalf("expected error for foreign signature")
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	auth := NewAuthManager("test-secret", time.Hour, "a", "b")

	token, err := auth.sign("admin", "admin", time.Now().UTC().Add(-time.Minute))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := auth.ParseToken(token); err == nil {
		t.Fatalf("expected error for expired token")
	}
}
