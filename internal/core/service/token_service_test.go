package service

import (
	"errors"
	"testing"
	"time"

	"github.com/realtydir/directory-api/internal/core/domain"
)

func TestTokenService_IssueAndVerify(t *testing.T) {
	svc := NewTokenService(TokenConfig{Secret: "secret", TTL: time.Hour})

	token, err := svc.Issue("user-1")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token, got empty")
	}

	claims, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if claims.UserID != "user-1" {
		t.Fatalf("unexpected user id: %s", claims.UserID)
	}
	if claims.ExpiresAt.Sub(claims.IssuedAt) != time.Hour {
		t.Fatalf("unexpected validity window: %s", claims.ExpiresAt.Sub(claims.IssuedAt))
	}
}

func TestTokenService_WrongSecret(t *testing.T) {
	issuer := NewTokenService(TokenConfig{Secret: "secret-a", TTL: time.Hour})
	verifier := NewTokenService(TokenConfig{Secret: "secret-b", TTL: time.Hour})

	token, err := issuer.Issue("user-1")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	if _, err := verifier.Verify(token); !errors.Is(err, domain.ErrAuthentication) {
		t.Fatalf("expected ErrAuthentication, got %v", err)
	}
}

func TestTokenService_Expired(t *testing.T) {
	svc := NewTokenService(TokenConfig{Secret: "secret", TTL: time.Hour})

	issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issued }

	token, err := svc.Issue("user-1")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	svc.now = func() time.Time { return issued.Add(59 * time.Minute) }
	if _, err := svc.Verify(token); err != nil {
		t.Fatalf("token should still be valid: %v", err)
	}

	svc.now = func() time.Time { return issued.Add(2 * time.Hour) }
	if _, err := svc.Verify(token); !errors.Is(err, domain.ErrAuthentication) {
		t.Fatalf("expected ErrAuthentication after expiry, got %v", err)
	}
}

func TestTokenService_Garbage(t *testing.T) {
	svc := NewTokenService(TokenConfig{Secret: "secret", TTL: time.Hour})

	for _, raw := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := svc.Verify(raw); !errors.Is(err, domain.ErrAuthentication) {
			t.Fatalf("Verify(%q): expected ErrAuthentication, got %v", raw, err)
		}
	}
}

func TestTokenService_DefaultTTL(t *testing.T) {
	svc := NewTokenService(TokenConfig{Secret: "secret"})

	token, err := svc.Issue("user-1")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	claims, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if got := claims.ExpiresAt.Sub(claims.IssuedAt); got != defaultTokenTTL {
		t.Fatalf("expected default TTL %s, got %s", defaultTokenTTL, got)
	}
}
