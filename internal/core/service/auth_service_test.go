package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/realtydir/directory-api/internal/core/domain"
	"github.com/realtydir/directory-api/internal/core/ports"
)

func newAuthFixture(t *testing.T) (*AuthService, *memUserRepo, *memThrottle) {
	t.Helper()
	repo := newMemUserRepo()
	tokens := NewTokenService(TokenConfig{Secret: "test-secret", TTL: time.Hour})
	throttle := newMemThrottle(3)
	svc := NewAuthService(repo, tokens, throttle, domain.RoleUser, zerolog.Nop())
	return svc, repo, throttle
}

func TestAuthService_Register_Success(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	token, user, err := svc.Register(context.Background(), ports.RegisterInput{
		FirstName: "Alice",
		LastName:  "Nkosi",
		Email:     "Alice@Example.com",
		Password:  "pass123",
		Role:      domain.RoleAgent,
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if token == "" {
		t.Fatalf("expected session token")
	}
	if user.Email != "alice@example.com" {
		t.Fatalf("email not normalised: %s", user.Email)
	}
	if user.Role != domain.RoleAgent {
		t.Fatalf("unexpected role: %s", user.Role)
	}
	if user.PasswordHash == "pass123" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pass123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}

func TestAuthService_Register_DefaultRole(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	_, user, err := svc.Register(context.Background(), ports.RegisterInput{
		FirstName: "Bob",
		LastName:  "Dlamini",
		Email:     "bob@example.com",
		Password:  "pass",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.Role != domain.RoleUser {
		t.Fatalf("expected default role user, got %s", user.Role)
	}
}

func TestAuthService_Register_AdminBlocked(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	_, _, err := svc.Register(context.Background(), ports.RegisterInput{
		FirstName: "Eve",
		LastName:  "Mallory",
		Email:     "eve@example.com",
		Password:  "pass",
		Role:      domain.RoleAdmin,
	})
	if !errors.Is(err, domain.ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole for self-assigned admin, got %v", err)
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	input := ports.RegisterInput{FirstName: "Bob", LastName: "D", Email: "bob@example.com", Password: "pass"}
	if _, _, err := svc.Register(context.Background(), input); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	if _, _, err := svc.Register(context.Background(), input); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	_, created, err := svc.Register(context.Background(), ports.RegisterInput{
		FirstName: "Carol", LastName: "M", Email: "carol@example.com", Password: "s3cret",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	token, user, err := svc.Login(context.Background(), "Carol@Example.com", "s3cret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token")
	}
	if user.ID != created.ID {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestAuthService_Login_WrongPasswordAndGhostLookAlike(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	_, _, _ = svc.Register(context.Background(), ports.RegisterInput{
		FirstName: "Dave", LastName: "N", Email: "dave@example.com", Password: "goodpass",
	})

	_, _, badPassErr := svc.Login(context.Background(), "dave@example.com", "badpass")
	_, _, ghostErr := svc.Login(context.Background(), "ghost@example.com", "whatever")

	// The two failures must be indistinguishable to the caller.
	if !errors.Is(badPassErr, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for bad password, got %v", badPassErr)
	}
	if !errors.Is(ghostErr, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", ghostErr)
	}
}

func TestAuthService_Login_Throttled(t *testing.T) {
	svc, _, throttle := newAuthFixture(t)

	_, _, _ = svc.Register(context.Background(), ports.RegisterInput{
		FirstName: "Frank", LastName: "O", Email: "frank@example.com", Password: "rightpass",
	})

	for i := 0; i < 3; i++ {
		if _, _, err := svc.Login(context.Background(), "frank@example.com", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatalf("attempt %d: expected ErrInvalidCredentials, got %v", i, err)
		}
	}

	// Even the correct password is refused once the ceiling is hit.
	if _, _, err := svc.Login(context.Background(), "frank@example.com", "rightpass"); !errors.Is(err, domain.ErrLoginThrottled) {
		t.Fatalf("expected ErrLoginThrottled, got %v", err)
	}

	// A successful login after the window clears resets the counter.
	throttle.failures["frank@example.com"] = 0
	if _, _, err := svc.Login(context.Background(), "frank@example.com", "rightpass"); err != nil {
		t.Fatalf("login after reset failed: %v", err)
	}
	if throttle.failures["frank@example.com"] != 0 {
		t.Fatalf("expected counter reset after success")
	}
}

func TestAuthService_ChangePassword(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	_, user, err := svc.Register(context.Background(), ports.RegisterInput{
		FirstName: "Grace", LastName: "P", Email: "grace@example.com", Password: "oldpass",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if err := svc.ChangePassword(context.Background(), user.ID, "wrongpass", "newpass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong current password, got %v", err)
	}

	if err := svc.ChangePassword(context.Background(), user.ID, "oldpass", "newpass"); err != nil {
		t.Fatalf("ChangePassword returned error: %v", err)
	}

	if _, _, err := svc.Login(context.Background(), "grace@example.com", "oldpass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("old password should no longer work, got %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "grace@example.com", "newpass"); err != nil {
		t.Fatalf("new password rejected: %v", err)
	}
}

func TestAuthService_UpdateProfile(t *testing.T) {
	svc, repo, _ := newAuthFixture(t)

	_, user, err := svc.Register(context.Background(), ports.RegisterInput{
		FirstName: "Henry", LastName: "Q", Email: "henry@example.com", Password: "pass",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	updated, err := svc.UpdateProfile(context.Background(), user.ID, ports.ProfileUpdate{
		FirstName: "Henri", LastName: "Quincy", Phone: "+27 82 000 0000",
	})
	if err != nil {
		t.Fatalf("UpdateProfile returned error: %v", err)
	}
	if updated.FirstName != "Henri" || updated.Phone != "+27 82 000 0000" {
		t.Fatalf("profile not applied: %+v", updated)
	}

	stored, err := repo.FindByID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if stored.Role != user.Role {
		t.Fatalf("role must not change through profile update")
	}
	if stored.Email != user.Email {
		t.Fatalf("email must not change through profile update")
	}
}

func TestAuthService_Refresh(t *testing.T) {
	svc, repo, _ := newAuthFixture(t)

	_, user, err := svc.Register(context.Background(), ports.RegisterInput{
		FirstName: "Ivy", LastName: "R", Email: "ivy@example.com", Password: "pass",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	token, err := svc.Refresh(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token")
	}

	// A deleted account cannot refresh.
	if err := repo.Delete(context.Background(), user.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := svc.Refresh(context.Background(), user.ID); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
