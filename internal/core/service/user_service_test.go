package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/realtydir/directory-api/internal/core/domain"
	"github.com/realtydir/directory-api/internal/core/ports"
)

func newUserFixture(t *testing.T) (*UserService, *memUserRepo) {
	t.Helper()
	repo := newMemUserRepo()
	return NewUserService(repo, zerolog.Nop()), repo
}

func TestUserService_Create_AdminCanMintAdmin(t *testing.T) {
	svc, _ := newUserFixture(t)

	created, err := svc.Create(context.Background(), adminID, ports.CreateUserInput{
		FirstName: "Root", LastName: "Two", Email: "root2@example.com", Password: "pass", Role: domain.RoleAdmin,
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if created.Role != domain.RoleAdmin {
		t.Fatalf("expected admin role, got %s", created.Role)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("pass")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}

func TestUserService_Create_NonAdminDenied(t *testing.T) {
	svc, _ := newUserFixture(t)
	input := ports.CreateUserInput{
		FirstName: "X", LastName: "Y", Email: "x@example.com", Password: "pass", Role: domain.RoleUser,
	}

	agent := &domain.Identity{UserID: "a1", Role: domain.RoleAgent}
	if _, err := svc.Create(context.Background(), agent, input); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("agent create: expected ErrForbidden, got %v", err)
	}
	if _, err := svc.Create(context.Background(), nil, input); !errors.Is(err, domain.ErrAuthentication) {
		t.Fatalf("anonymous create: expected ErrAuthentication, got %v", err)
	}
}

func TestUserService_Create_InvalidRole(t *testing.T) {
	svc, _ := newUserFixture(t)

	_, err := svc.Create(context.Background(), adminID, ports.CreateUserInput{
		FirstName: "X", LastName: "Y", Email: "x@example.com", Password: "pass", Role: "superuser",
	})
	if !errors.Is(err, domain.ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
}

func TestUserService_Get_SelfOrAdmin(t *testing.T) {
	svc, repo := newUserFixture(t)

	stored, _ := repo.Create(context.Background(), &domain.User{
		FirstName: "Alice", LastName: "N", Email: "alice@example.com", Role: domain.RoleUser,
	})

	self := &domain.Identity{UserID: stored.ID, Role: domain.RoleUser}
	if _, err := svc.Get(context.Background(), self, stored.ID); err != nil {
		t.Fatalf("self read failed: %v", err)
	}
	if _, err := svc.Get(context.Background(), adminID, stored.ID); err != nil {
		t.Fatalf("admin read failed: %v", err)
	}

	stranger := &domain.Identity{UserID: "someone-else", Role: domain.RoleUser}
	if _, err := svc.Get(context.Background(), stranger, stored.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("stranger read: expected ErrForbidden, got %v", err)
	}
}

func TestUserService_Update_RoleAndPasswordImmutable(t *testing.T) {
	svc, repo := newUserFixture(t)

	stored, _ := repo.Create(context.Background(), &domain.User{
		FirstName: "Bob", LastName: "D", Email: "bob@example.com", Role: domain.RoleAgent, PasswordHash: "hash",
	})

	first := "Robert"
	self := &domain.Identity{UserID: stored.ID, Role: domain.RoleAgent}
	updated, err := svc.Update(context.Background(), self, stored.ID, ports.UpdateUserInput{FirstName: &first})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.FirstName != "Robert" {
		t.Fatalf("first name not applied: %s", updated.FirstName)
	}
	if updated.Role != domain.RoleAgent {
		t.Fatalf("role changed through update: %s", updated.Role)
	}

	after, _ := repo.FindByID(context.Background(), stored.ID)
	if after.PasswordHash != "hash" {
		t.Fatalf("password hash changed through update")
	}
}

func TestUserService_Delete_AdminOnly(t *testing.T) {
	svc, repo := newUserFixture(t)

	stored, _ := repo.Create(context.Background(), &domain.User{
		FirstName: "C", LastName: "D", Email: "c@example.com", Role: domain.RoleUser,
	})

	// Even the user themselves cannot delete their account.
	self := &domain.Identity{UserID: stored.ID, Role: domain.RoleUser}
	if err := svc.Delete(context.Background(), self, stored.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("self delete: expected ErrForbidden, got %v", err)
	}

	if err := svc.Delete(context.Background(), adminID, stored.ID); err != nil {
		t.Fatalf("admin delete failed: %v", err)
	}
	if _, err := repo.FindByID(context.Background(), stored.ID); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("user should be gone, got %v", err)
	}
}

func TestUserService_List_AdminOnlyWithRoleFilter(t *testing.T) {
	svc, repo := newUserFixture(t)
	ctx := context.Background()

	_, _ = repo.Create(ctx, &domain.User{FirstName: "A", LastName: "1", Email: "a@x.test", Role: domain.RoleAgent})
	_, _ = repo.Create(ctx, &domain.User{FirstName: "B", LastName: "2", Email: "b@x.test", Role: domain.RoleAgent})
	_, _ = repo.Create(ctx, &domain.User{FirstName: "C", LastName: "3", Email: "c@x.test", Role: domain.RoleUser})

	user := &domain.Identity{UserID: "u1", Role: domain.RoleUser}
	if _, err := svc.List(ctx, user, ports.ListUsersFilter{}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("user list: expected ErrForbidden, got %v", err)
	}

	result, err := svc.List(ctx, adminID, ports.ListUsersFilter{Role: domain.RoleAgent})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if result.Total != 2 {
		t.Fatalf("role filter: expected 2, got %d", result.Total)
	}
}
