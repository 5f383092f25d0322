package ports

import (
	"context"

	"github.com/realtydir/directory-api/internal/core/domain"
)

// RegisterInput carries the self-registration payload. Role defaults to the
// configured default when empty; non-admin callers can never self-assign the
// admin role.
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Password  string
	Role      domain.Role
}

// ProfileUpdate carries the self-service profile fields. Role, email, and
// password are deliberately not part of this set.
type ProfileUpdate struct {
	FirstName string
	LastName  string
	Phone     string
}

// AuthService implements registration, login, and account self-service.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (string, *domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	Profile(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) (*domain.User, error)
	// ChangePassword re-verifies the current password before replacing it.
	ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error
	// Refresh issues a fresh token for an already-authenticated caller.
	Refresh(ctx context.Context, userID string) (string, error)
}
