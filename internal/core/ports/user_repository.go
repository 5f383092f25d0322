package ports

import (
	"context"

	"github.com/realtydir/directory-api/internal/core/domain"
)

// ListUsersFilter carries query parameters for listing users.
type ListUsersFilter struct {
	Role  domain.Role // optional: filter by role
	Page  int         // 1-based
	Limit int         // max rows per page (capped by the service)
}

// UserRepository defines persistence operations for user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// List returns a page of users matching filter and the total count.
	List(ctx context.Context, filter ListUsersFilter) ([]*domain.User, int64, error)
	// Update replaces the mutable profile fields (names, phone, email, role).
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
	// SetPassword replaces the stored password hash.
	SetPassword(ctx context.Context, id, passwordHash string) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
	// CountByRole groups users by role. Roles with zero users are absent
	// from the result, not present as zero.
	CountByRole(ctx context.Context) (map[domain.Role]int64, error)
}
