package ports

import (
	"context"

	"github.com/realtydir/directory-api/internal/core/domain"
)

// CreateUserInput carries the admin user-creation payload.
type CreateUserInput struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Password  string
	Role      domain.Role
}

// UpdateUserInput carries a partial user update. Role and password are
// immutable through this path: role changes are an explicit admin concern
// and passwords go through the change-password flow.
type UpdateUserInput struct {
	FirstName *string
	LastName  *string
	Email     *string
	Phone     *string
}

// ListUsersResult is a page of users plus pagination totals.
type ListUsersResult struct {
	Items      []*domain.User
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// UserService defines administrative user operations. Get and Update also
// serve the self-service path (a user acting on their own record).
type UserService interface {
	List(ctx context.Context, id *domain.Identity, filter ListUsersFilter) (*ListUsersResult, error)
	Get(ctx context.Context, id *domain.Identity, userID string) (*domain.User, error)
	Create(ctx context.Context, id *domain.Identity, input CreateUserInput) (*domain.User, error)
	Update(ctx context.Context, id *domain.Identity, userID string, input UpdateUserInput) (*domain.User, error)
	Delete(ctx context.Context, id *domain.Identity, userID string) error
}
