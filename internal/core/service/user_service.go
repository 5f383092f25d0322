package service

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/realtydir/directory-api/internal/core/domain"
	"github.com/realtydir/directory-api/internal/core/ports"
)

// UserService implements administrative user management plus the self-service
// read/update path.
type UserService struct {
	repo ports.UserRepository
	log  zerolog.Logger
}

func NewUserService(repo ports.UserRepository, log zerolog.Logger) *UserService {
	return &UserService{repo: repo, log: log}
}

// List returns a page of users; admin-only.
func (s *UserService) List(ctx context.Context, id *domain.Identity, filter ports.ListUsersFilter) (*ports.ListUsersResult, error) {
	if err := domain.Authorize(id, domain.ActionList, domain.Resource{Kind: domain.ResourceUser}); err != nil {
		return nil, err
	}

	filter.Page, filter.Limit = clampPage(filter.Page, filter.Limit)
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &ports.ListUsersResult{
		Items:      items,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages(total, filter.Limit),
	}, nil
}

// Get returns a user record; admin or the user themselves.
func (s *UserService) Get(ctx context.Context, id *domain.Identity, userID string) (*domain.User, error) {
	if err := domain.Authorize(id, domain.ActionRead, domain.Resource{
		Kind:         domain.ResourceUser,
		TargetUserID: userID,
	}); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, userID)
}

// Create adds a user with an explicit role; admin-only. This is the only
// path that can mint admin accounts.
func (s *UserService) Create(ctx context.Context, id *domain.Identity, input ports.CreateUserInput) (*domain.User, error) {
	if err := domain.Authorize(id, domain.ActionCreate, domain.Resource{Kind: domain.ResourceUser}); err != nil {
		return nil, err
	}

	if input.FirstName == "" || input.LastName == "" || input.Email == "" || input.Password == "" {
		return nil, domain.ErrValidation
	}
	if !input.Role.Valid() {
		return nil, domain.ErrInvalidRole
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, &domain.User{
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        normalizeEmail(input.Email),
		Phone:        input.Phone,
		Role:         input.Role,
		PasswordHash: string(hash),
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", created.ID).Str("role", string(created.Role)).
		Str("created_by", id.UserID).Msg("user created")
	return created, nil
}

// Update applies a partial update; admin or the user themselves. Role and
// password never change through this path.
func (s *UserService) Update(ctx context.Context, id *domain.Identity, userID string, input ports.UpdateUserInput) (*domain.User, error) {
	if err := domain.Authorize(id, domain.ActionUpdate, domain.Resource{
		Kind:         domain.ResourceUser,
		TargetUserID: userID,
	}); err != nil {
		return nil, err
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	if input.Email != nil {
		user.Email = normalizeEmail(*input.Email)
	}
	if input.Phone != nil {
		user.Phone = *input.Phone
	}

	return s.repo.Update(ctx, user)
}

// Delete removes a user; admin-only.
func (s *UserService) Delete(ctx context.Context, id *domain.Identity, userID string) error {
	if err := domain.Authorize(id, domain.ActionDelete, domain.Resource{
		Kind:         domain.ResourceUser,
		TargetUserID: userID,
	}); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, userID); err != nil {
		return err
	}

	s.log.Info().Str("user_id", userID).Str("deleted_by", id.UserID).Msg("user deleted")
	return nil
}
