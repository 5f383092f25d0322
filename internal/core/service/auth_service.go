package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/realtydir/directory-api/internal/core/domain"
	"github.com/realtydir/directory-api/internal/core/ports"
)

// LoginThrottle abstracts the failed-attempt store (Redis). TooMany reports
// whether the account has exceeded the allowed failures inside the window;
// RecordFailure adds one; Reset clears the counter after a success.
type LoginThrottle interface {
	TooMany(ctx context.Context, email string) (bool, error)
	RecordFailure(ctx context.Context, email string) error
	Reset(ctx context.Context, email string) error
}

// AuthService implements registration, login, and account self-service.
type AuthService struct {
	repo        ports.UserRepository
	tokens      ports.TokenService
	throttle    LoginThrottle
	defaultRole domain.Role
	log         zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, tokens ports.TokenService, throttle LoginThrottle, defaultRole domain.Role, log zerolog.Logger) *AuthService {
	if !defaultRole.Valid() {
		defaultRole = domain.RoleUser
	}
	return &AuthService{repo: repo, tokens: tokens, throttle: throttle, defaultRole: defaultRole, log: log}
}

// Register creates an account and returns a session token for it. The
// requested role must be agent or user; admins are only created by admins
// through the user service.
func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (string, *domain.User, error) {
	if input.FirstName == "" || input.LastName == "" || input.Email == "" || input.Password == "" {
		return "", nil, domain.ErrValidation
	}

	role := input.Role
	if role == "" {
		role = s.defaultRole
	}
	if !role.Valid() || role == domain.RoleAdmin {
		return "", nil, domain.ErrInvalidRole
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, err
	}

	user := &domain.User{
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        normalizeEmail(input.Email),
		Phone:        input.Phone,
		Role:         role,
		PasswordHash: string(hash),
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return "", nil, err
	}

	token, err := s.tokens.Issue(created.ID)
	if err != nil {
		return "", nil, err
	}

	s.log.Info().Str("user_id", created.ID).Str("role", string(created.Role)).Msg("user registered")
	return token, created, nil
}

// Login verifies credentials and returns a fresh token. Lookup and compare
// failures are reported identically so the response does not reveal whether
// the email is registered.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}
	email = normalizeEmail(email)

	blocked, err := s.throttle.TooMany(ctx, email)
	if err != nil {
		s.log.Warn().Err(err).Msg("login throttle check failed, allowing attempt")
	} else if blocked {
		return "", nil, domain.ErrLoginThrottled
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		s.recordFailure(ctx, email)
		return "", nil, domain.ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		s.recordFailure(ctx, email)
		return "", nil, domain.ErrInvalidCredentials
	}

	if err := s.throttle.Reset(ctx, email); err != nil {
		s.log.Warn().Err(err).Msg("failed to reset login throttle")
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", nil, err
	}

	s.log.Info().Str("user_id", user.ID).Msg("login succeeded")
	return token, user, nil
}

// Profile returns the caller's own record.
func (s *AuthService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	return s.repo.FindByID(ctx, userID)
}

// UpdateProfile replaces the self-service fields only; role, email, and
// password are untouchable here.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, update ports.ProfileUpdate) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.FirstName = update.FirstName
	user.LastName = update.LastName
	user.Phone = update.Phone
	return s.repo.Update(ctx, user)
}

// ChangePassword replaces the password after re-verifying the current one.
func (s *AuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	if newPassword == "" {
		return domain.ErrValidation
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)) != nil {
		return domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if err := s.repo.SetPassword(ctx, userID, string(hash)); err != nil {
		return err
	}

	s.log.Info().Str("user_id", userID).Msg("password changed")
	return nil
}

// Refresh issues a fresh token for an already-authenticated caller. There
// is no server-side revocation: the old token stays valid until it expires.
func (s *AuthService) Refresh(ctx context.Context, userID string) (string, error) {
	if _, err := s.repo.FindByID(ctx, userID); err != nil {
		return "", err
	}
	return s.tokens.Issue(userID)
}

func (s *AuthService) recordFailure(ctx context.Context, email string) {
	if err := s.throttle.RecordFailure(ctx, email); err != nil {
		s.log.Warn().Err(err).Msg("failed to record login failure")
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
