package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/realtydir/directory-api/internal/core/domain"
	"github.com/realtydir/directory-api/internal/core/ports"
)

// IdentityKey is the echo context key under which the resolved caller
// identity is stored.
const IdentityKey = "identity"

// Auth verifies the bearer token, re-resolves the account, and injects the
// caller's identity into the context. A valid token whose user no longer
// exists is an authentication failure, not a not-found.
func Auth(tokens ports.TokenService, users ports.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, err := resolveIdentity(c, tokens, users)
			if err != nil {
				return err
			}
			if identity == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			c.Set(IdentityKey, identity)
			return next(c)
		}
	}
}

// OptionalAuth resolves an identity when a bearer token is presented and
// lets anonymous requests through. A presented-but-invalid token is still
// rejected: silence and garbage are not the same thing.
func OptionalAuth(tokens ports.TokenService, users ports.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, err := resolveIdentity(c, tokens, users)
			if err != nil {
				return err
			}
			if identity != nil {
				c.Set(IdentityKey, identity)
			}
			return next(c)
		}
	}
}

// resolveIdentity returns (nil, nil) when no Authorization header is
// present, a 401 error when one is present but unusable, and the resolved
// identity otherwise.
func resolveIdentity(c echo.Context, tokens ports.TokenService, users ports.UserRepository) (*domain.Identity, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return nil, nil
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
	}

	claims, err := tokens.Verify(parts[1])
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
	}

	user, err := users.FindByID(c.Request().Context(), claims.UserID)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "unknown account")
	}

	return &domain.Identity{UserID: user.ID, Role: user.Role}, nil
}

// Identity extracts the identity set by Auth/OptionalAuth; nil when the
// caller is anonymous.
func Identity(c echo.Context) *domain.Identity {
	id, _ := c.Get(IdentityKey).(*domain.Identity)
	return id
}
