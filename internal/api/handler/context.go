package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apimw "github.com/realtydir/directory-api/internal/api/middleware"
	"github.com/realtydir/directory-api/internal/core/domain"
)

// ctxIdentity extracts the identity injected by the Auth middleware and
// fast-fails when it is absent: presence proves the middleware ran.
func ctxIdentity(c echo.Context) (*domain.Identity, error) {
	id := apimw.Identity(c)
	if id == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return id, nil
}

// optionalIdentity returns the identity or nil for anonymous callers on
// public routes behind OptionalAuth.
func optionalIdentity(c echo.Context) *domain.Identity {
	return apimw.Identity(c)
}
