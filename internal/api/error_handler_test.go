package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/realtydir/directory-api/internal/core/domain"
)

func TestHTTPErrorHandler_DomainErrors(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{domain.ErrAuthentication, http.StatusUnauthorized},
		{domain.ErrForbidden, http.StatusForbidden},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{domain.ErrLoginThrottled, http.StatusTooManyRequests},
		{domain.ErrUserNotFound, http.StatusNotFound},
		{domain.ErrAgencyNotFound, http.StatusNotFound},
		{domain.ErrListingNotFound, http.StatusNotFound},
		{domain.ErrImageNotFound, http.StatusNotFound},
		{domain.ErrUserExists, http.StatusConflict},
		{domain.ErrAgencyCycle, http.StatusUnprocessableEntity},
		{domain.ErrInvalidRole, http.StatusBadRequest},
		{domain.ErrValidation, http.StatusBadRequest},
		{fmt.Errorf("%w: price must not be negative", domain.ErrValidation), http.StatusBadRequest},
		{errors.New("something exploded"), http.StatusInternalServerError},
	}

	e := echo.New()
	handler := NewHTTPErrorHandler(zerolog.Nop())

	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/v1/listings", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		handler(tc.err, c)

		if rec.Code != tc.code {
			t.Fatalf("%v: expected %d, got %d", tc.err, tc.code, rec.Code)
		}

		var body map[string]string
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("%v: invalid envelope: %v", tc.err, err)
		}
		if body["error"] == "" {
			t.Fatalf("%v: empty error message", tc.err)
		}
	}
}

func TestHTTPErrorHandler_InternalDetailsHidden(t *testing.T) {
	e := echo.New()
	handler := NewHTTPErrorHandler(zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/v1/stats", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler(errors.New("dial tcp 10.0.0.5:27017: connection refused"), c)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid envelope: %v", err)
	}
	if body["error"] != "internal server error" {
		t.Fatalf("internal cause leaked: %q", body["error"])
	}
}

func TestHTTPErrorHandler_EchoErrorsPassThrough(t *testing.T) {
	e := echo.New()
	handler := NewHTTPErrorHandler(zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler(echo.NewHTTPError(http.StatusNotFound, "Not Found"), c)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestResourceLabel(t *testing.T) {
	cases := map[string]string{
		"/v1/listings":              "listings",
		"/v1/listings/:listingId":   "listings",
		"/v1/agencies/:id/children": "agencies",
		"/v1":                       "unknown",
		"/metrics":                  "metrics",
	}
	for path, want := range cases {
		if got := resourceLabel(path); got != want {
			t.Fatalf("resourceLabel(%q) = %q, want %q", path, got, want)
		}
	}
}
