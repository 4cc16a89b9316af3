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

	"github.com/JefryM27/misitiofacil-Backend-sub000/internal/core/domain"
)

func renderError(t *testing.T, err error) (int, errorResponse) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(err, c)

	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid error body: %v", err)
	}
	return rec.Code, body
}

func TestErrorHandler_DomainErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{domain.ErrAccountLocked, http.StatusLocked},
		{domain.ErrForbidden, http.StatusForbidden},
		{domain.ErrUserInactive, http.StatusForbidden},
		{domain.ErrBusinessNotFound, http.StatusNotFound},
		{domain.ErrNoTemplatesAvailable, http.StatusNotFound},
		{domain.ErrSlugTaken, http.StatusConflict},
		{domain.ErrBusinessLimit, http.StatusConflict},
		{domain.ErrServiceQuotaExceeded, http.StatusConflict},
		{domain.ErrDuplicateServiceName, http.StatusConflict},
		{domain.ErrTemplateInUse, http.StatusConflict},
		{domain.ErrAlreadyCancelled, http.StatusConflict},
		{domain.ErrStaleReservation, http.StatusConflict},
		{domain.ErrInvalidTransition, http.StatusUnprocessableEntity},
		{domain.ErrInvalidStatusChange, http.StatusUnprocessableEntity},
		{errors.New("database exploded"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		code, _ := renderError(t, tc.err)
		if code != tc.code {
			t.Errorf("%v: expected %d, got %d", tc.err, tc.code, code)
		}
	}
}

func TestErrorHandler_WrappedErrorsStillMap(t *testing.T) {
	code, _ := renderError(t, fmt.Errorf("create business: %w", domain.ErrSlugTaken))
	if code != http.StatusConflict {
		t.Fatalf("expected 409 for wrapped conflict, got %d", code)
	}
}

func TestErrorHandler_ValidationDetails(t *testing.T) {
	err := &domain.ValidationError{Fields: []domain.FieldDetail{
		{Field: "name", Message: "name is required"},
		{Field: "duration_minutes", Message: "invalid duration"},
	}}

	code, body := renderError(t, err)
	if code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", code)
	}
	if len(body.Details) != 2 {
		t.Fatalf("expected 2 field details, got %+v", body)
	}
}

func TestErrorHandler_InternalErrorsAreOpaque(t *testing.T) {
	_, body := renderError(t, errors.New("pq: connection refused"))
	if body.Error != "internal server error" {
		t.Fatalf("internal details leaked: %q", body.Error)
	}
}

func TestErrorHandler_EchoErrorsPassThrough(t *testing.T) {
	code, body := renderError(t, echo.NewHTTPError(http.StatusNotFound, "route not found"))
	if code != http.StatusNotFound || body.Error != "route not found" {
		t.Fatalf("unexpected echo error rendering: %d %+v", code, body)
	}
}
