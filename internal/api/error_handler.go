package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/JefryM27/misitiofacil-Backend-sub000/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors. Details
// is populated only for multi-field validation failures.
type errorResponse struct {
	Error   string               `json:"error"`
	Details []domain.FieldDetail `json:"details,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>", "details": [...]}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message)}
	}

	// Field-level validation failures carry their details into the envelope.
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return http.StatusUnprocessableEntity, errorResponse{Error: "validation failed", Details: ve.Fields}
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusUnprocessableEntity, errorResponse{Error: err.Error()}
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, errorResponse{Error: "invalid credentials"}
	case errors.Is(err, domain.ErrAccountLocked):
		return http.StatusLocked, errorResponse{Error: "account temporarily locked"}
	case errors.Is(err, domain.ErrUserInactive):
		return http.StatusForbidden, errorResponse{Error: "account is deactivated"}
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, errorResponse{Error: "access forbidden"}

	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrBusinessNotFound),
		errors.Is(err, domain.ErrServiceNotFound),
		errors.Is(err, domain.ErrTemplateNotFound),
		errors.Is(err, domain.ErrNoTemplatesAvailable),
		errors.Is(err, domain.ErrReservationNotFound):
		return http.StatusNotFound, errorResponse{Error: err.Error()}

	case errors.Is(err, domain.ErrUserExists),
		errors.Is(err, domain.ErrSlugTaken),
		errors.Is(err, domain.ErrBusinessLimit),
		errors.Is(err, domain.ErrDuplicateServiceName),
		errors.Is(err, domain.ErrServiceQuotaExceeded),
		errors.Is(err, domain.ErrTemplateInUse),
		errors.Is(err, domain.ErrAlreadyCancelled),
		errors.Is(err, domain.ErrStaleReservation):
		return http.StatusConflict, errorResponse{Error: err.Error()}

	case errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrInvalidStatusChange):
		return http.StatusUnprocessableEntity, errorResponse{Error: err.Error()}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Error: "internal server error"}
}
