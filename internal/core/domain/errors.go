package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Auth / user errors.
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrAccountLocked = errors.New("account temporarily locked")
var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")
var ErrUserInactive = errors.New("user account is deactivated")
var ErrForbidden = errors.New("access forbidden")

// Business errors.
var ErrBusinessNotFound = errors.New("business not found")
var ErrSlugTaken = errors.New("slug already taken")
var ErrBusinessLimit = errors.New("business limit reached for owner")
var ErrInvalidStatusChange = errors.New("invalid business status change")

// Service catalog errors.
var ErrServiceNotFound = errors.New("service not found")
var ErrDuplicateServiceName = errors.New("service name already exists in business")
var ErrServiceQuotaExceeded = errors.New("service quota exceeded")

// Template errors.
var ErrTemplateNotFound = errors.New("template not found")
var ErrNoTemplatesAvailable = errors.New("no templates available")
var ErrTemplateInUse = errors.New("template is referenced by a business")

// Reservation errors.
var ErrReservationNotFound = errors.New("reservation not found")
var ErrInvalidTransition = errors.New("invalid status transition")
var ErrAlreadyCancelled = errors.New("reservation already cancelled")
var ErrStaleReservation = errors.New("reservation was modified concurrently")

// ErrValidation is the sentinel all ValidationError values match via errors.Is.
var ErrValidation = errors.New("validation failed")

// FieldDetail describes a single invalid field inside a ValidationError.
type FieldDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries one or more field-level failures so that bulk
// checks (quota, duplicate names during template-driven publishing) can be
// reported in a single response.
type ValidationError struct {
	Fields []FieldDetail
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return strings.Join(msgs, "; ")
}

// Is makes errors.Is(err, ErrValidation) true for every ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError builds a single-field ValidationError.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldDetail{{Field: field, Message: message}}}
}
