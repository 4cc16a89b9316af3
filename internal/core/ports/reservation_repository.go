package ports

import (
	"context"
	"time"

	"github.com/JefryM27/misitiofacil-Backend-sub000/internal/core/domain"
)

// ListReservationsFilter carries all query parameters for listing
// reservations. Role scoping is enforced by the service layer before the
// filter reaches the repository.
type ListReservationsFilter struct {
	BusinessIDs []string // non-empty = restrict to these businesses
	ClientID    string   // non-empty = restrict to this registered client
	Status      string   // optional: filter by reservation status
	DateFrom    time.Time
	DateTo      time.Time
	Page        int // 1-based
	Limit       int // capped by the service
}

// ReservationRepository defines persistence operations for reservations.
type ReservationRepository interface {
	Create(ctx context.Context, r *domain.Reservation) error
	FindByID(ctx context.Context, id string) (*domain.Reservation, error)
	List(ctx context.Context, filter ListReservationsFilter) ([]*domain.Reservation, int64, error)
	// CountOpenByService counts pending/confirmed reservations referencing a
	// service (the guard for hard deletion).
	CountOpenByService(ctx context.Context, serviceID string) (int64, error)
	CountOpenByBusiness(ctx context.Context, businessID string) (int64, error)
	// UpdateStatusCAS sets the new status and stamps ts into tsField only if
	// the document still holds the expected current status. Returns
	// domain.ErrStaleReservation when the compare-and-swap missed.
	UpdateStatusCAS(ctx context.Context, id string, from, to domain.ReservationStatus, tsField string, ts time.Time) error
	// Cancel performs the CAS into cancelled with an optional reason,
	// rejecting already-cancelled reservations with domain.ErrAlreadyCancelled.
	Cancel(ctx context.Context, id string, from domain.ReservationStatus, reason string, ts time.Time) error
}
