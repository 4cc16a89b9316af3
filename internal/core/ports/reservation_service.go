package ports

import (
	"context"
	"time"

	"github.com/JefryM27/misitiofacil-Backend-sub000/internal/core/domain"
	"github.com/JefryM27/misitiofacil-Backend-sub000/internal/core/policy"
)

// GuestInput identifies an unregistered booking client. All three fields are
// required when no registered caller is present.
type GuestInput struct {
	Name  string
	Email string
	Phone string
}

// CreateReservationInput carries all data needed to book a service. The
// caller is attached separately; Guest is used when the booking is made
// without a registered client account. ForUserID lets an owner or admin book
// on behalf of a registered client.
type CreateReservationInput struct {
	BusinessID string
	ServiceID  string
	StartsAt   time.Time
	Notes      string
	Guest      *GuestInput
	ForUserID  string
}

// ListReservationsInput carries the parameters for the generic listing
// endpoint. BusinessID optionally narrows an owner's or admin's view.
type ListReservationsInput struct {
	BusinessID string
	Status     string
	DateFrom   time.Time
	DateTo     time.Time
	Page       int
	Limit      int
}

// ReservationPage is one role-scoped page of reservations.
type ReservationPage struct {
	Items      []*domain.Reservation
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// ReservationService implements the booking state machine.
type ReservationService interface {
	// Create books a service. The snapshot invariant applies: the service's
	// current duration and price are copied onto the reservation and never
	// tracked afterwards. Initial status is always pending.
	Create(ctx context.Context, caller policy.Caller, input CreateReservationInput) (*domain.Reservation, error)
	Get(ctx context.Context, caller policy.Caller, id string) (*domain.Reservation, error)
	// List serves owners and admins. A pure client caller is rejected with
	// domain.ErrForbidden; a business filter outside the owner's ownership
	// yields an empty page, not an error.
	List(ctx context.Context, caller policy.Caller, input ListReservationsInput) (*ReservationPage, error)
	// ListForClient returns the caller's own reservations.
	ListForClient(ctx context.Context, caller policy.Caller, page, limit int) (*ReservationPage, error)
	// UpdateStatus applies an explicit transition, gated to the managing
	// owner or admin, stamping the matching timestamp on entry.
	UpdateStatus(ctx context.Context, caller policy.Caller, id string, status domain.ReservationStatus) (*domain.Reservation, error)
	// Cancel is the dedicated action additionally permitted to the booking
	// client. Re-cancelling is rejected with domain.ErrAlreadyCancelled.
	Cancel(ctx context.Context, caller policy.Caller, id string, reason string) (*domain.Reservation, error)
}

// Reservation lifecycle event kinds delivered to the notification dispatcher.
const (
	NotifyReservationCreated   = "reservation_created"
	NotifyReservationConfirmed = "reservation_confirmed"
	NotifyReservationCancelled = "reservation_cancelled"
)

// ReservationEvent is the notification payload for a lifecycle change.
type ReservationEvent struct {
	Kind          string
	ReservationID string
	BusinessID    string
	ClientEmail   string
	StartsAt      time.Time
}

// ReservationNotifier receives lifecycle events. Delivery is best-effort and
// must never block or fail the booking operation.
type ReservationNotifier interface {
	Enqueue(event ReservationEvent)
}
