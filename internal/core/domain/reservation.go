package domain

import "time"

// ReservationStatus represents the lifecycle state of a reservation.
type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "pending"
	ReservationConfirmed ReservationStatus = "confirmed"
	ReservationCancelled ReservationStatus = "cancelled"
	ReservationCompleted ReservationStatus = "completed"
	ReservationNoShow    ReservationStatus = "no_show"
)

// validReservationTransitions defines the allowed state machine transitions.
// cancelled, completed and no_show are terminal.
var validReservationTransitions = map[ReservationStatus][]ReservationStatus{
	ReservationPending:   {ReservationConfirmed, ReservationCancelled},
	ReservationConfirmed: {ReservationCompleted, ReservationCancelled, ReservationNoShow},
}

// CanTransitionTo reports whether a transition from the current status to next is valid.
func (s ReservationStatus) CanTransitionTo(next ReservationStatus) bool {
	for _, allowed := range validReservationTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transitions are possible from s.
func (s ReservationStatus) Terminal() bool {
	return len(validReservationTransitions[s]) == 0
}

// ValidReservationStatus reports whether s is one of the five known statuses.
func ValidReservationStatus(s ReservationStatus) bool {
	switch s {
	case ReservationPending, ReservationConfirmed, ReservationCancelled, ReservationCompleted, ReservationNoShow:
		return true
	}
	return false
}

// Guest identifies an unregistered booking client.
type Guest struct {
	Name  string `json:"name" bson:"name"`
	Email string `json:"email" bson:"email"`
	Phone string `json:"phone" bson:"phone"`
}

const (
	ClientKindRegistered = "registered"
	ClientKindGuest      = "guest"
)

// ReservationClient is a tagged variant: exactly one of UserID (registered)
// or Guest is set, discriminated by Kind.
type ReservationClient struct {
	Kind   string `json:"kind" bson:"kind"`
	UserID string `json:"user_id,omitempty" bson:"user_id,omitempty"`
	Guest  *Guest `json:"guest,omitempty" bson:"guest,omitempty"`
}

// RegisteredClient builds the registered variant.
func RegisteredClient(userID string) ReservationClient {
	return ReservationClient{Kind: ClientKindRegistered, UserID: userID}
}

// GuestClient builds the guest variant.
func GuestClient(name, email, phone string) ReservationClient {
	return ReservationClient{Kind: ClientKindGuest, Guest: &Guest{Name: name, Email: email, Phone: phone}}
}

// Reservation is a booking against a business service. DurationMinutes,
// Price and Currency are snapshots captured from the service at creation
// time; later service edits never change them. Version backs the
// compare-and-swap guard on status updates.
type Reservation struct {
	ID              string            `json:"id" bson:"_id,omitempty"`
	BusinessID      string            `json:"business_id" bson:"business_id"`
	ServiceID       string            `json:"service_id" bson:"service_id"`
	Client          ReservationClient `json:"client" bson:"client"`
	StartsAt        time.Time         `json:"starts_at" bson:"starts_at"`
	DurationMinutes int               `json:"duration_minutes" bson:"duration_minutes"`
	Price           float64           `json:"price" bson:"price"`
	Currency        string            `json:"currency" bson:"currency"`
	Status          ReservationStatus `json:"status" bson:"status"`
	Notes           string            `json:"notes,omitempty" bson:"notes,omitempty"`
	CancelReason    string            `json:"cancel_reason,omitempty" bson:"cancel_reason,omitempty"`
	ConfirmedAt     *time.Time        `json:"confirmed_at,omitempty" bson:"confirmed_at,omitempty"`
	CancelledAt     *time.Time        `json:"cancelled_at,omitempty" bson:"cancelled_at,omitempty"`
	CompletedAt     *time.Time        `json:"completed_at,omitempty" bson:"completed_at,omitempty"`
	CreatedAt       time.Time         `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at" bson:"updated_at"`
}
