package domain

import "time"

// DurationStepMinutes is the granularity every service duration must align to.
const DurationStepMinutes = 15

// Service is a bookable offering published under a business. Name is unique
// within its business. A service with open reservations is never hard-deleted,
// only deactivated.
type Service struct {
	ID              string    `json:"id" bson:"_id,omitempty"`
	BusinessID      string    `json:"business_id" bson:"business_id"`
	Name            string    `json:"name" bson:"name"`
	Description     string    `json:"description,omitempty" bson:"description,omitempty"`
	DurationMinutes int       `json:"duration_minutes" bson:"duration_minutes"`
	Price           float64   `json:"price" bson:"price"`
	Currency        string    `json:"currency" bson:"currency"`
	IsActive        bool      `json:"is_active" bson:"is_active"`
	CreatedAt       time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" bson:"updated_at"`
}

// ValidDuration reports whether minutes is a multiple of the duration step
// inside the [min,max] bounds.
func ValidDuration(minutes, min, max int) bool {
	if minutes < min || minutes > max {
		return false
	}
	return minutes%DurationStepMinutes == 0
}
