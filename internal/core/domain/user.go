package domain

import "time"

const (
	RoleOwner  = "owner"
	RoleClient = "client"
	RoleAdmin  = "admin"
)

// ValidRole reports whether role is one of the three known roles.
func ValidRole(role string) bool {
	return role == RoleOwner || role == RoleClient || role == RoleAdmin
}

// User models an authenticated actor in the system. Deactivation is a soft
// flag; users are never physically deleted. Role changes only happen through
// admin action.
type User struct {
	ID           string    `json:"id" bson:"_id,omitempty"`
	Email        string    `json:"email" bson:"email"`
	PasswordHash string    `json:"-" bson:"password_hash"`
	FullName     string    `json:"full_name" bson:"full_name"`
	Role         string    `json:"role" bson:"role"`
	IsActive     bool      `json:"is_active" bson:"is_active"`
	BusinessID   string    `json:"business_id,omitempty" bson:"business_id,omitempty"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
}
