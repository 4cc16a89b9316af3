package ports

import (
	"context"

	"github.com/JefryM27/misitiofacil-Backend-sub000/internal/core/domain"
)

// UserRepository defines persistence for user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, page, limit int) ([]*domain.User, int64, error)
	// SetRole changes the user's role. Role is immutable outside admin action;
	// the service layer enforces that gate.
	SetRole(ctx context.Context, id, role string) error
	// SetActive flips the soft deactivation flag. Users are never deleted.
	SetActive(ctx context.Context, id string, active bool) error
	// SetBusinessID records (or clears, with an empty id) the business owned
	// by the user.
	SetBusinessID(ctx context.Context, userID, businessID string) error
}
