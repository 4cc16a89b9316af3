package ports

import (
	"context"

	"github.com/JefryM27/misitiofacil-Backend-sub000/internal/core/domain"
)

// RegisterInput carries the data needed to create an account. Role must be
// owner or client; admin accounts are created only through admin action.
type RegisterInput struct {
	Email    string
	Password string
	FullName string
	Role     string
}

// LoginThrottle tracks failed login attempts and lockout state per account.
// Implementations are best-effort: a throttle outage must not block logins.
type LoginThrottle interface {
	// IsLocked reports whether the account is currently locked out.
	IsLocked(ctx context.Context, userID string) (bool, error)
	// RecordFailure increments the failed-attempt counter and reports whether
	// the account just crossed the lockout threshold.
	RecordFailure(ctx context.Context, userID string) (locked bool, err error)
	// Reset clears the counter after a successful login.
	Reset(ctx context.Context, userID string) error
}

// AuthService implements registration, login and admin user management.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)

	ListUsers(ctx context.Context, callerRole string, page, limit int) ([]*domain.User, int64, error)
	ChangeRole(ctx context.Context, callerRole, userID, role string) error
	SetUserActive(ctx context.Context, callerRole, userID string, active bool) error
}
