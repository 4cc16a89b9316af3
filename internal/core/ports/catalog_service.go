package ports

import (
	"context"

	"github.com/JefryM27/misitiofacil-Backend-sub000/internal/core/domain"
	"github.com/JefryM27/misitiofacil-Backend-sub000/internal/core/policy"
)

// CreateServiceInput carries the data needed to publish a catalog service.
// Currency falls back to the business settings currency when empty.
type CreateServiceInput struct {
	BusinessID      string
	Name            string
	Description     string
	DurationMinutes int
	Price           float64
	Currency        string
}

// UpdateServiceInput is a partial-field merge over an existing service.
type UpdateServiceInput struct {
	Name            *string
	Description     *string
	DurationMinutes *int
	Price           *float64
	IsActive        *bool
}

// DeleteServiceResult reports how a deletion was carried out: a hard delete,
// or a soft deactivation blocked by open reservations.
type DeleteServiceResult struct {
	Deleted          bool
	Deactivated      bool
	OpenReservations int64
}

// CatalogService implements per-business service CRUD with quota and
// duration constraints.
type CatalogService interface {
	Create(ctx context.Context, caller policy.Caller, input CreateServiceInput) (*domain.Service, error)
	Get(ctx context.Context, caller policy.Caller, id string) (*domain.Service, error)
	// ListByBusiness returns active services for public callers and the full
	// catalog for the owning owner or an admin.
	ListByBusiness(ctx context.Context, caller policy.Caller, businessID string) ([]*domain.Service, error)
	Update(ctx context.Context, caller policy.Caller, id string, input UpdateServiceInput) (*domain.Service, error)
	Delete(ctx context.Context, caller policy.Caller, id string) (*DeleteServiceResult, error)
}
