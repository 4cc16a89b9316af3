package ports

import (
	"context"

	"github.com/JefryM27/misitiofacil-Backend-sub000/internal/core/domain"
)

// ServiceRepository defines persistence operations for catalog services. A
// compound unique index on (business_id, name) is the authority for name
// uniqueness: Create and Rename return domain.ErrDuplicateServiceName on a
// duplicate-key write.
type ServiceRepository interface {
	Create(ctx context.Context, s *domain.Service) error
	FindByID(ctx context.Context, id string) (*domain.Service, error)
	ListByBusiness(ctx context.Context, businessID string, activeOnly bool) ([]*domain.Service, error)
	Update(ctx context.Context, id string, fields map[string]any) error
	SetActive(ctx context.Context, id string, active bool) error
	Delete(ctx context.Context, id string) error
	// DeleteByBusiness removes every service of a business during cascade
	// deletion and returns the number removed.
	DeleteByBusiness(ctx context.Context, businessID string) (int64, error)
}
