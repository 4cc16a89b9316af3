package ports

import (
	"context"

	"github.com/JefryM27/misitiofacil-Backend-sub000/internal/core/domain"
)

// BusinessRepository defines persistence operations for businesses. A unique
// index on slug is the authority for slug collisions: Create returns
// domain.ErrSlugTaken on a duplicate-key insert.
type BusinessRepository interface {
	Create(ctx context.Context, b *domain.Business) error
	FindByID(ctx context.Context, id string) (*domain.Business, error)
	FindBySlug(ctx context.Context, slug string) (*domain.Business, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Business, error)
	List(ctx context.Context, page, limit int) ([]*domain.Business, int64, error)
	CountByOwner(ctx context.Context, ownerID string) (int64, error)
	CountByTemplate(ctx context.Context, templateID string) (int64, error)
	// Update applies a partial-field merge; keys absent from fields stay
	// untouched.
	Update(ctx context.Context, id string, fields map[string]any) error
	Delete(ctx context.Context, id string) error
	// ReserveServiceSlot atomically increments service_count while it is
	// below limit. Returns domain.ErrServiceQuotaExceeded when the quota is
	// already full, enforcing the quota without a check-then-act window.
	ReserveServiceSlot(ctx context.Context, id string, limit int) error
	// ReleaseServiceSlot decrements service_count after a failed insert or a
	// service deletion.
	ReleaseServiceSlot(ctx context.Context, id string) error
}
