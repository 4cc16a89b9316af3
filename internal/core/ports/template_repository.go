package ports

import (
	"context"

	"github.com/JefryM27/misitiofacil-Backend-sub000/internal/core/domain"
)

// TemplateRepository defines persistence operations for site templates.
type TemplateRepository interface {
	Create(ctx context.Context, t *domain.Template) error
	FindByID(ctx context.Context, id string) (*domain.Template, error)
	// FindBestFallback returns the best active public template, ordered by
	// (is_default desc, rating desc). Returns domain.ErrNoTemplatesAvailable
	// when none exists.
	FindBestFallback(ctx context.Context) (*domain.Template, error)
	// ListVisible returns templates visible to the caller: all public or
	// default templates plus the caller's own. An empty ownerID with admin
	// set lists everything.
	ListVisible(ctx context.Context, ownerID string, admin bool) ([]*domain.Template, error)
	// RecordUsage atomically increments times_used and stamps last_used_at.
	RecordUsage(ctx context.Context, id string) error
	SetRating(ctx context.Context, id string, rating float64) error
	Delete(ctx context.Context, id string) error
}
