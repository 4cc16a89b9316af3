package ports

import (
	"context"

	"github.com/JefryM27/misitiofacil-Backend-sub000/internal/core/domain"
	"github.com/JefryM27/misitiofacil-Backend-sub000/internal/core/policy"
)

// CreateTemplateInput carries the data needed to publish a new template.
type CreateTemplateInput struct {
	Name        string
	Description string
	IsPublic    bool
	IsDefault   bool
}

// TemplateService resolves and manages site templates.
type TemplateService interface {
	// Resolve picks exactly one usable template for the caller. When
	// templateID is empty or the referenced template is not usable, it falls
	// back to the best active public template. It never returns nil on
	// success; with no fallback available it fails with
	// domain.ErrNoTemplatesAvailable.
	Resolve(ctx context.Context, caller policy.Caller, templateID string) (*domain.Template, error)

	Create(ctx context.Context, caller policy.Caller, input CreateTemplateInput) (*domain.Template, error)
	Get(ctx context.Context, caller policy.Caller, id string) (*domain.Template, error)
	List(ctx context.Context, caller policy.Caller) ([]*domain.Template, error)
	SetRating(ctx context.Context, caller policy.Caller, id string, rating float64) error
	// Delete removes a template unless a business still references it.
	Delete(ctx context.Context, caller policy.Caller, id string) error
}
