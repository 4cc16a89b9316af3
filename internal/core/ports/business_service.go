package ports

import (
	"context"

	"github.com/JefryM27/misitiofacil-Backend-sub000/internal/core/domain"
	"github.com/JefryM27/misitiofacil-Backend-sub000/internal/core/policy"
)

// CreateBusinessInput carries all data needed to provision a business site.
// TemplateID is optional; the resolver falls back to the best public template.
// OperatingHours is applied only when the caller supplies a full schedule.
type CreateBusinessInput struct {
	Name           string
	Category       string
	Description    string
	TemplateID     string
	Currency       string
	OperatingHours domain.OperatingHours
}

// UpdateBusinessInput is a partial-field merge: nil pointers are left
// untouched, never defaulted.
type UpdateBusinessInput struct {
	Description    *string
	Location       *string
	Phone          *string
	Social         *domain.SocialLinks
	Settings       *domain.BusinessSettings
	OperatingHours *domain.OperatingHours
}

// AssetOutcome reports the result of one asset-removal request issued during
// a cascading deletion.
type AssetOutcome struct {
	Key     string
	Removed bool
	Err     string
}

// CascadeResult collects the outcomes of a business deletion: removed child
// services, per-asset removal outcomes (failures swallowed), and the number
// of open reservations left dangling.
type CascadeResult struct {
	ServicesDeleted  int64
	Assets           []AssetOutcome
	OpenReservations int64
}

// BusinessService implements the business lifecycle.
type BusinessService interface {
	Create(ctx context.Context, caller policy.Caller, input CreateBusinessInput) (*domain.Business, error)
	Get(ctx context.Context, caller policy.Caller, id string) (*domain.Business, error)
	// GetBySlug serves the public site endpoint; only active businesses are
	// returned.
	GetBySlug(ctx context.Context, slug string) (*domain.Business, error)
	List(ctx context.Context, caller policy.Caller, page, limit int) ([]*domain.Business, int64, error)
	Update(ctx context.Context, caller policy.Caller, id string, input UpdateBusinessInput) (*domain.Business, error)
	// ChangeStatus applies a gated status transition. The first transition to
	// active stamps the publish timestamp once.
	ChangeStatus(ctx context.Context, caller policy.Caller, id string, status domain.BusinessStatus) (*domain.Business, error)
	// Delete cascades: child services removed, stored assets requested for
	// removal best-effort, the owner's business reference cleared.
	Delete(ctx context.Context, caller policy.Caller, id string) (*CascadeResult, error)
}

// AssetStorage is the external file-storage collaborator. Only removal is
// needed by this core; upload plumbing lives outside it.
type AssetStorage interface {
	Remove(ctx context.Context, key string) error
}
