package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/JefryM27/misitiofacil-Backend-sub000/internal/core/domain"
	"github.com/JefryM27/misitiofacil-Backend-sub000/internal/core/policy"
	"github.com/JefryM27/misitiofacil-Backend-sub000/internal/core/ports"
)

type TemplateService struct {
	repo         ports.TemplateRepository
	businessRepo ports.BusinessRepository
	logger       zerolog.Logger
}

func NewTemplateService(repo ports.TemplateRepository, businessRepo ports.BusinessRepository, logger zerolog.Logger) *TemplateService {
	return &TemplateService{repo: repo, businessRepo: businessRepo, logger: logger}
}

// Resolve picks exactly one usable template for the caller.
func (s *TemplateService) Resolve(ctx context.Context, caller policy.Caller, templateID string) (*domain.Template, error) {
	// 1. A requested template is used when it is active and the caller may
	// use it; otherwise fall through to the fallback query.
	if templateID != "" {
		t, err := s.repo.FindByID(ctx, templateID)
		switch {
		case err == nil && t.UsableBy(caller.ID, caller.Role):
			s.recordUsage(ctx, t)
			return t, nil
		case err != nil && !isNotFound(err):
			return nil, fmt.Errorf("resolve template: %w", err)
		default:
			s.logger.Debug().Str("template_id", templateID).Msg("requested template unusable, falling back")
		}
	}

	// 2. Best fallback: active public templates ordered by (is_default desc,
	// rating desc).
	t, err := s.repo.FindBestFallback(ctx)
	if err != nil {
		// 3. Hard stop: business provisioning cannot proceed templateless.
		return nil, fmt.Errorf("resolve template: %w", err)
	}

	s.recordUsage(ctx, t)
	return t, nil
}

// recordUsage bumps the popularity counter. Best-effort: a failed increment
// never fails the resolution.
func (s *TemplateService) recordUsage(ctx context.Context, t *domain.Template) {
	if err := s.repo.RecordUsage(ctx, t.ID); err != nil {
		s.logger.Warn().Err(err).Str("template_id", t.ID).Msg("failed to record template usage")
	}
}

func (s *TemplateService) Create(ctx context.Context, caller policy.Caller, input ports.CreateTemplateInput) (*domain.Template, error) {
	if caller.Role != domain.RoleOwner && caller.Role != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}
	if input.Name == "" {
		return nil, domain.NewValidationError("name", "name is required")
	}

	now := time.Now().UTC()
	t := &domain.Template{
		ID:          uuid.NewString(),
		Name:        input.Name,
		Description: input.Description,
		IsPublic:    input.IsPublic,
		IsDefault:   input.IsDefault,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	// System templates (admin-created defaults) carry no owner.
	if caller.Role == domain.RoleOwner {
		t.OwnerID = caller.ID
		t.IsDefault = false
	}

	if err := s.repo.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("create template: %w", err)
	}

	s.logger.Info().Str("template_id", t.ID).Str("owner_id", t.OwnerID).Msg("template created")
	return t, nil
}

func (s *TemplateService) Get(ctx context.Context, caller policy.Caller, id string) (*domain.Template, error) {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanView(caller, policy.TemplateResource(t)) {
		return nil, domain.ErrTemplateNotFound
	}
	return t, nil
}

func (s *TemplateService) List(ctx context.Context, caller policy.Caller) ([]*domain.Template, error) {
	return s.repo.ListVisible(ctx, caller.ID, caller.Role == domain.RoleAdmin)
}

func (s *TemplateService) SetRating(ctx context.Context, caller policy.Caller, id string, rating float64) error {
	if caller.Role != domain.RoleAdmin {
		return domain.ErrForbidden
	}
	if rating < 0 || rating > 5 {
		return domain.NewValidationError("rating", "rating must be between 0 and 5")
	}
	return s.repo.SetRating(ctx, id, rating)
}

// Delete removes a template unless a business still references it.
func (s *TemplateService) Delete(ctx context.Context, caller policy.Caller, id string) error {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !policy.CanManage(caller, policy.TemplateResource(t)) {
		return domain.ErrForbidden
	}

	refs, err := s.businessRepo.CountByTemplate(ctx, id)
	if err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	if refs > 0 {
		return fmt.Errorf("delete template: %w (%d businesses)", domain.ErrTemplateInUse, refs)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	s.logger.Info().Str("template_id", id).Msg("template deleted")
	return nil
}

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrTemplateNotFound) || errors.Is(err, domain.ErrNoTemplatesAvailable)
}
