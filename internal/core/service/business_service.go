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

// BusinessLimits bundles the deployment-policy knobs for business creation.
type BusinessLimits struct {
	// MaxPerOwner caps businesses per owner account (default deployment: 1).
	MaxPerOwner int
	// SlugAttempts bounds the slug collision retry loop.
	SlugAttempts int
}

type BusinessService struct {
	repo            ports.BusinessRepository
	serviceRepo     ports.ServiceRepository
	reservationRepo ports.ReservationRepository
	userRepo        ports.UserRepository
	templates       ports.TemplateService
	storage         ports.AssetStorage
	limits          BusinessLimits
	logger          zerolog.Logger
}

func NewBusinessService(
	repo ports.BusinessRepository,
	serviceRepo ports.ServiceRepository,
	reservationRepo ports.ReservationRepository,
	userRepo ports.UserRepository,
	templates ports.TemplateService,
	storage ports.AssetStorage,
	limits BusinessLimits,
	logger zerolog.Logger,
) *BusinessService {
	if limits.MaxPerOwner <= 0 {
		limits.MaxPerOwner = 1
	}
	if limits.SlugAttempts <= 0 {
		limits.SlugAttempts = 5
	}
	return &BusinessService{
		repo:            repo,
		serviceRepo:     serviceRepo,
		reservationRepo: reservationRepo,
		userRepo:        userRepo,
		templates:       templates,
		storage:         storage,
		limits:          limits,
		logger:          logger,
	}
}

// Create provisions a business site: validates name and category, resolves a
// template, generates a unique slug and persists the draft.
func (s *BusinessService) Create(ctx context.Context, caller policy.Caller, input ports.CreateBusinessInput) (*domain.Business, error) {
	if caller.Role != domain.RoleOwner {
		return nil, domain.ErrForbidden
	}
	if input.Name == "" {
		return nil, domain.NewValidationError("name", "name is required")
	}
	if !domain.ValidCategory(input.Category) {
		return nil, domain.NewValidationError("category", "unknown business category")
	}

	owned, err := s.repo.CountByOwner(ctx, caller.ID)
	if err != nil {
		return nil, fmt.Errorf("create business: %w", err)
	}
	if owned >= int64(s.limits.MaxPerOwner) {
		return nil, domain.ErrBusinessLimit
	}

	tpl, err := s.templates.Resolve(ctx, caller, input.TemplateID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	hours := input.OperatingHours
	if len(hours) < 7 {
		hours = domain.DefaultOperatingHours()
	}
	currency := input.Currency
	if currency == "" {
		currency = "CRC"
	}

	b := &domain.Business{
		ID:          uuid.NewString(),
		OwnerID:     caller.ID,
		Name:        input.Name,
		Category:    input.Category,
		Status:      domain.BusinessDraft,
		TemplateID:  tpl.ID,
		Description: input.Description,
		OperatingHours: hours,
		Settings: domain.BusinessSettings{
			Currency:           currency,
			AllowOnlineBooking: true,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.insertWithSlug(ctx, b, now); err != nil {
		return nil, err
	}

	if err := s.userRepo.SetBusinessID(ctx, caller.ID, b.ID); err != nil {
		s.logger.Warn().Err(err).Str("business_id", b.ID).Msg("failed to link business to owner")
	}

	s.logger.Info().Str("business_id", b.ID).Str("slug", b.Slug).Str("owner_id", caller.ID).Msg("business created")
	return b, nil
}

// insertWithSlug inserts b, retrying with a random numeric suffix when the
// slug unique index rejects the write. The index is the authority; the retry
// loop is bounded.
func (s *BusinessService) insertWithSlug(ctx context.Context, b *domain.Business, now time.Time) error {
	base := slugify(b.Name)
	if base == "" {
		base = timestampSlug(now)
	}

	b.Slug = base
	for attempt := 0; attempt < s.limits.SlugAttempts; attempt++ {
		err := s.repo.Create(ctx, b)
		if err == nil {
			return nil
		}
		if !errors.Is(err, domain.ErrSlugTaken) {
			return fmt.Errorf("create business: %w", err)
		}
		b.Slug = base + "-" + slugSuffix()
	}
	return fmt.Errorf("create business: %w", domain.ErrSlugTaken)
}

func (s *BusinessService) Get(ctx context.Context, caller policy.Caller, id string) (*domain.Business, error) {
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanView(caller, policy.BusinessResource(b)) {
		return nil, domain.ErrBusinessNotFound
	}
	return b, nil
}

// GetBySlug serves the public site endpoint; only active businesses resolve.
func (s *BusinessService) GetBySlug(ctx context.Context, slug string) (*domain.Business, error) {
	b, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if b.Status != domain.BusinessActive {
		return nil, domain.ErrBusinessNotFound
	}
	return b, nil
}

func (s *BusinessService) List(ctx context.Context, caller policy.Caller, page, limit int) ([]*domain.Business, int64, error) {
	switch caller.Role {
	case domain.RoleAdmin:
		return s.repo.List(ctx, page, limit)
	case domain.RoleOwner:
		items, err := s.repo.ListByOwner(ctx, caller.ID)
		if err != nil {
			return nil, 0, err
		}
		return items, int64(len(items)), nil
	default:
		return nil, 0, domain.ErrForbidden
	}
}

// Update applies a partial-field merge; omitted fields stay untouched.
func (s *BusinessService) Update(ctx context.Context, caller policy.Caller, id string, input ports.UpdateBusinessInput) (*domain.Business, error) {
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanManage(caller, policy.BusinessResource(b)) {
		return nil, domain.ErrForbidden
	}

	fields := map[string]any{"updated_at": time.Now().UTC()}
	if input.Description != nil {
		fields["description"] = *input.Description
	}
	if input.Location != nil {
		fields["location"] = *input.Location
	}
	if input.Phone != nil {
		fields["phone"] = *input.Phone
	}
	if input.Social != nil {
		fields["social"] = *input.Social
	}
	if input.Settings != nil {
		fields["settings"] = *input.Settings
	}
	if input.OperatingHours != nil {
		fields["operating_hours"] = *input.OperatingHours
	}

	if err := s.repo.Update(ctx, id, fields); err != nil {
		return nil, fmt.Errorf("update business: %w", err)
	}
	return s.repo.FindByID(ctx, id)
}

// ChangeStatus applies a gated transition. Suspension handling is admin-only,
// and the first activation stamps the publish timestamp exactly once.
func (s *BusinessService) ChangeStatus(ctx context.Context, caller policy.Caller, id string, status domain.BusinessStatus) (*domain.Business, error) {
	if !domain.ValidBusinessStatus(status) {
		return nil, domain.NewValidationError("status", "unknown business status")
	}

	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanManage(caller, policy.BusinessResource(b)) {
		return nil, domain.ErrForbidden
	}
	if (status == domain.BusinessSuspended || b.Status == domain.BusinessSuspended) && caller.Role != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}
	if !b.Status.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w (from %s to %s)", domain.ErrInvalidStatusChange, b.Status, status)
	}

	now := time.Now().UTC()
	fields := map[string]any{"status": status, "updated_at": now}

	if status == domain.BusinessActive {
		if b.Name == "" || b.Category == "" {
			return nil, &domain.ValidationError{Fields: []domain.FieldDetail{
				{Field: "name", Message: "required to activate"},
				{Field: "category", Message: "required to activate"},
			}}
		}
		if b.PublishedAt == nil {
			fields["published_at"] = now
		}
	}

	if err := s.repo.Update(ctx, id, fields); err != nil {
		return nil, fmt.Errorf("change business status: %w", err)
	}

	s.logger.Info().Str("business_id", id).Str("from", string(b.Status)).Str("to", string(status)).Msg("business status changed")
	return s.repo.FindByID(ctx, id)
}

// Delete cascades: all child services are removed, stored assets are
// requested for removal (best-effort, one failed asset never blocks the
// deletion), and the owner's business reference is cleared. Open
// reservations do not block deletion; their count is reported back.
func (s *BusinessService) Delete(ctx context.Context, caller policy.Caller, id string) (*ports.CascadeResult, error) {
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanManage(caller, policy.BusinessResource(b)) {
		return nil, domain.ErrForbidden
	}

	result := &ports.CascadeResult{}

	if open, err := s.reservationRepo.CountOpenByBusiness(ctx, id); err == nil {
		result.OpenReservations = open
	} else {
		s.logger.Warn().Err(err).Str("business_id", id).Msg("failed to count open reservations")
	}

	deleted, err := s.serviceRepo.DeleteByBusiness(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("delete business services: %w", err)
	}
	result.ServicesDeleted = deleted

	for _, key := range b.Assets.Keys() {
		outcome := ports.AssetOutcome{Key: key, Removed: true}
		if err := s.storage.Remove(ctx, key); err != nil {
			outcome.Removed = false
			outcome.Err = err.Error()
			s.logger.Warn().Err(err).Str("asset", key).Str("business_id", id).Msg("asset removal failed")
		}
		result.Assets = append(result.Assets, outcome)
	}

	if err := s.userRepo.SetBusinessID(ctx, b.OwnerID, ""); err != nil {
		s.logger.Warn().Err(err).Str("owner_id", b.OwnerID).Msg("failed to clear owner business reference")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, fmt.Errorf("delete business: %w", err)
	}

	s.logger.Info().
		Str("business_id", id).
		Int64("services_deleted", result.ServicesDeleted).
		Int64("open_reservations", result.OpenReservations).
		Msg("business deleted")
	return result, nil
}
