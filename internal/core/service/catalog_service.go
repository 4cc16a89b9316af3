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

// CatalogLimits bundles the validation knobs for catalog services.
type CatalogLimits struct {
	MaxPerBusiness  int
	MinDurationMins int
	MaxDurationMins int
}

type CatalogService struct {
	repo            ports.ServiceRepository
	businessRepo    ports.BusinessRepository
	reservationRepo ports.ReservationRepository
	limits          CatalogLimits
	logger          zerolog.Logger
}

func NewCatalogService(
	repo ports.ServiceRepository,
	businessRepo ports.BusinessRepository,
	reservationRepo ports.ReservationRepository,
	limits CatalogLimits,
	logger zerolog.Logger,
) *CatalogService {
	if limits.MaxPerBusiness <= 0 {
		limits.MaxPerBusiness = 20
	}
	if limits.MinDurationMins <= 0 {
		limits.MinDurationMins = domain.DurationStepMinutes
	}
	if limits.MaxDurationMins <= 0 {
		limits.MaxDurationMins = 480
	}
	return &CatalogService{
		repo:            repo,
		businessRepo:    businessRepo,
		reservationRepo: reservationRepo,
		limits:          limits,
		logger:          logger,
	}
}

func (s *CatalogService) validate(input ports.CreateServiceInput) error {
	var fields []domain.FieldDetail
	if input.Name == "" {
		fields = append(fields, domain.FieldDetail{Field: "name", Message: "name is required"})
	}
	if input.Price < 0 {
		fields = append(fields, domain.FieldDetail{Field: "price", Message: "price must not be negative"})
	}
	if !domain.ValidDuration(input.DurationMinutes, s.limits.MinDurationMins, s.limits.MaxDurationMins) {
		fields = append(fields, domain.FieldDetail{
			Field: "duration_minutes",
			Message: fmt.Sprintf("duration must be a multiple of %d between %d and %d",
				domain.DurationStepMinutes, s.limits.MinDurationMins, s.limits.MaxDurationMins),
		})
	}
	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// Create publishes a service under the caller's business. The quota is
// reserved atomically on the business document before the insert, and
// released when the insert fails, so concurrent creations cannot jointly
// exceed the limit.
func (s *CatalogService) Create(ctx context.Context, caller policy.Caller, input ports.CreateServiceInput) (*domain.Service, error) {
	b, err := s.businessRepo.FindByID(ctx, input.BusinessID)
	if err != nil {
		return nil, err
	}
	if !policy.CanManage(caller, policy.BusinessResource(b)) {
		return nil, domain.ErrForbidden
	}
	if err := s.validate(input); err != nil {
		return nil, err
	}

	currency := input.Currency
	if currency == "" {
		currency = b.Settings.Currency
	}

	if err := s.businessRepo.ReserveServiceSlot(ctx, b.ID, s.limits.MaxPerBusiness); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	svc := &domain.Service{
		ID:              uuid.NewString(),
		BusinessID:      b.ID,
		Name:            input.Name,
		Description:     input.Description,
		DurationMinutes: input.DurationMinutes,
		Price:           input.Price,
		Currency:        currency,
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.Create(ctx, svc); err != nil {
		if relErr := s.businessRepo.ReleaseServiceSlot(ctx, b.ID); relErr != nil {
			s.logger.Warn().Err(relErr).Str("business_id", b.ID).Msg("failed to release service slot")
		}
		if errors.Is(err, domain.ErrDuplicateServiceName) {
			return nil, err
		}
		return nil, fmt.Errorf("create service: %w", err)
	}

	s.logger.Info().Str("service_id", svc.ID).Str("business_id", b.ID).Msg("service created")
	return svc, nil
}

func (s *CatalogService) Get(ctx context.Context, caller policy.Caller, id string) (*domain.Service, error) {
	svc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	b, err := s.businessRepo.FindByID(ctx, svc.BusinessID)
	if err != nil {
		return nil, err
	}
	if !policy.CanView(caller, policy.BusinessResource(b)) {
		return nil, domain.ErrServiceNotFound
	}
	return svc, nil
}

// ListByBusiness returns the full catalog to the managing owner or admin and
// only active services to everyone else.
func (s *CatalogService) ListByBusiness(ctx context.Context, caller policy.Caller, businessID string) ([]*domain.Service, error) {
	b, err := s.businessRepo.FindByID(ctx, businessID)
	if err != nil {
		return nil, err
	}
	if !policy.CanView(caller, policy.BusinessResource(b)) {
		return nil, domain.ErrBusinessNotFound
	}
	activeOnly := !policy.CanManage(caller, policy.BusinessResource(b))
	return s.repo.ListByBusiness(ctx, businessID, activeOnly)
}

// Update applies a partial merge. A name change re-checks uniqueness through
// the compound index (excluding self by definition: the index rejects only a
// different document with the same name).
func (s *CatalogService) Update(ctx context.Context, caller policy.Caller, id string, input ports.UpdateServiceInput) (*domain.Service, error) {
	svc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	b, err := s.businessRepo.FindByID(ctx, svc.BusinessID)
	if err != nil {
		return nil, err
	}
	if !policy.CanManage(caller, policy.BusinessResource(b)) {
		return nil, domain.ErrForbidden
	}

	fields := map[string]any{"updated_at": time.Now().UTC()}
	if input.Name != nil {
		if *input.Name == "" {
			return nil, domain.NewValidationError("name", "name is required")
		}
		fields["name"] = *input.Name
	}
	if input.Description != nil {
		fields["description"] = *input.Description
	}
	if input.DurationMinutes != nil {
		if !domain.ValidDuration(*input.DurationMinutes, s.limits.MinDurationMins, s.limits.MaxDurationMins) {
			return nil, domain.NewValidationError("duration_minutes", "invalid duration")
		}
		fields["duration_minutes"] = *input.DurationMinutes
	}
	if input.Price != nil {
		if *input.Price < 0 {
			return nil, domain.NewValidationError("price", "price must not be negative")
		}
		fields["price"] = *input.Price
	}
	if input.IsActive != nil {
		fields["is_active"] = *input.IsActive
	}

	if err := s.repo.Update(ctx, id, fields); err != nil {
		if errors.Is(err, domain.ErrDuplicateServiceName) {
			return nil, err
		}
		return nil, fmt.Errorf("update service: %w", err)
	}
	return s.repo.FindByID(ctx, id)
}

// Delete removes a service permanently unless open (pending/confirmed)
// reservations still reference it; those force a soft deactivation and the
// blocking count is reported.
func (s *CatalogService) Delete(ctx context.Context, caller policy.Caller, id string) (*ports.DeleteServiceResult, error) {
	svc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	b, err := s.businessRepo.FindByID(ctx, svc.BusinessID)
	if err != nil {
		return nil, err
	}
	if !policy.CanManage(caller, policy.BusinessResource(b)) {
		return nil, domain.ErrForbidden
	}

	open, err := s.reservationRepo.CountOpenByService(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("delete service: %w", err)
	}

	if open > 0 {
		if err := s.repo.SetActive(ctx, id, false); err != nil {
			return nil, fmt.Errorf("deactivate service: %w", err)
		}
		s.logger.Info().Str("service_id", id).Int64("open_reservations", open).Msg("service deactivated, deletion blocked")
		return &ports.DeleteServiceResult{Deactivated: true, OpenReservations: open}, nil
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, fmt.Errorf("delete service: %w", err)
	}
	if err := s.businessRepo.ReleaseServiceSlot(ctx, b.ID); err != nil {
		s.logger.Warn().Err(err).Str("business_id", b.ID).Msg("failed to release service slot")
	}

	s.logger.Info().Str("service_id", id).Msg("service deleted")
	return &ports.DeleteServiceResult{Deleted: true}, nil
}
