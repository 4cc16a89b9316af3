package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/JefryM27/misitiofacil-Backend-sub000/internal/core/domain"
	"github.com/JefryM27/misitiofacil-Backend-sub000/internal/core/policy"
	"github.com/JefryM27/misitiofacil-Backend-sub000/internal/core/ports"
)

const maxPageLimit = 100

// statusTimestampField maps a target status to the timestamp field stamped
// on entry. no_show carries no dedicated timestamp.
var statusTimestampField = map[domain.ReservationStatus]string{
	domain.ReservationConfirmed: "confirmed_at",
	domain.ReservationCancelled: "cancelled_at",
	domain.ReservationCompleted: "completed_at",
}

type ReservationService struct {
	repo         ports.ReservationRepository
	businessRepo ports.BusinessRepository
	serviceRepo  ports.ServiceRepository
	userRepo     ports.UserRepository
	notifier     ports.ReservationNotifier
	logger       zerolog.Logger
}

func NewReservationService(
	repo ports.ReservationRepository,
	businessRepo ports.BusinessRepository,
	serviceRepo ports.ServiceRepository,
	userRepo ports.UserRepository,
	notifier ports.ReservationNotifier,
	logger zerolog.Logger,
) *ReservationService {
	return &ReservationService{
		repo:         repo,
		businessRepo: businessRepo,
		serviceRepo:  serviceRepo,
		userRepo:     userRepo,
		notifier:     notifier,
		logger:       logger,
	}
}

// Create books a service. The service's current duration, price and currency
// are snapshotted onto the reservation; later catalog edits never touch past
// or pending bookings. Initial status is always pending.
func (s *ReservationService) Create(ctx context.Context, caller policy.Caller, input ports.CreateReservationInput) (*domain.Reservation, error) {
	b, err := s.businessRepo.FindByID(ctx, input.BusinessID)
	if err != nil {
		return nil, err
	}
	svc, err := s.serviceRepo.FindByID(ctx, input.ServiceID)
	if err != nil {
		return nil, err
	}
	if svc.BusinessID != b.ID {
		return nil, domain.ErrServiceNotFound
	}
	if !svc.IsActive {
		return nil, domain.NewValidationError("service_id", "service is not bookable")
	}
	if !input.StartsAt.After(time.Now().UTC()) {
		return nil, domain.NewValidationError("starts_at", "must be in the future")
	}

	client, err := s.resolveClient(ctx, caller, b, input)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	r := &domain.Reservation{
		ID:              uuid.NewString(),
		BusinessID:      b.ID,
		ServiceID:       svc.ID,
		Client:          client,
		StartsAt:        input.StartsAt.UTC(),
		DurationMinutes: svc.DurationMinutes,
		Price:           svc.Price,
		Currency:        svc.Currency,
		Status:          domain.ReservationPending,
		Notes:           input.Notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.Create(ctx, r); err != nil {
		s.logger.Error().Err(err).Str("business_id", b.ID).Msg("failed to create reservation")
		return nil, fmt.Errorf("create reservation: %w", err)
	}

	s.logger.Info().
		Str("reservation_id", r.ID).
		Str("business_id", b.ID).
		Str("client_kind", r.Client.Kind).
		Msg("reservation created")
	s.notify(ctx, ports.NotifyReservationCreated, r)
	return r, nil
}

// resolveClient builds the tagged client variant: a registered user
// reference or an embedded guest record, never both.
func (s *ReservationService) resolveClient(ctx context.Context, caller policy.Caller, b *domain.Business, input ports.CreateReservationInput) (domain.ReservationClient, error) {
	var zero domain.ReservationClient

	switch caller.Role {
	case domain.RoleOwner, domain.RoleAdmin:
		// Owners only book into their own business; a third party's tenants
		// are off limits.
		if !policy.CanManage(caller, policy.BusinessResource(b)) {
			return zero, domain.ErrForbidden
		}
		if input.ForUserID != "" && input.Guest != nil {
			return zero, domain.NewValidationError("client", "registered client and guest are mutually exclusive")
		}
		if input.ForUserID != "" {
			if _, err := s.userRepo.FindByID(ctx, input.ForUserID); err != nil {
				return zero, err
			}
			return domain.RegisteredClient(input.ForUserID), nil
		}
		if input.Guest == nil {
			return zero, domain.NewValidationError("client", "a client or guest record is required")
		}
		return guestClient(input.Guest)

	case domain.RoleClient:
		if input.Guest != nil {
			return zero, domain.NewValidationError("client", "registered client and guest are mutually exclusive")
		}
		if b.Status != domain.BusinessActive {
			return zero, domain.ErrBusinessNotFound
		}
		return domain.RegisteredClient(caller.ID), nil

	default:
		// Unauthenticated guest booking.
		if b.Status != domain.BusinessActive || !b.Settings.AllowOnlineBooking {
			return zero, domain.ErrBusinessNotFound
		}
		return guestClient(input.Guest)
	}
}

func guestClient(g *ports.GuestInput) (domain.ReservationClient, error) {
	var fields []domain.FieldDetail
	if g == nil {
		return domain.ReservationClient{}, domain.NewValidationError("guest", "guest record is required")
	}
	if g.Name == "" {
		fields = append(fields, domain.FieldDetail{Field: "guest.name", Message: "name is required"})
	}
	if g.Email == "" {
		fields = append(fields, domain.FieldDetail{Field: "guest.email", Message: "email is required"})
	}
	if g.Phone == "" {
		fields = append(fields, domain.FieldDetail{Field: "guest.phone", Message: "phone is required"})
	}
	if len(fields) > 0 {
		return domain.ReservationClient{}, &domain.ValidationError{Fields: fields}
	}
	return domain.GuestClient(g.Name, g.Email, g.Phone), nil
}

func (s *ReservationService) Get(ctx context.Context, caller policy.Caller, id string) (*domain.Reservation, error) {
	r, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	b, err := s.businessRepo.FindByID(ctx, r.BusinessID)
	if err != nil {
		return nil, err
	}
	if !policy.CanView(caller, policy.ReservationResource(r, b)) {
		return nil, domain.ErrReservationNotFound
	}
	return r, nil
}

// List serves the generic listing endpoint: admins see everything, owners see
// only their businesses (an out-of-ownership filter yields an empty page),
// and pure clients are rejected outright.
func (s *ReservationService) List(ctx context.Context, caller policy.Caller, input ports.ListReservationsInput) (*ports.ReservationPage, error) {
	filter := ports.ListReservationsFilter{
		Status:   input.Status,
		DateFrom: input.DateFrom,
		DateTo:   input.DateTo,
		Page:     normalizePage(input.Page),
		Limit:    normalizeLimit(input.Limit),
	}

	switch caller.Role {
	case domain.RoleAdmin:
		if input.BusinessID != "" {
			filter.BusinessIDs = []string{input.BusinessID}
		}

	case domain.RoleOwner:
		owned, err := s.businessRepo.ListByOwner(ctx, caller.ID)
		if err != nil {
			return nil, err
		}
		ownedIDs := make([]string, 0, len(owned))
		ownsFilter := input.BusinessID == ""
		for _, b := range owned {
			ownedIDs = append(ownedIDs, b.ID)
			if b.ID == input.BusinessID {
				ownsFilter = true
			}
		}
		if !ownsFilter || len(ownedIDs) == 0 {
			return emptyPage(filter), nil
		}
		if input.BusinessID != "" {
			filter.BusinessIDs = []string{input.BusinessID}
		} else {
			filter.BusinessIDs = ownedIDs
		}

	default:
		return nil, domain.ErrForbidden
	}

	return s.page(ctx, filter)
}

// ListForClient returns the caller's own reservations.
func (s *ReservationService) ListForClient(ctx context.Context, caller policy.Caller, page, limit int) (*ports.ReservationPage, error) {
	if caller.Role != domain.RoleClient {
		return nil, domain.ErrForbidden
	}
	return s.page(ctx, ports.ListReservationsFilter{
		ClientID: caller.ID,
		Page:     normalizePage(page),
		Limit:    normalizeLimit(limit),
	})
}

func (s *ReservationService) page(ctx context.Context, filter ports.ListReservationsFilter) (*ports.ReservationPage, error) {
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	return &ports.ReservationPage{
		Items:      items,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages(total, filter.Limit),
	}, nil
}

// UpdateStatus applies an explicit transition. The repository performs a
// compare-and-swap on the current status, so two concurrent updates cannot
// silently overwrite each other; the loser observes a conflict.
func (s *ReservationService) UpdateStatus(ctx context.Context, caller policy.Caller, id string, status domain.ReservationStatus) (*domain.Reservation, error) {
	if !domain.ValidReservationStatus(status) {
		return nil, domain.NewValidationError("status", "unknown reservation status")
	}

	r, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	b, err := s.businessRepo.FindByID(ctx, r.BusinessID)
	if err != nil {
		return nil, err
	}
	if !policy.CanManage(caller, policy.ReservationResource(r, b)) {
		return nil, domain.ErrForbidden
	}
	if !r.Status.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w (from %s to %s)", domain.ErrInvalidTransition, r.Status, status)
	}

	now := time.Now().UTC()
	if err := s.repo.UpdateStatusCAS(ctx, id, r.Status, status, statusTimestampField[status], now); err != nil {
		return nil, err
	}

	s.logger.Info().Str("reservation_id", id).Str("from", string(r.Status)).Str("to", string(status)).Msg("reservation status updated")

	updated, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if status == domain.ReservationConfirmed {
		s.notify(ctx, ports.NotifyReservationConfirmed, updated)
	}
	if status == domain.ReservationCancelled {
		s.notify(ctx, ports.NotifyReservationCancelled, updated)
	}
	return updated, nil
}

// Cancel is the dedicated cancellation action, additionally open to the
// booking client. Re-cancelling an already-cancelled reservation is rejected.
func (s *ReservationService) Cancel(ctx context.Context, caller policy.Caller, id string, reason string) (*domain.Reservation, error) {
	r, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	b, err := s.businessRepo.FindByID(ctx, r.BusinessID)
	if err != nil {
		return nil, err
	}
	if !policy.CanCancel(caller, policy.ReservationResource(r, b)) {
		return nil, domain.ErrForbidden
	}
	if r.Status == domain.ReservationCancelled {
		return nil, domain.ErrAlreadyCancelled
	}
	if r.Status.Terminal() {
		return nil, fmt.Errorf("%w (from %s to %s)", domain.ErrInvalidTransition, r.Status, domain.ReservationCancelled)
	}

	if err := s.repo.Cancel(ctx, id, r.Status, reason, time.Now().UTC()); err != nil {
		return nil, err
	}

	s.logger.Info().Str("reservation_id", id).Str("by", caller.ID).Msg("reservation cancelled")

	updated, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.notify(ctx, ports.NotifyReservationCancelled, updated)
	return updated, nil
}

// notify enqueues a lifecycle event. Best-effort: no notifier configured, or
// an unknown client email, simply degrades delivery.
func (s *ReservationService) notify(ctx context.Context, kind string, r *domain.Reservation) {
	if s.notifier == nil {
		return
	}
	email := ""
	switch r.Client.Kind {
	case domain.ClientKindGuest:
		if r.Client.Guest != nil {
			email = r.Client.Guest.Email
		}
	case domain.ClientKindRegistered:
		if u, err := s.userRepo.FindByID(ctx, r.Client.UserID); err == nil {
			email = u.Email
		}
	}
	s.notifier.Enqueue(ports.ReservationEvent{
		Kind:          kind,
		ReservationID: r.ID,
		BusinessID:    r.BusinessID,
		ClientEmail:   email,
		StartsAt:      r.StartsAt,
	})
}

func normalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return 20
	}
	if limit > maxPageLimit {
		return maxPageLimit
	}
	return limit
}

func totalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	pages := int(total) / limit
	if int(total)%limit != 0 {
		pages++
	}
	return pages
}

func emptyPage(filter ports.ListReservationsFilter) *ports.ReservationPage {
	return &ports.ReservationPage{Items: []*domain.Reservation{}, Page: filter.Page, Limit: filter.Limit}
}
