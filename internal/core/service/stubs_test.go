package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/JefryM27/misitiofacil-Backend-sub000/internal/core/domain"
	"github.com/JefryM27/misitiofacil-Backend-sub000/internal/core/ports"
)

// In-memory stub repositories shared by the service tests. They mirror the
// error contracts of the Mongo implementations (duplicate keys, CAS misses)
// without any I/O.

// --- users ---

type stubUserRepo struct {
	users map[string]*domain.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	clone := cloneUser(user)
	if clone.ID == "" {
		clone.ID = "user_" + clone.Email
	}
	r.users[clone.ID] = cloneUser(clone)
	return clone, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) List(_ context.Context, _, _ int) ([]*domain.User, int64, error) {
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, cloneUser(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (r *stubUserRepo) SetRole(_ context.Context, id, role string) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Role = role
	return nil
}

func (r *stubUserRepo) SetActive(_ context.Context, id string, active bool) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.IsActive = active
	return nil
}

func (r *stubUserRepo) SetBusinessID(_ context.Context, userID, businessID string) error {
	u, ok := r.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.BusinessID = businessID
	return nil
}

// --- login throttle ---

type stubThrottle struct {
	locked    bool
	failures  int
	threshold int
	resets    int
}

func (t *stubThrottle) IsLocked(_ context.Context, _ string) (bool, error) {
	return t.locked, nil
}

func (t *stubThrottle) RecordFailure(_ context.Context, _ string) (bool, error) {
	t.failures++
	if t.threshold > 0 && t.failures >= t.threshold {
		t.locked = true
		return true, nil
	}
	return false, nil
}

func (t *stubThrottle) Reset(_ context.Context, _ string) error {
	t.resets++
	t.failures = 0
	t.locked = false
	return nil
}

// --- businesses ---

type stubBusinessRepo struct {
	businesses map[string]*domain.Business
}

func newStubBusinessRepo() *stubBusinessRepo {
	return &stubBusinessRepo{businesses: make(map[string]*domain.Business)}
}

func cloneBusiness(b *domain.Business) *domain.Business {
	if b == nil {
		return nil
	}
	clone := *b
	return &clone
}

func (r *stubBusinessRepo) Create(_ context.Context, b *domain.Business) error {
	for _, existing := range r.businesses {
		if existing.Slug == b.Slug {
			return domain.ErrSlugTaken
		}
	}
	r.businesses[b.ID] = cloneBusiness(b)
	return nil
}

func (r *stubBusinessRepo) FindByID(_ context.Context, id string) (*domain.Business, error) {
	b, ok := r.businesses[id]
	if !ok {
		return nil, domain.ErrBusinessNotFound
	}
	return cloneBusiness(b), nil
}

func (r *stubBusinessRepo) FindBySlug(_ context.Context, slug string) (*domain.Business, error) {
	for _, b := range r.businesses {
		if b.Slug == slug {
			return cloneBusiness(b), nil
		}
	}
	return nil, domain.ErrBusinessNotFound
}

func (r *stubBusinessRepo) ListByOwner(_ context.Context, ownerID string) ([]*domain.Business, error) {
	var out []*domain.Business
	for _, b := range r.businesses {
		if b.OwnerID == ownerID {
			out = append(out, cloneBusiness(b))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubBusinessRepo) List(_ context.Context, _, _ int) ([]*domain.Business, int64, error) {
	out := make([]*domain.Business, 0, len(r.businesses))
	for _, b := range r.businesses {
		out = append(out, cloneBusiness(b))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (r *stubBusinessRepo) CountByOwner(_ context.Context, ownerID string) (int64, error) {
	var n int64
	for _, b := range r.businesses {
		if b.OwnerID == ownerID {
			n++
		}
	}
	return n, nil
}

func (r *stubBusinessRepo) CountByTemplate(_ context.Context, templateID string) (int64, error) {
	var n int64
	for _, b := range r.businesses {
		if b.TemplateID == templateID {
			n++
		}
	}
	return n, nil
}

func (r *stubBusinessRepo) Update(_ context.Context, id string, fields map[string]any) error {
	b, ok := r.businesses[id]
	if !ok {
		return domain.ErrBusinessNotFound
	}
	for key, value := range fields {
		switch key {
		case "status":
			b.Status = value.(domain.BusinessStatus)
		case "published_at":
			ts := value.(time.Time)
			b.PublishedAt = &ts
		case "updated_at":
			b.UpdatedAt = value.(time.Time)
		case "description":
			b.Description = value.(string)
		case "location":
			b.Location = value.(string)
		case "phone":
			b.Phone = value.(string)
		case "social":
			b.Social = value.(domain.SocialLinks)
		case "settings":
			b.Settings = value.(domain.BusinessSettings)
		case "operating_hours":
			b.OperatingHours = value.(domain.OperatingHours)
		}
	}
	return nil
}

func (r *stubBusinessRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.businesses[id]; !ok {
		return domain.ErrBusinessNotFound
	}
	delete(r.businesses, id)
	return nil
}

func (r *stubBusinessRepo) ReserveServiceSlot(_ context.Context, id string, limit int) error {
	b, ok := r.businesses[id]
	if !ok {
		return domain.ErrBusinessNotFound
	}
	if b.ServiceCount >= limit {
		return domain.ErrServiceQuotaExceeded
	}
	b.ServiceCount++
	return nil
}

func (r *stubBusinessRepo) ReleaseServiceSlot(_ context.Context, id string) error {
	b, ok := r.businesses[id]
	if !ok {
		return domain.ErrBusinessNotFound
	}
	if b.ServiceCount > 0 {
		b.ServiceCount--
	}
	return nil
}

// --- catalog services ---

type stubServiceRepo struct {
	services map[string]*domain.Service
}

func newStubServiceRepo() *stubServiceRepo {
	return &stubServiceRepo{services: make(map[string]*domain.Service)}
}

func cloneService(s *domain.Service) *domain.Service {
	if s == nil {
		return nil
	}
	clone := *s
	return &clone
}

func (r *stubServiceRepo) Create(_ context.Context, s *domain.Service) error {
	for _, existing := range r.services {
		if existing.BusinessID == s.BusinessID && existing.Name == s.Name {
			return domain.ErrDuplicateServiceName
		}
	}
	r.services[s.ID] = cloneService(s)
	return nil
}

func (r *stubServiceRepo) FindByID(_ context.Context, id string) (*domain.Service, error) {
	s, ok := r.services[id]
	if !ok {
		return nil, domain.ErrServiceNotFound
	}
	return cloneService(s), nil
}

func (r *stubServiceRepo) ListByBusiness(_ context.Context, businessID string, activeOnly bool) ([]*domain.Service, error) {
	var out []*domain.Service
	for _, s := range r.services {
		if s.BusinessID != businessID {
			continue
		}
		if activeOnly && !s.IsActive {
			continue
		}
		out = append(out, cloneService(s))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubServiceRepo) Update(_ context.Context, id string, fields map[string]any) error {
	s, ok := r.services[id]
	if !ok {
		return domain.ErrServiceNotFound
	}
	if name, ok := fields["name"].(string); ok {
		for _, existing := range r.services {
			if existing.ID != id && existing.BusinessID == s.BusinessID && existing.Name == name {
				return domain.ErrDuplicateServiceName
			}
		}
		s.Name = name
	}
	for key, value := range fields {
		switch key {
		case "description":
			s.Description = value.(string)
		case "duration_minutes":
			s.DurationMinutes = value.(int)
		case "price":
			s.Price = value.(float64)
		case "is_active":
			s.IsActive = value.(bool)
		case "updated_at":
			s.UpdatedAt = value.(time.Time)
		}
	}
	return nil
}

func (r *stubServiceRepo) SetActive(_ context.Context, id string, active bool) error {
	s, ok := r.services[id]
	if !ok {
		return domain.ErrServiceNotFound
	}
	s.IsActive = active
	return nil
}

func (r *stubServiceRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.services[id]; !ok {
		return domain.ErrServiceNotFound
	}
	delete(r.services, id)
	return nil
}

func (r *stubServiceRepo) DeleteByBusiness(_ context.Context, businessID string) (int64, error) {
	var n int64
	for id, s := range r.services {
		if s.BusinessID == businessID {
			delete(r.services, id)
			n++
		}
	}
	return n, nil
}

// --- templates ---

type stubTemplateRepo struct {
	templates map[string]*domain.Template
	usageErr  error
}

func newStubTemplateRepo() *stubTemplateRepo {
	return &stubTemplateRepo{templates: make(map[string]*domain.Template)}
}

func cloneTemplate(t *domain.Template) *domain.Template {
	if t == nil {
		return nil
	}
	clone := *t
	return &clone
}

func (r *stubTemplateRepo) Create(_ context.Context, t *domain.Template) error {
	r.templates[t.ID] = cloneTemplate(t)
	return nil
}

func (r *stubTemplateRepo) FindByID(_ context.Context, id string) (*domain.Template, error) {
	t, ok := r.templates[id]
	if !ok {
		return nil, domain.ErrTemplateNotFound
	}
	return cloneTemplate(t), nil
}

func (r *stubTemplateRepo) FindBestFallback(_ context.Context) (*domain.Template, error) {
	var best *domain.Template
	for _, t := range r.templates {
		if !t.IsActive || !t.IsPublic {
			continue
		}
		if best == nil {
			best = t
			continue
		}
		if t.IsDefault != best.IsDefault {
			if t.IsDefault {
				best = t
			}
			continue
		}
		if t.Rating > best.Rating {
			best = t
		}
	}
	if best == nil {
		return nil, domain.ErrNoTemplatesAvailable
	}
	return cloneTemplate(best), nil
}

func (r *stubTemplateRepo) ListVisible(_ context.Context, ownerID string, admin bool) ([]*domain.Template, error) {
	var out []*domain.Template
	for _, t := range r.templates {
		if admin || t.IsPublic || t.IsDefault || (ownerID != "" && t.OwnerID == ownerID) {
			out = append(out, cloneTemplate(t))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubTemplateRepo) RecordUsage(_ context.Context, id string) error {
	if r.usageErr != nil {
		return r.usageErr
	}
	t, ok := r.templates[id]
	if !ok {
		return domain.ErrTemplateNotFound
	}
	t.TimesUsed++
	now := time.Now().UTC()
	t.LastUsedAt = &now
	return nil
}

func (r *stubTemplateRepo) SetRating(_ context.Context, id string, rating float64) error {
	t, ok := r.templates[id]
	if !ok {
		return domain.ErrTemplateNotFound
	}
	t.Rating = rating
	return nil
}

func (r *stubTemplateRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.templates[id]; !ok {
		return domain.ErrTemplateNotFound
	}
	delete(r.templates, id)
	return nil
}

// --- reservations ---

type stubReservationRepo struct {
	reservations map[string]*domain.Reservation
}

func newStubReservationRepo() *stubReservationRepo {
	return &stubReservationRepo{reservations: make(map[string]*domain.Reservation)}
}

func cloneReservation(r *domain.Reservation) *domain.Reservation {
	if r == nil {
		return nil
	}
	clone := *r
	return &clone
}

func (r *stubReservationRepo) Create(_ context.Context, res *domain.Reservation) error {
	r.reservations[res.ID] = cloneReservation(res)
	return nil
}

func (r *stubReservationRepo) FindByID(_ context.Context, id string) (*domain.Reservation, error) {
	res, ok := r.reservations[id]
	if !ok {
		return nil, domain.ErrReservationNotFound
	}
	return cloneReservation(res), nil
}

func (r *stubReservationRepo) List(_ context.Context, filter ports.ListReservationsFilter) ([]*domain.Reservation, int64, error) {
	var out []*domain.Reservation
	for _, res := range r.reservations {
		if len(filter.BusinessIDs) > 0 && !containsString(filter.BusinessIDs, res.BusinessID) {
			continue
		}
		if filter.ClientID != "" {
			if res.Client.Kind != domain.ClientKindRegistered || res.Client.UserID != filter.ClientID {
				continue
			}
		}
		if filter.Status != "" && string(res.Status) != filter.Status {
			continue
		}
		out = append(out, cloneReservation(res))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

func (r *stubReservationRepo) CountOpenByService(_ context.Context, serviceID string) (int64, error) {
	var n int64
	for _, res := range r.reservations {
		if res.ServiceID == serviceID && (res.Status == domain.ReservationPending || res.Status == domain.ReservationConfirmed) {
			n++
		}
	}
	return n, nil
}

func (r *stubReservationRepo) CountOpenByBusiness(_ context.Context, businessID string) (int64, error) {
	var n int64
	for _, res := range r.reservations {
		if res.BusinessID == businessID && (res.Status == domain.ReservationPending || res.Status == domain.ReservationConfirmed) {
			n++
		}
	}
	return n, nil
}

func (r *stubReservationRepo) UpdateStatusCAS(_ context.Context, id string, from, to domain.ReservationStatus, tsField string, ts time.Time) error {
	res, ok := r.reservations[id]
	if !ok {
		return domain.ErrReservationNotFound
	}
	if res.Status != from {
		return domain.ErrStaleReservation
	}
	res.Status = to
	res.UpdatedAt = ts
	applyTimestamp(res, tsField, ts)
	return nil
}

func (r *stubReservationRepo) Cancel(_ context.Context, id string, from domain.ReservationStatus, reason string, ts time.Time) error {
	res, ok := r.reservations[id]
	if !ok {
		return domain.ErrReservationNotFound
	}
	if res.Status == domain.ReservationCancelled {
		return domain.ErrAlreadyCancelled
	}
	if res.Status != from {
		return domain.ErrStaleReservation
	}
	res.Status = domain.ReservationCancelled
	res.CancelReason = reason
	res.UpdatedAt = ts
	applyTimestamp(res, "cancelled_at", ts)
	return nil
}

func applyTimestamp(res *domain.Reservation, field string, ts time.Time) {
	switch field {
	case "confirmed_at":
		res.ConfirmedAt = &ts
	case "cancelled_at":
		res.CancelledAt = &ts
	case "completed_at":
		res.CompletedAt = &ts
	}
}

// --- asset storage ---

type stubStorage struct {
	removed []string
	failKey string
}

func (s *stubStorage) Remove(_ context.Context, key string) error {
	if s.failKey != "" && key == s.failKey {
		return errors.New("storage unavailable")
	}
	s.removed = append(s.removed, key)
	return nil
}

// --- notifier ---

type captureNotifier struct {
	events []ports.ReservationEvent
}

func (n *captureNotifier) Enqueue(event ports.ReservationEvent) {
	n.events = append(n.events, event)
}
