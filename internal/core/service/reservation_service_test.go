package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/JefryM27/misitiofacil-Backend-sub000/internal/core/domain"
	"github.com/JefryM27/misitiofacil-Backend-sub000/internal/core/policy"
	"github.com/JefryM27/misitiofacil-Backend-sub000/internal/core/ports"
)

var (
	clientCaller = policy.Caller{ID: "cli_1", Role: domain.RoleClient, IsActive: true}
	anonCaller   = policy.Caller{}
)

type reservationFixture struct {
	svc          *ReservationService
	repo         *stubReservationRepo
	businessRepo *stubBusinessRepo
	serviceRepo  *stubServiceRepo
	userRepo     *stubUserRepo
	notifier     *captureNotifier
}

func newReservationFixture() *reservationFixture {
	f := &reservationFixture{
		repo:         newStubReservationRepo(),
		businessRepo: newStubBusinessRepo(),
		serviceRepo:  newStubServiceRepo(),
		userRepo:     newStubUserRepo(),
		notifier:     &captureNotifier{},
	}
	f.businessRepo.businesses["biz_1"] = &domain.Business{
		ID: "biz_1", OwnerID: ownerCaller.ID, Slug: "biz-1", Status: domain.BusinessActive,
		Settings: domain.BusinessSettings{Currency: "CRC", AllowOnlineBooking: true},
	}
	f.serviceRepo.services["svc_1"] = &domain.Service{
		ID: "svc_1", BusinessID: "biz_1", Name: "Corte",
		DurationMinutes: 30, Price: 5000, Currency: "CRC", IsActive: true,
	}
	f.userRepo.users[clientCaller.ID] = &domain.User{ID: clientCaller.ID, Email: "cli@example.com", Role: domain.RoleClient, IsActive: true}
	f.svc = NewReservationService(f.repo, f.businessRepo, f.serviceRepo, f.userRepo, f.notifier, zerolog.Nop())
	return f
}

func futureTime() time.Time {
	return time.Now().UTC().Add(48 * time.Hour)
}

func bookAsClient(t *testing.T, f *reservationFixture) *domain.Reservation {
	t.Helper()
	r, err := f.svc.Create(context.Background(), clientCaller, ports.CreateReservationInput{
		BusinessID: "biz_1", ServiceID: "svc_1", StartsAt: futureTime(),
	})
	if err != nil {
		t.Fatalf("booking failed: %v", err)
	}
	return r
}

func TestReservationService_Create_SnapshotsServiceTerms(t *testing.T) {
	f := newReservationFixture()
	r := bookAsClient(t, f)

	if r.Status != domain.ReservationPending {
		t.Fatalf("expected pending status, got %s", r.Status)
	}
	if r.DurationMinutes != 30 || r.Price != 5000 || r.Currency != "CRC" {
		t.Fatalf("snapshot mismatch: %+v", r)
	}

	// A later price change must never reach the existing reservation.
	f.serviceRepo.services["svc_1"].Price = 9000
	f.serviceRepo.services["svc_1"].DurationMinutes = 60

	got, err := f.svc.Get(context.Background(), clientCaller, r.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Price != 5000 || got.DurationMinutes != 30 {
		t.Fatalf("snapshot mutated by catalog edit: %+v", got)
	}
}

func TestReservationService_Create_EmitsCreatedEvent(t *testing.T) {
	f := newReservationFixture()
	r := bookAsClient(t, f)

	if len(f.notifier.events) != 1 {
		t.Fatalf("expected one event, got %d", len(f.notifier.events))
	}
	ev := f.notifier.events[0]
	if ev.Kind != ports.NotifyReservationCreated || ev.ReservationID != r.ID {
		t.Fatalf("unexpected event: %+v", ev)
	}
	if ev.ClientEmail != "cli@example.com" {
		t.Fatalf("expected resolved client email, got %q", ev.ClientEmail)
	}
}

func TestReservationService_Create_GuestBooking(t *testing.T) {
	f := newReservationFixture()

	r, err := f.svc.Create(context.Background(), anonCaller, ports.CreateReservationInput{
		BusinessID: "biz_1", ServiceID: "svc_1", StartsAt: futureTime(),
		Guest: &ports.GuestInput{Name: "Ana", Email: "ana@example.com", Phone: "5550001"},
	})
	if err != nil {
		t.Fatalf("guest booking failed: %v", err)
	}
	if r.Client.Kind != domain.ClientKindGuest || r.Client.Guest == nil {
		t.Fatalf("expected guest client variant, got %+v", r.Client)
	}
	if r.Client.UserID != "" {
		t.Fatalf("guest booking must not carry a user id")
	}
}

func TestReservationService_Create_GuestRequiresAllContactFields(t *testing.T) {
	f := newReservationFixture()

	_, err := f.svc.Create(context.Background(), anonCaller, ports.CreateReservationInput{
		BusinessID: "biz_1", ServiceID: "svc_1", StartsAt: futureTime(),
		Guest: &ports.GuestInput{Name: "Ana"},
	})
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(ve.Fields) != 2 {
		t.Fatalf("expected missing email and phone reported together, got %+v", ve.Fields)
	}
}

func TestReservationService_Create_GuestBookingBlockedWhenDisabled(t *testing.T) {
	f := newReservationFixture()
	f.businessRepo.businesses["biz_1"].Settings.AllowOnlineBooking = false

	_, err := f.svc.Create(context.Background(), anonCaller, ports.CreateReservationInput{
		BusinessID: "biz_1", ServiceID: "svc_1", StartsAt: futureTime(),
		Guest: &ports.GuestInput{Name: "Ana", Email: "ana@example.com", Phone: "5550001"},
	})
	if !errors.Is(err, domain.ErrBusinessNotFound) {
		t.Fatalf("expected ErrBusinessNotFound when online booking disabled, got %v", err)
	}
}

func TestReservationService_Create_RegisteredClientRejectsGuestRecord(t *testing.T) {
	f := newReservationFixture()

	_, err := f.svc.Create(context.Background(), clientCaller, ports.CreateReservationInput{
		BusinessID: "biz_1", ServiceID: "svc_1", StartsAt: futureTime(),
		Guest: &ports.GuestInput{Name: "Ana", Email: "ana@example.com", Phone: "5550001"},
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected mutual-exclusion validation error, got %v", err)
	}
}

func TestReservationService_Create_OwnerBooksOnBehalf(t *testing.T) {
	f := newReservationFixture()

	r, err := f.svc.Create(context.Background(), ownerCaller, ports.CreateReservationInput{
		BusinessID: "biz_1", ServiceID: "svc_1", StartsAt: futureTime(),
		ForUserID: clientCaller.ID,
	})
	if err != nil {
		t.Fatalf("owner booking failed: %v", err)
	}
	if r.Client.Kind != domain.ClientKindRegistered || r.Client.UserID != clientCaller.ID {
		t.Fatalf("expected registered client for booked user, got %+v", r.Client)
	}

	// A foreign owner cannot book into this business at all.
	_, err = f.svc.Create(context.Background(), policy.Caller{ID: "own_2", Role: domain.RoleOwner}, ports.CreateReservationInput{
		BusinessID: "biz_1", ServiceID: "svc_1", StartsAt: futureTime(),
		Guest: &ports.GuestInput{Name: "Ana", Email: "ana@example.com", Phone: "5550001"},
	})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for foreign owner, got %v", err)
	}
}

func TestReservationService_Create_PastStartRejected(t *testing.T) {
	f := newReservationFixture()

	_, err := f.svc.Create(context.Background(), clientCaller, ports.CreateReservationInput{
		BusinessID: "biz_1", ServiceID: "svc_1", StartsAt: time.Now().UTC().Add(-time.Hour),
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for past start, got %v", err)
	}
}

func TestReservationService_Create_InactiveService(t *testing.T) {
	f := newReservationFixture()
	f.serviceRepo.services["svc_1"].IsActive = false

	_, err := f.svc.Create(context.Background(), clientCaller, ports.CreateReservationInput{
		BusinessID: "biz_1", ServiceID: "svc_1", StartsAt: futureTime(),
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for inactive service, got %v", err)
	}
}

func TestReservationService_UpdateStatus_Transitions(t *testing.T) {
	f := newReservationFixture()
	r := bookAsClient(t, f)

	confirmed, err := f.svc.UpdateStatus(context.Background(), ownerCaller, r.ID, domain.ReservationConfirmed)
	if err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	if confirmed.Status != domain.ReservationConfirmed || confirmed.ConfirmedAt == nil {
		t.Fatalf("expected confirmed with timestamp, got %+v", confirmed)
	}

	// There is no way back to pending.
	if _, err := f.svc.UpdateStatus(context.Background(), ownerCaller, r.ID, domain.ReservationPending); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition going back to pending, got %v", err)
	}

	done, err := f.svc.UpdateStatus(context.Background(), ownerCaller, r.ID, domain.ReservationCompleted)
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if done.CompletedAt == nil {
		t.Fatalf("expected completion timestamp")
	}
}

func TestReservationService_UpdateStatus_ClientMayNotManage(t *testing.T) {
	f := newReservationFixture()
	r := bookAsClient(t, f)

	_, err := f.svc.UpdateStatus(context.Background(), clientCaller, r.ID, domain.ReservationConfirmed)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for client status update, got %v", err)
	}
}

func TestReservationService_UpdateStatus_EmitsConfirmationEvent(t *testing.T) {
	f := newReservationFixture()
	r := bookAsClient(t, f)
	f.notifier.events = nil

	if _, err := f.svc.UpdateStatus(context.Background(), ownerCaller, r.ID, domain.ReservationConfirmed); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	if len(f.notifier.events) != 1 || f.notifier.events[0].Kind != ports.NotifyReservationConfirmed {
		t.Fatalf("expected confirmation event, got %+v", f.notifier.events)
	}
}

func TestReservationService_Cancel_ByBookingClient(t *testing.T) {
	f := newReservationFixture()
	r := bookAsClient(t, f)

	cancelled, err := f.svc.Cancel(context.Background(), clientCaller, r.ID, "no puedo asistir")
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if cancelled.Status != domain.ReservationCancelled || cancelled.CancelledAt == nil {
		t.Fatalf("expected cancelled with timestamp, got %+v", cancelled)
	}
	if cancelled.CancelReason != "no puedo asistir" {
		t.Fatalf("reason not recorded")
	}
}

func TestReservationService_Cancel_ForeignClientForbidden(t *testing.T) {
	f := newReservationFixture()
	r := bookAsClient(t, f)

	other := policy.Caller{ID: "cli_2", Role: domain.RoleClient, IsActive: true}
	if _, err := f.svc.Cancel(context.Background(), other, r.ID, ""); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for foreign client, got %v", err)
	}
}

func TestReservationService_Cancel_Twice(t *testing.T) {
	f := newReservationFixture()
	r := bookAsClient(t, f)

	if _, err := f.svc.Cancel(context.Background(), clientCaller, r.ID, ""); err != nil {
		t.Fatalf("first cancel failed: %v", err)
	}
	_, err := f.svc.Cancel(context.Background(), clientCaller, r.ID, "")
	if !errors.Is(err, domain.ErrAlreadyCancelled) {
		t.Fatalf("expected ErrAlreadyCancelled, got %v", err)
	}
}

func TestReservationService_Cancel_CompletedIsTerminal(t *testing.T) {
	f := newReservationFixture()
	r := bookAsClient(t, f)
	if _, err := f.svc.UpdateStatus(context.Background(), ownerCaller, r.ID, domain.ReservationConfirmed); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	if _, err := f.svc.UpdateStatus(context.Background(), ownerCaller, r.ID, domain.ReservationCompleted); err != nil {
		t.Fatalf("complete failed: %v", err)
	}

	_, err := f.svc.Cancel(context.Background(), ownerCaller, r.ID, "")
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition for completed reservation, got %v", err)
	}
}

func TestReservationService_List_RoleScoped(t *testing.T) {
	f := newReservationFixture()
	bookAsClient(t, f)
	f.repo.reservations["res_foreign"] = &domain.Reservation{
		ID: "res_foreign", BusinessID: "biz_other", Status: domain.ReservationPending,
		Client: domain.RegisteredClient("cli_2"),
	}

	// Admin sees everything.
	page, err := f.svc.List(context.Background(), adminCaller, ports.ListReservationsInput{})
	if err != nil || page.Total != 2 {
		t.Fatalf("admin list: %v (total %d)", err, page.Total)
	}

	// Owner sees only their businesses.
	page, err = f.svc.List(context.Background(), ownerCaller, ports.ListReservationsInput{})
	if err != nil || page.Total != 1 {
		t.Fatalf("owner list: %v (total %d)", err, page.Total)
	}

	// A filter outside the owner's businesses yields an empty page, not an error.
	page, err = f.svc.List(context.Background(), ownerCaller, ports.ListReservationsInput{BusinessID: "biz_other"})
	if err != nil || page.Total != 0 || len(page.Items) != 0 {
		t.Fatalf("expected empty page for foreign filter, got %+v (%v)", page, err)
	}

	// Pure clients use the dedicated listing.
	if _, err := f.svc.List(context.Background(), clientCaller, ports.ListReservationsInput{}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for client on generic list, got %v", err)
	}

	mine, err := f.svc.ListForClient(context.Background(), clientCaller, 1, 20)
	if err != nil || mine.Total != 1 {
		t.Fatalf("client list: %v (total %d)", err, mine.Total)
	}
}
