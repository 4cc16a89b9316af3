package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/JefryM27/misitiofacil-Backend-sub000/internal/core/domain"
	"github.com/JefryM27/misitiofacil-Backend-sub000/internal/core/policy"
	"github.com/JefryM27/misitiofacil-Backend-sub000/internal/core/ports"
)

type catalogFixture struct {
	svc             *CatalogService
	repo            *stubServiceRepo
	businessRepo    *stubBusinessRepo
	reservationRepo *stubReservationRepo
}

func newCatalogFixture(limits CatalogLimits) *catalogFixture {
	f := &catalogFixture{
		repo:            newStubServiceRepo(),
		businessRepo:    newStubBusinessRepo(),
		reservationRepo: newStubReservationRepo(),
	}
	f.businessRepo.businesses["biz_1"] = &domain.Business{
		ID: "biz_1", OwnerID: ownerCaller.ID, Slug: "biz-1", Status: domain.BusinessActive,
		Settings: domain.BusinessSettings{Currency: "CRC", AllowOnlineBooking: true},
	}
	f.svc = NewCatalogService(f.repo, f.businessRepo, f.reservationRepo, limits, zerolog.Nop())
	return f
}

func createCatalogService(t *testing.T, f *catalogFixture, name string, minutes int) *domain.Service {
	t.Helper()
	svc, err := f.svc.Create(context.Background(), ownerCaller, ports.CreateServiceInput{
		BusinessID:      "biz_1",
		Name:            name,
		DurationMinutes: minutes,
		Price:           5000,
	})
	if err != nil {
		t.Fatalf("create service failed: %v", err)
	}
	return svc
}

func TestCatalogService_Create(t *testing.T) {
	f := newCatalogFixture(CatalogLimits{})
	svc := createCatalogService(t, f, "Corte clásico", 30)

	if svc.Currency != "CRC" {
		t.Fatalf("expected business currency fallback, got %q", svc.Currency)
	}
	if !svc.IsActive {
		t.Fatalf("expected new service active")
	}
	if f.businessRepo.businesses["biz_1"].ServiceCount != 1 {
		t.Fatalf("expected reserved quota slot")
	}
}

func TestCatalogService_Create_DurationMustAlignToStep(t *testing.T) {
	f := newCatalogFixture(CatalogLimits{})

	for _, minutes := range []int{0, 10, 40, 500} {
		_, err := f.svc.Create(context.Background(), ownerCaller, ports.CreateServiceInput{
			BusinessID: "biz_1", Name: "X", DurationMinutes: minutes, Price: 100,
		})
		if !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("expected validation error for %d minutes, got %v", minutes, err)
		}
	}
}

func TestCatalogService_Create_QuotaExceeded(t *testing.T) {
	f := newCatalogFixture(CatalogLimits{MaxPerBusiness: 2})
	createCatalogService(t, f, "Uno", 30)
	createCatalogService(t, f, "Dos", 30)

	_, err := f.svc.Create(context.Background(), ownerCaller, ports.CreateServiceInput{
		BusinessID: "biz_1", Name: "Tres", DurationMinutes: 30, Price: 100,
	})
	if !errors.Is(err, domain.ErrServiceQuotaExceeded) {
		t.Fatalf("expected ErrServiceQuotaExceeded, got %v", err)
	}
}

func TestCatalogService_Create_DuplicateNameReleasesSlot(t *testing.T) {
	f := newCatalogFixture(CatalogLimits{})
	createCatalogService(t, f, "Corte", 30)

	_, err := f.svc.Create(context.Background(), ownerCaller, ports.CreateServiceInput{
		BusinessID: "biz_1", Name: "Corte", DurationMinutes: 45, Price: 200,
	})
	if !errors.Is(err, domain.ErrDuplicateServiceName) {
		t.Fatalf("expected ErrDuplicateServiceName, got %v", err)
	}
	if f.businessRepo.businesses["biz_1"].ServiceCount != 1 {
		t.Fatalf("expected reserved slot released after failed insert, got %d", f.businessRepo.businesses["biz_1"].ServiceCount)
	}
}

func TestCatalogService_Create_ManageGate(t *testing.T) {
	f := newCatalogFixture(CatalogLimits{})

	_, err := f.svc.Create(context.Background(), policy.Caller{ID: "own_2", Role: domain.RoleOwner}, ports.CreateServiceInput{
		BusinessID: "biz_1", Name: "Corte", DurationMinutes: 30, Price: 100,
	})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for foreign owner, got %v", err)
	}
}

func TestCatalogService_ListByBusiness_Visibility(t *testing.T) {
	f := newCatalogFixture(CatalogLimits{})
	active := createCatalogService(t, f, "Activo", 30)
	inactive := createCatalogService(t, f, "Inactivo", 30)
	f.repo.services[inactive.ID].IsActive = false

	public, err := f.svc.ListByBusiness(context.Background(), policy.Caller{}, "biz_1")
	if err != nil {
		t.Fatalf("public list failed: %v", err)
	}
	if len(public) != 1 || public[0].ID != active.ID {
		t.Fatalf("expected only active services for public caller, got %d", len(public))
	}

	full, err := f.svc.ListByBusiness(context.Background(), ownerCaller, "biz_1")
	if err != nil || len(full) != 2 {
		t.Fatalf("expected full catalog for owner, got %d (%v)", len(full), err)
	}
}

func TestCatalogService_Update_RenameToExistingName(t *testing.T) {
	f := newCatalogFixture(CatalogLimits{})
	createCatalogService(t, f, "Corte", 30)
	other := createCatalogService(t, f, "Tinte", 60)

	name := "Corte"
	_, err := f.svc.Update(context.Background(), ownerCaller, other.ID, ports.UpdateServiceInput{Name: &name})
	if !errors.Is(err, domain.ErrDuplicateServiceName) {
		t.Fatalf("expected ErrDuplicateServiceName on rename, got %v", err)
	}

	// Renaming to its own current name is not a collision.
	same := "Tinte"
	if _, err := f.svc.Update(context.Background(), ownerCaller, other.ID, ports.UpdateServiceInput{Name: &same}); err != nil {
		t.Fatalf("self-rename failed: %v", err)
	}
}

func TestCatalogService_Delete_HardDeleteWithoutOpenReservations(t *testing.T) {
	f := newCatalogFixture(CatalogLimits{})
	svc := createCatalogService(t, f, "Corte", 30)

	result, err := f.svc.Delete(context.Background(), ownerCaller, svc.ID)
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if !result.Deleted || result.Deactivated {
		t.Fatalf("expected hard delete, got %+v", result)
	}
	if f.businessRepo.businesses["biz_1"].ServiceCount != 0 {
		t.Fatalf("expected quota slot released on delete")
	}
}

func TestCatalogService_Delete_OpenReservationsForceDeactivation(t *testing.T) {
	f := newCatalogFixture(CatalogLimits{})
	svc := createCatalogService(t, f, "Corte", 30)
	f.reservationRepo.reservations["res_1"] = &domain.Reservation{
		ID: "res_1", BusinessID: "biz_1", ServiceID: svc.ID, Status: domain.ReservationConfirmed,
	}

	result, err := f.svc.Delete(context.Background(), ownerCaller, svc.ID)
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if result.Deleted || !result.Deactivated || result.OpenReservations != 1 {
		t.Fatalf("expected soft deactivation with count, got %+v", result)
	}
	if f.repo.services[svc.ID].IsActive {
		t.Fatalf("service should be deactivated")
	}
	if _, ok := f.repo.services[svc.ID]; !ok {
		t.Fatalf("service must still exist")
	}
}
