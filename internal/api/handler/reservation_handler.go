package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/JefryM27/misitiofacil-Backend-sub000/internal/api/metrics"
	"github.com/JefryM27/misitiofacil-Backend-sub000/internal/core/domain"
	"github.com/JefryM27/misitiofacil-Backend-sub000/internal/core/ports"
)

// ReservationHandler handles HTTP requests for bookings.
type ReservationHandler struct {
	service ports.ReservationService
}

func NewReservationHandler(service ports.ReservationService) *ReservationHandler {
	return &ReservationHandler{service: service}
}

type guestRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type createReservationRequest struct {
	BusinessID string        `json:"business_id" validate:"required"`
	ServiceID  string        `json:"service_id" validate:"required"`
	StartsAt   time.Time     `json:"starts_at" validate:"required"`
	Notes      string        `json:"notes"`
	Guest      *guestRequest `json:"guest"`
	ForUserID  string        `json:"for_user_id"`
}

type updateReservationStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type cancelReservationRequest struct {
	Reason string `json:"reason"`
}

type reservationPageResponse struct {
	Items      []*domain.Reservation `json:"items"`
	Total      int64                 `json:"total"`
	Page       int                   `json:"page"`
	Limit      int                   `json:"limit"`
	TotalPages int                   `json:"total_pages"`
}

// Create handles POST /v1/reservations. Anonymous callers may book as guests
// when the business allows online booking.
//
// @Summary      Book a service
// @Tags         reservations
// @Accept       json
// @Produce      json
// @Param        body  body      createReservationRequest  true  "Booking details"
// @Success      201   {object}  domain.Reservation
// @Failure      404   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /v1/reservations [post]
func (h *ReservationHandler) Create(c echo.Context) error {
	caller := ctxCallerOptional(c)

	var req createReservationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	input := ports.CreateReservationInput{
		BusinessID: req.BusinessID,
		ServiceID:  req.ServiceID,
		StartsAt:   req.StartsAt,
		Notes:      req.Notes,
		ForUserID:  req.ForUserID,
	}
	if req.Guest != nil {
		input.Guest = &ports.GuestInput{
			Name:  req.Guest.Name,
			Email: req.Guest.Email,
			Phone: req.Guest.Phone,
		}
	}

	r, err := h.service.Create(c.Request().Context(), caller, input)
	if err != nil {
		return err
	}

	metrics.ReservationsCreatedTotal.WithLabelValues(string(r.Client.Kind)).Inc()
	return c.JSON(http.StatusCreated, r)
}

// Get handles GET /v1/reservations/:id.
func (h *ReservationHandler) Get(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	r, err := h.service.Get(c.Request().Context(), caller, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, r)
}

// List handles GET /v1/reservations for owners and admins.
//
// @Summary      List reservations
// @Tags         reservations
// @Produce      json
// @Security     BearerAuth
// @Param        business_id  query  string  false  "Narrow to one business"
// @Param        status       query  string  false  "Filter by status"
// @Param        date_from    query  string  false  "RFC 3339 lower bound"
// @Param        date_to      query  string  false  "RFC 3339 upper bound"
// @Param        page         query  int     false  "Page number"
// @Param        limit        query  int     false  "Page size"
// @Success      200  {object}  reservationPageResponse
// @Failure      403  {object}  map[string]string
// @Router       /v1/reservations [get]
func (h *ReservationHandler) List(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	page, limit := pageParams(c)
	input := ports.ListReservationsInput{
		BusinessID: c.QueryParam("business_id"),
		Status:     c.QueryParam("status"),
		Page:       page,
		Limit:      limit,
	}
	if raw := c.QueryParam("date_from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid date_from")
		}
		input.DateFrom = t
	}
	if raw := c.QueryParam("date_to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid date_to")
		}
		input.DateTo = t
	}

	result, err := h.service.List(c.Request().Context(), caller, input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pageResponse(result))
}

// ListMine handles GET /v1/reservations/mine for registered clients.
func (h *ReservationHandler) ListMine(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	page, limit := pageParams(c)
	result, err := h.service.ListForClient(c.Request().Context(), caller, page, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pageResponse(result))
}

// UpdateStatus handles PATCH /v1/reservations/:id/status.
//
// @Summary      Transition a reservation
// @Tags         reservations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                          true  "Reservation id"
// @Param        body  body      updateReservationStatusRequest  true  "Target status"
// @Success      200   {object}  domain.Reservation
// @Failure      409   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /v1/reservations/{id}/status [patch]
func (h *ReservationHandler) UpdateStatus(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	var req updateReservationStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	r, err := h.service.UpdateStatus(c.Request().Context(), caller, c.Param("id"), domain.ReservationStatus(req.Status))
	if err != nil {
		return err
	}

	metrics.ReservationTransitionsTotal.WithLabelValues(string(r.Status)).Inc()
	return c.JSON(http.StatusOK, r)
}

// Cancel handles POST /v1/reservations/:id/cancel. Unlike UpdateStatus this
// is also open to the booking client.
func (h *ReservationHandler) Cancel(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	var req cancelReservationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	r, err := h.service.Cancel(c.Request().Context(), caller, c.Param("id"), req.Reason)
	if err != nil {
		return err
	}

	metrics.ReservationTransitionsTotal.WithLabelValues(string(r.Status)).Inc()
	return c.JSON(http.StatusOK, r)
}

func pageResponse(p *ports.ReservationPage) reservationPageResponse {
	return reservationPageResponse{
		Items:      p.Items,
		Total:      p.Total,
		Page:       p.Page,
		Limit:      p.Limit,
		TotalPages: p.TotalPages,
	}
}
