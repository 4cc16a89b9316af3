package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/JefryM27/misitiofacil-Backend-sub000/internal/core/ports"
)

// ServiceHandler handles HTTP requests for the per-business service catalog.
type ServiceHandler struct {
	service ports.CatalogService
}

func NewServiceHandler(service ports.CatalogService) *ServiceHandler {
	return &ServiceHandler{service: service}
}

type createServiceRequest struct {
	Name            string  `json:"name" validate:"required"`
	Description     string  `json:"description"`
	DurationMinutes int     `json:"duration_minutes" validate:"required"`
	Price           float64 `json:"price" validate:"gte=0"`
	Currency        string  `json:"currency"`
}

type updateServiceRequest struct {
	Name            *string  `json:"name"`
	Description     *string  `json:"description"`
	DurationMinutes *int     `json:"duration_minutes"`
	Price           *float64 `json:"price"`
	IsActive        *bool    `json:"is_active"`
}

// Create handles POST /v1/businesses/:id/services.
//
// @Summary      Create a catalog service
// @Tags         services
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Business id"
// @Param        body  body      createServiceRequest  true  "Service details"
// @Success      201   {object}  domain.Service
// @Failure      403   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /v1/businesses/{id}/services [post]
func (h *ServiceHandler) Create(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	var req createServiceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	svc, err := h.service.Create(c.Request().Context(), caller, ports.CreateServiceInput{
		BusinessID:      c.Param("id"),
		Name:            req.Name,
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		Price:           req.Price,
		Currency:        req.Currency,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, svc)
}

// ListByBusiness handles GET /v1/businesses/:id/services.
//
// @Summary      List a business's services
// @Tags         services
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Business id"
// @Success      200  {array}   domain.Service
// @Failure      404  {object}  map[string]string
// @Router       /v1/businesses/{id}/services [get]
func (h *ServiceHandler) ListByBusiness(c echo.Context) error {
	caller := ctxCallerOptional(c)

	items, err := h.service.ListByBusiness(c.Request().Context(), caller, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

// Get handles GET /v1/services/:id.
func (h *ServiceHandler) Get(c echo.Context) error {
	caller := ctxCallerOptional(c)

	svc, err := h.service.Get(c.Request().Context(), caller, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, svc)
}

// Update handles PATCH /v1/services/:id.
//
// @Summary      Update a catalog service (partial merge)
// @Tags         services
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Service id"
// @Param        body  body      updateServiceRequest  true  "Fields to change"
// @Success      200   {object}  domain.Service
// @Failure      403   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /v1/services/{id} [patch]
func (h *ServiceHandler) Update(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	var req updateServiceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	svc, err := h.service.Update(c.Request().Context(), caller, c.Param("id"), ports.UpdateServiceInput{
		Name:            req.Name,
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		Price:           req.Price,
		IsActive:        req.IsActive,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, svc)
}

type deleteServiceResponse struct {
	Deleted          bool  `json:"deleted"`
	Deactivated      bool  `json:"deactivated"`
	OpenReservations int64 `json:"open_reservations,omitempty"`
}

// Delete handles DELETE /v1/services/:id. With open reservations the service
// is deactivated instead of removed and the blocking count is reported.
//
// @Summary      Delete (or soft-deactivate) a catalog service
// @Tags         services
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Service id"
// @Success      200  {object}  deleteServiceResponse
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /v1/services/{id} [delete]
func (h *ServiceHandler) Delete(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	result, err := h.service.Delete(c.Request().Context(), caller, c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, deleteServiceResponse{
		Deleted:          result.Deleted,
		Deactivated:      result.Deactivated,
		OpenReservations: result.OpenReservations,
	})
}
