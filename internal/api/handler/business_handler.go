package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/JefryM27/misitiofacil-Backend-sub000/internal/api/metrics"
	"github.com/JefryM27/misitiofacil-Backend-sub000/internal/core/domain"
	"github.com/JefryM27/misitiofacil-Backend-sub000/internal/core/ports"
)

// BusinessHandler handles HTTP requests for the business lifecycle.
type BusinessHandler struct {
	service ports.BusinessService
}

func NewBusinessHandler(service ports.BusinessService) *BusinessHandler {
	return &BusinessHandler{service: service}
}

type createBusinessRequest struct {
	Name           string                `json:"name" validate:"required"`
	Category       string                `json:"category" validate:"required"`
	Description    string                `json:"description"`
	TemplateID     string                `json:"template_id"`
	Currency       string                `json:"currency"`
	OperatingHours domain.OperatingHours `json:"operating_hours"`
}

type updateBusinessRequest struct {
	Description    *string                  `json:"description"`
	Location       *string                  `json:"location"`
	Phone          *string                  `json:"phone"`
	Social         *domain.SocialLinks      `json:"social"`
	Settings       *domain.BusinessSettings `json:"settings"`
	OperatingHours *domain.OperatingHours   `json:"operating_hours"`
}

type changeStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// Create handles POST /v1/businesses.
//
// @Summary      Create a business site
// @Tags         businesses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createBusinessRequest  true  "Business details"
// @Success      201   {object}  domain.Business
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /v1/businesses [post]
func (h *BusinessHandler) Create(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	var req createBusinessRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	b, err := h.service.Create(c.Request().Context(), caller, ports.CreateBusinessInput{
		Name:           req.Name,
		Category:       req.Category,
		Description:    req.Description,
		TemplateID:     req.TemplateID,
		Currency:       req.Currency,
		OperatingHours: req.OperatingHours,
	})
	if err != nil {
		return err
	}

	metrics.BusinessesCreatedTotal.WithLabelValues(b.Category).Inc()
	mode := "fallback"
	if req.TemplateID != "" && req.TemplateID == b.TemplateID {
		mode = "requested"
	}
	metrics.TemplateResolutionsTotal.WithLabelValues(mode).Inc()

	return c.JSON(http.StatusCreated, b)
}

// Get handles GET /v1/businesses/:id.
//
// @Summary      Get a business
// @Tags         businesses
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Business id"
// @Success      200  {object}  domain.Business
// @Failure      404  {object}  map[string]string
// @Router       /v1/businesses/{id} [get]
func (h *BusinessHandler) Get(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	b, err := h.service.Get(c.Request().Context(), caller, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, b)
}

// GetBySlug handles GET /v1/public/businesses/:slug, the public site
// endpoint; only active businesses resolve.
//
// @Summary      Get a public business site by slug
// @Tags         public
// @Produce      json
// @Param        slug  path      string  true  "Business slug"
// @Success      200   {object}  domain.Business
// @Failure      404   {object}  map[string]string
// @Router       /v1/public/businesses/{slug} [get]
func (h *BusinessHandler) GetBySlug(c echo.Context) error {
	b, err := h.service.GetBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, b)
}

// List handles GET /v1/businesses.
//
// @Summary      List businesses (admin: all, owner: own)
// @Tags         businesses
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]any
// @Failure      403  {object}  map[string]string
// @Router       /v1/businesses [get]
func (h *BusinessHandler) List(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	page, limit := pageParams(c)
	items, total, err := h.service.List(c.Request().Context(), caller, page, limit)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{
		"items": items,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// Update handles PATCH /v1/businesses/:id with a partial-field merge.
//
// @Summary      Update a business (partial merge)
// @Tags         businesses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                 true  "Business id"
// @Param        body  body      updateBusinessRequest  true  "Fields to change"
// @Success      200   {object}  domain.Business
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /v1/businesses/{id} [patch]
func (h *BusinessHandler) Update(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	var req updateBusinessRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	b, err := h.service.Update(c.Request().Context(), caller, c.Param("id"), ports.UpdateBusinessInput{
		Description:    req.Description,
		Location:       req.Location,
		Phone:          req.Phone,
		Social:         req.Social,
		Settings:       req.Settings,
		OperatingHours: req.OperatingHours,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, b)
}

// ChangeStatus handles PATCH /v1/businesses/:id/status.
//
// @Summary      Change business status
// @Tags         businesses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Business id"
// @Param        body  body      changeStatusRequest  true  "Target status"
// @Success      200   {object}  domain.Business
// @Failure      403   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /v1/businesses/{id}/status [patch]
func (h *BusinessHandler) ChangeStatus(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	var req changeStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	b, err := h.service.ChangeStatus(c.Request().Context(), caller, c.Param("id"), domain.BusinessStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, b)
}

type deleteBusinessResponse struct {
	ServicesDeleted  int64                `json:"services_deleted"`
	Assets           []ports.AssetOutcome `json:"assets,omitempty"`
	OpenReservations int64                `json:"open_reservations"`
}

// Delete handles DELETE /v1/businesses/:id, a cascading deletion.
//
// @Summary      Delete a business and cascade to its services and assets
// @Tags         businesses
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Business id"
// @Success      200  {object}  deleteBusinessResponse
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /v1/businesses/{id} [delete]
func (h *BusinessHandler) Delete(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	result, err := h.service.Delete(c.Request().Context(), caller, c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, deleteBusinessResponse{
		ServicesDeleted:  result.ServicesDeleted,
		Assets:           result.Assets,
		OpenReservations: result.OpenReservations,
	})
}
