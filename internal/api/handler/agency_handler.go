package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/realtydir/directory-api/internal/core/domain"
	"github.com/realtydir/directory-api/internal/core/ports"
)

type agencyRequest struct {
	Name           string   `json:"name"             validate:"required"`
	Email          string   `json:"email"            validate:"required,email"`
	Phone          string   `json:"phone"`
	WhatsappNumber string   `json:"whatsapp_number"`
	Address        string   `json:"address"`
	PrimarySuburb  string   `json:"primary_suburb"`
	AllowedSuburbs []string `json:"allowed_suburbs"`
	ParentAgencyID string   `json:"parent_agency_id"`
	Logo           string   `json:"logo"`
}

type listAgenciesResponse struct {
	Agencies   []*domain.Agency   `json:"agencies"`
	Pagination paginationResponse `json:"pagination"`
}

// AgencyHandler handles HTTP requests for the agency directory.
type AgencyHandler struct {
	service ports.AgencyService
}

func NewAgencyHandler(service ports.AgencyService) *AgencyHandler {
	return &AgencyHandler{service: service}
}

// List handles GET /v1/agencies — authenticated.
//
// @Summary      List agencies
// @Tags         agencies
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page (1-based)"
// @Param        limit  query     int  false  "Page size"
// @Success      200    {object}  listAgenciesResponse
// @Router       /v1/agencies [get]
func (h *AgencyHandler) List(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	result, err := h.service.List(c.Request().Context(), id, queryInt(c, "page", 1), queryInt(c, "limit", 10))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, listAgenciesResponse{
		Agencies: result.Items,
		Pagination: paginationResponse{
			Total:      result.Total,
			Page:       result.Page,
			Limit:      result.Limit,
			TotalPages: result.TotalPages,
		},
	})
}

// Get handles GET /v1/agencies/:id — authenticated.
//
// @Summary      Get an agency
// @Tags         agencies
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Agency id"
// @Success      200  {object}  domain.Agency
// @Failure      404  {object}  errorEnvelope
// @Router       /v1/agencies/{id} [get]
func (h *AgencyHandler) Get(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	agency, err := h.service.Get(c.Request().Context(), id, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, agency)
}

// Children handles GET /v1/agencies/:id/children — authenticated.
//
// @Summary      Child agencies
// @Tags         agencies
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Agency id"
// @Success      200  {array}   domain.Agency
// @Failure      404  {object}  errorEnvelope
// @Router       /v1/agencies/{id}/children [get]
func (h *AgencyHandler) Children(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	children, err := h.service.Children(c.Request().Context(), id, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, children)
}

// Create handles POST /v1/agencies — admin only.
//
// @Summary      Create an agency
// @Tags         agencies
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      agencyRequest  true  "Agency fields"
// @Success      201   {object}  domain.Agency
// @Failure      403   {object}  errorEnvelope
// @Failure      422   {object}  errorEnvelope
// @Router       /v1/agencies [post]
func (h *AgencyHandler) Create(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req agencyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	agency, err := h.service.Create(c.Request().Context(), id, agencyInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, agency)
}

// Update handles PUT /v1/agencies/:id — admin only. A parent assignment
// that would close a cycle is rejected with 422.
//
// @Summary      Update an agency
// @Tags         agencies
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string         true  "Agency id"
// @Param        body  body      agencyRequest  true  "Agency fields"
// @Success      200   {object}  domain.Agency
// @Failure      403   {object}  errorEnvelope
// @Failure      404   {object}  errorEnvelope
// @Failure      422   {object}  errorEnvelope
// @Router       /v1/agencies/{id} [put]
func (h *AgencyHandler) Update(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req agencyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	agency, err := h.service.Update(c.Request().Context(), id, c.Param("id"), agencyInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, agency)
}

// Delete handles DELETE /v1/agencies/:id — admin only; children are
// re-parented, never deleted.
//
// @Summary      Delete an agency
// @Tags         agencies
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Agency id"
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  errorEnvelope
// @Failure      404  {object}  errorEnvelope
// @Router       /v1/agencies/{id} [delete]
func (h *AgencyHandler) Delete(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), id, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "agency deleted"})
}

func agencyInput(req agencyRequest) ports.AgencyInput {
	return ports.AgencyInput{
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		WhatsappNumber: req.WhatsappNumber,
		Address:        req.Address,
		PrimarySuburb:  req.PrimarySuburb,
		AllowedSuburbs: req.AllowedSuburbs,
		ParentAgencyID: req.ParentAgencyID,
		Logo:           req.Logo,
	}
}
