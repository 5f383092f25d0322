package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/realtydir/directory-api/internal/core/ports"
)

// ListingHandler handles HTTP requests for the listing catalog.
type ListingHandler struct {
	service ports.ListingService
}

func NewListingHandler(service ports.ListingService) *ListingHandler {
	return &ListingHandler{service: service}
}

// List handles GET /v1/listings — public catalog browsing with filters.
//
// @Summary      Browse listings
// @Tags         listings
// @Produce      json
// @Param        city      query     string  false  "City (partial match)"
// @Param        suburb    query     string  false  "Suburb (partial match)"
// @Param        minPrice  query     number  false  "Minimum price"
// @Param        maxPrice  query     number  false  "Maximum price"
// @Param        agent     query     string  false  "Owning agent id"
// @Param        agency    query     string  false  "Agency id"
// @Param        page      query     int     false  "Page (1-based)"
// @Param        limit     query     int     false  "Page size"
// @Success      200       {object}  listListingsResponse
// @Router       /v1/listings [get]
func (h *ListingHandler) List(c echo.Context) error {
	filter := ports.ListListingsFilter{
		City:     c.QueryParam("city"),
		Suburb:   c.QueryParam("suburb"),
		AgentID:  c.QueryParam("agent"),
		AgencyID: c.QueryParam("agency"),
		Page:     queryInt(c, "page", 1),
		Limit:    queryInt(c, "limit", 10),
	}
	filter.MinPrice, _ = strconv.ParseFloat(c.QueryParam("minPrice"), 64)
	filter.MaxPrice, _ = strconv.ParseFloat(c.QueryParam("maxPrice"), 64)

	result, err := h.service.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, listListingsResponse{
		Listings: result.Items,
		Pagination: paginationResponse{
			Total:      result.Total,
			Page:       result.Page,
			Limit:      result.Limit,
			TotalPages: result.TotalPages,
		},
	})
}

// Get handles GET /v1/listings/:listingId — public.
//
// @Summary      Get a listing
// @Tags         listings
// @Produce      json
// @Param        listingId  path      string  true  "Listing id"
// @Success      200  {object}  domain.Listing
// @Failure      404  {object}  errorEnvelope
// @Router       /v1/listings/{listingId} [get]
func (h *ListingHandler) Get(c echo.Context) error {
	listing, err := h.service.Get(c.Request().Context(), c.Param("listingId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listing)
}

// Create handles POST /v1/listings — agents and admins only.
//
// @Summary      Publish a listing
// @Tags         listings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createListingRequest  true  "Listing fields"
// @Success      201   {object}  domain.Listing
// @Failure      400   {object}  errorEnvelope
// @Failure      401   {object}  errorEnvelope
// @Failure      403   {object}  errorEnvelope
// @Router       /v1/listings [post]
func (h *ListingHandler) Create(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req createListingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	listing, err := h.service.Create(c.Request().Context(), id, ports.CreateListingInput{
		Title:       req.Title,
		City:        req.City,
		Suburb:      req.Suburb,
		Price:       req.Price,
		AgencyID:    req.AgencyID,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, listing)
}

// Update handles PUT /v1/listings/:listingId — owning agent or admin.
//
// @Summary      Update a listing
// @Tags         listings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        listingId  path  string                true  "Listing id"
// @Param        body  body      updateListingRequest  true  "Partial fields"
// @Success      200   {object}  domain.Listing
// @Failure      403   {object}  errorEnvelope
// @Failure      404   {object}  errorEnvelope
// @Router       /v1/listings/{listingId} [put]
func (h *ListingHandler) Update(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req updateListingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	listing, err := h.service.Update(c.Request().Context(), id, c.Param("listingId"), ports.UpdateListingInput{
		Title:       req.Title,
		City:        req.City,
		Suburb:      req.Suburb,
		Price:       req.Price,
		AgencyID:    req.AgencyID,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listing)
}

// Delete handles DELETE /v1/listings/:listingId — owning agent or admin; cascades
// to the listing's images.
//
// @Summary      Delete a listing and its images
// @Tags         listings
// @Produce      json
// @Security     BearerAuth
// @Param        listingId  path      string  true  "Listing id"
// @Success      200  {object}  deleteListingResponse
// @Failure      403  {object}  errorEnvelope
// @Failure      404  {object}  errorEnvelope
// @Router       /v1/listings/{listingId} [delete]
func (h *ListingHandler) Delete(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	result, err := h.service.Delete(c.Request().Context(), id, c.Param("listingId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, deleteListingResponse{
		Message:       "listing and associated images deleted",
		ImagesDeleted: result.ImagesDeleted,
	})
}

// ByAgent handles GET /v1/listings/agent/:agentId — authenticated.
//
// @Summary      Listings by agent
// @Tags         listings
// @Produce      json
// @Security     BearerAuth
// @Param        agentId  path      string  true  "Agent id"
// @Success      200      {array}   domain.Listing
// @Router       /v1/listings/agent/{agentId} [get]
func (h *ListingHandler) ByAgent(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	listings, err := h.service.ByAgent(c.Request().Context(), id, c.Param("agentId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listings)
}

// ByAgency handles GET /v1/listings/agency/:agencyId — authenticated.
//
// @Summary      Listings by agency
// @Tags         listings
// @Produce      json
// @Security     BearerAuth
// @Param        agencyId  path      string  true  "Agency id"
// @Success      200       {array}   domain.Listing
// @Router       /v1/listings/agency/{agencyId} [get]
func (h *ListingHandler) ByAgency(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	listings, err := h.service.ByAgency(c.Request().Context(), id, c.Param("agencyId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listings)
}

// Mine handles GET /v1/listings/mine — the caller's own listings.
//
// @Summary      Own listings
// @Tags         listings
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.Listing
// @Router       /v1/listings/mine [get]
func (h *ListingHandler) Mine(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	listings, err := h.service.Mine(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listings)
}

// queryInt parses an integer query parameter, falling back to def.
func queryInt(c echo.Context, name string, def int) int {
	v := c.QueryParam(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
