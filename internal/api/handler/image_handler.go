package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/realtydir/directory-api/internal/core/ports"
)

type imageRequest struct {
	URL string `json:"url" validate:"required,url"`
}

// ImageHandler handles HTTP requests for listing images.
type ImageHandler struct {
	service ports.ImageService
}

func NewImageHandler(service ports.ImageService) *ImageHandler {
	return &ImageHandler{service: service}
}

// ListForListing handles GET /v1/listings/:listingId/images — public.
//
// @Summary      Images of a listing
// @Tags         images
// @Produce      json
// @Param        listingId  path      string  true  "Listing id"
// @Success      200        {array}   domain.Image
// @Router       /v1/listings/{listingId}/images [get]
func (h *ImageHandler) ListForListing(c echo.Context) error {
	images, err := h.service.ListForListing(c.Request().Context(), c.Param("listingId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, images)
}

// Add handles POST /v1/listings/:listingId/images — parent listing's owner
// or admin.
//
// @Summary      Attach an image to a listing
// @Tags         images
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        listingId  path      string        true  "Listing id"
// @Param        body       body      imageRequest  true  "Image URL"
// @Success      201        {object}  domain.Image
// @Failure      403        {object}  errorEnvelope
// @Failure      404        {object}  errorEnvelope
// @Router       /v1/listings/{listingId}/images [post]
func (h *ImageHandler) Add(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req imageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	image, err := h.service.Add(c.Request().Context(), id, c.Param("listingId"), req.URL)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, image)
}

// Update handles PUT /v1/images/:id — parent listing's owner or admin.
//
// @Summary      Update an image
// @Tags         images
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string        true  "Image id"
// @Param        body  body      imageRequest  true  "Image URL"
// @Success      200   {object}  domain.Image
// @Failure      403   {object}  errorEnvelope
// @Failure      404   {object}  errorEnvelope
// @Router       /v1/images/{id} [put]
func (h *ImageHandler) Update(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req imageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	image, err := h.service.Update(c.Request().Context(), id, c.Param("id"), req.URL)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, image)
}

// Delete handles DELETE /v1/images/:id — parent listing's owner or admin.
//
// @Summary      Delete an image
// @Tags         images
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Image id"
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  errorEnvelope
// @Failure      404  {object}  errorEnvelope
// @Router       /v1/images/{id} [delete]
func (h *ImageHandler) Delete(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), id, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "image deleted"})
}
