package handler

import "github.com/realtydir/directory-api/internal/core/domain"

// createListingRequest deliberately has no listing_agent field: the owner
// is always the authenticated caller.
type createListingRequest struct {
	Title       string  `json:"title"          validate:"required"`
	City        string  `json:"city"           validate:"required"`
	Suburb      string  `json:"suburb"         validate:"required"`
	Price       float64 `json:"price"          validate:"gte=0"`
	AgencyID    string  `json:"listing_agency" validate:"required"`
	Description string  `json:"description"`
}

type updateListingRequest struct {
	Title       *string  `json:"title"`
	City        *string  `json:"city"`
	Suburb      *string  `json:"suburb"`
	Price       *float64 `json:"price"`
	AgencyID    *string  `json:"listing_agency"`
	Description *string  `json:"description"`
}

type paginationResponse struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

type listListingsResponse struct {
	Listings   []*domain.Listing  `json:"listings"`
	Pagination paginationResponse `json:"pagination"`
}

type deleteListingResponse struct {
	Message       string `json:"message"`
	ImagesDeleted int64  `json:"images_deleted"`
}
