package ports

import (
	"context"

	"github.com/realtydir/directory-api/internal/core/domain"
)

// CreateListingInput carries the fields for publishing a listing. The owning
// agent is never part of this input: it is forced to the caller's identity.
type CreateListingInput struct {
	Title       string
	City        string
	Suburb      string
	Price       float64
	AgencyID    string
	Description string
}

// UpdateListingInput carries a partial update; nil fields are left untouched.
type UpdateListingInput struct {
	Title       *string
	City        *string
	Suburb      *string
	Price       *float64
	AgencyID    *string
	Description *string
}

// ListListingsResult is a page of listings plus pagination totals.
type ListListingsResult struct {
	Items      []*domain.Listing
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// DeleteListingResult reports the outcome of a cascade delete.
type DeleteListingResult struct {
	ImagesDeleted int64
}

// ListingService defines use-case operations for listings. Identity is nil
// for anonymous catalog browsing; mutations require one.
type ListingService interface {
	Create(ctx context.Context, id *domain.Identity, input CreateListingInput) (*domain.Listing, error)
	Get(ctx context.Context, listingID string) (*domain.Listing, error)
	List(ctx context.Context, filter ListListingsFilter) (*ListListingsResult, error)
	Update(ctx context.Context, id *domain.Identity, listingID string, input UpdateListingInput) (*domain.Listing, error)
	// Delete removes the listing and cascades to its images, children first.
	Delete(ctx context.Context, id *domain.Identity, listingID string) (*DeleteListingResult, error)
	ByAgent(ctx context.Context, id *domain.Identity, agentID string) ([]*domain.Listing, error)
	ByAgency(ctx context.Context, id *domain.Identity, agencyID string) ([]*domain.Listing, error)
	Mine(ctx context.Context, id *domain.Identity) ([]*domain.Listing, error)
}
