package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/realtydir/directory-api/internal/api/metrics"
	"github.com/realtydir/directory-api/internal/core/domain"
	"github.com/realtydir/directory-api/internal/core/ports"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// ListingService implements listing CRUD with ownership enforcement and
// best-effort cascade deletion of images.
type ListingService struct {
	listings ports.ListingRepository
	images   ports.ImageRepository
	agencies ports.AgencyRepository
	log      zerolog.Logger
}

func NewListingService(listings ports.ListingRepository, images ports.ImageRepository, agencies ports.AgencyRepository, log zerolog.Logger) *ListingService {
	return &ListingService{listings: listings, images: images, agencies: agencies, log: log}
}

// Create publishes a listing. The owning agent is always the caller — any
// agent id supplied by the client is ignored, the input has no such field.
func (s *ListingService) Create(ctx context.Context, id *domain.Identity, input ports.CreateListingInput) (*domain.Listing, error) {
	if err := domain.Authorize(id, domain.ActionCreate, domain.Resource{Kind: domain.ResourceListing}); err != nil {
		return nil, err
	}

	if input.Title == "" || input.City == "" || input.Suburb == "" || input.AgencyID == "" {
		return nil, domain.ErrValidation
	}
	if input.Price < 0 {
		return nil, fmt.Errorf("%w: price must not be negative", domain.ErrValidation)
	}
	if _, err := s.agencies.FindByID(ctx, input.AgencyID); err != nil {
		return nil, fmt.Errorf("%w: unknown agency", domain.ErrValidation)
	}

	listing := &domain.Listing{
		Title:       input.Title,
		City:        input.City,
		Suburb:      input.Suburb,
		Price:       input.Price,
		AgentID:     id.UserID,
		AgencyID:    input.AgencyID,
		Description: input.Description,
	}

	created, err := s.listings.Create(ctx, listing)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to create listing")
		return nil, err
	}

	metrics.ListingsCreatedTotal.WithLabelValues(created.City).Inc()
	s.log.Info().Str("listing_id", created.ID).Str("agent_id", id.UserID).Msg("listing created")
	return created, nil
}

// Get returns a single listing; the catalog is public.
func (s *ListingService) Get(ctx context.Context, listingID string) (*domain.Listing, error) {
	return s.listings.FindByID(ctx, listingID)
}

// List returns a filtered page of the public catalog, newest first.
func (s *ListingService) List(ctx context.Context, filter ports.ListListingsFilter) (*ports.ListListingsResult, error) {
	filter.Page, filter.Limit = clampPage(filter.Page, filter.Limit)

	items, total, err := s.listings.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &ports.ListListingsResult{
		Items:      items,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages(total, filter.Limit),
	}, nil
}

// Update applies a partial update after resolving the stored listing and
// checking ownership against it. The owning agent cannot be reassigned.
func (s *ListingService) Update(ctx context.Context, id *domain.Identity, listingID string, input ports.UpdateListingInput) (*domain.Listing, error) {
	listing, err := s.listings.FindByID(ctx, listingID)
	if err != nil {
		return nil, err
	}

	if err := domain.Authorize(id, domain.ActionUpdate, domain.Resource{
		Kind:    domain.ResourceListing,
		OwnerID: listing.AgentID,
	}); err != nil {
		return nil, err
	}

	if input.Title != nil {
		listing.Title = *input.Title
	}
	if input.City != nil {
		listing.City = *input.City
	}
	if input.Suburb != nil {
		listing.Suburb = *input.Suburb
	}
	if input.Price != nil {
		if *input.Price < 0 {
			return nil, fmt.Errorf("%w: price must not be negative", domain.ErrValidation)
		}
		listing.Price = *input.Price
	}
	if input.AgencyID != nil {
		if _, err := s.agencies.FindByID(ctx, *input.AgencyID); err != nil {
			return nil, fmt.Errorf("%w: unknown agency", domain.ErrValidation)
		}
		listing.AgencyID = *input.AgencyID
	}
	if input.Description != nil {
		listing.Description = *input.Description
	}

	return s.listings.Update(ctx, listing)
}

// Delete removes the listing and its images. Children go first; the two
// deletes are not transactional, so a partial cascade is surfaced as a
// warning and a metric rather than silently swallowed.
func (s *ListingService) Delete(ctx context.Context, id *domain.Identity, listingID string) (*ports.DeleteListingResult, error) {
	listing, err := s.listings.FindByID(ctx, listingID)
	if err != nil {
		return nil, err
	}

	if err := domain.Authorize(id, domain.ActionDelete, domain.Resource{
		Kind:    domain.ResourceListing,
		OwnerID: listing.AgentID,
	}); err != nil {
		return nil, err
	}

	expected, err := s.images.CountByListing(ctx, listingID)
	if err != nil {
		return nil, fmt.Errorf("count images for cascade: %w", err)
	}

	deleted, err := s.images.DeleteByListing(ctx, listingID)
	if err != nil {
		metrics.OrphanedImagesTotal.Add(float64(expected))
		s.log.Warn().Err(err).Str("listing_id", listingID).Int64("images", expected).
			Msg("image cascade failed, listing kept")
		return nil, fmt.Errorf("cascade delete images: %w", err)
	}
	if deleted != expected {
		orphans := expected - deleted
		metrics.OrphanedImagesTotal.Add(float64(orphans))
		s.log.Warn().Str("listing_id", listingID).Int64("orphans", orphans).
			Msg("image cascade incomplete")
	}

	if err := s.listings.Delete(ctx, listingID); err != nil {
		// Images are already gone; the listing survives without them.
		s.log.Error().Err(err).Str("listing_id", listingID).Msg("listing delete failed after image cascade")
		return nil, err
	}

	s.log.Info().Str("listing_id", listingID).Int64("images_deleted", deleted).Msg("listing deleted")
	return &ports.DeleteListingResult{ImagesDeleted: deleted}, nil
}

// ByAgent returns an agent's listings; requires an authenticated caller.
func (s *ListingService) ByAgent(ctx context.Context, id *domain.Identity, agentID string) ([]*domain.Listing, error) {
	if id == nil {
		return nil, domain.ErrAuthentication
	}
	return s.listings.FindByAgent(ctx, agentID)
}

// ByAgency returns an agency's listings; requires an authenticated caller.
func (s *ListingService) ByAgency(ctx context.Context, id *domain.Identity, agencyID string) ([]*domain.Listing, error) {
	if id == nil {
		return nil, domain.ErrAuthentication
	}
	return s.listings.FindByAgency(ctx, agencyID)
}

// Mine returns the caller's own listings.
func (s *ListingService) Mine(ctx context.Context, id *domain.Identity) ([]*domain.Listing, error) {
	if id == nil {
		return nil, domain.ErrAuthentication
	}
	return s.listings.FindByAgent(ctx, id.UserID)
}

func clampPage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}

func totalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	pages := int(total) / limit
	if int(total)%limit != 0 {
		pages++
	}
	return pages
}
