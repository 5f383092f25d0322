package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/realtydir/directory-api/internal/core/domain"
	"github.com/realtydir/directory-api/internal/core/ports"
)

// ImageService implements image CRUD. Images carry no owner of their own:
// every mutation resolves the parent listing and checks its owning agent.
type ImageService struct {
	images   ports.ImageRepository
	listings ports.ListingRepository
	log      zerolog.Logger
}

func NewImageService(images ports.ImageRepository, listings ports.ListingRepository, log zerolog.Logger) *ImageService {
	return &ImageService{images: images, listings: listings, log: log}
}

// ListForListing returns all images of a listing; public.
func (s *ImageService) ListForListing(ctx context.Context, listingID string) ([]*domain.Image, error) {
	return s.images.FindByListing(ctx, listingID)
}

// Add attaches an image to a listing the caller may mutate.
func (s *ImageService) Add(ctx context.Context, id *domain.Identity, listingID, url string) (*domain.Image, error) {
	listing, err := s.listings.FindByID(ctx, listingID)
	if err != nil {
		return nil, err
	}

	if err := domain.Authorize(id, domain.ActionCreate, domain.Resource{
		Kind:    domain.ResourceImage,
		OwnerID: listing.AgentID,
	}); err != nil {
		return nil, err
	}
	// Create on an image still requires owning the parent; the create rule
	// alone only proves the caller is an agent.
	if id.Role != domain.RoleAdmin && !listing.OwnedBy(id.UserID) {
		return nil, domain.ErrForbidden
	}

	if url == "" {
		return nil, fmt.Errorf("%w: url is required", domain.ErrValidation)
	}

	image, err := s.images.Create(ctx, &domain.Image{URL: url, ListingID: listingID})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("image_id", image.ID).Str("listing_id", listingID).Msg("image added")
	return image, nil
}

// Update replaces an image URL after checking the parent listing's owner.
func (s *ImageService) Update(ctx context.Context, id *domain.Identity, imageID, url string) (*domain.Image, error) {
	image, owner, err := s.resolve(ctx, imageID)
	if err != nil {
		return nil, err
	}

	if err := domain.Authorize(id, domain.ActionUpdate, domain.Resource{
		Kind:    domain.ResourceImage,
		OwnerID: owner,
	}); err != nil {
		return nil, err
	}

	if url == "" {
		return nil, fmt.Errorf("%w: url is required", domain.ErrValidation)
	}

	image.URL = url
	return s.images.Update(ctx, image)
}

// Delete removes a single image after checking the parent listing's owner.
func (s *ImageService) Delete(ctx context.Context, id *domain.Identity, imageID string) error {
	_, owner, err := s.resolve(ctx, imageID)
	if err != nil {
		return err
	}

	if err := domain.Authorize(id, domain.ActionDelete, domain.Resource{
		Kind:    domain.ResourceImage,
		OwnerID: owner,
	}); err != nil {
		return err
	}

	return s.images.Delete(ctx, imageID)
}

// resolve loads the image and the owning agent of its parent listing.
func (s *ImageService) resolve(ctx context.Context, imageID string) (*domain.Image, string, error) {
	image, err := s.images.FindByID(ctx, imageID)
	if err != nil {
		return nil, "", err
	}

	listing, err := s.listings.FindByID(ctx, image.ListingID)
	if err != nil {
		// The parent is gone; treat the image as unreachable.
		return nil, "", fmt.Errorf("resolve image owner: %w", err)
	}
	return image, listing.AgentID, nil
}
