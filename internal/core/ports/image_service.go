package ports

import (
	"context"

	"github.com/realtydir/directory-api/internal/core/domain"
)

// ImageService defines use-case operations for listing images. Every
// mutation is gated by ownership of the parent listing.
type ImageService interface {
	ListForListing(ctx context.Context, listingID string) ([]*domain.Image, error)
	Add(ctx context.Context, id *domain.Identity, listingID, url string) (*domain.Image, error)
	Update(ctx context.Context, id *domain.Identity, imageID, url string) (*domain.Image, error)
	Delete(ctx context.Context, id *domain.Identity, imageID string) error
}
