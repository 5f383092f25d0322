package ports

import (
	"context"

	"github.com/realtydir/directory-api/internal/core/domain"
)

// ImageRepository defines persistence operations for listing images.
type ImageRepository interface {
	Create(ctx context.Context, image *domain.Image) (*domain.Image, error)
	FindByID(ctx context.Context, id string) (*domain.Image, error)
	FindByListing(ctx context.Context, listingID string) ([]*domain.Image, error)
	Update(ctx context.Context, image *domain.Image) (*domain.Image, error)
	Delete(ctx context.Context, id string) error
	// DeleteByListing removes every image attached to the listing and
	// returns how many were removed.
	DeleteByListing(ctx context.Context, listingID string) (int64, error)
	CountByListing(ctx context.Context, listingID string) (int64, error)
	Count(ctx context.Context) (int64, error)
}
