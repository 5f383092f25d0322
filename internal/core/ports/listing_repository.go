package ports

import (
	"context"

	"github.com/realtydir/directory-api/internal/core/domain"
)

// ListListingsFilter carries all query parameters for browsing listings.
type ListListingsFilter struct {
	City     string  // optional: case-insensitive partial match
	Suburb   string  // optional: case-insensitive partial match
	MinPrice float64 // optional when <= 0
	MaxPrice float64 // optional when <= 0
	AgentID  string  // optional: owning agent
	AgencyID string  // optional: carrying agency
	Page     int     // 1-based
	Limit    int     // max rows per page (capped by the service)
}

// ListingRepository defines persistence operations for listings, including
// the aggregate queries the stats engine relies on.
type ListingRepository interface {
	Create(ctx context.Context, listing *domain.Listing) (*domain.Listing, error)
	FindByID(ctx context.Context, id string) (*domain.Listing, error)
	// List returns a page of listings matching filter, newest first, and
	// the total count.
	List(ctx context.Context, filter ListListingsFilter) ([]*domain.Listing, int64, error)
	FindByAgent(ctx context.Context, agentID string) ([]*domain.Listing, error)
	FindByAgency(ctx context.Context, agencyID string) ([]*domain.Listing, error)
	Update(ctx context.Context, listing *domain.Listing) (*domain.Listing, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
	// AveragePrice returns the mean price across all listings, 0 when the
	// collection is empty.
	AveragePrice(ctx context.Context) (float64, error)
	CountByAgent(ctx context.Context, agentID string) (int64, error)
	// CountByAgentWithImages counts the agent's listings that have at least
	// one image, counting each listing once however many images it has.
	CountByAgentWithImages(ctx context.Context, agentID string) (int64, error)
}
