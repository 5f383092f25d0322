package ports

import (
	"context"

	"github.com/realtydir/directory-api/internal/core/domain"
)

// AgencyRepository defines persistence operations for agencies.
type AgencyRepository interface {
	Create(ctx context.Context, agency *domain.Agency) (*domain.Agency, error)
	FindByID(ctx context.Context, id string) (*domain.Agency, error)
	// List returns a page of agencies, newest first, and the total count.
	List(ctx context.Context, page, limit int) ([]*domain.Agency, int64, error)
	// FindChildren returns agencies whose parent is the given agency.
	FindChildren(ctx context.Context, parentID string) ([]*domain.Agency, error)
	Update(ctx context.Context, agency *domain.Agency) (*domain.Agency, error)
	Delete(ctx context.Context, id string) error
	// ReparentChildren moves every child of oldParentID under newParentID.
	// newParentID may be empty to promote children to roots.
	ReparentChildren(ctx context.Context, oldParentID, newParentID string) error
	Count(ctx context.Context) (int64, error)
}
