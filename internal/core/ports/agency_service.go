package ports

import (
	"context"

	"github.com/realtydir/directory-api/internal/core/domain"
)

// AgencyInput carries the fields for creating or replacing an agency.
type AgencyInput struct {
	Name           string
	Email          string
	Phone          string
	WhatsappNumber string
	Address        string
	PrimarySuburb  string
	AllowedSuburbs []string
	ParentAgencyID string
	Logo           string
}

// ListAgenciesResult is a page of agencies plus pagination totals.
type ListAgenciesResult struct {
	Items      []*domain.Agency
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// AgencyService defines use-case operations for agencies. Reads require any
// authenticated caller; mutations are admin-only and validate the parent
// chain against cycles.
type AgencyService interface {
	List(ctx context.Context, id *domain.Identity, page, limit int) (*ListAgenciesResult, error)
	Get(ctx context.Context, id *domain.Identity, agencyID string) (*domain.Agency, error)
	Children(ctx context.Context, id *domain.Identity, agencyID string) ([]*domain.Agency, error)
	Create(ctx context.Context, id *domain.Identity, input AgencyInput) (*domain.Agency, error)
	Update(ctx context.Context, id *domain.Identity, agencyID string, input AgencyInput) (*domain.Agency, error)
	Delete(ctx context.Context, id *domain.Identity, agencyID string) error
}
