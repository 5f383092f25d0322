package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/realtydir/directory-api/internal/core/domain"
	"github.com/realtydir/directory-api/internal/core/ports"
)

// StatsService computes read-only summary statistics over the directory.
// Nothing in here mutates any resource.
type StatsService struct {
	users    ports.UserRepository
	agencies ports.AgencyRepository
	listings ports.ListingRepository
	images   ports.ImageRepository
	log      zerolog.Logger
}

func NewStatsService(users ports.UserRepository, agencies ports.AgencyRepository, listings ports.ListingRepository, images ports.ImageRepository, log zerolog.Logger) *StatsService {
	return &StatsService{users: users, agencies: agencies, listings: listings, images: images, log: log}
}

// ComputeStats returns directory-wide totals, the average listing price, and
// the role histogram; admin-only.
func (s *StatsService) ComputeStats(ctx context.Context, id *domain.Identity) (*ports.DirectoryStats, error) {
	if id == nil {
		return nil, domain.ErrAuthentication
	}
	if id.Role != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}

	users, err := s.users.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	agencies, err := s.agencies.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count agencies: %w", err)
	}
	listings, err := s.listings.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count listings: %w", err)
	}
	images, err := s.images.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count images: %w", err)
	}

	// AveragePrice is 0 over an empty collection, never an error.
	avgPrice, err := s.listings.AveragePrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("average price: %w", err)
	}

	byRole, err := s.users.CountByRole(ctx)
	if err != nil {
		return nil, fmt.Errorf("users by role: %w", err)
	}

	return &ports.DirectoryStats{
		Users:        users,
		Agencies:     agencies,
		Listings:     listings,
		Images:       images,
		AveragePrice: avgPrice,
		UsersByRole:  byRole,
	}, nil
}

// ComputeDashboard returns the caller's role-sensitive view: general totals
// for every authenticated user, plus per-agent counts for agents. The
// image-coverage count counts listings with at least one image, once each.
func (s *StatsService) ComputeDashboard(ctx context.Context, id *domain.Identity) (*ports.Dashboard, error) {
	if id == nil {
		return nil, domain.ErrAuthentication
	}

	listings, err := s.listings.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count listings: %w", err)
	}
	agencies, err := s.agencies.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count agencies: %w", err)
	}

	dash := &ports.Dashboard{
		TotalListings: listings,
		TotalAgencies: agencies,
	}

	if id.Role == domain.RoleAgent {
		mine, err := s.listings.CountByAgent(ctx, id.UserID)
		if err != nil {
			return nil, fmt.Errorf("count agent listings: %w", err)
		}
		covered, err := s.listings.CountByAgentWithImages(ctx, id.UserID)
		if err != nil {
			return nil, fmt.Errorf("count agent listings with images: %w", err)
		}
		dash.Agent = &ports.AgentDashboard{
			MyListings:           mine,
			MyListingsWithImages: covered,
		}
	}

	return dash, nil
}
