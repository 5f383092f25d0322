package ports

import (
	"context"

	"github.com/realtydir/directory-api/internal/core/domain"
)

// DirectoryStats holds the directory-wide totals, admin-only.
type DirectoryStats struct {
	Users        int64
	Agencies     int64
	Listings     int64
	Images       int64
	AveragePrice float64
	// UsersByRole maps role to count; roles with zero users are omitted.
	UsersByRole map[domain.Role]int64
}

// AgentDashboard is the agent-specific slice of the dashboard.
type AgentDashboard struct {
	MyListings           int64
	MyListingsWithImages int64
}

// Dashboard is the role-sensitive caller view: general totals for everyone,
// plus the agent slice when the caller is an agent.
type Dashboard struct {
	TotalListings int64
	TotalAgencies int64
	Agent         *AgentDashboard
}

// StatsService computes read-only summary statistics over the directory.
type StatsService interface {
	ComputeStats(ctx context.Context, id *domain.Identity) (*DirectoryStats, error)
	ComputeDashboard(ctx context.Context, id *domain.Identity) (*Dashboard, error)
}
