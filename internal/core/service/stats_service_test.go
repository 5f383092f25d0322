package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/realtydir/directory-api/internal/core/domain"
)

func newStatsFixture(t *testing.T) (*StatsService, *memUserRepo, *memAgencyRepo, *memListingRepo, *memImageRepo) {
	t.Helper()
	users := newMemUserRepo()
	agencies := newMemAgencyRepo()
	images := newMemImageRepo()
	listings := newMemListingRepo(images)
	svc := NewStatsService(users, agencies, listings, images, zerolog.Nop())
	return svc, users, agencies, listings, images
}

func TestStatsService_ComputeStats_AdminOnly(t *testing.T) {
	svc, _, _, _, _ := newStatsFixture(t)

	if _, err := svc.ComputeStats(context.Background(), nil); !errors.Is(err, domain.ErrAuthentication) {
		t.Fatalf("anonymous: expected ErrAuthentication, got %v", err)
	}
	agent := &domain.Identity{UserID: "a1", Role: domain.RoleAgent}
	if _, err := svc.ComputeStats(context.Background(), agent); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("agent: expected ErrForbidden, got %v", err)
	}
}

func TestStatsService_ComputeStats_EmptyDirectory(t *testing.T) {
	svc, _, _, _, _ := newStatsFixture(t)

	stats, err := svc.ComputeStats(context.Background(), adminID)
	if err != nil {
		t.Fatalf("ComputeStats returned error: %v", err)
	}
	if stats.Listings != 0 || stats.Users != 0 || stats.Agencies != 0 || stats.Images != 0 {
		t.Fatalf("expected zero totals: %+v", stats)
	}
	// No listings means an average of 0, not an error.
	if stats.AveragePrice != 0 {
		t.Fatalf("expected zero average price, got %f", stats.AveragePrice)
	}
	if len(stats.UsersByRole) != 0 {
		t.Fatalf("empty directory should yield an empty histogram: %v", stats.UsersByRole)
	}
}

func TestStatsService_ComputeStats_Totals(t *testing.T) {
	svc, users, agencies, listings, images := newStatsFixture(t)
	ctx := context.Background()

	_, _ = users.Create(ctx, &domain.User{FirstName: "A", LastName: "1", Email: "a@x.test", Role: domain.RoleAdmin})
	_, _ = users.Create(ctx, &domain.User{FirstName: "B", LastName: "2", Email: "b@x.test", Role: domain.RoleAgent})
	_, _ = users.Create(ctx, &domain.User{FirstName: "C", LastName: "3", Email: "c@x.test", Role: domain.RoleAgent})

	_, _ = agencies.Create(ctx, &domain.Agency{Name: "Acme", Email: "info@acme.test"})

	l1, _ := listings.Create(ctx, &domain.Listing{Title: "a", Price: 100, AgentID: "agent-1"})
	_, _ = listings.Create(ctx, &domain.Listing{Title: "b", Price: 300, AgentID: "agent-1"})

	_, _ = images.Create(ctx, &domain.Image{ListingID: l1.ID, URL: "http://img.test/1"})

	stats, err := svc.ComputeStats(ctx, adminID)
	if err != nil {
		t.Fatalf("ComputeStats returned error: %v", err)
	}
	if stats.Users != 3 || stats.Agencies != 1 || stats.Listings != 2 || stats.Images != 1 {
		t.Fatalf("unexpected totals: %+v", stats)
	}
	if stats.AveragePrice != 200 {
		t.Fatalf("expected average 200, got %f", stats.AveragePrice)
	}
	if stats.UsersByRole[domain.RoleAgent] != 2 || stats.UsersByRole[domain.RoleAdmin] != 1 {
		t.Fatalf("unexpected histogram: %v", stats.UsersByRole)
	}
	if _, present := stats.UsersByRole[domain.RoleUser]; present {
		t.Fatalf("roles with zero users must be absent, got %v", stats.UsersByRole)
	}
}

func TestStatsService_ComputeDashboard_AgentSlice(t *testing.T) {
	svc, _, agencies, listings, images := newStatsFixture(t)
	ctx := context.Background()

	_, _ = agencies.Create(ctx, &domain.Agency{Name: "Acme", Email: "info@acme.test"})

	// Three listings for the agent, two of them with images; one of those
	// two carries several images and must still count once.
	l1, _ := listings.Create(ctx, &domain.Listing{Title: "a", AgentID: "agent-1"})
	l2, _ := listings.Create(ctx, &domain.Listing{Title: "b", AgentID: "agent-1"})
	_, _ = listings.Create(ctx, &domain.Listing{Title: "c", AgentID: "agent-1"})
	_, _ = listings.Create(ctx, &domain.Listing{Title: "d", AgentID: "agent-2"})

	_, _ = images.Create(ctx, &domain.Image{ListingID: l1.ID, URL: "http://img.test/1"})
	_, _ = images.Create(ctx, &domain.Image{ListingID: l1.ID, URL: "http://img.test/2"})
	_, _ = images.Create(ctx, &domain.Image{ListingID: l2.ID, URL: "http://img.test/3"})

	agent := &domain.Identity{UserID: "agent-1", Role: domain.RoleAgent}
	dash, err := svc.ComputeDashboard(ctx, agent)
	if err != nil {
		t.Fatalf("ComputeDashboard returned error: %v", err)
	}
	if dash.TotalListings != 4 || dash.TotalAgencies != 1 {
		t.Fatalf("unexpected totals: %+v", dash)
	}
	if dash.Agent == nil {
		t.Fatalf("expected agent slice")
	}
	if dash.Agent.MyListings != 3 {
		t.Fatalf("expected 3 own listings, got %d", dash.Agent.MyListings)
	}
	if dash.Agent.MyListingsWithImages != 2 {
		t.Fatalf("expected 2 covered listings, got %d", dash.Agent.MyListingsWithImages)
	}
}

func TestStatsService_ComputeDashboard_NonAgent(t *testing.T) {
	svc, _, _, _, _ := newStatsFixture(t)

	user := &domain.Identity{UserID: "u1", Role: domain.RoleUser}
	dash, err := svc.ComputeDashboard(context.Background(), user)
	if err != nil {
		t.Fatalf("ComputeDashboard returned error: %v", err)
	}
	if dash.Agent != nil {
		t.Fatalf("plain user must not get the agent slice")
	}

	if _, err := svc.ComputeDashboard(context.Background(), nil); !errors.Is(err, domain.ErrAuthentication) {
		t.Fatalf("anonymous: expected ErrAuthentication, got %v", err)
	}
}
