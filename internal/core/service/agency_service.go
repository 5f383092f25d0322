package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/realtydir/directory-api/internal/core/domain"
	"github.com/realtydir/directory-api/internal/core/ports"
)

// AgencyService implements agency CRUD. Reads are for any authenticated
// caller; mutations are admin-only and the parent chain is validated
// against cycles before every write.
type AgencyService struct {
	repo ports.AgencyRepository
	log  zerolog.Logger
}

func NewAgencyService(repo ports.AgencyRepository, log zerolog.Logger) *AgencyService {
	return &AgencyService{repo: repo, log: log}
}

// List returns a page of the agency directory.
func (s *AgencyService) List(ctx context.Context, id *domain.Identity, page, limit int) (*ports.ListAgenciesResult, error) {
	if err := domain.Authorize(id, domain.ActionList, domain.Resource{Kind: domain.ResourceAgency}); err != nil {
		return nil, err
	}

	page, limit = clampPage(page, limit)
	items, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, err
	}

	return &ports.ListAgenciesResult{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(total, limit),
	}, nil
}

// Get returns a single agency.
func (s *AgencyService) Get(ctx context.Context, id *domain.Identity, agencyID string) (*domain.Agency, error) {
	if err := domain.Authorize(id, domain.ActionRead, domain.Resource{Kind: domain.ResourceAgency}); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, agencyID)
}

// Children returns the agencies directly under the given one.
func (s *AgencyService) Children(ctx context.Context, id *domain.Identity, agencyID string) ([]*domain.Agency, error) {
	if err := domain.Authorize(id, domain.ActionRead, domain.Resource{Kind: domain.ResourceAgency}); err != nil {
		return nil, err
	}
	if _, err := s.repo.FindByID(ctx, agencyID); err != nil {
		return nil, err
	}
	return s.repo.FindChildren(ctx, agencyID)
}

// Create adds an agency; admin-only.
func (s *AgencyService) Create(ctx context.Context, id *domain.Identity, input ports.AgencyInput) (*domain.Agency, error) {
	if err := domain.Authorize(id, domain.ActionCreate, domain.Resource{Kind: domain.ResourceAgency}); err != nil {
		return nil, err
	}

	if input.Name == "" || input.Email == "" {
		return nil, domain.ErrValidation
	}

	if input.ParentAgencyID != "" {
		if _, err := s.repo.FindByID(ctx, input.ParentAgencyID); err != nil {
			return nil, fmt.Errorf("%w: unknown parent agency", domain.ErrValidation)
		}
		// A fresh agency has no descendants, so only a broken ancestor
		// chain on the parent itself can form a cycle.
		if err := s.checkAncestorChain(ctx, input.ParentAgencyID); err != nil {
			return nil, err
		}
	}

	agency := agencyFromInput(input)
	created, err := s.repo.Create(ctx, agency)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("agency_id", created.ID).Str("name", created.Name).Msg("agency created")
	return created, nil
}

// Update replaces an agency; admin-only. Assigning a parent walks the
// candidate parent's ancestor chain and rejects the write if the chain
// reaches the agency being updated.
func (s *AgencyService) Update(ctx context.Context, id *domain.Identity, agencyID string, input ports.AgencyInput) (*domain.Agency, error) {
	if err := domain.Authorize(id, domain.ActionUpdate, domain.Resource{Kind: domain.ResourceAgency}); err != nil {
		return nil, err
	}

	agency, err := s.repo.FindByID(ctx, agencyID)
	if err != nil {
		return nil, err
	}

	if input.Name == "" || input.Email == "" {
		return nil, domain.ErrValidation
	}

	if input.ParentAgencyID != "" && input.ParentAgencyID != agency.ParentAgencyID {
		if input.ParentAgencyID == agencyID {
			return nil, domain.ErrAgencyCycle
		}
		if _, err := s.repo.FindByID(ctx, input.ParentAgencyID); err != nil {
			return nil, fmt.Errorf("%w: unknown parent agency", domain.ErrValidation)
		}
		if err := s.checkNoCycle(ctx, agencyID, input.ParentAgencyID); err != nil {
			return nil, err
		}
	}

	updated := agencyFromInput(input)
	updated.ID = agency.ID
	updated.CreatedAt = agency.CreatedAt
	return s.repo.Update(ctx, updated)
}

// Delete removes an agency; admin-only. Children are re-parented to the
// deleted agency's own parent so the tree stays connected — the parent link
// is a weak reference and must never cascade.
func (s *AgencyService) Delete(ctx context.Context, id *domain.Identity, agencyID string) error {
	if err := domain.Authorize(id, domain.ActionDelete, domain.Resource{Kind: domain.ResourceAgency}); err != nil {
		return err
	}

	agency, err := s.repo.FindByID(ctx, agencyID)
	if err != nil {
		return err
	}

	if err := s.repo.ReparentChildren(ctx, agencyID, agency.ParentAgencyID); err != nil {
		return fmt.Errorf("reparent children: %w", err)
	}

	if err := s.repo.Delete(ctx, agencyID); err != nil {
		return err
	}

	s.log.Info().Str("agency_id", agencyID).Msg("agency deleted")
	return nil
}

// checkNoCycle walks up from candidateParent; reaching agencyID means the
// assignment would close a loop.
func (s *AgencyService) checkNoCycle(ctx context.Context, agencyID, candidateParent string) error {
	current := candidateParent
	for depth := 0; current != ""; depth++ {
		if depth >= domain.MaxAgencyDepth {
			return domain.ErrAgencyCycle
		}
		if current == agencyID {
			return domain.ErrAgencyCycle
		}

		ancestor, err := s.repo.FindByID(ctx, current)
		if err != nil {
			// A dangling parent reference terminates the chain.
			return nil
		}
		current = ancestor.ParentAgencyID
	}
	return nil
}

// checkAncestorChain verifies the chain above parentID terminates.
func (s *AgencyService) checkAncestorChain(ctx context.Context, parentID string) error {
	return s.checkNoCycle(ctx, "", parentID)
}

func agencyFromInput(input ports.AgencyInput) *domain.Agency {
	return &domain.Agency{
		Name:           input.Name,
		Email:          normalizeEmail(input.Email),
		Phone:          input.Phone,
		WhatsappNumber: input.WhatsappNumber,
		Address:        input.Address,
		PrimarySuburb:  input.PrimarySuburb,
		AllowedSuburbs: input.AllowedSuburbs,
		ParentAgencyID: input.ParentAgencyID,
		Logo:           input.Logo,
	}
}
