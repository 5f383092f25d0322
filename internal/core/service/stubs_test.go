package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/realtydir/directory-api/internal/core/domain"
	"github.com/realtydir/directory-api/internal/core/ports"
)

// In-memory repository stubs shared by the service tests. Every read and
// write goes through a clone so tests cannot mutate stored state by
// accident.

type memUserRepo struct {
	seq   int
	users map[string]*domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *memUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	r.seq++
	copy := cloneUser(user)
	copy.ID = fmt.Sprintf("user-%d", r.seq)
	r.users[copy.ID] = cloneUser(copy)
	return copy, nil
}

func (r *memUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *memUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *memUserRepo) List(_ context.Context, filter ports.ListUsersFilter) ([]*domain.User, int64, error) {
	var matched []*domain.User
	for _, u := range r.users {
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		matched = append(matched, cloneUser(u))
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	total := int64(len(matched))
	start := (filter.Page - 1) * filter.Limit
	if start >= len(matched) {
		return nil, total, nil
	}
	end := start + filter.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r *memUserRepo) Update(_ context.Context, user *domain.User) (*domain.User, error) {
	stored, ok := r.users[user.ID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	copy := cloneUser(user)
	copy.PasswordHash = stored.PasswordHash
	r.users[copy.ID] = cloneUser(copy)
	return copy, nil
}

func (r *memUserRepo) SetPassword(_ context.Context, id, passwordHash string) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

func (r *memUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *memUserRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.users)), nil
}

func (r *memUserRepo) CountByRole(_ context.Context) (map[domain.Role]int64, error) {
	out := make(map[domain.Role]int64)
	for _, u := range r.users {
		out[u.Role]++
	}
	return out, nil
}

type memAgencyRepo struct {
	seq      int
	agencies map[string]*domain.Agency
}

func newMemAgencyRepo() *memAgencyRepo {
	return &memAgencyRepo{agencies: make(map[string]*domain.Agency)}
}

func cloneAgency(a *domain.Agency) *domain.Agency {
	if a == nil {
		return nil
	}
	clone := *a
	return &clone
}

func (r *memAgencyRepo) Create(_ context.Context, agency *domain.Agency) (*domain.Agency, error) {
	r.seq++
	copy := cloneAgency(agency)
	copy.ID = fmt.Sprintf("agency-%d", r.seq)
	r.agencies[copy.ID] = cloneAgency(copy)
	return copy, nil
}

func (r *memAgencyRepo) FindByID(_ context.Context, id string) (*domain.Agency, error) {
	a, ok := r.agencies[id]
	if !ok {
		return nil, domain.ErrAgencyNotFound
	}
	return cloneAgency(a), nil
}

func (r *memAgencyRepo) List(_ context.Context, page, limit int) ([]*domain.Agency, int64, error) {
	var all []*domain.Agency
	for _, a := range r.agencies {
		all = append(all, cloneAgency(a))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	total := int64(len(all))
	start := (page - 1) * limit
	if start >= len(all) {
		return nil, total, nil
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (r *memAgencyRepo) FindChildren(_ context.Context, parentID string) ([]*domain.Agency, error) {
	var children []*domain.Agency
	for _, a := range r.agencies {
		if a.ParentAgencyID == parentID {
			children = append(children, cloneAgency(a))
		}
	}
	sort.Slice(children, func(i, j int) bool { return children[i].ID < children[j].ID })
	return children, nil
}

func (r *memAgencyRepo) Update(_ context.Context, agency *domain.Agency) (*domain.Agency, error) {
	if _, ok := r.agencies[agency.ID]; !ok {
		return nil, domain.ErrAgencyNotFound
	}
	r.agencies[agency.ID] = cloneAgency(agency)
	return cloneAgency(agency), nil
}

func (r *memAgencyRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.agencies[id]; !ok {
		return domain.ErrAgencyNotFound
	}
	delete(r.agencies, id)
	return nil
}

func (r *memAgencyRepo) ReparentChildren(_ context.Context, oldParentID, newParentID string) error {
	for _, a := range r.agencies {
		if a.ParentAgencyID == oldParentID {
			a.ParentAgencyID = newParentID
		}
	}
	return nil
}

func (r *memAgencyRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.agencies)), nil
}

// seed inserts an agency under a fixed id, bypassing Create.
func (r *memAgencyRepo) seed(a *domain.Agency) {
	r.agencies[a.ID] = cloneAgency(a)
}

type memListingRepo struct {
	seq      int
	listings map[string]*domain.Listing
	// images lets the coverage count see which listings carry photos.
	images *memImageRepo
}

func newMemListingRepo(images *memImageRepo) *memListingRepo {
	return &memListingRepo{listings: make(map[string]*domain.Listing), images: images}
}

func cloneListing(l *domain.Listing) *domain.Listing {
	if l == nil {
		return nil
	}
	clone := *l
	return &clone
}

func (r *memListingRepo) Create(_ context.Context, listing *domain.Listing) (*domain.Listing, error) {
	r.seq++
	copy := cloneListing(listing)
	copy.ID = fmt.Sprintf("listing-%d", r.seq)
	r.listings[copy.ID] = cloneListing(copy)
	return copy, nil
}

func (r *memListingRepo) FindByID(_ context.Context, id string) (*domain.Listing, error) {
	l, ok := r.listings[id]
	if !ok {
		return nil, domain.ErrListingNotFound
	}
	return cloneListing(l), nil
}

func (r *memListingRepo) List(_ context.Context, filter ports.ListListingsFilter) ([]*domain.Listing, int64, error) {
	var matched []*domain.Listing
	for _, l := range r.listings {
		if filter.City != "" && !strings.Contains(strings.ToLower(l.City), strings.ToLower(filter.City)) {
			continue
		}
		if filter.Suburb != "" && !strings.Contains(strings.ToLower(l.Suburb), strings.ToLower(filter.Suburb)) {
			continue
		}
		if filter.MinPrice > 0 && l.Price < filter.MinPrice {
			continue
		}
		if filter.MaxPrice > 0 && l.Price > filter.MaxPrice {
			continue
		}
		if filter.AgentID != "" && l.AgentID != filter.AgentID {
			continue
		}
		if filter.AgencyID != "" && l.AgencyID != filter.AgencyID {
			continue
		}
		matched = append(matched, cloneListing(l))
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	total := int64(len(matched))
	start := (filter.Page - 1) * filter.Limit
	if start >= len(matched) {
		return nil, total, nil
	}
	end := start + filter.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r *memListingRepo) FindByAgent(_ context.Context, agentID string) ([]*domain.Listing, error) {
	var out []*domain.Listing
	for _, l := range r.listings {
		if l.AgentID == agentID {
			out = append(out, cloneListing(l))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memListingRepo) FindByAgency(_ context.Context, agencyID string) ([]*domain.Listing, error) {
	var out []*domain.Listing
	for _, l := range r.listings {
		if l.AgencyID == agencyID {
			out = append(out, cloneListing(l))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memListingRepo) Update(_ context.Context, listing *domain.Listing) (*domain.Listing, error) {
	if _, ok := r.listings[listing.ID]; !ok {
		return nil, domain.ErrListingNotFound
	}
	r.listings[listing.ID] = cloneListing(listing)
	return cloneListing(listing), nil
}

func (r *memListingRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.listings[id]; !ok {
		return domain.ErrListingNotFound
	}
	delete(r.listings, id)
	return nil
}

func (r *memListingRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.listings)), nil
}

func (r *memListingRepo) AveragePrice(_ context.Context) (float64, error) {
	if len(r.listings) == 0 {
		return 0, nil
	}
	var sum float64
	for _, l := range r.listings {
		sum += l.Price
	}
	return sum / float64(len(r.listings)), nil
}

func (r *memListingRepo) CountByAgent(_ context.Context, agentID string) (int64, error) {
	var n int64
	for _, l := range r.listings {
		if l.AgentID == agentID {
			n++
		}
	}
	return n, nil
}

func (r *memListingRepo) CountByAgentWithImages(ctx context.Context, agentID string) (int64, error) {
	var n int64
	for _, l := range r.listings {
		if l.AgentID != agentID {
			continue
		}
		count, err := r.images.CountByListing(ctx, l.ID)
		if err != nil {
			return 0, err
		}
		if count > 0 {
			n++
		}
	}
	return n, nil
}

type memImageRepo struct {
	seq    int
	images map[string]*domain.Image
	// failDeleteByListing makes the cascade fail outright; shortfall makes
	// DeleteByListing under-report by that many rows.
	failDeleteByListing error
	shortfall           int64
}

func newMemImageRepo() *memImageRepo {
	return &memImageRepo{images: make(map[string]*domain.Image)}
}

func cloneImage(i *domain.Image) *domain.Image {
	if i == nil {
		return nil
	}
	clone := *i
	return &clone
}

func (r *memImageRepo) Create(_ context.Context, image *domain.Image) (*domain.Image, error) {
	r.seq++
	copy := cloneImage(image)
	copy.ID = fmt.Sprintf("image-%d", r.seq)
	r.images[copy.ID] = cloneImage(copy)
	return copy, nil
}

func (r *memImageRepo) FindByID(_ context.Context, id string) (*domain.Image, error) {
	i, ok := r.images[id]
	if !ok {
		return nil, domain.ErrImageNotFound
	}
	return cloneImage(i), nil
}

func (r *memImageRepo) FindByListing(_ context.Context, listingID string) ([]*domain.Image, error) {
	var out []*domain.Image
	for _, i := range r.images {
		if i.ListingID == listingID {
			out = append(out, cloneImage(i))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memImageRepo) Update(_ context.Context, image *domain.Image) (*domain.Image, error) {
	if _, ok := r.images[image.ID]; !ok {
		return nil, domain.ErrImageNotFound
	}
	r.images[image.ID] = cloneImage(image)
	return cloneImage(image), nil
}

func (r *memImageRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.images[id]; !ok {
		return domain.ErrImageNotFound
	}
	delete(r.images, id)
	return nil
}

func (r *memImageRepo) DeleteByListing(_ context.Context, listingID string) (int64, error) {
	if r.failDeleteByListing != nil {
		return 0, r.failDeleteByListing
	}
	var deleted int64
	for id, i := range r.images {
		if i.ListingID == listingID {
			delete(r.images, id)
			deleted++
		}
	}
	return deleted - r.shortfall, nil
}

func (r *memImageRepo) CountByListing(_ context.Context, listingID string) (int64, error) {
	var n int64
	for _, i := range r.images {
		if i.ListingID == listingID {
			n++
		}
	}
	return n, nil
}

func (r *memImageRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.images)), nil
}

// memThrottle is an in-memory LoginThrottle: no windows, just counters.
type memThrottle struct {
	max      int
	failures map[string]int
}

func newMemThrottle(max int) *memThrottle {
	return &memThrottle{max: max, failures: make(map[string]int)}
}

func (t *memThrottle) TooMany(_ context.Context, email string) (bool, error) {
	return t.failures[email] >= t.max, nil
}

func (t *memThrottle) RecordFailure(_ context.Context, email string) error {
	t.failures[email]++
	return nil
}

func (t *memThrottle) Reset(_ context.Context, email string) error {
	delete(t.failures, email)
	return nil
}
