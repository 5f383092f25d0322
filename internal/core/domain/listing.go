package domain

import (
	"errors"
	"time"
)

var ErrListingNotFound = errors.New("listing not found")
var ErrImageNotFound = errors.New("image not found")
var ErrForbidden = errors.New("access forbidden")
var ErrValidation = errors.New("validation failed")

// Listing is a published property. Exactly one agent owns it (AgentID) and
// exactly one agency carries it. Images are stored separately and
// back-reference the listing by id.
type Listing struct {
	ID          string    `json:"id" bson:"_id,omitempty"`
	Title       string    `json:"title" bson:"title"`
	City        string    `json:"city" bson:"city"`
	Suburb      string    `json:"suburb" bson:"suburb"`
	Price       float64   `json:"price" bson:"price"`
	AgentID     string    `json:"listing_agent" bson:"listing_agent"`
	AgencyID    string    `json:"listing_agency" bson:"listing_agency"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
}

// OwnedBy reports whether the given user id owns this listing.
func (l *Listing) OwnedBy(userID string) bool {
	return userID != "" && l.AgentID == userID
}

// Image is a photo attached to a listing. Whoever may mutate the parent
// listing may mutate its images; nothing else identifies an owner.
type Image struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	URL       string    `json:"url" bson:"url"`
	ListingID string    `json:"listing_id" bson:"listing_id"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}
